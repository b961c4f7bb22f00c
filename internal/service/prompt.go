package service

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/set-night/pediabot/internal/config"
	"github.com/set-night/pediabot/internal/domain"
)

// GeneralInstruction is the system prompt for text and text+image consultations.
const GeneralInstruction = `You are a medical information chatbot that helps parents and caregivers with health concerns of children under 8 years old.

IMPORTANT: you never make a diagnosis and never confirm a specific disease. Your role is to give information about possible causes and symptoms, judge whether the situation is an emergency, and stress when a hospital visit is needed.

Always follow these principles:

1. Accuracy and safety: consider the physiology of children and never give uncertain information.
2. Emergency triage: when the child's condition may be dangerous (high fever, difficulty breathing, reduced consciousness and similar), tell the parent to go to a hospital or call emergency services immediately.
3. Support the parent's judgement: you are not a doctor, so phrase everything as "possible causes" or "suspected situations".
4. Medical disclaimer: end every answer with "This information is for reference only; an accurate diagnosis and treatment require a visit to a medical professional."
5. Plain language: explain any medical term simply, the reader is a parent.

When the user describes the child's symptoms (as text or an image), answer in this order:

1. Short restatement of the symptoms
2. Possible causes (2-3)
3. Whether to go to a hospital immediately, and how to decide
4. Initial home care (fluids, rest, cold compress and similar)
5. Precautions and signs to watch for
6. The disclaimer`

// ImageInstruction is the system prompt for image-only analysis.
const ImageInstruction = `You are a pediatric health consultation chatbot. Look at the image the user uploaded and analyze the child's health condition.

When analyzing the image:

1. Describe the visible symptoms
   - skin condition, wounds, rash, swelling, discoloration
   - location, size, shape and color, as concretely as possible

2. Possible causes
   - 2-3 possible causes of what you observe
   - prefer conditions and situations common in children

3. Urgency
   - whether an immediate hospital visit is needed
   - any emergency signs (serious infection, severe injury)

4. Initial care
   - first aid or care that can be done at home
   - things to avoid

5. What to watch
   - changes the parent should watch for
   - when to visit a hospital

IMPORTANT: an image alone is not enough for a diagnosis. State that all advice is an estimate based on what is visible in the image, and tell the parent to see a medical professional for an accurate diagnosis.`

const (
	symptomsPrefix       = "Symptoms: "
	attachedImageNote    = "\n\nPlease also analyze the attached image."
	imagePlaceholder     = "Please analyze the attached image."
	imageAnalysisRequest = "Look at this image and analyze the child's health condition. Cover the visible symptoms, possible causes, urgency and initial care in one comprehensive explanation."

	displayImageAttached = "I attached an image."
	displayImageAnalysis = "Requested image analysis."

	defaultImageMediaType = "image/jpeg"
)

// Composition is everything needed to issue one completion request and to
// record the user's turn.
type Composition struct {
	Mode        domain.Mode
	Payload     domain.RequestPayload
	Instruction string
	// UserText is the text fragment sent to the service.
	UserText string
	// DisplayText is what the transcript shows for the user's turn.
	DisplayText string
	// ImageURL is the data URI of the attached image, empty without one.
	ImageURL string
}

func (c *Composition) AttachmentPresent() bool {
	return c.ImageURL != ""
}

type Composer struct {
	sniffMediaType bool
	maxImageBytes  int
}

func NewComposer(cfg *config.Config) *Composer {
	return &Composer{
		sniffMediaType: cfg.SniffImageMediaType,
		maxImageBytes:  cfg.MaxImageBytes,
	}
}

// Compose builds the request for the given mode. Errors are returned before
// anything is sent or recorded.
func (c *Composer) Compose(symptoms string, image []byte, mode domain.Mode) (*Composition, error) {
	symptoms = strings.TrimSpace(symptoms)
	hasText := symptoms != ""
	hasImage := len(image) > 0

	if hasImage {
		if err := c.CheckImage(image); err != nil {
			return nil, err
		}
	}

	switch mode {
	case domain.ModeImageOnly:
		if !hasImage {
			return nil, domain.ErrNoImageSupplied
		}
		return &Composition{
			Mode:        mode,
			Payload:     domain.RequestPayload{Kind: domain.PayloadImageOnly, Image: image},
			Instruction: ImageInstruction,
			UserText:    imageAnalysisRequest,
			DisplayText: displayImageAnalysis,
			ImageURL:    EncodeImage(image, c.sniffMediaType),
		}, nil

	case domain.ModeCombined:
		comp := &Composition{
			Mode:        mode,
			Instruction: GeneralInstruction,
		}
		switch {
		case hasText && hasImage:
			comp.Payload = domain.RequestPayload{Kind: domain.PayloadCombined, Text: symptoms, Image: image}
			comp.UserText = symptomsPrefix + symptoms + attachedImageNote
			comp.DisplayText = symptoms
		case hasText:
			comp.Payload = domain.RequestPayload{Kind: domain.PayloadTextOnly, Text: symptoms}
			comp.UserText = symptomsPrefix + symptoms
			comp.DisplayText = symptoms
		case hasImage:
			// The request format needs a text fragment in every user turn,
			// so the placeholder stands in for the symptoms.
			comp.Payload = domain.RequestPayload{Kind: domain.PayloadCombined, Text: imagePlaceholder, Image: image}
			comp.UserText = imagePlaceholder
			comp.DisplayText = displayImageAttached
		default:
			return nil, domain.ErrNoInput
		}
		if hasImage {
			comp.ImageURL = EncodeImage(image, c.sniffMediaType)
		}
		return comp, nil
	}

	return nil, fmt.Errorf("unknown mode %q", mode)
}

// CheckImage enforces the upload size limit and the accepted image types.
func (c *Composer) CheckImage(image []byte) error {
	if c.maxImageBytes > 0 && len(image) > c.maxImageBytes {
		return fmt.Errorf("%w: %d bytes, limit %d", domain.ErrImageTooLarge, len(image), c.maxImageBytes)
	}
	mediaType := http.DetectContentType(image)
	if !slices.Contains(config.AllowedImageTypes, mediaType) {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedImage, mediaType)
	}
	return nil
}

// EncodeImage wraps the image in a base64 data URI. The media type is
// always declared as JPEG unless sniff is set, PNG uploads included.
func EncodeImage(image []byte, sniff bool) string {
	mediaType := defaultImageMediaType
	if sniff {
		mediaType = http.DetectContentType(image)
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(image)
}
