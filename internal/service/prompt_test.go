package service

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/set-night/pediabot/internal/config"
	"github.com/set-night/pediabot/internal/domain"
)

var (
	jpegImage = append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, []byte("jpeg body")...)
	pngImage  = append([]byte("\x89PNG\r\n\x1a\n"), []byte("png body")...)
)

func newTestComposer(sniff bool) *Composer {
	return NewComposer(&config.Config{SniffImageMediaType: sniff, MaxImageBytes: 1024})
}

func TestComposeCombinedTextOnly(t *testing.T) {
	comp, err := newTestComposer(false).Compose("fever", nil, domain.ModeCombined)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if comp.Payload.Kind != domain.PayloadTextOnly {
		t.Errorf("payload: got %s, want %s", comp.Payload.Kind, domain.PayloadTextOnly)
	}
	if comp.Instruction != GeneralInstruction {
		t.Error("expected the general-advice instruction")
	}
	if comp.UserText != "Symptoms: fever" {
		t.Errorf("user text: got %q", comp.UserText)
	}
	if comp.DisplayText != "fever" {
		t.Errorf("display text: got %q", comp.DisplayText)
	}
	if comp.AttachmentPresent() {
		t.Error("attachment present without an image")
	}
}

func TestComposeCombinedTextAndImage(t *testing.T) {
	comp, err := newTestComposer(false).Compose("  rash on arm  ", jpegImage, domain.ModeCombined)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if comp.Payload.Kind != domain.PayloadCombined {
		t.Errorf("payload: got %s", comp.Payload.Kind)
	}
	if !strings.HasPrefix(comp.UserText, "Symptoms: rash on arm") || !strings.HasSuffix(comp.UserText, attachedImageNote) {
		t.Errorf("user text: got %q", comp.UserText)
	}
	if !comp.AttachmentPresent() {
		t.Error("expected attachment")
	}
}

func TestComposeCombinedImageOnlyUsesPlaceholder(t *testing.T) {
	comp, err := newTestComposer(false).Compose("", jpegImage, domain.ModeCombined)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if comp.UserText != "Please analyze the attached image." {
		t.Errorf("user text: got %q", comp.UserText)
	}
	if comp.Instruction != GeneralInstruction {
		t.Error("combined mode must keep the general-advice instruction")
	}
	if !comp.AttachmentPresent() {
		t.Error("expected attachment")
	}
	if comp.DisplayText != displayImageAttached {
		t.Errorf("display text: got %q", comp.DisplayText)
	}
	if comp.Payload.Kind != domain.PayloadCombined || comp.Payload.Text != imagePlaceholder || !comp.Payload.HasImage() {
		t.Errorf("payload: kind %s, text %q", comp.Payload.Kind, comp.Payload.Text)
	}
}

func TestComposeCombinedWithoutInput(t *testing.T) {
	_, err := newTestComposer(false).Compose("   ", nil, domain.ModeCombined)
	if !errors.Is(err, domain.ErrNoInput) {
		t.Errorf("got %v, want ErrNoInput", err)
	}
}

func TestComposeImageOnly(t *testing.T) {
	c := newTestComposer(false)

	if _, err := c.Compose("fever", nil, domain.ModeImageOnly); !errors.Is(err, domain.ErrNoImageSupplied) {
		t.Fatalf("got %v, want ErrNoImageSupplied", err)
	}

	comp, err := c.Compose("ignored", jpegImage, domain.ModeImageOnly)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if comp.Instruction != ImageInstruction {
		t.Error("expected the image instruction")
	}
	if comp.Payload.Kind != domain.PayloadImageOnly {
		t.Errorf("payload: got %s", comp.Payload.Kind)
	}
	if comp.UserText != imageAnalysisRequest {
		t.Errorf("user text: got %q", comp.UserText)
	}
}

func TestComposeUnknownMode(t *testing.T) {
	if _, err := newTestComposer(false).Compose("fever", nil, domain.Mode("voice")); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestComposeRejectsImages(t *testing.T) {
	c := newTestComposer(false)

	if _, err := c.Compose("", []byte("GIF89a...."), domain.ModeCombined); !errors.Is(err, domain.ErrUnsupportedImage) {
		t.Errorf("gif: got %v, want ErrUnsupportedImage", err)
	}

	big := append([]byte{0xFF, 0xD8, 0xFF}, make([]byte, 2048)...)
	if _, err := c.Compose("", big, domain.ModeImageOnly); !errors.Is(err, domain.ErrImageTooLarge) {
		t.Errorf("big: got %v, want ErrImageTooLarge", err)
	}
}

func TestEncodeImageAlwaysLabelsJPEG(t *testing.T) {
	uri := EncodeImage(pngImage, false)
	wantPrefix := "data:image/jpeg;base64,"
	if !strings.HasPrefix(uri, wantPrefix) {
		t.Fatalf("uri: got %q", uri[:30])
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, wantPrefix))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(decoded) != string(pngImage) {
		t.Error("round trip mismatch")
	}
}

func TestEncodeImageSniff(t *testing.T) {
	if uri := EncodeImage(pngImage, true); !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Errorf("sniffed png: got %q", uri[:25])
	}
	comp, err := newTestComposer(true).Compose("", pngImage, domain.ModeImageOnly)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if !strings.HasPrefix(comp.ImageURL, "data:image/png;") {
		t.Errorf("image url: got %q", comp.ImageURL[:25])
	}
}
