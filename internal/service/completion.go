package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"github.com/set-night/pediabot/internal/config"
	"github.com/set-night/pediabot/internal/domain"
)

var errNoChoices = errors.New("completion service returned no choices")

// CompletionRequest is one call to the external completion service.
type CompletionRequest struct {
	Instruction string
	UserText    string
	ImageURL    string
	Profile     config.Profile
	Credential  string
}

// Completer issues a single chat completion and returns the assistant text.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// OpenAICompleter talks to an OpenAI-compatible chat completions endpoint.
// The credential is supplied per request since every session brings its own.
type OpenAICompleter struct {
	client openai.Client
	model  string
}

func NewOpenAICompleter(cfg *config.Config) *OpenAICompleter {
	client := openai.NewClient(
		option.WithBaseURL(cfg.OpenAIBaseURL),
		option.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
		option.WithMaxRetries(0),
	)
	return &OpenAICompleter{client: client, model: cfg.Model}
}

func (c *OpenAICompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(req.UserText),
	}
	if req.ImageURL != "" {
		parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL:    req.ImageURL,
			Detail: config.ImageDetail,
		}))
	}

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.Instruction),
			openai.UserMessage(parts),
		},
		MaxTokens:   openai.Int(req.Profile.MaxTokens),
		Temperature: openai.Float(req.Profile.Temperature),
	}

	resp, err := c.client.Chat.Completions.New(ctx, params, option.WithAPIKey(req.Credential))
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}

// Reply is the normalized outcome of a completion. A failed call still
// yields text: a diagnostic meant to be shown as the assistant's turn.
type Reply struct {
	Text     string
	Failed   bool
	Duration time.Duration
}

// Orchestrator picks the completion profile for a composition, plays the
// progress indicator and issues exactly one call.
type Orchestrator struct {
	completer       Completer
	progressEnabled bool
}

func NewOrchestrator(completer Completer, progressEnabled bool) *Orchestrator {
	return &Orchestrator{completer: completer, progressEnabled: progressEnabled}
}

// ProfileFor returns the completion profile of a consultation mode.
func ProfileFor(mode domain.Mode) config.Profile {
	if mode == domain.ModeImageOnly {
		return config.ProfileImageOnly
	}
	return config.ProfileCombined
}

// Complete never returns an error: service failures become a diagnostic
// reply so every user action gets exactly one assistant turn.
func (o *Orchestrator) Complete(ctx context.Context, comp *Composition, credential string, progress ProgressFunc) Reply {
	profile := ProfileFor(comp.Mode)

	if o.progressEnabled {
		playProgress(ctx, profile.ProgressStep, profile.ProgressTick, progress)
	}

	start := time.Now()
	text, err := o.completer.Complete(ctx, CompletionRequest{
		Instruction: comp.Instruction,
		UserText:    comp.UserText,
		ImageURL:    comp.ImageURL,
		Profile:     profile,
		Credential:  credential,
	})
	elapsed := time.Since(start)
	if err != nil {
		slog.Error("completion request", "error", err, "profile", profile.Name, "duration", elapsed)
		return Reply{Text: diagnostic(comp.Mode, err), Failed: true, Duration: elapsed}
	}

	slog.Debug("completion done", "profile", profile.Name, "duration", elapsed, "chars", len(text))
	return Reply{Text: text, Duration: elapsed}
}

func diagnostic(mode domain.Mode, err error) string {
	var text string
	if mode == domain.ModeImageOnly {
		text = fmt.Sprintf("An error occurred while analyzing the image: %s\n\n⚠️ Please check that your API key is correct and that it has access to the vision model.", err)
	} else {
		text = fmt.Sprintf("Sorry, an error occurred: %s\n\n⚠️ Please check that your API key is correct.", err)
	}
	if hint := failureHint(err); hint != "" {
		text += "\n" + hint
	}
	return text
}

func failureHint(err error) string {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized:
			return "🔑 The service rejected the API key."
		case http.StatusForbidden:
			return "🚫 The API key has no permission for this model."
		case http.StatusTooManyRequests:
			return "⏳ Rate limit or quota exceeded. Try again later."
		case http.StatusServiceUnavailable:
			return "❌ The service is temporarily unavailable."
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "⏳ The request timed out."
	}
	return ""
}
