package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/set-night/pediabot/internal/config"
	"github.com/set-night/pediabot/internal/domain"
)

const testKey = "sk-test-0123456789abcdef"

const completionJSON = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-4o",
  "choices": [{
    "index": 0,
    "finish_reason": "stop",
    "logprobs": null,
    "message": {"role": "assistant", "content": "Keep the child hydrated.", "refusal": null}
  }],
  "usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
}`

type capturedRequest struct {
	Model       string  `json:"model"`
	MaxTokens   int64   `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	Messages    []struct {
		Role    string          `json:"role"`
		Content json.RawMessage `json:"content"`
	} `json:"messages"`
}

type contentPart struct {
	Type     string `json:"type"`
	Text     string `json:"text"`
	ImageURL struct {
		URL    string `json:"url"`
		Detail string `json:"detail"`
	} `json:"image_url"`
}

func newCompletionServer(t *testing.T, status int, body string, captured *capturedRequest, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer "+testKey {
			t.Errorf("authorization: got %q", got)
		}
		raw, _ := io.ReadAll(r.Body)
		if captured != nil {
			if err := json.Unmarshal(raw, captured); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestCompleter(url string) *OpenAICompleter {
	return NewOpenAICompleter(&config.Config{
		OpenAIBaseURL:  url + "/v1/",
		Model:          "gpt-4o",
		RequestTimeout: 5 * time.Second,
	})
}

func TestOpenAICompleterCombinedRequest(t *testing.T) {
	var captured capturedRequest
	var calls int32
	srv := newCompletionServer(t, http.StatusOK, completionJSON, &captured, &calls)

	comp, err := newTestComposer(false).Compose("fever", jpegImage, domain.ModeCombined)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	reply := NewOrchestrator(newTestCompleter(srv.URL), false).Complete(context.Background(), comp, testKey, nil)
	if reply.Failed {
		t.Fatalf("unexpected failure: %s", reply.Text)
	}
	if reply.Text != "Keep the child hydrated." {
		t.Errorf("reply: got %q", reply.Text)
	}

	if captured.Model != "gpt-4o" {
		t.Errorf("model: got %q", captured.Model)
	}
	if captured.MaxTokens != 1200 || captured.Temperature != 0.7 {
		t.Errorf("profile: got max_tokens=%d temperature=%v", captured.MaxTokens, captured.Temperature)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" || captured.Messages[1].Role != "user" {
		t.Fatalf("messages: got %+v", captured.Messages)
	}

	var system string
	if err := json.Unmarshal(captured.Messages[0].Content, &system); err != nil {
		t.Fatalf("system content: %v", err)
	}
	if system != GeneralInstruction {
		t.Error("system message is not the general instruction")
	}

	var parts []contentPart
	if err := json.Unmarshal(captured.Messages[1].Content, &parts); err != nil {
		t.Fatalf("user content: %v", err)
	}
	if len(parts) != 2 {
		t.Fatalf("parts: got %d, want 2", len(parts))
	}
	if parts[0].Type != "text" || !strings.HasPrefix(parts[0].Text, "Symptoms: fever") {
		t.Errorf("text part: %+v", parts[0])
	}
	if parts[1].Type != "image_url" || !strings.HasPrefix(parts[1].ImageURL.URL, "data:image/jpeg;base64,") || parts[1].ImageURL.Detail != "high" {
		t.Errorf("image part: %+v", parts[1])
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("calls: got %d, want 1", calls)
	}
}

func TestOpenAICompleterImageProfile(t *testing.T) {
	var captured capturedRequest
	var calls int32
	srv := newCompletionServer(t, http.StatusOK, completionJSON, &captured, &calls)

	comp, err := newTestComposer(false).Compose("", jpegImage, domain.ModeImageOnly)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	NewOrchestrator(newTestCompleter(srv.URL), false).Complete(context.Background(), comp, testKey, nil)

	if captured.MaxTokens != 1500 || captured.Temperature != 0.3 {
		t.Errorf("profile: got max_tokens=%d temperature=%v", captured.MaxTokens, captured.Temperature)
	}
}

func TestOrchestratorAbsorbsServiceErrors(t *testing.T) {
	var calls int32
	body := `{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error", "code": "invalid_api_key"}}`
	srv := newCompletionServer(t, http.StatusUnauthorized, body, nil, &calls)

	comp, err := newTestComposer(false).Compose("cough", nil, domain.ModeCombined)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	reply := NewOrchestrator(newTestCompleter(srv.URL), false).Complete(context.Background(), comp, testKey, nil)

	if !reply.Failed {
		t.Fatal("expected a failed reply")
	}
	if !strings.Contains(reply.Text, "check that your API key is correct") {
		t.Errorf("diagnostic lacks the credential hint: %q", reply.Text)
	}
	if !strings.Contains(reply.Text, "rejected the API key") {
		t.Errorf("diagnostic lacks the 401 hint: %q", reply.Text)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("calls: got %d, want exactly 1 (no retries)", calls)
	}
}

func TestOpenAICompleterNoChoices(t *testing.T) {
	var calls int32
	body := `{"id":"x","object":"chat.completion","created":1,"model":"gpt-4o","choices":[]}`
	srv := newCompletionServer(t, http.StatusOK, body, nil, &calls)

	_, err := newTestCompleter(srv.URL).Complete(context.Background(), CompletionRequest{
		Instruction: GeneralInstruction,
		UserText:    "Symptoms: fever",
		Profile:     config.ProfileCombined,
		Credential:  testKey,
	})
	if !errors.Is(err, errNoChoices) {
		t.Errorf("got %v, want errNoChoices", err)
	}
}

func TestDiagnosticImageMode(t *testing.T) {
	text := diagnostic(domain.ModeImageOnly, errors.New("boom"))
	if !strings.Contains(text, "boom") || !strings.Contains(text, "vision model") {
		t.Errorf("got %q", text)
	}
	if text := diagnostic(domain.ModeCombined, context.DeadlineExceeded); !strings.Contains(text, "timed out") {
		t.Errorf("got %q", text)
	}
}

func TestProfileFor(t *testing.T) {
	if p := ProfileFor(domain.ModeCombined); p.MaxTokens != 1200 || p.Temperature != 0.7 {
		t.Errorf("combined: %+v", p)
	}
	if p := ProfileFor(domain.ModeImageOnly); p.MaxTokens != 1500 || p.Temperature != 0.3 {
		t.Errorf("image_only: %+v", p)
	}
}
