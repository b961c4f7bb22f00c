package service

import (
	"testing"

	"github.com/set-night/pediabot/internal/domain"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Drink plenty of fluids.", "Drink plenty of fluids."},
		{"line break", "Rest<br>Fluids", "Rest\nFluids"},
		{"paragraphs", "<p>Rest</p><p>Fluids</p>", "Rest\nFluids"},
		{"inline tags", "<b>Fever</b> is common", "Fever is common"},
		{"markdown untouched", "**Fever** is common", "**Fever** is common"},
		{"whitespace", "  \n hello \n ", "hello"},
		{"angle bracket text", "Call <your pediatrician> today", "Call <your pediatrician> today"},
		{"less than", "Fever a<b", "Fever a<b"},
		{"comparison", "If temperature < 38 and pulse > 100", "If temperature < 38 and pulse > 100"},
		{"entities kept literally", "AT&T &amp; co", "AT&T &amp; co"},
		{"self closing break", "Rest<br/>Fluids<BR />Sleep", "Rest\nFluids\nSleep"},
		{"unknown tag", "<script>alert(1)</script>", "<script>alert(1)</script>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PlainText(tt.in)
			if err != nil {
				t.Fatalf("PlainText: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExportTranscript(t *testing.T) {
	s := domain.NewSession(1)
	s.Transcript.Append(domain.Message{Role: domain.RoleUser, Content: "Symptoms: fever"})
	s.Transcript.Append(domain.Message{Role: domain.RoleAssistant, Content: "<p>Rest</p><p>Fluids</p>"})

	got, err := ExportTranscript(s)
	if err != nil {
		t.Fatalf("ExportTranscript: %v", err)
	}
	want := "Parent:\nSymptoms: fever\n\nChatbot:\nRest\nFluids"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExportEmptyTranscript(t *testing.T) {
	got, err := ExportTranscript(domain.NewSession(1))
	if err != nil {
		t.Fatalf("ExportTranscript: %v", err)
	}
	if got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
