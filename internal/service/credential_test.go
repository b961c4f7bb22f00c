package service

import (
	"errors"
	"strings"
	"testing"
	"testing/quick"

	"github.com/set-night/pediabot/internal/domain"
)

func TestValidateCredential(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		want      error
	}{
		{"empty", "", domain.ErrMissingCredential},
		{"wrong prefix", "pk-abcdefghijklmnopqrstuvwxyz", domain.ErrMalformedPrefix},
		{"prefix checked before length", "abc", domain.ErrMalformedPrefix},
		{"too short", "sk-123", domain.ErrTooShort},
		{"19 chars", "sk-" + strings.Repeat("a", 16), domain.ErrTooShort},
		{"20 chars", "sk-" + strings.Repeat("a", 17), nil},
		{"long", "sk-proj-" + strings.Repeat("x", 40), nil},
		{"whitespace is not empty", "   ", domain.ErrMalformedPrefix},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCredential(tt.candidate)
			if !errors.Is(err, tt.want) {
				t.Errorf("ValidateCredential(%q): got %v, want %v", tt.candidate, err, tt.want)
			}
		})
	}
}

func TestValidateCredentialProperty(t *testing.T) {
	accepts := func(s string) bool {
		return s != "" && strings.HasPrefix(s, "sk-") && len([]rune(s)) >= 20
	}
	f := func(suffix string, prefixed bool) bool {
		s := suffix
		if prefixed {
			s = "sk-" + suffix
		}
		return (ValidateCredential(s) == nil) == accepts(s)
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestAuthenticate(t *testing.T) {
	s := domain.NewSession(1)

	if err := Authenticate(s, "sk-short"); !errors.Is(err, domain.ErrTooShort) {
		t.Fatalf("got %v, want ErrTooShort", err)
	}
	if s.Authenticated() || s.Credential() != "" {
		t.Fatal("rejected credential changed the session")
	}

	key := "sk-" + strings.Repeat("k", 30)
	if err := Authenticate(s, key); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if !s.Authenticated() || s.Credential() != key {
		t.Fatal("accepted credential not stored")
	}

	if err := Logout(s); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if s.Authenticated() {
		t.Fatal("Logout left the session authenticated")
	}
}

func TestMaskCredential(t *testing.T) {
	if got := MaskCredential("sk-abcdefghijklmnopWXYZ"); got != "sk-...WXYZ" {
		t.Errorf("got %q", got)
	}
	if got := MaskCredential("sk-1"); got != "****" {
		t.Errorf("got %q", got)
	}
}
