package service

import (
	"strings"
	"unicode/utf8"

	"github.com/set-night/pediabot/internal/config"
	"github.com/set-night/pediabot/internal/domain"
)

// ValidateCredential checks the surface format of an API key. Rules are
// applied in order and the first failure is returned. No network check is
// made; a key the service rejects is only discovered on first use.
func ValidateCredential(candidate string) error {
	if candidate == "" {
		return domain.ErrMissingCredential
	}
	if !strings.HasPrefix(candidate, config.CredentialPrefix) {
		return domain.ErrMalformedPrefix
	}
	if utf8.RuneCountInString(candidate) < config.CredentialMinLength {
		return domain.ErrTooShort
	}
	return nil
}

// Authenticate validates the candidate and, on success, stores it in the
// session. A rejected candidate leaves the session untouched.
func Authenticate(session *domain.Session, candidate string) error {
	if err := ValidateCredential(candidate); err != nil {
		return err
	}
	session.SetCredential(candidate)
	return nil
}

// Logout forgets the credential. The transcript is kept. It fails with
// ErrActiveRequest while a consultation is running.
func Logout(session *domain.Session) error {
	return session.ClearCredential()
}

// MaskCredential renders a key for logs and confirmations.
func MaskCredential(credential string) string {
	if utf8.RuneCountInString(credential) <= 8 {
		return strings.Repeat("*", utf8.RuneCountInString(credential))
	}
	runes := []rune(credential)
	return string(runes[:3]) + "..." + string(runes[len(runes)-4:])
}
