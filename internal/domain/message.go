package domain

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Mode is the request shape the user asked for.
type Mode string

const (
	ModeCombined  Mode = "combined"
	ModeImageOnly Mode = "image_only"
)

func (m Mode) Valid() bool {
	return m == ModeCombined || m == ModeImageOnly
}

type Feedback string

const (
	FeedbackPositive Feedback = "positive"
	FeedbackNegative Feedback = "negative"
)

func ParseFeedback(s string) (Feedback, error) {
	switch Feedback(s) {
	case FeedbackPositive, FeedbackNegative:
		return Feedback(s), nil
	}
	return "", fmt.Errorf("unknown feedback %q", s)
}

type Message struct {
	ID                string
	Role              Role
	Content           string
	AttachmentPresent bool
	Mode              Mode
	// Failed marks an assistant turn that carries a service failure diagnostic.
	Failed    bool
	CreatedAt time.Time
}

func messageID(role Role, position int) string {
	if role == RoleAssistant {
		return fmt.Sprintf("bot_%d", position)
	}
	return fmt.Sprintf("user_%d", position)
}
