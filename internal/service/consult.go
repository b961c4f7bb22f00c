package service

import (
	"context"
	"log/slog"

	"github.com/set-night/pediabot/internal/domain"
)

// ConsultService runs one consultation turn against a session: compose,
// record the user turn, complete, record the assistant turn.
type ConsultService struct {
	composer     *Composer
	orchestrator *Orchestrator
}

func NewConsultService(composer *Composer, orchestrator *Orchestrator) *ConsultService {
	return &ConsultService{composer: composer, orchestrator: orchestrator}
}

type ConsultResult struct {
	User      domain.Message
	Assistant domain.Message
	Reply     Reply

	// Generation the messages belong to; message references handed out
	// to the user carry it.
	Generation uint64
}

// Consult returns an error only for rejections that happen before any
// request is made. In that case the transcript is unchanged. Once the user
// turn is recorded an assistant turn always follows, failed or not.
func (s *ConsultService) Consult(ctx context.Context, session *domain.Session, symptoms string, image []byte, mode domain.Mode, progress ProgressFunc) (*ConsultResult, error) {
	if !session.Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	if !session.TryBegin() {
		return nil, domain.ErrActiveRequest
	}
	defer session.End()
	// Reset is refused while busy, so the generation holds for this turn.
	gen := session.Generation()

	comp, err := s.composer.Compose(symptoms, image, mode)
	if err != nil {
		return nil, err
	}

	user := session.Transcript.Append(domain.Message{
		Role:              domain.RoleUser,
		Content:           comp.DisplayText,
		AttachmentPresent: comp.AttachmentPresent(),
		Mode:              mode,
	})

	reply := s.orchestrator.Complete(ctx, comp, session.Credential(), progress)

	assistant := session.Transcript.Append(domain.Message{
		Role:              domain.RoleAssistant,
		Content:           reply.Text,
		AttachmentPresent: comp.AttachmentPresent(),
		Mode:              mode,
		Failed:            reply.Failed,
	})

	slog.Info("consultation turn",
		"session_id", session.ID,
		"mode", mode,
		"payload", comp.Payload.Kind,
		"failed", reply.Failed,
		"duration", reply.Duration,
	)

	return &ConsultResult{User: user, Assistant: assistant, Reply: reply, Generation: gen}, nil
}

// Annotate records feedback on a message shown under generation gen.
func (s *ConsultService) Annotate(session *domain.Session, gen uint64, messageID string, feedback domain.Feedback) error {
	return session.AnnotateFeedback(gen, messageID, feedback)
}
