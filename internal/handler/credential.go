package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/pediabot/internal/domain"
	"github.com/set-night/pediabot/internal/middleware"
	"github.com/set-night/pediabot/internal/service"
)

// handleCredential treats a text message from an unauthenticated session as
// an API key attempt.
func (h *Handler) handleCredential(ctx context.Context, b *bot.Bot, msg *models.Message, session *domain.Session) {
	chatID := msg.Chat.ID

	// The key should not stay in the chat history.
	if _, err := b.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: msg.ID,
	}); err != nil {
		slog.Warn("delete credential message", "error", err, "chat_id", chatID)
	}

	if err := service.Authenticate(session, msg.Text); err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ " + credentialErrorText(err),
		})
		return
	}

	slog.Info("session authenticated",
		"session_id", session.ID,
		"request_id", middleware.RequestID(ctx),
		"key", service.MaskCredential(session.Credential()),
	)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "✅ API key accepted (" + service.MaskCredential(session.Credential()) + ").\n\nDescribe your child's symptoms or send a photo.",
	})
}

func (h *Handler) handleLogout(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	session := middleware.GetSession(ctx)
	if session == nil {
		h.sendPrivateOnly(ctx, b, chatID)
		return
	}

	if err := service.Logout(session); err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   consultErrorText(err),
		})
		return
	}
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      "🔑 API key removed.\n\n" + apiKeyText,
		ParseMode: models.ParseModeMarkdownV1,
	})
}

func credentialErrorText(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingCredential):
		return "Please enter your API key."
	case errors.Is(err, domain.ErrMalformedPrefix):
		return "The API key format is invalid. It must start with 'sk-'."
	case errors.Is(err, domain.ErrTooShort):
		return "The API key is too short."
	default:
		return "The API key could not be accepted."
	}
}
