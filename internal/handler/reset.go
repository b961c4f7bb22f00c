package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/pediabot/internal/domain"
	"github.com/set-night/pediabot/internal/middleware"
)

func (h *Handler) handleReset(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	if middleware.GetSession(ctx) == nil {
		h.sendPrivateOnly(ctx, b, chatID)
		return
	}

	session, err := h.sessions.Reset(chatID)
	if errors.Is(err, domain.ErrActiveRequest) {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   consultErrorText(err),
		})
		return
	}
	if err != nil {
		slog.Error("reset session", "error", err, "chat_id", chatID)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Could not clear the conversation.",
		})
		return
	}

	slog.Info("session reset", "session_id", session.ID)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "🗑️ Conversation cleared.",
	})
}
