package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/pediabot/internal/domain"
	"github.com/set-night/pediabot/internal/middleware"
	"github.com/set-night/pediabot/internal/service"
	tg "github.com/set-night/pediabot/internal/telegram"
)

// parseFeedbackData splits "fb_<polarity>_<generation>_<message id>".
func parseFeedbackData(data string) (domain.Feedback, uint64, string, error) {
	rest, ok := strings.CutPrefix(data, "fb_")
	if !ok {
		return "", 0, "", fmt.Errorf("not a feedback callback: %q", data)
	}
	polarity, ref, ok := strings.Cut(rest, "_")
	if !ok {
		return "", 0, "", fmt.Errorf("malformed feedback callback: %q", data)
	}
	feedback, err := domain.ParseFeedback(polarity)
	if err != nil {
		return "", 0, "", err
	}
	gen, messageID, err := tg.ParseMessageRef(ref)
	if err != nil {
		return "", 0, "", err
	}
	return feedback, gen, messageID, nil
}

const staleMessageText = "This message is no longer in the conversation."

func (h *Handler) handleFeedback(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	cq := update.CallbackQuery

	session := middleware.GetSession(ctx)
	if session == nil || cq.Message.Message == nil {
		h.handleNoop(ctx, b, update)
		return
	}
	chatID := cq.Message.Message.Chat.ID

	feedback, gen, messageID, err := parseFeedbackData(cq.Data)
	if err != nil {
		slog.Warn("feedback callback", "error", err)
		h.handleNoop(ctx, b, update)
		return
	}

	answer := "😊 Thank you for your feedback!"
	if err := h.consult.Annotate(session, gen, messageID, feedback); err != nil {
		if errors.Is(err, domain.ErrMessageNotFound) {
			answer = staleMessageText
		} else {
			slog.Error("annotate feedback", "error", err)
			answer = "Could not save the feedback."
		}
	} else {
		h.tgLogger.LogFeedback(chatID, messageID, string(feedback))
	}

	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: cq.ID,
		Text:            answer,
	})
}

// handleCopy sends a plain-text version of one reply, ready to paste into
// an email.
func (h *Handler) handleCopy(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	cq := update.CallbackQuery

	session := middleware.GetSession(ctx)
	if session == nil || cq.Message.Message == nil {
		h.handleNoop(ctx, b, update)
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cq.ID})
	chatID := cq.Message.Message.Chat.ID

	msg, err := copyTarget(session, cq.Data)
	if err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   staleMessageText,
		})
		return
	}

	text, err := service.PlainText(msg.Content)
	if err != nil {
		slog.Error("plain text export", "error", err)
		text = msg.Content
	}
	if err := tg.SendPlain(ctx, b, chatID, text); err != nil {
		slog.Error("send plain copy", "error", err, "chat_id", chatID)
	}
}

// copyTarget resolves "copy_<generation>_<message id>" to the message.
func copyTarget(session *domain.Session, data string) (domain.Message, error) {
	gen, messageID, err := tg.ParseMessageRef(strings.TrimPrefix(data, tg.CallbackCopy))
	if err != nil {
		return domain.Message{}, fmt.Errorf("%w: %w", domain.ErrMessageNotFound, err)
	}
	return session.Message(gen, messageID)
}

func (h *Handler) handleExport(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	session := middleware.GetSession(ctx)
	if session == nil {
		h.sendPrivateOnly(ctx, b, chatID)
		return
	}
	if session.Transcript.Len() == 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "💬 The conversation is empty.",
		})
		return
	}

	text, err := service.ExportTranscript(session)
	if err != nil {
		slog.Error("export transcript", "error", err, "session_id", session.ID)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Could not export the conversation.",
		})
		return
	}
	if err := tg.SendPlain(ctx, b, chatID, text); err != nil {
		slog.Error("send export", "error", err, "chat_id", chatID)
	}
}
