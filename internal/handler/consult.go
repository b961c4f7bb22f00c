package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/pediabot/internal/config"
	"github.com/set-night/pediabot/internal/domain"
	"github.com/set-night/pediabot/internal/middleware"
	tg "github.com/set-night/pediabot/internal/telegram"
)

// HandleMessage processes private messages that are not commands: API key
// attempts, symptom text and photos.
func (h *Handler) HandleMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	msg := update.Message

	if strings.HasPrefix(msg.Text, "/") {
		return
	}

	session := middleware.GetSession(ctx)
	if session == nil {
		return
	}

	if !session.Authenticated() {
		if msg.Text == "" {
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID:    msg.Chat.ID,
				Text:      apiKeyText,
				ParseMode: models.ParseModeMarkdownV1,
			})
			return
		}
		h.handleCredential(ctx, b, msg, session)
		return
	}

	if len(msg.Photo) > 0 || msg.Document != nil {
		h.handlePhoto(ctx, b, msg, session)
		return
	}

	// Text consults in combined mode and takes along a pending photo.
	draft := session.TakeDraft()
	h.runConsultation(ctx, b, msg.Chat.ID, session, msg.Text, draft, domain.ModeCombined)
}

// handlePhoto stores the photo as a draft and asks which mode to use.
func (h *Handler) handlePhoto(ctx context.Context, b *bot.Bot, msg *models.Message, session *domain.Session) {
	chatID := msg.Chat.ID

	var fileID, name string
	switch {
	case len(msg.Photo) > 0:
		// Highest resolution comes last
		photo := msg.Photo[len(msg.Photo)-1]
		fileID, name = photo.FileID, "photo.jpg"
	case msg.Document != nil:
		if !slices.Contains(config.AllowedImageTypes, msg.Document.MimeType) {
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   "📸 Only JPEG and PNG images are supported.",
			})
			return
		}
		fileID, name = msg.Document.FileID, msg.Document.FileName
	}

	data, _, err := tg.DownloadFile(ctx, b, fileID, h.cfg.MaxImageBytes)
	if err != nil {
		slog.Error("download photo", "error", err, "chat_id", chatID)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Could not download the image. Please try again.",
		})
		return
	}
	if err := h.composer.CheckImage(data); err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ " + composeErrorText(err),
		})
		return
	}

	session.SetDraft(domain.Draft{
		Symptoms:  msg.Caption,
		Image:     data,
		ImageName: name,
	})

	text := "📸 Photo received. How should I look at it?"
	if strings.TrimSpace(msg.Caption) != "" {
		text = "📸 Photo and symptoms received. How should I look at them?"
	}
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: tg.ModeKeyboard(),
	})
}

func (h *Handler) handleModeCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	session := middleware.GetSession(ctx)
	if session == nil || update.CallbackQuery.Message.Message == nil {
		h.handleNoop(ctx, b, update)
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: update.CallbackQuery.ID})

	msg := update.CallbackQuery.Message.Message
	chatID := msg.Chat.ID

	// Drop the buttons so the same draft cannot be submitted twice.
	b.EditMessageReplyMarkup(ctx, &bot.EditMessageReplyMarkupParams{
		ChatID:    chatID,
		MessageID: msg.ID,
	})

	mode := domain.ModeCombined
	if update.CallbackQuery.Data == tg.CallbackAnalyze {
		mode = domain.ModeImageOnly
	}

	draft := session.TakeDraft()
	h.runConsultation(ctx, b, chatID, session, draft.Symptoms, draft, mode)
}

func (h *Handler) handleAnalyzeCommand(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	session := middleware.GetSession(ctx)
	if session == nil {
		h.sendPrivateOnly(ctx, b, chatID)
		return
	}

	draft := session.TakeDraft()
	h.runConsultation(ctx, b, chatID, session, "", draft, domain.ModeImageOnly)
}

// runConsultation performs one turn and sends the assistant's reply. The
// draft is put back when the turn is rejected before any request is made.
func (h *Handler) runConsultation(ctx context.Context, b *bot.Bot, chatID int64, session *domain.Session, symptoms string, draft domain.Draft, mode domain.Mode) {
	if strings.TrimSpace(symptoms) == "" {
		symptoms = draft.Symptoms
	}

	stopTyping := tg.StartTyping(ctx, b, chatID)
	defer stopTyping()

	status := tg.NewStatusMessage(ctx, b, chatID, statusTitle(mode))
	result, err := h.consult.Consult(ctx, session, symptoms, draft.Image, mode, status.Progress(ctx))
	status.Delete(ctx)

	if err != nil {
		if !draft.Empty() {
			session.SetDraft(draft)
		}
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   consultErrorText(err),
		})
		return
	}

	if result.Reply.Failed {
		h.tgLogger.LogServiceFailure(chatID, string(mode), result.Reply.Text)
	}

	if err := tg.SendLongMessage(ctx, b, chatID, result.Assistant.Content, tg.ReplyKeyboard(result.Generation, result.Assistant.ID)); err != nil {
		slog.Error("send reply", "error", err, "chat_id", chatID, "request_id", middleware.RequestID(ctx))
		h.tgLogger.LogError(err, fmt.Sprintf("send reply to %d", chatID))
	}
}

func statusTitle(mode domain.Mode) string {
	if mode == domain.ModeImageOnly {
		return "📸 Analyzing the image in detail..."
	}
	return "🤖 Analyzing your consultation..."
}

func consultErrorText(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		return "🔐 Please send your API key first."
	case errors.Is(err, domain.ErrActiveRequest):
		return "⏳ Please wait for the answer to your previous request."
	default:
		return "⚠️ " + composeErrorText(err)
	}
}

func composeErrorText(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoImageSupplied):
		return "Please attach a photo to analyze first."
	case errors.Is(err, domain.ErrNoInput):
		return "Please describe the symptoms or attach a photo."
	case errors.Is(err, domain.ErrUnsupportedImage):
		return "Only JPEG and PNG images are supported."
	case errors.Is(err, domain.ErrImageTooLarge):
		return "The image is too large."
	default:
		slog.Error("unexpected consultation error", "error", err)
		return "Something went wrong. Please try again."
	}
}
