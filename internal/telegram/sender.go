package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/pediabot/internal/service"
)

const MaxMessageLen = 4096

// SendLongMessage sends a potentially long message, splitting it into parts if needed.
// Falls back to plain text if Markdown parsing fails. The reply markup is
// attached to the last part only.
func SendLongMessage(ctx context.Context, b *bot.Bot, chatID int64, text string, markup models.ReplyMarkup) error {
	text = FixMarkdown(ConvertBold(text))
	parts := SplitMessage(text, MaxMessageLen)

	for i, part := range parts {
		params := &bot.SendMessageParams{
			ChatID:    chatID,
			Text:      part,
			ParseMode: models.ParseModeMarkdownV1,
		}
		if i == len(parts)-1 && markup != nil {
			params.ReplyMarkup = markup
		}

		_, err := b.SendMessage(ctx, params)
		if err != nil {
			slog.Warn("markdown send failed, falling back to plain text", "error", err)
			params.ParseMode = ""
			_, err = b.SendMessage(ctx, params)
			if err != nil {
				return fmt.Errorf("send message: %w", err)
			}
		}
	}

	return nil
}

// SendPlain sends text without any parse mode, split to Telegram's limit.
func SendPlain(ctx context.Context, b *bot.Bot, chatID int64, text string) error {
	for _, part := range SplitMessage(text, MaxMessageLen) {
		if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   part,
		}); err != nil {
			return fmt.Errorf("send message: %w", err)
		}
	}
	return nil
}

// StartTyping sends "typing..." action every 4 seconds until the returned cancel function is called.
func StartTyping(ctx context.Context, b *bot.Bot, chatID int64) context.CancelFunc {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(4 * time.Second)
		defer ticker.Stop()
		b.SendChatAction(ctx, &bot.SendChatActionParams{
			ChatID: chatID,
			Action: models.ChatActionTyping,
		})
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				b.SendChatAction(ctx, &bot.SendChatActionParams{
					ChatID: chatID,
					Action: models.ChatActionTyping,
				})
			}
		}
	}()
	return cancel
}

// StatusMessage is a single message edited in place to show progress.
type StatusMessage struct {
	bot       *bot.Bot
	chatID    int64
	messageID int
	title     string
}

// NewStatusMessage sends the initial status text. It returns nil if the
// message could not be sent; a nil *StatusMessage is safe to use.
func NewStatusMessage(ctx context.Context, b *bot.Bot, chatID int64, title string) *StatusMessage {
	msg, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   title,
	})
	if err != nil {
		slog.Warn("send status message", "error", err, "chat_id", chatID)
		return nil
	}
	return &StatusMessage{bot: b, chatID: chatID, messageID: msg.ID, title: title}
}

// Progress returns a callback that redraws the status with a progress bar.
func (s *StatusMessage) Progress(ctx context.Context) service.ProgressFunc {
	if s == nil {
		return nil
	}
	return func(percent int) {
		s.bot.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:    s.chatID,
			MessageID: s.messageID,
			Text:      s.title + "\n\n" + service.ProgressBar(percent),
		})
	}
}

func (s *StatusMessage) Delete(ctx context.Context) {
	if s == nil {
		return
	}
	s.bot.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    s.chatID,
		MessageID: s.messageID,
	})
}
