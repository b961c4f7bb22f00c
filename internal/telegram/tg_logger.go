package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/set-night/pediabot/internal/config"
)

type TelegramLogger struct {
	bot *bot.Bot
	cfg *config.Config
}

func NewTelegramLogger(b *bot.Bot, cfg *config.Config) *TelegramLogger {
	return &TelegramLogger{bot: b, cfg: cfg}
}

type LogType string

const (
	LogTypeError    LogType = "error"
	LogTypeFeedback LogType = "feedback"
)

func (l *TelegramLogger) Log(logType LogType, message string) {
	if l == nil || l.cfg.LogTelegramChatID == 0 {
		return
	}

	topicID := l.getTopicID(logType)
	if topicID == 0 {
		return
	}

	if len([]rune(message)) > MaxMessageLen {
		message = string([]rune(message)[:MaxMessageLen-20]) + "\n\n... (truncated)"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := l.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          l.cfg.LogTelegramChatID,
		Text:            message,
		MessageThreadID: topicID,
	})
	if err != nil {
		slog.Error("failed to send telegram log", "type", logType, "error", err)
	}
}

func (l *TelegramLogger) LogError(err error, context string) {
	msg := fmt.Sprintf("❌ Error\n\nContext: %s\nError: %s\nTime: %s",
		context, err.Error(), time.Now().Format("2006-01-02 15:04:05"))
	l.Log(LogTypeError, msg)
}

// LogServiceFailure mirrors a failed completion. The diagnostic is what the
// user saw as the assistant's reply.
func (l *TelegramLogger) LogServiceFailure(chatID int64, mode, diagnostic string) {
	msg := fmt.Sprintf("⚠️ Completion failed\n\nChat: %d\nMode: %s\n\n%s", chatID, mode, diagnostic)
	l.Log(LogTypeError, msg)
}

func (l *TelegramLogger) LogFeedback(chatID int64, messageID, feedback string) {
	icon := "👍"
	if feedback == "negative" {
		icon = "👎"
	}
	msg := fmt.Sprintf("%s Feedback\n\nChat: %d\nMessage: %s\nValue: %s", icon, chatID, messageID, feedback)
	l.Log(LogTypeFeedback, msg)
}

func (l *TelegramLogger) getTopicID(logType LogType) int {
	switch logType {
	case LogTypeError:
		return l.cfg.LogTopicError
	case LogTypeFeedback:
		return l.cfg.LogTopicFeedback
	default:
		return 0
	}
}
