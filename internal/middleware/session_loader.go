package middleware

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/pediabot/internal/domain"
	"github.com/set-night/pediabot/internal/service"
)

type ctxKey string

const (
	SessionKey   ctxKey = "session"
	RequestIDKey ctxKey = "request_id"
)

// GetSession extracts the chat session from context.
func GetSession(ctx context.Context) *domain.Session {
	s, ok := ctx.Value(SessionKey).(*domain.Session)
	if !ok {
		return nil
	}
	return s
}

// RequestID returns the id assigned by the logging middleware.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// SessionLoader returns middleware that loads the private chat's session
// into context, creating it on first contact.
func SessionLoader(sessions *service.SessionService) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			var chatID int64
			var chatType string

			if update.Message != nil {
				chatID = update.Message.Chat.ID
				chatType = string(update.Message.Chat.Type)
			} else if update.CallbackQuery != nil && update.CallbackQuery.Message.Message != nil {
				msg := update.CallbackQuery.Message.Message
				chatID = msg.Chat.ID
				chatType = string(msg.Chat.Type)
			}

			// Consultations are private; group chats get no session.
			if chatID != 0 && chatType == "private" {
				ctx = context.WithValue(ctx, SessionKey, sessions.FindOrCreate(chatID))
			}

			next(ctx, b, update)
		}
	}
}
