package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	tg "github.com/set-night/pediabot/internal/telegram"
)

// Register wires commands and callbacks. The catch-all message handler is
// registered by main after these so commands take precedence.
func (h *Handler) Register() {
	// Commands
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypePrefix, h.handleHelp)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/reset", bot.MatchTypePrefix, h.handleReset)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/logout", bot.MatchTypePrefix, h.handleLogout)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/export", bot.MatchTypePrefix, h.handleExport)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/analyze", bot.MatchTypePrefix, h.handleAnalyzeCommand)

	// Mode selection for a pending photo
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.CallbackConsult, bot.MatchTypeExact, h.handleModeCallback)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.CallbackAnalyze, bot.MatchTypeExact, h.handleModeCallback)

	// Reply actions
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "fb_", bot.MatchTypePrefix, h.handleFeedback)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.CallbackCopy, bot.MatchTypePrefix, h.handleCopy)
}

// handleNoop acknowledges a callback query without doing anything.
func (h *Handler) handleNoop(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery != nil {
		b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: update.CallbackQuery.ID,
		})
	}
}
