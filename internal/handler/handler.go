package handler

import (
	"github.com/go-telegram/bot"
	"github.com/set-night/pediabot/internal/config"
	"github.com/set-night/pediabot/internal/service"
	"github.com/set-night/pediabot/internal/telegram"
)

// Handler holds all dependencies needed by command and callback handlers.
type Handler struct {
	bot      *bot.Bot
	cfg      *config.Config
	sessions *service.SessionService
	consult  *service.ConsultService
	composer *service.Composer
	tgLogger *telegram.TelegramLogger
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot      *bot.Bot
	Cfg      *config.Config
	Sessions *service.SessionService
	Consult  *service.ConsultService
	Composer *service.Composer
	TgLogger *telegram.TelegramLogger
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:      deps.Bot,
		cfg:      deps.Cfg,
		sessions: deps.Sessions,
		consult:  deps.Consult,
		composer: deps.Composer,
		tgLogger: deps.TgLogger,
	}
}
