package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/pediabot/internal/config"
	"github.com/set-night/pediabot/internal/handler"
	"github.com/set-night/pediabot/internal/middleware"
	"github.com/set-night/pediabot/internal/service"
	"github.com/set-night/pediabot/internal/telegram"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	if cfg.BotToken == "" {
		slog.Error("BOT_TOKEN is required")
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize services
	sessions := service.NewSessionService(cfg.SessionIdleTimeout)
	composer := service.NewComposer(cfg)
	orchestrator := service.NewOrchestrator(service.NewOpenAICompleter(cfg), cfg.ProgressEnabled)
	consult := service.NewConsultService(composer, orchestrator)

	// Handler pointer for use in default handler closure
	var h *handler.Handler

	// Create bot
	opts := []bot.Option{
		bot.WithMiddlewares(
			// Logging first so a recovered panic is logged with its request id.
			middleware.Logging(),
			middleware.Recover(),
			middleware.RateLimit(middleware.NewChatLimiter(cfg.RateLimitPerMinute)),
			middleware.SessionLoader(sessions),
		),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if h == nil {
				return
			}
			// Photos without a caption may not reach the text handler.
			if update.Message != nil {
				h.HandleMessage(ctx, b, update)
			}
		}),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	// Get bot info
	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}

	slog.Info("bot info retrieved", "id", me.ID, "username", me.Username)

	if cfg.DropPendingUpdates {
		if _, err := b.DeleteWebhook(ctx, &bot.DeleteWebhookParams{DropPendingUpdates: true}); err != nil {
			slog.Warn("drop pending updates", "error", err)
		}
	}

	// Initialize telegram logger
	tgLogger := telegram.NewTelegramLogger(b, cfg)

	// Initialize handler
	h = handler.New(handler.Deps{
		Bot:      b,
		Cfg:      cfg,
		Sessions: sessions,
		Consult:  consult,
		Composer: composer,
		TgLogger: tgLogger,
	})

	// Register all handlers
	h.Register()

	// Everything that is not a command: API keys, symptoms and photos
	b.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		if update.Message.Chat.Type == "private" {
			h.HandleMessage(ctx, b, update)
		}
	})

	// Drop idle sessions
	go func() {
		ticker := time.NewTicker(config.SessionCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if removed := sessions.CleanupIdle(now); removed > 0 {
					slog.Info("idle sessions removed", "count", removed, "remaining", sessions.Count())
				}
			}
		}
	}()

	// Start bot
	slog.Info("starting bot", "username", me.Username, "id", me.ID)
	b.Start(ctx)

	// Graceful shutdown
	slog.Info("bot stopped gracefully")
}
