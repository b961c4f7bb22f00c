package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/pediabot/internal/middleware"
)

const welcomeText = "🩺 *Hello! This is the children's health consultation bot.* 👶\n\n" +
	"Worried about your child's health? I can help.\n\n" +
	"*Features:*\n" +
	"📝 *Text consultation*: describe your child's symptoms in detail.\n" +
	"📸 *Image analysis*: send a photo of a rash or wound and I will analyze it.\n" +
	"🔄 *Combined*: send a photo with a caption describing the symptoms.\n\n" +
	"⚠️ *Important*: this service does not replace a medical diagnosis. In an emergency call emergency services or go to a hospital immediately."

const apiKeyText = "🔐 *An OpenAI API key is required*\n\n" +
	"This bot uses OpenAI's GPT-4o model to answer.\n\n" +
	"*How to get a key:*\n" +
	"1. Open platform.openai.com\n" +
	"2. Sign up or log in and open the API keys page\n" +
	"3. Create a new key\n\n" +
	"Then send the key (it starts with `sk-`) as a message. I will delete the message right after reading it."

const helpText = "📖 *How to use*\n\n" +
	"1. 👶 Describe your child's symptoms as text\n" +
	"2. 📸 Or send a photo (JPEG or PNG), then pick a mode\n" +
	"3. 🩺 Get advice\n" +
	"4. 👍👎 Leave feedback\n\n" +
	"*Commands:*\n" +
	"/analyze — Analyze the pending photo only\n" +
	"/export — Plain text copy of the conversation\n" +
	"/reset — Clear the conversation\n" +
	"/logout — Enter a different API key\n\n" +
	"⚠️ This information is for reference only. An accurate diagnosis requires a medical professional."

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	session := middleware.GetSession(ctx)
	if session == nil {
		h.sendPrivateOnly(ctx, b, chatID)
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      welcomeText,
		ParseMode: models.ParseModeMarkdownV1,
	})

	if !session.Authenticated() {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    chatID,
			Text:      apiKeyText,
			ParseMode: models.ParseModeMarkdownV1,
		})
	}
}

func (h *Handler) handleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    update.Message.Chat.ID,
		Text:      helpText,
		ParseMode: models.ParseModeMarkdownV1,
	})
}

func (h *Handler) sendPrivateOnly(ctx context.Context, b *bot.Bot, chatID int64) {
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "🔒 Consultations are available in a private chat with the bot only.",
	})
}
