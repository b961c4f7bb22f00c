package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot/models"
)

// Callback data prefixes.
const (
	CallbackConsult      = "consult"
	CallbackAnalyze      = "analyze"
	CallbackFeedbackGood = "fb_positive_"
	CallbackFeedbackBad  = "fb_negative_"
	CallbackCopy         = "copy_"
)

// InlineButton creates a single inline keyboard button.
func InlineButton(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:         text,
		CallbackData: callbackData,
	}
}

// InlineKeyboard creates an inline keyboard from rows of buttons.
func InlineKeyboard(rows ...[]models.InlineKeyboardButton) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: rows,
	}
}

// ButtonRow creates a row of inline buttons.
func ButtonRow(buttons ...models.InlineKeyboardButton) []models.InlineKeyboardButton {
	return buttons
}

// ModeKeyboard offers the two consultation modes for a pending photo.
func ModeKeyboard() *models.InlineKeyboardMarkup {
	return InlineKeyboard(ButtonRow(
		InlineButton("🩺 Consult", CallbackConsult),
		InlineButton("📸 Analyze image only", CallbackAnalyze),
	))
}

// ReplyKeyboard is attached to every assistant reply. Buttons reference
// the message as "<generation>_<id>" since ids restart after a reset.
func ReplyKeyboard(generation uint64, messageID string) *models.InlineKeyboardMarkup {
	ref := MessageRef(generation, messageID)
	return InlineKeyboard(ButtonRow(
		InlineButton("👍", CallbackFeedbackGood+ref),
		InlineButton("👎", CallbackFeedbackBad+ref),
		InlineButton("📋 Copy for email", CallbackCopy+ref),
	))
}

// MessageRef formats a message reference for callback data.
func MessageRef(generation uint64, messageID string) string {
	return strconv.FormatUint(generation, 10) + "_" + messageID
}

// ParseMessageRef reverses MessageRef.
func ParseMessageRef(ref string) (uint64, string, error) {
	genText, messageID, ok := strings.Cut(ref, "_")
	if !ok || messageID == "" {
		return 0, "", fmt.Errorf("malformed message reference %q", ref)
	}
	gen, err := strconv.ParseUint(genText, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("malformed message reference %q: %w", ref, err)
	}
	return gen, messageID, nil
}
