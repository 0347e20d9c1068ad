package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/otabek-dev/poytaxt_bot/internal/quiz"
)

// MainMenuKeyboard creates the persistent command menu shown after /start.
func MainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("/test"),
			tgbotapi.NewKeyboardButton("/info"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("/stop"),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

// InlineOptionsKeyboard renders engine-emitted options as an inline
// keyboard, perRow buttons per row.
func InlineOptionsKeyboard(options []quiz.Option, perRow int) tgbotapi.InlineKeyboardMarkup {
	if perRow < 1 {
		perRow = 1
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	var currentRow []tgbotapi.InlineKeyboardButton

	for _, opt := range options {
		currentRow = append(currentRow, tgbotapi.NewInlineKeyboardButtonData(opt.Label, opt.Data))
		if len(currentRow) == perRow {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(currentRow...))
			currentRow = []tgbotapi.InlineKeyboardButton{}
		}
	}
	if len(currentRow) > 0 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(currentRow...))
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
