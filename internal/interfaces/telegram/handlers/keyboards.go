package handlers

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// feltKeyboard asks the learner how the answered exercise felt
func feltKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("😌 Easy", "felt_easy"),
			tgbotapi.NewInlineKeyboardButtonData("🙂 Normal", "felt_normal"),
			tgbotapi.NewInlineKeyboardButtonData("😓 Hard", "felt_hard"),
		),
	)
}

// continueKeyboard offers the next exercise or ends the session
func continueKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("▶️ Next", "drill_next"),
			tgbotapi.NewInlineKeyboardButtonData("🏁 Finish", "drill_finish"),
		),
	)
}

// settingsKeyboard toggles learner preferences
func settingsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔔 Toggle reminders", "toggle_reminders"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💭 Toggle felt prompt", "toggle_felt"),
		),
	)
}
