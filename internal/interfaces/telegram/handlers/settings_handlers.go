package handlers

import (
	"context"
	"fmt"

	"spanish-conjugation-bot/internal/domain/user"
)

// handleSettings handles the /settings command
func (h *BotHandler) handleSettings(ctx context.Context, chatID int64, learner *user.User) {
	prefs, err := h.userUseCase.GetUserPreferences(ctx, learner.ID())
	if err != nil {
		h.log.Error("failed to get preferences", "user_id", learner.ID(), "error", err)
		h.bot.SendMessage(chatID, "Couldn't load your settings. Try again in a moment.")
		return
	}

	text := fmt.Sprintf(
		"*Settings* ⚙️\n\n"+
			"Reminders: %s\n"+
			"Felt-difficulty prompt: %s\n"+
			"Starting level: %s",
		onOff(prefs.RemindersEnabled()),
		onOff(prefs.FeltPromptEnabled()),
		prefs.StartingTier(),
	)

	if err := h.bot.SendMessageWithKeyboard(chatID, text, settingsKeyboard()); err != nil {
		h.log.Error("failed to send settings", "error", err)
	}
}

// handleSettingsToggle handles the settings toggle callbacks
func (h *BotHandler) handleSettingsToggle(ctx context.Context, chatID int64, learner *user.User, setting string) {
	var (
		enabled bool
		label   string
		err     error
	)

	switch setting {
	case "reminders":
		enabled, err = h.userUseCase.ToggleReminders(ctx, learner.ID())
		label = "Reminders"
	case "felt":
		enabled, err = h.userUseCase.ToggleFeltPrompt(ctx, learner.ID())
		label = "Felt-difficulty prompt"
	default:
		h.log.Warn("unknown settings toggle", "setting", setting)
		return
	}

	if err != nil {
		h.log.Error("failed to toggle setting", "setting", setting, "error", err)
		h.bot.SendMessage(chatID, "Couldn't update that setting. Try again in a moment.")
		return
	}

	h.bot.SendMessage(chatID, fmt.Sprintf("%s: %s", label, onOff(enabled)))
}

func onOff(enabled bool) string {
	if enabled {
		return "on ✅"
	}
	return "off ❌"
}
