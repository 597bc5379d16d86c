package handlers

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"spanish-conjugation-bot/internal/domain/user"
)

var errNoSender = errors.New("update has no sender")

// handleStart handles the /start command
func (h *BotHandler) handleStart(ctx context.Context, message *tgbotapi.Message, learner *user.User) {
	text := fmt.Sprintf(
		"¡Hola, %s! 👋\n\n"+
			"I help you practice Spanish verb conjugations with spaced repetition: "+
			"forms you struggle with come back sooner, forms you know come back later.\n\n"+
			"/practice — start a drill\n"+
			"/due — see what's waiting for review\n"+
			"/stats — your progress\n"+
			"/settings — reminders and difficulty\n"+
			"/help — how it all works",
		learner.DisplayName(),
	)

	if err := h.bot.SendMessage(message.Chat.ID, text); err != nil {
		h.log.Error("failed to send start message", "error", err)
	}
}

// handleHelp handles the /help command
func (h *BotHandler) handleHelp(chatID int64) {
	text := "*How practice works*\n\n" +
		"1. /practice shows a verb, a tense and a person.\n" +
		"2. Type the conjugated form and send it.\n" +
		"3. Rate how the answer felt, if asked.\n\n" +
		"Answers are graded ignoring case and extra spaces, but accents matter: " +
		"_hablo_ and _habló_ are different words.\n\n" +
		"The schedule adapts to you. Fast correct answers push a form days or weeks " +
		"into the future; mistakes bring it back tomorrow. As your accuracy grows, " +
		"drills unlock more tenses."

	if err := h.bot.SendMessageWithMarkdown(chatID, text); err != nil {
		h.log.Error("failed to send help message", "error", err)
	}
}
