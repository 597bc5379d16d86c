package handlers

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"spanish-conjugation-bot/internal/domain/session"
	"spanish-conjugation-bot/internal/domain/srs"
	"spanish-conjugation-bot/internal/domain/user"
)

// handlePractice handles the /practice command
func (h *BotHandler) handlePractice(ctx context.Context, chatID int64, learner *user.User) {
	tier := session.TierBeginner
	if prefs, err := h.userUseCase.GetUserPreferences(ctx, learner.ID()); err == nil {
		if starting := prefs.StartingTier(); session.IsValidTier(starting) {
			tier = session.Tier(starting)
		}
	}
	h.scheduler.StartSession(learner.ID(), tier)

	h.sendNextExercise(ctx, chatID, learner)
}

// sendNextExercise fetches and presents the learner's next exercise
func (h *BotHandler) sendNextExercise(ctx context.Context, chatID int64, learner *user.User) {
	drill, err := h.drillUseCase.NextExercise(ctx, learner.ID())
	if err != nil {
		h.log.Error("failed to build exercise", "user_id", learner.ID(), "error", err)
		h.bot.SendMessage(chatID, "Something went wrong preparing an exercise. Try again in a moment.")
		return
	}

	if drill == nil {
		h.setActiveDrill(chatID, nil)
		h.bot.SendMessage(chatID, "Nothing to practice right now — no reviews due and no new forms at your level. ¡Bien hecho! 🎉")
		return
	}

	h.setActiveDrill(chatID, drill)
	h.log.Debug("exercise prepared", "user_id", learner.ID(), "item", drill.Conjugation.Key())

	if err := h.bot.SendMessageWithMarkdown(chatID, drill.Prompt()); err != nil {
		h.log.Error("failed to send exercise", "error", err)
	}
}

// handleAnswer handles a plain-text message as the answer to the active drill
func (h *BotHandler) handleAnswer(ctx context.Context, message *tgbotapi.Message, learner *user.User) {
	chatID := message.Chat.ID

	drill := h.activeDrill(chatID)
	if drill == nil || drill.Answered() {
		h.bot.SendMessage(chatID, "No active exercise. Use /practice to start one.")
		return
	}

	check := h.drillUseCase.CheckAnswer(drill, message.Text)

	feltPrompt := false
	if prefs, err := h.userUseCase.GetUserPreferences(ctx, learner.ID()); err == nil {
		feltPrompt = prefs.FeltPromptEnabled()
	}

	if feltPrompt {
		text := gradeLine(check.Correct, check.CorrectForm) + "\n\nHow did that feel?"
		if err := h.bot.SendMessageWithKeyboard(chatID, text, feltKeyboard()); err != nil {
			h.log.Error("failed to send felt prompt", "error", err)
		}
		return
	}

	h.completeDrill(ctx, chatID, learner, srs.FeltUnset)
}

// handleFeltRating handles the felt-difficulty callback buttons
func (h *BotHandler) handleFeltRating(ctx context.Context, chatID int64, learner *user.User, rating string) {
	drill := h.activeDrill(chatID)
	if drill == nil || !drill.Answered() {
		h.bot.SendMessage(chatID, "That exercise is gone. Use /practice to start a new one.")
		return
	}

	felt := srs.FeltUnset
	switch rating {
	case "easy":
		felt = srs.FeltEasy
	case "normal":
		felt = srs.FeltNormal
	case "hard":
		felt = srs.FeltHard
	}

	h.completeDrill(ctx, chatID, learner, felt)
}

// completeDrill runs the answered drill through the scheduler and reports back
func (h *BotHandler) completeDrill(ctx context.Context, chatID int64, learner *user.User, felt srs.FeltDifficulty) {
	drill := h.activeDrill(chatID)
	if drill == nil {
		return
	}

	feedback, err := h.drillUseCase.Complete(ctx, drill, felt)
	if err != nil {
		h.log.Error("failed to complete drill", "user_id", learner.ID(), "error", err)
		h.bot.SendMessage(chatID, "Couldn't save that review. Your answer still counts — try /practice again.")
		return
	}

	h.setActiveDrill(chatID, nil)

	text := gradeLine(feedback.Correct, feedback.CorrectForm)
	text += fmt.Sprintf("\n\nNext review in %s.", formatIntervalDays(feedback.Outcome.IntervalDays))

	if err := h.bot.SendMessageWithKeyboard(chatID, text, continueKeyboard()); err != nil {
		h.log.Error("failed to send drill feedback", "error", err)
	}
}

// handleFinishSession ends the drill loop and shows session metrics
func (h *BotHandler) handleFinishSession(ctx context.Context, chatID int64, learner *user.User) {
	h.setActiveDrill(chatID, nil)

	metrics := h.scheduler.SessionMetrics(learner.ID())
	tier := h.scheduler.SessionTier(learner.ID())

	if metrics.Samples == 0 {
		h.bot.SendMessage(chatID, "Session finished. Come back with /practice whenever you like.")
		return
	}

	text := fmt.Sprintf(
		"Session finished 🏁\n\n"+
			"Answers: %d\n"+
			"Accuracy: %.0f%%\n"+
			"Avg response: %.1fs\n"+
			"Level: %s",
		metrics.Samples,
		metrics.Accuracy*100,
		metrics.AvgResponseTime.Seconds(),
		tier,
	)

	if err := h.bot.SendMessage(chatID, text); err != nil {
		h.log.Error("failed to send session summary", "error", err)
	}
}

func gradeLine(correct bool, correctForm string) string {
	if correct {
		return "✅ *Correct!*"
	}
	return fmt.Sprintf("❌ Not quite. The right form is *%s*.", correctForm)
}

func formatIntervalDays(days int) string {
	if days <= 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}
