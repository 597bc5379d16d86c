package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"spanish-conjugation-bot/internal/domain/user"
)

const dueListLimit = 10

// handleDue handles the /due command
func (h *BotHandler) handleDue(ctx context.Context, chatID int64, learner *user.User) {
	items, err := h.scheduler.DueItems(ctx, learner.ID(), time.Now(), dueListLimit)
	if err != nil {
		h.log.Error("failed to get due items", "user_id", learner.ID(), "error", err)
		h.bot.SendMessage(chatID, "Couldn't load your review queue. Try again in a moment.")
		return
	}

	if len(items) == 0 {
		h.bot.SendMessage(chatID, "Nothing due for review. ¡Perfecto! ✨")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*Due for review* (%d shown)\n\n", len(items)))
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("• %s", item.DisplayForm))
		if item.DaysOverdue > 0 {
			sb.WriteString(fmt.Sprintf(" — %s overdue", formatIntervalDays(item.DaysOverdue)))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\nStart a /practice session to clear them.")

	if err := h.bot.SendMessageWithMarkdown(chatID, sb.String()); err != nil {
		h.log.Error("failed to send due list", "error", err)
	}
}

// handleStats handles the /stats command
func (h *BotHandler) handleStats(ctx context.Context, chatID int64, learner *user.User) {
	stats, err := h.scheduler.Statistics(ctx, learner.ID())
	if err != nil {
		h.log.Error("failed to get statistics", "user_id", learner.ID(), "error", err)
		h.bot.SendMessage(chatID, "Couldn't load your statistics. Try again in a moment.")
		return
	}

	text := fmt.Sprintf(
		"*Your progress* 📊\n\n"+
			"Forms tracked: %d\n"+
			"  • new: %d\n"+
			"  • learning: %d\n"+
			"  • mastered: %d\n\n"+
			"Due now: %d\n"+
			"Overall accuracy: %.0f%%",
		stats.TotalCards,
		stats.NewCards,
		stats.LearningCards,
		stats.MasteredCards,
		stats.DueCards,
		stats.Accuracy*100,
	)

	if available, err := h.drillUseCase.AvailableForms(ctx, learner.ID()); err == nil {
		text += fmt.Sprintf("\nUnlocked at your level: %d forms", available)
	}

	if err := h.bot.SendMessageWithMarkdown(chatID, text); err != nil {
		h.log.Error("failed to send statistics", "error", err)
	}
}
