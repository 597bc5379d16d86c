package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"spanish-conjugation-bot/internal/domain/srs"
	"spanish-conjugation-bot/internal/domain/user"
	"spanish-conjugation-bot/internal/pkg/logger"
)

// ReminderNotifier sends a due-review reminder to a learner's chat
type ReminderNotifier interface {
	SendReminder(chatID int64, text string) error
}

// ReminderConfig holds tuning for the reminder job
type ReminderConfig struct {
	// How often the job runs
	CheckInterval time.Duration
	// Minimum time between reminders for the same learner
	MinReminderInterval time.Duration
	// Hours of day when reminders stay silent (24-hour format)
	QuietHoursStart int
	QuietHoursEnd   int
	// Maximum reminders per day per learner
	MaxRemindersPerDay int
}

// DefaultReminderConfig returns sensible defaults for reminders
func DefaultReminderConfig() *ReminderConfig {
	return &ReminderConfig{
		CheckInterval:       time.Hour,
		MinReminderInterval: 4 * time.Hour,
		QuietHoursStart:     22,
		QuietHoursEnd:       8,
		MaxRemindersPerDay:  3,
	}
}

// ReminderUseCase nudges learners when reviews pile up. The checks run
// on a gocron schedule outside the request path; the engine itself stays
// request-scoped.
type ReminderUseCase struct {
	notifier        ReminderNotifier
	userRepo        user.Repository
	cardRepo        srs.Repository
	preferencesRepo user.PreferencesRepository
	config          *ReminderConfig
	log             *logger.Logger

	scheduler     *gocron.Scheduler
	reminderState map[user.ID]*reminderState
}

type reminderState struct {
	lastSent      time.Time
	sentToday     int
	lastCheckDate time.Time
}

// NewReminderUseCase creates a new reminder use case
func NewReminderUseCase(
	notifier ReminderNotifier,
	userRepo user.Repository,
	cardRepo srs.Repository,
	preferencesRepo user.PreferencesRepository,
	config *ReminderConfig,
	log *logger.Logger,
) *ReminderUseCase {
	if config == nil {
		config = DefaultReminderConfig()
	}

	return &ReminderUseCase{
		notifier:        notifier,
		userRepo:        userRepo,
		cardRepo:        cardRepo,
		preferencesRepo: preferencesRepo,
		config:          config,
		log:             log,
		scheduler:       gocron.NewScheduler(time.UTC),
		reminderState:   make(map[user.ID]*reminderState),
	}
}

// Start schedules the periodic reminder check
func (uc *ReminderUseCase) Start() error {
	_, err := uc.scheduler.Every(uc.config.CheckInterval).Do(func() {
		uc.checkAndSendReminders(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reminder job: %w", err)
	}

	uc.scheduler.StartAsync()
	uc.log.Info("reminder job scheduled", "interval", uc.config.CheckInterval)
	return nil
}

// Stop cancels the scheduled reminder job
func (uc *ReminderUseCase) Stop() {
	uc.scheduler.Stop()
}

func (uc *ReminderUseCase) checkAndSendReminders(ctx context.Context) {
	if uc.isQuietTime(time.Now()) {
		return
	}

	learnerIDs, err := uc.cardRepo.LearnersWithCards(ctx)
	if err != nil {
		uc.log.Error("failed to list learners with cards", "error", err)
		return
	}

	sent := 0
	for _, learnerID := range learnerIDs {
		if !uc.shouldRemind(learnerID) {
			continue
		}
		if uc.remindLearner(ctx, learnerID) {
			sent++
		}
	}

	if sent > 0 {
		uc.log.Info("sent due-review reminders", "count", sent)
	}
}

// shouldRemind applies the per-learner rate limits
func (uc *ReminderUseCase) shouldRemind(learnerID user.ID) bool {
	now := time.Now()

	state, exists := uc.reminderState[learnerID]
	if !exists {
		state = &reminderState{}
		uc.reminderState[learnerID] = state
	}

	// New day resets the daily counter
	if !sameDay(state.lastCheckDate, now) {
		state.sentToday = 0
	}
	state.lastCheckDate = now

	if state.sentToday >= uc.config.MaxRemindersPerDay {
		return false
	}
	if !state.lastSent.IsZero() && now.Sub(state.lastSent) < uc.config.MinReminderInterval {
		return false
	}
	return true
}

func (uc *ReminderUseCase) remindLearner(ctx context.Context, learnerID user.ID) bool {
	preferences, err := uc.preferencesRepo.FindPreferences(ctx, learnerID)
	if err != nil {
		uc.log.Warn("failed to load preferences", "user_id", learnerID, "error", err)
		return false
	}
	if preferences != nil && !preferences.RemindersEnabled() {
		return false
	}

	cards, err := uc.cardRepo.FindCardsByLearner(ctx, learnerID)
	if err != nil {
		uc.log.Warn("failed to load cards", "user_id", learnerID, "error", err)
		return false
	}

	due := srs.DueCards(cards, time.Now(), 0)
	if len(due) == 0 {
		return false
	}

	learner, err := uc.userRepo.FindByID(ctx, learnerID)
	if err != nil || learner == nil {
		uc.log.Warn("failed to load learner", "user_id", learnerID, "error", err)
		return false
	}

	text := fmt.Sprintf("📚 Hola %s! You have %d conjugation(s) due for review. Send /practice to keep your streak going.",
		learner.DisplayName(), len(due))
	if err := uc.notifier.SendReminder(int64(learner.TelegramID()), text); err != nil {
		uc.log.Warn("failed to send reminder", "user_id", learnerID, "error", err)
		return false
	}

	state := uc.reminderState[learnerID]
	state.lastSent = time.Now()
	state.sentToday++
	return true
}

func (uc *ReminderUseCase) isQuietTime(now time.Time) bool {
	hour := now.Hour()
	start, end := uc.config.QuietHoursStart, uc.config.QuietHoursEnd
	if start == end {
		return false
	}
	if start < end {
		return hour >= start && hour < end
	}
	// Quiet window crosses midnight
	return hour >= start || hour < end
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
