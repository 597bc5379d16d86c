package usecases

import (
	"context"
	"fmt"
	"sync"
	"time"

	"spanish-conjugation-bot/internal/domain/session"
	"spanish-conjugation-bot/internal/domain/srs"
	"spanish-conjugation-bot/internal/domain/user"
	"spanish-conjugation-bot/internal/domain/verb"
)

// SchedulerUseCase is the single entry point tying cards, the SM-2
// update, the session difficulty tracker and persistence together.
// It holds a per-request working copy of each touched card; the
// repository owns the durable copy.
type SchedulerUseCase struct {
	cardRepo srs.Repository
	verbRepo verb.Repository

	mu       sync.Mutex
	working  map[workingKey]*srs.Card
	trackers map[user.ID]*session.Tracker

	now func() time.Time
}

type workingKey struct {
	learnerID user.ID
	itemKey   verb.ItemKey
}

// NewSchedulerUseCase creates a scheduler backed by the given repositories
func NewSchedulerUseCase(cardRepo srs.Repository, verbRepo verb.Repository) *SchedulerUseCase {
	return &SchedulerUseCase{
		cardRepo: cardRepo,
		verbRepo: verbRepo,
		working:  make(map[workingKey]*srs.Card),
		trackers: make(map[user.ID]*session.Tracker),
		now:      time.Now,
	}
}

// SchedulingOutcome is returned to the caller after each processed result.
type SchedulingOutcome struct {
	NextReview     time.Time    `json:"next_review"`
	IntervalDays   int          `json:"interval_days"`
	EasinessFactor float64      `json:"easiness_factor"`
	Repetitions    int          `json:"repetitions"`
	DifficultyTier session.Tier `json:"difficulty_tier"`
}

// DueItem is one entry of a learner's due queue.
type DueItem struct {
	ItemKey     verb.ItemKey  `json:"item_key"`
	DisplayForm string        `json:"display_form"`
	DaysOverdue int           `json:"days_overdue"`
	CardState   srs.CardState `json:"card_state"`
}

// LearnerStatistics aggregates a learner's cards.
type LearnerStatistics struct {
	TotalCards    int     `json:"total_cards"`
	NewCards      int     `json:"new_cards"`
	LearningCards int     `json:"learning_cards"`
	MasteredCards int     `json:"mastered_cards"`
	DueCards      int     `json:"due_cards"`
	Accuracy      float64 `json:"accuracy"`
}

// AddCard registers an item in the learner's working set. Idempotent:
// calling it twice for the same key returns the same card.
func (uc *SchedulerUseCase) AddCard(learnerID user.ID, key verb.ItemKey) (*srs.Card, error) {
	if _, _, _, err := verb.ParseItemKey(key); err != nil {
		return nil, err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	wk := workingKey{learnerID: learnerID, itemKey: key}
	if card, ok := uc.working[wk]; ok {
		return card, nil
	}

	card := srs.NewCard(key, uc.now())
	uc.working[wk] = card
	return card, nil
}

// ProcessResult runs one exercise result through the engine: derive the
// quality score, apply the SM-2 update to a working copy of the card,
// persist it, record the outcome in the session tracker and report the
// scheduling decision. The card and its history entry are written in one
// atomic repository call and nothing in memory changes when that call
// fails, so a retry replays the review against the original card state.
func (uc *SchedulerUseCase) ProcessResult(
	ctx context.Context,
	learnerID user.ID,
	key verb.ItemKey,
	correct bool,
	responseTime time.Duration,
	felt srs.FeltDifficulty,
) (*SchedulingOutcome, error) {
	if _, _, _, err := verb.ParseItemKey(key); err != nil {
		return nil, err
	}

	quality, err := srs.DeriveQuality(correct, responseTime, felt)
	if err != nil {
		return nil, err
	}

	card, err := uc.loadCard(ctx, learnerID, key)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	updated := card.Clone()
	if err := updated.Review(quality, correct, now); err != nil {
		return nil, err
	}

	record := srs.NewReviewRecord(learnerID, key, quality, correct, responseTime, now)
	if err := uc.cardRepo.SaveReviewResult(ctx, learnerID, updated, record); err != nil {
		return nil, fmt.Errorf("failed to save review result: %w", err)
	}

	uc.mu.Lock()
	uc.working[workingKey{learnerID: learnerID, itemKey: key}] = updated
	tracker := uc.trackerLocked(learnerID)
	tracker.Record(correct, responseTime)
	tier := tracker.Tier()
	uc.mu.Unlock()

	return &SchedulingOutcome{
		NextReview:     updated.NextReview(),
		IntervalDays:   updated.Interval(),
		EasinessFactor: updated.EasinessFactor(),
		Repetitions:    updated.Repetitions(),
		DifficultyTier: tier,
	}, nil
}

// loadCard resolves the card for a learner/item pair: working set first,
// then persistence, then a fresh default card. A fresh card is only
// minted for keys the catalog knows; a key with no verb metadata behind
// it fails fast.
func (uc *SchedulerUseCase) loadCard(ctx context.Context, learnerID user.ID, key verb.ItemKey) (*srs.Card, error) {
	uc.mu.Lock()
	card, ok := uc.working[workingKey{learnerID: learnerID, itemKey: key}]
	uc.mu.Unlock()
	if ok {
		return card, nil
	}

	card, err := uc.cardRepo.FindCard(ctx, learnerID, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load card: %w", err)
	}
	if card != nil {
		return card, nil
	}

	known, err := uc.verbRepo.Exists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve item %q: %w", key, err)
	}
	if !known {
		return nil, fmt.Errorf("%w: %q", srs.ErrUnknownItem, key)
	}

	return srs.NewCard(key, uc.now()), nil
}

// DueItems returns the learner's due queue at the given time, most
// overdue first, truncated to limit when limit > 0. A conjugation
// missing from the catalog degrades to the raw item key instead of
// failing the query.
func (uc *SchedulerUseCase) DueItems(ctx context.Context, learnerID user.ID, now time.Time, limit int) ([]DueItem, error) {
	cards, err := uc.cardRepo.FindCardsByLearner(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cards: %w", err)
	}

	due := srs.DueCards(cards, now, limit)
	items := make([]DueItem, 0, len(due))
	for _, card := range due {
		item := DueItem{
			ItemKey:     card.ItemKey(),
			DisplayForm: string(card.ItemKey()),
			DaysOverdue: card.DaysOverdue(now),
			CardState:   card.State(),
		}
		conjugation, err := uc.verbRepo.FindByKey(ctx, card.ItemKey())
		if err != nil {
			return nil, fmt.Errorf("failed to resolve item %q: %w", card.ItemKey(), err)
		}
		if conjugation != nil {
			item.DisplayForm = conjugation.DisplayForm()
		}
		items = append(items, item)
	}
	return items, nil
}

// Statistics aggregates all of the learner's cards. A pure read.
func (uc *SchedulerUseCase) Statistics(ctx context.Context, learnerID user.ID) (*LearnerStatistics, error) {
	cards, err := uc.cardRepo.FindCardsByLearner(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cards: %w", err)
	}

	stats := &LearnerStatistics{TotalCards: len(cards)}
	now := uc.now()
	totalReviews, correctReviews := 0, 0
	for _, card := range cards {
		switch card.State() {
		case srs.StateNew:
			stats.NewCards++
		case srs.StateLearning:
			stats.LearningCards++
		case srs.StateMastered:
			stats.MasteredCards++
		}
		if card.IsDue(now) {
			stats.DueCards++
		}
		totalReviews += card.TotalReviews()
		correctReviews += card.CorrectReviews()
	}
	if totalReviews > 0 {
		stats.Accuracy = float64(correctReviews) / float64(totalReviews)
	}
	return stats, nil
}

// StartSession resets the learner's difficulty tracker to the given tier
func (uc *SchedulerUseCase) StartSession(learnerID user.ID, tier session.Tier) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.trackers[learnerID] = session.NewTrackerAt(tier)
}

// SessionTier returns the learner's current difficulty tier
func (uc *SchedulerUseCase) SessionTier(learnerID user.ID) session.Tier {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.trackerLocked(learnerID).Tier()
}

// SessionMetrics returns the learner's rolling-window performance view
func (uc *SchedulerUseCase) SessionMetrics(learnerID user.ID) session.Metrics {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.trackerLocked(learnerID).Metrics()
}

func (uc *SchedulerUseCase) trackerLocked(learnerID user.ID) *session.Tracker {
	tracker, ok := uc.trackers[learnerID]
	if !ok {
		tracker = session.NewTracker()
		uc.trackers[learnerID] = tracker
	}
	return tracker
}
