package srs

import (
	"context"
	"time"

	"spanish-conjugation-bot/internal/domain/user"
	"spanish-conjugation-bot/internal/domain/verb"
)

// Repository defines the contract for review-state persistence. The store
// is keyed by the composite (learner, item key); writes are last-write-wins
// on that key.
type Repository interface {
	// FindCard retrieves the card for a learner/item pair, or (nil, nil)
	// when no card exists yet
	FindCard(ctx context.Context, learnerID user.ID, key verb.ItemKey) (*Card, error)

	// FindCardsByLearner retrieves all cards for a learner
	FindCardsByLearner(ctx context.Context, learnerID user.ID) ([]*Card, error)

	// SaveReviewResult persists the updated card and appends the review to
	// the history log as one atomic write: either both land or neither does
	SaveReviewResult(ctx context.Context, learnerID user.ID, card *Card, review *ReviewRecord) error

	// FindUnseenItems retrieves catalog conjugations in the given tenses
	// that the learner has no card for yet
	FindUnseenItems(ctx context.Context, learnerID user.ID, tenses []verb.Tense, limit int) ([]*verb.Conjugation, error)

	// LearnersWithCards retrieves the IDs of all learners holding cards
	LearnersWithCards(ctx context.Context) ([]user.ID, error)
}

// ReviewRecord is one entry in the append-only review history.
type ReviewRecord struct {
	LearnerID      user.ID
	ItemKey        verb.ItemKey
	Quality        Quality
	Correct        bool
	ResponseTimeMs int
	ReviewedAt     time.Time
}

// NewReviewRecord creates a history entry for a processed review
func NewReviewRecord(learnerID user.ID, key verb.ItemKey, quality Quality, correct bool, responseTime time.Duration, reviewedAt time.Time) *ReviewRecord {
	return &ReviewRecord{
		LearnerID:      learnerID,
		ItemKey:        key,
		Quality:        quality,
		Correct:        correct,
		ResponseTimeMs: int(responseTime.Milliseconds()),
		ReviewedAt:     reviewedAt,
	}
}
