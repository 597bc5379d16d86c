package srs

import (
	"time"

	"spanish-conjugation-bot/internal/domain/verb"
)

// Card holds the spaced-repetition scheduling state for one
// (learner, conjugation) pair. Scheduling fields change only through
// Review; the historical counters are never reset.
type Card struct {
	itemKey        verb.ItemKey
	easinessFactor float64
	interval       int
	repetitions    int
	nextReview     time.Time
	lastReview     time.Time
	totalReviews   int
	correctReviews int
}

// DefaultEasinessFactor is the starting easiness factor for a fresh card.
const DefaultEasinessFactor = 2.5

// MinEasinessFactor is the floor below which the easiness factor never drops.
const MinEasinessFactor = 1.3

// NewCard creates a fresh card for an item, due immediately
func NewCard(itemKey verb.ItemKey, now time.Time) *Card {
	return &Card{
		itemKey:        itemKey,
		easinessFactor: DefaultEasinessFactor,
		interval:       0,
		repetitions:    0,
		nextReview:     now,
	}
}

// Getters
func (c *Card) ItemKey() verb.ItemKey   { return c.itemKey }
func (c *Card) EasinessFactor() float64 { return c.easinessFactor }
func (c *Card) Interval() int           { return c.interval }
func (c *Card) Repetitions() int        { return c.repetitions }
func (c *Card) NextReview() time.Time   { return c.nextReview }
func (c *Card) TotalReviews() int       { return c.totalReviews }
func (c *Card) CorrectReviews() int     { return c.correctReviews }

// LastReview returns the last review time, or a zero time when the card
// has never been reviewed.
func (c *Card) LastReview() time.Time { return c.lastReview }

// Accuracy returns correct/total reviews, or 0 for an unreviewed card
func (c *Card) Accuracy() float64 {
	if c.totalReviews == 0 {
		return 0
	}
	return float64(c.correctReviews) / float64(c.totalReviews)
}

// State labels the card for due lists and statistics
func (c *Card) State() CardState {
	switch {
	case c.totalReviews == 0:
		return StateNew
	case c.repetitions >= masteredRepetitions:
		return StateMastered
	default:
		return StateLearning
	}
}

// IsDue reports whether the card is due at the given time
func (c *Card) IsDue(now time.Time) bool {
	return !c.nextReview.After(now)
}

// Review applies one review result to the card: the pure SM-2 update for
// the scheduling fields plus the history counters. The only mutator.
func (c *Card) Review(quality Quality, correct bool, now time.Time) error {
	next, err := NextState(ReviewState{
		EasinessFactor: c.easinessFactor,
		Interval:       c.interval,
		Repetitions:    c.repetitions,
	}, quality)
	if err != nil {
		return err
	}

	c.easinessFactor = next.EasinessFactor
	c.interval = next.Interval
	c.repetitions = next.Repetitions
	c.lastReview = now
	c.nextReview = now.AddDate(0, 0, next.Interval)
	c.totalReviews++
	if correct {
		c.correctReviews++
	}
	return nil
}

// Clone returns an independent copy of the card
func (c *Card) Clone() *Card {
	clone := *c
	return &clone
}

// Snapshot is the serialized view of a card for transport and persistence.
type Snapshot struct {
	ItemKey        string     `json:"item_key"`
	EasinessFactor float64    `json:"easiness_factor"`
	IntervalDays   int        `json:"interval_days"`
	Repetitions    int        `json:"repetitions"`
	NextReview     time.Time  `json:"next_review"`
	LastReview     *time.Time `json:"last_review,omitempty"`
	TotalReviews   int        `json:"total_reviews"`
	CorrectReviews int        `json:"correct_reviews"`
}

// Snapshot returns the card's serialized view
func (c *Card) Snapshot() Snapshot {
	s := Snapshot{
		ItemKey:        string(c.itemKey),
		EasinessFactor: c.easinessFactor,
		IntervalDays:   c.interval,
		Repetitions:    c.repetitions,
		NextReview:     c.nextReview,
		TotalReviews:   c.totalReviews,
		CorrectReviews: c.correctReviews,
	}
	if !c.lastReview.IsZero() {
		last := c.lastReview
		s.LastReview = &last
	}
	return s
}

// Restore rebuilds a card from its serialized view (used by repositories)
func Restore(s Snapshot) *Card {
	c := &Card{
		itemKey:        verb.ItemKey(s.ItemKey),
		easinessFactor: s.EasinessFactor,
		interval:       s.IntervalDays,
		repetitions:    s.Repetitions,
		nextReview:     s.NextReview,
		totalReviews:   s.TotalReviews,
		correctReviews: s.CorrectReviews,
	}
	if s.LastReview != nil {
		c.lastReview = *s.LastReview
	}
	return c
}
