package srs

import (
	"sort"
	"time"
)

// CardState is the coarse lifecycle label of a card
type CardState string

const (
	StateNew      CardState = "new"
	StateLearning CardState = "learning"
	StateMastered CardState = "mastered"
)

// masteredRepetitions is the consecutive-success count at which a card
// counts as mastered.
const masteredRepetitions = 5

// DueCards filters cards down to those due at the given time, ordered
// most-overdue first. Ties on the due time are broken by item key so the
// order is deterministic. A limit <= 0 means no truncation.
func DueCards(cards []*Card, now time.Time, limit int) []*Card {
	var due []*Card
	for _, c := range cards {
		if c.IsDue(now) {
			due = append(due, c)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		if due[i].nextReview.Equal(due[j].nextReview) {
			return due[i].itemKey < due[j].itemKey
		}
		return due[i].nextReview.Before(due[j].nextReview)
	})

	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due
}

// DaysOverdue returns how many whole days past its due time a card is at
// the given moment, never negative.
func (c *Card) DaysOverdue(now time.Time) int {
	if c.nextReview.After(now) {
		return 0
	}
	return int(now.Sub(c.nextReview).Hours() / 24)
}
