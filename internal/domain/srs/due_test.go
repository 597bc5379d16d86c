package srs

import (
	"testing"
	"time"

	"spanish-conjugation-bot/internal/domain/verb"
)

func cardDueAt(key string, due time.Time) *Card {
	return Restore(Snapshot{ItemKey: key, EasinessFactor: DefaultEasinessFactor, NextReview: due})
}

func TestDueCardsFiltersAndOrders(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	cards := []*Card{
		cardDueAt("hablar|present|yo", now.AddDate(0, 0, -1)),
		cardDueAt("comer|present|tu", now.AddDate(0, 0, 1)), // not due
		cardDueAt("vivir|preterite|el", now.AddDate(0, 0, -3)),
		cardDueAt("ser|present|yo", now), // due exactly now
	}

	due := DueCards(cards, now, 0)

	if len(due) != 3 {
		t.Fatalf("got %d due cards, want 3", len(due))
	}
	want := []verb.ItemKey{"vivir|preterite|el", "hablar|present|yo", "ser|present|yo"}
	for i, key := range want {
		if due[i].ItemKey() != key {
			t.Errorf("position %d: got %q, want %q", i, due[i].ItemKey(), key)
		}
	}
}

func TestDueCardsNeverReturnsFutureCards(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	cards := []*Card{
		cardDueAt("hablar|present|yo", now.Add(time.Minute)),
		cardDueAt("comer|present|tu", now.AddDate(0, 1, 0)),
	}

	if due := DueCards(cards, now, 0); len(due) != 0 {
		t.Errorf("got %d due cards, want none", len(due))
	}
}

func TestDueCardsTieBrokenByKey(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, -1)

	cards := []*Card{
		cardDueAt("vivir|present|yo", due),
		cardDueAt("comer|present|yo", due),
		cardDueAt("hablar|present|yo", due),
	}

	got := DueCards(cards, now, 0)
	want := []verb.ItemKey{"comer|present|yo", "hablar|present|yo", "vivir|present|yo"}
	for i, key := range want {
		if got[i].ItemKey() != key {
			t.Errorf("position %d: got %q, want %q", i, got[i].ItemKey(), key)
		}
	}
}

func TestDueCardsLimit(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	cards := []*Card{
		cardDueAt("hablar|present|yo", now.AddDate(0, 0, -3)),
		cardDueAt("comer|present|tu", now.AddDate(0, 0, -1)),
		cardDueAt("vivir|present|el", now.AddDate(0, 0, -2)),
	}

	due := DueCards(cards, now, 2)
	if len(due) != 2 {
		t.Fatalf("got %d cards, want 2", len(due))
	}
	// The two most overdue survive the cut.
	if due[0].ItemKey() != "hablar|present|yo" || due[1].ItemKey() != "vivir|present|el" {
		t.Errorf("got %q, %q; want hablar then vivir", due[0].ItemKey(), due[1].ItemKey())
	}
}

func TestDaysOverdue(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		due  time.Time
		want int
	}{
		{"future card", now.AddDate(0, 0, 2), 0},
		{"due this moment", now, 0},
		{"half a day late", now.Add(-12 * time.Hour), 0},
		{"one day late", now.AddDate(0, 0, -1), 1},
		{"a week late", now.AddDate(0, 0, -7), 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := cardDueAt("hablar|present|yo", tt.due)
			if got := card.DaysOverdue(now); got != tt.want {
				t.Errorf("DaysOverdue = %d, want %d", got, tt.want)
			}
		})
	}
}
