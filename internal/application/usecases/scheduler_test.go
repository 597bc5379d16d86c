package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"spanish-conjugation-bot/internal/domain/session"
	"spanish-conjugation-bot/internal/domain/srs"
	"spanish-conjugation-bot/internal/domain/user"
	"spanish-conjugation-bot/internal/domain/verb"
)

// fakeCardRepo is an in-memory srs.Repository with injectable failures.
type fakeCardRepo struct {
	cards   map[fakeCardKey]*srs.Card
	reviews []*srs.ReviewRecord

	unseen []*verb.Conjugation

	saveErr error
}

type fakeCardKey struct {
	learnerID user.ID
	itemKey   verb.ItemKey
}

func newFakeCardRepo() *fakeCardRepo {
	return &fakeCardRepo{cards: make(map[fakeCardKey]*srs.Card)}
}

func (r *fakeCardRepo) FindCard(_ context.Context, learnerID user.ID, key verb.ItemKey) (*srs.Card, error) {
	card, ok := r.cards[fakeCardKey{learnerID, key}]
	if !ok {
		return nil, nil
	}
	return card.Clone(), nil
}

func (r *fakeCardRepo) FindCardsByLearner(_ context.Context, learnerID user.ID) ([]*srs.Card, error) {
	var out []*srs.Card
	for k, card := range r.cards {
		if k.learnerID == learnerID {
			out = append(out, card.Clone())
		}
	}
	return out, nil
}

func (r *fakeCardRepo) SaveReviewResult(_ context.Context, learnerID user.ID, card *srs.Card, review *srs.ReviewRecord) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.cards[fakeCardKey{learnerID, card.ItemKey()}] = card.Clone()
	r.reviews = append(r.reviews, review)
	return nil
}

// put seeds a card directly, bypassing the review write path.
func (r *fakeCardRepo) put(learnerID user.ID, card *srs.Card) {
	r.cards[fakeCardKey{learnerID, card.ItemKey()}] = card.Clone()
}

func (r *fakeCardRepo) FindUnseenItems(_ context.Context, learnerID user.ID, tenses []verb.Tense, limit int) ([]*verb.Conjugation, error) {
	allowed := make(map[verb.Tense]bool, len(tenses))
	for _, t := range tenses {
		allowed[t] = true
	}

	var out []*verb.Conjugation
	for _, c := range r.unseen {
		if _, seen := r.cards[fakeCardKey{learnerID, c.Key()}]; seen {
			continue
		}
		if !allowed[c.Tense()] {
			continue
		}
		out = append(out, c)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeCardRepo) LearnersWithCards(context.Context) ([]user.ID, error) {
	return nil, nil
}

// fakeVerbRepo serves a fixed catalog keyed by item key.
type fakeVerbRepo struct {
	catalog map[verb.ItemKey]*verb.Conjugation
}

func newFakeVerbRepo(conjugations ...*verb.Conjugation) *fakeVerbRepo {
	catalog := make(map[verb.ItemKey]*verb.Conjugation)
	for _, c := range conjugations {
		catalog[c.Key()] = c
	}
	return &fakeVerbRepo{catalog: catalog}
}

func (r *fakeVerbRepo) Save(context.Context, *verb.Conjugation) error        { return nil }
func (r *fakeVerbRepo) SaveBatch(context.Context, []*verb.Conjugation) error { return nil }

func (r *fakeVerbRepo) FindByKey(_ context.Context, key verb.ItemKey) (*verb.Conjugation, error) {
	return r.catalog[key], nil
}

func (r *fakeVerbRepo) FindAll(context.Context) ([]*verb.Conjugation, error) { return nil, nil }

func (r *fakeVerbRepo) FindByTenses(_ context.Context, tenses []verb.Tense) ([]*verb.Conjugation, error) {
	allowed := make(map[verb.Tense]bool, len(tenses))
	for _, t := range tenses {
		allowed[t] = true
	}
	var out []*verb.Conjugation
	for _, c := range r.catalog {
		if allowed[c.Tense()] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeVerbRepo) Exists(_ context.Context, key verb.ItemKey) (bool, error) {
	_, ok := r.catalog[key]
	return ok, nil
}

const learner = user.ID(1)

var hablarYo = verb.NewConjugation("hablar", "to speak", verb.TensePresent, verb.PersonYo, "hablo")

func newTestScheduler(cardRepo *fakeCardRepo, verbRepo *fakeVerbRepo, now time.Time) *SchedulerUseCase {
	uc := NewSchedulerUseCase(cardRepo, verbRepo)
	uc.now = func() time.Time { return now }
	return uc
}

func TestAddCardIdempotent(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	uc := newTestScheduler(newFakeCardRepo(), newFakeVerbRepo(hablarYo), now)

	first, err := uc.AddCard(learner, hablarYo.Key())
	if err != nil {
		t.Fatalf("AddCard: %v", err)
	}
	second, err := uc.AddCard(learner, hablarYo.Key())
	if err != nil {
		t.Fatalf("AddCard: %v", err)
	}
	if first != second {
		t.Error("second AddCard returned a different card")
	}
	if !first.IsDue(now) {
		t.Error("new card is not due immediately")
	}
}

func TestAddCardRejectsMalformedKey(t *testing.T) {
	uc := newTestScheduler(newFakeCardRepo(), newFakeVerbRepo(), time.Now())

	for _, key := range []verb.ItemKey{"", "hablar", "hablar|present", "hablar|nope|yo", "hablar|present|zz"} {
		if _, err := uc.AddCard(learner, key); !errors.Is(err, verb.ErrInvalidItemKey) {
			t.Errorf("AddCard(%q): err=%v, want ErrInvalidItemKey", key, err)
		}
	}
}

func TestProcessResultHappyPath(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	cardRepo := newFakeCardRepo()
	uc := newTestScheduler(cardRepo, newFakeVerbRepo(hablarYo), now)

	outcome, err := uc.ProcessResult(context.Background(), learner, hablarYo.Key(), true, 2*time.Second, srs.FeltUnset)
	if err != nil {
		t.Fatalf("ProcessResult: %v", err)
	}

	if outcome.IntervalDays != 1 || outcome.Repetitions != 1 {
		t.Errorf("outcome interval=%d repetitions=%d, want 1 and 1", outcome.IntervalDays, outcome.Repetitions)
	}
	if want := now.AddDate(0, 0, 1); !outcome.NextReview.Equal(want) {
		t.Errorf("next review %v, want %v", outcome.NextReview, want)
	}

	saved, err := cardRepo.FindCard(context.Background(), learner, hablarYo.Key())
	if err != nil || saved == nil {
		t.Fatalf("saved card missing: card=%v err=%v", saved, err)
	}
	if saved.Repetitions() != 1 {
		t.Errorf("persisted repetitions=%d, want 1", saved.Repetitions())
	}
	if len(cardRepo.reviews) != 1 {
		t.Fatalf("review history has %d entries, want 1", len(cardRepo.reviews))
	}
	if rec := cardRepo.reviews[0]; rec.Quality != srs.QualityPerfect || !rec.Correct || rec.ResponseTimeMs != 2000 {
		t.Errorf("history entry %+v, want quality 5, correct, 2000ms", rec)
	}
}

func TestProcessResultLoadsPersistedCard(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	cardRepo := newFakeCardRepo()

	// A card with one success already on disk, nothing in memory.
	existing := srs.NewCard(hablarYo.Key(), now.AddDate(0, 0, -1))
	if err := existing.Review(srs.QualityPerfect, true, now.AddDate(0, 0, -1)); err != nil {
		t.Fatalf("seed review: %v", err)
	}
	cardRepo.put(learner, existing)

	uc := newTestScheduler(cardRepo, newFakeVerbRepo(hablarYo), now)

	outcome, err := uc.ProcessResult(context.Background(), learner, hablarYo.Key(), true, 2*time.Second, srs.FeltUnset)
	if err != nil {
		t.Fatalf("ProcessResult: %v", err)
	}
	if outcome.Repetitions != 2 || outcome.IntervalDays != 6 {
		t.Errorf("outcome repetitions=%d interval=%d, want 2 and 6", outcome.Repetitions, outcome.IntervalDays)
	}
}

func TestProcessResultPersistenceFailureLeavesMemoryUntouched(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	cardRepo := newFakeCardRepo()
	uc := newTestScheduler(cardRepo, newFakeVerbRepo(hablarYo), now)

	card, err := uc.AddCard(learner, hablarYo.Key())
	if err != nil {
		t.Fatalf("AddCard: %v", err)
	}

	cardRepo.saveErr = errors.New("disk full")
	if _, err := uc.ProcessResult(context.Background(), learner, hablarYo.Key(), true, 2*time.Second, srs.FeltUnset); err == nil {
		t.Fatal("ProcessResult succeeded despite save failure")
	}

	// Working copy unchanged, nothing recorded in the session tracker,
	// nothing durable written.
	if card.TotalReviews() != 0 || card.Repetitions() != 0 {
		t.Errorf("working card mutated: total=%d repetitions=%d", card.TotalReviews(), card.Repetitions())
	}
	if m := uc.SessionMetrics(learner); m.Samples != 0 {
		t.Errorf("tracker recorded %d samples after failed persistence", m.Samples)
	}
	if len(cardRepo.cards) != 0 || len(cardRepo.reviews) != 0 {
		t.Errorf("partial write survived the failure: %d cards, %d reviews", len(cardRepo.cards), len(cardRepo.reviews))
	}

	// Once the repository recovers, the retry applies the review exactly
	// once rather than replaying it on top of a half-saved card.
	cardRepo.saveErr = nil
	outcome, err := uc.ProcessResult(context.Background(), learner, hablarYo.Key(), true, 2*time.Second, srs.FeltUnset)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if outcome.Repetitions != 1 || outcome.IntervalDays != 1 {
		t.Errorf("retry repetitions=%d interval=%d, want 1 and 1", outcome.Repetitions, outcome.IntervalDays)
	}
	if len(cardRepo.reviews) != 1 {
		t.Errorf("history has %d entries after retry, want 1", len(cardRepo.reviews))
	}
}

func TestProcessResultRejectsInvalidInput(t *testing.T) {
	uc := newTestScheduler(newFakeCardRepo(), newFakeVerbRepo(hablarYo), time.Now())
	ctx := context.Background()

	if _, err := uc.ProcessResult(ctx, learner, "bad key", true, time.Second, srs.FeltUnset); !errors.Is(err, verb.ErrInvalidItemKey) {
		t.Errorf("malformed key: err=%v, want ErrInvalidItemKey", err)
	}
	if _, err := uc.ProcessResult(ctx, learner, hablarYo.Key(), true, 0, srs.FeltUnset); !errors.Is(err, srs.ErrInvalidResponseTime) {
		t.Errorf("zero response time: err=%v, want ErrInvalidResponseTime", err)
	}
	if _, err := uc.ProcessResult(ctx, learner, hablarYo.Key(), true, time.Second, srs.FeltDifficulty(42)); !errors.Is(err, srs.ErrInvalidFeltDifficulty) {
		t.Errorf("bad felt: err=%v, want ErrInvalidFeltDifficulty", err)
	}
}

func TestProcessResultUnknownItemFailsFast(t *testing.T) {
	cardRepo := newFakeCardRepo()
	uc := newTestScheduler(cardRepo, newFakeVerbRepo(), time.Now())

	// Well-formed key, but no conjugation behind it anywhere.
	key := verb.NewItemKey("inventar", verb.TensePresent, verb.PersonYo)
	if _, err := uc.ProcessResult(context.Background(), learner, key, true, time.Second, srs.FeltUnset); !errors.Is(err, srs.ErrUnknownItem) {
		t.Errorf("err=%v, want ErrUnknownItem", err)
	}
	if len(cardRepo.reviews) != 0 {
		t.Error("history written for an unknown item")
	}
}

func TestDueItemsEnrichment(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	cardRepo := newFakeCardRepo()
	uc := newTestScheduler(cardRepo, newFakeVerbRepo(hablarYo), now)

	// One catalog-backed card and one orphan whose conjugation is gone.
	orphanKey := verb.NewItemKey("comer", verb.TensePresent, verb.PersonTu)
	seedCard(t, cardRepo, learner, hablarYo.Key(), now.AddDate(0, 0, -2))
	seedCard(t, cardRepo, learner, orphanKey, now.AddDate(0, 0, -1))

	items, err := uc.DueItems(context.Background(), learner, now, 0)
	if err != nil {
		t.Fatalf("DueItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}

	// Most overdue first, display enriched from the catalog.
	if items[0].ItemKey != hablarYo.Key() {
		t.Errorf("first item %q, want the most overdue", items[0].ItemKey)
	}
	if items[0].DisplayForm != hablarYo.DisplayForm() {
		t.Errorf("display %q, want %q", items[0].DisplayForm, hablarYo.DisplayForm())
	}
	if items[0].DaysOverdue != 2 {
		t.Errorf("days overdue=%d, want 2", items[0].DaysOverdue)
	}

	// The orphan degrades to its raw key.
	if items[1].DisplayForm != string(orphanKey) {
		t.Errorf("orphan display %q, want raw key %q", items[1].DisplayForm, orphanKey)
	}
}

func TestStatistics(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	cardRepo := newFakeCardRepo()
	uc := newTestScheduler(cardRepo, newFakeVerbRepo(hablarYo), now)

	// New card, untouched.
	seedCard(t, cardRepo, learner, verb.NewItemKey("vivir", verb.TensePresent, verb.PersonYo), now.AddDate(0, 0, 1))

	// Learning card: one success, one failure, currently due.
	learning := srs.NewCard(verb.NewItemKey("comer", verb.TensePresent, verb.PersonYo), now.AddDate(0, 0, -5))
	learning.Review(srs.QualityPerfect, true, now.AddDate(0, 0, -5))
	learning.Review(srs.QualityIncorrect, false, now.AddDate(0, 0, -4))
	cardRepo.put(learner, learning)

	// Mastered card: five straight successes, not due for a while.
	mastered := srs.NewCard(hablarYo.Key(), now.AddDate(0, 0, -60))
	reviewAt := now.AddDate(0, 0, -60)
	for i := 0; i < 5; i++ {
		if err := mastered.Review(srs.QualityPerfect, true, reviewAt); err != nil {
			t.Fatalf("seed review: %v", err)
		}
		reviewAt = mastered.NextReview()
	}
	cardRepo.put(learner, mastered)

	stats, err := uc.Statistics(context.Background(), learner)
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}

	if stats.TotalCards != 3 {
		t.Errorf("total=%d, want 3", stats.TotalCards)
	}
	if stats.NewCards != 1 || stats.LearningCards != 1 || stats.MasteredCards != 1 {
		t.Errorf("states new=%d learning=%d mastered=%d, want 1/1/1",
			stats.NewCards, stats.LearningCards, stats.MasteredCards)
	}
	if stats.DueCards != 1 {
		t.Errorf("due=%d, want 1", stats.DueCards)
	}
	// 6 correct out of 7 reviews overall.
	if want := 6.0 / 7.0; stats.Accuracy != want {
		t.Errorf("accuracy=%v, want %v", stats.Accuracy, want)
	}
}

func TestSessionTierFollowsPerformance(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	uc := newTestScheduler(newFakeCardRepo(), newFakeVerbRepo(hablarYo), now)

	uc.StartSession(learner, session.TierIntermediate)
	if uc.SessionTier(learner) != session.TierIntermediate {
		t.Fatalf("tier=%q after StartSession", uc.SessionTier(learner))
	}

	for i := 0; i < session.DefaultMinSamples; i++ {
		if _, err := uc.ProcessResult(context.Background(), learner, hablarYo.Key(), true, 2*time.Second, srs.FeltUnset); err != nil {
			t.Fatalf("ProcessResult: %v", err)
		}
	}

	if uc.SessionTier(learner) != session.TierAdvanced {
		t.Errorf("tier=%q after a fast correct streak, want %q", uc.SessionTier(learner), session.TierAdvanced)
	}
}

func seedCard(t *testing.T, repo *fakeCardRepo, learnerID user.ID, key verb.ItemKey, due time.Time) {
	t.Helper()
	card := srs.Restore(srs.Snapshot{
		ItemKey:        string(key),
		EasinessFactor: srs.DefaultEasinessFactor,
		NextReview:     due,
	})
	repo.put(learnerID, card)
}
