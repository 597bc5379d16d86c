package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"spanish-conjugation-bot/internal/domain/srs"
	"spanish-conjugation-bot/internal/domain/user"
	"spanish-conjugation-bot/internal/domain/verb"
)

type reviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository creates a new review-state repository
func NewReviewRepository(db *sqlx.DB) srs.Repository {
	return &reviewRepository{db: db}
}

type reviewCardRow struct {
	ID             int64        `db:"id"`
	UserID         int64        `db:"user_id"`
	ItemKey        string       `db:"item_key"`
	EasinessFactor float64      `db:"easiness_factor"`
	IntervalDays   int          `db:"interval_days"`
	Repetitions    int          `db:"repetitions"`
	NextReview     time.Time    `db:"next_review"`
	LastReview     sql.NullTime `db:"last_review"`
	TotalReviews   int          `db:"total_reviews"`
	CorrectReviews int          `db:"correct_reviews"`
	UpdatedAt      time.Time    `db:"updated_at"`
}

func (r reviewCardRow) toCard() *srs.Card {
	s := srs.Snapshot{
		ItemKey:        r.ItemKey,
		EasinessFactor: r.EasinessFactor,
		IntervalDays:   r.IntervalDays,
		Repetitions:    r.Repetitions,
		NextReview:     r.NextReview,
		TotalReviews:   r.TotalReviews,
		CorrectReviews: r.CorrectReviews,
	}
	if r.LastReview.Valid {
		last := r.LastReview.Time
		s.LastReview = &last
	}
	return srs.Restore(s)
}

// FindCard retrieves the card for a learner/item pair, or (nil, nil)
// when no card exists yet.
func (r *reviewRepository) FindCard(ctx context.Context, learnerID user.ID, key verb.ItemKey) (*srs.Card, error) {
	query := r.db.Rebind(`
		SELECT id, user_id, item_key, easiness_factor, interval_days, repetitions,
		       next_review, last_review, total_reviews, correct_reviews, updated_at
		FROM review_cards
		WHERE user_id = ? AND item_key = ?
	`)

	var row reviewCardRow
	err := r.db.GetContext(ctx, &row, query, int64(learnerID), string(key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find card: %w", err)
	}
	return row.toCard(), nil
}

// FindCardsByLearner retrieves all cards for a learner
func (r *reviewRepository) FindCardsByLearner(ctx context.Context, learnerID user.ID) ([]*srs.Card, error) {
	query := r.db.Rebind(`
		SELECT id, user_id, item_key, easiness_factor, interval_days, repetitions,
		       next_review, last_review, total_reviews, correct_reviews, updated_at
		FROM review_cards
		WHERE user_id = ?
		ORDER BY next_review ASC, item_key ASC
	`)

	var rows []reviewCardRow
	if err := r.db.SelectContext(ctx, &rows, query, int64(learnerID)); err != nil {
		return nil, fmt.Errorf("failed to find cards: %w", err)
	}

	cards := make([]*srs.Card, 0, len(rows))
	for _, row := range rows {
		cards = append(cards, row.toCard())
	}
	return cards, nil
}

// SaveReviewResult upserts the card row and appends the history entry in
// one transaction, so a failed history write never leaves the card row
// advanced on its own. Card writes are last-write-wins: a concurrent
// writer's row is simply replaced.
func (r *reviewRepository) SaveReviewResult(ctx context.Context, learnerID user.ID, card *srs.Card, review *srs.ReviewRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := upsertCard(ctx, tx, learnerID, card); err != nil {
		return err
	}
	if err := insertReview(ctx, tx, review); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit review result: %w", err)
	}
	return nil
}

func upsertCard(ctx context.Context, ext sqlx.ExtContext, learnerID user.ID, card *srs.Card) error {
	query := ext.Rebind(`
		INSERT INTO review_cards (
			user_id, item_key, easiness_factor, interval_days, repetitions,
			next_review, last_review, total_reviews, correct_reviews, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, item_key) DO UPDATE SET
			easiness_factor = EXCLUDED.easiness_factor,
			interval_days = EXCLUDED.interval_days,
			repetitions = EXCLUDED.repetitions,
			next_review = EXCLUDED.next_review,
			last_review = EXCLUDED.last_review,
			total_reviews = EXCLUDED.total_reviews,
			correct_reviews = EXCLUDED.correct_reviews,
			updated_at = EXCLUDED.updated_at
	`)

	snapshot := card.Snapshot()
	var lastReview sql.NullTime
	if snapshot.LastReview != nil {
		lastReview = sql.NullTime{Time: *snapshot.LastReview, Valid: true}
	}

	_, err := ext.ExecContext(ctx, query,
		int64(learnerID), snapshot.ItemKey,
		snapshot.EasinessFactor, snapshot.IntervalDays, snapshot.Repetitions,
		snapshot.NextReview, lastReview,
		snapshot.TotalReviews, snapshot.CorrectReviews,
		time.Now())
	if err != nil {
		return fmt.Errorf("failed to save card: %w", err)
	}
	return nil
}

func insertReview(ctx context.Context, ext sqlx.ExtContext, review *srs.ReviewRecord) error {
	query := ext.Rebind(`
		INSERT INTO review_history (user_id, item_key, quality, correct, response_time_ms, reviewed_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)

	_, err := ext.ExecContext(ctx, query,
		int64(review.LearnerID), string(review.ItemKey),
		int(review.Quality), review.Correct, review.ResponseTimeMs, review.ReviewedAt)
	if err != nil {
		return fmt.Errorf("failed to save review: %w", err)
	}
	return nil
}

// FindUnseenItems retrieves catalog conjugations in the given tenses that
// the learner has no card for yet.
func (r *reviewRepository) FindUnseenItems(ctx context.Context, learnerID user.ID, tenses []verb.Tense, limit int) ([]*verb.Conjugation, error) {
	if len(tenses) == 0 {
		return nil, nil
	}

	tenseValues := make([]string, 0, len(tenses))
	for _, t := range tenses {
		tenseValues = append(tenseValues, string(t))
	}

	query, args, err := sqlx.In(`
		SELECT v.id, v.infinitive, v.translation, v.tense, v.person, v.form
		FROM verbs v
		LEFT JOIN review_cards rc
			ON rc.item_key = v.infinitive || '|' || v.tense || '|' || v.person
			AND rc.user_id = ?
		WHERE rc.id IS NULL AND v.tense IN (?)
		ORDER BY v.id
		LIMIT ?
	`, int64(learnerID), tenseValues, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to build unseen-items query: %w", err)
	}

	var rows []verbRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to find unseen items: %w", err)
	}

	conjugations := make([]*verb.Conjugation, 0, len(rows))
	for _, row := range rows {
		conjugations = append(conjugations, row.toConjugation())
	}
	return conjugations, nil
}

// LearnersWithCards retrieves the IDs of all learners holding cards
func (r *reviewRepository) LearnersWithCards(ctx context.Context) ([]user.ID, error) {
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, "SELECT DISTINCT user_id FROM review_cards"); err != nil {
		return nil, fmt.Errorf("failed to list learners with cards: %w", err)
	}

	learnerIDs := make([]user.ID, 0, len(ids))
	for _, id := range ids {
		learnerIDs = append(learnerIDs, user.ID(id))
	}
	return learnerIDs, nil
}
