package usecases

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"spanish-conjugation-bot/internal/domain/session"
	"spanish-conjugation-bot/internal/domain/srs"
	"spanish-conjugation-bot/internal/domain/user"
	"spanish-conjugation-bot/internal/domain/verb"
)

// DrillUseCase builds conjugation exercises around the scheduler: due
// cards first, then unseen conjugations drawn from the tense pool the
// learner's difficulty tier allows.
type DrillUseCase struct {
	scheduler *SchedulerUseCase
	cardRepo  srs.Repository
	verbRepo  verb.Repository
}

// NewDrillUseCase creates a new drill use case
func NewDrillUseCase(scheduler *SchedulerUseCase, cardRepo srs.Repository, verbRepo verb.Repository) *DrillUseCase {
	return &DrillUseCase{
		scheduler: scheduler,
		cardRepo:  cardRepo,
		verbRepo:  verbRepo,
	}
}

// DrillSession is one active exercise for one learner. Answer state is
// mutex-guarded: the bot handles each update on its own goroutine, so a
// typed answer and a callback for the same chat may touch the session
// concurrently.
type DrillSession struct {
	LearnerID   user.ID
	Conjugation *verb.Conjugation
	Tier        session.Tier
	StartTime   time.Time

	mu           sync.Mutex
	answered     bool
	correct      bool
	responseTime time.Duration
}

// Prompt renders the exercise question
func (s *DrillSession) Prompt() string {
	c := s.Conjugation
	return fmt.Sprintf("Conjugate *%s* (%s)\nTense: %s\nPerson: %s",
		c.Infinitive(), c.Translation(), c.Tense(), c.Person().Label())
}

// Answered reports whether an answer has been checked already
func (s *DrillSession) Answered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answered
}

// Correct reports the checked answer's correctness
func (s *DrillSession) Correct() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.correct
}

// AnswerCheck is the immediate result of checking a typed answer.
type AnswerCheck struct {
	Correct     bool
	CorrectForm string
}

// DrillFeedback is the full result after the review has been processed.
type DrillFeedback struct {
	Correct     bool
	CorrectForm string
	Outcome     *SchedulingOutcome
}

// NextExercise picks the learner's next exercise: the most overdue card
// when one is due, otherwise an unseen conjugation from the tier-gated
// tense pool. Returns (nil, nil) when nothing is left to practice.
func (uc *DrillUseCase) NextExercise(ctx context.Context, learnerID user.ID) (*DrillSession, error) {
	tier := uc.scheduler.SessionTier(learnerID)

	due, err := uc.scheduler.DueItems(ctx, learnerID, time.Now(), 1)
	if err != nil {
		return nil, fmt.Errorf("failed to get due items: %w", err)
	}

	var conjugation *verb.Conjugation
	if len(due) > 0 {
		conjugation, err = uc.verbRepo.FindByKey(ctx, due[0].ItemKey)
		if err != nil {
			return nil, fmt.Errorf("failed to get conjugation: %w", err)
		}
	}

	if conjugation == nil {
		unseen, err := uc.cardRepo.FindUnseenItems(ctx, learnerID, TensesForTier(tier), 1)
		if err != nil {
			return nil, fmt.Errorf("failed to get unseen items: %w", err)
		}
		if len(unseen) == 0 {
			return nil, nil // nothing due, nothing new
		}
		conjugation = unseen[0]
	}

	if _, err := uc.scheduler.AddCard(learnerID, conjugation.Key()); err != nil {
		return nil, fmt.Errorf("failed to register card: %w", err)
	}

	return &DrillSession{
		LearnerID:   learnerID,
		Conjugation: conjugation,
		Tier:        tier,
		StartTime:   time.Now(),
	}, nil
}

// CheckAnswer grades a typed answer and stamps the response time on the
// session. Grading is a normalized string comparison; the scheduler only
// ever sees the resulting boolean.
func (uc *DrillUseCase) CheckAnswer(session *DrillSession, answer string) *AnswerCheck {
	correct := normalizeAnswer(answer) == normalizeAnswer(session.Conjugation.Form())
	session.mu.Lock()
	session.answered = true
	session.correct = correct
	session.responseTime = time.Since(session.StartTime)
	session.mu.Unlock()
	return &AnswerCheck{
		Correct:     correct,
		CorrectForm: session.Conjugation.Form(),
	}
}

// Complete processes the checked answer through the scheduler, with the
// learner's optional felt-difficulty rating.
func (uc *DrillUseCase) Complete(ctx context.Context, session *DrillSession, felt srs.FeltDifficulty) (*DrillFeedback, error) {
	session.mu.Lock()
	answered, correct, responseTime := session.answered, session.correct, session.responseTime
	session.mu.Unlock()

	if !answered {
		return nil, fmt.Errorf("drill session has no checked answer")
	}

	outcome, err := uc.scheduler.ProcessResult(
		ctx,
		session.LearnerID,
		session.Conjugation.Key(),
		correct,
		responseTime,
		felt,
	)
	if err != nil {
		return nil, err
	}

	return &DrillFeedback{
		Correct:     correct,
		CorrectForm: session.Conjugation.Form(),
		Outcome:     outcome,
	}, nil
}

// AvailableForms counts the catalog forms the learner's current tier
// unlocks, for progress displays.
func (uc *DrillUseCase) AvailableForms(ctx context.Context, learnerID user.ID) (int, error) {
	tier := uc.scheduler.SessionTier(learnerID)
	forms, err := uc.verbRepo.FindByTenses(ctx, TensesForTier(tier))
	if err != nil {
		return 0, fmt.Errorf("failed to load catalog: %w", err)
	}
	return len(forms), nil
}

// TensesForTier maps a difficulty tier to the tenses exercises may use
func TensesForTier(tier session.Tier) []verb.Tense {
	switch tier {
	case session.TierAdvanced:
		return []verb.Tense{
			verb.TensePresent, verb.TensePreterite, verb.TenseImperfect,
			verb.TenseFuture, verb.TenseConditional,
		}
	case session.TierIntermediate:
		return []verb.Tense{verb.TensePresent, verb.TensePreterite, verb.TenseImperfect}
	default:
		return []verb.Tense{verb.TensePresent}
	}
}

// normalizeAnswer normalizes a typed answer for comparison
func normalizeAnswer(answer string) string {
	return strings.ToLower(strings.Join(strings.Fields(answer), " "))
}
