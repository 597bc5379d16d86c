package usecases

import (
	"context"
	"sync"
	"testing"
	"time"

	"spanish-conjugation-bot/internal/domain/session"
	"spanish-conjugation-bot/internal/domain/srs"
	"spanish-conjugation-bot/internal/domain/verb"
)

func newTestDrill(cardRepo *fakeCardRepo, verbRepo *fakeVerbRepo, now time.Time) (*DrillUseCase, *SchedulerUseCase) {
	scheduler := newTestScheduler(cardRepo, verbRepo, now)
	return NewDrillUseCase(scheduler, cardRepo, verbRepo), scheduler
}

func TestTensesForTier(t *testing.T) {
	tests := []struct {
		tier session.Tier
		want int
	}{
		{session.TierBeginner, 1},
		{session.TierIntermediate, 3},
		{session.TierAdvanced, 5},
		{session.Tier("bogus"), 1}, // unknown tiers get the safest pool
	}

	for _, tt := range tests {
		tenses := TensesForTier(tt.tier)
		if len(tenses) != tt.want {
			t.Errorf("TensesForTier(%q) returned %d tenses, want %d", tt.tier, len(tenses), tt.want)
		}
		if tenses[0] != verb.TensePresent {
			t.Errorf("TensesForTier(%q) does not include the present tense first", tt.tier)
		}
	}
}

func TestNextExercisePrefersDueCard(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	cardRepo := newFakeCardRepo()
	comerTu := verb.NewConjugation("comer", "to eat", verb.TensePresent, verb.PersonTu, "comes")
	cardRepo.unseen = []*verb.Conjugation{comerTu}

	seedCard(t, cardRepo, learner, hablarYo.Key(), now.AddDate(0, 0, -1))

	drill, _ := newTestDrill(cardRepo, newFakeVerbRepo(hablarYo, comerTu), now)

	sess, err := drill.NextExercise(context.Background(), learner)
	if err != nil {
		t.Fatalf("NextExercise: %v", err)
	}
	if sess == nil {
		t.Fatal("no exercise despite a due card")
	}
	if sess.Conjugation.Key() != hablarYo.Key() {
		t.Errorf("picked %q, want the due card %q", sess.Conjugation.Key(), hablarYo.Key())
	}
}

func TestNextExerciseFallsBackToUnseen(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	cardRepo := newFakeCardRepo()
	cardRepo.unseen = []*verb.Conjugation{hablarYo}

	drill, _ := newTestDrill(cardRepo, newFakeVerbRepo(hablarYo), now)

	sess, err := drill.NextExercise(context.Background(), learner)
	if err != nil {
		t.Fatalf("NextExercise: %v", err)
	}
	if sess == nil {
		t.Fatal("no exercise despite unseen conjugations")
	}
	if sess.Conjugation.Key() != hablarYo.Key() {
		t.Errorf("picked %q, want %q", sess.Conjugation.Key(), hablarYo.Key())
	}
	if sess.Tier != session.TierBeginner {
		t.Errorf("session tier %q, want default %q", sess.Tier, session.TierBeginner)
	}
}

func TestNextExerciseRespectsTierTensePool(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	cardRepo := newFakeCardRepo()

	// Only a future-tense conjugation remains; a beginner cannot see it.
	hablareYo := verb.NewConjugation("hablar", "to speak", verb.TenseFuture, verb.PersonYo, "hablaré")
	cardRepo.unseen = []*verb.Conjugation{hablareYo}

	drill, scheduler := newTestDrill(cardRepo, newFakeVerbRepo(hablareYo), now)

	sess, err := drill.NextExercise(context.Background(), learner)
	if err != nil {
		t.Fatalf("NextExercise: %v", err)
	}
	if sess != nil {
		t.Fatalf("beginner got a %s-tense exercise", sess.Conjugation.Tense())
	}

	scheduler.StartSession(learner, session.TierAdvanced)
	sess, err = drill.NextExercise(context.Background(), learner)
	if err != nil {
		t.Fatalf("NextExercise: %v", err)
	}
	if sess == nil {
		t.Fatal("advanced learner got no exercise")
	}
}

func TestNextExerciseNothingLeft(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	drill, _ := newTestDrill(newFakeCardRepo(), newFakeVerbRepo(), now)

	sess, err := drill.NextExercise(context.Background(), learner)
	if err != nil {
		t.Fatalf("NextExercise: %v", err)
	}
	if sess != nil {
		t.Errorf("got an exercise from an empty catalog: %+v", sess)
	}
}

func TestCheckAnswerNormalizes(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	drill, _ := newTestDrill(newFakeCardRepo(), newFakeVerbRepo(hablarYo), now)

	tests := []struct {
		answer string
		want   bool
	}{
		{"hablo", true},
		{"HABLO", true},
		{"  hablo  ", true},
		{"hablas", false},
		{"habló", false}, // accents are significant
		{"", false},
	}

	for _, tt := range tests {
		sess := &DrillSession{LearnerID: learner, Conjugation: hablarYo, StartTime: time.Now()}
		check := drill.CheckAnswer(sess, tt.answer)
		if check.Correct != tt.want {
			t.Errorf("CheckAnswer(%q) = %v, want %v", tt.answer, check.Correct, tt.want)
		}
		if check.CorrectForm != "hablo" {
			t.Errorf("correct form %q, want %q", check.CorrectForm, "hablo")
		}
		if !sess.Answered() {
			t.Error("session not marked answered")
		}
	}
}

func TestCompleteProcessesReview(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	cardRepo := newFakeCardRepo()
	cardRepo.unseen = []*verb.Conjugation{hablarYo}

	drill, _ := newTestDrill(cardRepo, newFakeVerbRepo(hablarYo), now)
	ctx := context.Background()

	sess, err := drill.NextExercise(ctx, learner)
	if err != nil || sess == nil {
		t.Fatalf("NextExercise: sess=%v err=%v", sess, err)
	}

	drill.CheckAnswer(sess, "hablo")
	feedback, err := drill.Complete(ctx, sess, srs.FeltNormal)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if !feedback.Correct {
		t.Error("feedback marks a right answer wrong")
	}
	if feedback.Outcome.Repetitions != 1 {
		t.Errorf("outcome repetitions=%d, want 1", feedback.Outcome.Repetitions)
	}
	if len(cardRepo.reviews) != 1 {
		t.Errorf("review history has %d entries, want 1", len(cardRepo.reviews))
	}
}

func TestAvailableFormsFollowsTier(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	hablareYo := verb.NewConjugation("hablar", "to speak", verb.TenseFuture, verb.PersonYo, "hablaré")
	drill, scheduler := newTestDrill(newFakeCardRepo(), newFakeVerbRepo(hablarYo, hablareYo), now)
	ctx := context.Background()

	// Beginners only see present-tense forms.
	count, err := drill.AvailableForms(ctx, learner)
	if err != nil {
		t.Fatalf("AvailableForms: %v", err)
	}
	if count != 1 {
		t.Errorf("beginner sees %d forms, want 1", count)
	}

	scheduler.StartSession(learner, session.TierAdvanced)
	count, err = drill.AvailableForms(ctx, learner)
	if err != nil {
		t.Fatalf("AvailableForms: %v", err)
	}
	if count != 2 {
		t.Errorf("advanced learner sees %d forms, want 2", count)
	}
}

func TestDrillSessionConcurrentAnswerAndStatusReads(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	cardRepo := newFakeCardRepo()
	cardRepo.unseen = []*verb.Conjugation{hablarYo}

	drill, _ := newTestDrill(cardRepo, newFakeVerbRepo(hablarYo), now)
	ctx := context.Background()

	sess, err := drill.NextExercise(ctx, learner)
	if err != nil || sess == nil {
		t.Fatalf("NextExercise: sess=%v err=%v", sess, err)
	}

	// A callback for the same chat can poll the session while the typed
	// answer is still being graded on another goroutine.
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			sess.Answered()
			sess.Correct()
		}
	}()

	drill.CheckAnswer(sess, "hablo")
	wg.Wait()

	if !sess.Answered() || !sess.Correct() {
		t.Errorf("answered=%v correct=%v after grading, want both true", sess.Answered(), sess.Correct())
	}
	if _, err := drill.Complete(ctx, sess, srs.FeltUnset); err != nil {
		t.Errorf("Complete after concurrent reads: %v", err)
	}
}

func TestCompleteRequiresCheckedAnswer(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	drill, _ := newTestDrill(newFakeCardRepo(), newFakeVerbRepo(hablarYo), now)

	sess := &DrillSession{LearnerID: learner, Conjugation: hablarYo, StartTime: time.Now()}
	if _, err := drill.Complete(context.Background(), sess, srs.FeltUnset); err == nil {
		t.Error("Complete accepted a session with no checked answer")
	}
}
