package srs

import (
	"fmt"
	"math"
	"time"
)

// Quality grades a single review on the SM-2 scale
type Quality int

const (
	// Complete blackout, unable to recall
	QualityBlackout Quality = 0
	// Incorrect response, recalled slowly
	QualityIncorrect Quality = 1
	// Incorrect response but answered quickly
	QualityIncorrectFast Quality = 2
	// Correct response but slow
	QualityCorrectSlow Quality = 3
	// Correct response after some hesitation
	QualityCorrectHesitation Quality = 4
	// Perfect response with no hesitation
	QualityPerfect Quality = 5
)

// PassThreshold is the lowest quality counted as a successful review.
const PassThreshold Quality = QualityCorrectSlow

// MaxIntervalDays caps interval growth at one year.
const MaxIntervalDays = 365

// Response time thresholds for quality derivation.
const (
	fastAnswer     = 3 * time.Second
	moderateAnswer = 6 * time.Second
	slowAnswer     = 12 * time.Second
)

// FeltDifficulty is the learner's optional self-reported difficulty
// for a single answer.
type FeltDifficulty int

const (
	// FeltUnset means no self-report was supplied
	FeltUnset FeltDifficulty = iota
	FeltEasy
	FeltNormal
	FeltHard
)

// DeriveQuality maps one exercise result to a quality score in [0, 5].
// For fixed correctness the score never increases with elapsed time, and
// the felt-difficulty shift never moves a score across the pass threshold:
// correct answers stay >= 3, incorrect answers stay <= 2.
func DeriveQuality(correct bool, responseTime time.Duration, felt FeltDifficulty) (Quality, error) {
	if responseTime <= 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidResponseTime, responseTime)
	}

	var q Quality
	if correct {
		switch {
		case responseTime < fastAnswer:
			q = QualityPerfect
		case responseTime < moderateAnswer:
			q = QualityCorrectHesitation
		default:
			q = QualityCorrectSlow
		}
	} else {
		switch {
		case responseTime < moderateAnswer:
			q = QualityIncorrectFast
		case responseTime < slowAnswer:
			q = QualityIncorrect
		default:
			q = QualityBlackout
		}
	}

	switch felt {
	case FeltUnset, FeltNormal:
	case FeltEasy:
		q++
	case FeltHard:
		q--
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidFeltDifficulty, felt)
	}

	if correct && q < PassThreshold {
		q = PassThreshold
	}
	if !correct && q >= PassThreshold {
		q = QualityIncorrectFast
	}
	if q < QualityBlackout {
		q = QualityBlackout
	}
	if q > QualityPerfect {
		q = QualityPerfect
	}
	return q, nil
}

// ReviewState is the scheduling portion of a card that the SM-2
// recurrence reads and rewrites.
type ReviewState struct {
	EasinessFactor float64
	Interval       int
	Repetitions    int
}

// NextState runs one step of the SM-2 recurrence. Pure: no clock, no
// storage. A failing quality resets repetitions and schedules a one-day
// retry; successes walk the 1, 6, round(interval × EF) ladder. The
// easiness factor moves by the standard SM-2 delta and never drops
// below MinEasinessFactor.
func NextState(state ReviewState, quality Quality) (ReviewState, error) {
	if quality < QualityBlackout || quality > QualityPerfect {
		return ReviewState{}, fmt.Errorf("%w: %d", ErrInvalidQuality, quality)
	}

	miss := float64(QualityPerfect - quality)
	ef := state.EasinessFactor + (0.1 - miss*(0.08+miss*0.02))
	if ef < MinEasinessFactor {
		ef = MinEasinessFactor
	}

	if quality < PassThreshold {
		return ReviewState{EasinessFactor: ef, Interval: 1, Repetitions: 0}, nil
	}

	repetitions := state.Repetitions + 1
	var interval int
	switch repetitions {
	case 1:
		interval = 1
	case 2:
		interval = 6
	default:
		interval = int(math.Round(float64(state.Interval) * ef))
		if interval > MaxIntervalDays {
			interval = MaxIntervalDays
		}
	}

	return ReviewState{EasinessFactor: ef, Interval: interval, Repetitions: repetitions}, nil
}
