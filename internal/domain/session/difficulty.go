package session

import "time"

// Tier is the session-level difficulty setting, independent of any
// single card's interval.
type Tier string

const (
	TierBeginner     Tier = "beginner"
	TierIntermediate Tier = "intermediate"
	TierAdvanced     Tier = "advanced"
)

// IsValidTier checks if a tier is valid
func IsValidTier(tier string) bool {
	switch Tier(tier) {
	case TierBeginner, TierIntermediate, TierAdvanced:
		return true
	default:
		return false
	}
}

func (t Tier) promote() Tier {
	switch t {
	case TierBeginner:
		return TierIntermediate
	case TierIntermediate, TierAdvanced:
		return TierAdvanced
	default:
		return t
	}
}

func (t Tier) demote() Tier {
	switch t {
	case TierAdvanced:
		return TierIntermediate
	case TierIntermediate, TierBeginner:
		return TierBeginner
	default:
		return t
	}
}

// Default tracker tuning.
const (
	DefaultWindowSize = 10
	DefaultMinSamples = 5

	promoteAccuracy = 0.85
	demoteAccuracy  = 0.4
	fastAverage     = 5 * time.Second
)

type outcome struct {
	correct      bool
	responseTime time.Duration
}

// Tracker keeps a bounded window of recent answer outcomes and moves the
// session tier one step at a time: up when the window shows high accuracy
// with fast answers, down when accuracy collapses. The window resets
// after a tier move so each tier gets a fresh assessment.
type Tracker struct {
	window     []outcome
	windowSize int
	minSamples int
	tier       Tier
}

// NewTracker creates a tracker starting at the beginner tier
func NewTracker() *Tracker {
	return NewTrackerAt(TierBeginner)
}

// NewTrackerAt creates a tracker starting at the given tier
func NewTrackerAt(tier Tier) *Tracker {
	return &Tracker{
		windowSize: DefaultWindowSize,
		minSamples: DefaultMinSamples,
		tier:       tier,
	}
}

// Tier returns the current difficulty tier
func (t *Tracker) Tier() Tier { return t.tier }

// Record appends one answer outcome, evicting the oldest entry when the
// window is full, and re-evaluates the tier once enough samples exist.
func (t *Tracker) Record(correct bool, responseTime time.Duration) {
	t.window = append(t.window, outcome{correct: correct, responseTime: responseTime})
	if len(t.window) > t.windowSize {
		t.window = t.window[len(t.window)-t.windowSize:]
	}

	if len(t.window) < t.minSamples {
		return
	}

	m := t.Metrics()
	switch {
	case m.Accuracy >= promoteAccuracy && m.AvgResponseTime <= fastAverage:
		if next := t.tier.promote(); next != t.tier {
			t.tier = next
			t.window = t.window[:0]
		}
	case m.Accuracy <= demoteAccuracy:
		if next := t.tier.demote(); next != t.tier {
			t.tier = next
			t.window = t.window[:0]
		}
	}
}

// Metrics is the read-only view of the tracker's window.
type Metrics struct {
	Accuracy        float64
	AvgResponseTime time.Duration
	Samples         int
}

// Metrics reports window accuracy, average response time and sample size
func (t *Tracker) Metrics() Metrics {
	if len(t.window) == 0 {
		return Metrics{}
	}

	correct := 0
	var total time.Duration
	for _, o := range t.window {
		if o.correct {
			correct++
		}
		total += o.responseTime
	}

	n := len(t.window)
	return Metrics{
		Accuracy:        float64(correct) / float64(n),
		AvgResponseTime: total / time.Duration(n),
		Samples:         n,
	}
}
