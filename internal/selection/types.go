// Package selection implements the adaptive question-selection engine:
// topic and per-question weighting, weighted without-replacement
// sampling, and the per-mode orchestration with fallback policy.
package selection

import (
	"fmt"
	"math/rand"

	"exam-service/internal/history"
)

// Mode names a question-selection strategy.
type Mode string

const (
	// ModeAdaptive weights the full pool by learner performance.
	ModeAdaptive Mode = "adaptive"
	// ModeRandom shuffles uniformly with no performance lookups.
	ModeRandom Mode = "random"
	// ModeWeak restricts the pool to topics below the accuracy threshold.
	ModeWeak Mode = "weak"
	// ModeMissed restricts the pool to questions ever answered incorrectly.
	ModeMissed Mode = "missed"
	// ModeNew restricts the pool to questions never attempted.
	ModeNew Mode = "new"
)

// ParseMode maps a request string to a Mode, defaulting to adaptive for
// an empty value.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return ModeAdaptive, nil
	case ModeAdaptive, ModeRandom, ModeWeak, ModeMissed, ModeNew:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown selection mode %q", s)
}

// Request describes one selection call. Topic narrows the candidate pool
// before mode logic runs; an unknown topic yields an empty result with no
// fallback.
type Request struct {
	Count int
	Mode  Mode
	Topic string
	Scope history.Scope
}

// Tuning constants for the weighting formulas. These mirror the original
// product behavior and are not meant to be adjusted independently.
const (
	// neutralAccuracy stands in for topics with no recorded attempts, so
	// untouched topics are treated as average risk rather than mastered.
	neutralAccuracy = 0.5
	// weightFloorOffset keeps every topic weight strictly positive;
	// weights span [0.3, 1.3] across the accuracy range.
	weightFloorOffset = 0.3
	// weakAccuracyThreshold marks a topic as weak for ModeWeak.
	weakAccuracyThreshold = 0.7
	// recentAttemptWindow bounds how many recent attempts per question
	// feed the boost/damp decision.
	recentAttemptWindow = 3
	// missedBoost multiplies the weight of consistently-missed questions.
	missedBoost = 1.5
	// masteredDamp multiplies the weight of consistently-correct questions.
	masteredDamp = 0.7
)

// Rand is the randomness capability used for shuffling and weighted
// draws. *rand.Rand satisfies it, which lets tests inject a seeded
// source. Reproducibility across production calls is not a goal.
type Rand interface {
	Float64() float64
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// globalRand delegates to the top-level math/rand functions, which are
// safe for concurrent use; the engine may serve simultaneous requests.
type globalRand struct{}

func (globalRand) Float64() float64                   { return rand.Float64() }
func (globalRand) Intn(n int) int                     { return rand.Intn(n) }
func (globalRand) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }
