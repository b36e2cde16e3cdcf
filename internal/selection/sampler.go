package selection

import (
	"exam-service/internal/models"
)

// weightedQuestion pairs a candidate with its computed selection weight.
type weightedQuestion struct {
	question models.Question
	weight   float64
}

// Sampler performs weighted random selection without replacement.
type Sampler struct {
	rng Rand
}

// NewSampler builds a sampler over the given randomness source. A nil
// source falls back to the shared math/rand generator.
func NewSampler(rng Rand) *Sampler {
	if rng == nil {
		rng = globalRand{}
	}
	return &Sampler{rng: rng}
}

// Sample draws up to count items from the candidates, without
// replacement, each draw biased by the remaining weights. Result order is
// draw order. The loop re-normalizes against the remaining total each
// round; candidate counts here are exam-sized, so the quadratic cost is
// irrelevant.
func (s *Sampler) Sample(candidates []weightedQuestion, count int) []models.Question {
	if len(candidates) == 0 || count <= 0 {
		return []models.Question{}
	}
	if count > len(candidates) {
		count = len(candidates)
	}

	remaining := make([]weightedQuestion, len(candidates))
	copy(remaining, candidates)

	selected := make([]models.Question, 0, count)
	for len(selected) < count {
		total := 0.0
		for _, wq := range remaining {
			total += wq.weight
		}

		// All remaining weights zero: take the head deterministically
		// rather than dividing by zero. Weight computation keeps weights
		// positive, so this only covers degenerate caller input.
		idx := 0
		if total > 0 {
			r := s.rng.Float64() * total
			cumulative := 0.0
			for i, wq := range remaining {
				cumulative += wq.weight
				if r <= cumulative {
					idx = i
					break
				}
			}
		}

		selected = append(selected, remaining[idx].question)
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}
	return selected
}
