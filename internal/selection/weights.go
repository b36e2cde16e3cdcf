package selection

import (
	"exam-service/internal/models"
)

// TopicWeights converts aggregate per-topic stats into selection weights
// for every topic in the registry. A topic at 100% accuracy gets the
// floor (0.3), a topic at 0% gets the ceiling (1.3), and an unattempted
// topic lands at 0.8 via the neutral default accuracy.
func TopicWeights(stats map[string]models.TopicStat) map[string]float64 {
	weights := make(map[string]float64, len(models.Topics))
	for _, topic := range models.Topics {
		accuracy := neutralAccuracy
		if stat, ok := stats[topic]; ok && stat.Total > 0 {
			accuracy = stat.Accuracy()
		}
		weights[topic] = 1 - accuracy + weightFloorOffset
	}
	return weights
}

// questionWeight folds a question's recent attempt history into its
// topic weight. recent must be ordered most recent first; only the first
// recentAttemptWindow entries are considered. A run of misses boosts the
// question, a run of hits damps it, mixed or absent history leaves the
// topic weight untouched.
func questionWeight(topicWeights map[string]float64, q *models.Question, recent []models.Attempt) float64 {
	weight, ok := topicWeights[q.Subtopic]
	if !ok {
		weight = 1.0
	}

	if len(recent) > recentAttemptWindow {
		recent = recent[:recentAttemptWindow]
	}
	if len(recent) == 0 {
		return weight
	}

	allCorrect, allWrong := true, true
	for _, a := range recent {
		if a.IsCorrect {
			allWrong = false
		} else {
			allCorrect = false
		}
	}

	switch {
	case allWrong:
		weight *= missedBoost
	case allCorrect:
		weight *= masteredDamp
	}
	return weight
}
