package history

import (
	"context"

	"exam-service/internal/models"
)

// Store is the read side of learner performance data consumed by the
// selection engine. Every query is scoped either globally or to one
// learner. Implementations must treat failures as failures of the whole
// query; the engine does not partially degrade.
type Store interface {
	// TopicStats returns aggregate attempt counts per subtopic.
	TopicStats(ctx context.Context, scope Scope) (map[string]models.TopicStat, error)
	// QuestionHistory returns attempts for one question, most recent first.
	QuestionHistory(ctx context.Context, questionID string, scope Scope) ([]models.Attempt, error)
	// MissedQuestionIDs returns ids of questions ever answered incorrectly.
	MissedQuestionIDs(ctx context.Context, scope Scope) (map[string]struct{}, error)
	// AnsweredQuestionIDs returns ids of questions ever attempted.
	AnsweredQuestionIDs(ctx context.Context, scope Scope) (map[string]struct{}, error)
}

// Recorder is the write side, used by the answer-submission path.
type Recorder interface {
	RecordAttempt(ctx context.Context, attempt *models.Attempt) error
}
