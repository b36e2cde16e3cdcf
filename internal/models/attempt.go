package models

import "time"

// Attempt records one answer submission against one question. UserID is
// empty for anonymous (global-scope) attempts.
type Attempt struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	UserID     string    `bson:"user_id,omitempty" json:"user_id,omitempty"`
	QuestionID string    `bson:"question_id" json:"question_id"`
	Subtopic   string    `bson:"subtopic" json:"subtopic"`
	Selected   []string  `bson:"selected" json:"selected"`
	IsCorrect  bool      `bson:"is_correct" json:"is_correct"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

// TopicStat aggregates attempt outcomes for one subtopic.
type TopicStat struct {
	Total   int `bson:"total" json:"total"`
	Correct int `bson:"correct" json:"correct"`
}

// Accuracy returns the correct ratio, or 0 when nothing was attempted.
func (s TopicStat) Accuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total)
}
