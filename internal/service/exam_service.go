package service

import (
	"context"
	"errors"
	"fmt"

	"exam-service/internal/catalog"
	"exam-service/internal/history"
	"exam-service/internal/models"
	"exam-service/internal/selection"
)

var ErrQuestionNotFound = errors.New("question not found")

// AnswerOutcome reports the grading result for one submitted answer.
type AnswerOutcome struct {
	QuestionID     string   `json:"question_id"`
	IsCorrect      bool     `json:"is_correct"`
	CorrectAnswers []string `json:"correct_answers"`
	Explanation    string   `json:"explanation,omitempty"`
}

// TopicSummary reports a learner's standing on one subtopic.
type TopicSummary struct {
	Topic     string  `json:"topic"`
	Total     int     `json:"total"`
	Correct   int     `json:"correct"`
	Accuracy  float64 `json:"accuracy"`
	Questions int     `json:"questions"`
}

// ExamService fronts the selection engine and the attempt write path.
type ExamService struct {
	Catalog  *catalog.Catalog
	Store    history.Store
	Recorder history.Recorder
	Engine   *selection.Engine
}

func NewExamService(cat *catalog.Catalog, store history.Store, recorder history.Recorder, engine *selection.Engine) *ExamService {
	return &ExamService{
		Catalog:  cat,
		Store:    store,
		Recorder: recorder,
		Engine:   engine,
	}
}

// SelectQuestions runs one adaptive selection call.
func (s *ExamService) SelectQuestions(ctx context.Context, req selection.Request) ([]models.Question, error) {
	return s.Engine.SelectQuestions(ctx, req)
}

// GetQuestion looks a question up in the catalog.
func (s *ExamService) GetQuestion(id string) (*models.Question, error) {
	q, ok := s.Catalog.ByID(id)
	if !ok {
		return nil, ErrQuestionNotFound
	}
	return q, nil
}

// SubmitAnswer grades a submission against the catalog and records the
// attempt so future selections can weight against it.
func (s *ExamService) SubmitAnswer(ctx context.Context, scope history.Scope, questionID string, selected []string) (*AnswerOutcome, error) {
	q, ok := s.Catalog.ByID(questionID)
	if !ok {
		return nil, ErrQuestionNotFound
	}

	attempt := &models.Attempt{
		QuestionID: q.ID,
		Subtopic:   q.Subtopic,
		Selected:   selected,
		IsCorrect:  q.Grade(selected),
	}
	if id, ok := scope.LearnerID(); ok {
		attempt.UserID = id
	}

	if err := s.Recorder.RecordAttempt(ctx, attempt); err != nil {
		return nil, fmt.Errorf("record attempt: %w", err)
	}

	return &AnswerOutcome{
		QuestionID:     q.ID,
		IsCorrect:      attempt.IsCorrect,
		CorrectAnswers: q.CorrectAnswers,
		Explanation:    q.Explanation,
	}, nil
}

// TopicSummaries returns the learner's per-topic accuracy across the full
// registry, alongside how many catalog questions each topic holds.
func (s *ExamService) TopicSummaries(ctx context.Context, scope history.Scope) ([]TopicSummary, error) {
	stats, err := s.Store.TopicStats(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("topic stats: %w", err)
	}

	summaries := make([]TopicSummary, 0, len(models.Topics))
	for _, topic := range models.Topics {
		stat := stats[topic]
		summaries = append(summaries, TopicSummary{
			Topic:     topic,
			Total:     stat.Total,
			Correct:   stat.Correct,
			Accuracy:  stat.Accuracy(),
			Questions: len(s.Catalog.ByTopic(topic)),
		})
	}
	return summaries, nil
}
