package history

import (
	"context"
	"time"

	"exam-service/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore persists attempts in a single collection and serves the
// aggregate queries the selection engine needs.
type MongoStore struct {
	Col *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{Col: db.Collection("attempts")}
}

func (s *MongoStore) scopeFilter(scope Scope) bson.M {
	if id, ok := scope.LearnerID(); ok {
		return bson.M{"user_id": id}
	}
	return bson.M{}
}

func (s *MongoStore) TopicStats(ctx context.Context, scope Scope) (map[string]models.TopicStat, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: s.scopeFilter(scope)}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$subtopic",
			"total": bson.M{"$sum": 1},
			"correct": bson.M{"$sum": bson.M{
				"$cond": bson.A{"$is_correct", 1, 0},
			}},
		}}},
	}

	cur, err := s.Col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	stats := make(map[string]models.TopicStat)
	for cur.Next(ctx) {
		var row struct {
			Subtopic string `bson:"_id"`
			Total    int    `bson:"total"`
			Correct  int    `bson:"correct"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		stats[row.Subtopic] = models.TopicStat{Total: row.Total, Correct: row.Correct}
	}
	return stats, cur.Err()
}

func (s *MongoStore) QuestionHistory(ctx context.Context, questionID string, scope Scope) ([]models.Attempt, error) {
	filter := s.scopeFilter(scope)
	filter["question_id"] = questionID

	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cur, err := s.Col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var attempts []models.Attempt
	for cur.Next(ctx) {
		var a models.Attempt
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, cur.Err()
}

func (s *MongoStore) MissedQuestionIDs(ctx context.Context, scope Scope) (map[string]struct{}, error) {
	filter := s.scopeFilter(scope)
	filter["is_correct"] = false
	return s.distinctQuestionIDs(ctx, filter)
}

func (s *MongoStore) AnsweredQuestionIDs(ctx context.Context, scope Scope) (map[string]struct{}, error) {
	return s.distinctQuestionIDs(ctx, s.scopeFilter(scope))
}

func (s *MongoStore) distinctQuestionIDs(ctx context.Context, filter bson.M) (map[string]struct{}, error) {
	values, err := s.Col.Distinct(ctx, "question_id", filter)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]struct{}, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok {
			ids[id] = struct{}{}
		}
	}
	return ids, nil
}

func (s *MongoStore) RecordAttempt(ctx context.Context, attempt *models.Attempt) error {
	if attempt.ID == "" {
		attempt.ID = uuid.NewString()
	}
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now().UTC()
	}
	_, err := s.Col.InsertOne(ctx, attempt)
	return err
}
