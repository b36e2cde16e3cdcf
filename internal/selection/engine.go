package selection

import (
	"context"
	"fmt"

	"exam-service/internal/catalog"
	"exam-service/internal/history"
	"exam-service/internal/models"

	"golang.org/x/sync/errgroup"
)

// historyLookupLimit caps concurrent per-question history queries against
// the store during one selection call.
const historyLookupLimit = 8

// Engine orchestrates adaptive question selection. It is stateless apart
// from the read-only catalog and is safe for concurrent use.
type Engine struct {
	catalog *catalog.Catalog
	store   history.Store
	rng     Rand
	sampler *Sampler
}

// NewEngine wires the engine to its catalog and performance store. A nil
// rng falls back to the shared math/rand generator; tests pass a seeded
// source.
func NewEngine(cat *catalog.Catalog, store history.Store, rng Rand) *Engine {
	if rng == nil {
		rng = globalRand{}
	}
	return &Engine{
		catalog: cat,
		store:   store,
		rng:     rng,
		sampler: NewSampler(rng),
	}
}

// SelectQuestions produces up to req.Count questions for one practice
// round. Mode-driven narrowing that empties the pool falls back to a
// uniform shuffle of the topic-filtered catalog; an explicit topic filter
// matching nothing returns empty with no fallback. Any store failure
// fails the whole call.
func (e *Engine) SelectQuestions(ctx context.Context, req Request) ([]models.Question, error) {
	if req.Count <= 0 {
		return []models.Question{}, nil
	}

	pool := e.basePool(req.Topic)
	if len(pool) == 0 {
		return []models.Question{}, nil
	}

	switch req.Mode {
	case ModeRandom:
		return e.shuffled(pool, req.Count), nil
	case ModeWeak:
		return e.selectWeak(ctx, pool, req)
	case ModeMissed:
		return e.selectMissed(ctx, pool, req)
	case ModeNew:
		return e.selectNew(ctx, pool, req)
	case ModeAdaptive, "":
		return e.selectAdaptive(ctx, pool, req)
	}
	return nil, fmt.Errorf("unknown selection mode %q", req.Mode)
}

func (e *Engine) basePool(topic string) []models.Question {
	if topic == "" {
		return e.catalog.All()
	}
	return e.catalog.ByTopic(topic)
}

// selectWeak narrows to topics the learner performs below threshold on,
// then samples by weight. No weak topic means nothing to target, so the
// call degrades to a uniform shuffle of the unnarrowed pool.
func (e *Engine) selectWeak(ctx context.Context, pool []models.Question, req Request) ([]models.Question, error) {
	stats, err := e.store.TopicStats(ctx, req.Scope)
	if err != nil {
		return nil, fmt.Errorf("topic stats: %w", err)
	}

	weak := make(map[string]struct{})
	hasHistory := false
	for topic, stat := range stats {
		if stat.Total == 0 {
			continue
		}
		hasHistory = true
		if stat.Accuracy() < weakAccuracyThreshold {
			weak[topic] = struct{}{}
		}
	}

	narrowed := make([]models.Question, 0, len(pool))
	for _, q := range pool {
		if _, ok := weak[q.Subtopic]; ok {
			narrowed = append(narrowed, q)
		}
	}
	if len(narrowed) == 0 {
		return e.shuffled(pool, req.Count), nil
	}

	return e.sampleWeighted(ctx, narrowed, stats, req.Scope, hasHistory, req.Count)
}

// selectMissed narrows to questions the learner has ever answered
// incorrectly, sampling them by weight; with nothing missed it degrades
// to a uniform shuffle.
func (e *Engine) selectMissed(ctx context.Context, pool []models.Question, req Request) ([]models.Question, error) {
	missed, err := e.store.MissedQuestionIDs(ctx, req.Scope)
	if err != nil {
		return nil, fmt.Errorf("missed question ids: %w", err)
	}

	narrowed := make([]models.Question, 0, len(pool))
	for _, q := range pool {
		if _, ok := missed[q.ID]; ok {
			narrowed = append(narrowed, q)
		}
	}
	if len(narrowed) == 0 {
		return e.shuffled(pool, req.Count), nil
	}

	stats, err := e.store.TopicStats(ctx, req.Scope)
	if err != nil {
		return nil, fmt.Errorf("topic stats: %w", err)
	}
	return e.sampleWeighted(ctx, narrowed, stats, req.Scope, true, req.Count)
}

// selectNew serves questions the learner has never attempted; once the
// bank is exhausted it repeats already-seen questions rather than
// returning nothing.
func (e *Engine) selectNew(ctx context.Context, pool []models.Question, req Request) ([]models.Question, error) {
	answered, err := e.store.AnsweredQuestionIDs(ctx, req.Scope)
	if err != nil {
		return nil, fmt.Errorf("answered question ids: %w", err)
	}

	narrowed := make([]models.Question, 0, len(pool))
	for _, q := range pool {
		if _, ok := answered[q.ID]; !ok {
			narrowed = append(narrowed, q)
		}
	}
	if len(narrowed) == 0 {
		narrowed = pool
	}
	return e.shuffled(narrowed, req.Count), nil
}

// selectAdaptive weights the whole filtered pool by learner performance.
// A learner with no recorded answers gets a plain shuffle up front: every
// weight would come out identical, so the weighting pass would only add
// store round-trips.
func (e *Engine) selectAdaptive(ctx context.Context, pool []models.Question, req Request) ([]models.Question, error) {
	answered, err := e.store.AnsweredQuestionIDs(ctx, req.Scope)
	if err != nil {
		return nil, fmt.Errorf("answered question ids: %w", err)
	}
	if len(answered) == 0 {
		return e.shuffled(pool, req.Count), nil
	}

	stats, err := e.store.TopicStats(ctx, req.Scope)
	if err != nil {
		return nil, fmt.Errorf("topic stats: %w", err)
	}
	return e.sampleWeighted(ctx, pool, stats, req.Scope, true, req.Count)
}

// sampleWeighted computes per-question weights and draws from them. When
// the scope names a learner with history, each candidate's recent
// attempts are fetched concurrently; one question's weight never depends
// on another's, so lookup order is irrelevant.
func (e *Engine) sampleWeighted(
	ctx context.Context,
	pool []models.Question,
	stats map[string]models.TopicStat,
	scope history.Scope,
	hasHistory bool,
	count int,
) ([]models.Question, error) {
	topicWeights := TopicWeights(stats)

	candidates := make([]weightedQuestion, len(pool))
	if scope.IsLearner() && hasHistory {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(historyLookupLimit)
		for i := range pool {
			i := i
			g.Go(func() error {
				recent, err := e.store.QuestionHistory(gctx, pool[i].ID, scope)
				if err != nil {
					return fmt.Errorf("question history %s: %w", pool[i].ID, err)
				}
				candidates[i] = weightedQuestion{
					question: pool[i],
					weight:   questionWeight(topicWeights, &pool[i], recent),
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range pool {
			candidates[i] = weightedQuestion{
				question: pool[i],
				weight:   questionWeight(topicWeights, &pool[i], nil),
			}
		}
	}

	return e.sampler.Sample(candidates, count), nil
}

// shuffled returns up to count questions drawn uniformly from the pool.
func (e *Engine) shuffled(pool []models.Question, count int) []models.Question {
	shuffledPool := make([]models.Question, len(pool))
	copy(shuffledPool, pool)
	e.rng.Shuffle(len(shuffledPool), func(i, j int) {
		shuffledPool[i], shuffledPool[j] = shuffledPool[j], shuffledPool[i]
	})
	if count > len(shuffledPool) {
		count = len(shuffledPool)
	}
	return shuffledPool[:count]
}
