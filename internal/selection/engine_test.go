package selection

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"exam-service/internal/catalog"
	"exam-service/internal/history"
	"exam-service/internal/models"
)

// fakeStore implements history.Store in memory and counts queries so
// tests can assert which lookups a mode performs.
type fakeStore struct {
	mu        sync.Mutex
	stats     map[string]models.TopicStat
	histories map[string][]models.Attempt
	missed    map[string]struct{}
	answered  map[string]struct{}
	err       error

	statsCalls    int
	historyCalls  int
	missedCalls   int
	answeredCalls int
}

func (f *fakeStore) TopicStats(ctx context.Context, scope history.Scope) (map[string]models.TopicStat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statsCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.stats, nil
}

func (f *fakeStore) QuestionHistory(ctx context.Context, questionID string, scope history.Scope) ([]models.Attempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.historyCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.histories[questionID], nil
}

func (f *fakeStore) MissedQuestionIDs(ctx context.Context, scope history.Scope) (map[string]struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.missedCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.missed, nil
}

func (f *fakeStore) AnsweredQuestionIDs(ctx context.Context, scope history.Scope) (map[string]struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answeredCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.answered, nil
}

func (f *fakeStore) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statsCalls + f.historyCalls + f.missedCalls + f.answeredCalls
}

func idSet(ids ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// testCatalog builds a small bank: 3 iam, 3 ec2, 2 s3 questions.
func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	var questions []models.Question
	for topic, count := range map[string]int{"iam": 3, "ec2": 3, "s3": 2} {
		for i := 0; i < count; i++ {
			questions = append(questions, models.Question{
				ID:      topic + "-" + string(rune('1'+i)),
				Content: "placeholder",
				Type:    models.TypeSingle,
				Options: []models.Option{
					{Letter: "a", Text: "first"},
					{Letter: "b", Text: "second"},
				},
				CorrectAnswers: []string{"a"},
				Subtopic:       topic,
			})
		}
	}
	cat, err := catalog.New(questions)
	if err != nil {
		t.Fatalf("Failed to build test catalog: %v", err)
	}
	return cat
}

func newTestEngine(t *testing.T, store *fakeStore) *Engine {
	t.Helper()
	return NewEngine(testCatalog(t), store, rand.New(rand.NewSource(1)))
}

func TestNonPositiveCountReturnsEmptyWithoutQueries(t *testing.T) {
	for _, mode := range []Mode{ModeAdaptive, ModeRandom, ModeWeak, ModeMissed, ModeNew} {
		for _, count := range []int{0, -1, -100} {
			store := &fakeStore{}
			engine := newTestEngine(t, store)

			got, err := engine.SelectQuestions(context.Background(), Request{
				Count: count,
				Mode:  mode,
				Scope: history.ForLearner("u1"),
			})
			if err != nil {
				t.Fatalf("Mode %s count %d: unexpected error %v", mode, count, err)
			}
			if len(got) != 0 {
				t.Errorf("Mode %s count %d: expected empty, got %d questions", mode, count, len(got))
			}
			if calls := store.totalCalls(); calls != 0 {
				t.Errorf("Mode %s count %d: expected no store queries, got %d", mode, count, calls)
			}
		}
	}
}

func TestRandomModeNeverQueriesStore(t *testing.T) {
	store := &fakeStore{}
	engine := newTestEngine(t, store)

	for i := 0; i < 5; i++ {
		got, err := engine.SelectQuestions(context.Background(), Request{
			Count: 4,
			Mode:  ModeRandom,
			Scope: history.ForLearner("u1"),
		})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(got) != 4 {
			t.Errorf("Expected 4 questions, got %d", len(got))
		}
	}
	if calls := store.totalCalls(); calls != 0 {
		t.Errorf("Expected no store queries for random mode, got %d", calls)
	}
}

func TestUnknownTopicFilterReturnsEmpty(t *testing.T) {
	store := &fakeStore{}
	engine := newTestEngine(t, store)

	got, err := engine.SelectQuestions(context.Background(), Request{
		Count: 5,
		Mode:  ModeAdaptive,
		Topic: "lambda",
		Scope: history.ForLearner("u1"),
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected empty result for topic with no questions, got %d", len(got))
	}
}

func TestTopicFilterNarrowsAllModes(t *testing.T) {
	store := &fakeStore{
		stats:    map[string]models.TopicStat{"s3": {Total: 10, Correct: 2}},
		missed:   idSet("s3-1"),
		answered: idSet("s3-1"),
	}
	engine := newTestEngine(t, store)

	for _, mode := range []Mode{ModeAdaptive, ModeRandom, ModeWeak, ModeMissed, ModeNew} {
		got, err := engine.SelectQuestions(context.Background(), Request{
			Count: 10,
			Mode:  mode,
			Topic: "s3",
			Scope: history.ForLearner("u1"),
		})
		if err != nil {
			t.Fatalf("Mode %s: unexpected error %v", mode, err)
		}
		for _, q := range got {
			if q.Subtopic != "s3" {
				t.Errorf("Mode %s: question %s leaked past the topic filter", mode, q.ID)
			}
		}
	}
}

func TestWeakModeNarrowsToWeakTopics(t *testing.T) {
	store := &fakeStore{
		stats: map[string]models.TopicStat{
			"iam": {Total: 10, Correct: 2}, // 20%, weak
			"ec2": {Total: 10, Correct: 9}, // 90%, fine
		},
	}
	engine := newTestEngine(t, store)

	got, err := engine.SelectQuestions(context.Background(), Request{
		Count: 10,
		Mode:  ModeWeak,
		Scope: history.ForLearner("u1"),
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected all 3 iam questions, got %d", len(got))
	}
	for _, q := range got {
		if q.Subtopic != "iam" {
			t.Errorf("Expected only weak-topic questions, got one from %s", q.Subtopic)
		}
	}
}

func TestWeakModeFallsBackWhenNoWeakTopics(t *testing.T) {
	store := &fakeStore{
		stats: map[string]models.TopicStat{
			"iam": {Total: 10, Correct: 9},
			"ec2": {Total: 10, Correct: 8},
		},
	}
	engine := newTestEngine(t, store)

	got, err := engine.SelectQuestions(context.Background(), Request{
		Count: 100,
		Mode:  ModeWeak,
		Scope: history.ForLearner("u1"),
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(got) != 8 {
		t.Errorf("Expected fallback over the full catalog (8), got %d", len(got))
	}
}

func TestWeakModeFallsBackWithNoData(t *testing.T) {
	store := &fakeStore{}
	engine := newTestEngine(t, store)

	got, err := engine.SelectQuestions(context.Background(), Request{
		Count: 5,
		Mode:  ModeWeak,
		Scope: history.ForLearner("new-user"),
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(got) != 5 {
		t.Errorf("Expected 5 questions from fallback shuffle, got %d", len(got))
	}
}

func TestMissedModeDrawsFromMissedPool(t *testing.T) {
	store := &fakeStore{
		stats:  map[string]models.TopicStat{"iam": {Total: 4, Correct: 1}},
		missed: idSet("iam-1", "ec2-2"),
	}
	engine := newTestEngine(t, store)

	got, err := engine.SelectQuestions(context.Background(), Request{
		Count: 10,
		Mode:  ModeMissed,
		Scope: history.ForLearner("u1"),
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected the 2 missed questions, got %d", len(got))
	}
	for _, q := range got {
		if q.ID != "iam-1" && q.ID != "ec2-2" {
			t.Errorf("Question %s was never missed", q.ID)
		}
	}
}

func TestMissedModeFallsBackWhenNothingMissed(t *testing.T) {
	store := &fakeStore{}
	engine := newTestEngine(t, store)

	got, err := engine.SelectQuestions(context.Background(), Request{
		Count: 3,
		Mode:  ModeMissed,
		Scope: history.ForLearner("u1"),
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("Expected 3 questions from fallback shuffle, got %d", len(got))
	}
	if store.statsCalls != 0 {
		t.Errorf("Fallback shuffle should not fetch topic stats, got %d calls", store.statsCalls)
	}
}

func TestNewModeExcludesAnswered(t *testing.T) {
	store := &fakeStore{
		answered: idSet("iam-1", "iam-2", "ec2-1"),
	}
	engine := newTestEngine(t, store)

	got, err := engine.SelectQuestions(context.Background(), Request{
		Count: 10,
		Mode:  ModeNew,
		Scope: history.ForLearner("u1"),
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("Expected the 5 unanswered questions, got %d", len(got))
	}
	for _, q := range got {
		if _, seen := store.answered[q.ID]; seen {
			t.Errorf("Question %s was already answered", q.ID)
		}
	}
}

func TestNewModeRepeatsWhenBankExhausted(t *testing.T) {
	store := &fakeStore{
		answered: idSet("iam-1", "iam-2", "iam-3", "ec2-1", "ec2-2", "ec2-3", "s3-1", "s3-2"),
	}
	engine := newTestEngine(t, store)

	got, err := engine.SelectQuestions(context.Background(), Request{
		Count: 4,
		Mode:  ModeNew,
		Scope: history.ForLearner("u1"),
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(got) != 4 {
		t.Errorf("Expected 4 repeated questions from fallback, got %d", len(got))
	}
}

func TestAdaptiveZeroHistorySkipsWeighting(t *testing.T) {
	store := &fakeStore{}
	engine := newTestEngine(t, store)

	got, err := engine.SelectQuestions(context.Background(), Request{
		Count: 6,
		Mode:  ModeAdaptive,
		Scope: history.ForLearner("brand-new"),
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(got) != 6 {
		t.Errorf("Expected 6 questions, got %d", len(got))
	}
	if store.statsCalls != 0 {
		t.Errorf("Zero-history learner must not trigger topic stats, got %d calls", store.statsCalls)
	}
	if store.historyCalls != 0 {
		t.Errorf("Zero-history learner must not trigger history lookups, got %d calls", store.historyCalls)
	}
}

func TestAdaptiveWithHistoryWeightsWholePool(t *testing.T) {
	store := &fakeStore{
		stats: map[string]models.TopicStat{
			"iam": {Total: 6, Correct: 1},
			"ec2": {Total: 6, Correct: 6},
		},
		histories: map[string][]models.Attempt{
			"iam-1": attempts(false, false, false),
			"ec2-1": attempts(true, true, true),
		},
		answered: idSet("iam-1", "ec2-1"),
	}
	engine := newTestEngine(t, store)

	got, err := engine.SelectQuestions(context.Background(), Request{
		Count: 8,
		Mode:  ModeAdaptive,
		Scope: history.ForLearner("u1"),
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(got) != 8 {
		t.Errorf("Expected the whole pool of 8, got %d", len(got))
	}
	if store.statsCalls != 1 {
		t.Errorf("Expected exactly one topic stats query, got %d", store.statsCalls)
	}
	if store.historyCalls != 8 {
		t.Errorf("Expected one history lookup per candidate (8), got %d", store.historyCalls)
	}
}

func TestAdaptiveGlobalScopeSkipsPerQuestionHistory(t *testing.T) {
	store := &fakeStore{
		stats:    map[string]models.TopicStat{"iam": {Total: 5, Correct: 1}},
		answered: idSet("iam-1"),
	}
	engine := newTestEngine(t, store)

	_, err := engine.SelectQuestions(context.Background(), Request{
		Count: 5,
		Mode:  ModeAdaptive,
		Scope: history.Global(),
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if store.historyCalls != 0 {
		t.Errorf("Global scope must not fetch per-question history, got %d calls", store.historyCalls)
	}
}

func TestStoreErrorFailsWholeCall(t *testing.T) {
	storeErr := errors.New("mongo down")
	for _, mode := range []Mode{ModeAdaptive, ModeWeak, ModeMissed, ModeNew} {
		store := &fakeStore{err: storeErr}
		engine := newTestEngine(t, store)

		_, err := engine.SelectQuestions(context.Background(), Request{
			Count: 5,
			Mode:  mode,
			Scope: history.ForLearner("u1"),
		})
		if !errors.Is(err, storeErr) {
			t.Errorf("Mode %s: expected store error to propagate, got %v", mode, err)
		}
	}
}

func TestUnknownModeRejected(t *testing.T) {
	engine := newTestEngine(t, &fakeStore{})

	_, err := engine.SelectQuestions(context.Background(), Request{Count: 1, Mode: "hardest"})
	if err == nil {
		t.Fatal("Expected an error for an unknown mode")
	}
}

func TestParseMode(t *testing.T) {
	testCases := []struct {
		input    string
		expected Mode
		wantErr  bool
	}{
		{"", ModeAdaptive, false},
		{"adaptive", ModeAdaptive, false},
		{"random", ModeRandom, false},
		{"weak", ModeWeak, false},
		{"missed", ModeMissed, false},
		{"new", ModeNew, false},
		{"bogus", "", true},
	}

	for _, tc := range testCases {
		mode, err := ParseMode(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseMode(%q): expected error", tc.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMode(%q): unexpected error %v", tc.input, err)
			continue
		}
		if mode != tc.expected {
			t.Errorf("ParseMode(%q): expected %s, got %s", tc.input, tc.expected, mode)
		}
	}
}
