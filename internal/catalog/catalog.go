// Package catalog holds the immutable in-memory question bank. The bank
// is parsed once at startup from a JSON catalog file and never mutated
// afterwards, so it is safe to share across concurrent requests.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"exam-service/internal/models"
)

// Catalog is the read-only question bank.
type Catalog struct {
	questions []models.Question
	byID      map[string]*models.Question
	byTopic   map[string][]models.Question
}

// Loader parses the catalog file exactly once per process. Repeat and
// concurrent Load calls return the same cached result.
type Loader struct {
	path    string
	once    sync.Once
	catalog *Catalog
	err     error
}

func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load parses the catalog on first call and caches the result. A missing
// or malformed catalog is a startup error for the caller to treat as
// fatal, not a runtime condition.
func (l *Loader) Load() (*Catalog, error) {
	l.once.Do(func() {
		l.catalog, l.err = parseFile(l.path)
	})
	return l.catalog, l.err
}

func parseFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var questions []models.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	return New(questions)
}

// New builds a catalog from already-decoded questions, validating each
// one. Used directly by tests and by tooling that bypasses the file
// loader.
func New(questions []models.Question) (*Catalog, error) {
	return build(questions)
}

func build(questions []models.Question) (*Catalog, error) {
	c := &Catalog{
		questions: questions,
		byID:      make(map[string]*models.Question, len(questions)),
		byTopic:   make(map[string][]models.Question),
	}

	for i := range c.questions {
		q := &c.questions[i]
		if err := validate(q); err != nil {
			return nil, fmt.Errorf("question %q: %w", q.ID, err)
		}
		if _, dup := c.byID[q.ID]; dup {
			return nil, fmt.Errorf("duplicate question id %q", q.ID)
		}
		c.byID[q.ID] = q
		c.byTopic[q.Subtopic] = append(c.byTopic[q.Subtopic], *q)
	}
	return c, nil
}

func validate(q *models.Question) error {
	if q.ID == "" {
		return fmt.Errorf("missing id")
	}
	if q.Content == "" {
		return fmt.Errorf("missing content")
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("needs at least 2 options, has %d", len(q.Options))
	}
	if len(q.CorrectAnswers) == 0 {
		return fmt.Errorf("no correct answers")
	}
	letters := make(map[string]struct{}, len(q.Options))
	for _, opt := range q.Options {
		letters[opt.Letter] = struct{}{}
	}
	for _, ans := range q.CorrectAnswers {
		if _, ok := letters[ans]; !ok {
			return fmt.Errorf("correct answer %q is not an option", ans)
		}
	}
	return nil
}

// All returns every question in catalog order.
func (c *Catalog) All() []models.Question {
	out := make([]models.Question, len(c.questions))
	copy(out, c.questions)
	return out
}

// ByID looks a question up by id.
func (c *Catalog) ByID(id string) (*models.Question, bool) {
	q, ok := c.byID[id]
	return q, ok
}

// ByTopic returns all questions for one subtopic in catalog order.
func (c *Catalog) ByTopic(topic string) []models.Question {
	out := make([]models.Question, len(c.byTopic[topic]))
	copy(out, c.byTopic[topic])
	return out
}

// Len returns the catalog size.
func (c *Catalog) Len() int {
	return len(c.questions)
}
