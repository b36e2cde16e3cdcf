package models

import "sort"

// Question types supported by the catalog.
const (
	TypeSingle = "single"
	TypeMulti  = "multi"
)

type Option struct {
	Letter string `bson:"letter" json:"letter"`
	Text   string `bson:"text" json:"text"`
}

type Question struct {
	ID             string   `bson:"_id,omitempty" json:"id"`
	Content        string   `bson:"content" json:"content"`
	Type           string   `bson:"type" json:"type"`
	Options        []Option `bson:"options" json:"options"`
	CorrectAnswers []string `bson:"correct_answers" json:"correct_answers"`
	Explanation    string   `bson:"explanation" json:"explanation"`
	Subtopic       string   `bson:"subtopic" json:"subtopic"`
}

// IsMulti reports whether the question expects more than one answer letter.
func (q *Question) IsMulti() bool {
	return q.Type == TypeMulti || len(q.CorrectAnswers) > 1
}

// Grade compares submitted answer letters against the correct set.
// Order does not matter; the submission must match the set exactly.
func (q *Question) Grade(selected []string) bool {
	if len(selected) != len(q.CorrectAnswers) {
		return false
	}
	want := append([]string(nil), q.CorrectAnswers...)
	got := append([]string(nil), selected...)
	sort.Strings(want)
	sort.Strings(got)
	for i := range want {
		if want[i] != got[i] {
			return false
		}
	}
	return true
}
