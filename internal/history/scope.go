package history

// Scope narrows store queries to one learner, or to the global pool of
// anonymous attempts. The zero value is the global scope.
type Scope struct {
	userID string
}

// Global returns the anonymous, all-learners scope.
func Global() Scope {
	return Scope{}
}

// ForLearner returns a scope covering a single learner's attempts.
// An empty id degrades to the global scope.
func ForLearner(userID string) Scope {
	return Scope{userID: userID}
}

// LearnerID returns the learner id and whether the scope names one.
func (s Scope) LearnerID() (string, bool) {
	return s.userID, s.userID != ""
}

// IsLearner reports whether the scope is tied to a single learner.
func (s Scope) IsLearner() bool {
	return s.userID != ""
}
