package answer

import (
	"NYCU-SDC/checkin-backend/internal/form/shared"
)

// Store holds the answers recorded during one check-in session.
// It is not safe for concurrent use; the owning session serialises access.
type Store struct {
	answers shared.AnswerSet
}

func NewStore() *Store {
	return &Store{answers: make(shared.AnswerSet)}
}

// RecordAnswer inserts or overwrites the answer for questionID. Unknown ids are accepted.
func (s *Store) RecordAnswer(questionID string, answer shared.Answer) {
	s.answers[questionID] = answer
}

func (s *Store) Get(questionID string) (shared.Answer, bool) {
	answer, ok := s.answers[questionID]
	return answer, ok
}

// CompletionCount returns the number of distinct question ids with a recorded answer
func (s *Store) CompletionCount() int {
	return len(s.answers)
}

// IsComplete compares the completion count against totalQuestions.
// Answers recorded for ids outside the questionnaire are counted too; use Covers to check by id.
func (s *Store) IsComplete(totalQuestions int) bool {
	return s.CompletionCount() == totalQuestions
}

// AnsweredIn returns how many of questionIDs have a recorded answer
func (s *Store) AnsweredIn(questionIDs []string) int {
	count := 0
	for _, id := range questionIDs {
		if _, ok := s.answers[id]; ok {
			count++
		}
	}
	return count
}

// Covers reports whether every id in questionIDs has a recorded answer
func (s *Store) Covers(questionIDs []string) bool {
	return len(s.Missing(questionIDs)) == 0
}

// Missing returns the ids of questionIDs without a recorded answer, in input order
func (s *Store) Missing(questionIDs []string) []string {
	var missing []string
	for _, id := range questionIDs {
		if _, ok := s.answers[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// Snapshot returns a copy of the recorded answers
func (s *Store) Snapshot() shared.AnswerSet {
	return s.answers.Clone()
}

func (s *Store) Reset() {
	s.answers = make(shared.AnswerSet)
}
