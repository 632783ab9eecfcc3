package shared

import (
	"encoding/json"
	"strconv"
)

// Kind identifies which question type an answer belongs to
type Kind string

const (
	KindRating         Kind = "RATING"
	KindMultipleChoice Kind = "MULTIPLE_CHOICE"
	KindTrueFalse      Kind = "TRUE_FALSE"
)

// Answer is a recorded answer; its concrete type matches the originating question type.
// The set of implementations is closed to this package.
type Answer interface {
	Kind() Kind

	// String returns the answer value as plain text
	String() string

	isAnswer()
}

// RatingAnswer represents answer for rating question type
type RatingAnswer struct {
	Value int `json:"value"` // Numeric value within configured min/max range
}

func (a RatingAnswer) Kind() Kind { return KindRating }

func (a RatingAnswer) String() string { return strconv.Itoa(a.Value) }

func (a RatingAnswer) MarshalJSON() ([]byte, error) { return json.Marshal(a.Value) }

func (RatingAnswer) isAnswer() {}

// ChoiceAnswer represents answer for multiple_choice question type
type ChoiceAnswer struct {
	Value string `json:"value"` // Value of one of the question options
}

func (a ChoiceAnswer) Kind() Kind { return KindMultipleChoice }

func (a ChoiceAnswer) String() string { return a.Value }

func (a ChoiceAnswer) MarshalJSON() ([]byte, error) { return json.Marshal(a.Value) }

func (ChoiceAnswer) isAnswer() {}

// TrueFalseAnswer represents answer for true_false question type
type TrueFalseAnswer struct {
	Value bool `json:"value"`
}

func (a TrueFalseAnswer) Kind() Kind { return KindTrueFalse }

func (a TrueFalseAnswer) String() string { return strconv.FormatBool(a.Value) }

func (a TrueFalseAnswer) MarshalJSON() ([]byte, error) { return json.Marshal(a.Value) }

func (TrueFalseAnswer) isAnswer() {}

// AnswerSet maps question identifiers to their recorded answers
type AnswerSet map[string]Answer

// Clone returns a shallow copy; answers themselves are immutable values.
func (s AnswerSet) Clone() AnswerSet {
	clone := make(AnswerSet, len(s))
	for id, answer := range s {
		clone[id] = answer
	}
	return clone
}
