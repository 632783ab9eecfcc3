package question

import (
	"NYCU-SDC/checkin-backend/internal"
	"fmt"
)

type ErrInvalidScaleValue struct {
	QuestionID string
	RawValue   int
	Message    string
}

func (e ErrInvalidScaleValue) Error() string {
	return fmt.Sprintf("invalid value for question %s: %s, raw value: %d", e.QuestionID, e.Message, e.RawValue)
}

func (e ErrInvalidScaleValue) Unwrap() error {
	return internal.ErrValidationFailed
}

type ErrInvalidChoiceValue struct {
	QuestionID string
	Value      string
}

func (e ErrInvalidChoiceValue) Error() string {
	return fmt.Sprintf("choice value %q not found for question %s", e.Value, e.QuestionID)
}

func (e ErrInvalidChoiceValue) Unwrap() error {
	return internal.ErrValidationFailed
}

type ErrInvalidAnswerFormat struct {
	QuestionID string
	Expected   string
	RawValue   string
}

func (e ErrInvalidAnswerFormat) Error() string {
	return fmt.Sprintf("invalid answer format for question %s: expected %s, raw value: %s", e.QuestionID, e.Expected, e.RawValue)
}

func (e ErrInvalidAnswerFormat) Unwrap() error {
	return internal.ErrValidationFailed
}

// ErrInvalidQuestion is returned when a configured question descriptor cannot be used.
type ErrInvalidQuestion struct {
	QuestionID string
	Message    string
}

func (e ErrInvalidQuestion) Error() string {
	return fmt.Sprintf("invalid question %s: %s", e.QuestionID, e.Message)
}

func (e ErrInvalidQuestion) Unwrap() error {
	return internal.ErrQuestionnaireInvalid
}

type ErrUnsupportedQuestionType struct {
	QuestionID   string
	QuestionType string
}

func (e ErrUnsupportedQuestionType) Error() string {
	return fmt.Sprintf("unsupported question type for question %s: %s", e.QuestionID, e.QuestionType)
}

func (e ErrUnsupportedQuestionType) Unwrap() error {
	return internal.ErrQuestionnaireInvalid
}
