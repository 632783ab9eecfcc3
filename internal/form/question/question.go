package question

import (
	"encoding/json"
	"fmt"

	"NYCU-SDC/checkin-backend/internal"
	"NYCU-SDC/checkin-backend/internal/form/shared"
)

type Type string

const (
	TypeRating         Type = "RATING"
	TypeMultipleChoice Type = "MULTIPLE_CHOICE"
	TypeTrueFalse      Type = "TRUE_FALSE"
)

// Question is a static question descriptor loaded from the questionnaire configuration.
// Scale is set for rating questions only, Options for multiple choice questions only.
type Question struct {
	ID      string         `yaml:"id" json:"id" validate:"required,question_id"`
	Type    Type           `yaml:"type" json:"type" validate:"required,oneof=RATING MULTIPLE_CHOICE TRUE_FALSE"`
	Prompt  string         `yaml:"prompt" json:"prompt" validate:"required"`
	Scale   *ScaleOption   `yaml:"scale,omitempty" json:"scale,omitempty" validate:"required_if=Type RATING"`
	Options []ChoiceOption `yaml:"options,omitempty" json:"options,omitempty" validate:"required_if=Type MULTIPLE_CHOICE,dive"`
}

type Answerable interface {
	Question() Question

	// DecodeRequest decodes the raw JSON value from the request into the answer variant of the question type.
	DecodeRequest(rawValue json.RawMessage) (shared.Answer, error)

	// ParseValue parses the plain text form of an answer, as written in configuration files.
	ParseValue(text string) (shared.Answer, error)

	// DisplayValue converts the answer to simple string for human to read
	DisplayValue(answer shared.Answer) (string, error)
}

func NewAnswerable(q Question) (Answerable, error) {
	var (
		answerable Answerable
		err        error
	)

	switch q.Type {
	case TypeRating:
		answerable, err = NewRating(q)
	case TypeMultipleChoice:
		answerable, err = NewMultipleChoice(q)
	case TypeTrueFalse:
		answerable, err = NewTrueFalse(q)
	default:
		return nil, ErrUnsupportedQuestionType{QuestionID: q.ID, QuestionType: string(q.Type)}
	}
	if err != nil {
		return nil, err
	}

	return answerable, nil
}

func expectAnswer[T shared.Answer](answer shared.Answer) (T, error) {
	typed, ok := answer.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: expected %T, got %T", internal.ErrQuestionTypeMismatch, zero, answer)
	}
	return typed, nil
}
