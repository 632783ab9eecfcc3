package question

import (
	"encoding/json"
	"strings"

	"NYCU-SDC/checkin-backend/internal/form/shared"
)

type ChoiceOption struct {
	Label string `yaml:"label" json:"label" validate:"required"`
	Value string `yaml:"value" json:"value" validate:"required"`
}

type MultipleChoice struct {
	question Question
	Options  []ChoiceOption
}

func NewMultipleChoice(q Question) (MultipleChoice, error) {
	if q.Scale != nil {
		return MultipleChoice{}, ErrInvalidQuestion{QuestionID: q.ID, Message: "multiple choice question takes no scale"}
	}

	options, err := validateAndExtractOptions(q)
	if err != nil {
		return MultipleChoice{}, err
	}

	return MultipleChoice{
		question: q,
		Options:  options,
	}, nil
}

func (m MultipleChoice) Question() Question { return m.question }

func (m MultipleChoice) DecodeRequest(rawValue json.RawMessage) (shared.Answer, error) {
	// API sends the selected option value as a bare string
	var value string
	if err := json.Unmarshal(rawValue, &value); err != nil {
		return nil, ErrInvalidAnswerFormat{QuestionID: m.question.ID, Expected: "option value string", RawValue: string(rawValue)}
	}

	return m.ParseValue(value)
}

func (m MultipleChoice) ParseValue(text string) (shared.Answer, error) {
	if _, ok := m.find(text); !ok {
		return nil, ErrInvalidChoiceValue{QuestionID: m.question.ID, Value: text}
	}

	return shared.ChoiceAnswer{Value: text}, nil
}

func (m MultipleChoice) DisplayValue(answer shared.Answer) (string, error) {
	choiceAnswer, err := expectAnswer[shared.ChoiceAnswer](answer)
	if err != nil {
		return "", err
	}

	option, ok := m.find(choiceAnswer.Value)
	if !ok {
		return "", ErrInvalidChoiceValue{QuestionID: m.question.ID, Value: choiceAnswer.Value}
	}

	return option.Label, nil
}

func (m MultipleChoice) find(value string) (ChoiceOption, bool) {
	for _, option := range m.Options {
		if option.Value == value {
			return option, true
		}
	}
	return ChoiceOption{}, false
}

func validateAndExtractOptions(q Question) ([]ChoiceOption, error) {
	if len(q.Options) == 0 {
		return nil, ErrInvalidQuestion{QuestionID: q.ID, Message: "multiple choice question requires at least one option"}
	}

	seen := make(map[string]bool, len(q.Options))
	options := make([]ChoiceOption, 0, len(q.Options))
	for _, option := range q.Options {
		value := strings.TrimSpace(option.Value)
		if value == "" {
			return nil, ErrInvalidQuestion{QuestionID: q.ID, Message: "option value must not be empty"}
		}
		if seen[value] {
			return nil, ErrInvalidQuestion{QuestionID: q.ID, Message: "duplicate option value " + value}
		}
		seen[value] = true

		options = append(options, ChoiceOption{Label: option.Label, Value: value})
	}

	return options, nil
}
