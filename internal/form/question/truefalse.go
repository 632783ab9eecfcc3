package question

import (
	"encoding/json"
	"strconv"
	"strings"

	"NYCU-SDC/checkin-backend/internal/form/shared"
)

type TrueFalse struct {
	question Question
}

func NewTrueFalse(q Question) (TrueFalse, error) {
	if q.Scale != nil || len(q.Options) > 0 {
		return TrueFalse{}, ErrInvalidQuestion{QuestionID: q.ID, Message: "true/false question takes no scale or options"}
	}

	return TrueFalse{question: q}, nil
}

func (t TrueFalse) Question() Question { return t.question }

func (t TrueFalse) DecodeRequest(rawValue json.RawMessage) (shared.Answer, error) {
	// null would otherwise decode silently as false
	var value *bool
	if err := json.Unmarshal(rawValue, &value); err != nil || value == nil {
		return nil, ErrInvalidAnswerFormat{QuestionID: t.question.ID, Expected: "boolean", RawValue: string(rawValue)}
	}

	return shared.TrueFalseAnswer{Value: *value}, nil
}

func (t TrueFalse) ParseValue(text string) (shared.Answer, error) {
	value, err := strconv.ParseBool(strings.TrimSpace(text))
	if err != nil {
		return nil, ErrInvalidAnswerFormat{QuestionID: t.question.ID, Expected: "boolean", RawValue: text}
	}

	return shared.TrueFalseAnswer{Value: value}, nil
}

func (t TrueFalse) DisplayValue(answer shared.Answer) (string, error) {
	trueFalseAnswer, err := expectAnswer[shared.TrueFalseAnswer](answer)
	if err != nil {
		return "", err
	}

	if trueFalseAnswer.Value {
		return "True", nil
	}
	return "False", nil
}
