package question

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"NYCU-SDC/checkin-backend/internal/form/shared"
)

type ScaleOption struct {
	MinVal        int    `yaml:"minVal" json:"minVal"`
	MaxVal        int    `yaml:"maxVal" json:"maxVal" validate:"gtefield=MinVal"`
	MinValueLabel string `yaml:"minValueLabel,omitempty" json:"minValueLabel,omitempty"`
	MaxValueLabel string `yaml:"maxValueLabel,omitempty" json:"maxValueLabel,omitempty"`
}

type Rating struct {
	question      Question
	MinVal        int
	MaxVal        int
	MinValueLabel string
	MaxValueLabel string
}

func NewRating(q Question) (Rating, error) {
	if q.Scale == nil {
		return Rating{}, ErrInvalidQuestion{QuestionID: q.ID, Message: "rating question requires a scale"}
	}

	if len(q.Options) > 0 {
		return Rating{}, ErrInvalidQuestion{QuestionID: q.ID, Message: "rating question takes no options"}
	}

	if q.Scale.MinVal > q.Scale.MaxVal {
		return Rating{}, ErrInvalidQuestion{QuestionID: q.ID, Message: fmt.Sprintf("minVal (%d) must not be greater than maxVal (%d)", q.Scale.MinVal, q.Scale.MaxVal)}
	}

	return Rating{
		question:      q,
		MinVal:        q.Scale.MinVal,
		MaxVal:        q.Scale.MaxVal,
		MinValueLabel: q.Scale.MinValueLabel,
		MaxValueLabel: q.Scale.MaxValueLabel,
	}, nil
}

func (s Rating) Question() Question { return s.question }

func (s Rating) DecodeRequest(rawValue json.RawMessage) (shared.Answer, error) {
	// API sends a bare integer for rating
	var value *int
	if err := json.Unmarshal(rawValue, &value); err != nil || value == nil {
		return nil, ErrInvalidAnswerFormat{QuestionID: s.question.ID, Expected: "integer", RawValue: string(rawValue)}
	}

	return s.checkRange(*value)
}

func (s Rating) ParseValue(text string) (shared.Answer, error) {
	value, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return nil, ErrInvalidAnswerFormat{QuestionID: s.question.ID, Expected: "integer", RawValue: text}
	}

	return s.checkRange(value)
}

func (s Rating) DisplayValue(answer shared.Answer) (string, error) {
	ratingAnswer, err := expectAnswer[shared.RatingAnswer](answer)
	if err != nil {
		return "", err
	}

	return strconv.Itoa(ratingAnswer.Value), nil
}

func (s Rating) checkRange(value int) (shared.Answer, error) {
	if value < s.MinVal || value > s.MaxVal {
		return nil, ErrInvalidScaleValue{
			QuestionID: s.question.ID,
			RawValue:   value,
			Message:    fmt.Sprintf("value %d is out of range [%d, %d]", value, s.MinVal, s.MaxVal),
		}
	}

	return shared.RatingAnswer{Value: value}, nil
}
