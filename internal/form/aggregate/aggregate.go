package aggregate

import (
	"fmt"
	"math"

	"NYCU-SDC/checkin-backend/internal"
	"NYCU-SDC/checkin-backend/internal/form/question"
)

// Count is the number of responses that chose one value of a question.
// Value is the plain text form of the answer ("4", "true", "dms").
type Count struct {
	Value string `yaml:"value" json:"value" validate:"required"`
	Label string `yaml:"label,omitempty" json:"label,omitempty"`
	Count int    `yaml:"count" json:"count" validate:"gte=0"`
}

// Input is one question of the admin dashboard together with its raw counts.
type Input struct {
	Question  question.Question `yaml:"question" json:"question"`
	Responses []Count           `yaml:"responses" json:"responses" validate:"dive"`
}

type Row struct {
	Value      string  `json:"value"`
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type Result struct {
	QuestionID string        `json:"questionId"`
	Prompt     string        `json:"prompt"`
	Type       question.Type `json:"type"`
	Total      int           `json:"total"`
	Rows       []Row         `json:"rows"`
}

// Aggregate annotates counts with their share of the total, keeping input order.
// Percentages are always derived from the counts and are not normalised to 100.
func Aggregate(q question.Question, counts []Count) (Result, error) {
	answerable, err := question.NewAnswerable(q)
	if err != nil {
		return Result{}, err
	}

	total := 0
	for _, c := range counts {
		if c.Count < 0 {
			return Result{}, fmt.Errorf("%w: question %s, value %s, count %d", internal.ErrNegativeCount, q.ID, c.Value, c.Count)
		}
		total += c.Count
	}

	rows := make([]Row, 0, len(counts))
	for _, c := range counts {
		label := c.Label
		if label == "" {
			label, err = displayLabel(answerable, c.Value)
			if err != nil {
				return Result{}, err
			}
		}

		rows = append(rows, Row{
			Value:      c.Value,
			Label:      label,
			Count:      c.Count,
			Percentage: Percentage(c.Count, total),
		})
	}

	return Result{
		QuestionID: q.ID,
		Prompt:     q.Prompt,
		Type:       q.Type,
		Total:      total,
		Rows:       rows,
	}, nil
}

// Percentage returns count / total * 100 rounded to one decimal place; 0 when total is 0.
func Percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*1000) / 10
}

func displayLabel(answerable question.Answerable, value string) (string, error) {
	answer, err := answerable.ParseValue(value)
	if err != nil {
		return "", err
	}
	return answerable.DisplayValue(answer)
}
