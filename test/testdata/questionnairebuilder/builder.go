package questionnairebuilder

import (
	"NYCU-SDC/checkin-backend/internal/form"
	"NYCU-SDC/checkin-backend/internal/form/question"
	"NYCU-SDC/checkin-backend/test/testdata"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"
)

type Builder struct {
	t *testing.T
}

func New(t *testing.T) *Builder {
	return &Builder{t: t}
}

// Create builds a questionnaire with one question of each type unless WithQuestions overrides them
func (b Builder) Create(opts ...Option) *form.Questionnaire {
	p := &FactoryParams{
		Title:       testdata.RandomName(),
		Description: testdata.RandomDescription(),
		Questions: []question.Question{
			Rating(),
			MultipleChoice(),
			TrueFalse(),
		},
	}
	for _, opt := range opts {
		opt(p)
	}

	questionnaire, err := form.NewQuestionnaire(form.Document{
		Title:       p.Title,
		Description: p.Description,
		Questions:   p.Questions,
	})
	require.NoError(b.t, err)

	return questionnaire
}

func Rating() question.Question {
	minVal := gofakeit.Number(0, 1)
	return question.Question{
		ID:     testdata.RandomQuestionID(),
		Type:   question.TypeRating,
		Prompt: testdata.RandomPrompt(),
		Scale: &question.ScaleOption{
			MinVal:        minVal,
			MaxVal:        minVal + gofakeit.Number(2, 9),
			MinValueLabel: gofakeit.Word(),
			MaxValueLabel: gofakeit.Word(),
		},
	}
}

func MultipleChoice() question.Question {
	count := gofakeit.Number(2, 5)
	options := make([]question.ChoiceOption, 0, count)
	for i := 0; i < count; i++ {
		options = append(options, question.ChoiceOption{
			Label: gofakeit.Word(),
			Value: "option_" + string(rune('a'+i)),
		})
	}

	return question.Question{
		ID:      testdata.RandomQuestionID(),
		Type:    question.TypeMultipleChoice,
		Prompt:  testdata.RandomPrompt(),
		Options: options,
	}
}

func TrueFalse() question.Question {
	return question.Question{
		ID:     testdata.RandomQuestionID(),
		Type:   question.TypeTrueFalse,
		Prompt: testdata.RandomPrompt(),
	}
}
