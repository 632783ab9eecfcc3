package questionnairebuilder

import (
	"NYCU-SDC/checkin-backend/internal/form/question"
)

type Option func(*FactoryParams)

type FactoryParams struct {
	Title       string
	Description string
	Questions   []question.Question
}

func WithTitle(title string) Option {
	return func(p *FactoryParams) {
		p.Title = title
	}
}

func WithQuestions(questions ...question.Question) Option {
	return func(p *FactoryParams) {
		p.Questions = questions
	}
}

func WithAdditionalQuestions(questions ...question.Question) Option {
	return func(p *FactoryParams) {
		p.Questions = append(p.Questions, questions...)
	}
}
