package form

import (
	"NYCU-SDC/checkin-backend/internal/form/question"
	"context"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type View struct {
	Title       string
	Description string
	Questions   []question.Question
}

type Service struct {
	logger        *zap.Logger
	questionnaire *Questionnaire
	tracer        trace.Tracer
}

func NewService(logger *zap.Logger, questionnaire *Questionnaire) *Service {
	return &Service{
		logger:        logger,
		questionnaire: questionnaire,
		tracer:        otel.Tracer("form/service"),
	}
}

// Get returns the questionnaire shown to participants
func (s *Service) Get(ctx context.Context) (View, error) {
	traceCtx, span := s.tracer.Start(ctx, "Get")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	view := View{
		Title:       s.questionnaire.Title,
		Description: s.questionnaire.Description,
		Questions:   s.questionnaire.Questions(),
	}

	logger.Debug("Loaded questionnaire", zap.Int("question_count", len(view.Questions)))
	return view, nil
}
