package response

import (
	"context"
	"encoding/json"
	"errors"

	"NYCU-SDC/checkin-backend/internal"
	"NYCU-SDC/checkin-backend/internal/form/shared"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Service struct {
	logger   *zap.Logger
	registry *Registry
	tracer   trace.Tracer
}

func NewService(logger *zap.Logger, registry *Registry) *Service {
	return &Service{
		logger:   logger,
		registry: registry,
		tracer:   otel.Tracer("response/service"),
	}
}

// Create starts a new session in the NotStarted state
func (s *Service) Create(ctx context.Context) (Snapshot, error) {
	traceCtx, span := s.tracer.Start(ctx, "Create")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	session := s.registry.Create()

	logger.Info("Created check-in session", zap.String("session_id", session.ID().String()))
	return session.Snapshot(), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Snapshot, error) {
	traceCtx, span := s.tracer.Start(ctx, "Get")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	session, err := s.registry.Get(id)
	if err != nil {
		logger.Debug("Session not found", zap.String("session_id", id.String()))
		span.RecordError(err)
		return Snapshot{}, err
	}

	return session.Snapshot(), nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	traceCtx, span := s.tracer.Start(ctx, "Delete")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	err := s.registry.Delete(id)
	if err != nil {
		span.RecordError(err)
		return err
	}

	logger.Info("Deleted check-in session", zap.String("session_id", id.String()))
	return nil
}

func (s *Service) RecordAnswer(ctx context.Context, id uuid.UUID, questionID string, raw json.RawMessage) (Progress, error) {
	traceCtx, span := s.tracer.Start(ctx, "RecordAnswer")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	session, err := s.registry.Get(id)
	if err != nil {
		span.RecordError(err)
		return Progress{}, err
	}

	progress, err := session.RecordAnswer(questionID, raw)
	if err != nil {
		logger.Warn("Rejected answer", zap.String("session_id", id.String()), zap.String("question_id", questionID), zap.Error(err))
		span.RecordError(err)
		return Progress{}, err
	}

	logger.Debug("Recorded answer", zap.String("session_id", id.String()), zap.String("question_id", questionID), zap.Int("answered", progress.Answered), zap.Int("total", progress.Total))
	return progress, nil
}

// RecordAnswers records a batch of answers; nothing is stored when any of them is rejected
func (s *Service) RecordAnswers(ctx context.Context, id uuid.UUID, params []shared.AnswerParam) (Progress, []error) {
	traceCtx, span := s.tracer.Start(ctx, "RecordAnswers")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	session, err := s.registry.Get(id)
	if err != nil {
		span.RecordError(err)
		return Progress{}, []error{err}
	}

	progress, errs := session.RecordAnswers(params)
	if len(errs) > 0 {
		logger.Warn("Rejected answers", zap.String("session_id", id.String()), zap.Errors("errors", errs))
		span.RecordError(errors.Join(errs...))
		return Progress{}, errs
	}

	logger.Debug("Recorded answers", zap.String("session_id", id.String()), zap.Int("count", len(params)), zap.Int("answered", progress.Answered))
	return progress, nil
}

func (s *Service) UpdateEmail(ctx context.Context, id uuid.UUID, text string) (Progress, error) {
	traceCtx, span := s.tracer.Start(ctx, "UpdateEmail")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	session, err := s.registry.Get(id)
	if err != nil {
		span.RecordError(err)
		return Progress{}, err
	}

	progress, err := session.UpdateEmail(text)
	if err != nil {
		logger.Warn("Rejected email update", zap.String("session_id", id.String()), zap.Error(err))
		span.RecordError(err)
		return Progress{}, err
	}

	return progress, nil
}

// Submit validates the session and delivers its payload. Failed submissions leave the session as it was.
func (s *Service) Submit(ctx context.Context, id uuid.UUID, deliver DeliverFunc) (shared.SubmissionPayload, error) {
	traceCtx, span := s.tracer.Start(ctx, "Submit")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	session, err := s.registry.Get(id)
	if err != nil {
		span.RecordError(err)
		return shared.SubmissionPayload{}, err
	}

	payload, err := session.Submit(traceCtx, deliver)
	if err != nil {
		if errors.Is(err, internal.ErrSubmissionDeliveryFailed) {
			logger.Error("Failed to deliver submission", zap.String("session_id", id.String()), zap.Error(err))
		} else {
			logger.Info("Submission rejected", zap.String("session_id", id.String()), zap.Error(err))
		}
		span.RecordError(err)
		return shared.SubmissionPayload{}, err
	}

	logger.Info("Submitted check-in", zap.String("session_id", id.String()), zap.String("submission_id", payload.ID().String()))
	return payload, nil
}

func (s *Service) Reset(ctx context.Context, id uuid.UUID) (Progress, error) {
	traceCtx, span := s.tracer.Start(ctx, "Reset")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	session, err := s.registry.Get(id)
	if err != nil {
		span.RecordError(err)
		return Progress{}, err
	}

	progress := session.Reset()

	logger.Info("Reset check-in session", zap.String("session_id", id.String()))
	return progress, nil
}
