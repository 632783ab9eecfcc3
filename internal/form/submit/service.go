package submit

import (
	"NYCU-SDC/checkin-backend/internal"
	"NYCU-SDC/checkin-backend/internal/form/response"
	"NYCU-SDC/checkin-backend/internal/form/shared"
	"context"
	"fmt"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type SessionStore interface {
	Submit(ctx context.Context, id uuid.UUID, deliver response.DeliverFunc) (shared.SubmissionPayload, error)
}

type Service struct {
	logger    *zap.Logger
	tracer    trace.Tracer
	validator *validator.Validate

	sessionStore SessionStore
	sink         Sink
}

func NewService(logger *zap.Logger, validator *validator.Validate, sessionStore SessionStore, sink Sink) *Service {
	return &Service{
		logger:       logger,
		tracer:       otel.Tracer("submit/service"),
		validator:    validator,
		sessionStore: sessionStore,
		sink:         sink,
	}
}

// Submit closes a session: the session checks completion and the email, then the
// payload is handed to the sink. The session is only marked submitted when the sink accepts it.
func (s *Service) Submit(ctx context.Context, sessionID uuid.UUID) (shared.SubmissionPayload, error) {
	traceCtx, span := s.tracer.Start(ctx, "Submit")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	payload, err := s.sessionStore.Submit(traceCtx, sessionID, s.deliver)
	if err != nil {
		span.RecordError(err)
		return shared.SubmissionPayload{}, err
	}

	logger.Debug("Submission delivered", zap.String("session_id", sessionID.String()), zap.String("submission_id", payload.ID().String()))
	return payload, nil
}

func (s *Service) deliver(ctx context.Context, payload shared.SubmissionPayload) error {
	traceCtx, span := s.tracer.Start(ctx, "Deliver")
	defer span.End()

	// The session already gated on the email; this keeps the sink contract explicit
	err := s.validator.Var(payload.Email(), "required,email_format")
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: %w", internal.ErrInvalidEmailFormat, err)
	}

	err = s.sink.Deliver(traceCtx, payload)
	if err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}
