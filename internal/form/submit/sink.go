package submit

import (
	"NYCU-SDC/checkin-backend/internal/form/shared"
	"context"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"go.uber.org/zap"
)

// Sink receives submitted check-ins
type Sink interface {
	Deliver(ctx context.Context, payload shared.SubmissionPayload) error
}

// LogSink writes each submission to the log as structured fields
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Deliver(ctx context.Context, payload shared.SubmissionPayload) error {
	logger := logutil.WithContext(ctx, s.logger)

	answers := payload.Answers()
	fields := make([]zap.Field, 0, len(answers)+4)
	fields = append(fields,
		zap.String("submission_id", payload.ID().String()),
		zap.String("email", payload.Email()),
		zap.Time("submitted_at", payload.SubmittedAt()),
		zap.Int("answer_count", len(answers)),
	)
	for questionID, answer := range answers {
		fields = append(fields, zap.String("answer."+questionID, answer.String()))
	}

	logger.Info("Check-in submitted", fields...)
	return nil
}
