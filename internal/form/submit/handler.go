package submit

import (
	"NYCU-SDC/checkin-backend/internal/form/response"
	"NYCU-SDC/checkin-backend/internal/form/shared"
	"context"
	"net/http"

	handlerutil "github.com/NYCU-SDC/summer/pkg/handler"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Response struct {
	SessionID  string                   `json:"sessionId"`
	Message    string                   `json:"message"`
	Submission shared.SubmissionPayload `json:"submission"`
}

type Operator interface {
	Submit(ctx context.Context, sessionID uuid.UUID) (shared.SubmissionPayload, error)
}

type Handler struct {
	logger        *zap.Logger
	problemWriter *problem.HttpWriter
	operator      Operator
	tracer        trace.Tracer
}

func NewHandler(logger *zap.Logger, problemWriter *problem.HttpWriter, operator Operator) *Handler {
	return &Handler{
		logger:        logger,
		problemWriter: problemWriter,
		operator:      operator,
		tracer:        otel.Tracer("submit/handler"),
	}
}

// SubmitHandler submits the answers and email collected by a session
func (h *Handler) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "SubmitHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	sessionID, err := response.ParseSessionID(r)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	payload, err := h.operator.Submit(traceCtx, sessionID)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusCreated, Response{
		SessionID:  sessionID.String(),
		Message:    "Thank you for completing your daily check-in!",
		Submission: payload,
	})
}
