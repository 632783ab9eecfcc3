package form

import (
	"NYCU-SDC/checkin-backend/internal/form/question"
	"context"
	"net/http"

	handlerutil "github.com/NYCU-SDC/summer/pkg/handler"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Response struct {
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	TotalQuestions int                 `json:"totalQuestions"`
	Questions      []question.Question `json:"questions"`
}

type Store interface {
	Get(ctx context.Context) (View, error)
}

type Handler struct {
	logger        *zap.Logger
	problemWriter *problem.HttpWriter
	store         Store
	tracer        trace.Tracer
}

func NewHandler(logger *zap.Logger, problemWriter *problem.HttpWriter, store Store) *Handler {
	return &Handler{
		logger:        logger,
		problemWriter: problemWriter,
		store:         store,
		tracer:        otel.Tracer("form/handler"),
	}
}

func ToResponse(view View) Response {
	questions := view.Questions
	if questions == nil {
		questions = []question.Question{}
	}

	return Response{
		Title:          view.Title,
		Description:    view.Description,
		TotalQuestions: len(questions),
		Questions:      questions,
	}
}

func (h *Handler) GetHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "GetHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	view, err := h.store.Get(traceCtx)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, ToResponse(view))
}
