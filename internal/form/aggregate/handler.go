package aggregate

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	handlerutil "github.com/NYCU-SDC/summer/pkg/handler"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type DashboardResponse struct {
	Questions []Result `json:"questions"`
}

type Store interface {
	Dashboard(ctx context.Context) ([]Result, error)
	Export(ctx context.Context, w io.Writer) error
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
		tracer:        otel.Tracer("aggregate/handler"),
	}
}

// DashboardHandler returns the aggregated admin dashboard
func (h *Handler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "DashboardHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	results, err := h.store.Dashboard(traceCtx)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, DashboardResponse{Questions: results})
}

// ExportHandler downloads the admin dashboard as an xlsx workbook
func (h *Handler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "ExportHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	// Buffered so a failed export can still be reported as a problem response
	var buf bytes.Buffer
	err := h.store.Export(traceCtx, &buf)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	filename := "dashboard-" + time.Now().Format("2006-01-02") + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)

	_, err = buf.WriteTo(w)
	if err != nil {
		logger.Error("Failed to write dashboard export", zap.Error(err))
	}
}
