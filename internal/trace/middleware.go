package trace

import (
	"NYCU-SDC/checkin-backend/internal"
	"fmt"
	"net/http"
	"runtime/debug"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Middleware struct {
	logger        *zap.Logger
	debug         bool
	tracer        trace.Tracer
	problemWriter *problem.HttpWriter
}

func NewMiddleware(logger *zap.Logger, debug bool) *Middleware {
	return &Middleware{
		logger:        logger,
		debug:         debug,
		tracer:        otel.Tracer("trace/middleware"),
		problemWriter: internal.NewProblemWriter(),
	}
}

// statusRecorder remembers the status code written by the wrapped handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// TraceMiddleware continues an incoming W3C trace, or starts a new one, and records the response status
func (m *Middleware) TraceMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		upstream := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

		ctx, span := m.tracer.Start(upstream, r.Method+" "+r.URL.Path, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		span.SetAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.route", r.Pattern),
			attribute.String("http.target", r.URL.Path),
		)

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(recorder, r.WithContext(ctx))

		span.SetAttributes(attribute.Int("http.status_code", recorder.status))
		if recorder.status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(recorder.status))
		}

		if m.debug {
			logger := logutil.WithContext(ctx, m.logger)
			logger.Debug("Handled request", zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Int("status", recorder.status))
		}
	}
}

// RecoverMiddleware turns a panic in a handler into a 500 problem response
func (m *Middleware) RecoverMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}

			err := fmt.Errorf("%w: panic: %v", internal.ErrInternalServerError, recovered)
			logger := logutil.WithContext(r.Context(), m.logger)
			if m.debug {
				logger.Error("Recovered from panic", zap.Error(err), zap.ByteString("stack", debug.Stack()))
			} else {
				logger.Error("Recovered from panic", zap.Error(err))
			}

			span := trace.SpanFromContext(r.Context())
			span.RecordError(err)
			span.SetStatus(codes.Error, "panic")

			m.problemWriter.WriteError(r.Context(), w, err, logger)
		}()

		next(w, r)
	}
}
