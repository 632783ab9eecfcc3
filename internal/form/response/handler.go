package response

import (
	"NYCU-SDC/checkin-backend/internal"
	"NYCU-SDC/checkin-backend/internal/form/shared"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	handlerutil "github.com/NYCU-SDC/summer/pkg/handler"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type AnswerPayload struct {
	QuestionID string          `json:"questionId" validate:"required,question_id"`
	Value      json.RawMessage `json:"value" validate:"required"`
}

// AnswersRequest is the request body for recording several answers at once
type AnswersRequest struct {
	Answers []AnswerPayload `json:"answers" validate:"required,min=1,dive"`
}

type SessionResponse struct {
	ID        string           `json:"id"`
	Progress  Progress         `json:"progress"`
	Answers   shared.AnswerSet `json:"answers"`
	Email     string           `json:"email"`
	CreatedAt time.Time        `json:"createdAt"`
}

type ProgressResponse struct {
	SessionID string   `json:"sessionId"`
	Progress  Progress `json:"progress"`
}

type Store interface {
	Create(ctx context.Context) (Snapshot, error)
	Get(ctx context.Context, id uuid.UUID) (Snapshot, error)
	Delete(ctx context.Context, id uuid.UUID) error
	RecordAnswer(ctx context.Context, id uuid.UUID, questionID string, raw json.RawMessage) (Progress, error)
	RecordAnswers(ctx context.Context, id uuid.UUID, params []shared.AnswerParam) (Progress, []error)
	UpdateEmail(ctx context.Context, id uuid.UUID, text string) (Progress, error)
	Reset(ctx context.Context, id uuid.UUID) (Progress, error)
}

type Handler struct {
	logger        *zap.Logger
	validator     *validator.Validate
	problemWriter *problem.HttpWriter
	store         Store
	tracer        trace.Tracer
}

func NewHandler(logger *zap.Logger, validator *validator.Validate, problemWriter *problem.HttpWriter, store Store) *Handler {
	return &Handler{
		logger:        logger,
		validator:     validator,
		problemWriter: problemWriter,
		store:         store,
		tracer:        otel.Tracer("response/handler"),
	}
}

func ToResponse(snapshot Snapshot) SessionResponse {
	answers := snapshot.Answers
	if answers == nil {
		answers = shared.AnswerSet{}
	}

	return SessionResponse{
		ID:        snapshot.ID.String(),
		Progress:  snapshot.Progress,
		Answers:   answers,
		Email:     snapshot.Email,
		CreatedAt: snapshot.CreatedAt,
	}
}

// ParseSessionID reads the sessionId path value
func ParseSessionID(r *http.Request) (uuid.UUID, error) {
	id, err := handlerutil.ParseUUID(r.PathValue("sessionId"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", internal.ErrInvalidSessionID, err)
	}
	return id, nil
}

func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "CreateHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	snapshot, err := h.store.Create(traceCtx)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusCreated, ToResponse(snapshot))
}

func (h *Handler) GetHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "GetHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	id, err := ParseSessionID(r)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	snapshot, err := h.store.Get(traceCtx, id)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, ToResponse(snapshot))
}

func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "DeleteHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	id, err := ParseSessionID(r)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	err = h.store.Delete(traceCtx, id)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusNoContent, nil)
}

// UpdateAnswerHandler records the answer to one question
func (h *Handler) UpdateAnswerHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "UpdateAnswerHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	id, err := ParseSessionID(r)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	questionID := r.PathValue("questionId")
	err = h.validator.Var(questionID, "required,question_id")
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, fmt.Errorf("%w: %s", internal.ErrQuestionNotFound, questionID), logger)
		return
	}

	var req shared.AnswerJSON
	err = handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	progress, err := h.store.RecordAnswer(traceCtx, id, questionID, req.Value)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, ProgressResponse{SessionID: id.String(), Progress: progress})
}

// UpdateAnswersHandler records several answers in one request, all or nothing
func (h *Handler) UpdateAnswersHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "UpdateAnswersHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	id, err := ParseSessionID(r)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	var req AnswersRequest
	err = handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	params := make([]shared.AnswerParam, 0, len(req.Answers))
	for _, answer := range req.Answers {
		params = append(params, shared.AnswerParam{
			QuestionID: answer.QuestionID,
			Value:      answer.Value,
		})
	}

	progress, errs := h.store.RecordAnswers(traceCtx, id, params)
	if len(errs) == 1 {
		h.problemWriter.WriteError(traceCtx, w, errs[0], logger)
		return
	}
	if len(errs) > 1 {
		errStrings := make([]string, 0, len(errs))
		for _, err := range errs {
			errStrings = append(errStrings, err.Error())
			span.RecordError(err)
		}

		err = handlerutil.NewValidationErrorWithErrors("validation errors occurred while recording answers", errStrings)
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, ProgressResponse{SessionID: id.String(), Progress: progress})
}

// UpdateEmailHandler stores the current email text; malformed text is kept and reported in the progress
func (h *Handler) UpdateEmailHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "UpdateEmailHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	id, err := ParseSessionID(r)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	var req shared.EmailJSON
	err = handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	progress, err := h.store.UpdateEmail(traceCtx, id, req.Email)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, ProgressResponse{SessionID: id.String(), Progress: progress})
}

// ResetHandler starts a new questionnaire in the same session
func (h *Handler) ResetHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "ResetHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	id, err := ParseSessionID(r)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	progress, err := h.store.Reset(traceCtx, id)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, ProgressResponse{SessionID: id.String(), Progress: progress})
}
