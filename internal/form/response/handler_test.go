package response

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"NYCU-SDC/checkin-backend/internal"
	"NYCU-SDC/checkin-backend/internal/form/email"
	"NYCU-SDC/checkin-backend/internal/form/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Create(ctx context.Context) (Snapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).(Snapshot), args.Error(1)
}

func (m *mockStore) Get(ctx context.Context, id uuid.UUID) (Snapshot, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Snapshot), args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockStore) RecordAnswer(ctx context.Context, id uuid.UUID, questionID string, raw json.RawMessage) (Progress, error) {
	args := m.Called(ctx, id, questionID, raw)
	return args.Get(0).(Progress), args.Error(1)
}

func (m *mockStore) RecordAnswers(ctx context.Context, id uuid.UUID, params []shared.AnswerParam) (Progress, []error) {
	args := m.Called(ctx, id, params)
	errs, _ := args.Get(1).([]error)
	return args.Get(0).(Progress), errs
}

func (m *mockStore) UpdateEmail(ctx context.Context, id uuid.UUID, text string) (Progress, error) {
	args := m.Called(ctx, id, text)
	return args.Get(0).(Progress), args.Error(1)
}

func (m *mockStore) Reset(ctx context.Context, id uuid.UUID) (Progress, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Progress), args.Error(1)
}

func newTestHandler(store Store) *Handler {
	return NewHandler(zap.NewNop(), internal.NewValidator(), internal.NewProblemWriter(), store)
}

func TestHandler_CreateHandler(t *testing.T) {
	id := uuid.New()
	store := new(mockStore)
	store.On("Create", mock.Anything).Return(Snapshot{
		ID:        id,
		Progress:  Progress{Total: 5, State: StateNotStarted},
		CreatedAt: time.Now(),
	}, nil)

	recorder := httptest.NewRecorder()
	newTestHandler(store).CreateHandler(recorder, httptest.NewRequest(http.MethodPost, "/api/sessions", nil))

	require.Equal(t, http.StatusCreated, recorder.Code)

	var body SessionResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, id.String(), body.ID)
	assert.Equal(t, StateNotStarted, body.Progress.State)
	assert.Equal(t, 5, body.Progress.Total)
}

func TestHandler_GetHandler(t *testing.T) {
	testCases := []struct {
		name           string
		sessionID      string
		setupMock      func(store *mockStore, id uuid.UUID)
		expectedStatus int
	}{
		{
			name:      "Should return the session",
			sessionID: uuid.New().String(),
			setupMock: func(store *mockStore, id uuid.UUID) {
				store.On("Get", mock.Anything, id).Return(Snapshot{
					ID:       id,
					Progress: Progress{Answered: 1, Total: 5, State: StateInProgress},
					Answers:  shared.AnswerSet{"recovery": shared.RatingAnswer{Value: 4}},
				}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:      "Should return not found for an unknown session",
			sessionID: uuid.New().String(),
			setupMock: func(store *mockStore, id uuid.UUID) {
				store.On("Get", mock.Anything, id).Return(Snapshot{}, internal.ErrSessionNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Should reject a malformed session id",
			sessionID:      "not-a-uuid",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := new(mockStore)
			if tc.setupMock != nil {
				tc.setupMock(store, uuid.MustParse(tc.sessionID))
			}

			req := httptest.NewRequest(http.MethodGet, "/api/sessions/"+tc.sessionID, nil)
			req.SetPathValue("sessionId", tc.sessionID)
			recorder := httptest.NewRecorder()
			newTestHandler(store).GetHandler(recorder, req)

			assert.Equal(t, tc.expectedStatus, recorder.Code)
			store.AssertExpectations(t)
		})
	}
}

func TestHandler_UpdateAnswerHandler(t *testing.T) {
	id := uuid.New()
	store := new(mockStore)
	store.On("RecordAnswer", mock.Anything, id, "recovery", json.RawMessage(`4`)).
		Return(Progress{Answered: 1, Total: 5, Percentage: 20, State: StateInProgress}, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/sessions/"+id.String()+"/answers/recovery", bytes.NewBufferString(`{"value":4}`))
	req.Header.Set("Content-Type", "application/json")
	req.SetPathValue("sessionId", id.String())
	req.SetPathValue("questionId", "recovery")
	recorder := httptest.NewRecorder()
	newTestHandler(store).UpdateAnswerHandler(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)

	var body ProgressResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, 20.0, body.Progress.Percentage)
	store.AssertExpectations(t)
}

func TestHandler_UpdateAnswerHandler_Rejected(t *testing.T) {
	id := uuid.New()
	store := new(mockStore)
	store.On("RecordAnswer", mock.Anything, id, "recovery", mock.Anything).
		Return(Progress{}, internal.ErrValidationFailed)

	req := httptest.NewRequest(http.MethodPut, "/", bytes.NewBufferString(`{"value":9}`))
	req.Header.Set("Content-Type", "application/json")
	req.SetPathValue("sessionId", id.String())
	req.SetPathValue("questionId", "recovery")
	recorder := httptest.NewRecorder()
	newTestHandler(store).UpdateAnswerHandler(recorder, req)

	assert.GreaterOrEqual(t, recorder.Code, 400)
	assert.Less(t, recorder.Code, 500)
}

func TestHandler_UpdateEmailHandler(t *testing.T) {
	id := uuid.New()
	store := new(mockStore)
	store.On("UpdateEmail", mock.Anything, id, "user@example").
		Return(Progress{State: StateInProgress, Email: email.Status{ShowError: true}}, nil)

	req := httptest.NewRequest(http.MethodPut, "/", bytes.NewBufferString(`{"email":"user@example"}`))
	req.Header.Set("Content-Type", "application/json")
	req.SetPathValue("sessionId", id.String())
	recorder := httptest.NewRecorder()
	newTestHandler(store).UpdateEmailHandler(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)

	var body ProgressResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.True(t, body.Progress.Email.ShowError)
	assert.False(t, body.Progress.Email.Usable)
}

func TestHandler_ResetAndDelete(t *testing.T) {
	id := uuid.New()
	store := new(mockStore)
	store.On("Reset", mock.Anything, id).Return(Progress{Total: 5, State: StateNotStarted}, nil)
	store.On("Delete", mock.Anything, id).Return(nil)
	handler := newTestHandler(store)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.SetPathValue("sessionId", id.String())
	recorder := httptest.NewRecorder()
	handler.ResetHandler(recorder, req)
	assert.Equal(t, http.StatusOK, recorder.Code)

	req = httptest.NewRequest(http.MethodDelete, "/", nil)
	req.SetPathValue("sessionId", id.String())
	recorder = httptest.NewRecorder()
	handler.DeleteHandler(recorder, req)
	assert.Equal(t, http.StatusNoContent, recorder.Code)

	store.AssertExpectations(t)
}

func TestHandler_WithService(t *testing.T) {
	registry := NewRegistry(zap.NewNop(), dailyQuestionnaire(t), time.Hour)
	handler := newTestHandler(NewService(zap.NewNop(), registry))
	session := registry.Create()

	req := httptest.NewRequest(http.MethodPut, "/", bytes.NewBufferString(`{"answers":[{"questionId":"recovery","value":2},{"questionId":"caffeine","value":true}]}`))
	req.Header.Set("Content-Type", "application/json")
	req.SetPathValue("sessionId", session.ID().String())
	recorder := httptest.NewRecorder()
	handler.UpdateAnswersHandler(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 2, session.Progress().Answered)

	req = httptest.NewRequest(http.MethodPut, "/", bytes.NewBufferString(`{"value":"stress"}`))
	req.Header.Set("Content-Type", "application/json")
	req.SetPathValue("sessionId", session.ID().String())
	req.SetPathValue("questionId", "training")
	recorder = httptest.NewRecorder()
	handler.UpdateAnswerHandler(recorder, req)

	assert.NotEqual(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 2, session.Progress().Answered)
}
