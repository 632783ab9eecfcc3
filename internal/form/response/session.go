package response

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"NYCU-SDC/checkin-backend/internal"
	"NYCU-SDC/checkin-backend/internal/form"
	"NYCU-SDC/checkin-backend/internal/form/aggregate"
	"NYCU-SDC/checkin-backend/internal/form/answer"
	"NYCU-SDC/checkin-backend/internal/form/email"
	"NYCU-SDC/checkin-backend/internal/form/shared"

	"github.com/google/uuid"
)

// DeliverFunc hands a submission to its destination. The session only moves to
// Submitted when it returns nil. A rejection of the payload itself should wrap
// ErrInvalidEmailFormat or ErrValidationFailed; it is returned as is, while any
// other error is reported as a delivery failure.
type DeliverFunc func(ctx context.Context, payload shared.SubmissionPayload) error

// Session is one participant's pass through the questionnaire. All methods are
// safe for concurrent use; the answer store is only touched under mu.
type Session struct {
	mu sync.Mutex

	id            uuid.UUID
	questionnaire *form.Questionnaire
	answers       *answer.Store
	emailText     string
	submitted     bool
	createdAt     time.Time
	now           func() time.Time

	// Unix nanoseconds, readable without mu while a delivery holds it
	lastActiveAt atomic.Int64
}

// Snapshot is a consistent copy of a session taken under its lock
type Snapshot struct {
	ID        uuid.UUID
	Progress  Progress
	Answers   shared.AnswerSet
	Email     string
	CreatedAt time.Time
}

func NewSession(id uuid.UUID, questionnaire *form.Questionnaire, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}

	createdAt := now()
	session := &Session{
		id:            id,
		questionnaire: questionnaire,
		answers:       answer.NewStore(),
		createdAt:     createdAt,
		now:           now,
	}
	session.lastActiveAt.Store(createdAt.UnixNano())

	return session
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

// RecordAnswer decodes raw with the question's own rules and stores it, replacing any earlier answer
func (s *Session) RecordAnswer(questionID string, raw json.RawMessage) (Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitted {
		return Progress{}, internal.ErrSessionSubmitted
	}

	answerable, err := s.questionnaire.Answerable(questionID)
	if err != nil {
		return Progress{}, err
	}

	decoded, err := answerable.DecodeRequest(raw)
	if err != nil {
		return Progress{}, err
	}

	s.answers.RecordAnswer(questionID, decoded)
	s.touch()

	return s.progress(), nil
}

// RecordAnswers validates every answer first and records them only when all are valid.
// The returned errors are in request order, one per rejected answer.
func (s *Session) RecordAnswers(params []shared.AnswerParam) (Progress, []error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitted {
		return Progress{}, []error{internal.ErrSessionSubmitted}
	}

	decoded := make(shared.AnswerSet, len(params))
	var errs []error
	for _, param := range params {
		answerable, err := s.questionnaire.Answerable(param.QuestionID)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		value, err := answerable.DecodeRequest(param.Value)
		if err != nil {
			errs = append(errs, fmt.Errorf("question %s: %w", param.QuestionID, err))
			continue
		}

		decoded[param.QuestionID] = value
	}
	if len(errs) > 0 {
		return Progress{}, errs
	}

	// Later entries for the same id win, as with single updates
	for _, param := range params {
		s.answers.RecordAnswer(param.QuestionID, decoded[param.QuestionID])
	}
	s.touch()

	return s.progress(), nil
}

// UpdateEmail replaces the email text; the status is derived from the new text alone
func (s *Session) UpdateEmail(text string) (Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitted {
		return Progress{}, internal.ErrSessionSubmitted
	}

	s.emailText = text
	s.touch()

	return s.progress(), nil
}

func (s *Session) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.progress()
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		ID:        s.id,
		Progress:  s.progress(),
		Answers:   s.answers.Snapshot(),
		Email:     s.emailText,
		CreatedAt: s.createdAt,
	}
}

// Submit checks that every question is answered and the email is usable, then
// delivers the payload. A rejected or failed submit leaves the session unchanged.
func (s *Session) Submit(ctx context.Context, deliver DeliverFunc) (shared.SubmissionPayload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitted {
		return shared.SubmissionPayload{}, internal.ErrSessionSubmitted
	}

	missing := s.answers.Missing(s.questionnaire.QuestionIDs())
	if len(missing) > 0 {
		return shared.SubmissionPayload{}, internal.ErrResponseNotComplete{Unanswered: missing}
	}

	if !email.Evaluate(s.emailText).Usable {
		return shared.SubmissionPayload{}, internal.ErrInvalidEmailFormat
	}

	payload := shared.NewSubmissionPayload(s.answers.Snapshot(), s.emailText, s.now())

	err := deliver(ctx, payload)
	if err != nil {
		if errors.Is(err, internal.ErrInvalidEmailFormat) || errors.Is(err, internal.ErrValidationFailed) {
			return shared.SubmissionPayload{}, err
		}
		return shared.SubmissionPayload{}, fmt.Errorf("%w: %w", internal.ErrSubmissionDeliveryFailed, err)
	}

	s.submitted = true
	s.touch()

	return payload, nil
}

// Reset starts a new questionnaire: answers and email are cleared from any state
func (s *Session) Reset() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.answers.Reset()
	s.emailText = ""
	s.submitted = false
	s.touch()

	return s.progress()
}

// IdleSince reports the last time the session was changed. It does not wait for a running submit.
func (s *Session) IdleSince() time.Time {
	return time.Unix(0, s.lastActiveAt.Load())
}

func (s *Session) touch() {
	s.lastActiveAt.Store(s.now().UnixNano())
}

func (s *Session) progress() Progress {
	ids := s.questionnaire.QuestionIDs()
	total := len(ids)
	answered := s.answers.AnsweredIn(ids)
	emailStatus := email.Evaluate(s.emailText)

	state := deriveState(s.submitted, answered, total, s.emailText)
	return Progress{
		Answered:   answered,
		Total:      total,
		Percentage: aggregate.Percentage(answered, total),
		State:      state,
		Email:      emailStatus,
		CanSubmit:  state == StateSubmittable && emailStatus.Usable,
	}
}
