package shared

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type AnswerParam struct {
	QuestionID string
	Value      json.RawMessage
}

type AnswerJSON struct {
	Value json.RawMessage `json:"value" validate:"required"`
}

type EmailJSON struct {
	Email string `json:"email" validate:"max=320"`
}

// SubmissionPayload is the snapshot handed to the submission sink.
// It is built once at submit time and never changes afterwards.
type SubmissionPayload struct {
	id          uuid.UUID
	answers     AnswerSet
	email       string
	submittedAt time.Time
}

func NewSubmissionPayload(answers AnswerSet, email string, submittedAt time.Time) SubmissionPayload {
	return SubmissionPayload{
		id:          uuid.New(),
		answers:     answers.Clone(),
		email:       email,
		submittedAt: submittedAt,
	}
}

func (p SubmissionPayload) ID() uuid.UUID { return p.id }

// Answers returns a copy of the submitted answer set
func (p SubmissionPayload) Answers() AnswerSet { return p.answers.Clone() }

func (p SubmissionPayload) Email() string { return p.email }

func (p SubmissionPayload) SubmittedAt() time.Time { return p.submittedAt }

type submissionPayloadJSON struct {
	ID          string    `json:"id"`
	Answers     AnswerSet `json:"answers"`
	Email       string    `json:"email"`
	SubmittedAt time.Time `json:"submittedAt"`
}

func (p SubmissionPayload) MarshalJSON() ([]byte, error) {
	return json.Marshal(submissionPayloadJSON{
		ID:          p.id.String(),
		Answers:     p.answers,
		Email:       p.email,
		SubmittedAt: p.submittedAt,
	})
}
