package internal

import (
	"errors"
	"strings"

	"github.com/NYCU-SDC/summer/pkg/problem"
)

// ErrResponseNotComplete is returned when a submission is attempted while some
// questions of the questionnaire are still unanswered.
type ErrResponseNotComplete struct {
	Unanswered []string
}

func (e ErrResponseNotComplete) Error() string {
	return "response is not complete, unanswered questions: " + strings.Join(e.Unanswered, ", ")
}

var (
	ErrInternalServerError = errors.New("internal server error")
	ErrNotFound            = errors.New("not found")
	ErrInvalidRequestBody  = errors.New("invalid request body")
	ErrValidationFailed    = errors.New("validation failed")

	// Questionnaire Errors
	ErrQuestionnaireInvalid = errors.New("questionnaire is invalid")
	ErrDuplicateQuestionID  = errors.New("duplicate question id")

	// Question Errors
	ErrQuestionNotFound     = errors.New("question not found")
	ErrQuestionTypeMismatch = errors.New("question type does not match the expected type")

	// Session Errors
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidSessionID   = errors.New("invalid session id")
	ErrSessionSubmitted   = errors.New("session is already submitted")
	ErrInvalidEmailFormat = errors.New("invalid email format")

	// Submission Errors
	ErrSubmissionDeliveryFailed = errors.New("failed to deliver submission")

	// Dashboard Errors
	ErrNegativeCount = errors.New("response count must not be negative")
	ErrExportFailed  = errors.New("failed to export dashboard")
)

func NewProblemWriter() *problem.HttpWriter {
	return problem.NewWithMapping(ErrorHandler)
}

func ErrorHandler(err error) problem.Problem {
	var notComplete ErrResponseNotComplete
	if errors.As(err, &notComplete) {
		return problem.NewValidateProblem(notComplete.Error())
	}

	switch {
	case errors.Is(err, ErrInternalServerError):
		return problem.NewInternalServerProblem("internal server error")
	case errors.Is(err, ErrNotFound):
		return problem.NewNotFoundProblem("not found")
	case errors.Is(err, ErrInvalidRequestBody):
		return problem.NewBadRequestProblem("invalid request body")

	// Questionnaire Errors
	case errors.Is(err, ErrQuestionnaireInvalid):
		return problem.NewInternalServerProblem("questionnaire is invalid")
	case errors.Is(err, ErrDuplicateQuestionID):
		return problem.NewInternalServerProblem("duplicate question id in questionnaire")

	// Question Errors
	case errors.Is(err, ErrQuestionNotFound):
		return problem.NewNotFoundProblem("question not found")
	case errors.Is(err, ErrQuestionTypeMismatch):
		return problem.NewValidateProblem("question type does not match the expected type")

	// Session Errors
	case errors.Is(err, ErrSessionNotFound):
		return problem.NewNotFoundProblem("session not found")
	case errors.Is(err, ErrInvalidSessionID):
		return problem.NewBadRequestProblem("invalid session id")
	case errors.Is(err, ErrSessionSubmitted):
		return problem.NewValidateProblem("session is already submitted, start a new questionnaire first")
	case errors.Is(err, ErrInvalidEmailFormat):
		return problem.NewValidateProblem("please enter a valid email address")

	// Submission Errors
	case errors.Is(err, ErrSubmissionDeliveryFailed):
		return problem.NewInternalServerProblem("failed to deliver submission")

	// Dashboard Errors
	case errors.Is(err, ErrNegativeCount):
		return problem.NewInternalServerProblem("dashboard data contains a negative count")
	case errors.Is(err, ErrExportFailed):
		return problem.NewInternalServerProblem("failed to export dashboard")

	// Validation Errors
	case errors.Is(err, ErrValidationFailed):
		return problem.NewValidateProblem(err.Error())
	}
	return problem.Problem{}
}
