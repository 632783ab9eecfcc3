package response

import (
	"NYCU-SDC/checkin-backend/internal/form/email"
)

type State string

const (
	StateNotStarted  State = "NOT_STARTED"
	StateInProgress  State = "IN_PROGRESS"
	StateSubmittable State = "SUBMITTABLE"
	StateSubmitted   State = "SUBMITTED"
)

// Progress is the read model the participant UI renders: the progress bar,
// the "N of M" counter, the email hint and whether submit is enabled.
type Progress struct {
	Answered   int          `json:"answered"`
	Total      int          `json:"total"`
	Percentage float64      `json:"percentage"`
	State      State        `json:"state"`
	Email      email.Status `json:"email"`
	CanSubmit  bool         `json:"canSubmit"`
}

func deriveState(submitted bool, answered, total int, emailText string) State {
	switch {
	case submitted:
		return StateSubmitted
	case total > 0 && answered == total:
		return StateSubmittable
	case answered == 0 && emailText == "":
		return StateNotStarted
	default:
		return StateInProgress
	}
}
