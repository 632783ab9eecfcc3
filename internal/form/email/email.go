// Package email checks the shape of the address typed into the check-in form.
//
// The check is syntactic only: an address is accepted when it looks like
// localpart@domain.tld, without whitespace or a second "@" on either side.
// Deliverability and domain existence are never verified.
package email

import "regexp"

// RE2 \s is ASCII only and omits \v; the class is widened to Unicode whitespace
var formatPattern = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)

// ValidateFormat reports whether candidate is a well-formed address. The empty string is not.
func ValidateFormat(candidate string) bool {
	return formatPattern.MatchString(candidate)
}

// Status is the validity of the current email text.
type Status struct {
	// ShowError is true when the user typed something that is not an address.
	// An empty field never shows an error.
	ShowError bool `json:"showError"`

	// Usable is true when the text can be used for submission
	Usable bool `json:"usable"`
}

// Evaluate derives the status from the current text alone, so a previously valid
// address edited into an invalid one is never reported as usable.
func Evaluate(text string) Status {
	if text == "" {
		return Status{}
	}

	valid := ValidateFormat(text)
	return Status{
		ShowError: !valid,
		Usable:    valid,
	}
}
