package internal

import (
	"NYCU-SDC/checkin-backend/internal/form/email"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var questionIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

func NewValidator() *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("question_id", func(fl validator.FieldLevel) bool {
		return questionIDPattern.MatchString(fl.Field().String())
	})

	_ = v.RegisterValidation("email_format", func(fl validator.FieldLevel) bool {
		return email.ValidateFormat(fl.Field().String())
	})

	return v
}

func ValidateStruct(v *validator.Validate, s interface{}) error {
	err := v.Struct(s)
	if err != nil {
		return err
	}
	return nil
}
