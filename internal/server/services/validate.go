package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/dsstudio/internal/common"
	"github.com/go-playground/validator/v10"
)

const (
	maxNameLength     = 100
	maxEmailLength    = 255
	minPasswordLength = 8
	// bcrypt only accepts this many bytes
	maxPasswordBytes = 72
)

var validate = validator.New()

// normalizeEmail trims and lower-cases so lookups are case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", common.ErrorValidation)
	}
	if len(email) > maxEmailLength {
		return fmt.Errorf("%w: email is too long", common.ErrorValidation)
	}
	if err := validate.Var(email, "email"); err != nil {
		return fmt.Errorf("%w: invalid email address", common.ErrorValidation)
	}
	return nil
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, minPasswordLength)
	}
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", common.ErrorValidation, maxPasswordBytes)
	}
	return nil
}

// validateName checks a person or visualization name. Required names must be
// non-empty.
func validateName(field, value string, required bool) error {
	n := utf8.RuneCountInString(value)
	if required && n == 0 {
		return fmt.Errorf("%w: %s is required", common.ErrorValidation, field)
	}
	if n > maxNameLength {
		return fmt.Errorf("%w: %s must be at most %d characters", common.ErrorValidation, field, maxNameLength)
	}
	return nil
}
