// Package validation implements format checks for account registration fields.
// Failures are field-tagged application errors so callers surface them as
// 400-level responses.
package validation

import (
	"regexp"
	"strings"

	"sehhaty/internal/models"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail checks the basic shape of an email address.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return models.NewFieldValidationError("email", "invalid email address")
	}
	return nil
}

// ValidateNationalID checks that a national identifier is at least ten digits.
// The reserved administrator identifier is exempt from the digit rule.
func ValidateNationalID(nationalID string) error {
	if nationalID == "admin" {
		return nil
	}
	if len(nationalID) < 10 {
		return models.NewFieldValidationError("national_id", "national ID must be at least 10 digits")
	}
	for _, r := range nationalID {
		if r < '0' || r > '9' {
			return models.NewFieldValidationError("national_id", "national ID must contain only digits")
		}
	}
	return nil
}

// ValidatePhone checks that a phone number has at least ten digits once
// common separators are stripped.
func ValidatePhone(phone string) error {
	stripped := strings.NewReplacer("+", "", "-", "", " ", "").Replace(phone)
	if len(stripped) < 10 {
		return models.NewFieldValidationError("phone", "phone number must be at least 10 digits")
	}
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return models.NewFieldValidationError("phone", "phone number must contain only digits")
		}
	}
	return nil
}
