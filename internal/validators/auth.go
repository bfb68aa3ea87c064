package validators

import (
	"regexp"
	"strings"

	"github.com/example/brritto/internal/models"
)

// Pure validation functions. No side effects, same input always produces the
// same output.

var (
	bdPhoneRegex = regexp.MustCompile(`^01[3-9][0-9]{8}$`)
	emailRegex   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ValidationResult reports whether a single field is valid, with a
// human-readable error when it is not.
type ValidationResult struct {
	IsValid bool
	Error   string
}

// SanitizePhone removes formatting characters (spaces, hyphens, parentheses)
// from a phone number.
func SanitizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')':
			return -1
		}
		return r
	}, phone)
}

// IsValidBDPhone reports whether the input is a valid 11-digit Bangladesh
// mobile number after sanitization.
func IsValidBDPhone(phone string) bool {
	return bdPhoneRegex.MatchString(SanitizePhone(phone))
}

// ValidatePhone validates a phone number for the wizard's first step.
func ValidatePhone(phone string) ValidationResult {
	if phone == "" {
		return ValidationResult{Error: "Phone number is required"}
	}
	if !IsValidBDPhone(phone) {
		return ValidationResult{Error: "Please enter a valid 11-digit BD phone number (e.g., 01812345678)"}
	}
	return ValidationResult{IsValid: true}
}

// ValidateOtp validates the one-time password input.
func ValidateOtp(otp string) ValidationResult {
	if len(otp) != 6 {
		return ValidationResult{Error: "Please enter a valid 6-digit OTP"}
	}
	return ValidationResult{IsValid: true}
}

// IsValidEmail reports whether the input looks like an email address.
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidateRegistrationForm validates the full registration form and returns
// an error map covering every failing field. Email is optional and only
// validated when non-empty.
func ValidateRegistrationForm(form models.SignupFormData) models.FormErrors {
	errors := models.FormErrors{}

	if len(strings.TrimSpace(form.Name)) < 2 {
		errors["name"] = "Name must be at least 2 characters"
	}

	if form.Email != "" && !IsValidEmail(form.Email) {
		errors["email"] = "Please enter a valid email address"
	}

	if len(strings.TrimSpace(form.District)) < 2 {
		errors["district"] = "District is required"
	}

	if len(strings.TrimSpace(form.InstitutionShortName)) < 2 {
		errors["institution"] = "Please select or enter an institution"
	}

	if form.ClassID == "" {
		errors["class"] = "Please select a class"
	}

	if !form.TermsAccepted {
		errors["terms"] = "You must accept the terms and privacy policy"
	}

	return errors
}

// IsFormValid reports whether a validation pass produced no errors.
func IsFormValid(errors models.FormErrors) bool {
	return len(errors) == 0
}
