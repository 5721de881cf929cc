package utils

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Validate is the shared validator instance for request payloads.
var Validate = validator.New()

var (
	hasUpper = regexp.MustCompile(`[A-Z]`)
	hasLower = regexp.MustCompile(`[a-z]`)
	hasDigit = regexp.MustCompile(`[0-9]`)
)

// StrongPassword checks the signup/reset password policy: at least 8
// characters with one uppercase letter, one lowercase letter and one digit.
func StrongPassword(pw string) bool {
	return len(pw) >= 8 && hasUpper.MatchString(pw) && hasLower.MatchString(pw) && hasDigit.MatchString(pw)
}
