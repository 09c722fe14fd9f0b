package reset

import (
	"strings"
	"unicode"
)

// MinPasswordLength is the shortest accepted new password.
const MinPasswordLength = 8

// Password rule violations, reported verbatim to the end user.
const (
	ViolationTooShort  = "must be at least 8 characters long"
	ViolationUppercase = "must contain at least one uppercase letter"
	ViolationDigit     = "must contain at least one digit"
)

// PolicyError lists every rule a candidate password violates, not just the
// first. It is nil when the candidate passes.
type PolicyError struct {
	Violations []string
}

func (e *PolicyError) Error() string {
	return "password policy violation: " + strings.Join(e.Violations, "; ")
}

// ValidatePassword checks candidate against the password policy: minimum
// length, one uppercase letter, one digit. There is deliberately no maximum
// length or special-character rule.
func ValidatePassword(candidate string) *PolicyError {
	var violations []string

	if len(candidate) < MinPasswordLength {
		violations = append(violations, ViolationTooShort)
	}

	var hasUpper, hasDigit bool
	for _, r := range candidate {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		violations = append(violations, ViolationUppercase)
	}
	if !hasDigit {
		violations = append(violations, ViolationDigit)
	}

	if len(violations) == 0 {
		return nil
	}
	return &PolicyError{Violations: violations}
}
