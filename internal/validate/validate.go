// Package validate enforces the field-level policy for credential records:
// email grammar, secret complexity, and description length. Validation runs
// once, at the service boundary, before any store mutation.
package validate

import (
	"net/mail"
	"strings"
	"unicode"
)

// Check names reported by ValidationError. Stable strings; API clients key
// their field messages off them.
const (
	CheckEmail             = "email"
	CheckMinLength         = "min_length"
	CheckUppercase         = "uppercase"
	CheckLowercase         = "lowercase"
	CheckDigit             = "digit"
	CheckSpecial           = "special"
	CheckDescriptionLength = "description_length"
)

const (
	// MinSecretLength is the minimum number of characters in a secret.
	MinSecretLength = 8
	// MaxDescriptionLength bounds the free-text description.
	MaxDescriptionLength = 200
)

// ValidationError reports every policy check an input failed. The record is
// not persisted or mutated when one is returned.
type ValidationError struct {
	Checks []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Checks, ", ")
}

// Email reports whether s is a bare, well-formed email address.
func Email(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	// Reject "Name <a@b>" forms; we want the plain address only.
	return addr.Address == s
}

// Secret returns the names of every complexity check s fails: at least
// MinSecretLength characters, an upper-case letter, a lower-case letter, a
// digit, and a symbol (any character outside [A-Za-z0-9]).
func Secret(s string) []string {
	var failed []string

	if len([]rune(s)) < MinSecretLength {
		failed = append(failed, CheckMinLength)
	}

	var upper, lower, digit, special bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			special = true
		}
	}

	if !upper {
		failed = append(failed, CheckUppercase)
	}
	if !lower {
		failed = append(failed, CheckLowercase)
	}
	if !digit {
		failed = append(failed, CheckDigit)
	}
	if !special {
		failed = append(failed, CheckSpecial)
	}

	return failed
}

// Record validates the full field set of a record. It returns nil when
// everything passes, or a *ValidationError naming each failed check.
func Record(email, secret, description string) error {
	var checks []string

	if !Email(email) {
		checks = append(checks, CheckEmail)
	}
	checks = append(checks, Secret(secret)...)
	if len([]rune(description)) > MaxDescriptionLength {
		checks = append(checks, CheckDescriptionLength)
	}

	if len(checks) > 0 {
		return &ValidationError{Checks: checks}
	}
	return nil
}
