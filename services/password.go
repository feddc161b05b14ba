package services

import "unicode/utf8"

const (
	minPasswordLength = 8
	// bcrypt ignores (and x/crypto rejects) input past 72 bytes.
	MaxPasswordBytes = 72
)

// CheckPasswordStrength applies the signup strength policy: at least eight
// characters including a lowercase letter, an uppercase letter, a digit and a
// character that is none of those. Line terminators are not allowed.
func CheckPasswordStrength(password string) bool {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return false
	}

	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case r == '\n' || r == '\r' || r == '\u2028' || r == '\u2029':
			return false
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			special = true
		}
	}
	return lower && upper && digit && special
}
