package utils

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 20

	minPasswordLength = 8
	maxPasswordLength = 128

	passwordSpecialChars = "@$!%*?&"
)

// ValidateUsername checks the 3-20 alphanumeric rule. Pure, no storage.
func ValidateUsername(username string) error {
	if len(username) < minUsernameLength || len(username) > maxUsernameLength {
		return fmt.Errorf("username must have %d-%d characters", minUsernameLength, maxUsernameLength)
	}
	for _, char := range username {
		if !unicode.IsLetter(char) && !unicode.IsDigit(char) || char > unicode.MaxASCII {
			return fmt.Errorf("username may only contain alphanumeric characters")
		}
	}
	return nil
}

// ValidatePassword checks length and the four character-class rules,
// reporting the first violated rule.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return fmt.Errorf("password must have %d-%d characters", minPasswordLength, maxPasswordLength)
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, char := range password {
		switch {
		case char >= 'a' && char <= 'z':
			hasLower = true
		case char >= 'A' && char <= 'Z':
			hasUpper = true
		case char >= '0' && char <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSpecialChars, char):
			hasSpecial = true
		default:
			return fmt.Errorf("password may only contain letters, numbers and %s", passwordSpecialChars)
		}
	}

	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasDigit {
		return fmt.Errorf("password must contain at least one number")
	}
	if !hasSpecial {
		return fmt.Errorf("password must contain at least one special character (%s)", passwordSpecialChars)
	}
	return nil
}
