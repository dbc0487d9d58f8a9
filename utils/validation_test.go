package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  string
	}{
		{"valid short", "bob", ""},
		{"valid mixed", "Alice42", ""},
		{"too short", "ab", "3-20 characters"},
		{"too long", strings.Repeat("a", 21), "3-20 characters"},
		{"space", "bob smith", "alphanumeric"},
		{"symbol", "bob!", "alphanumeric"},
		{"unicode letter", "böb", "alphanumeric"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  string
	}{
		{"valid", "Str0ng!pass", ""},
		{"valid minimal", "aA1!aaaa", ""},
		{"too short", "aA1!", "8-128 characters"},
		{"too long", "aA1!" + strings.Repeat("a", 128), "8-128 characters"},
		{"no lowercase", "AA11!!BB", "lowercase"},
		{"no uppercase", "aa11!!bb", "uppercase"},
		{"no digit", "aaAA!!bb", "number"},
		{"no special", "aaAA11bb", "special character"},
		{"forbidden char", "aaAA11b#", "may only contain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
