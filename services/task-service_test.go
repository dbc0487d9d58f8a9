package services

import (
	"strings"
	"testing"

	"ram-planner/backend/models"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestTaskUpdateValidate(t *testing.T) {
	tests := []struct {
		name    string
		patch   TaskUpdate
		wantErr error
	}{
		{"empty patch", TaskUpdate{}, nil},
		{"valid status", TaskUpdate{Status: ptr(models.StatusInProgress)}, nil},
		{"unknown status", TaskUpdate{Status: ptr(models.TaskStatus("Blocked"))}, ErrValidation},
		{"priority lower bound", TaskUpdate{Priority: ptr(1)}, nil},
		{"priority upper bound", TaskUpdate{Priority: ptr(5)}, nil},
		{"priority too low", TaskUpdate{Priority: ptr(0)}, ErrValidation},
		{"priority too high", TaskUpdate{Priority: ptr(6)}, ErrValidation},
		{"max length description", TaskUpdate{Description: ptr(strings.Repeat("a", 10000))}, nil},
		{"description too long", TaskUpdate{Description: ptr(strings.Repeat("a", 10001))}, ErrValidation},
		// 10000 two-byte runes: within the character limit even though the
		// byte count is double it.
		{"multibyte description within limit", TaskUpdate{Description: ptr(strings.Repeat("é", 10000))}, nil},
		{"multibyte description too long", TaskUpdate{Description: ptr(strings.Repeat("é", 10001))}, ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patch.validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
