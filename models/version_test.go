package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	v, err := ParseVersion("1.2.3")
	require.NoError(t, err)
	assert.Equal(t, Version{Major: 1, Minor: 2, Patch: 3}, v)
	assert.Equal(t, "1.2.3", v.String())

	for _, bad := range []string{"", "1.2", "1.2.3.4", "1.2.x", "1.-2.3", "v1.2.3"} {
		_, err := ParseVersion(bad)
		assert.Error(t, err, "expected %q to be rejected", bad)
	}
}

func TestVersionAfter(t *testing.T) {
	base, err := ParseVersion("1.2.0")
	require.NoError(t, err)

	tests := []struct {
		proposed string
		after    bool
	}{
		{"1.2.0", false},
		{"1.1.9", false},
		{"0.9.9", false},
		{"1.2.1", true},
		{"1.3.0", true},
		{"2.0.0", true},
		{"1.2.10", true},
	}

	for _, tt := range tests {
		v, err := ParseVersion(tt.proposed)
		require.NoError(t, err)
		assert.Equal(t, tt.after, v.After(base), "%s after %s", tt.proposed, base)
	}
}
