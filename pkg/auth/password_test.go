package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	salt, err := NewSalt()
	require.NoError(t, err)

	digest := Hash("correct-horse1", salt)

	assert.True(t, Verify("correct-horse1", salt, digest))
	assert.False(t, Verify("wrong-password1", salt, digest))
}

func TestVerify_DifferentSalt(t *testing.T) {
	saltA, err := NewSalt()
	require.NoError(t, err)
	saltB, err := NewSalt()
	require.NoError(t, err)
	require.NotEqual(t, saltA, saltB)

	digest := Hash("correct-horse1", saltA)

	// Same password hashed under a different salt must not verify
	assert.False(t, Verify("correct-horse1", saltB, digest))
}

func TestCheckStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "abcdef12", false},
		{"too short", "ab12", true},
		{"letters only", "abcdefgh", true},
		{"digits only", "12345678", true},
		{"long mixed", "vaccines4everyone", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckStrength(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
