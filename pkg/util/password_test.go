package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("tajnehaslo123")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "tajnehaslo123", hash)

	// Same input hashes to different values (bcrypt salts)
	hash2, err := HashPassword("tajnehaslo123")
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("tajnehaslo123")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{name: "Correct password", password: "tajnehaslo123", want: true},
		{name: "Wrong password", password: "zlehaslo", want: false},
		{name: "Empty password", password: "", want: false},
		{name: "Case sensitive", password: "TAJNEHASLO123", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifyPassword(hash, tt.password))
		})
	}
}
