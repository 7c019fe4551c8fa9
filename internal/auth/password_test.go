package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("Original1!", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, "Original1!", hash)

	require.NoError(t, ComparePassword(hash, "Original1!"))
	require.Error(t, ComparePassword(hash, "Wrong1!pw"))
}

func TestCheckPasswordPolicy(t *testing.T) {
	cases := []struct {
		name     string
		password string
		want     bool
	}{
		{"too short", "abc", false},
		{"valid", "Abcdef1!", true},
		{"no uppercase", "abcdef1!", false},
		{"no digit", "Abcdefg!", false},
		{"no symbol", "Abcdefg1", false},
		{"symbol outside allowed set", "Abcdef1#", false},
		{"space not allowed", "Abcdef1! ", false},
		{"longer valid", "SuperSecret42?", true},
		{"exactly eight", "Abcde1!x", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, CheckPasswordPolicy(tc.password))
		})
	}
}
