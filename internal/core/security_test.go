// AngelaMos | 2026
// security_test.go

package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := VerifyPassword("correct horse battery staple", hash)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = VerifyPassword("wrong password", hash)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	_, err := VerifyPassword("anything", "not-a-hash")
	require.Error(t, err)
}

func TestVerifyPasswordTimingSafeMissingHash(t *testing.T) {
	ok, err := VerifyPasswordTimingSafe("anything", nil)
	require.NoError(t, err)
	require.False(t, ok)

	empty := ""
	ok, err = VerifyPasswordTimingSafe("anything", &empty)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestGenerateTempPassword(t *testing.T) {
	pw, err := GenerateTempPassword(12)
	require.NoError(t, err)
	require.Len(t, pw, 12)

	for _, c := range pw {
		require.Contains(t, tempPasswordChars, string(c))
	}

	// zero length falls back to a sane default
	pw, err = GenerateTempPassword(0)
	require.NoError(t, err)
	require.Len(t, pw, 10)
}

func TestTokenHashCompare(t *testing.T) {
	token, err := GenerateSecureToken(32)
	require.NoError(t, err)

	hash := HashToken(token)
	require.True(t, CompareTokenHash(token, hash))
	require.False(t, CompareTokenHash("other-token", hash))
}
