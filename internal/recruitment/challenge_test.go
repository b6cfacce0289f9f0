// AngelaMos | 2026
// challenge_test.go

package recruitment

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tdfclan/portal/internal/config"
)

func newTestChallenger(ttl time.Duration) *Challenger {
	return NewChallenger(config.ChallengeConfig{
		Secret: "test-challenge-secret",
		TTL:    ttl,
	})
}

func TestChallengeRoundTrip(t *testing.T) {
	c := newTestChallenger(5 * time.Minute)

	ch, err := c.Issue()
	require.NoError(t, err)
	require.Len(t, ch.Code, 6)
	require.NotEmpty(t, ch.Token)

	require.NoError(t, c.Verify(ch.Token, ch.Code))
}

func TestChallengeAnswerCaseInsensitive(t *testing.T) {
	c := newTestChallenger(5 * time.Minute)

	ch, err := c.Issue()
	require.NoError(t, err)

	require.NoError(t, c.Verify(ch.Token, "  "+strings.ToLower(ch.Code)+" "))
}

func TestChallengeWrongAnswer(t *testing.T) {
	c := newTestChallenger(5 * time.Minute)

	ch, err := c.Issue()
	require.NoError(t, err)

	err = c.Verify(ch.Token, "WRONG1")
	require.ErrorIs(t, err, ErrChallengeFailed)
}

func TestChallengeExpired(t *testing.T) {
	c := newTestChallenger(-1 * time.Minute)

	ch, err := c.Issue()
	require.NoError(t, err)

	err = c.Verify(ch.Token, ch.Code)
	require.ErrorIs(t, err, ErrChallengeFailed)
}

func TestChallengeTamperedToken(t *testing.T) {
	c := newTestChallenger(5 * time.Minute)

	ch, err := c.Issue()
	require.NoError(t, err)

	for _, token := range []string{
		ch.Token + "x",
		"not-a-token",
		"",
		strings.Replace(ch.Token, ".", "", 1),
	} {
		err := c.Verify(token, ch.Code)
		require.ErrorIs(t, err, ErrChallengeFailed, "token %q", token)
	}
}

func TestChallengeDifferentSecret(t *testing.T) {
	issuer := newTestChallenger(5 * time.Minute)
	verifier := NewChallenger(config.ChallengeConfig{
		Secret: "another-secret",
		TTL:    5 * time.Minute,
	})

	ch, err := issuer.Issue()
	require.NoError(t, err)

	err = verifier.Verify(ch.Token, ch.Code)
	require.ErrorIs(t, err, ErrChallengeFailed)
}
