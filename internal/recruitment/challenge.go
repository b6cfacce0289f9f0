// AngelaMos | 2026
// challenge.go

package recruitment

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/tdfclan/portal/internal/config"
)

// ErrChallengeFailed covers every way an application challenge can fail:
// wrong answer, expired token, tampered token. Applicants get one message
// for all of them.
var ErrChallengeFailed = errors.New("challenge failed")

const (
	challengeCodeLength = 6
	challengeCodeChars  = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// Challenger issues and verifies stateless anti-bot challenges. The token
// is an HMAC-signed (code, expiry) pair, so no server-side storage is
// needed and a token cannot be minted or altered by the applicant.
type Challenger struct {
	secret []byte
	ttl    time.Duration
}

func NewChallenger(cfg config.ChallengeConfig) *Challenger {
	return &Challenger{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
	}
}

type Challenge struct {
	Code      string    `json:"code"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Issue creates a fresh challenge. The applicant must echo Code back
// alongside Token when submitting the application.
func (c *Challenger) Issue() (*Challenge, error) {
	code := make([]byte, challengeCodeLength)
	max := big.NewInt(int64(len(challengeCodeChars)))

	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return nil, fmt.Errorf("generate challenge code: %w", err)
		}
		code[i] = challengeCodeChars[n.Int64()]
	}

	expiresAt := time.Now().UTC().Add(c.ttl)
	payload := string(code) + "|" + strconv.FormatInt(expiresAt.Unix(), 10)
	sig := c.sign(payload)

	token := base64.RawURLEncoding.EncodeToString([]byte(payload)) +
		"." +
		base64.RawURLEncoding.EncodeToString(sig)

	return &Challenge{
		Code:      string(code),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify checks the token signature and expiry, then compares the answer
// to the embedded code, case-insensitively.
func (c *Challenger) Verify(token, answer string) error {
	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 {
		return ErrChallengeFailed
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return ErrChallengeFailed
	}

	sig, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return ErrChallengeFailed
	}

	expected := c.sign(string(payload))
	if subtle.ConstantTimeCompare(sig, expected) != 1 {
		return ErrChallengeFailed
	}

	fields := strings.SplitN(string(payload), "|", 2)
	if len(fields) != 2 {
		return ErrChallengeFailed
	}

	expiry, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || time.Now().UTC().After(time.Unix(expiry, 0)) {
		return ErrChallengeFailed
	}

	if !strings.EqualFold(strings.TrimSpace(answer), fields[0]) {
		return ErrChallengeFailed
	}

	return nil
}

func (c *Challenger) sign(payload string) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(payload))
	return mac.Sum(nil)
}
