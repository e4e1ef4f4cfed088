package risk

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// Challenge derives a token from the submission time, coarse-grained to a window.
// Without a secret the token is the window number itself, which a browser script can compute.
type Challenge struct {
	window time.Duration
	secret []byte
}

func NewChallenge(window time.Duration, secret string) Challenge {
	if window <= 0 {
		window = 10 * time.Second
	}
	var key []byte
	if secret != "" {
		key = []byte(secret)
	}
	return Challenge{window: window, secret: key}
}

func (c Challenge) Window() time.Duration { return c.window }

func (c Challenge) bucket(at time.Time) int64 {
	return at.UnixNano() / int64(c.window)
}

func (c Challenge) tokenFor(bucket int64) string {
	b := strconv.FormatInt(bucket, 10)
	if c.secret == nil {
		return b
	}
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(b))
	return hex.EncodeToString(mac.Sum(nil))[:16]
}

func (c Challenge) Token(at time.Time) string {
	return c.tokenFor(c.bucket(at))
}

// Verify accepts tokens for the previous, current and next window to absorb clock drift.
func (c Challenge) Verify(token string, at time.Time) bool {
	if token == "" {
		return false
	}
	b := c.bucket(at)
	for _, candidate := range []int64{b - 1, b, b + 1} {
		if hmac.Equal([]byte(token), []byte(c.tokenFor(candidate))) {
			return true
		}
	}
	return false
}
