//go:build unit

package risk_test

import (
	"strconv"
	"testing"
	"time"

	"booking-engine/internal/domain/risk"

	"github.com/stretchr/testify/assert"
)

func TestChallengeWindows(t *testing.T) {
	at := time.Unix(1_780_000_005, 0)

	t.Run("plain token is the window number", func(t *testing.T) {
		c := risk.NewChallenge(10*time.Second, "")
		assert.Equal(t, strconv.FormatInt(178_000_000, 10), c.Token(at))
	})

	for _, secret := range []string{"", "form-secret"} {
		c := risk.NewChallenge(10*time.Second, secret)
		t.Run("secret="+secret, func(t *testing.T) {
			assert.True(t, c.Verify(c.Token(at), at))
			assert.True(t, c.Verify(c.Token(at.Add(-10*time.Second)), at), "previous window")
			assert.True(t, c.Verify(c.Token(at.Add(10*time.Second)), at), "next window")
			assert.False(t, c.Verify(c.Token(at.Add(-20*time.Second)), at), "two windows back")
			assert.False(t, c.Verify(c.Token(at.Add(20*time.Second)), at), "two windows ahead")
			assert.False(t, c.Verify("", at))
		})
	}

	t.Run("keyed tokens differ from plain ones", func(t *testing.T) {
		plain := risk.NewChallenge(10*time.Second, "")
		keyed := risk.NewChallenge(10*time.Second, "form-secret")
		assert.NotEqual(t, plain.Token(at), keyed.Token(at))
		assert.False(t, keyed.Verify(plain.Token(at), at))
		assert.Len(t, keyed.Token(at), 16)
	})
}
