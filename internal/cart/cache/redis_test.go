package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJitteredTTL_StaysWithinBounds(t *testing.T) {
	base := 30 * time.Minute

	for i := 0; i < 100; i++ {
		ttl := jitteredTTL(base)
		assert.GreaterOrEqual(t, ttl, base)
		assert.LessOrEqual(t, ttl, base+base/5)
	}
}

func TestJitteredTTL_ZeroPassesThrough(t *testing.T) {
	assert.Equal(t, time.Duration(0), jitteredTTL(0))
}
