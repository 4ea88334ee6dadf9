package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowEnforcesActionLimit(t *testing.T) {
	rl := NewRateLimiter()

	// file_report allows 3 per window per user.
	for i := 0; i < 3; i++ {
		allowed, _ := rl.Allow("user-1", "file_report")
		assert.True(t, allowed, "report %d should pass", i+1)
	}

	allowed, wait := rl.Allow("user-1", "file_report")
	assert.False(t, allowed)
	assert.Greater(t, wait.Seconds(), 0.0)
}

func TestAllowIsolatesUsers(t *testing.T) {
	rl := NewRateLimiter()

	for i := 0; i < 3; i++ {
		rl.Allow("user-1", "file_report")
	}

	allowed, _ := rl.Allow("user-2", "file_report")
	assert.True(t, allowed, "another user's bucket must be unaffected")
}
