package metaclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryPolicy_RateLimitCountdown(t *testing.T) {
	current := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	policy := NewRetryPolicy(3)
	policy.now = func() time.Time { return current }

	// Primeira tentativa permitida
	assert.True(t, policy.Begin())

	// 429 com retry-after de 120s arma a espera
	policy.NoteRateLimited(120 * time.Second)
	assert.Equal(t, RetryWaiting, policy.State())
	assert.Equal(t, 120*time.Second, policy.RemainingWait())

	// Antes do prazo nenhuma nova tentativa é permitida
	current = current.Add(119 * time.Second)
	assert.False(t, policy.Begin())
	assert.Equal(t, RetryWaiting, policy.State())

	// Depois do prazo a política fica retryable e libera a tentativa
	current = current.Add(2 * time.Second)
	assert.Equal(t, RetryRetryable, policy.State())
	assert.True(t, policy.Begin())
	assert.Equal(t, 2, policy.Attempts())
}

func TestRetryPolicy_BoundedAttempts(t *testing.T) {
	policy := NewRetryPolicy(3)

	assert.True(t, policy.Begin())
	assert.True(t, policy.Begin())
	assert.True(t, policy.Begin())

	// Quarta tentativa nunca é permitida
	assert.False(t, policy.Begin())
	assert.True(t, policy.Exhausted())
	assert.Equal(t, RetryExhausted, policy.State())
}

func TestRetryPolicy_InitialState(t *testing.T) {
	policy := NewRetryPolicy(3)

	assert.Equal(t, RetryIdle, policy.State())
	assert.Zero(t, policy.Attempts())
	assert.Zero(t, policy.RemainingWait())
}

func TestRetryPolicy_DefaultMaxAttempts(t *testing.T) {
	policy := NewRetryPolicy(0)

	assert.True(t, policy.Begin())
	assert.True(t, policy.Begin())
	assert.True(t, policy.Begin())
	assert.False(t, policy.Begin())
}
