package webhook

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDelayForProductionSchedule(t *testing.T) {
	policy := NewRetryPolicy("production", 5)

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 0},
		{2, time.Minute},
		{3, 5 * time.Minute},
		{4, 30 * time.Minute},
		{5, 2 * time.Hour},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, policy.DelayFor(tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestDelayForTestSchedule(t *testing.T) {
	policy := NewRetryPolicy("test", 5)

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 0},
		{2, 5 * time.Second},
		{3, 10 * time.Second},
		{4, 15 * time.Second},
		{5, 20 * time.Second},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, policy.DelayFor(tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestDelayForClampsOutOfRange(t *testing.T) {
	policy := NewRetryPolicy("production", 5)

	assert.Equal(t, time.Duration(0), policy.DelayFor(0))
	assert.Equal(t, time.Duration(0), policy.DelayFor(-3))
	assert.Equal(t, 2*time.Hour, policy.DelayFor(6))
	assert.Equal(t, 2*time.Hour, policy.DelayFor(100))
}

func TestExhausted(t *testing.T) {
	policy := NewRetryPolicy("production", 5)

	assert.False(t, policy.Exhausted(0))
	assert.False(t, policy.Exhausted(4))
	assert.True(t, policy.Exhausted(5))
	assert.True(t, policy.Exhausted(6))
}

func TestNewRetryPolicyDefaultsMaxAttempts(t *testing.T) {
	policy := NewRetryPolicy("production", 0)
	assert.Equal(t, 5, policy.MaxAttempts)
}

func TestNewRetryPolicyUnknownScheduleFallsBackToProduction(t *testing.T) {
	policy := NewRetryPolicy("staging", 5)
	assert.Equal(t, time.Minute, policy.DelayFor(2))
}
