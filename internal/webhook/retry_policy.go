package webhook

import "time"

// RetryPolicy is the delivery retry schedule: an ordered delay table
// indexed by attempt number (1-based) and a ceiling on total attempts.
type RetryPolicy struct {
	Delays      []time.Duration
	MaxAttempts int
}

var productionDelays = []time.Duration{
	0,
	time.Minute,
	5 * time.Minute,
	30 * time.Minute,
	2 * time.Hour,
}

var testDelays = []time.Duration{
	0,
	5 * time.Second,
	10 * time.Second,
	15 * time.Second,
	20 * time.Second,
}

// NewRetryPolicy builds the policy for the named schedule ("production" or
// "test"). The selection is configuration, not behavior: both schedules
// follow the same state machine.
func NewRetryPolicy(schedule string, maxAttempts int) RetryPolicy {
	delays := productionDelays
	if schedule == "test" {
		delays = testDelays
	}
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return RetryPolicy{
		Delays:      delays,
		MaxAttempts: maxAttempts,
	}
}

// DelayFor returns the wait before the given attempt (1-based), clamped to
// the last table entry.
func (p RetryPolicy) DelayFor(attempt int) time.Duration {
	if len(p.Delays) == 0 {
		return 0
	}
	if attempt < 1 {
		attempt = 1
	}
	idx := attempt - 1
	if idx >= len(p.Delays) {
		idx = len(p.Delays) - 1
	}
	return p.Delays[idx]
}

// Exhausted reports whether no retry remains after the given attempt count.
func (p RetryPolicy) Exhausted(attempts int) bool {
	return attempts >= p.MaxAttempts
}
