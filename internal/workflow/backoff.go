package workflow

import (
	"context"
	"math"
	"strings"
	"time"
)

// BackoffPolicy is the exponential backoff schedule used between stage
// retry attempts.
type BackoffPolicy struct {
	Initial time.Duration
	Max     time.Duration
	Factor  float64
}

// DefaultBackoffPolicy matches the teacher's retry executor defaults.
var DefaultBackoffPolicy = BackoffPolicy{
	Initial: 500 * time.Millisecond,
	Max:     30 * time.Second,
	Factor:  2.0,
}

func (p BackoffPolicy) delay(attempt int) time.Duration {
	d := float64(p.Initial) * math.Pow(p.Factor, float64(attempt))
	if time.Duration(d) > p.Max {
		return p.Max
	}
	return time.Duration(d)
}

// sleep waits the backoff delay for the given attempt (0-based), returning
// early if ctx is cancelled.
func sleep(ctx context.Context, policy BackoffPolicy, attempt int) {
	timer := time.NewTimer(policy.delay(attempt))
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// isRetryable classifies an error as worth retrying by substring match on
// its lowercased message — collaborators are assumed to surface transient
// conditions in their error text rather than as distinct Go error types.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	lower := strings.ToLower(err.Error())
	patterns := []string{
		"timeout", "rate_limit", "rate limit", "too many requests",
		"429", "500", "502", "503", "504",
		"connection reset", "connection refused", "eof",
		"overloaded", "capacity",
	}
	for _, p := range patterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
