package models

import "time"

// Result is the outcome of one bucket check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
	// RetryAfter is whole seconds until a denied caller may try again.
	RetryAfter int
}

// RetryAfterSeconds is zero for allowed requests.
func RetryAfterSeconds(allowed bool, resetAt, now time.Time) int {
	if allowed {
		return 0
	}
	seconds := int(resetAt.Sub(now).Seconds())
	if seconds < 1 {
		return 1
	}
	return seconds
}

type ExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"`
}
