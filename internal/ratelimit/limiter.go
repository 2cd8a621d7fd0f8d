package ratelimit

import "time"

// LimitConfig caps the number of requests in a sliding window.
type LimitConfig struct {
	Window time.Duration
	Max    int64
}

// Policy maps each scope to the limits that apply to it. Every limit of
// every resolved scope must pass for a request to be allowed.
type Policy struct {
	Limits map[Scope][]LimitConfig
}

// DefaultPolicy is tuned for a read-heavy API: redirects are shared publicly
// and get the most headroom, while writes and list exports are tighter.
func DefaultPolicy() *Policy {
	return &Policy{
		Limits: map[Scope][]LimitConfig{
			ScopeGlobal: {
				{Window: time.Minute, Max: 600},
			},
			ScopeRead: {
				{Window: time.Minute, Max: 300},
			},
			ScopeWrite: {
				{Window: time.Minute, Max: 30},
				{Window: time.Hour, Max: 500},
			},
			ScopeRedirect: {
				{Window: time.Minute, Max: 1000},
			},
			ScopeExport: {
				{Window: time.Minute, Max: 10},
			},
		},
	}
}
