package ratelimit

import (
	"context"
	"fmt"
)

// LimitExceeded describes the first limit a request broke.
type LimitExceeded struct {
	Scope  Scope
	Config LimitConfig
	Count  int64
}

// PolicyLimiter checks requests against a Policy.
type PolicyLimiter struct {
	store  Store
	policy *Policy
}

func NewPolicyLimiter(store Store, policy *Policy) *PolicyLimiter {
	return &PolicyLimiter{
		store:  store,
		policy: policy,
	}
}

// Allow records the request of clientKey under every scope and reports
// whether all of their limits still hold.
func (l *PolicyLimiter) Allow(ctx context.Context, clientKey string, scopes []Scope) (bool, *LimitExceeded, error) {
	for _, scope := range scopes {
		for _, limit := range l.policy.Limits[scope] {
			exceeded, err := l.check(ctx, windowKey(clientKey, string(scope), limit), scope, limit)
			if err != nil || exceeded != nil {
				return false, exceeded, err
			}
		}
	}

	return true, nil, nil
}

// AllowLimits is like Allow for limits attached to a single route instead
// of a scope. Counters are shared by every request matching route.
func (l *PolicyLimiter) AllowLimits(
	ctx context.Context,
	clientKey, route string,
	limits []LimitConfig,
) (bool, *LimitExceeded, error) {
	for _, limit := range limits {
		exceeded, err := l.check(ctx, windowKey(clientKey, "route:"+route, limit), ScopeRoute, limit)
		if err != nil || exceeded != nil {
			return false, exceeded, err
		}
	}

	return true, nil, nil
}

func (l *PolicyLimiter) check(ctx context.Context, key string, scope Scope, limit LimitConfig) (*LimitExceeded, error) {
	count, err := l.store.Record(ctx, key, limit.Window)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", key, err)
	}

	if count > limit.Max {
		return &LimitExceeded{Scope: scope, Config: limit, Count: count}, nil
	}

	return nil, nil
}

func windowKey(clientKey, bucket string, limit LimitConfig) string {
	return fmt.Sprintf("ratelimit:%s:%s:%d", clientKey, bucket, limit.Window.Milliseconds())
}
