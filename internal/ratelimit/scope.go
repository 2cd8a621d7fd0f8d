package ratelimit

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// Scope groups requests that share a set of limits.
type Scope string

const (
	ScopeGlobal Scope = "global"
	ScopeRead   Scope = "read"
	ScopeWrite  Scope = "write"
	// ScopeRedirect covers public short link redirects.
	ScopeRedirect Scope = "redirect"
	// ScopeExport covers shopping list downloads.
	ScopeExport Scope = "export"
	// ScopeRoute reports limits attached directly to an operation.
	ScopeRoute Scope = "route"
)

// MetadataKey is the huma.Operation metadata key holding an EndpointConfig.
const MetadataKey = "rateLimit"

// EndpointConfig tunes rate limiting for one operation.
//
// Disabled skips limiting. Limits, when set, replace the policy for the
// route and Scope is ignored. Otherwise Scope, when set, replaces the scope
// derived from the HTTP method.
type EndpointConfig struct {
	Scope    Scope
	Limits   []LimitConfig
	Disabled bool
}

// ScopeResolver picks the scopes that apply to a request.
type ScopeResolver interface {
	Resolve(ctx huma.Context) []Scope
}

// OperationScopeResolver reads the scope from operation metadata and falls
// back to the HTTP method. ScopeGlobal is always included.
type OperationScopeResolver struct{}

func NewOperationScopeResolver() *OperationScopeResolver {
	return &OperationScopeResolver{}
}

func (r *OperationScopeResolver) Resolve(ctx huma.Context) []Scope {
	if cfg := GetEndpointConfig(ctx); cfg != nil && cfg.Scope != "" {
		return []Scope{ScopeGlobal, cfg.Scope}
	}

	return []Scope{ScopeGlobal, MethodScope(ctx.Method())}
}

// MethodScope classifies safe methods as reads and everything else as writes.
func MethodScope(method string) Scope {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return ScopeRead
	default:
		return ScopeWrite
	}
}

// GetEndpointConfig returns the EndpointConfig of the current operation, if any.
func GetEndpointConfig(ctx huma.Context) *EndpointConfig {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return nil
	}

	cfg, ok := op.Metadata[MetadataKey].(EndpointConfig)
	if !ok {
		return nil
	}

	return &cfg
}
