package handlers

import (
	"context"
	"fmt"

	"github.com/serroba/foodgram-go/internal/apperror"
)

type requestMetaKey struct{}

// RequestMeta holds the caller identity and HTTP metadata of a request.
type RequestMeta struct {
	RequestID string
	ClientIP  string
	UserAgent string
	Referrer  string
	// UserID is zero for anonymous callers.
	UserID int64
}

// ContextWithRequestMeta adds request metadata to context.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext extracts request metadata from context.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if v, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return v
	}

	return RequestMeta{}
}

// Viewer returns the caller id, or zero when anonymous.
func Viewer(ctx context.Context) int64 {
	return RequestMetaFromContext(ctx).UserID
}

// RequireUser returns the caller id or an ErrUnauthenticated error.
func RequireUser(ctx context.Context) (int64, error) {
	id := Viewer(ctx)
	if id <= 0 {
		return 0, fmt.Errorf("%w: authentication credentials were not provided", apperror.ErrUnauthenticated)
	}

	return id, nil
}
