package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/serroba/foodgram-go/internal/handlers"
)

const (
	// HeaderUserID carries the authenticated caller id set by the auth proxy.
	HeaderUserID    = "X-User-ID"
	HeaderRequestID = "X-Request-ID"
)

// RequestMeta is a middleware that adds the caller identity, client IP,
// user-agent, referrer and a request id to the request context.
// A malformed X-User-ID is rejected with 401.
func RequestMeta(api huma.API) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		userID, ok := parseUserID(ctx.Header(HeaderUserID))
		if !ok {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "invalid user identity")

			return
		}

		requestID := ctx.Header(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx.SetHeader(HeaderRequestID, requestID)

		meta := handlers.RequestMeta{
			RequestID: requestID,
			ClientIP:  clientIP(ctx),
			UserAgent: ctx.Header("User-Agent"),
			Referrer:  ctx.Header("Referer"),
			UserID:    userID,
		}

		next(huma.WithContext(ctx, handlers.ContextWithRequestMeta(ctx.Context(), meta)))
	}
}

// parseUserID accepts an empty header as anonymous.
func parseUserID(raw string) (int64, bool) {
	if raw == "" {
		return 0, true
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}

// clientIP extracts the client IP from the request, considering proxies.
func clientIP(ctx huma.Context) string {
	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")

		return strings.TrimSpace(first)
	}

	if xri := ctx.Header("X-Real-IP"); xri != "" {
		return xri
	}

	addr := ctx.RemoteAddr()
	if addr == "" {
		addr = ctx.Host()
	}

	ip, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}

	return ip
}
