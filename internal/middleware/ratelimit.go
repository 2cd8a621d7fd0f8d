package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/foodgram-go/internal/handlers"
	"github.com/serroba/foodgram-go/internal/ratelimit"
	"go.uber.org/zap"
)

// PolicyRateLimiter returns a Huma middleware that applies policy-based rate limiting.
// It uses a ScopeResolver to determine which scopes apply to each request,
// then checks all applicable limits from the policy.
//
// Per-endpoint configuration can be provided via operation metadata using
// ratelimit.MetadataKey. This allows endpoints to:
//   - Disable rate limiting entirely (Disabled: true)
//   - Override the scope detection (Scope: ratelimit.ScopeRedirect)
//   - Define custom limits (Limits: []ratelimit.LimitConfig{...})
//
// It must run after RequestMeta so authenticated callers are keyed by id.
func PolicyRateLimiter(
	api huma.API,
	limiter *ratelimit.PolicyLimiter,
	resolver ratelimit.ScopeResolver,
	logger *zap.Logger,
) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		route := operationPath(ctx)
		cfg := ratelimit.GetEndpointConfig(ctx)

		if cfg != nil && cfg.Disabled {
			next(ctx)

			return
		}

		key := clientKey(ctx)

		var (
			allowed  bool
			exceeded *ratelimit.LimitExceeded
			err      error
		)

		if cfg != nil && len(cfg.Limits) > 0 {
			allowed, exceeded, err = limiter.AllowLimits(ctx.Context(), key, route, cfg.Limits)
		} else {
			allowed, exceeded, err = limiter.Allow(ctx.Context(), key, resolver.Resolve(ctx))
		}

		if err != nil {
			logger.Error("rate limit check failed", zap.String("path", route), zap.Error(err))
			_ = huma.WriteErr(api, ctx, http.StatusInternalServerError, "internal server error")

			return
		}

		if !allowed {
			rejectExceeded(api, ctx, exceeded, route, logger)

			return
		}

		next(ctx)
	}
}

func operationPath(ctx huma.Context) string {
	if op := ctx.Operation(); op != nil {
		return op.Path
	}

	return ctx.URL().Path
}

// clientKey identifies the caller: by user id when authenticated, otherwise
// by a hash of IP and User-Agent.
func clientKey(ctx huma.Context) string {
	if id := handlers.Viewer(ctx.Context()); id > 0 {
		return "user:" + strconv.FormatInt(id, 10)
	}

	hash := sha256.Sum256([]byte(clientIP(ctx) + "|" + ctx.Header("User-Agent")))

	return "anon:" + hex.EncodeToString(hash[:])
}

func rejectExceeded(
	api huma.API,
	ctx huma.Context,
	exceeded *ratelimit.LimitExceeded,
	route string,
	logger *zap.Logger,
) {
	msg := "rate limit exceeded"

	if exceeded != nil {
		msg = fmt.Sprintf("rate limit exceeded: %s scope, %d/%d requests in %s",
			exceeded.Scope, exceeded.Count, exceeded.Config.Max, exceeded.Config.Window)

		ctx.SetHeader("Retry-After", strconv.Itoa(int(math.Ceil(exceeded.Config.Window.Seconds()))))

		logger.Warn("rate limit exceeded",
			zap.String("path", route),
			zap.String("method", ctx.Method()),
			zap.String("scope", string(exceeded.Scope)),
			zap.Int64("count", exceeded.Count),
			zap.Int64("max", exceeded.Config.Max),
			zap.Duration("window", exceeded.Config.Window),
			zap.String("client_ip", clientIP(ctx)),
		)
	}

	_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, msg)
}
