// Package redirect turns short codes into canonical resource URLs, reading
// through a cache in front of the short link store.
package redirect

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/serroba/foodgram-go/internal/apperror"
	"github.com/serroba/foodgram-go/internal/cache"
	"github.com/serroba/foodgram-go/internal/shortlink"
	"go.uber.org/zap"
)

// DefaultTTL is how long a resolved code stays cached.
const DefaultTTL = time.Hour

// LinkStore is the read path of the short link store.
type LinkStore interface {
	Resolve(ctx context.Context, kind shortlink.Kind, code shortlink.Code) (int64, error)
}

// Resolution is the outcome of a successful redirect lookup.
type Resolution struct {
	Target     string
	ResourceID int64
	CacheHit   bool
}

// Resolver resolves codes of one resource kind.
type Resolver struct {
	kind    shortlink.Kind
	store   LinkStore
	cache   cache.Cache
	ttl     time.Duration
	baseURL string
	logger  *zap.Logger
}

// NewResolver creates a resolver for kind. baseURL prefixes every target.
func NewResolver(
	kind shortlink.Kind,
	store LinkStore,
	c cache.Cache,
	ttl time.Duration,
	baseURL string,
	logger *zap.Logger,
) *Resolver {
	return &Resolver{
		kind:    kind,
		store:   store,
		cache:   c,
		ttl:     ttl,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Kind returns the resource kind this resolver serves.
func (r *Resolver) Kind() shortlink.Kind {
	return r.kind
}

// Redirect resolves raw to the fully qualified URL of its resource.
// Errors wrap apperror.ErrInvalidInput, apperror.ErrNotFound or apperror.ErrInternal.
func (r *Resolver) Redirect(ctx context.Context, raw string) (*Resolution, error) {
	code, err := shortlink.ParseCode(raw)
	if err != nil {
		r.logger.Info("rejected short code", zap.String("code", raw), zap.Error(err))

		return nil, err
	}

	key := r.cacheKey(code)

	if id, ok := r.fromCache(ctx, key, code); ok {
		return r.resolution(id, true), nil
	}

	id, err := r.store.Resolve(ctx, r.kind, code)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			r.logger.Info("short code not found",
				zap.String("kind", string(r.kind)),
				zap.String("code", raw),
			)

			return nil, err
		}

		r.logger.Error("failed to resolve short code",
			zap.String("kind", string(r.kind)),
			zap.String("code", raw),
			zap.Error(err),
		)

		if errors.Is(err, apperror.ErrInternal) {
			return nil, err
		}

		return nil, fmt.Errorf("%w: resolve %s: %w", apperror.ErrInternal, raw, err)
	}

	if err := r.cache.Set(ctx, key, []byte(strconv.FormatInt(id, 10)), r.ttl); err != nil {
		r.logger.Warn("failed to cache short code",
			zap.String("code", raw),
			zap.Error(err),
		)
	}

	return r.resolution(id, false), nil
}

func (r *Resolver) fromCache(ctx context.Context, key string, code shortlink.Code) (int64, bool) {
	value, err := r.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			r.logger.Warn("short link cache read failed",
				zap.String("code", string(code)),
				zap.Error(err),
			)
		}

		return 0, false
	}

	id, err := strconv.ParseInt(string(value), 10, 64)
	if err != nil {
		r.logger.Warn("ignoring malformed cache entry",
			zap.String("code", string(code)),
			zap.Error(err),
		)

		return 0, false
	}

	return id, true
}

func (r *Resolver) resolution(id int64, hit bool) *Resolution {
	return &Resolution{
		Target:     r.baseURL + r.kind.CanonicalPath(id),
		ResourceID: id,
		CacheHit:   hit,
	}
}

func (r *Resolver) cacheKey(code shortlink.Code) string {
	return "shortlink:" + string(r.kind) + ":" + string(code)
}
