package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/serroba/foodgram-go/internal/analytics"
	"github.com/serroba/foodgram-go/internal/catalog"
	"github.com/serroba/foodgram-go/internal/messaging"
	"github.com/serroba/foodgram-go/internal/redirect"
	"github.com/serroba/foodgram-go/internal/shortlink"
	"github.com/serroba/foodgram-go/internal/workouts"
	"go.uber.org/zap"
)

// RedirectPrefix is where short link redirects are mounted.
const RedirectPrefix = "/a"

// ResourceFinder loads the identity of a linkable resource.
type ResourceFinder func(ctx context.Context, id int64) (shortlink.Resource, error)

// RecipeFinder adapts the recipe catalog to ResourceFinder.
func RecipeFinder(svc *catalog.Service) ResourceFinder {
	return func(ctx context.Context, id int64) (shortlink.Resource, error) {
		recipe, err := svc.GetRecipe(ctx, id, 0)
		if err != nil {
			return shortlink.Resource{}, err
		}

		return shortlink.Resource{Kind: shortlink.KindRecipe, ID: recipe.ID, Name: recipe.Name, CreatedAt: recipe.CreatedAt}, nil
	}
}

// PlanFinder adapts the workout plan catalog to ResourceFinder.
func PlanFinder(svc *workouts.Service) ResourceFinder {
	return func(ctx context.Context, id int64) (shortlink.Resource, error) {
		plan, err := svc.GetPlan(ctx, id, 0)
		if err != nil {
			return shortlink.Resource{}, err
		}

		return shortlink.Resource{Kind: shortlink.KindWorkoutPlan, ID: plan.ID, Name: plan.Name, CreatedAt: plan.CreatedAt}, nil
	}
}

// LinkHandler hands out short links and resolves them.
type LinkHandler struct {
	linker       *shortlink.Linker
	finders      map[shortlink.Kind]ResourceFinder
	resolvers    map[shortlink.Kind]*redirect.Resolver
	baseURL      string
	attempts     int
	publishLink  messaging.Publish[analytics.LinkCreatedEvent]
	publishVisit messaging.Publish[analytics.LinkResolvedEvent]
	logger       *zap.Logger
}

// NewLinkHandler creates a link handler. attempts bounds salted retries
// after a code collision.
func NewLinkHandler(
	linker *shortlink.Linker,
	finders map[shortlink.Kind]ResourceFinder,
	resolvers []*redirect.Resolver,
	baseURL string,
	attempts int,
	publishLink messaging.Publish[analytics.LinkCreatedEvent],
	publishVisit messaging.Publish[analytics.LinkResolvedEvent],
	logger *zap.Logger,
) *LinkHandler {
	byKind := make(map[shortlink.Kind]*redirect.Resolver, len(resolvers))
	for _, r := range resolvers {
		byKind[r.Kind()] = r
	}

	return &LinkHandler{
		linker:       linker,
		finders:      finders,
		resolvers:    byKind,
		baseURL:      strings.TrimRight(baseURL, "/"),
		attempts:     max(attempts, 1),
		publishLink:  publishLink,
		publishVisit: publishVisit,
		logger:       logger,
	}
}

// GetLink returns an operation handler producing the short link of a resource of kind.
func (h *LinkHandler) GetLink(kind shortlink.Kind) func(context.Context, *IDRequest) (*ShortLinkResponse, error) {
	return func(ctx context.Context, req *IDRequest) (*ShortLinkResponse, error) {
		find, ok := h.finders[kind]
		if !ok {
			return nil, httpError(fmt.Errorf("%w: kind %s", shortlink.ErrInvalidResource, kind))
		}

		res, err := find(ctx, req.ID)
		if err != nil {
			return nil, httpError(err)
		}

		link, err := h.linker.GetOrCreateWithRetry(ctx, res, h.attempts)
		if err != nil {
			h.logger.Error("failed to get short link",
				zap.String("kind", string(kind)),
				zap.Int64("resource_id", req.ID),
				zap.Error(err),
			)

			return nil, httpError(err)
		}

		meta := RequestMetaFromContext(ctx)
		event := &analytics.LinkCreatedEvent{
			EventID:    uuid.NewString(),
			Kind:       string(link.Kind),
			Code:       string(link.Code),
			ResourceID: link.ResourceID,
			UserID:     meta.UserID,
			CreatedAt:  link.CreatedAt,
			ClientIP:   meta.ClientIP,
			UserAgent:  meta.UserAgent,
		}

		if err := h.publishLink(ctx, event); err != nil {
			h.logger.Error("failed to publish analytics event",
				zap.String("code", event.Code),
				zap.Error(err),
			)
		}

		resp := &ShortLinkResponse{}
		resp.Body.ShortLink = h.ShortURL(link)

		return resp, nil
	}
}

// ShortURL is the public URL of link.
func (h *LinkHandler) ShortURL(link *shortlink.ShortLink) string {
	return fmt.Sprintf("%s%s/%s/%s", h.baseURL, RedirectPrefix, link.Kind.Segment(), link.Code)
}

// Redirect returns an operation handler resolving codes of kind.
func (h *LinkHandler) Redirect(kind shortlink.Kind) func(context.Context, *RedirectRequest) (*RedirectResponse, error) {
	return func(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
		resolver, ok := h.resolvers[kind]
		if !ok {
			return nil, httpError(fmt.Errorf("%w: kind %s", shortlink.ErrInvalidResource, kind))
		}

		res, err := resolver.Redirect(ctx, req.Code)
		if err != nil {
			return nil, httpError(err)
		}

		meta := RequestMetaFromContext(ctx)
		event := &analytics.LinkResolvedEvent{
			EventID:    uuid.NewString(),
			Kind:       string(kind),
			Code:       req.Code,
			ResourceID: res.ResourceID,
			CacheHit:   res.CacheHit,
			ResolvedAt: time.Now().UTC(),
			ClientIP:   meta.ClientIP,
			UserAgent:  meta.UserAgent,
			Referrer:   meta.Referrer,
		}

		if err := h.publishVisit(ctx, event); err != nil {
			h.logger.Error("failed to publish access event",
				zap.String("code", event.Code),
				zap.Error(err),
			)
		}

		resp := &RedirectResponse{Status: http.StatusFound}
		resp.Headers.Location = res.Target

		return resp, nil
	}
}
