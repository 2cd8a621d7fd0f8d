package store

import (
	"context"

	"github.com/serroba/foodgram-go/internal/analytics"
	"go.uber.org/zap"
)

// Noop is an analytics.Store that only logs the events it receives.
type Noop struct {
	logger *zap.Logger
}

// NewNoop creates a new no-op analytics store.
func NewNoop(logger *zap.Logger) *Noop {
	return &Noop{logger: logger}
}

func (n *Noop) SaveLinkCreated(_ context.Context, event *analytics.LinkCreatedEvent) error {
	n.logger.Info("link created event received",
		zap.String("kind", event.Kind),
		zap.String("code", event.Code),
		zap.Int64("resourceId", event.ResourceID),
		zap.Time("createdAt", event.CreatedAt),
	)

	return nil
}

func (n *Noop) SaveLinkResolved(_ context.Context, event *analytics.LinkResolvedEvent) error {
	n.logger.Info("link resolved event received",
		zap.String("kind", event.Kind),
		zap.String("code", event.Code),
		zap.Bool("cacheHit", event.CacheHit),
		zap.String("referrer", event.Referrer),
	)

	return nil
}

func (n *Noop) SaveShoppingListExported(_ context.Context, event *analytics.ShoppingListExportedEvent) error {
	n.logger.Info("shopping list exported event received",
		zap.Int64("userId", event.UserID),
		zap.Time("exportedAt", event.ExportedAt),
	)

	return nil
}
