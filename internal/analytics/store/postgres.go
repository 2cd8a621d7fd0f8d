package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/foodgram-go/internal/analytics"
)

const (
	eventLinkCreated          = "link_created"
	eventLinkResolved         = "link_resolved"
	eventShoppingListExported = "shopping_list_exported"
)

const insertEvent = `
	INSERT INTO link_events (id, event_type, kind, code, resource_id, user_id,
		client_ip, user_agent, referrer, cache_hit, occurred_at)
	VALUES (@id, @type, @kind, @code, @resource, @user,
		@ip, @agent, @referrer, @hit, @at)
	ON CONFLICT (id) DO NOTHING
`

// Postgres persists analytics events into the link_events table.
// Redelivered events are ignored by id.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a Postgres analytics store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) SaveLinkCreated(ctx context.Context, event *analytics.LinkCreatedEvent) error {
	return p.insert(ctx, pgx.NamedArgs{
		"id":       event.EventID,
		"type":     eventLinkCreated,
		"kind":     event.Kind,
		"code":     event.Code,
		"resource": event.ResourceID,
		"user":     event.UserID,
		"ip":       event.ClientIP,
		"agent":    event.UserAgent,
		"referrer": "",
		"hit":      false,
		"at":       event.CreatedAt,
	})
}

func (p *Postgres) SaveLinkResolved(ctx context.Context, event *analytics.LinkResolvedEvent) error {
	return p.insert(ctx, pgx.NamedArgs{
		"id":       event.EventID,
		"type":     eventLinkResolved,
		"kind":     event.Kind,
		"code":     event.Code,
		"resource": event.ResourceID,
		"user":     int64(0),
		"ip":       event.ClientIP,
		"agent":    event.UserAgent,
		"referrer": event.Referrer,
		"hit":      event.CacheHit,
		"at":       event.ResolvedAt,
	})
}

func (p *Postgres) SaveShoppingListExported(ctx context.Context, event *analytics.ShoppingListExportedEvent) error {
	return p.insert(ctx, pgx.NamedArgs{
		"id":       event.EventID,
		"type":     eventShoppingListExported,
		"kind":     "",
		"code":     "",
		"resource": int64(0),
		"user":     event.UserID,
		"ip":       event.ClientIP,
		"agent":    event.UserAgent,
		"referrer": "",
		"hit":      false,
		"at":       event.ExportedAt,
	})
}

func (p *Postgres) insert(ctx context.Context, args pgx.NamedArgs) error {
	if args["id"] == "" {
		args["id"] = uuid.NewString()
	}

	if at, ok := args["at"].(time.Time); ok && at.IsZero() {
		args["at"] = time.Now().UTC()
	}

	if _, err := p.pool.Exec(ctx, insertEvent, args); err != nil {
		return fmt.Errorf("insert %s event: %w", args["type"], err)
	}

	return nil
}
