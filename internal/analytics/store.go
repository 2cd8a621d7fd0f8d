package analytics

import "context"

// Store defines the interface for persisting analytics events.
type Store interface {
	SaveLinkCreated(ctx context.Context, event *LinkCreatedEvent) error
	SaveLinkResolved(ctx context.Context, event *LinkResolvedEvent) error
	SaveShoppingListExported(ctx context.Context, event *ShoppingListExportedEvent) error
}
