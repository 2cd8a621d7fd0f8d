package analytics

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/foodgram-go/internal/messaging"
)

// Publishers bundles the typed publish functions of every analytics topic.
type Publishers struct {
	LinkCreated          messaging.Publish[LinkCreatedEvent]
	LinkResolved         messaging.Publish[LinkResolvedEvent]
	ShoppingListExported messaging.Publish[ShoppingListExportedEvent]
}

// NewPublishers binds each analytics topic to publisher.
func NewPublishers(publisher message.Publisher) Publishers {
	return Publishers{
		LinkCreated:          messaging.NewPublishFunc[LinkCreatedEvent](publisher, TopicLinkCreated),
		LinkResolved:         messaging.NewPublishFunc[LinkResolvedEvent](publisher, TopicLinkResolved),
		ShoppingListExported: messaging.NewPublishFunc[ShoppingListExportedEvent](publisher, TopicShoppingListExported),
	}
}
