package analytics

import "time"

const (
	TopicLinkCreated          = "shortlink.created"
	TopicLinkResolved         = "shortlink.resolved"
	TopicShoppingListExported = "shopping.exported"
)

// LinkCreatedEvent is emitted when a get-link call returns a short link.
type LinkCreatedEvent struct {
	EventID    string    `json:"eventId"`
	Kind       string    `json:"kind"`
	Code       string    `json:"code"`
	ResourceID int64     `json:"resourceId"`
	UserID     int64     `json:"userId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	ClientIP   string    `json:"clientIp"`
	UserAgent  string    `json:"userAgent"`
}

// LinkResolvedEvent is emitted when a short code is redirected.
type LinkResolvedEvent struct {
	EventID    string    `json:"eventId"`
	Kind       string    `json:"kind"`
	Code       string    `json:"code"`
	ResourceID int64     `json:"resourceId"`
	CacheHit   bool      `json:"cacheHit"`
	ResolvedAt time.Time `json:"resolvedAt"`
	ClientIP   string    `json:"clientIp"`
	UserAgent  string    `json:"userAgent"`
	Referrer   string    `json:"referrer,omitempty"`
}

// ShoppingListExportedEvent is emitted when a user downloads their shopping list.
type ShoppingListExportedEvent struct {
	EventID    string    `json:"eventId"`
	UserID     int64     `json:"userId"`
	ExportedAt time.Time `json:"exportedAt"`
	ClientIP   string    `json:"clientIp"`
	UserAgent  string    `json:"userAgent"`
}
