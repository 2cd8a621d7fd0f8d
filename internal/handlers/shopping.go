package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/serroba/foodgram-go/internal/analytics"
	"github.com/serroba/foodgram-go/internal/messaging"
	"github.com/serroba/foodgram-go/internal/shopping"
	"go.uber.org/zap"
)

// ShoppingHandler serves the shopping list export.
type ShoppingHandler struct {
	aggregator *shopping.Aggregator
	publish    messaging.Publish[analytics.ShoppingListExportedEvent]
	logger     *zap.Logger
}

// NewShoppingHandler creates a new shopping handler.
func NewShoppingHandler(
	aggregator *shopping.Aggregator,
	publish messaging.Publish[analytics.ShoppingListExportedEvent],
	logger *zap.Logger,
) *ShoppingHandler {
	return &ShoppingHandler{aggregator: aggregator, publish: publish, logger: logger}
}

// Download returns the caller's aggregated shopping list as an attachment.
func (h *ShoppingHandler) Download(ctx context.Context, _ *struct{}) (*DownloadResponse, error) {
	userID, err := RequireUser(ctx)
	if err != nil {
		return nil, httpError(err)
	}

	doc, err := h.aggregator.BuildExport(ctx, userID)
	if err != nil {
		return nil, httpError(err)
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.ShoppingListExportedEvent{
		EventID:    uuid.NewString(),
		UserID:     userID,
		ExportedAt: time.Now().UTC(),
		ClientIP:   meta.ClientIP,
		UserAgent:  meta.UserAgent,
	}

	if err := h.publish(ctx, event); err != nil {
		h.logger.Error("failed to publish export event",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}

	return &DownloadResponse{
		ContentType:        doc.ContentType,
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", doc.Filename),
		Body:               doc.Content,
	}, nil
}
