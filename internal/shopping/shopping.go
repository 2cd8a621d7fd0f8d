// Package shopping builds the downloadable shopping list of a user's cart.
package shopping

import (
	"context"
	"fmt"

	"github.com/serroba/foodgram-go/internal/apperror"
)

const (
	ContentType = "text/plain; charset=utf-8"
	Filename    = "shopping_list.txt"
)

// ErrEmptyCart is returned when the user's cart holds no ingredients.
var ErrEmptyCart = fmt.Errorf("shopping cart: %w", apperror.ErrEmptyCollection)

// Item is one ingredient row of a recipe in the cart.
type Item struct {
	Name   string
	Unit   string
	Amount int64
}

// Line is one aggregated row of the shopping list.
type Line struct {
	Name        string
	Unit        string
	TotalAmount int64
}

// Document is the rendered shopping list, ready to be served as an attachment.
type Document struct {
	Content     []byte `json:"content"`
	ContentType string `json:"content_type"`
	Filename    string `json:"filename"`
}

// Source reads the ingredient rows of every recipe in a user's cart.
type Source interface {
	CartItems(ctx context.Context, userID int64) ([]Item, error)
}
