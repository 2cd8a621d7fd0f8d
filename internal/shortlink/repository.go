package shortlink

import (
	"context"
	"errors"
	"fmt"

	"github.com/serroba/foodgram-go/internal/apperror"
)

var (
	ErrNotFound        = fmt.Errorf("short link %w", apperror.ErrNotFound)
	ErrInvalidCode     = fmt.Errorf("short code: %w", apperror.ErrInvalidInput)
	ErrInvalidResource = fmt.Errorf("short link resource: %w", apperror.ErrInvalidInput)
	ErrConflict        = fmt.Errorf("short code collision: %w", apperror.ErrConflict)

	// ErrResourceLinked is returned by Repository.Create when the resource
	// already owns a short link.
	ErrResourceLinked = errors.New("resource already has a short link")
	// ErrCodeTaken is returned by Repository.Create when the code belongs to
	// another row.
	ErrCodeTaken = errors.New("short code already taken")
)

// Repository persists short links. Implementations enforce uniqueness on
// both (kind, resource id) and (kind, code).
type Repository interface {
	// Create inserts link. It returns ErrResourceLinked or ErrCodeTaken on the
	// corresponding uniqueness violation and never overwrites a row.
	Create(ctx context.Context, link *ShortLink) error
	GetByResource(ctx context.Context, kind Kind, resourceID int64) (*ShortLink, error)
	GetByCode(ctx context.Context, kind Kind, code Code) (*ShortLink, error)
}
