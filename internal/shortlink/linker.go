package shortlink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/serroba/foodgram-go/internal/apperror"
	"go.uber.org/zap"
)

// SaltGenerator produces a random salt used to regenerate a code after a collision.
type SaltGenerator func() string

// Linker creates and resolves short links on top of a Repository.
type Linker struct {
	repo   Repository
	salt   SaltGenerator
	logger *zap.Logger
}

// NewLinker creates a new Linker.
func NewLinker(repo Repository, salt SaltGenerator, logger *zap.Logger) *Linker {
	return &Linker{
		repo:   repo,
		salt:   salt,
		logger: logger,
	}
}

// GetOrCreate returns the short link of res, creating it on first use.
// Concurrent callers for the same resource all receive the row that won the insert.
func (l *Linker) GetOrCreate(ctx context.Context, res Resource) (*ShortLink, error) {
	return l.create(ctx, res, GenerateCode(Identity(res, "")))
}

// GetOrCreateWithRetry behaves like GetOrCreate but regenerates the code with
// a random salt when it collides with another resource's code.
func (l *Linker) GetOrCreateWithRetry(ctx context.Context, res Resource, attempts int) (*ShortLink, error) {
	link, err := l.GetOrCreate(ctx, res)

	for attempt := 1; attempt < attempts && errors.Is(err, ErrConflict); attempt++ {
		l.logger.Warn("short code collision, retrying with salt",
			zap.String("kind", string(res.Kind)),
			zap.Int64("resource_id", res.ID),
			zap.Int("attempt", attempt),
		)

		link, err = l.create(ctx, res, GenerateCode(Identity(res, l.salt())))
	}

	return link, err
}

// Resolve returns the resource id a code points to.
func (l *Linker) Resolve(ctx context.Context, kind Kind, code Code) (int64, error) {
	link, err := l.repo.GetByCode(ctx, kind, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, err
		}

		return 0, fmt.Errorf("%w: resolve short link: %w", apperror.ErrInternal, err)
	}

	return link.ResourceID, nil
}

func (l *Linker) create(ctx context.Context, res Resource, code Code) (*ShortLink, error) {
	if !res.Kind.Valid() || res.ID <= 0 {
		return nil, fmt.Errorf("%w: kind %q id %d", ErrInvalidResource, res.Kind, res.ID)
	}

	link := &ShortLink{
		Code:       code,
		Kind:       res.Kind,
		ResourceID: res.ID,
		CreatedAt:  time.Now().UTC(),
	}

	err := l.repo.Create(ctx, link)

	switch {
	case err == nil:
		l.logger.Debug("short link created",
			zap.String("kind", string(res.Kind)),
			zap.Int64("resource_id", res.ID),
			zap.String("code", string(code)),
		)

		return link, nil
	case errors.Is(err, ErrResourceLinked):
		return l.existing(ctx, res)
	case errors.Is(err, ErrCodeTaken):
		// The insert may have lost a race against the same resource, which
		// also collides on the code.
		existing, lookupErr := l.repo.GetByResource(ctx, res.Kind, res.ID)
		if lookupErr == nil {
			return existing, nil
		}

		if !errors.Is(lookupErr, ErrNotFound) {
			return nil, fmt.Errorf("%w: load short link: %w", apperror.ErrInternal, lookupErr)
		}

		return nil, fmt.Errorf("%w: code %s", ErrConflict, code)
	default:
		return nil, fmt.Errorf("%w: create short link: %w", apperror.ErrInternal, err)
	}
}

func (l *Linker) existing(ctx context.Context, res Resource) (*ShortLink, error) {
	link, err := l.repo.GetByResource(ctx, res.Kind, res.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: load short link: %w", apperror.ErrInternal, err)
	}

	return link, nil
}
