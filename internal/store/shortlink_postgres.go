package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/foodgram-go/internal/shortlink"
)

const foreignKeyViolation = "23503"

var linkTables = map[shortlink.Kind]string{
	shortlink.KindRecipe:      "recipe_short_links",
	shortlink.KindWorkoutPlan: "workout_plan_short_links",
}

// PostgresStore is a PostgreSQL implementation of shortlink.Repository with
// one table per resource kind.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed short link store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) Create(ctx context.Context, link *shortlink.ShortLink) error {
	table, err := linkTable(link.Kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (resource_id, code, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (resource_id) DO NOTHING
	`, table)

	tag, err := p.pool.Exec(ctx, query, link.ResourceID, string(link.Code), link.CreatedAt)
	if err != nil {
		if uniqueConstraint(err) != "" {
			return shortlink.ErrCodeTaken
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return fmt.Errorf("%w: %s %d does not exist", shortlink.ErrInvalidResource, link.Kind, link.ResourceID)
		}

		return err
	}

	if tag.RowsAffected() == 0 {
		return shortlink.ErrResourceLinked
	}

	return nil
}

func (p *PostgresStore) GetByResource(ctx context.Context, kind shortlink.Kind, resourceID int64) (*shortlink.ShortLink, error) {
	table, err := linkTable(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT resource_id, code, created_at
		FROM %s
		WHERE resource_id = $1
	`, table)

	return p.scan(p.pool.QueryRow(ctx, query, resourceID), kind)
}

func (p *PostgresStore) GetByCode(ctx context.Context, kind shortlink.Kind, code shortlink.Code) (*shortlink.ShortLink, error) {
	table, err := linkTable(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT resource_id, code, created_at
		FROM %s
		WHERE code = $1
	`, table)

	return p.scan(p.pool.QueryRow(ctx, query, string(code)), kind)
}

func (p *PostgresStore) scan(row pgx.Row, kind shortlink.Kind) (*shortlink.ShortLink, error) {
	link := shortlink.ShortLink{Kind: kind}

	var code string

	if err := row.Scan(&link.ResourceID, &code, &link.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortlink.ErrNotFound
		}

		return nil, err
	}

	link.Code = shortlink.Code(code)

	return &link, nil
}

func linkTable(kind shortlink.Kind) (string, error) {
	table, ok := linkTables[kind]
	if !ok {
		return "", fmt.Errorf("%w: unknown kind %q", shortlink.ErrInvalidResource, kind)
	}

	return table, nil
}

var _ shortlink.Repository = (*PostgresStore)(nil)
