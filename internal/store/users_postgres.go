package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/foodgram-go/internal/paging"
	"github.com/serroba/foodgram-go/internal/users"
)

const userColumns = `u.id, u.username, u.email, u.first_name, u.last_name, u.avatar, u.created_at`

// UserPostgresStore is a PostgreSQL implementation of users.Repository.
type UserPostgresStore struct {
	pool *pgxpool.Pool
}

func NewUserPostgresStore(pool *pgxpool.Pool) *UserPostgresStore {
	return &UserPostgresStore{pool: pool}
}

func (p *UserPostgresStore) CreateUser(ctx context.Context, u *users.NewUser) (*users.User, error) {
	user := users.User{
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}

	err := p.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, u.Username, u.Email, u.FirstName, u.LastName).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if uniqueConstraint(err) != "" {
			return nil, users.ErrUsernameTaken
		}

		return nil, err
	}

	return &user, nil
}

func (p *UserPostgresStore) GetUser(ctx context.Context, id int64) (*users.User, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = $1`, id)
	if err != nil {
		return nil, err
	}

	user, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, users.ErrUserNotFound
	}

	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (p *UserPostgresStore) ListUsers(ctx context.Context, params paging.Params) (paging.Page[users.User], error) {
	var page paging.Page[users.User]

	if err := p.pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&page.Count); err != nil {
		return page, err
	}

	rows, err := p.pool.Query(ctx, `SELECT `+userColumns+` FROM users u ORDER BY u.id LIMIT $1 OFFSET $2`,
		params.Limit, params.Offset,
	)
	if err != nil {
		return page, err
	}

	page.Items, err = pgx.CollectRows(rows, scanUser)

	return page, err
}

func (p *UserPostgresStore) SetAvatar(ctx context.Context, id int64, avatar string) (*users.User, error) {
	tag, err := p.pool.Exec(ctx, `UPDATE users SET avatar = $2 WHERE id = $1`, id, avatar)
	if err != nil {
		return nil, err
	}

	if tag.RowsAffected() == 0 {
		return nil, users.ErrUserNotFound
	}

	return p.GetUser(ctx, id)
}

func (p *UserPostgresStore) Follow(ctx context.Context, userID, authorID int64) error {
	tag, err := p.pool.Exec(ctx, `
		INSERT INTO follows (user_id, author_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, userID, authorID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "prevent_self_follow" {
			return users.ErrSelfFollow
		}

		return err
	}

	if tag.RowsAffected() == 0 {
		return users.ErrAlreadyFollowing
	}

	return nil
}

func (p *UserPostgresStore) Unfollow(ctx context.Context, userID, authorID int64) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM follows WHERE user_id = $1 AND author_id = $2`, userID, authorID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return users.ErrNotFollowing
	}

	return nil
}

func (p *UserPostgresStore) Subscriptions(ctx context.Context, userID int64) ([]users.Subscription, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT `+userColumns+`,
		       (SELECT count(*) FROM recipes r WHERE r.author_id = u.id)
		FROM follows f
		JOIN users u ON u.id = f.author_id
		WHERE f.user_id = $1
		ORDER BY u.id
	`, userID)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (users.Subscription, error) {
		var sub users.Subscription
		err := row.Scan(&sub.ID, &sub.Username, &sub.Email, &sub.FirstName, &sub.LastName, &sub.Avatar,
			&sub.CreatedAt, &sub.RecipesCount)

		return sub, err
	})
}

func scanUser(row pgx.CollectableRow) (users.User, error) {
	var u users.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.Avatar, &u.CreatedAt)

	return u, err
}

var _ users.Repository = (*UserPostgresStore)(nil)
