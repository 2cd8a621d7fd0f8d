// Package users manages accounts and the follow graph between them.
package users

import (
	"context"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/serroba/foodgram-go/internal/apperror"
	"github.com/serroba/foodgram-go/internal/paging"
)

var (
	ErrUserNotFound     = fmt.Errorf("user %w", apperror.ErrNotFound)
	ErrInvalidUser      = fmt.Errorf("user: %w", apperror.ErrInvalidInput)
	ErrUsernameTaken    = fmt.Errorf("username or email already registered: %w", apperror.ErrInvalidInput)
	ErrSelfFollow       = fmt.Errorf("cannot subscribe to yourself: %w", apperror.ErrInvalidInput)
	ErrAlreadyFollowing = fmt.Errorf("already subscribed to this user: %w", apperror.ErrInvalidInput)
	ErrNotFollowing     = fmt.Errorf("not subscribed to this user: %w", apperror.ErrInvalidInput)
	ErrNoSubscriptions  = fmt.Errorf("no subscriptions: %w", apperror.ErrEmptyCollection)
	ErrAvatarRequired   = fmt.Errorf("avatar is required: %w", apperror.ErrInvalidInput)
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// User is a registered account.
type User struct {
	ID        int64
	Username  string
	Email     string
	FirstName string
	LastName  string
	// Avatar is a base64 data URI, empty when the user has none.
	Avatar    string
	CreatedAt time.Time
}

// Subscription is a followed author with the size of their catalog.
type Subscription struct {
	User
	RecipesCount int
}

// NewUser is the input for registering an account.
type NewUser struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
}

// Validate checks u before it reaches the repository.
func (u *NewUser) Validate() error {
	switch {
	case u.Username == "" || len(u.Username) > 150:
		return fmt.Errorf("%w: username must be 1 to 150 characters", ErrInvalidUser)
	case !usernamePattern.MatchString(u.Username):
		return fmt.Errorf("%w: username may contain only letters, digits and @/./+/-/_", ErrInvalidUser)
	case strings.TrimSpace(u.FirstName) == "" || strings.TrimSpace(u.LastName) == "":
		return fmt.Errorf("%w: first and last name are required", ErrInvalidUser)
	}

	if _, err := mail.ParseAddress(u.Email); err != nil {
		return fmt.Errorf("%w: invalid email", ErrInvalidUser)
	}

	return nil
}

// Repository persists accounts and follows.
type Repository interface {
	// CreateUser returns ErrUsernameTaken when the username or email exists.
	CreateUser(ctx context.Context, u *NewUser) (*User, error)
	GetUser(ctx context.Context, id int64) (*User, error)
	// ListUsers returns accounts ordered by id.
	ListUsers(ctx context.Context, p paging.Params) (paging.Page[User], error)
	// SetAvatar stores avatar for user id; an empty avatar clears it.
	SetAvatar(ctx context.Context, id int64, avatar string) (*User, error)
	// Follow returns ErrAlreadyFollowing for an existing follow.
	Follow(ctx context.Context, userID, authorID int64) error
	// Unfollow returns ErrNotFollowing when there is nothing to remove.
	Unfollow(ctx context.Context, userID, authorID int64) error
	Subscriptions(ctx context.Context, userID int64) ([]Subscription, error)
}
