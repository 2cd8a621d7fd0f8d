package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/serroba/foodgram-go/internal/apperror"
	"github.com/serroba/foodgram-go/internal/media"
	"github.com/serroba/foodgram-go/internal/paging"
	"go.uber.org/zap"
)

// Service applies account and follow rules on top of a Repository.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Register(ctx context.Context, u *NewUser) (*User, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}

	user, err := s.repo.CreateUser(ctx, u)
	if err != nil {
		return nil, s.wrap("register", err, zap.String("username", u.Username))
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID))

	return user, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, s.wrap("get user", err, zap.Int64("user_id", id))
	}

	return user, nil
}

func (s *Service) ListUsers(ctx context.Context, p paging.Params) (paging.Page[User], error) {
	page, err := s.repo.ListUsers(ctx, p.Normalize())
	if err != nil {
		return paging.Page[User]{}, s.wrap("list users", err)
	}

	return page, nil
}

// SetAvatar replaces the avatar of userID with a validated base64 image.
func (s *Service) SetAvatar(ctx context.Context, userID int64, avatar string) (*User, error) {
	if avatar == "" {
		return nil, ErrAvatarRequired
	}

	if _, err := media.DecodeImage(avatar); err != nil {
		return nil, err
	}

	user, err := s.repo.SetAvatar(ctx, userID, avatar)
	if err != nil {
		return nil, s.wrap("set avatar", err, zap.Int64("user_id", userID))
	}

	return user, nil
}

func (s *Service) ClearAvatar(ctx context.Context, userID int64) error {
	if _, err := s.repo.SetAvatar(ctx, userID, ""); err != nil {
		return s.wrap("clear avatar", err, zap.Int64("user_id", userID))
	}

	return nil
}

// Subscribe makes userID follow authorID and returns the author.
func (s *Service) Subscribe(ctx context.Context, userID, authorID int64) (*User, error) {
	author, err := s.GetUser(ctx, authorID)
	if err != nil {
		return nil, err
	}

	if userID == authorID {
		return nil, ErrSelfFollow
	}

	if err := s.repo.Follow(ctx, userID, authorID); err != nil {
		return nil, s.wrap("follow", err, zap.Int64("user_id", userID), zap.Int64("author_id", authorID))
	}

	return author, nil
}

func (s *Service) Unsubscribe(ctx context.Context, userID, authorID int64) error {
	if _, err := s.GetUser(ctx, authorID); err != nil {
		return err
	}

	if err := s.repo.Unfollow(ctx, userID, authorID); err != nil {
		return s.wrap("unfollow", err, zap.Int64("user_id", userID), zap.Int64("author_id", authorID))
	}

	return nil
}

// Subscriptions lists the authors userID follows. Following nobody is an
// ErrNoSubscriptions error rather than an empty list.
func (s *Service) Subscriptions(ctx context.Context, userID int64) ([]Subscription, error) {
	subs, err := s.repo.Subscriptions(ctx, userID)
	if err != nil {
		return nil, s.wrap("subscriptions", err, zap.Int64("user_id", userID))
	}

	if len(subs) == 0 {
		return nil, ErrNoSubscriptions
	}

	return subs, nil
}

func (s *Service) wrap(op string, err error, fields ...zap.Field) error {
	if apperror.Kind(err) != apperror.ErrInternal {
		return err
	}

	s.logger.Error("user operation failed", append(fields, zap.String("op", op), zap.Error(err))...)

	if errors.Is(err, apperror.ErrInternal) {
		return err
	}

	return fmt.Errorf("%w: %s: %w", apperror.ErrInternal, op, err)
}
