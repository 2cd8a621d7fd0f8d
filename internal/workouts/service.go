package workouts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/serroba/foodgram-go/internal/apperror"
	"github.com/serroba/foodgram-go/internal/paging"
	"go.uber.org/zap"
)

// Service applies the workout plan rules on top of a Repository.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) CreatePlan(ctx context.Context, p *NewPlan) (*Plan, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	p.Name = strings.TrimSpace(p.Name)

	plan, err := s.repo.CreatePlan(ctx, p)
	if err != nil {
		return nil, s.wrap("create plan", err)
	}

	return plan, nil
}

func (s *Service) GetPlan(ctx context.Context, id, viewer int64) (*Plan, error) {
	plan, err := s.repo.GetPlan(ctx, id, viewer)
	if err != nil {
		return nil, s.wrap("get plan", err)
	}

	return plan, nil
}

func (s *Service) ListPlans(ctx context.Context, f Filter) (paging.Page[Plan], error) {
	f.Params = f.Normalize()

	page, err := s.repo.ListPlans(ctx, f)
	if err != nil {
		return paging.Page[Plan]{}, s.wrap("list plans", err)
	}

	return page, nil
}

func (s *Service) UpdatePlan(ctx context.Context, userID, id int64, p *NewPlan) (*Plan, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, userID, id); err != nil {
		return nil, err
	}

	p.AuthorID = userID
	p.Name = strings.TrimSpace(p.Name)

	plan, err := s.repo.UpdatePlan(ctx, id, p)
	if err != nil {
		return nil, s.wrap("update plan", err)
	}

	return plan, nil
}

func (s *Service) DeletePlan(ctx context.Context, userID, id int64) error {
	if err := s.authorize(ctx, userID, id); err != nil {
		return err
	}

	if err := s.repo.DeletePlan(ctx, id); err != nil {
		return s.wrap("delete plan", err)
	}

	return nil
}

// authorize fails unless userID wrote plan id.
func (s *Service) authorize(ctx context.Context, userID, id int64) error {
	plan, err := s.GetPlan(ctx, id, userID)
	if err != nil {
		return err
	}

	if plan.AuthorID != userID {
		return ErrNotAuthor
	}

	return nil
}

func (s *Service) SearchExercises(ctx context.Context, prefix string) ([]Exercise, error) {
	exercises, err := s.repo.SearchExercises(ctx, strings.TrimSpace(prefix))
	if err != nil {
		return nil, s.wrap("search exercises", err)
	}

	return exercises, nil
}

func (s *Service) AddFavorite(ctx context.Context, userID, planID int64) (*Plan, error) {
	plan, err := s.GetPlan(ctx, planID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.AddFavorite(ctx, userID, planID); err != nil {
		return nil, s.wrap("add favorite", err)
	}

	return plan, nil
}

func (s *Service) RemoveFavorite(ctx context.Context, userID, planID int64) error {
	if _, err := s.GetPlan(ctx, planID, userID); err != nil {
		return err
	}

	if err := s.repo.RemoveFavorite(ctx, userID, planID); err != nil {
		return s.wrap("remove favorite", err)
	}

	return nil
}

func (s *Service) wrap(op string, err error) error {
	if apperror.Kind(err) != apperror.ErrInternal {
		return err
	}

	s.logger.Error("workout operation failed", zap.String("op", op), zap.Error(err))

	if errors.Is(err, apperror.ErrInternal) {
		return err
	}

	return fmt.Errorf("%w: %s: %w", apperror.ErrInternal, op, err)
}
