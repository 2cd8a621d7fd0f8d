package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/serroba/foodgram-go/internal/apperror"
	"github.com/serroba/foodgram-go/internal/paging"
	"go.uber.org/zap"
)

// Service applies the recipe rules on top of a Repository.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new catalog service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) CreateRecipe(ctx context.Context, r *NewRecipe) (*Recipe, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	r.Name = strings.TrimSpace(r.Name)

	recipe, err := s.repo.CreateRecipe(ctx, r)
	if err != nil {
		return nil, s.fail("create recipe", err, zap.Int64("author_id", r.AuthorID))
	}

	return recipe, nil
}

func (s *Service) GetRecipe(ctx context.Context, id, viewer int64) (*Recipe, error) {
	recipe, err := s.repo.GetRecipe(ctx, id, viewer)
	if err != nil {
		return nil, s.fail("get recipe", err, zap.Int64("recipe_id", id))
	}

	return recipe, nil
}

func (s *Service) ListRecipes(ctx context.Context, f Filter) (paging.Page[Recipe], error) {
	f.Params = f.Normalize()

	page, err := s.repo.ListRecipes(ctx, f)
	if err != nil {
		return paging.Page[Recipe]{}, s.fail("list recipes", err)
	}

	return page, nil
}

// UpdateRecipe replaces recipe id on behalf of userID, who must be its author.
func (s *Service) UpdateRecipe(ctx context.Context, userID, id int64, r *NewRecipe) (*Recipe, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, userID, id); err != nil {
		return nil, err
	}

	r.AuthorID = userID
	r.Name = strings.TrimSpace(r.Name)

	recipe, err := s.repo.UpdateRecipe(ctx, id, r)
	if err != nil {
		return nil, s.fail("update recipe", err, zap.Int64("recipe_id", id))
	}

	return recipe, nil
}

// DeleteRecipe removes recipe id on behalf of userID, who must be its author.
func (s *Service) DeleteRecipe(ctx context.Context, userID, id int64) error {
	if err := s.authorize(ctx, userID, id); err != nil {
		return err
	}

	if err := s.repo.DeleteRecipe(ctx, id); err != nil {
		return s.fail("delete recipe", err, zap.Int64("recipe_id", id))
	}

	return nil
}

func (s *Service) authorize(ctx context.Context, userID, id int64) error {
	recipe, err := s.GetRecipe(ctx, id, userID)
	if err != nil {
		return err
	}

	if recipe.AuthorID != userID {
		return ErrNotAuthor
	}

	return nil
}

func (s *Service) SearchIngredients(ctx context.Context, prefix string) ([]Ingredient, error) {
	ingredients, err := s.repo.SearchIngredients(ctx, strings.TrimSpace(prefix))
	if err != nil {
		return nil, s.fail("search ingredients", err, zap.String("prefix", prefix))
	}

	return ingredients, nil
}

// AddFavorite marks the recipe as a favorite of userID and returns it.
func (s *Service) AddFavorite(ctx context.Context, userID, recipeID int64) (*Recipe, error) {
	return s.mark(ctx, "add favorite", userID, recipeID, s.repo.AddFavorite)
}

func (s *Service) RemoveFavorite(ctx context.Context, userID, recipeID int64) error {
	_, err := s.mark(ctx, "remove favorite", userID, recipeID, s.repo.RemoveFavorite)

	return err
}

// AddToCart puts the recipe into userID's shopping cart and returns it.
func (s *Service) AddToCart(ctx context.Context, userID, recipeID int64) (*Recipe, error) {
	return s.mark(ctx, "add to cart", userID, recipeID, s.repo.AddToCart)
}

func (s *Service) RemoveFromCart(ctx context.Context, userID, recipeID int64) error {
	_, err := s.mark(ctx, "remove from cart", userID, recipeID, s.repo.RemoveFromCart)

	return err
}

func (s *Service) mark(
	ctx context.Context,
	op string,
	userID, recipeID int64,
	apply func(ctx context.Context, userID, recipeID int64) error,
) (*Recipe, error) {
	recipe, err := s.GetRecipe(ctx, recipeID, userID)
	if err != nil {
		return nil, err
	}

	if err := apply(ctx, userID, recipeID); err != nil {
		return nil, s.fail(op, err, zap.Int64("user_id", userID), zap.Int64("recipe_id", recipeID))
	}

	return recipe, nil
}

// fail passes domain errors through and wraps anything else as internal.
func (s *Service) fail(op string, err error, fields ...zap.Field) error {
	if apperror.Kind(err) != apperror.ErrInternal {
		return err
	}

	s.logger.Error("catalog operation failed",
		append(fields, zap.String("op", op), zap.Error(err))...,
	)

	if errors.Is(err, apperror.ErrInternal) {
		return err
	}

	return fmt.Errorf("%w: %s: %w", apperror.ErrInternal, op, err)
}
