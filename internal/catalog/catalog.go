// Package catalog manages recipes, their ingredients and the per-user
// favorites and shopping cart collections.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/serroba/foodgram-go/internal/apperror"
	"github.com/serroba/foodgram-go/internal/paging"
)

var (
	ErrRecipeNotFound     = fmt.Errorf("recipe %w", apperror.ErrNotFound)
	ErrIngredientNotFound = fmt.Errorf("ingredient does not exist: %w", apperror.ErrInvalidInput)
	ErrInvalidRecipe      = fmt.Errorf("recipe: %w", apperror.ErrInvalidInput)
	ErrNotAuthor          = fmt.Errorf("only the author may change a recipe: %w", apperror.ErrForbidden)

	ErrAlreadyFavorited = fmt.Errorf("recipe already in favorites: %w", apperror.ErrInvalidInput)
	ErrNotFavorited     = fmt.Errorf("recipe not in favorites: %w", apperror.ErrInvalidInput)
	ErrAlreadyInCart    = fmt.Errorf("recipe already in shopping cart: %w", apperror.ErrInvalidInput)
	ErrNotInCart        = fmt.Errorf("recipe not in shopping cart: %w", apperror.ErrInvalidInput)
)

// Ingredient is a catalog entry recipes refer to.
type Ingredient struct {
	ID              int64
	Name            string
	MeasurementUnit string
}

// RecipeIngredient is an ingredient with the amount a recipe needs.
type RecipeIngredient struct {
	Ingredient
	Amount int64
}

// Recipe is a stored recipe as seen by Viewer.
type Recipe struct {
	ID               int64
	AuthorID         int64
	Name             string
	Text             string
	Image            string
	CookingTime      int
	Ingredients      []RecipeIngredient
	CreatedAt        time.Time
	IsFavorited      bool
	IsInShoppingCart bool
}

// IngredientAmount references a catalog ingredient in a new recipe.
type IngredientAmount struct {
	ID     int64
	Amount int64
}

// NewRecipe is the input for creating or replacing a recipe.
type NewRecipe struct {
	AuthorID    int64
	Name        string
	Text        string
	Image       string
	CookingTime int
	Ingredients []IngredientAmount
}

// Filter narrows a recipe listing. Zero values disable a criterion.
type Filter struct {
	AuthorID    int64
	FavoritedBy int64
	InCartOf    int64
	// Viewer is the user the favorite and cart flags are computed for.
	Viewer int64
	paging.Params
}

// Repository persists recipes and the per-user collections.
type Repository interface {
	// CreateRecipe stores r. It returns ErrIngredientNotFound when an
	// ingredient id is unknown.
	CreateRecipe(ctx context.Context, r *NewRecipe) (*Recipe, error)
	GetRecipe(ctx context.Context, id, viewer int64) (*Recipe, error)
	ListRecipes(ctx context.Context, f Filter) (paging.Page[Recipe], error)
	// UpdateRecipe replaces the fields and ingredients of recipe id. An
	// empty image keeps the stored one.
	UpdateRecipe(ctx context.Context, id int64, r *NewRecipe) (*Recipe, error)
	// DeleteRecipe removes the recipe together with its short link,
	// favorites and cart entries.
	DeleteRecipe(ctx context.Context, id int64) error
	SearchIngredients(ctx context.Context, prefix string) ([]Ingredient, error)

	AddFavorite(ctx context.Context, userID, recipeID int64) error
	RemoveFavorite(ctx context.Context, userID, recipeID int64) error
	AddToCart(ctx context.Context, userID, recipeID int64) error
	RemoveFromCart(ctx context.Context, userID, recipeID int64) error
}
