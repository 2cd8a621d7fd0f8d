package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/serroba/foodgram-go/internal/apperror"
	"github.com/serroba/foodgram-go/internal/catalog"
	"github.com/serroba/foodgram-go/internal/media"
	"github.com/serroba/foodgram-go/internal/paging"
	"github.com/serroba/foodgram-go/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errMock = errors.New("mock error")

const (
	alice int64 = 1
	bob   int64 = 2
)

// brokenRepository fails every call.
type brokenRepository struct {
	catalog.Repository
}

func (brokenRepository) GetRecipe(context.Context, int64, int64) (*catalog.Recipe, error) {
	return nil, errMock
}

func (brokenRepository) ListRecipes(context.Context, catalog.Filter) (paging.Page[catalog.Recipe], error) {
	return paging.Page[catalog.Recipe]{}, errMock
}

func newService(t *testing.T) (*catalog.Service, *store.CatalogMemoryStore) {
	t.Helper()

	repo := store.NewCatalogMemoryStore(nil)
	repo.AddIngredient(catalog.Ingredient{ID: 1, Name: "Flour", MeasurementUnit: "g"})
	repo.AddIngredient(catalog.Ingredient{ID: 2, Name: "Sugar", MeasurementUnit: "g"})
	repo.AddIngredient(catalog.Ingredient{ID: 3, Name: "Milk", MeasurementUnit: "ml"})

	return catalog.NewService(repo, zap.NewNop()), repo
}

func pancakes(author int64) *catalog.NewRecipe {
	return &catalog.NewRecipe{
		AuthorID:    author,
		Name:        "Pancakes",
		Text:        "Mix and fry.",
		CookingTime: 20,
		Ingredients: []catalog.IngredientAmount{{ID: 1, Amount: 200}, {ID: 3, Amount: 300}},
	}
}

func TestService_CreateRecipe(t *testing.T) {
	t.Run("stores the recipe with its ingredients", func(t *testing.T) {
		svc, _ := newService(t)

		recipe, err := svc.CreateRecipe(context.Background(), pancakes(alice))

		require.NoError(t, err)
		assert.NotZero(t, recipe.ID)
		assert.Equal(t, alice, recipe.AuthorID)
		require.Len(t, recipe.Ingredients, 2)
		assert.Equal(t, "Flour", recipe.Ingredients[0].Name)
		assert.Equal(t, int64(200), recipe.Ingredients[0].Amount)
	})

	tests := []struct {
		name   string
		mutate func(r *catalog.NewRecipe)
	}{
		{"empty name", func(r *catalog.NewRecipe) { r.Name = "  " }},
		{"empty text", func(r *catalog.NewRecipe) { r.Text = "" }},
		{"zero cooking time", func(r *catalog.NewRecipe) { r.CookingTime = 0 }},
		{"no ingredients", func(r *catalog.NewRecipe) { r.Ingredients = nil }},
		{"zero amount", func(r *catalog.NewRecipe) { r.Ingredients[0].Amount = 0 }},
		{"duplicate ingredient", func(r *catalog.NewRecipe) { r.Ingredients[1].ID = r.Ingredients[0].ID }},
		{"unknown ingredient", func(r *catalog.NewRecipe) { r.Ingredients[0].ID = 99 }},
		{"bad image", func(r *catalog.NewRecipe) { r.Image = "data:image/bmp;base64,AAAA" }},
	}

	for _, tt := range tests {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			svc, _ := newService(t)
			r := pancakes(alice)
			tt.mutate(r)

			recipe, err := svc.CreateRecipe(context.Background(), r)

			assert.Nil(t, recipe)
			assert.ErrorIs(t, err, apperror.ErrInvalidInput)
		})
	}

	t.Run("image errors keep their cause", func(t *testing.T) {
		svc, _ := newService(t)
		r := pancakes(alice)
		r.Image = "data:image/tiff;base64,AAAA"

		_, err := svc.CreateRecipe(context.Background(), r)

		assert.ErrorIs(t, err, media.ErrImageFormat)
	})
}

func TestService_DeleteRecipe(t *testing.T) {
	t.Run("author deletes the recipe", func(t *testing.T) {
		svc, _ := newService(t)
		recipe, err := svc.CreateRecipe(context.Background(), pancakes(alice))
		require.NoError(t, err)

		require.NoError(t, svc.DeleteRecipe(context.Background(), alice, recipe.ID))

		_, err = svc.GetRecipe(context.Background(), recipe.ID, alice)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("other users are forbidden", func(t *testing.T) {
		svc, _ := newService(t)
		recipe, err := svc.CreateRecipe(context.Background(), pancakes(alice))
		require.NoError(t, err)

		err = svc.DeleteRecipe(context.Background(), bob, recipe.ID)

		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("missing recipe is not found", func(t *testing.T) {
		svc, _ := newService(t)

		err := svc.DeleteRecipe(context.Background(), alice, 404)

		assert.ErrorIs(t, err, catalog.ErrRecipeNotFound)
	})
}

func TestService_UpdateRecipe(t *testing.T) {
	t.Run("author replaces the recipe", func(t *testing.T) {
		svc, _ := newService(t)
		recipe, err := svc.CreateRecipe(context.Background(), pancakes(alice))
		require.NoError(t, err)

		change := pancakes(0)
		change.Name = "  Crepes "
		change.Ingredients = []catalog.IngredientAmount{{ID: 2, Amount: 10}}

		updated, err := svc.UpdateRecipe(context.Background(), alice, recipe.ID, change)

		require.NoError(t, err)
		assert.Equal(t, "Crepes", updated.Name)
		assert.Equal(t, alice, updated.AuthorID)
		require.Len(t, updated.Ingredients, 1)
		assert.Equal(t, "Sugar", updated.Ingredients[0].Name)
	})

	t.Run("other users are forbidden", func(t *testing.T) {
		svc, _ := newService(t)
		recipe, err := svc.CreateRecipe(context.Background(), pancakes(alice))
		require.NoError(t, err)

		_, err = svc.UpdateRecipe(context.Background(), bob, recipe.ID, pancakes(bob))

		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("invalid input is rejected before lookup", func(t *testing.T) {
		svc, _ := newService(t)
		change := pancakes(alice)
		change.CookingTime = 0

		_, err := svc.UpdateRecipe(context.Background(), alice, 404, change)

		assert.ErrorIs(t, err, catalog.ErrInvalidRecipe)
	})

	t.Run("missing recipe is not found", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.UpdateRecipe(context.Background(), alice, 404, pancakes(alice))

		assert.ErrorIs(t, err, catalog.ErrRecipeNotFound)
	})
}

func TestService_Favorites(t *testing.T) {
	svc, _ := newService(t)
	recipe, err := svc.CreateRecipe(context.Background(), pancakes(alice))
	require.NoError(t, err)

	t.Run("adds a favorite", func(t *testing.T) {
		added, err := svc.AddFavorite(context.Background(), bob, recipe.ID)

		require.NoError(t, err)
		assert.Equal(t, recipe.ID, added.ID)

		viewed, err := svc.GetRecipe(context.Background(), recipe.ID, bob)
		require.NoError(t, err)
		assert.True(t, viewed.IsFavorited)
	})

	t.Run("rejects a duplicate favorite", func(t *testing.T) {
		_, err := svc.AddFavorite(context.Background(), bob, recipe.ID)

		assert.ErrorIs(t, err, catalog.ErrAlreadyFavorited)
	})

	t.Run("removes a favorite", func(t *testing.T) {
		require.NoError(t, svc.RemoveFavorite(context.Background(), bob, recipe.ID))

		err := svc.RemoveFavorite(context.Background(), bob, recipe.ID)
		assert.ErrorIs(t, err, catalog.ErrNotFavorited)
	})

	t.Run("unknown recipe is not found", func(t *testing.T) {
		_, err := svc.AddFavorite(context.Background(), bob, 404)

		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestService_Cart(t *testing.T) {
	svc, repo := newService(t)
	first, err := svc.CreateRecipe(context.Background(), pancakes(alice))
	require.NoError(t, err)

	second, err := svc.CreateRecipe(context.Background(), &catalog.NewRecipe{
		AuthorID:    alice,
		Name:        "Cookies",
		Text:        "Bake.",
		CookingTime: 15,
		Ingredients: []catalog.IngredientAmount{{ID: 1, Amount: 150}, {ID: 2, Amount: 50}},
	})
	require.NoError(t, err)

	_, err = svc.AddToCart(context.Background(), bob, first.ID)
	require.NoError(t, err)
	_, err = svc.AddToCart(context.Background(), bob, second.ID)
	require.NoError(t, err)

	t.Run("rejects duplicates", func(t *testing.T) {
		_, err := svc.AddToCart(context.Background(), bob, first.ID)

		assert.ErrorIs(t, err, catalog.ErrAlreadyInCart)
	})

	t.Run("cart items list every ingredient row", func(t *testing.T) {
		items, err := repo.CartItems(context.Background(), bob)

		require.NoError(t, err)
		assert.Len(t, items, 4)
	})

	t.Run("removing twice fails", func(t *testing.T) {
		require.NoError(t, svc.RemoveFromCart(context.Background(), bob, second.ID))

		err := svc.RemoveFromCart(context.Background(), bob, second.ID)
		assert.ErrorIs(t, err, catalog.ErrNotInCart)
	})
}

func TestService_ListRecipes(t *testing.T) {
	svc, _ := newService(t)

	for range 3 {
		_, err := svc.CreateRecipe(context.Background(), pancakes(alice))
		require.NoError(t, err)
	}

	own, err := svc.CreateRecipe(context.Background(), pancakes(bob))
	require.NoError(t, err)

	t.Run("filters by author", func(t *testing.T) {
		page, err := svc.ListRecipes(context.Background(), catalog.Filter{AuthorID: bob})

		require.NoError(t, err)
		assert.Equal(t, 1, page.Count)
		assert.Equal(t, own.ID, page.Items[0].ID)
	})

	t.Run("paginates newest first", func(t *testing.T) {
		page, err := svc.ListRecipes(context.Background(), catalog.Filter{Params: paging.Params{Limit: 2}})

		require.NoError(t, err)
		assert.Equal(t, 4, page.Count)
		require.Len(t, page.Items, 2)
		assert.Equal(t, own.ID, page.Items[0].ID)
	})

	t.Run("filters by favorites", func(t *testing.T) {
		_, err := svc.AddFavorite(context.Background(), alice, own.ID)
		require.NoError(t, err)

		page, err := svc.ListRecipes(context.Background(), catalog.Filter{FavoritedBy: alice, Viewer: alice})

		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.True(t, page.Items[0].IsFavorited)
	})

	t.Run("repository failures are internal", func(t *testing.T) {
		broken := catalog.NewService(brokenRepository{}, zap.NewNop())

		_, err := broken.ListRecipes(context.Background(), catalog.Filter{})

		require.ErrorIs(t, err, apperror.ErrInternal)
		assert.ErrorIs(t, err, errMock)
	})
}

func TestService_SearchIngredients(t *testing.T) {
	svc, _ := newService(t)

	found, err := svc.SearchIngredients(context.Background(), "fl")

	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Flour", found[0].Name)
}
