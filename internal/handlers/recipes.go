package handlers

import (
	"context"

	"github.com/serroba/foodgram-go/internal/catalog"
	"github.com/serroba/foodgram-go/internal/paging"
)

// RecipeHandler exposes the recipe catalog.
type RecipeHandler struct {
	svc *catalog.Service
}

// NewRecipeHandler creates a new recipe handler.
func NewRecipeHandler(svc *catalog.Service) *RecipeHandler {
	return &RecipeHandler{svc: svc}
}

func (h *RecipeHandler) List(ctx context.Context, req *RecipeListRequest) (*RecipeListResponse, error) {
	viewer := Viewer(ctx)
	resp := &RecipeListResponse{}
	resp.Body.Results = []RecipeBody{}

	// Personal filters match nothing for anonymous callers.
	if viewer == 0 && (req.IsFavorited || req.IsInShoppingCart) {
		return resp, nil
	}

	f := catalog.Filter{
		AuthorID: req.Author,
		Viewer:   viewer,
		Params:   paging.Params{Limit: req.Limit, Offset: req.Offset},
	}

	if req.IsFavorited {
		f.FavoritedBy = viewer
	}

	if req.IsInShoppingCart {
		f.InCartOf = viewer
	}

	page, err := h.svc.ListRecipes(ctx, f)
	if err != nil {
		return nil, httpError(err)
	}

	resp.Body.Count = page.Count
	for i := range page.Items {
		resp.Body.Results = append(resp.Body.Results, newRecipeBody(&page.Items[i]))
	}

	return resp, nil
}

func (h *RecipeHandler) Create(ctx context.Context, req *CreateRecipeRequest) (*RecipeResponse, error) {
	userID, err := RequireUser(ctx)
	if err != nil {
		return nil, httpError(err)
	}

	recipe, err := h.svc.CreateRecipe(ctx, newRecipeInput(userID, &req.Body))
	if err != nil {
		return nil, httpError(err)
	}

	return &RecipeResponse{Body: newRecipeBody(recipe)}, nil
}

// Update replaces a recipe; only its author may call it.
func (h *RecipeHandler) Update(ctx context.Context, req *UpdateRecipeRequest) (*RecipeResponse, error) {
	userID, err := RequireUser(ctx)
	if err != nil {
		return nil, httpError(err)
	}

	recipe, err := h.svc.UpdateRecipe(ctx, userID, req.ID, newRecipeInput(userID, &req.Body))
	if err != nil {
		return nil, httpError(err)
	}

	return &RecipeResponse{Body: newRecipeBody(recipe)}, nil
}

func (h *RecipeHandler) Get(ctx context.Context, req *IDRequest) (*RecipeResponse, error) {
	recipe, err := h.svc.GetRecipe(ctx, req.ID, Viewer(ctx))
	if err != nil {
		return nil, httpError(err)
	}

	return &RecipeResponse{Body: newRecipeBody(recipe)}, nil
}

func (h *RecipeHandler) Delete(ctx context.Context, req *IDRequest) (*struct{}, error) {
	userID, err := RequireUser(ctx)
	if err != nil {
		return nil, httpError(err)
	}

	if err := h.svc.DeleteRecipe(ctx, userID, req.ID); err != nil {
		return nil, httpError(err)
	}

	return nil, nil
}

func (h *RecipeHandler) AddFavorite(ctx context.Context, req *IDRequest) (*RecipeSummaryResponse, error) {
	return h.mark(ctx, req.ID, h.svc.AddFavorite)
}

func (h *RecipeHandler) RemoveFavorite(ctx context.Context, req *IDRequest) (*struct{}, error) {
	return h.unmark(ctx, req.ID, h.svc.RemoveFavorite)
}

func (h *RecipeHandler) AddToCart(ctx context.Context, req *IDRequest) (*RecipeSummaryResponse, error) {
	return h.mark(ctx, req.ID, h.svc.AddToCart)
}

func (h *RecipeHandler) RemoveFromCart(ctx context.Context, req *IDRequest) (*struct{}, error) {
	return h.unmark(ctx, req.ID, h.svc.RemoveFromCart)
}

func (h *RecipeHandler) Ingredients(ctx context.Context, req *SearchRequest) (*IngredientListResponse, error) {
	ingredients, err := h.svc.SearchIngredients(ctx, req.Name)
	if err != nil {
		return nil, httpError(err)
	}

	resp := &IngredientListResponse{Body: make([]IngredientBody, len(ingredients))}
	for i, ing := range ingredients {
		resp.Body[i] = newIngredientBody(ing)
	}

	return resp, nil
}

func (h *RecipeHandler) mark(
	ctx context.Context,
	recipeID int64,
	add func(ctx context.Context, userID, recipeID int64) (*catalog.Recipe, error),
) (*RecipeSummaryResponse, error) {
	userID, err := RequireUser(ctx)
	if err != nil {
		return nil, httpError(err)
	}

	recipe, err := add(ctx, userID, recipeID)
	if err != nil {
		return nil, httpError(err)
	}

	return &RecipeSummaryResponse{Body: newRecipeSummary(recipe)}, nil
}

func (h *RecipeHandler) unmark(
	ctx context.Context,
	recipeID int64,
	remove func(ctx context.Context, userID, recipeID int64) error,
) (*struct{}, error) {
	userID, err := RequireUser(ctx)
	if err != nil {
		return nil, httpError(err)
	}

	if err := remove(ctx, userID, recipeID); err != nil {
		return nil, httpError(err)
	}

	return nil, nil
}

func newRecipeInput(userID int64, body *RecipeInput) *catalog.NewRecipe {
	in := &catalog.NewRecipe{
		AuthorID:    userID,
		Name:        body.Name,
		Text:        body.Text,
		Image:       body.Image,
		CookingTime: body.CookingTime,
		Ingredients: make([]catalog.IngredientAmount, len(body.Ingredients)),
	}

	for i, ing := range body.Ingredients {
		in.Ingredients[i] = catalog.IngredientAmount{ID: ing.ID, Amount: ing.Amount}
	}

	return in
}
