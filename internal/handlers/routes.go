package handlers

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/foodgram-go/internal/ratelimit"
	"github.com/serroba/foodgram-go/internal/shortlink"
)

// Handlers bundles every operation handler served by the API.
type Handlers struct {
	Links    *LinkHandler
	Shopping *ShoppingHandler
	Recipes  *RecipeHandler
	Workouts *WorkoutHandler
	Users    *UserHandler
}

func scoped(scope ratelimit.Scope) map[string]any {
	return map[string]any{ratelimit.MetadataKey: ratelimit.EndpointConfig{Scope: scope}}
}

// linkLimits caps get-link calls, which may write a new short link.
var linkLimits = map[string]any{
	ratelimit.MetadataKey: ratelimit.EndpointConfig{
		Limits: []ratelimit.LimitConfig{
			{Window: time.Minute, Max: 30},
			{Window: time.Hour, Max: 300},
		},
	},
}

// RegisterRoutes registers every route with its rate limit configuration.
func RegisterRoutes(api huma.API, h *Handlers) {
	registerLinkRoutes(api, h.Links)
	registerRecipeRoutes(api, h.Recipes, h.Shopping)
	registerWorkoutRoutes(api, h.Workouts)
	registerUserRoutes(api, h.Users)
}

func registerLinkRoutes(api huma.API, h *LinkHandler) {
	for _, kind := range shortlink.Kinds {
		collection := "/api/recipes"
		tag := "Recipes"

		if kind == shortlink.KindWorkoutPlan {
			collection = "/api/workout-plans"
			tag = "Workout plans"
		}

		// get-link is served on both GET and POST.
		for _, method := range []string{http.MethodGet, http.MethodPost} {
			huma.Register(api, huma.Operation{
				OperationID: "get-link-" + string(kind) + "-" + method,
				Method:      method,
				Path:        collection + "/{id}/get-link",
				Summary:     "Get short link",
				Description: "Returns the short link of the resource, creating it on first use.",
				Tags:        []string{tag},
				Metadata:    linkLimits,
			}, h.GetLink(kind))
		}

		huma.Register(api, huma.Operation{
			OperationID: "redirect-" + string(kind),
			Method:      http.MethodGet,
			Path:        RedirectPrefix + "/" + kind.Segment() + "/{code}",
			Summary:     "Follow short link",
			Description: "Redirects to the canonical URL of the resource behind the short code.",
			Tags:        []string{"Short links"},
			Metadata:    scoped(ratelimit.ScopeRedirect),
			Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
		}, h.Redirect(kind))
	}
}

func registerRecipeRoutes(api huma.API, h *RecipeHandler, shopping *ShoppingHandler) {
	tags := []string{"Recipes"}

	huma.Register(api, huma.Operation{
		OperationID: "download-shopping-cart",
		Method:      http.MethodGet,
		Path:        "/api/recipes/download-shopping-cart",
		Summary:     "Download shopping list",
		Description: "Aggregates the ingredients of every recipe in the caller's cart into a text file.",
		Tags:        tags,
		Metadata:    scoped(ratelimit.ScopeExport),
		Errors:      []int{http.StatusBadRequest, http.StatusUnauthorized},
	}, shopping.Download)

	huma.Register(api, huma.Operation{
		OperationID: "list-recipes", Method: http.MethodGet, Path: "/api/recipes",
		Summary: "List recipes", Tags: tags,
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "create-recipe", Method: http.MethodPost, Path: "/api/recipes",
		Summary: "Create recipe", Tags: tags, DefaultStatus: http.StatusCreated,
	}, h.Create)

	huma.Register(api, huma.Operation{
		OperationID: "get-recipe", Method: http.MethodGet, Path: "/api/recipes/{id}",
		Summary: "Get recipe", Tags: tags,
	}, h.Get)

	huma.Register(api, huma.Operation{
		OperationID: "update-recipe", Method: http.MethodPatch, Path: "/api/recipes/{id}",
		Summary: "Update recipe", Description: "Replaces the recipe; only its author may do so.", Tags: tags,
	}, h.Update)

	huma.Register(api, huma.Operation{
		OperationID: "delete-recipe", Method: http.MethodDelete, Path: "/api/recipes/{id}",
		Summary: "Delete recipe", Tags: tags, DefaultStatus: http.StatusNoContent,
	}, h.Delete)

	huma.Register(api, huma.Operation{
		OperationID: "favorite-recipe", Method: http.MethodPost, Path: "/api/recipes/{id}/favorite",
		Summary: "Add recipe to favorites", Tags: tags, DefaultStatus: http.StatusCreated,
	}, h.AddFavorite)

	huma.Register(api, huma.Operation{
		OperationID: "unfavorite-recipe", Method: http.MethodDelete, Path: "/api/recipes/{id}/favorite",
		Summary: "Remove recipe from favorites", Tags: tags, DefaultStatus: http.StatusNoContent,
	}, h.RemoveFavorite)

	huma.Register(api, huma.Operation{
		OperationID: "add-to-cart", Method: http.MethodPost, Path: "/api/recipes/{id}/shopping_cart",
		Summary: "Add recipe to shopping cart", Tags: tags, DefaultStatus: http.StatusCreated,
	}, h.AddToCart)

	huma.Register(api, huma.Operation{
		OperationID: "remove-from-cart", Method: http.MethodDelete, Path: "/api/recipes/{id}/shopping_cart",
		Summary: "Remove recipe from shopping cart", Tags: tags, DefaultStatus: http.StatusNoContent,
	}, h.RemoveFromCart)

	huma.Register(api, huma.Operation{
		OperationID: "search-ingredients", Method: http.MethodGet, Path: "/api/ingredients",
		Summary: "Search ingredients", Tags: []string{"Ingredients"},
	}, h.Ingredients)
}

func registerWorkoutRoutes(api huma.API, h *WorkoutHandler) {
	tags := []string{"Workout plans"}

	huma.Register(api, huma.Operation{
		OperationID: "list-plans", Method: http.MethodGet, Path: "/api/workout-plans",
		Summary: "List workout plans", Tags: tags,
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "create-plan", Method: http.MethodPost, Path: "/api/workout-plans",
		Summary: "Create workout plan", Tags: tags, DefaultStatus: http.StatusCreated,
	}, h.Create)

	huma.Register(api, huma.Operation{
		OperationID: "get-plan", Method: http.MethodGet, Path: "/api/workout-plans/{id}",
		Summary: "Get workout plan", Tags: tags,
	}, h.Get)

	huma.Register(api, huma.Operation{
		OperationID: "update-plan", Method: http.MethodPatch, Path: "/api/workout-plans/{id}",
		Summary: "Update workout plan", Description: "Replaces the plan; only its author may do so.", Tags: tags,
	}, h.Update)

	huma.Register(api, huma.Operation{
		OperationID: "delete-plan", Method: http.MethodDelete, Path: "/api/workout-plans/{id}",
		Summary: "Delete workout plan", Tags: tags, DefaultStatus: http.StatusNoContent,
	}, h.Delete)

	huma.Register(api, huma.Operation{
		OperationID: "favorite-plan", Method: http.MethodPost, Path: "/api/workout-plans/{id}/favorite",
		Summary: "Add workout plan to favorites", Tags: tags, DefaultStatus: http.StatusCreated,
	}, h.AddFavorite)

	huma.Register(api, huma.Operation{
		OperationID: "unfavorite-plan", Method: http.MethodDelete, Path: "/api/workout-plans/{id}/favorite",
		Summary: "Remove workout plan from favorites", Tags: tags, DefaultStatus: http.StatusNoContent,
	}, h.RemoveFavorite)

	huma.Register(api, huma.Operation{
		OperationID: "search-exercises", Method: http.MethodGet, Path: "/api/exercises",
		Summary: "Search exercises", Tags: []string{"Exercises"},
	}, h.Exercises)
}

func registerUserRoutes(api huma.API, h *UserHandler) {
	tags := []string{"Users"}

	huma.Register(api, huma.Operation{
		OperationID: "register-user", Method: http.MethodPost, Path: "/api/users",
		Summary: "Register user", Tags: tags, DefaultStatus: http.StatusCreated,
	}, h.Register)

	huma.Register(api, huma.Operation{
		OperationID: "list-users", Method: http.MethodGet, Path: "/api/users",
		Summary: "List users", Tags: tags,
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "get-me", Method: http.MethodGet, Path: "/api/users/me",
		Summary: "Get current user", Tags: tags,
	}, h.Me)

	huma.Register(api, huma.Operation{
		OperationID: "set-avatar", Method: http.MethodPut, Path: "/api/users/me/avatar",
		Summary: "Set avatar", Tags: tags,
	}, h.SetAvatar)

	huma.Register(api, huma.Operation{
		OperationID: "delete-avatar", Method: http.MethodDelete, Path: "/api/users/me/avatar",
		Summary: "Delete avatar", Tags: tags, DefaultStatus: http.StatusNoContent,
	}, h.ClearAvatar)

	huma.Register(api, huma.Operation{
		OperationID: "list-subscriptions", Method: http.MethodGet, Path: "/api/users/subscriptions",
		Summary: "List followed authors", Tags: tags,
	}, h.Subscriptions)

	huma.Register(api, huma.Operation{
		OperationID: "get-user", Method: http.MethodGet, Path: "/api/users/{id}",
		Summary: "Get user", Tags: tags,
	}, h.Get)

	huma.Register(api, huma.Operation{
		OperationID: "subscribe", Method: http.MethodPost, Path: "/api/users/{id}/subscribe",
		Summary: "Follow author", Tags: tags, DefaultStatus: http.StatusCreated,
	}, h.Subscribe)

	huma.Register(api, huma.Operation{
		OperationID: "unsubscribe", Method: http.MethodDelete, Path: "/api/users/{id}/subscribe",
		Summary: "Unfollow author", Tags: tags, DefaultStatus: http.StatusNoContent,
	}, h.Unsubscribe)
}
