package handlers

import (
	"time"

	"github.com/serroba/foodgram-go/internal/catalog"
	"github.com/serroba/foodgram-go/internal/users"
	"github.com/serroba/foodgram-go/internal/workouts"
)

// IDRequest addresses a resource by its numeric id.
type IDRequest struct {
	ID int64 `doc:"Resource id" example:"42" path:"id"`
}

// RedirectRequest is the request for resolving a short code.
type RedirectRequest struct {
	Code string `doc:"The short code" example:"kw4nXfUH" path:"code"`
}

// RedirectResponse sends the client to the canonical resource URL.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"Canonical resource URL" header:"Location"`
	}
}

// ShortLinkResponse carries the public short URL of a resource.
type ShortLinkResponse struct {
	Body struct {
		ShortLink string `doc:"The full short URL" example:"http://localhost:8888/a/r/kw4nXfUH" json:"short-link"`
	}
}

// DownloadResponse is a file attachment.
type DownloadResponse struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

// PageRequest selects a window of a listing.
type PageRequest struct {
	Limit  int `doc:"Page size" minimum:"0" query:"limit"`
	Offset int `doc:"Number of items to skip" minimum:"0" query:"offset"`
}

// ListRequest holds the pagination and filters shared by list endpoints.
type ListRequest struct {
	PageRequest
	Author      int64 `doc:"Only items by this author" query:"author"`
	IsFavorited bool  `doc:"Only items the caller favorited" query:"is_favorited"`
}

// SearchRequest is a name prefix lookup.
type SearchRequest struct {
	Name string `doc:"Name prefix" example:"fl" query:"name"`
}

// IngredientBody is a catalog ingredient.
type IngredientBody struct {
	ID              int64  `example:"1" json:"id"`
	Name            string `example:"Flour" json:"name"`
	MeasurementUnit string `example:"g" json:"measurement_unit"`
}

// RecipeIngredientBody is an ingredient with the amount a recipe needs.
type RecipeIngredientBody struct {
	IngredientBody
	Amount int64 `example:"200" json:"amount"`
}

// RecipeBody is a recipe as seen by the caller.
type RecipeBody struct {
	ID               int64                  `json:"id"`
	Author           int64                  `doc:"Author user id" json:"author"`
	Name             string                 `json:"name"`
	Text             string                 `json:"text"`
	Image            string                 `json:"image,omitempty"`
	CookingTime      int                    `doc:"Minutes" json:"cooking_time"`
	Ingredients      []RecipeIngredientBody `json:"ingredients"`
	IsFavorited      bool                   `json:"is_favorited"`
	IsInShoppingCart bool                   `json:"is_in_shopping_cart"`
	CreatedAt        time.Time              `json:"created_at"`
}

// RecipeSummaryBody is the short form returned by favorite and cart endpoints.
type RecipeSummaryBody struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image,omitempty"`
	CookingTime int    `json:"cooking_time"`
}

// RecipeResponse carries a single recipe.
type RecipeResponse struct {
	Body RecipeBody
}

// RecipeSummaryResponse carries the short form of a recipe.
type RecipeSummaryResponse struct {
	Body RecipeSummaryBody
}

// RecipeListRequest adds the shopping cart filter to ListRequest.
type RecipeListRequest struct {
	ListRequest
	IsInShoppingCart bool `doc:"Only recipes in the caller's shopping cart" query:"is_in_shopping_cart"`
}

// RecipeListResponse is one page of recipes.
type RecipeListResponse struct {
	Body struct {
		Count   int          `doc:"Total matches" json:"count"`
		Results []RecipeBody `json:"results"`
	}
}

// IngredientAmountInput references a catalog ingredient in a recipe body.
type IngredientAmountInput struct {
	ID     int64 `json:"id" minimum:"1"`
	Amount int64 `json:"amount" minimum:"1"`
}

// RecipeInput is the body of recipe create and update calls. An update
// without an image keeps the current one.
type RecipeInput struct {
	Name        string                  `json:"name" maxLength:"128" minLength:"1"`
	Text        string                  `json:"text" minLength:"1"`
	Image       string                  `doc:"data:image/<format>;base64,<payload>" json:"image,omitempty"`
	CookingTime int                     `doc:"Minutes" json:"cooking_time" minimum:"1"`
	Ingredients []IngredientAmountInput `json:"ingredients" minItems:"1"`
}

// CreateRecipeRequest is the request for publishing a recipe.
type CreateRecipeRequest struct {
	Body RecipeInput
}

// UpdateRecipeRequest replaces the recipe addressed by ID.
type UpdateRecipeRequest struct {
	ID   int64 `doc:"Recipe id" path:"id"`
	Body RecipeInput
}

// IngredientListResponse lists ingredient search matches.
type IngredientListResponse struct {
	Body []IngredientBody
}

// ExerciseBody is a catalog exercise.
type ExerciseBody struct {
	ID          int64  `json:"id"`
	Name        string `example:"Squat" json:"name"`
	MuscleGroup string `example:"legs" json:"muscle_group"`
	Description string `json:"description,omitempty"`
	Difficulty  string `enum:"beginner,intermediate,advanced" json:"difficulty"`
}

// PlanExerciseBody is an exercise with the volume a plan prescribes.
type PlanExerciseBody struct {
	ExerciseBody
	Sets int `json:"sets"`
	Reps int `json:"reps"`
}

// PlanBody is a workout plan as seen by the caller.
type PlanBody struct {
	ID          int64              `json:"id"`
	Author      int64              `doc:"Author user id" json:"author"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Image       string             `json:"image,omitempty"`
	Duration    int                `doc:"Minutes" json:"duration"`
	Exercises   []PlanExerciseBody `json:"exercises"`
	IsFavorited bool               `json:"is_favorited"`
	CreatedAt   time.Time          `json:"created_at"`
}

// PlanResponse carries a single workout plan.
type PlanResponse struct {
	Body PlanBody
}

// PlanListResponse is one page of workout plans.
type PlanListResponse struct {
	Body struct {
		Count   int        `doc:"Total matches" json:"count"`
		Results []PlanBody `json:"results"`
	}
}

// ExerciseVolumeInput references a catalog exercise in a plan body.
type ExerciseVolumeInput struct {
	ID   int64 `json:"id" minimum:"1"`
	Sets int   `json:"sets" minimum:"1"`
	Reps int   `json:"reps" minimum:"1"`
}

// PlanInput is the body of plan create and update calls.
type PlanInput struct {
	Name        string                `json:"name" maxLength:"128" minLength:"1"`
	Description string                `json:"description"`
	Image       string                `doc:"data:image/<format>;base64,<payload>" json:"image,omitempty"`
	Duration    int                   `doc:"Minutes" json:"duration" minimum:"1"`
	Exercises   []ExerciseVolumeInput `json:"exercises" minItems:"1"`
}

// CreatePlanRequest is the request for publishing a workout plan.
type CreatePlanRequest struct {
	Body PlanInput
}

// UpdatePlanRequest replaces the plan addressed by ID.
type UpdatePlanRequest struct {
	ID   int64 `doc:"Workout plan id" path:"id"`
	Body PlanInput
}

// ExerciseListResponse lists exercise search matches.
type ExerciseListResponse struct {
	Body []ExerciseBody
}

// UserBody is the public profile of an account.
type UserBody struct {
	ID        int64  `json:"id"`
	Username  string `example:"cook" json:"username"`
	Email     string `example:"cook@example.com" json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar,omitempty"`
}

// SubscriptionBody is a followed author with the size of their catalog.
type SubscriptionBody struct {
	UserBody
	RecipesCount int `json:"recipes_count"`
}

// UserResponse carries a single user.
type UserResponse struct {
	Body UserBody
}

// UserListRequest pages through registered users.
type UserListRequest struct {
	PageRequest
}

// UserListResponse is one page of users.
type UserListResponse struct {
	Body struct {
		Count   int        `doc:"Total users" json:"count"`
		Results []UserBody `json:"results"`
	}
}

// SubscriptionListResponse lists the authors the caller follows.
type SubscriptionListResponse struct {
	Body []SubscriptionBody
}

// RegisterRequest is the request for creating an account.
type RegisterRequest struct {
	Body struct {
		Username  string `example:"cook" json:"username" maxLength:"150" minLength:"1" pattern:"^[\\w.@+-]+$"`
		Email     string `example:"cook@example.com" format:"email" json:"email" maxLength:"254"`
		FirstName string `json:"first_name" maxLength:"150" minLength:"1"`
		LastName  string `json:"last_name" maxLength:"150" minLength:"1"`
	}
}

// AvatarRequest uploads a new avatar for the caller.
type AvatarRequest struct {
	Body struct {
		Avatar string `doc:"data:image/<format>;base64,<payload>" json:"avatar"`
	}
}

// AvatarResponse echoes the stored avatar.
type AvatarResponse struct {
	Body struct {
		Avatar string `json:"avatar"`
	}
}

func newRecipeBody(r *catalog.Recipe) RecipeBody {
	ingredients := make([]RecipeIngredientBody, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		ingredients[i] = RecipeIngredientBody{IngredientBody: newIngredientBody(ing.Ingredient), Amount: ing.Amount}
	}

	return RecipeBody{
		ID:               r.ID,
		Author:           r.AuthorID,
		Name:             r.Name,
		Text:             r.Text,
		Image:            r.Image,
		CookingTime:      r.CookingTime,
		Ingredients:      ingredients,
		IsFavorited:      r.IsFavorited,
		IsInShoppingCart: r.IsInShoppingCart,
		CreatedAt:        r.CreatedAt,
	}
}

func newRecipeSummary(r *catalog.Recipe) RecipeSummaryBody {
	return RecipeSummaryBody{ID: r.ID, Name: r.Name, Image: r.Image, CookingTime: r.CookingTime}
}

func newIngredientBody(i catalog.Ingredient) IngredientBody {
	return IngredientBody{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

func newExerciseBody(e workouts.Exercise) ExerciseBody {
	return ExerciseBody{
		ID:          e.ID,
		Name:        e.Name,
		MuscleGroup: e.MuscleGroup,
		Description: e.Description,
		Difficulty:  string(e.Difficulty),
	}
}

func newPlanBody(p *workouts.Plan) PlanBody {
	exercises := make([]PlanExerciseBody, len(p.Exercises))
	for i, ex := range p.Exercises {
		exercises[i] = PlanExerciseBody{ExerciseBody: newExerciseBody(ex.Exercise), Sets: ex.Sets, Reps: ex.Reps}
	}

	return PlanBody{
		ID:          p.ID,
		Author:      p.AuthorID,
		Name:        p.Name,
		Description: p.Description,
		Image:       p.Image,
		Duration:    p.Duration,
		Exercises:   exercises,
		IsFavorited: p.IsFavorited,
		CreatedAt:   p.CreatedAt,
	}
}

func newUserBody(u *users.User) UserBody {
	return UserBody{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Avatar:    u.Avatar,
	}
}
