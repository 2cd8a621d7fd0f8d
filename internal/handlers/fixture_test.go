package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/serroba/foodgram-go/internal/analytics"
	"github.com/serroba/foodgram-go/internal/cache"
	"github.com/serroba/foodgram-go/internal/catalog"
	"github.com/serroba/foodgram-go/internal/handlers"
	"github.com/serroba/foodgram-go/internal/middleware"
	"github.com/serroba/foodgram-go/internal/redirect"
	"github.com/serroba/foodgram-go/internal/shopping"
	"github.com/serroba/foodgram-go/internal/shortlink"
	"github.com/serroba/foodgram-go/internal/store"
	"github.com/serroba/foodgram-go/internal/users"
	"github.com/serroba/foodgram-go/internal/workouts"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testBaseURL = "http://localhost:8888"

// recorder captures published analytics events.
type recorder struct {
	mu       sync.Mutex
	created  []analytics.LinkCreatedEvent
	resolved []analytics.LinkResolvedEvent
	exported []analytics.ShoppingListExportedEvent
}

func (r *recorder) linkCreated(_ context.Context, e *analytics.LinkCreatedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.created = append(r.created, *e)

	return nil
}

func (r *recorder) linkResolved(_ context.Context, e *analytics.LinkResolvedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.resolved = append(r.resolved, *e)

	return nil
}

func (r *recorder) exportedList(_ context.Context, e *analytics.ShoppingListExportedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.exported = append(r.exported, *e)

	return nil
}

type fixture struct {
	router  *chi.Mux
	links   *store.MemoryStore
	recipes *store.CatalogMemoryStore
	plans   *store.WorkoutMemoryStore
	events  *recorder
	linker  *shortlink.Linker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	handlers.UseErrorBody()

	logger := zap.NewNop()
	links := store.NewMemoryStore()
	recipes := store.NewCatalogMemoryStore(links)
	plans := store.NewWorkoutMemoryStore(links)
	people := store.NewUserMemoryStore(recipes)
	c := cache.NewMemoryCache(time.Minute)

	recipes.AddIngredient(catalog.Ingredient{ID: 1, Name: "Flour", MeasurementUnit: "g"})
	recipes.AddIngredient(catalog.Ingredient{ID: 2, Name: "Sugar", MeasurementUnit: "g"})
	plans.AddExercise(workouts.Exercise{ID: 1, Name: "Squat", MuscleGroup: "legs", Difficulty: workouts.Beginner})

	recipeSvc := catalog.NewService(recipes, logger)
	planSvc := workouts.NewService(plans, logger)
	linker := shortlink.NewLinker(links, func() string { return "salt" }, logger)
	events := &recorder{}

	h := &handlers.Handlers{
		Links: handlers.NewLinkHandler(
			linker,
			map[shortlink.Kind]handlers.ResourceFinder{
				shortlink.KindRecipe:      handlers.RecipeFinder(recipeSvc),
				shortlink.KindWorkoutPlan: handlers.PlanFinder(planSvc),
			},
			[]*redirect.Resolver{
				redirect.NewResolver(shortlink.KindRecipe, linker, c, redirect.DefaultTTL, testBaseURL, logger),
				redirect.NewResolver(shortlink.KindWorkoutPlan, linker, c, redirect.DefaultTTL, testBaseURL, logger),
			},
			testBaseURL,
			3,
			events.linkCreated,
			events.linkResolved,
			logger,
		),
		Shopping: handlers.NewShoppingHandler(
			shopping.NewAggregator(recipes, c, shopping.DefaultTTL, logger),
			events.exportedList,
			logger,
		),
		Recipes:  handlers.NewRecipeHandler(recipeSvc),
		Workouts: handlers.NewWorkoutHandler(planSvc),
		Users:    handlers.NewUserHandler(users.NewService(people, logger)),
	}

	router := chi.NewMux()
	handlers.UseRouterErrors(router)

	api := humachi.New(router, huma.DefaultConfig("Test", "1.0.0"))
	api.UseMiddleware(middleware.RequestMeta(api))
	handlers.RegisterRoutes(api, h)

	return &fixture{router: router, links: links, recipes: recipes, plans: plans, events: events, linker: linker}
}

// do sends a request as userID (zero for anonymous).
func (f *fixture) do(t *testing.T, method, path string, userID int64, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if userID > 0 {
		req.Header.Set(middleware.HeaderUserID, strconv.FormatInt(userID, 10))
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	return w
}

func (f *fixture) createRecipe(t *testing.T, author int64, name string, ingredients ...map[string]int64) int64 {
	t.Helper()

	if len(ingredients) == 0 {
		ingredients = []map[string]int64{{"id": 1, "amount": 100}}
	}

	w := f.do(t, http.MethodPost, "/api/recipes", author, map[string]any{
		"name":         name,
		"text":         "Mix and bake.",
		"cooking_time": 20,
		"ingredients":  ingredients,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	return body.ID
}

func (f *fixture) createPlan(t *testing.T, author int64, name string) int64 {
	t.Helper()

	w := f.do(t, http.MethodPost, "/api/workout-plans", author, map[string]any{
		"name":        name,
		"description": "Legs day.",
		"duration":    45,
		"exercises":   []map[string]int{{"id": 1, "sets": 3, "reps": 10}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	return body.ID
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())

	return v
}

type errorBody struct {
	Error string `json:"error"`
}
