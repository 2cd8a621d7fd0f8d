package store

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/serroba/foodgram-go/internal/catalog"
	"github.com/serroba/foodgram-go/internal/paging"
	"github.com/serroba/foodgram-go/internal/shopping"
	"github.com/serroba/foodgram-go/internal/shortlink"
)

type membership struct {
	userID int64
	itemID int64
}

type storedRecipe struct {
	recipe      catalog.Recipe
	ingredients []catalog.IngredientAmount
}

// CatalogMemoryStore is an in-memory implementation of catalog.Repository
// and shopping.Source.
type CatalogMemoryStore struct {
	mu          sync.RWMutex
	ingredients map[int64]catalog.Ingredient
	recipes     map[int64]*storedRecipe
	favorites   map[membership]struct{}
	cart        map[membership]struct{}
	nextID      int64
	links       *MemoryStore
}

// NewCatalogMemoryStore creates an empty catalog. Deleting a recipe also
// drops its short link from links when links is not nil.
func NewCatalogMemoryStore(links *MemoryStore) *CatalogMemoryStore {
	return &CatalogMemoryStore{
		ingredients: make(map[int64]catalog.Ingredient),
		recipes:     make(map[int64]*storedRecipe),
		favorites:   make(map[membership]struct{}),
		cart:        make(map[membership]struct{}),
		links:       links,
	}
}

// AddIngredient seeds the ingredient catalog.
func (m *CatalogMemoryStore) AddIngredient(ing catalog.Ingredient) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ingredients[ing.ID] = ing
}

func (m *CatalogMemoryStore) CreateRecipe(_ context.Context, r *catalog.NewRecipe) (*catalog.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, ing := range r.Ingredients {
		if _, ok := m.ingredients[ing.ID]; !ok {
			return nil, catalog.ErrIngredientNotFound
		}
	}

	m.nextID++

	stored := &storedRecipe{
		recipe: catalog.Recipe{
			ID:          m.nextID,
			AuthorID:    r.AuthorID,
			Name:        r.Name,
			Text:        r.Text,
			Image:       r.Image,
			CookingTime: r.CookingTime,
			CreatedAt:   time.Now().UTC(),
		},
		ingredients: slices.Clone(r.Ingredients),
	}
	m.recipes[stored.recipe.ID] = stored

	return m.view(stored, r.AuthorID), nil
}

func (m *CatalogMemoryStore) GetRecipe(_ context.Context, id, viewer int64) (*catalog.Recipe, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored, ok := m.recipes[id]
	if !ok {
		return nil, catalog.ErrRecipeNotFound
	}

	return m.view(stored, viewer), nil
}

func (m *CatalogMemoryStore) ListRecipes(_ context.Context, f catalog.Filter) (paging.Page[catalog.Recipe], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matches := make([]*storedRecipe, 0, len(m.recipes))

	for _, stored := range m.recipes {
		id := stored.recipe.ID

		if f.AuthorID != 0 && stored.recipe.AuthorID != f.AuthorID {
			continue
		}

		if f.FavoritedBy != 0 && !m.has(m.favorites, f.FavoritedBy, id) {
			continue
		}

		if f.InCartOf != 0 && !m.has(m.cart, f.InCartOf, id) {
			continue
		}

		matches = append(matches, stored)
	}

	slices.SortFunc(matches, func(a, b *storedRecipe) int {
		if c := b.recipe.CreatedAt.Compare(a.recipe.CreatedAt); c != 0 {
			return c
		}

		return cmp.Compare(b.recipe.ID, a.recipe.ID)
	})

	start, end := f.Window(len(matches))
	page := paging.Page[catalog.Recipe]{
		Items: make([]catalog.Recipe, 0, end-start),
		Count: len(matches),
	}

	for _, stored := range matches[start:end] {
		page.Items = append(page.Items, *m.view(stored, f.Viewer))
	}

	return page, nil
}

func (m *CatalogMemoryStore) UpdateRecipe(_ context.Context, id int64, r *catalog.NewRecipe) (*catalog.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.recipes[id]
	if !ok {
		return nil, catalog.ErrRecipeNotFound
	}

	for _, ing := range r.Ingredients {
		if _, ok := m.ingredients[ing.ID]; !ok {
			return nil, catalog.ErrIngredientNotFound
		}
	}

	stored.recipe.Name = r.Name
	stored.recipe.Text = r.Text
	stored.recipe.CookingTime = r.CookingTime
	stored.ingredients = slices.Clone(r.Ingredients)

	if r.Image != "" {
		stored.recipe.Image = r.Image
	}

	return m.view(stored, stored.recipe.AuthorID), nil
}

func (m *CatalogMemoryStore) DeleteRecipe(ctx context.Context, id int64) error {
	m.mu.Lock()

	if _, ok := m.recipes[id]; !ok {
		m.mu.Unlock()

		return catalog.ErrRecipeNotFound
	}

	delete(m.recipes, id)

	for key := range m.favorites {
		if key.itemID == id {
			delete(m.favorites, key)
		}
	}

	for key := range m.cart {
		if key.itemID == id {
			delete(m.cart, key)
		}
	}

	m.mu.Unlock()

	if m.links != nil {
		m.links.DeleteResource(ctx, shortlink.KindRecipe, id)
	}

	return nil
}

func (m *CatalogMemoryStore) SearchIngredients(_ context.Context, prefix string) ([]catalog.Ingredient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	prefix = strings.ToLower(prefix)
	found := make([]catalog.Ingredient, 0)

	for _, ing := range m.ingredients {
		if strings.HasPrefix(strings.ToLower(ing.Name), prefix) {
			found = append(found, ing)
		}
	}

	slices.SortFunc(found, func(a, b catalog.Ingredient) int {
		return cmp.Compare(a.Name, b.Name)
	})

	return found, nil
}

func (m *CatalogMemoryStore) AddFavorite(_ context.Context, userID, recipeID int64) error {
	return m.add(m.favorites, userID, recipeID, catalog.ErrAlreadyFavorited)
}

func (m *CatalogMemoryStore) RemoveFavorite(_ context.Context, userID, recipeID int64) error {
	return m.remove(m.favorites, userID, recipeID, catalog.ErrNotFavorited)
}

func (m *CatalogMemoryStore) AddToCart(_ context.Context, userID, recipeID int64) error {
	return m.add(m.cart, userID, recipeID, catalog.ErrAlreadyInCart)
}

func (m *CatalogMemoryStore) RemoveFromCart(_ context.Context, userID, recipeID int64) error {
	return m.remove(m.cart, userID, recipeID, catalog.ErrNotInCart)
}

// CartItems returns one item per ingredient row of every recipe in the cart,
// ordered by recipe id and then by ingredient name like the Postgres store.
func (m *CatalogMemoryStore) CartItems(_ context.Context, userID int64) ([]shopping.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	recipeIDs := make([]int64, 0)

	for key := range m.cart {
		if key.userID == userID {
			recipeIDs = append(recipeIDs, key.itemID)
		}
	}

	slices.Sort(recipeIDs)

	items := make([]shopping.Item, 0)

	for _, id := range recipeIDs {
		stored, ok := m.recipes[id]
		if !ok {
			continue
		}

		rows := make([]shopping.Item, 0, len(stored.ingredients))

		for _, ing := range stored.ingredients {
			entry := m.ingredients[ing.ID]
			rows = append(rows, shopping.Item{
				Name:   entry.Name,
				Unit:   entry.MeasurementUnit,
				Amount: ing.Amount,
			})
		}

		slices.SortStableFunc(rows, func(a, b shopping.Item) int {
			return cmp.Compare(a.Name, b.Name)
		})

		items = append(items, rows...)
	}

	return items, nil
}

func (m *CatalogMemoryStore) add(set map[membership]struct{}, userID, recipeID int64, exists error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.recipes[recipeID]; !ok {
		return catalog.ErrRecipeNotFound
	}

	key := membership{userID: userID, itemID: recipeID}
	if _, ok := set[key]; ok {
		return exists
	}

	set[key] = struct{}{}

	return nil
}

func (m *CatalogMemoryStore) remove(set map[membership]struct{}, userID, recipeID int64, missing error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := membership{userID: userID, itemID: recipeID}
	if _, ok := set[key]; !ok {
		return missing
	}

	delete(set, key)

	return nil
}

func (m *CatalogMemoryStore) has(set map[membership]struct{}, userID, recipeID int64) bool {
	_, ok := set[membership{userID: userID, itemID: recipeID}]

	return ok
}

// view must be called with the lock held.
func (m *CatalogMemoryStore) view(stored *storedRecipe, viewer int64) *catalog.Recipe {
	recipe := stored.recipe
	recipe.Ingredients = make([]catalog.RecipeIngredient, 0, len(stored.ingredients))

	for _, ing := range stored.ingredients {
		recipe.Ingredients = append(recipe.Ingredients, catalog.RecipeIngredient{
			Ingredient: m.ingredients[ing.ID],
			Amount:     ing.Amount,
		})
	}

	if viewer != 0 {
		recipe.IsFavorited = m.has(m.favorites, viewer, recipe.ID)
		recipe.IsInShoppingCart = m.has(m.cart, viewer, recipe.ID)
	}

	return &recipe
}

var (
	_ catalog.Repository = (*CatalogMemoryStore)(nil)
	_ shopping.Source    = (*CatalogMemoryStore)(nil)
)

// CountByAuthor returns how many recipes authorID has published.
func (m *CatalogMemoryStore) CountByAuthor(authorID int64) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0

	for _, stored := range m.recipes {
		if stored.recipe.AuthorID == authorID {
			n++
		}
	}

	return n
}
