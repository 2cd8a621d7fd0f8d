package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/foodgram-go/internal/catalog"
	"github.com/serroba/foodgram-go/internal/paging"
	"github.com/serroba/foodgram-go/internal/shopping"
)

// CatalogPostgresStore is a PostgreSQL implementation of catalog.Repository
// and shopping.Source.
type CatalogPostgresStore struct {
	pool *pgxpool.Pool
}

func NewCatalogPostgresStore(pool *pgxpool.Pool) *CatalogPostgresStore {
	return &CatalogPostgresStore{pool: pool}
}

const recipeColumns = `
	r.id, r.author_id, r.name, r.text, r.image, r.cooking_time, r.created_at,
	EXISTS (SELECT 1 FROM favorites f WHERE f.recipe_id = r.id AND f.user_id = @viewer),
	EXISTS (SELECT 1 FROM shopping_cart c WHERE c.recipe_id = r.id AND c.user_id = @viewer)
`

func (p *CatalogPostgresStore) CreateRecipe(ctx context.Context, r *catalog.NewRecipe) (*catalog.Recipe, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}

	defer func() { _ = tx.Rollback(ctx) }()

	var id int64

	err = tx.QueryRow(ctx, `
		INSERT INTO recipes (author_id, name, text, image, cooking_time)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, r.AuthorID, r.Name, r.Text, r.Image, r.CookingTime).Scan(&id)
	if err != nil {
		return nil, err
	}

	if err := writeIngredients(ctx, tx, id, r.Ingredients, false); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return p.GetRecipe(ctx, id, r.AuthorID)
}

func (p *CatalogPostgresStore) UpdateRecipe(ctx context.Context, id int64, r *catalog.NewRecipe) (*catalog.Recipe, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}

	defer func() { _ = tx.Rollback(ctx) }()

	var authorID int64

	err = tx.QueryRow(ctx, `
		UPDATE recipes
		SET name = $2, text = $3, cooking_time = $4,
		    image = CASE WHEN $5 = '' THEN image ELSE $5 END
		WHERE id = $1
		RETURNING author_id
	`, id, r.Name, r.Text, r.CookingTime, r.Image).Scan(&authorID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, catalog.ErrRecipeNotFound
	}

	if err != nil {
		return nil, err
	}

	if err := writeIngredients(ctx, tx, id, r.Ingredients, true); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return p.GetRecipe(ctx, id, authorID)
}

func writeIngredients(ctx context.Context, tx pgx.Tx, id int64, ingredients []catalog.IngredientAmount, replace bool) error {
	batch := &pgx.Batch{}

	if replace {
		batch.Queue(`DELETE FROM recipe_ingredients WHERE recipe_id = $1`, id)
	}

	for _, ing := range ingredients {
		batch.Queue(`
			INSERT INTO recipe_ingredients (recipe_id, ingredient_id, amount)
			VALUES ($1, $2, $3)
		`, id, ing.ID, ing.Amount)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return catalog.ErrIngredientNotFound
		}

		return err
	}

	return nil
}

func (p *CatalogPostgresStore) GetRecipe(ctx context.Context, id, viewer int64) (*catalog.Recipe, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+recipeColumns+` FROM recipes r WHERE r.id = @id`,
		pgx.NamedArgs{"viewer": viewer, "id": id},
	)
	if err != nil {
		return nil, err
	}

	recipes, err := pgx.CollectRows(rows, scanRecipe)
	if err != nil {
		return nil, err
	}

	if len(recipes) == 0 {
		return nil, catalog.ErrRecipeNotFound
	}

	if err := p.attachIngredients(ctx, recipes); err != nil {
		return nil, err
	}

	return &recipes[0], nil
}

func (p *CatalogPostgresStore) ListRecipes(ctx context.Context, f catalog.Filter) (paging.Page[catalog.Recipe], error) {
	const where = `
		WHERE (@author = 0 OR r.author_id = @author)
		  AND (@favorited_by = 0 OR EXISTS (
		      SELECT 1 FROM favorites f WHERE f.recipe_id = r.id AND f.user_id = @favorited_by))
		  AND (@in_cart_of = 0 OR EXISTS (
		      SELECT 1 FROM shopping_cart c WHERE c.recipe_id = r.id AND c.user_id = @in_cart_of))
	`

	args := pgx.NamedArgs{
		"viewer":       f.Viewer,
		"author":       f.AuthorID,
		"favorited_by": f.FavoritedBy,
		"in_cart_of":   f.InCartOf,
		"limit":        f.Limit,
		"offset":       f.Offset,
	}

	var page paging.Page[catalog.Recipe]

	if err := p.pool.QueryRow(ctx, `SELECT count(*) FROM recipes r`+where, args).Scan(&page.Count); err != nil {
		return page, err
	}

	rows, err := p.pool.Query(ctx, `SELECT `+recipeColumns+` FROM recipes r`+where+`
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT @limit OFFSET @offset
	`, args)
	if err != nil {
		return page, err
	}

	page.Items, err = pgx.CollectRows(rows, scanRecipe)
	if err != nil {
		return page, err
	}

	return page, p.attachIngredients(ctx, page.Items)
}

func (p *CatalogPostgresStore) DeleteRecipe(ctx context.Context, id int64) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return catalog.ErrRecipeNotFound
	}

	return nil
}

func (p *CatalogPostgresStore) SearchIngredients(ctx context.Context, prefix string) ([]catalog.Ingredient, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, name, measurement_unit
		FROM ingredients
		WHERE name ILIKE $1 || '%'
		ORDER BY name
	`, prefix)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (catalog.Ingredient, error) {
		var ing catalog.Ingredient
		err := row.Scan(&ing.ID, &ing.Name, &ing.MeasurementUnit)

		return ing, err
	})
}

func (p *CatalogPostgresStore) AddFavorite(ctx context.Context, userID, recipeID int64) error {
	return p.add(ctx, "favorites", userID, recipeID, catalog.ErrAlreadyFavorited)
}

func (p *CatalogPostgresStore) RemoveFavorite(ctx context.Context, userID, recipeID int64) error {
	return p.remove(ctx, "favorites", userID, recipeID, catalog.ErrNotFavorited)
}

func (p *CatalogPostgresStore) AddToCart(ctx context.Context, userID, recipeID int64) error {
	return p.add(ctx, "shopping_cart", userID, recipeID, catalog.ErrAlreadyInCart)
}

func (p *CatalogPostgresStore) RemoveFromCart(ctx context.Context, userID, recipeID int64) error {
	return p.remove(ctx, "shopping_cart", userID, recipeID, catalog.ErrNotInCart)
}

// CartItems returns one item per ingredient row of every recipe in the cart.
func (p *CatalogPostgresStore) CartItems(ctx context.Context, userID int64) ([]shopping.Item, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT i.name, i.measurement_unit, ri.amount
		FROM shopping_cart c
		JOIN recipe_ingredients ri ON ri.recipe_id = c.recipe_id
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE c.user_id = $1
		ORDER BY c.recipe_id, i.name
	`, userID)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (shopping.Item, error) {
		var item shopping.Item
		err := row.Scan(&item.Name, &item.Unit, &item.Amount)

		return item, err
	})
}

func (p *CatalogPostgresStore) add(ctx context.Context, table string, userID, recipeID int64, exists error) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, recipe_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, table)

	tag, err := p.pool.Exec(ctx, query, userID, recipeID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return catalog.ErrRecipeNotFound
		}

		return err
	}

	if tag.RowsAffected() == 0 {
		return exists
	}

	return nil
}

func (p *CatalogPostgresStore) remove(ctx context.Context, table string, userID, recipeID int64, missing error) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1 AND recipe_id = $2`, table)

	tag, err := p.pool.Exec(ctx, query, userID, recipeID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return missing
	}

	return nil
}

func (p *CatalogPostgresStore) attachIngredients(ctx context.Context, recipes []catalog.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	ids := make([]int64, len(recipes))
	index := make(map[int64]int, len(recipes))

	for i, r := range recipes {
		ids[i] = r.ID
		index[r.ID] = i
	}

	rows, err := p.pool.Query(ctx, `
		SELECT ri.recipe_id, i.id, i.name, i.measurement_unit, ri.amount
		FROM recipe_ingredients ri
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id = ANY($1)
		ORDER BY ri.recipe_id, i.name
	`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			recipeID int64
			ing      catalog.RecipeIngredient
		)

		if err := rows.Scan(&recipeID, &ing.ID, &ing.Name, &ing.MeasurementUnit, &ing.Amount); err != nil {
			return err
		}

		i := index[recipeID]
		recipes[i].Ingredients = append(recipes[i].Ingredients, ing)
	}

	return rows.Err()
}

func scanRecipe(row pgx.CollectableRow) (catalog.Recipe, error) {
	var r catalog.Recipe
	err := row.Scan(
		&r.ID, &r.AuthorID, &r.Name, &r.Text, &r.Image, &r.CookingTime, &r.CreatedAt,
		&r.IsFavorited, &r.IsInShoppingCart,
	)

	return r, err
}

var (
	_ catalog.Repository = (*CatalogPostgresStore)(nil)
	_ shopping.Source    = (*CatalogPostgresStore)(nil)
)
