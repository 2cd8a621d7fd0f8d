package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/foodgram-go/internal/paging"
	"github.com/serroba/foodgram-go/internal/workouts"
)

// WorkoutPostgresStore is a PostgreSQL implementation of workouts.Repository.
type WorkoutPostgresStore struct {
	pool *pgxpool.Pool
}

func NewWorkoutPostgresStore(pool *pgxpool.Pool) *WorkoutPostgresStore {
	return &WorkoutPostgresStore{pool: pool}
}

const planColumns = `
	w.id, w.author_id, w.name, w.description, w.image, w.duration, w.created_at,
	EXISTS (SELECT 1 FROM workout_plan_favorites f WHERE f.workout_plan_id = w.id AND f.user_id = @viewer)
`

func (p *WorkoutPostgresStore) CreatePlan(ctx context.Context, plan *workouts.NewPlan) (*workouts.Plan, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}

	defer func() { _ = tx.Rollback(ctx) }()

	var id int64

	err = tx.QueryRow(ctx, `
		INSERT INTO workout_plans (author_id, name, description, image, duration)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, plan.AuthorID, plan.Name, plan.Description, plan.Image, plan.Duration).Scan(&id)
	if err != nil {
		return nil, err
	}

	if err := writeExercises(ctx, tx, id, plan.Exercises, false); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return p.GetPlan(ctx, id, plan.AuthorID)
}

func (p *WorkoutPostgresStore) UpdatePlan(ctx context.Context, id int64, plan *workouts.NewPlan) (*workouts.Plan, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}

	defer func() { _ = tx.Rollback(ctx) }()

	var authorID int64

	err = tx.QueryRow(ctx, `
		UPDATE workout_plans
		SET name = $2, description = $3, duration = $4,
		    image = CASE WHEN $5 = '' THEN image ELSE $5 END
		WHERE id = $1
		RETURNING author_id
	`, id, plan.Name, plan.Description, plan.Duration, plan.Image).Scan(&authorID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, workouts.ErrPlanNotFound
	}

	if err != nil {
		return nil, err
	}

	if err := writeExercises(ctx, tx, id, plan.Exercises, true); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return p.GetPlan(ctx, id, authorID)
}

// writeExercises stores the exercise rows of plan id, dropping the old ones
// first when replace is set.
func writeExercises(ctx context.Context, tx pgx.Tx, id int64, exercises []workouts.ExerciseVolume, replace bool) error {
	batch := &pgx.Batch{}

	if replace {
		batch.Queue(`DELETE FROM workout_plan_exercises WHERE workout_plan_id = $1`, id)
	}

	for i, ex := range exercises {
		batch.Queue(`
			INSERT INTO workout_plan_exercises (workout_plan_id, exercise_id, position, sets, reps)
			VALUES ($1, $2, $3, $4, $5)
		`, id, ex.ID, i, ex.Sets, ex.Reps)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return workouts.ErrExerciseNotFound
		}

		return err
	}

	return nil
}

func (p *WorkoutPostgresStore) GetPlan(ctx context.Context, id, viewer int64) (*workouts.Plan, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+planColumns+` FROM workout_plans w WHERE w.id = @id`,
		pgx.NamedArgs{"viewer": viewer, "id": id},
	)
	if err != nil {
		return nil, err
	}

	plans, err := pgx.CollectRows(rows, scanPlan)
	if err != nil {
		return nil, err
	}

	if len(plans) == 0 {
		return nil, workouts.ErrPlanNotFound
	}

	if err := p.attachExercises(ctx, plans); err != nil {
		return nil, err
	}

	return &plans[0], nil
}

func (p *WorkoutPostgresStore) ListPlans(ctx context.Context, f workouts.Filter) (paging.Page[workouts.Plan], error) {
	const where = `
		WHERE (@author = 0 OR w.author_id = @author)
		  AND (@favorited_by = 0 OR EXISTS (
		      SELECT 1 FROM workout_plan_favorites f
		      WHERE f.workout_plan_id = w.id AND f.user_id = @favorited_by))
	`

	args := pgx.NamedArgs{
		"viewer":       f.Viewer,
		"author":       f.AuthorID,
		"favorited_by": f.FavoritedBy,
		"limit":        f.Limit,
		"offset":       f.Offset,
	}

	var page paging.Page[workouts.Plan]

	if err := p.pool.QueryRow(ctx, `SELECT count(*) FROM workout_plans w`+where, args).Scan(&page.Count); err != nil {
		return page, err
	}

	rows, err := p.pool.Query(ctx, `SELECT `+planColumns+` FROM workout_plans w`+where+`
		ORDER BY w.created_at DESC, w.id DESC
		LIMIT @limit OFFSET @offset
	`, args)
	if err != nil {
		return page, err
	}

	page.Items, err = pgx.CollectRows(rows, scanPlan)
	if err != nil {
		return page, err
	}

	return page, p.attachExercises(ctx, page.Items)
}

func (p *WorkoutPostgresStore) DeletePlan(ctx context.Context, id int64) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM workout_plans WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return workouts.ErrPlanNotFound
	}

	return nil
}

func (p *WorkoutPostgresStore) SearchExercises(ctx context.Context, prefix string) ([]workouts.Exercise, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, name, muscle_group, description, difficulty
		FROM exercises
		WHERE name ILIKE $1 || '%'
		ORDER BY name
	`, prefix)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (workouts.Exercise, error) {
		var ex workouts.Exercise
		err := row.Scan(&ex.ID, &ex.Name, &ex.MuscleGroup, &ex.Description, &ex.Difficulty)

		return ex, err
	})
}

func (p *WorkoutPostgresStore) AddFavorite(ctx context.Context, userID, planID int64) error {
	tag, err := p.pool.Exec(ctx, `
		INSERT INTO workout_plan_favorites (user_id, workout_plan_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, userID, planID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return workouts.ErrPlanNotFound
		}

		return err
	}

	if tag.RowsAffected() == 0 {
		return workouts.ErrAlreadyFavorited
	}

	return nil
}

func (p *WorkoutPostgresStore) RemoveFavorite(ctx context.Context, userID, planID int64) error {
	tag, err := p.pool.Exec(ctx,
		`DELETE FROM workout_plan_favorites WHERE user_id = $1 AND workout_plan_id = $2`,
		userID, planID,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return workouts.ErrNotFavorited
	}

	return nil
}

func (p *WorkoutPostgresStore) attachExercises(ctx context.Context, plans []workouts.Plan) error {
	if len(plans) == 0 {
		return nil
	}

	ids := make([]int64, len(plans))
	index := make(map[int64]int, len(plans))

	for i, plan := range plans {
		ids[i] = plan.ID
		index[plan.ID] = i
	}

	rows, err := p.pool.Query(ctx, `
		SELECT pe.workout_plan_id, e.id, e.name, e.muscle_group, e.description, e.difficulty, pe.sets, pe.reps
		FROM workout_plan_exercises pe
		JOIN exercises e ON e.id = pe.exercise_id
		WHERE pe.workout_plan_id = ANY($1)
		ORDER BY pe.workout_plan_id, pe.position
	`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			planID int64
			ex     workouts.PlanExercise
		)

		err := rows.Scan(&planID, &ex.ID, &ex.Name, &ex.MuscleGroup, &ex.Description, &ex.Difficulty, &ex.Sets, &ex.Reps)
		if err != nil {
			return err
		}

		i := index[planID]
		plans[i].Exercises = append(plans[i].Exercises, ex)
	}

	return rows.Err()
}

func scanPlan(row pgx.CollectableRow) (workouts.Plan, error) {
	var plan workouts.Plan
	err := row.Scan(
		&plan.ID, &plan.AuthorID, &plan.Name, &plan.Description, &plan.Image, &plan.Duration, &plan.CreatedAt,
		&plan.IsFavorited,
	)

	return plan, err
}

var _ workouts.Repository = (*WorkoutPostgresStore)(nil)
