// Package workouts manages workout plans, the exercises they are built from
// and per-user favorites.
package workouts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/serroba/foodgram-go/internal/apperror"
	"github.com/serroba/foodgram-go/internal/media"
	"github.com/serroba/foodgram-go/internal/paging"
)

var (
	ErrPlanNotFound     = fmt.Errorf("workout plan %w", apperror.ErrNotFound)
	ErrExerciseNotFound = fmt.Errorf("exercise does not exist: %w", apperror.ErrInvalidInput)
	ErrInvalidPlan      = fmt.Errorf("workout plan: %w", apperror.ErrInvalidInput)
	ErrNotAuthor        = fmt.Errorf("only the author may change a workout plan: %w", apperror.ErrForbidden)
	ErrAlreadyFavorited = fmt.Errorf("workout plan already in favorites: %w", apperror.ErrInvalidInput)
	ErrNotFavorited     = fmt.Errorf("workout plan not in favorites: %w", apperror.ErrInvalidInput)
)

// Difficulty grades an exercise.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// Exercise is a catalog entry plans refer to.
type Exercise struct {
	ID          int64
	Name        string
	MuscleGroup string
	Description string
	Difficulty  Difficulty
}

// PlanExercise is an exercise with the volume a plan prescribes.
type PlanExercise struct {
	Exercise
	Sets int
	Reps int
}

// Plan is a stored workout plan as seen by a viewer.
type Plan struct {
	ID          int64
	AuthorID    int64
	Name        string
	Description string
	Image       string
	Duration    int
	Exercises   []PlanExercise
	CreatedAt   time.Time
	IsFavorited bool
}

// ExerciseVolume references a catalog exercise in a new plan.
type ExerciseVolume struct {
	ID   int64
	Sets int
	Reps int
}

// NewPlan is the input for creating or replacing a plan.
type NewPlan struct {
	AuthorID    int64
	Name        string
	Description string
	Image       string
	Duration    int
	Exercises   []ExerciseVolume
}

// Validate checks p before it reaches the repository.
func (p *NewPlan) Validate() error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidPlan)
	case len([]rune(p.Name)) > 128:
		return fmt.Errorf("%w: name longer than 128 characters", ErrInvalidPlan)
	case p.Duration < 1:
		return fmt.Errorf("%w: duration must be at least 1 minute", ErrInvalidPlan)
	case len(p.Exercises) == 0:
		return fmt.Errorf("%w: at least one exercise is required", ErrInvalidPlan)
	}

	seen := make(map[int64]struct{}, len(p.Exercises))

	for _, ex := range p.Exercises {
		if ex.Sets < 1 || ex.Reps < 1 {
			return fmt.Errorf("%w: exercise %d needs at least 1 set and 1 rep", ErrInvalidPlan, ex.ID)
		}

		if _, dup := seen[ex.ID]; dup {
			return fmt.Errorf("%w: exercise %d listed twice", ErrInvalidPlan, ex.ID)
		}

		seen[ex.ID] = struct{}{}
	}

	if p.Image != "" {
		if _, err := media.DecodeImage(p.Image); err != nil {
			return err
		}
	}

	return nil
}

// Filter narrows a plan listing. Zero values disable a criterion.
type Filter struct {
	AuthorID    int64
	FavoritedBy int64
	Viewer      int64
	paging.Params
}

// Repository persists plans and favorites.
type Repository interface {
	CreatePlan(ctx context.Context, p *NewPlan) (*Plan, error)
	GetPlan(ctx context.Context, id, viewer int64) (*Plan, error)
	ListPlans(ctx context.Context, f Filter) (paging.Page[Plan], error)
	// UpdatePlan replaces plan id; an empty image keeps the stored one.
	UpdatePlan(ctx context.Context, id int64, p *NewPlan) (*Plan, error)
	DeletePlan(ctx context.Context, id int64) error
	SearchExercises(ctx context.Context, prefix string) ([]Exercise, error)
	AddFavorite(ctx context.Context, userID, planID int64) error
	RemoveFavorite(ctx context.Context, userID, planID int64) error
}
