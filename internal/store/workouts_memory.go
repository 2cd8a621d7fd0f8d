package store

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/serroba/foodgram-go/internal/paging"
	"github.com/serroba/foodgram-go/internal/shortlink"
	"github.com/serroba/foodgram-go/internal/workouts"
)

type storedPlan struct {
	plan      workouts.Plan
	exercises []workouts.ExerciseVolume
}

// WorkoutMemoryStore is an in-memory implementation of workouts.Repository.
type WorkoutMemoryStore struct {
	mu        sync.RWMutex
	exercises map[int64]workouts.Exercise
	plans     map[int64]*storedPlan
	favorites map[membership]struct{}
	nextID    int64
	links     *MemoryStore
}

// NewWorkoutMemoryStore creates an empty plan store. Deleting a plan also
// drops its short link from links when links is not nil.
func NewWorkoutMemoryStore(links *MemoryStore) *WorkoutMemoryStore {
	return &WorkoutMemoryStore{
		exercises: make(map[int64]workouts.Exercise),
		plans:     make(map[int64]*storedPlan),
		favorites: make(map[membership]struct{}),
		links:     links,
	}
}

// AddExercise seeds the exercise catalog.
func (m *WorkoutMemoryStore) AddExercise(ex workouts.Exercise) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.exercises[ex.ID] = ex
}

func (m *WorkoutMemoryStore) CreatePlan(_ context.Context, p *workouts.NewPlan) (*workouts.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, ex := range p.Exercises {
		if _, ok := m.exercises[ex.ID]; !ok {
			return nil, workouts.ErrExerciseNotFound
		}
	}

	m.nextID++

	stored := &storedPlan{
		plan: workouts.Plan{
			ID:          m.nextID,
			AuthorID:    p.AuthorID,
			Name:        p.Name,
			Description: p.Description,
			Image:       p.Image,
			Duration:    p.Duration,
			CreatedAt:   time.Now().UTC(),
		},
		exercises: slices.Clone(p.Exercises),
	}
	m.plans[stored.plan.ID] = stored

	return m.view(stored, p.AuthorID), nil
}

func (m *WorkoutMemoryStore) GetPlan(_ context.Context, id, viewer int64) (*workouts.Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored, ok := m.plans[id]
	if !ok {
		return nil, workouts.ErrPlanNotFound
	}

	return m.view(stored, viewer), nil
}

func (m *WorkoutMemoryStore) ListPlans(_ context.Context, f workouts.Filter) (paging.Page[workouts.Plan], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matches := make([]*storedPlan, 0, len(m.plans))

	for _, stored := range m.plans {
		if f.AuthorID != 0 && stored.plan.AuthorID != f.AuthorID {
			continue
		}

		if f.FavoritedBy != 0 && !m.favorite(f.FavoritedBy, stored.plan.ID) {
			continue
		}

		matches = append(matches, stored)
	}

	slices.SortFunc(matches, func(a, b *storedPlan) int {
		if c := b.plan.CreatedAt.Compare(a.plan.CreatedAt); c != 0 {
			return c
		}

		return cmp.Compare(b.plan.ID, a.plan.ID)
	})

	start, end := f.Window(len(matches))
	page := paging.Page[workouts.Plan]{
		Items: make([]workouts.Plan, 0, end-start),
		Count: len(matches),
	}

	for _, stored := range matches[start:end] {
		page.Items = append(page.Items, *m.view(stored, f.Viewer))
	}

	return page, nil
}

func (m *WorkoutMemoryStore) UpdatePlan(_ context.Context, id int64, p *workouts.NewPlan) (*workouts.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.plans[id]
	if !ok {
		return nil, workouts.ErrPlanNotFound
	}

	for _, ex := range p.Exercises {
		if _, ok := m.exercises[ex.ID]; !ok {
			return nil, workouts.ErrExerciseNotFound
		}
	}

	stored.plan.Name = p.Name
	stored.plan.Description = p.Description
	stored.plan.Duration = p.Duration
	stored.exercises = slices.Clone(p.Exercises)

	if p.Image != "" {
		stored.plan.Image = p.Image
	}

	return m.view(stored, stored.plan.AuthorID), nil
}

func (m *WorkoutMemoryStore) DeletePlan(ctx context.Context, id int64) error {
	m.mu.Lock()

	if _, ok := m.plans[id]; !ok {
		m.mu.Unlock()

		return workouts.ErrPlanNotFound
	}

	delete(m.plans, id)

	for key := range m.favorites {
		if key.itemID == id {
			delete(m.favorites, key)
		}
	}

	m.mu.Unlock()

	if m.links != nil {
		m.links.DeleteResource(ctx, shortlink.KindWorkoutPlan, id)
	}

	return nil
}

func (m *WorkoutMemoryStore) SearchExercises(_ context.Context, prefix string) ([]workouts.Exercise, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	prefix = strings.ToLower(prefix)
	found := make([]workouts.Exercise, 0)

	for _, ex := range m.exercises {
		if strings.HasPrefix(strings.ToLower(ex.Name), prefix) {
			found = append(found, ex)
		}
	}

	slices.SortFunc(found, func(a, b workouts.Exercise) int {
		return cmp.Compare(a.Name, b.Name)
	})

	return found, nil
}

func (m *WorkoutMemoryStore) AddFavorite(_ context.Context, userID, planID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.plans[planID]; !ok {
		return workouts.ErrPlanNotFound
	}

	key := membership{userID: userID, itemID: planID}
	if _, ok := m.favorites[key]; ok {
		return workouts.ErrAlreadyFavorited
	}

	m.favorites[key] = struct{}{}

	return nil
}

func (m *WorkoutMemoryStore) RemoveFavorite(_ context.Context, userID, planID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := membership{userID: userID, itemID: planID}
	if _, ok := m.favorites[key]; !ok {
		return workouts.ErrNotFavorited
	}

	delete(m.favorites, key)

	return nil
}

func (m *WorkoutMemoryStore) favorite(userID, planID int64) bool {
	_, ok := m.favorites[membership{userID: userID, itemID: planID}]

	return ok
}

func (m *WorkoutMemoryStore) view(stored *storedPlan, viewer int64) *workouts.Plan {
	plan := stored.plan
	plan.Exercises = make([]workouts.PlanExercise, 0, len(stored.exercises))

	for _, ex := range stored.exercises {
		plan.Exercises = append(plan.Exercises, workouts.PlanExercise{
			Exercise: m.exercises[ex.ID],
			Sets:     ex.Sets,
			Reps:     ex.Reps,
		})
	}

	if viewer != 0 {
		plan.IsFavorited = m.favorite(viewer, plan.ID)
	}

	return &plan
}

var _ workouts.Repository = (*WorkoutMemoryStore)(nil)
