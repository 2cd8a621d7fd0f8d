package handlers

import (
	"context"

	"github.com/serroba/foodgram-go/internal/paging"
	"github.com/serroba/foodgram-go/internal/workouts"
)

// WorkoutHandler exposes workout plans and exercises.
type WorkoutHandler struct {
	svc *workouts.Service
}

// NewWorkoutHandler creates a new workout handler.
func NewWorkoutHandler(svc *workouts.Service) *WorkoutHandler {
	return &WorkoutHandler{svc: svc}
}

func (h *WorkoutHandler) List(ctx context.Context, req *ListRequest) (*PlanListResponse, error) {
	viewer := Viewer(ctx)
	resp := &PlanListResponse{}
	resp.Body.Results = []PlanBody{}

	if viewer == 0 && req.IsFavorited {
		return resp, nil
	}

	f := workouts.Filter{
		AuthorID: req.Author,
		Viewer:   viewer,
		Params:   paging.Params{Limit: req.Limit, Offset: req.Offset},
	}

	if req.IsFavorited {
		f.FavoritedBy = viewer
	}

	page, err := h.svc.ListPlans(ctx, f)
	if err != nil {
		return nil, httpError(err)
	}

	resp.Body.Count = page.Count
	for i := range page.Items {
		resp.Body.Results = append(resp.Body.Results, newPlanBody(&page.Items[i]))
	}

	return resp, nil
}

func (h *WorkoutHandler) Create(ctx context.Context, req *CreatePlanRequest) (*PlanResponse, error) {
	userID, err := RequireUser(ctx)
	if err != nil {
		return nil, httpError(err)
	}

	plan, err := h.svc.CreatePlan(ctx, newPlanInput(userID, &req.Body))
	if err != nil {
		return nil, httpError(err)
	}

	return &PlanResponse{Body: newPlanBody(plan)}, nil
}

func (h *WorkoutHandler) Update(ctx context.Context, req *UpdatePlanRequest) (*PlanResponse, error) {
	userID, err := RequireUser(ctx)
	if err != nil {
		return nil, httpError(err)
	}

	plan, err := h.svc.UpdatePlan(ctx, userID, req.ID, newPlanInput(userID, &req.Body))
	if err != nil {
		return nil, httpError(err)
	}

	return &PlanResponse{Body: newPlanBody(plan)}, nil
}

func (h *WorkoutHandler) Get(ctx context.Context, req *IDRequest) (*PlanResponse, error) {
	plan, err := h.svc.GetPlan(ctx, req.ID, Viewer(ctx))
	if err != nil {
		return nil, httpError(err)
	}

	return &PlanResponse{Body: newPlanBody(plan)}, nil
}

func (h *WorkoutHandler) Delete(ctx context.Context, req *IDRequest) (*struct{}, error) {
	userID, err := RequireUser(ctx)
	if err != nil {
		return nil, httpError(err)
	}

	if err := h.svc.DeletePlan(ctx, userID, req.ID); err != nil {
		return nil, httpError(err)
	}

	return nil, nil
}

func (h *WorkoutHandler) AddFavorite(ctx context.Context, req *IDRequest) (*PlanResponse, error) {
	userID, err := RequireUser(ctx)
	if err != nil {
		return nil, httpError(err)
	}

	plan, err := h.svc.AddFavorite(ctx, userID, req.ID)
	if err != nil {
		return nil, httpError(err)
	}

	return &PlanResponse{Body: newPlanBody(plan)}, nil
}

func (h *WorkoutHandler) RemoveFavorite(ctx context.Context, req *IDRequest) (*struct{}, error) {
	userID, err := RequireUser(ctx)
	if err != nil {
		return nil, httpError(err)
	}

	if err := h.svc.RemoveFavorite(ctx, userID, req.ID); err != nil {
		return nil, httpError(err)
	}

	return nil, nil
}

func (h *WorkoutHandler) Exercises(ctx context.Context, req *SearchRequest) (*ExerciseListResponse, error) {
	exercises, err := h.svc.SearchExercises(ctx, req.Name)
	if err != nil {
		return nil, httpError(err)
	}

	resp := &ExerciseListResponse{Body: make([]ExerciseBody, len(exercises))}
	for i, ex := range exercises {
		resp.Body[i] = newExerciseBody(ex)
	}

	return resp, nil
}

func newPlanInput(userID int64, body *PlanInput) *workouts.NewPlan {
	in := &workouts.NewPlan{
		AuthorID:    userID,
		Name:        body.Name,
		Description: body.Description,
		Image:       body.Image,
		Duration:    body.Duration,
		Exercises:   make([]workouts.ExerciseVolume, len(body.Exercises)),
	}

	for i, ex := range body.Exercises {
		in.Exercises[i] = workouts.ExerciseVolume{ID: ex.ID, Sets: ex.Sets, Reps: ex.Reps}
	}

	return in
}
