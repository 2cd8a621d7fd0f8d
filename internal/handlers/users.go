package handlers

import (
	"context"

	"github.com/serroba/foodgram-go/internal/paging"
	"github.com/serroba/foodgram-go/internal/users"
)

// UserHandler exposes registration, profiles and follows.
type UserHandler struct {
	svc *users.Service
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc *users.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) Register(ctx context.Context, req *RegisterRequest) (*UserResponse, error) {
	user, err := h.svc.Register(ctx, &users.NewUser{
		Username:  req.Body.Username,
		Email:     req.Body.Email,
		FirstName: req.Body.FirstName,
		LastName:  req.Body.LastName,
	})
	if err != nil {
		return nil, httpError(err)
	}

	return &UserResponse{Body: newUserBody(user)}, nil
}

func (h *UserHandler) Get(ctx context.Context, req *IDRequest) (*UserResponse, error) {
	user, err := h.svc.GetUser(ctx, req.ID)
	if err != nil {
		return nil, httpError(err)
	}

	return &UserResponse{Body: newUserBody(user)}, nil
}

func (h *UserHandler) List(ctx context.Context, req *UserListRequest) (*UserListResponse, error) {
	page, err := h.svc.ListUsers(ctx, paging.Params{Limit: req.Limit, Offset: req.Offset})
	if err != nil {
		return nil, httpError(err)
	}

	resp := &UserListResponse{}
	resp.Body.Count = page.Count
	resp.Body.Results = make([]UserBody, len(page.Items))

	for i := range page.Items {
		resp.Body.Results[i] = newUserBody(&page.Items[i])
	}

	return resp, nil
}

// Me returns the caller's own profile.
func (h *UserHandler) Me(ctx context.Context, _ *struct{}) (*UserResponse, error) {
	userID, err := RequireUser(ctx)
	if err != nil {
		return nil, httpError(err)
	}

	user, err := h.svc.GetUser(ctx, userID)
	if err != nil {
		return nil, httpError(err)
	}

	return &UserResponse{Body: newUserBody(user)}, nil
}

func (h *UserHandler) SetAvatar(ctx context.Context, req *AvatarRequest) (*AvatarResponse, error) {
	userID, err := RequireUser(ctx)
	if err != nil {
		return nil, httpError(err)
	}

	user, err := h.svc.SetAvatar(ctx, userID, req.Body.Avatar)
	if err != nil {
		return nil, httpError(err)
	}

	resp := &AvatarResponse{}
	resp.Body.Avatar = user.Avatar

	return resp, nil
}

func (h *UserHandler) ClearAvatar(ctx context.Context, _ *struct{}) (*struct{}, error) {
	userID, err := RequireUser(ctx)
	if err != nil {
		return nil, httpError(err)
	}

	if err := h.svc.ClearAvatar(ctx, userID); err != nil {
		return nil, httpError(err)
	}

	return nil, nil
}

func (h *UserHandler) Subscribe(ctx context.Context, req *IDRequest) (*UserResponse, error) {
	userID, err := RequireUser(ctx)
	if err != nil {
		return nil, httpError(err)
	}

	author, err := h.svc.Subscribe(ctx, userID, req.ID)
	if err != nil {
		return nil, httpError(err)
	}

	return &UserResponse{Body: newUserBody(author)}, nil
}

func (h *UserHandler) Unsubscribe(ctx context.Context, req *IDRequest) (*struct{}, error) {
	userID, err := RequireUser(ctx)
	if err != nil {
		return nil, httpError(err)
	}

	if err := h.svc.Unsubscribe(ctx, userID, req.ID); err != nil {
		return nil, httpError(err)
	}

	return nil, nil
}

func (h *UserHandler) Subscriptions(ctx context.Context, _ *struct{}) (*SubscriptionListResponse, error) {
	userID, err := RequireUser(ctx)
	if err != nil {
		return nil, httpError(err)
	}

	subs, err := h.svc.Subscriptions(ctx, userID)
	if err != nil {
		return nil, httpError(err)
	}

	resp := &SubscriptionListResponse{Body: make([]SubscriptionBody, len(subs))}
	for i := range subs {
		resp.Body[i] = SubscriptionBody{UserBody: newUserBody(&subs[i].User), RecipesCount: subs[i].RecipesCount}
	}

	return resp, nil
}
