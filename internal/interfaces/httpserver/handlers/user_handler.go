package handlers

import (
	"context"

	"github.com/go-playground/validator/v10"

	domain "github.com/janhq/task-api/internal/domain/user"
	"github.com/janhq/task-api/internal/interfaces/httpserver/requests"
)

// UserHandler validates user requests and invokes the domain service.
type UserHandler struct {
	service  domain.Service
	validate *validator.Validate
}

func NewUserHandler(service domain.Service, validate *validator.Validate) *UserHandler {
	return &UserHandler{service: service, validate: validate}
}

func (h *UserHandler) Create(ctx context.Context, req requests.CreateUserRequest) (*domain.User, error) {
	if err := h.validate.Struct(req); err != nil {
		return nil, validationError(ctx, err)
	}
	return h.service.Create(ctx, req.ToParams())
}

func (h *UserHandler) List(ctx context.Context, query requests.ListUsersQuery) (*domain.ListResult, error) {
	return h.service.List(ctx, query.ToFilter())
}

func (h *UserHandler) Get(ctx context.Context, id uint) (*domain.User, error) {
	return h.service.Get(ctx, id)
}

func (h *UserHandler) Update(ctx context.Context, id uint, req requests.UpdateUserRequest) (*domain.User, error) {
	if err := h.validate.Struct(req); err != nil {
		return nil, validationError(ctx, err)
	}
	return h.service.Update(ctx, id, req.ToParams())
}

func (h *UserHandler) Delete(ctx context.Context, id uint) error {
	return h.service.Delete(ctx, id)
}
