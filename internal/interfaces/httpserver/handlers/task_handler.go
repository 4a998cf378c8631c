package handlers

import (
	"context"

	"github.com/go-playground/validator/v10"

	domain "github.com/janhq/task-api/internal/domain/task"
	"github.com/janhq/task-api/internal/interfaces/httpserver/requests"
)

// TaskHandler validates task requests and invokes the domain service.
type TaskHandler struct {
	service  domain.Service
	validate *validator.Validate
}

func NewTaskHandler(service domain.Service, validate *validator.Validate) *TaskHandler {
	return &TaskHandler{service: service, validate: validate}
}

func (h *TaskHandler) Create(ctx context.Context, req requests.CreateTaskRequest) (*domain.Task, error) {
	if err := h.validate.Struct(req); err != nil {
		return nil, validationError(ctx, err)
	}
	return h.service.Create(ctx, req.ToParams())
}

func (h *TaskHandler) List(ctx context.Context, query requests.ListTasksQuery) ([]*domain.Task, error) {
	return h.service.List(ctx, query.ToFilter())
}

func (h *TaskHandler) Get(ctx context.Context, id uint) (*domain.Task, error) {
	return h.service.Get(ctx, id)
}

func (h *TaskHandler) Update(ctx context.Context, id uint, req requests.UpdateTaskRequest) (*domain.Task, error) {
	if err := h.validate.Struct(req); err != nil {
		return nil, validationError(ctx, err)
	}
	return h.service.Update(ctx, id, req.ToParams())
}

func (h *TaskHandler) Delete(ctx context.Context, id uint) error {
	return h.service.Delete(ctx, id)
}
