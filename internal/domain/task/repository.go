package task

import (
	"context"

	"github.com/janhq/task-api/internal/domain/user"
)

// Repository exposes data access for Task entities.
type Repository interface {
	Create(ctx context.Context, t *Task) (*Task, error)
	FindByID(ctx context.Context, id uint) (*Task, error)
	List(ctx context.Context, filter Filter) ([]*Task, error)
	Update(ctx context.Context, id uint, params UpdateParams) (*Task, error)
	Delete(ctx context.Context, id uint) error
}

// OwnerFinder resolves the user a task is assigned to.
type OwnerFinder interface {
	FindByID(ctx context.Context, id uint) (*user.User, error)
}
