package task

import (
	"context"
	"strings"
	"sync"

	domain "github.com/janhq/task-api/internal/domain/task"
	"github.com/janhq/task-api/internal/utils/platformerrors"
)

// InMemoryRepository is a thread-safe repository used for local runs and tests.
// Owner username filtering resolves users through the provided OwnerFinder.
type InMemoryRepository struct {
	mu      sync.RWMutex
	nextID  uint
	entries map[uint]domain.Task
	order   []uint
	owners  domain.OwnerFinder
}

var _ domain.Repository = (*InMemoryRepository)(nil)

// NewInMemoryRepository creates an empty repository.
func NewInMemoryRepository(owners domain.OwnerFinder) *InMemoryRepository {
	return &InMemoryRepository{
		nextID:  1,
		entries: make(map[uint]domain.Task),
		owners:  owners,
	}
}

func (r *InMemoryRepository) Create(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *t
	stored.ID = r.nextID
	r.nextID++
	r.entries[stored.ID] = stored
	r.order = append(r.order, stored.ID)

	out := stored
	return &out, nil
}

func (r *InMemoryRepository) FindByID(ctx context.Context, id uint) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.entries[id]
	if !ok {
		return nil, notFoundError(ctx)
	}
	return &stored, nil
}

func (r *InMemoryRepository) List(ctx context.Context, filter domain.Filter) ([]*domain.Task, error) {
	r.mu.RLock()
	snapshot := make([]domain.Task, 0, len(r.order))
	for _, id := range r.order {
		snapshot = append(snapshot, r.entries[id])
	}
	r.mu.RUnlock()

	tasks := make([]*domain.Task, 0, len(snapshot))
	for i := range snapshot {
		t := snapshot[i]
		if !containsFold(t.Title, filter.Title) || !containsFold(t.Content, filter.Content) {
			continue
		}
		if filter.IsCompleted != nil && t.IsCompleted != *filter.IsCompleted {
			continue
		}
		if filter.UserID != 0 && t.UserID != filter.UserID {
			continue
		}
		if filter.OwnerUsername != "" {
			owner, err := r.owners.FindByID(ctx, t.UserID)
			if err != nil || !containsFold(owner.Username, filter.OwnerUsername) {
				continue
			}
		}
		tasks = append(tasks, &t)
	}
	return tasks, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, id uint, params domain.UpdateParams) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.entries[id]
	if !ok {
		return nil, notFoundError(ctx)
	}
	if params.Title != nil {
		stored.Title = *params.Title
	}
	if params.Content != nil {
		stored.Content = *params.Content
	}
	if params.IsCompleted != nil {
		stored.IsCompleted = *params.IsCompleted
	}
	r.entries[id] = stored
	return &stored, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[id]; !ok {
		return notFoundError(ctx)
	}
	r.remove(id)
	return nil
}

// DeleteByUser removes every task owned by userID.
func (r *InMemoryRepository) DeleteByUser(userID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range append([]uint(nil), r.order...) {
		if r.entries[id].UserID == userID {
			r.remove(id)
		}
	}
}

func (r *InMemoryRepository) remove(id uint) {
	delete(r.entries, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}

func containsFold(value, fragment string) bool {
	if fragment == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(fragment))
}

func notFoundError(ctx context.Context) error {
	return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
		"Task not found", domain.ErrNotFound)
}
