package user

import (
	"context"
	"strings"
	"sync"

	domain "github.com/janhq/task-api/internal/domain/user"
	"github.com/janhq/task-api/internal/utils/platformerrors"
)

// DeleteHook runs after a user has been removed, outside the repository lock.
type DeleteHook func(userID uint)

// InMemoryRepository is a thread-safe repository used for local runs and tests.
type InMemoryRepository struct {
	mu       sync.RWMutex
	nextID   uint
	entries  map[uint]domain.User
	order    []uint
	onDelete []DeleteHook
}

var _ domain.Repository = (*InMemoryRepository)(nil)

// NewInMemoryRepository creates an empty repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		nextID:  1,
		entries: make(map[uint]domain.User),
	}
}

// OnDelete registers a hook invoked for every deleted user, used to cascade to owned rows.
func (r *InMemoryRepository) OnDelete(hook DeleteHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onDelete = append(r.onDelete, hook)
}

func (r *InMemoryRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conflicts(0, u.Username, u.Email) {
		return nil, duplicateError(ctx)
	}

	stored := *u
	stored.ID = r.nextID
	r.nextID++
	r.entries[stored.ID] = stored
	r.order = append(r.order, stored.ID)

	out := stored
	return &out, nil
}

func (r *InMemoryRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.entries[id]
	if !ok {
		return nil, notFoundError(ctx)
	}
	return &stored, nil
}

func (r *InMemoryRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.conflicts(0, username, email), nil
}

func (r *InMemoryRepository) List(ctx context.Context, filter domain.Filter) ([]*domain.User, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*domain.User, 0, len(r.order))
	for _, id := range r.order {
		stored := r.entries[id]
		if !containsFold(stored.Username, filter.Username) ||
			!containsFold(stored.Email, filter.Email) ||
			!containsFold(stored.PhoneNum, filter.PhoneNum) {
			continue
		}
		out := stored
		users = append(users, &out)
	}
	return users, int64(len(users)), nil
}

func (r *InMemoryRepository) Update(ctx context.Context, id uint, params domain.UpdateParams) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.entries[id]
	if !ok {
		return nil, notFoundError(ctx)
	}

	next := stored
	if params.Username != nil {
		next.Username = *params.Username
	}
	if params.Email != nil {
		next.Email = *params.Email
	}
	if params.FirstName != nil {
		next.FirstName = *params.FirstName
	}
	if params.LastName != nil {
		next.LastName = *params.LastName
	}
	if params.PhoneNum != nil {
		next.PhoneNum = *params.PhoneNum
	}
	if r.conflicts(id, next.Username, next.Email) {
		return nil, duplicateError(ctx)
	}

	r.entries[id] = next
	return &next, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	if _, ok := r.entries[id]; !ok {
		r.mu.Unlock()
		return notFoundError(ctx)
	}
	delete(r.entries, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	hooks := append([]DeleteHook(nil), r.onDelete...)
	r.mu.Unlock()

	for _, hook := range hooks {
		hook(id)
	}
	return nil
}

// conflicts reports whether another user (not skipID) already holds the username or email.
func (r *InMemoryRepository) conflicts(skipID uint, username, email string) bool {
	for id, stored := range r.entries {
		if id == skipID {
			continue
		}
		if stored.Username == username || stored.Email == email {
			return true
		}
	}
	return false
}

func containsFold(value, fragment string) bool {
	if fragment == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(fragment))
}

func notFoundError(ctx context.Context) error {
	return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
		"User not found", domain.ErrNotFound)
}

func duplicateError(ctx context.Context) error {
	return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeConflict,
		"Database integrity error: possibly duplicate value.", domain.ErrDuplicate)
}
