package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/janhq/task-api/internal/domain/user"
	"github.com/janhq/task-api/internal/utils/platformerrors"
)

func seedUser(t *testing.T, repo *InMemoryRepository, username, email, phone string) *domain.User {
	t.Helper()
	created, err := repo.Create(context.Background(), &domain.User{
		Username: username, Email: email, FirstName: "F", LastName: "L", PhoneNum: phone,
	})
	require.NoError(t, err)
	return created
}

func TestInMemoryRepository_CreateAssignsSequentialIDs(t *testing.T) {
	repo := NewInMemoryRepository()
	first := seedUser(t, repo, "alice", "alice@example.com", "111")
	second := seedUser(t, repo, "bob", "bob@example.com", "222")

	assert.Equal(t, uint(1), first.ID)
	assert.Equal(t, uint(2), second.ID)
}

func TestInMemoryRepository_RejectsDuplicates(t *testing.T) {
	repo := NewInMemoryRepository()
	seedUser(t, repo, "alice", "alice@example.com", "111")

	_, err := repo.Create(context.Background(), &domain.User{Username: "alice", Email: "other@example.com"})
	assert.True(t, platformerrors.IsType(err, platformerrors.ErrorTypeConflict))

	_, total, err := repo.List(context.Background(), domain.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestInMemoryRepository_ListFilters(t *testing.T) {
	repo := NewInMemoryRepository()
	seedUser(t, repo, "Alice", "alice@example.com", "555-0101")
	seedUser(t, repo, "bob", "bob@corp.io", "555-0202")
	seedUser(t, repo, "malice", "m@corp.io", "777")

	tests := []struct {
		name     string
		filter   domain.Filter
		expected []string
	}{
		{"no filter", domain.Filter{}, []string{"Alice", "bob", "malice"}},
		{"username substring case-insensitive", domain.Filter{Username: "ALI"}, []string{"Alice", "malice"}},
		{"email", domain.Filter{Email: "corp"}, []string{"bob", "malice"}},
		{"phone", domain.Filter{PhoneNum: "555"}, []string{"Alice", "bob"}},
		{"combined", domain.Filter{Username: "ali", Email: "corp"}, []string{"malice"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, total, err := repo.List(context.Background(), tt.filter)
			require.NoError(t, err)
			names := make([]string, 0, len(users))
			for _, u := range users {
				names = append(names, u.Username)
			}
			assert.Equal(t, tt.expected, names)
			assert.Equal(t, int64(len(tt.expected)), total)
		})
	}
}

func TestInMemoryRepository_UpdateAndDelete(t *testing.T) {
	repo := NewInMemoryRepository()
	alice := seedUser(t, repo, "alice", "alice@example.com", "111")
	seedUser(t, repo, "bob", "bob@example.com", "222")

	taken := "bob"
	_, err := repo.Update(context.Background(), alice.ID, domain.UpdateParams{Username: &taken})
	assert.True(t, platformerrors.IsType(err, platformerrors.ErrorTypeConflict))

	first := "Alicia"
	updated, err := repo.Update(context.Background(), alice.ID, domain.UpdateParams{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", updated.FirstName)
	assert.Equal(t, "alice", updated.Username)

	var deleted []uint
	repo.OnDelete(func(id uint) { deleted = append(deleted, id) })
	require.NoError(t, repo.Delete(context.Background(), alice.ID))
	assert.Equal(t, []uint{alice.ID}, deleted)

	_, err = repo.FindByID(context.Background(), alice.ID)
	assert.True(t, platformerrors.IsType(err, platformerrors.ErrorTypeNotFound))
	assert.True(t, platformerrors.IsType(repo.Delete(context.Background(), alice.ID), platformerrors.ErrorTypeNotFound))
}
