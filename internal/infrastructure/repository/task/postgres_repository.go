package task

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/janhq/task-api/internal/domain/task"
	"github.com/janhq/task-api/internal/infrastructure/database/entities"
	"github.com/janhq/task-api/internal/utils/platformerrors"
)

// PostgresRepository persists tasks via PostgreSQL using GORM.
type PostgresRepository struct {
	db *gorm.DB
}

var _ domain.Repository = (*PostgresRepository)(nil)

// NewPostgresRepository creates a repository backed by the provided DB.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	record := fromDomain(t)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, translateWriteError(ctx, err, "Database integrity error when creating task.")
	}
	return toDomain(&record), nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id uint) (*domain.Task, error) {
	var record entities.Task
	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		return nil, translateReadError(ctx, err)
	}
	return toDomain(&record), nil
}

func (r *PostgresRepository) List(ctx context.Context, filter domain.Filter) ([]*domain.Task, error) {
	query := r.db.WithContext(ctx).Model(&entities.Task{})
	if filter.OwnerUsername != "" {
		query = query.
			Joins("JOIN users ON users.id = tasks.user_id").
			Where("users.username ILIKE ?", "%"+filter.OwnerUsername+"%")
	}
	if filter.Title != "" {
		query = query.Where("tasks.title ILIKE ?", "%"+filter.Title+"%")
	}
	if filter.Content != "" {
		query = query.Where("tasks.content ILIKE ?", "%"+filter.Content+"%")
	}
	if filter.IsCompleted != nil {
		query = query.Where("tasks.is_completed = ?", *filter.IsCompleted)
	}
	if filter.UserID != 0 {
		query = query.Where("tasks.user_id = ?", filter.UserID)
	}

	var records []entities.Task
	if err := query.Select("tasks.*").Order("tasks.id ASC").Find(&records).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list tasks", err)
	}

	tasks := make([]*domain.Task, 0, len(records))
	for i := range records {
		tasks = append(tasks, toDomain(&records[i]))
	}
	return tasks, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id uint, params domain.UpdateParams) (*domain.Task, error) {
	var record entities.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&record, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&record).Updates(updateAssignments(params)).Error; err != nil {
			return err
		}
		return tx.First(&record, id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, translateReadError(ctx, err)
		}
		return nil, translateWriteError(ctx, err, "Database integrity error when updating task.")
	}
	return toDomain(&record), nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record entities.Task
		if err := tx.First(&record, id).Error; err != nil {
			return err
		}
		return tx.Delete(&record).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return translateReadError(ctx, err)
		}
		return translateWriteError(ctx, err, "Database integrity error when deleting task.")
	}
	return nil
}

func updateAssignments(params domain.UpdateParams) map[string]any {
	assignments := make(map[string]any)
	if params.Title != nil {
		assignments["title"] = *params.Title
	}
	if params.Content != nil {
		assignments["content"] = *params.Content
	}
	if params.IsCompleted != nil {
		assignments["is_completed"] = *params.IsCompleted
	}
	return assignments
}

func translateReadError(ctx context.Context, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			"Task not found", domain.ErrNotFound)
	}
	return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
		"failed to load task", err)
}

func translateWriteError(ctx context.Context, err error, integrityMessage string) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeConflict,
			integrityMessage, errors.Join(domain.ErrIntegrity, err))
	}
	return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
		"failed to persist task", err)
}

func fromDomain(t *domain.Task) entities.Task {
	return entities.Task{
		ID:          t.ID,
		Title:       t.Title,
		Content:     t.Content,
		IsCompleted: t.IsCompleted,
		UserID:      t.UserID,
	}
}

func toDomain(record *entities.Task) *domain.Task {
	return &domain.Task{
		ID:          record.ID,
		Title:       record.Title,
		Content:     record.Content,
		IsCompleted: record.IsCompleted,
		UserID:      record.UserID,
	}
}
