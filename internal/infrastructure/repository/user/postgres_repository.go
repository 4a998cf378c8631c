package user

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/janhq/task-api/internal/domain/user"
	"github.com/janhq/task-api/internal/infrastructure/database/entities"
	"github.com/janhq/task-api/internal/utils/platformerrors"
)

// PostgresRepository persists users via PostgreSQL using GORM.
type PostgresRepository struct {
	db *gorm.DB
}

var _ domain.Repository = (*PostgresRepository)(nil)

// NewPostgresRepository creates a repository backed by the provided DB.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	record := fromDomain(u)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, translateWriteError(ctx, err)
	}
	return toDomain(&record), nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var record entities.User
	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		return nil, translateReadError(ctx, err)
	}
	return toDomain(&record), nil
}

func (r *PostgresRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	if err != nil {
		return false, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to check existing user", err)
	}
	return count > 0, nil
}

func (r *PostgresRepository) List(ctx context.Context, filter domain.Filter) ([]*domain.User, int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to count users", err)
	}

	var records []entities.User
	if err := r.filtered(ctx, filter).Order("id ASC").Find(&records).Error; err != nil {
		return nil, 0, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list users", err)
	}

	users := make([]*domain.User, 0, len(records))
	for i := range records {
		users = append(users, toDomain(&records[i]))
	}
	return users, total, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id uint, params domain.UpdateParams) (*domain.User, error) {
	var record entities.User
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
		return nil, translateWriteError(ctx, err)
	}
	return toDomain(&record), nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record entities.User
		if err := tx.First(&record, id).Error; err != nil {
			return err
		}
		return tx.Delete(&record).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return translateReadError(ctx, err)
		}
		return translateWriteError(ctx, err)
	}
	return nil
}

func (r *PostgresRepository) filtered(ctx context.Context, filter domain.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&entities.User{})
	if filter.Username != "" {
		query = query.Where("username ILIKE ?", "%"+filter.Username+"%")
	}
	if filter.Email != "" {
		query = query.Where("email ILIKE ?", "%"+filter.Email+"%")
	}
	if filter.PhoneNum != "" {
		query = query.Where("phone_num ILIKE ?", "%"+filter.PhoneNum+"%")
	}
	return query
}

func updateAssignments(params domain.UpdateParams) map[string]any {
	assignments := make(map[string]any)
	if params.Username != nil {
		assignments["username"] = *params.Username
	}
	if params.Email != nil {
		assignments["email"] = *params.Email
	}
	if params.FirstName != nil {
		assignments["first_name"] = *params.FirstName
	}
	if params.LastName != nil {
		assignments["last_name"] = *params.LastName
	}
	if params.PhoneNum != nil {
		assignments["phone_num"] = *params.PhoneNum
	}
	return assignments
}

func translateReadError(ctx context.Context, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			"User not found", domain.ErrNotFound)
	}
	return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
		"failed to load user", err)
}

func translateWriteError(ctx context.Context, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeConflict,
			"Database integrity error: possibly duplicate value.", errors.Join(domain.ErrDuplicate, err))
	}
	return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
		"failed to persist user", err)
}

func fromDomain(u *domain.User) entities.User {
	return entities.User{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		PhoneNum:       u.PhoneNum,
		HashedPassword: u.HashedPassword,
	}
}

func toDomain(record *entities.User) *domain.User {
	return &domain.User{
		ID:             record.ID,
		Username:       record.Username,
		Email:          record.Email,
		FirstName:      record.FirstName,
		LastName:       record.LastName,
		PhoneNum:       record.PhoneNum,
		HashedPassword: record.HashedPassword,
	}
}
