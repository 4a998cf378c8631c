package database

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/janhq/task-api/internal/infrastructure/database/entities"
)

// AutoMigrate creates the users and tasks tables when they do not exist yet.
func AutoMigrate(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	if err := db.WithContext(ctx).AutoMigrate(&entities.User{}, &entities.Task{}); err != nil {
		return err
	}

	var users, tasks int64
	if err := db.WithContext(ctx).Model(&entities.User{}).Count(&users).Error; err != nil {
		return err
	}
	if err := db.WithContext(ctx).Model(&entities.Task{}).Count(&tasks).Error; err != nil {
		return err
	}
	log.Debug().Int64("users", users).Int64("tasks", tasks).Msg("schema ready")
	return nil
}
