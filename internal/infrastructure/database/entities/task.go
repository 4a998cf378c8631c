package entities

import "time"

// Task models the persisted representation of the task domain entity.
type Task struct {
	ID          uint      `gorm:"primaryKey"`
	Title       string    `gorm:"size:100;not null"`
	Content     string    `gorm:"size:255"`
	IsCompleted bool      `gorm:"not null;default:false"`
	UserID      uint      `gorm:"not null;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Task) TableName() string {
	return "tasks"
}
