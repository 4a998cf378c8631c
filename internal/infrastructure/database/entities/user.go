package entities

import "time"

// User models the persisted representation of the user domain entity.
type User struct {
	ID             uint      `gorm:"primaryKey"`
	Username       string    `gorm:"size:50;uniqueIndex;not null"`
	Email          string    `gorm:"size:100;uniqueIndex;not null"`
	FirstName      string    `gorm:"size:50;not null"`
	LastName       string    `gorm:"size:50;not null"`
	PhoneNum       string    `gorm:"size:15;not null"`
	HashedPassword string    `gorm:"size:255"`
	Tasks          []Task    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
