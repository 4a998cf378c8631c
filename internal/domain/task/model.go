// Package task holds the task domain: entity, persistence contract and use cases.
package task

import "errors"

// Task is a unit of work owned by a user.
type Task struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	UserID      uint   `json:"user_id"`
	IsCompleted bool   `json:"is_completed"`
}

// CreateParams carries the fields required to create a task.
type CreateParams struct {
	Title       string
	Content     string
	UserID      uint
	IsCompleted bool
}

// UpdateParams holds a partial update; nil fields are left untouched.
type UpdateParams struct {
	Title       *string
	Content     *string
	IsCompleted *bool
}

// Empty reports whether the update carries no fields.
func (p UpdateParams) Empty() bool {
	return p.Title == nil && p.Content == nil && p.IsCompleted == nil
}

// Filter narrows a task listing. Zero values mean "no constraint".
type Filter struct {
	OwnerUsername string
	Title         string
	Content       string
	IsCompleted   *bool
	UserID        uint
}

var (
	ErrNotFound      = errors.New("task not found")
	ErrOwnerNotFound = errors.New("task owner not found")
	ErrIntegrity     = errors.New("task integrity violation")
)
