package requests

import domain "github.com/janhq/task-api/internal/domain/task"

// CreateTaskRequest assigns a new task to a user.
type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required,max=100" jsonschema:"description=Short title of the task."`
	Content     string `json:"content" validate:"max=255" jsonschema:"description=Detailed description of the task."`
	UserID      uint   `json:"user_id" validate:"required" jsonschema:"description=ID of the user who owns this task."`
	IsCompleted *bool  `json:"is_completed" validate:"required" jsonschema:"description=Whether the task is completed or not."`
}

func (r CreateTaskRequest) ToParams() domain.CreateParams {
	params := domain.CreateParams{
		Title:   r.Title,
		Content: r.Content,
		UserID:  r.UserID,
	}
	if r.IsCompleted != nil {
		params.IsCompleted = *r.IsCompleted
	}
	return params
}

// UpdateTaskRequest is a partial update; omitted fields keep their value.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=100" jsonschema:"description=Short title of the task."`
	Content     *string `json:"content,omitempty" validate:"omitempty,max=255" jsonschema:"description=Detailed description of the task."`
	IsCompleted *bool   `json:"is_completed,omitempty" jsonschema:"description=Whether the task is completed or not."`
}

func (r UpdateTaskRequest) ToParams() domain.UpdateParams {
	return domain.UpdateParams{
		Title:       r.Title,
		Content:     r.Content,
		IsCompleted: r.IsCompleted,
	}
}

// ListTasksQuery filters GET /tasks. A zero user_id means no owner constraint.
type ListTasksQuery struct {
	Name        string `form:"name"`
	TaskTitle   string `form:"task_title"`
	TaskContent string `form:"task_content"`
	IsCompleted *bool  `form:"is_completed"`
	UserID      uint   `form:"user_id"`
}

func (q ListTasksQuery) ToFilter() domain.Filter {
	return domain.Filter{
		OwnerUsername: q.Name,
		Title:         q.TaskTitle,
		Content:       q.TaskContent,
		IsCompleted:   q.IsCompleted,
		UserID:        q.UserID,
	}
}
