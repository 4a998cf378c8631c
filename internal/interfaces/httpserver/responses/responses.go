// Package responses holds the HTTP response DTOs and the error envelope.
package responses

import (
	taskdomain "github.com/janhq/task-api/internal/domain/task"
	userdomain "github.com/janhq/task-api/internal/domain/user"
)

// ErrorResponse is the body of every failed CRUD request.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// DetailResponse acknowledges a completed deletion.
type DetailResponse struct {
	Detail string `json:"detail"`
}

type User struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	PhoneNum  string `json:"phone_num"`
}

type UserList struct {
	Total int64  `json:"total"`
	Users []User `json:"users"`
}

type Task struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	UserID      uint   `json:"user_id"`
	IsCompleted bool   `json:"is_completed"`
}

// ChatbotResponse wraps the assistant reply, which is itself {"response"} or {"error"}.
type ChatbotResponse struct {
	Response any `json:"response"`
}

func NewUser(u *userdomain.User) User {
	return User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		PhoneNum:  u.PhoneNum,
	}
}

func NewUserList(result *userdomain.ListResult) UserList {
	users := make([]User, 0, len(result.Users))
	for _, u := range result.Users {
		users = append(users, NewUser(u))
	}
	return UserList{Total: result.Total, Users: users}
}

func NewTask(t *taskdomain.Task) Task {
	return Task{
		ID:          t.ID,
		Title:       t.Title,
		Content:     t.Content,
		UserID:      t.UserID,
		IsCompleted: t.IsCompleted,
	}
}

func NewTaskList(tasks []*taskdomain.Task) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, NewTask(t))
	}
	return out
}
