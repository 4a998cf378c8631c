// Package requests holds the HTTP request DTOs. Their json and jsonschema tags
// also drive the body parameters published in the OpenAPI document; validate
// tags are checked by the handlers.
package requests

import domain "github.com/janhq/task-api/internal/domain/user"

// CreateUserRequest registers a new user.
type CreateUserRequest struct {
	Username  string `json:"username" validate:"required,max=50" jsonschema:"description=A unique username for the user."`
	Email     string `json:"email" validate:"required,max=100" jsonschema:"description=The user's email address."`
	FirstName string `json:"first_name" validate:"required,max=50" jsonschema:"description=The user's first name."`
	LastName  string `json:"last_name" validate:"required,max=50" jsonschema:"description=The user's last name."`
	PhoneNum  string `json:"phone_num" validate:"required,max=15" jsonschema:"description=The user's phone number."`
	Password  string `json:"password" validate:"required" jsonschema:"description=The user's password."`
}

func (r CreateUserRequest) ToParams() domain.CreateParams {
	return domain.CreateParams{
		Username:  r.Username,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		PhoneNum:  r.PhoneNum,
		Password:  r.Password,
	}
}

// UpdateUserRequest is a partial update; omitted fields keep their value.
type UpdateUserRequest struct {
	Username  *string `json:"username,omitempty" validate:"omitempty,max=50" jsonschema:"description=A unique username for the user."`
	Email     *string `json:"email,omitempty" validate:"omitempty,max=100" jsonschema:"description=The user's email address."`
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=50" jsonschema:"description=The user's first name."`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,max=50" jsonschema:"description=The user's last name."`
	PhoneNum  *string `json:"phone_num,omitempty" validate:"omitempty,max=15" jsonschema:"description=The user's phone number."`
}

func (r UpdateUserRequest) ToParams() domain.UpdateParams {
	return domain.UpdateParams{
		Username:  r.Username,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		PhoneNum:  r.PhoneNum,
	}
}

// ListUsersQuery filters GET /users.
type ListUsersQuery struct {
	Name     string `form:"name"`
	EmailAdd string `form:"email_add"`
	PhoneNum string `form:"phone_num"`
}

func (q ListUsersQuery) ToFilter() domain.Filter {
	return domain.Filter{
		Username: q.Name,
		Email:    q.EmailAdd,
		PhoneNum: q.PhoneNum,
	}
}
