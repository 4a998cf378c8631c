// Package user holds the user domain: entity, persistence contract and use cases.
package user

import "errors"

// User is an account that owns tasks.
type User struct {
	ID             uint   `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	PhoneNum       string `json:"phone_num"`
	HashedPassword string `json:"-"`
}

// CreateParams carries the fields required to register a user.
type CreateParams struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	PhoneNum  string
	Password  string
}

// UpdateParams holds a partial update; nil fields are left untouched.
type UpdateParams struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	PhoneNum  *string
}

// Empty reports whether the update carries no fields.
func (p UpdateParams) Empty() bool {
	return p.Username == nil && p.Email == nil && p.FirstName == nil && p.LastName == nil && p.PhoneNum == nil
}

// Filter narrows a user listing with case-insensitive substring matches.
type Filter struct {
	Username string
	Email    string
	PhoneNum string
}

// ListResult is a filtered listing together with its size.
type ListResult struct {
	Total int64   `json:"total"`
	Users []*User `json:"users"`
}

var (
	ErrNotFound  = errors.New("user not found")
	ErrDuplicate = errors.New("username or email already exists")
)
