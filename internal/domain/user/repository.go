package user

import "context"

// Repository exposes data access for User entities.
//
// Implementations return platform errors: NotFound wrapping ErrNotFound,
// Conflict wrapping ErrDuplicate, DatabaseError for anything else.
type Repository interface {
	Create(ctx context.Context, u *User) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	List(ctx context.Context, filter Filter) ([]*User, int64, error)
	Update(ctx context.Context, id uint, params UpdateParams) (*User, error)
	Delete(ctx context.Context, id uint) error
}

// PasswordHasher turns a plain-text password into its stored form.
type PasswordHasher interface {
	Hash(password string) (string, error)
}
