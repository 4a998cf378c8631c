package user

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/janhq/task-api/internal/utils/platformerrors"
)

// Service describes the business logic surface for user operations.
type Service interface {
	Create(ctx context.Context, params CreateParams) (*User, error)
	Get(ctx context.Context, id uint) (*User, error)
	List(ctx context.Context, filter Filter) (*ListResult, error)
	Update(ctx context.Context, id uint, params UpdateParams) (*User, error)
	Delete(ctx context.Context, id uint) error
}

type service struct {
	repo   Repository
	hasher PasswordHasher
	log    zerolog.Logger
}

// NewService wires the user service with its repository and password hasher.
func NewService(repo Repository, hasher PasswordHasher, log zerolog.Logger) Service {
	return &service{
		repo:   repo,
		hasher: hasher,
		log:    log.With().Str("component", "user-service").Logger(),
	}
}

func (s *service) Create(ctx context.Context, params CreateParams) (*User, error) {
	exists, err := s.repo.ExistsByUsernameOrEmail(ctx, params.Username, params.Email)
	if err != nil {
		s.log.Error().Err(err).Msg("check existing user")
		return nil, err
	}
	if exists {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
			"Username or email already exists", ErrDuplicate)
	}

	hashed, err := s.hasher.Hash(params.Password)
	if err != nil {
		s.log.Error().Err(err).Msg("hash password")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"Internal Server Error", err)
	}

	created, err := s.repo.Create(ctx, &User{
		Username:       params.Username,
		Email:          params.Email,
		FirstName:      params.FirstName,
		LastName:       params.LastName,
		PhoneNum:       params.PhoneNum,
		HashedPassword: hashed,
	})
	if err != nil {
		s.log.Error().Err(err).Str("username", params.Username).Msg("create user")
		return nil, err
	}
	s.log.Info().Uint("user_id", created.ID).Msg("user created")
	return created, nil
}

func (s *service) Get(ctx context.Context, id uint) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) (*ListResult, error) {
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.log.Error().Err(err).Msg("list users")
		return nil, err
	}
	if users == nil {
		users = []*User{}
	}
	return &ListResult{Total: total, Users: users}, nil
}

func (s *service) Update(ctx context.Context, id uint, params UpdateParams) (*User, error) {
	if params.Empty() {
		return s.repo.FindByID(ctx, id)
	}
	updated, err := s.repo.Update(ctx, id, params)
	if err != nil {
		if !platformerrors.IsType(err, platformerrors.ErrorTypeNotFound) {
			s.log.Error().Err(err).Uint("user_id", id).Msg("update user")
		}
		return nil, err
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if !platformerrors.IsType(err, platformerrors.ErrorTypeNotFound) {
			s.log.Error().Err(err).Uint("user_id", id).Msg("delete user")
		}
		return err
	}
	s.log.Info().Uint("user_id", id).Msg("user deleted")
	return nil
}
