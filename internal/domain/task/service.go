package task

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/janhq/task-api/internal/utils/platformerrors"
)

// Service describes the business logic surface for task operations.
type Service interface {
	Create(ctx context.Context, params CreateParams) (*Task, error)
	Get(ctx context.Context, id uint) (*Task, error)
	List(ctx context.Context, filter Filter) ([]*Task, error)
	Update(ctx context.Context, id uint, params UpdateParams) (*Task, error)
	Delete(ctx context.Context, id uint) error
}

type service struct {
	repo   Repository
	owners OwnerFinder
	log    zerolog.Logger
}

// NewService wires the task service with its repository and owner lookup.
func NewService(repo Repository, owners OwnerFinder, log zerolog.Logger) Service {
	return &service{
		repo:   repo,
		owners: owners,
		log:    log.With().Str("component", "task-service").Logger(),
	}
}

func (s *service) Create(ctx context.Context, params CreateParams) (*Task, error) {
	if _, err := s.owners.FindByID(ctx, params.UserID); err != nil {
		if platformerrors.IsType(err, platformerrors.ErrorTypeNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
				"User (owner) not found for given user_id", ErrOwnerNotFound)
		}
		s.log.Error().Err(err).Uint("user_id", params.UserID).Msg("resolve task owner")
		return nil, err
	}

	created, err := s.repo.Create(ctx, &Task{
		Title:       params.Title,
		Content:     params.Content,
		UserID:      params.UserID,
		IsCompleted: params.IsCompleted,
	})
	if err != nil {
		s.log.Error().Err(err).Uint("user_id", params.UserID).Msg("create task")
		return nil, err
	}
	s.log.Info().Uint("task_id", created.ID).Uint("user_id", created.UserID).Msg("task created")
	return created, nil
}

func (s *service) Get(ctx context.Context, id uint) (*Task, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Task, error) {
	tasks, err := s.repo.List(ctx, filter)
	if err != nil {
		s.log.Error().Err(err).Msg("list tasks")
		return nil, err
	}
	if tasks == nil {
		tasks = []*Task{}
	}
	return tasks, nil
}

func (s *service) Update(ctx context.Context, id uint, params UpdateParams) (*Task, error) {
	if params.Empty() {
		return s.repo.FindByID(ctx, id)
	}
	updated, err := s.repo.Update(ctx, id, params)
	if err != nil {
		if !platformerrors.IsType(err, platformerrors.ErrorTypeNotFound) {
			s.log.Error().Err(err).Uint("task_id", id).Msg("update task")
		}
		return nil, err
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if !platformerrors.IsType(err, platformerrors.ErrorTypeNotFound) {
			s.log.Error().Err(err).Uint("task_id", id).Msg("delete task")
		}
		return err
	}
	s.log.Info().Uint("task_id", id).Msg("task deleted")
	return nil
}
