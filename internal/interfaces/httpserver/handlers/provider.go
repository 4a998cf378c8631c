package handlers

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	taskdomain "github.com/janhq/task-api/internal/domain/task"
	userdomain "github.com/janhq/task-api/internal/domain/user"
	"github.com/janhq/task-api/internal/utils/platformerrors"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	User    *UserHandler
	Task    *TaskHandler
	Chatbot *ChatbotHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(userService userdomain.Service, taskService taskdomain.Service, chatbot Chatbot, log zerolog.Logger) *Provider {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return &Provider{
		User:    NewUserHandler(userService, validate),
		Task:    NewTaskHandler(taskService, validate),
		Chatbot: NewChatbotHandler(chatbot, validate, log),
	}
}

func validationError(ctx context.Context, err error) error {
	return platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeValidation, err.Error(), err)
}
