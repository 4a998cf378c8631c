//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/janhq/task-api/internal/config"
	"github.com/janhq/task-api/internal/infrastructure/logger"
)

var storageSet = wire.NewSet(
	newStorage,
	newPasswordHasher,
	newUserService,
	newTaskService,
)

var chatbotSet = wire.NewSet(
	newCatalog,
	newRouterRef,
	newToolTransport,
	newDescriptorSource,
	newDispatcher,
	newCompletionProvider,
	newOrchestrator,
)

// BuildApplication assembles the task service with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		storageSet,
		chatbotSet,
		newHTTPServer,
		NewApplication,
	)
	return nil, nil
}
