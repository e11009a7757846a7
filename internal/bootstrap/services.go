package bootstrap

import (
	"github.com/go-taskgate/taskgate/internal/config"
	"github.com/go-taskgate/taskgate/internal/metrics"
	"github.com/go-taskgate/taskgate/internal/services"
	"github.com/go-taskgate/taskgate/internal/store"
	"github.com/go-taskgate/taskgate/internal/token"
)

// initializeServices creates the business services
func initializeServices(
	cfg *config.Config,
	db *store.Store,
	recorder metrics.Recorder,
) (*services.UserService, *services.TaskService, *token.Provider) {
	tokenProvider := token.NewProvider(cfg)

	userService := services.NewUserService(db, tokenProvider, recorder)
	taskService := services.NewTaskService(db, recorder)

	return userService, taskService, tokenProvider
}
