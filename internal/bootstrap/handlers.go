package bootstrap

import (
	"github.com/go-taskgate/taskgate/internal/handlers"
	"github.com/go-taskgate/taskgate/internal/services"
)

// handlerSet groups all HTTP handlers
type handlerSet struct {
	user *handlers.UserHandler
	task *handlers.TaskHandler
}

// initializeHandlers creates all HTTP handlers
func initializeHandlers(
	userService *services.UserService,
	taskService *services.TaskService,
) handlerSet {
	return handlerSet{
		user: handlers.NewUserHandler(userService),
		task: handlers.NewTaskHandler(taskService),
	}
}
