package services

import (
	"context"
	"errors"

	"github.com/go-taskgate/taskgate/internal/metrics"
	"github.com/go-taskgate/taskgate/internal/models"
	"github.com/go-taskgate/taskgate/internal/store"

	"github.com/google/uuid"
)

var (
	// ErrTaskNotFound is returned when the task id matches no record
	ErrTaskNotFound = errors.New("task not found")

	// ErrTaskForbidden is returned when the acting user is neither the
	// task's owner nor an admin
	ErrTaskForbidden = errors.New("not authorized to access this task")
)

// TaskInput carries the client-writable task fields.
type TaskInput struct {
	Title       string
	Description string
	Status      string
}

type TaskService struct {
	store   *store.Store
	metrics metrics.Recorder
}

func NewTaskService(s *store.Store, m metrics.Recorder) *TaskService {
	return &TaskService{
		store:   s,
		metrics: m,
	}
}

// Create stores a new task owned by the acting user. Ownership is fixed
// here and never transfers.
func (s *TaskService) Create(
	ctx context.Context,
	user *models.User,
	in TaskInput,
) (*models.Task, error) {
	status := in.Status
	if status == "" {
		status = models.TaskStatusPending
	}

	task := &models.Task{
		ID:          uuid.New().String(),
		Title:       in.Title,
		Description: in.Description,
		OwnerID:     user.ID,
		Status:      status,
	}

	if err := s.store.CreateTask(ctx, task); err != nil {
		s.metrics.RecordTaskOperation("create", "error")
		s.metrics.RecordDatabaseQueryError("create_task")
		return nil, err
	}

	s.metrics.RecordTaskOperation("create", "success")
	return task, nil
}

// ListOwn returns the acting user's tasks. Listing is always scoped to the
// acting identity, admins included.
func (s *TaskService) ListOwn(ctx context.Context, user *models.User) ([]models.Task, error) {
	tasks, err := s.store.GetTasksByOwner(ctx, user.ID)
	if err != nil {
		s.metrics.RecordTaskOperation("list", "error")
		s.metrics.RecordDatabaseQueryError("get_tasks_by_owner")
		return nil, err
	}
	s.metrics.RecordTaskOperation("list", "success")
	return tasks, nil
}

// Get returns a single task if the acting user may access it.
func (s *TaskService) Get(
	ctx context.Context,
	user *models.User,
	id string,
) (*models.Task, error) {
	task, err := s.fetchAuthorized(ctx, user, id, "get")
	if err != nil {
		return nil, err
	}
	s.metrics.RecordTaskOperation("get", "success")
	return task, nil
}

// Update replaces the client-writable fields of a task. An omitted status
// falls back to the default, mirroring creation.
func (s *TaskService) Update(
	ctx context.Context,
	user *models.User,
	id string,
	in TaskInput,
) (*models.Task, error) {
	task, err := s.fetchAuthorized(ctx, user, id, "update")
	if err != nil {
		return nil, err
	}

	task.Title = in.Title
	task.Description = in.Description
	task.Status = in.Status
	if task.Status == "" {
		task.Status = models.TaskStatusPending
	}

	if err := s.store.UpdateTask(ctx, task); err != nil {
		s.metrics.RecordTaskOperation("update", "error")
		s.metrics.RecordDatabaseQueryError("update_task")
		return nil, err
	}

	s.metrics.RecordTaskOperation("update", "success")
	return task, nil
}

// Delete removes a task if the acting user may access it.
func (s *TaskService) Delete(ctx context.Context, user *models.User, id string) error {
	if _, err := s.fetchAuthorized(ctx, user, id, "delete"); err != nil {
		return err
	}

	if err := s.store.DeleteTask(ctx, id); err != nil {
		s.metrics.RecordTaskOperation("delete", "error")
		s.metrics.RecordDatabaseQueryError("delete_task")
		return err
	}

	s.metrics.RecordTaskOperation("delete", "success")
	return nil
}

// fetchAuthorized loads a task and applies the ownership check.
// Not-found is reported before forbidden, so a non-owner probing a
// nonexistent id sees "not found".
func (s *TaskService) fetchAuthorized(
	ctx context.Context,
	user *models.User,
	id, operation string,
) (*models.Task, error) {
	task, err := s.store.GetTaskByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			s.metrics.RecordTaskOperation(operation, "not_found")
			return nil, ErrTaskNotFound
		}
		s.metrics.RecordTaskOperation(operation, "error")
		s.metrics.RecordDatabaseQueryError("get_task_by_id")
		return nil, err
	}

	if !task.IsOwnedBy(user.ID) && !user.IsAdmin() {
		s.metrics.RecordTaskOperation(operation, "forbidden")
		return nil, ErrTaskForbidden
	}

	return task, nil
}
