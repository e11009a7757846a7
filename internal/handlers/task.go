package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-taskgate/taskgate/internal/middleware"
	"github.com/go-taskgate/taskgate/internal/models"
	"github.com/go-taskgate/taskgate/internal/services"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(ts *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: ts,
	}
}

type taskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type taskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newTaskResponse(task *models.Task) taskResponse {
	return taskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		OwnerID:     task.OwnerID,
		Status:      task.Status,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// Create stores a new task owned by the authenticated user.
func (h *TaskHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "could not validate credentials"})
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), user, services.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		log.Printf("[Tasks] Create failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

// List returns the authenticated user's own tasks.
func (h *TaskHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "could not validate credentials"})
		return
	}

	tasks, err := h.taskService.ListOwn(c.Request.Context(), user)
	if err != nil {
		log.Printf("[Tasks] List failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		response = append(response, newTaskResponse(&tasks[i]))
	}

	c.JSON(http.StatusOK, response)
}

// Get returns a single task by id.
func (h *TaskHandler) Get(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "could not validate credentials"})
		return
	}

	task, err := h.taskService.Get(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		h.renderTaskError(c, err, "Get")
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

// Update replaces the writable fields of a task.
func (h *TaskHandler) Update(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "could not validate credentials"})
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), user, c.Param("id"), services.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		h.renderTaskError(c, err, "Update")
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

// Delete removes a task by id.
func (h *TaskHandler) Delete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "could not validate credentials"})
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), user, c.Param("id")); err != nil {
		h.renderTaskError(c, err, "Delete")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// renderTaskError maps service errors to HTTP responses. Not-found is
// checked first in the service layer, so probing ids never reveals
// whether a task exists.
func (h *TaskHandler) renderTaskError(c *gin.Context, err error, operation string) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case errors.Is(err, services.ErrTaskForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to access this task"})
	default:
		log.Printf("[Tasks] %s failed: %v", operation, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
