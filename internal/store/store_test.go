package store

import (
	"context"
	"testing"
	"time"

	"github.com/go-taskgate/taskgate/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestStoreWithSQLite tests store operations with SQLite
func TestStoreWithSQLite(t *testing.T) {
	testBasicOperations(t, "sqlite", ":memory:")
}

// TestStoreWithPostgres tests store operations with PostgreSQL
func TestStoreWithPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping PostgreSQL integration test in short mode")
	}

	// Recover from panic if Docker is not available
	defer func() {
		if r := recover(); r != nil {
			t.Skipf("Skipping PostgreSQL test: Docker not available (panic: %v)", r)
		}
	}()

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Skipf("Skipping PostgreSQL test: %v", err)
	}
	defer func() {
		_ = pgContainer.Terminate(ctx)
	}()

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	testBasicOperations(t, "postgres", dsn)
}

func newTestStore(t *testing.T, driver, dsn string) *Store {
	t.Helper()
	s, err := New(context.Background(), driver, dsn)
	require.NoError(t, err)
	return s
}

func newTestUser(email string) *models.User {
	return &models.User{
		ID:           uuid.New().String(),
		Name:         "Test User",
		Email:        email,
		PasswordHash: "$2a$10$fakefakefakefakefakefakefakefakefakefakefakefakefake",
		Role:         models.RoleUser,
	}
}

func testBasicOperations(t *testing.T, driver, dsn string) {
	ctx := context.Background()
	s := newTestStore(t, driver, dsn)

	// Create and fetch a user
	user := newTestUser("alice@example.com")
	require.NoError(t, s.CreateUser(ctx, user))

	got, err := s.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, models.RoleUser, got.Role)

	byID, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)

	// Email lookup is case-sensitive exact match
	_, err = s.GetUserByEmail(ctx, "ALICE@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	// Duplicate email is rejected by the unique index
	dup := newTestUser("alice@example.com")
	err = s.CreateUser(ctx, dup)
	assert.ErrorIs(t, err, ErrEmailExists)

	// Role promotion by email
	require.NoError(t, s.UpdateUserRole(ctx, "alice@example.com", models.RoleAdmin))
	promoted, err := s.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin())

	err = s.UpdateUserRole(ctx, "nobody@example.com", models.RoleAdmin)
	assert.ErrorIs(t, err, ErrUserNotFound)

	// Task CRUD
	task := &models.Task{
		ID:      uuid.New().String(),
		Title:   "Write report",
		OwnerID: user.ID,
		Status:  models.TaskStatusPending,
	}
	require.NoError(t, s.CreateTask(ctx, task))

	fetched, err := s.GetTaskByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Write report", fetched.Title)
	assert.Equal(t, user.ID, fetched.OwnerID)

	fetched.Title = "Write quarterly report"
	fetched.Status = "in_progress"
	require.NoError(t, s.UpdateTask(ctx, fetched))

	updated, err := s.GetTaskByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Write quarterly report", updated.Title)
	assert.Equal(t, "in_progress", updated.Status)

	// Listing is scoped to the owner
	other := newTestUser("bob@example.com")
	require.NoError(t, s.CreateUser(ctx, other))
	otherTask := &models.Task{
		ID:      uuid.New().String(),
		Title:   "Bob's task",
		OwnerID: other.ID,
		Status:  models.TaskStatusPending,
	}
	require.NoError(t, s.CreateTask(ctx, otherTask))

	aliceTasks, err := s.GetTasksByOwner(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, aliceTasks, 1)
	assert.Equal(t, task.ID, aliceTasks[0].ID)

	// Counts feed the metrics gauges
	userCount, err := s.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), userCount)

	taskCount, err := s.CountTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), taskCount)

	// Delete
	require.NoError(t, s.DeleteTask(ctx, task.ID))
	_, err = s.GetTaskByID(ctx, task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	// Health check
	assert.NoError(t, s.Health())
}

func TestGetDialector_UnsupportedDriver(t *testing.T) {
	_, err := GetDialector("oracle", "dsn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestBackfillTaskStatus(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "sqlite", ":memory:")

	user := newTestUser("carol@example.com")
	require.NoError(t, s.CreateUser(ctx, user))

	// Simulate a pre-status row
	task := &models.Task{
		ID:      uuid.New().String(),
		Title:   "Legacy task",
		OwnerID: user.ID,
	}
	require.NoError(t, s.CreateTask(ctx, task))
	require.NoError(t, s.DB().Model(&models.Task{}).
		Where("id = ?", task.ID).
		Update("status", "").Error)

	require.NoError(t, s.BackfillTaskStatus(ctx))

	got, err := s.GetTaskByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusPending, got.Status)
}
