package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-taskgate/taskgate/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store wraps the database handle. It is constructed once at startup and
// passed into every component that needs persistence; there is no
// process-wide singleton.
type Store struct {
	db *gorm.DB
}

func New(ctx context.Context, driver, dsn string) (*Store, error) {
	dialector, err := GetDialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true, // unique violations surface as gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, err
	}

	if err := db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Task{},
	); err != nil {
		return nil, err
	}

	s := &Store{db: db}

	// Tasks created before the status column existed get the default
	if err := s.BackfillTaskStatus(ctx); err != nil {
		return nil, fmt.Errorf("failed to backfill task status: %w", err)
	}

	return s, nil
}

// User operations

// GetUserByEmail finds a user by email address (case-sensitive exact match)
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByID finds a user by primary key
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts a new user. The unique index on email closes the
// check-then-insert race between concurrent registrations.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailExists
		}
		return err
	}
	return nil
}

// UpdateUserRole sets the role of the user with the given email.
// Used by the admin CLI only; roles are never mutated via the public API.
func (s *Store) UpdateUserRole(ctx context.Context, email, role string) error {
	res := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// CountUsers returns the total number of users
func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}

// Task operations

func (s *Store) CreateTask(ctx context.Context, task *models.Task) error {
	return s.db.WithContext(ctx).Create(task).Error
}

func (s *Store) GetTaskByID(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

// GetTasksByOwner returns all tasks owned by the given user, newest first
func (s *Store) GetTasksByOwner(ctx context.Context, ownerID string) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Store) UpdateTask(ctx context.Context, task *models.Task) error {
	return s.db.WithContext(ctx).Save(task).Error
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&models.Task{}, "id = ?", id).Error
}

// CountTasks returns the total number of tasks
func (s *Store) CountTasks(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Task{}).Count(&count).Error
	return count, err
}

// BackfillTaskStatus assigns the default status to tasks that predate the
// status column
func (s *Store) BackfillTaskStatus(ctx context.Context) error {
	return s.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("status = ? OR status IS NULL", "").
		Update("status", models.TaskStatusPending).Error
}

// Health checks the database connection
func (s *Store) Health() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// DB returns the underlying GORM database connection (for transactions)
func (s *Store) DB() *gorm.DB {
	return s.db
}
