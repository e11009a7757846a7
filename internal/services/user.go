package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-taskgate/taskgate/internal/auth"
	"github.com/go-taskgate/taskgate/internal/metrics"
	"github.com/go-taskgate/taskgate/internal/models"
	"github.com/go-taskgate/taskgate/internal/store"
	"github.com/go-taskgate/taskgate/internal/token"

	"github.com/google/uuid"
)

var (
	// ErrEmailTaken is returned when registering with an email that is
	// already in use
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned for both unknown email and wrong
	// password, so responses never reveal which one failed
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUserNotFound is returned when a token subject resolves to no user
	ErrUserNotFound = errors.New("user not found")
)

type UserService struct {
	store   *store.Store
	tokens  *token.Provider
	metrics metrics.Recorder
}

func NewUserService(s *store.Store, tokens *token.Provider, m metrics.Recorder) *UserService {
	return &UserService{
		store:   s,
		tokens:  tokens,
		metrics: m,
	}
}

// Register creates a new user with role "user" and a bcrypt password hash.
// The email uniqueness check runs application-side first for a clean error,
// and the store's unique index backstops concurrent registrations.
func (s *UserService) Register(
	ctx context.Context,
	name, email, password string,
) (*models.User, error) {
	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		s.metrics.RecordRegistration("conflict")
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrUserNotFound) {
		s.metrics.RecordDatabaseQueryError("get_user_by_email")
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			s.metrics.RecordRegistration("conflict")
			return nil, ErrEmailTaken
		}
		s.metrics.RecordRegistration("error")
		s.metrics.RecordDatabaseQueryError("create_user")
		return nil, err
	}

	s.metrics.RecordRegistration("success")
	log.Printf("[Auth] New user registered: %s", email)
	return user, nil
}

// Login verifies credentials and issues an access token carrying the user's
// email as subject and their role at issuance time.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			s.metrics.RecordDatabaseQueryError("get_user_by_email")
			return "", err
		}
		// Unknown email and wrong password are indistinguishable to the caller
		s.metrics.RecordLogin(false)
		return "", ErrInvalidCredentials
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		s.metrics.RecordLogin(false)
		return "", ErrInvalidCredentials
	}

	start := time.Now()
	tokenString, err := s.tokens.Issue(user.Email, user.Role)
	if err != nil {
		return "", err
	}
	s.metrics.RecordTokenIssued(time.Since(start))
	s.metrics.RecordLogin(true)

	return tokenString, nil
}

// GetUserByEmail resolves a token subject to a stored user record.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		s.metrics.RecordDatabaseQueryError("get_user_by_email")
		return nil, err
	}
	return user, nil
}
