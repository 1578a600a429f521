package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/billing-portal/internal/auth"
	"github.com/spec-kit/billing-portal/internal/config"
	"github.com/spec-kit/billing-portal/internal/domain"
	"github.com/spec-kit/billing-portal/internal/events"
	"github.com/spec-kit/billing-portal/internal/repository"
)

// AuthService coordinates registration, login and account listing.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	throttle   LoginThrottle
	bcryptCost int
	events     publisher
	logger     *zap.Logger
}

// AuthDependencies encapsulates collaborators of the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Throttle   LoginThrottle
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// RegisterInput is the self-registration payload.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	throttle := deps.Throttle
	if throttle == nil {
		throttle = noopThrottle{}
	}
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL()),
		throttle:   throttle,
		bcryptCost: cfg.Auth.BcryptCost,
		events:     newPublisher(deps.Dispatcher, logger),
		logger:     logger,
	}
}

// Register creates a customer account. Uniqueness of the email is left to the
// store's constraint so concurrent registrations cannot both succeed.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	email := strings.TrimSpace(input.Email)
	name := strings.TrimSpace(input.Name)
	if email == "" || name == "" || input.Password == "" {
		return nil, ErrMissingFields
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleCustomer,
		Name:         name,
		Phone:        strings.TrimSpace(input.Phone),
		Address:      strings.TrimSpace(input.Address),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	s.events.publish(ctx, events.Event{
		Type:      events.EventUserRegistered,
		SubjectID: user.ID,
		OwnerID:   user.ID,
		Actor:     actorOf(domain.IdentityOf(user)),
		Payload:   events.UserRegisteredPayload{Email: user.Email, Name: user.Name},
	})
	return user, nil
}

// Login authenticates a user and issues a session token. Unknown emails and
// wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", time.Time{}, ErrMissingFields
	}

	allowed, err := s.throttle.Allow(ctx, email)
	if err != nil {
		s.logger.Warn("login throttle unavailable", zap.Error(err))
	}
	if !allowed {
		return nil, "", time.Time{}, ErrTooManyAttempts
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, err
		}
		auth.CompareDecoy(password, s.bcryptCost)
		s.recordFailure(ctx, email)
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.recordFailure(ctx, email)
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	if err := s.throttle.Reset(ctx, email); err != nil {
		s.logger.Warn("login throttle reset failed", zap.Error(err))
	}

	token, exp, err := s.tokenMgr.GenerateToken(domain.IdentityOf(user))
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if err := s.throttle.RecordFailure(ctx, email); err != nil {
		s.logger.Warn("login throttle update failed", zap.Error(err))
	}
}

// ListUsers returns accounts newest first, optionally filtered by role.
func (s *AuthService) ListUsers(ctx context.Context, role *domain.Role) ([]domain.User, error) {
	return s.users.List(ctx, role)
}

// EnsureAdmin creates the configured administrator unless the email is
// already registered. It reports whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, cfg config.AdminConfig) (bool, error) {
	if cfg.Email == "" || cfg.Password == "" {
		return false, nil
	}
	hash, err := auth.HashPassword(cfg.Password, s.bcryptCost)
	if err != nil {
		return false, err
	}
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = "Administrator"
	}
	return s.users.CreateIfAbsent(ctx, &domain.User{
		Email:        strings.TrimSpace(cfg.Email),
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Name:         name,
	})
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
