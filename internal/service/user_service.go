package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/e-ashyoviy-dalillar/evidence-service/internal/auth"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/domain"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/repository"
)

// UserService manages accounts.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
	stats      CacheInvalidator
	logger     *zap.Logger
}

// UserInput describes a new account.
type UserInput struct {
	Username    string
	PhoneNumber string
	FullName    string
	Password    string
	Role        domain.Role
}

// UserPatch describes a partial account update.
type UserPatch struct {
	Username    *string
	PhoneNumber *string
	FullName    *string
	Password    *string
	Role        *domain.Role
}

// NewUserService constructs the service. stats may be nil.
func NewUserService(users repository.UserRepository, bcryptCost int, stats CacheInvalidator, logger *zap.Logger) *UserService {
	return &UserService{users: users, bcryptCost: bcryptCost, stats: stats, logger: logger}
}

// List returns all accounts.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// Get returns one account.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrUserNotFound
	}
	return s.users.GetByID(ctx, id)
}

// Create adds an account.
func (s *UserService) Create(ctx context.Context, input UserInput) (*domain.User, error) {
	role, err := domain.ParseRole(string(input.Role))
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		ID:           uuid.NewString(),
		FullName:     strings.TrimSpace(input.FullName),
		Username:     strings.TrimSpace(input.Username),
		PhoneNumber:  strings.TrimSpace(input.PhoneNumber),
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user created", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	s.invalidateStats(ctx)
	return user, nil
}

// Update changes an account.
func (s *UserService) Update(ctx context.Context, id string, patch UserPatch) (*domain.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Username != nil {
		user.Username = strings.TrimSpace(*patch.Username)
	}
	if patch.PhoneNumber != nil {
		user.PhoneNumber = strings.TrimSpace(*patch.PhoneNumber)
	}
	if patch.FullName != nil {
		user.FullName = strings.TrimSpace(*patch.FullName)
	}
	if patch.Role != nil {
		role, err := domain.ParseRole(string(*patch.Role))
		if err != nil {
			return nil, err
		}
		user.Role = role
	}
	if patch.Password != nil && *patch.Password != "" {
		hash, err := auth.HashPassword(*patch.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes an account. Callers cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, caller domain.User, id string) error {
	if caller.ID == id {
		return domain.ErrCannotDeleteSelf
	}
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrUserNotFound
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", zap.String("user_id", id), zap.String("by", caller.Username))
	s.invalidateStats(ctx)
	return nil
}

// The dashboard carries the account total.
func (s *UserService) invalidateStats(ctx context.Context) {
	if s.stats == nil {
		return
	}
	if err := s.stats.Invalidate(ctx); err != nil {
		s.logger.Warn("stats cache invalidation failed", zap.Error(err))
	}
}

// EnsureBootstrapAdmin creates the first admin when the table is empty.
func (s *UserService) EnsureBootstrapAdmin(ctx context.Context, username, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil
	}
	total, err := s.users.Count(ctx)
	if err != nil {
		return err
	}
	if total > 0 {
		return nil
	}
	_, err = s.Create(ctx, UserInput{
		Username: username,
		FullName: "Administrator",
		Password: password,
		Role:     domain.RoleAdmin,
	})
	return err
}
