package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/e-ashyoviy-dalillar/evidence-service/internal/auth"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/domain"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/repository"
)

// TokenRevoker invalidates tokens before they expire.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

// AuthService coordinates login flows.
type AuthService struct {
	users    repository.UserRepository
	tokenMgr *auth.TokenManager
	revoker  TokenRevoker
	logger   *zap.Logger
	now      func() time.Time
}

// AuthDependencies encapsulates collaborators for auth service.
type AuthDependencies struct {
	UserRepo     repository.UserRepository
	TokenManager *auth.TokenManager
	Revoker      TokenRevoker
	Logger       *zap.Logger
	Clock        func() time.Time
}

// LoginResult is a freshly issued token and its owner.
type LoginResult struct {
	AccessToken string
	Session     domain.Session
	User        *domain.User
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &AuthService{
		users:    deps.UserRepo,
		tokenMgr: deps.TokenManager,
		revoker:  deps.Revoker,
		logger:   deps.Logger,
		now:      clock,
	}
}

// Login authenticates by username and password and records the activity.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, err
	}

	token, session, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.users.TouchLastActivity(ctx, user.ID, now); err != nil {
		s.logger.Warn("failed to record last activity", zap.String("user_id", user.ID), zap.Error(err))
	} else {
		user.LastActivity = &now
	}

	return &LoginResult{AccessToken: token, Session: session, User: user}, nil
}

// Logout revokes the token behind session.
func (s *AuthService) Logout(ctx context.Context, session domain.Session) error {
	if s.revoker == nil {
		return nil
	}
	return s.revoker.Revoke(ctx, session.TokenID, session.ExpiresAt)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
