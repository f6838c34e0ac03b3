package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/e-ashyoviy-dalillar/evidence-service/internal/auth"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/domain"
)

type recordingRevoker struct {
	revoked map[string]time.Time
}

func (r *recordingRevoker) Revoke(_ context.Context, id string, exp time.Time) error {
	r.revoked[id] = exp
	return nil
}

func TestAuthService_LoginAndLogout(t *testing.T) {
	hash, err := auth.HashPassword("secret1", bcrypt.MinCost)
	require.NoError(t, err)
	user := investigator
	user.PasswordHash = hash
	repo := newFakeUserRepo(user)
	revoker := &recordingRevoker{revoked: map[string]time.Time{}}

	svc := NewAuthService(AuthDependencies{
		UserRepo:     repo,
		TokenManager: auth.NewTokenManager("k", time.Hour),
		Revoker:      revoker,
		Logger:       zap.NewNop(),
		Clock:        func() time.Time { return fixedNow },
	})
	ctx := context.Background()

	res, err := svc.Login(ctx, "Alisher", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, user.ID, res.Session.UserID)
	assert.Equal(t, fixedNow, repo.touched[user.ID])
	require.NotNil(t, res.User.LastActivity)

	session, err := svc.TokenManager().ParseToken(res.AccessToken)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, session))
	assert.Contains(t, revoker.revoked, session.TokenID)
}

func TestAuthService_LoginFailures(t *testing.T) {
	hash, err := auth.HashPassword("secret1", bcrypt.MinCost)
	require.NoError(t, err)
	user := admin
	user.PasswordHash = hash
	svc := NewAuthService(AuthDependencies{
		UserRepo:     newFakeUserRepo(user),
		TokenManager: auth.NewTokenManager("k", time.Hour),
		Logger:       zap.NewNop(),
	})

	_, err = svc.Login(context.Background(), "admin", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "nobody", "secret1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
