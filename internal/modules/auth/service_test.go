package auth_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/georgemunganga/bookstore-backend/internal/modules/auth"
	"github.com/georgemunganga/bookstore-backend/internal/modules/user"
	"github.com/georgemunganga/bookstore-backend/internal/platform/apperr"
	"github.com/georgemunganga/bookstore-backend/internal/store"
)

func newAuth(t *testing.T) (auth.Service, user.Repository, *auth.TokenCodec) {
	t.Helper()
	repo := store.NewMemory().Users()
	codec := auth.NewTokenCodec([]byte("secret"), time.Hour)
	users := user.NewServiceWithCost(repo, bcrypt.MinCost)
	return auth.NewService(users, repo, codec), repo, codec
}

func register(t *testing.T, svc auth.Service, email, role string) *auth.Session {
	t.Helper()
	s, err := svc.Register(context.Background(), user.RegisterRequest{
		Email: email, Password: "password123", FirstName: "A", LastName: "B", Role: role,
	})
	require.NoError(t, err)
	return s
}

func TestService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, codec := newAuth(t)

	reg := register(t, svc, "Reader@Test.com", "")
	assert.Equal(t, user.RoleBuyer, reg.User.Role)
	assert.Equal(t, "reader@test.com", reg.User.Email)

	p, err := codec.Decode(reg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, p.SubjectID)

	s, err := svc.Login(ctx, "READER@test.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, s.User.ID)

	_, err = svc.Login(ctx, "reader@test.com", "wrong")
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	_, err = svc.Login(ctx, "nobody@test.com", "password123")
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}

func TestService_RegisterRules(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuth(t)
	register(t, svc, "dup@test.com", "SELLER")

	_, err := svc.Register(ctx, user.RegisterRequest{
		Email: "DUP@test.com", Password: "password123", FirstName: "A", LastName: "B",
	})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	_, err = svc.Register(ctx, user.RegisterRequest{
		Email: "short@test.com", Password: "abc", FirstName: "A", LastName: "B",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, apperr.StatusOf(err))

	_, err = svc.Register(ctx, user.RegisterRequest{
		Email: "boss@test.com", Password: "password123", FirstName: "A", LastName: "B", Role: "ADMIN",
	})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestService_LoginSuspended(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newAuth(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, repo.CreateUser(ctx, &user.User{
		Email:         "gone@test.com",
		PasswordHash:  string(hash),
		Role:          user.RoleBuyer,
		AccountStatus: user.StatusSuspended,
	}))

	_, err = svc.Login(ctx, "gone@test.com", "password123")
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestService_MeAndRefresh(t *testing.T) {
	ctx := context.Background()
	svc, _, codec := newAuth(t)
	reg := register(t, svc, "me@test.com", "")

	me, err := svc.Me(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "me@test.com", me.Email)

	s, err := svc.Refresh(ctx, reg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, s.User.ID)

	orphan, _, err := codec.Issue(999, "ghost@test.com", user.RoleBuyer, 0)
	require.NoError(t, err)
	_, err = svc.Refresh(ctx, orphan)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	_, err = svc.Refresh(ctx, "garbage")
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}
