package user_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/georgemunganga/bookstore-backend/internal/modules/user"
	"github.com/georgemunganga/bookstore-backend/internal/platform/apperr"
	"github.com/georgemunganga/bookstore-backend/internal/store"
)

func newService() user.Service {
	return user.NewServiceWithCost(store.NewMemory().Users(), bcrypt.MinCost)
}

func validRequest(email string) user.RegisterRequest {
	return user.RegisterRequest{Email: email, Password: "secret1", FirstName: "Ann", LastName: "Lee"}
}

func TestRegisterUser(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	u, err := svc.RegisterUser(ctx, validRequest("  Ann@Example.COM "))
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "ann@example.com", u.Email)
	assert.Equal(t, user.RoleBuyer, u.Role)
	assert.Equal(t, user.StatusActive, u.AccountStatus)
	assert.NotEqual(t, "secret1", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")))

	seller := validRequest("sam@example.com")
	seller.Role = "seller"
	s, err := svc.RegisterUser(ctx, seller)
	require.NoError(t, err)
	assert.Equal(t, int64(2), s.ID)
	assert.Equal(t, user.RoleSeller, s.Role)
}

func TestRegisterUser_Failures(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	_, err := svc.RegisterUser(ctx, validRequest("taken@example.com"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*user.RegisterRequest)
		status int
	}{
		{"duplicate email", func(r *user.RegisterRequest) { r.Email = "TAKEN@example.com" }, http.StatusConflict},
		{"missing last name", func(r *user.RegisterRequest) { r.LastName = "" }, http.StatusBadRequest},
		{"short password", func(r *user.RegisterRequest) { r.Password = "12345" }, http.StatusUnprocessableEntity},
		{"admin role", func(r *user.RegisterRequest) { r.Role = "ADMIN" }, http.StatusBadRequest},
		{"unknown role", func(r *user.RegisterRequest) { r.Role = "OWNER" }, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest("new@example.com")
			tt.mutate(&req)
			_, err := svc.RegisterUser(ctx, req)
			require.Error(t, err)
			assert.Equal(t, tt.status, apperr.StatusOf(err))
		})
	}
}

func TestChangeRole(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	u, err := svc.RegisterUser(ctx, validRequest("ann@example.com"))
	require.NoError(t, err)

	updated, err := svc.ChangeRole(ctx, u.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, updated.Role)

	_, err = svc.ChangeRole(ctx, u.ID, "emperor")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.ChangeRole(ctx, 99, "BUYER")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestCreateUser_AnyRole(t *testing.T) {
	u, err := newService().CreateUser(context.Background(), validRequest("root@example.com"), user.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, u.Role)
}
