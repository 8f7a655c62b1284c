package auth

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/bookstore-backend/internal/modules/user"
	"github.com/georgemunganga/bookstore-backend/internal/platform/apperr"
)

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := NewTokenCodec([]byte("secret"), time.Hour)

	token, issued, err := codec.Issue(42, "reader@test.com", user.RoleBuyer, 0)
	require.NoError(t, err)

	got, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.SubjectID)
	assert.Equal(t, "reader@test.com", got.Email)
	assert.Equal(t, user.RoleBuyer, got.Role)
	assert.Equal(t, issued.ExpiresAt.Unix(), got.ExpiresAt.Unix())
	assert.WithinDuration(t, time.Now().Add(time.Hour), got.ExpiresAt, 2*time.Second)
}

func TestTokenCodec_Expired(t *testing.T) {
	codec := NewTokenCodec([]byte("secret"), time.Hour)

	token, _, err := codec.Issue(1, "a@test.com", user.RoleAdmin, -time.Minute)
	require.NoError(t, err)

	_, err = codec.Decode(token)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
	assert.Contains(t, err.Error(), "expired")
}

func TestTokenCodec_Rejects(t *testing.T) {
	codec := NewTokenCodec([]byte("secret"), time.Hour)
	other := NewTokenCodec([]byte("other-secret"), time.Hour)

	foreign, _, err := other.Issue(1, "a@test.com", user.RoleBuyer, 0)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &claims{
		Role: "BUYER",
		StandardClaims: jwt.StandardClaims{
			Subject:   "1",
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	sign := func(cl *claims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString([]byte("secret"))
		require.NoError(t, err)
		return s
	}
	exp := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"empty", ""},
		{"wrong key", foreign},
		{"alg none", unsigned},
		{"no expiry", sign(&claims{Role: "BUYER", StandardClaims: jwt.StandardClaims{Subject: "1"}})},
		{"non-numeric subject", sign(&claims{Role: "BUYER", StandardClaims: jwt.StandardClaims{Subject: "abc", ExpiresAt: exp}})},
		{"unknown role", sign(&claims{Role: "KING", StandardClaims: jwt.StandardClaims{Subject: "1", ExpiresAt: exp}})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Decode(tt.token)
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
		})
	}
}
