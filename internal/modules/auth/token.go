package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/georgemunganga/bookstore-backend/internal/modules/user"
	"github.com/georgemunganga/bookstore-backend/internal/platform/apperr"
)

// Payload is the identity a bearer token carries.
type Payload struct {
	SubjectID int64     `json:"subjectId"`
	Email     string    `json:"email"`
	Role      user.Role `json:"role"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.StandardClaims
}

// TokenCodec issues and verifies HS256-signed bearer tokens.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenCodec creates a codec signing with secret; ttl is the lifetime
// used when Issue is given a zero ttl.
func NewTokenCodec(secret []byte, ttl time.Duration) *TokenCodec {
	return &TokenCodec{secret: secret, ttl: ttl, now: time.Now}
}

// Issue signs a token for the subject that expires at now+ttl. A zero ttl
// uses the codec default.
func (c *TokenCodec) Issue(subjectID int64, email string, role user.Role, ttl time.Duration) (string, Payload, error) {
	if ttl == 0 {
		ttl = c.ttl
	}
	now := c.now()
	p := Payload{
		SubjectID: subjectID,
		Email:     email,
		Role:      role,
		IssuedAt:  now.Truncate(time.Second),
		ExpiresAt: now.Add(ttl).Truncate(time.Second),
	}
	cl := &claims{
		Email: email,
		Role:  string(role),
		StandardClaims: jwt.StandardClaims{
			Subject:   strconv.FormatInt(subjectID, 10),
			IssuedAt:  p.IssuedAt.Unix(),
			ExpiresAt: p.ExpiresAt.Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, cl)
	tokenString, err := token.SignedString(c.secret)
	if err != nil {
		return "", Payload{}, apperr.Internal(err, "sign token")
	}
	return tokenString, p, nil
}

// IssueFor signs a default-lifetime token for u.
func (c *TokenCodec) IssueFor(u *user.User) (string, Payload, error) {
	return c.Issue(u.ID, u.Email, u.Role, 0)
}

// Decode verifies the signature and expiry of tokenString and returns its
// payload. Every failure is Unauthorized.
func (c *TokenCodec) Decode(tokenString string) (Payload, error) {
	cl := &claims{}
	_, err := jwt.ParseWithClaims(tokenString, cl, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		var verr *jwt.ValidationError
		if errors.As(err, &verr) && verr.Errors&jwt.ValidationErrorExpired != 0 {
			return Payload{}, apperr.Unauthorized("token expired")
		}
		return Payload{}, apperr.Unauthorized("invalid token")
	}
	if cl.ExpiresAt == 0 {
		return Payload{}, apperr.Unauthorized("token has no expiry")
	}

	subjectID, err := strconv.ParseInt(cl.Subject, 10, 64)
	if err != nil || subjectID < 1 {
		return Payload{}, apperr.Unauthorized("invalid token subject")
	}
	role, ok := user.ParseRole(cl.Role)
	if !ok {
		return Payload{}, apperr.Unauthorized("invalid token role")
	}

	return Payload{
		SubjectID: subjectID,
		Email:     cl.Email,
		Role:      role,
		IssuedAt:  time.Unix(cl.IssuedAt, 0),
		ExpiresAt: time.Unix(cl.ExpiresAt, 0),
	}, nil
}
