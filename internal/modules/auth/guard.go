package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/georgemunganga/bookstore-backend/internal/modules/user"
	"github.com/georgemunganga/bookstore-backend/internal/platform/apperr"
	"github.com/georgemunganga/bookstore-backend/internal/platform/web"
)

type payloadKey struct{}

// WithPayload stores the authenticated caller on ctx.
func WithPayload(ctx context.Context, p Payload) context.Context {
	return context.WithValue(ctx, payloadKey{}, p)
}

// PayloadFrom returns the caller stored by Guard.Require.
func PayloadFrom(ctx context.Context) (Payload, bool) {
	p, ok := ctx.Value(payloadKey{}).(Payload)
	return p, ok
}

// Guard checks bearer tokens and roles on protected routes.
type Guard struct {
	codec *TokenCodec
}

func NewGuard(codec *TokenCodec) *Guard { return &Guard{codec: codec} }

// Authenticate extracts and decodes the bearer token of r.
func (g *Guard) Authenticate(r *http.Request) (Payload, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return Payload{}, apperr.Unauthorized("missing authorization header")
	}
	scheme, token, found := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return Payload{}, apperr.Unauthorized("malformed authorization header")
	}
	return g.codec.Decode(token)
}

// Authorize fails with Forbidden when allowed is non-empty and does not
// contain the caller's role.
func Authorize(p Payload, allowed ...user.Role) error {
	if len(allowed) == 0 {
		return nil
	}
	for _, role := range allowed {
		if p.Role == role {
			return nil
		}
	}
	return apperr.Forbidden("role %s is not allowed to perform this action", p.Role)
}

// Require is middleware running Authenticate then Authorize. Failures are
// rendered by onError so each endpoint family keeps its response shape.
func (g *Guard) Require(onError web.ErrorWriter, allowed ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := g.Authenticate(r)
			if err != nil {
				onError(w, r, err)
				return
			}
			if err := Authorize(p, allowed...); err != nil {
				onError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPayload(r.Context(), p)))
		})
	}
}

// Caller returns the payload stored by Require, or Unauthorized when the
// route was not guarded.
func Caller(r *http.Request) (Payload, error) {
	p, ok := PayloadFrom(r.Context())
	if !ok {
		return Payload{}, apperr.Unauthorized("missing credentials")
	}
	return p, nil
}
