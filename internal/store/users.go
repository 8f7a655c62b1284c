package store

import (
	"context"

	"github.com/georgemunganga/bookstore-backend/internal/modules/user"
	"github.com/georgemunganga/bookstore-backend/internal/platform/apperr"
)

type userRepo struct{ m *Memory }

func cloneUser(u *user.User) *user.User {
	cp := *u
	return &cp
}

func (r userRepo) CreateUser(ctx context.Context, u *user.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	email := user.NormalizeEmail(u.Email)
	if _, taken := r.m.usersByMail[email]; taken {
		return apperr.Conflict("email %s is already registered", email)
	}
	u.ID = r.m.userSeq.Next()
	u.Email = email
	r.m.users[u.ID] = cloneUser(u)
	r.m.usersByMail[email] = u.ID
	return nil
}

func (r userRepo) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	id, ok := r.m.usersByMail[user.NormalizeEmail(email)]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return cloneUser(r.m.users[id]), nil
}

func (r userRepo) GetUserByID(ctx context.Context, id int64) (*user.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	u, ok := r.m.users[id]
	if !ok {
		return nil, apperr.NotFound("user %d not found", id)
	}
	return cloneUser(u), nil
}

func (r userRepo) UpdateRole(ctx context.Context, id int64, role user.Role) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	u, ok := r.m.users[id]
	if !ok {
		return apperr.NotFound("user %d not found", id)
	}
	u.Role = role
	return nil
}
