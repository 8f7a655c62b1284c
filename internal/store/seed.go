package store

import (
	"context"
	"log/slog"

	"github.com/georgemunganga/bookstore-backend/internal/modules/catalog"
	"github.com/georgemunganga/bookstore-backend/internal/modules/user"
	"github.com/georgemunganga/bookstore-backend/internal/platform/apperr"
)

// SeedPassword is the password of every seeded account.
const SeedPassword = "password123"

type seedAccount struct {
	email string
	first string
	last  string
	role  user.Role
}

var seedAccounts = []seedAccount{
	{"admin@test.com", "Ada", "Admin", user.RoleAdmin},
	{"seller@test.com", "Sam", "Seller", user.RoleSeller},
	{"buyer@test.com", "Bea", "Buyer", user.RoleBuyer},
}

type seedBook struct {
	name  string
	desc  string
	price float64
}

var seedBooks = []seedBook{
	{"The Go Programming Language", "Donovan and Kernighan on idiomatic Go.", 34.99},
	{"Designing Data-Intensive Applications", "Reliable, scalable and maintainable systems.", 42.50},
	{"The Pragmatic Programmer", "From journeyman to master.", 29.95},
}

// Seed creates the demo accounts and lists the demo books under the seller.
// Accounts that already exist are left alone.
func Seed(ctx context.Context, users user.Service, books catalog.Service, logger *slog.Logger) error {
	var sellerID int64
	for _, a := range seedAccounts {
		u, err := users.CreateUser(ctx, user.RegisterRequest{
			Email:     a.email,
			Password:  SeedPassword,
			FirstName: a.first,
			LastName:  a.last,
		}, a.role)
		if apperr.Is(err, apperr.KindConflict) {
			logger.InfoContext(ctx, "seed account exists", "email", a.email)
			continue
		}
		if err != nil {
			return err
		}
		if a.role == user.RoleSeller {
			sellerID = u.ID
		}
	}
	if sellerID == 0 {
		return nil
	}

	for _, b := range seedBooks {
		price := b.price
		if _, err := books.CreateBook(ctx, sellerID, catalog.CreateBookRequest{
			BookName:        b.name,
			BookDescription: b.desc,
			BookPrice:       &price,
			BookPicture:     "https://placehold.co/200x300?text=Book",
		}); err != nil {
			return err
		}
	}
	logger.InfoContext(ctx, "seed data loaded",
		"accounts", len(seedAccounts), "books", len(seedBooks))
	return nil
}
