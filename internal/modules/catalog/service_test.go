package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/bookstore-backend/internal/modules/catalog"
	"github.com/georgemunganga/bookstore-backend/internal/platform/apperr"
	"github.com/georgemunganga/bookstore-backend/internal/store"
)

func ptr[T any](v T) *T { return &v }

func createRequest(name string, price float64) catalog.CreateBookRequest {
	return catalog.CreateBookRequest{
		BookName:        name,
		BookDescription: "desc",
		BookPrice:       ptr(price),
		BookPicture:     "pic.png",
	}
}

func TestCreateAndList(t *testing.T) {
	ctx := context.Background()
	svc := catalog.NewService(store.NewMemory().Books())

	a, err := svc.CreateBook(ctx, 2, createRequest("Dune", 9.99))
	require.NoError(t, err)
	b, err := svc.CreateBook(ctx, 3, createRequest("Emma", 0))
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.BookID)
	assert.Equal(t, int64(2), b.BookID)

	all, err := svc.ListBooks(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Dune", all[0].BookName)

	mine, err := svc.ListBooks(ctx, 3)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Emma", mine[0].BookName)

	_, err = svc.CreateBook(ctx, 2, createRequest("Bad", -1))
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestUpdateIsPartial(t *testing.T) {
	ctx := context.Background()
	svc := catalog.NewService(store.NewMemory().Books())
	b, err := svc.CreateBook(ctx, 2, createRequest("Dune", 9.99))
	require.NoError(t, err)

	updated, err := svc.UpdateBook(ctx, b.BookID, catalog.UpdateBookRequest{BookPrice: ptr(12.5)})
	require.NoError(t, err)
	assert.Equal(t, 12.5, updated.BookPrice)
	assert.Equal(t, "Dune", updated.BookName)
	assert.Equal(t, "desc", updated.BookDescription)

	_, err = svc.UpdateBook(ctx, b.BookID, catalog.UpdateBookRequest{BookName: ptr("  ")})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.UpdateBook(ctx, 404, catalog.UpdateBookRequest{BookName: ptr("X")})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc := catalog.NewService(store.NewMemory().Books())
	b, err := svc.CreateBook(ctx, 2, createRequest("Dune", 9.99))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBook(ctx, b.BookID))
	_, err = svc.GetBook(ctx, b.BookID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.True(t, apperr.Is(svc.DeleteBook(ctx, b.BookID), apperr.KindNotFound))
}
