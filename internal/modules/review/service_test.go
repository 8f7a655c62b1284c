package review_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/bookstore-backend/internal/modules/catalog"
	"github.com/georgemunganga/bookstore-backend/internal/modules/review"
	"github.com/georgemunganga/bookstore-backend/internal/modules/user"
	"github.com/georgemunganga/bookstore-backend/internal/platform/apperr"
	"github.com/georgemunganga/bookstore-backend/internal/store"
)

func ptr[T any](v T) *T { return &v }

func newService(t *testing.T) (review.Service, int64) {
	t.Helper()
	mem := store.NewMemory()
	b := &catalog.Book{BookName: "Dune", BookPrice: 10, SellerID: 1}
	require.NoError(t, mem.Books().Create(context.Background(), b))
	return review.NewService(mem.Reviews(), mem.Books()), b.BookID
}

func TestCreate_RatingBounds(t *testing.T) {
	ctx := context.Background()
	svc, bookID := newService(t)

	for _, rating := range []int{0, 6, -1} {
		t.Run(fmt.Sprintf("rating %d", rating), func(t *testing.T) {
			_, err := svc.Create(ctx, bookID, 2, ptr(rating), "")
			assert.True(t, apperr.Is(err, apperr.KindValidation))
		})
	}

	_, err := svc.Create(ctx, bookID, 2, nil, "no rating")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	for rating := review.MinRating; rating <= review.MaxRating; rating++ {
		_, err := svc.Create(ctx, bookID, int64(100+rating), ptr(rating), "")
		assert.NoError(t, err)
	}
}

func TestCreate_OnePerUserAndBook(t *testing.T) {
	ctx := context.Background()
	svc, bookID := newService(t)

	rv, err := svc.Create(ctx, bookID, 2, ptr(4), "great")
	require.NoError(t, err)
	assert.Equal(t, 4, rv.Rating)

	_, err = svc.Create(ctx, bookID, 2, ptr(5), "again")
	require.Error(t, err)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindConflict, e.Kind)
	assert.Equal(t, review.CodeAlreadyExists, e.ErrorCode())

	_, err = svc.Create(ctx, bookID+1, 2, ptr(5), "")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestCreate_ConcurrentDuplicates(t *testing.T) {
	ctx := context.Background()
	svc, bookID := newService(t)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Create(ctx, bookID, 7, ptr(3), ""); err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, created)
}

func TestList_Pagination(t *testing.T) {
	ctx := context.Background()
	svc, bookID := newService(t)
	for i := 1; i <= 25; i++ {
		_, err := svc.Create(ctx, bookID, int64(i), ptr(1+i%5), "")
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, bookID, review.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 25, page.Total)
	assert.Equal(t, 0, page.Page)
	assert.Equal(t, review.DefaultPageSize, page.Size)
	assert.Len(t, page.Items, 10)

	last, err := svc.List(ctx, bookID, review.ListQuery{Page: 2, Size: 10})
	require.NoError(t, err)
	assert.Len(t, last.Items, 5)

	beyond, err := svc.List(ctx, bookID, review.ListQuery{Page: 9, Size: 10})
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
	assert.Equal(t, 25, beyond.Total)

	capped, err := svc.List(ctx, bookID, review.ListQuery{Size: 1000})
	require.NoError(t, err)
	assert.Equal(t, review.MaxPageSize, capped.Size)
	assert.Len(t, capped.Items, 25)

	_, err = svc.List(ctx, bookID, review.ListQuery{Page: -1})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	_, err = svc.List(ctx, bookID, review.ListQuery{Size: -5})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestList_Sorting(t *testing.T) {
	ctx := context.Background()
	svc, bookID := newService(t)
	for i, rating := range []int{3, 5, 1} {
		_, err := svc.Create(ctx, bookID, int64(i+1), ptr(rating), "")
		require.NoError(t, err)
	}

	ratings := func(p *review.Page) []int {
		out := make([]int, len(p.Items))
		for i, rv := range p.Items {
			out[i] = rv.Rating
		}
		return out
	}

	byRating, err := svc.List(ctx, bookID, review.ListQuery{SortField: "rating"})
	require.NoError(t, err)
	assert.Equal(t, []int{5, 3, 1}, ratings(byRating))

	asc, err := svc.List(ctx, bookID, review.ListQuery{SortField: "rating", SortOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 5}, ratings(asc))

	_, err = svc.List(ctx, bookID, review.ListQuery{SortField: "author"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	_, err = svc.List(ctx, bookID, review.ListQuery{SortOrder: "sideways"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	svc, bookID := newService(t)

	empty, err := svc.Summary(ctx, bookID)
	require.NoError(t, err)
	assert.Zero(t, empty.Count)
	assert.Zero(t, empty.Average)
	assert.Equal(t, map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}, empty.Distribution)

	for i, rating := range []int{5, 4, 4} {
		_, err := svc.Create(ctx, bookID, int64(i+1), ptr(rating), "")
		require.NoError(t, err)
	}
	sum, err := svc.Summary(ctx, bookID)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Count)
	assert.Equal(t, 4.3, sum.Average)
	assert.Equal(t, map[int]int{1: 0, 2: 0, 3: 0, 4: 2, 5: 1}, sum.Distribution)
}

func TestUpdateAndRemove_Ownership(t *testing.T) {
	ctx := context.Background()
	svc, bookID := newService(t)
	rv, err := svc.Create(ctx, bookID, 2, ptr(2), "meh")
	require.NoError(t, err)

	_, err = svc.Update(ctx, rv.ID, 3, user.RoleBuyer, review.UpdateReviewRequest{Rating: ptr(5)})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	updated, err := svc.Update(ctx, rv.ID, 2, user.RoleBuyer, review.UpdateReviewRequest{Comment: ptr("better")})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Rating)
	assert.Equal(t, "better", updated.Comment)

	_, err = svc.Update(ctx, rv.ID, 2, user.RoleBuyer, review.UpdateReviewRequest{Rating: ptr(9), Comment: ptr("lost")})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	page, err := svc.List(ctx, bookID, review.ListQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 2, page.Items[0].Rating)
	assert.Equal(t, "better", page.Items[0].Comment)

	assert.True(t, apperr.Is(svc.Remove(ctx, rv.ID, 3, user.RoleSeller), apperr.KindForbidden))
	require.NoError(t, svc.Remove(ctx, rv.ID, 1, user.RoleAdmin))
	assert.True(t, apperr.Is(svc.Remove(ctx, rv.ID, 1, user.RoleAdmin), apperr.KindNotFound))

	_, err = svc.Create(ctx, bookID, 2, ptr(4), "second try")
	assert.NoError(t, err)
}

func TestUpdate_ConcurrentPartialUpdatesAllLand(t *testing.T) {
	ctx := context.Background()
	svc, bookID := newService(t)
	rv, err := svc.Create(ctx, bookID, 2, ptr(1), "first")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := svc.Update(ctx, rv.ID, 2, user.RoleBuyer, review.UpdateReviewRequest{Rating: ptr(5)})
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := svc.Update(ctx, rv.ID, 1, user.RoleAdmin, review.UpdateReviewRequest{Comment: ptr("edited")})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	page, err := svc.List(ctx, bookID, review.ListQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 5, page.Items[0].Rating)
	assert.Equal(t, "edited", page.Items[0].Comment)
}
