package store

import (
	"context"
	"sort"

	"github.com/georgemunganga/bookstore-backend/internal/modules/catalog"
	"github.com/georgemunganga/bookstore-backend/internal/platform/apperr"
)

type bookRepo struct{ m *Memory }

func cloneBook(b *catalog.Book) *catalog.Book {
	cp := *b
	return &cp
}

func (r bookRepo) Create(ctx context.Context, b *catalog.Book) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	b.BookID = r.m.bookSeq.Next()
	r.m.books[b.BookID] = cloneBook(b)
	return nil
}

func (r bookRepo) GetByID(ctx context.Context, id int64) (*catalog.Book, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	b, ok := r.m.books[id]
	if !ok {
		return nil, apperr.NotFound("book %d not found", id)
	}
	return cloneBook(b), nil
}

func (r bookRepo) List(ctx context.Context, sellerID int64) ([]*catalog.Book, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	out := []*catalog.Book{}
	for _, b := range r.m.books {
		if sellerID != 0 && b.SellerID != sellerID {
			continue
		}
		out = append(out, cloneBook(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookID < out[j].BookID })
	return out, nil
}

func (r bookRepo) Update(ctx context.Context, b *catalog.Book) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.books[b.BookID]; !ok {
		return apperr.NotFound("book %d not found", b.BookID)
	}
	r.m.books[b.BookID] = cloneBook(b)
	return nil
}

func (r bookRepo) Delete(ctx context.Context, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.books[id]; !ok {
		return apperr.NotFound("book %d not found", id)
	}
	delete(r.m.books, id)
	return nil
}
