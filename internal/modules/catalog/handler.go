package catalog

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/bookstore-backend/internal/modules/auth"
	"github.com/georgemunganga/bookstore-backend/internal/modules/user"
	"github.com/georgemunganga/bookstore-backend/internal/platform/apperr"
	"github.com/georgemunganga/bookstore-backend/internal/platform/web"
)

// Handler exposes catalog HTTP endpoints.
type Handler struct {
	service Service
	guard   *auth.Guard
}

func NewHandler(service Service, guard *auth.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/book", func(r chi.Router) {
		r.Get("/", h.listBooks)
		r.Get("/{id}", h.getBook)
		r.Group(func(r chi.Router) {
			r.Use(h.guard.Require(web.Error, user.RoleSeller, user.RoleAdmin))
			r.Post("/", h.createBook)
			r.Put("/{id}", h.updateBook)
			r.Delete("/{id}", h.deleteBook)
		})
	})
}

func (h *Handler) listBooks(w http.ResponseWriter, r *http.Request) {
	var sellerID int64
	if raw := r.URL.Query().Get("sellerId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 1 {
			web.Error(w, r, apperr.Validation("invalid sellerId: %q", raw))
			return
		}
		sellerID = id
	}
	books, err := h.service.ListBooks(r.Context(), sellerID)
	if err != nil {
		web.Error(w, r, err)
		return
	}
	web.JSON(w, http.StatusOK, books)
}

func (h *Handler) getBook(w http.ResponseWriter, r *http.Request) {
	id, err := web.IDParam(r, "id")
	if err != nil {
		web.Error(w, r, err)
		return
	}
	b, err := h.service.GetBook(r.Context(), id)
	if err != nil {
		web.Error(w, r, err)
		return
	}
	web.JSON(w, http.StatusOK, b)
}

func (h *Handler) createBook(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.PayloadFrom(r.Context())
	if !ok {
		web.Error(w, r, apperr.Unauthorized("missing credentials"))
		return
	}
	var req CreateBookRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, r, err)
		return
	}
	b, err := h.service.CreateBook(r.Context(), caller.SubjectID, req)
	if err != nil {
		web.Error(w, r, err)
		return
	}
	slog.InfoContext(r.Context(), "book created", "book_id", b.BookID, "seller_id", b.SellerID)
	web.JSON(w, http.StatusCreated, b)
}

func (h *Handler) updateBook(w http.ResponseWriter, r *http.Request) {
	id, err := web.IDParam(r, "id")
	if err != nil {
		web.Error(w, r, err)
		return
	}
	var req UpdateBookRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, r, err)
		return
	}
	b, err := h.service.UpdateBook(r.Context(), id, req)
	if err != nil {
		web.Error(w, r, err)
		return
	}
	web.JSON(w, http.StatusOK, b)
}

func (h *Handler) deleteBook(w http.ResponseWriter, r *http.Request) {
	id, err := web.IDParam(r, "id")
	if err != nil {
		web.Error(w, r, err)
		return
	}
	if err := h.service.DeleteBook(r.Context(), id); err != nil {
		web.Error(w, r, err)
		return
	}
	slog.InfoContext(r.Context(), "book deleted", "book_id", id)
	web.JSON(w, http.StatusOK, map[string]interface{}{"message": "book deleted", "bookId": id})
}
