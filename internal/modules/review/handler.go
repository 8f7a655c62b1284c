package review

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/georgemunganga/bookstore-backend/internal/modules/auth"
	"github.com/georgemunganga/bookstore-backend/internal/modules/user"
	"github.com/georgemunganga/bookstore-backend/internal/platform/apperr"
	"github.com/georgemunganga/bookstore-backend/internal/platform/web"
)

// Handler exposes book reviews. Failures use the envelope.
type Handler struct {
	service Service
	guard   *auth.Guard
}

func NewHandler(service Service, guard *auth.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/books/{id}/reviews", h.list)
	r.Get("/api/books/{id}/reviews/summary", h.summary)

	r.With(h.guard.Require(web.EnvelopeFailure, user.RoleBuyer, user.RoleAdmin)).
		Post("/api/books/{id}/reviews", h.create)

	r.Route("/api/reviews/{id}", func(r chi.Router) {
		r.Use(h.guard.Require(web.EnvelopeFailure))
		r.Patch("/", h.update)
		r.Delete("/", h.remove)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	bookID, err := web.IDParam(r, "id")
	if err != nil {
		web.EnvelopeFailure(w, r, err)
		return
	}
	q, err := listQuery(r)
	if err != nil {
		web.EnvelopeFailure(w, r, err)
		return
	}
	page, err := h.service.List(r.Context(), bookID, q)
	if err != nil {
		web.EnvelopeFailure(w, r, err)
		return
	}
	web.OK(w, http.StatusOK, "Reviews retrieved successfully", page)
}

// listQuery reads page, size and sort. sort accepts "field" or "field,dir";
// a separate order parameter wins over the suffix.
func listQuery(r *http.Request) (ListQuery, error) {
	var q ListQuery
	var err error
	if q.Page, err = web.IntQuery(r, "page", 0); err != nil {
		return q, err
	}
	if q.Size, err = web.IntQuery(r, "size", DefaultPageSize); err != nil {
		return q, err
	}
	if q.Size == 0 {
		return q, apperr.Validation("size must be positive")
	}
	sortParam := r.URL.Query().Get("sort")
	if field, dir, ok := strings.Cut(sortParam, ","); ok {
		q.SortField, q.SortOrder = strings.TrimSpace(field), strings.TrimSpace(dir)
	} else {
		q.SortField = strings.TrimSpace(sortParam)
	}
	if order := r.URL.Query().Get("order"); order != "" {
		q.SortOrder = order
	}
	return q, nil
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	bookID, err := web.IDParam(r, "id")
	if err != nil {
		web.EnvelopeFailure(w, r, err)
		return
	}
	sum, err := h.service.Summary(r.Context(), bookID)
	if err != nil {
		web.EnvelopeFailure(w, r, err)
		return
	}
	web.JSON(w, http.StatusOK, sum)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.Caller(r)
	if err != nil {
		web.EnvelopeFailure(w, r, err)
		return
	}
	bookID, err := web.IDParam(r, "id")
	if err != nil {
		web.EnvelopeFailure(w, r, err)
		return
	}
	var req CreateReviewRequest
	if err := web.Decode(r, &req); err != nil {
		web.EnvelopeFailure(w, r, err)
		return
	}

	rv, err := h.service.Create(r.Context(), bookID, caller.SubjectID, req.Rating, req.Comment)
	if err != nil {
		web.EnvelopeFailure(w, r, err)
		return
	}
	slog.InfoContext(r.Context(), "review created",
		"review_id", rv.ID, "book_id", rv.BookID, "user_id", rv.UserID, "rating", rv.Rating)
	w.Header().Set("Location", "/api/reviews/"+rv.ID.String())
	web.OK(w, http.StatusCreated, "Review created successfully", map[string]uuid.UUID{"id": rv.ID})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.Caller(r)
	if err != nil {
		web.EnvelopeFailure(w, r, err)
		return
	}
	id, err := reviewParam(r)
	if err != nil {
		web.EnvelopeFailure(w, r, err)
		return
	}
	var req UpdateReviewRequest
	if err := web.Decode(r, &req); err != nil {
		web.EnvelopeFailure(w, r, err)
		return
	}
	rv, err := h.service.Update(r.Context(), id, caller.SubjectID, caller.Role, req)
	if err != nil {
		web.EnvelopeFailure(w, r, err)
		return
	}
	web.OK(w, http.StatusOK, "Review updated successfully", rv)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.Caller(r)
	if err != nil {
		web.EnvelopeFailure(w, r, err)
		return
	}
	id, err := reviewParam(r)
	if err != nil {
		web.EnvelopeFailure(w, r, err)
		return
	}
	if err := h.service.Remove(r.Context(), id, caller.SubjectID, caller.Role); err != nil {
		web.EnvelopeFailure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func reviewParam(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid review id %q", raw)
	}
	return id, nil
}
