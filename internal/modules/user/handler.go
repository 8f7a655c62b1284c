package user

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/bookstore-backend/internal/platform/web"
)

type Handler struct {
	service Service
	// adminOnly guards every route; the auth module supplies it so this
	// package does not depend on token handling.
	adminOnly func(http.Handler) http.Handler
}

func NewHandler(service Service, adminOnly func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, adminOnly: adminOnly}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Route("/api/users", func(r chi.Router) {
		r.Use(h.adminOnly)
		r.Get("/{id}", h.getUser)
		r.Patch("/{id}/role", h.changeRole)
	})
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := web.IDParam(r, "id")
	if err != nil {
		web.Error(w, r, err)
		return
	}

	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		web.Error(w, r, err)
		return
	}

	web.JSON(w, http.StatusOK, user)
}

func (h *Handler) changeRole(w http.ResponseWriter, r *http.Request) {
	id, err := web.IDParam(r, "id")
	if err != nil {
		web.Error(w, r, err)
		return
	}

	var req struct {
		Role string `json:"role" validate:"required"`
	}
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, r, err)
		return
	}

	user, err := h.service.ChangeRole(r.Context(), id, req.Role)
	if err != nil {
		web.Error(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "user role changed", "user_id", user.ID, "role", user.Role)
	web.JSON(w, http.StatusOK, user)
}
