package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/bookstore-backend/internal/modules/user"
	"github.com/georgemunganga/bookstore-backend/internal/platform/apperr"
	"github.com/georgemunganga/bookstore-backend/internal/platform/web"
)

// Handler exposes the authentication endpoints.
type Handler struct {
	service Service
	guard   *Guard
}

func NewHandler(service Service, guard *Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", h.login)
		r.Post("/register", h.register)
		r.Post("/refresh", h.refresh)
		r.With(h.guard.Require(web.Error)).Get("/me", h.me)
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, r, err)
		return
	}

	session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		web.Error(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "user logged in", "user_id", session.User.ID)
	web.JSON(w, http.StatusOK, session)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req user.RegisterRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, r, err)
		return
	}

	session, err := h.service.Register(r.Context(), req)
	if err != nil {
		web.Error(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "user registered", "user_id", session.User.ID, "role", session.User.Role)
	web.JSON(w, http.StatusCreated, session)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	p, ok := PayloadFrom(r.Context())
	if !ok {
		web.Error(w, r, apperr.Unauthorized("missing credentials"))
		return
	}

	u, err := h.service.Me(r.Context(), p.SubjectID)
	if err != nil {
		web.Error(w, r, err)
		return
	}

	web.JSON(w, http.StatusOK, u)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token" validate:"required"`
	}
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, r, err)
		return
	}

	session, err := h.service.Refresh(r.Context(), req.Token)
	if err != nil {
		web.Error(w, r, err)
		return
	}

	web.JSON(w, http.StatusOK, session)
}
