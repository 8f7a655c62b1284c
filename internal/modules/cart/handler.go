package cart

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/georgemunganga/bookstore-backend/internal/modules/auth"
	"github.com/georgemunganga/bookstore-backend/internal/platform/apperr"
	"github.com/georgemunganga/bookstore-backend/internal/platform/ids"
	"github.com/georgemunganga/bookstore-backend/internal/platform/web"
)

// Handler exposes the caller's cart. Every response uses the envelope.
type Handler struct {
	service Service
	guard   *auth.Guard
}

func NewHandler(service Service, guard *auth.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/cart/me", func(r chi.Router) {
		r.Use(h.guard.Require(web.EnvelopeFailure))
		r.Get("/", h.getCart)
		r.Post("/items", h.addItem)
		r.Patch("/items/{id}", h.updateItem)
		r.Delete("/items/{id}", h.removeItem)
		r.Post("/clear", h.clear)
	})
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.Caller(r)
	if err != nil {
		web.EnvelopeFailure(w, r, err)
		return
	}
	c, err := h.service.GetOrCreate(r.Context(), caller.SubjectID)
	if err != nil {
		web.EnvelopeFailure(w, r, err)
		return
	}
	web.OK(w, http.StatusOK, "Cart retrieved successfully", c)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.Caller(r)
	if err != nil {
		web.EnvelopeFailure(w, r, err)
		return
	}
	var req AddItemRequest
	if err := web.Decode(r, &req); err != nil {
		web.EnvelopeFailure(w, r, err)
		return
	}

	inventoryID := req.InventoryID
	if inventoryID == "" && req.BookID != nil {
		inventoryID, err = ids.InventoryID(*req.BookID)
		if err != nil {
			web.EnvelopeFailure(w, r, apperr.Validation("invalid bookId %d", *req.BookID))
			return
		}
	}
	if inventoryID == "" {
		web.EnvelopeFailure(w, r, apperr.Validation("inventoryId or bookId is required"))
		return
	}

	itemID, err := h.service.AddItem(r.Context(), caller.SubjectID, inventoryID, *req.Qty)
	if err != nil {
		web.EnvelopeFailure(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "cart item added",
		"user_id", caller.SubjectID, "item_id", itemID, "inventory_id", inventoryID, "qty", *req.Qty)
	web.OK(w, http.StatusCreated, "Item added to cart", map[string]uuid.UUID{"itemId": itemID})
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.Caller(r)
	if err != nil {
		web.EnvelopeFailure(w, r, err)
		return
	}
	itemID, err := itemParam(r)
	if err != nil {
		web.EnvelopeFailure(w, r, err)
		return
	}
	var req UpdateItemRequest
	if err := web.Decode(r, &req); err != nil {
		web.EnvelopeFailure(w, r, err)
		return
	}

	c, err := h.service.UpdateItemQty(r.Context(), caller.SubjectID, itemID, *req.Qty)
	if err != nil {
		web.EnvelopeFailure(w, r, err)
		return
	}
	web.OK(w, http.StatusOK, "Cart item updated", c)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.Caller(r)
	if err != nil {
		web.EnvelopeFailure(w, r, err)
		return
	}
	itemID, err := itemParam(r)
	if err != nil {
		web.EnvelopeFailure(w, r, err)
		return
	}
	if err := h.service.RemoveItem(r.Context(), caller.SubjectID, itemID); err != nil {
		web.EnvelopeFailure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.Caller(r)
	if err != nil {
		web.EnvelopeFailure(w, r, err)
		return
	}
	if err := h.service.Clear(r.Context(), caller.SubjectID); err != nil {
		web.EnvelopeFailure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func itemParam(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid item id %q", raw)
	}
	return id, nil
}
