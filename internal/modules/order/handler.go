package order

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/bookstore-backend/internal/modules/auth"
	"github.com/georgemunganga/bookstore-backend/internal/modules/user"
	"github.com/georgemunganga/bookstore-backend/internal/platform/web"
)

// Handler exposes order HTTP endpoints.
type Handler struct {
	service Service
	guard   *auth.Guard
}

func NewHandler(service Service, guard *auth.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/order", func(r chi.Router) {
		r.Use(h.guard.Require(web.Error))
		r.Post("/place", h.placeOrder)   // POST  /api/order/place
		r.Post("/return", h.returnOrder) // POST  /api/order/return
		r.Get("/", h.listOrders)         // GET   /api/order?sort=placedAt&order=desc
		r.With(h.guard.Require(web.Error, user.RoleSeller, user.RoleAdmin)).
			Patch("/{id}/status", h.updateStatus) // PATCH /api/order/{id}/status
	})
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.Caller(r)
	if err != nil {
		web.Error(w, r, err)
		return
	}
	var req PlaceOrderRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, r, err)
		return
	}
	o, err := h.service.Place(r.Context(), caller.SubjectID, req)
	if err != nil {
		web.Error(w, r, err)
		return
	}
	slog.InfoContext(r.Context(), "order placed",
		"order_id", o.OrderID, "user_id", o.UserID, "seller_id", o.SellerID, "total", o.Total)
	web.JSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Order placed successfully",
		"orderId": o.OrderID,
	})
}

func (h *Handler) returnOrder(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.Caller(r)
	if err != nil {
		web.Error(w, r, err)
		return
	}
	var req ReturnOrderRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, r, err)
		return
	}
	o, err := h.service.Return(r.Context(), caller.SubjectID, req.CartID)
	if err != nil {
		web.Error(w, r, err)
		return
	}
	slog.InfoContext(r.Context(), "order returned", "order_id", o.OrderID, "user_id", o.UserID)
	web.JSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Order returned successfully",
		"orderId": o.OrderID,
	})
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.Caller(r)
	if err != nil {
		web.Error(w, r, err)
		return
	}
	opts := ListOptions{
		SortField: r.URL.Query().Get("sort"),
		SortOrder: r.URL.Query().Get("order"),
	}
	orders, err := h.service.List(r.Context(), caller.SubjectID, caller.Role, opts)
	if err != nil {
		web.Error(w, r, err)
		return
	}
	web.JSON(w, http.StatusOK, map[string]interface{}{
		"userId": caller.SubjectID,
		"role":   caller.Role,
		"orders": orders,
	})
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.Caller(r)
	if err != nil {
		web.Error(w, r, err)
		return
	}
	var req UpdateStatusRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, r, err)
		return
	}
	o, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), caller.SubjectID, caller.Role, req.Status)
	if err != nil {
		web.Error(w, r, err)
		return
	}
	slog.InfoContext(r.Context(), "order status updated", "order_id", o.OrderID, "status", o.Status)
	web.JSON(w, http.StatusOK, o)
}
