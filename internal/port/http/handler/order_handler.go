package handler

import (
	"net/http"
	"strings"

	"github.com/Abdurahmanit/GroupProject/plant-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/port/http/middleware"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/service"
	"github.com/go-chi/chi/v5"
)

type OrderHandler struct {
	orders service.OrderService
	roles  roleGetter
	log    logger.Logger
}

func NewOrderHandler(orders service.OrderService, roles service.RoleLookup, log logger.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, roles: roles, log: log}
}

type setStatusRequest struct {
	Status entity.OrderStatus `json:"status"`
}

// Place handles POST /order. The customer email always comes from the
// caller's credential.
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	var input entity.PlaceOrderInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	input.Customer.Email = middleware.CallerEmail(r.Context())

	order, err := h.orders.PlaceOrder(r.Context(), input)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResult{Acknowledged: true, InsertedID: order.ID})
}

// SetStatus handles PATCH /orders/{id}.
func (h *OrderHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req setStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, r, err)
		return
	}

	if _, err := h.orders.SetStatus(r.Context(), chi.URLParam(r, "id"), req.Status); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResult{Acknowledged: true, ModifiedCount: 1})
}

// Cancel handles DELETE /orders/{id}.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.Cancel(r.Context(), chi.URLParam(r, "id"), middleware.CallerEmail(r.Context())); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResult{Acknowledged: true, DeletedCount: 1})
}

// ListForCustomer handles GET /customer-orders/{email}.
func (h *OrderHandler) ListForCustomer(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	if err := selfOrAdmin(r.Context(), h.roles, email); err != nil {
		writeError(w, h.log, r, err)
		return
	}

	orders, err := h.orders.ListForCustomer(r.Context(), email)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(orders))
}

// ListForSeller handles GET /seller-orders/{email}. Sellers only see their
// own orders.
func (h *OrderHandler) ListForSeller(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	if !strings.EqualFold(middleware.CallerEmail(r.Context()), email) {
		writeError(w, h.log, r, entity.ErrForbidden)
		return
	}

	orders, err := h.orders.ListForSeller(r.Context(), email)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(orders))
}

func nonNil(orders []entity.EnrichedOrder) []entity.EnrichedOrder {
	if orders == nil {
		return []entity.EnrichedOrder{}
	}
	return orders
}
