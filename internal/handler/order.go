package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"dinarex/internal/domain"
	"dinarex/internal/order"
	dinarexerrors "dinarex/pkg/errors"
	"dinarex/pkg/logger"
	"dinarex/pkg/validator"
)

type OrderHandler struct {
	service   *order.Service
	validator *validator.Validator
	logger    logger.Logger
}

func NewOrderHandler(service *order.Service, val *validator.Validator, log logger.Logger) *OrderHandler {
	return &OrderHandler{service: service, validator: val, logger: log}
}

// Create accepts the assembled order payload from the storefront form.
// The response mirrors the storefront contract: {ok, id, error, details}.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req order.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := h.validator.ValidateStructured(&req); errs != nil {
		respondValidationErrors(w, errs)
		return
	}

	o, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("Order creation failed", map[string]interface{}{
			"error": err.Error(),
			"email": req.PersonalInfo.Email,
		})
		status := http.StatusBadRequest
		if errors.Is(err, dinarexerrors.ErrOrderAlreadyExists) {
			status = http.StatusConflict
		}
		respondJSON(w, status, map[string]interface{}{
			"ok":      false,
			"error":   "Failed to create order",
			"details": err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"ok":        true,
		"id":        o.ID.String(),
		"reference": o.Reference,
	})
}

// Notify re-sends the order emails. Delivery is best effort, so the only
// failure surfaced is an unknown order.
func (h *OrderHandler) Notify(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	if err := h.service.Resend(r.Context(), id); err != nil {
		if errors.Is(err, dinarexerrors.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "Order not found")
			return
		}
		h.logger.Error("Order notify failed", map[string]interface{}{"error": err.Error(), "order_id": id})
		respondError(w, http.StatusInternalServerError, "Failed to notify")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

// Get returns a single order (staff only).
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	o, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, dinarexerrors.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "Order not found")
			return
		}
		h.logger.Error("Failed to fetch order", map[string]interface{}{"error": err.Error()})
		respondError(w, http.StatusInternalServerError, "Failed to fetch order")
		return
	}

	respondJSON(w, http.StatusOK, o)
}

// List returns paginated orders (staff only).
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	orders, total, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list orders", map[string]interface{}{"error": err.Error()})
		respondError(w, http.StatusInternalServerError, "Failed to list orders")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"orders": orders,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing shipped completed cancelled"`
}

// UpdateStatus moves an order through its lifecycle (staff only).
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := h.validator.ValidateStructured(&req); errs != nil {
		respondValidationErrors(w, errs)
		return
	}

	if err := h.service.UpdateStatus(r.Context(), id, domain.OrderStatus(req.Status)); err != nil {
		if errors.Is(err, dinarexerrors.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "Order not found")
			return
		}
		h.logger.Error("Failed to update order status", map[string]interface{}{"error": err.Error()})
		respondError(w, http.StatusInternalServerError, "Failed to update order")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}
