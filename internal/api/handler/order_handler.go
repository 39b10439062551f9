package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/RoyceAzure/lab/bookstore/internal/api"
	"github.com/RoyceAzure/lab/bookstore/internal/api/dto"
	"github.com/RoyceAzure/lab/bookstore/internal/api/errcode"
	"github.com/RoyceAzure/lab/bookstore/internal/api/middleware"
	"github.com/RoyceAzure/lab/bookstore/internal/service"
	"github.com/go-chi/chi/v5"
)

type OrderHandler struct {
	orderService service.IOrderService
}

func NewOrderHandler(orderService service.IOrderService) *OrderHandler {
	if orderService == nil {
		panic("orderService cannot be nil")
	}
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r)

	orders, err := h.orderService.GetOrdersByUserID(r.Context(), principal.UserID)
	if err != nil {
		api.ErrorJSON(w, http.StatusInternalServerError, errcode.InternalError, err.Error())
		return
	}
	api.SuccessJSON(w, orders)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	principal := middleware.GetPrincipal(r)

	order, err := h.orderService.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			api.ErrorJSON(w, http.StatusNotFound, errcode.NotFound, "order not found")
			return
		}
		api.ErrorJSON(w, http.StatusInternalServerError, errcode.InternalError, err.Error())
		return
	}

	// 訂單只有擁有者與後台能看
	if order.UserID != principal.UserID && principal.Role != "admin" {
		api.ErrorJSON(w, http.StatusForbidden, errcode.Forbidden, "not your order")
		return
	}
	api.SuccessJSON(w, order)
}

// UpdateOrderStatus 後台更新出貨狀態
// 合法值以外一律 InvalidStatus，payment_status 與 total 不可經此修改
func (h *OrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	var req dto.UpdateOrderStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, errcode.BadRequest, "invalid request body")
		return
	}

	order, err := h.orderService.UpdateOrderStatus(r.Context(), orderID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus), errors.Is(err, service.ErrInvalidTransition):
			api.ErrorJSON(w, http.StatusBadRequest, errcode.InvalidStatus, err.Error())
		case errors.Is(err, service.ErrOrderNotFound):
			api.ErrorJSON(w, http.StatusNotFound, errcode.NotFound, "order not found")
		default:
			api.ErrorJSON(w, http.StatusInternalServerError, errcode.InternalError, err.Error())
		}
		return
	}
	api.SuccessJSON(w, order)
}

func (h *OrderHandler) UpdateShipping(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	var req dto.UpdateShippingDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, errcode.BadRequest, "invalid request body")
		return
	}

	err := h.orderService.UpdateShipping(r.Context(), orderID, req.Carrier, req.TrackingNumber, req.ShippingDate, req.ShippingAddress)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			api.ErrorJSON(w, http.StatusNotFound, errcode.NotFound, "order not found")
			return
		}
		api.ErrorJSON(w, http.StatusInternalServerError, errcode.InternalError, err.Error())
		return
	}
	api.SuccessJSON(w, map[string]bool{"success": true})
}
