package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/RoyceAzure/lab/bookstore/internal/api"
	"github.com/RoyceAzure/lab/bookstore/internal/api/dto"
	"github.com/RoyceAzure/lab/bookstore/internal/api/errcode"
	"github.com/RoyceAzure/lab/bookstore/internal/api/middleware"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/payment"
	"github.com/RoyceAzure/lab/bookstore/internal/service"
)

type CheckoutHandler struct {
	checkoutService service.ICheckoutService
}

func NewCheckoutHandler(checkoutService service.ICheckoutService) *CheckoutHandler {
	if checkoutService == nil {
		panic("checkoutService cannot be nil")
	}
	return &CheckoutHandler{checkoutService: checkoutService}
}

// BeginCheckout 不收 body，購物車與金額都以 server 端狀態為準
func (h *CheckoutHandler) BeginCheckout(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r)

	session, err := h.checkoutService.BeginCheckout(r.Context(), principal.UserID)
	if err != nil {
		writeCheckoutError(w, err)
		return
	}

	api.SuccessJSON(w, dto.CheckoutSessionResponse{
		PaymentIntentID: session.PaymentIntentID,
		ClientSecret:    session.ClientSecret,
		Total:           session.Total,
	})
}

// CompleteCheckout 支援 body 與 redirect query 參數兩種來源
func (h *CheckoutHandler) CompleteCheckout(w http.ResponseWriter, r *http.Request) {
	var req dto.CheckoutCompleteDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PaymentIntentID == "" {
		req.PaymentIntentID = r.URL.Query().Get("payment_intent_id")
	}
	if req.PaymentIntentID == "" {
		api.ErrorJSON(w, http.StatusBadRequest, errcode.BadRequest, "payment_intent_id is required")
		return
	}

	principal := middleware.GetPrincipal(r)
	order, err := h.checkoutService.CompleteCheckout(r.Context(), principal.UserID, req.PaymentIntentID)
	if err != nil {
		writeCheckoutError(w, err)
		return
	}

	api.SuccessJSON(w, dto.OrderCompletedResponse{
		OrderID: order.OrderID,
		Status:  order.Status,
	})
}

func writeCheckoutError(w http.ResponseWriter, err error) {
	var insufficient *service.InsufficientStockError
	var conflict *service.PostPaymentStockConflictError

	switch {
	case errors.Is(err, service.ErrEmptyCart):
		api.ErrorJSON(w, http.StatusBadRequest, errcode.EmptyCart, "cart is empty")
	case errors.As(err, &insufficient):
		api.ErrorJSON(w, http.StatusConflict, errcode.InsufficientStock, insufficient.Error())
	case errors.As(err, &conflict):
		// 已扣款但無法出貨，提示聯繫客服處理退款
		api.ErrorJSON(w, http.StatusConflict, errcode.PostPaymentStockConflict,
			conflict.Error()+"; your payment succeeded but the order could not be completed, please contact support")
	case errors.Is(err, service.ErrIntentOwnerMismatch):
		api.ErrorJSON(w, http.StatusForbidden, errcode.Forbidden, "payment intent does not belong to this user")
	case errors.Is(err, service.ErrPaymentNotSucceeded):
		api.ErrorJSON(w, http.StatusPaymentRequired, errcode.PaymentNotSucceeded, "payment has not succeeded")
	case errors.Is(err, payment.ErrPaymentRejected):
		api.ErrorJSON(w, http.StatusPaymentRequired, errcode.PaymentRejected, "payment was rejected, try a different payment method")
	case errors.Is(err, payment.ErrGatewayUnavailable):
		api.ErrorJSON(w, http.StatusServiceUnavailable, errcode.GatewayUnavailable, "payment gateway unavailable, try again later")
	default:
		api.ErrorJSON(w, http.StatusInternalServerError, errcode.InternalError, err.Error())
	}
}
