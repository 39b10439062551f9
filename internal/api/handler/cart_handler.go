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
	"github.com/shopspring/decimal"
)

type CartHandler struct {
	cartService service.ICartService
}

func NewCartHandler(cartService service.ICartService) *CartHandler {
	if cartService == nil {
		panic("cartService cannot be nil")
	}
	return &CartHandler{cartService: cartService}
}

type cartResponse struct {
	Items []service.CartLine `json:"items"`
	Total decimal.Decimal    `json:"total"`
}

func (h *CartHandler) ViewCart(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r)

	lines, total, err := h.cartService.ListLines(r.Context(), principal.UserID)
	if err != nil {
		api.ErrorJSON(w, http.StatusInternalServerError, errcode.InternalError, err.Error())
		return
	}
	api.SuccessJSON(w, cartResponse{Items: lines, Total: total})
}

func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req dto.CartAddDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, errcode.BadRequest, "invalid request body")
		return
	}

	principal := middleware.GetPrincipal(r)
	if err := h.cartService.AddLine(r.Context(), principal.UserID, req.BookID, req.Quantity); err != nil {
		writeCartError(w, err)
		return
	}
	api.SuccessJSON(w, map[string]bool{"success": true})
}

func (h *CartHandler) UpdateCart(w http.ResponseWriter, r *http.Request) {
	var req dto.CartUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, errcode.BadRequest, "invalid request body")
		return
	}

	principal := middleware.GetPrincipal(r)
	if err := h.cartService.SetLineQuantity(r.Context(), principal.UserID, req.BookID, req.Quantity); err != nil {
		writeCartError(w, err)
		return
	}
	api.SuccessJSON(w, map[string]bool{"success": true})
}

func (h *CartHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	var req dto.CartRemoveDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, errcode.BadRequest, "invalid request body")
		return
	}

	principal := middleware.GetPrincipal(r)
	if err := h.cartService.RemoveLine(r.Context(), principal.UserID, req.BookID); err != nil {
		api.ErrorJSON(w, http.StatusInternalServerError, errcode.InternalError, err.Error())
		return
	}
	api.SuccessJSON(w, map[string]bool{"success": true})
}

func writeCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrQuantityNotPositive):
		api.ErrorJSON(w, http.StatusBadRequest, errcode.BadRequest, err.Error())
	case errors.Is(err, service.ErrBookNotFound):
		api.ErrorJSON(w, http.StatusNotFound, errcode.NotFound, err.Error())
	case errors.Is(err, service.ErrOutOfStock):
		api.ErrorJSON(w, http.StatusConflict, errcode.OutOfStock, err.Error())
	default:
		api.ErrorJSON(w, http.StatusInternalServerError, errcode.InternalError, err.Error())
	}
}
