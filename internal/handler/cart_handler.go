package handler

import (
	"net/http"

	"storefront-client/internal/domain"
	"storefront-client/internal/middleware"
	"storefront-client/internal/service"
	"storefront-client/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type CartHandler struct {
	cartService *service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		validator:   validator.New(),
	}
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cartService.Get(middleware.GetUserID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, cart)
}

func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req domain.AddToCartRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	cart, err := h.cartService.Add(middleware.GetUserID(r), middleware.GetDeviceID(r), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.WithMessage(w, http.StatusOK, "Added to cart", cart)
}

func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateCartItemRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	cart, err := h.cartService.Update(middleware.GetUserID(r), middleware.GetDeviceID(r), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, cart)
}

func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	cart, err := h.cartService.Remove(middleware.GetUserID(r), middleware.GetDeviceID(r), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, cart)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.cartService.Clear(middleware.GetUserID(r), middleware.GetDeviceID(r)); err != nil {
		writeServiceError(w, err)
		return
	}

	response.WithMessage(w, http.StatusOK, "Cart cleared", nil)
}

func (h *CartHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var req domain.ApplyCouponRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	cart, err := h.cartService.ApplyCoupon(middleware.GetUserID(r), middleware.GetDeviceID(r), req.Code)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.WithMessage(w, http.StatusOK, "Coupon applied", cart)
}

func (h *CartHandler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cartService.RemoveCoupon(middleware.GetUserID(r), middleware.GetDeviceID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.WithMessage(w, http.StatusOK, "Coupon removed", cart)
}
