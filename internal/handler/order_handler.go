package handler

import (
	"net/http"

	"storefront-client/internal/domain"
	"storefront-client/internal/middleware"
	"storefront-client/internal/service"
	"storefront-client/pkg/response"

	"github.com/go-playground/validator/v10"
)

type OrderHandler struct {
	orderService   *service.OrderService
	addressService *service.AddressService
	validator      *validator.Validate
}

func NewOrderHandler(orderService *service.OrderService, addressService *service.AddressService) *OrderHandler {
	return &OrderHandler{
		orderService:   orderService,
		addressService: addressService,
		validator:      validator.New(),
	}
}

func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req domain.CheckoutRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	order, err := h.orderService.Checkout(middleware.GetUserID(r), middleware.GetDeviceID(r), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.WithMessage(w, http.StatusCreated, "Order placed", order)
}

// List serves GET /orders/me?page=&limit=&status=.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.orderService.List(middleware.GetUserID(r), queryInt(r, "page", 1), queryInt(r, "limit", 0), r.URL.Query().Get("status"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, page)
}

func (h *OrderHandler) Addresses(w http.ResponseWriter, r *http.Request) {
	list, err := h.addressService.List(middleware.GetUserID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, list)
}

func (h *OrderHandler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateAddressRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	address, err := h.addressService.Create(middleware.GetUserID(r), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, address)
}
