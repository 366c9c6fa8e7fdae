package handler

import (
	"net/http"

	"storefront-client/internal/domain"
	"storefront-client/internal/middleware"
	"storefront-client/internal/service"
	"storefront-client/pkg/response"

	"github.com/go-playground/validator/v10"
)

type CouponHandler struct {
	couponService *service.CouponService
	validator     *validator.Validate
}

func NewCouponHandler(couponService *service.CouponService) *CouponHandler {
	return &CouponHandler{
		couponService: couponService,
		validator:     validator.New(),
	}
}

func (h *CouponHandler) Available(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.couponService.Available(middleware.GetUserID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, coupons)
}

func (h *CouponHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req domain.ApplyCouponRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	result, err := h.couponService.Validate(middleware.GetUserID(r), req.Code)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, result)
}
