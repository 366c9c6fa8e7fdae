package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"storefront-client/internal/domain"
	"storefront-client/internal/service"
	"storefront-client/pkg/hash"
	"storefront-client/pkg/response"

	"github.com/go-playground/validator/v10"
)

// decode reads and validates a JSON body, answering 400 itself on failure.
func decode(w http.ResponseWriter, r *http.Request, v *validator.Validate, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "Invalid request body")
		return false
	}

	if err := v.Struct(dst); err != nil {
		response.BadRequest(w, err.Error())
		return false
	}

	return true
}

// queryInt reads a positive integer query parameter, falling back to def.
func queryInt(r *http.Request, key string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < 1 {
		return def
	}
	return n
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidToken):
		response.Unauthorized(w, err.Error())

	case errors.Is(err, service.ErrEmailTaken):
		response.Conflict(w, err.Error())

	case errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrCouponNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrAddressNotFound):
		response.NotFound(w, err.Error())

	case errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrProductUnavailable),
		errors.Is(err, service.ErrNoCart),
		errors.Is(err, service.ErrCouponLimitReached),
		errors.Is(err, service.ErrEmptyChatMessage),
		errors.Is(err, service.ErrCheckoutQuantity),
		errors.Is(err, domain.ErrCouponInactive),
		errors.Is(err, domain.ErrCouponExpired),
		errors.Is(err, domain.ErrCouponUsageReached),
		errors.Is(err, domain.ErrBelowMinimumOrder),
		errors.Is(err, hash.ErrPasswordTooShort):
		response.BadRequest(w, err.Error())

	default:
		log.Printf("[Handler] Internal error: %v", err)
		response.InternalError(w, "Internal server error")
	}
}
