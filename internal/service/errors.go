package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrProductUnavailable = errors.New("product is not available")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrItemNotFound       = errors.New("cart item not found")
	ErrCouponNotFound     = errors.New("coupon not found")
	ErrCouponLimitReached = errors.New("coupon already used the maximum number of times")
	ErrNoCart             = errors.New("cart is empty")
	ErrEmptyChatMessage   = errors.New("message is empty")
	ErrProductNotFound    = errors.New("product not found")
	ErrAddressNotFound    = errors.New("shipping address not found")
	ErrCheckoutQuantity   = errors.New("checkout quantity exceeds the cart quantity")
)
