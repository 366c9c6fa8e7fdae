package domain

import "time"

type PaymentMethod string

const (
	PaymentCOD   PaymentMethod = "COD"
	PaymentMoMo  PaymentMethod = "MOMO"
	PaymentVNPay PaymentMethod = "VNPAY"
)

const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderShipping  = "shipping"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

type Address struct {
	ID        string `json:"_id"`
	UserID    string `json:"user_id"`
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Ward      string `json:"ward"`
	District  string `json:"district"`
	Province  string `json:"province"`
	IsDefault bool   `json:"is_default"`
}

type CreateAddressRequest struct {
	FullName  string `json:"full_name" validate:"required,min=2,max=100"`
	Phone     string `json:"phone" validate:"required,min=9,max=15"`
	Address   string `json:"address" validate:"required,max=200"`
	Ward      string `json:"ward" validate:"required"`
	District  string `json:"district" validate:"required"`
	Province  string `json:"province" validate:"required"`
	IsDefault bool   `json:"is_default"`
}

type CheckoutItem struct {
	CartItemID string `json:"cart_item_id" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,min=1"`
}

type CheckoutRequest struct {
	ShippingAddressID string         `json:"shipping_address_id" validate:"required"`
	Items             []CheckoutItem `json:"items" validate:"required,min=1,dive"`
	PaymentMethod     PaymentMethod  `json:"payment_method,omitempty" validate:"omitempty,oneof=COD MOMO VNPAY"`
	Notes             string         `json:"notes,omitempty" validate:"max=500"`
}

type OrderProduct struct {
	ID     string   `json:"_id"`
	Name   string   `json:"name"`
	Slug   string   `json:"slug,omitempty"`
	Images []string `json:"images"`
}

type OrderItem struct {
	ID       string       `json:"_id"`
	Product  OrderProduct `json:"product_id"`
	Name     string       `json:"name"`
	Quantity int          `json:"quantity"`
	Price    float64      `json:"price"`
	Subtotal float64      `json:"subtotal"`
	Reviewed bool         `json:"reviewed"`
}

type ShippingAddress struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Ward     string `json:"ward"`
	District string `json:"district"`
	Province string `json:"province"`
}

type Payment struct {
	Method PaymentMethod `json:"method"`
	Status string        `json:"status"`
	Amount float64       `json:"amount"`
}

type Order struct {
	ID              string          `json:"_id"`
	UserID          string          `json:"user_id"`
	OrderCode       string          `json:"order_code"`
	Items           []OrderItem     `json:"items"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	Payment         Payment         `json:"payment"`
	OrderStatus     string          `json:"order_status"`
	TotalAmount     float64         `json:"total_amount"`
	DiscountAmount  float64         `json:"discount_amount,omitempty"`
	CouponCode      string          `json:"coupon_code,omitempty"`
	ShippingFee     float64         `json:"shipping_fee"`
	FinalAmount     float64         `json:"final_amount"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

type OrderPage struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

func (a *Address) Shipping() ShippingAddress {
	return ShippingAddress{
		FullName: a.FullName,
		Phone:    a.Phone,
		Address:  a.Address,
		Ward:     a.Ward,
		District: a.District,
		Province: a.Province,
	}
}

// Settle totals the items and applies the discount and shipping fee. The
// payable amount never goes below zero.
func (o *Order) Settle(discount, shippingFee float64) {
	o.TotalAmount = 0
	for i := range o.Items {
		o.Items[i].Subtotal = roundMoney(o.Items[i].Price * float64(o.Items[i].Quantity))
		o.TotalAmount += o.Items[i].Subtotal
	}
	o.TotalAmount = roundMoney(o.TotalAmount)
	o.DiscountAmount = roundMoney(discount)
	o.ShippingFee = shippingFee

	final := o.TotalAmount - o.DiscountAmount + o.ShippingFee
	if final < 0 {
		final = 0
	}
	o.FinalAmount = roundMoney(final)
	o.Payment.Amount = o.FinalAmount
}
