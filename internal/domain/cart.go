package domain

import "math"

type CartProduct struct {
	ID       string   `json:"_id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	OldPrice float64  `json:"oldprice,omitempty"`
	Images   []string `json:"images"`
	Status   string   `json:"status,omitempty"`
	Deleted  bool     `json:"deleted,omitempty"`
}

// CartItem.Price is the unit price captured when the item entered the cart.
type CartItem struct {
	ID       string                 `json:"_id"`
	Product  CartProduct            `json:"product"`
	Quantity int                    `json:"quantity"`
	Price    float64                `json:"price"`
	Variant  map[string]interface{} `json:"variant,omitempty"`
	Subtotal float64                `json:"subtotal"`
}

type Cart struct {
	Items          []CartItem     `json:"items"`
	TotalItems     int            `json:"total_items"`
	TotalAmount    float64        `json:"total_amount"`
	DiscountAmount float64        `json:"discount_amount,omitempty"`
	AppliedCoupon  *AppliedCoupon `json:"applied_coupon,omitempty"`
}

type AddToCartRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type UpdateCartItemRequest struct {
	ItemID   string `json:"item_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

// Clone returns a deep copy so snapshots handed out never alias live state.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}

	out := *c
	out.Items = make([]CartItem, len(c.Items))
	for i, item := range c.Items {
		cp := item
		cp.Product.Images = append([]string(nil), item.Product.Images...)
		if item.Variant != nil {
			cp.Variant = make(map[string]interface{}, len(item.Variant))
			for k, v := range item.Variant {
				cp.Variant[k] = v
			}
		}
		out.Items[i] = cp
	}
	if c.AppliedCoupon != nil {
		coupon := *c.AppliedCoupon
		out.AppliedCoupon = &coupon
	}

	return &out
}

func (c *Cart) FindByProduct(productID string) *CartItem {
	if c == nil {
		return nil
	}
	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

func (c *Cart) FindItem(itemID string) *CartItem {
	if c == nil {
		return nil
	}
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return &c.Items[i]
		}
	}
	return nil
}

// SetQuantity rewrites one line's quantity and subtotal. Cart totals are left
// to the caller.
func (c *Cart) SetQuantity(itemID string, quantity int) bool {
	item := c.FindItem(itemID)
	if item == nil {
		return false
	}
	item.Quantity = quantity
	item.Subtotal = roundMoney(item.Price * float64(quantity))
	return true
}

// Recalculate derives every line subtotal and the cart totals from unit
// prices and quantities. Discounts are not touched.
func (c *Cart) Recalculate() {
	c.TotalItems = 0
	c.TotalAmount = 0
	for i := range c.Items {
		item := &c.Items[i]
		item.Subtotal = roundMoney(item.Price * float64(item.Quantity))
		c.TotalItems += item.Quantity
		c.TotalAmount += item.Subtotal
	}
	c.TotalAmount = roundMoney(c.TotalAmount)
}

// Consistent reports whether subtotals and total_items agree with quantities.
func (c *Cart) Consistent() bool {
	if c == nil {
		return true
	}
	total := 0
	for _, item := range c.Items {
		if item.Quantity < 1 {
			return false
		}
		if roundMoney(item.Price*float64(item.Quantity)) != item.Subtotal {
			return false
		}
		total += item.Quantity
	}
	return total == c.TotalItems
}

func (c *Cart) ItemCount() int {
	if c == nil {
		return 0
	}
	return c.TotalItems
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
