package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"storefront-client/internal/cart"
	"storefront-client/internal/domain"
)

func cartSummary(snap cart.Snapshot) string {
	switch snap.Status {
	case cart.StatusNone:
		return "Cart is empty"
	case cart.StatusUnknown:
		return "Cart could not be loaded"
	}
	return fmt.Sprintf("Cart: %d item(s), total %s", snap.Cart.TotalItems, money(payable(snap.Cart)))
}

func formatCart(snap cart.Snapshot) string {
	if snap.Status != cart.StatusReady || len(snap.Cart.Items) == 0 {
		return cartSummary(snap) + "\n"
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tPRODUCT\tQTY\tPRICE\tSUBTOTAL")
	for _, item := range snap.Cart.Items {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", item.ID, item.Product.Name, item.Quantity, money(item.Price), money(item.Subtotal))
	}
	w.Flush()

	fmt.Fprintf(&b, "\nItems:    %d\n", snap.Cart.TotalItems)
	fmt.Fprintf(&b, "Subtotal: %s\n", money(snap.Cart.TotalAmount))
	if c := snap.Cart.AppliedCoupon; c != nil {
		fmt.Fprintf(&b, "Coupon:   %s (-%s)\n", c.Code, money(snap.Cart.DiscountAmount))
	}
	fmt.Fprintf(&b, "Total:    %s\n", money(payable(snap.Cart)))
	if snap.Phase == cart.PhaseRolledBack {
		b.WriteString("(last change was rolled back)\n")
	}
	return b.String()
}

func formatCoupons(coupons []domain.AvailableCoupon) string {
	if len(coupons) == 0 {
		return "No coupons\n"
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tTYPE\tVALUE\tMIN ORDER\tUSABLE")
	for _, c := range coupons {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n", c.Code, c.Type, couponValue(&c.Coupon), money(c.MinOrderValue), c.CanUse)
	}
	w.Flush()
	return b.String()
}

func couponValue(c *domain.Coupon) string {
	switch c.Type {
	case domain.CouponPercent:
		return fmt.Sprintf("%.0f%%", c.Value)
	case domain.CouponFreeShip:
		return "free shipping"
	}
	return money(c.Value)
}

func formatProducts(page *domain.ProductPage) string {
	if len(page.Products) == 0 {
		return "No products\n"
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tSTOCK")
	for _, p := range page.Products {
		stock := fmt.Sprint(p.Stock)
		if !p.InStock() {
			stock = "sold out"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Name, money(p.Price), stock)
	}
	w.Flush()

	fmt.Fprintf(&b, "\nPage %d of %d (%d products)\n", page.Pagination.CurrentPage, page.Pagination.TotalPages, page.Pagination.TotalItems)
	return b.String()
}

func formatProduct(p *domain.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", p.Name, p.ID)
	if p.OldPrice > p.Price {
		fmt.Fprintf(&b, "Price: %s (was %s)\n", money(p.Price), money(p.OldPrice))
	} else {
		fmt.Fprintf(&b, "Price: %s\n", money(p.Price))
	}
	fmt.Fprintf(&b, "Stock: %d\n", p.Stock)
	if p.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", p.Description)
	}
	return b.String()
}

func formatOrder(o *domain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order %s (%s)\n", o.OrderCode, o.OrderStatus)

	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	for _, item := range o.Items {
		fmt.Fprintf(w, "  %s\tx%d\t%s\n", item.Name, item.Quantity, money(item.Subtotal))
	}
	w.Flush()

	fmt.Fprintf(&b, "Subtotal: %s\n", money(o.TotalAmount))
	if o.DiscountAmount > 0 {
		fmt.Fprintf(&b, "Discount: -%s (%s)\n", money(o.DiscountAmount), o.CouponCode)
	}
	fmt.Fprintf(&b, "Shipping: %s\n", money(o.ShippingFee))
	fmt.Fprintf(&b, "Total:    %s, %s\n", money(o.FinalAmount), o.Payment.Method)
	fmt.Fprintf(&b, "Ship to:  %s, %s, %s\n", o.ShippingAddress.FullName, o.ShippingAddress.Address, o.ShippingAddress.Province)
	return b.String()
}

func formatOrders(page *domain.OrderPage) string {
	if len(page.Orders) == 0 {
		return "No orders\n"
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tDATE\tSTATUS\tITEMS\tTOTAL")
	for _, o := range page.Orders {
		items := 0
		for _, it := range o.Items {
			items += it.Quantity
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", o.OrderCode, o.CreatedAt.Format("2006-01-02"), o.OrderStatus, items, money(o.FinalAmount))
	}
	w.Flush()

	fmt.Fprintf(&b, "\nPage %d of %d (%d orders)\n", page.Pagination.CurrentPage, page.Pagination.TotalPages, page.Pagination.TotalItems)
	return b.String()
}

func formatAddresses(list []domain.Address) string {
	if len(list) == 0 {
		return "No addresses\n"
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPHONE\tADDRESS\tDEFAULT")
	for _, a := range list {
		where := strings.Join([]string{a.Address, a.Ward, a.District, a.Province}, ", ")
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n", a.ID, a.FullName, a.Phone, where, a.IsDefault)
	}
	w.Flush()
	return b.String()
}

func payable(c *domain.Cart) float64 {
	total := c.TotalAmount - c.DiscountAmount
	if total < 0 {
		return 0
	}
	return total
}

// money groups thousands the way prices are displayed in the shop.
func money(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String() + "đ"
	}
	return b.String() + "đ"
}
