package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"storefront-client/internal/domain"
	"storefront-client/internal/gateway"
)

type recordedCall struct {
	method string
	path   string
	query  url.Values
	body   interface{}
}

type mockDoer struct {
	calls []recordedCall
	data  interface{}
	err   error
}

func (m *mockDoer) Do(ctx context.Context, req *gateway.Request) (*gateway.Response, error) {
	m.calls = append(m.calls, recordedCall{method: req.Method, path: req.Path, query: req.Query, body: req.Body})
	if m.err != nil {
		return nil, m.err
	}
	raw, _ := json.Marshal(m.data)
	return &gateway.Response{StatusCode: http.StatusOK, Data: raw}, nil
}

func TestCartAPI_Routes(t *testing.T) {
	cart := &domain.Cart{Items: []domain.CartItem{{ID: "i1", Quantity: 1, Price: 10, Subtotal: 10}}, TotalItems: 1, TotalAmount: 10}

	tests := []struct {
		name       string
		invoke     func(a CartAPI) error
		wantMethod string
		wantPath   string
	}{
		{
			name:       "get",
			invoke:     func(a CartAPI) error { _, err := a.GetCart(context.Background()); return err },
			wantMethod: http.MethodGet,
			wantPath:   "/cart",
		},
		{
			name: "add",
			invoke: func(a CartAPI) error {
				return a.AddItem(context.Background(), domain.AddToCartRequest{ProductID: "p1", Quantity: 2})
			},
			wantMethod: http.MethodPost,
			wantPath:   "/cart/add",
		},
		{
			name: "update",
			invoke: func(a CartAPI) error {
				_, err := a.UpdateItem(context.Background(), domain.UpdateCartItemRequest{ItemID: "i1", Quantity: 3})
				return err
			},
			wantMethod: http.MethodPut,
			wantPath:   "/cart/update",
		},
		{
			name:       "remove escapes id",
			invoke:     func(a CartAPI) error { _, err := a.RemoveItem(context.Background(), "a/b"); return err },
			wantMethod: http.MethodDelete,
			wantPath:   "/cart/remove/a%2Fb",
		},
		{
			name:       "clear",
			invoke:     func(a CartAPI) error { return a.ClearCart(context.Background()) },
			wantMethod: http.MethodDelete,
			wantPath:   "/cart/clear",
		},
		{
			name:       "apply coupon",
			invoke:     func(a CartAPI) error { _, err := a.ApplyCoupon(context.Background(), "SAVE10"); return err },
			wantMethod: http.MethodPost,
			wantPath:   "/cart/apply-coupon",
		},
		{
			name:       "remove coupon",
			invoke:     func(a CartAPI) error { _, err := a.RemoveCoupon(context.Background()); return err },
			wantMethod: http.MethodDelete,
			wantPath:   "/cart/coupon",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doer := &mockDoer{data: cart}
			if err := tt.invoke(NewCartAPI(doer)); err != nil {
				t.Fatalf("unexpected error = %v", err)
			}
			if len(doer.calls) != 1 {
				t.Fatalf("calls = %d, want 1", len(doer.calls))
			}
			got := doer.calls[0]
			if got.method != tt.wantMethod || got.path != tt.wantPath {
				t.Errorf("call = %s %s, want %s %s", got.method, got.path, tt.wantMethod, tt.wantPath)
			}
		})
	}
}

func TestCartAPI_NullCart(t *testing.T) {
	doer := &mockDoer{data: nil}

	cart, err := NewCartAPI(doer).GetCart(context.Background())
	if err != nil {
		t.Fatalf("GetCart() error = %v", err)
	}
	if cart != nil {
		t.Errorf("GetCart() = %+v, want nil", cart)
	}
}

func TestCartAPI_ApplyCouponSendsCode(t *testing.T) {
	doer := &mockDoer{data: &domain.Cart{}}

	NewCartAPI(doer).ApplyCoupon(context.Background(), "SAVE20")

	body, ok := doer.calls[0].body.(domain.ApplyCouponRequest)
	if !ok || body.Code != "SAVE20" {
		t.Errorf("body = %#v, want ApplyCouponRequest{SAVE20}", doer.calls[0].body)
	}
}

func TestAuthAPI_PropagatesErrors(t *testing.T) {
	boom := &gateway.APIError{StatusCode: http.StatusUnauthorized, Message: "Invalid credentials"}
	doer := &mockDoer{err: boom}

	_, err := NewAuthAPI(doer).Login(context.Background(), domain.LoginRequest{Email: "a@b.co", Password: "x"})
	if !errors.Is(err, boom) {
		t.Errorf("Login() error = %v, want %v", err, boom)
	}
}

func TestChatAPI_DecodesReply(t *testing.T) {
	doer := &mockDoer{data: domain.ChatReply{Reply: "Try these", SessionID: "s-1", HistoryLength: 2}}

	reply, err := NewChatAPI(doer).Send(context.Background(), domain.ChatRequest{Message: "laptop"})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if reply.SessionID != "s-1" || reply.HistoryLength != 2 {
		t.Errorf("reply = %+v", reply)
	}
}

func TestCatalogAndOrderAPI_Routes(t *testing.T) {
	tests := []struct {
		name       string
		data       interface{}
		invoke     func(d Doer) error
		wantMethod string
		wantPath   string
		wantQuery  string
	}{
		{
			name: "product search with paging",
			data: domain.ProductPage{},
			invoke: func(d Doer) error {
				_, err := NewProductAPI(d).List(context.Background(), ProductQuery{Query: "gaming laptop", Page: 2, Limit: 5})
				return err
			},
			wantMethod: http.MethodGet,
			wantPath:   "/products",
			wantQuery:  "limit=5&page=2&q=gaming+laptop",
		},
		{
			name:       "product list leaves defaults to the server",
			data:       domain.ProductPage{},
			invoke:     func(d Doer) error { _, err := NewProductAPI(d).List(context.Background(), ProductQuery{}); return err },
			wantMethod: http.MethodGet,
			wantPath:   "/products",
		},
		{
			name:       "product by id",
			data:       domain.Product{ID: "prod/1"},
			invoke:     func(d Doer) error { _, err := NewProductAPI(d).Get(context.Background(), "prod/1"); return err },
			wantMethod: http.MethodGet,
			wantPath:   "/products/prod%2F1",
		},
		{
			name: "checkout",
			data: domain.Order{OrderCode: "ORD-1"},
			invoke: func(d Doer) error {
				_, err := NewOrderAPI(d).Checkout(context.Background(), domain.CheckoutRequest{ShippingAddressID: "a1"})
				return err
			},
			wantMethod: http.MethodPost,
			wantPath:   "/orders/checkout",
		},
		{
			name: "order history by status",
			data: domain.OrderPage{},
			invoke: func(d Doer) error {
				_, err := NewOrderAPI(d).List(context.Background(), OrderQuery{Page: 1, Limit: 10, Status: "pending"})
				return err
			},
			wantMethod: http.MethodGet,
			wantPath:   "/orders/me",
			wantQuery:  "limit=10&page=1&status=pending",
		},
		{
			name:       "addresses",
			data:       []domain.Address{},
			invoke:     func(d Doer) error { _, err := NewAddressAPI(d).List(context.Background()); return err },
			wantMethod: http.MethodGet,
			wantPath:   "/auth/me/address",
		},
		{
			name: "create address",
			data: domain.Address{ID: "a1"},
			invoke: func(d Doer) error {
				_, err := NewAddressAPI(d).Create(context.Background(), domain.CreateAddressRequest{FullName: "Lan"})
				return err
			},
			wantMethod: http.MethodPost,
			wantPath:   "/auth/me/address/create",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doer := &mockDoer{data: tt.data}
			if err := tt.invoke(doer); err != nil {
				t.Fatalf("unexpected error = %v", err)
			}
			if len(doer.calls) != 1 {
				t.Fatalf("calls = %d, want 1", len(doer.calls))
			}
			got := doer.calls[0]
			if got.method != tt.wantMethod || got.path != tt.wantPath {
				t.Errorf("call = %s %s, want %s %s", got.method, got.path, tt.wantMethod, tt.wantPath)
			}
			if q := got.query.Encode(); q != tt.wantQuery {
				t.Errorf("query = %q, want %q", q, tt.wantQuery)
			}
		})
	}
}

func TestOrderAPI_DecodesPage(t *testing.T) {
	doer := &mockDoer{data: domain.OrderPage{
		Orders:     []domain.Order{{OrderCode: "ORD-1", FinalAmount: 1830000}},
		Pagination: domain.Pagination{TotalItems: 1, TotalPages: 1, CurrentPage: 1, Limit: 10},
	}}

	page, err := NewOrderAPI(doer).List(context.Background(), OrderQuery{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(page.Orders) != 1 || page.Orders[0].OrderCode != "ORD-1" || page.Pagination.TotalItems != 1 {
		t.Errorf("page = %+v", page)
	}
}
