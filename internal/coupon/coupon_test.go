package coupon

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"storefront-client/internal/domain"
	"storefront-client/internal/gateway"
)

type mockCouponAPI struct {
	available []domain.AvailableCoupon
	err       error
	validated []string
}

func (m *mockCouponAPI) Available(ctx context.Context) ([]domain.AvailableCoupon, error) {
	return m.available, m.err
}

func (m *mockCouponAPI) Validate(ctx context.Context, code string) (*domain.ValidateCouponResponse, error) {
	m.validated = append(m.validated, code)
	if m.err != nil {
		return nil, m.err
	}
	return &domain.ValidateCouponResponse{
		Coupon:         domain.Coupon{Code: code, Type: domain.CouponPercent, Value: 10},
		DiscountAmount: 15000,
	}, nil
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		code        string
		apiErr      error
		wantValid   bool
		wantMessage string
		wantCalls   int
	}{
		{
			name:        "valid code",
			code:        " SAVE10 ",
			wantValid:   true,
			wantMessage: "SAVE10 saves 15000",
			wantCalls:   1,
		},
		{
			name:        "server rejection is passed through",
			code:        "OLD",
			apiErr:      &gateway.APIError{StatusCode: http.StatusBadRequest, Message: "Coupon has expired"},
			wantMessage: "Coupon has expired",
			wantCalls:   1,
		},
		{
			name:        "transport error uses fallback",
			code:        "SAVE10",
			apiErr:      errors.New("dial tcp: refused"),
			wantMessage: msgInvalid,
			wantCalls:   1,
		},
		{
			name:        "blank code",
			code:        "   ",
			wantMessage: msgEmptyCode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockCouponAPI{err: tt.apiErr}
			got := NewService(mock).Validate(context.Background(), tt.code)

			if got.Valid != tt.wantValid || got.Message != tt.wantMessage {
				t.Errorf("Validate() = %+v, want valid=%v message=%q", got, tt.wantValid, tt.wantMessage)
			}
			if len(mock.validated) != tt.wantCalls {
				t.Errorf("calls = %d, want %d", len(mock.validated), tt.wantCalls)
			}
			if tt.wantValid && got.Discount != 15000 {
				t.Errorf("Discount = %v, want 15000", got.Discount)
			}
		})
	}
}

func TestAvailableAndUsable(t *testing.T) {
	mock := &mockCouponAPI{available: []domain.AvailableCoupon{
		{Coupon: domain.Coupon{Code: "SAVE10"}, CanUse: true},
		{Coupon: domain.Coupon{Code: "USED"}, CanUse: false},
	}}

	coupons, err := NewService(mock).Available(context.Background())
	if err != nil {
		t.Fatalf("Available() error = %v", err)
	}
	usable := Usable(coupons)
	if len(usable) != 1 || usable[0].Code != "SAVE10" {
		t.Errorf("Usable() = %+v", usable)
	}
}

func TestAvailableError(t *testing.T) {
	boom := &gateway.APIError{StatusCode: http.StatusInternalServerError}
	_, err := NewService(&mockCouponAPI{err: boom}).Available(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("Available() error = %v, want wrapped %v", err, boom)
	}
}
