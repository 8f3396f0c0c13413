package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	cartapp "github.com/styleco/storefront/internal/application/cart"
	checkoutapp "github.com/styleco/storefront/internal/application/checkout"
	"github.com/styleco/storefront/internal/infrastructure/cache"
	"github.com/styleco/storefront/internal/infrastructure/persistence"
	"github.com/styleco/storefront/internal/interfaces/http/dto"
	"github.com/styleco/storefront/tests/testutil"
)

func TestCheckoutHandler_Submit_Rejections(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	products := persistence.NewGormProductRepository(db)
	carts := cartapp.NewService(cache.NewMemoryCartStorage(), products, nil)
	h := NewCheckoutHandler(checkoutapp.NewService(carts,
		persistence.NewGormOrderRepository(db),
		persistence.NewGormDeliveryPriceRepository(db)))

	valid := func() map[string]any {
		return map[string]any{
			"full_name":   "Nour Adel",
			"phone":       "0100 123 4567",
			"address":     "12 Tahrir St",
			"city":        "Dokki",
			"governorate": "Giza",
		}
	}
	with := func(key string, value any) map[string]any {
		body := valid()
		body[key] = value
		return body
	}
	asGuest := func(t *testing.T) func(*testutil.TestContext) {
		return func(tc *testutil.TestContext) {
			tc.SetCartOwner(cartapp.GuestOwner(testutil.NewTestUUID(t.Name())))
		}
	}

	tests := []struct {
		name   string
		body   map[string]any
		status int
		check  func(t *testing.T, tc *testutil.TestContext)
	}{
		{"empty cart", valid(), http.StatusUnprocessableEntity, func(t *testing.T, tc *testutil.TestContext) {
			testutil.AssertErrorReason(t, tc, dto.ErrCodeBusinessRule, "EMPTY_CART")
		}},
		{"ten digit phone", with("phone", "0100123456"), http.StatusBadRequest, func(t *testing.T, tc *testutil.TestContext) {
			testutil.AssertFieldError(t, tc, "phone")
		}},
		{"no governorate", with("governorate", " "), http.StatusBadRequest, func(t *testing.T, tc *testutil.TestContext) {
			testutil.AssertFieldError(t, tc, "governorate")
		}},
		{"unsupported payment method", with("payment_method", "bitcoin"), http.StatusBadRequest, func(t *testing.T, tc *testutil.TestContext) {
			testutil.AssertFieldError(t, tc, "payment_method")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := testutil.Do(t, h.Submit, testutil.Call{
				Method: http.MethodPost,
				Path:   "/api/v1/checkout",
				Body:   tt.body,
				Before: asGuest(t),
			})
			assert.Equal(t, tt.status, tc.ResponseCode())
			tt.check(t, tc)
		})
	}
}
