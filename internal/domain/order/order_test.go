package order

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/styleco/storefront/internal/domain/shared"
)

func placeParams(method PaymentMethod) PlaceParams {
	addr := validAddress()
	addr.DeliveryPrice = decimal.NewFromInt(30)
	return PlaceParams{
		Address:       addr,
		PaymentMethod: method,
		Lines: []Line{
			{ProductID: uuid.New(), Quantity: 2, Price: decimal.RequireFromString("200.50"), Size: "M"},
			{ProductID: uuid.New(), Quantity: 1, Price: decimal.RequireFromString("174.25"), Color: "Black"},
		},
	}
}

func TestPlace(t *testing.T) {
	t.Run("cash on delivery starts pending and unpaid", func(t *testing.T) {
		o, err := Place(placeParams(PaymentCashOnDelivery))
		require.NoError(t, err)

		assert.Equal(t, StatusPending, o.Status)
		assert.Equal(t, PaymentPending, o.PaymentStatus)
		assert.Equal(t, o.ShippingAddress, o.BillingAddress)
		assert.True(t, decimal.RequireFromString("651.27").Equal(o.TotalAmount), "total = %s", o.TotalAmount)
		assert.Equal(t, 3, o.ItemCount())
		require.Len(t, o.Items, 2)
		for _, it := range o.Items {
			assert.Equal(t, o.ID, it.OrderID)
		}
	})

	t.Run("card orders are recorded as paid", func(t *testing.T) {
		o, err := Place(placeParams(PaymentCreditCard))
		require.NoError(t, err)
		assert.Equal(t, PaymentPaid, o.PaymentStatus)
	})

	t.Run("raises a placed event", func(t *testing.T) {
		o, err := Place(placeParams(PaymentCashOnDelivery))
		require.NoError(t, err)
		events := o.PendingEvents()
		require.Len(t, events, 1)
		placed, ok := events[0].(*PlacedEvent)
		require.True(t, ok)
		assert.Equal(t, EventTypePlaced, placed.EventType())
		assert.Equal(t, o.ShortID(), placed.ShortID)
	})

	t.Run("rejects empty lines", func(t *testing.T) {
		p := placeParams(PaymentCashOnDelivery)
		p.Lines = nil
		_, err := Place(p)
		assert.Error(t, err)
	})

	t.Run("rejects unknown payment method", func(t *testing.T) {
		_, err := Place(placeParams("bitcoin"))
		assert.Error(t, err)
	})

	t.Run("rejects an invalid phone", func(t *testing.T) {
		p := placeParams(PaymentCashOnDelivery)
		p.Address.Phone = "0123a456789"
		_, err := Place(p)
		assert.ErrorIs(t, err, ErrInvalidPhone)
	})
}

func TestOrder_UpdateStatus(t *testing.T) {
	t.Run("delivered marks the order paid", func(t *testing.T) {
		o, err := Place(placeParams(PaymentCashOnDelivery))
		require.NoError(t, err)
		_ = o.TakeEvents()

		for _, s := range []Status{StatusProcessing, StatusShipped, StatusDelivered} {
			require.NoError(t, o.UpdateStatus(s))
		}
		assert.Equal(t, StatusDelivered, o.Status)
		assert.Equal(t, PaymentPaid, o.PaymentStatus)
		assert.Len(t, o.PendingEvents(), 3)
	})

	tests := []struct {
		name string
		from Status
		to   Status
		ok   bool
	}{
		{"pending to processing", StatusPending, StatusProcessing, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"pending to delivered", StatusPending, StatusDelivered, false},
		{"processing to shipped", StatusProcessing, StatusShipped, true},
		{"shipped to cancelled", StatusShipped, StatusCancelled, false},
		{"delivered is terminal", StatusDelivered, StatusPending, false},
		{"cancelled is terminal", StatusCancelled, StatusProcessing, false},
		{"unknown target", StatusPending, Status("lost"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := Place(placeParams(PaymentCashOnDelivery))
			require.NoError(t, err)
			o.Status = tt.from

			err = o.UpdateStatus(tt.to)
			if tt.ok {
				assert.NoError(t, err)
				assert.Equal(t, tt.to, o.Status)
				return
			}
			assert.Error(t, err)
			assert.Equal(t, tt.from, o.Status)
		})
	}

	t.Run("invalid transition is an invalid state error", func(t *testing.T) {
		o, err := Place(placeParams(PaymentCashOnDelivery))
		require.NoError(t, err)
		err = o.UpdateStatus(StatusShipped)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestOrder_IsOwnedBy(t *testing.T) {
	userID := uuid.New()
	p := placeParams(PaymentCashOnDelivery)
	p.UserID = &userID
	o, err := Place(p)
	require.NoError(t, err)

	assert.True(t, o.IsOwnedBy(userID))
	assert.False(t, o.IsOwnedBy(uuid.New()))

	guest, err := Place(placeParams(PaymentCashOnDelivery))
	require.NoError(t, err)
	assert.False(t, guest.IsOwnedBy(userID))
}
