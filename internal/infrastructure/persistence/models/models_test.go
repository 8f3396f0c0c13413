package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/styleco/storefront/internal/domain/order"
)

func TestStringList_Scan(t *testing.T) {
	tests := []struct {
		name string
		src  any
		want StringList
	}{
		{"bytes", []byte(`["S","M"]`), StringList{"S", "M"}},
		{"string", `["Blue"]`, StringList{"Blue"}},
		{"null", nil, StringList{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l StringList
			require.NoError(t, l.Scan(tt.src))
			assert.Equal(t, tt.want, l)
		})
	}

	var l StringList
	assert.Error(t, l.Scan(42))
	assert.Error(t, l.Scan("not json"))
}

func TestStringList_ValueOfNil(t *testing.T) {
	v, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestAddressJSON_UsesCheckoutFieldNames(t *testing.T) {
	addr := AddressJSON(order.Address{
		FullName:      "Mona Adel",
		Phone:         "01012345678",
		Address:       "12 Tahrir St",
		City:          "Cairo",
		Governorate:   "Cairo",
		Country:       "Egypt",
		DeliveryPrice: decimal.NewFromInt(30),
	})

	v, err := addr.Value()
	require.NoError(t, err)
	assert.Contains(t, v, `"fullName":"Mona Adel"`)
	assert.Contains(t, v, `"deliveryPrice"`)
	assert.NotContains(t, v, "alternativePhone")

	var back AddressJSON
	require.NoError(t, back.Scan(v))
	assert.Equal(t, "Cairo", back.Governorate)
	assert.True(t, back.DeliveryPrice.Equal(decimal.NewFromInt(30)))
}

func TestOrderModel_CarriesItems(t *testing.T) {
	o, err := order.Place(order.PlaceParams{
		Address: order.Address{
			FullName: "Mona Adel", Phone: "010-1234-5678", Address: "12 Tahrir St",
			City: "Cairo", Governorate: "Cairo", DeliveryPrice: decimal.NewFromInt(30),
		},
		PaymentMethod: order.PaymentCashOnDelivery,
		Lines: []order.Line{
			{ProductID: uuid.New(), Quantity: 2, Price: decimal.NewFromInt(100), Size: "M"},
		},
	})
	require.NoError(t, err)

	m := OrderModelFromDomain(o)
	require.Len(t, m.Items, 1)
	assert.Equal(t, o.ID, m.Items[0].OrderID)

	back := m.ToDomain()
	assert.Equal(t, o.ID, back.ID)
	assert.Equal(t, "01012345678", back.ShippingAddress.Phone)
	assert.True(t, back.TotalAmount.Equal(o.TotalAmount))
	assert.Equal(t, 2, back.ItemCount())
}
