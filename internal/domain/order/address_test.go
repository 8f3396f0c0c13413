package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/styleco/storefront/internal/domain/shared"
)

func validAddress() Address {
	return Address{
		FullName:    "Mona Adel",
		Phone:       "01234567890",
		Address:     "12 Nile St",
		City:        "Giza",
		Governorate: "Giza",
		Country:     "Egypt",
	}
}

func TestValidPhone(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"0123456789", false},
		{"01234567890", true},
		{"0123a456789", false},
		{"0123-456-7890", true},
		{"012345678901", false},
		{"", false},
		{"٠١٢٣٤٥٦٧٨٩٠", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidPhone(tt.input))
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "0123456789", NormalizePhone("0123a456789"))
	assert.Equal(t, "01012345678", NormalizePhone(" +(010) 1234-5678 "))
}

func TestAddress_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Address)
		code   string
	}{
		{"valid", func(a *Address) {}, ""},
		{"short phone", func(a *Address) { a.Phone = "0123456789" }, ErrInvalidPhone.Code},
		{"letters stripped before counting", func(a *Address) { a.Phone = "0123a456789" }, ErrInvalidPhone.Code},
		{"bad alternative phone", func(a *Address) { a.AlternativePhone = "0111" }, ErrInvalidAlternativePhone.Code},
		{"good alternative phone", func(a *Address) { a.AlternativePhone = "01112345678" }, ""},
		{"missing governorate", func(a *Address) { a.Governorate = "  " }, ErrMissingGovernorate.Code},
		{"missing city", func(a *Address) { a.City = "" }, "MISSING_CITY"},
		{"negative delivery", func(a *Address) { a.DeliveryPrice = decimal.NewFromInt(-1) }, "INVALID_DELIVERY_PRICE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validAddress()
			tt.mutate(&a)
			err := a.Validate()
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			var de *shared.DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.code, de.Code)
		})
	}
}

func TestAddress_Normalize(t *testing.T) {
	a := Address{FullName: " Mona ", Phone: "0123-456-7890", City: " Giza "}.Normalize()
	assert.Equal(t, "Mona", a.FullName)
	assert.Equal(t, "01234567890", a.Phone)
	assert.Equal(t, "Giza", a.City)
	assert.Equal(t, DefaultCountry, a.Country)
}
