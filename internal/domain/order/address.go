package order

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"github.com/styleco/storefront/internal/domain/shared"
)

// PhoneDigits is the required length of a phone number
const PhoneDigits = 11

// DefaultCountry is used when the form leaves country empty
const DefaultCountry = "Egypt"

// Address is the shipping (and billing) address stored on an order.
// JSON names match the persisted address documents.
type Address struct {
	FullName         string          `json:"fullName"`
	Phone            string          `json:"phone"`
	AlternativePhone string          `json:"alternativePhone,omitempty"`
	Address          string          `json:"address"`
	City             string          `json:"city"`
	Governorate      string          `json:"governorate"`
	ZipCode          string          `json:"zipCode,omitempty"`
	Country          string          `json:"country"`
	DeliveryPrice    decimal.Decimal `json:"deliveryPrice"`
}

var (
	ErrInvalidPhone            = shared.NewFieldError("phone", "INVALID_PHONE", "Phone number must be exactly 11 digits")
	ErrInvalidAlternativePhone = shared.NewFieldError("alternative_phone", "INVALID_ALTERNATIVE_PHONE", "Alternative phone number must be exactly 11 digits")
	ErrMissingGovernorate      = shared.NewFieldError("governorate", "MISSING_GOVERNORATE", "Please select a governorate")
)

// NormalizePhone strips every non-digit character
func NormalizePhone(raw string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) && r <= unicode.MaxASCII {
			return r
		}
		return -1
	}, raw)
}

// ValidPhone reports whether raw has exactly 11 digits once non-digits are stripped
func ValidPhone(raw string) bool {
	return len(NormalizePhone(raw)) == PhoneDigits
}

// Normalize trims text fields, strips phones to digits and defaults the country
func (a Address) Normalize() Address {
	a.FullName = strings.TrimSpace(a.FullName)
	a.Phone = NormalizePhone(a.Phone)
	a.AlternativePhone = NormalizePhone(a.AlternativePhone)
	a.Address = strings.TrimSpace(a.Address)
	a.City = strings.TrimSpace(a.City)
	a.Governorate = strings.TrimSpace(a.Governorate)
	a.ZipCode = strings.TrimSpace(a.ZipCode)
	a.Country = strings.TrimSpace(a.Country)
	if a.Country == "" {
		a.Country = DefaultCountry
	}
	return a
}

// Validate checks the checkout rules; the first failing rule is returned
func (a Address) Validate() error {
	if !ValidPhone(a.Phone) {
		return ErrInvalidPhone
	}
	if NormalizePhone(a.AlternativePhone) != "" && !ValidPhone(a.AlternativePhone) {
		return ErrInvalidAlternativePhone
	}
	if strings.TrimSpace(a.Governorate) == "" {
		return ErrMissingGovernorate
	}
	if strings.TrimSpace(a.FullName) == "" {
		return shared.NewFieldError("full_name", "MISSING_FULL_NAME", "Full name is required")
	}
	if strings.TrimSpace(a.Address) == "" {
		return shared.NewFieldError("address", "MISSING_ADDRESS", "Address is required")
	}
	if strings.TrimSpace(a.City) == "" {
		return shared.NewFieldError("city", "MISSING_CITY", "City is required")
	}
	if a.DeliveryPrice.IsNegative() {
		return shared.NewDomainError("INVALID_DELIVERY_PRICE", "Delivery price cannot be negative")
	}
	return nil
}
