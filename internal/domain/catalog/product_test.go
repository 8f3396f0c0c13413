package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/styleco/storefront/internal/domain/shared"
)

func validInput() ProductInput {
	return ProductInput{
		Name:          "Linen Shirt",
		Price:         decimal.NewFromInt(100),
		Sizes:         []string{"M", "L", " "},
		Colors:        []string{"Blue"},
		StockQuantity: 5,
		IsActive:      true,
	}
}

func TestNewProduct(t *testing.T) {
	t.Run("derives slug from name and drops blank options", func(t *testing.T) {
		p, err := NewProduct(validInput())
		require.NoError(t, err)
		assert.Equal(t, "linen-shirt", p.Slug)
		assert.Equal(t, []string{"M", "L"}, p.Sizes)
		assert.NotEmpty(t, p.ID)
	})

	t.Run("keeps explicit slug lowercased", func(t *testing.T) {
		in := validInput()
		in.Slug = "Summer-Linen"
		p, err := NewProduct(in)
		require.NoError(t, err)
		assert.Equal(t, "summer-linen", p.Slug)
	})

	tests := []struct {
		name   string
		mutate func(*ProductInput)
		code   string
	}{
		{"empty name", func(in *ProductInput) { in.Name = "  " }, "INVALID_NAME"},
		{"zero price", func(in *ProductInput) { in.Price = decimal.Zero }, "INVALID_PRICE"},
		{"negative compare price", func(in *ProductInput) {
			v := decimal.NewFromInt(-1)
			in.ComparePrice = &v
		}, "INVALID_PRICE"},
		{"negative stock", func(in *ProductInput) { in.StockQuantity = -1 }, "INVALID_STOCK"},
		{"bad slug", func(in *ProductInput) { in.Slug = "a--b" }, "INVALID_SLUG"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, err := NewProduct(in)
			var de *shared.DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.code, de.Code)
		})
	}
}

func TestProduct_Options(t *testing.T) {
	p, err := NewProduct(validInput())
	require.NoError(t, err)

	assert.True(t, p.OffersSize("M"))
	assert.False(t, p.OffersSize("XL"))
	assert.True(t, p.OffersSize(""))
	assert.True(t, p.OffersColor("Blue"))
	assert.False(t, p.OffersColor("Red"))
	assert.True(t, p.InStock())
	assert.Equal(t, "", p.PrimaryImage())
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "test-t-shirt", Slugify("Test T-Shirt"))
	assert.Equal(t, "jeans-2024", Slugify("  Jeans 2024!! "))
}

func TestParseSortBy(t *testing.T) {
	assert.Equal(t, SortPriceAsc, ParseSortBy("price-asc"))
	assert.Equal(t, SortPopular, ParseSortBy("popular"))
	assert.Equal(t, SortNewest, ParseSortBy("views"))
	assert.Equal(t, SortNewest, ParseSortBy(""))
}
