package cart

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(price string) Product {
	return Product{
		ID:    uuid.New(),
		Name:  "Product " + price,
		Slug:  "product-" + price,
		Price: decimal.RequireFromString(price),
		Sizes: []string{"M", "L"},
	}
}

// assertProjections checks that the cached totals match the lines
func assertProjections(t *testing.T, s State) {
	t.Helper()
	total := decimal.Zero
	count := 0
	for _, it := range s.Items {
		total = total.Add(it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		count += it.Quantity
	}
	assert.True(t, total.Equal(s.Total), "total %s != %s", s.Total, total)
	assert.Equal(t, count, s.ItemCount)
}

func TestReduce_AddItem(t *testing.T) {
	p := product("100")

	t.Run("same key merges into one line", func(t *testing.T) {
		s := Empty()
		for _, q := range []int{1, 2, 4} {
			s = Reduce(s, AddItem{Product: p, Quantity: q, Size: "M", Color: "Blue"})
			assertProjections(t, s)
		}
		require.Len(t, s.Items, 1)
		assert.Equal(t, 7, s.Items[0].Quantity)
		assert.True(t, decimal.NewFromInt(700).Equal(s.Total))
	})

	t.Run("different size stays a separate line", func(t *testing.T) {
		s := Reduce(Empty(), AddItem{Product: p, Quantity: 2, Size: "M"})
		s = Reduce(s, AddItem{Product: p, Quantity: 1, Size: "L"})

		require.Len(t, s.Items, 2)
		assert.Equal(t, 3, s.ItemCount)
		assert.True(t, decimal.NewFromInt(300).Equal(s.Total))
		assertProjections(t, s)
	})

	t.Run("different color stays a separate line", func(t *testing.T) {
		s := Reduce(Empty(), AddItem{Product: p, Quantity: 1, Color: "Red"})
		s = Reduce(s, AddItem{Product: p, Quantity: 1})
		assert.Len(t, s.Items, 2)
	})

	t.Run("appends in insertion order", func(t *testing.T) {
		q := product("50")
		s := Reduce(Empty(), AddItem{Product: p, Quantity: 1})
		s = Reduce(s, AddItem{Product: q, Quantity: 1})
		s = Reduce(s, AddItem{Product: p, Quantity: 1})
		require.Len(t, s.Items, 2)
		assert.Equal(t, p.ID, s.Items[0].Product.ID)
		assert.Equal(t, q.ID, s.Items[1].Product.ID)
	})

	t.Run("non-positive quantity is ignored", func(t *testing.T) {
		s := Reduce(Empty(), AddItem{Product: p, Quantity: 0})
		assert.True(t, s.IsEmpty())
	})

	t.Run("input state is not modified", func(t *testing.T) {
		before := Reduce(Empty(), AddItem{Product: p, Quantity: 1})
		after := Reduce(before, AddItem{Product: p, Quantity: 5})
		assert.Equal(t, 1, before.Items[0].Quantity)
		assert.Equal(t, 6, after.Items[0].Quantity)
	})
}

func TestReduce_RemoveItem(t *testing.T) {
	a, b := product("10"), product("20.5")
	s := Reduce(Empty(), AddItem{Product: a, Quantity: 2, Size: "M"})
	s = Reduce(s, AddItem{Product: b, Quantity: 1})

	t.Run("removes only the matching key", func(t *testing.T) {
		got := Reduce(s, RemoveItem{ProductID: a.ID, Size: "L"})
		assert.Len(t, got.Items, 2)

		got = Reduce(s, RemoveItem{ProductID: a.ID, Size: "M"})
		require.Len(t, got.Items, 1)
		assert.Equal(t, b.ID, got.Items[0].Product.ID)
		assertProjections(t, got)
	})

	t.Run("missing key is a no-op", func(t *testing.T) {
		got := Reduce(s, RemoveItem{ProductID: uuid.New()})
		assert.Equal(t, s.ItemCount, got.ItemCount)
		assertProjections(t, got)
	})
}

func TestReduce_UpdateQuantity(t *testing.T) {
	a, b := product("12.25"), product("3")
	s := Reduce(Empty(), AddItem{Product: a, Quantity: 2, Size: "M"})
	s = Reduce(s, AddItem{Product: b, Quantity: 4})

	t.Run("sets an absolute quantity", func(t *testing.T) {
		got := Reduce(s, UpdateQuantity{ProductID: a.ID, Quantity: 5, Size: "M"})
		item, ok := got.Find(Key{ProductID: a.ID, Size: "M"})
		require.True(t, ok)
		assert.Equal(t, 5, item.Quantity)
		assertProjections(t, got)
	})

	t.Run("zero removes the line and repeating it is a no-op", func(t *testing.T) {
		once := Reduce(s, UpdateQuantity{ProductID: a.ID, Quantity: 0, Size: "M"})
		require.Len(t, once.Items, 1)
		assertProjections(t, once)

		twice := Reduce(once, UpdateQuantity{ProductID: a.ID, Quantity: 0, Size: "M"})
		assert.Equal(t, once, twice)
	})

	t.Run("negative removes the line", func(t *testing.T) {
		got := Reduce(s, UpdateQuantity{ProductID: b.ID, Quantity: -3})
		_, ok := got.Find(Key{ProductID: b.ID})
		assert.False(t, ok)
	})
}

func TestReduce_Clear(t *testing.T) {
	s := Reduce(Empty(), AddItem{Product: product("99.99"), Quantity: 3})
	got := Reduce(s, Clear{})

	assert.Empty(t, got.Items)
	assert.True(t, got.Total.IsZero())
	assert.Equal(t, 0, got.ItemCount)
}

func TestReduce_Load(t *testing.T) {
	a := product("15")
	got := Reduce(Empty(), Load{Items: []Item{
		{Product: a, Quantity: 2},
		{Product: a, Quantity: 1},
		{Product: product("5"), Quantity: 0},
		{Product: Product{Price: decimal.NewFromInt(1)}, Quantity: 1},
	}})

	require.Len(t, got.Items, 1)
	assert.Equal(t, 3, got.ItemCount)
	assert.True(t, decimal.NewFromInt(45).Equal(got.Total))
}

func TestReduce_TotalsAfterEveryMutation(t *testing.T) {
	a, b, c := product("100"), product("0.1"), product("575.25")
	actions := []Action{
		AddItem{Product: a, Quantity: 1},
		AddItem{Product: b, Quantity: 3, Color: "Red"},
		AddItem{Product: c, Quantity: 1, Size: "L"},
		UpdateQuantity{ProductID: b.ID, Quantity: 7, Color: "Red"},
		AddItem{Product: a, Quantity: 2},
		RemoveItem{ProductID: c.ID, Size: "L"},
		UpdateQuantity{ProductID: a.ID, Quantity: 0},
		Clear{},
	}
	s := Empty()
	for _, act := range actions {
		s = Reduce(s, act)
		assertProjections(t, s)
	}
	assert.True(t, s.IsEmpty())
}

func TestItem_JSONShape(t *testing.T) {
	s := Reduce(Empty(), AddItem{Product: product("100"), Quantity: 1, Size: "M"})
	data, err := json.Marshal(s.Items)
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	assert.Contains(t, raw[0], "product")
	assert.Equal(t, "M", raw[0]["size"])
	assert.NotContains(t, raw[0], "color")
}
