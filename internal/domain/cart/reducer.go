package cart

import "github.com/google/uuid"

// Action is a cart transition
type Action interface {
	actionName() string
}

// AddItem merges Quantity into the line with the same key or appends a new line
type AddItem struct {
	Product  Product
	Quantity int
	Size     string
	Color    string
}

// RemoveItem deletes every line with the key
type RemoveItem struct {
	ProductID uuid.UUID
	Size      string
	Color     string
}

// UpdateQuantity sets a line's quantity; Quantity <= 0 removes the line
type UpdateQuantity struct {
	ProductID uuid.UUID
	Quantity  int
	Size      string
	Color     string
}

// Clear empties the cart
type Clear struct{}

// Load replaces the cart with previously persisted lines
type Load struct {
	Items []Item
}

func (AddItem) actionName() string        { return "add_item" }
func (RemoveItem) actionName() string     { return "remove_item" }
func (UpdateQuantity) actionName() string { return "update_quantity" }
func (Clear) actionName() string          { return "clear" }
func (Load) actionName() string           { return "load" }

// Name returns a stable label for logging
func Name(a Action) string {
	if a == nil {
		return "unknown"
	}
	return a.actionName()
}

// Reduce applies a to s and returns the new state. s is never modified.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case AddItem:
		return addItem(s, a)
	case RemoveItem:
		return removeItem(s, Key{ProductID: a.ProductID, Size: a.Size, Color: a.Color})
	case UpdateQuantity:
		k := Key{ProductID: a.ProductID, Size: a.Size, Color: a.Color}
		if a.Quantity <= 0 {
			return removeItem(s, k)
		}
		return setQuantity(s, k, a.Quantity)
	case Clear:
		return Empty()
	case Load:
		return load(a.Items)
	default:
		return s
	}
}

func addItem(s State, a AddItem) State {
	line := Item{Product: a.Product, Quantity: a.Quantity, Size: a.Size, Color: a.Color}
	if !line.valid() {
		return s
	}
	k := line.Key()
	items := make([]Item, 0, len(s.Items)+1)
	merged := false
	for _, it := range s.Items {
		if !merged && it.Key() == k {
			it.Quantity += a.Quantity
			merged = true
		}
		items = append(items, it)
	}
	if !merged {
		items = append(items, line)
	}
	return withItems(items)
}

func removeItem(s State, k Key) State {
	items := make([]Item, 0, len(s.Items))
	for _, it := range s.Items {
		if it.Key() != k {
			items = append(items, it)
		}
	}
	return withItems(items)
}

func setQuantity(s State, k Key, qty int) State {
	items := make([]Item, len(s.Items))
	for i, it := range s.Items {
		if it.Key() == k {
			it.Quantity = qty
		}
		items[i] = it
	}
	return withItems(items)
}

// load keeps persisted lines in order, dropping any that cannot be a valid
// line and folding duplicate keys together.
func load(persisted []Item) State {
	s := Empty()
	for _, it := range persisted {
		s = addItem(s, AddItem{Product: it.Product, Quantity: it.Quantity, Size: it.Size, Color: it.Color})
	}
	return s
}
