package domain

import "errors"

var (
	ErrEmptyProductID = errors.New("product id must not be empty")
	ErrNegativePrice  = errors.New("unit price must not be negative")
)

// Item is a single cart line. Quantity is always >= 1 while the item is
// present; a line driven to zero is removed from the cart instead.
type Item struct {
	ProductID string
	Name      string
	UnitPrice int64
	ImageRef  string
	Quantity  int
}

// Cart is the per-session ordered list of selected items, unique by
// product id. The total is always derived from the lines, never cached.
type Cart struct {
	items []Item
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// FromItems rebuilds a cart from persisted lines. Duplicated product ids
// are merged and invalid lines dropped, so a cart restored from storage
// always satisfies the aggregate invariants.
func FromItems(items []Item) *Cart {
	cart := NewCart()
	for _, item := range items {
		if item.Quantity < 1 {
			continue
		}
		if err := cart.Add(item.ProductID, item.Name, item.UnitPrice, item.ImageRef); err != nil {
			continue
		}
		if item.Quantity > 1 {
			cart.ChangeQuantity(item.ProductID, item.Quantity-1)
		}
	}
	return cart
}

// Add merges by product id: an existing line gains quantity 1, a new line
// is appended with quantity 1.
func (c *Cart) Add(productID, name string, unitPrice int64, imageRef string) error {
	if productID == "" {
		return ErrEmptyProductID
	}
	if unitPrice < 0 {
		return ErrNegativePrice
	}
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items[i].Quantity++
			return nil
		}
	}
	c.items = append(c.items, Item{
		ProductID: productID,
		Name:      name,
		UnitPrice: unitPrice,
		ImageRef:  imageRef,
		Quantity:  1,
	})
	return nil
}

// ChangeQuantity applies delta to the line with the given product id and
// removes the line when the result drops to zero or below. It reports
// whether the cart changed; an absent id is a no-op.
func (c *Cart) ChangeQuantity(productID string, delta int) bool {
	for i := range c.items {
		if c.items[i].ProductID != productID {
			continue
		}
		c.items[i].Quantity += delta
		if c.items[i].Quantity <= 0 {
			c.items = append(c.items[:i], c.items[i+1:]...)
		}
		return true
	}
	return false
}

// Remove drops the line unconditionally. It reports whether a line was
// removed.
func (c *Cart) Remove(productID string) bool {
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = nil
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []Item {
	items := make([]Item, len(c.items))
	copy(items, c.items)
	return items
}

// Find returns the line for the given product id.
func (c *Cart) Find(productID string) (Item, bool) {
	for _, item := range c.items {
		if item.ProductID == productID {
			return item, true
		}
	}
	return Item{}, false
}

// Total recomputes the cart total from the lines.
func (c *Cart) Total() int64 {
	var total int64
	for _, item := range c.items {
		total += item.UnitPrice * int64(item.Quantity)
	}
	return total
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.items)
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}
