// Package cart implements the shopping cart: an ordered list of line
// items keyed by product identifier, persisted wholesale after every
// change.
package cart

import (
	"errors"
	"sync"

	"github.com/oqtepa/fastfood-storefront/internal/catalog"
	"github.com/oqtepa/fastfood-storefront/internal/kvstore"
	"github.com/oqtepa/fastfood-storefront/internal/model"
)

// MaxNoteLength bounds the free-text customization note.
const MaxNoteLength = 500

var (
	ErrUnknownProduct    = errors.New("unknown product")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrNoteTooLong       = errors.New("customization note too long")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Cart holds the current line items. Adding a product that is already
// present merges quantities instead of duplicating the line.
type Cart struct {
	mu    sync.Mutex
	items []model.CartItem
	kv    *kvstore.Store
	cat   *catalog.Store
}

// New builds a Cart seeded from the persisted cart snapshot; a missing
// or malformed snapshot yields an empty cart.
func New(kv *kvstore.Store, cat *catalog.Store) *Cart {
	c := &Cart{kv: kv, cat: cat}
	var snap []model.CartItem
	if kv.Read(kvstore.KeyCart, &snap) {
		c.items = snap
	}
	return c
}

// Add puts qty units of the product into the cart, merging into an
// existing line for the same product. The stock check covers the
// resulting line quantity, so repeated adds cannot overshoot stock.
// On any validation failure the cart is left unchanged.
func (c *Cart) Add(productID string, qty int64, note string) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if len(note) > MaxNoteLength {
		return ErrNoteTooLong
	}
	p, ok := c.cat.Get(productID)
	if !ok {
		return ErrUnknownProduct
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	total := qty
	i := c.index(productID)
	if i >= 0 {
		total += c.items[i].Quantity
	}
	if !c.cat.InStock(productID, total) {
		return ErrInsufficientStock
	}
	if i >= 0 {
		c.items[i].Quantity = total
		if note != "" {
			c.items[i].Customization = note
		}
	} else {
		c.items = append(c.items, model.CartItem{Product: p, Quantity: qty, Customization: note})
	}
	c.persist()
	return nil
}

// SetQuantity replaces the quantity of an existing line.
func (c *Cart) SetQuantity(productID string, qty int64) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.index(productID)
	if i < 0 {
		return ErrUnknownProduct
	}
	if !c.cat.InStock(productID, qty) {
		return ErrInsufficientStock
	}
	c.items[i].Quantity = qty
	c.persist()
	return nil
}

// Remove deletes the line for productID, reporting whether it existed.
func (c *Cart) Remove(productID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.index(productID)
	if i < 0 {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	c.persist()
	return true
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.persist()
}

// Items returns a copy of the line items in order.
func (c *Cart) Items() []model.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Total returns the sum of price times quantity across all lines.
func (c *Cart) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var sum int64
	for _, it := range c.items {
		sum += it.LineTotal()
	}
	return sum
}

// index returns the line position for productID, or -1. Callers hold
// c.mu.
func (c *Cart) index(productID string) int {
	for i := range c.items {
		if c.items[i].ID == productID {
			return i
		}
	}
	return -1
}

// persist writes the whole cart under the cart key. Callers hold c.mu.
func (c *Cart) persist() {
	snap := make([]model.CartItem, len(c.items))
	copy(snap, c.items)
	c.kv.Write(kvstore.KeyCart, snap)
}
