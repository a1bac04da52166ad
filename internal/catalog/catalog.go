// Package catalog holds the single source of truth for orderable
// products: an ordered in-memory list with CRUD and stock operations,
// persisted wholesale after every mutation and broadcast to
// subscribers.
package catalog

import (
	"sync"

	"github.com/oqtepa/fastfood-storefront/internal/kvstore"
	"github.com/oqtepa/fastfood-storefront/internal/model"
	"github.com/oqtepa/fastfood-storefront/internal/obs"
)

// Store owns the ordered product list. Consumers hold a handle to the
// Store and receive copies; the internal slice never escapes.
type Store struct {
	mu    sync.RWMutex
	items []model.Product
	kv    *kvstore.Store
	bc    *Broadcaster
}

// New builds a Store seeded from the persisted catalog snapshot when
// one exists and parses, falling back to the default product set.
func New(kv *kvstore.Store, bc *Broadcaster) *Store {
	s := &Store{kv: kv, bc: bc}
	var snap []model.Product
	if kv.Read(kvstore.KeyCatalog, &snap) {
		s.items = snap
		obs.Logger.Info("catalog_loaded", "source", "snapshot", "products", len(snap))
	} else {
		s.items = DefaultProducts()
		obs.Logger.Info("catalog_loaded", "source", "defaults", "products", len(s.items))
	}
	return s
}

// List returns a copy of all products in order.
func (s *Store) List() []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Product, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns the product with the given id.
func (s *Store) Get(id string) (model.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.index(id); i >= 0 {
		return s.items[i], true
	}
	return model.Product{}, false
}

// index returns the position of id, or -1. Callers hold s.mu.
func (s *Store) index(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func validProduct(p model.Product) bool {
	return p.ID != "" && p.Price >= 0 && p.Stock >= 0 && KnownCategory(p.Category)
}

// Add appends a product to the end of the list. It returns false for
// an invalid record or a duplicate identifier.
func (s *Store) Add(p model.Product) bool {
	if !validProduct(p) {
		obs.Logger.Warn("catalog_add_invalid", "product_id", p.ID)
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index(p.ID) >= 0 {
		obs.Logger.Warn("catalog_add_duplicate", "product_id", p.ID)
		return false
	}
	s.items = append(s.items, p)
	s.persistAndPublish()
	return true
}

// Update replaces the record at id's position wholesale. Callers must
// supply the complete record; there is no field-level merge. The
// identifier is immutable and kept from the existing record.
func (s *Store) Update(id string, p model.Product) bool {
	p.ID = id
	if !validProduct(p) {
		obs.Logger.Warn("catalog_update_invalid", "product_id", id)
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.items[i] = p
	s.persistAndPublish()
	return true
}

// Remove deletes the product with the given id.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.persistAndPublish()
	return true
}

// GetStock returns the stock for id, or 0 when the product does not
// exist. It never fails.
func (s *Store) GetStock(id string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.index(id); i >= 0 {
		return s.items[i].Stock
	}
	return 0
}

// InStock reports whether the product exists and has at least qty in
// stock. Unknown products are never in stock.
func (s *Store) InStock(id string, qty int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.index(id)
	return i >= 0 && s.items[i].Stock >= qty
}

// AdjustStock subtracts delta from the product's stock. When the
// result would be negative the adjustment is rejected and stock is
// left unchanged; stock is never clamped.
func (s *Store) AdjustStock(id string, delta int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return false
	}
	next := s.items[i].Stock - delta
	if next < 0 {
		return false
	}
	s.items[i].Stock = next
	s.persistAndPublish()
	return true
}

// persistAndPublish writes the full list under the catalog key, then
// broadcasts a snapshot. Persist happens first so that a failed or
// missed broadcast never hides a stored mutation. Callers hold s.mu.
func (s *Store) persistAndPublish() {
	snap := make([]model.Product, len(s.items))
	copy(snap, s.items)
	s.kv.Write(kvstore.KeyCatalog, snap)
	s.bc.Publish(snap)
}
