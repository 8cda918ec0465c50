package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/matheusmosca/eshop-storefront/api"
)

// RecordStore is the persistence port for the single serialized cart record.
// Implementations own the fixed record name (file path, Redis key, table row).
type RecordStore interface {
	// Read returns the record value. ok is false when no record exists.
	Read(ctx context.Context) (value []byte, ok bool, err error)

	// Write replaces the record value.
	Write(ctx context.Context, value []byte) error

	// Delete removes the record. Deleting an absent record is not an error.
	Delete(ctx context.Context) error
}

// Store owns the authoritative cart state. It hydrates from the record store
// once at construction and mirrors every mutation back into it. Persistence is
// best effort, a write failure is logged and never surfaced to the user.
type Store struct {
	mu      sync.Mutex
	records RecordStore
	cart    *Cart
}

// NewStore hydrates a Store from records. A missing record means an empty
// cart, a corrupt one is a hard error. Hydrated lines are re-clamped to their
// stored stock so a record edited out of band cannot reintroduce quantities
// outside the bounds the mutations enforce.
func NewStore(ctx context.Context, records RecordStore) (*Store, error) {
	cart := NewCart()

	value, ok, err := records.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart record: %w", err)
	}
	if ok {
		if err := json.Unmarshal(value, cart); err != nil {
			return nil, fmt.Errorf("failed to decode cart record: %w", err)
		}
	}

	store := &Store{records: records, cart: cart}
	if cart.clampToStock() {
		store.persist(ctx)
	}
	return store, nil
}

// AddOrIncrement adds one unit of product. A new line starts at quantity 1,
// an existing one grows by 1 capped at the snapshot stock. Products with zero
// stock are not addable, the cart stays unchanged.
func (s *Store) AddOrIncrement(ctx context.Context, product api.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.Stock <= 0 {
		return
	}

	line, ok := s.cart.Get(product.ID)
	if !ok {
		line = Line{
			ID:       product.ID,
			Name:     product.Name,
			Price:    product.Price,
			Stock:    product.Stock,
			Quantity: 1,
		}
	} else {
		line.Quantity++
		if line.Quantity > line.Stock {
			line.Quantity = line.Stock
		}
	}

	s.cart.put(line)
	s.persist(ctx)
}

// SetQuantity sets the quantity of an existing line. A value of zero or less
// removes the line, anything else is clamped to [1, stock]. Unknown product
// ids are ignored.
func (s *Store) SetQuantity(ctx context.Context, productID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, ok := s.cart.Get(productID)
	if !ok {
		return
	}

	if quantity <= 0 {
		s.cart.remove(productID)
		s.persist(ctx)
		return
	}

	if quantity > line.Stock {
		quantity = line.Stock
	}
	line.Quantity = quantity
	s.cart.put(line)
	s.persist(ctx)
}

// Total sums price times quantity over all lines. Pure, no side effects.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total()
}

// Lines returns the cart lines in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Lines()
}

// Len returns the number of lines.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Len()
}

// OrderRefs projects the cart into the order creation request shape.
func (s *Store) OrderRefs() []api.OrderProductRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.snapshotRefs()
}

// Clear empties the cart and removes the persisted record. Called only after
// the service confirmed order creation.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.reset()
	if err := s.records.Delete(ctx); err != nil {
		log.Printf("⚠️ Failed to delete cart record: %v", err)
	}
}

// persist mirrors the cart into the record store. Callers hold the lock.
func (s *Store) persist(ctx context.Context) {
	value, err := json.Marshal(s.cart)
	if err != nil {
		log.Printf("⚠️ Failed to encode cart record: %v", err)
		return
	}
	if err := s.records.Write(ctx, value); err != nil {
		log.Printf("⚠️ Failed to write cart record: %v", err)
	}
}
