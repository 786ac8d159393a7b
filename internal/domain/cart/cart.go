// Package cart implements the durable shopping cart: a mutex-guarded state
// container holding one line per distinct product, persisted in full after
// every mutation.
package cart

import (
	"sync"

	"go.uber.org/zap"

	"github.com/bondx/storefront/internal/domain/product"
)

// Line is a product in the cart together with the number of units requested.
// Quantity is always >= 1; a line whose quantity drops to zero or below is
// removed rather than kept.
type Line struct {
	Product  product.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Subtotal returns price times quantity for this line, in minor units.
func (l Line) Subtotal() int64 {
	return l.Product.Price * int64(l.Quantity)
}

// State is a full cart snapshot: lines in the order they were first added,
// plus the drawer visibility flag. IsOpen carries no weight for totals or
// submission; it only records whether the cart drawer is showing.
type State struct {
	Lines  []Line `json:"lines"`
	IsOpen bool   `json:"isOpen"`
}

// clone returns a copy of the state whose line slice is independent of the
// original.
func (s State) clone() State {
	out := State{IsOpen: s.IsOpen}
	if len(s.Lines) > 0 {
		out.Lines = make([]Line, len(s.Lines))
		copy(out.Lines, s.Lines)
	}
	return out
}

// Storage persists cart snapshots in a single durable slot. Load reports
// found = false when nothing has been written yet.
type Storage interface {
	Load() (State, bool, error)
	Save(State) error
}

// Store is the single source of truth for cart contents. All mutations go
// through its methods; each one writes the full snapshot to storage before
// returning. Reads observe a consistent snapshot under the store mutex.
type Store struct {
	mu      sync.Mutex
	state   State
	storage Storage
	lg      *zap.Logger
}

// Open rehydrates a Store from storage. A missing slot starts an empty cart;
// an unreadable one is logged and discarded, never surfaced to the caller.
func Open(storage Storage, lg *zap.Logger) *Store {
	s := &Store{storage: storage, lg: lg}

	state, found, err := storage.Load()
	switch {
	case err != nil:
		lg.Warn("Discarding unreadable cart snapshot", zap.Error(err))
	case found:
		s.state = state
		lg.Debug("Cart rehydrated", zap.Int("lines", len(state.Lines)))
	}
	return s
}

// AddItem puts one unit of p into the cart. When a line for p already exists
// its quantity is incremented, otherwise a new line is appended. Adding always
// opens the cart drawer. Never fails.
func (s *Store) AddItem(p product.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if line := s.findLocked(p.ID); line != nil {
		line.Quantity++
	} else {
		s.state.Lines = append(s.state.Lines, Line{Product: p, Quantity: 1})
	}
	s.state.IsOpen = true
	s.persistLocked()
}

// RemoveItem deletes the line for productID. Removing an absent product is a
// no-op, not an error.
func (s *Store) RemoveItem(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, line := range s.state.Lines {
		if line.Product.ID == productID {
			s.state.Lines = append(s.state.Lines[:i], s.state.Lines[i+1:]...)
			break
		}
	}
	s.persistLocked()
}

// UpdateQuantity replaces the quantity of the line for productID. A quantity
// of zero or less removes the line. Unknown product IDs are ignored.
func (s *Store) UpdateQuantity(productID int64, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, line := range s.state.Lines {
		if line.Product.ID != productID {
			continue
		}
		if quantity <= 0 {
			s.state.Lines = append(s.state.Lines[:i], s.state.Lines[i+1:]...)
		} else {
			s.state.Lines[i].Quantity = quantity
		}
		break
	}
	s.persistLocked()
}

// Clear empties the cart. The drawer flag is left as-is.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Lines = nil
	s.persistLocked()
}

// Toggle flips the drawer visibility flag and returns the new value. Lines
// are untouched.
func (s *Store) Toggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.IsOpen = !s.state.IsOpen
	s.persistLocked()
	return s.state.IsOpen
}

// Total returns the sum of price times quantity over all lines, in minor
// units. Zero for an empty cart.
func (s *Store) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalLocked()
}

// Snapshot returns a consistent copy of the current cart state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Lines returns a copy of the current lines in insertion order.
func (s *Store) Lines() []Line {
	return s.Snapshot().Lines
}

// IsOpen reports whether the cart drawer is showing.
func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.IsOpen
}

// Empty reports whether the cart has no lines.
func (s *Store) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.Lines) == 0
}

func (s *Store) findLocked(productID int64) *Line {
	for i := range s.state.Lines {
		if s.state.Lines[i].Product.ID == productID {
			return &s.state.Lines[i]
		}
	}
	return nil
}

func (s *Store) totalLocked() int64 {
	var total int64
	for _, line := range s.state.Lines {
		total += line.Subtotal()
	}
	return total
}

// persistLocked writes the full snapshot to storage. Durability is
// best-effort: a failed write is logged and the in-memory state stays
// authoritative, so mutations themselves never fail.
func (s *Store) persistLocked() {
	if err := s.storage.Save(s.state.clone()); err != nil {
		s.lg.Error("Persist cart snapshot", zap.Error(err))
	}
}
