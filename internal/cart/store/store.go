package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/dwikikusuma/cartstate/internal/cart/domain"
	"github.com/dwikikusuma/cartstate/internal/cart/storage"
)

// ErrMalformedCommand is returned when a command's input violates its
// contract. State is left untouched.
var ErrMalformedCommand = errors.New("malformed command")

// Store is the sole owner and mutator of cart state. Every write goes
// through a named command; consumers only ever hold snapshots. Commands
// are atomic with respect to each other.
type Store struct {
	slot storage.Slot
	log  *slog.Logger

	mu        sync.Mutex
	items     []domain.LineItem
	subtotal  int64
	totalQty  int64
	panelOpen bool

	subMu sync.Mutex
	subs  []subscriber
}

// New builds a store seeded from the durable slot. A missing, unreadable
// or corrupt stored cart falls back to an empty one; construction never
// fails on storage problems.
func New(ctx context.Context, slot storage.Slot, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	s := &Store{slot: slot, log: log}
	s.rehydrate(ctx)
	return s
}

// AddItem merges the candidate into the cart. An existing (id, kind) entry
// has its quantity increased by the candidate's; its descriptive fields are
// left as first written. A new entry is appended, preserving insertion
// order. Quantity zero means "unspecified" and defaults to 1.
func (s *Store) AddItem(ctx context.Context, candidate domain.LineItem) (domain.Snapshot, error) {
	item, err := normalize(candidate)
	if err != nil {
		return domain.Snapshot{}, err
	}

	s.mu.Lock()
	s.mergeLocked(item)
	s.recomputeLocked()
	snap := s.snapshotLocked()
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify(snap)
	return snap, nil
}

// RemoveItem drops the matching entry. Removing an absent key is a no-op,
// not an error: nothing is persisted and nobody is notified.
func (s *Store) RemoveItem(ctx context.Context, key domain.ItemKey) domain.Snapshot {
	s.mu.Lock()
	if !s.removeLocked(key) {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap
	}
	s.recomputeLocked()
	snap := s.snapshotLocked()
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify(snap)
	return snap
}

// SetQuantity replaces the quantity of an existing entry. Non-positive
// quantity means "remove", matching what a user expects from a stepper
// reaching zero. An absent key is a no-op.
func (s *Store) SetQuantity(ctx context.Context, key domain.ItemKey, quantity int64) domain.Snapshot {
	if quantity <= 0 {
		return s.RemoveItem(ctx, key)
	}

	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].Key() == key {
			s.items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap
	}
	s.recomputeLocked()
	snap := s.snapshotLocked()
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify(snap)
	return snap
}

// Clear empties the cart and persists the empty snapshot. The panel flag
// is untouched.
func (s *Store) Clear(ctx context.Context) domain.Snapshot {
	s.mu.Lock()
	s.items = nil
	s.recomputeLocked()
	snap := s.snapshotLocked()
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify(snap)
	return snap
}

// SetPanelOpen mutates only the visibility flag. Subscribers are notified
// so the UI re-renders, but nothing is recomputed or persisted.
func (s *Store) SetPanelOpen(open bool) domain.Snapshot {
	s.mu.Lock()
	s.panelOpen = open
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return snap
}

func (s *Store) TogglePanel() domain.Snapshot {
	s.mu.Lock()
	s.panelOpen = !s.panelOpen
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return snap
}

// Quantity returns the current quantity for the key, 0 if absent.
func (s *Store) Quantity(key domain.ItemKey) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Key() == key {
			return s.items[i].Quantity
		}
	}
	return 0
}

func (s *Store) Contains(key domain.ItemKey) bool {
	return s.Quantity(key) > 0
}

func (s *Store) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) Subtotal() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subtotal
}

func (s *Store) TotalQuantity() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalQty
}

func (s *Store) PanelOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.panelOpen
}

func (s *Store) mergeLocked(item domain.LineItem) {
	for i := range s.items {
		if s.items[i].Key() == item.Key() {
			s.items[i].Quantity += item.Quantity
			return
		}
	}
	s.items = append(s.items, item)
}

func (s *Store) removeLocked(key domain.ItemKey) bool {
	for i := range s.items {
		if s.items[i].Key() == key {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// recomputeLocked rebuilds both aggregates with a full pass over the item
// list. Carts stay small; a full rescan cannot drift from the collection.
func (s *Store) recomputeLocked() {
	var subtotal, qty int64
	for _, it := range s.items {
		subtotal += it.UnitPrice * it.Quantity
		qty += it.Quantity
	}
	s.subtotal = subtotal
	s.totalQty = qty
}

func (s *Store) snapshotLocked() domain.Snapshot {
	items := make([]domain.LineItem, len(s.items))
	copy(items, s.items)
	return domain.Snapshot{
		Items:         items,
		Subtotal:      s.subtotal,
		TotalQuantity: s.totalQty,
		PanelOpen:     s.panelOpen,
	}
}

func normalize(item domain.LineItem) (domain.LineItem, error) {
	item.ItemID = strings.TrimSpace(item.ItemID)
	item.DisplayName = strings.TrimSpace(item.DisplayName)

	if item.ItemID == "" {
		return domain.LineItem{}, fmt.Errorf("%w: item id is required", ErrMalformedCommand)
	}
	if !item.Kind.Valid() {
		return domain.LineItem{}, fmt.Errorf("%w: unknown item kind %q", ErrMalformedCommand, item.Kind)
	}
	if item.DisplayName == "" {
		return domain.LineItem{}, fmt.Errorf("%w: display name is required", ErrMalformedCommand)
	}
	if item.UnitPrice < 0 {
		return domain.LineItem{}, fmt.Errorf("%w: unit price cannot be negative, got %d", ErrMalformedCommand, item.UnitPrice)
	}
	if item.Quantity < 0 {
		return domain.LineItem{}, fmt.Errorf("%w: quantity cannot be negative, got %d", ErrMalformedCommand, item.Quantity)
	}
	if item.Quantity == 0 {
		item.Quantity = 1
	}
	return item, nil
}
