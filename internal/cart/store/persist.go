package store

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/dwikikusuma/cartstate/internal/cart/domain"
)

// SlotKey is the fixed durable-storage key the serialized cart lives under.
const SlotKey = "cart/v-current"

// persistedCart is the durable layout: the ordered item list plus the two
// derived aggregates. The panel flag is excluded.
type persistedCart struct {
	Items         []domain.LineItem `json:"items"`
	Subtotal      int64             `json:"subtotal"`
	TotalQuantity int64             `json:"total_quantity"`
}

// persistLocked writes the current item state to the slot. Durability is
// best-effort: a failed write is logged and the command still succeeds,
// only cross-session durability is lost.
func (s *Store) persistLocked(ctx context.Context) {
	record := persistedCart{
		Items:         s.items,
		Subtotal:      s.subtotal,
		TotalQuantity: s.totalQty,
	}
	raw, err := json.Marshal(record)
	if err != nil {
		s.log.Warn("cart snapshot marshal failed", slog.Any("err", err))
		return
	}
	if err := s.slot.Write(ctx, SlotKey, string(raw)); err != nil {
		s.log.Warn("cart persist failed, continuing in memory",
			slog.String("key", SlotKey), slog.Any("err", err))
	}
}

// rehydrate seeds the store from the durable slot. Stored entries replay
// through the same merge path as AddItem, so a payload holding duplicate
// keys collapses into merged entries and structurally invalid entries are
// dropped by the same validation AddItem applies. Any failure falls back
// to an empty cart; startup is never blocked on storage.
func (s *Store) rehydrate(ctx context.Context) {
	raw, ok, err := s.slot.Read(ctx, SlotKey)
	if err != nil {
		s.log.Warn("cart restore failed, starting empty",
			slog.String("key", SlotKey), slog.Any("err", err))
		return
	}
	if !ok {
		return
	}

	var stored persistedCart
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		s.log.Warn("stored cart is corrupt, starting empty",
			slog.String("key", SlotKey), slog.Any("err", err))
		return
	}

	dropped := 0
	for _, it := range stored.Items {
		item, err := normalize(it)
		if err != nil {
			dropped++
			continue
		}
		s.mergeLocked(item)
	}
	if dropped > 0 {
		s.log.Warn("dropped invalid stored cart entries", slog.Int("count", dropped))
	}
	s.recomputeLocked()
}
