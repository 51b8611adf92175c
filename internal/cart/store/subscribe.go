package store

import (
	"github.com/google/uuid"

	"github.com/dwikikusuma/cartstate/internal/cart/domain"
)

type subscriber struct {
	token string
	fn    func(domain.Snapshot)
}

// Subscribe registers fn to run synchronously after every state
// transition, in registration order. The returned token cancels the
// registration via Unsubscribe.
func (s *Store) Subscribe(fn func(domain.Snapshot)) string {
	token := uuid.NewString()

	s.subMu.Lock()
	s.subs = append(s.subs, subscriber{token: token, fn: fn})
	s.subMu.Unlock()

	return token
}

func (s *Store) Unsubscribe(token string) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for i := range s.subs {
		if s.subs[i].token == token {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// notify fans the snapshot out to subscribers. Each subscriber gets its
// own item slice so one callback mutating a snapshot cannot leak into the
// next. Runs outside the state lock; callbacks may read the store freely.
func (s *Store) notify(snap domain.Snapshot) {
	s.subMu.Lock()
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()

	for _, sub := range subs {
		items := make([]domain.LineItem, len(snap.Items))
		copy(items, snap.Items)
		own := snap
		own.Items = items
		sub.fn(own)
	}
}
