package memory

import (
	"context"
	"fmt"
	"sync"

	"tomodachi-calendar/internal/domain/events"
)

// EventStore es un KV en memoria con una sola key: guarda el array JSON
// tal cual lo guardaría Redis, así cada Load devuelve una copia nueva.
type EventStore struct {
	mu  sync.Mutex
	raw []byte
	rev int64
}

func NewEventStore() *EventStore {
	return &EventStore{}
}

func (s *EventStore) Load(ctx context.Context) (events.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return events.Snapshot{}, err
	}

	s.mu.Lock()
	raw, rev := s.raw, s.rev
	s.mu.Unlock()

	list, err := events.DecodeList(raw)
	if err != nil {
		return events.Snapshot{}, err
	}
	return events.Snapshot{Events: list, Revision: rev}, nil
}

func (s *EventStore) Save(ctx context.Context, list []events.Event, expected int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b, err := events.EncodeList(list)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rev != expected {
		return fmt.Errorf("%w: revision %d, expected %d", events.ErrConflict, s.rev, expected)
	}
	s.raw = b
	s.rev++
	return nil
}

// Raw devuelve el valor guardado en la key (para inspección en tests/debug).
func (s *EventStore) Raw() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]byte, len(s.raw))
	copy(out, s.raw)
	return out
}
