package events

import (
	"context"
	"encoding/json"
	"fmt"
)

// DefaultKey es la key donde vive la colección completa.
const DefaultKey = "events:v1"

// Store guarda la colección completa bajo una sola key.
//
// Save reemplaza la lista entera solo si la revisión guardada sigue siendo
// expected; si otro writer guardó antes devuelve un error que envuelve ErrConflict.
type Store interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, list []Event, expected int64) error
}

// EncodeList serializa la colección al formato de la key (array JSON).
func EncodeList(list []Event) ([]byte, error) {
	if list == nil {
		list = []Event{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("encode events: %w", err)
	}
	return b, nil
}

// DecodeList interpreta el valor de la key. Vacío o null => lista vacía.
func DecodeList(raw []byte) ([]Event, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []Event{}, nil
	}
	var out []Event
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	if out == nil {
		out = []Event{}
	}
	return out, nil
}
