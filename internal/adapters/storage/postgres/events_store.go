package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"tomodachi-calendar/internal/domain/events"
)

// EventStore guarda la colección como una fila de calendar_kv.
// revision implementa el check optimista de Save.
type EventStore struct {
	db  *sql.DB
	key string
}

func NewEventStore(db *sql.DB, key string) *EventStore {
	if strings.TrimSpace(key) == "" {
		key = events.DefaultKey
	}
	return &EventStore{db: db, key: key}
}

func (s *EventStore) Load(ctx context.Context) (events.Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT value, revision
		FROM calendar_kv
		WHERE key = $1
	`, s.key)

	var raw []byte
	var rev int64
	if err := row.Scan(&raw, &rev); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return events.Snapshot{Events: []events.Event{}}, nil
		}
		return events.Snapshot{}, fmt.Errorf("load %s: %w", s.key, err)
	}

	list, err := events.DecodeList(raw)
	if err != nil {
		return events.Snapshot{}, err
	}
	return events.Snapshot{Events: list, Revision: rev}, nil
}

func (s *EventStore) Save(ctx context.Context, list []events.Event, expected int64) error {
	b, err := events.EncodeList(list)
	if err != nil {
		return err
	}

	var res sql.Result
	if expected == 0 {
		// Primera escritura: gana solo un INSERT.
		res, err = s.db.ExecContext(ctx, `
			INSERT INTO calendar_kv (key, value, revision, updated_at)
			VALUES ($1, $2::jsonb, 1, now())
			ON CONFLICT (key) DO NOTHING
		`, s.key, string(b))
	} else {
		res, err = s.db.ExecContext(ctx, `
			UPDATE calendar_kv
			SET value = $2::jsonb, revision = revision + 1, updated_at = now()
			WHERE key = $1 AND revision = $3
		`, s.key, string(b), expected)
	}
	if err != nil {
		return fmt.Errorf("save %s: %w", s.key, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save %s: %w", s.key, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s changed since revision %d", events.ErrConflict, s.key, expected)
	}
	return nil
}
