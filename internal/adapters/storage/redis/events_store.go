package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tomodachi-calendar/internal/domain/events"

	"github.com/redis/go-redis/v9"
)

type Options struct {
	Addr     string
	Password string
	DB       int
}

// Open crea el cliente y verifica la conexión con PING.
func Open(ctx context.Context, opts Options) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// EventStore guarda el array JSON en key y su revisión en key+":rev".
type EventStore struct {
	client *redis.Client
	key    string
	revKey string
}

func NewEventStore(client *redis.Client, key string) *EventStore {
	if strings.TrimSpace(key) == "" {
		key = events.DefaultKey
	}
	return &EventStore{
		client: client,
		key:    key,
		revKey: key + ":rev",
	}
}

func (s *EventStore) Load(ctx context.Context) (events.Snapshot, error) {
	// MGET lee valor y revisión en un solo comando.
	vals, err := s.client.MGet(ctx, s.key, s.revKey).Result()
	if err != nil {
		return events.Snapshot{}, fmt.Errorf("load %s: %w", s.key, err)
	}

	var raw []byte
	if v, ok := vals[0].(string); ok {
		raw = []byte(v)
	}
	var rev int64
	if v, ok := vals[1].(string); ok {
		rev, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return events.Snapshot{}, fmt.Errorf("load %s: bad revision %q", s.key, v)
		}
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

	// WATCH sobre la revisión: si otro cliente la cambia, EXEC falla.
	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, s.revKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != expected {
			return fmt.Errorf("%w: %s at revision %d, expected %d", events.ErrConflict, s.key, cur, expected)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.key, b, 0)
			pipe.Incr(ctx, s.revKey)
			return nil
		})
		return err
	}, s.revKey)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.TxFailedErr):
		return fmt.Errorf("%w: %s changed during write", events.ErrConflict, s.key)
	case errors.Is(err, events.ErrConflict):
		return err
	default:
		return fmt.Errorf("save %s: %w", s.key, err)
	}
}
