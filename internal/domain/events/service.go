package events

import (
	"context"
	"errors"
	"strings"
	"time"

	"tomodachi-calendar/internal/platform/logger"

	"github.com/google/uuid"
)

// Errores del servicio; el handler los traduce a status HTTP.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

const defaultMaxAttempts = 3

// Options configura el Service. Los campos en cero toman su default.
type Options struct {
	// Location define el "día" para normalizar start/end. Default UTC.
	Location *time.Location
	Logger   logger.Logger
	// MaxAttempts: cuántas veces se repite load→mutate→save ante ErrConflict.
	MaxAttempts int
}

// Service aplica las reglas del calendario sobre un Store.
type Service struct {
	store       Store
	log         logger.Logger
	loc         *time.Location
	maxAttempts int
	newID       func() string
}

// NewService arma un Service con UTC, logger mudo y 3 intentos por default.
func NewService(store Store, opts Options) *Service {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	attempts := opts.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}

	return &Service{
		store:       store,
		log:         log,
		loc:         loc,
		maxAttempts: attempts,
		newID:       uuid.NewString,
	}
}

// Location devuelve la zona usada para normalizar días.
func (s *Service) Location() *time.Location { return s.loc }

// CreateInput son los datos que manda el cliente al crear.
type CreateInput struct {
	Title  string
	Start  string
	End    string
	Color  string
	AllDay *bool // nil => true
}

// Patch: nil = no tocar. Un string vacío en Title/Start/End tampoco cambia nada.
type Patch struct {
	Title  *string
	Start  *string
	End    *string
	AllDay *bool
}

// List devuelve la colección completa en orden de almacenamiento.
func (s *Service) List(ctx context.Context) ([]Event, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Events, nil
}

// ListRange devuelve los eventos que tocan [from, to], en orden de almacenamiento.
func (s *Service) ListRange(ctx context.Context, from, to time.Time) ([]Event, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Event, 0, len(all))
	for _, e := range all {
		if e.Overlaps(from, to) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Get busca un evento por id.
func (s *Service) Get(ctx context.Context, id string) (Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Event{}, ErrNotFound
	}

	all, err := s.List(ctx)
	if err != nil {
		return Event{}, err
	}
	if i := indexOf(all, id); i >= 0 {
		return all[i], nil
	}
	return Event{}, ErrNotFound
}

// Create agrega un evento firmado por la identidad de la sesión.
// userId/userName nunca vienen del cliente.
func (s *Service) Create(ctx context.Context, who *Identity, in CreateInput) (Event, error) {
	if !present(who) {
		return Event{}, ErrUnauthorized
	}

	title := strings.TrimSpace(in.Title)
	if title == "" || strings.TrimSpace(in.Start) == "" || strings.TrimSpace(in.End) == "" {
		return Event{}, ErrInvalidInput
	}
	start, err := ParseDayStart(in.Start, s.loc)
	if err != nil {
		return Event{}, ErrInvalidInput
	}
	end, err := ParseDayEnd(in.End, s.loc)
	if err != nil {
		return Event{}, ErrInvalidInput
	}

	color := strings.TrimSpace(in.Color)
	if color == "" {
		color = ColorFromID(who.ID)
	}
	allDay := true
	if in.AllDay != nil {
		allDay = *in.AllDay
	}

	e := Event{
		ID:       s.newID(),
		Title:    title,
		Start:    start,
		End:      end,
		UserID:   who.ID,
		UserName: who.Name,
		Color:    color,
		AllDay:   allDay,
	}

	err = s.mutate(ctx, func(list []Event) ([]Event, error) {
		// Lista nueva: el snapshot cargado no se toca.
		next := make([]Event, 0, len(list)+1)
		next = append(next, list...)
		return append(next, e), nil
	})
	if err != nil {
		return Event{}, err
	}

	s.log.Info("event created", map[string]any{"event_id": e.ID, "user_id": e.UserID})
	return e, nil
}

// Update aplica patch sobre title/start/end/allDay. Solo el autor puede hacerlo.
func (s *Service) Update(ctx context.Context, who *Identity, id string, patch Patch) (Event, error) {
	if !present(who) {
		return Event{}, ErrUnauthorized
	}

	var updated Event
	err := s.mutate(ctx, func(list []Event) ([]Event, error) {
		i := indexOf(list, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		if !list[i].OwnedBy(who.ID) {
			return nil, ErrForbidden
		}

		// El body se mira recién después de saber que el evento es suyo.
		e := list[i]
		if patch.Start != nil && strings.TrimSpace(*patch.Start) != "" {
			t, err := ParseDayStart(*patch.Start, s.loc)
			if err != nil {
				return nil, ErrInvalidInput
			}
			e.Start = t
		}
		if patch.End != nil && strings.TrimSpace(*patch.End) != "" {
			t, err := ParseDayEnd(*patch.End, s.loc)
			if err != nil {
				return nil, ErrInvalidInput
			}
			e.End = t
		}
		if patch.Title != nil && strings.TrimSpace(*patch.Title) != "" {
			e.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.AllDay != nil {
			e.AllDay = *patch.AllDay
		}

		next := make([]Event, len(list))
		copy(next, list)
		next[i] = e
		updated = e
		return next, nil
	})
	if err != nil {
		return Event{}, err
	}

	s.log.Info("event updated", map[string]any{"event_id": updated.ID, "user_id": who.ID})
	return updated, nil
}

// Delete quita el evento de la colección. Solo el autor puede hacerlo.
func (s *Service) Delete(ctx context.Context, who *Identity, id string) error {
	if !present(who) {
		return ErrUnauthorized
	}

	err := s.mutate(ctx, func(list []Event) ([]Event, error) {
		i := indexOf(list, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		if !list[i].OwnedBy(who.ID) {
			return nil, ErrForbidden
		}

		next := make([]Event, 0, len(list)-1)
		next = append(next, list[:i]...)
		return append(next, list[i+1:]...), nil
	})
	if err != nil {
		return err
	}

	s.log.Info("event deleted", map[string]any{"event_id": id, "user_id": who.ID})
	return nil
}

// mutate corre load → fn → save contra la revisión leída.
// Si otro writer guardó en el medio, repite todo con la lista fresca.
func (s *Service) mutate(ctx context.Context, fn func([]Event) ([]Event, error)) error {
	for attempt := 1; ; attempt++ {
		snap, err := s.store.Load(ctx)
		if err != nil {
			return err
		}

		next, err := fn(snap.Events)
		if err != nil {
			return err
		}

		err = s.store.Save(ctx, next, snap.Revision)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrConflict) {
			return err
		}
		if attempt >= s.maxAttempts {
			s.log.Warn("events write gave up after conflicts", map[string]any{"attempts": attempt})
			return ErrConflict
		}
		s.log.Debug("events write conflict, retrying", map[string]any{"attempt": attempt})
	}
}

func indexOf(list []Event, id string) int {
	id = strings.TrimSpace(id)
	if id == "" {
		return -1
	}
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

func present(who *Identity) bool {
	return who != nil && strings.TrimSpace(who.ID) != ""
}
