package events

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// -------------------------
// Test store (una key, JSON)
// -------------------------

type testStore struct {
	mu    sync.Mutex
	raw   []byte
	rev   int64
	saves int

	// beforeSave corre dentro de Save antes del check de revisión;
	// sirve para simular otro writer que guarda en el medio.
	beforeSave func(s *testStore)
	loadErr    error
}

func (s *testStore) Load(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return Snapshot{}, s.loadErr
	}
	list, err := DecodeList(s.raw)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Events: list, Revision: s.rev}, nil
}

func (s *testStore) Save(ctx context.Context, list []Event, expected int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if hook := s.beforeSave; hook != nil {
		s.beforeSave = nil
		hook(s)
	}
	if s.rev != expected {
		return fmt.Errorf("%w: rev %d", ErrConflict, s.rev)
	}
	b, err := EncodeList(list)
	if err != nil {
		return err
	}
	s.raw = b
	s.rev++
	s.saves++
	return nil
}

// writeDirect guarda una lista como lo haría otro proceso.
func (s *testStore) writeDirect(list []Event) {
	b, _ := EncodeList(list)
	s.raw = b
	s.rev++
}

func newTestService(store Store) *Service {
	svc := NewService(store, Options{})
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("ev-%d", n)
	}
	return svc
}

var (
	ann = &Identity{ID: "u1", Name: "Ann"}
	bob = &Identity{ID: "u2", Name: "Bob"}
)

func createTrip(t *testing.T, svc *Service) Event {
	t.Helper()
	e, err := svc.Create(context.Background(), ann, CreateInput{
		Title: "Trip",
		Start: "2024-05-01",
		End:   "2024-05-03",
		Color: "rgba(1,2,3,0.45)",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	return e
}

func strPtr(s string) *string { return &s }

// -------------------------
// Tests
// -------------------------

func TestService_Create_ThenGet(t *testing.T) {
	svc := newTestService(&testStore{})

	e := createTrip(t, svc)
	if e.ID == "" {
		t.Fatalf("expected generated id")
	}
	if e.UserID != "u1" || e.UserName != "Ann" || !e.AllDay {
		t.Fatalf("unexpected event %+v", e)
	}
	if !e.Start.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("start not floored: %v", e.Start)
	}
	if !e.End.Equal(time.Date(2024, 5, 3, 23, 59, 59, 999999999, time.UTC)) {
		t.Fatalf("end not raised to end of day: %v", e.End)
	}

	got, err := svc.Get(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Title != e.Title || !got.Start.Equal(e.Start) || !got.End.Equal(e.End) ||
		got.UserID != e.UserID || got.UserName != e.UserName || got.Color != e.Color {
		t.Fatalf("Get differs from Create: %+v vs %+v", got, e)
	}
}

func TestService_Create_Validation(t *testing.T) {
	svc := newTestService(&testStore{})
	ctx := context.Background()

	if _, err := svc.Create(ctx, nil, CreateInput{Title: "x", Start: "2024-05-01", End: "2024-05-01"}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := svc.Create(ctx, &Identity{ID: " "}, CreateInput{Title: "x", Start: "2024-05-01", End: "2024-05-01"}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for blank id, got %v", err)
	}

	bad := []CreateInput{
		{Title: "", Start: "2024-05-01", End: "2024-05-01"},
		{Title: "x", Start: "", End: "2024-05-01"},
		{Title: "x", Start: "2024-05-01", End: ""},
		{Title: "x", Start: "yesterday", End: "2024-05-01"},
	}
	for _, in := range bad {
		if _, err := svc.Create(ctx, ann, in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", in, err)
		}
	}
}

func TestService_Create_EndBeforeStartIsAccepted(t *testing.T) {
	svc := newTestService(&testStore{})

	e, err := svc.Create(context.Background(), ann, CreateInput{Title: "x", Start: "2024-05-03", End: "2024-05-01"})
	if err != nil {
		t.Fatalf("end < start is not validated, got %v", err)
	}
	if !e.End.Before(e.Start) {
		t.Fatalf("expected dates kept as sent")
	}
}

func TestService_Create_DefaultColorAndAllDay(t *testing.T) {
	svc := newTestService(&testStore{})
	no := false

	e, err := svc.Create(context.Background(), ann, CreateInput{
		Title: "x", Start: "2024-05-01", End: "2024-05-01", AllDay: &no,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if e.Color != ColorFromID("u1") {
		t.Fatalf("expected derived color, got %q", e.Color)
	}
	if e.AllDay {
		t.Fatalf("explicit allDay=false must be kept")
	}
}

func TestService_Create_AppendsInOrder(t *testing.T) {
	svc := newTestService(&testStore{})
	ctx := context.Background()

	for _, title := range []string{"a", "b", "c"} {
		if _, err := svc.Create(ctx, ann, CreateInput{Title: title, Start: "2024-05-01", End: "2024-05-01"}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	list, _ := svc.List(ctx)
	if len(list) != 3 || list[0].Title != "a" || list[2].Title != "c" {
		t.Fatalf("unexpected order %+v", list)
	}
}

func TestService_Update_OwnerPatch(t *testing.T) {
	svc := newTestService(&testStore{})
	ctx := context.Background()
	e := createTrip(t, svc)

	upd, err := svc.Update(ctx, ann, e.ID, Patch{Title: strPtr("Trip!")})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if upd.Title != "Trip!" || !upd.Start.Equal(e.Start) || !upd.End.Equal(e.End) {
		t.Fatalf("unexpected update %+v", upd)
	}

	// "" en start/end/title = no cambia
	upd, err = svc.Update(ctx, ann, e.ID, Patch{Title: strPtr(""), Start: strPtr(""), End: strPtr("")})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if upd.Title != "Trip!" || !upd.Start.Equal(e.Start) || !upd.End.Equal(e.End) {
		t.Fatalf("empty strings must not change values, got %+v", upd)
	}

	// Un instante con hora se guarda tal cual; allDay se aplica
	no := false
	upd, err = svc.Update(ctx, ann, e.ID, Patch{Start: strPtr("2024-06-10T13:45:00Z"), AllDay: &no})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if !upd.Start.Equal(time.Date(2024, 6, 10, 13, 45, 0, 0, time.UTC)) || upd.AllDay {
		t.Fatalf("unexpected patch result %+v", upd)
	}

	// Campos congelados
	if upd.UserID != "u1" || upd.UserName != "Ann" || upd.Color != e.Color || upd.ID != e.ID {
		t.Fatalf("frozen fields changed: %+v", upd)
	}
}

func TestService_Update_NonOwnerLeavesStoreUntouched(t *testing.T) {
	store := &testStore{}
	svc := newTestService(store)
	ctx := context.Background()
	e := createTrip(t, svc)

	before := append([]byte(nil), store.raw...)

	_, err := svc.Update(ctx, bob, e.ID, Patch{Title: strPtr("mine now")})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if !bytes.Equal(before, store.raw) {
		t.Fatalf("stored value changed after forbidden update")
	}
}

func TestService_Update_Errors(t *testing.T) {
	svc := newTestService(&testStore{})
	ctx := context.Background()
	e := createTrip(t, svc)

	if _, err := svc.Update(ctx, nil, e.ID, Patch{}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := svc.Update(ctx, ann, "nope", Patch{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Update(ctx, ann, e.ID, Patch{End: strPtr("31/12")}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	// Existencia y autoría se revisan antes que el body
	if _, err := svc.Update(ctx, bob, e.ID, Patch{Start: strPtr("garbage")}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner with bad date, got %v", err)
	}
	if _, err := svc.Update(ctx, ann, "missing", Patch{Start: strPtr("garbage")}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id with bad date, got %v", err)
	}
}

func TestService_Create_KeepsClientInstants(t *testing.T) {
	svc := newTestService(&testStore{})
	ctx := context.Background()

	e, err := svc.Create(ctx, ann, CreateInput{
		Title: "Trip",
		Start: "2024-04-30T15:00:00.000Z",
		End:   "2024-05-03T14:59:59.999Z",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	wantStart := time.Date(2024, 4, 30, 15, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2024, 5, 3, 14, 59, 59, 999000000, time.UTC)
	if !e.Start.Equal(wantStart) || !e.End.Equal(wantEnd) {
		t.Fatalf("instants changed: %v - %v", e.Start, e.End)
	}

	got, err := svc.Get(ctx, e.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !got.Start.Equal(wantStart) || !got.End.Equal(wantEnd) {
		t.Fatalf("stored instants differ: %v - %v", got.Start, got.End)
	}
}

func TestService_Delete(t *testing.T) {
	svc := newTestService(&testStore{})
	ctx := context.Background()
	e := createTrip(t, svc)

	if err := svc.Delete(ctx, bob, e.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if list, _ := svc.List(ctx); len(list) != 1 {
		t.Fatalf("event must remain after forbidden delete")
	}

	if err := svc.Delete(ctx, ann, e.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if list, _ := svc.List(ctx); len(list) != 0 {
		t.Fatalf("expected empty list, got %+v", list)
	}
	if err := svc.Delete(ctx, ann, e.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if err := svc.Delete(ctx, nil, e.ID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestService_ConcurrentWriterIsNotClobbered(t *testing.T) {
	store := &testStore{}
	svc := newTestService(store)
	ctx := context.Background()

	a := createTrip(t, svc)
	b, _ := svc.Create(ctx, bob, CreateInput{Title: "Bob day", Start: "2024-05-10", End: "2024-05-10"})

	// Otro proceso edita el evento de Bob entre el load y el save de Ann.
	store.beforeSave = func(s *testStore) {
		list, _ := DecodeList(s.raw)
		for i := range list {
			if list[i].ID == b.ID {
				list[i].Title = "Bob day (edited)"
			}
		}
		s.writeDirect(list)
	}

	if _, err := svc.Update(ctx, ann, a.ID, Patch{Title: strPtr("Trip!")}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	list, _ := svc.List(ctx)
	titles := map[string]string{}
	for _, e := range list {
		titles[e.ID] = e.Title
	}
	if titles[a.ID] != "Trip!" || titles[b.ID] != "Bob day (edited)" {
		t.Fatalf("lost update: %+v", titles)
	}
}

func TestService_GivesUpAfterMaxAttempts(t *testing.T) {
	store := &alwaysConflict{}
	svc := NewService(store, Options{MaxAttempts: 2})

	_, err := svc.Create(context.Background(), ann, CreateInput{Title: "x", Start: "2024-05-01", End: "2024-05-01"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if store.saves != 2 {
		t.Fatalf("expected 2 attempts, got %d", store.saves)
	}
}

func TestService_StoreErrorsPassThrough(t *testing.T) {
	boom := errors.New("boom")
	svc := newTestService(&testStore{loadErr: boom})

	if _, err := svc.List(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "x"); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestService_ListRange(t *testing.T) {
	svc := newTestService(&testStore{})
	ctx := context.Background()
	_ = createTrip(t, svc) // 1..3 mayo

	from, _ := ParseDayStart("2024-05-03", time.UTC)
	to, _ := ParseDayEnd("2024-05-05", time.UTC)
	if got, _ := svc.ListRange(ctx, from, to); len(got) != 1 {
		t.Fatalf("expected overlap on the last day, got %d", len(got))
	}

	from, _ = ParseDayStart("2024-05-04", time.UTC)
	if got, _ := svc.ListRange(ctx, from, to); len(got) != 0 {
		t.Fatalf("expected no overlap, got %d", len(got))
	}
}

type alwaysConflict struct{ saves int }

func (a *alwaysConflict) Load(context.Context) (Snapshot, error) { return Snapshot{}, nil }
func (a *alwaysConflict) Save(context.Context, []Event, int64) error {
	a.saves++
	return ErrConflict
}
