package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"tomodachi-calendar/internal/domain/events"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*EventStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewEventStore(db, ""), mock
}

var (
	selectRe = regexp.QuoteMeta("SELECT value, revision")
	insertRe = regexp.QuoteMeta("INSERT INTO calendar_kv")
	updateRe = regexp.QuoteMeta("UPDATE calendar_kv")
)

func TestEventStore_Load_MissingKeyIsEmpty(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(selectRe).
		WithArgs("events:v1").
		WillReturnRows(sqlmock.NewRows([]string{"value", "revision"}))

	snap, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Events)
	assert.Zero(t, snap.Revision)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventStore_Load_DecodesArray(t *testing.T) {
	s, mock := newMockStore(t)
	raw := `[{"id":"e1","title":"Trip","start":"2024-05-01T00:00:00Z","end":"2024-05-03T23:59:59Z","userId":"u1","userName":"Ann","color":"c","allDay":true}]`
	mock.ExpectQuery(selectRe).
		WithArgs("events:v1").
		WillReturnRows(sqlmock.NewRows([]string{"value", "revision"}).AddRow([]byte(raw), int64(4)))

	snap, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Events, 1)
	assert.Equal(t, "Trip", snap.Events[0].Title)
	assert.Equal(t, "u1", snap.Events[0].UserID)
	assert.EqualValues(t, 4, snap.Revision)
}

func TestEventStore_Save_FirstWriteInserts(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(insertRe).
		WithArgs("events:v1", `[{"id":"e1","title":"A","start":"0001-01-01T00:00:00Z","end":"0001-01-01T00:00:00Z","userId":"","userName":"","color":"","allDay":false}]`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.Save(context.Background(), []events.Event{{ID: "e1", Title: "A"}}, 0)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventStore_Save_StaleRevisionIsConflict(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(updateRe).
		WithArgs("events:v1", "[]", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Save(context.Background(), nil, 3)
	assert.True(t, errors.Is(err, events.ErrConflict), "got %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventStore_Save_DriverErrorIsNotConflict(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(updateRe).WillReturnError(errors.New("connection reset"))

	err := s.Save(context.Background(), []events.Event{}, 1)
	require.Error(t, err)
	assert.False(t, errors.Is(err, events.ErrConflict))
}

func TestMigrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS calendar_kv")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, Migrate(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}
