package repo

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventplanner/internal/model"
)

var fixedNow = time.Unix(1_700_000_000, 0)

func newMockRepo(t *testing.T) (*repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := zerolog.Nop()
	return newRepository(db, &log, func() time.Time { return fixedNow }), mock
}

func TestCreateEventSetsCreated(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO events")).
		WithArgs("AI Workshop", "online_workshop", int64(100), int64(200), int64(150), fixedNow.Unix()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	e := &model.Event{Name: "AI Workshop", Category: "online_workshop", RegistrationStart: 100, RegistrationEnd: 200, EventDate: 150}
	id, err := r.CreateEvent(context.Background(), e)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.Equal(t, int64(7), e.ID)
	assert.Equal(t, fixedNow.Unix(), e.Created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetEventsActiveOnlyFiltersByWindow(t *testing.T) {
	r, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"id", "event_name", "category", "registration_start", "registration_end", "event_date", "created"}).
		AddRow(1, "AI Workshop", "online_workshop", 10, 20, 15, 1)
	mock.ExpectQuery(regexp.QuoteMeta("registration_start <= $1 AND registration_end >= $1 ORDER BY event_date ASC, event_name ASC")).
		WithArgs(fixedNow.Unix()).
		WillReturnRows(rows)

	events, err := r.GetEvents(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "AI Workshop", events[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetEventsAllHasNoArgs(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM events WHERE 1=1 ORDER BY event_date ASC")).
		WithArgs().
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_name", "category", "registration_start", "registration_end", "event_date", "created"}))

	events, err := r.GetEvents(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetEventMissingReturnsNil(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM events WHERE id = $1")).
		WithArgs(int64(42)).
		WillReturnError(sql.ErrNoRows)

	e, err := r.GetEvent(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestGetActiveCategories(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE registration_start <= $1 AND registration_end >= $1")).
		WithArgs(fixedNow.Unix()).
		WillReturnRows(sqlmock.NewRows([]string{"category"}).AddRow("conference").AddRow("hackathon"))

	categories, err := r.GetActiveCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"conference", "hackathon"}, categories)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetEventDatesByCategory(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT event_date FROM events WHERE category = $1 AND registration_start <= $2 AND registration_end >= $2")).
		WithArgs("hackathon", fixedNow.Unix()).
		WillReturnRows(sqlmock.NewRows([]string{"event_date"}).AddRow(100).AddRow(200))

	dates, err := r.GetEventDatesByCategory(context.Background(), "hackathon", true)
	require.NoError(t, err)
	assert.Equal(t, []int64{100, 200}, dates)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetEventsByCategoryAndDate(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE category = $1 AND event_date = $2 AND registration_start <= $3")).
		WithArgs("hackathon", int64(100), fixedNow.Unix()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_name", "category", "registration_start", "registration_end", "event_date", "created"}).
			AddRow(3, "Hack Night", "hackathon", 1, 2, 100, 1))

	events, err := r.GetEventsByCategoryAndDate(context.Background(), "hackathon", 100, true)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, int64(3), events[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationExists(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM registrations WHERE event_date = $1 AND lower(email) = lower($2)")).
		WithArgs(int64(100), "jane@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := r.RegistrationExists(context.Background(), 100, "jane@x.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCreateRegistrationUniqueViolation(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO registrations")).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := r.CreateRegistration(context.Background(), &model.Registration{EventID: 1, Email: "jane@x.com"})
	assert.ErrorIs(t, err, ErrDuplicateRegistration)
}

func TestCreateRegistration(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO registrations")).
		WithArgs(int64(1), "Jane Doe", "jane@x.com", "MIT", "CS", "online_workshop", int64(150), "AI Workshop", fixedNow.Unix()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	reg := &model.Registration{
		EventID: 1, FullName: "Jane Doe", Email: "jane@x.com", CollegeName: "MIT", Department: "CS",
		Category: "online_workshop", EventDate: 150, EventName: "AI Workshop",
	}
	id, err := r.CreateRegistration(context.Background(), reg)
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
	assert.Equal(t, fixedNow.Unix(), reg.Created)
}

func TestRegistrationFilters(t *testing.T) {
	tests := []struct {
		name   string
		filter model.RegistrationFilter
		where  string
		args   []interface{}
	}{
		{name: "none", filter: model.RegistrationFilter{}, where: "", args: nil},
		{name: "date", filter: model.RegistrationFilter{EventDate: 100}, where: " WHERE event_date = $1", args: []interface{}{int64(100)}},
		{name: "event", filter: model.RegistrationFilter{EventID: 3}, where: " WHERE event_id = $1", args: []interface{}{int64(3)}},
		{name: "both", filter: model.RegistrationFilter{EventDate: 100, EventID: 3}, where: " WHERE event_date = $1 AND event_id = $2", args: []interface{}{int64(100), int64(3)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := filterClause(tt.filter)
			assert.Equal(t, tt.where, where)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestCountRegistrations(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM registrations WHERE event_date = $1 AND event_id = $2")).
		WithArgs(int64(100), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := r.CountRegistrations(context.Background(), model.RegistrationFilter{EventDate: 100, EventID: 3})
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}
