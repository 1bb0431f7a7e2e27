package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"

	"eventplanner/internal/model"
)

var (
	ErrDuplicateRegistration = errors.New("duplicate registration")
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique index conflict.
const uniqueViolation pq.ErrorCode = "23505"

type Repository interface {
	CreateEvent(ctx context.Context, e *model.Event) (int64, error)
	GetEvents(ctx context.Context, activeOnly bool) ([]model.Event, error)
	GetEvent(ctx context.Context, id int64) (*model.Event, error)
	GetEventDatesByCategory(ctx context.Context, category string, activeOnly bool) ([]int64, error)
	GetEventsByCategoryAndDate(ctx context.Context, category string, eventDate int64, activeOnly bool) ([]model.Event, error)
	GetActiveCategories(ctx context.Context) ([]string, error)
	GetAllEventDates(ctx context.Context) ([]int64, error)
	GetEventsByDate(ctx context.Context, eventDate int64) ([]model.Event, error)

	RegistrationExists(ctx context.Context, eventDate int64, email string) (bool, error)
	CreateRegistration(ctx context.Context, reg *model.Registration) (int64, error)
	GetRegistrations(ctx context.Context, f model.RegistrationFilter) ([]model.Registration, error)
	CountRegistrations(ctx context.Context, f model.RegistrationFilter) (int, error)

	MigrateUp(migrationsDir string) error
	MigrateDown(migrationsDir string) error
}

// queryer is the subset of *dbpg.DB the repository needs. *sql.DB satisfies
// it as well.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type repository struct {
	db  queryer
	log *zerolog.Logger
	now func() time.Time
}

func NewRepository(db *dbpg.DB, log *zerolog.Logger) (Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if err := db.Master.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	return newRepository(db, log, time.Now), nil
}

func newRepository(db queryer, log *zerolog.Logger, now func() time.Time) *repository {
	return &repository{db: db, log: log, now: now}
}

func (r *repository) MigrateUp(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}
	sort.Strings(files)

	for _, file := range files {
		if err := r.execFile(file); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file, err)
		}
	}

	r.log.Info().Msgf("Migrations applied successfully from %s", migrationsDir)
	return nil
}

func (r *repository) MigrateDown(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.down.sql"))
	if err != nil {
		return fmt.Errorf("failed to read rollback files: %w", err)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(files)))

	for _, file := range files {
		if err := r.execFile(file); err != nil {
			return fmt.Errorf("failed to rollback migration %s: %w", file, err)
		}
	}

	r.log.Info().Msgf("Migrations rolled back successfully from %s", migrationsDir)
	return nil
}

func (r *repository) execFile(file string) error {
	sqlBytes, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(context.Background(), string(sqlBytes))
	return err
}

// windowClause restricts a query on events to open registration windows.
// It expects the current time as the next positional argument.
func windowClause(n int) string {
	return fmt.Sprintf(" AND registration_start <= $%d AND registration_end >= $%d", n, n)
}

func (r *repository) isDuplicate(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
