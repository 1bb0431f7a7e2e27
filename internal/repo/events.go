package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventplanner/internal/model"
)

const eventColumns = `id, event_name, category, registration_start, registration_end, event_date, created`

func (r *repository) CreateEvent(ctx context.Context, e *model.Event) (int64, error) {
	query := `
		INSERT INTO events (event_name, category, registration_start, registration_end, event_date, created)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	created := r.now().Unix()

	var id int64
	if err := r.db.QueryRowContext(ctx, query,
		e.Name, e.Category, e.RegistrationStart, e.RegistrationEnd, e.EventDate, created,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert event: %w", err)
	}

	e.ID = id
	e.Created = created
	return id, nil
}

func (r *repository) GetEvents(ctx context.Context, activeOnly bool) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE 1=1`
	var args []interface{}
	if activeOnly {
		query += windowClause(1)
		args = append(args, r.now().Unix())
	}
	query += ` ORDER BY event_date ASC, event_name ASC`

	return r.queryEvents(ctx, query, args...)
}

func (r *repository) GetEvent(ctx context.Context, id int64) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	var e model.Event
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.Name, &e.Category, &e.RegistrationStart, &e.RegistrationEnd, &e.EventDate, &e.Created,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event %d: %w", id, err)
	}
	return &e, nil
}

func (r *repository) GetEventDatesByCategory(ctx context.Context, category string, activeOnly bool) ([]int64, error) {
	query := `SELECT DISTINCT event_date FROM events WHERE category = $1`
	args := []interface{}{category}
	if activeOnly {
		query += windowClause(2)
		args = append(args, r.now().Unix())
	}
	query += ` ORDER BY event_date ASC`

	return r.queryInts(ctx, query, args...)
}

func (r *repository) GetEventsByCategoryAndDate(ctx context.Context, category string, eventDate int64, activeOnly bool) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE category = $1 AND event_date = $2`
	args := []interface{}{category, eventDate}
	if activeOnly {
		query += windowClause(3)
		args = append(args, r.now().Unix())
	}
	query += ` ORDER BY event_name ASC`

	return r.queryEvents(ctx, query, args...)
}

func (r *repository) GetActiveCategories(ctx context.Context) ([]string, error) {
	query := `
		SELECT category FROM events
		WHERE registration_start <= $1 AND registration_end >= $1
		GROUP BY category
		ORDER BY category ASC
	`
	rows, err := r.db.QueryContext(ctx, query, r.now().Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to get active categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *repository) GetAllEventDates(ctx context.Context) ([]int64, error) {
	return r.queryInts(ctx, `SELECT DISTINCT event_date FROM events ORDER BY event_date ASC`)
}

func (r *repository) GetEventsByDate(ctx context.Context, eventDate int64) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE event_date = $1 ORDER BY event_name ASC`
	return r.queryEvents(ctx, query, eventDate)
}

func (r *repository) queryEvents(ctx context.Context, query string, args ...interface{}) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(
			&e.ID,
			&e.Name,
			&e.Category,
			&e.RegistrationStart,
			&e.RegistrationEnd,
			&e.EventDate,
			&e.Created,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *repository) queryInts(ctx context.Context, query string, args ...interface{}) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get event dates: %w", err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan event date: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
