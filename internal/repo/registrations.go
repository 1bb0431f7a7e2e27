package repo

import (
	"context"
	"fmt"

	"eventplanner/internal/model"
)

func (r *repository) RegistrationExists(ctx context.Context, eventDate int64, email string) (bool, error) {
	query := `SELECT COUNT(*) FROM registrations WHERE event_date = $1 AND lower(email) = lower($2)`

	var count int
	if err := r.db.QueryRowContext(ctx, query, eventDate, email).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check duplicate registration: %w", err)
	}
	return count > 0, nil
}

func (r *repository) CreateRegistration(ctx context.Context, reg *model.Registration) (int64, error) {
	query := `
		INSERT INTO registrations (event_id, full_name, email, college_name, department, category, event_date, event_name, created)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	created := r.now().Unix()

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		reg.EventID, reg.FullName, reg.Email, reg.CollegeName, reg.Department,
		reg.Category, reg.EventDate, reg.EventName, created,
	).Scan(&id)
	if err != nil {
		if r.isDuplicate(err) {
			return 0, ErrDuplicateRegistration
		}
		return 0, fmt.Errorf("failed to create registration: %w", err)
	}

	reg.ID = id
	reg.Created = created
	return id, nil
}

func (r *repository) GetRegistrations(ctx context.Context, f model.RegistrationFilter) ([]model.Registration, error) {
	where, args := filterClause(f)
	query := `
		SELECT id, event_id, full_name, email, college_name, department, category, event_date, event_name, created
		FROM registrations` + where + `
		ORDER BY created DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get registrations: %w", err)
	}
	defer rows.Close()

	var regs []model.Registration
	for rows.Next() {
		var reg model.Registration
		if err := rows.Scan(
			&reg.ID,
			&reg.EventID,
			&reg.FullName,
			&reg.Email,
			&reg.CollegeName,
			&reg.Department,
			&reg.Category,
			&reg.EventDate,
			&reg.EventName,
			&reg.Created,
		); err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

func (r *repository) CountRegistrations(ctx context.Context, f model.RegistrationFilter) (int, error) {
	where, args := filterClause(f)

	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM registrations`+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count registrations: %w", err)
	}
	return count, nil
}

func filterClause(f model.RegistrationFilter) (string, []interface{}) {
	var (
		where string
		args  []interface{}
	)
	add := func(column string, v int64) {
		args = append(args, v)
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf("%s = $%d", column, len(args))
	}
	if f.EventDate != 0 {
		add("event_date", f.EventDate)
	}
	if f.EventID != 0 {
		add("event_id", f.EventID)
	}
	return where, args
}
