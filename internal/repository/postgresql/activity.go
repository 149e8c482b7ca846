package postgresql

import (
	"context"
	"fmt"

	"github.com/inout-manager/realtime-go/internal/domain/activity"
	"github.com/inout-manager/realtime-go/internal/pkg/database"
)

type activityRepositoryImpl struct {
	db *database.DB
}

func NewActivityRepository(db *database.DB) activity.Repository {
	return &activityRepositoryImpl{db: db}
}

func (r *activityRepositoryImpl) Insert(ctx context.Context, event *activity.Event) error {
	query := `
		INSERT INTO attendance_events (id, type, employee_id, employee_name, department, avatar, message, severity, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, NULLIF($8, ''), $9)
	`

	_, err := r.db.Exec(ctx, query,
		event.ID,
		string(event.Type),
		event.EmployeeID,
		event.EmployeeName,
		event.Department,
		event.Avatar,
		event.Message,
		string(event.Severity),
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert attendance event: %w", err)
	}
	return nil
}

func (r *activityRepositoryImpl) Recent(ctx context.Context, limit int) ([]activity.Event, error) {
	query := `
		SELECT id, type, COALESCE(employee_id, ''), employee_name, department, avatar, message, COALESCE(severity, ''), created_at
		FROM attendance_events
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent events: %w", err)
	}
	defer rows.Close()

	var events []activity.Event
	for rows.Next() {
		var e activity.Event
		var eventType, severity string
		if err := rows.Scan(&e.ID, &eventType, &e.EmployeeID, &e.EmployeeName, &e.Department, &e.Avatar, &e.Message, &severity, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		e.Type = activity.EventType(eventType)
		e.Severity = activity.Severity(severity)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read event rows: %w", err)
	}
	return events, nil
}

func (r *activityRepositoryImpl) SetEmployeeStatus(ctx context.Context, employeeID string, status activity.EmployeeStatus) error {
	query := `
		INSERT INTO employee_statuses (employee_id, status, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (employee_id)
		DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()
	`

	_, err := r.db.Exec(ctx, query, employeeID, string(status))
	if err != nil {
		return fmt.Errorf("failed to set employee status: %w", err)
	}
	return nil
}
