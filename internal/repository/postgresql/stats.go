package postgresql

import (
	"context"
	"fmt"

	"github.com/inout-manager/realtime-go/internal/domain/stats"
	"github.com/inout-manager/realtime-go/internal/pkg/database"
)

type statsRepositoryImpl struct {
	db *database.DB
}

func NewStatsRepository(db *database.DB) stats.Repository {
	return &statsRepositoryImpl{db: db}
}

// Current computes the dashboard counters in a single query: status
// counts from the live status table, late arrivals from today's entry
// events after the configured threshold.
func (r *statsRepositoryImpl) Current(ctx context.Context) (stats.Dashboard, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN s.status = 'working' THEN 1 ELSE 0 END), 0) as present,
			COALESCE(SUM(CASE WHEN s.status IN ('inactive', 'absent') THEN 1 ELSE 0 END), 0) as absent,
			COALESCE(SUM(CASE WHEN s.status = 'break' THEN 1 ELSE 0 END), 0) as on_break,
			(
				SELECT COUNT(*)
				FROM attendance_events e
				WHERE e.type = 'entry'
				AND e.created_at >= CURRENT_DATE
				AND e.created_at::time > TIME '09:00'
			) as late_arrivals
		FROM employee_statuses s
	`

	var d stats.Dashboard
	err := r.db.QueryRow(ctx, query).Scan(&d.Present, &d.Absent, &d.OnBreak, &d.LateArrivals)
	if err != nil {
		return stats.Dashboard{}, fmt.Errorf("failed to get current stats: %w", err)
	}
	return d, nil
}
