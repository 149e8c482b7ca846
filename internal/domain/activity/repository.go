package activity

import (
	"context"
)

// Repository defines the gateway-side store of attendance events
type Repository interface {
	Insert(ctx context.Context, event *Event) error
	Recent(ctx context.Context, limit int) ([]Event, error)
	SetEmployeeStatus(ctx context.Context, employeeID string, status EmployeeStatus) error
}
