package activity

import (
	"time"
)

// ============= Request DTOs =============

// RecordEventRequest represents a request to record an attendance event
type RecordEventRequest struct {
	Type       EventType      `json:"type"`
	Employee   EmployeePatch  `json:"employee"`
	Message    string         `json:"message,omitempty"`
	Severity   Severity       `json:"severity,omitempty"`
	Status     EmployeeStatus `json:"status,omitempty"`
	OccurredAt *time.Time     `json:"timestamp,omitempty"`
}

// EmployeePatch carries the employee fields attached to a recorded event
type EmployeePatch struct {
	ID         string `json:"id"`
	Name       string `json:"nombre"`
	Avatar     string `json:"avatar,omitempty"`
	Department string `json:"departamento,omitempty"`
}

// ============= Response DTOs =============

// EventResponse represents an attendance event in API responses.
// The id is stable so polling clients can deduplicate.
type EventResponse struct {
	ID           string    `json:"id"`
	Type         EventType `json:"type"`
	EmployeeID   string    `json:"employeeId,omitempty"`
	EmployeeName string    `json:"employeeName,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	Message      string    `json:"message"`
	Avatar       string    `json:"avatar,omitempty"`
	Department   string    `json:"department,omitempty"`
	Severity     Severity  `json:"severity,omitempty"`
}

// ToResponse converts an event entity to its API representation
func ToResponse(e Event) EventResponse {
	return EventResponse{
		ID:           e.ID,
		Type:         e.Type,
		EmployeeID:   e.EmployeeID,
		EmployeeName: e.EmployeeName,
		Timestamp:    e.Timestamp,
		Message:      e.Message,
		Avatar:       e.Avatar,
		Department:   e.Department,
		Severity:     e.Severity,
	}
}

// FromResponse converts an API representation back into an event entity
func FromResponse(r EventResponse) Event {
	return Event{
		ID:           r.ID,
		Type:         r.Type,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		Timestamp:    r.Timestamp,
		Message:      r.Message,
		Avatar:       r.Avatar,
		Department:   r.Department,
		Severity:     r.Severity,
	}
}

// ExportRecord is the serializable snapshot format produced when the
// feed is exported for download
type ExportRecord struct {
	Timestamp  string    `json:"timestamp"`
	Type       EventType `json:"type"`
	Message    string    `json:"message"`
	Employee   string    `json:"employee,omitempty"`
	Department string    `json:"department,omitempty"`
}
