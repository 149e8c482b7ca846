package activity

import (
	"time"
)

// EventType classifies an attendance event in the activity feed
type EventType string

const (
	TypeEntry        EventType = "entry"
	TypeExit         EventType = "exit"
	TypeBreak        EventType = "break"
	TypeAlert        EventType = "alert"
	TypeStatusUpdate EventType = "status_update"
)

// AllEventTypes returns all feed-visible event types
func AllEventTypes() []EventType {
	return []EventType{
		TypeEntry,
		TypeExit,
		TypeBreak,
		TypeAlert,
		TypeStatusUpdate,
	}
}

// IsValid reports whether t is a known event type
func (t EventType) IsValid() bool {
	switch t {
	case TypeEntry, TypeExit, TypeBreak, TypeAlert, TypeStatusUpdate:
		return true
	}
	return false
}

// Severity is the alert severity, reused as the toast level
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Event represents a single attendance event. Immutable once created;
// produced by the gateway, consumed by the activity feed.
type Event struct {
	ID           string
	Type         EventType
	EmployeeID   string
	EmployeeName string
	Timestamp    time.Time
	Message      string
	Avatar       string
	Department   string
	Severity     Severity
}

// EmployeeStatus is the status shown on an employee badge
type EmployeeStatus string

const (
	StatusWorking  EmployeeStatus = "working"
	StatusInactive EmployeeStatus = "inactive"
	StatusBreak    EmployeeStatus = "break"
	StatusAbsent   EmployeeStatus = "absent"
)

// StatusText returns the user-facing label for a badge status
func StatusText(status EmployeeStatus) string {
	switch status {
	case StatusWorking:
		return "Trabajando"
	case StatusInactive:
		return "Inactivo"
	case StatusBreak:
		return "Descanso"
	case StatusAbsent:
		return "Ausente"
	}
	return string(status)
}
