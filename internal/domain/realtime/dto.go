package realtime

import (
	"encoding/json"
	"time"

	"github.com/inout-manager/realtime-go/internal/domain/activity"
	"github.com/inout-manager/realtime-go/internal/domain/stats"
)

// Message types carried in the channel envelope
const (
	MessageAuth         = "auth"
	MessageEntry        = "entry"
	MessageExit         = "exit"
	MessageStatusUpdate = "status_update"
	MessageAlert        = "alert"
	MessageStatsUpdate  = "stats_update"
)

// AuthMessage is the first client→server message on a fresh channel
type AuthMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// Envelope is the server→client message frame. Payload fields stay
// raw until the type is known.
type Envelope struct {
	Type string `json:"type"`

	// entry / exit
	Employee *EmployeePayload `json:"employee,omitempty"`

	// status_update
	EmployeeID   string                  `json:"employeeId,omitempty"`
	EmployeeName string                  `json:"employeeName,omitempty"`
	Status       activity.EmployeeStatus `json:"status,omitempty"`
	Avatar       string                  `json:"avatar,omitempty"`

	// alert
	Message  string            `json:"message,omitempty"`
	Severity activity.Severity `json:"severity,omitempty"`

	// stats_update
	Stats *stats.DashboardResponse `json:"stats,omitempty"`

	// entry / exit / alert
	Timestamp *time.Time `json:"timestamp,omitempty"`

	// optional stable id for feed deduplication
	ID string `json:"id,omitempty"`
}

// EmployeePayload is the employee block on entry/exit messages. The
// wire protocol uses Spanish field names.
type EmployeePayload struct {
	ID         string `json:"id"`
	Name       string `json:"nombre"`
	Avatar     string `json:"avatar,omitempty"`
	Department string `json:"departamento,omitempty"`
}

// DecodeEnvelope parses a raw channel frame
func DecodeEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, err
	}
	if env.Type == "" {
		return Envelope{}, ErrEmptyMessageType
	}
	return env, nil
}

// Snapshot describes the supervisor's current condition, for status
// displays and diagnostics
type Snapshot struct {
	State             ConnectionState `json:"state"`
	ReconnectAttempts int             `json:"reconnectAttempts"`
	FeedLength        int             `json:"feedLength"`
	LastUpdate        time.Time       `json:"lastUpdate"`
}
