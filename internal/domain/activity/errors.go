package activity

import "errors"

// Activity domain errors
var (
	ErrInvalidEventType = errors.New("invalid event type")
	ErrMissingEmployee  = errors.New("employee id is required for this event type")
	ErrEventNotFound    = errors.New("attendance event not found")
)
