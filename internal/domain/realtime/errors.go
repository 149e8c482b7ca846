package realtime

import "errors"

// Realtime domain errors
var (
	ErrEmptyMessageType   = errors.New("channel message has no type")
	ErrAuthFailed         = errors.New("channel authentication rejected")
	ErrChannelClosed      = errors.New("channel is closed")
	ErrInvalidTransition  = errors.New("invalid connection state transition")
	ErrReconnectExhausted = errors.New("reconnect attempts exhausted")
)
