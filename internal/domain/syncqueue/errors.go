package syncqueue

import "errors"

// Sync queue domain errors
var (
	ErrOffline          = errors.New("offline and request is not queueable")
	ErrCorruptQueue     = errors.New("persisted queue is corrupt")
	ErrDeliveryRejected = errors.New("replay delivery rejected by server")
)
