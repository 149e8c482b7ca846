package realtime

// ConnectionState is the lifecycle state of the realtime channel.
// Exactly one state is active at any time.
type ConnectionState string

const (
	StateConnecting      ConnectionState = "connecting"
	StateOpen            ConnectionState = "open"
	StateClosed          ConnectionState = "closed"
	StateReconnectWait   ConnectionState = "reconnect-wait"
	StatePollingFallback ConnectionState = "polling-fallback"
)

// validTransitions is the supervisor's transition table. Entering
// polling-fallback is terminal for the session.
var validTransitions = map[ConnectionState][]ConnectionState{
	StateConnecting:      {StateOpen, StateClosed},
	StateOpen:            {StateClosed},
	StateClosed:          {StateReconnectWait, StatePollingFallback, StateConnecting},
	StateReconnectWait:   {StateConnecting},
	StatePollingFallback: {},
}

// CanTransition reports whether moving from one state to another is
// allowed by the connection lifecycle
func CanTransition(from, to ConnectionState) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
