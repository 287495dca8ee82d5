package app

// State is a node of the deployment state machine.
type State int

const (
	StateAttempting State = iota
	StateSuccess
	StateRemoteRejection
	StateExhaustedRetries
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateAttempting:
		return "Attempting"
	case StateSuccess:
		return "Success"
	case StateRemoteRejection:
		return "RemoteRejection"
	case StateExhaustedRetries:
		return "ExhaustedRetries"
	default:
		return "Unknown"
	}
}

// Terminal reports whether no further attempts may follow the state.
func (s State) Terminal() bool {
	return s != StateAttempting
}

// EventEmitter is called on every state transition of a deployment.
// attempt is the 1-based number of the attempt that caused the transition.
type EventEmitter interface {
	OnStateChange(previous, current State, attempt int)
}
