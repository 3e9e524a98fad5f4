package domain

// ConnectionState models the simulated connection lifecycle.
type ConnectionState int

const (
	Disconnected ConnectionState = iota
	Connecting
	Connected
	Reconnecting
	// Failed is terminal: the bounded retry policy is exhausted and the
	// display layer must prompt for manual intervention.
	Failed
)

func (s ConnectionState) String() string {
	switch s {
	case Disconnected:
		return "DISCONNECTED"
	case Connecting:
		return "CONNECTING"
	case Connected:
		return "CONNECTED"
	case Reconnecting:
		return "RECONNECTING"
	case Failed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}
