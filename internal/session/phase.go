// Package session holds the quiz and article state machines.
//
// Both follow the same request discipline. Start validates input, moves to
// Loading and hands back a ticket. Fetch runs the request without touching
// state. Resolve applies the response only if the ticket is still the newest
// one; anything older is dropped on the floor. Nothing is cancelled on the
// wire. Callers that do not need the split (the CLI) use Ask/Generate.
package session

// Phase is the coarse state of a session.
type Phase int

const (
	Idle Phase = iota
	Loading
	Ready
	Answered // quiz only
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Answered:
		return "answered"
	default:
		return "idle"
	}
}
