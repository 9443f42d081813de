package targeting

import "github.com/krishanu7/battleship-ai/internal/game"

type State int

const (
	Searching State = iota
	Tracking
)

func (s State) String() string {
	if s == Tracking {
		return "tracking"
	}
	return "searching"
}

// Memory is one attacker's targeting state for the length of a session.
type Memory struct {
	Tracking bool `json:"tracking"`
	// FreshHit is set by a hit and cleared once that hit's neighbours
	// have been queued.
	FreshHit bool             `json:"fresh_hit"`
	LastHit  *game.Coordinate `json:"last_hit,omitempty"`
	// Stack is LIFO: the last element is popped first.
	Stack []game.Coordinate `json:"stack"`
}

// Record feeds the outcome of a shot at c back into memory.
func (m *Memory) Record(c game.Coordinate, hit bool) {
	if !hit {
		m.FreshHit = false
		return
	}
	last := c
	m.Tracking = true
	m.FreshHit = true
	m.LastHit = &last
}

func (m Memory) State() State {
	if m.Tracking {
		return Tracking
	}
	return Searching
}

func (m Memory) clone() Memory {
	out := m
	out.Stack = append([]game.Coordinate(nil), m.Stack...)
	if m.LastHit != nil {
		last := *m.LastHit
		out.LastHit = &last
	}
	return out
}

func (m Memory) stacked(c game.Coordinate) bool {
	for _, s := range m.Stack {
		if s == c {
			return true
		}
	}
	return false
}
