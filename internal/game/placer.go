package game

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

var (
	ErrNoPlacement        = errors.New("ship does not fit")
	ErrPlacementExhausted = errors.New("placement attempts exhausted")
	ErrNoValidDirection   = errors.New("no admissible direction at anchor")
	ErrMissingAnchor      = errors.New("layout has no anchor for ship")
	ErrUnknownShip        = errors.New("layout names an unknown ship")
	ErrUnknownPolicy      = errors.New("unknown placement policy")
)

const DefaultMaxAttempts = 10000

// Policy selects how a fleet is seated on a board.
type Policy int

const (
	PolicyDeterministic Policy = iota
	PolicyRandom
	PolicyDirected
	policyCount
)

var policyNames = [policyCount]string{
	PolicyDeterministic: "deterministic",
	PolicyRandom:        "random",
	PolicyDirected:      "directed",
}

func (p Policy) String() string {
	if p < 0 || p >= policyCount {
		return fmt.Sprintf("Policy(%d)", int(p))
	}
	return policyNames[p]
}

func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deterministic", "simple":
		return PolicyDeterministic, nil
	case "random":
		return PolicyRandom, nil
	case "directed", "custom":
		return PolicyDirected, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Policy) UnmarshalText(text []byte) error {
	v, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Placer seats fleets on boards. It is not safe for concurrent use
// because it owns its random source.
type Placer struct {
	rng         *rand.Rand
	maxAttempts int
}

func NewPlacer(rng *rand.Rand, maxAttempts int) *Placer {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Placer{rng: rng, maxAttempts: maxAttempts}
}

type placeFunc func(p *Placer, b *Board, roster Roster, layout Layout) error

var placers = [policyCount]placeFunc{
	PolicyDeterministic: (*Placer).placeDeterministic,
	PolicyRandom:        (*Placer).placeRandom,
	PolicyDirected:      (*Placer).placeDirected,
}

// Place seats every ship in roster on b using policy. layout is only read
// by PolicyDirected. The board is left untouched unless every ship fits.
func (p *Placer) Place(b *Board, roster Roster, policy Policy, layout Layout) error {
	if policy < 0 || policy >= policyCount {
		return fmt.Errorf("%w: %d", ErrUnknownPolicy, int(policy))
	}
	if err := roster.Validate(); err != nil {
		return err
	}
	work := b.Clone()
	if err := placers[policy](p, work, roster, layout); err != nil {
		return fmt.Errorf("%s placement: %w", policy, err)
	}
	b.copyFrom(work)
	return nil
}

// ship i goes on row i, columns [0, length)
func (p *Placer) placeDeterministic(b *Board, roster Roster, _ Layout) error {
	for i, ship := range roster {
		pl := Placement{Anchor: Coordinate{X: 0, Y: i}, Orientation: Horizontal, Direction: Increasing}
		if err := CheckPlacement(b, ship.Length, pl); err != nil {
			return fmt.Errorf("%w: %s on row %d: %v", ErrNoPlacement, ship.Name, i, err)
		}
		b.commit(ship.Name, ship.Length, pl)
	}
	return nil
}

func (p *Placer) placeRandom(b *Board, roster Roster, _ Layout) error {
	for _, ship := range roster {
		placed := false
		for attempt := 0; attempt < p.maxAttempts; attempt++ {
			pl := Placement{
				Anchor:      Coordinate{X: p.rng.Intn(b.Size()), Y: p.rng.Intn(b.Size())},
				Orientation: Orientation(p.rng.Intn(2)),
				Direction:   Direction(p.rng.Intn(2)),
			}
			if IsPlacementValid(b, ship.Length, pl) {
				b.commit(ship.Name, ship.Length, pl)
				placed = true
				break
			}
		}
		if !placed {
			return fmt.Errorf("%w: %s after %d attempts", ErrPlacementExhausted, ship.Name, p.maxAttempts)
		}
	}
	return nil
}

func (p *Placer) placeDirected(b *Board, roster Roster, layout Layout) error {
	for name := range layout {
		if _, ok := roster.Lookup(name); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownShip, name)
		}
	}
	for _, ship := range roster {
		a, ok := layout[ship.Name]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingAnchor, ship.Name)
		}
		first := Direction(p.rng.Intn(2))
		placed := false
		for _, dir := range []Direction{first, 1 - first} {
			pl := Placement{Anchor: Coordinate{X: a.X, Y: a.Y}, Orientation: a.Orientation, Direction: dir}
			if IsPlacementValid(b, ship.Length, pl) {
				b.commit(ship.Name, ship.Length, pl)
				placed = true
				break
			}
		}
		if !placed {
			return fmt.Errorf("%w: %s at (%d,%d) %s", ErrNoValidDirection, ship.Name, a.X, a.Y, a.Orientation)
		}
	}
	return nil
}
