package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrOutOfBounds = errors.New("placement out of bounds")
	ErrOverlap     = errors.New("placement overlaps another ship")
	ErrShipLength  = errors.New("ship length must be positive")
)

type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "v"
	}
	return "h"
}

// ParseOrientation accepts "h"/"horizontal" and "v"/"vertical".
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "h", "horizontal":
		return Horizontal, nil
	case "v", "vertical":
		return Vertical, nil
	}
	return 0, fmt.Errorf("invalid orientation: %q", s)
}

func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Orientation) UnmarshalText(text []byte) error {
	v, err := ParseOrientation(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

type Direction int

const (
	Increasing Direction = iota
	Decreasing
)

func (d Direction) step() int {
	if d == Decreasing {
		return -1
	}
	return 1
}

// Placement is a proposed seat for one ship. It is consumed by the
// validator and never stored.
type Placement struct {
	Anchor      Coordinate
	Orientation Orientation
	Direction   Direction
}

// Cells walks length cells from the anchor.
func (p Placement) Cells(length int) []Coordinate {
	cells := make([]Coordinate, 0, length)
	step := p.Direction.step()
	for i := 0; i < length; i++ {
		c := p.Anchor
		if p.Orientation == Vertical {
			c.Y += i * step
		} else {
			c.X += i * step
		}
		cells = append(cells, c)
	}
	return cells
}

// CheckPlacement reports why a placement is inadmissible, or nil.
// Every walked cell is checked so the far end of the ship is bounded too.
func CheckPlacement(b *Board, length int, p Placement) error {
	if length < 1 {
		return fmt.Errorf("%w: %d", ErrShipLength, length)
	}
	for _, c := range p.Cells(length) {
		if !b.InBounds(c) {
			return fmt.Errorf("%w: cell %s", ErrOutOfBounds, c)
		}
		if id, taken := b.At(c); taken {
			return fmt.Errorf("%w: cell %s holds %s", ErrOverlap, c, id)
		}
	}
	return nil
}

func IsPlacementValid(b *Board, length int, p Placement) bool {
	return CheckPlacement(b, length, p) == nil
}

// commit seats id at p. Callers validate first.
func (b *Board) commit(id string, length int, p Placement) {
	for _, c := range p.Cells(length) {
		b.set(c, id)
	}
}

// Anchor is an externally supplied seat: position and orientation only.
type Anchor struct {
	X           int         `json:"x"`
	Y           int         `json:"y"`
	Orientation Orientation `json:"orientation"`
}

// UnmarshalJSON accepts {"x":1,"y":2,"orientation":"h"} as well as the
// saved-layout array form [x, y, "h"], where x and y may be strings.
func (a *Anchor) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if !strings.HasPrefix(trimmed, "[") {
		type plain Anchor
		var p plain
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		*a = Anchor(p)
		return nil
	}

	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) != 3 {
		return fmt.Errorf("anchor wants [x, y, orientation], got %d elements", len(parts))
	}
	x, err := looseInt(parts[0])
	if err != nil {
		return fmt.Errorf("anchor x: %w", err)
	}
	y, err := looseInt(parts[1])
	if err != nil {
		return fmt.Errorf("anchor y: %w", err)
	}
	var orient string
	if err := json.Unmarshal(parts[2], &orient); err != nil {
		return fmt.Errorf("anchor orientation: %w", err)
	}
	o, err := ParseOrientation(orient)
	if err != nil {
		return err
	}
	*a = Anchor{X: x, Y: y, Orientation: o}
	return nil
}

func looseInt(raw json.RawMessage) (int, error) {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(s))
}

// Layout maps a ship identifier to its directed anchor.
type Layout map[string]Anchor
