package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	MinBoardSize     = 2
	MaxBoardSize     = 26
	DefaultBoardSize = 10

	// MinShipLength keeps every ship on at least one parity cell.
	MinShipLength = 2
)

var (
	ErrBoardSize   = errors.New("invalid board size")
	ErrInvalidShip = errors.New("invalid ship")
)

type ShipType string

const (
	Carrier    ShipType = "Carrier"
	Battleship ShipType = "Battleship"
	Cruiser    ShipType = "Cruiser"
	Submarine  ShipType = "Submarine"
	Destroyer  ShipType = "Destroyer"
)

// ShipSpec is a ship identifier and its declared length.
type ShipSpec struct {
	Name   string `json:"name" yaml:"name"`
	Length int    `json:"length" yaml:"length"`
}

// Roster is the ordered fleet definition. Order matters for deterministic
// placement, which seats ship i on row i.
type Roster []ShipSpec

func DefaultRoster() Roster {
	return Roster{
		{Name: string(Carrier), Length: 5},
		{Name: string(Battleship), Length: 4},
		{Name: string(Cruiser), Length: 3},
		{Name: string(Submarine), Length: 3},
		{Name: string(Destroyer), Length: 2},
	}
}

func (r Roster) Validate() error {
	if len(r) == 0 {
		return fmt.Errorf("%w: roster is empty", ErrInvalidShip)
	}
	seen := make(map[string]bool, len(r))
	for _, s := range r {
		if s.Name == "" {
			return fmt.Errorf("%w: empty ship name", ErrInvalidShip)
		}
		if s.Length < MinShipLength {
			return fmt.Errorf("%w: %s has length %d, minimum is %d", ErrInvalidShip, s.Name, s.Length, MinShipLength)
		}
		if seen[s.Name] {
			return fmt.Errorf("%w: duplicate ship %s", ErrInvalidShip, s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}

// Lookup returns the spec for name.
func (r Roster) Lookup(name string) (ShipSpec, bool) {
	for _, s := range r {
		if s.Name == name {
			return s, true
		}
	}
	return ShipSpec{}, false
}

// Cells is the total number of cells the roster occupies.
func (r Roster) Cells() int {
	n := 0
	for _, s := range r {
		n += s.Length
	}
	return n
}

// Fleet builds a fresh hit-point table for the roster.
func (r Roster) Fleet() Fleet {
	f := make(Fleet, len(r))
	for _, s := range r {
		f[s.Name] = s.Length
	}
	return f
}

// Fleet maps a ship identifier to its remaining hit points.
type Fleet map[string]int

// Defeated reports whether every ship has been reduced to zero.
func (f Fleet) Defeated() bool {
	for _, hp := range f {
		if hp > 0 {
			return false
		}
	}
	return true
}

func (f Fleet) Remaining() int {
	n := 0
	for _, hp := range f {
		n += hp
	}
	return n
}

// Afloat lists the ships that still have hit points, in roster order.
func (f Fleet) Afloat(r Roster) []string {
	var out []string
	for _, s := range r {
		if f[s.Name] > 0 {
			out = append(out, s.Name)
		}
	}
	return out
}

func (f Fleet) Clone() Fleet {
	out := make(Fleet, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Coordinate addresses a cell; X is the column and Y the row.
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// converts "A1" to a coordinate: the letter picks the row, the number the column.
func ParseCoordinate(coord string, size int) (Coordinate, error) {
	coord = strings.TrimSpace(coord)
	if len(coord) < 2 {
		return Coordinate{}, fmt.Errorf("invalid coordinate: %q", coord)
	}
	rowChar := strings.ToUpper(coord[:1])[0]
	last := byte('A' + size - 1)
	if rowChar < 'A' || rowChar > last {
		return Coordinate{}, fmt.Errorf("invalid row: %c", rowChar)
	}
	col, err := strconv.Atoi(coord[1:])
	if err != nil {
		return Coordinate{}, fmt.Errorf("invalid column: %s", coord[1:])
	}
	if col < 1 || col > size {
		return Coordinate{}, fmt.Errorf("column out of bounds: %d", col)
	}
	return Coordinate{X: col - 1, Y: int(rowChar - 'A')}, nil
}

// converts a coordinate back to "A1" notation
func FormatCoordinate(c Coordinate) string {
	return fmt.Sprintf("%c%d", 'A'+c.Y, c.X+1)
}
