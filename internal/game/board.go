package game

import (
	"encoding/json"
	"fmt"
)

// Board is an N×N grid; each cell is empty ("") or holds a ship identifier.
type Board struct {
	size  int
	cells [][]string
}

func NewBoard(size int) (*Board, error) {
	if size < MinBoardSize || size > MaxBoardSize {
		return nil, fmt.Errorf("%w: %d (want %d..%d)", ErrBoardSize, size, MinBoardSize, MaxBoardSize)
	}
	cells := make([][]string, size)
	for y := range cells {
		cells[y] = make([]string, size)
	}
	return &Board{size: size, cells: cells}, nil
}

func (b *Board) Size() int { return b.size }

func (b *Board) InBounds(c Coordinate) bool {
	return c.X >= 0 && c.X < b.size && c.Y >= 0 && c.Y < b.size
}

// At returns the ship identifier at c. ok is false for empty or
// out-of-bounds cells.
func (b *Board) At(c Coordinate) (string, bool) {
	if !b.InBounds(c) {
		return "", false
	}
	id := b.cells[c.Y][c.X]
	return id, id != ""
}

// Occupied returns the cells holding ship id in row-major order.
func (b *Board) Occupied(id string) []Coordinate {
	var out []Coordinate
	for y, row := range b.cells {
		for x, v := range row {
			if v == id {
				out = append(out, Coordinate{X: x, Y: y})
			}
		}
	}
	return out
}

// Cells returns a copy of the grid, indexed [y][x].
func (b *Board) Cells() [][]string {
	out := make([][]string, b.size)
	for y := range b.cells {
		out[y] = append([]string(nil), b.cells[y]...)
	}
	return out
}

func (b *Board) Clone() *Board {
	return &Board{size: b.size, cells: b.Cells()}
}

func (b *Board) set(c Coordinate, id string) {
	b.cells[c.Y][c.X] = id
}

func (b *Board) clear(c Coordinate) {
	b.cells[c.Y][c.X] = ""
}

// copyFrom commits other's cells into b. Both boards share a size.
func (b *Board) copyFrom(other *Board) {
	for y := range other.cells {
		copy(b.cells[y], other.cells[y])
	}
}

type boardJSON struct {
	Size  int        `json:"size"`
	Cells [][]string `json:"cells"`
}

func (b *Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(boardJSON{Size: b.size, Cells: b.cells})
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var raw boardJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	fresh, err := NewBoard(raw.Size)
	if err != nil {
		return err
	}
	if len(raw.Cells) != raw.Size {
		return fmt.Errorf("board has %d rows, want %d", len(raw.Cells), raw.Size)
	}
	for y, row := range raw.Cells {
		if len(row) != raw.Size {
			return fmt.Errorf("board row %d has %d cells, want %d", y, len(row), raw.Size)
		}
		copy(fresh.cells[y], row)
	}
	*b = *fresh
	return nil
}
