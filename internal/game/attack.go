package game

import "encoding/json"

// Outcome is the detailed result of one shot.
type Outcome struct {
	Hit  bool   `json:"hit"`
	Ship string `json:"ship,omitempty"`
	Sunk bool   `json:"sunk,omitempty"`
}

// Strike fires at c. A hit decrements the ship's hit points and clears the
// cell, so a second shot at the same cell is a miss. Repeats are the
// caller's concern, tracked through a HitLog.
func Strike(c Coordinate, b *Board, f Fleet) Outcome {
	id, ok := b.At(c)
	if !ok {
		return Outcome{}
	}
	f[id]--
	b.clear(c)
	return Outcome{Hit: true, Ship: id, Sunk: f[id] <= 0}
}

func ResolveAttack(c Coordinate, b *Board, f Fleet) bool {
	return Strike(c, b, f).Hit
}

// HitLog is the ordered set of coordinates one attacker has fired at.
type HitLog struct {
	seen  map[Coordinate]struct{}
	order []Coordinate
}

func NewHitLog() *HitLog {
	return &HitLog{seen: make(map[Coordinate]struct{})}
}

func (h *HitLog) Has(c Coordinate) bool {
	if h == nil {
		return false
	}
	_, ok := h.seen[c]
	return ok
}

// Add records c and reports whether it was new.
func (h *HitLog) Add(c Coordinate) bool {
	if h.seen == nil {
		h.seen = make(map[Coordinate]struct{})
	}
	if _, ok := h.seen[c]; ok {
		return false
	}
	h.seen[c] = struct{}{}
	h.order = append(h.order, c)
	return true
}

func (h *HitLog) Len() int {
	if h == nil {
		return 0
	}
	return len(h.order)
}

// Shots returns the fired coordinates in firing order.
func (h *HitLog) Shots() []Coordinate {
	if h == nil {
		return nil
	}
	return append([]Coordinate(nil), h.order...)
}

func (h *HitLog) MarshalJSON() ([]byte, error) {
	shots := h.order
	if shots == nil {
		shots = []Coordinate{}
	}
	return json.Marshal(shots)
}

func (h *HitLog) UnmarshalJSON(data []byte) error {
	var shots []Coordinate
	if err := json.Unmarshal(data, &shots); err != nil {
		return err
	}
	*h = HitLog{seen: make(map[Coordinate]struct{}, len(shots))}
	for _, c := range shots {
		h.Add(c)
	}
	return nil
}
