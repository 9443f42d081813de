package targeting

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/krishanu7/battleship-ai/internal/game"
)

var (
	ErrUnknownStrategy = errors.New("unknown targeting strategy")
	ErrSearchExhausted = errors.New("parity search exhausted")
	ErrUnknownRule     = errors.New("unknown parity rule")
)

const DefaultMaxAttempts = 10000

// Strategy selects how an automated attacker picks its next shot.
type Strategy int

const (
	Random Strategy = iota
	HuntAndTarget
	Parity
	strategyCount
)

var strategyNames = [strategyCount]string{
	Random:        "random",
	HuntAndTarget: "hunt-and-target",
	Parity:        "parity",
}

func (s Strategy) String() string {
	if s < 0 || s >= strategyCount {
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
	return strategyNames[s]
}

func Strategies() []Strategy {
	return []Strategy{Random, HuntAndTarget, Parity}
}

func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "random", "simple", "normal":
		return Random, nil
	case "hunt-and-target", "hunt&target", "hunt":
		return HuntAndTarget, nil
	case "parity":
		return Parity, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Strategy) UnmarshalText(text []byte) error {
	v, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParityRule is the cell predicate the parity strategy searches with.
type ParityRule int

const (
	// LegacyParity qualifies (x,y) when x+y*size is odd on an even row,
	// even on an odd row, or when x is odd.
	LegacyParity ParityRule = iota
	// Checkerboard qualifies (x,y) when x+y is even.
	Checkerboard
)

func (r ParityRule) String() string {
	if r == Checkerboard {
		return "checkerboard"
	}
	return "legacy"
}

func ParseParityRule(s string) (ParityRule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "legacy":
		return LegacyParity, nil
	case "checkerboard":
		return Checkerboard, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRule, s)
}

func (r ParityRule) Allows(c game.Coordinate, size int) bool {
	if r == Checkerboard {
		return (c.X+c.Y)%2 == 0
	}
	linear := c.X + c.Y*size
	switch {
	case linear%2 == 1 && c.Y%2 == 0:
		return true
	case linear%2 == 0 && c.Y%2 == 1:
		return true
	}
	return c.X%2 == 1
}

// Engine picks attack coordinates. It is not safe for concurrent use
// because it owns its random source.
type Engine struct {
	rng         *rand.Rand
	maxAttempts int
	parity      ParityRule
}

type Option func(*Engine)

func WithMaxAttempts(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxAttempts = n
		}
	}
}

func WithParityRule(r ParityRule) Option {
	return func(e *Engine) { e.parity = r }
}

func NewEngine(rng *rand.Rand, opts ...Option) *Engine {
	e := &Engine{rng: rng, maxAttempts: DefaultMaxAttempts}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) ParityRule() ParityRule { return e.parity }

type searchFunc func(e *Engine, size int) (game.Coordinate, error)

type strategyImpl struct {
	tracks bool
	search searchFunc
}

var strategies = [strategyCount]strategyImpl{
	Random:        {tracks: false, search: (*Engine).uniform},
	HuntAndTarget: {tracks: true, search: (*Engine).uniform},
	Parity:        {tracks: true, search: (*Engine).paritySearch},
}

// NextAttack returns the next coordinate to fire at and the updated
// memory. The input memory is not modified and hitLog is only read.
// Novelty is only guaranteed for coordinates taken from the candidate
// stack; callers resample search results that are already in hitLog.
func (e *Engine) NextAttack(s Strategy, mem Memory, hitLog *game.HitLog, size int) (game.Coordinate, Memory, error) {
	if s < 0 || s >= strategyCount {
		return game.Coordinate{}, mem, fmt.Errorf("%w: %d", ErrUnknownStrategy, int(s))
	}
	if size < game.MinBoardSize {
		return game.Coordinate{}, mem, fmt.Errorf("%w: %d", game.ErrBoardSize, size)
	}
	impl := strategies[s]
	next := mem.clone()

	if impl.tracks && next.Tracking {
		if next.FreshHit && next.LastHit != nil {
			expand(&next, *next.LastHit, hitLog, size)
		}
		next.FreshHit = false
		if c, ok := pop(&next, hitLog); ok {
			if len(next.Stack) == 0 {
				next.Tracking = false
			}
			return c, next, nil
		}
		next.Tracking = false
	}

	c, err := impl.search(e, size)
	if err != nil {
		return game.Coordinate{}, mem, err
	}
	return c, next, nil
}

// expand queues (x-1,y),(x,y),(x+1,y) then (x,y-1),(x,y),(x,y+1), skipping
// cells already queued, already fired at, or off the board.
func expand(m *Memory, origin game.Coordinate, hitLog *game.HitLog, size int) {
	candidates := make([]game.Coordinate, 0, 6)
	for dx := -1; dx <= 1; dx++ {
		candidates = append(candidates, game.Coordinate{X: origin.X + dx, Y: origin.Y})
	}
	for dy := -1; dy <= 1; dy++ {
		candidates = append(candidates, game.Coordinate{X: origin.X, Y: origin.Y + dy})
	}
	for _, c := range candidates {
		if !inBounds(c, size) || m.stacked(c) || hitLog.Has(c) {
			continue
		}
		m.Stack = append(m.Stack, c)
	}
}

// pop takes the most recently queued coordinate, discarding entries that
// were fired at after they were queued.
func pop(m *Memory, hitLog *game.HitLog) (game.Coordinate, bool) {
	for len(m.Stack) > 0 {
		top := m.Stack[len(m.Stack)-1]
		m.Stack = m.Stack[:len(m.Stack)-1]
		if !hitLog.Has(top) {
			return top, true
		}
	}
	return game.Coordinate{}, false
}

func inBounds(c game.Coordinate, size int) bool {
	return c.X >= 0 && c.X < size && c.Y >= 0 && c.Y < size
}

func (e *Engine) uniform(size int) (game.Coordinate, error) {
	return game.Coordinate{X: e.rng.Intn(size), Y: e.rng.Intn(size)}, nil
}

func (e *Engine) paritySearch(size int) (game.Coordinate, error) {
	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		c := game.Coordinate{X: e.rng.Intn(size), Y: e.rng.Intn(size)}
		if e.parity.Allows(c, size) {
			return c, nil
		}
	}
	return game.Coordinate{}, fmt.Errorf("%w after %d attempts", ErrSearchExhausted, e.maxAttempts)
}
