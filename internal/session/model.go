package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/krishanu7/battleship-ai/internal/game"
	"github.com/krishanu7/battleship-ai/internal/targeting"
)

var (
	ErrSessionNotFound   = errors.New("game not found")
	ErrGameOver          = errors.New("game is over")
	ErrAlreadyAttacked   = errors.New("coordinate already attacked")
	ErrOutOfBounds       = errors.New("coordinate out of bounds")
	ErrNotYourGame       = errors.New("game belongs to another player")
	ErrResampleExhausted = errors.New("no fresh coordinate found")
)

type Status string

const (
	StatusActive    Status = "active"
	StatusPlayerWon Status = "player_won"
	StatusAIWon     Status = "ai_won"
)

// Side is one player's board, remaining fleet and the shots it has fired.
type Side struct {
	Board *game.Board  `json:"board"`
	Fleet game.Fleet   `json:"fleet"`
	Shots *game.HitLog `json:"shots"`
}

// Attacker is an automated side: its strategy, its memory and its hit log.
type Attacker struct {
	Strategy targeting.Strategy `json:"strategy"`
	Memory   targeting.Memory   `json:"memory"`
	Shots    *game.HitLog       `json:"-"`
}

// Shot is one resolved attack.
type Shot struct {
	Coordinate game.Coordinate `json:"coordinate"`
	Label      string          `json:"label"`
	Outcome    game.Outcome    `json:"outcome"`
}

// Fire asks the engine for a coordinate not yet in the hit log, resolves
// it against target and feeds the outcome back into memory.
func (a *Attacker) Fire(e *targeting.Engine, target *game.Board, fleet game.Fleet, maxResample int) (Shot, error) {
	if a.Shots == nil {
		a.Shots = game.NewHitLog()
	}
	mem := a.Memory
	for attempt := 0; attempt < maxResample; attempt++ {
		c, next, err := e.NextAttack(a.Strategy, mem, a.Shots, target.Size())
		if err != nil {
			return Shot{}, err
		}
		mem = next
		if a.Shots.Has(c) {
			continue
		}
		out := game.Strike(c, target, fleet)
		a.Shots.Add(c)
		mem.Record(c, out.Hit)
		a.Memory = mem
		return Shot{Coordinate: c, Label: game.FormatCoordinate(c), Outcome: out}, nil
	}
	return Shot{}, fmt.Errorf("%w after %d attempts", ErrResampleExhausted, maxResample)
}

// Session is the explicit state of one human-versus-AI game.
type Session struct {
	ID        string      `json:"id"`
	PlayerID  string      `json:"player_id"`
	BoardSize int         `json:"board_size"`
	Roster    game.Roster `json:"roster"`
	Status    Status      `json:"status"`
	Turn      int         `json:"turn"`
	Player    Side        `json:"player"`
	AI        Side        `json:"ai"`
	Opponent  Attacker    `json:"opponent"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// TurnResult is what one player turn produced.
type TurnResult struct {
	Player Shot   `json:"player"`
	AI     *Shot  `json:"ai,omitempty"`
	Status Status `json:"status"`
	Turn   int    `json:"turn"`
}

func (s *Session) Finished() bool {
	return s.Status != StatusActive
}

// bind points the opponent at the AI side's hit log after a load.
func (s *Session) bind() {
	if s.AI.Shots == nil {
		s.AI.Shots = game.NewHitLog()
	}
	if s.Player.Shots == nil {
		s.Player.Shots = game.NewHitLog()
	}
	s.Opponent.Shots = s.AI.Shots
}

// PlayerAttack resolves the player's shot on the AI board and, if the AI
// still has ships, the AI's reply on the player board.
func (s *Session) PlayerAttack(c game.Coordinate, e *targeting.Engine, maxResample int) (*TurnResult, error) {
	if s.Finished() {
		return nil, ErrGameOver
	}
	s.bind()
	if !s.AI.Board.InBounds(c) {
		return nil, fmt.Errorf("%w: %s", ErrOutOfBounds, c)
	}
	if s.Player.Shots.Has(c) {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyAttacked, game.FormatCoordinate(c))
	}

	s.Turn++
	res := &TurnResult{
		Player: Shot{Coordinate: c, Label: game.FormatCoordinate(c), Outcome: game.Strike(c, s.AI.Board, s.AI.Fleet)},
	}
	s.Player.Shots.Add(c)

	if s.AI.Fleet.Defeated() {
		s.Status = StatusPlayerWon
	} else {
		shot, err := s.Opponent.Fire(e, s.Player.Board, s.Player.Fleet, maxResample)
		if err != nil {
			return nil, fmt.Errorf("ai turn: %w", err)
		}
		res.AI = &shot
		if s.Player.Fleet.Defeated() {
			s.Status = StatusAIWon
		}
	}
	res.Status = s.Status
	res.Turn = s.Turn
	return res, nil
}

// View is the session as the human player may see it: their own board in
// full and only the shots they fired at the AI board.
type View struct {
	ID        string             `json:"id"`
	Status    Status             `json:"status"`
	Turn      int                `json:"turn"`
	BoardSize int                `json:"board_size"`
	Strategy  targeting.Strategy `json:"strategy"`
	Board     [][]string         `json:"board"`
	Fleet     game.Fleet         `json:"fleet"`
	Afloat    []string           `json:"enemy_afloat"`
	Shots     []game.Coordinate  `json:"shots"`
	Incoming  []game.Coordinate  `json:"incoming"`
}

func (s *Session) View() View {
	s.bind()
	return View{
		ID:        s.ID,
		Status:    s.Status,
		Turn:      s.Turn,
		BoardSize: s.BoardSize,
		Strategy:  s.Opponent.Strategy,
		Board:     s.Player.Board.Cells(),
		Fleet:     s.Player.Fleet,
		Afloat:    s.AI.Fleet.Afloat(s.Roster),
		Shots:     s.Player.Shots.Shots(),
		Incoming:  s.AI.Shots.Shots(),
	}
}
