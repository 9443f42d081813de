package session

import (
	"fmt"

	"github.com/krishanu7/battleship-ai/internal/game"
	"github.com/krishanu7/battleship-ai/internal/targeting"
)

// Autoplay lets one automated attacker fire at board until fleet is
// defeated and returns how many shots it took.
func Autoplay(e *targeting.Engine, strategy targeting.Strategy, board *game.Board, fleet game.Fleet, maxResample int) (int, error) {
	a := &Attacker{Strategy: strategy, Shots: game.NewHitLog()}
	limit := board.Size() * board.Size()
	for !fleet.Defeated() {
		if a.Shots.Len() >= limit {
			return a.Shots.Len(), fmt.Errorf("fleet survived %d shots", limit)
		}
		if _, err := a.Fire(e, board, fleet, maxResample); err != nil {
			return a.Shots.Len(), err
		}
	}
	return a.Shots.Len(), nil
}
