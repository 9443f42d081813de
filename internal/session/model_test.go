package session

import (
	"math/rand"
	"testing"

	"github.com/krishanu7/battleship-ai/internal/game"
	"github.com/krishanu7/battleship-ai/internal/targeting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var destroyerOnly = game.Roster{{Name: "Destroyer", Length: 2}}

// newTestSession seats the roster deterministically on both boards, so
// ship i sits on row i from column 0.
func newTestSession(t *testing.T, size int, roster game.Roster, strategy targeting.Strategy) *Session {
	t.Helper()
	placer := game.NewPlacer(rand.New(rand.NewSource(1)), 100)
	seat := func() *game.Board {
		b, err := game.NewBoard(size)
		require.NoError(t, err)
		require.NoError(t, placer.Place(b, roster, game.PolicyDeterministic, nil))
		return b
	}
	s := &Session{
		ID:        "test-game",
		PlayerID:  "player-1",
		BoardSize: size,
		Roster:    roster,
		Status:    StatusActive,
		Player:    Side{Board: seat(), Fleet: roster.Fleet()},
		AI:        Side{Board: seat(), Fleet: roster.Fleet()},
		Opponent:  Attacker{Strategy: strategy},
	}
	s.bind()
	return s
}

func testEngine(seed int64) *targeting.Engine {
	return targeting.NewEngine(rand.New(rand.NewSource(seed)))
}

func TestPlayerAttackTurn(t *testing.T) {
	s := newTestSession(t, 4, destroyerOnly, targeting.Random)
	e := testEngine(3)

	res, err := s.PlayerAttack(game.Coordinate{X: 0, Y: 0}, e, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Turn)
	assert.Equal(t, StatusActive, res.Status)
	assert.Equal(t, "A1", res.Player.Label)
	assert.Equal(t, game.Outcome{Hit: true, Ship: "Destroyer"}, res.Player.Outcome)
	assert.Equal(t, 1, s.AI.Fleet["Destroyer"])

	require.NotNil(t, res.AI, "the AI replies while it has ships")
	assert.True(t, s.AI.Shots.Has(res.AI.Coordinate))
	assert.Equal(t, 1, s.AI.Shots.Len())
	assert.Same(t, s.AI.Shots, s.Opponent.Shots)
}

func TestPlayerAttackRejections(t *testing.T) {
	s := newTestSession(t, 4, destroyerOnly, targeting.Random)
	e := testEngine(5)

	_, err := s.PlayerAttack(game.Coordinate{X: 3, Y: 3}, e, 100)
	require.NoError(t, err)

	_, err = s.PlayerAttack(game.Coordinate{X: 3, Y: 3}, e, 100)
	assert.ErrorIs(t, err, ErrAlreadyAttacked)

	_, err = s.PlayerAttack(game.Coordinate{X: 4, Y: 0}, e, 100)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	_, err = s.PlayerAttack(game.Coordinate{X: 0, Y: -1}, e, 100)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	assert.Equal(t, 1, s.Turn, "rejected shots do not take a turn")
	assert.Equal(t, 1, s.Player.Shots.Len())
	assert.Equal(t, 1, s.AI.Shots.Len())
}

func TestPlayerWins(t *testing.T) {
	s := newTestSession(t, 4, destroyerOnly, targeting.HuntAndTarget)
	e := testEngine(11)

	_, err := s.PlayerAttack(game.Coordinate{X: 0, Y: 0}, e, 100)
	require.NoError(t, err)
	res, err := s.PlayerAttack(game.Coordinate{X: 1, Y: 0}, e, 100)
	require.NoError(t, err)

	assert.True(t, res.Player.Outcome.Sunk)
	assert.Equal(t, StatusPlayerWon, res.Status)
	assert.Nil(t, res.AI, "the AI does not fire once its fleet is gone")
	assert.Equal(t, 1, s.AI.Shots.Len())
	assert.True(t, s.Finished())

	_, err = s.PlayerAttack(game.Coordinate{X: 2, Y: 2}, e, 100)
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestAIWins(t *testing.T) {
	// The player only fires at empty water, so each game ends with the AI
	// sinking the destroyer unless the player runs out of misses first.
	var misses []game.Coordinate
	for y := 1; y < 3; y++ {
		for x := 0; x < 3; x++ {
			misses = append(misses, game.Coordinate{X: x, Y: y})
		}
	}
	misses = append(misses, game.Coordinate{X: 2, Y: 0})

	aiWon := 0
	for seed := int64(1); seed <= 20; seed++ {
		s := newTestSession(t, 3, destroyerOnly, targeting.Random)
		e := testEngine(seed)
		for _, c := range misses {
			res, err := s.PlayerAttack(c, e, 1000)
			require.NoError(t, err)
			assert.False(t, res.Player.Outcome.Hit)
			if res.Status == StatusAIWon {
				break
			}
		}
		if s.Status == StatusAIWon {
			aiWon++
			assert.True(t, s.Player.Fleet.Defeated())
			assert.False(t, s.AI.Fleet.Defeated())
			assert.Equal(t, s.Turn, s.AI.Shots.Len())
		}
	}
	assert.Positive(t, aiWon)
}

func TestFireNeverRepeats(t *testing.T) {
	b, err := game.NewBoard(5)
	require.NoError(t, err)
	a := &Attacker{Strategy: targeting.Random}
	e := testEngine(9)

	for i := 0; i < 25; i++ {
		shot, err := a.Fire(e, b, game.Fleet{}, 10000)
		require.NoError(t, err)
		assert.Equal(t, game.FormatCoordinate(shot.Coordinate), shot.Label)
	}
	assert.Equal(t, 25, a.Shots.Len())

	_, err = a.Fire(e, b, game.Fleet{}, 50)
	assert.ErrorIs(t, err, ErrResampleExhausted)
	assert.Equal(t, 25, a.Shots.Len())
}

func TestFireTracksAfterHit(t *testing.T) {
	b, err := game.NewBoard(10)
	require.NoError(t, err)
	a := &Attacker{Strategy: targeting.HuntAndTarget}
	e := testEngine(2)

	// Fire until something is hit, then every following shot comes from
	// the neighbours of that hit while the stack lasts.
	roster := game.Roster{{Name: "Battleship", Length: 4}}
	require.NoError(t, game.NewPlacer(rand.New(rand.NewSource(4)), 100).Place(b, roster, game.PolicyRandom, nil))
	fleet := roster.Fleet()

	var hit game.Coordinate
	for {
		shot, err := a.Fire(e, b, fleet, 10000)
		require.NoError(t, err)
		if shot.Outcome.Hit {
			hit = shot.Coordinate
			break
		}
	}
	assert.Equal(t, targeting.Tracking, a.Memory.State())

	next, err := a.Fire(e, b, fleet, 10000)
	require.NoError(t, err)
	dist := abs(next.Coordinate.X-hit.X) + abs(next.Coordinate.Y-hit.Y)
	assert.Equal(t, 1, dist, "the shot after a hit is adjacent to it")
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func TestViewHidesAIBoard(t *testing.T) {
	s := newTestSession(t, 4, destroyerOnly, targeting.Parity)
	_, err := s.PlayerAttack(game.Coordinate{X: 0, Y: 0}, testEngine(1), 100)
	require.NoError(t, err)

	v := s.View()
	assert.Equal(t, s.ID, v.ID)
	assert.Equal(t, targeting.Parity, v.Strategy)
	assert.Equal(t, []game.Coordinate{{X: 0, Y: 0}}, v.Shots)
	assert.Len(t, v.Incoming, 1)
	assert.Equal(t, []string{"Destroyer"}, v.Afloat)
	assert.Equal(t, s.Player.Board.Cells(), v.Board)
}
