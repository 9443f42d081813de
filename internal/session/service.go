package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/krishanu7/battleship-ai/internal/game"
	"github.com/krishanu7/battleship-ai/internal/metrics"
	"github.com/krishanu7/battleship-ai/internal/targeting"
)

// Recorder stores the result of a finished game.
type Recorder interface {
	RecordResult(ctx context.Context, winnerID, loserID string) error
}

// Publisher broadcasts game events, such as Event, to interested players.
type Publisher interface {
	Publish(ctx context.Context, event any) error
}

type Event struct {
	Type   string `json:"type"`
	GameID string `json:"gameId"`
	Player string `json:"player"`
	Status Status `json:"status,omitempty"`
}

type Options struct {
	BoardSize   int
	Roster      game.Roster
	Strategy    targeting.Strategy
	ParityRule  targeting.ParityRule
	MaxAttempts int
	Seed        int64
}

type Service struct {
	store     Store
	recorder  Recorder
	publisher Publisher
	opts      Options

	// engine and placer share one random source
	rngMu  sync.Mutex
	engine *targeting.Engine
	placer *game.Placer

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewService(store Store, recorder Recorder, publisher Publisher, opts Options) *Service {
	if opts.BoardSize == 0 {
		opts.BoardSize = game.DefaultBoardSize
	}
	if opts.Roster == nil {
		opts.Roster = game.DefaultRoster()
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = targeting.DefaultMaxAttempts
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(opts.Seed))
	return &Service{
		store:     store,
		recorder:  recorder,
		publisher: publisher,
		opts:      opts,
		engine:    targeting.NewEngine(rng, targeting.WithMaxAttempts(opts.MaxAttempts), targeting.WithParityRule(opts.ParityRule)),
		placer:    game.NewPlacer(rng, opts.MaxAttempts),
		locks:     make(map[string]*sync.Mutex),
	}
}

type NewGameRequest struct {
	Strategy  string      `json:"strategy"`
	Placement string      `json:"placement"`
	Layout    game.Layout `json:"layout,omitempty"`
}

func AIPlayerID(s targeting.Strategy) string {
	return "ai:" + s.String()
}

// NewGame seats both fleets and stores a fresh session. The AI fleet is
// always placed at random.
func (s *Service) NewGame(ctx context.Context, playerID string, req NewGameRequest) (*Session, error) {
	strategy := s.opts.Strategy
	if req.Strategy != "" {
		parsed, err := targeting.ParseStrategy(req.Strategy)
		if err != nil {
			return nil, err
		}
		strategy = parsed
	}
	policy := game.PolicyRandom
	if req.Placement != "" {
		parsed, err := game.ParsePolicy(req.Placement)
		if err != nil {
			return nil, err
		}
		policy = parsed
	}

	playerBoard, err := s.seat(policy, req.Layout)
	if err != nil {
		return nil, err
	}
	aiBoard, err := s.seat(game.PolicyRandom, nil)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sess := &Session{
		ID:        uuid.NewString(),
		PlayerID:  playerID,
		BoardSize: s.opts.BoardSize,
		Roster:    s.opts.Roster,
		Status:    StatusActive,
		Player:    Side{Board: playerBoard, Fleet: s.opts.Roster.Fleet(), Shots: game.NewHitLog()},
		AI:        Side{Board: aiBoard, Fleet: s.opts.Roster.Fleet(), Shots: game.NewHitLog()},
		Opponent:  Attacker{Strategy: strategy},
		CreatedAt: now,
		UpdatedAt: now,
	}
	sess.bind()

	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	metrics.GamesStarted.WithLabelValues(strategy.String()).Inc()
	log.Printf("Started game %s for player %s against %s (%s placement)", sess.ID, playerID, strategy, policy)
	return sess, nil
}

func (s *Service) seat(policy game.Policy, layout game.Layout) (*game.Board, error) {
	b, err := game.NewBoard(s.opts.BoardSize)
	if err != nil {
		return nil, err
	}
	s.rngMu.Lock()
	err = s.placer.Place(b, s.opts.Roster, policy, layout)
	s.rngMu.Unlock()
	if err != nil {
		metrics.PlacementFailures.WithLabelValues(policy.String()).Inc()
		return nil, err
	}
	return b, nil
}

// ValidateLayout checks a directed layout against the configured roster
// without starting a game.
func (s *Service) ValidateLayout(layout game.Layout) error {
	_, err := s.seat(game.PolicyDirected, layout)
	return err
}

func (s *Service) lock(id string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	mu, ok := s.locks[id]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[id] = mu
	}
	return mu
}

// forget drops the lock of a game that will take no more turns. A caller
// still waiting on the old mutex only ever sees the finished state.
func (s *Service) forget(id string) {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	delete(s.locks, id)
}

func (s *Service) Get(ctx context.Context, gameID, playerID string) (*Session, error) {
	sess, err := s.store.Load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if sess.PlayerID != playerID {
		return nil, ErrNotYourGame
	}
	return sess, nil
}

// Attack plays one turn: the player's shot followed by the AI's reply.
func (s *Service) Attack(ctx context.Context, gameID, playerID, coordinate string) (*TurnResult, error) {
	mu := s.lock(gameID)
	mu.Lock()
	defer mu.Unlock()

	sess, err := s.Get(ctx, gameID, playerID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			s.forget(gameID)
		}
		return nil, err
	}
	if sess.Finished() {
		s.forget(gameID)
		return nil, ErrGameOver
	}
	c, err := game.ParseCoordinate(coordinate, sess.BoardSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutOfBounds, err)
	}

	s.rngMu.Lock()
	res, err := sess.PlayerAttack(c, s.engine, s.opts.MaxAttempts)
	s.rngMu.Unlock()
	if err != nil {
		return nil, err
	}
	metrics.ObserveShot("player", res.Player.Outcome.Hit)
	if res.AI != nil {
		metrics.ObserveShot(AIPlayerID(sess.Opponent.Strategy), res.AI.Outcome.Hit)
	}
	sess.UpdatedAt = time.Now().UTC()

	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	log.Printf("Player %s attacked %s in game %s: hit=%t", playerID, res.Player.Label, gameID, res.Player.Outcome.Hit)

	if sess.Finished() {
		s.finish(ctx, sess)
		s.forget(gameID)
	}
	return res, nil
}

// finish records the result and announces it. Failures are logged: the
// game state is already saved.
func (s *Service) finish(ctx context.Context, sess *Session) {
	strategy := sess.Opponent.Strategy
	metrics.GamesFinished.WithLabelValues(strategy.String(), string(sess.Status)).Inc()
	metrics.GameLength.WithLabelValues(strategy.String()).Observe(float64(sess.Turn))

	winner, loser := sess.PlayerID, AIPlayerID(strategy)
	if sess.Status == StatusAIWon {
		winner, loser = loser, winner
	}
	if s.recorder != nil {
		if err := s.recorder.RecordResult(ctx, winner, loser); err != nil {
			log.Printf("Failed to record result of game %s: %v", sess.ID, err)
		}
	}
	if s.publisher != nil {
		ev := Event{Type: "game_over", GameID: sess.ID, Player: sess.PlayerID, Status: sess.Status}
		if err := s.publisher.Publish(ctx, ev); err != nil {
			log.Printf("Failed to publish game_over for %s: %v", sess.ID, err)
		}
	}
	log.Printf("Game %s finished after %d turns: %s", sess.ID, sess.Turn, sess.Status)
}

// Abandon discards a session.
func (s *Service) Abandon(ctx context.Context, gameID, playerID string) error {
	mu := s.lock(gameID)
	mu.Lock()
	defer mu.Unlock()

	if _, err := s.Get(ctx, gameID, playerID); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			s.forget(gameID)
		}
		return err
	}
	if err := s.store.Delete(ctx, gameID); err != nil {
		return err
	}
	s.forget(gameID)
	log.Printf("Player %s abandoned game %s", playerID, gameID)
	return nil
}

// IsClientError reports whether err was caused by the request rather than
// by the server.
func IsClientError(err error) bool {
	for _, target := range []error{
		ErrGameOver, ErrAlreadyAttacked, ErrOutOfBounds,
		game.ErrInvalidShip, game.ErrUnknownPolicy, game.ErrNoPlacement,
		game.ErrNoValidDirection, game.ErrMissingAnchor, game.ErrUnknownShip,
		targeting.ErrUnknownStrategy,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
