package leaderboard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/krishanu7/battleship-ai/db"
)

const (
	kFactor    = 32
	initialElo = 1500
)

type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

type LeaderboardEntry struct {
	PlayerID  string `json:"player_id"`
	Username  string `json:"username"`
	Wins      int    `json:"wins"`
	Losses    int    `json:"losses"`
	Elo       int    `json:"elo"`
	UpdatedAt string `json:"updated_at"`
}

func (s *Service) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.player_id, COALESCE(u.username, s.player_id), s.wins, s.losses, s.elo, s.updated_at
		FROM stats s
		LEFT JOIN users u ON s.player_id = u.id
		ORDER BY s.elo DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leaderboard := []LeaderboardEntry{}
	for rows.Next() {
		var entry LeaderboardEntry
		if err := rows.Scan(&entry.PlayerID, &entry.Username, &entry.Wins, &entry.Losses, &entry.Elo, &entry.UpdatedAt); err != nil {
			return nil, err
		}
		leaderboard = append(leaderboard, entry)
	}
	return leaderboard, rows.Err()
}

// EloUpdate returns the ratings after winner beats loser.
func EloUpdate(winner, loser int) (int, int) {
	expectedWinner := 1 / (1 + math.Pow(10, float64(loser-winner)/400))
	expectedLoser := 1 / (1 + math.Pow(10, float64(winner-loser)/400))
	newWinner := winner + int(float64(kFactor)*(1-expectedWinner))
	newLoser := loser + int(float64(kFactor)*(0-expectedLoser))
	return newWinner, newLoser
}

// RecordResult applies one game's outcome to both players' stats.
func (s *Service) RecordResult(ctx context.Context, winnerID, loserID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin stats update: %w", err)
	}
	defer tx.Rollback()

	winner, err := loadStats(ctx, tx, winnerID)
	if err != nil {
		return fmt.Errorf("failed to get winner stats: %w", err)
	}
	loser, err := loadStats(ctx, tx, loserID)
	if err != nil {
		return fmt.Errorf("failed to get loser stats: %w", err)
	}

	newWinnerElo, newLoserElo := EloUpdate(winner.Elo, loser.Elo)
	if err := saveStats(ctx, tx, winnerID, winner.Wins+1, winner.Losses, newWinnerElo); err != nil {
		return fmt.Errorf("failed to update winner stats: %w", err)
	}
	if err := saveStats(ctx, tx, loserID, loser.Wins, loser.Losses+1, newLoserElo); err != nil {
		return fmt.Errorf("failed to update loser stats: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit stats update: %w", err)
	}
	log.Printf("Updated stats: %s (wins=%d, elo=%d), %s (losses=%d, elo=%d)",
		winnerID, winner.Wins+1, newWinnerElo, loserID, loser.Losses+1, newLoserElo)
	return nil
}

func loadStats(ctx context.Context, tx *sql.Tx, playerID string) (db.PlayerStats, error) {
	var st db.PlayerStats
	err := tx.QueryRowContext(ctx, "SELECT player_id, wins, losses, elo FROM stats WHERE player_id = $1 FOR UPDATE", playerID).
		Scan(&st.PlayerID, &st.Wins, &st.Losses, &st.Elo)
	if errors.Is(err, sql.ErrNoRows) {
		return db.PlayerStats{PlayerID: playerID, Elo: initialElo}, nil
	}
	return st, err
}

func saveStats(ctx context.Context, tx *sql.Tx, playerID string, wins, losses, elo int) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO stats (player_id, wins, losses, elo, updated_at) VALUES ($1, $2, $3, $4, now()) ON CONFLICT (player_id) DO UPDATE SET wins = $2, losses = $3, elo = $4, updated_at = now()",
		playerID, wins, losses, elo,
	)
	return err
}
