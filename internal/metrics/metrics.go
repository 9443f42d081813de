package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ShotsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "battleship_shots_total",
		Help: "Shots resolved, by shooter and result",
	}, []string{"shooter", "result"})

	GamesStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "battleship_games_started_total",
		Help: "Games started, by AI strategy",
	}, []string{"strategy"})

	GamesFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "battleship_games_finished_total",
		Help: "Games finished, by AI strategy and status",
	}, []string{"strategy", "status"})

	GameLength = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "battleship_game_turns",
		Help:    "Turns taken by finished games",
		Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
	}, []string{"strategy"})

	PlacementFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "battleship_placement_failures_total",
		Help: "Fleet placements that could not be completed, by policy",
	}, []string{"policy"})
)

func result(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

func ObserveShot(shooter string, hit bool) {
	ShotsTotal.WithLabelValues(shooter, result(hit)).Inc()
}
