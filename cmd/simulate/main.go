package main

import (
	"log"
	"os"
	"time"

	"github.com/krishanu7/battleship-ai/config"
	"github.com/krishanu7/battleship-ai/internal/game"
	"github.com/krishanu7/battleship-ai/internal/targeting"
	"github.com/spf13/cobra"
)

var (
	games       int
	boardSize   int
	fleetFile   string
	strategy    string
	parityRule  string
	seed        int64
	maxAttempts int
)

var rootCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Play the AI against randomly placed fleets and report shots per game",
	RunE: func(cmd *cobra.Command, args []string) error {
		roster, err := config.LoadFleet(fleetFile)
		if err != nil {
			return err
		}
		rule, err := targeting.ParseParityRule(parityRule)
		if err != nil {
			return err
		}
		strategies := targeting.Strategies()
		if strategy != "" && strategy != "all" {
			s, err := targeting.ParseStrategy(strategy)
			if err != nil {
				return err
			}
			strategies = []targeting.Strategy{s}
		}
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		log.Printf("Simulating %d games per strategy on a %dx%d board (seed %d)", games, boardSize, boardSize, seed)

		reports, err := Run(cmd.Context(), Options{
			Games:       games,
			BoardSize:   boardSize,
			Roster:      roster,
			Strategies:  strategies,
			ParityRule:  rule,
			Seed:        seed,
			MaxAttempts: maxAttempts,
		})
		if err != nil {
			return err
		}
		return Print(cmd.OutOrStdout(), reports)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().IntVarP(&games, "games", "n", 100, "Games to play per strategy")
	rootCmd.Flags().IntVar(&boardSize, "size", game.DefaultBoardSize, "Board width and height")
	rootCmd.Flags().StringVar(&fleetFile, "fleet", "", "YAML fleet file (default roster when empty)")
	rootCmd.Flags().StringVarP(&strategy, "strategy", "s", "all", "random, hunt-and-target, parity or all")
	rootCmd.Flags().StringVar(&parityRule, "parity-rule", "legacy", "legacy or checkerboard")
	rootCmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (time based when 0)")
	rootCmd.Flags().IntVar(&maxAttempts, "max-attempts", game.DefaultMaxAttempts, "Attempt bound for placement and search")
}
