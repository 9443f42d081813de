package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"text/tabwriter"

	"github.com/krishanu7/battleship-ai/internal/game"
	"github.com/krishanu7/battleship-ai/internal/session"
	"github.com/krishanu7/battleship-ai/internal/targeting"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	Games       int
	BoardSize   int
	Roster      game.Roster
	Strategies  []targeting.Strategy
	ParityRule  targeting.ParityRule
	Seed        int64
	MaxAttempts int
}

// Report summarises the shots one strategy needed to sink a fleet.
type Report struct {
	Strategy targeting.Strategy
	Games    int
	Min      int
	Max      int
	Mean     float64
}

// Run plays opts.Games games per strategy. Strategies run concurrently,
// each with its own random sources, and every strategy faces the same
// sequence of layouts.
func Run(ctx context.Context, opts Options) ([]Report, error) {
	if opts.Games < 1 {
		return nil, fmt.Errorf("games must be positive, got %d", opts.Games)
	}
	if opts.Roster.Cells() > opts.BoardSize*opts.BoardSize {
		return nil, fmt.Errorf("fleet needs %d cells, board has %d", opts.Roster.Cells(), opts.BoardSize*opts.BoardSize)
	}

	reports := make([]Report, len(opts.Strategies))
	g, gCtx := errgroup.WithContext(ctx)
	for i, s := range opts.Strategies {
		g.Go(func() error {
			r, err := play(gCtx, opts, s)
			if err != nil {
				return err
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func play(ctx context.Context, opts Options, s targeting.Strategy) (Report, error) {
	placer := game.NewPlacer(rand.New(rand.NewSource(opts.Seed)), opts.MaxAttempts)
	engine := targeting.NewEngine(rand.New(rand.NewSource(opts.Seed+1)),
		targeting.WithMaxAttempts(opts.MaxAttempts), targeting.WithParityRule(opts.ParityRule))

	r := Report{Strategy: s, Games: opts.Games}
	total := 0
	for i := 0; i < opts.Games; i++ {
		if err := ctx.Err(); err != nil {
			return r, err
		}
		b, err := game.NewBoard(opts.BoardSize)
		if err != nil {
			return r, err
		}
		if err := placer.Place(b, opts.Roster, game.PolicyRandom, nil); err != nil {
			return r, fmt.Errorf("game %d: %w", i+1, err)
		}
		shots, err := session.Autoplay(engine, s, b, opts.Roster.Fleet(), opts.MaxAttempts)
		if err != nil {
			return r, fmt.Errorf("%s game %d: %w", s, i+1, err)
		}
		total += shots
		if i == 0 || shots < r.Min {
			r.Min = shots
		}
		if shots > r.Max {
			r.Max = shots
		}
	}
	r.Mean = float64(total) / float64(opts.Games)
	return r, nil
}

func Print(w io.Writer, reports []Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STRATEGY\tGAMES\tMEAN\tMIN\tMAX")
	for _, r := range reports {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%d\t%d\n", r.Strategy, r.Games, r.Mean, r.Min, r.Max)
	}
	return tw.Flush()
}
