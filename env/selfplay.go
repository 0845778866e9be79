package env

import (
	"context"
	"fmt"
	"math/rand"

	"golang.org/x/sync/errgroup"
)

// Outcome is how a rollout ended.
type Outcome string

const (
	OutcomeCheckmate Outcome = "checkmate"
	OutcomeStalemate Outcome = "stalemate"
	OutcomeTruncated Outcome = "truncated"
)

// Episode summarises one finished rollout.
type Episode struct {
	Game    int      `json:"game"`
	Plies   int      `json:"plies"`
	Outcome Outcome  `json:"outcome"`
	Reward  float64  `json:"reward"`
	FEN     string   `json:"fen"`
	Moves   []string `json:"moves,omitempty"`
}

// SelfPlayConfig controls RunSelfPlay.
type SelfPlayConfig struct {
	Env     Config `json:"env"`
	Games   int    `json:"games"`
	Workers int    `json:"workers"`
	Seed    int64  `json:"seed"`
	// Book, when set, overrides Env.FEN: game i starts from Book[i%len(Book)].
	Book []string `json:"book,omitempty"`
	// KeepMoves records the UCI moves of every episode.
	KeepMoves bool `json:"keep_moves"`
}

// Rollout plays e to the end choosing uniformly among the legal actions.
// The env must have a MaxSteps bound or the game may run for a long time.
func Rollout(ctx context.Context, e *Env, rng *rand.Rand, keepMoves bool) (Episode, error) {
	var ep Episode
	if _, err := e.Reset(); err != nil {
		return ep, err
	}
	var last StepResult
	for !e.Done() {
		if err := ctx.Err(); err != nil {
			return ep, err
		}
		ids := e.LegalIDs()
		res, err := e.Step(ids[rng.Intn(len(ids))])
		if err != nil {
			return ep, err
		}
		last = res
		if keepMoves {
			ep.Moves = append(ep.Moves, res.Info.LastMove)
		}
	}
	ep.Plies = last.Observation.Ply
	ep.Reward = last.Reward
	ep.FEN = e.FEN()
	info := e.Info()
	switch {
	case info.Checkmate:
		ep.Outcome = OutcomeCheckmate
	case info.Stalemate:
		ep.Outcome = OutcomeStalemate
	default:
		ep.Outcome = OutcomeTruncated
	}
	return ep, nil
}

// RunSelfPlay plays cfg.Games random games on cfg.Workers goroutines. Game i
// is seeded with cfg.Seed+i so results do not depend on scheduling.
func RunSelfPlay(ctx context.Context, cfg SelfPlayConfig) ([]Episode, error) {
	if cfg.Games <= 0 {
		return nil, nil
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	episodes := make([]Episode, cfg.Games)
	jobs := make(chan int)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < cfg.Games; i++ {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	for w := 0; w < cfg.Workers; w++ {
		g.Go(func() error {
			e, err := New(cfg.Env)
			if err != nil {
				return err
			}
			for i := range jobs {
				if len(cfg.Book) > 0 {
					ecfg := cfg.Env
					ecfg.FEN = cfg.Book[i%len(cfg.Book)]
					if e, err = New(ecfg); err != nil {
						return fmt.Errorf("game %d: %w", i, err)
					}
				}
				rng := rand.New(rand.NewSource(cfg.Seed + int64(i)))
				ep, err := Rollout(ctx, e, rng, cfg.KeepMoves)
				if err != nil {
					return fmt.Errorf("game %d: %w", i, err)
				}
				ep.Game = i
				episodes[i] = ep
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return episodes, nil
}
