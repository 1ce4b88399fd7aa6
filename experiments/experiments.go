// Package experiments benchmarks the decision engines against each other
// over batches of self-play games and persists the results as CSV.
package experiments

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"github.com/chen941008/ISMCTS-4tuple/engine"
	"github.com/chen941008/ISMCTS-4tuple/game"
	"github.com/chen941008/ISMCTS-4tuple/searcher"
)

// AgentKind selects which engine an AgentConfig builds.
type AgentKind string

const (
	KindISMCTS AgentKind = "ismcts"
	KindMCTS   AgentKind = "mcts"
	KindGreedy AgentKind = "greedy"
)

// AgentConfig describes one side of a matchup.
type AgentConfig struct {
	Kind           AgentKind
	Simulations    int
	Selection      game.SelectionMode
	CapturePruning bool
}

// build constructs a fresh searcher for one game, so no tree or inference
// state leaks between games.
func (c AgentConfig) build(side game.Side, ws game.WeightSource, seed uint64) (engine.Searcher, error) {
	rng := rand.New(rand.NewSource(seed))
	options := []searcher.Option{
		searcher.WithSimulations(c.Simulations),
		searcher.WithSelectionMode(c.Selection),
		searcher.WithRNG(rng),
		searcher.WithMetrics(),
	}
	if c.CapturePruning {
		options = append(options, searcher.WithCapturePruning())
	}
	switch c.Kind {
	case KindISMCTS:
		return searcher.NewISMCTS(side, ws, options...), nil
	case KindMCTS:
		return searcher.NewMCTS(options...), nil
	case KindGreedy:
		return searcher.NewGreedy(ws, options...), nil
	default:
		return nil, fmt.Errorf("experiments: unknown agent kind %q", c.Kind)
	}
}

// GameResult couples a finished game's summary with its per-move metrics.
type GameResult struct {
	ID int
	engine.GameRecord
	Moves []engine.MoveRecord
}

// Experiment runs a fixed matchup for a number of games. Games run in
// parallel up to the configured limit; each game is internally sequential.
type Experiment struct {
	Games    int
	Parallel int
	User     AgentConfig
	Enemy    AgentConfig
	Weights  game.WeightSource
	Seed     uint64
}

// Run plays out all games and returns their results ordered by game id.
func (e *Experiment) Run(ctx context.Context) ([]GameResult, error) {
	if e.Games <= 0 {
		return nil, fmt.Errorf("experiments: game count %d", e.Games)
	}
	parallel := e.Parallel
	if parallel <= 0 {
		parallel = 1
	}

	results := make([]GameResult, e.Games)
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i := 0; i < e.Games; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			// Distinct deterministic seeds per game and per role.
			base := e.Seed + uint64(i)*3
			user, err := e.User.build(game.UserSide, e.Weights, base+1)
			if err != nil {
				return err
			}
			enemy, err := e.Enemy.build(game.EnemySide, e.Weights, base+2)
			if err != nil {
				return err
			}

			match := engine.NewMatch(user, enemy)
			record, moves := match.Run(rand.New(rand.NewSource(base)))

			mu.Lock()
			results[i] = GameResult{ID: i, GameRecord: record, Moves: moves}
			mu.Unlock()
			log.Debug().Int("game", i).Stringer("result", record.Result).Msg("game finished")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// WinRate returns the fraction of games won by the given side.
func WinRate(results []GameResult, side game.Side) float64 {
	if len(results) == 0 {
		return 0
	}
	wins := 0
	for _, r := range results {
		if r.Result.Won(side) {
			wins++
		}
	}
	return float64(wins) / float64(len(results))
}
