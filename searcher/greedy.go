package searcher

import (
	"github.com/chen941008/ISMCTS-4tuple/game"
)

// Greedy plays the evaluator's preferred move directly, with no lookahead.
// Useful as a fast baseline and for sanity-checking weight tables.
type Greedy struct {
	config
	weights game.WeightSource
}

func NewGreedy(weights game.WeightSource, options ...Option) *Greedy {
	g := &Greedy{config: defaultConfig(), weights: weights}
	for _, option := range options {
		option(&g.config)
	}
	return g
}

func (g *Greedy) FindBestMove(state *game.State) (game.Move, SearchMetrics, error) {
	g.metrics.Start()
	if state.IsTerminal() {
		return game.NoMove, g.metrics.Complete(), game.ErrNoLegalMoves
	}
	mv, ok := state.BestByWeight(g.weights, g.mode, g.rng)
	if !ok {
		return game.NoMove, g.metrics.Complete(), game.ErrNoLegalMoves
	}
	return mv, g.metrics.Complete(), nil
}
