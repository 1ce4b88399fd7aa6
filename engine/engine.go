// Package engine connects the search algorithms to a running game: an
// Agent keeps one side's view of the true state in sync with a protocol
// server, and a Match drives full self-play games between two searchers.
package engine

import (
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"

	"github.com/chen941008/ISMCTS-4tuple/game"
	"github.com/chen941008/ISMCTS-4tuple/searcher"
)

// Searcher picks a move for the side to move in the given state.
type Searcher interface {
	FindBestMove(*game.State) (game.Move, searcher.SearchMetrics, error)
}

// Agent owns one side's authoritative state. A protocol layer feeds it
// board snapshots and opponent moves; NextMove runs the search and applies
// the answer locally so the state stays consistent.
type Agent struct {
	state  game.State
	search Searcher
	logger zerolog.Logger
}

func NewAgent(search Searcher, logger zerolog.Logger) *Agent {
	return &Agent{search: search, logger: logger}
}

// Reset deals a fresh opening position.
func (a *Agent) Reset(rng *rand.Rand) {
	a.state.Initialize(rng)
}

// Sync replaces the agent's state with the one encoded in a wire snapshot.
func (a *Agent) Sync(snapshot string) error {
	s, err := game.ParseSnapshot(snapshot)
	if err != nil {
		return err
	}
	a.state = s
	a.logger.Debug().Str("snapshot", snapshot).Msg("state synchronized")
	return nil
}

// State exposes the agent's current view, mainly for tests and logging.
func (a *Agent) State() *game.State { return &a.state }

// NextMove searches the current state, applies the chosen move, and
// returns it as a (piece, direction) pair for the protocol layer.
func (a *Agent) NextMove() (piece int, dir game.Direction, err error) {
	mv, metrics, err := a.search.FindBestMove(&a.state)
	if err != nil {
		return 0, 0, err
	}
	a.state.Apply(mv)
	a.logger.Info().
		Stringer("move", mv).
		Dur("took", metrics.Duration).
		Int("simulations", metrics.Simulations).
		Msg("move played")
	return mv.Piece(), mv.Dir(), nil
}

// ApplyOpponent records a move reported for the other side, validating it
// against the current legal move set first.
func (a *Agent) ApplyOpponent(piece int, dir game.Direction) error {
	mv := game.NewMove(piece, dir)
	legal := false
	for _, m := range a.state.LegalMoves() {
		if m == mv {
			legal = true
			break
		}
	}
	if !legal {
		return fmt.Errorf("engine: opponent move %s is not legal here", mv)
	}
	a.state.Apply(mv)
	return nil
}
