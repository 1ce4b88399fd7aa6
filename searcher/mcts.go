// Package searcher implements the decision engines: a perfect-information
// MCTS used as an oracle baseline, an information-set MCTS that samples
// hidden piece colors per iteration, and a plain greedy evaluator player.
package searcher

import (
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"github.com/chen941008/ISMCTS-4tuple/game"
)

// config carries the knobs shared by the search engines. Each engine reads
// the subset it understands.
type config struct {
	simulations  int
	pruneRedEats bool
	mode         game.SelectionMode
	rng          *rand.Rand
	metrics      Collector
}

type Option func(*config)

func WithSimulations(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.simulations = n
		}
	}
}

// WithCapturePruning makes MCTS skip expansion of moves that capture an
// opposing red piece. Feeding reds to the opponent brings them closer to
// their all-reds-captured win, but the filter can also hide a tactically
// necessary capture; it is off unless asked for.
func WithCapturePruning() Option {
	return func(c *config) {
		c.pruneRedEats = true
	}
}

// WithSelectionMode sets how greedy rollouts turn evaluator weights into a
// move choice. Only ISMCTS rollouts consult it.
func WithSelectionMode(mode game.SelectionMode) Option {
	return func(c *config) {
		c.mode = mode
	}
}

func WithRNG(rng *rand.Rand) Option {
	return func(c *config) {
		if rng != nil {
			c.rng = rng
		}
	}
}

func WithMetrics() Option {
	return func(c *config) {
		c.metrics = NewCollector()
	}
}

func defaultConfig() config {
	return config{
		simulations: 1000,
		mode:        game.Argmax,
		rng:         rand.New(rand.NewSource(uint64(rand.Int63()))),
		metrics:     NewDummyCollector(),
	}
}

// MCTS is a perfect-information Monte Carlo tree searcher. It sees the true
// colors of every piece, which makes it a useful oracle opponent for
// benchmarking but not a legal tournament player.
type MCTS struct {
	config
	tree tree
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{config: defaultConfig()}
	for _, option := range options {
		option(&m.config)
	}
	return m
}

// FindBestMove searches from the given state and returns the most visited
// root move. The tree is rebuilt from scratch on every call.
func (m *MCTS) FindBestMove(state *game.State) (game.Move, SearchMetrics, error) {
	m.tree.reset()
	m.metrics.Start()

	if state.IsTerminal() || len(state.LegalMoves()) == 0 {
		return game.NoMove, m.metrics.Complete(), game.ErrNoLegalMoves
	}

	for i := 0; i < m.simulations; i++ {
		sim := state.Clone()
		m.simulate(&sim)
		m.metrics.AddSimulation()
	}
	m.metrics.SetTreeNodes(len(m.tree.nodes))

	best := m.tree.robustChild(0)
	if best == -1 {
		return game.NoMove, m.metrics.Complete(), game.ErrNoLegalMoves
	}
	chosen := m.tree.at(best)
	log.Debug().
		Stringer("move", chosen.move).
		Int("visits", chosen.visits).
		Float64("mean", chosen.mean()).
		Msg("mcts move chosen")
	return chosen.move, m.metrics.Complete(), nil
}

// simulate runs one select/expand/rollout/backup iteration on a disposable
// copy of the root state.
func (m *MCTS) simulate(sim *game.State) {
	cur := m.selectLeaf(sim)

	if sim.IsTerminal() {
		m.tree.backup(cur, m.terminalScore(sim), true)
		return
	}

	m.expand(cur, sim)

	// Roll out from a uniformly random child of the leaf, not necessarily
	// the one UCB would favor. Rolling out a random sibling spreads the
	// first visits evenly across a fresh expansion.
	children := m.tree.at(cur).children
	if len(children) == 0 {
		// A side can wall in all of its own pieces.
		m.tree.backup(cur, m.rollout(sim), true)
		return
	}
	pick := children[m.rng.Intn(len(children))]
	sim.Apply(m.tree.at(pick).move)

	reward := m.rollout(sim)
	m.tree.backup(pick, reward, true)
}

// selectLeaf descends by UCB1 until a childless or terminal node, applying
// each chosen move to the simulation state.
func (m *MCTS) selectLeaf(sim *game.State) int32 {
	cur := int32(0)
	for len(m.tree.at(cur).children) > 0 && !sim.IsTerminal() {
		next := m.bestUCB(cur)
		cur = next
		sim.Apply(m.tree.at(cur).move)
	}
	return cur
}

// bestUCB returns the child maximizing UCB1, with unvisited children taking
// absolute priority.
func (m *MCTS) bestUCB(parent int32) int32 {
	p := m.tree.at(parent)
	best := p.children[0]
	bestValue := negInf
	for _, c := range p.children {
		child := m.tree.at(c)
		if child.visits == 0 {
			return c
		}
		v := child.mean() + Exploration*ucbExploration(p.visits, child.visits)
		if v > bestValue {
			bestValue = v
			best = c
		}
	}
	return best
}

// expand creates one child per legal move. With pruning on, red-feeding
// captures are filtered first; if that filters everything, the full move
// set is used so a live node never ends up childless.
func (m *MCTS) expand(parent int32, sim *game.State) {
	moves := sim.LegalMoves()
	if m.pruneRedEats {
		kept := make([]game.Move, 0, len(moves))
		for _, mv := range moves {
			if !m.eatsOpposingRed(sim, mv) {
				kept = append(kept, mv)
			}
		}
		if len(kept) > 0 {
			moves = kept
		}
	}
	for _, mv := range moves {
		m.tree.add(parent, mv)
	}
}

// eatsOpposingRed reports whether the move captures an opposing piece whose
// true color is red.
func (m *MCTS) eatsOpposingRed(s *game.State, mv game.Move) bool {
	piece := mv.Piece()
	src := s.PiecePos(piece)
	col, dir := src%game.Cols, mv.Dir()
	if (col == 0 && dir == game.West) || (col == game.Cols-1 && dir == game.East) {
		return false // escape move, no destination cell
	}
	victim := s.PieceAt(src + dir.Offset())
	if victim == -1 || game.PieceOwner(victim) == game.PieceOwner(piece) {
		return false
	}
	c := s.PieceColor(victim)
	return c == game.Red || c == -game.Red
}

// rollout plays uniformly random moves until the game decides itself or the
// depth cap trips, scoring from the enemy side's fixed perspective.
func (m *MCTS) rollout(sim *game.State) float64 {
	depth := 0
	for !sim.IsTerminal() && depth < rolloutCap {
		moves := sim.LegalMoves()
		if len(moves) == 0 {
			break
		}
		sim.Apply(moves[m.rng.Intn(len(moves))])
		depth++
	}
	if !sim.IsTerminal() {
		return 0
	}
	m.metrics.AddFullPlayout()
	return m.terminalScore(sim)
}

func (m *MCTS) terminalScore(sim *game.State) float64 {
	if sim.Result().Won(game.EnemySide) {
		return Win
	}
	return Loss
}
