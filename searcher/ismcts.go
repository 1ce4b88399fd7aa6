package searcher

import (
	"math"
	"math/bits"

	"github.com/rs/zerolog/log"

	"github.com/chen941008/ISMCTS-4tuple/game"
)

// arrangementStat tracks how often a sampled hidden-color arrangement led
// to a root-side win within the current search.
type arrangementStat struct {
	wins  int
	total int
}

// ISMCTS is an information-set Monte Carlo tree searcher. Each iteration
// samples one concrete assignment of the opponent's hidden colors
// (a determinization), then runs select/expand/rollout/backup against the
// shared information-set tree. Because legal moves vary between
// determinizations, selection corrects the UCB exploration term with
// per-move availability counts instead of raw parent visits.
type ISMCTS struct {
	config
	owner   game.Side
	weights game.WeightSource
	tree    tree
	// arrangements maps a hidden-color assignment, keyed by the
	// concatenated color letters of the unrevealed pieces in id order, to
	// its win statistics. Rebuilt per findBestMove call; the second half
	// of the budget samples determinizations biased toward arrangements
	// that have been losing for the owner.
	arrangements map[string]*arrangementStat
}

// NewISMCTS builds a searcher playing for the given side, consulting the
// weight store during greedy rollout moves.
func NewISMCTS(owner game.Side, weights game.WeightSource, options ...Option) *ISMCTS {
	s := &ISMCTS{
		config:  defaultConfig(),
		owner:   owner,
		weights: weights,
	}
	for _, option := range options {
		option(&s.config)
	}
	return s
}

// FindBestMove searches from the given state and returns the most visited
// root move. The state's hidden opponent colors are never read directly;
// every iteration works on a determinized clone.
func (s *ISMCTS) FindBestMove(state *game.State) (game.Move, SearchMetrics, error) {
	s.tree.reset()
	s.arrangements = make(map[string]*arrangementStat)
	s.metrics.Start()

	if state.IsTerminal() || len(state.LegalMoves()) == 0 {
		return game.NoMove, s.metrics.Complete(), game.ErrNoLegalMoves
	}
	rootSide := state.Turn()

	for i := 0; i < s.simulations; i++ {
		sim := state.Clone()
		s.determinize(&sim, state, i)

		cur := s.selectPath(&sim)
		cur = s.expand(cur, &sim)

		reward := s.rollout(&sim, rootSide)
		s.recordArrangement(state, &sim, reward)
		s.tree.backup(cur, reward, false)
		s.metrics.AddSimulation()
	}
	s.metrics.SetTreeNodes(len(s.tree.nodes))

	best := s.tree.robustChild(0)
	if best == -1 {
		return game.NoMove, s.metrics.Complete(), game.ErrNoLegalMoves
	}
	chosen := s.tree.at(best)
	log.Debug().
		Stringer("move", chosen.move).
		Int("visits", chosen.visits).
		Float64("mean", chosen.mean()).
		Int("arrangements", len(s.arrangements)).
		Msg("ismcts move chosen")
	return chosen.move, s.metrics.Complete(), nil
}

// hiddenPieces lists the owner's opponent's unrevealed pieces in id order,
// along with how many of them must be red under the remaining counts.
func (s *ISMCTS) hiddenPieces(root *game.State) (pieces []int, redsLeft int) {
	lo, hi := game.PerSide, game.NumPieces
	if s.owner == game.EnemySide {
		lo, hi = 0, game.PerSide
	}
	redsLeft = 4
	for p := lo; p < hi; p++ {
		if root.Revealed(p) {
			if isRed(root.PieceColor(p)) {
				redsLeft--
			}
		} else {
			pieces = append(pieces, p)
		}
	}
	return pieces, redsLeft
}

func isRed(c int8) bool { return c == game.Red || c == -game.Red }

// determinize assigns concrete colors to the unrevealed opponent pieces on
// the simulation clone. The first half of the budget shuffles uniformly;
// the second half samples arrangements weighted by how badly each has gone
// for the root side so far, modeling an adversarial opponent.
func (s *ISMCTS) determinize(sim, root *game.State, iteration int) {
	pieces, redsLeft := s.hiddenPieces(root)
	if len(pieces) == 0 {
		return
	}
	red, blue := s.opponentColors()

	if iteration < s.simulations/2 {
		order := make([]int, len(pieces))
		copy(order, pieces)
		s.rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
		for i, p := range order {
			if i < redsLeft {
				sim.SetPieceColor(p, red)
			} else {
				sim.SetPieceColor(p, blue)
			}
		}
		return
	}

	// Enumerate every red/blue assignment consistent with the remaining
	// counts. Bit i set means pieces[i] is red.
	var masks []uint
	for mask := uint(0); mask < 1<<len(pieces); mask++ {
		if bits.OnesCount(mask) == redsLeft {
			masks = append(masks, mask)
		}
	}

	weights := make([]float64, len(masks))
	total := 0.0
	for i, mask := range masks {
		rate := 0.5
		if st, ok := s.arrangements[s.maskKey(mask, len(pieces))]; ok && st.total > 0 {
			rate = float64(st.wins) / float64(st.total)
		}
		weights[i] = 1 - rate + inferenceSlack
		total += weights[i]
	}

	pick := masks[len(masks)-1]
	x := s.rng.Float64() * total
	for i, w := range weights {
		x -= w
		if x <= 0 {
			pick = masks[i]
			break
		}
	}

	for i, p := range pieces {
		if pick&(1<<uint(i)) != 0 {
			sim.SetPieceColor(p, red)
		} else {
			sim.SetPieceColor(p, blue)
		}
	}
	s.metrics.AddWeightedDeterminization()
}

func (s *ISMCTS) opponentColors() (red, blue int8) {
	if s.owner == game.UserSide {
		return -game.Red, -game.Blue
	}
	return game.Red, game.Blue
}

func (s *ISMCTS) maskKey(mask uint, n int) string {
	key := make([]byte, n)
	for i := 0; i < n; i++ {
		if mask&(1<<uint(i)) != 0 {
			key[i] = 'R'
		} else {
			key[i] = 'B'
		}
	}
	return string(key)
}

// selectPath descends while the current node is fully expanded relative to
// this determinization's legal moves, recording move availability at every
// level. It stops at a node with unexpanded legal moves, or at a terminal
// state.
func (s *ISMCTS) selectPath(sim *game.State) int32 {
	cur := int32(0)
	for !sim.IsTerminal() {
		moves := sim.LegalMoves()
		if len(moves) == 0 {
			break
		}
		s.tree.at(cur).recordAvailable(moves)

		next := int32(-1)
		candidates := make([]int32, 0, len(moves))
		for _, mv := range moves {
			c := s.tree.child(cur, mv)
			if c == -1 {
				return cur // unexpanded move: hand off to expansion
			}
			candidates = append(candidates, c)
		}

		// Zero-visit candidates take priority, uniformly at random.
		unvisited := candidates[:0:0]
		for _, c := range candidates {
			if s.tree.at(c).visits == 0 {
				unvisited = append(unvisited, c)
			}
		}
		if len(unvisited) > 0 {
			next = unvisited[s.rng.Intn(len(unvisited))]
		} else {
			bestValue := negInf
			parent := s.tree.at(cur)
			for _, c := range candidates {
				child := s.tree.at(c)
				avail := parent.availability(child.move)
				v := child.mean() + Exploration*ucbExploration(avail, child.visits)
				if v > bestValue {
					bestValue = v
					next = c
				}
			}
		}

		cur = next
		sim.Apply(s.tree.at(cur).move)
	}
	return cur
}

// expand adds one child for a uniformly random unexpanded legal move and
// steps the simulation into it. At a terminal handoff it returns the node
// unchanged.
func (s *ISMCTS) expand(cur int32, sim *game.State) int32 {
	if sim.IsTerminal() {
		return cur
	}
	moves := sim.LegalMoves()
	fresh := make([]game.Move, 0, len(moves))
	for _, mv := range moves {
		if s.tree.child(cur, mv) == -1 {
			fresh = append(fresh, mv)
		}
	}
	if len(fresh) == 0 {
		return cur
	}
	mv := fresh[s.rng.Intn(len(fresh))]
	child := s.tree.add(cur, mv)
	sim.Apply(mv)
	return child
}

// rollout plays the determinized state to the horizon. The owner plays the
// greedy evaluator move with probability 1-epsilon, everything else is
// uniformly random; epsilon decays linearly from 1 to its floor across the
// horizon. The reward is fixed to the root side's perspective, with an
// undecided horizon scored 0.
func (s *ISMCTS) rollout(sim *game.State, rootSide game.Side) float64 {
	step := 0
	for !sim.IsTerminal() && step < rolloutHorizon {
		moves := sim.LegalMoves()
		if len(moves) == 0 {
			break
		}
		epsilon := math.Max(epsilonFloor, 1-float64(step)/rolloutHorizon)

		mv := moves[s.rng.Intn(len(moves))]
		if sim.Turn() == s.owner && s.rng.Float64() >= epsilon {
			if greedy, ok := sim.BestByWeight(s.weights, s.mode, s.rng); ok {
				mv = greedy
			}
		}
		sim.Apply(mv)
		step++
	}

	if !sim.IsTerminal() {
		return 0
	}
	s.metrics.AddFullPlayout()
	if sim.Result().Won(rootSide) {
		return Win
	}
	return Loss
}

// recordArrangement feeds this iteration's sampled hidden-color assignment
// and outcome back into the inference table.
func (s *ISMCTS) recordArrangement(root, sim *game.State, reward float64) {
	pieces, _ := s.hiddenPieces(root)
	if len(pieces) == 0 {
		return
	}
	key := make([]byte, len(pieces))
	for i, p := range pieces {
		if isRed(sim.PieceColor(p)) {
			key[i] = 'R'
		} else {
			key[i] = 'B'
		}
	}
	st := s.arrangements[string(key)]
	if st == nil {
		st = &arrangementStat{}
		s.arrangements[string(key)] = st
	}
	st.total++
	if reward > 0 {
		st.wins++
	}
}
