package searcher

import (
	"math"

	"github.com/chen941008/ISMCTS-4tuple/game"
)

var negInf = math.Inf(-1)

// ucbExploration is the shared sqrt(ln(n)/v) exploration factor. MCTS feeds
// it parent visits; ISMCTS feeds it the availability count instead.
func ucbExploration(n, v int) float64 {
	return math.Sqrt(math.Log(float64(n)) / float64(v))
}

// noParent marks the root's parent index.
const noParent int32 = -1

// node is one entry in the search tree arena. Statistics only; the tree
// structure lives in the parent/children indices, so teardown is a slice
// truncation rather than a pointer-chasing destructor.
type node struct {
	move    game.Move
	rewards float64
	visits  int
	// avail counts, per move, how often that move was legal here across
	// determinizations. Only ISMCTS reads or writes it.
	avail    map[game.Move]int
	parent   int32
	children []int32
}

func (n *node) mean() float64 {
	return n.rewards / float64(n.visits)
}

// availability returns how often a move was legal at this node, defaulting
// to 1 so the exploration term never takes log of zero.
func (n *node) availability(m game.Move) int {
	if c, ok := n.avail[m]; ok && c > 0 {
		return c
	}
	return 1
}

func (n *node) recordAvailable(moves []game.Move) {
	if n.avail == nil {
		n.avail = make(map[game.Move]int, game.MaxMoves)
	}
	for _, m := range moves {
		n.avail[m]++
	}
}

// tree is an arena of nodes, rebuilt for every findBestMove call. Index 0
// is always the root. add may grow the backing slice, so node pointers must
// not be held across calls to it.
type tree struct {
	nodes []node
}

func (t *tree) reset() {
	t.nodes = t.nodes[:0]
	t.nodes = append(t.nodes, node{move: game.NoMove, parent: noParent})
}

func (t *tree) root() *node { return &t.nodes[0] }

func (t *tree) at(i int32) *node { return &t.nodes[i] }

func (t *tree) add(parent int32, move game.Move) int32 {
	i := int32(len(t.nodes))
	t.nodes = append(t.nodes, node{move: move, parent: parent})
	t.nodes[parent].children = append(t.nodes[parent].children, i)
	return i
}

// child returns the index of the parent's child reached by move, or -1.
func (t *tree) child(parent int32, move game.Move) int32 {
	for _, c := range t.at(parent).children {
		if t.at(c).move == move {
			return c
		}
	}
	return -1
}

// robustChild returns the most visited child of a node, first encountered
// wins ties. Returns -1 when the node has no children.
func (t *tree) robustChild(parent int32) int32 {
	best := int32(-1)
	maxVisits := -1
	for _, c := range t.at(parent).children {
		if t.at(c).visits > maxVisits {
			maxVisits = t.at(c).visits
			best = c
		}
	}
	return best
}

// backup adds the reward and a visit from a node up to the root. When flip
// is set the reward sign alternates per level, for trees whose rewards are
// mover-relative; ISMCTS rewards are root-relative and propagate as-is.
func (t *tree) backup(from int32, reward float64, flip bool) {
	for i := from; i != noParent; i = t.at(i).parent {
		n := t.at(i)
		n.visits++
		n.rewards += reward
		if flip {
			reward = -reward
		}
	}
}
