package searcher

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chen941008/ISMCTS-4tuple/game"
)

func TestTree(t *testing.T) {
	t.Run("resetting to a lone root", func(t *testing.T) {
		var tr tree
		tr.reset()
		tr.add(0, game.NewMove(0, game.North))
		tr.reset()

		require.Len(t, tr.nodes, 1, "Reset discards everything but the root")
		require.Equal(t, game.NoMove, tr.root().move, "Root carries the sentinel move")
		require.Equal(t, noParent, tr.root().parent)
		require.Empty(t, tr.root().children)
	})

	t.Run("linking children to their parent", func(t *testing.T) {
		var tr tree
		tr.reset()
		a := tr.add(0, game.NewMove(0, game.North))
		b := tr.add(0, game.NewMove(1, game.East))
		c := tr.add(a, game.NewMove(2, game.South))

		require.Equal(t, []int32{a, b}, tr.root().children)
		require.Equal(t, int32(0), tr.at(a).parent)
		require.Equal(t, a, tr.at(c).parent)
		require.Equal(t, b, tr.child(0, game.NewMove(1, game.East)))
		require.Equal(t, int32(-1), tr.child(0, game.NewMove(5, game.West)),
			"Unexpanded move resolves to no child")
	})

	t.Run("choosing the robust child in encounter order", func(t *testing.T) {
		var tr tree
		tr.reset()
		a := tr.add(0, game.NewMove(0, game.North))
		b := tr.add(0, game.NewMove(1, game.East))
		d := tr.add(0, game.NewMove(2, game.West))
		tr.at(a).visits = 3
		tr.at(b).visits = 5
		tr.at(d).visits = 5

		require.Equal(t, b, tr.robustChild(0),
			"Most visits wins, first encountered breaks the tie")
		require.Equal(t, int32(-1), tr.robustChild(d), "Leaf has no robust child")
	})
}

func TestTreeBackup(t *testing.T) {
	chain := func() (tree, int32) {
		var tr tree
		tr.reset()
		a := tr.add(0, game.NewMove(0, game.North))
		b := tr.add(a, game.NewMove(8, game.South))
		return tr, b
	}

	t.Run("alternating signs for mover-relative rewards", func(t *testing.T) {
		tr, leaf := chain()
		tr.backup(leaf, Win, true)

		require.Equal(t, Win, tr.at(leaf).rewards, "Leaf records the raw reward")
		require.Equal(t, Loss, tr.at(tr.at(leaf).parent).rewards,
			"One level up the sign flips")
		require.Equal(t, Win, tr.root().rewards, "Two levels up it flips back")
		for i := range tr.nodes {
			require.Equal(t, 1, tr.nodes[i].visits, "Every node on the path gains a visit")
		}
	})

	t.Run("propagating root-relative rewards unflipped", func(t *testing.T) {
		tr, leaf := chain()
		tr.backup(leaf, Win, false)

		require.Equal(t, Win, tr.at(leaf).rewards)
		require.Equal(t, Win, tr.at(tr.at(leaf).parent).rewards,
			"No sign alternation for root-relative rewards")
		require.Equal(t, Win, tr.root().rewards)
	})
}

func TestAvailability(t *testing.T) {
	t.Run("counting legal moves per visit", func(t *testing.T) {
		n := &node{}
		moves := []game.Move{game.NewMove(0, game.North), game.NewMove(1, game.East)}
		n.recordAvailable(moves)
		n.recordAvailable(moves[:1])

		require.Equal(t, 2, n.availability(moves[0]))
		require.Equal(t, 1, n.availability(moves[1]))
	})

	t.Run("defaulting to one for unseen moves", func(t *testing.T) {
		n := &node{}
		require.Equal(t, 1, n.availability(game.NewMove(3, game.West)),
			"Fallback avoids log of zero in the exploration term")
	})
}
