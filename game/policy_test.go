package game

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func testRNG() *rand.Rand { return rand.New(rand.NewSource(42)) }

// zeroSource pins every draw to the bottom of the RNG's range.
type zeroSource struct{}

func (zeroSource) Uint64() uint64 { return 0 }
func (zeroSource) Seed(uint64)    {}

func TestPickIndex(t *testing.T) {
	t.Run("picking the maximum under argmax", func(t *testing.T) {
		w := []float64{0.2, 0.9, 0.5}
		require.Equal(t, 1, pickIndex(w, Argmax, testRNG()))
	})

	t.Run("skipping NaN weights", func(t *testing.T) {
		w := []float64{math.NaN(), 0.3, math.NaN()}
		for trial := 0; trial < 20; trial++ {
			require.Equal(t, 1, pickIndex(w, Argmax, testRNG()),
				"NaN must never win")
		}
	})

	t.Run("breaking argmax ties uniformly", func(t *testing.T) {
		rng := testRNG()
		w := []float64{0.7, 0.1, 0.7}
		seen := map[int]int{}
		for trial := 0; trial < 400; trial++ {
			seen[pickIndex(w, Argmax, rng)]++
		}
		require.Zero(t, seen[1], "Non-maximal index must never win")
		require.Greater(t, seen[0], 100, "Both maxima should be sampled")
		require.Greater(t, seen[2], 100, "Both maxima should be sampled")
	})

	t.Run("sampling proportionally under linear weighting", func(t *testing.T) {
		rng := testRNG()
		w := []float64{1.0, 3.0}
		seen := map[int]int{}
		for trial := 0; trial < 1000; trial++ {
			seen[pickIndex(w, LinearWeighted, rng)]++
		}
		require.Greater(t, seen[0], 150, "The light move keeps its quarter of the mass")
		require.Greater(t, seen[1], 2*seen[0], "The heavy move wins about three times as often")
	})

	t.Run("shifting only negative weights", func(t *testing.T) {
		rng := testRNG()
		w := []float64{-1.0, 0.0, 3.0}
		seen := map[int]int{}
		for trial := 0; trial < 1000; trial++ {
			seen[pickIndex(w, LinearWeighted, rng)]++
		}
		require.Zero(t, seen[0], "A negative minimum shifts to zero mass")
		require.Greater(t, seen[2], seen[1], "Heavier weight wins more often")
	})

	t.Run("falling back to argmax when no mass remains", func(t *testing.T) {
		rng := testRNG()
		w := []float64{0.0, 0.0}
		seen := map[int]int{}
		for trial := 0; trial < 200; trial++ {
			seen[pickIndex(w, LinearWeighted, rng)]++
		}
		require.Greater(t, seen[0], 0, "Zero total mass degrades to a uniform argmax tie")
		require.Greater(t, seen[1], 0, "Zero total mass degrades to a uniform argmax tie")
	})

	t.Run("never selecting a zero-mass candidate on a zero draw", func(t *testing.T) {
		rng := rand.New(zeroSource{})
		w := []float64{math.NaN(), 1.0}
		require.Equal(t, 1, pickIndex(w, LinearWeighted, rng))
		require.Equal(t, 1, pickIndex(w, Softmax, rng))
	})

	t.Run("favoring the maximum under softmax", func(t *testing.T) {
		rng := testRNG()
		w := []float64{0.0, 5.0}
		seen := map[int]int{}
		for trial := 0; trial < 500; trial++ {
			seen[pickIndex(w, Softmax, rng)]++
		}
		require.Greater(t, seen[1], 450, "The hot move dominates at temperature 1")
	})
}

func TestAssignCorners(t *testing.T) {
	t.Run("tasking the nearest pieces in the opening", func(t *testing.T) {
		var s State
		s.Initialize(testRNG())

		assigned := s.assignCorners()

		require.Equal(t, 2, assigned[4], "Piece E at 31 is one step from corner 30")
		require.Equal(t, 3, assigned[7], "Piece H at 34 is one step from corner 35")
		require.Equal(t, 0, assigned[0], "Piece A takes the far west corner")
		require.Equal(t, 1, assigned[3], "Piece D takes the far east corner")

		tasked := 0
		for _, c := range assigned {
			if c != -1 {
				tasked++
			}
		}
		require.Equal(t, 4, tasked, "Exactly one piece per corner")
	})

	t.Run("skipping captured pieces", func(t *testing.T) {
		s := snapshotState(t,
			"99b14R34R44R15B25B35B45B"+
				"41u31u21u11u40u30u20u10u")

		assigned := s.assignCorners()
		require.Equal(t, -1, assigned[0], "Captured piece gets no task")
	})
}

func TestBestByWeight(t *testing.T) {
	t.Run("returning nothing at a dead position", func(t *testing.T) {
		var s State
		s.plies = DrawPlies
		for i := range s.pieceAt {
			s.pieceAt[i] = -1
		}
		for p := range s.pos {
			s.pos[p] = -1
		}

		_, ok := s.BestByWeight(constWeights(0.5), Argmax, testRNG())
		require.False(t, ok, "No legal moves, no pick")
	})

	t.Run("forcing the immediate escape", func(t *testing.T) {
		s := snapshotState(t,
			"00B10B20B30B01R11R21R31R"+
				"15u25u35u45u05u14u24u34u")

		m, ok := s.BestByWeight(constWeights(0.5), Argmax, testRNG())
		require.True(t, ok)
		require.Equal(t, NewMove(0, West), m,
			"An escape outweighs every evaluated move")
	})

	t.Run("forcing the safe step onto an open exit", func(t *testing.T) {
		// Blue on cell 4, cell 5 empty, cell 11 not an enemy.
		s := snapshotState(t,
			"40B12B20B30B01R11R21R31R"+
				"15u25u35u45u05u14u24u34u")

		m, ok := s.BestByWeight(constWeights(0.5), Argmax, testRNG())
		require.True(t, ok)
		require.Equal(t, NewMove(0, East), m,
			"Stepping onto an uncontested exit is forced")
	})

	t.Run("picking a legal move under every mode", func(t *testing.T) {
		var s State
		s.Initialize(testRNG())
		legal := s.LegalMoves()

		for _, mode := range []SelectionMode{Argmax, LinearWeighted, Softmax} {
			m, ok := s.BestByWeight(constWeights(0.5), mode, testRNG())
			require.True(t, ok)
			require.Contains(t, legal, m, "Pick must be legal under mode %s", mode)
		}
	})

	t.Run("leaving the state untouched", func(t *testing.T) {
		var s State
		s.Initialize(testRNG())
		before := s.Clone()

		_, ok := s.BestByWeight(constWeights(0.5), Argmax, testRNG())
		require.True(t, ok)
		require.Equal(t, before, s, "Scoring must not mutate the real state")
	})
}
