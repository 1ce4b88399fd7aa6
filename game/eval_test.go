package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// constWeights returns the same weight for every lookup.
type constWeights float64

func (c constWeights) Weight(Table, int, int) float64 { return float64(c) }

// spyWeights records every lookup it serves.
type spyWeights struct {
	tables   map[Table]int
	tuples   map[int]int
	features []int
}

func newSpyWeights() *spyWeights {
	return &spyWeights{tables: map[Table]int{}, tuples: map[int]int{}}
}

func (s *spyWeights) Weight(t Table, tuple, feature int) float64 {
	s.tables[t]++
	s.tuples[tuple]++
	s.features = append(s.features, feature)
	return 0
}

func TestTupleEnumeration(t *testing.T) {
	t.Run("counting pattern instances per shape", func(t *testing.T) {
		var counts [3]int
		for base := 0; base < Cells; base++ {
			for shape := 0; shape < 3; shape++ {
				if validPattern(base, shape) {
					counts[shape]++
				}
			}
		}
		require.Equal(t, 18, counts[0], "18 horizontal 1x4 runs")
		require.Equal(t, 18, counts[1], "18 vertical 4x1 runs")
		require.Equal(t, 25, counts[2], "25 2x2 squares")
	})

	t.Run("resolving packed locations to tuple ids", func(t *testing.T) {
		// First tuple: the horizontal run on cells 0,1,2,3.
		loc := 0*36*36*36 + 1*36*36 + 2*36 + 3
		id, ok := TupleByLocation(loc)
		require.True(t, ok, "Known pattern location must resolve")
		require.Equal(t, 1, id, "The first enumerated tuple has id 1")

		_, ok = TupleByLocation(12345)
		require.False(t, ok, "Arbitrary key is not a pattern")
	})
}

func TestBoardScore(t *testing.T) {
	t.Run("averaging a constant table", func(t *testing.T) {
		s, err := ParseSnapshot(
			"14R24R34R44R15B25B35B45B" +
				"41u31u21u11u40u30u20u10u")
		require.NoError(t, err)

		require.InDelta(t, 0.5, s.BoardScore(constWeights(0.5)), 1e-9,
			"Mean of 61 identical weights is the weight")
		require.Zero(t, s.BoardScore(constWeights(0)),
			"All-zero table scores zero")
	})

	t.Run("touching every tuple exactly once", func(t *testing.T) {
		var s State
		s.Initialize(testRNG())
		spy := newSpyWeights()

		s.BoardScore(spy)

		require.Len(t, spy.tuples, TupleCount, "All 61 tuples consulted")
		for id := 1; id <= TupleCount; id++ {
			require.Equal(t, 1, spy.tuples[id], "Tuple consulted once")
		}
		for _, f := range spy.features {
			require.GreaterOrEqual(t, f, 0)
			require.Less(t, f, FeatureCount)
		}
	})

	t.Run("observing mover-relative cell values", func(t *testing.T) {
		var s State
		s.Initialize(testRNG())
		var fc featureCache

		s.fillFeatures(&fc)
		for p := 0; p < PerSide; p++ {
			cell := s.PiecePos(p)
			require.Equal(t, int(s.PieceColor(p)), fc[cell],
				"Own pieces keep their color code for the user")
		}
		for p := PerSide; p < NumPieces; p++ {
			require.Equal(t, int(Unknown), fc[s.PiecePos(p)],
				"Opponent pieces all collapse to the unknown value")
		}

		s.turn = EnemySide
		s.fillFeatures(&fc)
		for p := 0; p < PerSide; p++ {
			require.Equal(t, int(Unknown), fc[s.PiecePos(p)],
				"User pieces collapse to unknown for the enemy")
		}
		for p := PerSide; p < NumPieces; p++ {
			require.Equal(t, int(-s.PieceColor(p)), fc[s.PiecePos(p)],
				"Enemy pieces flip to positive own codes")
		}
	})
}

func TestWeightTable(t *testing.T) {
	base := func(alive string) State {
		s, err := ParseSnapshot(alive)
		require.NoError(t, err)
		return s
	}

	t.Run("choosing the base table in the midgame", func(t *testing.T) {
		s := base("14R24R34R44R15B25B35B45B" +
			"41u31u21u11u40u30u20u10u")
		require.Equal(t, UserBase, s.weightTable())

		s.turn = EnemySide
		require.Equal(t, EnemyBase, s.weightTable())
	})

	t.Run("switching to the R1 table at one opposing red", func(t *testing.T) {
		s := base("14R24R34R44R15B25B35B45B" +
			"99r99r99r11u40u30u20u10u")
		require.Equal(t, UserR1, s.weightTable())
	})

	t.Run("switching to the B1 table at one own blue", func(t *testing.T) {
		s := base("14R24R34R44R99b99b99b45B" +
			"41u31u21u11u40u30u20u10u")
		require.Equal(t, UserB1, s.weightTable())
	})

	t.Run("preferring R1 over B1 when both trigger", func(t *testing.T) {
		s := base("14R24R34R44R99b99b99b45B" +
			"99r99r99r11u40u30u20u10u")
		require.Equal(t, UserR1, s.weightTable())
	})

	t.Run("mirroring the rules for the enemy", func(t *testing.T) {
		s := base("99r99r99r44R15B25B35B45B" +
			"41u31u21u11u40u30u20u10u")
		s.turn = EnemySide
		require.Equal(t, EnemyR1, s.weightTable())

		s = base("14R24R34R44R15B25B35B45B" +
			"41u31u21u11u40u99b99b99b")
		s.turn = EnemySide
		require.Equal(t, EnemyB1, s.weightTable())
	})
}
