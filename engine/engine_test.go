package engine

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/chen941008/ISMCTS-4tuple/game"
	"github.com/chen941008/ISMCTS-4tuple/searcher"
	"github.com/chen941008/ISMCTS-4tuple/weights"
)

func testRNG() *rand.Rand { return rand.New(rand.NewSource(3)) }

func greedySearcher() Searcher {
	return searcher.NewGreedy(weights.NewStore(zerolog.Nop()), searcher.WithRNG(testRNG()))
}

func TestAgentSync(t *testing.T) {
	t.Run("adopting a wire snapshot", func(t *testing.T) {
		snapshot := "14R24R34R44R15B25B35B45B" +
			"41u31u21u11u40u30u20u10u"
		want, err := game.ParseSnapshot(snapshot)
		require.NoError(t, err)

		a := NewAgent(greedySearcher(), zerolog.Nop())
		require.NoError(t, a.Sync(snapshot))
		require.Equal(t, want, *a.State())
	})

	t.Run("rejecting a malformed snapshot", func(t *testing.T) {
		a := NewAgent(greedySearcher(), zerolog.Nop())
		require.Error(t, a.Sync("garbage"))
	})
}

func TestAgentNextMove(t *testing.T) {
	t.Run("searching, applying and reporting the move", func(t *testing.T) {
		a := NewAgent(greedySearcher(), zerolog.Nop())
		a.Reset(testRNG())
		legal := a.State().LegalMoves()

		piece, dir, err := a.NextMove()

		require.NoError(t, err)
		require.Contains(t, legal, game.NewMove(piece, dir),
			"Reported pair must be one of the legal moves")
		require.Equal(t, 1, a.State().Plies(), "The move is applied locally")
		require.Equal(t, game.EnemySide, a.State().Turn())
	})

	t.Run("reporting a decided game", func(t *testing.T) {
		a := NewAgent(greedySearcher(), zerolog.Nop())
		require.NoError(t, a.Sync(
			"00B10B20B30B01R11R21R31R"+
				"15u25u35u45u99b99b99b99b"))

		_, _, err := a.NextMove()
		require.ErrorIs(t, err, game.ErrNoLegalMoves)
	})
}

func TestAgentApplyOpponent(t *testing.T) {
	a := NewAgent(greedySearcher(), zerolog.Nop())
	a.Reset(testRNG())
	_, _, err := a.NextMove()
	require.NoError(t, err)

	t.Run("rejecting an illegal report", func(t *testing.T) {
		require.Error(t, a.ApplyOpponent(8, game.North),
			"Piece 8 is blocked northward by its own back row")
	})

	t.Run("applying a legal report", func(t *testing.T) {
		mv := a.State().LegalMoves()[0]
		require.NoError(t, a.ApplyOpponent(mv.Piece(), mv.Dir()))
		require.Equal(t, 2, a.State().Plies())
		require.Equal(t, game.UserSide, a.State().Turn())
	})
}

func TestMatchRun(t *testing.T) {
	m := NewMatch(greedySearcher(), greedySearcher())
	record, moves := m.Run(testRNG())

	require.NotEqual(t, game.ResultNone, record.Result, "A match always resolves")
	require.Equal(t, record.Plies, len(moves))
	require.NotEmpty(t, moves)
	for i, mr := range moves {
		require.Equal(t, i, mr.Ply)
		require.Equal(t, game.Side(i%2), mr.Side, "Sides alternate from the user")
	}
}
