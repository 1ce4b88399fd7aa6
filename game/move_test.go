package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMoveEncoding(t *testing.T) {
	t.Run("round-tripping piece and direction", func(t *testing.T) {
		for p := 0; p < NumPieces; p++ {
			for _, d := range []Direction{North, West, East, South} {
				m := NewMove(p, d)
				require.Equal(t, p, m.Piece(), "Move should decode its piece")
				require.Equal(t, d, m.Dir(), "Move should decode its direction")
				require.Equal(t, m, m.Bare(), "Fresh move should already be bare")
			}
		}
	})

	t.Run("recording a capture", func(t *testing.T) {
		m := NewMove(3, East) | Move(12)<<8

		victim, ok := m.Captured()
		require.True(t, ok, "Move should report a capture")
		require.Equal(t, 12, victim, "Move should decode the captured piece")
		require.Equal(t, NewMove(3, East), m.Bare(), "Bare should strip capture bits")
	})

	t.Run("preserving the victim's prior exposure", func(t *testing.T) {
		m := NewMove(3, East) | Move(12)<<8 | moveVictimRevealed

		victim, ok := m.Captured()
		require.True(t, ok)
		require.Equal(t, 12, victim)
		require.Equal(t, NewMove(3, East), m.Bare(), "Bare should strip the exposure bit")
	})

	t.Run("marking no capture explicitly", func(t *testing.T) {
		m := NewMove(0, North) | moveNoCapture

		_, ok := m.Captured()
		require.False(t, ok, "Flagged move should report no capture")
		require.Equal(t, NewMove(0, North), m.Bare(), "Bare should strip the flag")
	})

	t.Run("formatting for the wire", func(t *testing.T) {
		require.Equal(t, "A,NORTH", NewMove(0, North).String())
		require.Equal(t, "h,EAST", NewMove(15, East).String())
	})
}
