package game

import "fmt"

// Move packs a half-move into a single integer:
//
//	bits 0-3   direction
//	bits 4-7   piece id
//	bits 8-11  captured piece id, valid only when bit 12 is clear
//	bit  12    set when the move captured nothing
//	bit  13    set when the victim was already revealed before the capture
//
// Apply fills in the capture bits so that Undo can reverse the move exactly.
type Move int32

// NoMove is the sentinel for "no move available" (terminal position, failed
// search, root node).
const NoMove Move = -1

const (
	moveNoCapture      Move = 1 << 12
	moveVictimRevealed Move = 1 << 13
)

// NewMove encodes a bare (piece, direction) pair with no capture info.
func NewMove(piece int, dir Direction) Move {
	return Move(piece)<<4 | Move(dir)
}

// Piece returns the id of the piece being moved.
func (m Move) Piece() int { return int(m>>4) & 0xf }

// Dir returns the direction of the move.
func (m Move) Dir() Direction { return Direction(m & 0xf) }

// Captured returns the id of the captured piece, if any. It is only
// meaningful on moves enriched by Apply; a bare move reports a capture of
// piece 0.
func (m Move) Captured() (piece int, ok bool) {
	if m&moveNoCapture != 0 {
		return 0, false
	}
	return int(m>>8) & 0xf, true
}

// Bare strips the capture bits, leaving only the (piece, direction) pair.
// Moves compare equal after Bare regardless of what they captured when
// applied.
func (m Move) Bare() Move {
	if m < 0 {
		return m
	}
	return m & 0xff
}

func (m Move) String() string {
	if m == NoMove {
		return "none"
	}
	return fmt.Sprintf("%c,%s", PieceLetter(m.Piece()), m.Dir())
}
