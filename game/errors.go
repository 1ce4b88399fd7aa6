package game

import (
	"errors"
	"fmt"
)

// Errors callers are expected to handle as part of normal control flow.
var (
	// ErrNoHistory is returned by Undo when there is nothing to undo.
	ErrNoHistory = errors.New("game: no move history to undo")

	// ErrEscapeUndo is returned by Undo when the last move was an escape
	// win. Escape moves never mutate the board, end the game immediately,
	// and are not reversible.
	ErrEscapeUndo = errors.New("game: escape wins cannot be undone")

	// ErrNoLegalMoves reports a move request against an already-decided
	// position.
	ErrNoLegalMoves = errors.New("game: no legal moves, game already decided")
)

// InvariantError is the panic value raised when the state machine reaches a
// combination that legal play cannot produce, such as a capture resolving to
// an impossible color or the history stack overflowing its hard cap. These
// are programming errors, not game outcomes.
type InvariantError struct {
	Op     string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("game: invariant violated in %s: %s", e.Op, e.Detail)
}

func invariant(op, format string, args ...any) {
	panic(&InvariantError{Op: op, Detail: fmt.Sprintf(format, args...)})
}
