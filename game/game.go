// Package game implements the board state, move engine, and N-tuple
// positional evaluator for a 6x6 two-player hidden-piece game. Each side
// owns 8 pieces, secretly colored Red or Blue; a piece's color becomes
// public only when it is captured or exposed by the wire protocol.
package game

// Board geometry and game rules.
const (
	Rows  = 6
	Cols  = 6
	Cells = Rows * Cols

	PerSide   = 8
	NumPieces = PerSide * 2

	MaxMoves   = 32   // upper bound on legal moves in a single turn
	MaxHistory = 1000 // hard cap on the move history stack
	DrawPlies  = 200  // plies at which the game is declared drawn
)

// Color codes as stored on the board and in the piece table. Enemy pieces
// carry the negated code. Unknown marks a piece whose color is hidden.
const (
	Empty   int8 = 0
	Red     int8 = 1
	Blue    int8 = 2
	Unknown int8 = 3
)

// Remaining-piece buckets, one per (owner, color) pair.
const (
	bucketUserRed = iota
	bucketUserBlue
	bucketEnemyRed
	bucketEnemyBlue
)

// Side identifies one of the two players. UserSide is the side this engine
// plays for when talking to a game server.
type Side int8

const (
	UserSide  Side = 0
	EnemySide Side = 1
)

// Opponent returns the other side.
func (s Side) Opponent() Side { return s ^ 1 }

func (s Side) String() string {
	if s == UserSide {
		return "user"
	}
	return "enemy"
}

// Result is the outcome of a game.
type Result int8

const (
	ResultNone  Result = -1
	ResultDraw  Result = -2
	ResultUser  Result = Result(UserSide)
	ResultEnemy Result = Result(EnemySide)
)

func (r Result) String() string {
	switch r {
	case ResultUser:
		return "user"
	case ResultEnemy:
		return "enemy"
	case ResultDraw:
		return "draw"
	default:
		return "none"
	}
}

// Won reports whether side s is the winner under this result.
func (r Result) Won(s Side) bool { return r == Result(s) }

// Direction is one orthogonal step. The board is indexed row-major from the
// top-left, so North moves toward the user's opponent.
type Direction int8

const (
	North Direction = iota
	West
	East
	South
)

// dirOffset maps a direction to its cell-index delta.
var dirOffset = [4]int8{-Cols, -1, 1, Cols}

// Offset returns the cell-index delta of one step in this direction.
func (d Direction) Offset() int { return int(dirOffset[d]) }

func (d Direction) String() string {
	switch d {
	case North:
		return "NORTH"
	case West:
		return "WEST"
	case East:
		return "EAST"
	case South:
		return "SOUTH"
	default:
		return "UNKNOWN"
	}
}

// Exit cells. A Blue piece standing on one of its own side's exit cells may
// leave the board, winning immediately. The matching escape direction points
// off the board through the corner.
const (
	userExitWest  = 0
	userExitEast  = 5
	enemyExitWest = 30
	enemyExitEast = 35
)

// PieceOwner returns the side owning piece id p.
func PieceOwner(p int) Side {
	if p < PerSide {
		return UserSide
	}
	return EnemySide
}

// PieceLetter returns the protocol letter for a piece id: 'A'..'H' for the
// user's pieces, 'a'..'h' for the enemy's.
func PieceLetter(p int) byte {
	if p < PerSide {
		return byte('A' + p)
	}
	return byte('a' + p - PerSide)
}

func abs8(v int8) int8 {
	if v < 0 {
		return -v
	}
	return v
}
