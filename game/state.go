package game

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// startCells holds the fixed opening layout, indexed [side][piece-in-side].
// The user occupies the lower two center rows and pushes north, the enemy
// mirrors from the top.
var startCells = [2][PerSide]int8{
	{25, 26, 27, 28, 31, 32, 33, 34},
	{10, 9, 8, 7, 4, 3, 2, 1},
}

// State is a full snapshot of the game. It is a plain value: cloning is a
// struct copy and costs no per-cell allocation, so searches can take a
// disposable copy per iteration.
//
// Invariants maintained by Apply/Undo: every bucket count stays in [0,4];
// a piece's board cell and position entry agree; a cell's color code sign
// matches the owning side; every piece is either on the board or captured,
// never both.
type State struct {
	board    [Cells]int8     // color code per cell, 0 when empty
	pieceAt  [Cells]int8     // piece id per cell, -1 when empty
	pos      [NumPieces]int8 // cell index per piece, -1 when off the board
	color    [NumPieces]int8 // color code per piece
	counts   [4]int8         // remaining pieces per (owner, color) bucket
	revealed [NumPieces]bool // true once the color is public knowledge
	turn     Side
	result   Result
	escaped  bool
	plies    int16
	history  [MaxHistory]int32
}

// Initialize resets the state to the opening layout and secretly assigns
// each side's 4 Red pieces uniformly at random among its 8 starting pieces.
func (s *State) Initialize(rng *rand.Rand) {
	*s = State{turn: UserSide, result: ResultNone}
	for i := range s.pieceAt {
		s.pieceAt[i] = -1
	}
	for i := range s.counts {
		s.counts[i] = 4
	}
	for p := 0; p < PerSide; p++ {
		s.color[p] = Blue
		s.color[p+PerSide] = -Blue
	}
	assignReds(rng, s.color[:PerSide], Red)
	assignReds(rng, s.color[PerSide:], -Red)

	for side := 0; side < 2; side++ {
		for i := 0; i < PerSide; i++ {
			p := side*PerSide + i
			cell := startCells[side][i]
			s.board[cell] = s.color[p]
			s.pieceAt[cell] = int8(p)
			s.pos[p] = cell
		}
	}
}

// assignReds flips 4 of the 8 slots to red by rejection sampling without
// replacement.
func assignReds(rng *rand.Rand, colors []int8, red int8) {
	n := 0
	var taken [PerSide]bool
	for n < 4 {
		x := rng.Intn(PerSide)
		if !taken[x] {
			taken[x] = true
			colors[x] = red
			n++
		}
	}
}

// Clone returns an independent copy of the state.
func (s *State) Clone() State { return *s }

// Turn returns the side to move.
func (s *State) Turn() Side { return s.turn }

// Plies returns the number of half-moves played.
func (s *State) Plies() int { return int(s.plies) }

// Result returns the cached outcome. IsTerminal must have observed the
// terminal position for bucket wins and draws to be reflected here.
func (s *State) Result() Result { return s.result }

// Revealed reports whether the color of piece p is public.
func (s *State) Revealed(p int) bool { return s.revealed[p] }

// PieceColor returns the color code of piece p.
func (s *State) PieceColor(p int) int8 { return s.color[p] }

// PiecePos returns the cell of piece p, or -1 when it is off the board.
func (s *State) PiecePos(p int) int { return int(s.pos[p]) }

// PieceAt returns the piece id occupying a cell, or -1 when empty.
func (s *State) PieceAt(cell int) int { return int(s.pieceAt[cell]) }

// SetPieceColor overrides the color of piece p, keeping its board cell in
// sync. Determinization uses it to pin hidden pieces to concrete colors on
// a cloned state; it must not be called on the true game state.
func (s *State) SetPieceColor(p int, color int8) {
	s.color[p] = color
	if s.pos[p] >= 0 {
		s.board[s.pos[p]] = color
	}
}

// MaskOpponent hides the colors of the given side's opponent, replacing them
// with the Unknown code. The greedy policy masks a scratch clone this way so
// the evaluator cannot exploit oracle knowledge of hidden pieces.
func (s *State) MaskOpponent(mover Side) {
	if mover == UserSide {
		for p := PerSide; p < NumPieces; p++ {
			s.SetPieceColor(p, -Unknown)
		}
	} else {
		for p := 0; p < PerSide; p++ {
			s.SetPieceColor(p, Unknown)
		}
	}
}

// isEscapeSquare reports whether moving from cell loc in direction d walks
// off the board through an exit corner.
func isEscapeSquare(loc int, d Direction) bool {
	switch loc {
	case userExitWest, enemyExitWest:
		return d == West
	case userExitEast, enemyExitEast:
		return d == East
	}
	return false
}

// LegalMoves returns all legal moves for the side to move, in a stable
// generation order (per piece: North, South, West, East, then escapes).
func (s *State) LegalMoves() []Move {
	moves := make([]Move, 0, MaxMoves)
	offset := 0
	if s.turn == EnemySide {
		offset = PerSide
	}
	for i := 0; i < PerSide; i++ {
		p := offset + i
		if s.pos[p] != -1 {
			moves = s.appendPieceMoves(moves, p)
		}
	}
	return moves
}

func (s *State) appendPieceMoves(moves []Move, p int) []Move {
	loc := int(s.pos[p])
	row, col := loc/Cols, loc%Cols

	// A step is blocked only by a same-side piece; opposing pieces are
	// capture targets.
	open := func(cell int) bool {
		if s.turn == UserSide {
			return s.board[cell] <= 0
		}
		return s.board[cell] >= 0
	}

	if row != 0 && open(loc-Cols) {
		moves = append(moves, NewMove(p, North))
	}
	if row != Rows-1 && open(loc+Cols) {
		moves = append(moves, NewMove(p, South))
	}
	if col != 0 && open(loc-1) {
		moves = append(moves, NewMove(p, West))
	}
	if col != Cols-1 && open(loc+1) {
		moves = append(moves, NewMove(p, East))
	}

	// Escape moves: Blue only, from the mover's own exit cells.
	if s.turn == UserSide && s.color[p] == Blue {
		if loc == userExitWest {
			moves = append(moves, NewMove(p, West))
		}
		if loc == userExitEast {
			moves = append(moves, NewMove(p, East))
		}
	} else if s.turn == EnemySide && s.color[p] == -Blue {
		if loc == enemyExitWest {
			moves = append(moves, NewMove(p, West))
		}
		if loc == enemyExitEast {
			moves = append(moves, NewMove(p, East))
		}
	}
	return moves
}

// Apply executes a move. Captures are resolved, recorded into the move's
// capture bits, and pushed on the history stack so Undo can reverse the
// move exactly. An escape move by an eligible Blue piece wins immediately
// and short-circuits all board mutation.
//
// Apply panics with an InvariantError when the history cap is exceeded or a
// capture resolves to an impossible color; both are unreachable from legal
// play.
func (s *State) Apply(m Move) {
	piece := m.Piece()
	dir := m.Dir()

	if int(s.plies) == MaxHistory {
		invariant("Apply", "history capacity %d exceeded", MaxHistory)
	}

	if abs8(s.color[piece]) == Blue && isEscapeSquare(int(s.pos[piece]), dir) {
		s.result = Result(s.turn)
		s.escaped = true
		s.history[s.plies] = int32(m)
		s.plies++
		s.turn ^= 1
		return
	}

	src := int(s.pos[piece])
	dst := src + int(dirOffset[dir])

	if victim := s.pieceAt[dst]; victim >= 0 {
		s.pos[victim] = -1
		if s.revealed[victim] {
			m |= moveVictimRevealed
		}
		s.revealed[victim] = true
		m |= Move(victim) << 8
		switch s.color[victim] {
		case Red:
			s.counts[bucketUserRed]--
		case Blue:
			s.counts[bucketUserBlue]--
		case -Red:
			s.counts[bucketEnemyRed]--
		case -Blue:
			s.counts[bucketEnemyBlue]--
		case Unknown, -Unknown:
			// Masked piece on a scratch clone: ownership of the capture is
			// known, the bucket is not.
		default:
			invariant("Apply", "captured piece %d has color %d", victim, s.color[victim])
		}
	} else {
		m |= moveNoCapture
	}

	s.board[src] = Empty
	s.pieceAt[src] = -1
	s.board[dst] = s.color[piece]
	s.pieceAt[dst] = int8(piece)
	s.pos[piece] = int8(dst)
	s.history[s.plies] = int32(m)
	s.plies++
	s.turn ^= 1
}

// Undo reverses the last applied move, restoring the prior state bit for
// bit. It returns ErrNoHistory when nothing has been played and
// ErrEscapeUndo when the last move was an escape win.
func (s *State) Undo() error {
	if s.plies == 0 {
		return ErrNoHistory
	}
	if s.escaped {
		return ErrEscapeUndo
	}

	s.result = ResultNone
	s.turn ^= 1
	s.plies--
	m := Move(s.history[s.plies])
	s.history[s.plies] = 0
	piece := m.Piece()
	dst := int(s.pos[piece])
	src := dst - int(dirOffset[m.Dir()])

	if victim, ok := m.Captured(); ok {
		s.board[dst] = s.color[victim]
		s.pieceAt[dst] = int8(victim)
		s.pos[victim] = int8(dst)
		s.revealed[victim] = m&moveVictimRevealed != 0
		switch s.color[victim] {
		case Red:
			s.counts[bucketUserRed]++
		case Blue:
			s.counts[bucketUserBlue]++
		case -Red:
			s.counts[bucketEnemyRed]++
		case -Blue:
			s.counts[bucketEnemyBlue]++
		case Unknown, -Unknown:
			// Masked capture never touched a bucket.
		default:
			invariant("Undo", "restored piece %d has color %d", victim, s.color[victim])
		}
	} else {
		s.board[dst] = Empty
		s.pieceAt[dst] = -1
	}

	s.board[src] = s.color[piece]
	s.pieceAt[src] = int8(piece)
	s.pos[piece] = int8(src)
	return nil
}

// IsTerminal reports whether the game is over, caching the outcome in
// Result. The ply cap is checked before win conditions, matching the rule
// that the clock decides first.
func (s *State) IsTerminal() bool {
	if s.plies >= DrawPlies {
		s.result = ResultDraw
		return true
	}
	if s.result != ResultNone {
		return true
	}
	if s.counts[bucketUserRed] == 0 || s.counts[bucketEnemyBlue] == 0 {
		s.result = ResultUser
		return true
	}
	if s.counts[bucketUserBlue] == 0 || s.counts[bucketEnemyRed] == 0 {
		s.result = ResultEnemy
		return true
	}
	return false
}

// ParseSnapshot rebuilds a state from the wire snapshot format: 16 groups of
// 3 characters <col><row><color>, user pieces first. "99" coordinates mark a
// piece off the board, with a lowercase color letter identifying it. Alive
// user pieces carry 'R'/'B'; alive enemy pieces carry 'u' (hidden).
//
// The snapshot carries no ply clock, so the parsed state starts at ply 0
// with the user to move.
func ParseSnapshot(snapshot string) (State, error) {
	var s State
	if len(snapshot) < NumPieces*3 {
		return s, fmt.Errorf("game: snapshot too short: %d chars", len(snapshot))
	}

	s.turn = UserSide
	s.result = ResultNone
	for i := range s.pieceAt {
		s.pieceAt[i] = -1
	}
	for i := range s.counts {
		s.counts[i] = 4
	}

	for p := 0; p < NumPieces; p++ {
		x, y, c := snapshot[p*3], snapshot[p*3+1], snapshot[p*3+2]

		if x == '9' && y == '9' {
			s.pos[p] = -1
			s.revealed[p] = true
			switch {
			case p < PerSide && c == 'r':
				s.color[p] = Red
				s.counts[bucketUserRed]--
			case p < PerSide && c == 'b':
				s.color[p] = Blue
				s.counts[bucketUserBlue]--
			case p >= PerSide && c == 'r':
				s.color[p] = -Red
				s.counts[bucketEnemyRed]--
			case p >= PerSide && c == 'b':
				s.color[p] = -Blue
				s.counts[bucketEnemyBlue]--
			default:
				return s, fmt.Errorf("game: captured piece %c has color %q", PieceLetter(p), c)
			}
			continue
		}

		if x < '0' || x > '5' || y < '0' || y > '5' {
			return s, fmt.Errorf("game: piece %c at invalid cell %c%c", PieceLetter(p), x, y)
		}
		cell := int(x-'0') + int(y-'0')*Cols

		if p < PerSide {
			switch c {
			case 'R':
				s.color[p] = Red
			case 'B':
				s.color[p] = Blue
			default:
				return s, fmt.Errorf("game: own piece %c has color %q", PieceLetter(p), c)
			}
			s.revealed[p] = true
		} else {
			if c != 'u' {
				return s, fmt.Errorf("game: enemy piece %c has color %q", PieceLetter(p), c)
			}
			s.color[p] = -Unknown
		}

		s.board[cell] = s.color[p]
		s.pieceAt[cell] = int8(p)
		s.pos[p] = int8(cell)
	}

	return s, nil
}
