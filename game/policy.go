package game

import (
	"math"
	"sort"

	"golang.org/x/exp/rand"
)

// SelectionMode controls how BestByWeight turns move weights into a choice.
type SelectionMode int

const (
	// Argmax picks a maximum-weight move, breaking ties uniformly.
	Argmax SelectionMode = iota
	// LinearWeighted samples proportionally to the weights, shifted to be
	// non-negative when any is negative.
	LinearWeighted
	// Softmax samples from a temperature-1 Boltzmann distribution over the
	// weights.
	Softmax
)

func (m SelectionMode) String() string {
	switch m {
	case Argmax:
		return "argmax"
	case LinearWeighted:
		return "linear"
	case Softmax:
		return "softmax"
	}
	return "unknown"
}

// cornerDist returns the manhattan distance from a cell to each of the four
// board corners, indexed 0, 5, 30, 35.
func cornerDist(cell int) [4]int {
	row, col := cell/Cols, cell%Cols
	return [4]int{
		row + col,
		row + (Cols - 1 - col),
		(Rows - 1 - row) + col,
		(Rows - 1 - row) + (Cols - 1 - col),
	}
}

// assignCorners greedily pairs the mover's pieces with board corners by
// shortest distance, one piece per corner. The corner a piece is tasked with
// drives its progress bonus.
func (s *State) assignCorners() [NumPieces]int {
	type candidate struct {
		piece, corner, dist int
	}
	cands := make([]candidate, 0, PerSide*4)

	offset := 0
	if s.turn == EnemySide {
		offset = PerSide
	}
	for i := 0; i < PerSide; i++ {
		p := offset + i
		if s.pos[p] == -1 {
			continue
		}
		d := cornerDist(int(s.pos[p]))
		for corner := 0; corner < 4; corner++ {
			cands = append(cands, candidate{p, corner, d[corner]})
		}
	}

	sort.SliceStable(cands, func(a, b int) bool { return cands[a].dist < cands[b].dist })

	var assigned [NumPieces]int
	for i := range assigned {
		assigned[i] = -1
	}
	var pieceTaken [NumPieces]bool
	var cornerTaken [4]bool
	done := 0
	for _, c := range cands {
		if done == 4 {
			break
		}
		if pieceTaken[c.piece] || cornerTaken[c.corner] {
			continue
		}
		pieceTaken[c.piece] = true
		cornerTaken[c.corner] = true
		assigned[c.piece] = c.corner
		done++
	}
	return assigned
}

// forcedWeight returns 1 when the move is an immediate escape or a safe
// step onto an open exit cell, bypassing the evaluator entirely.
func (s *State) forcedWeight(piece int, dir Direction) bool {
	loc := int(s.pos[piece])
	if s.turn == UserSide {
		switch {
		case loc == userExitWest && dir == West && s.board[userExitWest] == Blue:
			return true
		case loc == userExitEast && dir == East && s.board[userExitEast] == Blue:
			return true
		case loc == 4 && dir == East && s.color[piece] == Blue &&
			s.board[5] == Empty && s.board[11] >= 0:
			return true
		case loc == 1 && dir == West && s.color[piece] == Blue &&
			s.board[0] == Empty && s.board[6] >= 0:
			return true
		}
		return false
	}
	switch {
	case loc == enemyExitWest && dir == West && s.board[enemyExitWest] == -Blue:
		return true
	case loc == enemyExitEast && dir == East && s.board[enemyExitEast] == -Blue:
		return true
	case loc == 34 && dir == East && s.color[piece] == -Blue &&
		s.board[35] == Empty && s.board[29] <= 0:
		return true
	case loc == 31 && dir == West && s.color[piece] == -Blue &&
		s.board[30] == Empty && s.board[24] <= 0:
		return true
	}
	return false
}

// BestByWeight scores every legal move with the tuple evaluator and picks
// one according to the selection mode. Opponent colors are masked on a
// scratch copy before each trial apply so the score never leaks hidden
// information.
//
// Moves that make progress toward a piece's assigned corner, and quiet
// non-capturing moves once the opponent is down to a single Red, get a
// small multiplicative bonus.
func (s *State) BestByWeight(ws WeightSource, mode SelectionMode, rng *rand.Rand) (Move, bool) {
	moves := s.LegalMoves()
	if len(moves) == 0 {
		return NoMove, false
	}

	assigned := s.assignCorners()
	mover := s.turn

	opponentRedLow := s.counts[bucketEnemyRed] <= 1
	if mover == EnemySide {
		opponentRedLow = s.counts[bucketUserRed] <= 1
	}

	weights := make([]float64, len(moves))
	for i, m := range moves {
		piece, dir := m.Piece(), m.Dir()
		src := int(s.pos[piece])
		dst := src + int(dirOffset[dir])
		escape := isEscapeSquare(src, dir) && abs8(s.color[piece]) == Blue

		if s.forcedWeight(piece, dir) {
			weights[i] = 1
		} else {
			scratch := s.Clone()
			scratch.MaskOpponent(mover)
			scratch.Apply(m)
			scratch.turn ^= 1 // score from the mover's perspective
			weights[i] = scratch.BoardScore(ws)
		}

		if escape {
			continue // no destination cell to reason about
		}
		if corner := assigned[piece]; corner != -1 {
			if cornerDist(dst)[corner] < cornerDist(src)[corner] {
				weights[i] *= 1.01
			}
		}
		if opponentRedLow && s.board[dst] == Empty {
			weights[i] *= 1.01
		}
	}

	return moves[pickIndex(weights, mode, rng)], true
}

// pickIndex selects an index from the weight slice per the mode. NaN
// weights never win; sampling modes fall back to argmax when the weights
// cannot form a distribution.
func pickIndex(w []float64, mode SelectionMode, rng *rand.Rand) int {
	switch mode {
	case LinearWeighted:
		min := math.Inf(1)
		for _, v := range w {
			if !math.IsNaN(v) && v < min {
				min = v
			}
		}
		// Shift only when needed to make the mass non-negative; positive
		// weights keep their proportions.
		shift := 0.0
		if min < 0 {
			shift = -min
		}
		total := 0.0
		shifted := make([]float64, len(w))
		for i, v := range w {
			if math.IsNaN(v) {
				continue
			}
			shifted[i] = v + shift
			total += shifted[i]
		}
		if total > 0 {
			x := rng.Float64() * total
			for i, v := range shifted {
				x -= v
				if x < 0 {
					return i
				}
			}
		}
	case Softmax:
		max := math.Inf(-1)
		for _, v := range w {
			if v > max {
				max = v
			}
		}
		total := 0.0
		exps := make([]float64, len(w))
		for i, v := range w {
			if math.IsNaN(v) {
				continue
			}
			exps[i] = math.Exp(v - max)
			total += exps[i]
		}
		if total > 0 && !math.IsInf(max, -1) {
			x := rng.Float64() * total
			for i, v := range exps {
				x -= v
				if x < 0 {
					return i
				}
			}
		}
	}

	// Argmax with uniform tie-breaking.
	best := math.Inf(-1)
	ties := 0
	pick := 0
	for i, v := range w {
		if math.IsNaN(v) {
			continue
		}
		switch {
		case v > best:
			best = v
			pick = i
			ties = 1
		case v == best:
			ties++
			if rng.Intn(ties) == 0 {
				pick = i
			}
		}
	}
	return pick
}
