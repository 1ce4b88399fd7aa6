package game

// Table identifies one of the evaluator's weight tables. Each side has a
// base table plus two endgame tables used when the opponent is down to a
// single Red or the mover holds a single Blue.
type Table int

const (
	UserBase Table = iota
	UserR1
	UserB1
	EnemyBase
	EnemyR1
	EnemyB1
	NumTables
)

// WeightSource supplies the learned tuple weights. Implementations must be
// safe for concurrent readers.
type WeightSource interface {
	Weight(t Table, tuple, feature int) float64
}

const (
	// TupleCount is the number of pattern instances on the board: 18
	// horizontal 1x4 runs, 18 vertical 4x1 runs and 25 2x2 squares.
	TupleCount = 61
	// FeatureCount is 4^4, the number of cell-value combinations a tuple
	// can observe.
	FeatureCount = 256
)

// tupleShapes lists the cell offsets of each pattern shape relative to its
// top-left base cell, in enumeration order.
var tupleShapes = [3][4]int{
	{0, 1, 2, 3},    // 1x4 horizontal
	{0, 6, 12, 18},  // 4x1 vertical
	{0, 1, 6, 7},    // 2x2 square
}

// tupleByLoc maps a packed location key to a tuple id in 1..TupleCount.
var tupleByLoc map[int]int

func init() {
	tupleByLoc = make(map[int]int, TupleCount)
	id := 1
	for base := 0; base < Cells; base++ {
		for shape := range tupleShapes {
			if !validPattern(base, shape) {
				continue
			}
			tupleByLoc[locOf(base, shape)] = id
			id++
		}
	}
	if id-1 != TupleCount {
		invariant("init", "enumerated %d tuples, want %d", id-1, TupleCount)
	}
}

func validPattern(base, shape int) bool {
	row, col := base/Cols, base%Cols
	switch shape {
	case 0:
		return col <= Cols-4
	case 1:
		return row <= Rows-4
	default:
		return col <= Cols-2 && row <= Rows-2
	}
}

// locOf packs the four cell indices of a pattern instance into a base-36
// key.
func locOf(base, shape int) int {
	off := &tupleShapes[shape]
	return ((base+off[0])*36+base+off[1])*36*36 + (base+off[2])*36 + base + off[3]
}

// TupleByLocation resolves a packed location key, as found in weight CSV
// files, to a tuple id in 1..TupleCount.
func TupleByLocation(loc int) (int, bool) {
	id, ok := tupleByLoc[loc]
	return id, ok
}

// featureCache maps each cell to the mover-relative value the tuples
// observe: 0 empty, 1 own Red, 2 own Blue, 3 anything of the opponent's,
// hidden or not.
type featureCache [Cells]int

func (s *State) fillFeatures(fc *featureCache) {
	if s.turn == UserSide {
		for i, v := range s.board {
			if v < 0 {
				fc[i] = int(Unknown)
			} else {
				fc[i] = int(v)
			}
		}
	} else {
		for i, v := range s.board {
			if v > 0 {
				fc[i] = int(Unknown)
			} else {
				fc[i] = int(-v)
			}
		}
	}
}

// weightTable picks the table matching the current scenario: the mover's
// base table, or an endgame table when the opponent has one Red left or the
// mover has one Blue left.
func (s *State) weightTable() Table {
	if s.turn == UserSide {
		switch {
		case s.counts[bucketEnemyRed] == 1:
			return UserR1
		case s.counts[bucketUserBlue] == 1:
			return UserB1
		}
		return UserBase
	}
	switch {
	case s.counts[bucketUserRed] == 1:
		return EnemyR1
	case s.counts[bucketEnemyBlue] == 1:
		return EnemyB1
	}
	return EnemyBase
}

// BoardScore evaluates the position from the side to move's point of view:
// the mean weight of all 61 pattern instances under the scenario table.
func (s *State) BoardScore(ws WeightSource) float64 {
	var fc featureCache
	s.fillFeatures(&fc)
	table := s.weightTable()

	sum := 0.0
	tuple := 1
	for base := 0; base < Cells; base++ {
		for shape := range tupleShapes {
			if !validPattern(base, shape) {
				continue
			}
			off := &tupleShapes[shape]
			feature := fc[base+off[0]]<<6 | fc[base+off[1]]<<4 | fc[base+off[2]]<<2 | fc[base+off[3]]
			sum += ws.Weight(table, tuple, feature)
			tuple++
		}
	}
	return sum / TupleCount
}
