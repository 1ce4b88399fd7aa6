package engine

import (
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"github.com/chen941008/ISMCTS-4tuple/game"
	"github.com/chen941008/ISMCTS-4tuple/searcher"
)

// MoveRecord captures one half-move of a match for later analysis.
type MoveRecord struct {
	Ply  int
	Side game.Side
	Move game.Move
	searcher.SearchMetrics
}

// GameRecord summarizes a finished match.
type GameRecord struct {
	Result    game.Result
	Plies     int
	StartTime time.Time
	Duration  time.Duration
}

// Match plays one full game between two searchers sharing a single true
// state, indexed by side.
type Match struct {
	agents [2]Searcher
	state  game.State
}

func NewMatch(user, enemy Searcher) *Match {
	return &Match{agents: [2]Searcher{user, enemy}}
}

// Run deals a random opening and plays until the game decides itself.
func (m *Match) Run(rng *rand.Rand) (GameRecord, []MoveRecord) {
	m.state.Initialize(rng)
	start := time.Now()
	var moves []MoveRecord

	for !m.state.IsTerminal() {
		side := m.state.Turn()
		mv, metrics, err := m.agents[side].FindBestMove(&m.state)
		if err != nil {
			log.Error().Err(err).Stringer("side", side).Msg("search failed mid-game")
			break
		}
		moves = append(moves, MoveRecord{
			Ply:           m.state.Plies(),
			Side:          side,
			Move:          mv,
			SearchMetrics: metrics,
		})
		m.state.Apply(mv)
	}

	record := GameRecord{
		Result:    m.state.Result(),
		Plies:     m.state.Plies(),
		StartTime: start,
		Duration:  time.Since(start),
	}
	log.Info().
		Stringer("result", record.Result).
		Int("plies", record.Plies).
		Dur("took", record.Duration).
		Msg("match finished")
	return record, moves
}
