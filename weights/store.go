// Package weights loads and serves the evaluator's tuple weight tables.
//
// Tables are distributed as CSV files, one per side and scenario, produced
// by the training pipeline: Udata_<id>.csv and Edata_<id>.csv for the base
// tables, with R1/ and B1/ subdirectories holding the endgame variants.
package weights

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/chen941008/ISMCTS-4tuple/game"
)

const tableSize = game.TupleCount * game.FeatureCount

// Store holds one weight table per scenario. Once loaded it is read-only
// and safe for concurrent readers; it implements game.WeightSource.
type Store struct {
	tables [game.NumTables][tableSize]float32
	logger zerolog.Logger
}

// NewStore returns a store with every weight at the untrained default 0.5.
func NewStore(logger zerolog.Logger) *Store {
	s := &Store{logger: logger}
	for t := range s.tables {
		for i := range s.tables[t] {
			s.tables[t][i] = 0.5
		}
	}
	return s
}

// Weight returns the learned weight for a (table, tuple, feature) triple.
// Tuple ids run 1..TupleCount, matching the CSV files.
func (s *Store) Weight(t game.Table, tuple, feature int) float64 {
	return float64(s.tables[t][(tuple-1)*game.FeatureCount+feature])
}

// fileTable names the CSV file backing each table, relative to the data
// directory.
func fileTable(t game.Table, id int) string {
	switch t {
	case game.UserBase:
		return fmt.Sprintf("Udata_%d.csv", id)
	case game.UserR1:
		return filepath.Join("R1", fmt.Sprintf("Udata_%d.csv", id))
	case game.UserB1:
		return filepath.Join("B1", fmt.Sprintf("Udata_%d.csv", id))
	case game.EnemyBase:
		return fmt.Sprintf("Edata_%d.csv", id)
	case game.EnemyR1:
		return filepath.Join("R1", fmt.Sprintf("Edata_%d.csv", id))
	default:
		return filepath.Join("B1", fmt.Sprintf("Edata_%d.csv", id))
	}
}

// Load reads the weight files for the given training id from dir. A missing
// file leaves its table at the defaults and is logged, not fatal: training
// runs publish the endgame tables later than the base ones. A malformed
// file is an error.
func (s *Store) Load(dir string, id int) error {
	for t := game.Table(0); t < game.NumTables; t++ {
		path := filepath.Join(dir, fileTable(t, id))
		if err := s.loadFile(t, path); err != nil {
			if os.IsNotExist(err) {
				s.logger.Warn().Str("path", path).Msg("weight file missing, keeping defaults")
				continue
			}
			return fmt.Errorf("weights: load %s: %w", path, err)
		}
		s.logger.Info().Str("path", path).Msg("weight table loaded")
	}
	return nil
}

func (s *Store) loadFile(t game.Table, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.ReuseRecord = true

	// Header row: location,feature,LUTw,LUTv,winrate.
	if _, err := r.Read(); err != nil {
		return fmt.Errorf("header: %w", err)
	}

	line := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		line++
		if len(rec) < 5 {
			return fmt.Errorf("line %d: %d fields, want 5", line, len(rec))
		}
		tuple, err := strconv.Atoi(rec[0])
		if err != nil {
			return fmt.Errorf("line %d: tuple: %w", line, err)
		}
		feature, err := strconv.Atoi(rec[1])
		if err != nil {
			return fmt.Errorf("line %d: feature: %w", line, err)
		}
		if tuple < 1 || tuple > game.TupleCount || feature < 0 || feature >= game.FeatureCount {
			return fmt.Errorf("line %d: entry (%d,%d) out of range", line, tuple, feature)
		}
		w, err := strconv.ParseFloat(rec[4], 32)
		if err != nil {
			return fmt.Errorf("line %d: winrate: %w", line, err)
		}
		s.tables[t][(tuple-1)*game.FeatureCount+feature] = float32(w)
	}
}
