package experiments

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Writer persists experiment results under one base directory.
type Writer struct {
	baseDir string
}

func NewWriter(baseDir string) (*Writer, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("experiments: create results dir: %w", err)
	}
	return &Writer{baseDir: baseDir}, nil
}

// WriteGameRecords writes one summary row per game.
func (w *Writer) WriteGameRecords(results []GameResult) error {
	path := filepath.Join(w.baseDir, "game_records.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("experiments: create %s: %w", path, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"id", "result", "plies", "start_time", "duration"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("experiments: write game header: %w", err)
	}
	for _, r := range results {
		row := []string{
			strconv.Itoa(r.ID),
			r.Result.String(),
			strconv.Itoa(r.Plies),
			r.StartTime.Format(time.RFC3339),
			r.Duration.String(),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("experiments: write game row: %w", err)
		}
	}
	return writer.Error()
}

// WriteMoveRecords writes one row per half-move across all games.
func (w *Writer) WriteMoveRecords(results []GameResult) error {
	path := filepath.Join(w.baseDir, "move_records.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("experiments: create %s: %w", path, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{
		"game", "ply", "side", "move", "duration",
		"simulations", "full_playouts", "weighted_determinizations", "tree_nodes",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("experiments: write move header: %w", err)
	}
	for _, r := range results {
		for _, m := range r.Moves {
			row := []string{
				strconv.Itoa(r.ID),
				strconv.Itoa(m.Ply),
				m.Side.String(),
				m.Move.String(),
				m.Duration.String(),
				strconv.Itoa(m.Simulations),
				strconv.Itoa(m.FullPlayouts),
				strconv.Itoa(m.WeightedDeterminizations),
				strconv.Itoa(m.TreeNodes),
			}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("experiments: write move row: %w", err)
			}
		}
	}
	return writer.Error()
}
