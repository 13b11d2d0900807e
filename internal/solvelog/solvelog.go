// Package solvelog persists solve sessions as JSON: the starting snapshot
// plus the ordered list of applied turns. Loading replays the turns against
// the snapshot, reproducing the exact final state.
package solvelog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ilmarin/flatcube/internal/puzzle"
)

// Log is one recorded solve.
type Log struct {
	Scramble *puzzle.Puzzle
	Moves    []puzzle.Turn
}

type logJSON struct {
	Scramble *puzzle.Puzzle    `json:"scramble"`
	Moves    []json.RawMessage `json:"moves"`
}

// MarshalJSON encodes the log with each move in its tagged form.
func (l Log) MarshalJSON() ([]byte, error) {
	moves, err := EncodeMoves(l.Moves)
	if err != nil {
		return nil, err
	}
	return json.Marshal(logJSON{Scramble: l.Scramble, Moves: moves})
}

// UnmarshalJSON decodes a log produced by MarshalJSON.
func (l *Log) UnmarshalJSON(data []byte) error {
	var raw logJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Scramble == nil {
		return fmt.Errorf("solvelog: log has no scramble snapshot")
	}
	moves, err := DecodeMoves(raw.Moves)
	if err != nil {
		return err
	}
	l.Scramble = raw.Scramble
	l.Moves = moves
	return nil
}

// EncodeMoves encodes a move list as tagged JSON values.
func EncodeMoves(moves []puzzle.Turn) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, len(moves))
	for i, mv := range moves {
		data, err := puzzle.MarshalTurn(mv)
		if err != nil {
			return nil, fmt.Errorf("solvelog: move %d: %w", i, err)
		}
		out[i] = data
	}
	return out, nil
}

// DecodeMoves decodes a move list encoded by EncodeMoves.
func DecodeMoves(raw []json.RawMessage) ([]puzzle.Turn, error) {
	moves := make([]puzzle.Turn, len(raw))
	for i, data := range raw {
		mv, err := puzzle.UnmarshalTurn(data)
		if err != nil {
			return nil, fmt.Errorf("solvelog: move %d: %w", i, err)
		}
		moves[i] = mv
	}
	return moves, nil
}

// Replay rebuilds the final puzzle state from the log.
func (l Log) Replay() (*puzzle.Puzzle, error) {
	p := l.Scramble.Clone()
	for i, mv := range l.Moves {
		if err := p.Turn(mv); err != nil {
			return nil, fmt.Errorf("solvelog: move %d: %w", i, err)
		}
	}
	return p, nil
}

// Save writes the log to path, creating parent directories as needed.
func Save(path string, l Log) error {
	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("solvelog: encode: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("solvelog: create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("solvelog: write %s: %w", path, err)
	}
	return nil
}

// Load reads a log saved by Save.
func Load(path string) (Log, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Log{}, fmt.Errorf("solvelog: read %s: %w", path, err)
	}
	var l Log
	if err := json.Unmarshal(data, &l); err != nil {
		return Log{}, fmt.Errorf("solvelog: parse %s: %w", path, err)
	}
	return l, nil
}

// DefaultPath returns the timestamped path a session saves to.
func DefaultPath(now time.Time) string {
	return filepath.Join("logs", now.Format("2006-01-02_15-04-05")+".log")
}
