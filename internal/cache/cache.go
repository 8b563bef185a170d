package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/txbeach/sandcal/internal/tournament"
)

// Store persists the aggregate tournament dataset as a single JSON file.
type Store struct {
	path string
}

// NewStore creates a Store writing to the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the cache file location.
func (s *Store) Path() string {
	return s.path
}

// Load returns the most recently persisted aggregate, or an empty
// aggregate if nothing has been persisted yet.
func (s *Store) Load() (tournament.Aggregate, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return tournament.NewAggregate(), nil
		}
		return tournament.Aggregate{}, fmt.Errorf("reading cache: %w", err)
	}

	var agg tournament.Aggregate
	if err := json.Unmarshal(data, &agg); err != nil {
		return tournament.Aggregate{}, fmt.Errorf("parsing cache: %w", err)
	}
	if agg.Tournaments == nil {
		agg.Tournaments = make([]tournament.Tournament, 0)
	}
	if agg.Errors == nil {
		agg.Errors = make(map[string]string)
	}
	return agg, nil
}

// Save atomically replaces the persisted aggregate. The document is
// written to a temporary file and renamed into place, so readers never
// observe a partially written cache.
func (s *Store) Save(agg tournament.Aggregate) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	data, err := json.MarshalIndent(agg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing cache: %w", err)
	}
	return nil
}
