package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RefreshState tracks the last snapshot refresh.
type RefreshState struct {
	LastBlock uint64 `json:"last_block"`
	UpdatedAt string `json:"updated_at"`
}

// StateStore persists refresh state to disk.
type StateStore struct {
	path    string
	enabled bool
}

func NewStateStore(path string, enabled bool) *StateStore {
	return &StateStore{path: path, enabled: enabled}
}

func (s *StateStore) Load() (RefreshState, bool, error) {
	if !s.enabled {
		return RefreshState{}, false, nil
	}

	stat, err := os.Stat(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return RefreshState{}, false, nil
		}
		return RefreshState{}, false, fmt.Errorf("stat state file: %w", err)
	}
	if stat.IsDir() {
		return RefreshState{}, false, fmt.Errorf("state path is a directory")
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return RefreshState{}, false, fmt.Errorf("read state file: %w", err)
	}

	var state RefreshState
	if err := json.Unmarshal(data, &state); err != nil {
		return RefreshState{}, false, fmt.Errorf("parse state file: %w", err)
	}

	return state, true, nil
}

func (s *StateStore) Save(lastBlock uint64) error {
	if !s.enabled {
		return nil
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}

	state := RefreshState{
		LastBlock: lastBlock,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write state tmp: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("rename state file: %w", err)
	}

	return nil
}
