// Package history keeps a YAML log of release runs in the state directory.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the run log file inside the state directory.
const FileName = "history.yaml"

// Outcome values recorded for a run.
const (
	OutcomeReleased = "released"
	OutcomePartial  = "partial" // changelog written, tag not created
	OutcomeNothing  = "nothing_to_release"
	OutcomeFailed   = "failed"
)

// HistoryEntry is one recorded run.
type HistoryEntry struct {
	Timestamp   time.Time `yaml:"timestamp"`
	Command     string    `yaml:"command"`
	Outcome     string    `yaml:"outcome"`
	PreviousTag string    `yaml:"previous_tag,omitempty"`
	Version     string    `yaml:"version,omitempty"`
	Bump        string    `yaml:"bump,omitempty"`
	Commits     int       `yaml:"commits"`
	Changelog   bool      `yaml:"changelog_written"`
	Summarized  bool      `yaml:"summarized"`
	Tag         string    `yaml:"tag,omitempty"`
	TagCreated  bool      `yaml:"tag_created"`
	TagPushed   bool      `yaml:"tag_pushed"`
	ReleaseURL  string    `yaml:"release_url,omitempty"`
	Error       string    `yaml:"error,omitempty"`
	ExitCode    int       `yaml:"exit_code"`
	Duration    string    `yaml:"duration"`
}

// HistoryFile is the on-disk run log.
type HistoryFile struct {
	Entries []HistoryEntry `yaml:"entries"`
}

// Path returns the run log path for stateDir.
func Path(stateDir string) string {
	return filepath.Join(stateDir, FileName)
}

// LoadHistory reads the run log. A missing file is an empty log.
func LoadHistory(stateDir string) (*HistoryFile, error) {
	data, err := os.ReadFile(Path(stateDir))
	if os.IsNotExist(err) {
		return &HistoryFile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading history file: %w", err)
	}

	var history HistoryFile
	if err := yaml.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("parsing history file: %w", err)
	}
	return &history, nil
}

// SaveHistory writes the run log, replacing the previous file atomically.
func SaveHistory(stateDir string, history *HistoryFile) error {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	data, err := yaml.Marshal(history)
	if err != nil {
		return fmt.Errorf("marshaling history: %w", err)
	}

	tmp := Path(stateDir) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing history file: %w", err)
	}
	if err := os.Rename(tmp, Path(stateDir)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing history file: %w", err)
	}
	return nil
}

// Latest returns up to n most recent entries, newest first. n <= 0 means all.
func (h *HistoryFile) Latest(n int) []HistoryEntry {
	count := len(h.Entries)
	if n > 0 && n < count {
		count = n
	}
	out := make([]HistoryEntry, 0, count)
	for i := len(h.Entries) - 1; i >= 0 && len(out) < count; i-- {
		out = append(out, h.Entries[i])
	}
	return out
}

// ClearHistory removes the run log. A missing file is not an error.
func ClearHistory(stateDir string) error {
	if err := os.Remove(Path(stateDir)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing history file: %w", err)
	}
	return nil
}
