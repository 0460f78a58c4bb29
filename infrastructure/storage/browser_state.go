package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"iso2_automation/domain/entities"
	"iso2_automation/domain/interfaces"
)

const (
	stateFile   = "state.json"
	historyFile = "history.json"

	// DefaultHistoryLimit is how many reports are kept
	DefaultHistoryLimit = 100
)

type runHistory struct {
	historyPath string
	limit       int
	mu          sync.Mutex
}

// NewRunHistory - creates the smoke run history under stateDir
func NewRunHistory(stateDir string, limit int) (interfaces.ReportStore, error) {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &runHistory{
		historyPath: filepath.Join(stateDir, historyFile),
		limit:       limit,
	}, nil
}

// StatePath - where the authenticated browser storage state lives
func StatePath(stateDir string) string {
	return filepath.Join(stateDir, stateFile)
}

// HasState - reports whether a saved storage state exists
func HasState(stateDir string) bool {
	info, err := os.Stat(StatePath(stateDir))
	return err == nil && info.Size() > 0
}

// SaveReport - appends a report, dropping the oldest beyond the limit
func (s *runHistory) SaveReport(report entities.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.load()
	if err != nil {
		return err
	}
	history = append(history, report)
	if len(history) > s.limit {
		history = history[len(history)-s.limit:]
	}

	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	return os.WriteFile(s.historyPath, data, 0o644)
}

// LoadReports - loads run history, oldest first
func (s *runHistory) LoadReports() ([]entities.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *runHistory) load() ([]entities.Report, error) {
	data, err := os.ReadFile(s.historyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []entities.Report{}, nil
		}
		return nil, err
	}

	var history []entities.Report
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("failed to decode history %s: %w", s.historyPath, err)
	}
	return history, nil
}
