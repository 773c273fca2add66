package adapter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	m "vdrm.dev/pkg/vdrm/internal/model"
)

// ReportStore persists evaluation reports.
type ReportStore interface {
	// Save writes a report into dir and returns the written path.
	Save(report m.Report, dir string) (string, error)
}

type jsonReportStore struct{}

// NewReportStore creates a store writing one JSON file per run.
func NewReportStore() ReportStore {
	return jsonReportStore{}
}

// Save implements ReportStore.
func (jsonReportStore) Save(report m.Report, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create reports dir %s: %w", dir, err)
	}

	path := filepath.Join(dir, report.ID+".json")

	content, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report %s: %w", path, err)
	}

	slog.Debug("wrote report", "path", path, "scores", len(report.Scores))

	return path, nil
}
