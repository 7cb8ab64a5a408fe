package bridge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sandeepkv93/taskrank/internal/model"
)

// ExportDocument is the downloadable analysis file.
type ExportDocument struct {
	AnalysisDate time.Time      `json:"analysis_date"`
	Strategy     model.Strategy `json:"strategy"`
	TotalTasks   int            `json:"total_tasks"`
	Tasks        []model.Task   `json:"tasks"`
}

func NewExportDocument(tasks []model.Task, strategy model.Strategy, at time.Time) ExportDocument {
	if tasks == nil {
		tasks = []model.Task{}
	}
	return ExportDocument{
		AnalysisDate: at.UTC(),
		Strategy:     strategy,
		TotalTasks:   len(tasks),
		Tasks:        tasks,
	}
}

// ExportFileName is task-analysis-<epoch-ms>.json.
func ExportFileName(at time.Time) string {
	return fmt.Sprintf("task-analysis-%d.json", at.UnixMilli())
}

// WriteExport writes doc into dir and returns the file path. The file is
// written to a temp name first and renamed into place.
func WriteExport(dir string, doc ExportDocument) (string, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = "."
	}
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create export dir: %w", err)
		}
	}
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, ExportFileName(doc.AnalysisDate))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(payload, '\n'), 0o644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", err
	}
	return path, nil
}
