// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package runlog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pubmed-sync/internal/pipeline"
)

// Report is the YAML document written after each run.
type Report struct {
	StartedAt time.Time           `yaml:"started_at"`
	Query     string              `yaml:"query"`
	Status    string              `yaml:"status"`
	Summary   pipeline.RunSummary `yaml:"summary"`
	Error     string              `yaml:"error,omitempty"`
}

// WriteReport writes one run report to dir/run-<timestamp>.yaml and
// returns the file path.
func WriteReport(dir string, report Report) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating reports directory %s: %w", dir, err)
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("marshaling report: %w", err)
	}

	path := filepath.Join(dir, "run-"+report.StartedAt.UTC().Format("20060102-150405")+".yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}
