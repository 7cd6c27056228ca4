// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "pubmed-sync/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the PubMed fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Email identifies the caller to NCBI (the Entrez "email" parameter).
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// APIKey is an optional NCBI API key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxResults bounds the number of PMIDs requested from esearch (default 1000).
	MaxResults int `json:"max_results" yaml:"max_results" validate:"gte=0"`

	// PageSize is the number of records requested per efetch call
	// (default 200, NCBI's documented maximum for URL-encoded requests).
	PageSize int `json:"page_size" yaml:"page_size" validate:"gte=0,lte=500"`

	// ChunkDelay is the pause between consecutive efetch calls
	// (default 340ms, the NCBI courtesy rate without an API key).
	ChunkDelay time.Duration `json:"chunk_delay" yaml:"chunk_delay"`
}

// StorageBackend identifies the snapshot store implementation.
type StorageBackend string

const (
	BackendAzure StorageBackend = "azure"
	BackendFile  StorageBackend = "file"
)

// StorageConfig holds settings for the snapshot store.
type StorageConfig struct {
	// Backend selects the store: azure or file.
	Backend StorageBackend `json:"backend" yaml:"backend" validate:"oneof=azure file"`

	// ConnectionString authenticates against the Azure storage account.
	// Required when Backend is azure.
	ConnectionString string `json:"connection_string,omitempty" yaml:"connection_string,omitempty"`

	// Container is the blob container holding the snapshot (default "pubmed-data").
	Container string `json:"container" yaml:"container"`

	// Blob is the snapshot blob name (default "pubmed_combined.csv").
	Blob string `json:"blob" yaml:"blob"`

	// Path is the local snapshot path when Backend is file.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// RunLogConfig holds settings for the local run-history log.
type RunLogConfig struct {
	// DBPath is the SQLite database file for run history (default "pubmed-sync.db").
	DBPath string `json:"db_path" yaml:"db_path"`

	// ReportsDir is the directory for per-run YAML reports (default "reports").
	// Empty disables report files.
	ReportsDir string `json:"reports_dir,omitempty" yaml:"reports_dir,omitempty"`
}

// PipelineConfig groups all stage configurations for one harvest run.
type PipelineConfig struct {
	// Query is the PubMed search expression.
	Query string `json:"query" yaml:"query" validate:"required"`

	Fetch   FetchConfig   `json:"fetch" yaml:"fetch"`
	Storage StorageConfig `json:"storage" yaml:"storage"`
	RunLog  RunLogConfig  `json:"run_log" yaml:"run_log"`
}
