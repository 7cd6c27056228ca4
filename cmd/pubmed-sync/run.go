// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubmed-sync/internal/pipeline"
	"github.com/pdiddy/pubmed-sync/internal/pubmed"
	"github.com/pdiddy/pubmed-sync/internal/runlog"
	"github.com/pdiddy/pubmed-sync/internal/snapshot"
	"github.com/pdiddy/pubmed-sync/pkg/types"
)

const (
	defaultQuery = `(("Cardiovascular Diseases"[MeSH] OR "Heart Diseases"[MeSH])) AND (2010:2025[dp])`

	defaultTimeout    = 60 * time.Second
	defaultChunkDelay = 340 * time.Millisecond
	defaultUserAgent  = "pubmed-sync/0.1"

	defaultContainer = "pubmed-data"
	defaultBlob      = "pubmed_combined.csv"
	defaultDBPath    = "pubmed-sync.db"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one harvest: fetch, merge, and replace the snapshot",
	Long: `Run fetches matching articles from PubMed, normalizes them, merges them
into the existing snapshot (new records appended, matching PMIDs replaced by
the fresh copy), and uploads the result as a full replacement.

A run either fully succeeds or leaves the old snapshot untouched. The
outcome is recorded in the local run log either way.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().String("query", "", "PubMed search expression (default: cardiovascular disease 2010-2025)")
	runCmd.Flags().Int("max-results", 0, "maximum PMIDs to fetch (default 1000)")
	runCmd.Flags().Int("page-size", 0, "records per efetch call (default 200)")
	runCmd.Flags().Duration("delay", 0, "pause between efetch calls (default 340ms)")
	runCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	runCmd.Flags().String("backend", "", "snapshot store: azure or file (default azure)")
	runCmd.Flags().String("container", "", "Azure blob container (default pubmed-data)")
	runCmd.Flags().String("blob", "", "Azure blob name (default pubmed_combined.csv)")
	runCmd.Flags().String("path", "", "local snapshot path when --backend file")
	runCmd.Flags().String("db", "", "run log database path (default pubmed-sync.db)")
	runCmd.Flags().String("reports-dir", "", "directory for per-run YAML reports (empty disables)")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	store, err := snapshot.NewStore(cfg.Storage)
	if err != nil {
		return err
	}

	p := &pipeline.Pipeline{
		Client: &pubmed.Client{HTTP: &http.Client{Timeout: cfg.Fetch.Timeout}},
		Store:  store,
		Config: cfg,
	}

	startedAt := time.Now().UTC()
	summary, runErr := p.Run(context.Background(), os.Stdout)

	recordRun(cfg, startedAt, summary, runErr)

	if runErr != nil {
		return runErr
	}
	fmt.Printf("\nRun summary: %d fetched, %d skipped, %d new, %d updated (total: %d)\n",
		summary.Fetched, summary.Skipped, summary.New, summary.Updated, summary.Total)
	return nil
}

// buildConfig assembles the pipeline configuration from flags, the config
// file, secrets, and environment, in that precedence order.
func buildConfig(cmd *cobra.Command) (types.PipelineConfig, error) {
	flagString := func(name, viperKey, fallback string) string {
		if v, _ := cmd.Flags().GetString(name); v != "" {
			return v
		}
		if v := viper.GetString(viperKey); v != "" {
			return v
		}
		return fallback
	}
	flagInt := func(name, viperKey string, fallback int) int {
		if v, _ := cmd.Flags().GetInt(name); v != 0 {
			return v
		}
		if v := viper.GetInt(viperKey); v != 0 {
			return v
		}
		return fallback
	}
	flagDuration := func(name, viperKey string, fallback time.Duration) time.Duration {
		if v, _ := cmd.Flags().GetDuration(name); v != 0 {
			return v
		}
		if v := viper.GetDuration(viperKey); v != 0 {
			return v
		}
		return fallback
	}

	cfg := types.PipelineConfig{
		Query: flagString("query", "query", defaultQuery),
		Fetch: types.FetchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   flagDuration("timeout", "fetch.timeout", defaultTimeout),
				UserAgent: defaultUserAgent,
			},
			Email:      resolveSecret(viper.GetString("fetch.email"), "ncbi-email", "NCBI_EMAIL"),
			APIKey:     resolveSecret(viper.GetString("fetch.api_key"), "ncbi-api-key", "NCBI_API_KEY"),
			MaxResults: flagInt("max-results", "fetch.max_results", 1000),
			PageSize:   flagInt("page-size", "fetch.page_size", 200),
			ChunkDelay: flagDuration("delay", "fetch.chunk_delay", defaultChunkDelay),
		},
		Storage: types.StorageConfig{
			Backend:          types.StorageBackend(flagString("backend", "storage.backend", string(types.BackendAzure))),
			ConnectionString: resolveSecret(viper.GetString("storage.connection_string"), "azure-connection-string", "AZURE_STORAGE_CONNECTION_STRING"),
			Container:        flagString("container", "storage.container", defaultContainer),
			Blob:             flagString("blob", "storage.blob", defaultBlob),
			Path:             flagString("path", "storage.path", ""),
		},
		RunLog: types.RunLogConfig{
			DBPath:     flagString("db", "run_log.db_path", defaultDBPath),
			ReportsDir: flagString("reports-dir", "run_log.reports_dir", ""),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// recordRun logs the outcome to the run log and optional report file.
// Logging failures never mask the run result; they only warn.
func recordRun(cfg types.PipelineConfig, startedAt time.Time, summary pipeline.RunSummary, runErr error) {
	log, err := runlog.Open(cfg.RunLog.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: run log unavailable: %v\n", err)
	} else {
		defer log.Close()
		if err := log.Record(context.Background(), startedAt, cfg.Query, summary, runErr); err != nil {
			fmt.Fprintf(os.Stderr, "warning: recording run failed: %v\n", err)
		}
	}

	if cfg.RunLog.ReportsDir == "" {
		return
	}
	report := runlog.Report{
		StartedAt: startedAt,
		Query:     cfg.Query,
		Status:    "ok",
		Summary:   summary,
	}
	if runErr != nil {
		report.Status = "failed"
		report.Error = runErr.Error()
	}
	if path, err := runlog.WriteReport(cfg.RunLog.ReportsDir, report); err != nil {
		fmt.Fprintf(os.Stderr, "warning: writing report failed: %v\n", err)
	} else {
		fmt.Fprintln(os.Stderr, "Report written:", path)
	}
}
