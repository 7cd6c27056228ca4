// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs one harvest: fetch new PubMed records, merge them
// into the existing snapshot, and replace the snapshot in storage. A run
// either fully succeeds (new snapshot written) or fully fails (old
// snapshot untouched); there is no retry and no partial commit.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/pubmed-sync/internal/merge"
	"github.com/pdiddy/pubmed-sync/internal/normalize"
	"github.com/pdiddy/pubmed-sync/internal/pubmed"
	"github.com/pdiddy/pubmed-sync/internal/snapshot"
	"github.com/pdiddy/pubmed-sync/pkg/types"
)

// Pipeline wires the fetch, normalize, merge, and persist stages together.
// Construct it at the entry point and pass configuration explicitly; there
// is no process-wide state.
type Pipeline struct {
	Client *pubmed.Client
	Store  snapshot.Store
	Config types.PipelineConfig

	// Now returns the fetch timestamp stamped onto records. Defaults to
	// time.Now; tests pin it for deterministic output.
	Now func() time.Time
}

// RunSummary holds the counts from one harvest run.
type RunSummary struct {
	// Fetched is the number of raw records returned by the API.
	Fetched int `json:"fetched" yaml:"fetched"`

	// Skipped is the number of raw records dropped for lacking a PMID.
	Skipped int `json:"skipped" yaml:"skipped"`

	// New is the number of distinct PMIDs added to the dataset.
	New int `json:"new" yaml:"new"`

	// Updated is the number of existing records replaced by fresh copies.
	Updated int `json:"updated" yaml:"updated"`

	// Total is the dataset size after the merge.
	Total int `json:"total" yaml:"total"`
}

// Run executes one harvest. Progress lines go to w. The returned error is
// one of *FetchError, *PersistError, or *PipelineError; the old snapshot
// remains authoritative whenever an error is returned.
//
// An empty fetch result is not an error: the unchanged dataset is still
// written back, so every successful run leaves a fresh snapshot behind.
func (p *Pipeline) Run(ctx context.Context, w io.Writer) (RunSummary, error) {
	var summary RunSummary

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	fetchedAt := now().UTC()

	// Existing snapshot, absent on first run.
	existing := types.Dataset{}
	data, ok, err := p.Store.Download(ctx)
	if err != nil {
		return summary, &PersistError{Err: err}
	}
	if ok {
		existing, err = snapshot.DecodeBytes(data)
		if err != nil {
			return summary, &PipelineError{Err: fmt.Errorf("existing snapshot unreadable: %w", err)}
		}
		fmt.Fprintf(w, "existing snapshot: %d records\n", len(existing))
	} else {
		fmt.Fprintln(w, "no existing snapshot, starting fresh")
	}

	// Fetch and normalize, interleaved chunk by chunk.
	var incoming []types.ArticleRecord
	err = p.Client.Fetch(ctx, p.Config.Query, p.Config.Fetch, func(raw pubmed.Article) error {
		summary.Fetched++
		rec, ok := normalize.Record(raw, fetchedAt)
		if !ok {
			summary.Skipped++
			return nil
		}
		incoming = append(incoming, rec)
		return nil
	})
	if err != nil {
		return summary, &FetchError{Err: err}
	}
	fmt.Fprintf(w, "fetched %d records (%d skipped without PMID)\n", summary.Fetched, summary.Skipped)

	merged, stats := merge.Merge(existing, incoming)
	summary.New = stats.New
	summary.Updated = stats.Updated
	summary.Total = len(merged)
	fmt.Fprintf(w, "merged: %d new, %d updated, %d total\n", stats.New, stats.Updated, len(merged))

	out, err := snapshot.EncodeBytes(merged)
	if err != nil {
		return summary, &PipelineError{Err: err}
	}
	if err := p.Store.Upload(ctx, out); err != nil {
		return summary, &PersistError{Err: err}
	}
	fmt.Fprintf(w, "snapshot written (%d bytes)\n", len(out))

	return summary, nil
}
