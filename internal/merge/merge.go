// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package merge reconciles a freshly fetched batch with the existing
// cumulative dataset, deduplicating by PMID.
package merge

import "github.com/pdiddy/pubmed-sync/pkg/types"

// Stats counts the outcome of one merge.
type Stats struct {
	// New is the number of distinct PMIDs added to the dataset.
	New int
	// Updated is the number of distinct existing PMIDs replaced by an
	// incoming record.
	Updated int
}

// Merge combines the existing dataset with an incoming batch. Incoming
// records always win over existing ones: within one run the batch is
// inherently newer than anything persisted, so no timestamp comparison is
// needed. When the same PMID appears more than once in the batch, the last
// occurrence wins.
//
// Output order is deterministic: existing records keep their positions
// (updated in place), new records are appended in first-insertion order.
// Repeated runs over identical input therefore serialize byte-identically.
// A nil existing dataset is an empty one; an empty incoming batch returns
// the existing dataset unchanged.
func Merge(existing types.Dataset, incoming []types.ArticleRecord) (types.Dataset, Stats) {
	merged := make(types.Dataset, len(existing), len(existing)+len(incoming))
	copy(merged, existing)

	index := make(map[string]int, len(existing))
	for i, r := range existing {
		index[r.PMID] = i
	}

	var stats Stats
	fromExisting := len(existing)
	counted := make(map[string]bool)

	for _, r := range incoming {
		if i, ok := index[r.PMID]; ok {
			merged[i] = r
			if i < fromExisting && !counted[r.PMID] {
				stats.Updated++
				counted[r.PMID] = true
			}
			continue
		}
		index[r.PMID] = len(merged)
		merged = append(merged, r)
		stats.New++
	}

	return merged, stats
}
