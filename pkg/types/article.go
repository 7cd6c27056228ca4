// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the pubmed-sync pipeline.
package types

import "time"

// ArticleRecord is one normalized PubMed literature entry. The PMID is the
// deduplication key; every other field is payload.
type ArticleRecord struct {
	// PMID is the PubMed accession number. Always non-empty: records
	// without a PMID are dropped at the normalization boundary.
	PMID string `json:"pmid" yaml:"pmid"`

	// Title is the article title as returned by the source. May be empty.
	Title string `json:"title" yaml:"title"`

	// Abstract is the flattened abstract text. Structured abstracts are
	// joined as "LABEL: text" segments. May be empty.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Published is the publication date. The zero value means the source
	// did not report a usable date.
	Published time.Time `json:"published" yaml:"published"`

	// Journal is the full journal title. Source metadata, opaque to the merge.
	Journal string `json:"journal" yaml:"journal"`

	// Authors is the comma-joined author list ("Fore Last, Fore Last").
	// Source metadata, opaque to the merge.
	Authors string `json:"authors" yaml:"authors"`

	// FetchedAt marks when this copy was retrieved from the API. Carried
	// for traceability only; the merge never compares it.
	FetchedAt time.Time `json:"fetched_at" yaml:"fetched_at"`
}

// Dataset is the cumulative snapshot: an ordered sequence of records with
// at most one record per distinct PMID.
type Dataset []ArticleRecord
