// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize converts raw PubMed records into the fixed ArticleRecord
// schema at the API boundary. Records that cannot participate in
// deduplication (no PMID) are dropped here, not downstream.
package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/pubmed-sync/internal/pubmed"
	"github.com/pdiddy/pubmed-sync/pkg/types"
)

// Record maps one raw PubMed article into an ArticleRecord. The second
// return value is false when the record lacks a PMID and must be skipped.
// Pure: no I/O, deterministic for a given input and fetchedAt.
func Record(raw pubmed.Article, fetchedAt time.Time) (types.ArticleRecord, bool) {
	pmid := strings.TrimSpace(raw.Citation.PMID)
	if pmid == "" {
		return types.ArticleRecord{}, false
	}

	art := raw.Citation.Article
	return types.ArticleRecord{
		PMID:      pmid,
		Title:     strings.TrimSpace(art.Title),
		Abstract:  flattenAbstract(art.Abstract),
		Published: parsePubDate(art.Journal.Issue.PubDate),
		Journal:   strings.TrimSpace(art.Journal.Title),
		Authors:   joinAuthors(art.AuthorList.Authors),
		FetchedAt: fetchedAt,
	}, true
}

// flattenAbstract joins abstract sections into one string. Labeled sections
// of structured abstracts become "LABEL: text" segments.
func flattenAbstract(ab pubmed.Abstract) string {
	var parts []string
	for _, seg := range ab.Sections {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		if label := strings.TrimSpace(seg.Label); label != "" {
			text = label + ": " + text
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " ")
}

// joinAuthors renders the author list as "Fore Last, Fore Last". Group
// authorship falls back to the collective name.
func joinAuthors(authors []pubmed.Author) string {
	var names []string
	for _, a := range authors {
		name := strings.TrimSpace(strings.TrimSpace(a.ForeName) + " " + strings.TrimSpace(a.LastName))
		if name == "" {
			name = strings.TrimSpace(a.CollectiveName)
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

// monthNames maps MEDLINE month abbreviations to time.Month.
var monthNames = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// parsePubDate resolves a PubMed publication date. Missing month or day
// default to 1; an unparseable year yields the zero time. MedlineDate
// ("2010 Jan-Feb") contributes only its leading year.
func parsePubDate(pd pubmed.PubDate) time.Time {
	yearStr := strings.TrimSpace(pd.Year)
	if yearStr == "" {
		if fields := strings.Fields(pd.MedlineDate); len(fields) > 0 {
			yearStr = fields[0]
		}
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil || year <= 0 {
		return time.Time{}
	}

	month := time.January
	if m := strings.TrimSpace(pd.Month); m != "" {
		if n, err := strconv.Atoi(m); err == nil && n >= 1 && n <= 12 {
			month = time.Month(n)
		} else if named, ok := monthNames[strings.ToLower(m)]; ok {
			month = named
		}
	}

	day := 1
	if d, err := strconv.Atoi(strings.TrimSpace(pd.Day)); err == nil && d >= 1 && d <= 31 {
		day = d
	}

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
