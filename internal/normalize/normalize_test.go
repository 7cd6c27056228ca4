// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"testing"
	"time"

	"github.com/pdiddy/pubmed-sync/internal/pubmed"
)

var fetchedAt = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func rawArticle() pubmed.Article {
	return pubmed.Article{
		Citation: pubmed.MedlineCitation{
			PMID: "31000001",
			Article: pubmed.ArticleData{
				Title: "  Statin therapy and outcomes in heart failure.  ",
				Journal: pubmed.Journal{
					Title: "European Heart Journal",
					Issue: pubmed.JournalIssue{
						PubDate: pubmed.PubDate{Year: "2019", Month: "Mar", Day: "14"},
					},
				},
				Abstract: pubmed.Abstract{
					Sections: []pubmed.AbstractText{
						{Label: "BACKGROUND", Text: "Statins are widely prescribed."},
						{Label: "RESULTS", Text: "Outcomes improved."},
					},
				},
				AuthorList: pubmed.AuthorList{
					Authors: []pubmed.Author{
						{LastName: "Smith", ForeName: "Jane"},
						{CollectiveName: "HF Study Group"},
					},
				},
			},
		},
	}
}

func TestRecord(t *testing.T) {
	rec, ok := Record(rawArticle(), fetchedAt)
	if !ok {
		t.Fatal("Record() should accept a record with a PMID")
	}

	if rec.PMID != "31000001" {
		t.Errorf("PMID = %q, want 31000001", rec.PMID)
	}
	if rec.Title != "Statin therapy and outcomes in heart failure." {
		t.Errorf("Title = %q, want trimmed title", rec.Title)
	}
	if want := "BACKGROUND: Statins are widely prescribed. RESULTS: Outcomes improved."; rec.Abstract != want {
		t.Errorf("Abstract = %q, want %q", rec.Abstract, want)
	}
	if rec.Journal != "European Heart Journal" {
		t.Errorf("Journal = %q, want European Heart Journal", rec.Journal)
	}
	if rec.Authors != "Jane Smith, HF Study Group" {
		t.Errorf("Authors = %q, want joined names with collective fallback", rec.Authors)
	}
	if want := time.Date(2019, time.March, 14, 0, 0, 0, 0, time.UTC); !rec.Published.Equal(want) {
		t.Errorf("Published = %v, want %v", rec.Published, want)
	}
	if !rec.FetchedAt.Equal(fetchedAt) {
		t.Errorf("FetchedAt = %v, want %v", rec.FetchedAt, fetchedAt)
	}
}

func TestRecord_SkipsMissingPMID(t *testing.T) {
	raw := rawArticle()
	raw.Citation.PMID = "  "
	if _, ok := Record(raw, fetchedAt); ok {
		t.Fatal("Record() should skip a record without a PMID")
	}
}

func TestRecord_MissingOptionalFields(t *testing.T) {
	raw := pubmed.Article{Citation: pubmed.MedlineCitation{PMID: "42"}}
	rec, ok := Record(raw, fetchedAt)
	if !ok {
		t.Fatal("Record() should accept a bare record with a PMID")
	}
	if rec.Title != "" || rec.Abstract != "" || rec.Journal != "" || rec.Authors != "" {
		t.Errorf("optional fields should be empty, got %+v", rec)
	}
	if !rec.Published.IsZero() {
		t.Errorf("Published should be zero for a missing date, got %v", rec.Published)
	}
}

func TestRecord_Deterministic(t *testing.T) {
	a, _ := Record(rawArticle(), fetchedAt)
	b, _ := Record(rawArticle(), fetchedAt)
	if a != b {
		t.Errorf("Record() is not deterministic: %+v != %+v", a, b)
	}
}

func TestFlattenAbstract_UnlabeledSections(t *testing.T) {
	ab := pubmed.Abstract{Sections: []pubmed.AbstractText{
		{Text: "  First part. "},
		{Text: ""},
		{Text: "Second part."},
	}}
	if got, want := flattenAbstract(ab), "First part. Second part."; got != want {
		t.Errorf("flattenAbstract() = %q, want %q", got, want)
	}
}

func TestParsePubDate(t *testing.T) {
	tests := []struct {
		name string
		pd   pubmed.PubDate
		want time.Time
	}{
		{"full structured date", pubmed.PubDate{Year: "2019", Month: "Mar", Day: "14"},
			time.Date(2019, time.March, 14, 0, 0, 0, 0, time.UTC)},
		{"numeric month", pubmed.PubDate{Year: "2020", Month: "07"},
			time.Date(2020, time.July, 1, 0, 0, 0, 0, time.UTC)},
		{"year only", pubmed.PubDate{Year: "2015"},
			time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{"medline date range", pubmed.PubDate{MedlineDate: "2012 Jan-Feb"},
			time.Date(2012, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{"empty", pubmed.PubDate{}, time.Time{}},
		{"garbage year", pubmed.PubDate{Year: "N/A"}, time.Time{}},
		{"garbage medline date", pubmed.PubDate{MedlineDate: "Winter"}, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parsePubDate(tt.pd)
			if !got.Equal(tt.want) {
				t.Errorf("parsePubDate(%+v) = %v, want %v", tt.pd, got, tt.want)
			}
		})
	}
}
