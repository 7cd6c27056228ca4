// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package snapshot serializes the cumulative dataset to CSV and moves it
// in and out of durable storage. A snapshot is always replaced whole;
// there is no append path and no retained history.
package snapshot

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/pubmed-sync/pkg/types"
)

// columns is the stable CSV header, in ArticleRecord field order.
var columns = []string{"pmid", "title", "abstract", "published", "journal", "authors", "fetched_at"}

// dateLayout renders publication dates. Unknown dates serialize as "".
const dateLayout = "2006-01-02"

// Encode writes the dataset as CSV with the fixed column order. The
// output is deterministic: identical datasets encode byte-identically.
func Encode(w io.Writer, ds types.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range ds {
		published := ""
		if !r.Published.IsZero() {
			published = r.Published.Format(dateLayout)
		}
		fetchedAt := ""
		if !r.FetchedAt.IsZero() {
			fetchedAt = r.FetchedAt.UTC().Format(time.RFC3339)
		}
		row := []string{r.PMID, r.Title, r.Abstract, published, r.Journal, r.Authors, fetchedAt}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing record %s: %w", r.PMID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Decode reads a CSV snapshot back into a dataset. The header must match
// the fixed column order exactly; a snapshot written by a different schema
// version is a hard error, not a silent remap.
func Decode(r io.Reader) (types.Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(columns)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("snapshot is empty: missing header")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for i, col := range columns {
		if header[i] != col {
			return nil, fmt.Errorf("unexpected snapshot column %d: got %q, want %q", i, header[i], col)
		}
	}

	var ds types.Dataset
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			return ds, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading snapshot line %d: %w", line, err)
		}

		rec := types.ArticleRecord{
			PMID:     row[0],
			Title:    row[1],
			Abstract: row[2],
			Journal:  row[4],
			Authors:  row[5],
		}
		if row[3] != "" {
			t, err := time.Parse(dateLayout, row[3])
			if err != nil {
				return nil, fmt.Errorf("snapshot line %d: bad published date %q: %w", line, row[3], err)
			}
			rec.Published = t
		}
		if row[6] != "" {
			t, err := time.Parse(time.RFC3339, row[6])
			if err != nil {
				return nil, fmt.Errorf("snapshot line %d: bad fetched_at %q: %w", line, row[6], err)
			}
			rec.FetchedAt = t
		}
		ds = append(ds, rec)
	}
}

// EncodeBytes is Encode into a byte slice, for stores that upload whole
// payloads.
func EncodeBytes(ds types.Dataset) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, ds); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeBytes is Decode from a byte slice.
func DecodeBytes(data []byte) (types.Dataset, error) {
	return Decode(bytes.NewReader(data))
}
