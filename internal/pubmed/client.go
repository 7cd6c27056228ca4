// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed queries the NCBI E-utilities API for literature records.
// A harvest is two calls: esearch returns the PMIDs matching a query, and
// efetch resolves PMIDs to MEDLINE XML records in fixed-size chunks.
package pubmed

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/pubmed-sync/internal/httputil"
	"github.com/pdiddy/pubmed-sync/pkg/types"
)

// E-utilities endpoints. Declared as vars so tests can substitute an
// httptest server.
var (
	ESearchBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	EFetchBase  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"
)

// tool is the Entrez "tool" identification parameter.
const tool = "pubmed-sync"

const (
	defaultMaxResults = 1000
	defaultPageSize   = 200
)

// Client calls the PubMed E-utilities API.
type Client struct {
	HTTP *http.Client
}

// Search runs esearch and returns up to cfg.MaxResults PMIDs for the query,
// sorted by relevance, in the order the API returns them.
func (c *Client) Search(ctx context.Context, query string, cfg types.FetchConfig) ([]string, error) {
	if query == "" {
		return nil, fmt.Errorf("empty PubMed query")
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	params := url.Values{
		"db":      {"pubmed"},
		"term":    {query},
		"retmax":  {fmt.Sprintf("%d", maxResults)},
		"retmode": {"json"},
		"sort":    {"relevance"},
	}
	identify(params, cfg)

	body, err := c.get(ctx, ESearchBase+"?"+params.Encode(), cfg)
	if err != nil {
		return nil, fmt.Errorf("esearch request: %w", err)
	}
	defer body.Close()

	var er esearchResponse
	if err := json.NewDecoder(body).Decode(&er); err != nil {
		return nil, fmt.Errorf("parsing esearch response: %w", err)
	}

	return er.Result.IDList, nil
}

// FetchChunk runs efetch for one chunk of PMIDs and returns the raw
// MEDLINE records in API order.
func (c *Client) FetchChunk(ctx context.Context, pmids []string, cfg types.FetchConfig) ([]Article, error) {
	if len(pmids) == 0 {
		return nil, nil
	}

	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(pmids, ",")},
		"rettype": {"medline"},
		"retmode": {"xml"},
	}
	identify(params, cfg)

	body, err := c.get(ctx, EFetchBase+"?"+params.Encode(), cfg)
	if err != nil {
		return nil, fmt.Errorf("efetch request: %w", err)
	}
	defer body.Close()

	var set articleSet
	if err := xml.NewDecoder(body).Decode(&set); err != nil {
		return nil, fmt.Errorf("parsing efetch response: %w", err)
	}

	return set.Articles, nil
}

// Fetch streams all records for a query through fn, chunk by chunk.
// PMIDs from Search are resolved in PageSize batches with ChunkDelay
// between consecutive efetch calls. Iteration stops at the first error;
// the sequence is not restartable.
func (c *Client) Fetch(ctx context.Context, query string, cfg types.FetchConfig, fn func(Article) error) error {
	pmids, err := c.Search(ctx, query, cfg)
	if err != nil {
		return err
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	for start := 0; start < len(pmids); start += pageSize {
		if start > 0 && cfg.ChunkDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(cfg.ChunkDelay):
			}
		}

		end := start + pageSize
		if end > len(pmids) {
			end = len(pmids)
		}

		articles, err := c.FetchChunk(ctx, pmids[start:end], cfg)
		if err != nil {
			return err
		}
		for _, a := range articles {
			if err := fn(a); err != nil {
				return err
			}
		}
	}
	return nil
}

// get issues a GET with retry-on-429 and returns the response body on HTTP 200.
func (c *Client) get(ctx context.Context, reqURL string, cfg types.FetchConfig) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, 0)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("E-utilities returned HTTP %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// identify attaches the Entrez identification parameters. NCBI asks every
// caller to send tool and email; an API key raises the rate limit.
func identify(params url.Values, cfg types.FetchConfig) {
	params.Set("tool", tool)
	if cfg.Email != "" {
		params.Set("email", cfg.Email)
	}
	if cfg.APIKey != "" {
		params.Set("api_key", cfg.APIKey)
	}
}

// esearch JSON structures.
type esearchResponse struct {
	Result esearchResult `json:"esearchresult"`
}

type esearchResult struct {
	Count  string   `json:"count"`
	IDList []string `json:"idlist"`
}

// MEDLINE XML structures. Only the fields the normalizer reads are mapped;
// everything else in the envelope is ignored by the decoder.
type articleSet struct {
	XMLName  xml.Name  `xml:"PubmedArticleSet"`
	Articles []Article `xml:"PubmedArticle"`
}

// Article is one raw, source-shaped PubMed record.
type Article struct {
	Citation MedlineCitation `xml:"MedlineCitation"`
}

// MedlineCitation carries the PMID and the article payload.
type MedlineCitation struct {
	PMID    string      `xml:"PMID"`
	Article ArticleData `xml:"Article"`
}

// ArticleData is the bibliographic payload of a citation.
type ArticleData struct {
	Title      string     `xml:"ArticleTitle"`
	Journal    Journal    `xml:"Journal"`
	Abstract   Abstract   `xml:"Abstract"`
	AuthorList AuthorList `xml:"AuthorList"`
}

// Journal carries the journal title and issue date.
type Journal struct {
	Title string       `xml:"Title"`
	Issue JournalIssue `xml:"JournalIssue"`
}

// JournalIssue carries the publication date.
type JournalIssue struct {
	PubDate PubDate `xml:"PubDate"`
}

// PubDate is either a structured Year/Month/Day or a free-form MedlineDate
// ("2010 Jan-Feb"), never both.
type PubDate struct {
	Year        string `xml:"Year"`
	Month       string `xml:"Month"`
	Day         string `xml:"Day"`
	MedlineDate string `xml:"MedlineDate"`
}

// Abstract holds the abstract sections. Structured abstracts carry one
// AbstractText element per labeled section.
type Abstract struct {
	Sections []AbstractText `xml:"AbstractText"`
}

// AbstractText is one abstract section with an optional label
// (e.g. "BACKGROUND", "METHODS").
type AbstractText struct {
	Label string `xml:"Label,attr"`
	Text  string `xml:",chardata"`
}

// AuthorList holds the article authors in source order.
type AuthorList struct {
	Authors []Author `xml:"Author"`
}

// Author is one author name. CollectiveName is set for group authorship
// instead of the personal name fields.
type Author struct {
	LastName       string `xml:"LastName"`
	ForeName       string `xml:"ForeName"`
	CollectiveName string `xml:"CollectiveName"`
}
