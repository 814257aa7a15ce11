// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/citation-engine/internal/httputil"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared as
// a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const semanticFields = "title,authors,year,journal,externalIds,url"

// semanticClient queries the secondary registry by title.
type semanticClient struct {
	http      *http.Client
	apiKey    string
	userAgent string
}

// Semantic Scholar wire structures.
type semanticResponse struct {
	Data []semanticPaper `json:"data"`
}

type semanticPaper struct {
	Title       string              `json:"title"`
	Year        int                 `json:"year"`
	URL         string              `json:"url"`
	Authors     []semanticAuthor    `json:"authors"`
	ExternalIDs semanticExternalIDs `json:"externalIds"`
}

type semanticAuthor struct {
	Name string `json:"name"`
}

type semanticExternalIDs struct {
	DOI string `json:"DOI"`
}

// searchTitle returns the top paper matching title, or nil when the registry
// has no match.
func (c *semanticClient) searchTitle(ctx context.Context, title string) (*semanticPaper, error) {
	params := url.Values{
		"query":  {title},
		"limit":  {"1"},
		"fields": {semanticFields},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, semanticAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := httputil.DoWithRetry(ctx, c.http, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Semantic Scholar search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}
	if len(sr.Data) == 0 {
		return nil, nil
	}
	return &sr.Data[0], nil
}

// mergeSemantic applies the registry-wins precedence using Semantic
// Scholar's field names. The DOI comes from the external-identifier map.
func mergeSemantic(rec *types.CitationRecord, p *semanticPaper) {
	if p.Title != "" {
		rec.Title = p.Title
	}
	if p.Year != 0 {
		rec.Year = p.Year
	}
	if p.URL != "" {
		rec.URL = p.URL
	}
	if p.ExternalIDs.DOI != "" {
		rec.DOI = p.ExternalIDs.DOI
	}
	if len(p.Authors) > 0 {
		authors := make([]string, 0, len(p.Authors))
		for _, a := range p.Authors {
			if a.Name != "" {
				authors = append(authors, a.Name)
			}
		}
		rec.Authors = authors
	}
}
