// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/citation-engine/internal/httputil"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// crossrefAPIBase is the Crossref works endpoint. Declared as a var so tests
// can substitute an httptest server.
var crossrefAPIBase = "https://api.crossref.org/works"

// doiResolverPrefix is stripped from DOIs given as resolver URLs.
const doiResolverPrefix = "https://doi.org/"

// crossrefClient queries the primary registry by DOI or by title search.
type crossrefClient struct {
	http      *http.Client
	mailto    string
	userAgent string
}

// Crossref wire structures. Title and container-title arrive as arrays.
type crossrefWork struct {
	Title          []string         `json:"title"`
	DOI            string           `json:"DOI"`
	URL            string           `json:"URL"`
	Created        crossrefDate     `json:"created"`
	ContainerTitle []string         `json:"container-title"`
	Author         []crossrefAuthor `json:"author"`
}

type crossrefDate struct {
	DateParts [][]int `json:"date-parts"`
}

type crossrefAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

type crossrefWorkEnvelope struct {
	Message crossrefWork `json:"message"`
}

type crossrefListEnvelope struct {
	Message struct {
		Items []crossrefWork `json:"items"`
	} `json:"message"`
}

// CleanDOI trims whitespace and a leading DOI-resolver URL prefix.
func CleanDOI(doi string) string {
	return strings.TrimPrefix(strings.TrimSpace(doi), doiResolverPrefix)
}

// lookupDOI fetches the work registered under doi. A nil work with nil error
// means the registry had no match.
func (c *crossrefClient) lookupDOI(ctx context.Context, doi string) (*crossrefWork, error) {
	reqURL := crossrefAPIBase + "/" + CleanDOI(doi)
	if c.mailto != "" {
		reqURL += "?mailto=" + url.QueryEscape(c.mailto)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := httputil.DoWithRetry(ctx, c.http, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Crossref DOI lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var env crossrefWorkEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("parsing Crossref response: %w", err)
	}
	return &env.Message, nil
}

// searchTitle queries Crossref for the single best match on title, filtered
// by the first author when available. A nil work with nil error means no match.
func (c *crossrefClient) searchTitle(ctx context.Context, title, author string) (*crossrefWork, error) {
	params := url.Values{
		"query.title": {title},
		"rows":        {"1"},
	}
	if author != "" {
		params.Set("query.author", author)
	}
	if c.mailto != "" {
		params.Set("mailto", c.mailto)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, crossrefAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := httputil.DoWithRetry(ctx, c.http, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Crossref title search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var env crossrefListEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("parsing Crossref response: %w", err)
	}
	if len(env.Message.Items) == 0 {
		return nil, nil
	}
	return &env.Message.Items[0], nil
}

// mergeCrossref overwrites record fields with registry values whenever the
// registry supplies them; existing values are kept otherwise.
func mergeCrossref(rec *types.CitationRecord, w *crossrefWork) {
	if len(w.Title) > 0 && w.Title[0] != "" {
		rec.Title = w.Title[0]
	}
	if w.DOI != "" {
		rec.DOI = w.DOI
	}
	if w.URL != "" {
		rec.URL = w.URL
	}
	if len(w.Created.DateParts) > 0 && len(w.Created.DateParts[0]) > 0 {
		rec.Year = w.Created.DateParts[0][0]
	}
	if len(w.ContainerTitle) > 0 && w.ContainerTitle[0] != "" {
		rec.Journal = w.ContainerTitle[0]
	}
	if len(w.Author) > 0 {
		authors := make([]string, 0, len(w.Author))
		for _, a := range w.Author {
			name := strings.TrimSpace(a.Given + " " + a.Family)
			if name != "" {
				authors = append(authors, name)
			}
		}
		rec.Authors = authors
	}
}
