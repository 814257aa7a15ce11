// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data model and configuration shared across
// pipeline stages.
package types

// CitationRecord is one bibliographic reference. Records are created by the
// extraction stage, mutated in place by the verification stage, and read by
// the formatting stage. A zero Year means the year is unknown.
type CitationRecord struct {
	Authors    []string `json:"authors,omitempty" yaml:"authors,omitempty"`
	Title      string   `json:"title,omitempty" yaml:"title,omitempty"`
	Journal    string   `json:"journal,omitempty" yaml:"journal,omitempty"`
	Conference string   `json:"conference,omitempty" yaml:"conference,omitempty"`
	Year       int      `json:"year,omitempty" yaml:"year,omitempty"`
	Volume     string   `json:"volume,omitempty" yaml:"volume,omitempty"`
	Issue      string   `json:"issue,omitempty" yaml:"issue,omitempty"`
	Pages      string   `json:"pages,omitempty" yaml:"pages,omitempty"`
	DOI        string   `json:"doi,omitempty" yaml:"doi,omitempty"`
	URL        string   `json:"url,omitempty" yaml:"url,omitempty"`
	Verified   bool     `json:"verified" yaml:"verified"`
}

// FirstAuthor returns the first author display name, or "" when the record
// has no authors.
func (r CitationRecord) FirstAuthor() string {
	if len(r.Authors) == 0 {
		return ""
	}
	return r.Authors[0]
}
