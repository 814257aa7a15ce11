// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package format

import (
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names follow the CSL-JSON/CSL-YAML schema so that the
// export is consumable by Pandoc and reference managers.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Author         []CSLName `yaml:"author,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	Volume         string    `yaml:"volume,omitempty"`
	Issue          string    `yaml:"issue,omitempty"`
	Page           string    `yaml:"page,omitempty"`
	DOI            string    `yaml:"DOI,omitempty"`
	URL            string    `yaml:"URL,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// toCSLItems converts records into CSL item shape. A record with a journal is
// a journal article even when a conference is also present; journal wins.
func toCSLItems(records []types.CitationRecord) []CSLItem {
	items := make([]CSLItem, len(records))
	for i, r := range records {
		item := CSLItem{
			ID:     fmt.Sprintf("ref%d", i),
			Type:   "paper-conference",
			Title:  r.Title,
			Volume: r.Volume,
			Issue:  r.Issue,
			Page:   r.Pages,
			DOI:    r.DOI,
			URL:    r.URL,
		}
		if r.Journal != "" {
			item.Type = "article-journal"
			item.ContainerTitle = r.Journal
		} else {
			item.ContainerTitle = r.Conference
		}
		for _, a := range r.Authors {
			item.Author = append(item.Author, parseAuthorName(a))
		}
		if r.Year != 0 {
			item.Issued = &CSLDate{DateParts: [][]int{{r.Year}}}
		}
		items[i] = item
	}
	return items
}

// parseAuthorName splits a display name into CSL family/given parts. The
// last whitespace-separated token is the family name; single-token names use
// the literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given:  name[:idx],
		Family: name[idx+1:],
	}
}

// familyName returns the renderable surname for a CSL name.
func (n CSLName) familyName() string {
	if n.Family != "" {
		return n.Family
	}
	return n.Literal
}

// WriteCSL writes records as a CSL-YAML list to w.
func WriteCSL(records []types.CitationRecord, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(toCSLItems(records))
}
