// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package format

import (
	"fmt"
	"strings"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// BibTeX renders one @article entry per record, entries separated by a blank
// line. Fields are emitted only when present.
func BibTeX(records []types.CitationRecord) string {
	entries := make([]string, len(records))
	for i, r := range records {
		entries[i] = bibtexEntry(r)
	}
	return strings.Join(entries, "\n\n")
}

// bibtexEntry writes a single @article block. The cite key is the
// alphanumeric-lowercased last name of the first author (or "ref" with no
// authors) followed by the year (or "n.d." when unknown).
func bibtexEntry(r types.CitationRecord) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("@article{%s,\n", CiteKey(r)))

	if len(r.Authors) > 0 {
		b.WriteString(fmt.Sprintf("  author = {%s},\n", strings.Join(r.Authors, " and ")))
	}
	if r.Title != "" {
		b.WriteString(fmt.Sprintf("  title = {%s},\n", r.Title))
	}
	if r.Journal != "" {
		b.WriteString(fmt.Sprintf("  journal = {%s},\n", r.Journal))
	}
	if r.Year != 0 {
		b.WriteString(fmt.Sprintf("  year = {%d},\n", r.Year))
	}
	if r.DOI != "" {
		b.WriteString(fmt.Sprintf("  doi = {%s},\n", r.DOI))
	}
	if r.URL != "" {
		b.WriteString(fmt.Sprintf("  url = {%s},\n", r.URL))
	}

	b.WriteString("}")
	return b.String()
}

// CiteKey builds the entry key for a record.
func CiteKey(r types.CitationRecord) string {
	author := "ref"
	if first := r.FirstAuthor(); first != "" {
		fields := strings.Fields(first)
		last := fields[len(fields)-1]
		var cleaned strings.Builder
		for _, c := range strings.ToLower(last) {
			if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
				cleaned.WriteRune(c)
			}
		}
		if cleaned.Len() > 0 {
			author = cleaned.String()
		}
	}

	year := noDate
	if r.Year != 0 {
		year = fmt.Sprintf("%d", r.Year)
	}
	return author + year
}
