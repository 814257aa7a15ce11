// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package format renders verified citation records into bibliography styles
// and BibTeX. Formatting is pure and never fails the caller: if the styled
// renderer cannot handle the batch, the whole batch falls back to the manual
// template formatter so output style stays consistent within one response.
package format

import (
	"fmt"
	"strings"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// Placeholders substituted for missing fields.
const (
	unknownAuthor = "Unknown Author"
	noDate        = "n.d."
	untitled      = "Untitled"
	noSource      = "Academic Repository"
)

// Output is the result of formatting one batch.
type Output struct {
	Formatted []string `json:"formatted"`
	BibTeX    string   `json:"bibtex"`
	Warning   string   `json:"warning,omitempty"`
}

// NormalizeStyle lowercases name and maps unrecognized styles to ieee.
func NormalizeStyle(name string) string {
	switch s := strings.ToLower(strings.TrimSpace(name)); s {
	case "ieee", "apa", "acm", "chicago", "vancouver":
		return s
	default:
		return "ieee"
	}
}

// Format renders records in the given style plus a BibTeX export. The styled
// path converts records to CSL items and renders per style rule; any panic in
// that path degrades to ManualFormat for the entire batch. BibTeX generation
// is independent of which formatter path succeeded.
func Format(records []types.CitationRecord, styleName string) Output {
	style := NormalizeStyle(styleName)

	out := Output{BibTeX: BibTeX(records)}
	out.Formatted = renderBatch(records, style, &out.Warning)
	return out
}

// renderBatch tries the styled renderer and falls back to the manual
// formatter on any panic.
func renderBatch(records []types.CitationRecord, style string, warning *string) (formatted []string) {
	defer func() {
		if r := recover(); r != nil {
			*warning = fmt.Sprintf("style rendering failed: %v", r)
			formatted = ManualFormat(records, style)
		}
	}()

	items := toCSLItems(records)
	formatted = make([]string, len(items))
	for i, item := range items {
		formatted[i] = renderStyled(item, style)
	}
	return formatted
}

// renderStyled renders one CSL item in one of the recognized styles.
func renderStyled(item CSLItem, style string) string {
	switch style {
	case "apa":
		return renderAPA(item)
	case "acm":
		return renderACM(item)
	case "chicago":
		return renderChicago(item)
	case "vancouver":
		return renderVancouver(item)
	default:
		return renderIEEE(item)
	}
}

func (item CSLItem) yearString() string {
	if item.Issued == nil || len(item.Issued.DateParts) == 0 || len(item.Issued.DateParts[0]) == 0 {
		return noDate
	}
	return fmt.Sprintf("%d", item.Issued.DateParts[0][0])
}

func (item CSLItem) titleOr() string {
	if item.Title == "" {
		return untitled
	}
	return item.Title
}

func (item CSLItem) containerOr() string {
	if item.ContainerTitle == "" {
		return noSource
	}
	return item.ContainerTitle
}

// initialed renders a name as "A. Vaswani".
func initialed(n CSLName) string {
	family := n.familyName()
	if n.Given == "" {
		return family
	}
	var initials []string
	for _, part := range strings.Fields(n.Given) {
		initials = append(initials, string([]rune(part)[0])+".")
	}
	return strings.Join(initials, " ") + " " + family
}

// inverted renders a name as "Vaswani, A.".
func inverted(n CSLName) string {
	family := n.familyName()
	if n.Given == "" {
		return family
	}
	var initials []string
	for _, part := range strings.Fields(n.Given) {
		initials = append(initials, string([]rune(part)[0])+".")
	}
	return family + ", " + strings.Join(initials, " ")
}

func renderIEEE(item CSLItem) string {
	var names []string
	for _, a := range item.Author {
		names = append(names, initialed(a))
	}
	authors := unknownAuthor
	if len(names) > 0 {
		authors = strings.Join(names, ", ")
	}

	parts := []string{fmt.Sprintf("%s, \"%s,\"", authors, item.titleOr()), item.containerOr()}
	if item.Volume != "" {
		parts = append(parts, "vol. "+item.Volume)
	}
	if item.Issue != "" {
		parts = append(parts, "no. "+item.Issue)
	}
	if item.Page != "" {
		parts = append(parts, "pp. "+item.Page)
	}
	parts = append(parts, item.yearString())
	return strings.Join(parts, ", ") + "."
}

func renderAPA(item CSLItem) string {
	var names []string
	for _, a := range item.Author {
		names = append(names, inverted(a))
	}
	authors := unknownAuthor
	switch len(names) {
	case 0:
	case 1:
		authors = names[0]
	default:
		authors = strings.Join(names[:len(names)-1], ", ") + ", & " + names[len(names)-1]
	}

	source := item.containerOr()
	if item.Volume != "" {
		source += ", " + item.Volume
		if item.Issue != "" {
			source += "(" + item.Issue + ")"
		}
	}
	if item.Page != "" {
		source += ", " + item.Page
	}
	return fmt.Sprintf("%s (%s). %s. %s.", authors, item.yearString(), item.titleOr(), source)
}

func renderACM(item CSLItem) string {
	var names []string
	for _, a := range item.Author {
		names = append(names, inverted(a))
	}
	authors := unknownAuthor
	if len(names) > 0 {
		authors = strings.Join(names, " and ")
	}
	return fmt.Sprintf("%s %s. %s. %s.", authors, item.yearString(), item.titleOr(), item.containerOr())
}

func renderChicago(item CSLItem) string {
	var names []string
	for i, a := range item.Author {
		if i == 0 {
			family := a.familyName()
			if a.Given != "" {
				names = append(names, family+", "+a.Given)
			} else {
				names = append(names, family)
			}
			continue
		}
		names = append(names, strings.TrimSpace(a.Given+" "+a.familyName()))
	}
	authors := unknownAuthor
	switch len(names) {
	case 0:
	case 1:
		authors = names[0]
	default:
		authors = strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	}
	return fmt.Sprintf("%s. \"%s.\" %s (%s).", authors, item.titleOr(), item.containerOr(), item.yearString())
}

func renderVancouver(item CSLItem) string {
	var names []string
	for _, a := range item.Author {
		family := a.familyName()
		if a.Given == "" {
			names = append(names, family)
			continue
		}
		var initials strings.Builder
		for _, part := range strings.Fields(a.Given) {
			initials.WriteRune([]rune(part)[0])
		}
		names = append(names, family+" "+initials.String())
	}
	authors := unknownAuthor
	if len(names) > 0 {
		authors = strings.Join(names, ", ")
	}

	tail := item.yearString()
	if item.Volume != "" {
		tail += ";" + item.Volume
		if item.Issue != "" {
			tail += "(" + item.Issue + ")"
		}
	}
	if item.Page != "" {
		tail += ":" + item.Page
	}
	return fmt.Sprintf("%s. %s. %s. %s.", authors, item.titleOr(), item.containerOr(), tail)
}

// ManualFormat is the deterministic fallback formatter: one templated line
// per record, with fixed placeholders for missing authors, year, and title.
// The source is the journal, else the conference, else a fixed placeholder.
func ManualFormat(records []types.CitationRecord, styleName string) []string {
	style := strings.ToLower(strings.TrimSpace(styleName))

	formatted := make([]string, len(records))
	for i, r := range records {
		authors := unknownAuthor
		if len(r.Authors) > 0 {
			authors = strings.Join(r.Authors, ", ")
		}
		year := noDate
		if r.Year != 0 {
			year = fmt.Sprintf("%d", r.Year)
		}
		title := r.Title
		if title == "" {
			title = untitled
		}
		source := r.Journal
		if source == "" {
			source = r.Conference
		}
		if source == "" {
			source = noSource
		}

		switch style {
		case "apa":
			formatted[i] = fmt.Sprintf("%s (%s). %s. %s.", authors, year, title, source)
		case "ieee":
			formatted[i] = fmt.Sprintf("%s, \"%s,\" %s, %s.", authors, title, source, year)
		default:
			formatted[i] = fmt.Sprintf("%s. %s. %s. %s.", authors, year, title, source)
		}
	}
	return formatted
}
