// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package format

import (
	"strings"
	"testing"

	"github.com/pdiddy/citation-engine/pkg/types"
)

var attentionRecord = types.CitationRecord{
	Authors:    []string{"Ashish Vaswani", "Noam Shazeer"},
	Title:      "Attention Is All You Need",
	Conference: "NeurIPS",
	Year:       2017,
	Verified:   true,
}

func TestNormalizeStyle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ieee", "ieee"},
		{"IEEE", "ieee"},
		{"apa", "apa"},
		{"Chicago", "chicago"},
		{"vancouver", "vancouver"},
		{"ACM", "acm"},
		{"mla", "ieee"},
		{"", "ieee"},
	}
	for _, tt := range tests {
		if got := NormalizeStyle(tt.in); got != tt.want {
			t.Errorf("NormalizeStyle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormat_IEEE(t *testing.T) {
	out := Format([]types.CitationRecord{attentionRecord}, "ieee")
	if len(out.Formatted) != 1 {
		t.Fatalf("got %d formatted entries, want 1", len(out.Formatted))
	}
	got := out.Formatted[0]
	if !strings.Contains(got, `"Attention Is All You Need,"`) {
		t.Errorf("ieee entry missing quoted title: %q", got)
	}
	if !strings.Contains(got, "A. Vaswani") || !strings.Contains(got, "N. Shazeer") {
		t.Errorf("ieee entry missing initialed authors: %q", got)
	}
	if !strings.Contains(got, "NeurIPS") || !strings.HasSuffix(got, "2017.") {
		t.Errorf("ieee entry missing source or year: %q", got)
	}
	if out.Warning != "" {
		t.Errorf("unexpected warning: %q", out.Warning)
	}
}

func TestFormat_APA(t *testing.T) {
	out := Format([]types.CitationRecord{attentionRecord}, "APA")
	got := out.Formatted[0]
	if !strings.Contains(got, "(2017)") {
		t.Errorf("apa entry missing parenthesized year: %q", got)
	}
	if !strings.Contains(got, "Vaswani, A.") {
		t.Errorf("apa entry missing inverted author: %q", got)
	}
}

func TestFormat_JournalWinsOverConference(t *testing.T) {
	rec := attentionRecord
	rec.Journal = "Some Journal"
	out := Format([]types.CitationRecord{rec}, "ieee")
	if !strings.Contains(out.Formatted[0], "Some Journal") {
		t.Errorf("journal must take precedence over conference: %q", out.Formatted[0])
	}
	if strings.Contains(out.Formatted[0], "NeurIPS") {
		t.Errorf("conference must not render when a journal is present: %q", out.Formatted[0])
	}
}

func TestFormat_Idempotent(t *testing.T) {
	records := []types.CitationRecord{
		attentionRecord,
		{Title: "Untitled Mystery"},
	}
	a := Format(records, "vancouver")
	b := Format(records, "vancouver")
	if len(a.Formatted) != len(b.Formatted) {
		t.Fatal("formatted lengths differ between runs")
	}
	for i := range a.Formatted {
		if a.Formatted[i] != b.Formatted[i] {
			t.Errorf("entry %d differs: %q vs %q", i, a.Formatted[i], b.Formatted[i])
		}
	}
	if a.BibTeX != b.BibTeX {
		t.Error("bibtex differs between runs")
	}
}

func TestManualFormat_Templates(t *testing.T) {
	rec := types.CitationRecord{
		Authors: []string{"A. Vaswani"},
		Title:   "Attention Is All You Need",
		Journal: "NeurIPS Proceedings",
		Year:    2017,
	}

	tests := []struct {
		style string
		want  string
	}{
		{"apa", "A. Vaswani (2017). Attention Is All You Need. NeurIPS Proceedings."},
		{"ieee", `A. Vaswani, "Attention Is All You Need," NeurIPS Proceedings, 2017.`},
		{"chicago", "A. Vaswani. 2017. Attention Is All You Need. NeurIPS Proceedings."},
	}
	for _, tt := range tests {
		t.Run(tt.style, func(t *testing.T) {
			got := ManualFormat([]types.CitationRecord{rec}, tt.style)
			if got[0] != tt.want {
				t.Errorf("got  %q\nwant %q", got[0], tt.want)
			}
		})
	}
}

func TestManualFormat_PlaceholdersAndLength(t *testing.T) {
	records := []types.CitationRecord{
		{}, // everything missing
		{Title: "Only a Title"},
		{Conference: "Only a Conference"},
	}
	got := ManualFormat(records, "ieee")
	if len(got) != len(records) {
		t.Fatalf("output length %d, want %d", len(got), len(records))
	}
	for i, line := range got {
		if line == "" {
			t.Errorf("entry %d is empty", i)
		}
	}
	if !strings.Contains(got[0], "Unknown Author") || !strings.Contains(got[0], "Untitled") ||
		!strings.Contains(got[0], "n.d.") || !strings.Contains(got[0], "Academic Repository") {
		t.Errorf("placeholders missing: %q", got[0])
	}
	if !strings.Contains(got[2], "Only a Conference") {
		t.Errorf("conference must be used as source when journal absent: %q", got[2])
	}
}

func TestParseAuthorName(t *testing.T) {
	tests := []struct {
		in   string
		want CSLName
	}{
		{"Ashish Vaswani", CSLName{Given: "Ashish", Family: "Vaswani"}},
		{"Llion Aidan N. Gomez", CSLName{Given: "Llion Aidan N.", Family: "Gomez"}},
		{"Madonna", CSLName{Literal: "Madonna"}},
		{"", CSLName{}},
	}
	for _, tt := range tests {
		if got := parseAuthorName(tt.in); got != tt.want {
			t.Errorf("parseAuthorName(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestBibTeX(t *testing.T) {
	records := []types.CitationRecord{
		{
			Authors: []string{"Ashish Vaswani", "Noam Shazeer"},
			Title:   "Attention Is All You Need",
			Journal: "NeurIPS Proceedings",
			Year:    2017,
			DOI:     "10.5555/3295222.3295349",
		},
		{Title: "Anonymous Notes"},
	}

	got := BibTeX(records)
	if n := strings.Count(got, "@article{"); n != 2 {
		t.Fatalf("got %d @article blocks, want 2", n)
	}
	if !strings.Contains(got, "@article{vaswani2017,") {
		t.Errorf("missing cite key vaswani2017:\n%s", got)
	}
	if !strings.Contains(got, "author = {Ashish Vaswani and Noam Shazeer},") {
		t.Errorf("authors must join with \" and \":\n%s", got)
	}
	if !strings.Contains(got, "year = {2017},") {
		t.Errorf("missing year field:\n%s", got)
	}
	if !strings.Contains(got, "@article{refn.d.,") {
		t.Errorf("authorless undated record must key as refn.d.:\n%s", got)
	}
	if strings.Contains(got, "journal = {},") {
		t.Error("empty fields must not be emitted")
	}
}

func TestCiteKey(t *testing.T) {
	tests := []struct {
		name string
		rec  types.CitationRecord
		want string
	}{
		{"author and year", types.CitationRecord{Authors: []string{"Ashish Vaswani"}, Year: 2017}, "vaswani2017"},
		{"punctuated surname", types.CitationRecord{Authors: []string{"Kim O'Brien"}, Year: 2020}, "obrien2020"},
		{"no authors", types.CitationRecord{Year: 2020}, "ref2020"},
		{"no year", types.CitationRecord{Authors: []string{"Jane Doe"}}, "doen.d."},
		{"empty record", types.CitationRecord{}, "refn.d."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CiteKey(tt.rec); got != tt.want {
				t.Errorf("CiteKey = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteCSL(t *testing.T) {
	var sb strings.Builder
	err := WriteCSL([]types.CitationRecord{attentionRecord}, &sb)
	if err != nil {
		t.Fatalf("WriteCSL: %v", err)
	}
	out := sb.String()
	if !strings.Contains(out, "type: paper-conference") {
		t.Errorf("conference record must map to paper-conference:\n%s", out)
	}
	if !strings.Contains(out, "family: Vaswani") {
		t.Errorf("author must split into family/given:\n%s", out)
	}
}
