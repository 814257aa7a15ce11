// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline wires extraction, verification, and formatting into the
// citation pipeline. Run never returns an error: every failure state is
// encoded in the Response, and partial success (some records verified, some
// not) is the expected common case.
package pipeline

import (
	"context"
	"io"

	"github.com/pdiddy/citation-engine/internal/format"
	"github.com/pdiddy/citation-engine/internal/verify"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// RecordExtractor turns raw text into citation records.
// *extract.Extractor satisfies it.
type RecordExtractor interface {
	Extract(ctx context.Context, rawText string) []types.CitationRecord
}

// RecordVerifier verifies a batch of records. *verify.Verifier satisfies it.
type RecordVerifier interface {
	VerifyAll(ctx context.Context, records []types.CitationRecord, mode verify.Mode) []verify.Outcome
}

// Response is the pipeline result. Formatted and Metadata are always
// non-nil; Warning is set when extraction found nothing or style rendering
// fell back with an error.
type Response struct {
	Formatted []string               `json:"formatted"`
	BibTeX    string                 `json:"bibtex"`
	Metadata  []types.CitationRecord `json:"metadata"`
	Sources   []verify.Source        `json:"sources,omitempty"`
	Warning   string                 `json:"warning,omitempty"`
}

// Pipeline runs the three-stage citation flow.
type Pipeline struct {
	extractor RecordExtractor
	verifier  RecordVerifier
	log       io.Writer
}

// New builds a Pipeline. Diagnostics go to log; pass io.Discard to silence.
func New(extractor RecordExtractor, verifier RecordVerifier, log io.Writer) *Pipeline {
	if log == nil {
		log = io.Discard
	}
	return &Pipeline{extractor: extractor, verifier: verifier, log: log}
}

// Run executes extract → verify → format over rawText.
func (p *Pipeline) Run(ctx context.Context, rawText, style string, mode verify.Mode) Response {
	records := p.extractor.Extract(ctx, rawText)
	if len(records) == 0 {
		return Response{
			Formatted: []string{},
			Metadata:  []types.CitationRecord{},
			Warning:   "no citations could be extracted from the input",
		}
	}

	outcomes := p.verifier.VerifyAll(ctx, records, mode)
	verified := make([]types.CitationRecord, len(outcomes))
	sources := make([]verify.Source, len(outcomes))
	for i, o := range outcomes {
		verified[i] = o.Record
		sources[i] = o.Source
	}

	out := format.Format(verified, style)
	return Response{
		Formatted: out.Formatted,
		BibTeX:    out.BibTeX,
		Metadata:  verified,
		Sources:   sources,
		Warning:   out.Warning,
	}
}
