// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package verify cross-checks extracted citation records against external
// bibliographic registries. Each record runs through an ordered fallback
// chain: Crossref by DOI, Crossref by title search, and (in strict mode)
// Semantic Scholar by title. The first match merges registry data into the
// record with registry-wins precedence; registry errors and timeouts are
// treated as "no match", never as batch failures.
package verify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// Mode selects how much verification work to do.
type Mode string

const (
	// ModeQuick returns records untouched with no network calls.
	ModeQuick Mode = "quick"
	// ModeStandard runs the Crossref cascade only.
	ModeStandard Mode = "standard"
	// ModeStrict adds the Semantic Scholar fallback.
	ModeStrict Mode = "strict"
)

// ParseMode normalizes a mode string; unrecognized values mean standard.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeQuick, ModeStandard, ModeStrict:
		return Mode(s)
	}
	return ModeStandard
}

// Source identifies which registry lookup supplied a record's final data.
type Source string

const (
	SourceNone            Source = "none"
	SourceCrossrefDOI     Source = "crossref-doi"
	SourceCrossrefTitle   Source = "crossref-title"
	SourceSemanticScholar Source = "semantic-scholar"
)

// Outcome is a verified record annotated with its data provenance.
type Outcome struct {
	Record types.CitationRecord `json:"record"`
	Source Source               `json:"source"`
}

// Verifier runs the verification cascade. Construct with New and share; it
// holds only HTTP clients and an admission gate.
type Verifier struct {
	crossref     *crossrefClient
	semantic     *semanticClient
	gate         chan struct{}
	batchTimeout time.Duration
	log          io.Writer
}

// New builds a Verifier from cfg, applying defaults for unset fields.
// Diagnostics go to log; pass io.Discard to silence them.
func New(cfg types.VerificationConfig, log io.Writer) *Verifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "citation-engine/0.1"
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 8
	}
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = 60 * time.Second
	}
	if log == nil {
		log = io.Discard
	}

	client := &http.Client{Timeout: cfg.Timeout}
	return &Verifier{
		crossref: &crossrefClient{
			http:      client,
			mailto:    cfg.Mailto,
			userAgent: cfg.UserAgent,
		},
		semantic: &semanticClient{
			http:      client,
			apiKey:    cfg.SemanticScholarAPIKey,
			userAgent: cfg.UserAgent,
		},
		gate:         make(chan struct{}, cfg.MaxConcurrent),
		batchTimeout: cfg.BatchTimeout,
		log:          log,
	}
}

// step is one strategy in the fallback chain. run reports whether the
// registry matched; on a match it has already merged into the record.
type step struct {
	source Source
	run    func(ctx context.Context, rec *types.CitationRecord) (bool, error)
}

// Verify runs the cascade for a single record. In quick mode the record is
// returned unchanged with no network I/O. Otherwise the strategies run in
// order and the first match marks the record verified; a strategy error is
// logged and treated as no match.
func (v *Verifier) Verify(ctx context.Context, rec types.CitationRecord, mode Mode) Outcome {
	if mode == ModeQuick {
		return Outcome{Record: rec, Source: SourceNone}
	}

	var steps []step
	if rec.DOI != "" {
		steps = append(steps, step{SourceCrossrefDOI, v.byDOI})
	}
	if rec.Title != "" {
		steps = append(steps, step{SourceCrossrefTitle, v.byTitle})
		if mode == ModeStrict {
			steps = append(steps, step{SourceSemanticScholar, v.bySemantic})
		}
	}

	for _, s := range steps {
		matched, err := s.run(ctx, &rec)
		if err != nil {
			fmt.Fprintf(v.log, "verify: %s: %v\n", s.source, err)
			continue
		}
		if matched {
			rec.Verified = true
			return Outcome{Record: rec, Source: s.source}
		}
	}

	rec.Verified = false
	return Outcome{Record: rec, Source: SourceNone}
}

func (v *Verifier) byDOI(ctx context.Context, rec *types.CitationRecord) (bool, error) {
	work, err := v.crossref.lookupDOI(ctx, rec.DOI)
	if err != nil || work == nil {
		return false, err
	}
	mergeCrossref(rec, work)
	return true, nil
}

func (v *Verifier) byTitle(ctx context.Context, rec *types.CitationRecord) (bool, error) {
	work, err := v.crossref.searchTitle(ctx, rec.Title, rec.FirstAuthor())
	if err != nil || work == nil {
		return false, err
	}
	mergeCrossref(rec, work)
	return true, nil
}

func (v *Verifier) bySemantic(ctx context.Context, rec *types.CitationRecord) (bool, error) {
	paper, err := v.semantic.searchTitle(ctx, rec.Title)
	if err != nil || paper == nil {
		return false, err
	}
	mergeSemantic(rec, paper)
	return true, nil
}

// VerifyAll verifies a batch concurrently, one task per record, bounded by
// the verifier's admission gate. The whole batch shares one deadline; a
// record still pending when it expires resolves unverified. Output order
// matches input order and one record's failure never affects another.
func (v *Verifier) VerifyAll(ctx context.Context, records []types.CitationRecord, mode Mode) []Outcome {
	if mode != ModeQuick && v.batchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.batchTimeout)
		defer cancel()
	}

	outcomes := make([]Outcome, len(records))
	var wg sync.WaitGroup
	for i, rec := range records {
		wg.Add(1)
		go func(i int, rec types.CitationRecord) {
			defer wg.Done()
			v.gate <- struct{}{}
			defer func() { <-v.gate }()
			outcomes[i] = v.Verify(ctx, rec, mode)
		}(i, rec)
	}
	wg.Wait()
	return outcomes
}
