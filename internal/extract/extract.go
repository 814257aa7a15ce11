// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns free-form reference text into structured citation
// records using the completion gateway. Extraction never fails its caller:
// gateway failures and unparseable model output degrade to an empty record
// list, which the pipeline reads as "no citations found".
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pdiddy/citation-engine/internal/gateway"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// inputBudget caps the raw text sent to the model. Long inputs degrade
// gracefully instead of failing; this is separate from the gateway's own
// per-tier truncation.
const inputBudget = 5000

// systemPrompt instructs the model to emit strict JSON with a fixed field set.
const systemPrompt = "You are an academic metadata extractor. Extract citation details from the provided text. " +
	"Return a JSON object with a key 'references' containing a list of objects. Each citation object should have these fields: " +
	"authors (list of strings), title, journal, conference, year, volume, issue, pages, doi, url. " +
	"If a field is missing, use null. Output ONLY strict JSON. " +
	`Example: {"references": [{"authors": ["A. Vaswani"], "title": "Attention...", ...}]}`

// wrapperKeys are object keys the model sometimes wraps the reference array in.
var wrapperKeys = []string{"references", "citations", "results", "data"}

// Completer is the gateway surface the extractor needs. *gateway.Client
// satisfies it; tests supply a stub.
type Completer interface {
	Generate(ctx context.Context, req gateway.Request) gateway.Result
}

// Extractor builds citation records from raw text.
type Extractor struct {
	gw  Completer
	log io.Writer
}

// New returns an Extractor using gw. Diagnostics are written to log;
// pass io.Discard to silence them.
func New(gw Completer, log io.Writer) *Extractor {
	if log == nil {
		log = io.Discard
	}
	return &Extractor{gw: gw, log: log}
}

// Extract asks the light-tier model for citation metadata in rawText and
// returns the parsed records. It returns an empty slice on any failure.
func (e *Extractor) Extract(ctx context.Context, rawText string) []types.CitationRecord {
	if len(rawText) > inputBudget {
		rawText = rawText[:inputBudget]
	}

	res := e.gw.Generate(ctx, gateway.Request{
		Tier:         gateway.TierLight,
		Prompt:       "Extract metadata from these references:\n\n" + rawText,
		SystemPrompt: systemPrompt,
		Temperature:  0.1,
		MaxTokens:    1024,
		JSONResponse: true,
	})
	if !res.OK() {
		fmt.Fprintf(e.log, "extract: gateway failure (%s): %s\n", res.Failure.Kind, res.Failure.Message)
		return nil
	}

	records, err := ParseModelOutput(res.Content)
	if err != nil {
		fmt.Fprintf(e.log, "extract: %v\n", err)
		return nil
	}
	return records
}

// ParseModelOutput locates the first balanced JSON value inside the model's
// textual response and decodes it into citation records. Objects wrapped
// under a known key ("references", "citations", "results", "data") are
// unwrapped; a bare object is treated as a single record.
func ParseModelOutput(content string) ([]types.CitationRecord, error) {
	fragment := FirstJSON(content)
	if fragment == "" {
		return nil, fmt.Errorf("no JSON value found in model output")
	}

	var v any
	if err := json.Unmarshal([]byte(fragment), &v); err != nil {
		return nil, fmt.Errorf("parsing model output: %w", err)
	}

	var items []any
	switch t := v.(type) {
	case []any:
		items = t
	case map[string]any:
		items = []any{t}
		for _, key := range wrapperKeys {
			if arr, ok := t[key].([]any); ok {
				items = arr
				break
			}
		}
	default:
		return nil, fmt.Errorf("model output is not an object or array")
	}

	records := make([]types.CitationRecord, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		records = append(records, buildRecord(m))
	}
	return records, nil
}

// buildRecord converts one decoded JSON object into a CitationRecord,
// tolerating nulls and mixed scalar types.
func buildRecord(m map[string]any) types.CitationRecord {
	return types.CitationRecord{
		Authors:    stringList(m["authors"]),
		Title:      stringField(m["title"]),
		Journal:    stringField(m["journal"]),
		Conference: stringField(m["conference"]),
		Year:       yearField(m["year"]),
		Volume:     stringField(m["volume"]),
		Issue:      stringField(m["issue"]),
		Pages:      stringField(m["pages"]),
		DOI:        stringField(m["doi"]),
		URL:        stringField(m["url"]),
	}
}

func stringField(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		// Models occasionally emit volume/issue numbers as JSON numbers.
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func stringList(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, e := range arr {
		if s := stringField(e); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// yearField accepts a year as a JSON number or a digit string; anything
// else means unknown.
func yearField(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n
		}
	}
	return 0
}
