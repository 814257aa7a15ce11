// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/pdiddy/citation-engine/internal/gateway"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// stubCompleter returns a canned gateway result and records the request.
type stubCompleter struct {
	result gateway.Result
	got    gateway.Request
}

func (s *stubCompleter) Generate(_ context.Context, req gateway.Request) gateway.Result {
	s.got = req
	return s.result
}

func okResult(content string) gateway.Result {
	return gateway.Result{Content: content, Tier: gateway.TierLight}
}

func TestParseModelOutput(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
		wantErr bool
	}{
		{
			name:    "wrapped references array",
			content: `{"references": [{"title": "A"}, {"title": "B"}]}`,
			want:    2,
		},
		{
			name:    "citations wrapper key",
			content: `{"citations": [{"title": "A"}]}`,
			want:    1,
		},
		{
			name:    "top-level array",
			content: `[{"title": "A"}]`,
			want:    1,
		},
		{
			name:    "single object treated as one record",
			content: `{"title": "A", "year": 2020}`,
			want:    1,
		},
		{
			name:    "conversational wrapper text",
			content: `Here are the extracted references: {"references": [{"title": "A"}]} Let me know!`,
			want:    1,
		},
		{
			name:    "no json",
			content: "I could not find any references.",
			wantErr: true,
		},
		{
			name:    "invalid json",
			content: `{"references": [}`,
			wantErr: true,
		},
		{
			name:    "scalar json",
			content: `wrapped "just a string" here`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseModelOutput(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseModelOutput(%q) expected error, got %v", tt.content, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseModelOutput(%q) unexpected error: %v", tt.content, err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d records, want %d", len(got), tt.want)
			}
		})
	}
}

func TestParseModelOutput_FieldDecoding(t *testing.T) {
	content := `{"references": [{
		"authors": ["Ashish Vaswani", "Noam Shazeer"],
		"title": "Attention Is All You Need",
		"journal": null,
		"conference": "NeurIPS",
		"year": "2017",
		"volume": 30,
		"pages": "5998-6008",
		"doi": null,
		"url": null
	}]}`

	records, err := ParseModelOutput(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	r := records[0]
	if len(r.Authors) != 2 || r.Authors[0] != "Ashish Vaswani" {
		t.Errorf("authors = %v", r.Authors)
	}
	if r.Title != "Attention Is All You Need" {
		t.Errorf("title = %q", r.Title)
	}
	if r.Journal != "" || r.Conference != "NeurIPS" {
		t.Errorf("journal/conference = %q/%q", r.Journal, r.Conference)
	}
	if r.Year != 2017 {
		t.Errorf("year = %d, want 2017 (string year must decode)", r.Year)
	}
	if r.Volume != "30" {
		t.Errorf("volume = %q, want \"30\" (numeric volume must decode)", r.Volume)
	}
	if r.Verified {
		t.Error("extracted records must start unverified")
	}
}

func TestExtract_UsesLightTier(t *testing.T) {
	stub := &stubCompleter{result: okResult(`{"references": [{"title": "A"}]}`)}
	e := New(stub, io.Discard)

	records := e.Extract(context.Background(), "Some reference text")
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if stub.got.Tier != gateway.TierLight {
		t.Errorf("tier = %q, want light", stub.got.Tier)
	}
	if !stub.got.JSONResponse {
		t.Error("extraction must request a JSON response format")
	}
	if !strings.Contains(stub.got.Prompt, "Some reference text") {
		t.Error("prompt must contain the input text")
	}
}

func TestExtract_TruncatesInput(t *testing.T) {
	stub := &stubCompleter{result: okResult(`[]`)}
	e := New(stub, io.Discard)

	long := strings.Repeat("x", inputBudget*2)
	e.Extract(context.Background(), long)

	const prefix = "Extract metadata from these references:\n\n"
	if got := len(stub.got.Prompt); got != len(prefix)+inputBudget {
		t.Errorf("prompt length = %d, want %d", got, len(prefix)+inputBudget)
	}
}

func TestExtract_GatewayFailureYieldsEmpty(t *testing.T) {
	stub := &stubCompleter{result: gateway.Result{
		Tier: gateway.TierLight,
		Failure: &gateway.Failure{
			Kind:       gateway.KindExhaustedRetries,
			StatusCode: http.StatusGatewayTimeout,
		},
	}}
	e := New(stub, io.Discard)

	records := e.Extract(context.Background(), "text")
	if len(records) != 0 {
		t.Errorf("got %d records, want 0 on gateway failure", len(records))
	}
}

func TestExtract_UnparseableOutputYieldsEmpty(t *testing.T) {
	stub := &stubCompleter{result: okResult("I'm sorry, I can't help with that.")}
	e := New(stub, io.Discard)

	records := e.Extract(context.Background(), "text")
	if records == nil {
		// nil is fine; the contract is an empty sequence.
		records = []types.CitationRecord{}
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0 on unparseable output", len(records))
	}
}
