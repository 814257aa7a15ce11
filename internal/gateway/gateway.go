// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gateway provides a bounded-concurrency client for an
// OpenAI-compatible chat-completion API. Requests are routed to one of two
// model tiers, each with its own admission gate and prompt size budget.
// Failures are returned as tagged results, never as errors: the retry loop
// is internal and callers branch on the Result they get back.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// Tier selects a model class. Heavy maps to the large model with 2 concurrent
// slots; light maps to the small model with 4. Unknown tiers fall back to light.
type Tier string

const (
	TierHeavy Tier = "heavy"
	TierLight Tier = "light"
)

// Per-tier limits. Prompt budgets are character counts, a rough proxy for
// token limits.
const (
	heavySlots        = 2
	lightSlots        = 4
	heavyPromptBudget = 24000
	lightPromptBudget = 16000
)

// TruncationMarker is appended to prompts cut down to the tier budget.
const TruncationMarker = "\n[TRUNCATED]"

// ErrorKind classifies a gateway failure.
type ErrorKind string

const (
	// KindUnconfigured means no API credential is set; no network call was made.
	KindUnconfigured ErrorKind = "unconfigured"
	// KindExhaustedRetries means a transient upstream failure persisted
	// through all retry attempts.
	KindExhaustedRetries ErrorKind = "exhausted-retries"
	// KindTerminalUpstream means the API returned a non-retryable error status.
	KindTerminalUpstream ErrorKind = "terminal-upstream"
	// KindInternal covers transport errors and cancelled contexts.
	KindInternal ErrorKind = "internal"
)

// Failure describes why a gateway call did not produce content. StatusCode
// is the HTTP-equivalent status a caller may surface.
type Failure struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
}

// Result is the outcome of one Generate call. Exactly one of Content or
// Failure is meaningful: Failure is nil on success.
type Result struct {
	Content string
	Tier    Tier
	Model   string
	Failure *Failure
}

// OK reports whether the call produced content.
func (r Result) OK() bool { return r.Failure == nil }

// Request holds the parameters for one completion call.
type Request struct {
	Tier         Tier
	Prompt       string
	SystemPrompt string
	Temperature  float64
	MaxTokens    int
	// JSONResponse asks the API for a JSON-object response format.
	JSONResponse bool
}

// Client is a completion API client with per-tier admission gates. Construct
// it once with NewClient and share it; the gates are the only state.
type Client struct {
	baseURL     string
	apiKey      string
	http        *http.Client
	models      map[Tier]string
	budgets     map[Tier]int
	slots       map[Tier]chan struct{}
	maxRetries  int
	backoffBase time.Duration
}

// NewClient builds a Client from cfg, applying defaults for unset fields.
func NewClient(cfg types.GatewayConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.groq.com/openai/v1/chat/completions"
	}
	if cfg.HeavyModel == "" {
		cfg.HeavyModel = "llama-3.3-70b-versatile"
	}
	if cfg.LightModel == "" {
		cfg.LightModel = "llama-3.1-8b-instant"
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 2
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 25 * time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
		models: map[Tier]string{
			TierHeavy: cfg.HeavyModel,
			TierLight: cfg.LightModel,
		},
		budgets: map[Tier]int{
			TierHeavy: heavyPromptBudget,
			TierLight: lightPromptBudget,
		},
		slots: map[Tier]chan struct{}{
			TierHeavy: make(chan struct{}, heavySlots),
			TierLight: make(chan struct{}, lightSlots),
		},
		maxRetries:  cfg.MaxRetries,
		backoffBase: cfg.BackoffBase,
	}
}

// chat-completion wire structures.
type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	MaxTokens      int           `json:"max_tokens"`
	ResponseFormat *chatFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// retryable reports whether an HTTP status warrants another attempt.
func retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// Truncate cuts prompt down to budget characters, appending
// TruncationMarker when anything was removed.
func Truncate(prompt string, budget int) string {
	if len(prompt) <= budget {
		return prompt
	}
	return prompt[:budget] + TruncationMarker
}

// Generate runs one completion call. It normalizes the tier, truncates the
// prompt to the tier budget, waits for an admission slot, then posts the
// request with retry on rate limiting, 5xx statuses, and timeouts. The slot
// is released on every return path.
func (c *Client) Generate(ctx context.Context, req Request) Result {
	tier := req.Tier
	model, ok := c.models[tier]
	if !ok {
		tier = TierLight
		model = c.models[tier]
	}

	res := Result{Tier: tier, Model: model}

	if c.apiKey == "" {
		res.Failure = &Failure{
			Kind:       KindUnconfigured,
			Message:    "completion API key not configured",
			StatusCode: http.StatusInternalServerError,
		}
		return res
	}

	// Truncate before admission so oversized prompts never hold a slot
	// longer than needed.
	prompt := Truncate(req.Prompt, c.budgets[tier])

	gate := c.slots[tier]
	select {
	case gate <- struct{}{}:
	case <-ctx.Done():
		res.Failure = &Failure{
			Kind:       KindInternal,
			Message:    fmt.Sprintf("waiting for %s slot: %v", tier, ctx.Err()),
			StatusCode: http.StatusServiceUnavailable,
		}
		return res
	}
	defer func() { <-gate }()

	system := req.SystemPrompt
	if system == "" {
		system = "You are a helpful assistant."
	}

	payload := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if payload.MaxTokens <= 0 {
		payload.MaxTokens = 1024
	}
	if req.JSONResponse {
		payload.ResponseFormat = &chatFormat{Type: "json_object"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		res.Failure = &Failure{
			Kind:       KindInternal,
			Message:    fmt.Sprintf("marshaling request: %v", err),
			StatusCode: http.StatusInternalServerError,
		}
		return res
	}

	backoff := c.backoffBase
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		status, content, fail := c.attempt(ctx, body)
		switch {
		case fail == nil:
			res.Content = content
			return res
		case fail.Kind != KindExhaustedRetries:
			// Terminal upstream status or hard transport error.
			res.Failure = fail
			return res
		}

		// Retryable: back off unless this was the last attempt.
		if attempt == c.maxRetries {
			res.Failure = &Failure{
				Kind:       KindExhaustedRetries,
				Message:    fmt.Sprintf("exhausted retries (last status %d)", status),
				StatusCode: http.StatusGatewayTimeout,
			}
			return res
		}
		select {
		case <-ctx.Done():
			res.Failure = &Failure{
				Kind:       KindInternal,
				Message:    fmt.Sprintf("backoff interrupted: %v", ctx.Err()),
				StatusCode: http.StatusServiceUnavailable,
			}
			return res
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	// Unreachable: the loop always returns.
	res.Failure = &Failure{Kind: KindInternal, Message: "retry loop fell through", StatusCode: http.StatusInternalServerError}
	return res
}

// attempt performs a single POST. A nil Failure means success. A Failure of
// kind exhausted-retries means the attempt is retryable (rate limit, 5xx, or
// timeout); the caller owns the backoff.
func (c *Client) attempt(ctx context.Context, body []byte) (status int, content string, fail *Failure) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return 0, "", &Failure{Kind: KindInternal, Message: err.Error(), StatusCode: http.StatusInternalServerError}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return 0, "", &Failure{Kind: KindExhaustedRetries, Message: "request timed out", StatusCode: http.StatusGatewayTimeout}
		}
		return 0, "", &Failure{Kind: KindInternal, Message: err.Error(), StatusCode: http.StatusInternalServerError}
	}
	defer resp.Body.Close()

	if retryable(resp.StatusCode) {
		io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, "", &Failure{Kind: KindExhaustedRetries, StatusCode: resp.StatusCode}
	}

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, "", &Failure{
			Kind:       KindTerminalUpstream,
			Message:    fmt.Sprintf("API error: %s", string(data)),
			StatusCode: resp.StatusCode,
		}
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return resp.StatusCode, "", &Failure{
			Kind:       KindTerminalUpstream,
			Message:    fmt.Sprintf("decoding response: %v", err),
			StatusCode: http.StatusBadGateway,
		}
	}
	if len(cr.Choices) == 0 {
		return resp.StatusCode, "", &Failure{
			Kind:       KindTerminalUpstream,
			Message:    "response contained no choices",
			StatusCode: http.StatusBadGateway,
		}
	}
	return resp.StatusCode, cr.Choices[0].Message.Content, nil
}

// isTimeout reports whether err is a request timeout rather than a hard
// transport failure.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
