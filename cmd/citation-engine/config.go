// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/viper"

	"github.com/pdiddy/citation-engine/pkg/types"
)

const defaultUserAgent = "citation-engine/0.1"

// gatewayConfig assembles the completion gateway settings from config and
// secrets. Zero values fall through to the gateway's own defaults.
func gatewayConfig() types.GatewayConfig {
	return types.GatewayConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("gateway.timeout"),
			UserAgent: defaultUserAgent,
		},
		BaseURL:     viper.GetString("gateway.base_url"),
		APIKey:      secretDefault("completion-api-key", viper.GetString("gateway.api_key")),
		HeavyModel:  viper.GetString("gateway.heavy_model"),
		LightModel:  viper.GetString("gateway.light_model"),
		MaxRetries:  viper.GetInt("gateway.max_retries"),
		BackoffBase: viper.GetDuration("gateway.backoff_base"),
	}
}

// verificationConfig assembles the registry verification settings.
func verificationConfig() types.VerificationConfig {
	return types.VerificationConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("verify.timeout"),
			UserAgent: defaultUserAgent,
		},
		Mailto:                secretDefault("crossref-mailto", viper.GetString("verify.mailto")),
		SemanticScholarAPIKey: secretDefault("semantic-scholar-api-key", viper.GetString("verify.semantic_scholar_api_key")),
		MaxConcurrent:         viper.GetInt("verify.max_concurrent"),
		BatchTimeout:          viper.GetDuration("verify.batch_timeout"),
	}
}

// readInput returns raw reference text from the first argument (a file path)
// or from stdin when no argument is given.
func readInput(args []string) (string, error) {
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("reading input file: %w", err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

// readRecords decodes a JSON array of citation records from the first
// argument (a file path) or from stdin.
func readRecords(args []string) ([]types.CitationRecord, error) {
	raw, err := readInput(args)
	if err != nil {
		return nil, err
	}

	var records []types.CitationRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("decoding citation records: %w", err)
	}
	return records, nil
}

// writeJSON pretty-prints v as JSON to w.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
