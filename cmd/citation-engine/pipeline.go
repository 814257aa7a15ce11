// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citation-engine/internal/extract"
	"github.com/pdiddy/citation-engine/internal/format"
	"github.com/pdiddy/citation-engine/internal/gateway"
	"github.com/pdiddy/citation-engine/internal/history"
	"github.com/pdiddy/citation-engine/internal/pipeline"
	"github.com/pdiddy/citation-engine/internal/verify"
)

var pipelineCmd = &cobra.Command{
	Use:   "pipeline [file]",
	Short: "Run the full extract-verify-format flow",
	Long: `Pipeline reads free-form reference text from a file or stdin, extracts
bibliographic metadata with a language model, verifies each record against
scholarly registries, and prints formatted citations plus BibTeX.`,
	RunE: runPipeline,
}

func init() {
	pipelineCmd.Flags().String("style", "ieee", "citation style (ieee, apa, acm, chicago, vancouver)")
	pipelineCmd.Flags().String("mode", "standard", "verification mode (quick, standard, strict)")
	pipelineCmd.Flags().Bool("json", false, "output the full response as JSON")
	pipelineCmd.Flags().Bool("no-history", false, "skip recording this run in the history store")

	rootCmd.AddCommand(pipelineCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	rawText, err := readInput(args)
	if err != nil {
		return err
	}

	styleName, _ := cmd.Flags().GetString("style")
	style := format.NormalizeStyle(styleName)
	modeName, _ := cmd.Flags().GetString("mode")
	mode := verify.ParseMode(modeName)
	asJSON, _ := cmd.Flags().GetBool("json")
	noHistory, _ := cmd.Flags().GetBool("no-history")

	gw := gateway.NewClient(gatewayConfig())
	extractor := extract.New(gw, os.Stderr)
	verifier := verify.New(verificationConfig(), os.Stderr)
	p := pipeline.New(extractor, verifier, os.Stderr)

	resp := p.Run(cmd.Context(), rawText, style, mode)

	if !noHistory {
		if err := recordRun(rawText, style, string(mode), resp); err != nil {
			fmt.Fprintln(os.Stderr, "history:", err)
		}
	}

	if asJSON {
		return writeJSON(os.Stdout, resp)
	}

	if resp.Warning != "" {
		fmt.Fprintln(os.Stderr, "warning:", resp.Warning)
	}
	for _, line := range resp.Formatted {
		fmt.Println(line)
	}
	if resp.BibTeX != "" {
		fmt.Println()
		fmt.Println(resp.BibTeX)
	}
	return nil
}

// recordRun appends the pipeline outcome to the run-history store.
func recordRun(rawText, style, mode string, resp pipeline.Response) error {
	store, err := history.Open(viper.GetString("history.dir"))
	if err != nil {
		return err
	}
	defer store.Close()

	verified := 0
	for _, rec := range resp.Metadata {
		if rec.Verified {
			verified++
		}
	}

	_, err = store.SaveRun(history.Run{
		InputDigest: history.Digest(rawText),
		Style:       style,
		Mode:        mode,
		Records:     len(resp.Metadata),
		Verified:    verified,
		BibTeX:      resp.BibTeX,
		Warning:     resp.Warning,
	})
	return err
}
