// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citation-engine/internal/extract"
	"github.com/pdiddy/citation-engine/internal/gateway"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract citation metadata from reference text",
	Long: `Extract reads free-form reference text from a file or stdin, sends it to
the completion gateway, and prints the parsed citation records as JSON.
Records are not verified; pipe the output to the verify subcommand or use
the pipeline subcommand for the full flow.`,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	rawText, err := readInput(args)
	if err != nil {
		return err
	}

	gw := gateway.NewClient(gatewayConfig())
	extractor := extract.New(gw, os.Stderr)

	records := extractor.Extract(cmd.Context(), rawText)
	return writeJSON(os.Stdout, records)
}
