// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citation-engine/internal/verify"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [file]",
	Short: "Verify citation records against scholarly registries",
	Long: `Verify reads a JSON array of citation records from a file or stdin, checks
each against Crossref (and Semantic Scholar in strict mode), and prints the
verified records with their data source as JSON.`,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().String("mode", "standard", "verification mode (quick, standard, strict)")

	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	records, err := readRecords(args)
	if err != nil {
		return err
	}

	modeName, _ := cmd.Flags().GetString("mode")
	mode := verify.ParseMode(modeName)

	verifier := verify.New(verificationConfig(), os.Stderr)
	outcomes := verifier.VerifyAll(cmd.Context(), records, mode)
	return writeJSON(os.Stdout, outcomes)
}
