// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citation-engine/internal/format"
)

var formatCmd = &cobra.Command{
	Use:   "format [file]",
	Short: "Render citation records in a citation style",
	Long: `Format reads a JSON array of citation records from a file or stdin and
renders them in the requested citation style together with BibTeX entries.
With --csl the records are written as CSL-YAML instead, suitable for
pandoc-style reference processing.`,
	RunE: runFormat,
}

func init() {
	formatCmd.Flags().String("style", "ieee", "citation style (ieee, apa, acm, chicago, vancouver)")
	formatCmd.Flags().Bool("csl", false, "emit CSL-YAML instead of styled text")
	formatCmd.Flags().Bool("json", false, "output the formatted result as JSON")

	rootCmd.AddCommand(formatCmd)
}

func runFormat(cmd *cobra.Command, args []string) error {
	records, err := readRecords(args)
	if err != nil {
		return err
	}

	if csl, _ := cmd.Flags().GetBool("csl"); csl {
		return format.WriteCSL(records, os.Stdout)
	}

	styleName, _ := cmd.Flags().GetString("style")
	out := format.Format(records, styleName)

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(os.Stdout, out)
	}

	if out.Warning != "" {
		fmt.Fprintln(os.Stderr, "warning:", out.Warning)
	}
	for _, line := range out.Formatted {
		fmt.Println(line)
	}
	if out.BibTeX != "" {
		fmt.Println()
		fmt.Println(out.BibTeX)
	}
	return nil
}
