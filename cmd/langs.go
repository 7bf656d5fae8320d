package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/plis/internal/folding"
)

var langsCmd = &cobra.Command{
	Use:   "langs",
	Short: "List supported languages",
	Long: `List every language the syntax scanners understand, with its folding
family and the file extensions it is inferred from. Files in other
languages still get marker, region, and comment-run folding.`,
	Args: cobra.NoArgs,
	RunE: runLangs,
}

func init() {
	rootCmd.AddCommand(langsCmd)
}

func runLangs(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-12s %-8s %s\n", "LANGUAGE", "FAMILY", "EXTENSIONS")
	for _, lang := range folding.Languages() {
		fmt.Fprintf(out, "%-12s %-8s %s\n", lang.ID, lang.Family, strings.Join(lang.Extensions, ", "))
	}
	return nil
}
