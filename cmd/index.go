package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/plis/internal/folding"
	"github.com/zjrosen/plis/internal/index"
)

var indexCmd = &cobra.Command{
	Use:   "index <file>...",
	Short: "Scan files and persist their fold ranges",
	Long: `Scan the given files and store the results in the range index
(index.path, default .plis/index.db). Re-indexing a file replaces its
previous scan. Use "plis show" to read stored scans back.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIndex,
}

var showCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "Print stored fold ranges from the index",
	Long: `Print the stored scan for a file, or list every indexed file when
called without arguments.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	indexCmd.Flags().StringVarP(&flagLanguage, "language", "l", "",
		"language ID override (default: inferred from file extension)")
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(showCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	store, err := index.Open(cfg.Index.Path)
	if err != nil {
		return fmt.Errorf("opening index: %w", err)
	}
	defer func() { _ = store.Close() }()

	engine := buildEngine()
	ctx := cmd.Context()

	for _, path := range args {
		data, err := os.ReadFile(path) // #nosec G304 -- user-supplied scan target
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		ext := strings.TrimPrefix(filepath.Ext(path), ".")
		doc := folding.Document{Text: string(data), LanguageID: flagLanguage, Ext: ext}
		ranges, _ := engine.FoldingRanges(ctx, doc)

		if _, err := store.ReplaceScan(ctx, path, detectLanguage(doc), ranges); err != nil {
			return fmt.Errorf("indexing %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "indexed %s (%d ranges)\n", path, len(ranges))
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	store, err := index.Open(cfg.Index.Path)
	if err != nil {
		return fmt.Errorf("opening index: %w", err)
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		scans, err := store.ListScans(ctx)
		if err != nil {
			return fmt.Errorf("listing scans: %w", err)
		}
		if len(scans) == 0 {
			fmt.Fprintln(out, "index is empty")
			return nil
		}
		for _, s := range scans {
			fmt.Fprintf(out, "%s  %s  %s\n", s.Path, s.Language, s.ScannedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	}

	scan, err := store.GetScan(ctx, args[0])
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s is not indexed, run 'plis index %s' first", args[0], args[0])
	}
	if err != nil {
		return fmt.Errorf("reading scan: %w", err)
	}

	fmt.Fprintf(out, "%s (%s, scanned %s):\n", scan.Path, scan.Language, scan.ScannedAt.Format("2006-01-02 15:04:05"))
	if len(scan.Ranges) == 0 {
		fmt.Fprintln(out, "  (no foldable ranges)")
		return nil
	}
	for _, r := range scan.Ranges {
		fmt.Fprintf(out, "  %d-%d %s\n", r.Start+1, r.End+1, r.Kind)
	}
	return nil
}
