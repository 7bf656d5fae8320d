package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/zjrosen/plis/internal/cachemanager"
	"github.com/zjrosen/plis/internal/flags"
	"github.com/zjrosen/plis/internal/folding"
	"github.com/zjrosen/plis/internal/log"
	"github.com/zjrosen/plis/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>...",
	Short: "Rescan files whenever they change",
	Long: `Watch the given files and reprint their fold ranges after every change.
Events are debounced (watch.debounce, default 1s) so editors that write
in bursts trigger a single rescan. Results are cached by content hash;
saving a file without changing it costs nothing.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&flagLanguage, "language", "l", "",
		"language ID override (default: inferred from file extension)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	engine := buildEngine()
	skipCache := features.Enabled(flags.FlagScanCacheOff)
	results := cachemanager.NewResultCache(engine.FoldingRanges, cachemanager.DefaultExpiration, skipCache)

	w, err := watcher.New(watcher.Config{
		Paths:       args,
		DebounceDur: cfg.Watch.Debounce,
	})
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	changes, err := w.Start()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer func() { _ = w.Stop() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// With --debug, mirror log entries to stderr so scan activity is
	// visible without tailing the log file.
	if flagDebug {
		if entries := log.Subscribe(ctx); entries != nil {
			go func() {
				for e := range entries {
					fmt.Fprint(cmd.ErrOrStderr(), e.Payload)
				}
			}()
		}
	}

	// Initial scan of everything before waiting for changes.
	lastCount := make(map[string]int, len(args))
	for _, path := range args {
		n, err := scanAndPrint(ctx, results, path)
		if err != nil {
			return err
		}
		lastCount[path] = n
	}

	log.Info(log.CatWatch, "Watching files", "count", len(args))
	fmt.Fprintf(cmd.OutOrStdout(), "watching %d file(s), ctrl-c to stop\n", len(args))

	for {
		select {
		case <-ctx.Done():
			return nil
		case paths, ok := <-changes:
			if !ok {
				return nil
			}
			// One session ID per change batch correlates the log lines
			// it produces.
			session := uuid.NewString()
			for _, path := range paths {
				n, err := scanAndPrint(ctx, results, path)
				if err != nil {
					// A file disappearing mid-watch is routine; report
					// and keep watching the rest.
					fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
					continue
				}
				log.Info(log.CatWatch, "Rescanned file",
					"session", session, "path", path,
					"ranges", n, "delta", n-lastCount[path])
				lastCount[path] = n
			}
		}
	}
}

// scanAndPrint scans one file through the result cache and prints its
// ranges in the text format. Returns the number of ranges found.
func scanAndPrint(ctx context.Context, results *cachemanager.ResultCache, path string) (int, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-supplied watch target
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}

	doc := folding.Document{
		Text:       string(data),
		LanguageID: flagLanguage,
		Ext:        strings.TrimPrefix(filepath.Ext(path), "."),
	}
	ranges, _ := results.Get(ctx, doc)

	fmt.Printf("%s:\n", path)
	if len(ranges) == 0 {
		fmt.Println("  (no foldable ranges)")
		return 0, nil
	}
	for _, r := range ranges {
		fmt.Printf("  %d-%d %s\n", r.Start+1, r.End+1, r.Kind)
	}
	return len(ranges), nil
}
