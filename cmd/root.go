// Package cmd implements the plis command line interface.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/plis/internal/config"
	"github.com/zjrosen/plis/internal/flags"
	"github.com/zjrosen/plis/internal/folding"
	"github.com/zjrosen/plis/internal/index"
	"github.com/zjrosen/plis/internal/log"
	"github.com/zjrosen/plis/internal/oracle"
	"github.com/zjrosen/plis/internal/paths"
	"github.com/zjrosen/plis/internal/preview"
	"github.com/zjrosen/plis/internal/tracing"
)

var (
	version  = "dev"
	cfgFile  string
	cfg      config.Config
	features *flags.Registry

	flagLanguage string
	flagOutput   string
	flagPreview  bool
	flagDebug    bool
)

var rootCmd = &cobra.Command{
	Use:   "plis [file...]",
	Short: "Infer foldable line ranges from source text",
	Long: `plis scans source files and reports the line ranges a text editor could
fold: brace blocks, indented bodies, comment runs, multi-line strings,
region markers, and configurable marker pairs. With no files it reads
from stdin (use --language to name the input's language).`,
	Version: version,
	Args:    cobra.ArbitraryArgs,
	RunE:    runScan,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/plis/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false,
		"write debug logs to .plis/debug.log")
	rootCmd.Flags().StringVarP(&flagLanguage, "language", "l", "",
		"language ID override (default: inferred from file extension)")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "text",
		"output format: text, json, or yaml")
	rootCmd.Flags().BoolVar(&flagPreview, "preview", false,
		"render the document with fold gutters and colored markers")
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("folding.syntax", defaults.Folding.Syntax)
	viper.SetDefault("folding.regex", defaults.Folding.Regex)
	viper.SetDefault("folding.indent", defaults.Folding.Indent)
	viper.SetDefault("oracle.timeout", defaults.Oracle.Timeout)
	viper.SetDefault("watch.debounce", defaults.Watch.Debounce)
	viper.SetDefault("index.path", defaults.Index.Path)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .plis/config.yaml (current directory)
		// 2. ~/.config/plis/config.yaml (user config)
		if _, err := os.Stat(".plis/config.yaml"); err == nil {
			viper.SetConfigFile(".plis/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "plis"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .plis/config.yaml
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := ".plis/config.yaml"
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
	if len(cfg.Markers) == 0 {
		cfg.Markers = config.DefaultMarkers()
	}
	if cfg.Index.Path == "" {
		cfg.Index.Path = paths.IndexPath(".")
	}
	features = flags.New(cfg.Flags)

	if flagDebug || os.Getenv("PLIS_DEBUG") != "" {
		if _, err := log.Init(paths.DebugLogPath(".")); err == nil {
			log.SetEnabled(true)
		}
	}
}

// buildEngine assembles the folding engine from the loaded configuration.
func buildEngine() *folding.Engine {
	var opts []folding.Option
	if cfg.Oracle.Command != "" && len(cfg.Oracle.Languages) > 0 {
		o := oracle.New(cfg.Oracle.Command, cfg.Oracle.Args)
		opts = append(opts, folding.WithOracle(o, cfg.Oracle.Languages, cfg.Oracle.Timeout))
	}
	return folding.NewEngine(cfg.EngineConfig(), opts...)
}

// newTracingProvider builds the otel provider from the loaded configuration.
func newTracingProvider() (*tracing.Provider, error) {
	filePath := cfg.Tracing.FilePath
	if filePath == "" {
		filePath = config.DefaultTracesFilePath()
	}
	return tracing.NewProvider(tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		Exporter:     cfg.Tracing.Exporter,
		FilePath:     filePath,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRate:   cfg.Tracing.SampleRate,
	})
}

// document holds one input ready for scanning.
type document struct {
	Path string
	Doc  folding.Document
}

// loadDocuments reads the given files, or stdin when args is empty.
func loadDocuments(args []string) ([]document, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return []document{{
			Path: "<stdin>",
			Doc:  folding.Document{Text: string(data), LanguageID: flagLanguage},
		}}, nil
	}

	docs := make([]document, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path) // #nosec G304 -- user-supplied scan target
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		docs = append(docs, document{
			Path: path,
			Doc: folding.Document{
				Text:       string(data),
				LanguageID: flagLanguage,
				Ext:        strings.TrimPrefix(filepath.Ext(path), "."),
			},
		})
	}
	return docs, nil
}

// scanReport is the per-file output record.
type scanReport struct {
	Path   string          `json:"path" yaml:"path"`
	Ranges []folding.Range `json:"ranges" yaml:"ranges"`
}

func runScan(cmd *cobra.Command, args []string) error {
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	docs, err := loadDocuments(args)
	if err != nil {
		return err
	}

	provider, err := newTracingProvider()
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = provider.Shutdown(shutdownCtx)
	}()

	engine := buildEngine()
	ctx := cmd.Context()

	var store *index.Store
	if features.Enabled(flags.FlagAutoIndex) && len(args) > 0 {
		store, err = index.Open(cfg.Index.Path)
		if err != nil {
			return fmt.Errorf("opening index: %w", err)
		}
		defer func() { _ = store.Close() }()
	}

	reports := make([]scanReport, 0, len(docs))
	for _, d := range docs {
		spanCtx, span := provider.StartScanSpan(ctx, d.Path, d.Doc.LanguageID)
		ranges, _ := engine.FoldingRanges(spanCtx, d.Doc)
		span.End()

		if store != nil {
			if _, err := store.ReplaceScan(ctx, d.Path, detectLanguage(d.Doc), ranges); err != nil {
				return fmt.Errorf("indexing %s: %w", d.Path, err)
			}
		}

		if flagPreview {
			renderPreview(d, ranges)
			continue
		}
		reports = append(reports, scanReport{Path: d.Path, Ranges: ranges})
	}

	if flagPreview {
		return nil
	}
	return writeReports(cmd.OutOrStdout(), reports)
}

// detectLanguage names the language a document was scanned as, falling
// back to "plain" when nothing matches.
func detectLanguage(doc folding.Document) string {
	if doc.LanguageID != "" {
		return doc.LanguageID
	}
	if lang, ok := folding.Lookup("", doc.Ext); ok {
		return lang.ID
	}
	return "plain"
}

// renderPreview prints the annotated document to stdout.
func renderPreview(d document, ranges []folding.Range) {
	scanner := folding.NewMarkerScanner(cfg.MarkerNames())
	markerRanges := scanner.ScanByName(folding.SplitLines(d.Doc.Text))

	r := preview.New(cfg.MarkerColors())
	fmt.Println(r.Render(d.Doc.Text, ranges, markerRanges))
}

// writeReports prints reports in the selected output format. Text output
// shows one range per line; json and yaml emit the reports verbatim.
func writeReports(w io.Writer, reports []scanReport) error {
	switch flagOutput {
	case "text":
		for _, rep := range reports {
			if len(reports) > 1 {
				fmt.Fprintf(w, "%s:\n", rep.Path)
			}
			if len(rep.Ranges) == 0 {
				fmt.Fprintln(w, "  (no foldable ranges)")
				continue
			}
			for _, r := range rep.Ranges {
				fmt.Fprintf(w, "  %d-%d %s\n", r.Start+1, r.End+1, r.Kind)
			}
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer func() { _ = enc.Close() }()
		return enc.Encode(reports)
	default:
		return fmt.Errorf("unknown output format %q (want text, json, or yaml)", flagOutput)
	}
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
