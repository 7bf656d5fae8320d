// Package config provides configuration types and defaults for plis.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/zjrosen/plis/internal/folding"
	"github.com/zjrosen/plis/internal/log"
)

// MarkerConfig defines one named highlight marker pair. The folding engine
// reads only the name; the color drives preview rendering.
type MarkerConfig struct {
	Name  string `mapstructure:"name"`
	Color string `mapstructure:"color"` // hex color e.g. "#10B981"
}

// FoldingConfig holds the engine feature toggles.
type FoldingConfig struct {
	Syntax    bool     `mapstructure:"syntax"`
	Regex     bool     `mapstructure:"regex"`
	Indent    bool     `mapstructure:"indent"`
	Languages []string `mapstructure:"languages"` // empty = all supported
}

// OracleConfig holds the external parser settings.
type OracleConfig struct {
	// Command is the external parser executable. Empty disables the
	// oracle entirely.
	Command string `mapstructure:"command"`
	// Args precede the language ID appended on each call.
	Args []string `mapstructure:"args"`
	// Timeout bounds each oracle call.
	Timeout time.Duration `mapstructure:"timeout"`
	// Languages lists the language IDs delegated to the oracle.
	Languages []string `mapstructure:"languages"`
}

// WatchConfig holds watch-mode settings.
type WatchConfig struct {
	// Debounce is the quiet period after a file event before rescanning.
	Debounce time.Duration `mapstructure:"debounce"`
}

// IndexConfig holds the persistent range index settings.
type IndexConfig struct {
	// Path is the SQLite database location.
	Path string `mapstructure:"path"`
}

// TracingConfig holds OpenTelemetry tracing configuration.
type TracingConfig struct {
	// Enabled controls whether scan tracing is active. Default: false.
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for the "file" exporter.
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for the "otlp" exporter.
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	SampleRate float64 `mapstructure:"sample_rate"`
}

// Config holds all configuration options for plis.
type Config struct {
	Folding FoldingConfig   `mapstructure:"folding"`
	Markers []MarkerConfig  `mapstructure:"markers"`
	Oracle  OracleConfig    `mapstructure:"oracle"`
	Watch   WatchConfig     `mapstructure:"watch"`
	Index   IndexConfig     `mapstructure:"index"`
	Tracing TracingConfig   `mapstructure:"tracing"`
	Flags   map[string]bool `mapstructure:"flags"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Folding: FoldingConfig{
			Syntax: true,
			Regex:  true,
			Indent: true,
		},
		Markers: DefaultMarkers(),
		Oracle: OracleConfig{
			Timeout: 5 * time.Second,
		},
		Watch: WatchConfig{
			Debounce: 1 * time.Second,
		},
		Index: IndexConfig{
			Path: ".plis/index.db",
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from config dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// DefaultMarkers returns the default marker set.
func DefaultMarkers() []MarkerConfig {
	return []MarkerConfig{
		{Name: "note", Color: "#54A0FF"},
		{Name: "todo", Color: "#F5A973"},
		{Name: "debug", Color: "#FF8787"},
	}
}

// MarkerNames returns the configured marker names in declaration order.
func (c Config) MarkerNames() []string {
	names := make([]string, 0, len(c.Markers))
	for _, m := range c.Markers {
		names = append(names, m.Name)
	}
	return names
}

// MarkerColors returns the name-to-color mapping for preview rendering.
func (c Config) MarkerColors() map[string]string {
	colors := make(map[string]string, len(c.Markers))
	for _, m := range c.Markers {
		colors[m.Name] = m.Color
	}
	return colors
}

// EngineConfig converts the user configuration to the engine's view of it.
func (c Config) EngineConfig() folding.Config {
	return folding.Config{
		Syntax:      c.Folding.Syntax,
		Regex:       c.Folding.Regex,
		Indent:      c.Folding.Indent,
		Languages:   c.Folding.Languages,
		MarkerNames: c.MarkerNames(),
	}
}

var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ValidateMarkers checks marker configuration for errors.
// Returns nil if markers are valid or empty (will use defaults).
func ValidateMarkers(markers []MarkerConfig) error {
	seen := make(map[string]bool, len(markers))
	for i, m := range markers {
		if m.Name == "" {
			return fmt.Errorf("marker %d: name is required", i)
		}
		if seen[m.Name] {
			return fmt.Errorf("marker %d (%s): duplicate name", i, m.Name)
		}
		seen[m.Name] = true
		if m.Color != "" && !hexColorRe.MatchString(m.Color) {
			return fmt.Errorf("marker %d (%s): color must be a hex value like #RRGGBB, got %q", i, m.Name, m.Color)
		}
	}
	return nil
}

// ValidateFolding checks the folding toggles and language list.
func ValidateFolding(f FoldingConfig) error {
	for _, id := range f.Languages {
		if _, ok := folding.Lookup(id, ""); !ok {
			return fmt.Errorf("folding.languages: unsupported language %q", id)
		}
	}
	return nil
}

// ValidateOracle checks oracle configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateOracle(o OracleConfig) error {
	if o.Timeout < 0 {
		return fmt.Errorf("oracle.timeout must not be negative, got %v", o.Timeout)
	}
	if o.Command == "" && len(o.Languages) > 0 {
		return fmt.Errorf("oracle.languages is set but oracle.command is empty")
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
			// Valid
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// Validate checks the whole configuration.
func Validate(c Config) error {
	if err := ValidateMarkers(c.Markers); err != nil {
		return err
	}
	if err := ValidateFolding(c.Folding); err != nil {
		return err
	}
	if err := ValidateOracle(c.Oracle); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/plis/traces/traces.jsonl or empty string if home dir
// is unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "plis", "traces", "traces.jsonl")
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# plis Configuration

# Folding strategies
folding:
  syntax: true   # Header/pattern-based folding for supported languages
  regex: true    # Region markers, comment runs, multi-line strings
  indent: true   # Indentation fallback for indent-style languages
  # Restrict syntax folding to specific languages (default: all supported)
  # languages: [python, go, typescript]

# Highlight markers - paired <name>-start / <name>-end tokens embedded in
# comments, strings, or bare text delimit a foldable block regardless of
# language. Names must be unique; one name must not be confused with
# another even when it is a prefix of it.
markers:
  - name: note
    color: "#54A0FF"
  - name: todo
    color: "#F5A973"
  - name: debug
    color: "#FF8787"

# External parser oracle (optional). When set, the listed languages are
# parsed by this command instead of the lexical scanners. The command
# receives the source on stdin and the language ID as its last argument,
# and prints a JSON array of {start, end, kind} objects. Failures fall
# back to the lexical scanners.
# oracle:
#   command: plis-parse
#   args: []
#   timeout: 5s
#   languages: [ruby]

# Watch mode
watch:
  debounce: 1s   # Quiet period after a file event before rescanning

# Persistent fold-range index
index:
  path: .plis/index.db

# Feature flags (all default off)
# flags:
#   auto-index: true      # Plain scans also persist results to the index
#   scan-cache-off: true  # Disable the content-hash result cache in watch mode

# OpenTelemetry tracing for scan operations
# tracing:
#   enabled: false                # Enable/disable tracing (default: false)
#   exporter: file                # Export backend: none, file, stdout, otlp
#   file_path: ~/.config/plis/traces/traces.jsonl
#   otlp_endpoint: localhost:4317 # OTLP collector endpoint
#   sample_rate: 1.0              # Trace sampling rate 0.0-1.0
`
}

// WriteDefaultConfig creates a config file at the given path with default
// settings and comments. Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
