package folding

import (
	"context"
	"time"

	"github.com/zjrosen/plis/internal/log"
)

// Document is the read-only input handle for one scan.
type Document struct {
	// Text is the full document content.
	Text string
	// LanguageID is the declared language, if any.
	LanguageID string
	// Ext is the logical file extension (leading dot optional), used when
	// no language is declared.
	Ext string
}

// Config holds the feature toggles and marker names for one engine.
// It mirrors the external configuration collaborator; the engine never
// mutates or persists it.
type Config struct {
	// Syntax enables header/pattern-based folding for supported languages.
	Syntax bool
	// Regex enables region markers and whole-text run detection.
	Regex bool
	// Indent enables the indentation fallback for indent-style languages.
	Indent bool
	// Languages restricts syntax folding to the listed language IDs.
	// Empty means every supported language is eligible.
	Languages []string
	// MarkerNames are the configured highlight marker names. Marker
	// folding is always active; it is the system's primary purpose.
	MarkerNames []string
}

// DefaultConfig enables every folding strategy.
func DefaultConfig() Config {
	return Config{Syntax: true, Regex: true, Indent: true}
}

// Oracle is an optional external parser consulted for languages with no
// reliable lexical heuristic. It is strictly best-effort: any error makes
// the engine fall back to its own scanners.
type Oracle interface {
	Parse(ctx context.Context, language, source string) ([]Range, error)
}

// Engine orchestrates the scanners. It holds no mutable state between
// calls: FoldingRanges is a pure function of the document and the
// configuration, so concurrent scans of different documents are safe.
type Engine struct {
	cfg           Config
	eligible      map[string]bool
	oracle        Oracle
	oracleLangs   map[string]bool
	oracleTimeout time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithOracle attaches an external parsing oracle for the given language
// IDs, bounded by timeout per call.
func WithOracle(o Oracle, languages []string, timeout time.Duration) Option {
	return func(e *Engine) {
		e.oracle = o
		e.oracleLangs = make(map[string]bool, len(languages))
		for _, l := range languages {
			e.oracleLangs[l] = true
		}
		e.oracleTimeout = timeout
	}
}

// NewEngine builds an engine from the given configuration.
func NewEngine(cfg Config, opts ...Option) *Engine {
	e := &Engine{cfg: cfg}
	if len(cfg.Languages) > 0 {
		e.eligible = make(map[string]bool, len(cfg.Languages))
		for _, l := range cfg.Languages {
			e.eligible[l] = true
		}
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FoldingRanges computes the aggregate range set for a document. The
// second return is false when the engine has no opinion, so a caller
// composing several folding providers can fall through to another one
// instead of treating silence as authoritative.
func (e *Engine) FoldingRanges(ctx context.Context, doc Document) ([]Range, bool) {
	if doc.Text == "" {
		return nil, false
	}
	lines := SplitLines(doc.Text)

	// Marker folding runs unconditionally.
	ranges := NewMarkerScanner(e.cfg.MarkerNames).Scan(lines)
	if ctx.Err() != nil {
		return nil, false
	}

	lang, supported := Lookup(doc.LanguageID, doc.Ext)
	if e.cfg.Syntax && supported && e.languageEligible(lang.ID) {
		ranges = append(ranges, e.syntaxRanges(ctx, doc, lang, lines)...)
	}
	if ctx.Err() != nil {
		return nil, false
	}

	if e.cfg.Regex {
		ranges = append(ranges, NewRegionScanner().Scan(lines)...)
		if supported {
			ranges = append(ranges, NewPatternScanner(lang).scanRuns(doc.Text, lines)...)
		}
	}

	if len(ranges) == 0 {
		return nil, false
	}
	return ranges, true
}

// syntaxRanges picks the block strategy for one language: oracle when the
// language is designated oracle-only, header patterns when the language
// has them, otherwise the raw delimiter or indent scanner.
func (e *Engine) syntaxRanges(ctx context.Context, doc Document, lang Language, lines []Line) []Range {
	if e.oracle != nil && e.oracleLangs[lang.ID] {
		if ranges, err := e.consultOracle(ctx, lang.ID, doc.Text); err == nil {
			return ranges
		}
		// Oracle failure falls through to the lexical scanners.
	}
	switch {
	case lang.HasHeaders():
		return NewPatternScanner(lang).scanHeaders(lines)
	case !lang.IndentStyle():
		return NewDelimiterScanner(DefaultDelimiters, lang.LineComments).Scan(lines)
	case e.cfg.Indent:
		return NewIndentScanner().Scan(lines)
	default:
		return nil
	}
}

// consultOracle calls the external parser with a bounded timeout. Every
// failure mode degrades to an error the caller swallows; the oracle can
// never fail a scan.
func (e *Engine) consultOracle(ctx context.Context, language, source string) ([]Range, error) {
	timeout := e.oracleTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	octx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ranges, err := e.oracle.Parse(octx, language, source)
	if err != nil {
		log.Warn(log.CatOracle, "oracle parse failed, falling back to lexical scanners",
			"language", language, "error", err.Error())
		return nil, err
	}
	// The oracle is untrusted input: enforce the range invariant.
	valid := ranges[:0]
	for _, r := range ranges {
		if r.End > r.Start {
			valid = append(valid, r)
		}
	}
	return valid, nil
}

func (e *Engine) languageEligible(id string) bool {
	return e.eligible == nil || e.eligible[id]
}
