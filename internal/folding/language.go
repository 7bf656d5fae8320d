package folding

import (
	"regexp"
	"strings"
)

// Family is a coarse classification of block-delimiting conventions.
type Family int

const (
	// FamilyBrace covers languages whose blocks are delimited by braces.
	FamilyBrace Family = iota
	// FamilyIndent covers languages whose blocks are derived from
	// indentation depth.
	FamilyIndent
	// FamilyMarkup covers tag-based hybrid languages; block structure
	// follows indentation, comments follow <!-- -->.
	FamilyMarkup
)

// String returns the family name.
func (f Family) String() string {
	switch f {
	case FamilyBrace:
		return "brace"
	case FamilyIndent:
		return "indent"
	case FamilyMarkup:
		return "markup"
	default:
		return "unknown"
	}
}

// Language carries everything a scanner needs to know about one supported
// language: its family, comment tokens, structural header patterns and
// whole-text run patterns. Tables are built once at package init, not
// re-dispatched per line.
type Language struct {
	ID           string
	Family       Family
	Extensions   []string
	LineComments []string
	BlockOpen    string
	BlockClose   string

	headers []*regexp.Regexp
	runs    []*regexp.Regexp
}

// HasHeaders reports whether the language has structural header patterns,
// making PatternScanner the preferred syntax strategy.
func (l Language) HasHeaders() bool {
	return len(l.headers) > 0
}

// IndentStyle reports whether block ends are resolved by indentation
// rather than delimiter counting.
func (l Language) IndentStyle() bool {
	return l.Family != FamilyBrace
}

// matchesHeader reports whether a trimmed line opens a structural block.
func (l Language) matchesHeader(trimmed string) bool {
	for _, re := range l.headers {
		if re.MatchString(trimmed) {
			return true
		}
	}
	return false
}

// containsCommentToken reports whether text contains one of the language's
// comment-opening tokens. Used to classify run matches as Comment.
func (l Language) containsCommentToken(text string) bool {
	for _, prefix := range l.LineComments {
		if strings.Contains(text, prefix) {
			return true
		}
	}
	return l.BlockOpen != "" && strings.Contains(text, l.BlockOpen)
}

// Structural header patterns. Applied to trimmed lines.
var (
	pythonHeaders = []*regexp.Regexp{
		regexp.MustCompile(`^(async\s+)?def\s+\w`),
		regexp.MustCompile(`^class\s+\w`),
		regexp.MustCompile(`^(if|elif|for|while|with|match|case)\b.*:\s*(#.*)?$`),
		regexp.MustCompile(`^(else|try|except|finally)\b.*:\s*(#.*)?$`),
		regexp.MustCompile(`^if\s+__name__\s*==`),
	}

	goHeaders = []*regexp.Regexp{
		regexp.MustCompile(`^func\b`),
		regexp.MustCompile(`^type\s+\w+\s+(struct|interface)\b`),
		regexp.MustCompile(`^(if|for|switch|select)\b.*\{\s*$`),
		regexp.MustCompile(`^(import|const|var)\s*\($`),
	}

	cFamilyHeaders = []*regexp.Regexp{
		regexp.MustCompile(`^(export\s+)?(default\s+)?(async\s+)?function\b`),
		regexp.MustCompile(`^(export\s+)?(abstract\s+)?(public\s+|private\s+|protected\s+)?(static\s+)?class\b`),
		regexp.MustCompile(`^(if|else\s+if|else|for|while|do|switch|try|catch|finally)\b.*\{\s*$`),
		regexp.MustCompile(`^(struct|enum|union|interface|impl|namespace)\b.*\{\s*$`),
		regexp.MustCompile(`\)\s*(const\s*)?(=>\s*)?\{\s*$`),
	}

	rustHeaders = []*regexp.Regexp{
		regexp.MustCompile(`^(pub(\([^)]*\))?\s+)?(async\s+)?(unsafe\s+)?fn\b`),
		regexp.MustCompile(`^(pub(\([^)]*\))?\s+)?(struct|enum|trait|impl|mod)\b`),
		regexp.MustCompile(`^(if|else|for|while|loop|match)\b.*\{\s*$`),
	}
)

// Whole-text run patterns. Matched against the full document, offsets are
// converted back to line numbers by the pattern scanner.
var (
	tripleDoubleRun = regexp.MustCompile(`(?s)""".*?"""`)
	tripleSingleRun = regexp.MustCompile(`(?s)'''.*?'''`)
	hashRun         = regexp.MustCompile(`(?m)^[ \t]*#[^\n]*(?:\n[ \t]*#[^\n]*)+`)
	slashRun        = regexp.MustCompile(`(?m)^[ \t]*//[^\n]*(?:\n[ \t]*//[^\n]*)+`)
	blockCommentRun = regexp.MustCompile(`(?s)/\*.*?\*/`)
	htmlCommentRun  = regexp.MustCompile(`(?s)<!--.*?-->`)
	backtickRun     = regexp.MustCompile("(?s)`[^`]*`")
)

var languages = []Language{
	{
		ID: "python", Family: FamilyIndent,
		Extensions:   []string{".py", ".pyw"},
		LineComments: []string{"#"},
		headers:      pythonHeaders,
		runs:         []*regexp.Regexp{tripleDoubleRun, tripleSingleRun, hashRun},
	},
	{
		ID: "go", Family: FamilyBrace,
		Extensions:   []string{".go"},
		LineComments: []string{"//"},
		BlockOpen:    "/*", BlockClose: "*/",
		headers: goHeaders,
		runs:    []*regexp.Regexp{blockCommentRun, slashRun, backtickRun},
	},
	{
		ID: "javascript", Family: FamilyBrace,
		Extensions:   []string{".js", ".jsx", ".mjs", ".cjs"},
		LineComments: []string{"//"},
		BlockOpen:    "/*", BlockClose: "*/",
		headers: cFamilyHeaders,
		runs:    []*regexp.Regexp{blockCommentRun, slashRun, backtickRun},
	},
	{
		ID: "typescript", Family: FamilyBrace,
		Extensions:   []string{".ts", ".tsx", ".mts", ".cts"},
		LineComments: []string{"//"},
		BlockOpen:    "/*", BlockClose: "*/",
		headers: cFamilyHeaders,
		runs:    []*regexp.Regexp{blockCommentRun, slashRun, backtickRun},
	},
	{
		ID: "java", Family: FamilyBrace,
		Extensions:   []string{".java"},
		LineComments: []string{"//"},
		BlockOpen:    "/*", BlockClose: "*/",
		headers: cFamilyHeaders,
		runs:    []*regexp.Regexp{blockCommentRun, slashRun},
	},
	{
		ID: "c", Family: FamilyBrace,
		Extensions:   []string{".c", ".h"},
		LineComments: []string{"//"},
		BlockOpen:    "/*", BlockClose: "*/",
		headers: cFamilyHeaders,
		runs:    []*regexp.Regexp{blockCommentRun, slashRun},
	},
	{
		ID: "cpp", Family: FamilyBrace,
		Extensions:   []string{".cc", ".cpp", ".cxx", ".hpp", ".hh"},
		LineComments: []string{"//"},
		BlockOpen:    "/*", BlockClose: "*/",
		headers: cFamilyHeaders,
		runs:    []*regexp.Regexp{blockCommentRun, slashRun},
	},
	{
		ID: "rust", Family: FamilyBrace,
		Extensions:   []string{".rs"},
		LineComments: []string{"//"},
		BlockOpen:    "/*", BlockClose: "*/",
		headers: rustHeaders,
		runs:    []*regexp.Regexp{blockCommentRun, slashRun},
	},
	{
		ID: "html", Family: FamilyMarkup,
		Extensions:   []string{".html", ".htm"},
		LineComments: nil,
		BlockOpen:    "<!--", BlockClose: "-->",
		runs: []*regexp.Regexp{htmlCommentRun},
	},
	{
		ID: "xml", Family: FamilyMarkup,
		Extensions: []string{".xml", ".svg", ".xsl"},
		BlockOpen:  "<!--", BlockClose: "-->",
		runs:       []*regexp.Regexp{htmlCommentRun},
	},
	{
		ID: "vue", Family: FamilyMarkup,
		Extensions:   []string{".vue"},
		LineComments: []string{"//"},
		BlockOpen:    "<!--", BlockClose: "-->",
		runs:         []*regexp.Regexp{htmlCommentRun, blockCommentRun, slashRun},
	},
	{
		ID: "yaml", Family: FamilyIndent,
		Extensions:   []string{".yaml", ".yml"},
		LineComments: []string{"#"},
		runs:         []*regexp.Regexp{hashRun},
	},
	{
		ID: "shell", Family: FamilyIndent,
		Extensions:   []string{".sh", ".bash", ".zsh"},
		LineComments: []string{"#"},
		runs:         []*regexp.Regexp{hashRun},
	},
}

var (
	languagesByID  = map[string]Language{}
	languagesByExt = map[string]Language{}
)

func init() {
	for _, lang := range languages {
		languagesByID[lang.ID] = lang
		for _, ext := range lang.Extensions {
			languagesByExt[ext] = lang
		}
	}
}

// Lookup resolves a language from its declared ID, falling back to the
// file extension (with or without the leading dot). The second return is
// false for unsupported input.
func Lookup(languageID, ext string) (Language, bool) {
	if lang, ok := languagesByID[strings.ToLower(languageID)]; ok {
		return lang, true
	}
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if lang, ok := languagesByExt[ext]; ok {
		return lang, true
	}
	return Language{}, false
}

// Languages returns the supported language table in declaration order.
func Languages() []Language {
	out := make([]Language, len(languages))
	copy(out, languages)
	return out
}
