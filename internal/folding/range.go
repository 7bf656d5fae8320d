// Package folding computes foldable line ranges from raw source text.
// It approximates full parsing with lexical scanners: indentation tracking,
// delimiter matching, per-language regex patterns, region markers, and
// named marker pairs. Scanners are pure functions of the document text;
// no state survives a scan.
package folding

import "fmt"

// Kind classifies a fold range.
type Kind int

const (
	// KindRegion marks a structural block (function body, brace block,
	// marker pair, explicit region).
	KindRegion Kind = iota
	// KindComment marks a comment run or block comment.
	KindComment
)

// String returns the wire/display name of the kind.
func (k Kind) String() string {
	switch k {
	case KindRegion:
		return "region"
	case KindComment:
		return "comment"
	default:
		return "unknown"
	}
}

// ParseKind converts a wire name back to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "region":
		return KindRegion, nil
	case "comment":
		return KindComment, nil
	default:
		return KindRegion, fmt.Errorf("unknown fold kind %q", s)
	}
}

// Range is a collapsible span of lines. Start and End are 0-based and
// inclusive; End is always strictly greater than Start (single-line
// ranges are never emitted). Ranges from different scanners may overlap
// or nest; consumers resolve conflicts.
type Range struct {
	Start int  `json:"start" yaml:"start"`
	End   int  `json:"end" yaml:"end"`
	Kind  Kind `json:"kind" yaml:"kind"`
}

// MarshalJSON encodes the kind as its wire name.
func (k Kind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// UnmarshalJSON decodes a kind from its wire name.
func (k *Kind) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MarshalYAML encodes the kind as its wire name.
func (k Kind) MarshalYAML() (any, error) {
	return k.String(), nil
}
