// Package fontspec parses CSS font shorthand strings such as
// `bold 34px "Noto Sans JP", sans-serif` into a size, style flags and a
// family list.
package fontspec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// DefaultSizePx is the CSS medium font size used to resolve relative units.
const DefaultSizePx = 16

var (
	fontLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "Dimension", Pattern: `(?:\d+\.\d*|\.\d+|\d+)(?:px|pt|em|rem|%)`},
		{Name: "Number", Pattern: `\d+(?:\.\d+)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"\\])*"|'(?:\\.|[^'\\])*'`},
		{Name: "Ident", Pattern: `[\p{L}_-][\p{L}\p{N}_-]*`},
		{Name: "Symbol", Pattern: `[,/]`},
	})

	shorthandParser = participle.MustBuild[Shorthand](
		participle.Lexer(fontLexer),
		participle.Elide("Whitespace"),
	)
	familiesParser = participle.MustBuild[FamilyList](
		participle.Lexer(fontLexer),
		participle.Elide("Whitespace"),
	)
)

// Shorthand is the AST of a `font` value.
type Shorthand struct {
	Pos        lexer.Position `parser:"" json:"-"`
	Modifiers  []string       `parser:"@( Ident | Number )*"`
	Size       Dimension      `parser:"@Dimension"`
	LineHeight *string        `parser:"( '/' @( Dimension | Number ) )?"`
	Families   []*Family      `parser:"@@ ( ',' @@ )*"`
}

// FamilyList is the AST of a bare `font-family` value.
type FamilyList struct {
	Families []*Family `parser:"@@ ( ',' @@ )*"`
}

// Family is one entry of a family list, quoted or as a run of identifiers.
type Family struct {
	Quoted *QuotedName `parser:"  @String"`
	Words  []string    `parser:"| @Ident+"`
}

// Name returns the family name with quotes removed and words joined by a single space.
func (f *Family) Name() string {
	if f == nil {
		return ""
	}
	if f.Quoted != nil {
		return string(*f.Quoted)
	}
	return strings.Join(f.Words, " ")
}

// QuotedName unquotes single or double quoted CSS strings on capture.
type QuotedName string

// Capture implements participle.Capture.
func (q *QuotedName) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("quoted name capture requires value")
	}
	raw := values[0]
	if len(raw) < 2 {
		return fmt.Errorf("invalid quoted name %q", raw)
	}
	body := raw[1 : len(raw)-1]
	var sb strings.Builder
	escaped := false
	for _, r := range body {
		if escaped {
			sb.WriteRune(r)
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		sb.WriteRune(r)
	}
	*q = QuotedName(sb.String())
	return nil
}

// Dimension is a CSS length with its unit.
type Dimension struct {
	Value float64
	Unit  string
}

// Capture implements participle.Capture.
func (d *Dimension) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("dimension capture requires value")
	}
	raw := values[0]
	idx := strings.IndexFunc(raw, func(r rune) bool {
		return !(r >= '0' && r <= '9' || r == '.')
	})
	if idx <= 0 {
		return fmt.Errorf("invalid dimension %q", raw)
	}
	v, err := strconv.ParseFloat(raw[:idx], 64)
	if err != nil {
		return fmt.Errorf("invalid dimension %q: %w", raw, err)
	}
	d.Value = v
	d.Unit = raw[idx:]
	return nil
}

// Pixels converts the dimension to CSS pixels.
func (d Dimension) Pixels() float64 {
	switch d.Unit {
	case "pt":
		return d.Value * 96 / 72
	case "em", "rem":
		return d.Value * DefaultSizePx
	case "%":
		return d.Value * DefaultSizePx / 100
	default:
		return d.Value
	}
}

// ParseShorthandString parses a font shorthand from a string.
func ParseShorthandString(input string) (*Shorthand, error) {
	return shorthandParser.ParseString("", input)
}

// ParseFamilies parses a comma-separated font-family list.
func ParseFamilies(input string) ([]string, error) {
	list, err := familiesParser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("解析字体族 %q 失败: %w", input, err)
	}
	return familyNames(list.Families), nil
}

func familyNames(fams []*Family) []string {
	out := make([]string, 0, len(fams))
	for _, f := range fams {
		if name := f.Name(); name != "" {
			out = append(out, name)
		}
	}
	return out
}
