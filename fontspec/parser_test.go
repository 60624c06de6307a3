package fontspec_test

import (
	"testing"

	"github.com/tdewolff/test"

	"github.com/ByLCY/slackmoji/fontspec"
)

func TestParseShorthand(t *testing.T) {
	tests := []struct {
		in       string
		size     float64
		bold     bool
		italic   bool
		families []string
	}{
		{"34px Arial, sans-serif", 34, false, false, []string{"Arial", "sans-serif"}},
		{"24.5px Times New Roman", 24.5, false, false, []string{"Times New Roman"}},
		{`bold italic 12pt "Noto Sans JP", serif`, 16, true, true, []string{"Noto Sans JP", "serif"}},
		{"700 2em 'Go Mono'", 32, true, false, []string{"Go Mono"}},
		{"normal 50%/1.2 Go", 8, false, false, []string{"Go"}},
		{"10px ヒラギノ角ゴ", 10, false, false, []string{"ヒラギノ角ゴ"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			f, err := fontspec.Parse(tt.in)
			test.Error(t, err)
			test.Float(t, f.SizePx, tt.size)
			test.T(t, f.Bold, tt.bold)
			test.T(t, f.Italic, tt.italic)
			test.T(t, f.Families, tt.families)
		})
	}
}

func TestParseShorthandLineHeight(t *testing.T) {
	ast, err := fontspec.ParseShorthandString("12px/1.5 Go")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if ast.LineHeight == nil || *ast.LineHeight != "1.5" {
		t.Fatalf("expected line height 1.5, got %v", ast.LineHeight)
	}
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{
		"",
		"Arial",
		"34px",
		"heavy 34px Arial",
		"0px Arial",
		"34px Arial,",
	} {
		if _, err := fontspec.Parse(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestParseFamilies(t *testing.T) {
	fams, err := fontspec.ParseFamilies(`Arial, "Helvetica Neue", sans-serif`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	test.T(t, fams, []string{"Arial", "Helvetica Neue", "sans-serif"})
}

func TestFormat(t *testing.T) {
	test.T(t, fontspec.Format(34, "Arial, sans-serif"), "34px Arial, sans-serif")
	test.T(t, fontspec.Format(12.5, "Go"), "12.5px Go")

	f, err := fontspec.Parse(fontspec.Format(86, `"Noto Sans JP", sans-serif`))
	test.Error(t, err)
	test.Float(t, f.SizePx, 86)
	test.T(t, f.Families, []string{"Noto Sans JP", "sans-serif"})
}
