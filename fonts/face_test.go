package fonts

import (
	"testing"

	"github.com/tdewolff/test"
)

func TestFaceTextWidthScales(t *testing.T) {
	r := NewRegistry()
	small := r.Face([]string{FamilyGo}, Regular, 10)
	large := r.Face([]string{FamilyGo}, Regular, 40)
	w := small.TextWidth("Slack")
	if w <= 0 {
		t.Fatalf("expected positive width, got %v", w)
	}
	test.Float(t, large.TextWidth("Slack"), 4*w)
	test.Float(t, small.TextWidth(""), 0)
	test.Float(t, large.Size(), 40)
}

func TestFacePath(t *testing.T) {
	f := NewRegistry().Face([]string{FamilyLiberationSans}, Regular, 32)
	p, width := f.Path("Hi")
	test.Float(t, width, f.TextWidth("Hi"))

	bounds := p.Bounds()
	if bounds.W() <= 0 || bounds.H() <= 0 {
		t.Fatalf("expected non-empty outline, got %v", bounds)
	}
	// 大写字母位于基线之上，y 轴向下时为负值
	if bounds.Y1 > 0.5 || bounds.Y0 > -10 {
		t.Fatalf("expected glyphs above the baseline, got %v", bounds)
	}

	empty, w := f.Path("")
	test.Float(t, w, 0)
	if !empty.Empty() {
		t.Fatalf("expected empty path")
	}
}

func TestFaceEmBox(t *testing.T) {
	f := NewRegistry().Face([]string{FamilyGo}, Regular, 50)
	asc, desc := f.EmBox()
	test.Float(t, asc+desc, 50)
	if asc <= desc {
		t.Fatalf("expected ascent %v > descent %v", asc, desc)
	}
	test.Float(t, f.MiddleShift(), (asc-desc)/2)
}

func TestFaceMissing(t *testing.T) {
	f := NewRegistry().Face([]string{FamilyGo}, Regular, 20)
	if n := f.Missing("Go あい"); n != 2 {
		t.Fatalf("expected 2 missing runes, got %d", n)
	}
	if n := f.Missing("ok !"); n != 0 {
		t.Fatalf("expected no missing runes, got %d", n)
	}
}

func TestFaceRunesFallBack(t *testing.T) {
	r := NewRegistry()
	primary, err := r.Lookup(FamilyLatinModern, Regular)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if gi, _ := primary.GlyphIndex(nil, 'Ж'); gi != 0 {
		t.Skipf("%s covers Cyrillic", FamilyLatinModern)
	}

	f := r.Face([]string{FamilyLatinModern}, Regular, 20)
	runs := f.runs("AB ЖЖ C")
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %+v", runs)
	}
	if runs[0].face != 0 || runs[0].text != "AB " {
		t.Fatalf("unexpected first run %+v", runs[0])
	}
	if runs[1].face == 0 || f.names[runs[1].face] != FamilyLiberationSans || runs[1].text != "ЖЖ " {
		t.Fatalf("expected Cyrillic to fall back to %s, got %+v", FamilyLiberationSans, runs[1])
	}
	if runs[2].face != 0 || runs[2].text != "C" {
		t.Fatalf("unexpected last run %+v", runs[2])
	}
	if n := f.Missing("AB ЖЖ C"); n != 0 {
		t.Fatalf("expected fallback to cover every rune, got %d missing", n)
	}

	_, width := f.Path("Ж")
	test.Float(t, width, f.faces[runs[1].face].TextWidth("Ж"))
}
