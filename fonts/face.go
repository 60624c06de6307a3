package fonts

import (
	"strings"
	"unicode"

	"github.com/tdewolff/canvas"
	"golang.org/x/image/font/sfnt"
)

// mmPerPt 是 canvas 字号（pt）与长度单位（mm）的比例。字号先除以它再交给 canvas，长度单位就等于像素。
const mmPerPt = 25.4 / 72

// Face 是按优先级排列的一组字体面：主字体缺字时逐字回退到后面的字体。长度单位均为像素。
type Face struct {
	size  float64
	names []string
	fonts []*sfnt.Font
	faces []*canvas.FontFace
}

func newFace(chain []*face, sizePx float64) *Face {
	f := &Face{size: sizePx}
	for _, fc := range chain {
		f.names = append(f.names, fc.name)
		f.fonts = append(f.fonts, fc.font)
		f.faces = append(f.faces, fc.family.Face(sizePx/mmPerPt, canvas.White, canvas.FontRegular, canvas.FontNormal))
	}
	return f
}

// Family 返回主字体的字体族名称。
func (f *Face) Family() string { return f.names[0] }

// Size 返回像素字号。
func (f *Face) Size() float64 { return f.size }

type run struct {
	face int
	text string
}

// runs 按字形覆盖切分 text：每个字符交给回退链中第一个含有它的字体，都没有时留给主字体。
// 空白跟随前一段。
func (f *Face) runs(text string) []run {
	var (
		out []run
		sb  strings.Builder
		cur = -1
	)
	for _, ru := range text {
		idx := cur
		if idx < 0 || !unicode.IsSpace(ru) {
			idx, _ = f.cover(ru)
		}
		if idx != cur && sb.Len() > 0 {
			out = append(out, run{face: cur, text: sb.String()})
			sb.Reset()
		}
		cur = idx
		sb.WriteRune(ru)
	}
	if sb.Len() > 0 {
		out = append(out, run{face: cur, text: sb.String()})
	}
	return out
}

func (f *Face) cover(ru rune) (int, bool) {
	for i, font := range f.fonts {
		if gi, err := font.GlyphIndex(nil, ru); err == nil && gi != 0 {
			return i, true
		}
	}
	return 0, false
}

// Missing 返回 text 中没有任何字体能绘制的非空白字符个数。
func (f *Face) Missing(text string) int {
	n := 0
	for _, ru := range text {
		if unicode.IsSpace(ru) {
			continue
		}
		if _, ok := f.cover(ru); !ok {
			n++
		}
	}
	return n
}

// TextWidth 返回 text 的前进宽度。
func (f *Face) TextWidth(text string) float64 {
	var w float64
	for _, r := range f.runs(text) {
		w += f.faces[r.face].TextWidth(r.text)
	}
	return w
}

// Path 返回 text 的轮廓与前进宽度。笔起点为原点，字母基线为 y=0，y 轴向下。
func (f *Face) Path(text string) (*canvas.Path, float64) {
	p := &canvas.Path{}
	var pen float64
	for _, r := range f.runs(text) {
		glyphs, advance, err := f.faces[r.face].ToPath(r.text)
		if err == nil {
			p = p.Append(glyphs.Transform(canvas.Identity.Translate(pen, 0).Scale(1, -1)))
		}
		pen += advance
	}
	return p, pen
}

// EmBox 返回主字体归一化到 em 盒（上升部 + 下降部 = 字号）后的上升部与下降部。
func (f *Face) EmBox() (ascent, descent float64) {
	m := f.faces[0].Metrics()
	if m.Ascent+m.Descent <= 0 {
		return 0, 0
	}
	ascent = f.size * m.Ascent / (m.Ascent + m.Descent)
	return ascent, f.size - ascent
}

// MiddleShift 返回把字母基线换算为 em 盒垂直中线所需的下移量。
func (f *Face) MiddleShift() float64 {
	asc, desc := f.EmBox()
	return (asc - desc) / 2
}
