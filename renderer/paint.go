package renderer

import (
	"strings"

	"github.com/ByLCY/slackmoji/config"
	"github.com/ByLCY/slackmoji/fontspec"
	"github.com/ByLCY/slackmoji/layout"
	"github.com/ByLCY/slackmoji/surface"
)

// maskColor 是遮罩缓冲区里字形的填充色，只用到 alpha。
const maskColor = "#ffffff"

type painter struct {
	size    float64
	family  string
	padding float64
	autoFit bool
}

// paintLines 以水平中线、middle 基线逐行绘制 l，使用 s 当前的填充。
func (p painter) paintLines(s surface.Surface, l *layout.Layout) {
	s.SetFont(fontspec.Format(l.FontSize, p.family))
	s.SetTextAlign(surface.AlignCenter)
	s.SetTextBaseline(surface.BaselineMiddle)

	cx := p.size / 2
	target := layout.TargetWidth(p.size, p.padding)
	for i, line := range l.Lines {
		if p.autoFit {
			p.paintStretched(s, line, cx, l.LineY(i), target)
			continue
		}
		s.FillText(line, cx, l.LineY(i))
	}
}

// paintStretched 把一行水平缩放到 target 宽，每行的缩放系数相互独立。
func (p painter) paintStretched(s surface.Surface, line string, cx, y, target float64) {
	natural := s.MeasureText(line)
	s.Save()
	defer s.Restore()
	s.Translate(cx, y)
	if natural > 0 {
		s.Scale(target/natural, 1)
	}
	s.FillText(line, 0, 0)
}

func (p painter) paintSolid(s surface.Surface, l *layout.Layout, col string) {
	if strings.TrimSpace(col) == "" {
		col = config.DefaultColor
	}
	s.SetFillColor(col)
	p.paintLines(s, l)
}

// paintGradient 先把渐变铺满缓冲区 A，再在同尺寸的缓冲区 B 上用白色绘制字形，
// 以 destination-in 把 B 合成进 A，最后把 A 画到输出 surface 上。
func (p painter) paintGradient(s surface.Surface, l *layout.Layout, g surface.Paint) {
	w, h := s.Width(), s.Height()

	ramp := s.NewOffscreen(w, h)
	ramp.SetFillPaint(g)
	ramp.FillRect(0, 0, float64(w), float64(h))

	glyphs := s.NewOffscreen(w, h)
	glyphs.SetFillColor(maskColor)
	p.paintLines(glyphs, l)

	ramp.SetCompositeOp(surface.DestinationIn)
	ramp.DrawImage(glyphs.Image(), 0, 0)

	s.DrawImage(ramp.Image(), 0, 0)
}
