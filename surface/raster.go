package surface

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"math"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"golang.org/x/image/draw"

	"github.com/ByLCY/slackmoji/fonts"
	"github.com/ByLCY/slackmoji/fontspec"
)

const defaultFont = "10px sans-serif"

type drawState struct {
	m        Matrix
	fill     Paint
	font     string
	face     *fonts.Face
	align    TextAlign
	baseline TextBaseline
	op       CompositeOp
	quality  Quality
}

// Raster is a Surface backed by an *image.RGBA.
// A Raster is not safe for concurrent use.
type Raster struct {
	img    *image.RGBA
	fonts  *fonts.Registry
	logger *slog.Logger

	st    drawState
	stack []drawState
}

// Option configures a Raster.
type Option func(*Raster)

// WithFonts sets the font registry used to resolve font strings.
func WithFonts(reg *fonts.Registry) Option {
	return func(r *Raster) {
		if reg != nil {
			r.fonts = reg
		}
	}
}

// WithLogger sets the logger used to report ignored draw state.
func WithLogger(l *slog.Logger) Option {
	return func(r *Raster) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRaster returns a transparent width×height raster surface.
func NewRaster(width, height int, opts ...Option) *Raster {
	r := &Raster{
		fonts:  fonts.Default(),
		logger: nopLogger,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.Resize(width, height)
	return r
}

func (r *Raster) defaults() drawState {
	st := drawState{
		m:    Identity(),
		fill: Solid(color.RGBA{A: 0xff}),
	}
	if f, ok := r.resolveFont(defaultFont); ok {
		st.font, st.face = defaultFont, f
	}
	return st
}

// Resize implements Surface.
func (r *Raster) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	r.img = image.NewRGBA(image.Rect(0, 0, width, height))
	r.st = r.defaults()
	r.stack = r.stack[:0]
}

func (r *Raster) Width() int  { return r.img.Rect.Dx() }
func (r *Raster) Height() int { return r.img.Rect.Dy() }

// Clear implements Surface.
func (r *Raster) Clear() {
	clear(r.img.Pix)
}

// SetFillColor implements Surface.
func (r *Raster) SetFillColor(c string) {
	col, ok := ParseColor(c)
	if !ok {
		r.logger.Debug("ignore invalid fill color", "color", c)
		return
	}
	r.st.fill = Solid(col)
}

// SetFillPaint implements Surface.
func (r *Raster) SetFillPaint(p Paint) {
	if p != nil {
		r.st.fill = p
	}
}

// SetFont implements Surface.
func (r *Raster) SetFont(s string) {
	f, ok := r.resolveFont(s)
	if !ok {
		return
	}
	r.st.font, r.st.face = s, f
}

func (r *Raster) resolveFont(s string) (*fonts.Face, bool) {
	spec, err := fontspec.Parse(s)
	if err != nil {
		r.logger.Debug("ignore invalid font", "font", s, "error", err)
		return nil, false
	}
	var style fonts.Style
	if spec.Bold {
		style |= fonts.Bold
	}
	if spec.Italic {
		style |= fonts.Italic
	}
	f := r.fonts.Face(spec.Families, style, spec.SizePx)
	if f == nil {
		r.logger.Warn("no font available", "font", s)
		return nil, false
	}
	return f, true
}

// Font returns the current font string.
func (r *Raster) Font() string { return r.st.font }

func (r *Raster) SetTextAlign(a TextAlign)       { r.st.align = a }
func (r *Raster) SetTextBaseline(b TextBaseline) { r.st.baseline = b }
func (r *Raster) SetCompositeOp(op CompositeOp)  { r.st.op = op }
func (r *Raster) SetQuality(q Quality)           { r.st.quality = q }

// Transform returns the current transform.
func (r *Raster) Transform() Matrix { return r.st.m }

// Save implements Surface.
func (r *Raster) Save() {
	r.stack = append(r.stack, r.st)
}

// Restore implements Surface. Restore without a matching Save is a no-op.
func (r *Raster) Restore() {
	if len(r.stack) == 0 {
		return
	}
	r.st = r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
}

// Translate implements Surface.
func (r *Raster) Translate(x, y float64) {
	if !finite(x, y) {
		return
	}
	r.st.m = r.st.m.Translate(x, y)
}

// Scale implements Surface.
func (r *Raster) Scale(sx, sy float64) {
	if !finite(sx, sy) {
		return
	}
	r.st.m = r.st.m.Scale(sx, sy)
}

// MeasureText implements Surface.
func (r *Raster) MeasureText(text string) float64 {
	if r.st.face == nil || text == "" {
		return 0
	}
	return r.st.face.TextWidth(text)
}

func (r *Raster) baselineShift() float64 {
	if r.st.baseline == BaselineAlphabetic || r.st.face == nil {
		return 0
	}
	emAsc, emDesc := r.st.face.EmBox()
	switch r.st.baseline {
	case BaselineTop:
		return emAsc
	case BaselineBottom:
		return -emDesc
	case BaselineMiddle:
		return (emAsc - emDesc) / 2
	default:
		return 0
	}
}

// FillText implements Surface.
func (r *Raster) FillText(text string, x, y float64) {
	if r.st.face == nil || text == "" || r.Width() == 0 || r.Height() == 0 {
		return
	}
	p, width := r.st.face.Path(text)
	switch r.st.align {
	case AlignCenter:
		x -= width / 2
	case AlignRight:
		x -= width
	}
	y += r.baselineShift()

	mask := r.coverage(p.Transform(toCanvas(r.st.m).Translate(x, y)))
	if r.st.quality == QualityLow {
		for i, a := range mask.Pix {
			if a >= 0x80 {
				mask.Pix[i] = 0xff
			} else {
				mask.Pix[i] = 0
			}
		}
	}
	r.fillMask(mask)
}

// FillRect implements Surface.
func (r *Raster) FillRect(x, y, w, h float64) {
	if !finite(x, y, w, h) || w == 0 || h == 0 || r.Width() == 0 || r.Height() == 0 {
		return
	}
	if w < 0 {
		x, w = x+w, -w
	}
	if h < 0 {
		y, h = y+h, -h
	}
	m := r.st.m
	if m.isTranslation() {
		x0, y0 := m.Apply(x, y)
		x1, y1 := m.Apply(x+w, y+h)
		if isInt(x0) && isInt(y0) && isInt(x1) && isInt(y1) {
			rect := image.Rect(int(x0), int(y0), int(x1), int(y1))
			mask := image.NewAlpha(r.img.Rect)
			draw.Draw(mask, rect, image.Opaque, image.Point{}, draw.Src)
			r.fillMask(mask)
			return
		}
	}
	r.fillMask(r.coverage(canvas.Rectangle(w, h).Transform(toCanvas(m).Translate(x, y))))
}

func isInt(v float64) bool { return v == math.Trunc(v) }

// coverage rasterizes p, given in device pixels, into an antialiased alpha mask.
func (r *Raster) coverage(p *canvas.Path) *image.Alpha {
	c := canvas.New(float64(r.Width()), float64(r.Height()))
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)
	ctx.SetFillColor(canvas.White)
	ctx.DrawPath(0, 0, p)
	img := rasterizer.Draw(c, canvas.DPMM(1), canvas.DefaultColorSpace)

	mask := image.NewAlpha(r.img.Rect)
	b := mask.Rect.Intersect(img.Rect)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			mask.Pix[mask.PixOffset(x, y)] = img.Pix[img.PixOffset(x, y)+3]
		}
	}
	return mask
}

// toCanvas converts m to the equivalent canvas matrix.
func toCanvas(m Matrix) canvas.Matrix {
	return canvas.Matrix{{m.A, m.C, m.E}, {m.B, m.D, m.F}}
}

func (r *Raster) paintImage() image.Image {
	if s, ok := r.st.fill.(Solid); ok {
		return image.NewUniform(color.RGBA(s))
	}
	return &paintImage{p: r.st.fill, bounds: r.img.Rect}
}

// fillMask composites the current fill through mask using the current op.
func (r *Raster) fillMask(mask *image.Alpha) {
	src := r.paintImage()
	switch r.st.op {
	case DestinationIn:
		destinationIn(r.img, func(x, y int) uint32 {
			_, _, _, a := src.At(x, y).RGBA()
			return (a >> 8) * uint32(mask.AlphaAt(x, y).A) / 0xff
		})
	default:
		draw.DrawMask(r.img, r.img.Rect, src, image.Point{}, mask, image.Point{}, draw.Over)
	}
}

// DrawImage implements Surface.
func (r *Raster) DrawImage(img image.Image, x, y float64) {
	if img == nil || !finite(x, y) {
		return
	}
	dx, dy := r.st.m.Apply(x, y)
	off := image.Pt(int(math.Round(dx)), int(math.Round(dy)))
	sb := img.Bounds()
	dr := sb.Sub(sb.Min).Add(off)

	switch r.st.op {
	case DestinationIn:
		destinationIn(r.img, func(px, py int) uint32 {
			p := image.Pt(px, py)
			if !p.In(dr) {
				return 0
			}
			_, _, _, a := img.At(p.X-off.X+sb.Min.X, p.Y-off.Y+sb.Min.Y).RGBA()
			return a >> 8
		})
	default:
		draw.Draw(r.img, dr, img, sb.Min, draw.Over)
	}
}

// destinationIn scales every destination pixel by alpha(x, y)/255.
func destinationIn(dst *image.RGBA, alpha func(x, y int) uint32) {
	b := dst.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			a := alpha(x, y)
			if a == 0xff {
				continue
			}
			i := dst.PixOffset(x, y)
			px := dst.Pix[i : i+4 : i+4]
			for c := range px {
				px[c] = uint8((uint32(px[c])*a + 0x7f) / 0xff)
			}
		}
	}
}

// NewOffscreen implements Surface.
func (r *Raster) NewOffscreen(width, height int) Surface {
	off := &Raster{fonts: r.fonts, logger: r.logger}
	off.Resize(width, height)
	off.st.quality = r.st.quality
	return off
}

// Image implements Surface. The returned image aliases the surface pixels.
func (r *Raster) Image() image.Image { return r.img }

// RGBA returns the backing image.
func (r *Raster) RGBA() *image.RGBA { return r.img }

// EncodePNG implements Surface.
func (r *Raster) EncodePNG(w io.Writer) error {
	return png.Encode(w, r.img)
}

// paintImage adapts a Paint to image.Image, sampling at pixel centers.
type paintImage struct {
	p      Paint
	bounds image.Rectangle
}

func (pi *paintImage) ColorModel() color.Model { return color.RGBAModel }
func (pi *paintImage) Bounds() image.Rectangle { return pi.bounds }
func (pi *paintImage) At(x, y int) color.Color {
	return pi.p.At(float64(x)+0.5, float64(y)+0.5)
}

var _ Surface = (*Raster)(nil)
