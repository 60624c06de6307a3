// Package surface defines the 2D drawing surface the emoji renderer paints on
// and provides Raster, an in-memory implementation that fills canvas glyph
// outlines through the canvas rasterizer and composites with golang.org/x/image/draw.
//
// The contract mirrors an HTML canvas 2D context closely enough that the
// rendering pipeline can be described in canvas terms: a fill style, a font
// string, text anchoring, a transform stack with Save/Restore, and a
// composite operation used when drawing one surface onto another.
package surface

import (
	"image"
	"image/color"
	"io"
)

// TextAlign selects the horizontal anchor of FillText.
type TextAlign int

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)

// TextBaseline selects the vertical anchor of FillText.
type TextBaseline int

const (
	BaselineAlphabetic TextBaseline = iota
	BaselineMiddle
	BaselineTop
	BaselineBottom
)

// CompositeOp selects how new pixels combine with the pixels already present.
type CompositeOp int

const (
	// SourceOver draws the source on top of the destination.
	SourceOver CompositeOp = iota
	// DestinationIn keeps the destination only where the source is opaque,
	// scaling destination alpha by source alpha everywhere on the surface.
	DestinationIn
)

// Quality controls glyph rendering.
type Quality int

const (
	// QualityLow fills glyphs without antialiasing.
	QualityLow Quality = iota
	// QualityHigh fills glyphs with antialiased coverage.
	QualityHigh
)

// Paint is a fill source sampled in device pixel space.
type Paint interface {
	At(x, y float64) color.RGBA
}

// Solid is a single-color Paint.
type Solid color.RGBA

// At implements Paint.
func (s Solid) At(float64, float64) color.RGBA { return color.RGBA(s) }

// Surface is a mutable square-or-rectangular drawing target.
//
// Invalid inputs are ignored the way a canvas ignores them: an unparsable
// color or font string leaves the previous value in place, and non-finite
// transform arguments are dropped.
type Surface interface {
	// Resize sets the pixel size, clearing the contents and resetting all
	// draw state to its defaults.
	Resize(width, height int)
	Width() int
	Height() int
	// Clear makes every pixel transparent.
	Clear()
	FillRect(x, y, w, h float64)
	// SetFillColor sets a solid fill from a CSS color string.
	SetFillColor(c string)
	SetFillPaint(p Paint)
	// SetFont sets the font from a CSS font shorthand, e.g. `34px "Go", sans-serif`.
	SetFont(font string)
	SetTextAlign(a TextAlign)
	SetTextBaseline(b TextBaseline)
	// MeasureText returns the advance width of text in the current font,
	// ignoring the current transform.
	MeasureText(text string) float64
	FillText(text string, x, y float64)
	Save()
	Restore()
	Translate(x, y float64)
	Scale(sx, sy float64)
	SetCompositeOp(op CompositeOp)
	// DrawImage composites img with its top-left corner at the transformed
	// (x, y), rounded to whole pixels. The image is not resampled.
	DrawImage(img image.Image, x, y float64)
	// NewOffscreen returns a blank surface of the given size sharing this
	// surface's fonts and quality setting.
	NewOffscreen(width, height int) Surface
	SetQuality(q Quality)
	Image() image.Image
	EncodePNG(w io.Writer) error
}
