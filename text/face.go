// Package text draws glyphs into overlay framebuffers. Fonts are
// parsed with go-text/typesetting and rasterized to alpha masks with
// x/image's opentype engine; every glyph pixel reaches the framebuffer
// through DrawRect, so scissor clipping and the 4444 blend rules apply
// to text exactly as to widget chrome.
package text

import (
	"bytes"
	"fmt"

	gtfont "github.com/go-text/typesetting/font"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Face is a font at a fixed pixel size.
type Face struct {
	meta   *gtfont.Font
	raster font.Face
	size   float64
}

// NewFace parses TTF/OTF data and prepares a face of the given pixel
// size. The data is parsed twice: once with go-text/typesetting, whose
// parser is the gatekeeper for malformed fonts and the source of font
// metadata, and once with x/image's opentype engine, which rasterizes
// the masks.
func NewFace(data []byte, size float64) (*Face, error) {
	gtFace, err := gtfont.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("text: parse font: %w", err)
	}

	otf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("text: parse font outlines: %w", err)
	}
	raster, err := opentype.NewFace(otf, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("text: create face: %w", err)
	}

	return &Face{meta: gtFace.Font, raster: raster, size: size}, nil
}

// Size returns the face's pixel size.
func (f *Face) Size() float64 { return f.size }

// UnitsPerEm returns the font's design grid resolution.
func (f *Face) UnitsPerEm() uint16 { return uint16(f.meta.Upem()) }

// LineHeight returns the face's line height in pixels, rounded up.
func (f *Face) LineHeight() int {
	return f.raster.Metrics().Height.Ceil()
}

// Ascent returns the distance from the baseline to the top of the
// tallest glyph, in pixels.
func (f *Face) Ascent() int {
	return f.raster.Metrics().Ascent.Ceil()
}

// Advance returns the horizontal advance of s in pixels.
func (f *Face) Advance(s string) int {
	var total fixed.Int26_6
	for _, r := range Normalize(s) {
		adv, ok := f.raster.GlyphAdvance(r)
		if !ok {
			continue
		}
		total += adv
	}
	return total.Ceil()
}

// Close releases the rasterizer resources.
func (f *Face) Close() error {
	return f.raster.Close()
}
