package text

import (
	"image"

	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"

	"github.com/nxovl/overlay"
)

// Normalize returns s in NFC form so that combining sequences map onto
// the precomposed glyphs fonts actually carry.
func Normalize(s string) string {
	return norm.NFC.String(s)
}

// Draw renders s with the baseline origin at (x, y). Each glyph's alpha
// mask is quantized to the 4-bit channel domain, scaled by the color's
// own alpha, and composited pixel by pixel through DrawRect, so text
// obeys the active scissor stack and blend rules like any other chrome.
func Draw(fb *overlay.FrameBuffer, face *Face, s string, x, y int, color overlay.Color) {
	dot := fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	prev := rune(-1)

	for _, r := range Normalize(s) {
		if prev >= 0 {
			dot.X += face.raster.Kern(prev, r)
		}
		dr, mask, maskp, advance, ok := face.raster.Glyph(dot, r)
		if ok {
			drawMask(fb, dr.Min.X, dr.Min.Y, dr.Dx(), dr.Dy(), mask, maskp.X, maskp.Y, color)
			dot.X += advance
		}
		prev = r
	}
}

// drawMask composites one glyph mask at (dstX, dstY).
func drawMask(fb *overlay.FrameBuffer, dstX, dstY, w, h int, mask image.Image, maskX, maskY int, color overlay.Color) {
	colorA := uint32(color.A())
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			_, _, _, a := mask.At(maskX+x, maskY+y).RGBA()
			// 16-bit coverage scaled by the text color's 4-bit alpha.
			a4 := uint8(a * colorA / 0xFFFF)
			if a4 == 0 {
				continue
			}
			fb.DrawRect(overlay.NewRect(dstX+x, dstY+y, 1, 1), color.WithA(a4))
		}
	}
}
