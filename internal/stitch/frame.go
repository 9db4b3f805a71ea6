package stitch

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

// cloneFrame returns an owned, origin-anchored, fully opaque copy of f.
func cloneFrame(f *image.RGBA) *image.RGBA {
	b := f.Bounds()
	w := b.Dx()
	h := b.Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := f.Pix[f.PixOffset(b.Min.X, b.Min.Y+y):]
		dst := out.Pix[y*out.Stride:]
		copy(dst[:w*4], src[:w*4])
		for x := 0; x < w; x++ {
			dst[x*4+3] = 0xFF
		}
	}
	return out
}

// normalizeWidths rescales every frame to the width of the first one,
// preserving aspect ratio, and hands back owned writable copies.
func normalizeWidths(frames []*image.RGBA) []*image.RGBA {
	target := frames[0].Bounds().Dx()
	out := make([]*image.RGBA, 0, len(frames))
	for _, f := range frames {
		b := f.Bounds()
		if b.Dx() == target {
			out = append(out, cloneFrame(f))
			continue
		}
		scaledH := int(math.Round(float64(b.Dy()) * float64(target) / float64(b.Dx())))
		if scaledH < 1 {
			scaledH = 1
		}
		scaled := image.NewRGBA(image.Rect(0, 0, target, scaledH))
		xdraw.BiLinear.Scale(scaled, scaled.Bounds(), f, b, xdraw.Src, nil)
		out = append(out, cloneFrame(scaled))
	}
	return out
}
