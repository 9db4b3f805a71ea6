package stitch

import (
	"image"
	"math"
	"math/rand"
)

// quadShade gives every source row a distinct, non-repeating shade. Used
// where the alignment must be unambiguous at full resolution.
func quadShade(y int) uint8 {
	return uint8((y*y*31 + y*7 + 3) % 251)
}

// smoothShade is a slowly varying page texture that survives downsampling,
// for multi-level and noise-robustness scenarios.
func smoothShade(y int) uint8 {
	fy := float64(y)
	v := 120 + 80*math.Sin(fy/9) + 22*math.Sin(fy/3.1) + 14*math.Sin(1.1*fy)
	return uint8(math.Round(v))
}

// pageCrop renders rows [top, top+h) of a synthetic tall page whose row y
// carries the uniform shade shade(y).
func pageCrop(w, top, h int, shade func(int) uint8) *image.RGBA {
	f := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		v := shade(top + y)
		for x := 0; x < w; x++ {
			i := f.PixOffset(x, y)
			f.Pix[i], f.Pix[i+1], f.Pix[i+2], f.Pix[i+3] = v, v, v, 0xFF
		}
	}
	return f
}

func flatFrame(w, h int, v uint8) *image.RGBA {
	f := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(f.Pix); i += 4 {
		f.Pix[i], f.Pix[i+1], f.Pix[i+2], f.Pix[i+3] = v, v, v, 0xFF
	}
	return f
}

func setPixel(f *image.RGBA, x, y int, r, g, b uint8) {
	i := f.PixOffset(x, y)
	f.Pix[i], f.Pix[i+1], f.Pix[i+2], f.Pix[i+3] = r, g, b, 0xFF
}

// scribbleColumns overwrites the leftmost n columns with low-contrast
// per-frame noise, simulating a shimmering sidebar.
func scribbleColumns(f *image.RGBA, n int, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	b := f.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < n; x++ {
			v := uint8(110 + rng.Intn(40))
			setPixel(f, x, y, v, v, v)
		}
	}
}

func pixelEqual(a, b *image.RGBA, xa, ya, xb, yb int) bool {
	ia := a.PixOffset(xa, ya)
	ib := b.PixOffset(xb, yb)
	return a.Pix[ia] == b.Pix[ib] && a.Pix[ia+1] == b.Pix[ib+1] && a.Pix[ia+2] == b.Pix[ib+2]
}
