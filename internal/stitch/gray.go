package stitch

import "image"

// GrayPlane is a single-channel float32 luminance buffer, row-major.
type GrayPlane struct {
	W, H int
	Pix  []float32
}

// NewGrayPlane allocates a zeroed plane.
func NewGrayPlane(w, h int) *GrayPlane {
	return &GrayPlane{W: w, H: h, Pix: make([]float32, w*h)}
}

// At returns the luminance at (x, y). No bounds checking beyond the slice's.
func (p *GrayPlane) At(x, y int) float32 {
	return p.Pix[y*p.W+x]
}

// Grayscale converts a frame to a Rec. 601 luminance plane. Alpha is
// ignored; values stay in [0, 255] so no clamping is needed.
func Grayscale(f *image.RGBA) *GrayPlane {
	b := f.Bounds()
	return grayRegion(f, 0, b.Dy())
}

// grayRegion converts the rows [top, top+h) of a frame. The caller
// guarantees the band is inside the frame.
func grayRegion(f *image.RGBA, top, h int) *GrayPlane {
	b := f.Bounds()
	w := b.Dx()
	out := NewGrayPlane(w, h)
	for y := 0; y < h; y++ {
		src := f.Pix[f.PixOffset(b.Min.X, b.Min.Y+top+y):]
		dst := out.Pix[y*w:]
		for x := 0; x < w; x++ {
			r := src[x*4]
			g := src[x*4+1]
			bl := src[x*4+2]
			dst[x] = 0.299*float32(r) + 0.587*float32(g) + 0.114*float32(bl)
		}
	}
	return out
}
