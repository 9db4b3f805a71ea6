package stitch

import "math"

// blendRow feathers one RGBA row of the panorama with one row of the next
// frame. alpha 0 keeps the panorama, alpha 1 keeps the next frame. The
// output alpha channel is forced opaque.
func blendRow(dst, rowP, rowN []uint8, w int, alpha float64) {
	a := alpha
	if a < 0 {
		a = 0
	} else if a > 1 {
		a = 1
	}
	ia := 1 - a
	for x := 0; x < w; x++ {
		i := x * 4
		dst[i] = blendChannel(rowP[i], rowN[i], ia, a)
		dst[i+1] = blendChannel(rowP[i+1], rowN[i+1], ia, a)
		dst[i+2] = blendChannel(rowP[i+2], rowN[i+2], ia, a)
		dst[i+3] = 0xFF
	}
}

func blendChannel(p, n uint8, ia, a float64) uint8 {
	v := math.Round(float64(p)*ia + float64(n)*a)
	if v < 0 {
		v = 0
	} else if v > 255 {
		v = 255
	}
	return uint8(v)
}
