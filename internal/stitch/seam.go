package stitch

import (
	"image"
	"math"
)

// findSeamRow picks the row inside the overlap where the panorama and the
// next frame agree best. Only the central strip of columns is inspected so
// that scrollbars and other dynamic chrome along the edges cannot drag the
// seam. Returns the first row on ties.
func findSeamRow(pano, next *image.RGBA, alignTop, overlapH int) int {
	w := pano.Bounds().Dx()
	x0 := int(math.Round(0.1 * float64(w)))
	x1 := int(math.Round(0.9 * float64(w)))
	if x1 <= x0 {
		x1 = x0 + 1
	}

	bestRow := 0
	bestSum := int64(math.MaxInt64)
	for y := 0; y < overlapH; y++ {
		sum := rowDistance(pano, next, alignTop+y, y, x0, x1)
		if sum < bestSum {
			bestSum = sum
			bestRow = y
		}
	}
	return bestRow
}

// rowDistance sums the per-pixel L1 color distance between row yp of p and
// row yn of n over columns [x0, x1).
func rowDistance(p, n *image.RGBA, yp, yn, x0, x1 int) int64 {
	pb := p.Bounds()
	nb := n.Bounds()
	rowP := p.Pix[p.PixOffset(pb.Min.X+x0, pb.Min.Y+yp):]
	rowN := n.Pix[n.PixOffset(nb.Min.X+x0, nb.Min.Y+yn):]
	var sum int64
	for i := 0; i < (x1-x0)*4; i += 4 {
		sum += absDiff(rowP[i], rowN[i])
		sum += absDiff(rowP[i+1], rowN[i+1])
		sum += absDiff(rowP[i+2], rowN[i+2])
	}
	return sum
}

func absDiff(a, b uint8) int64 {
	if a > b {
		return int64(a - b)
	}
	return int64(b - a)
}
