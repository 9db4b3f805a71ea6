package stitch

import "testing"

func TestBlendRowEndpoints(t *testing.T) {
	p := []uint8{10, 20, 30, 255, 100, 110, 120, 255}
	n := []uint8{200, 210, 220, 255, 0, 0, 0, 255}
	dst := make([]uint8, 8)

	blendRow(dst, p, n, 2, 0)
	for i := 0; i < 8; i++ {
		want := p[i]
		if i%4 == 3 {
			want = 255
		}
		if dst[i] != want {
			t.Fatalf("alpha 0, byte %d: got %d want %d", i, dst[i], want)
		}
	}

	blendRow(dst, p, n, 2, 1)
	for i := 0; i < 8; i++ {
		want := n[i]
		if i%4 == 3 {
			want = 255
		}
		if dst[i] != want {
			t.Fatalf("alpha 1, byte %d: got %d want %d", i, dst[i], want)
		}
	}
}

func TestBlendRowMidpointRounds(t *testing.T) {
	p := []uint8{10, 0, 255, 0}
	n := []uint8{21, 0, 255, 0}
	dst := make([]uint8, 4)
	blendRow(dst, p, n, 1, 0.5)
	// 15.5 rounds away from zero
	if dst[0] != 16 {
		t.Fatalf("got %d want 16", dst[0])
	}
	if dst[3] != 255 {
		t.Fatalf("alpha channel must be opaque, got %d", dst[3])
	}
}

func TestFindSeamRowPrefersBestCentralMatch(t *testing.T) {
	pano := pageCrop(10, 0, 10, quadShade)
	next := pageCrop(10, 20, 6, quadShade) // unrelated rows everywhere

	// Make overlap row 2 an exact match on the central strip, but poison
	// column 0, which lies outside [1, 9).
	for x := 1; x < 10; x++ {
		v := quadShade(6)
		setPixel(next, x, 2, v, v, v)
	}
	setPixel(next, 0, 2, 255, 255, 255)

	if got := findSeamRow(pano, next, 4, 6); got != 2 {
		t.Fatalf("seam row: got %d want 2", got)
	}
}

func TestFindSeamRowTieTakesFirst(t *testing.T) {
	pano := flatFrame(10, 8, 50)
	next := flatFrame(10, 4, 50)
	if got := findSeamRow(pano, next, 4, 4); got != 0 {
		t.Fatalf("tie must keep the first row, got %d", got)
	}
}

func TestJoinNoOverlapAppends(t *testing.T) {
	pano := pageCrop(4, 0, 8, quadShade)
	next := pageCrop(4, 8, 8, quadShade)

	out := join(pano, next, OffsetResult{OffsetPx: 8, Confidence: 0.9}, DefaultOptions())
	if got := out.Bounds().Dy(); got != 16 {
		t.Fatalf("height: got %d want 16", got)
	}
	for y := 0; y < 16; y++ {
		if !pixelEqual(out, pageCrop(4, 0, 16, quadShade), 0, y, 0, y) {
			t.Fatalf("row %d does not match the appended stack", y)
		}
	}
}

func TestJoinUndefinedConfidenceAppends(t *testing.T) {
	pano := flatFrame(4, 8, 128)
	next := flatFrame(4, 8, 128)

	out := join(pano, next, OffsetResult{OffsetPx: 0, Confidence: ScoreUndefined}, DefaultOptions())
	if got := out.Bounds().Dy(); got != 16 {
		t.Fatalf("height: got %d want 16", got)
	}
}

func TestJoinZeroBandCopiesTailFromSeam(t *testing.T) {
	pano := pageCrop(4, 0, 8, quadShade)
	next := pageCrop(4, 2, 8, quadShade)

	opts := DefaultOptions()
	opts.BlendBandPx = 0
	out := join(pano, next, OffsetResult{OffsetPx: 2, Confidence: 1}, opts)

	if got := out.Bounds().Dy(); got != 10 {
		t.Fatalf("height: got %d want 10", got)
	}
	want := pageCrop(4, 0, 10, quadShade)
	for y := 0; y < 10; y++ {
		for x := 0; x < 4; x++ {
			if !pixelEqual(out, want, x, y, x, y) {
				t.Fatalf("pixel (%d,%d) differs from source", x, y)
			}
		}
	}
}

func TestJoinOutputFullyOpaque(t *testing.T) {
	pano := pageCrop(6, 0, 20, smoothShade)
	next := pageCrop(6, 5, 20, smoothShade)

	out := join(pano, next, OffsetResult{OffsetPx: 5, Confidence: 1}, DefaultOptions())
	if got := out.Bounds().Dy(); got != 25 {
		t.Fatalf("height: got %d want 25", got)
	}
	for i := 3; i < len(out.Pix); i += 4 {
		if out.Pix[i] != 255 {
			t.Fatalf("alpha at byte %d is %d, want 255", i, out.Pix[i])
		}
	}
}

func TestJoinGrowsMonotonically(t *testing.T) {
	pano := pageCrop(4, 0, 12, quadShade)
	heights := []int{12}
	for i := 1; i <= 3; i++ {
		next := pageCrop(4, i*3, 12, quadShade)
		pano = join(pano, next, OffsetResult{OffsetPx: 3, Confidence: 1}, DefaultOptions())
		heights = append(heights, pano.Bounds().Dy())
	}
	for i := 1; i < len(heights); i++ {
		if heights[i] < heights[i-1] {
			t.Fatalf("panorama shrank: %v", heights)
		}
	}
	if pano.Bounds().Dy() != 21 {
		t.Fatalf("final height: got %d want 21", pano.Bounds().Dy())
	}
}
