package stitch

import "testing"

func TestZnccPerfectMatchAtTrueShift(t *testing.T) {
	a := Grayscale(pageCrop(4, 0, 8, quadShade))
	b := Grayscale(pageCrop(4, 2, 8, quadShade))

	if got := zncc(a, b, 2, 1, 1); got < 0.999 {
		t.Fatalf("score at true shift: got %v, want ~1", got)
	}
}

// Positive offset means the content scrolled up between the two frames:
// the bottom of the first frame lines up with the top of the second.
func TestZnccSignConvention(t *testing.T) {
	a := Grayscale(pageCrop(4, 0, 12, quadShade))
	b := Grayscale(pageCrop(4, 3, 12, quadShade))

	pos := zncc(a, b, 3, 1, 1)
	neg := zncc(a, b, -3, 1, 1)
	if pos < 0.999 {
		t.Fatalf("forward scroll must peak at positive shift, got %v", pos)
	}
	if neg >= pos {
		t.Fatalf("negative shift %v should score below positive %v", neg, pos)
	}
}

func TestZnccScoreBounds(t *testing.T) {
	a := Grayscale(pageCrop(6, 0, 20, quadShade))
	b := Grayscale(pageCrop(6, 7, 20, quadShade))
	for off := -19; off <= 19; off++ {
		s := zncc(a, b, off, 2, 2)
		if s == ScoreUndefined {
			continue
		}
		if s < -1 || s > 1 {
			t.Fatalf("off %d: score %v outside [-1, 1]", off, s)
		}
	}
}

func TestZnccThinOverlapUndefined(t *testing.T) {
	a := Grayscale(pageCrop(4, 0, 10, quadShade))
	b := Grayscale(pageCrop(4, 6, 10, quadShade))
	if got := zncc(a, b, 6, 1, 1); got != ScoreUndefined {
		t.Fatalf("overlap of 4 rows must be undefined, got %v", got)
	}
	if got := zncc(a, b, -6, 1, 1); got != ScoreUndefined {
		t.Fatalf("negative-shift overlap of 4 rows must be undefined, got %v", got)
	}
}

func TestZnccFlatRegionUndefined(t *testing.T) {
	a := Grayscale(flatFrame(6, 12, 128))
	if got := zncc(a, a, 0, 1, 1); got != ScoreUndefined {
		t.Fatalf("flat plane must be undefined, got %v", got)
	}
}

func TestZnccDoesNotMutateInputs(t *testing.T) {
	a := Grayscale(pageCrop(4, 0, 12, quadShade))
	b := Grayscale(pageCrop(4, 2, 12, quadShade))
	before := append([]float32(nil), a.Pix...)
	zncc(a, b, 2, 2, 2)
	for i := range before {
		if a.Pix[i] != before[i] {
			t.Fatalf("input plane mutated at %d", i)
		}
	}
}
