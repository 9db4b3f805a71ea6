package stitch

import (
	"fmt"
	"image"
	"math"
	"runtime"
	"sync"
)

// OffsetResult describes the estimated vertical displacement between two
// consecutive frames. A positive offset means the content scrolled up
// between prev and next: row y of prev corresponds to row y-offset of next.
type OffsetResult struct {
	// OffsetPx is the displacement in pixels of the cropped region.
	OffsetPx int `json:"offset_px"`
	// Confidence is the ZNCC score of the winning offset, in [-1, 1], or
	// ScoreUndefined when every candidate correlation was degenerate.
	Confidence float64 `json:"confidence"`
}

// EstimateVerticalOffset runs the coarse-to-fine correlation search between
// two same-size frames and returns the best integer offset plus its score.
// Crops are applied to both frames before alignment so that fixed headers
// or footers do not bias the search.
func EstimateVerticalOffset(prev, next *image.RGBA, opts Options) (OffsetResult, error) {
	if err := opts.Validate(); err != nil {
		return OffsetResult{}, err
	}

	pb := prev.Bounds()
	nb := next.Bounds()
	w := pb.Dx()
	h := pb.Dy()
	if w != nb.Dx() || h != nb.Dy() {
		return OffsetResult{}, fmt.Errorf("%w: %dx%d vs %dx%d", ErrDimensionMismatch, w, h, nb.Dx(), nb.Dy())
	}

	cropTop := clampInt(opts.CropTopPx, 0, h-1)
	cropBottom := clampInt(opts.CropBottomPx, 0, h-1-cropTop)
	effH := h - cropTop - cropBottom
	if effH <= 8 {
		return OffsetResult{}, fmt.Errorf("%w: %d rows after cropping", ErrEffectiveHeightTooSmall, effH)
	}

	levels := opts.PyramidLevels
	if levels < 1 {
		levels = 1
	}

	// The two pyramids are independent; build them side by side.
	var prevPyr, nextPyr []*GrayPlane
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		prevPyr = buildPyramid(grayRegion(prev, cropTop, effH), levels)
	}()
	nextPyr = buildPyramid(grayRegion(next, cropTop, effH), levels)
	wg.Wait()

	stepX := opts.SampleXStep
	stepY := opts.SampleYStep

	bestOff := 0
	bestScore := ScoreUndefined
	for level := levels - 1; level >= 0; level-- {
		a := prevPyr[level]
		b := nextPyr[level]
		hl := a.H

		var searchRange, guess int
		if level == levels-1 {
			searchRange = int(math.Round(float64(hl) * opts.MaxSearchPercent))
			guess = 0
		} else {
			searchRange = opts.RefineWindowPx
			guess = bestOff * 2
		}
		if searchRange < 1 {
			searchRange = 1
		}
		from := maxInt(-(hl - 1), guess-searchRange)
		to := minInt(hl-1, guess+searchRange)

		bestOff, bestScore = scanLevel(a, b, from, to, guess, stepX, stepY)
	}

	if opts.ClampOffsetToRange {
		bestOff = clampInt(bestOff, -(effH - 1), effH-1)
	}
	return OffsetResult{OffsetPx: bestOff, Confidence: bestScore}, nil
}

// scanLevel scores every candidate shift in [from, to] and returns the
// argmax. Candidates are independent, so they are fanned out across a small
// worker pool; the reduction walks scores in ascending order with
// first-encountered tie-breaking, which keeps the result identical to a
// sequential scan.
func scanLevel(a, b *GrayPlane, from, to, fallback, stepX, stepY int) (int, float64) {
	if to < from {
		return fallback, ScoreUndefined
	}
	n := to - from + 1
	scores := make([]float64, n)

	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	if workers <= 1 || n < 8 {
		for i := 0; i < n; i++ {
			scores[i] = zncc(a, b, from+i, stepX, stepY)
		}
	} else {
		var wg sync.WaitGroup
		next := make(chan int, n)
		for i := 0; i < n; i++ {
			next <- i
		}
		close(next)
		wg.Add(workers)
		for wkr := 0; wkr < workers; wkr++ {
			go func() {
				defer wg.Done()
				for i := range next {
					scores[i] = zncc(a, b, from+i, stepX, stepY)
				}
			}()
		}
		wg.Wait()
	}

	bestOff := fallback
	bestScore := ScoreUndefined
	for i := 0; i < n; i++ {
		if scores[i] > bestScore {
			bestScore = scores[i]
			bestOff = from + i
		}
	}
	return bestOff, bestScore
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
