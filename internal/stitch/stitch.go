// Package stitch aligns and splices vertically-scrolling screenshots into a
// single tall panorama. Consecutive frames are registered by a
// coarse-to-fine zero-mean normalized cross-correlation search over image
// pyramids, then glued along a seam row chosen inside the overlap and
// feathered across a configurable blend band.
//
// The package is synchronous and deterministic: given bit-identical frames
// and the same options it produces a bit-identical panorama.
package stitch

import (
	"context"
	"fmt"
	"image"
)

// Result is the output of a stitch: the assembled panorama and one
// OffsetResult per join, in input order.
type Result struct {
	Image   *image.RGBA
	Offsets []OffsetResult
}

// Stitch splices frames top to bottom. Frames with a width different from
// the first frame are rescaled to match before alignment.
//
// Cancellation is cooperative at join boundaries: when ctx is cancelled the
// panorama assembled so far and the offsets collected so far are returned
// together with ctx.Err().
func Stitch(ctx context.Context, frames []*image.RGBA, opts Options) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}
	if len(frames) == 0 {
		return Result{}, ErrEmptyInput
	}
	for i, f := range frames {
		if f == nil || f.Bounds().Dx() <= 0 || f.Bounds().Dy() <= 0 {
			return Result{}, fmt.Errorf("%w: frame %d is empty", ErrEmptyInput, i)
		}
	}

	normalized := normalizeWidths(frames)
	pano := cloneFrame(normalized[0])
	offsets := make([]OffsetResult, 0, len(normalized)-1)

	for i := 1; i < len(normalized); i++ {
		if err := ctx.Err(); err != nil {
			return Result{Image: pano, Offsets: offsets}, err
		}
		est, err := EstimateVerticalOffset(normalized[i-1], normalized[i], opts)
		if err != nil {
			return Result{Image: pano, Offsets: offsets}, fmt.Errorf("join %d: %w", i-1, err)
		}
		offsets = append(offsets, est)
		pano = join(pano, normalized[i], est, opts)
	}
	return Result{Image: pano, Offsets: offsets}, nil
}
