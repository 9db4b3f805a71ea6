package tasks

import (
	"context"
	"fmt"

	"gopkg.in/gographics/imagick.v3/imagick"

	"scrollstitch/internal/fsutil"
	"scrollstitch/internal/imaging"
	"scrollstitch/internal/stitch"
)

// StitchRequest describes one stitch job: a directory of capture frames and
// the panorama destination.
type StitchRequest struct {
	InputDir string
	Output   string
	Options  stitch.Options
}

// StitchSummary reports what was assembled.
type StitchSummary struct {
	Output  string
	Frames  int
	Width   int
	Height  int
	Offsets []stitch.OffsetResult
}

// RunStitch loads the frame sequence, runs the alignment engine, and writes
// the panorama.
func RunStitch(ctx context.Context, req StitchRequest) (StitchSummary, error) {
	paths, err := fsutil.ListFrames(req.InputDir)
	if err != nil {
		return StitchSummary{}, fmt.Errorf("listing frames in %s: %w", req.InputDir, err)
	}
	if len(paths) == 0 {
		return StitchSummary{}, fmt.Errorf("%w: no frame files in %s", stitch.ErrEmptyInput, req.InputDir)
	}

	imagick.Initialize()
	defer imagick.Terminate()

	frames, err := imaging.ReadFrames(paths)
	if err != nil {
		return StitchSummary{}, err
	}

	res, err := stitch.Stitch(ctx, frames, req.Options)
	if err != nil {
		return StitchSummary{}, err
	}

	if err := fsutil.EnsureParentDir(req.Output); err != nil {
		return StitchSummary{}, fmt.Errorf("creating output directory: %w", err)
	}
	if err := imaging.WriteFrame(req.Output, res.Image); err != nil {
		return StitchSummary{}, err
	}

	b := res.Image.Bounds()
	return StitchSummary{
		Output:  req.Output,
		Frames:  len(frames),
		Width:   b.Dx(),
		Height:  b.Dy(),
		Offsets: res.Offsets,
	}, nil
}

// RunEstimate reports the vertical offset between two frame files without
// compositing anything.
func RunEstimate(ctx context.Context, prevPath, nextPath string, opts stitch.Options) (stitch.OffsetResult, error) {
	imagick.Initialize()
	defer imagick.Terminate()

	prev, err := imaging.ReadFrame(prevPath)
	if err != nil {
		return stitch.OffsetResult{}, err
	}
	next, err := imaging.ReadFrame(nextPath)
	if err != nil {
		return stitch.OffsetResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return stitch.OffsetResult{}, err
	}
	return stitch.EstimateVerticalOffset(prev, next, opts)
}
