package stitch

import "image"

// join grows the running panorama by one frame. The offset is interpreted
// against the full (uncropped) frame: fixed crop bars are identical in both
// frames, so they do not bias the alignment, and the compositor glues whole
// frames.
func join(pano, next *image.RGBA, est OffsetResult, opts Options) *image.RGBA {
	w := pano.Bounds().Dx()
	hp := pano.Bounds().Dy()
	h := next.Bounds().Dy()

	// A sentinel confidence means every candidate correlation was
	// degenerate; gluing on a meaningless offset would tear content, so the
	// frame is appended whole.
	if est.Confidence <= ScoreUndefined {
		return appendFrames(pano, next)
	}

	// The overlap shrinks by one row per pixel of scroll in either
	// direction. Offsets at or beyond the frame height leave no overlap at
	// all, in which case the frame is appended whole.
	overlapH := h - est.OffsetPx
	if est.OffsetPx < 0 {
		overlapH = h + est.OffsetPx
	}
	overlapH = clampInt(overlapH, 0, minInt(h, hp))
	if overlapH <= 0 {
		return appendFrames(pano, next)
	}

	alignTop := hp - overlapH
	seamRow := findSeamRow(pano, next, alignTop, overlapH)

	band := opts.BlendBandPx
	if band < 0 {
		band = 0
	}
	seamStart := clampInt(alignTop+seamRow-band/2, 0, hp)
	seamEnd := minInt(seamStart+band, hp)

	newH := maxInt(hp, alignTop+h)
	out := image.NewRGBA(image.Rect(0, 0, w, newH))
	copy(out.Pix, pano.Pix[:hp*pano.Stride])

	for y := 0; y < seamEnd-seamStart; y++ {
		ny := seamStart + y - alignTop
		if ny < 0 || ny >= h {
			continue
		}
		alpha := 1.0
		if band > 1 {
			alpha = float64(y) / float64(band-1)
		}
		dst := out.Pix[(seamStart+y)*out.Stride:]
		rowP := pano.Pix[(seamStart+y)*pano.Stride:]
		rowN := next.Pix[next.PixOffset(next.Bounds().Min.X, next.Bounds().Min.Y+ny):]
		blendRow(dst, rowP, rowN, w, alpha)
	}

	// The tail normally resumes half a band below the seam. It may never
	// start past the end of the overlap, or the rows that extend the
	// panorama would be left unwritten.
	tailStart := maxInt(0, seamRow+(band+1)/2)
	if tailStart > overlapH {
		tailStart = overlapH
	}
	if tailStart < h {
		destY := alignTop + tailStart
		rows := minInt(h-tailStart, newH-destY)
		for y := 0; y < rows; y++ {
			src := next.Pix[next.PixOffset(next.Bounds().Min.X, next.Bounds().Min.Y+tailStart+y):]
			copy(out.Pix[(destY+y)*out.Stride:(destY+y)*out.Stride+w*4], src[:w*4])
		}
	}
	return out
}

// appendFrames stacks next directly below the panorama with no blending.
func appendFrames(pano, next *image.RGBA) *image.RGBA {
	w := pano.Bounds().Dx()
	hp := pano.Bounds().Dy()
	h := next.Bounds().Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, hp+h))
	copy(out.Pix, pano.Pix[:hp*pano.Stride])
	for y := 0; y < h; y++ {
		src := next.Pix[next.PixOffset(next.Bounds().Min.X, next.Bounds().Min.Y+y):]
		copy(out.Pix[(hp+y)*out.Stride:(hp+y)*out.Stride+w*4], src[:w*4])
	}
	return out
}
