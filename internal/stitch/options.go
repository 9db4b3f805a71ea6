package stitch

import "fmt"

// Options controls vertical offset estimation and panorama composition.
type Options struct {
	// PyramidLevels is the number of pyramid levels used for the
	// coarse-to-fine search. The coarsest search runs at the top level.
	PyramidLevels int `json:"pyramid_levels"`

	// MaxSearchPercent bounds the coarsest search range to
	// ±round(h_coarse * MaxSearchPercent). Must be in (0, 1].
	MaxSearchPercent float64 `json:"max_search_percent"`

	// RefineWindowPx is the ± search window around the upscaled guess at
	// each finer level.
	RefineWindowPx int `json:"refine_window_px"`

	// SampleXStep and SampleYStep are the pixel sampling strides inside the
	// correlation, trading accuracy for speed.
	SampleXStep int `json:"sample_x_step"`
	SampleYStep int `json:"sample_y_step"`

	// CropTopPx and CropBottomPx remove fixed headers/footers from both
	// frames before alignment.
	CropTopPx    int `json:"crop_top_px"`
	CropBottomPx int `json:"crop_bottom_px"`

	// MinConfidence is the threshold below which an offset is considered
	// unreliable. It is reported to callers, never enforced by the core.
	MinConfidence float64 `json:"min_confidence"`

	// BlendBandPx is the width of the alpha-feather band around the seam.
	BlendBandPx int `json:"blend_band_px"`

	// ClampOffsetToRange clamps the returned offset into
	// [-(h_eff-1), h_eff-1].
	ClampOffsetToRange bool `json:"clamp_offset_to_range"`
}

// DefaultOptions returns the tuning that works well for phone-sized
// screenshots.
func DefaultOptions() Options {
	return Options{
		PyramidLevels:      3,
		MaxSearchPercent:   0.5,
		RefineWindowPx:     12,
		SampleXStep:        2,
		SampleYStep:        2,
		CropTopPx:          0,
		CropBottomPx:       0,
		MinConfidence:      0.25,
		BlendBandPx:        24,
		ClampOffsetToRange: true,
	}
}

// Validate rejects option combinations before any pixel work starts.
func (o Options) Validate() error {
	if o.PyramidLevels < 1 {
		return fmt.Errorf("%w: pyramid_levels %d < 1", ErrInvalidOption, o.PyramidLevels)
	}
	if o.MaxSearchPercent <= 0 || o.MaxSearchPercent > 1 {
		return fmt.Errorf("%w: max_search_percent %v outside (0, 1]", ErrInvalidOption, o.MaxSearchPercent)
	}
	if o.RefineWindowPx < 1 {
		return fmt.Errorf("%w: refine_window_px %d < 1", ErrInvalidOption, o.RefineWindowPx)
	}
	if o.SampleXStep < 1 || o.SampleYStep < 1 {
		return fmt.Errorf("%w: sample steps %dx%d must be >= 1", ErrInvalidOption, o.SampleXStep, o.SampleYStep)
	}
	if o.CropTopPx < 0 || o.CropBottomPx < 0 {
		return fmt.Errorf("%w: negative crop %d/%d", ErrInvalidOption, o.CropTopPx, o.CropBottomPx)
	}
	if o.BlendBandPx < 0 {
		return fmt.Errorf("%w: blend_band_px %d < 0", ErrInvalidOption, o.BlendBandPx)
	}
	return nil
}
