package tasks

import "scrollstitch/internal/stitch"

// ApplyOptionOverrides layers per-job option values over the configured
// defaults. Keys follow the config file's JSON names; numbers arrive as
// float64 when the job came through JSON, so both int and float64 are
// accepted.
func ApplyOptionOverrides(base stitch.Options, overrides map[string]any) stitch.Options {
	if len(overrides) == 0 {
		return base
	}
	if v, ok := intOption(overrides, "pyramid_levels"); ok {
		base.PyramidLevels = v
	}
	if v, ok := floatOption(overrides, "max_search_percent"); ok {
		base.MaxSearchPercent = v
	}
	if v, ok := intOption(overrides, "refine_window_px"); ok {
		base.RefineWindowPx = v
	}
	if v, ok := intOption(overrides, "sample_x_step"); ok {
		base.SampleXStep = v
	}
	if v, ok := intOption(overrides, "sample_y_step"); ok {
		base.SampleYStep = v
	}
	if v, ok := intOption(overrides, "crop_top_px"); ok {
		base.CropTopPx = v
	}
	if v, ok := intOption(overrides, "crop_bottom_px"); ok {
		base.CropBottomPx = v
	}
	if v, ok := floatOption(overrides, "min_confidence"); ok {
		base.MinConfidence = v
	}
	if v, ok := intOption(overrides, "blend_band_px"); ok {
		base.BlendBandPx = v
	}
	if v, ok := overrides["clamp_offset_to_range"].(bool); ok {
		base.ClampOffsetToRange = v
	}
	return base
}

func intOption(options map[string]any, key string) (int, bool) {
	switch v := options[key].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	}
	return 0, false
}

func floatOption(options map[string]any, key string) (float64, bool) {
	switch v := options[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}
