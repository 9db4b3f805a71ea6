package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"scrollstitch/internal/stitch"
)

const (
	defaultConfigPath = "~/.config/scrollstitch/config.json"
	defaultParallel   = 2
)

// Config holds user-editable settings for the stitching service.
type Config struct {
	Processing Processing  `json:"processing"`
	Logging    Logging     `json:"logging"`
	Paths      Paths       `json:"paths"`
	Stitch     StitchCfg   `json:"stitch"`
	Watch      WatchConfig `json:"watch"`
}

// Processing captures execution preferences.
type Processing struct {
	ParallelJobs int    `json:"parallel_jobs"`
	TempDir      string `json:"temp_dir"`
}

// Logging controls logging verbosity and destinations.
type Logging struct {
	Level      string `json:"level"`       // debug, info, warn, error
	Format     string `json:"format"`      // text, json
	FileOutput bool   `json:"file_output"` // Enable file logging
	LogDir     string `json:"log_dir"`     // Directory for log files
}

// Paths configures default input/output locations.
type Paths struct {
	DefaultInput  string `json:"default_input"`
	DefaultOutput string `json:"default_output"`
	DatabasePath  string `json:"database_path"`
}

// StitchCfg mirrors the engine options so they can live in the config file.
type StitchCfg struct {
	PyramidLevels      int     `json:"pyramid_levels"`
	MaxSearchPercent   float64 `json:"max_search_percent"`
	RefineWindowPx     int     `json:"refine_window_px"`
	SampleXStep        int     `json:"sample_x_step"`
	SampleYStep        int     `json:"sample_y_step"`
	CropTopPx          int     `json:"crop_top_px"`
	CropBottomPx       int     `json:"crop_bottom_px"`
	MinConfidence      float64 `json:"min_confidence"`
	BlendBandPx        int     `json:"blend_band_px"`
	ClampOffsetToRange bool    `json:"clamp_offset_to_range"`
}

// Options converts the config section into engine options.
func (c StitchCfg) Options() stitch.Options {
	return stitch.Options{
		PyramidLevels:      c.PyramidLevels,
		MaxSearchPercent:   c.MaxSearchPercent,
		RefineWindowPx:     c.RefineWindowPx,
		SampleXStep:        c.SampleXStep,
		SampleYStep:        c.SampleYStep,
		CropTopPx:          c.CropTopPx,
		CropBottomPx:       c.CropBottomPx,
		MinConfidence:      c.MinConfidence,
		BlendBandPx:        c.BlendBandPx,
		ClampOffsetToRange: c.ClampOffsetToRange,
	}
}

// WatchConfig tunes the capture-directory watcher.
type WatchConfig struct {
	SettleSeconds float64 `json:"settle_seconds"` // quiet period before a sequence is stitched
	MinFrames     int     `json:"min_frames"`     // sequences shorter than this are ignored
}

// Load reads configuration from disk, falling back to sensible defaults.
func Load() (*Config, error) {
	cfg := defaultConfig()

	configPath := os.Getenv("SCROLLSTITCH_CONFIG")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	expanded, err := expandUser(configPath)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(expanded)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaultConfig() *Config {
	opts := stitch.DefaultOptions()
	return &Config{
		Processing: Processing{
			ParallelJobs: defaultParallel,
			TempDir:      os.TempDir(),
		},
		Logging: Logging{
			Level:      "info",
			Format:     "text",
			FileOutput: false,
			LogDir:     "./logs",
		},
		Paths: Paths{
			DefaultInput:  ".",
			DefaultOutput: "./output",
			DatabasePath:  filepath.Join(os.TempDir(), "scrollstitch.db"),
		},
		Stitch: StitchCfg{
			PyramidLevels:      opts.PyramidLevels,
			MaxSearchPercent:   opts.MaxSearchPercent,
			RefineWindowPx:     opts.RefineWindowPx,
			SampleXStep:        opts.SampleXStep,
			SampleYStep:        opts.SampleYStep,
			CropTopPx:          opts.CropTopPx,
			CropBottomPx:       opts.CropBottomPx,
			MinConfidence:      opts.MinConfidence,
			BlendBandPx:        opts.BlendBandPx,
			ClampOffsetToRange: opts.ClampOffsetToRange,
		},
		Watch: WatchConfig{
			SettleSeconds: 2.0,
			MinFrames:     2,
		},
	}
}

func expandUser(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if path == "~" {
		return home, nil
	}

	return filepath.Join(home, path[2:]), nil
}
