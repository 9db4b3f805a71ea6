package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"scrollstitch/internal/config"
	"scrollstitch/internal/pipeline"
	"scrollstitch/internal/server"
	"scrollstitch/internal/stitch"
	"scrollstitch/internal/storage"
	"scrollstitch/internal/tasks"
)

func stitchDefaults() stitch.Options { return stitch.DefaultOptions() }

// NewRootCmd creates the root Cobra command.
func NewRootCmd(cfg *config.Config, log *slog.Logger, store *storage.Store, pipe *pipeline.Pipeline) *cobra.Command {
	root := NewRoot(pipe, cfg, log, store)

	rootCmd := &cobra.Command{
		Use:   "scrollstitch",
		Short: "Scrollstitch assembles scrolling screenshots into one tall image",
		Long: `Scrollstitch aligns a sequence of vertically-scrolling screenshots with a
coarse-to-fine correlation search and splices them along invisible seams.`,
	}

	rootCmd.AddCommand(newStitchCmd(root))
	rootCmd.AddCommand(newEstimateCmd(root))
	rootCmd.AddCommand(newServeCmd(root))
	rootCmd.AddCommand(newWatchCmd(root))
	rootCmd.AddCommand(newConfigCmd(root))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// stitchFlags collects the per-invocation engine overrides.
type stitchFlags struct {
	levels        int
	maxSearch     float64
	refineWindow  int
	sampleX       int
	sampleY       int
	cropTop       int
	cropBottom    int
	minConfidence float64
	blendBand     int
	noClamp       bool
}

func (f *stitchFlags) register(cmd *cobra.Command) {
	d := stitchDefaults()
	cmd.Flags().IntVar(&f.levels, "levels", d.PyramidLevels, "pyramid levels for the coarse-to-fine search")
	cmd.Flags().Float64Var(&f.maxSearch, "max-search", d.MaxSearchPercent, "coarsest search range as a fraction of frame height (0..1]")
	cmd.Flags().IntVar(&f.refineWindow, "refine-window", d.RefineWindowPx, "refinement window in pixels at each finer level")
	cmd.Flags().IntVar(&f.sampleX, "sample-x", d.SampleXStep, "horizontal sampling stride inside the correlation")
	cmd.Flags().IntVar(&f.sampleY, "sample-y", d.SampleYStep, "vertical sampling stride inside the correlation")
	cmd.Flags().IntVar(&f.cropTop, "crop-top", d.CropTopPx, "rows to ignore at the top of every frame (fixed headers)")
	cmd.Flags().IntVar(&f.cropBottom, "crop-bottom", d.CropBottomPx, "rows to ignore at the bottom of every frame (fixed footers)")
	cmd.Flags().Float64Var(&f.minConfidence, "min-confidence", d.MinConfidence, "confidence below which a join is flagged (reported, never enforced)")
	cmd.Flags().IntVar(&f.blendBand, "blend-band", d.BlendBandPx, "feather band height around each seam in pixels")
	cmd.Flags().BoolVar(&f.noClamp, "no-clamp", !d.ClampOffsetToRange, "do not clamp estimated offsets into the valid range")
}

func (f *stitchFlags) options(cmd *cobra.Command) map[string]any {
	opts := map[string]any{}
	set := func(name, key string, value any) {
		if cmd.Flags().Changed(name) {
			opts[key] = value
		}
	}
	set("levels", "pyramid_levels", f.levels)
	set("max-search", "max_search_percent", f.maxSearch)
	set("refine-window", "refine_window_px", f.refineWindow)
	set("sample-x", "sample_x_step", f.sampleX)
	set("sample-y", "sample_y_step", f.sampleY)
	set("crop-top", "crop_top_px", f.cropTop)
	set("crop-bottom", "crop_bottom_px", f.cropBottom)
	set("min-confidence", "min_confidence", f.minConfidence)
	set("blend-band", "blend_band_px", f.blendBand)
	set("no-clamp", "clamp_offset_to_range", !f.noClamp)
	return opts
}

func newStitchCmd(root *Root) *cobra.Command {
	var (
		output string
		flags  stitchFlags
	)

	cmd := &cobra.Command{
		Use:   "stitch <frame_directory> [output_path]",
		Short: "Stitch a directory of scroll captures into a panorama",
		Long: `Stitch the frame files in a directory (sorted by name) into a single tall
image. Fixed headers and footers can be excluded from alignment with
--crop-top and --crop-bottom.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if len(args) > 1 {
				output = args[1]
			}
			if output == "" {
				output = filepath.Join(root.cfg.Paths.DefaultOutput,
					filepath.Base(filepath.Clean(input))+"_stitched.png")
			}

			job := pipeline.Job{
				ID:        pipeline.NewID("st"),
				Type:      pipeline.JobStitch,
				InputPath: input,
				Output:    output,
				Options:   flags.options(cmd),
			}
			res, err := root.enqueueAndWait(cmd.Context(), job)
			if err != nil {
				return err
			}
			fmt.Printf("Stitched %v frames into %v (%vx%v, %v joins, %v below confidence)\n",
				res.Meta["frames"], res.Meta["output"], res.Meta["width"], res.Meta["height"],
				res.Meta["joins"], res.Meta["low_confidence"])
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output image path")
	flags.register(cmd)
	return cmd
}

func newEstimateCmd(root *Root) *cobra.Command {
	var flags stitchFlags

	cmd := &cobra.Command{
		Use:   "estimate <prev_frame> <next_frame>",
		Short: "Report the vertical offset between two frames",
		Long: `Estimate how far the content scrolled between two consecutive captures,
without compositing anything. A positive offset means the content moved up.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd)
			opts["prev"] = args[0]
			opts["next"] = args[1]

			job := pipeline.Job{
				ID:      pipeline.NewID("est"),
				Type:    pipeline.JobEstimate,
				Options: opts,
			}
			res, err := root.enqueueAndWait(cmd.Context(), job)
			if err != nil {
				return err
			}
			fmt.Printf("offset_px=%v confidence=%v\n", res.Meta["offset_px"], res.Meta["confidence"])
			if low, _ := res.Meta["low_confidence"].(bool); low {
				fmt.Println("warning: confidence below threshold; offset may be unreliable")
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newServeCmd(root *Root) *cobra.Command {
	var (
		addr       string
		watchPaths []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server with optional capture watching",
		Long: `Start an HTTP server exposing job submission, history, an SSE result
stream, and websocket live updates. Directories passed with --watch are
monitored for incoming capture frames; a settled sequence is stitched
automatically.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if len(watchPaths) > 0 {
				watcher, err := newCaptureWatcher(root, watchPaths)
				if err != nil {
					return fmt.Errorf("failed to create watcher: %w", err)
				}
				if err := watcher.Start(); err != nil {
					return fmt.Errorf("failed to start watcher: %w", err)
				}
				defer watcher.Stop()
			}

			srv := server.NewServer(addr, root.store, root.pipeline, root.log)
			root.log.Info("server ready", "addr", addr, "watch_paths", watchPaths)
			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "server address (host:port)")
	cmd.Flags().StringSliceVar(&watchPaths, "watch", nil, "capture directories to monitor for new frames")
	return cmd
}

func newWatchCmd(root *Root) *cobra.Command {
	var dirs []string

	cmd := &cobra.Command{
		Use:   "watch --dir <capture_directory> [--dir ...]",
		Short: "Watch capture directories and stitch settled sequences",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(dirs) == 0 {
				return fmt.Errorf("at least one --dir is required")
			}
			watcher, err := newCaptureWatcher(root, dirs)
			if err != nil {
				return fmt.Errorf("failed to create watcher: %w", err)
			}
			if err := watcher.Start(); err != nil {
				return fmt.Errorf("failed to start watcher: %w", err)
			}
			defer watcher.Stop()

			<-cmd.Context().Done()
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&dirs, "dir", nil, "capture directory to watch (repeatable)")
	return cmd
}

func newCaptureWatcher(root *Root, dirs []string) (*tasks.SequenceWatcher, error) {
	settle := time.Duration(root.cfg.Watch.SettleSeconds * float64(time.Second))
	handler := func(dir string) {
		output := filepath.Join(root.cfg.Paths.DefaultOutput,
			filepath.Base(filepath.Clean(dir))+"_stitched.png")
		job := pipeline.Job{
			ID:        pipeline.NewID("st"),
			Type:      pipeline.JobStitch,
			InputPath: dir,
			Output:    output,
		}
		if err := root.enqueue(context.Background(), job); err != nil {
			root.log.Error("failed to enqueue settled sequence", "dir", dir, "error", err)
		}
	}
	return tasks.NewSequenceWatcher(dirs, settle, root.cfg.Watch.MinFrames, handler, root.log)
}

func newConfigCmd(root *Root) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("Configuration:\n\n")
			fmt.Printf("Database Path:  %s\n", root.cfg.Paths.DatabasePath)
			fmt.Printf("Default Output: %s\n", root.cfg.Paths.DefaultOutput)
			fmt.Printf("Parallel Jobs:  %d\n", root.cfg.Processing.ParallelJobs)
			fmt.Printf("Log Level:      %s\n", root.cfg.Logging.Level)
			fmt.Printf("Pyramid Levels: %d\n", root.cfg.Stitch.PyramidLevels)
			fmt.Printf("Blend Band:     %d px\n", root.cfg.Stitch.BlendBandPx)
			fmt.Printf("Min Confidence: %.2f\n", root.cfg.Stitch.MinConfidence)
			fmt.Printf("Crop Top/Bot:   %d/%d px\n", root.cfg.Stitch.CropTopPx, root.cfg.Stitch.CropBottomPx)
			return nil
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := root.cfg.Stitch.Options().Validate(); err != nil {
				return fmt.Errorf("stitch options invalid: %w", err)
			}
			fmt.Println("Configuration is valid")
			return nil
		},
	}

	cmd.AddCommand(showCmd, validateCmd)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println("scrollstitch v1.0.0")
		},
	}
}
