package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"scrollstitch/internal/config"
	"scrollstitch/internal/logging"
	"scrollstitch/internal/storage"
	"scrollstitch/internal/tasks"
)

// router implements Processor and routes jobs to their concrete handlers.
type router struct {
	log       *slog.Logger
	store     *storage.Store
	stitchCfg config.StitchCfg
}

func newRouter(logger *slog.Logger, store *storage.Store, stitchCfg config.StitchCfg) Processor {
	return &router{
		log:       logger,
		store:     store,
		stitchCfg: stitchCfg,
	}
}

func (r *router) Process(ctx context.Context, job Job) Result {
	switch job.Type {
	case JobStitch:
		return r.handleStitch(ctx, job)
	case JobEstimate:
		return r.handleEstimate(ctx, job)
	default:
		return Result{Job: job, Error: fmt.Errorf("unknown job type: %s", job.Type)}
	}
}

func (r *router) handleStitch(ctx context.Context, job Job) Result {
	opts := tasks.ApplyOptionOverrides(r.stitchCfg.Options(), job.Options)

	summary, err := tasks.RunStitch(ctx, tasks.StitchRequest{
		InputDir: job.InputPath,
		Output:   job.Output,
		Options:  opts,
	})
	if err != nil {
		return Result{Job: job, Error: err}
	}

	lowConfidence := 0
	for i, o := range summary.Offsets {
		low := o.Confidence < opts.MinConfidence
		if low {
			lowConfidence++
		}
		logging.LogJoin(r.log, job.ID, i, o.OffsetPx, o.Confidence, opts.MinConfidence)
		if r.store != nil {
			_ = r.store.RecordJoin(storage.JoinRecord{
				JobID:         job.ID,
				JoinIndex:     i,
				OffsetPx:      o.OffsetPx,
				Confidence:    o.Confidence,
				LowConfidence: low,
			})
		}
	}

	meta := map[string]any{
		"output":         summary.Output,
		"frames":         summary.Frames,
		"width":          summary.Width,
		"height":         summary.Height,
		"joins":          len(summary.Offsets),
		"low_confidence": lowConfidence,
	}
	return Result{Job: job, Meta: meta}
}

func (r *router) handleEstimate(ctx context.Context, job Job) Result {
	prev, _ := job.Options["prev"].(string)
	next, _ := job.Options["next"].(string)
	if prev == "" {
		prev = job.InputPath
	}
	if prev == "" || next == "" {
		return Result{Job: job, Error: fmt.Errorf("estimate requires two frame paths")}
	}

	opts := tasks.ApplyOptionOverrides(r.stitchCfg.Options(), job.Options)
	res, err := tasks.RunEstimate(ctx, prev, next, opts)
	if err != nil {
		return Result{Job: job, Error: err}
	}

	meta := map[string]any{
		"offset_px":      res.OffsetPx,
		"confidence":     res.Confidence,
		"low_confidence": res.Confidence < opts.MinConfidence,
	}
	return Result{Job: job, Meta: meta}
}
