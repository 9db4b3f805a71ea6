package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"scrollstitch/internal/config"
	"scrollstitch/internal/logging"
)

func testStitchCfg() config.StitchCfg {
	return config.StitchCfg{
		PyramidLevels:      3,
		MaxSearchPercent:   0.5,
		RefineWindowPx:     12,
		SampleXStep:        2,
		SampleYStep:        2,
		MinConfidence:      0.25,
		BlendBandPx:        24,
		ClampOffsetToRange: true,
	}
}

type stubProcessor struct {
	calls int32
	err   error
}

func (p *stubProcessor) Process(ctx context.Context, job Job) Result {
	atomic.AddInt32(&p.calls, 1)
	return Result{Job: job, Error: p.err, Meta: map[string]any{"ok": p.err == nil}}
}

func TestPipelineDispatchesAndBroadcasts(t *testing.T) {
	proc := &stubProcessor{}
	p := newPipeline(context.Background(), 1, logging.New("error", "text"), nil, proc)
	defer p.Stop()

	resCh, unsub := p.Subscribe()
	defer unsub()

	job := Job{ID: "st-test", Type: JobStitch, InputPath: "/frames"}
	if err := p.Submit(job); err != nil {
		t.Fatalf("submit: %v", err)
	}

	select {
	case res := <-resCh:
		if res.Job.ID != "st-test" {
			t.Fatalf("wrong job in result: %+v", res.Job)
		}
		if res.Error != nil {
			t.Fatalf("unexpected error: %v", res.Error)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no result broadcast")
	}

	if got := atomic.LoadInt32(&proc.calls); got != 1 {
		t.Fatalf("processor called %d times, want 1", got)
	}
}

func TestPipelinePropagatesProcessorError(t *testing.T) {
	wantErr := errors.New("decode failed")
	proc := &stubProcessor{err: wantErr}
	p := newPipeline(context.Background(), 2, logging.New("error", "text"), nil, proc)
	defer p.Stop()

	resCh, unsub := p.Subscribe()
	defer unsub()

	if err := p.Submit(Job{ID: "st-err", Type: JobStitch}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	select {
	case res := <-resCh:
		if !errors.Is(res.Error, wantErr) {
			t.Fatalf("expected processor error, got %v", res.Error)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no result broadcast")
	}
}

func TestPipelineUnknownJobType(t *testing.T) {
	r := newRouter(logging.New("error", "text"), nil, testStitchCfg())
	res := r.Process(context.Background(), Job{ID: "x", Type: JobType("bogus")})
	if res.Error == nil {
		t.Fatalf("expected error for unknown job type")
	}
}

func TestEstimateJobRequiresTwoPaths(t *testing.T) {
	r := newRouter(logging.New("error", "text"), nil, testStitchCfg())
	res := r.Process(context.Background(), Job{ID: "e", Type: JobEstimate, Options: map[string]any{}})
	if res.Error == nil {
		t.Fatalf("expected error when frame paths are missing")
	}
}
