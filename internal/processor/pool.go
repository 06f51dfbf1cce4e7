package processor

import (
	"context"
	"log"
	"sync"

	"github.com/ZacxDev/vertical-splitter/pkg/types"
	"github.com/pkg/errors"
)

// cutAll runs the plan on at most s.cfg.Workers goroutines and blocks until
// every worker has returned. Results are indexed like plan; a segment that
// never reached a worker stays SegmentSkipped.
func (s *Splitter) cutAll(ctx context.Context, source, runID string, plan []Segment) []SegmentResult {
	results := make([]SegmentResult, len(plan))
	for i, seg := range plan {
		results[i] = SegmentResult{
			Segment:    seg,
			Status:     SegmentSkipped,
			OutputPath: s.cutter.OutputPath(runID, seg.Index),
		}
	}
	if len(plan) == 0 {
		return results
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tasks := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < min(s.cfg.Workers, len(plan)); w++ {
		wg.Add(1)
		go s.worker(ctx, cancel, &wg, tasks, source, runID, results)
	}

feed:
	for i := range plan {
		select {
		case <-ctx.Done():
			break feed
		case tasks <- i:
		}
	}
	close(tasks)
	wg.Wait()

	return results
}

func (s *Splitter) worker(
	ctx context.Context,
	cancel context.CancelFunc,
	wg *sync.WaitGroup,
	tasks <-chan int,
	source, runID string,
	results []SegmentResult,
) {
	defer wg.Done()

	for i := range tasks {
		if ctx.Err() != nil {
			continue
		}
		results[i] = s.cutOne(ctx, cancel, source, runID, results[i])
	}
}

func (s *Splitter) cutOne(ctx context.Context, cancel context.CancelFunc, source, runID string, res SegmentResult) SegmentResult {
	if s.cfg.Verbose {
		log.Printf("Processing chunk %d: %.0fs-%.0fs -> %s\n", res.Index, res.Start, res.End(), res.OutputPath)
	}

	out, err := s.cutter.Cut(ctx, source, runID, res.Segment)
	res.OutputPath = out
	if err != nil {
		return s.segmentFailed(ctx, cancel, res, err)
	}

	if s.publisher != nil {
		url, err := s.publisher.Publish(ctx, out)
		if err != nil {
			return s.segmentFailed(ctx, cancel, res, errors.Wrapf(err, "segment %d cut but not published", res.Index))
		}
		res.PublishedTo = url
	}

	res.Status = SegmentDone
	if s.cfg.Verbose {
		log.Printf("Completed chunk %d: %s\n", res.Index, out)
	}
	return res
}

// segmentFailed records err. Under the abort policy the first genuine failure
// cancels the remaining work; failures caused by that cancellation are
// reported as cancelled rather than failed.
func (s *Splitter) segmentFailed(ctx context.Context, cancel context.CancelFunc, res SegmentResult, err error) SegmentResult {
	res.Err = err
	if ctx.Err() != nil {
		res.Status = SegmentCancelled
		return res
	}

	res.Status = SegmentFailed
	log.Printf("Segment %d of %s failed: %v\n", res.Index, res.OutputPath, err)
	if s.cfg.FailurePolicy == types.FailurePolicyAbort {
		cancel()
	}
	return res
}
