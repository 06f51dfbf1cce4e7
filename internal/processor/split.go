package processor

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/ZacxDev/vertical-splitter/pkg/types"
	"github.com/pkg/errors"
)

// FilePlan is what a run would do to one file, computed without side effects.
type FilePlan struct {
	Path     string
	Aspect   AspectDecision
	Duration float64
	Segments []Segment
}

// Run processes every eligible file of the input directory, one file at a time.
// Under the abort policy the first failing file stops the batch and its error
// is returned along with the partial report. Under the isolate policy the
// error is nil and failures are only in the report.
func (s *Splitter) Run(ctx context.Context) (*Report, error) {
	report := &Report{StartedAt: time.Now()}
	defer func() { report.FinishedAt = time.Now() }()

	files, err := Discover(s.cfg.InputDir, s.cfg.Extension)
	if err != nil {
		return report, err
	}

	if err := os.MkdirAll(s.cfg.OutputDir, 0755); err != nil {
		return report, errors.Wrap(err, "error creating output directory")
	}

	if s.cfg.Verbose {
		log.Printf("Found %d file(s) in %s\n", len(files), s.cfg.InputDir)
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return report, errors.WithStack(err)
		}

		fr := s.ProcessFile(ctx, path)
		report.Files = append(report.Files, fr)

		if err := ctx.Err(); err != nil {
			return report, errors.WithStack(err)
		}
		if err := fr.FirstError(); err != nil && s.cfg.FailurePolicy == types.FailurePolicyAbort {
			return report, err
		}
	}

	return report, nil
}

// ProcessFile normalizes path, plans it and cuts every segment.
func (s *Splitter) ProcessFile(ctx context.Context, path string) FileReport {
	name := filepath.Base(path)
	fr := FileReport{Path: path}
	log.Printf("Processing: %s\n", name)

	aspect, err := s.normalizer.Normalize(ctx, path)
	fr.Aspect = aspect
	if err != nil {
		fr.Err = err
		log.Printf("Failed: %s: %v\n", name, err)
		return fr
	}

	fr.RunID = s.newRunID()

	duration, err := s.media.Duration(ctx, path)
	if err != nil {
		fr.Err = err
		log.Printf("Failed: %s: %v\n", name, err)
		return fr
	}
	fr.Duration = duration

	plan, err := s.plan(duration)
	if err != nil {
		fr.Err = err
		log.Printf("Failed: %s: %v\n", name, err)
		return fr
	}

	if s.cfg.Verbose {
		log.Printf("%s: %.0fs, %d segment(s), run %s\n", name, duration, len(plan), fr.RunID)
	}

	fr.Segments = s.cutAll(ctx, path, fr.RunID, plan)

	switch {
	case ctx.Err() != nil:
		log.Printf("Interrupted: %s (%d/%d segments)\n", name, fr.count(SegmentDone), len(plan))
	case fr.Failed():
		log.Printf("Failed: %s (%d/%d segments)\n", name, fr.count(SegmentDone), len(plan))
	default:
		log.Printf("Done: %s (%d segments)\n", name, len(plan))
	}
	return fr
}

// PlanFile probes path and reports the aspect decision and segment plan
// without re-encoding or writing anything.
func (s *Splitter) PlanFile(ctx context.Context, path string) (FilePlan, error) {
	fp := FilePlan{Path: path}

	aspect, err := s.normalizer.Inspect(ctx, path)
	if err != nil {
		return fp, err
	}
	fp.Aspect = aspect

	duration, err := s.media.Duration(ctx, path)
	if err != nil {
		return fp, err
	}
	fp.Duration = duration

	fp.Segments, err = s.plan(duration)
	return fp, err
}

// PlanAll runs PlanFile over every eligible file of the input directory.
func (s *Splitter) PlanAll(ctx context.Context) ([]FilePlan, error) {
	files, err := Discover(s.cfg.InputDir, s.cfg.Extension)
	if err != nil {
		return nil, err
	}

	plans := make([]FilePlan, 0, len(files))
	for _, path := range files {
		fp, err := s.PlanFile(ctx, path)
		if err != nil {
			return plans, err
		}
		plans = append(plans, fp)
	}
	return plans, nil
}

func (s *Splitter) plan(duration float64) ([]Segment, error) {
	skip, err := s.cfg.SkipSeconds()
	if err != nil {
		return nil, err
	}
	return Plan(duration, skip, float64(s.cfg.ChunkDuration))
}
