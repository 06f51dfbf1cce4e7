package processor

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type SegmentStatus string

const (
	SegmentDone      SegmentStatus = "done"
	SegmentFailed    SegmentStatus = "failed"
	SegmentCancelled SegmentStatus = "cancelled"
	SegmentSkipped   SegmentStatus = "skipped"
)

// SegmentResult is the outcome of one planned cut.
type SegmentResult struct {
	Segment
	Status      SegmentStatus
	OutputPath  string
	PublishedTo string
	Err         error
}

// FileReport is the outcome of one input file.
type FileReport struct {
	Path     string
	RunID    string
	Aspect   AspectDecision
	Duration float64
	Segments []SegmentResult
	Err      error // file-level: probe, normalize or plan
}

// Failed reports whether the file failed or was left incomplete.
func (f *FileReport) Failed() bool {
	return f.FirstError() != nil
}

// FirstError returns the file-level error, else the lowest-index segment
// failure, else the reason the file was left incomplete. A file with
// cancelled or skipped segments is never reported as done.
func (f *FileReport) FirstError() error {
	if f.Err != nil {
		return f.Err
	}
	for _, s := range f.Segments {
		if s.Status == SegmentFailed {
			return s.Err
		}
	}
	for _, s := range f.Segments {
		if s.Status == SegmentCancelled && s.Err != nil {
			return s.Err
		}
	}
	if n := f.count(SegmentCancelled) + f.count(SegmentSkipped); n > 0 {
		return errors.Errorf("%d of %d segments not produced", n, len(f.Segments))
	}
	return nil
}

func (f *FileReport) count(status SegmentStatus) int {
	n := 0
	for _, s := range f.Segments {
		if s.Status == status {
			n++
		}
	}
	return n
}

// Report is the outcome of a batch run.
type Report struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Files      []FileReport
}

func (r *Report) Failed() bool {
	for i := range r.Files {
		if r.Files[i].Failed() {
			return true
		}
	}
	return false
}

// Summary renders one line per file plus one line per failed segment.
func (r *Report) Summary() string {
	var sb strings.Builder
	var done, failed int
	for i := range r.Files {
		f := &r.Files[i]
		name := filepath.Base(f.Path)
		if f.Err != nil {
			failed++
			sb.WriteString(fmt.Sprintf("FAIL %s: %v\n", name, f.Err))
			continue
		}
		ok := f.count(SegmentDone)
		status := "OK  "
		if f.Failed() {
			status = "FAIL"
			failed++
		} else {
			done++
		}
		sb.WriteString(fmt.Sprintf("%s %s: %d/%d segments (run %s, aspect %s)\n",
			status, name, ok, len(f.Segments), f.RunID, f.Aspect.Action))
		for _, s := range f.Segments {
			switch s.Status {
			case SegmentFailed:
				sb.WriteString(fmt.Sprintf("     segment %03d: %v\n", s.Index, s.Err))
			case SegmentCancelled, SegmentSkipped:
				sb.WriteString(fmt.Sprintf("     segment %03d: %s\n", s.Index, s.Status))
			}
		}
	}
	sb.WriteString(fmt.Sprintf("%d file(s) ok, %d failed in %s\n",
		done, failed, r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond)))
	return sb.String()
}
