package processor

import (
	"fmt"

	"github.com/ZacxDev/vertical-splitter/internal/ffmpeg"
)

// ProbeError is re-exported so callers of this package can match every error kind from one place.
type ProbeError = ffmpeg.ProbeError

// NormalizeError means the crop/pad re-encode or the swap into place failed.
// The original file is left untouched in both cases.
type NormalizeError struct {
	Path   string
	Filter string
	Err    error
}

func (e *NormalizeError) Error() string {
	return fmt.Sprintf("normalize %s (%s): %v", e.Path, e.Filter, e.Err)
}

func (e *NormalizeError) Unwrap() error { return e.Err }

// PlanError means the inputs to Plan could not describe a real video.
type PlanError struct {
	Total float64
	Skip  float64
	Chunk float64
	Msg   string
}

func (e *PlanError) Error() string {
	return fmt.Sprintf("plan (total=%v skip=%v chunk=%v): %s", e.Total, e.Skip, e.Chunk, e.Msg)
}

// CutError means one segment could not be produced.
type CutError struct {
	Index      int
	OutputPath string
	Err        error
}

func (e *CutError) Error() string {
	return fmt.Sprintf("cut segment %d (%s): %v", e.Index, e.OutputPath, e.Err)
}

func (e *CutError) Unwrap() error { return e.Err }
