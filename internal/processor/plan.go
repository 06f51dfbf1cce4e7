package processor

import "math"

// Segment is one planned cut, in seconds from the start of the source.
type Segment struct {
	Index    int
	Start    float64
	Duration float64
}

// End returns the exclusive end offset of the segment.
func (s Segment) End() float64 {
	return s.Start + s.Duration
}

// Plan splits [skip, total) into contiguous chunks of at most chunk seconds.
// A video no longer than its lead-in yields an empty plan, not an error.
func Plan(total, skip, chunk float64) ([]Segment, error) {
	switch {
	case math.IsNaN(total) || math.IsInf(total, 0) || total < 0:
		return nil, &PlanError{Total: total, Skip: skip, Chunk: chunk, Msg: "total duration must be a finite, non-negative number"}
	case math.IsNaN(skip) || math.IsInf(skip, 0) || skip < 0:
		return nil, &PlanError{Total: total, Skip: skip, Chunk: chunk, Msg: "skip offset must be a finite, non-negative number"}
	case math.IsNaN(chunk) || math.IsInf(chunk, 0) || chunk <= 0:
		return nil, &PlanError{Total: total, Skip: skip, Chunk: chunk, Msg: "chunk length must be a finite, positive number"}
	}

	effective := total - skip
	if effective <= 0 {
		return []Segment{}, nil
	}

	count := int(math.Ceil(effective / chunk))
	plan := make([]Segment, 0, count)
	for i := 0; i < count; i++ {
		consumed := float64(i) * chunk
		plan = append(plan, Segment{
			Index:    i,
			Start:    skip + consumed,
			Duration: math.Min(chunk, effective-consumed),
		})
	}
	return plan, nil
}
