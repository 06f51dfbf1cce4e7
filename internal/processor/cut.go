package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ZacxDev/vertical-splitter/internal/ffmpeg"
)

type cutterMedia interface {
	Cut(ctx context.Context, inputPath, outputPath string, start, duration float64, enc ffmpeg.Encoding) error
}

// SegmentFileName returns segment_{runID}_{index:03d}{ext}.
func SegmentFileName(runID string, index int, ext string) string {
	return fmt.Sprintf("segment_%s_%03d%s", runID, index, ext)
}

// Cutter produces one video-only output file per planned segment.
type Cutter struct {
	media     cutterMedia
	outputDir string
	ext       string
	encoding  ffmpeg.Encoding
	timeout   time.Duration
}

func NewCutter(media cutterMedia, outputDir, ext string, enc ffmpeg.Encoding, timeout time.Duration) *Cutter {
	return &Cutter{
		media:     media,
		outputDir: outputDir,
		ext:       ext,
		encoding:  enc,
		timeout:   timeout,
	}
}

// OutputPath is where segment index of runID is written.
func (c *Cutter) OutputPath(runID string, index int) string {
	return filepath.Join(c.outputDir, SegmentFileName(runID, index, c.ext))
}

// Cut writes seg of source to its output path and returns that path.
func (c *Cutter) Cut(ctx context.Context, source, runID string, seg Segment) (string, error) {
	out := c.OutputPath(runID, seg.Index)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := c.media.Cut(ctx, source, out, seg.Start, seg.Duration, c.encoding); err != nil {
		// ffmpeg creates the output before it fails or is killed.
		_ = os.Remove(out)
		return out, &CutError{Index: seg.Index, OutputPath: out, Err: err}
	}
	return out, nil
}
