package processor

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/ZacxDev/vertical-splitter/internal/config"
	"github.com/ZacxDev/vertical-splitter/internal/ffmpeg"
	"github.com/ZacxDev/vertical-splitter/internal/fsx"
	"github.com/pkg/errors"
)

type AspectAction string

const (
	AspectKeep AspectAction = "keep"
	AspectCrop AspectAction = "crop"
	AspectPad  AspectAction = "pad"
)

// AspectDecision is what the normalizer will do, or did, to one file.
type AspectDecision struct {
	Width  int
	Height int
	Ratio  float64 // height / width
	Action AspectAction
	Filter string // empty for AspectKeep
}

// WithinTolerance reports whether a height/width ratio already counts as 9:16.
func WithinTolerance(ratio, tolerance float64) bool {
	return math.Abs(ratio-config.TargetAspectRatio) < tolerance
}

// CropFilter keeps a centered full-height window of width floor(height*9/16).
func CropFilter(width, height int) string {
	newWidth := height * 9 / 16
	xOffset := (width - newWidth) / 2
	return fmt.Sprintf("crop=%d:%d:%d:0", newWidth, height, xOffset)
}

// PadFilter pads top and bottom up to floor(width*16/9). When that height
// would be smaller than the frame, the sides are padded instead so the
// output is still 9:16.
func PadFilter(width, height int) string {
	if newHeight := width * 16 / 9; newHeight >= height {
		return fmt.Sprintf("pad=%d:%d:(ow-iw)/2:(oh-ih)/2", width, newHeight)
	}
	newWidth := height * 9 / 16
	return fmt.Sprintf("pad=%d:%d:(ow-iw)/2:(oh-ih)/2", newWidth, height)
}

// DecideAspect crops frames that are too wide and pads frames that are too narrow.
func DecideAspect(width, height int, tolerance float64) AspectDecision {
	d := AspectDecision{
		Width:  width,
		Height: height,
		Ratio:  float64(height) / float64(width),
	}

	switch {
	case WithinTolerance(d.Ratio, tolerance):
		d.Action = AspectKeep
	case d.Ratio < config.TargetAspectRatio:
		d.Action = AspectCrop
		d.Filter = CropFilter(width, height)
	default:
		// Too narrow: PadFilter widens the sides, since padding the height to
		// floor(w*16/9) would ask ffmpeg for a frame shorter than the input.
		d.Action = AspectPad
		d.Filter = PadFilter(width, height)
	}
	return d
}

type normalizerMedia interface {
	Resolution(ctx context.Context, inputPath string) (int, int, error)
	Transcode(ctx context.Context, inputPath, outputPath, videoFilter string, enc ffmpeg.Encoding) error
}

// Normalizer rewrites a file in place so that its frame is 9:16.
type Normalizer struct {
	media     normalizerMedia
	tolerance float64
	encoding  ffmpeg.Encoding
	timeout   time.Duration
	verbose   bool
}

func NewNormalizer(media normalizerMedia, tolerance float64, enc ffmpeg.Encoding, timeout time.Duration, verbose bool) *Normalizer {
	return &Normalizer{
		media:     media,
		tolerance: tolerance,
		encoding:  enc,
		timeout:   timeout,
		verbose:   verbose,
	}
}

// Inspect probes path and returns the decision without touching the file.
func (n *Normalizer) Inspect(ctx context.Context, path string) (AspectDecision, error) {
	width, height, err := n.media.Resolution(ctx, path)
	if err != nil {
		return AspectDecision{}, err
	}
	return DecideAspect(width, height, n.tolerance), nil
}

// Normalize re-encodes path through a crop or pad filter when its ratio is
// outside the tolerance band. The result is written to a hidden sibling and
// renamed over path, so a failure at any step keeps the original.
func (n *Normalizer) Normalize(ctx context.Context, path string) (AspectDecision, error) {
	d, err := n.Inspect(ctx, path)
	if err != nil {
		return d, err
	}

	if d.Action == AspectKeep {
		if n.verbose {
			log.Printf("%s is already vertical (ratio %.4f)\n", filepath.Base(path), d.Ratio)
		}
		return d, nil
	}

	if n.verbose {
		log.Printf("Normalizing %s: %dx%d ratio %.4f, %s with %s\n",
			filepath.Base(path), d.Width, d.Height, d.Ratio, d.Action, d.Filter)
	}

	tmp, err := fsx.TempSibling(path, "normalizing")
	if err != nil {
		return d, &NormalizeError{Path: path, Filter: d.Filter, Err: err}
	}

	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	if err := n.media.Transcode(ctx, path, tmp, d.Filter, n.encoding); err != nil {
		_ = os.Remove(tmp)
		return d, &NormalizeError{Path: path, Filter: d.Filter, Err: err}
	}

	if err := fsx.ReplaceFile(tmp, path); err != nil {
		return d, &NormalizeError{Path: path, Filter: d.Filter, Err: errors.Wrap(err, "failed to swap normalized file into place")}
	}

	return d, nil
}
