package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// VideoMetadata contains metadata about a video file
type VideoMetadata struct {
	Duration float64
	Width    int
	Height   int
	Codec    string
}

// Encoding selects the video encoder settings for a transcode
type Encoding struct {
	Codec  string
	Preset string
	CRF    int
}

// Runner executes ffmpeg with an argument list that excludes the binary name
type Runner interface {
	Run(ctx context.Context, args []string) error
}

type probeFunc func(fileName string, timeOut time.Duration, kwargs ffmpeg.KwArgs) (string, error)

// DefaultProbeTimeout bounds ffprobe when no probe timeout is configured.
const DefaultProbeTimeout = 2 * time.Minute

// Processor wraps FFmpeg functionality
type Processor struct {
	verbose      bool
	runner       Runner
	probe        probeFunc
	probeTimeout time.Duration
}

// Option customizes a Processor
type Option func(*Processor)

// WithRunner replaces the subprocess runner
func WithRunner(r Runner) Option {
	return func(p *Processor) { p.runner = r }
}

// WithProbeTimeout bounds every ffprobe call; zero means DefaultProbeTimeout
func WithProbeTimeout(d time.Duration) Option {
	return func(p *Processor) { p.probeTimeout = d }
}

// NewProcessor creates a new FFmpeg processor
func NewProcessor(verbose bool, opts ...Option) *Processor {
	p := &Processor{
		verbose: verbose,
		runner:  NewExecRunner("ffmpeg", verbose),
		probe:   ffmpeg.ProbeWithTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ExecRunner runs a binary with exec.CommandContext and keeps its stderr for diagnostics
type ExecRunner struct {
	binary  string
	verbose bool
}

func NewExecRunner(binary string, verbose bool) *ExecRunner {
	return &ExecRunner{binary: binary, verbose: verbose}
}

func (r *ExecRunner) Run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, r.binary, args...)

	var stderrBuf bytes.Buffer
	if r.verbose {
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return &ExecError{
			Args:   append([]string{r.binary}, args...),
			Stderr: stderrBuf.String(),
			Err:    err,
		}
	}
	return nil
}

type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
	Format  ffprobeFormat   `json:"format"`
}

type ffprobeStream struct {
	CodecName  string `json:"codec_name"`
	CodecType  string `json:"codec_type"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Duration   string `json:"duration"`
	NbFrames   string `json:"nb_frames"`
	RFrameRate string `json:"r_frame_rate"`
}

type ffprobeFormat struct {
	Duration string `json:"duration"`
}

// GetVideoMetadata retrieves metadata about the first video stream of a file
func (p *Processor) GetVideoMetadata(ctx context.Context, inputPath string) (*VideoMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ProbeError{Path: inputPath, Reason: "cancelled", Err: err}
	}

	out, err := p.probeContext(ctx, inputPath)
	if err != nil {
		return nil, &ProbeError{Path: inputPath, Reason: "ffprobe failed", Err: err}
	}

	metadata, err := parseProbeOutput(out)
	if err != nil {
		return nil, &ProbeError{Path: inputPath, Reason: "unusable ffprobe output", Err: err}
	}

	if p.verbose {
		log.Printf("Video metadata for %s: Duration=%.2fs, Resolution=%dx%d, Codec=%s\n",
			inputPath, metadata.Duration, metadata.Width, metadata.Height, metadata.Codec)
	}
	return metadata, nil
}

type probeResult struct {
	out string
	err error
}

// probeContext runs ffprobe with a timeout that never exceeds ctx's deadline.
// ffmpeg-go only kills ffprobe on that timeout, so on cancellation the call
// returns at once and the process is reaped when its timeout fires.
func (p *Processor) probeContext(ctx context.Context, inputPath string) (string, error) {
	timeout := p.probeTimeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return "", errors.WithStack(context.DeadlineExceeded)
	}

	done := make(chan probeResult, 1)
	go func() {
		out, err := p.probe(inputPath, timeout, ffmpeg.KwArgs{"select_streams": "v:0"})
		done <- probeResult{out: out, err: err}
	}()

	select {
	case r := <-done:
		return r.out, r.err
	case <-ctx.Done():
		return "", errors.WithStack(ctx.Err())
	}
}

// Resolution returns the width and height of the first video stream
func (p *Processor) Resolution(ctx context.Context, inputPath string) (int, int, error) {
	metadata, err := p.GetVideoMetadata(ctx, inputPath)
	if err != nil {
		return 0, 0, err
	}
	return metadata.Width, metadata.Height, nil
}

// Duration returns the container duration rounded up to the next whole second
func (p *Processor) Duration(ctx context.Context, inputPath string) (float64, error) {
	metadata, err := p.GetVideoMetadata(ctx, inputPath)
	if err != nil {
		return 0, err
	}
	return math.Ceil(metadata.Duration), nil
}

func parseProbeOutput(out string) (*VideoMetadata, error) {
	var data ffprobeOutput
	if err := json.Unmarshal([]byte(out), &data); err != nil {
		return nil, errors.WithStack(err)
	}

	var videoStream *ffprobeStream
	for i := range data.Streams {
		if data.Streams[i].CodecType == "video" {
			videoStream = &data.Streams[i]
			break
		}
	}
	if videoStream == nil {
		return nil, errors.New("no video stream found")
	}
	if videoStream.Width <= 0 || videoStream.Height <= 0 {
		return nil, errors.Errorf("invalid video dimensions %dx%d", videoStream.Width, videoStream.Height)
	}

	// Container duration first, it is what the cut offsets are measured against
	duration := parsePositiveFloat(data.Format.Duration)
	if duration == 0 {
		duration = parsePositiveFloat(videoStream.Duration)
	}
	if duration == 0 {
		frames := parsePositiveFloat(videoStream.NbFrames)
		if rate := parseFrameRate(videoStream.RFrameRate); frames > 0 && rate > 0 {
			duration = frames / rate
		}
	}
	if duration == 0 {
		return nil, errors.New("could not determine video duration")
	}

	return &VideoMetadata{
		Duration: duration,
		Width:    videoStream.Width,
		Height:   videoStream.Height,
		Codec:    videoStream.CodecName,
	}, nil
}

func parsePositiveFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0
	}
	return f
}

func parseFrameRate(s string) float64 {
	nums := strings.Split(s, "/")
	if len(nums) != 2 {
		return 0
	}
	num, err1 := strconv.ParseFloat(nums[0], 64)
	den, err2 := strconv.ParseFloat(nums[1], 64)
	if err1 != nil || err2 != nil || den == 0 {
		return 0
	}
	return num / den
}

// TranscodeArgs builds a filtered re-encode that keeps the audio stream untouched
func TranscodeArgs(inputPath, outputPath, videoFilter string, enc Encoding) []string {
	return ffmpeg.Input(inputPath).
		Output(outputPath, ffmpeg.KwArgs{
			"vf":     videoFilter,
			"c:v":    enc.Codec,
			"preset": enc.Preset,
			"crf":    enc.CRF,
			"c:a":    "copy",
		}).
		OverWriteOutput().
		GetArgs()
}

// CutArgs builds a video-only re-encode of [start, start+duration)
func CutArgs(inputPath, outputPath string, start, duration float64, enc Encoding) []string {
	return ffmpeg.Input(inputPath, ffmpeg.KwArgs{"ss": FormatSeconds(start)}).
		Output(outputPath, ffmpeg.KwArgs{
			"t":      FormatSeconds(duration),
			"c:v":    enc.Codec,
			"preset": enc.Preset,
			"crf":    enc.CRF,
			"an":     "",
		}).
		OverWriteOutput().
		GetArgs()
}

// Transcode re-encodes inputPath into outputPath through videoFilter
func (p *Processor) Transcode(ctx context.Context, inputPath, outputPath, videoFilter string, enc Encoding) error {
	args := TranscodeArgs(inputPath, outputPath, videoFilter, enc)
	if p.verbose {
		log.Printf("FFmpeg command: ffmpeg %s\n", strings.Join(args, " "))
	}
	return errors.WithStack(p.runner.Run(ctx, args))
}

// Cut extracts one segment of inputPath into outputPath, dropping audio
func (p *Processor) Cut(ctx context.Context, inputPath, outputPath string, start, duration float64, enc Encoding) error {
	args := CutArgs(inputPath, outputPath, start, duration, enc)
	if p.verbose {
		log.Printf("FFmpeg command: ffmpeg %s\n", strings.Join(args, " "))
	}
	return errors.WithStack(p.runner.Run(ctx, args))
}

// FormatSeconds renders seconds without a trailing ".0" for whole values
func FormatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', -1, 64)
}
