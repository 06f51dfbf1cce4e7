package processor

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ZacxDev/vertical-splitter/internal/ffmpeg"
	"github.com/pkg/errors"
)

type cutCall struct {
	source   string
	output   string
	start    float64
	duration float64
}

// fakeMedia stands in for ffmpeg/ffprobe and writes small files where they would.
type fakeMedia struct {
	width, height int
	duration      float64
	probeErr      error
	transcodeErr  error
	failIndex     map[int]bool
	cutDelay      time.Duration

	mu          sync.Mutex
	transcodes  []string
	cuts        []cutCall
	inFlight    int
	maxInFlight int
}

func (f *fakeMedia) GetVideoMetadata(ctx context.Context, inputPath string) (*ffmpeg.VideoMetadata, error) {
	if f.probeErr != nil {
		return nil, f.probeErr
	}
	return &ffmpeg.VideoMetadata{Duration: f.duration, Width: f.width, Height: f.height, Codec: "h264"}, nil
}

func (f *fakeMedia) Resolution(ctx context.Context, inputPath string) (int, int, error) {
	m, err := f.GetVideoMetadata(ctx, inputPath)
	if err != nil {
		return 0, 0, err
	}
	return m.Width, m.Height, nil
}

func (f *fakeMedia) Duration(ctx context.Context, inputPath string) (float64, error) {
	m, err := f.GetVideoMetadata(ctx, inputPath)
	if err != nil {
		return 0, err
	}
	return math.Ceil(m.Duration), nil
}

func (f *fakeMedia) Transcode(ctx context.Context, inputPath, outputPath, videoFilter string, enc ffmpeg.Encoding) error {
	f.mu.Lock()
	f.transcodes = append(f.transcodes, videoFilter)
	f.mu.Unlock()
	if f.transcodeErr != nil {
		return f.transcodeErr
	}
	return os.WriteFile(outputPath, []byte("normalized"), 0o644)
}

func (f *fakeMedia) Cut(ctx context.Context, inputPath, outputPath string, start, duration float64, enc ffmpeg.Encoding) error {
	f.mu.Lock()
	f.cuts = append(f.cuts, cutCall{source: inputPath, output: outputPath, start: start, duration: duration})
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	// ffmpeg opens its output before encoding anything.
	if err := os.WriteFile(outputPath, []byte("partial"), 0o644); err != nil {
		return err
	}

	if f.cutDelay > 0 {
		select {
		case <-time.After(f.cutDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	for idx := range f.failIndex {
		if strings.HasSuffix(outputPath, fmt.Sprintf("_%03d.mp4", idx)) {
			return errors.New("Error while opening encoder for output stream #0:0")
		}
	}
	return os.WriteFile(outputPath, []byte(fmt.Sprintf("%v+%v", start, duration)), 0o644)
}

func (f *fakeMedia) transcodeFilters() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.transcodes...)
}

func (f *fakeMedia) cutCalls() []cutCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]cutCall(nil), f.cuts...)
}

type stubPublisher struct {
	mu    sync.Mutex
	paths []string
	err   error
}

func (p *stubPublisher) Publish(ctx context.Context, localPath string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return "", p.err
	}
	p.paths = append(p.paths, localPath)
	return "s3://clips/" + localPath, nil
}

func sequentialRunIDs(ids ...string) func() string {
	var mu sync.Mutex
	i := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		id := ids[i%len(ids)]
		i++
		return id
	}
}
