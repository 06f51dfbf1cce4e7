package processor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZacxDev/vertical-splitter/internal/config"
	"github.com/ZacxDev/vertical-splitter/internal/ffmpeg"
	"github.com/pkg/errors"
)

func TestDecideAspectCropsWideFrames(t *testing.T) {
	d := DecideAspect(1920, 1080, 0.01)
	if d.Action != AspectCrop {
		t.Fatalf("Action = %s, want crop", d.Action)
	}
	if d.Filter != "crop=607:1080:656:0" {
		t.Fatalf("Filter = %q", d.Filter)
	}
	if d.Ratio != 0.5625 {
		t.Fatalf("Ratio = %v", d.Ratio)
	}
}

func TestCropFilterCentersWindow(t *testing.T) {
	if got := CropFilter(1920, 1080); got != "crop=607:1080:656:0" {
		t.Fatalf("CropFilter(1920, 1080) = %q", got)
	}
	if got := CropFilter(1080, 1080); got != "crop=607:1080:236:0" {
		t.Fatalf("CropFilter(1080, 1080) = %q", got)
	}
}

func TestPadFilter(t *testing.T) {
	if got := PadFilter(1080, 1080); got != "pad=1080:1920:(ow-iw)/2:(oh-ih)/2" {
		t.Fatalf("PadFilter(1080, 1080) = %q", got)
	}
	// floor(720*16/9) = 1280 < 1920, so the sides get padded instead.
	if got := PadFilter(720, 1920); got != "pad=1080:1920:(ow-iw)/2:(oh-ih)/2" {
		t.Fatalf("PadFilter(720, 1920) = %q", got)
	}
}

func TestDecideAspectPadsNarrowFrames(t *testing.T) {
	d := DecideAspect(720, 1920, 0.01)
	if d.Action != AspectPad {
		t.Fatalf("Action = %s, want pad", d.Action)
	}
	if d.Filter != "pad=1080:1920:(ow-iw)/2:(oh-ih)/2" {
		t.Fatalf("Filter = %q", d.Filter)
	}
}

func TestDecideAspectCropsSquareFrames(t *testing.T) {
	d := DecideAspect(1080, 1080, 0.01)
	if d.Action != AspectCrop || d.Filter != "crop=607:1080:236:0" {
		t.Fatalf("square decision = %+v", d)
	}
}

func TestDecideAspectKeepsVerticalFrames(t *testing.T) {
	d := DecideAspect(1080, 1920, 0.01)
	if d.Action != AspectKeep || d.Filter != "" {
		t.Fatalf("decision = %+v, want keep", d)
	}
}

func TestWithinToleranceBoundary(t *testing.T) {
	target := config.TargetAspectRatio
	for _, delta := range []float64{0, 0.009, -0.009} {
		if !WithinTolerance(target+delta, 0.01) {
			t.Errorf("ratio target%+v should count as vertical", delta)
		}
	}
	for _, delta := range []float64{0.011, -0.011} {
		if WithinTolerance(target+delta, 0.01) {
			t.Errorf("ratio target%+v should need normalization", delta)
		}
	}
	if !WithinTolerance(target+0.011, 0.02) {
		t.Error("a wider tolerance should accept target+0.011")
	}
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func assertNoHiddenFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name()[0] == '.' {
			t.Fatalf("leftover temp file %s", e.Name())
		}
	}
}

func TestNormalizeReplacesFileInPlace(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "clip.mp4", "original")
	media := &fakeMedia{width: 1920, height: 1080, duration: 300}
	n := NewNormalizer(media, 0.01, ffmpeg.Encoding{Codec: "libx264", Preset: "ultrafast", CRF: 18}, 0, false)

	d, err := n.Normalize(context.Background(), src)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if d.Action != AspectCrop {
		t.Fatalf("Action = %s", d.Action)
	}
	if got := media.transcodeFilters(); len(got) != 1 || got[0] != "crop=607:1080:656:0" {
		t.Fatalf("transcodes = %v", got)
	}
	b, _ := os.ReadFile(src)
	if string(b) != "normalized" {
		t.Fatalf("source content = %q, want normalized", b)
	}
	assertNoHiddenFiles(t, dir)
}

func TestNormalizeLeavesVerticalFileAlone(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "clip.mp4", "original")
	media := &fakeMedia{width: 1080, height: 1920, duration: 300}
	n := NewNormalizer(media, 0.01, ffmpeg.Encoding{}, 0, false)

	if _, err := n.Normalize(context.Background(), src); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(media.transcodeFilters()) != 0 {
		t.Fatal("vertical file should not be transcoded")
	}
	b, _ := os.ReadFile(src)
	if string(b) != "original" {
		t.Fatalf("source content = %q", b)
	}
}

func TestNormalizeFailureKeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "clip.mp4", "original")
	media := &fakeMedia{width: 720, height: 1920, duration: 300, transcodeErr: errors.New("Conversion failed!")}
	n := NewNormalizer(media, 0.01, ffmpeg.Encoding{}, 0, false)

	_, err := n.Normalize(context.Background(), src)
	var ne *NormalizeError
	if !errors.As(err, &ne) {
		t.Fatalf("expected NormalizeError, got %T %v", err, err)
	}
	if ne.Filter != "pad=1080:1920:(ow-iw)/2:(oh-ih)/2" {
		t.Fatalf("NormalizeError.Filter = %q", ne.Filter)
	}
	b, _ := os.ReadFile(src)
	if string(b) != "original" {
		t.Fatalf("original lost: %q", b)
	}
	assertNoHiddenFiles(t, dir)
}

func TestNormalizePropagatesProbeError(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "clip.mp4", "original")
	media := &fakeMedia{probeErr: &ffmpeg.ProbeError{Path: src, Reason: "ffprobe failed", Err: errors.New("exit status 1")}}
	n := NewNormalizer(media, 0.01, ffmpeg.Encoding{}, 0, false)

	_, err := n.Normalize(context.Background(), src)
	var pe *ProbeError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProbeError, got %T %v", err, err)
	}
}
