package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZacxDev/vertical-splitter/internal/config"
	"github.com/ZacxDev/vertical-splitter/internal/ffmpeg"
	"github.com/ZacxDev/vertical-splitter/internal/platform"
	"github.com/ZacxDev/vertical-splitter/internal/storage"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// Media is the subset of ffmpeg.Processor the splitter drives.
type Media interface {
	normalizerMedia
	cutterMedia
	Duration(ctx context.Context, inputPath string) (float64, error)
}

// Splitter handles batch normalize-and-split operations
type Splitter struct {
	cfg        *config.Config
	media      Media
	platform   platform.Platform
	publisher  storage.Publisher
	newRunID   func() string
	normalizer *Normalizer
	cutter     *Cutter
}

// Option customizes a Splitter
type Option func(*Splitter)

// WithMedia replaces the ffmpeg-backed media tool
func WithMedia(m Media) Option {
	return func(s *Splitter) { s.media = m }
}

// WithPublisher uploads every finished segment through p
func WithPublisher(p storage.Publisher) Option {
	return func(s *Splitter) { s.publisher = p }
}

// WithRunIDFunc replaces the random run identifier source
func WithRunIDFunc(f func() string) Option {
	return func(s *Splitter) { s.newRunID = f }
}

// NewSplitter creates a new video splitter
func NewSplitter(cfg *config.Config, opts ...Option) (*Splitter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	plat, err := platform.Get(cfg.TargetPlatform)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if cfg.ChunkDuration > plat.GetMaxDuration() {
		return nil, fmt.Errorf("chunk duration %ds exceeds platform maximum of %ds",
			cfg.ChunkDuration, plat.GetMaxDuration())
	}

	s := &Splitter{
		cfg:      cfg,
		platform: plat,
		newRunID: NewRunID,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.media == nil {
		s.media = ffmpeg.NewProcessor(cfg.Verbose, ffmpeg.WithProbeTimeout(cfg.ProbeTimeout))
	}

	s.normalizer = NewNormalizer(s.media, cfg.AspectTolerance, ffmpeg.Encoding{
		Codec:  plat.GetVideoCodec(),
		Preset: plat.GetNormalizePreset(),
		CRF:    plat.GetNormalizeCRF(),
	}, cfg.NormalizeTimeout, cfg.Verbose)

	s.cutter = NewCutter(s.media, cfg.OutputDir, "."+plat.GetOutputFormat(), ffmpeg.Encoding{
		Codec:  plat.GetVideoCodec(),
		Preset: plat.GetCutPreset(),
		CRF:    plat.GetCutCRF(),
	}, cfg.CutTimeout)

	return s, nil
}

// GetSupportedPlatforms returns a list of supported platforms
func GetSupportedPlatforms() []string {
	return platform.GetSupportedPlatforms()
}

// NewRunID returns the first 8 hex characters of a random UUID.
func NewRunID() string {
	return uuid.New().String()[:8]
}

// Discover lists regular, non-hidden files directly inside dir whose
// extension matches ext case-insensitively, sorted by name.
func Discover(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read input directory %s", dir)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if !e.Type().IsRegular() || strings.HasPrefix(name, ".") {
			continue
		}
		if strings.EqualFold(filepath.Ext(name), ext) {
			files = append(files, filepath.Join(dir, name))
		}
	}
	slices.Sort(files)
	return files, nil
}
