package videoprocessor

import (
	"context"
	"log"
	"os"

	"github.com/ZacxDev/vertical-splitter/internal/config"
	"github.com/ZacxDev/vertical-splitter/internal/ffmpeg"
	"github.com/ZacxDev/vertical-splitter/internal/platform"
	"github.com/ZacxDev/vertical-splitter/internal/processor"
	"github.com/ZacxDev/vertical-splitter/internal/storage"
	"github.com/pkg/errors"
)

// Options defines options for a batch split run
type Options = config.Config

// VideoMetadata contains metadata about a video file
type VideoMetadata = ffmpeg.VideoMetadata

type (
	Report        = processor.Report
	FileReport    = processor.FileReport
	FilePlan      = processor.FilePlan
	SegmentResult = processor.SegmentResult
)

// DefaultOptions returns the built-in defaults.
func DefaultOptions() Options {
	return config.Default()
}

// LoadOptions returns the defaults overridden by the process environment.
// KEY=VALUE pairs in envFile are loaded first when the file exists.
func LoadOptions(envFile string) (Options, error) {
	opts := config.Default()
	if err := config.LoadEnvFile(envFile); err != nil {
		return opts, err
	}
	if err := config.ApplyEnv(&opts, os.LookupEnv); err != nil {
		return opts, err
	}
	return opts, nil
}

// GetSupportedPlatforms returns a list of supported encoding profiles
func GetSupportedPlatforms() []string {
	return processor.GetSupportedPlatforms()
}

// Profile describes the encoder settings of one target platform.
type Profile struct {
	Name            string
	MaxDuration     int
	Codec           string
	NormalizePreset string
	NormalizeCRF    int
	CutPreset       string
	CutCRF          int
	Format          string
}

// Profiles returns every registered profile sorted by name.
func Profiles() []Profile {
	names := platform.GetSupportedPlatforms()
	profiles := make([]Profile, 0, len(names))
	for _, name := range names {
		p, err := platform.Get(name)
		if err != nil {
			continue
		}
		profiles = append(profiles, Profile{
			Name:            name,
			MaxDuration:     p.GetMaxDuration(),
			Codec:           p.GetVideoCodec(),
			NormalizePreset: p.GetNormalizePreset(),
			NormalizeCRF:    p.GetNormalizeCRF(),
			CutPreset:       p.GetCutPreset(),
			CutCRF:          p.GetCutCRF(),
			Format:          p.GetOutputFormat(),
		})
	}
	return profiles
}

func newSplitter(ctx context.Context, opts *Options) (*processor.Splitter, error) {
	var popts []processor.Option
	if opts.S3Bucket != "" {
		pub, err := storage.NewS3Publisher(ctx, opts.S3Bucket, opts.S3Region, opts.S3Prefix)
		if err != nil {
			return nil, err
		}
		if opts.Verbose {
			log.Printf("Publishing segments to s3://%s/%s\n", opts.S3Bucket, opts.S3Prefix)
		}
		popts = append(popts, processor.WithPublisher(pub))
	}
	return processor.NewSplitter(opts, popts...)
}

// SplitDirectory normalizes every eligible file of opts.InputDir to 9:16 and
// cuts it into segments under opts.OutputDir.
func SplitDirectory(ctx context.Context, opts *Options) (*Report, error) {
	s, err := newSplitter(ctx, opts)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx)
}

// PlanDirectory reports what SplitDirectory would do without writing anything.
func PlanDirectory(ctx context.Context, opts *Options) ([]FilePlan, error) {
	s, err := processor.NewSplitter(opts)
	if err != nil {
		return nil, err
	}
	return s.PlanAll(ctx)
}

// GetVideoMetadata retrieves metadata about a video file
func GetVideoMetadata(ctx context.Context, inputPath string) (*VideoMetadata, error) {
	m, err := ffmpeg.NewProcessor(false).GetVideoMetadata(ctx, inputPath)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return m, nil
}
