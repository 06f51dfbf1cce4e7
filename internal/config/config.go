package config

import (
	"math"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/ZacxDev/vertical-splitter/pkg/types"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Config defines options for a batch split run
type Config struct {
	InputDir  string
	OutputDir string
	Extension string // matched case-insensitively, with leading dot

	ChunkDuration int    // seconds
	Skip          string // lead-in to drop, e.g. "30s", "1m" or plain seconds

	AspectTolerance float64
	Workers         int
	FailurePolicy   types.FailurePolicy
	TargetPlatform  string

	// Zero disables the normalize and cut timeouts; probes fall back to
	// ffmpeg.DefaultProbeTimeout.
	ProbeTimeout     time.Duration
	NormalizeTimeout time.Duration
	CutTimeout       time.Duration

	// Segments are uploaded when S3Bucket is set.
	S3Bucket string
	S3Region string
	S3Prefix string

	Verbose bool
}

const (
	DefaultInputDir        = "tosplit"
	DefaultOutputDir       = "splitted"
	DefaultExtension       = ".mp4"
	DefaultChunkDuration   = 120
	DefaultSkip            = "30s"
	DefaultAspectTolerance = 0.01
	DefaultTargetPlatform  = "tiktok"

	// TargetAspectRatio is height/width of a 9:16 frame.
	TargetAspectRatio = 16.0 / 9.0

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "VSPLIT_"
)

// Default returns the configuration the tool runs with when nothing is overridden.
func Default() Config {
	return Config{
		InputDir:        DefaultInputDir,
		OutputDir:       DefaultOutputDir,
		Extension:       DefaultExtension,
		ChunkDuration:   DefaultChunkDuration,
		Skip:            DefaultSkip,
		AspectTolerance: DefaultAspectTolerance,
		Workers:         runtime.NumCPU(),
		FailurePolicy:   types.FailurePolicyAbort,
		TargetPlatform:  DefaultTargetPlatform,
	}
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment.
// A missing file is not an error. Variables already set are left alone.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "failed to load env file %s", path)
	}
	return nil
}

// ApplyEnv overrides cfg with VSPLIT_* variables found through lookup.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			return "", false
		}
		v = strings.TrimSpace(v)
		return v, v != ""
	}

	if v, ok := get("INPUT_DIR"); ok {
		cfg.InputDir = v
	}
	if v, ok := get("OUTPUT_DIR"); ok {
		cfg.OutputDir = v
	}
	if v, ok := get("EXTENSION"); ok {
		cfg.Extension = v
	}
	if v, ok := get("CHUNK_SECONDS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "invalid %sCHUNK_SECONDS", EnvPrefix)
		}
		cfg.ChunkDuration = n
	}
	if v, ok := get("SKIP"); ok {
		cfg.Skip = v
	}
	if v, ok := get("ASPECT_TOLERANCE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid %sASPECT_TOLERANCE", EnvPrefix)
		}
		cfg.AspectTolerance = f
	}
	if v, ok := get("WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "invalid %sWORKERS", EnvPrefix)
		}
		cfg.Workers = n
	}
	if v, ok := get("FAILURE_POLICY"); ok {
		cfg.FailurePolicy = types.FailurePolicy(strings.ToLower(v))
	}
	if v, ok := get("PROFILE"); ok {
		cfg.TargetPlatform = v
	}
	if v, ok := get("S3_BUCKET"); ok {
		cfg.S3Bucket = v
	}
	if v, ok := get("S3_REGION"); ok {
		cfg.S3Region = v
	}
	if v, ok := get("S3_PREFIX"); ok {
		cfg.S3Prefix = v
	}
	return nil
}

// SkipSeconds parses Skip. Plain numbers are taken as seconds.
func (c *Config) SkipSeconds() (float64, error) {
	return parseSkipDuration(c.Skip)
}

// Validate checks that the configuration can drive a run.
func (c *Config) Validate() error {
	if c.InputDir == "" || c.OutputDir == "" {
		return errors.New("input and output directories are required")
	}
	if !strings.HasPrefix(c.Extension, ".") || len(c.Extension) < 2 {
		return errors.Errorf("extension must start with a dot: %q", c.Extension)
	}
	if c.ChunkDuration <= 0 {
		return errors.Errorf("chunk duration must be positive, got %d", c.ChunkDuration)
	}
	if _, err := c.SkipSeconds(); err != nil {
		return err
	}
	if math.IsNaN(c.AspectTolerance) || math.IsInf(c.AspectTolerance, 0) || c.AspectTolerance <= 0 {
		return errors.Errorf("aspect tolerance must be a positive number, got %v", c.AspectTolerance)
	}
	if c.Workers < 1 {
		return errors.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if !c.FailurePolicy.Valid() {
		return errors.Errorf("unsupported failure policy: %s (supported: %s, %s)",
			c.FailurePolicy, types.FailurePolicyAbort, types.FailurePolicyIsolate)
	}
	if c.ProbeTimeout < 0 || c.NormalizeTimeout < 0 || c.CutTimeout < 0 {
		return errors.New("timeouts cannot be negative")
	}
	return nil
}

func parseSkipDuration(skip string) (float64, error) {
	skip = strings.TrimSpace(skip)
	if skip == "" {
		return 0, nil
	}

	if seconds, err := strconv.ParseFloat(skip, 64); err == nil {
		if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
			return 0, errors.Errorf("invalid skip duration: %s", skip)
		}
		return seconds, nil
	}

	duration, err := time.ParseDuration(skip)
	if err != nil {
		return 0, errors.Wrap(err, "invalid skip duration format")
	}
	if duration < 0 {
		return 0, errors.Errorf("invalid skip duration: %s", skip)
	}

	return duration.Seconds(), nil
}
