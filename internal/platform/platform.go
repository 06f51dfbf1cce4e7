package platform

import (
	"fmt"

	"github.com/ZacxDev/vertical-splitter/pkg/types"
	"golang.org/x/exp/slices"
)

// Platform defines the encoder settings used when targeting a vertical platform
type Platform interface {
	// GetName returns the platform name
	GetName() types.ProcessingPlatform

	// GetMaxDuration returns the maximum allowed segment duration in seconds
	GetMaxDuration() int

	// GetVideoCodec returns the encoder used for both normalize and cut passes
	GetVideoCodec() string

	// GetNormalizePreset returns the encoder preset for the crop/pad pass
	GetNormalizePreset() string

	// GetNormalizeCRF returns the constant rate factor for the crop/pad pass
	GetNormalizeCRF() int

	// GetCutPreset returns the encoder preset for segment cuts
	GetCutPreset() string

	// GetCutCRF returns the constant rate factor for segment cuts
	GetCutCRF() int

	// GetOutputFormat returns the container extension of produced segments, without the dot
	GetOutputFormat() string
}

var platforms = make(map[types.ProcessingPlatform]Platform)

// Register adds a platform to the registry
func Register(p Platform) {
	platforms[p.GetName()] = p
}

// Get returns a platform by name
func Get(name string) (Platform, error) {
	p, ok := platforms[types.ProcessingPlatform(name)]
	if !ok {
		return nil, fmt.Errorf("unsupported platform: %s", name)
	}
	return p, nil
}

// GetSupportedPlatforms returns the registered platform names in sorted order
func GetSupportedPlatforms() []string {
	names := make([]string, 0, len(platforms))
	for name := range platforms {
		names = append(names, string(name))
	}
	slices.Sort(names)
	return names
}
