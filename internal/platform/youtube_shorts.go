package platform

import "github.com/ZacxDev/vertical-splitter/pkg/types"

type YouTubeShorts struct{}

func init() {
	Register(&YouTubeShorts{})
}

func (p *YouTubeShorts) GetName() types.ProcessingPlatform {
	return types.ProcessingPlatformYouTubeShorts
}

func (p *YouTubeShorts) GetMaxDuration() int {
	return 60
}

func (p *YouTubeShorts) GetVideoCodec() string {
	return "libx264"
}

func (p *YouTubeShorts) GetNormalizePreset() string {
	return "ultrafast"
}

func (p *YouTubeShorts) GetNormalizeCRF() int {
	return 18
}

func (p *YouTubeShorts) GetCutPreset() string {
	return "fast"
}

func (p *YouTubeShorts) GetCutCRF() int {
	return 20
}

func (p *YouTubeShorts) GetOutputFormat() string {
	return "mp4"
}
