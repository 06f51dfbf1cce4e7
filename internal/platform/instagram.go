package platform

import "github.com/ZacxDev/vertical-splitter/pkg/types"

type InstagramReel struct{}

func init() {
	Register(&InstagramReel{})
}

func (p *InstagramReel) GetName() types.ProcessingPlatform {
	return types.ProcessingPlatformInstagramReel
}

func (p *InstagramReel) GetMaxDuration() int {
	return 90
}

func (p *InstagramReel) GetVideoCodec() string {
	return "libx264"
}

func (p *InstagramReel) GetNormalizePreset() string {
	return "veryfast"
}

func (p *InstagramReel) GetNormalizeCRF() int {
	return 18
}

func (p *InstagramReel) GetCutPreset() string {
	return "medium"
}

func (p *InstagramReel) GetCutCRF() int {
	return 21
}

func (p *InstagramReel) GetOutputFormat() string {
	return "mp4"
}
