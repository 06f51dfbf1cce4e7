package platform

import "github.com/ZacxDev/vertical-splitter/pkg/types"

type TikTok struct{}

func init() {
	Register(&TikTok{})
}

func (p *TikTok) GetName() types.ProcessingPlatform {
	return types.ProcessingPlatformTikTok
}

func (p *TikTok) GetMaxDuration() int {
	return 180
}

func (p *TikTok) GetVideoCodec() string {
	return "libx264"
}

func (p *TikTok) GetNormalizePreset() string {
	return "ultrafast"
}

func (p *TikTok) GetNormalizeCRF() int {
	return 18
}

func (p *TikTok) GetCutPreset() string {
	return "fast"
}

func (p *TikTok) GetCutCRF() int {
	return 23
}

func (p *TikTok) GetOutputFormat() string {
	return "mp4"
}
