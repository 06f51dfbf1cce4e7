package types

type ProcessingPlatform string

const (
	ProcessingPlatformTikTok        ProcessingPlatform = "tiktok"
	ProcessingPlatformInstagramReel ProcessingPlatform = "instagram-reel"
	ProcessingPlatformYouTubeShorts ProcessingPlatform = "youtube-shorts"
)

// FailurePolicy decides what a segment failure does to the rest of the batch.
type FailurePolicy string

const (
	// FailurePolicyAbort stops the file's remaining segments and the batch.
	FailurePolicyAbort FailurePolicy = "abort"
	// FailurePolicyIsolate records the failure and keeps going.
	FailurePolicyIsolate FailurePolicy = "isolate"
)

func (p FailurePolicy) Valid() bool {
	return p == FailurePolicyAbort || p == FailurePolicyIsolate
}
