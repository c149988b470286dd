package trackselect

import (
	"context"
	"fmt"
)

// FetchCatalog reads the current video catalog from the engine. Adaptive
// transports fetch the manifest (which may block); everything else reads the
// stream list synchronously and keeps only video streams.
func FetchCatalog(ctx context.Context, engine Engine) (Snapshot, error) {
	if engine.IsAdaptiveTransport() {
		info, err := engine.VideoManifest(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
		}
		return AdaptiveSnapshot{Manifest: info}, nil
	}

	all := engine.Streams()
	video := make([]StreamDescriptor, 0, len(all))
	for _, s := range all {
		if s.MediaType == MediaVideo {
			video = append(video, s)
		}
	}
	return SimpleSnapshot{Streams: video, SelectedID: engine.SelectedVideoStreamID()}, nil
}
