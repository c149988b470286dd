package trackselect

import "context"

// Status is the engine lifecycle ordinal. Larger values are later stages.
type Status int

const (
	StatusStopped Status = iota
	StatusLoading
	StatusLoaded
	StatusPlaying
	StatusPaused
	StatusEnded
)

// Event names an engine lifecycle notification.
type Event string

const (
	// EventLoaded fires once the engine has loaded the content.
	EventLoaded Event = "loaded"
	// EventStreamUpdate fires whenever the set of streams changes.
	EventStreamUpdate Event = "stream_update"
)

// Engine is the playback engine contract the control depends on. The engine
// is shared and externally owned; the control only reads from it and asks it
// to switch tracks.
type Engine interface {
	// IsAdaptiveTransport reports whether content is streamed from a manifest
	// (HLS, DASH) rather than read from a multi-stream container.
	IsAdaptiveTransport() bool

	// Streams returns every elementary stream of the current content.
	Streams() []StreamDescriptor

	// SelectedVideoStreamID returns the id of the active video stream.
	SelectedVideoStreamID() StreamID

	// VideoManifest fetches the adaptive video rendition list.
	VideoManifest(ctx context.Context) (ManifestInfo, error)

	// SwitchVideo activates the given stream or rendition.
	SwitchVideo(ctx context.Context, value TrackValue) error

	// Status returns the current lifecycle status.
	Status() Status

	// Subscribe registers handler for event under namespace.
	Subscribe(event Event, namespace string, handler func())

	// Unsubscribe removes every handler registered under namespace.
	Unsubscribe(namespace string)
}
