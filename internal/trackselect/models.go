package trackselect

import "fmt"

// StreamID identifies one elementary stream reported by the engine.
type StreamID int

// Mode distinguishes the two catalog shapes an engine can report.
type Mode string

const (
	ModeSimple   Mode = "simple"
	ModeAdaptive Mode = "adaptive"
)

// MediaType is the kind of an elementary stream.
type MediaType string

const (
	MediaVideo    MediaType = "video"
	MediaAudio    MediaType = "audio"
	MediaSubtitle MediaType = "subtitle"
	MediaData     MediaType = "data"
)

// StreamDescriptor is one elementary stream among several parallel tracks.
// It is immutable once reported by the engine.
type StreamDescriptor struct {
	ID        StreamID          `json:"id" yaml:"id"`
	MediaType MediaType         `json:"media_type" yaml:"media_type"`
	Codec     string            `json:"codec" yaml:"codec"`
	Metadata  map[string]string `json:"metadata,omitempty" yaml:"metadata"`
}

// RenditionDescriptor is one quality variant within an adaptive manifest.
// FrameRate and Bandwidth are absent when zero.
type RenditionDescriptor struct {
	Width     int     `json:"width" yaml:"width"`
	Height    int     `json:"height" yaml:"height"`
	FrameRate float64 `json:"frame_rate,omitempty" yaml:"frame_rate"`
	Bandwidth int64   `json:"bandwidth,omitempty" yaml:"bandwidth"`
	Codec     string  `json:"codec" yaml:"codec"`
}

// ManifestInfo is a snapshot of adaptive track state at fetch time.
type ManifestInfo struct {
	List          []RenditionDescriptor `json:"list"`
	SelectedIndex int                   `json:"selected_index"`
}

// TrackValue is what the engine is asked to switch to: a stream id in
// simple mode, a rendition index in adaptive mode.
type TrackValue struct {
	Mode      Mode     `json:"mode"`
	StreamID  StreamID `json:"stream_id"`
	Rendition int      `json:"rendition"`
}

func (v TrackValue) String() string {
	if v.Mode == ModeAdaptive {
		return fmt.Sprintf("rendition:%d", v.Rendition)
	}
	return fmt.Sprintf("stream:%d", v.StreamID)
}

// StreamValue returns the value selecting stream id.
func StreamValue(id StreamID) TrackValue {
	return TrackValue{Mode: ModeSimple, StreamID: id}
}

// RenditionValue returns the value selecting the manifest rendition at index i.
func RenditionValue(i int) TrackValue {
	return TrackValue{Mode: ModeAdaptive, Rendition: i}
}

// TrackOption is the unit exposed to the selection UI. It is derived from
// engine metadata and never owned by the engine.
type TrackOption struct {
	Value TrackValue `json:"value"`
	Name  string     `json:"name"`
	Codec string     `json:"codec,omitempty"`
}

// SelectionState is the option list plus the index of the active option.
// CurrentIndex is a valid index into Options, or 0 when Options is empty.
type SelectionState struct {
	Options      []TrackOption `json:"options"`
	CurrentIndex int           `json:"current_index"`
}

// Snapshot is the catalog read from the engine on one refresh. It is either
// a SimpleSnapshot or an AdaptiveSnapshot.
type Snapshot interface {
	Mode() Mode
	sealed()
}

// SimpleSnapshot holds the video streams of a multi-stream container and
// the id of the stream the engine is currently playing.
type SimpleSnapshot struct {
	Streams    []StreamDescriptor
	SelectedID StreamID
}

// AdaptiveSnapshot holds the manifest of an adaptive transport.
type AdaptiveSnapshot struct {
	Manifest ManifestInfo
}

func (SimpleSnapshot) Mode() Mode { return ModeSimple }
func (AdaptiveSnapshot) Mode() Mode { return ModeAdaptive }
func (SimpleSnapshot) sealed() {}
func (AdaptiveSnapshot) sealed() {}
