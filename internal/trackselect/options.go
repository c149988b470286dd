package trackselect

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// defaultStreamName labels a stream that carries no naming metadata.
const defaultStreamName = "default"

// streamNameKeys lists the metadata keys used to name a stream, highest
// priority first.
var streamNameKeys = []string{"title", "languageString", "language", "name"}

// Build derives the selectable options from a catalog snapshot, along with
// the index of the option the engine is currently playing (0 if none match).
// Options keep engine order. An empty snapshot yields no options.
func Build(snap Snapshot) ([]TrackOption, int) {
	switch s := snap.(type) {
	case AdaptiveSnapshot:
		return buildAdaptive(s.Manifest)
	case SimpleSnapshot:
		return buildSimple(s.Streams, s.SelectedID)
	default:
		panic(fmt.Sprintf("trackselect: unknown snapshot type %T", snap))
	}
}

func buildAdaptive(info ManifestInfo) ([]TrackOption, int) {
	if len(info.List) == 0 {
		return nil, 0
	}
	// An out-of-range selection falls back to the first rendition's family.
	ref := CodecFamily(info.List[0].Codec)
	if info.SelectedIndex >= 0 && info.SelectedIndex < len(info.List) {
		ref = CodecFamily(info.List[info.SelectedIndex].Codec)
	}

	options := make([]TrackOption, 0, len(info.List))
	current := 0
	for i, r := range info.List {
		if CodecFamily(r.Codec) != ref {
			continue
		}
		if i == info.SelectedIndex {
			current = len(options)
		}
		options = append(options, TrackOption{
			Value: RenditionValue(i),
			Name:  RenditionLabel(r),
			Codec: r.Codec,
		})
	}
	return options, current
}

func buildSimple(streams []StreamDescriptor, selected StreamID) ([]TrackOption, int) {
	if len(streams) == 0 {
		return nil, 0
	}
	options := make([]TrackOption, 0, len(streams))
	current := 0
	for i, s := range streams {
		if s.ID == selected {
			current = i
		}
		options = append(options, TrackOption{
			Value: StreamValue(s.ID),
			Name:  StreamName(s.Metadata),
		})
	}
	return options, current
}

// CodecFamily returns the part of a dot-delimited codec tag before the first
// dot, e.g. "avc1" for "avc1.4D401F".
func CodecFamily(codec string) string {
	family, _, _ := strings.Cut(codec, ".")
	return family
}

// RenditionLabel formats a rendition as "2 kbps (1280x720@30) (avc1.4D401F)".
// Missing bandwidth drops the leading rate and the parentheses around the
// resolution; missing codec drops the trailing part.
func RenditionLabel(r RenditionDescriptor) string {
	var b strings.Builder

	res := fmt.Sprintf("%dx%d", r.Width, r.Height)
	if r.FrameRate != 0 {
		res += "@" + strconv.FormatFloat(r.FrameRate, 'f', -1, 64)
	}

	if r.Bandwidth != 0 {
		b.WriteString(bandwidthLabel(r.Bandwidth))
		b.WriteString(" (")
		b.WriteString(res)
		b.WriteString(")")
	} else {
		b.WriteString(res)
	}

	if r.Codec != "" {
		b.WriteString(" (")
		b.WriteString(r.Codec)
		b.WriteString(")")
	}
	return b.String()
}

func bandwidthLabel(bps int64) string {
	if bps > 1000 {
		return fmt.Sprintf("%d kbps", int64(math.Round(float64(bps)/1000)))
	}
	return fmt.Sprintf("%d bps", bps)
}

// StreamName picks the display name of an elementary stream from its metadata.
func StreamName(metadata map[string]string) string {
	for _, key := range streamNameKeys {
		if v := metadata[key]; v != "" {
			return v
		}
	}
	return defaultStreamName
}
