package player

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"track-selector/internal/trackselect"

	"github.com/grafov/m3u8"
)

// ErrNotPlaylist is returned when input does not decode as an HLS master playlist.
var ErrNotPlaylist = errors.New("not an HLS master playlist")

// audioCodecFamilies are skipped when picking the video codec of a variant.
var audioCodecFamilies = map[string]bool{
	"mp4a": true,
	"ac-3": true,
	"ec-3": true,
	"opus": true,
	"flac": true,
	"alac": true,
	"mp3":  true,
}

// ParseMasterPlaylist reads the variant streams of an HLS master playlist, in
// playlist order, as renditions. I-frame only variants are skipped.
func ParseMasterPlaylist(r io.Reader) ([]trackselect.RenditionDescriptor, error) {
	pl, listType, err := m3u8.DecodeFrom(r, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotPlaylist, err)
	}
	master, ok := pl.(*m3u8.MasterPlaylist)
	if !ok || listType != m3u8.MASTER {
		return nil, ErrNotPlaylist
	}

	out := make([]trackselect.RenditionDescriptor, 0, len(master.Variants))
	for _, v := range master.Variants {
		if v == nil || v.Iframe {
			continue
		}
		rd, err := rendition(v.VariantParams)
		if err != nil {
			return nil, fmt.Errorf("variant %d (%s): %w", len(out), v.URI, err)
		}
		out = append(out, rd)
	}
	return out, nil
}

func rendition(vp m3u8.VariantParams) (trackselect.RenditionDescriptor, error) {
	rd := trackselect.RenditionDescriptor{
		Bandwidth: int64(vp.Bandwidth),
		FrameRate: vp.FrameRate,
		Codec:     videoCodec(vp.Codecs),
	}
	if vp.Resolution == "" {
		return rd, nil
	}
	w, h, ok := strings.Cut(vp.Resolution, "x")
	if !ok {
		return rd, fmt.Errorf("bad RESOLUTION %q", vp.Resolution)
	}
	var err error
	if rd.Width, err = strconv.Atoi(w); err == nil {
		rd.Height, err = strconv.Atoi(h)
	}
	if err != nil {
		return rd, fmt.Errorf("bad RESOLUTION %q: %w", vp.Resolution, err)
	}
	return rd, nil
}

// videoCodec returns the first non-audio entry of a CODECS list.
func videoCodec(list string) string {
	for _, c := range strings.Split(list, ",") {
		c = strings.TrimSpace(c)
		if c == "" || audioCodecFamilies[strings.ToLower(trackselect.CodecFamily(c))] {
			continue
		}
		return c
	}
	return ""
}
