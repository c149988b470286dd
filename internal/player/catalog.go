package player

import (
	"fmt"
	"os"
	"path/filepath"

	"track-selector/internal/trackselect"

	"gopkg.in/yaml.v3"
)

// Transport is how the fixture content is delivered.
type Transport string

const (
	TransportFile Transport = "file"
	TransportHLS  Transport = "hls"
	TransportDASH Transport = "dash"
)

// Adaptive reports whether t is manifest based.
func (t Transport) Adaptive() bool {
	return t == TransportHLS || t == TransportDASH
}

// Catalog is the on-disk description of the content a Player serves.
type Catalog struct {
	Transport      Transport                      `yaml:"transport"`
	Status         string                         `yaml:"status"`
	SelectedStream trackselect.StreamID           `yaml:"selected_stream"`
	Streams        []trackselect.StreamDescriptor `yaml:"streams"`
	Manifest       ManifestSource                 `yaml:"manifest"`
}

// ManifestSource lists adaptive renditions inline or points at an HLS master
// playlist. A master playlist, when set, replaces the inline renditions.
type ManifestSource struct {
	SelectedIndex  int                               `yaml:"selected_index"`
	MasterPlaylist string                            `yaml:"master_playlist"`
	Renditions     []trackselect.RenditionDescriptor `yaml:"renditions"`
}

var statusNames = map[string]trackselect.Status{
	"":        trackselect.StatusLoaded,
	"stopped": trackselect.StatusStopped,
	"idle":    trackselect.StatusStopped,
	"loading": trackselect.StatusLoading,
	"loaded":  trackselect.StatusLoaded,
	"playing": trackselect.StatusPlaying,
	"paused":  trackselect.StatusPaused,
	"ended":   trackselect.StatusEnded,
}

// LoadCatalog reads and validates a catalog file. A relative master playlist
// path is resolved against the catalog's directory.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if c.Transport == "" {
		c.Transport = TransportFile
	}
	switch c.Transport {
	case TransportFile, TransportHLS, TransportDASH:
	default:
		return nil, fmt.Errorf("catalog %s: unknown transport %q", path, c.Transport)
	}
	if _, ok := statusNames[c.Status]; !ok {
		return nil, fmt.Errorf("catalog %s: unknown status %q", path, c.Status)
	}

	if mp := c.Manifest.MasterPlaylist; mp != "" {
		if !filepath.IsAbs(mp) {
			mp = filepath.Join(filepath.Dir(path), mp)
		}
		f, err := os.Open(mp)
		if err != nil {
			return nil, fmt.Errorf("open master playlist: %w", err)
		}
		defer f.Close()
		renditions, err := ParseMasterPlaylist(f)
		if err != nil {
			return nil, fmt.Errorf("master playlist %s: %w", mp, err)
		}
		c.Manifest.Renditions = renditions
	}
	return &c, nil
}

// status returns the lifecycle ordinal named by the catalog.
func (c *Catalog) status() trackselect.Status {
	return statusNames[c.Status]
}
