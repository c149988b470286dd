// Package player is a file-backed playback engine. It serves a catalog read
// from YAML (optionally pointing at an HLS master playlist) through the
// trackselect.Engine contract, so a control can be exercised without a real
// decoder.
package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"track-selector/internal/platform/logger"
	"track-selector/internal/trackselect"
)

var (
	// ErrUnsupportedValue is returned by SwitchVideo for a value that does not
	// name a video stream or rendition of the current content.
	ErrUnsupportedValue = errors.New("unsupported track value")

	// ErrNotLoaded is returned when the player has no catalog yet.
	ErrNotLoaded = errors.New("player has no content loaded")
)

// Player implements trackselect.Engine over a Catalog.
type Player struct {
	log    *slog.Logger
	events *emitter

	// SwitchDelay and ManifestDelay simulate engine latency.
	SwitchDelay   time.Duration
	ManifestDelay time.Duration

	mu        sync.RWMutex
	path      string
	catalog   *Catalog
	selected  trackselect.StreamID
	rendition int
}

var _ trackselect.Engine = (*Player)(nil)

// New returns an empty Player. log may be nil.
func New(log *slog.Logger) *Player {
	if log == nil {
		log = logger.Discard()
	}
	return &Player{log: log, events: newEmitter()}
}

// Load reads the catalog at path, makes it current and emits "loaded".
func (p *Player) Load(path string) error {
	c, err := LoadCatalog(path)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.path = path
	p.setCatalogLocked(c)
	p.mu.Unlock()

	p.log.Info("content loaded",
		slog.String("path", path),
		slog.String("transport", string(c.Transport)),
		slog.Int("streams", len(c.Streams)),
		slog.Int("renditions", len(c.Manifest.Renditions)))
	if c.status() >= trackselect.StatusLoaded {
		p.events.emit(trackselect.EventLoaded)
	}
	return nil
}

// Reload re-reads the current catalog file and emits "stream_update". On error
// the previous catalog stays in place.
func (p *Player) Reload() error {
	p.mu.RLock()
	path := p.path
	p.mu.RUnlock()
	if path == "" {
		return ErrNotLoaded
	}

	c, err := LoadCatalog(path)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.setCatalogLocked(c)
	p.mu.Unlock()

	p.log.Info("content reloaded", slog.String("path", path))
	p.events.emit(trackselect.EventStreamUpdate)
	return nil
}

// Path returns the catalog file currently loaded.
func (p *Player) Path() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.path
}

func (p *Player) setCatalogLocked(c *Catalog) {
	p.catalog = c
	p.selected = c.SelectedStream
	p.rendition = c.Manifest.SelectedIndex
}

// IsAdaptiveTransport implements trackselect.Engine.
func (p *Player) IsAdaptiveTransport() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.catalog != nil && p.catalog.Transport.Adaptive()
}

// Streams implements trackselect.Engine.
func (p *Player) Streams() []trackselect.StreamDescriptor {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.catalog == nil {
		return nil
	}
	return append([]trackselect.StreamDescriptor(nil), p.catalog.Streams...)
}

// SelectedVideoStreamID implements trackselect.Engine.
func (p *Player) SelectedVideoStreamID() trackselect.StreamID {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.selected
}

// VideoManifest implements trackselect.Engine.
func (p *Player) VideoManifest(ctx context.Context) (trackselect.ManifestInfo, error) {
	if err := p.wait(ctx, p.ManifestDelay); err != nil {
		return trackselect.ManifestInfo{}, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.catalog == nil {
		return trackselect.ManifestInfo{}, ErrNotLoaded
	}
	if !p.catalog.Transport.Adaptive() {
		return trackselect.ManifestInfo{}, fmt.Errorf("transport %q has no manifest", p.catalog.Transport)
	}
	return trackselect.ManifestInfo{
		List:          append([]trackselect.RenditionDescriptor(nil), p.catalog.Manifest.Renditions...),
		SelectedIndex: p.rendition,
	}, nil
}

// SwitchVideo implements trackselect.Engine.
func (p *Player) SwitchVideo(ctx context.Context, value trackselect.TrackValue) error {
	if err := p.wait(ctx, p.SwitchDelay); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.catalog == nil {
		return ErrNotLoaded
	}

	adaptive := p.catalog.Transport.Adaptive()
	switch value.Mode {
	case trackselect.ModeAdaptive:
		if !adaptive || value.Rendition < 0 || value.Rendition >= len(p.catalog.Manifest.Renditions) {
			return fmt.Errorf("%w: %s", ErrUnsupportedValue, value)
		}
		p.rendition = value.Rendition
	case trackselect.ModeSimple:
		if adaptive || !p.hasVideoStreamLocked(value.StreamID) {
			return fmt.Errorf("%w: %s", ErrUnsupportedValue, value)
		}
		p.selected = value.StreamID
	default:
		return fmt.Errorf("%w: mode %q", ErrUnsupportedValue, value.Mode)
	}
	p.log.Info("video switched", slog.String("value", value.String()))
	return nil
}

func (p *Player) hasVideoStreamLocked(id trackselect.StreamID) bool {
	for _, s := range p.catalog.Streams {
		if s.ID == id && s.MediaType == trackselect.MediaVideo {
			return true
		}
	}
	return false
}

// Status implements trackselect.Engine.
func (p *Player) Status() trackselect.Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.catalog == nil {
		return trackselect.StatusStopped
	}
	return p.catalog.status()
}

// Subscribe implements trackselect.Engine.
func (p *Player) Subscribe(event trackselect.Event, namespace string, handler func()) {
	p.events.on(event, namespace, handler)
}

// Unsubscribe implements trackselect.Engine.
func (p *Player) Unsubscribe(namespace string) {
	p.events.off(namespace)
}

// Subscribers returns the number of registered event handlers.
func (p *Player) Subscribers() int {
	return p.events.count()
}

func (p *Player) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
