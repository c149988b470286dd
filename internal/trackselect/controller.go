package trackselect

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"track-selector/internal/platform/logger"
	"track-selector/internal/platform/metrics"
)

// Switcher is the part of the engine the controller drives.
type Switcher interface {
	SwitchVideo(ctx context.Context, value TrackValue) error
}

// Controller owns the selection state of one control: the option list and
// the index of the active option. The index only moves after the engine
// confirms a switch.
type Controller struct {
	engine  Switcher
	log     *slog.Logger
	metrics *metrics.Metrics

	// switching admits one Select at a time so the index always follows the
	// switch the engine applied last.
	switching chan struct{}

	mu    sync.Mutex
	state SelectionState
	// gen increments on every SetOptions so a switch that completes against
	// a replaced list is matched by value instead of by index.
	gen       uint64
	watchers  map[int]chan SelectionState
	nextWatch int
}

// NewController returns a Controller that switches tracks through engine.
// Logger and Metrics may be nil.
func NewController(engine Switcher, log *slog.Logger, m *metrics.Metrics) *Controller {
	if log == nil {
		log = logger.Discard()
	}
	return &Controller{
		engine:    engine,
		log:       log,
		metrics:   m,
		switching: make(chan struct{}, 1),
		watchers:  make(map[int]chan SelectionState),
	}
}

// State returns a copy of the current selection state.
func (c *Controller) State() SelectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// SetOptions replaces the option list wholesale. The current index becomes
// initialIndex when it is valid for options, 0 otherwise.
func (c *Controller) SetOptions(options []TrackOption, initialIndex int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Options = append([]TrackOption(nil), options...)
	if initialIndex < 0 || initialIndex >= len(options) {
		initialIndex = 0
	}
	c.state.CurrentIndex = initialIndex
	c.gen++
	c.notifyLocked()
}

// Select asks the engine to switch to the option at index. Selecting the
// current index is a no-op. The current index is updated only once the engine
// reports success; a rejected switch leaves it untouched and returns an error
// wrapping ErrSwitchFailed. An out-of-range index returns ErrInvalidIndex
// without contacting the engine.
//
// Concurrent calls are serialized. If the option list was replaced while the
// switch was in flight, the index moves to the option carrying the switched
// value, when the new list has one.
func (c *Controller) Select(ctx context.Context, index int) error {
	select {
	case c.switching <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-c.switching }()

	c.mu.Lock()
	if index == c.state.CurrentIndex {
		c.mu.Unlock()
		return nil
	}
	if index < 0 || index >= len(c.state.Options) {
		n := len(c.state.Options)
		c.mu.Unlock()
		return fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidIndex, index, n)
	}
	value := c.state.Options[index].Value
	gen := c.gen
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.IncSwitches()
	}
	if err := c.engine.SwitchVideo(ctx, value); err != nil {
		if c.metrics != nil {
			c.metrics.IncSwitchFailures()
		}
		c.log.Warn("track switch rejected",
			slog.Int("index", index),
			slog.String("value", value.String()),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %s: %w", ErrSwitchFailed, value, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		index = c.indexOfLocked(value)
		if index < 0 {
			c.log.Debug("switched track not in replaced option list",
				slog.String("value", value.String()))
			return nil
		}
	}
	if index != c.state.CurrentIndex {
		c.state.CurrentIndex = index
		c.notifyLocked()
	}
	c.log.Info("track switched",
		slog.Int("index", index),
		slog.String("value", value.String()))
	return nil
}

// Watch returns a channel that receives the selection state after every
// change, starting with the current state. Slow readers only see the latest
// state. The returned func stops the watch and closes the channel.
func (c *Controller) Watch() (<-chan SelectionState, func()) {
	ch := make(chan SelectionState, 1)

	c.mu.Lock()
	id := c.nextWatch
	c.nextWatch++
	c.watchers[id] = ch
	ch <- c.snapshotLocked()
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.watchers, id)
			c.mu.Unlock()
			close(ch)
		})
	}
}

// notifyLocked pushes the current state to every watcher, replacing any
// state the watcher has not read yet. Caller must hold c.mu.
func (c *Controller) notifyLocked() {
	if len(c.watchers) == 0 {
		return
	}
	st := c.snapshotLocked()
	for _, ch := range c.watchers {
		select {
		case <-ch:
		default:
		}
		ch <- st
	}
}

// indexOfLocked returns the position of the option carrying value, or -1.
// Caller must hold c.mu.
func (c *Controller) indexOfLocked(value TrackValue) int {
	for i, o := range c.state.Options {
		if o.Value == value {
			return i
		}
	}
	return -1
}

// snapshotLocked copies the state. Caller must hold c.mu.
func (c *Controller) snapshotLocked() SelectionState {
	return SelectionState{
		Options:      append([]TrackOption(nil), c.state.Options...),
		CurrentIndex: c.state.CurrentIndex,
	}
}
