package trackselect

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"track-selector/internal/platform/logger"
	"track-selector/internal/platform/metrics"

	"github.com/google/uuid"
)

// namespacePrefix scopes every engine subscription made by this package.
const namespacePrefix = "trackselect."

// Options configures a Binding. The zero value is usable.
type Options struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics

	// RefreshTimeout bounds each event-triggered refresh. Zero means no limit
	// beyond the binding's own lifetime.
	RefreshTimeout time.Duration
}

// Binding keeps a Controller's option list in sync with an engine. It is
// created by Attach and must be released with Detach.
type Binding struct {
	engine    Engine
	ctrl      *Controller
	namespace string
	log       *slog.Logger
	metrics   *metrics.Metrics
	timeout   time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu sync.Mutex
	// gen identifies the latest refresh; only its result may be applied.
	gen      uint64
	detached bool

	detachOnce sync.Once
}

// NewNamespace returns a subscription namespace unique across every control
// bound to any engine in the process.
func NewNamespace() string {
	return namespacePrefix + uuid.NewString()
}

// Attach subscribes ctrl to engine's "loaded" and "stream_update" events.
// Each event recomputes the option list from scratch. If the engine has
// already loaded its content, Attach refreshes immediately; when that
// refresh fails the subscriptions are removed and the error is returned.
//
// Callers should defer Detach on the returned Binding.
func Attach(ctx context.Context, engine Engine, ctrl *Controller, opts Options) (_ *Binding, err error) {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	ns := NewNamespace()
	bctx, cancel := context.WithCancel(ctx)
	b := &Binding{
		engine:    engine,
		ctrl:      ctrl,
		namespace: ns,
		log:       log.With(slog.String("namespace", ns)),
		metrics:   opts.Metrics,
		timeout:   opts.RefreshTimeout,
		ctx:       bctx,
		cancel:    cancel,
	}

	engine.Subscribe(EventLoaded, ns, b.onEvent)
	engine.Subscribe(EventStreamUpdate, ns, b.onEvent)
	if b.metrics != nil {
		b.metrics.AddBindings(1)
	}
	defer func() {
		if err != nil {
			b.Detach()
		}
	}()

	if engine.Status() >= StatusLoaded {
		if err = b.Refresh(bctx); err != nil {
			return nil, err
		}
	}
	b.log.Debug("control attached")
	return b, nil
}

// Namespace returns the namespace the binding subscribed under.
func (b *Binding) Namespace() string {
	return b.namespace
}

// Refresh re-reads the catalog and replaces the controller's options. If a
// newer refresh starts before this one completes, this result is dropped.
// On a failed fetch the option list keeps its previous value and the error,
// wrapping ErrFetchFailed, is returned. A fetch interrupted by Detach returns
// ErrDetached.
func (b *Binding) Refresh(ctx context.Context) error {
	b.mu.Lock()
	if b.detached {
		b.mu.Unlock()
		return ErrDetached
	}
	b.gen++
	gen := b.gen
	b.mu.Unlock()

	snap, err := FetchCatalog(ctx, b.engine)
	if err != nil {
		// A fetch cut short by Detach is not a failure.
		if b.isDetached() {
			return ErrDetached
		}
		if b.metrics != nil {
			b.metrics.IncRefreshFailures()
		}
		return err
	}
	options, current := Build(snap)

	// Held across SetOptions so an older refresh can never land after a newer one.
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.detached || gen != b.gen {
		if b.metrics != nil {
			b.metrics.IncStaleRefreshes()
		}
		b.log.Debug("stale catalog refresh dropped",
			slog.Uint64("generation", gen),
			slog.Uint64("latest", b.gen))
		return nil
	}
	b.ctrl.SetOptions(options, current)
	if b.metrics != nil {
		b.metrics.ObserveRefresh(string(snap.Mode()), len(options))
	}
	b.log.Debug("catalog refreshed",
		slog.String("mode", string(snap.Mode())),
		slog.Uint64("generation", gen),
		slog.Int("options", len(options)),
		slog.Int("index", current))
	return nil
}

// Detach removes every engine subscription made by the binding and drops
// any refresh still in flight. It is safe to call more than once.
func (b *Binding) Detach() {
	b.detachOnce.Do(func() {
		b.engine.Unsubscribe(b.namespace)
		b.mu.Lock()
		b.detached = true
		b.mu.Unlock()
		b.cancel()
		if b.metrics != nil {
			b.metrics.AddBindings(-1)
		}
		b.log.Debug("control detached")
	})
}

func (b *Binding) isDetached() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.detached
}

func (b *Binding) onEvent() {
	ctx := b.ctx
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}
	if err := b.Refresh(ctx); err != nil && !errors.Is(err, ErrDetached) {
		b.log.Warn("catalog refresh failed", slog.String("error", err.Error()))
	}
}
