package player

import (
	"sync"

	"track-selector/internal/trackselect"
)

type subscription struct {
	namespace string
	handler   func()
}

// emitter dispatches engine events to handlers grouped by namespace.
// Handlers run synchronously on the emitting goroutine, without the lock held,
// so they may call back into the player.
type emitter struct {
	mu   sync.RWMutex
	subs map[trackselect.Event][]subscription
}

func newEmitter() *emitter {
	return &emitter{subs: make(map[trackselect.Event][]subscription)}
}

func (e *emitter) on(event trackselect.Event, namespace string, handler func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subs[event] = append(e.subs[event], subscription{namespace: namespace, handler: handler})
}

// off removes every handler registered under namespace, for all events.
func (e *emitter) off(namespace string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for event, lst := range e.subs {
		out := lst[:0]
		for _, s := range lst {
			if s.namespace != namespace {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			delete(e.subs, event)
		} else {
			e.subs[event] = out
		}
	}
}

func (e *emitter) emit(event trackselect.Event) {
	e.mu.RLock()
	subs := append([]subscription(nil), e.subs[event]...)
	e.mu.RUnlock()
	for _, s := range subs {
		s.handler()
	}
}

// count returns the number of handlers currently registered.
func (e *emitter) count() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	n := 0
	for _, lst := range e.subs {
		n += len(lst)
	}
	return n
}
