package sync

import (
	gosync "sync"

	"github.com/ghostcopy/ghostd/internal/domain/clip"
)

// ItemObserver is notified whenever the engine sends or applies an item.
// Observers must not block.
type ItemObserver func(item *clip.Item)

// observerRegistry supports multiple independent subscribers with
// individual unsubscribe handles, replacing any single-callback-slot
// composition.
type observerRegistry struct {
	mu   gosync.Mutex
	next int
	subs map[int]ItemObserver
}

func newObserverRegistry() *observerRegistry {
	return &observerRegistry{subs: make(map[int]ItemObserver)}
}

// subscribe registers fn and returns its unsubscribe handle.
func (r *observerRegistry) subscribe(fn ItemObserver) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.next
	r.next++
	r.subs[id] = fn

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.subs, id)
	}
}

// notify invokes every registered observer.
func (r *observerRegistry) notify(item *clip.Item) {
	r.mu.Lock()
	fns := make([]ItemObserver, 0, len(r.subs))
	for _, fn := range r.subs {
		fns = append(fns, fn)
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn(item)
	}
}

// clear drops all registrations. Called on engine shutdown.
func (r *observerRegistry) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = make(map[int]ItemObserver)
}
