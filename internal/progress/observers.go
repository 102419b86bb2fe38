package progress

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"
)

// Observer is notified after a mutation was applied and persisted. It gets
// no payload and is expected to pull totals or state from the engine.
type Observer func()

type observerEntry struct {
	id       uint64
	observer Observer
	// cleared on unsubscribe, so a pass already in progress skips it
	active atomic.Bool
}

// observerRegistry keeps observers in registration order.
type observerRegistry struct {
	mutex   sync.Mutex
	nextID  uint64
	entries []*observerEntry
}

func (r *observerRegistry) add(observer Observer) func() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.nextID++
	id := r.nextID
	entry := &observerEntry{id: id, observer: observer}
	entry.active.Store(true)
	r.entries = append(r.entries, entry)

	var once sync.Once
	return func() {
		once.Do(func() {
			r.remove(id)
		})
	}
}

func (r *observerRegistry) remove(id uint64) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i, entry := range r.entries {
		if entry.id == id {
			entry.active.Store(false)
			r.entries = append(r.entries[:i:i], r.entries[i+1:]...)
			return
		}
	}
}

func (r *observerRegistry) len() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.entries)
}

func (r *observerRegistry) snapshot() []*observerEntry {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	entries := make([]*observerEntry, len(r.entries))
	copy(entries, r.entries)
	return entries
}

// notify calls every observer, in order. A panicking observer does not
// stop the others; all panics are returned combined. Observers removed
// during the pass are not called anymore.
func (r *observerRegistry) notify() (failed int, err error) {
	for _, entry := range r.snapshot() {
		if !entry.active.Load() {
			continue
		}
		if callErr := callObserver(entry); callErr != nil {
			failed++
			err = multierr.Append(err, callErr)
		}
	}
	return failed, err
}

func callObserver(entry *observerEntry) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("observer %d panicked: %v", entry.id, r)
		}
	}()
	entry.observer()
	return nil
}
