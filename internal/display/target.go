// Package display holds the input-driven side effects of a roster screen:
// the fullscreen key and the cursor auto-hide timer. The host environment
// is reached only through FullscreenController and CursorVisibility.
package display

import "sync"

type EventKind string

const (
	KeyDown   EventKind = "keydown"
	MouseMove EventKind = "mousemove"
	MouseDown EventKind = "mousedown"
)

type Event struct {
	Kind EventKind
	Key  string
}

type Listener func(Event)

// Target is a listener registry for one screen. Events are delivered in
// registration order.
type Target struct {
	mu        sync.Mutex
	nextID    int
	listeners map[EventKind][]registration
}

type registration struct {
	id int
	fn Listener
}

func NewTarget() *Target {
	return &Target{listeners: make(map[EventKind][]registration)}
}

// On registers fn for kind and returns the function that removes it.
func (t *Target) On(kind EventKind, fn Listener) (off func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID++
	id := t.nextID
	t.listeners[kind] = append(t.listeners[kind], registration{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { t.remove(kind, id) })
	}
}

func (t *Target) remove(kind EventKind, id int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	regs := t.listeners[kind]
	for i, r := range regs {
		if r.id == id {
			t.listeners[kind] = append(regs[:i:i], regs[i+1:]...)
			break
		}
	}
	if len(t.listeners[kind]) == 0 {
		delete(t.listeners, kind)
	}
}

// Dispatch calls every listener registered for the event's kind.
func (t *Target) Dispatch(ev Event) {
	t.mu.Lock()
	regs := append([]registration(nil), t.listeners[ev.Kind]...)
	t.mu.Unlock()

	for _, r := range regs {
		r.fn(ev)
	}
}

// Len reports how many listeners are attached for kind.
func (t *Target) Len(kind EventKind) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.listeners[kind])
}
