package display

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

const DefaultHideDelay = time.Second

type FullscreenController interface {
	IsFullscreen() bool
	RequestFullscreen() error
	ExitFullscreen() error
}

type CursorVisibility interface {
	ShowCursor()
	HideCursor()
}

// Timer is the part of *time.Timer the cursor hider needs.
type Timer interface {
	Stop() bool
}

type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// FullscreenToggle flips fullscreen on f/F. Host errors are logged and
// otherwise ignored.
func FullscreenToggle(fs FullscreenController, log *zap.Logger) Listener {
	if log == nil {
		log = zap.NewNop()
	}
	return func(ev Event) {
		if ev.Key != "f" && ev.Key != "F" {
			return
		}

		var err error
		if !fs.IsFullscreen() {
			err = fs.RequestFullscreen()
		} else {
			err = fs.ExitFullscreen()
		}
		if err != nil {
			log.Warn("fullscreen toggle failed", zap.Error(err))
		}
	}
}

// CursorHider hides the cursor after Delay without activity.
type CursorHider struct {
	cursor    CursorVisibility
	delay     time.Duration
	afterFunc AfterFunc

	mu      sync.Mutex
	timer   Timer
	gen     int
	stopped bool
}

func NewCursorHider(cursor CursorVisibility, delay time.Duration, af AfterFunc) *CursorHider {
	if delay <= 0 {
		delay = DefaultHideDelay
	}
	if af == nil {
		af = realAfterFunc
	}
	return &CursorHider{cursor: cursor, delay: delay, afterFunc: af}
}

// Activity shows the cursor and restarts the hide countdown.
func (c *CursorHider) Activity() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}

	c.cursor.ShowCursor()
	if c.timer != nil {
		c.timer.Stop()
	}

	c.gen++
	gen := c.gen
	c.timer = c.afterFunc(c.delay, func() { c.fire(gen) })
}

func (c *CursorHider) fire(gen int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// a timer that lost the race with Stop or a newer Activity is stale
	if c.stopped || gen != c.gen {
		return
	}
	c.timer = nil
	c.cursor.HideCursor()
}

// Stop cancels a pending hide and ignores later activity.
func (c *CursorHider) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

type SessionOptions struct {
	HideDelay time.Duration
	AfterFunc AfterFunc
	Logger    *zap.Logger
}

// Session wires the two screen affordances to a Target.
type Session struct {
	fs     FullscreenController
	cursor CursorVisibility
	opts   SessionOptions
}

func NewSession(fs FullscreenController, cursor CursorVisibility, opts SessionOptions) *Session {
	return &Session{fs: fs, cursor: cursor, opts: opts}
}

// Attach registers the fullscreen key and the activity listeners, starts the
// hide countdown, and returns the function that undoes all of it.
func (s *Session) Attach(t *Target) (detach func()) {
	hider := NewCursorHider(s.cursor, s.opts.HideDelay, s.opts.AfterFunc)
	activity := func(Event) { hider.Activity() }

	offs := []func(){
		t.On(KeyDown, FullscreenToggle(s.fs, s.opts.Logger)),
		t.On(MouseMove, activity),
		t.On(MouseDown, activity),
		t.On(KeyDown, activity),
	}

	hider.Activity()

	var once sync.Once
	return func() {
		once.Do(func() {
			for _, off := range offs {
				off()
			}
			hider.Stop()
		})
	}
}
