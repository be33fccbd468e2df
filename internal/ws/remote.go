package ws

import (
	"context"
	"sync/atomic"

	"github.com/DoyleJ11/iem-roster/pkg/types"
)

// outbound queues control messages for the connection's writer.
type outbound struct {
	ctx context.Context
	ch  chan types.ServerMessage
}

func (o outbound) send(m types.ServerMessage) bool {
	select {
	case o.ch <- m:
		return true
	case <-o.ctx.Done():
		return false
	}
}

// remoteFullscreen drives the browser's Fullscreen API. The browser reports
// its state with every keydown and on fullscreenchange.
type remoteFullscreen struct {
	out outbound
	on  atomic.Bool
}

func (f *remoteFullscreen) setState(on bool) { f.on.Store(on) }

func (f *remoteFullscreen) IsFullscreen() bool { return f.on.Load() }

func (f *remoteFullscreen) RequestFullscreen() error {
	if !f.out.send(types.ServerMessage{Type: types.MsgFullscreen, Action: types.FullscreenEnter}) {
		return f.out.ctx.Err()
	}
	return nil
}

func (f *remoteFullscreen) ExitFullscreen() error {
	if !f.out.send(types.ServerMessage{Type: types.MsgFullscreen, Action: types.FullscreenExit}) {
		return f.out.ctx.Err()
	}
	return nil
}

// remoteCursor toggles the hide-cursor marker on the browser page. Only
// changes go over the wire; mousemove would otherwise flood the socket.
type remoteCursor struct {
	out  outbound
	last atomic.Int32 // cursorUnknown, cursorShown or cursorHidden
}

const (
	cursorUnknown int32 = iota
	cursorShown
	cursorHidden
)

func (c *remoteCursor) ShowCursor() { c.set(cursorShown) }
func (c *remoteCursor) HideCursor() { c.set(cursorHidden) }

func (c *remoteCursor) set(state int32) {
	if c.last.Swap(state) == state {
		return
	}
	hidden := state == cursorHidden
	c.out.send(types.ServerMessage{Type: types.MsgCursor, Hidden: &hidden})
}
