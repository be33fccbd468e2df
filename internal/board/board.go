package board

import (
	"context"

	"go.uber.org/zap"

	"github.com/DoyleJ11/iem-roster/internal/view"
)

type Msg interface{ isBoardMsg() }

type Join struct {
	ClientID string
	Outbox   chan Snapshot // where this display wants to receive snapshots
}

func (Join) isBoardMsg() {}

type Leave struct{ ClientID string }

func (Leave) isBoardMsg() {}

// Report carries one poll cycle result into the board.
type Report struct {
	Result view.Result
}

func (Report) isBoardMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isBoardMsg() {}

type Shutdown struct{}

func (Shutdown) isBoardMsg() {}

type Snapshot struct {
	Version int
	State   view.State
}

type View struct {
	Version    int
	NumClients int
	State      view.State
}

type Options struct {
	// ClearErrorOnSuccess drops a previous error when a later poll succeeds.
	ClearErrorOnSuccess bool
	Logger              *zap.Logger
}

// Board owns one stage's view state and fans snapshots out to displays.
type Board struct {
	stage   string
	inbox   chan Msg
	state   view.State
	version int
	clients map[string]chan Snapshot
	opts    Options
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewBoard(parent context.Context, stage string, opts Options) *Board {
	ctx, cancel := context.WithCancel(parent)

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	b := &Board{
		stage:   stage,
		inbox:   make(chan Msg, 64),
		state:   view.NewState(),
		clients: make(map[string]chan Snapshot),
		opts:    opts,
		log:     log.With(zap.String("stage", stage)),
		ctx:     ctx,
		cancel:  cancel,
	}

	go b.loop()
	return b
}

func (b *Board) loop() {
	for {
		select {
		case <-b.ctx.Done():
			b.shutdown()
			return

		case m := <-b.inbox:
			switch msg := m.(type) {
			case Join:
				b.clients[msg.ClientID] = msg.Outbox
				msg.Outbox <- Snapshot{Version: b.version, State: b.state}
				b.log.Debug("display joined", zap.String("client", msg.ClientID), zap.Int("clients", len(b.clients)))

			case Leave:
				delete(b.clients, msg.ClientID)

			case Report:
				b.state = view.Apply(b.state, msg.Result, b.opts.ClearErrorOnSuccess)
				b.version++
				b.broadcast(Snapshot{Version: b.version, State: b.state})

			case GetState:
				msg.Reply <- View{
					Version:    b.version,
					NumClients: len(b.clients),
					State:      b.state,
				}

			case Shutdown:
				b.shutdown()
				return
			}
		}
	}
}

func (b *Board) shutdown() {
	for id, ch := range b.clients {
		close(ch) // no more snapshots for this display
		delete(b.clients, id)
	}
	b.cancel()
}

func (b *Board) broadcast(snap Snapshot) {
	for id, ch := range b.clients {
		select {
		case ch <- snap:
		default:
			// display is slow/full - drop it
			b.log.Warn("dropping slow display", zap.String("client", id))
			close(ch)
			delete(b.clients, id)
		}
	}
}

func (b *Board) Stage() string { return b.stage }

// Inbox exposes the mailbox so the websocket layer and tests can talk to it.
func (b *Board) Inbox() chan<- Msg { return b.inbox }

// Done is closed once the board stops.
func (b *Board) Done() <-chan struct{} { return b.ctx.Done() }

// Report hands a poll result to the board. It gives up once the board has
// stopped, so late cycles never block.
func (b *Board) Report(r view.Result) {
	b.send(Report{Result: r})
}

// State returns the current view, or false if the board has stopped.
func (b *Board) State() (View, bool) {
	reply := make(chan View, 1)
	if !b.send(GetState{Reply: reply}) {
		return View{}, false
	}
	select {
	case v := <-reply:
		return v, true
	case <-b.ctx.Done():
		return View{}, false
	}
}

func (b *Board) send(m Msg) bool {
	select {
	case b.inbox <- m:
		return true
	case <-b.ctx.Done():
		return false
	}
}
