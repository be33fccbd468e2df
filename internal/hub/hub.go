package hub

import (
	"context"
	"slices"

	"github.com/DoyleJ11/iem-roster/internal/board"
)

type HubMsg interface{ isHubMsg() }

// EnsureBoard returns the stage's board, creating it on first use.
type EnsureBoard struct {
	Stage   string
	Options board.Options // only used if creation happens
	Reply   chan *board.Board
}

type GetBoard struct {
	Stage string
	Reply chan *board.Board
}

type ListStages struct {
	Reply chan []string
}

type RemoveBoard struct {
	Stage string
}

type ShutdownHub struct {
	Done chan struct{} // optional, closed once every board has been told to stop
}

func (EnsureBoard) isHubMsg() {}
func (GetBoard) isHubMsg()    {}
func (ListStages) isHubMsg()  {}
func (RemoveBoard) isHubMsg() {}
func (ShutdownHub) isHubMsg() {}

// Hub is the registry of stage boards.
type Hub struct {
	inbox  chan HubMsg
	boards map[string]*board.Board
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(parent context.Context) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		boards: make(map[string]*board.Board),
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case EnsureBoard:
				if b := h.boards[msg.Stage]; b != nil {
					msg.Reply <- b
					break
				}
				b := board.NewBoard(h.ctx, msg.Stage, msg.Options)
				h.boards[msg.Stage] = b
				msg.Reply <- b

			case GetBoard:
				msg.Reply <- h.boards[msg.Stage] // May be nil

			case ListStages:
				stages := make([]string, 0, len(h.boards))
				for code := range h.boards {
					stages = append(stages, code)
				}
				slices.Sort(stages)
				msg.Reply <- stages

			case RemoveBoard:
				if b := h.boards[msg.Stage]; b != nil {
					stopBoard(b)
				}
				delete(h.boards, msg.Stage)

			case ShutdownHub:
				for _, b := range h.boards {
					stopBoard(b)
				}
				clear(h.boards)
				if msg.Done != nil {
					close(msg.Done)
				}
				h.cancel()
				return
			}
		}
	}
}

func stopBoard(b *board.Board) {
	select {
	case b.Inbox() <- board.Shutdown{}:
	case <-b.Done():
	}
}

// Board looks a stage up, returning nil when it is unknown or the hub stopped.
func (h *Hub) Board(stage string) *board.Board {
	reply := make(chan *board.Board, 1)
	select {
	case h.inbox <- GetBoard{Stage: stage, Reply: reply}:
	case <-h.ctx.Done():
		return nil
	}
	select {
	case b := <-reply:
		return b
	case <-h.ctx.Done():
		return nil
	}
}

// Stages lists the registered stage codes in sorted order.
func (h *Hub) Stages() []string {
	reply := make(chan []string, 1)
	select {
	case h.inbox <- ListStages{Reply: reply}:
	case <-h.ctx.Done():
		return nil
	}
	select {
	case s := <-reply:
		return s
	case <-h.ctx.Done():
		return nil
	}
}

// Shutdown stops every board and the hub itself, waiting for the hand-off.
func (h *Hub) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	select {
	case h.inbox <- ShutdownHub{Done: done}:
	case <-h.ctx.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-h.ctx.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
