package ws

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/iem-roster/internal/board"
	"github.com/DoyleJ11/iem-roster/internal/display"
	"github.com/DoyleJ11/iem-roster/internal/hub"
	"github.com/DoyleJ11/iem-roster/internal/view"
	"github.com/DoyleJ11/iem-roster/pkg/types"
)

type Options struct {
	DefaultStage string
	HideDelay    time.Duration
	Logger       *zap.Logger
}

// Handler turns a browser tab into a roster screen for one stage.
func Handler(h *hub.Hub, renderer *view.Renderer, opts Options) http.HandlerFunc {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(w http.ResponseWriter, r *http.Request) {
		stage := r.URL.Query().Get("stage")
		if stage == "" {
			stage = opts.DefaultStage
		}

		b := h.Board(stage)
		if b == nil {
			http.Error(w, "stage not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		clientID := uuid.NewString()
		log := log.With(zap.String("stage", stage), zap.String("client", clientID))

		out := make(chan board.Snapshot, 8)
		select {
		case b.Inbox() <- board.Join{ClientID: clientID, Outbox: out}:
		case <-b.Done():
			conn.Close(websocket.StatusGoingAway, "stage closed")
			return
		}
		defer func() {
			select {
			case b.Inbox() <- board.Leave{ClientID: clientID}:
			case <-b.Done():
			}
		}()

		connCtx, connCancel := context.WithCancel(r.Context())
		defer connCancel()

		control := outbound{ctx: connCtx, ch: make(chan types.ServerMessage, 16)}

		// Writer goroutine
		go func() {
			for {
				select {
				case <-connCtx.Done():
					return

				case snap, ok := <-out:
					if !ok {
						// board stopped or dropped us
						connCancel()
						conn.Close(websocket.StatusGoingAway, "stage closed")
						return
					}
					var buf bytes.Buffer
					if err := renderer.Board(&buf, view.Render(snap.State)); err != nil {
						log.Error("render board", zap.Error(err))
						continue
					}
					write(connCtx, conn, types.ServerMessage{Type: types.MsgRender, Version: snap.Version, HTML: buf.String()})

				case m := <-control.ch:
					write(connCtx, conn, m)
				}
			}
		}()

		fs := &remoteFullscreen{out: control}
		cursor := &remoteCursor{out: control}
		target := display.NewTarget()
		session := display.NewSession(fs, cursor, display.SessionOptions{
			HideDelay: opts.HideDelay,
			Logger:    log,
		})
		detach := session.Attach(target)
		defer detach()

		// Reader loop
		for {
			_, data, err := conn.Read(connCtx)
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					log.Debug("display connection ended", zap.Error(err))
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				control.send(types.ServerMessage{Type: types.MsgError, Error: "bad json"})
				continue
			}

			switch cm.Type {
			case types.MsgKeyDown:
				if cm.Fullscreen != nil {
					fs.setState(*cm.Fullscreen)
				}
				target.Dispatch(display.Event{Kind: display.KeyDown, Key: cm.Key})
			case types.MsgMouseMove:
				target.Dispatch(display.Event{Kind: display.MouseMove})
			case types.MsgMouseDown:
				target.Dispatch(display.Event{Kind: display.MouseDown})
			case types.MsgFullscreenChange:
				if cm.Fullscreen != nil {
					fs.setState(*cm.Fullscreen)
				}
			case types.MsgFullscreenError:
				log.Warn("browser rejected fullscreen", zap.String("error", cm.Error))
			default:
				control.send(types.ServerMessage{Type: types.MsgError, Error: "unknown type"})
			}
		}
	}
}

func write(ctx context.Context, conn *websocket.Conn, m types.ServerMessage) {
	payload, err := json.Marshal(m)
	if err != nil {
		return
	}
	wctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_ = conn.Write(wctx, websocket.MessageText, payload)
}
