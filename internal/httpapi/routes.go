package httpapi

import (
	"context"
	"embed"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/DoyleJ11/iem-roster/internal/hub"
	"github.com/DoyleJ11/iem-roster/internal/pollog"
	"github.com/DoyleJ11/iem-roster/internal/view"
	"github.com/DoyleJ11/iem-roster/internal/ws"
)

//go:embed static
var staticFS embed.FS

// PollHistory is the read side of the poll log. Nil disables the endpoint.
type PollHistory interface {
	Recent(ctx context.Context, stage string, limit int) ([]pollog.Record, error)
}

type Deps struct {
	Hub          *hub.Hub
	Renderer     *view.Renderer
	Polls        PollHistory
	PollLimit    int
	DefaultStage string
	HideDelay    time.Duration
	Logger       *zap.Logger
}

func SetupRoutes(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err) // embedded at build time
	}

	// Display routes
	r.Get("/", RedirectDefault(d.DefaultStage))
	r.Get("/stages/{stage}", StagePage(d))
	r.Get("/stages/{stage}/board", StageBoard(d))
	r.Get("/ws", ws.Handler(d.Hub, d.Renderer, ws.Options{
		DefaultStage: d.DefaultStage,
		HideDelay:    d.HideDelay,
		Logger:       d.Logger,
	}))
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	// JSON routes
	r.Get("/api/stages", ListStages(d))
	r.Get("/api/stages/{stage}/roster", StageRoster(d))
	r.Get("/api/stages/{stage}/polls", StagePolls(d))

	r.Get("/healthz", Healthz)
	return r
}
