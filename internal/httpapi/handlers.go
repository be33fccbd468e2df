package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DoyleJ11/iem-roster/internal/board"
	"github.com/DoyleJ11/iem-roster/internal/view"
	"github.com/DoyleJ11/iem-roster/pkg/types"
)

func RedirectDefault(stage string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/stages/"+url.PathEscape(stage), http.StatusFound)
	}
}

// StagePage serves the full screen document with the current board inline.
func StagePage(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stage, v, ok := lookup(d, w, r)
		if !ok {
			return
		}
		var buf bytes.Buffer
		if err := d.Renderer.Document(&buf, view.Render(v.State), stage); err != nil {
			d.Logger.Error("render document", zap.String("stage", stage), zap.Error(err))
			http.Error(w, "failed to render", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(buf.Bytes())
	}
}

// StageBoard serves only the board fragment.
func StageBoard(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stage, v, ok := lookup(d, w, r)
		if !ok {
			return
		}
		var buf bytes.Buffer
		if err := d.Renderer.Board(&buf, view.Render(v.State)); err != nil {
			d.Logger.Error("render board", zap.String("stage", stage), zap.Error(err))
			http.Error(w, "failed to render", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("X-Roster-Version", strconv.Itoa(v.Version))
		_, _ = w.Write(buf.Bytes())
	}
}

func ListStages(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stages := d.Hub.Stages()
		if stages == nil {
			stages = []string{}
		}
		writeJSON(w, http.StatusOK, types.StagesResponse{Default: d.DefaultStage, Stages: stages})
	}
}

func StageRoster(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stage, v, ok := lookup(d, w, r)
		if !ok {
			return
		}

		res := types.RosterResponse{
			Stage:   stage,
			Version: v.Version,
			Loading: v.State.Loading,
			Error:   v.State.Err,
			Rows:    [][]types.TileJSON{},
		}
		// the JSON view carries the roster even while an error is shown
		if !v.State.Loading {
			page := view.Render(view.State{Roster: v.State.Roster})
			for _, row := range page.Rows {
				tiles := make([]types.TileJSON, 0, len(row))
				for _, t := range row {
					tiles = append(tiles, types.TileJSON{Name: t.Name, Photo: t.Photo, IEMClassification: t.Classification})
				}
				res.Rows = append(res.Rows, tiles)
			}
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func StagePolls(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Polls == nil {
			http.Error(w, "poll log disabled", http.StatusNotFound)
			return
		}
		stage := chi.URLParam(r, "stage")
		if d.Hub.Board(stage) == nil {
			http.Error(w, "stage not found", http.StatusNotFound)
			return
		}

		limit := d.PollLimit
		if s := r.URL.Query().Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 {
				http.Error(w, "bad limit", http.StatusBadRequest)
				return
			}
			limit = n
		}

		recs, err := d.Polls.Recent(r.Context(), stage, limit)
		if err != nil {
			d.Logger.Error("read poll log", zap.String("stage", stage), zap.Error(err))
			http.Error(w, "failed to read poll log", http.StatusInternalServerError)
			return
		}

		out := make([]types.PollRecordJSON, 0, len(recs))
		for _, rec := range recs {
			out = append(out, types.PollRecordJSON{
				StartedAt:  rec.StartedAt,
				DurationMS: rec.DurationMS,
				OK:         rec.OK,
				Entries:    rec.Entries,
				Error:      rec.Error,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func lookup(d Deps, w http.ResponseWriter, r *http.Request) (string, board.View, bool) {
	stage := chi.URLParam(r, "stage")
	b := d.Hub.Board(stage)
	if b == nil {
		http.Error(w, "stage not found", http.StatusNotFound)
		return "", board.View{}, false
	}
	v, ok := b.State()
	if !ok {
		http.Error(w, "stage closed", http.StatusServiceUnavailable)
		return "", board.View{}, false
	}
	return stage, v, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
