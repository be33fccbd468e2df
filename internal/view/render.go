package view

import (
	"embed"
	"html/template"
	"io"

	"github.com/DoyleJ11/iem-roster/internal/roster"
)

type Mode string

const (
	ModeLoading Mode = "loading"
	ModeError   Mode = "error"
	ModeGrid    Mode = "grid"
)

type Tile struct {
	Name           string
	Photo          string
	Classification string
}

// Page is the render tree for one state. Rows is empty unless Mode is grid.
type Page struct {
	Mode    Mode
	Message string
	Rows    [][]Tile
}

func Render(s State) Page {
	if s.Loading {
		return Page{Mode: ModeLoading, Message: "Loading..."}
	}
	if s.Err != "" {
		return Page{Mode: ModeError, Message: "Error: " + s.Err}
	}

	row1, row2 := roster.Split(s.Roster)
	return Page{
		Mode: ModeGrid,
		Rows: [][]Tile{tiles(row1), tiles(row2)},
	}
}

func tiles(entries []roster.Entry) []Tile {
	out := make([]Tile, 0, len(entries))
	for _, e := range entries {
		out = append(out, Tile{Name: e.Name, Photo: e.Photo, Classification: e.Classification})
	}
	return out
}

//go:embed templates/*.html
var templateFS embed.FS

type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	t, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: t}, nil
}

// Board writes only the board fragment; the terminal script swaps it in.
func (r *Renderer) Board(w io.Writer, p Page) error {
	return r.tmpl.ExecuteTemplate(w, "board", p)
}

// Document writes a complete page for a stage with the current board inline.
func (r *Renderer) Document(w io.Writer, p Page, stage string) error {
	return r.tmpl.ExecuteTemplate(w, "document", struct {
		Stage string
		Page  Page
	}{Stage: stage, Page: p})
}
