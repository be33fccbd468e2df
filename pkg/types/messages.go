package types

// Client -> Server
// keydown:          key: string, fullscreen: boolean (document state at keypress)
// mousemove:        {}
// mousedown:        {}
// fullscreenchange: fullscreen: boolean
// fullscreenerror:  error: string

// Server -> Client
// Render:     version: number, html: string (board fragment)
// Fullscreen: action: "enter" | "exit"
// Cursor:     hidden: boolean
// Error:      error: string

const (
	MsgKeyDown          = "keydown"
	MsgMouseMove        = "mousemove"
	MsgMouseDown        = "mousedown"
	MsgFullscreenChange = "fullscreenchange"
	MsgFullscreenError  = "fullscreenerror"

	MsgRender     = "Render"
	MsgFullscreen = "Fullscreen"
	MsgCursor     = "Cursor"
	MsgError      = "Error"

	FullscreenEnter = "enter"
	FullscreenExit  = "exit"
)

type ClientMessage struct {
	Type       string `json:"type"`
	Key        string `json:"key,omitempty"`
	Fullscreen *bool  `json:"fullscreen,omitempty"`
	Error      string `json:"error,omitempty"`
}

type ServerMessage struct {
	Type    string `json:"type"`
	Version int    `json:"version,omitempty"`
	HTML    string `json:"html,omitempty"`
	Action  string `json:"action,omitempty"`
	Hidden  *bool  `json:"hidden,omitempty"`
	Error   string `json:"error,omitempty"`
}
