package types

import "time"

// RosterResponse is the JSON view of a stage board.
type RosterResponse struct {
	Stage   string       `json:"stage"`
	Version int          `json:"version"`
	Loading bool         `json:"loading"`
	Error   string       `json:"error,omitempty"`
	Rows    [][]TileJSON `json:"rows"`
}

type TileJSON struct {
	Name              string `json:"name"`
	Photo             string `json:"photo"`
	IEMClassification string `json:"iemClassification"`
}

type StagesResponse struct {
	Default string   `json:"default"`
	Stages  []string `json:"stages"`
}

type PollRecordJSON struct {
	StartedAt  time.Time `json:"startedAt"`
	DurationMS int64     `json:"durationMs"`
	OK         bool      `json:"ok"`
	Entries    int       `json:"entries"`
	Error      string    `json:"error,omitempty"`
}
