package roster

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var ErrNotArray = errors.New("roster payload is not a JSON array")
var ErrMissingClassification = errors.New("entry has no iemClassification")

// ParseError reports a roster payload that could not be turned into entries.
type ParseError struct {
	Index int // -1 when the payload as a whole is malformed
	Err   error
}

func (e *ParseError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("parse roster: %v", e.Err)
	}
	return fmt.Sprintf("parse roster entry %d: %v", e.Index, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

type wireEntry struct {
	Name           string  `json:"name"`
	Photo          string  `json:"photo"`
	Classification *string `json:"iemClassification"`
}

// Decode reads the roster endpoint body. Unknown fields are ignored; every
// entry must carry a string classification since ordering depends on it.
func Decode(r io.Reader) ([]Entry, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Index: -1, Err: err}
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &ParseError{Index: -1, Err: ErrNotArray}
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, &ParseError{Index: -1, Err: err}
	}

	entries := make([]Entry, 0, len(raw))
	for i, item := range raw {
		var w wireEntry
		if err := json.Unmarshal(item, &w); err != nil {
			return nil, &ParseError{Index: i, Err: err}
		}
		if w.Classification == nil {
			return nil, &ParseError{Index: i, Err: ErrMissingClassification}
		}
		entries = append(entries, Entry{
			Name:           w.Name,
			Photo:          w.Photo,
			Classification: *w.Classification,
		})
	}
	return entries, nil
}
