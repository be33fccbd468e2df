package view

import (
	"github.com/DoyleJ11/iem-roster/internal/roster"
)

// State is what a display screen shows. Err holds a user-visible message.
type State struct {
	Roster  []roster.Entry
	Loading bool
	Err     string
}

// Result is the outcome of one poll cycle. Entries are already sorted.
type Result struct {
	Entries []roster.Entry
	Err     error
}

func NewState() State {
	return State{Loading: true}
}

// Apply folds a poll result into the state. A failure keeps the last good
// roster. A success leaves an earlier error in place unless clearErr is set.
func Apply(s State, r Result, clearErr bool) State {
	next := s
	next.Loading = false

	if r.Err != nil {
		next.Err = r.Err.Error()
		return next
	}

	next.Roster = r.Entries
	if next.Roster == nil {
		next.Roster = []roster.Entry{}
	}
	if clearErr {
		next.Err = ""
	}
	return next
}
