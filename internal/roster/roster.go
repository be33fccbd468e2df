package roster

import (
	"slices"
	"strings"
)

// Entry is one performer tile. Classification is displayed verbatim and
// matched case-insensitively.
type Entry struct {
	Name           string `json:"name"`
	Photo          string `json:"photo"`
	Classification string `json:"iemClassification"`
}

// PriorityTable is the fixed display order of known IEM channels.
var PriorityTable = []string{
	"vox 1", "keys", "eg2", "ag", "vox 5",
	"vox 6", "vox 7", "vox 8", "bass", "drums", "strings",
}

// Priority returns the table index of a classification label.
func Priority(label string) (int, bool) {
	i := slices.Index(PriorityTable, strings.ToLower(label))
	return i, i != -1
}

// Compare orders known classifications by table index ahead of unknown ones.
// Two unknown entries compare equal so a stable sort keeps their input order.
func Compare(a, b Entry) int {
	ia, okA := Priority(a.Classification)
	ib, okB := Priority(b.Classification)

	switch {
	case okA && okB:
		return ia - ib
	case okA:
		return -1
	case okB:
		return 1
	default:
		return 0
	}
}

// Sort returns a new slice in display order. The input is not modified.
func Sort(entries []Entry) []Entry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, Compare)
	return out
}

// Split cuts the roster into two rows, the first holding ceil(n/2) entries.
func Split(entries []Entry) (row1, row2 []Entry) {
	mid := (len(entries) + 1) / 2
	return entries[:mid], entries[mid:]
}
