// Package catalog enumerates the fields a status line can show.
package catalog

import "sort"

// ID identifies a field in configs and on the command line
type ID string

const (
	Model         ID = "model"
	TokenCounts   ID = "tokenCounts"
	UsedPct       ID = "usedPct"
	RemainingPct  ID = "remainingPct"
	LinesChanged  ID = "linesChanged"
	ContextBar    ID = "contextBar"
	RateLimitBars ID = "rateLimitBars"
	ResetTimes    ID = "resetTimes"
)

// Line is the row a field occupies in the multi-line layout
type Line int

const (
	// LineSummary holds the model, token and percentage fields
	LineSummary Line = 1
	// LineBars holds the bar and rate-limit fields
	LineBars Line = 2
)

// Field describes one selectable field
type Field struct {
	ID          ID
	Label       string
	Renderer    string // renderer function spliced into generated programs
	Line        Line
	RateLimited bool // only offered when OAuth usage data is available
	Default     bool
}

// fields is in catalog order, which is also render order
var fields = []Field{
	{ID: Model, Label: "Model name", Renderer: "renderModel", Line: LineSummary, Default: true},
	{ID: TokenCounts, Label: "Token counts (used / total)", Renderer: "renderTokenCounts", Line: LineSummary, Default: true},
	{ID: UsedPct, Label: "Used % with raw token count", Renderer: "renderUsedPct", Line: LineSummary, Default: true},
	{ID: RemainingPct, Label: "Remaining % with raw token count", Renderer: "renderRemainingPct", Line: LineSummary, Default: true},
	{ID: LinesChanged, Label: "Lines changed (+added / -removed)", Renderer: "renderLinesChanged", Line: LineSummary},
	{ID: ContextBar, Label: "Context window progress bar", Renderer: "renderContextBar", Line: LineBars, Default: true},
	{ID: RateLimitBars, Label: "5-hour & weekly rate limit bars", Renderer: "renderRateLimitBars", Line: LineBars, RateLimited: true},
	{ID: ResetTimes, Label: "Rate limit reset times", Renderer: "renderResetTimes", Line: LineBars, RateLimited: true},
}

var byID = func() map[ID]int {
	m := make(map[ID]int, len(fields))
	for i, f := range fields {
		m[f.ID] = i
	}
	return m
}()

// All returns every field in catalog order
func All() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// Lookup returns the field for id
func Lookup(id ID) (Field, bool) {
	i, ok := byID[id]
	if !ok {
		return Field{}, false
	}
	return fields[i], true
}

// Has returns true if id names a known field
func Has(id ID) bool {
	_, ok := byID[id]
	return ok
}

// Available returns the fields that can be offered, hiding rate-limit
// fields when no usage credentials are present
func Available(rateLimits bool) []Field {
	var out []Field
	for _, f := range fields {
		if f.RateLimited && !rateLimits {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Defaults returns the fields selected when nothing was chosen yet
func Defaults() []ID {
	var ids []ID
	for _, f := range fields {
		if f.Default {
			ids = append(ids, f.ID)
		}
	}
	return ids
}

// Order drops duplicates and unknown IDs and sorts the rest into catalog order
func Order(ids []ID) []ID {
	seen := make(map[ID]bool, len(ids))
	var out []ID
	for _, id := range ids {
		if !Has(id) || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		return byID[out[i]] < byID[out[j]]
	})
	return out
}

// IDs returns the identifiers of fs
func IDs(fs []Field) []ID {
	ids := make([]ID, len(fs))
	for i, f := range fs {
		ids[i] = f.ID
	}
	return ids
}
