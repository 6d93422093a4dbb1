package statusline

import (
	"math"
	"strconv"
	"strings"
	"time"
)

func renderModel(doc *document, _ style) (segment, bool) {
	name, ok := doc.stringAt("model.display_name")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return nil, false
	}
	return segment{plainPiece(name)}, true
}

// contextTokens is input plus output tokens. Either counter alone is enough.
func contextTokens(doc *document) (float64, bool) {
	input, okInput := doc.numberAt("context_window.total_input_tokens")
	output, okOutput := doc.numberAt("context_window.total_output_tokens")
	return input + output, okInput || okOutput
}

func renderTokenCounts(doc *document, _ style) (segment, bool) {
	used, ok := contextTokens(doc)
	if !ok {
		return nil, false
	}
	label := groupThousands(wholeCount(used))
	if size, ok := doc.numberAt("context_window.context_window_size"); ok && size > 0 {
		label += "/" + groupThousands(wholeCount(size))
	}
	return segment{plainPiece(label + " tokens")}, true
}

// usedPercent prefers the reported percentage and falls back to tokens over window size
func usedPercent(doc *document) (float64, bool) {
	if pct, ok := doc.numberAt("context_window.used_percentage"); ok {
		return pct, true
	}
	used, ok := contextTokens(doc)
	size, okSize := doc.numberAt("context_window.context_window_size")
	if !ok || !okSize || size <= 0 {
		return 0, false
	}
	return used * 100 / size, true
}

func renderUsedPct(doc *document, st style) (segment, bool) {
	pct, ok := usedPercent(doc)
	if !ok {
		return nil, false
	}
	seg := segment{metricPiece(formatPercent(pct), classify(pct, st)), plainPiece(" used")}
	if used, ok := contextTokens(doc); ok {
		seg = append(seg, plainPiece(" ("+strconv.FormatInt(wholeCount(used), 10)+")"))
	}
	return seg, true
}

// renderRemainingPct shows headroom, colored by how much has been consumed
func renderRemainingPct(doc *document, st style) (segment, bool) {
	pct, ok := doc.numberAt("context_window.remaining_percentage")
	if !ok {
		return nil, false
	}
	seg := segment{metricPiece(formatPercent(pct), classify(100-pct, st)), plainPiece(" left")}
	used, okUsed := contextTokens(doc)
	size, okSize := doc.numberAt("context_window.context_window_size")
	if okUsed && okSize && size > 0 {
		seg = append(seg, plainPiece(" ("+strconv.FormatInt(wholeCount(size-used), 10)+")"))
	}
	return seg, true
}

func renderLinesChanged(doc *document, _ style) (segment, bool) {
	added, okAdded := doc.numberAt("cost.total_lines_added")
	removed, okRemoved := doc.numberAt("cost.total_lines_removed")
	if !okAdded && !okRemoved {
		return nil, false
	}
	diff := "+" + strconv.FormatInt(wholeCount(added), 10) + "/-" + strconv.FormatInt(wholeCount(removed), 10)
	return segment{plainPiece(diff)}, true
}

func renderContextBar(doc *document, st style) (segment, bool) {
	pct, ok := usedPercent(doc)
	if !ok {
		return nil, false
	}
	return segment{metricPiece(drawBar(pct)+" "+formatPercent(pct), classify(pct, st))}, true
}

var rateWindows = []struct {
	label string
	path  string
}{
	{label: "5h", path: "rate_limits.five_hour"},
	{label: "7d", path: "rate_limits.seven_day"},
}

func renderRateLimitBars(doc *document, st style) (segment, bool) {
	var seg segment
	for _, w := range rateWindows {
		pct, ok := doc.numberAt(w.path + ".used_percentage")
		if !ok {
			continue
		}
		if len(seg) > 0 {
			seg = append(seg, plainPiece(" "))
		}
		seg = append(seg,
			plainPiece(w.label+" "),
			metricPiece(drawBar(pct)+" "+formatPercent(pct), classify(pct, st)),
		)
	}
	return seg, len(seg) > 0
}

func renderResetTimes(doc *document, st style) (segment, bool) {
	now := st.clock()
	var parts []string
	for _, w := range rateWindows {
		at, ok := resetInstant(doc, w.path+".resets_at")
		if !ok {
			continue
		}
		parts = append(parts, w.label+" resets "+formatCountdown(at.Sub(now)))
	}
	if len(parts) == 0 {
		return nil, false
	}
	return segment{plainPiece(strings.Join(parts, " "))}, true
}

// maxResetSeconds is the last second of year 9999
const maxResetSeconds = 253402300799

// resetInstant accepts unix seconds, unix milliseconds or an RFC 3339 timestamp
func resetInstant(doc *document, path string) (time.Time, bool) {
	if secs, ok := doc.numberAt(path); ok {
		if secs > 1e12 {
			secs /= 1000
		}
		if math.Abs(secs) > maxResetSeconds {
			return time.Time{}, false
		}
		sec, frac := math.Modf(secs)
		return time.Unix(int64(sec), int64(frac*1e9)), true
	}
	stamp, ok := doc.stringAt(path)
	if !ok {
		return time.Time{}, false
	}
	at, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		return time.Time{}, false
	}
	return at, true
}
