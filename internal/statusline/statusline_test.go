package statusline

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

var trafficLight = style{yellow: 50, red: 80}

func render(t *testing.T, raw string, st style, lines [][]fieldFunc, show func(segment) string) string {
	t.Helper()
	var out bytes.Buffer
	run(strings.NewReader(raw), &out, st, lines, show)
	return out.String()
}

func TestRunSingleLineMonochrome(t *testing.T) {
	lines := [][]fieldFunc{{renderModel, renderTokenCounts, renderUsedPct, renderLinesChanged}}

	got := render(t, sampleSnapshot, trafficLight, lines, segment.plain)

	want := "Claude Sonnet 4.6 (1M context) | 48,200/1,000,000 tokens | 5% used (48200) | +47/-12\n"
	if got != want {
		t.Errorf("run() = %q, want %q", got, want)
	}
	if strings.Contains(got, "\033") {
		t.Errorf("monochrome output contains escape bytes: %q", got)
	}
}

func TestRunMultiLinePainted(t *testing.T) {
	lines := [][]fieldFunc{
		{renderModel, renderRemainingPct},
		{renderContextBar},
	}

	got := render(t, sampleSnapshot, trafficLight, lines, segment.painted)

	want := "Claude Sonnet 4.6 (1M context) | " + ansiGreen + "95%" + ansiReset + " left (951800)\n" +
		ansiGreen + "█░░░░░░░░░ 5%" + ansiReset + "\n"
	if got != want {
		t.Errorf("run() = %q, want %q", got, want)
	}
}

func TestRunSkipsAbsentFields(t *testing.T) {
	raw := `{"model": {"display_name": "Opus"}, "cost": {"total_lines_added": 0, "total_lines_removed": 0}}`
	lines := [][]fieldFunc{
		{renderModel, renderUsedPct, renderLinesChanged},
		{renderContextBar, renderRateLimitBars},
	}

	got := render(t, raw, trafficLight, lines, segment.painted)

	if got != "Opus | +0/-0\n" {
		t.Errorf("run() = %q, want %q", got, "Opus | +0/-0\n")
	}
}

func TestRunDegradedInput(t *testing.T) {
	lines := [][]fieldFunc{{renderModel, renderContextBar}, {renderRateLimitBars}}

	for _, raw := range []string{"", "not json", "{", `{"model": 5}`, "[]"} {
		got := render(t, raw, trafficLight, lines, segment.painted)
		if got != "\n" {
			t.Errorf("run(%q) = %q, want a single empty line", raw, got)
		}
	}
}

func TestRunRecoversFromPanics(t *testing.T) {
	explode := func(*document, style) (segment, bool) {
		panic("boom")
	}

	got := render(t, sampleSnapshot, trafficLight, [][]fieldFunc{{renderModel, explode}}, segment.plain)

	if got != "\n" {
		t.Errorf("run() = %q, want a single empty line", got)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	lines := [][]fieldFunc{{renderModel, renderUsedPct}, {renderContextBar}}

	first := render(t, sampleSnapshot, trafficLight, lines, segment.painted)
	second := render(t, sampleSnapshot, trafficLight, lines, segment.painted)

	if first != second {
		t.Errorf("rendering the same snapshot twice differed: %q vs %q", first, second)
	}
}

func TestPaintedColorsBySeverity(t *testing.T) {
	tests := []struct {
		pct  string
		want string
	}{
		{"49", ansiGreen},
		{"50", ansiYellow},
		{"79.4", ansiYellow},
		{"80", ansiRed},
	}

	for _, tt := range tests {
		raw := `{"context_window": {"used_percentage": ` + tt.pct + `}}`
		got := render(t, raw, trafficLight, [][]fieldFunc{{renderContextBar}}, segment.painted)
		if !strings.HasPrefix(got, tt.want) {
			t.Errorf("used %s%%: got %q, want prefix %q", tt.pct, got, tt.want)
		}
		if !strings.HasSuffix(got, ansiReset+"\n") {
			t.Errorf("used %s%%: got %q, want reset right after the bar", tt.pct, got)
		}
	}
}

func TestRemainingPctClassifiesConsumedShare(t *testing.T) {
	doc := parseDocument([]byte(`{"context_window": {"remaining_percentage": 15}}`))

	seg, ok := renderRemainingPct(doc, trafficLight)
	if !ok {
		t.Fatal("expected remaining percentage to render")
	}
	if seg[0].level != levelCritical {
		t.Errorf("15%% left classified as %v, want critical", seg[0].level)
	}
	if got := seg.plain(); got != "15% left" {
		t.Errorf("plain() = %q, want %q", got, "15% left")
	}
}

func TestUsedPercentFallsBackToTokens(t *testing.T) {
	doc := parseDocument([]byte(`{"context_window": {"total_input_tokens": 150000, "total_output_tokens": 10000, "context_window_size": 200000}}`))

	pct, ok := usedPercent(doc)
	if !ok || pct != 80 {
		t.Errorf("usedPercent() = %v, %v, want 80", pct, ok)
	}

	doc = parseDocument([]byte(`{"context_window": {"total_input_tokens": 150000, "context_window_size": 0}}`))
	if _, ok := usedPercent(doc); ok {
		t.Error("expected no percentage without a usable window size")
	}
}

func TestRenderTokenCountsWithoutWindow(t *testing.T) {
	doc := parseDocument([]byte(`{"context_window": {"total_input_tokens": 1234}}`))

	seg, ok := renderTokenCounts(doc, trafficLight)
	if !ok || seg.plain() != "1,234 tokens" {
		t.Errorf("renderTokenCounts() = %q, %v", seg.plain(), ok)
	}
}

func TestRenderLinesChangedPartial(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{`{"cost": {"total_lines_added": 3}}`, "+3/-0", true},
		{`{"cost": {"total_lines_removed": 9}}`, "+0/-9", true},
		{`{"cost": {"total_lines_added": -4, "total_lines_removed": 2}}`, "+0/-2", true},
		{`{"cost": {}}`, "", false},
		{`{}`, "", false},
	}

	for _, tt := range tests {
		seg, ok := renderLinesChanged(parseDocument([]byte(tt.raw)), trafficLight)
		if ok != tt.ok || seg.plain() != tt.want {
			t.Errorf("renderLinesChanged(%s) = %q, %v, want %q, %v", tt.raw, seg.plain(), ok, tt.want, tt.ok)
		}
	}
}

func TestRenderRateLimits(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	st := style{yellow: 50, red: 80, now: func() time.Time { return now }}
	raw := `{"rate_limits": {
		"five_hour": {"used_percentage": 30, "resets_at": ` + "1772373180" + `},
		"seven_day": {"used_percentage": 84, "resets_at": "2026-03-04T16:00:00Z"}
	}}`
	doc := parseDocument([]byte(raw))

	bars, ok := renderRateLimitBars(doc, st)
	if !ok {
		t.Fatal("expected rate limit bars")
	}
	if got := bars.plain(); got != "5h ███░░░░░░░ 30% 7d ████████░░ 84%" {
		t.Errorf("renderRateLimitBars() = %q", got)
	}
	want := "5h " + ansiGreen + "███░░░░░░░ 30%" + ansiReset + " 7d " + ansiRed + "████████░░ 84%" + ansiReset
	if got := bars.painted(); got != want {
		t.Errorf("painted() = %q, want %q", got, want)
	}

	resets, ok := renderResetTimes(doc, st)
	if !ok {
		t.Fatal("expected reset times")
	}
	if got := resets.plain(); got != "5h resets 1h53m 7d resets 3d4h" {
		t.Errorf("renderResetTimes() = %q", got)
	}
}

func TestRenderRateLimitsPartial(t *testing.T) {
	doc := parseDocument([]byte(`{"rate_limits": {"seven_day": {"used_percentage": 10, "resets_at": 1772373180000}}}`))
	st := style{yellow: 50, red: 80, now: func() time.Time { return time.Unix(1772373180, 0) }}

	bars, ok := renderRateLimitBars(doc, st)
	if !ok || bars.plain() != "7d █░░░░░░░░░ 10%" {
		t.Errorf("renderRateLimitBars() = %q, %v", bars.plain(), ok)
	}
	resets, ok := renderResetTimes(doc, st)
	if !ok || resets.plain() != "7d resets now" {
		t.Errorf("renderResetTimes() = %q, %v", resets.plain(), ok)
	}

	if _, ok := renderRateLimitBars(parseDocument([]byte(`{}`)), st); ok {
		t.Error("expected no rate limit bars without rate_limits")
	}
}

func TestRunHugeNumbers(t *testing.T) {
	raw := `{"context_window": {"total_input_tokens": 1e300}}`
	got := render(t, raw, trafficLight, [][]fieldFunc{{renderTokenCounts}}, segment.plain)
	if got != "9,223,372,036,854,775,807 tokens\n" {
		t.Errorf("run() = %q", got)
	}
}

func TestResetInstantOutOfRange(t *testing.T) {
	st := style{yellow: 50, red: 80, now: func() time.Time { return time.Unix(1772366400, 0) }}
	for _, v := range []string{"1e30", "-1e30", "1e300"} {
		doc := parseDocument([]byte(`{"rate_limits": {"five_hour": {"used_percentage": 30, "resets_at": ` + v + `}}}`))
		if _, ok := resetInstant(doc, "rate_limits.five_hour.resets_at"); ok {
			t.Errorf("resetInstant(%s) reported present", v)
		}
		if resets, ok := renderResetTimes(doc, st); ok {
			t.Errorf("renderResetTimes() = %q for resets_at %s, want absent", resets.plain(), v)
		}
	}

	doc := parseDocument([]byte(`{"rate_limits": {"five_hour": {"used_percentage": 30, "resets_at": 253402300799}}}`))
	if _, ok := resetInstant(doc, "rate_limits.five_hour.resets_at"); !ok {
		t.Error("resetInstant(year 9999) reported absent")
	}
}

func TestSourcesEmbedded(t *testing.T) {
	for _, name := range SourceFiles {
		data, err := Sources.ReadFile(name)
		if err != nil {
			t.Errorf("ReadFile(%s) error = %v", name, err)
			continue
		}
		if !bytes.HasPrefix(data, []byte("package statusline")) && !bytes.Contains(data, []byte("\npackage statusline\n")) {
			t.Errorf("%s does not look like a statusline source file", name)
		}
	}
}
