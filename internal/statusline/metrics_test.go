package statusline

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/dustin/go-humanize"
)

func TestClassifyBoundaries(t *testing.T) {
	thresholds := []style{
		{yellow: 50, red: 80},
		{yellow: 1, red: 2},
		{yellow: 99, red: 100},
		{yellow: 30, red: 31},
	}

	for _, st := range thresholds {
		cases := []struct {
			v    float64
			want severity
		}{
			{st.yellow - 1, levelNormal},
			{st.yellow, levelWarning},
			{st.red - 1, levelWarning},
			{st.red, levelCritical},
			{st.red + 50, levelCritical},
			{0, levelNormal},
		}
		for _, c := range cases {
			if got := classify(c.v, st); got != c.want {
				t.Errorf("classify(%v) with %v/%v = %v, want %v", c.v, st.yellow, st.red, got, c.want)
			}
		}
	}
}

func TestFilledCells(t *testing.T) {
	tests := []struct {
		v    float64
		want int
	}{
		{0, 0},
		{4, 0},
		{5, 1}, // half rounds away from zero
		{14.9, 1},
		{15, 2},
		{50, 5},
		{95, 10},
		{100, 10},
		{-20, 0},
		{250, 10},
	}

	for _, tt := range tests {
		if got := filledCells(tt.v, barWidth); got != tt.want {
			t.Errorf("filledCells(%v) = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestFilledCellsMonotonic(t *testing.T) {
	prev := filledCells(-10, barWidth)
	for v := -10.0; v <= 110; v += 0.25 {
		got := filledCells(v, barWidth)
		if got < prev {
			t.Fatalf("filledCells(%v) = %d, less than %d for a smaller value", v, got, prev)
		}
		prev = got
	}
}

func TestDrawBar(t *testing.T) {
	if got := drawBar(0); got != strings.Repeat("░", barWidth) {
		t.Errorf("drawBar(0) = %q, want all empty", got)
	}
	if got := drawBar(100); got != strings.Repeat("█", barWidth) {
		t.Errorf("drawBar(100) = %q, want all filled", got)
	}
	if got := drawBar(30); got != "███░░░░░░░" {
		t.Errorf("drawBar(30) = %q", got)
	}
	for _, v := range []float64{-5, 12, 55, 101} {
		if n := len([]rune(drawBar(v))); n != barWidth {
			t.Errorf("drawBar(%v) has %d cells, want %d", v, n, barWidth)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{5, "5%"},
		{4.5, "5%"},
		{4.4, "4%"},
		{100, "100%"},
		{-0.2, "0%"},
		{123.6, "124%"},
	}

	for _, tt := range tests {
		if got := formatPercent(tt.v); got != tt.want {
			t.Errorf("formatPercent(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestGroupThousands(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{48200, "48,200"},
		{1000000, "1,000,000"},
		{-1234567, "-1,234,567"},
	}

	for _, tt := range tests {
		if got := groupThousands(tt.n); got != tt.want {
			t.Errorf("groupThousands(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestGroupThousandsMatchesHumanize(t *testing.T) {
	for _, n := range []int64{7, 12345, 999999, 1000001, 987654321012, -42000} {
		if got, want := groupThousands(n), humanize.Comma(n); got != want {
			t.Errorf("groupThousands(%d) = %q, humanize says %q", n, got, want)
		}
	}
}

func TestWholeCount(t *testing.T) {
	if got := wholeCount(-3); got != 0 {
		t.Errorf("wholeCount(-3) = %d, want 0", got)
	}
	if got := wholeCount(47.5); got != 48 {
		t.Errorf("wholeCount(47.5) = %d, want 48", got)
	}
	if got := wholeCount(1e300); got != math.MaxInt64 {
		t.Errorf("wholeCount(1e300) = %d, want %d", got, int64(math.MaxInt64))
	}
}

func TestFormatCountdown(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{-time.Minute, "now"},
		{0, "now"},
		{30 * time.Second, "1m"},
		{59 * time.Minute, "59m"},
		{2*time.Hour + 12*time.Minute + 10*time.Second, "2h13m"},
		{3*24*time.Hour + 4*time.Hour, "3d4h"},
		{time.Duration(math.MaxInt64), "106751d23h"},
	}

	for _, tt := range tests {
		if got := formatCountdown(tt.d); got != tt.want {
			t.Errorf("formatCountdown(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
