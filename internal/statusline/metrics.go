package statusline

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const barWidth = 10

// classify buckets a percentage. Reaching a threshold counts as the higher severity.
func classify(v float64, st style) severity {
	switch {
	case v >= st.red:
		return levelCritical
	case v >= st.yellow:
		return levelWarning
	default:
		return levelNormal
	}
}

func clampPercent(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func filledCells(v float64, width int) int {
	return int(math.Round(clampPercent(v) * float64(width) / 100))
}

// drawBar renders a fixed-width bar like █████░░░░░
func drawBar(v float64) string {
	filled := filledCells(v, barWidth)
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

func formatPercent(v float64) string {
	rounded := math.Round(v)
	if rounded == 0 {
		// normalizes -0
		rounded = 0
	}
	return strconv.FormatFloat(rounded, 'f', 0, 64) + "%"
}

// wholeCount turns a snapshot number into a non-negative integer count
func wholeCount(v float64) int64 {
	switch {
	case v <= 0:
		return 0
	case v >= math.MaxInt64:
		return math.MaxInt64
	}
	return int64(math.Round(v))
}

// groupThousands formats 48200 as 48,200
func groupThousands(n int64) string {
	digits := strconv.FormatInt(n, 10)
	var out strings.Builder
	if n < 0 {
		out.WriteByte('-')
		digits = digits[1:]
	}
	for i := 0; i < len(digits); i++ {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteByte(digits[i])
	}
	return out.String()
}

// formatCountdown renders time left until a reset, rounded up to the minute
func formatCountdown(d time.Duration) string {
	if d <= 0 {
		return "now"
	}
	minutes := int64(d / time.Minute)
	if d%time.Minute != 0 {
		minutes++
	}
	days, hours, mins := minutes/(24*60), minutes/60%24, minutes%60
	switch {
	case days > 0:
		return strconv.FormatInt(days, 10) + "d" + strconv.FormatInt(hours, 10) + "h"
	case hours > 0:
		return strconv.FormatInt(hours, 10) + "h" + strconv.FormatInt(mins, 10) + "m"
	default:
		return strconv.FormatInt(mins, 10) + "m"
	}
}
