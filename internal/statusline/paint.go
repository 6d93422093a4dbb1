package statusline

import "strings"

// ANSI color codes
const (
	ansiReset  = "\033[0m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiRed    = "\033[31m"
)

func levelColor(level severity) string {
	switch level {
	case levelCritical:
		return ansiRed
	case levelWarning:
		return ansiYellow
	default:
		return ansiGreen
	}
}

// plain joins the segment text with no escape sequences
func (seg segment) plain() string {
	var out strings.Builder
	for _, p := range seg {
		out.WriteString(p.text)
	}
	return out.String()
}

// painted wraps each classified piece in its color and resets right after it
func (seg segment) painted() string {
	var out strings.Builder
	for _, p := range seg {
		if !p.classified {
			out.WriteString(p.text)
			continue
		}
		out.WriteString(levelColor(p.level))
		out.WriteString(p.text)
		out.WriteString(ansiReset)
	}
	return out.String()
}
