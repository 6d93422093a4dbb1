package statusline

import "time"

// severity is the traffic-light class of a percentage
type severity int

const (
	levelNormal severity = iota
	levelWarning
	levelCritical
)

// style holds the thresholds a renderer was generated with
type style struct {
	yellow float64
	red    float64
	now    func() time.Time
}

func (st style) clock() time.Time {
	if st.now == nil {
		return time.Now()
	}
	return st.now()
}

// piece is a run of output text. Classified pieces are the only ones that get colored.
type piece struct {
	text       string
	level      severity
	classified bool
}

// segment is the rendered form of one field
type segment []piece

// fieldFunc renders one field from a snapshot. It reports false when the field is absent.
type fieldFunc func(doc *document, st style) (segment, bool)

func plainPiece(text string) piece {
	return piece{text: text}
}

func metricPiece(text string, level severity) piece {
	return piece{text: text, level: level, classified: true}
}
