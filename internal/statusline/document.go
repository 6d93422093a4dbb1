package statusline

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

// document indexes the members of a snapshot's top-level object.
// Nested objects stay as raw bytes until a lookup descends into them.
type document struct {
	members map[string][]byte
}

func parseDocument(raw []byte) *document {
	doc := &document{members: make(map[string][]byte)}
	eachMember(raw, func(key string, value []byte) bool {
		// First occurrence wins
		if _, seen := doc.members[key]; !seen {
			doc.members[key] = value
		}
		return true
	})
	return doc
}

// lookup resolves a dotted path like "context_window.used_percentage"
func (d *document) lookup(path string) ([]byte, bool) {
	head, rest, nested := strings.Cut(path, ".")
	value, ok := d.members[head]
	for ok && nested {
		head, rest, nested = strings.Cut(rest, ".")
		value, ok = member(value, head)
	}
	return value, ok
}

func member(object []byte, key string) ([]byte, bool) {
	var found []byte
	eachMember(object, func(name string, value []byte) bool {
		if name != key {
			return true
		}
		found = value
		return false
	})
	return found, len(found) > 0
}

func (d *document) stringAt(path string) (string, bool) {
	value, ok := d.lookup(path)
	if !ok || value[0] != '"' {
		return "", false
	}
	decoded, ok := unquote(value)
	if !ok {
		return "", false
	}
	return sanitize(decoded), true
}

func (d *document) numberAt(path string) (float64, bool) {
	value, ok := d.lookup(path)
	if !ok || !isNumber(value) {
		return 0, false
	}
	n, err := strconv.ParseFloat(string(value), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// isNumber matches the JSON number grammar: -?(0|[1-9]\d*)(\.\d+)?([eE][+-]?\d+)?
func isNumber(b []byte) bool {
	i := 0
	if i < len(b) && b[i] == '-' {
		i++
	}
	switch {
	case i < len(b) && b[i] == '0':
		i++
	case i < len(b) && b[i] >= '1' && b[i] <= '9':
		i = skipDigits(b, i)
	default:
		return false
	}
	if i < len(b) && b[i] == '.' {
		next := skipDigits(b, i+1)
		if next == i+1 {
			return false
		}
		i = next
	}
	if i < len(b) && (b[i] == 'e' || b[i] == 'E') {
		i++
		if i < len(b) && (b[i] == '+' || b[i] == '-') {
			i++
		}
		next := skipDigits(b, i)
		if next == i {
			return false
		}
		i = next
	}
	return i == len(b)
}

func skipDigits(b []byte, i int) int {
	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		i++
	}
	return i
}

// eachMember walks the members of one object without descending into
// nested values. It stops at the first malformed byte, so members that
// were complete before the damage are still visited.
func eachMember(object []byte, visit func(key string, value []byte) bool) {
	s := &scanner{data: object}
	if !s.consume('{') || s.consume('}') {
		return
	}
	for s.peek() == '"' {
		start := s.pos
		if !s.skipString() {
			return
		}
		key, ok := unquote(s.data[start:s.pos])
		if !ok || !s.consume(':') {
			return
		}
		value, ok := s.skipValue()
		if !ok || !visit(key, value) {
			return
		}
		if !s.consume(',') {
			return
		}
	}
}

type scanner struct {
	data []byte
	pos  int
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.data) {
		switch s.data[s.pos] {
		case ' ', '\t', '\n', '\r':
			s.pos++
		default:
			return
		}
	}
}

// peek returns the next non-space byte, or 0 at the end of input
func (s *scanner) peek() byte {
	s.skipSpace()
	if s.pos >= len(s.data) {
		return 0
	}
	return s.data[s.pos]
}

func (s *scanner) consume(c byte) bool {
	if s.peek() != c {
		return false
	}
	s.pos++
	return true
}

// skipString moves past the string whose opening quote is at pos
func (s *scanner) skipString() bool {
	for i := s.pos + 1; i < len(s.data); i++ {
		switch s.data[i] {
		case '\\':
			i++
		case '"':
			s.pos = i + 1
			return true
		}
	}
	return false
}

// skipNested moves past a balanced object or array
func (s *scanner) skipNested() bool {
	depth := 0
	for s.pos < len(s.data) {
		switch s.data[s.pos] {
		case '"':
			if !s.skipString() {
				return false
			}
			continue
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				s.pos++
				return true
			}
		}
		s.pos++
	}
	return false
}

// skipValue returns the raw bytes of the next value
func (s *scanner) skipValue() ([]byte, bool) {
	c := s.peek()
	start := s.pos
	switch {
	case c == '"':
		if !s.skipString() {
			return nil, false
		}
	case c == '{' || c == '[':
		if !s.skipNested() {
			return nil, false
		}
	case isLiteralByte(c):
		for s.pos < len(s.data) && isLiteralByte(s.data[s.pos]) {
			s.pos++
		}
	default:
		return nil, false
	}
	return s.data[start:s.pos], true
}

// isLiteralByte matches bytes of numbers, true, false and null
func isLiteralByte(c byte) bool {
	switch {
	case c >= '0' && c <= '9', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case c == '-', c == '+', c == '.':
		return true
	}
	return false
}

// unquote decodes a quoted JSON string. Invalid escapes make the whole value unusable.
func unquote(quoted []byte) (string, bool) {
	if len(quoted) < 2 {
		return "", false
	}
	body := quoted[1 : len(quoted)-1]
	var out strings.Builder
	out.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			out.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", false
		}
		switch body[i] {
		case '"', '\\', '/':
			out.WriteByte(body[i])
		case 'b':
			out.WriteByte('\b')
		case 'f':
			out.WriteByte('\f')
		case 'n':
			out.WriteByte('\n')
		case 'r':
			out.WriteByte('\r')
		case 't':
			out.WriteByte('\t')
		case 'u':
			r, width, ok := decodeEscapedRune(body[i+1:])
			if !ok {
				return "", false
			}
			out.WriteRune(r)
			i += width
		default:
			return "", false
		}
	}
	return out.String(), true
}

// decodeEscapedRune reads the hex digits after \u, joining surrogate pairs
func decodeEscapedRune(rest []byte) (rune, int, bool) {
	r1, ok := hex4(rest)
	if !ok {
		return 0, 0, false
	}
	if !utf16.IsSurrogate(r1) {
		return r1, 4, true
	}
	if len(rest) >= 10 && rest[4] == '\\' && rest[5] == 'u' {
		if r2, ok := hex4(rest[6:]); ok {
			if r := utf16.DecodeRune(r1, r2); r != utf8.RuneError {
				return r, 10, true
			}
		}
	}
	return utf8.RuneError, 4, true
}

func hex4(b []byte) (rune, bool) {
	if len(b) < 4 {
		return 0, false
	}
	n, err := strconv.ParseUint(string(b[:4]), 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(n), true
}

// sanitize drops control characters so snapshot text cannot carry terminal escapes
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
