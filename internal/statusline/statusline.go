// Package statusline is the renderer runtime. A generated renderer is a main
// function wired to run plus the declarations of this package it reaches.
package statusline

import (
	"io"
	"strings"
)

// maxSnapshotBytes bounds how much of stdin a renderer reads
const maxSnapshotBytes = 4 << 20

const separator = " | "

// run renders one snapshot from in to out. It always writes exactly one
// newline-terminated result, falling back to an empty line on any panic.
func run(in io.Reader, out io.Writer, st style, lines [][]fieldFunc, show func(segment) string) {
	rendered := ""
	func() {
		defer func() {
			if recover() != nil {
				rendered = ""
			}
		}()
		raw, _ := io.ReadAll(io.LimitReader(in, maxSnapshotBytes))
		rendered = compose(parseDocument(raw), st, lines, show)
	}()
	_, _ = io.WriteString(out, rendered+"\n")
}

// compose renders each line group, skipping absent fields and empty lines
func compose(doc *document, st style, lines [][]fieldFunc, show func(segment) string) string {
	var output []string
	for _, group := range lines {
		var parts []string
		for _, field := range group {
			if seg, ok := field(doc, st); ok && len(seg) > 0 {
				parts = append(parts, show(seg))
			}
		}
		if len(parts) > 0 {
			output = append(output, strings.Join(parts, separator))
		}
	}
	return strings.Join(output, "\n")
}
