// Package generator turns a Config into the source of a standalone renderer.
//
// The renderer is a Go main package. Its body is spliced from the
// statusline runtime: only declarations reachable from the generated main
// are kept, so fields that were not selected leave nothing behind.
package generator

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/printer"
	"go/token"
	"path"
	"sort"
	"strings"
	"text/template"

	"github.com/himattm/claude-statusline/internal/catalog"
	"github.com/himattm/claude-statusline/internal/config"
	"github.com/himattm/claude-statusline/internal/errors"
)

// Header is the first line of every generated renderer
const Header = "// Code generated by claude-statusline; DO NOT EDIT."

var mainTemplate = template.Must(template.New("main").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(`package main

func main() {
	run(os.Stdin, os.Stdout, style{yellow: {{.Yellow}}, red: {{.Red}}}, [][]fieldFunc{
{{- range .Lines}}
		{ {{- join . ", " -}} },
{{- end}}
	}, segment.{{.Show}})
}
`))

// mainImports are the packages the template itself uses
var mainImports = map[string]string{"os": "os"}

type mainData struct {
	Yellow int
	Red    int
	Lines  [][]string
	Show   string
}

// Generate returns gofmt-formatted renderer source for cfg.
// Equal configurations always produce identical bytes.
func Generate(cfg config.Config) ([]byte, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rt, err := loadRuntime()
	if err != nil {
		return nil, errors.Wrap(err, "Cannot load the renderer runtime")
	}

	lines := Lines(cfg)
	data := mainData{
		Yellow: cfg.Thresholds.Yellow,
		Red:    cfg.Thresholds.Red,
		Show:   "plain",
	}
	if cfg.Colored() {
		data.Show = "painted"
	}
	for _, line := range lines {
		var renderers []string
		for _, f := range line {
			if !rt.defines(f.Renderer) {
				return nil, errors.New(errors.ErrGenerate,
					fmt.Sprintf("Renderer %s for field %s is missing from the runtime", f.Renderer, f.ID),
					"This is a bug in claude-statusline")
			}
			renderers = append(renderers, f.Renderer)
		}
		data.Lines = append(data.Lines, renderers)
	}

	var mainSrc bytes.Buffer
	if err := mainTemplate.Execute(&mainSrc, data); err != nil {
		return nil, errors.Wrap(err, "Cannot render main")
	}
	mainFset := token.NewFileSet()
	mainFile, err := parser.ParseFile(mainFset, "main.go", mainSrc.Bytes(), parser.SkipObjectResolution)
	if err != nil {
		return nil, errors.Wrap(err, "Generated main does not parse")
	}

	roots := identifiers(mainFile)
	units := rt.closure(roots)

	imports := make(map[string]string)
	for name, p := range mainImports {
		imports[name] = p
	}
	for _, u := range units {
		for name, p := range u.imports {
			imports[name] = p
		}
	}

	var buf bytes.Buffer
	writeHeader(&buf, cfg)
	buf.WriteString("package main\n\n")
	writeImports(&buf, imports)
	for _, decl := range mainFile.Decls {
		if err := printer.Fprint(&buf, mainFset, decl); err != nil {
			return nil, errors.Wrap(err, "Cannot print main")
		}
		buf.WriteString("\n\n")
	}
	for _, u := range units {
		if err := printer.Fprint(&buf, rt.fset, u.decl); err != nil {
			return nil, errors.Wrap(err, "Cannot print renderer runtime")
		}
		buf.WriteString("\n\n")
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, errors.Wrap(err, "Generated renderer does not format")
	}
	return src, nil
}

// Lines groups the selected fields the way the renderer prints them
func Lines(cfg config.Config) [][]catalog.Field {
	var fields []catalog.Field
	for _, id := range catalog.Order(cfg.Fields) {
		if f, ok := catalog.Lookup(id); ok {
			fields = append(fields, f)
		}
	}
	if cfg.Layout == config.LayoutSingle {
		return [][]catalog.Field{fields}
	}

	var summary, bars []catalog.Field
	for _, f := range fields {
		if f.Line == catalog.LineBars {
			bars = append(bars, f)
		} else {
			summary = append(summary, f)
		}
	}
	var lines [][]catalog.Field
	for _, line := range [][]catalog.Field{summary, bars} {
		if len(line) > 0 {
			lines = append(lines, line)
		}
	}
	return lines
}

func writeHeader(buf *bytes.Buffer, cfg config.Config) {
	ids := make([]string, 0, len(cfg.Fields))
	for _, id := range catalog.Order(cfg.Fields) {
		ids = append(ids, string(id))
	}
	colors := string(cfg.ColorStyle)
	if cfg.Colored() {
		colors += fmt.Sprintf(" (yellow %d, red %d)", cfg.Thresholds.Yellow, cfg.Thresholds.Red)
	}

	buf.WriteString(Header + "\n//\n")
	fmt.Fprintf(buf, "// fields: %s\n", strings.Join(ids, ", "))
	fmt.Fprintf(buf, "// layout: %s\n", cfg.Layout)
	fmt.Fprintf(buf, "// colors: %s\n\n", colors)
}

func writeImports(buf *bytes.Buffer, imports map[string]string) {
	specs := make([]string, 0, len(imports))
	for name, p := range imports {
		if path.Base(p) == name {
			specs = append(specs, fmt.Sprintf("%q", p))
		} else {
			specs = append(specs, fmt.Sprintf("%s %q", name, p))
		}
	}
	sort.Strings(specs)

	buf.WriteString("import (\n")
	for _, spec := range specs {
		buf.WriteString("\t" + spec + "\n")
	}
	buf.WriteString(")\n\n")
}

// identifiers lists every identifier in file, sorted
func identifiers(file *ast.File) []string {
	seen := make(map[string]bool)
	ast.Inspect(file, func(n ast.Node) bool {
		if id, ok := n.(*ast.Ident); ok {
			seen[id.Name] = true
		}
		return true
	})
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
