package generator

import (
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"path"
	"strconv"
	"sync"

	"github.com/himattm/claude-statusline/internal/statusline"
)

// unit is one top-level declaration of the renderer runtime.
// Methods are keyed by method name and pull in their receiver type.
type unit struct {
	names   []string
	decl    ast.Decl
	refs    map[string]bool
	imports map[string]string // local name -> import path
}

// runtime is the parsed renderer runtime, in source order
type runtime struct {
	fset   *token.FileSet
	units  []*unit
	byName map[string][]*unit
}

var (
	runtimeOnce sync.Once
	runtimeSrc  *runtime
	runtimeErr  error
)

func loadRuntime() (*runtime, error) {
	runtimeOnce.Do(func() {
		runtimeSrc, runtimeErr = parseRuntime(statusline.Sources, statusline.SourceFiles)
	})
	return runtimeSrc, runtimeErr
}

func parseRuntime(fsys fs.FS, files []string) (*runtime, error) {
	rt := &runtime{
		fset:   token.NewFileSet(),
		byName: make(map[string][]*unit),
	}
	for _, name := range files {
		src, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		file, err := parser.ParseFile(rt.fset, name, src, parser.SkipObjectResolution)
		if err != nil {
			return nil, err
		}
		imports := fileImports(file)
		for _, decl := range file.Decls {
			if gd, ok := decl.(*ast.GenDecl); ok && gd.Tok == token.IMPORT {
				continue
			}
			u := newUnit(decl, imports)
			rt.units = append(rt.units, u)
			for _, n := range u.names {
				rt.byName[n] = append(rt.byName[n], u)
			}
		}
	}
	return rt, nil
}

func fileImports(file *ast.File) map[string]string {
	imports := make(map[string]string, len(file.Imports))
	for _, spec := range file.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		name := path.Base(p)
		if spec.Name != nil {
			name = spec.Name.Name
		}
		imports[name] = p
	}
	return imports
}

func newUnit(decl ast.Decl, imports map[string]string) *unit {
	u := &unit{
		names:   declaredNames(decl),
		decl:    decl,
		refs:    make(map[string]bool),
		imports: make(map[string]string),
	}
	ast.Inspect(decl, func(n ast.Node) bool {
		switch x := n.(type) {
		case *ast.SelectorExpr:
			if id, ok := x.X.(*ast.Ident); ok {
				if p, ok := imports[id.Name]; ok {
					u.imports[id.Name] = p
				}
			}
		case *ast.Ident:
			u.refs[x.Name] = true
		}
		return true
	})
	return u
}

func declaredNames(decl ast.Decl) []string {
	switch d := decl.(type) {
	case *ast.FuncDecl:
		return []string{d.Name.Name}
	case *ast.GenDecl:
		var names []string
		for _, spec := range d.Specs {
			switch s := spec.(type) {
			case *ast.TypeSpec:
				names = append(names, s.Name.Name)
			case *ast.ValueSpec:
				for _, n := range s.Names {
					names = append(names, n.Name)
				}
			}
		}
		return names
	}
	return nil
}

// closure returns every unit reachable from roots, in source order
func (rt *runtime) closure(roots []string) []*unit {
	seen := make(map[string]bool)
	included := make(map[*unit]bool)
	queue := append([]string(nil), roots...)
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if seen[name] {
			continue
		}
		seen[name] = true
		for _, u := range rt.byName[name] {
			if included[u] {
				continue
			}
			included[u] = true
			for ref := range u.refs {
				if !seen[ref] {
					queue = append(queue, ref)
				}
			}
		}
	}

	var out []*unit
	for _, u := range rt.units {
		if included[u] {
			out = append(out, u)
		}
	}
	return out
}

// defines reports whether the runtime declares name
func (rt *runtime) defines(name string) bool {
	return len(rt.byName[name]) > 0
}
