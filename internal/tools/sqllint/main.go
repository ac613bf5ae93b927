package main

import (
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var (
	sqlMarkerPattern  = regexp.MustCompile(`(?i)\b(select|insert|update|delete|with)\b`)
	uuidMarkerPattern = regexp.MustCompile(`^--sql [0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
)

type violation struct {
	file    string
	name    string
	line    int
	message string
}

func main() {
	flag.Parse()
	targets := flag.Args()
	if len(targets) == 0 {
		targets = []string{"."}
	}

	var violations []violation
	seen := make(map[string]string)

	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			fmt.Fprintf(os.Stderr, "sqllint: %v\n", err)
			os.Exit(1)
		}
		if info.IsDir() {
			walkErr := filepath.WalkDir(target, func(path string, d os.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() {
					if strings.HasPrefix(d.Name(), ".") || d.Name() == "vendor" || d.Name() == "node_modules" {
						return filepath.SkipDir
					}
					return nil
				}
				if filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") {
					return nil
				}
				vs, err := lintFile(path, seen)
				if err != nil {
					return err
				}
				violations = append(violations, vs...)
				return nil
			})
			if walkErr != nil {
				fmt.Fprintf(os.Stderr, "sqllint: %v\n", walkErr)
				os.Exit(1)
			}
		} else if filepath.Ext(target) == ".go" {
			vs, err := lintFile(target, seen)
			if err != nil {
				fmt.Fprintf(os.Stderr, "sqllint: %v\n", err)
				os.Exit(1)
			}
			violations = append(violations, vs...)
		}
	}

	if len(violations) > 0 {
		fmt.Fprintln(os.Stderr, "sqllint: SQL audit marker violations")
		for _, v := range violations {
			fmt.Fprintf(os.Stderr, "  %s:%d %s (%s)\n", v.file, v.line, v.message, v.name)
		}
		os.Exit(1)
	}
}

// lintFile reports query constants without a valid marker and records every
// marker it sees in seen so duplicates across files are caught.
func lintFile(path string, seen map[string]string) ([]violation, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		return nil, err
	}
	var violations []violation
	ast.Inspect(file, func(n ast.Node) bool {
		vs, ok := n.(*ast.ValueSpec)
		if !ok {
			return true
		}
		for _, value := range vs.Values {
			bl := leadingLiteral(value)
			if bl == nil {
				continue
			}
			raw, err := unquote(bl.Value)
			if err != nil {
				continue
			}
			if !sqlMarkerPattern.MatchString(raw) {
				continue
			}
			pos := fset.Position(bl.Pos())
			name := joinNames(vs.Names)
			marker := firstLine(raw)
			if !uuidMarkerPattern.MatchString(marker) {
				violations = append(violations, violation{
					file:    path,
					line:    pos.Line,
					name:    name,
					message: "missing or invalid --sql <uuid> marker",
				})
				continue
			}
			if prev, dup := seen[marker]; dup {
				violations = append(violations, violation{
					file:    path,
					line:    pos.Line,
					name:    name,
					message: "marker already used by " + prev,
				})
				continue
			}
			seen[marker] = name
		}
		return true
	})
	return violations, nil
}

// leadingLiteral returns the first string literal of a constant expression,
// following the left operand of concatenations.
func leadingLiteral(expr ast.Expr) *ast.BasicLit {
	for {
		switch e := expr.(type) {
		case *ast.BasicLit:
			if e.Kind != token.STRING {
				return nil
			}
			return e
		case *ast.BinaryExpr:
			if e.Op != token.ADD {
				return nil
			}
			expr = e.X
		case *ast.ParenExpr:
			expr = e.X
		default:
			return nil
		}
	}
}

func firstLine(s string) string {
	s = strings.TrimLeft(s, "\n\r \t")
	if idx := strings.IndexAny(s, "\n\r"); idx >= 0 {
		return strings.TrimSpace(s[:idx])
	}
	return strings.TrimSpace(s)
}

func unquote(v string) (string, error) {
	if len(v) == 0 {
		return v, nil
	}
	if v[0] == '`' {
		return v[1 : len(v)-1], nil
	}
	return strconv.Unquote(v)
}

func joinNames(idents []*ast.Ident) string {
	parts := make([]string, 0, len(idents))
	for _, ident := range idents {
		if ident == nil {
			continue
		}
		parts = append(parts, ident.Name)
	}
	return strings.Join(parts, ",")
}
