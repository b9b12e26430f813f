package gotest

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// NestedTest is a top level test or a subtest with its own subtests.
type NestedTest struct {
	Value    Test
	Children []NestedTest
	Log      []byte
}

// Set is the result of reading a stream. Err joins the lines that could not be
// decoded, they are skipped rather than failing the whole stream. Packages
// holds the package level result of every package in the stream.
type Set struct {
	Err      error
	Tests    []NestedTest
	Packages []Test
}

func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	return &Reader{r: scanner}
}

type Reader struct {
	r *bufio.Scanner
}

func (r *Reader) ReadAll(ctx context.Context) (Set, error) {
	var errs []error

	tests := make(map[string]*Test)
	order := make([]string, 0)

	packages := make(map[string]*Test)
	pkgOrder := make([]string, 0)

	for lineNum := 1; r.r.Scan(); lineNum++ {
		select {
		case <-ctx.Done():
			return Set{}, ctx.Err()
		default:
		}

		line := r.r.Bytes()
		if len(line) == 0 {
			continue
		}

		var row Entry
		if err := json.Unmarshal(line, &row); err != nil {
			errs = append(errs, fmt.Errorf("line %d: json.Unmarshal: %w", lineNum, err))
			continue
		}

		if row.TestName == "" {
			pkg, ok := packages[row.Package]
			if !ok {
				pkg = &Test{Package: row.Package}
				packages[row.Package] = pkg
				pkgOrder = append(pkgOrder, row.Package)
			}

			pkg.Update(row)
			continue
		}

		key := row.Package + "/" + row.TestName

		tc, ok := tests[key]
		if !ok {
			tc = &Test{Name: row.TestName, Package: row.Package}
			tests[key] = tc
			order = append(order, key)
		}

		tc.Update(row)
	}

	if err := r.r.Err(); err != nil {
		return Set{}, fmt.Errorf("bufio.Scanner.Err: %w", err)
	}

	pkgs := make([]Test, 0, len(pkgOrder))
	for _, name := range pkgOrder {
		pkgs = append(pkgs, *packages[name])
	}

	return Set{Err: errors.Join(errs...), Tests: buildTree(tests, order), Packages: pkgs}, nil
}

// buildTree nests every test under its closest known parent, "TestA/b/c" under
// "TestA/b". Tests keep the order they were first seen in.
func buildTree(tests map[string]*Test, order []string) []NestedTest {
	children := make(map[string][]string)
	roots := make([]string, 0)

	for _, key := range order {
		parent, ok := parentKey(tests, key)
		if !ok {
			roots = append(roots, key)
			continue
		}

		children[parent] = append(children[parent], key)
	}

	var walk func(key string) NestedTest
	walk = func(key string) NestedTest {
		tc := *tests[key]

		node := NestedTest{
			Value: tc,
			Log:   []byte(strings.Join(tc.Output, "")),
		}

		for _, child := range children[key] {
			node.Children = append(node.Children, walk(child))
		}

		return node
	}

	nested := make([]NestedTest, 0, len(roots))
	for _, key := range roots {
		nested = append(nested, walk(key))
	}

	return nested
}

func parentKey(tests map[string]*Test, key string) (string, bool) {
	tc := tests[key]

	name := tc.Name
	for {
		idx := strings.LastIndex(name, "/")
		if idx < 0 {
			return "", false
		}

		name = name[:idx]
		if _, ok := tests[tc.Package+"/"+name]; ok {
			return tc.Package + "/" + name, true
		}
	}
}
