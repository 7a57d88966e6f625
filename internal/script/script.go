// Package script runs interpreted Go scripts as quad processors.
//
// A script is a Go source file in package main defining
//
//	func Process(s, p, o, c string) [][4]string
//
// Terms are passed and returned in N-Triples syntax; an empty context is
// the default graph. Each returned row is one output quad. Scripts must be
// pure per call: instances are pooled and never share state.
package script

import (
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// EntryPoint is the function every script must define.
const EntryPoint = "Process"

// allowedImports lists the packages a script may import.
var allowedImports = map[string]bool{
	"bytes":           true,
	"encoding/base64": true,
	"encoding/hex":    true,
	"encoding/json":   true,
	"fmt":             true,
	"math":            true,
	"net/url":         true,
	"regexp":          true,
	"sort":            true,
	"strconv":         true,
	"strings":         true,
	"time":            true,
	"unicode":         true,
	"unicode/utf8":    true,
}

// ProcessFunc is the signature of a script's entry point.
type ProcessFunc func(s, p, o, c string) [][4]string

// Error reports a script that cannot be loaded or that failed at runtime.
type Error struct {
	Script string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("script %s: %v", e.Script, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Script is validated script source. Instances are created from it on
// demand.
type Script struct {
	Name   string
	source string
}

// Load reads and validates a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Compile(path, string(data))
}

// Compile validates script source. The package clause may be omitted.
func Compile(name, src string) (*Script, error) {
	if !strings.HasPrefix(strings.TrimSpace(stripComments(src)), "package ") {
		src = "package main\n\n" + src
	}
	if err := checkImports(name, src); err != nil {
		return nil, &Error{Script: name, Err: err}
	}
	s := &Script{Name: name, source: src}
	// Surfaces syntax and signature errors at load time.
	if _, err := s.Instance(); err != nil {
		return nil, err
	}
	return s, nil
}

// stripComments drops leading line comments so that a script starting
// with a comment header is still recognized as having a package clause.
func stripComments(src string) string {
	for {
		src = strings.TrimLeft(src, " \t\r\n")
		if !strings.HasPrefix(src, "//") {
			return src
		}
		nl := strings.IndexByte(src, '\n')
		if nl < 0 {
			return ""
		}
		src = src[nl+1:]
	}
}

func checkImports(name, src string) error {
	f, err := parser.ParseFile(token.NewFileSet(), name, src, parser.ImportsOnly)
	if err != nil {
		return err
	}
	if f.Name.Name != "main" {
		return fmt.Errorf("package must be main, got %s", f.Name.Name)
	}
	var forbidden []string
	for _, imp := range f.Imports {
		path, _ := strconv.Unquote(imp.Path.Value)
		if !allowedImports[path] {
			forbidden = append(forbidden, path)
		}
	}
	if len(forbidden) > 0 {
		sort.Strings(forbidden)
		return fmt.Errorf("forbidden imports: %s", strings.Join(forbidden, ", "))
	}
	return nil
}

// Instance creates a fresh interpreter for the script and returns its
// entry point.
func (s *Script) Instance() (ProcessFunc, error) {
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, &Error{Script: s.Name, Err: err}
	}
	if _, err := i.Eval(s.source); err != nil {
		return nil, &Error{Script: s.Name, Err: err}
	}
	v, err := i.Eval("main." + EntryPoint)
	if err != nil {
		return nil, &Error{Script: s.Name, Err: fmt.Errorf("%s not defined: %w", EntryPoint, err)}
	}
	fn, ok := v.Interface().(func(string, string, string, string) [][4]string)
	if !ok {
		return nil, &Error{Script: s.Name, Err: fmt.Errorf("%s must have signature func(s, p, o, c string) [][4]string", EntryPoint)}
	}
	return fn, nil
}
