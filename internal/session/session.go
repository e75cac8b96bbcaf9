// Package session wires the pipeline's stages together into a single
// embeddable entry point: a Source Registry, an element Store, an
// accumulating diagnostic Result, and the current-source stack that
// lets a module path resolve relative to the file that imported it.
package session

import (
	"fmt"

	"github.com/doublelove22/basecode/internal/diag"
	"github.com/doublelove22/basecode/internal/elements"
	"github.com/doublelove22/basecode/internal/evaluator"
	"github.com/doublelove22/basecode/internal/lexer"
	"github.com/doublelove22/basecode/internal/parser"
	"github.com/doublelove22/basecode/internal/program"
	"github.com/doublelove22/basecode/internal/source"
	"github.com/doublelove22/basecode/internal/token"
)

// Option configures a Session at construction, matching the teacher's
// functional-option convention (internal/lexer.Option).
type Option func(*Session)

// WithSearchPaths sets the directories a bare (non-relative) module
// path is tried against, in order, after the importing file's own
// directory.
func WithSearchPaths(paths ...string) Option {
	return func(s *Session) {
		s.SearchPaths = append(s.SearchPaths, paths...)
	}
}

// Session owns every piece of state a single compilation (and its
// transitive module imports) shares: the registry of loaded source
// buffers, the element arena those buffers compile into, the
// diagnostic sink they all report to, and the module cache that makes
// re-importing the same canonical path idempotent.
type Session struct {
	Registry *source.Registry
	Store    *elements.Store
	Diags    *diag.Result
	Manager  *program.Manager

	SearchPaths []string

	modules    map[string]*elements.Element
	compiling  map[string]bool
	fileStack  []string
	evaluator  *evaluator.Evaluator
}

// New constructs a Session with a freshly seeded root scope (core
// types installed, root scope and top level pushed) ready to compile
// against.
func New(opts ...Option) *Session {
	store := elements.NewStore()
	mgr := program.NewManager(store)
	root := mgr.Builder.NewBlock(nil, token.Position{}, "")
	mgr.Builder.InitializeCoreTypes(root)
	mgr.PushScope(root)
	mgr.PushTopLevel(root)

	s := &Session{
		Registry:  source.NewRegistry(),
		Store:     store,
		Diags:     diag.NewResult(),
		Manager:   mgr,
		modules:   make(map[string]*elements.Element),
		compiling: make(map[string]bool),
		evaluator: evaluator.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CompileFile registers and compiles the source file at path,
// returning its module element. Re-compiling an already-compiled
// canonical path returns the cached module without re-parsing.
func (s *Session) CompileFile(path string) (*elements.Element, error) {
	canon := source.Canonical(".", path)
	if mod, ok := s.modules[canon]; ok {
		return mod, nil
	}
	f, err := s.Registry.RegisterFile(canon)
	if err != nil {
		return nil, err
	}
	return s.compileRegistered(canon, f.Text)
}

// CompileString registers an in-memory buffer under name and compiles
// it, for REPL/CLI `-e` style inline sources and embedding tests.
// Re-using the same name returns the cached module.
func (s *Session) CompileString(name, src string) (*elements.Element, error) {
	if mod, ok := s.modules[name]; ok {
		return mod, nil
	}
	s.Registry.RegisterString(name, src)
	return s.compileRegistered(name, src)
}

// compileRegistered parses and evaluates an already-registered buffer,
// pushing it onto the current-source stack for the duration so nested
// module_expression resolution sees the right importing directory.
func (s *Session) compileRegistered(canon, text string) (*elements.Element, error) {
	if s.compiling[canon] {
		return nil, fmt.Errorf("session: circular module import of %q", canon)
	}
	s.compiling[canon] = true
	s.fileStack = append(s.fileStack, canon)
	defer func() {
		s.fileStack = s.fileStack[:len(s.fileStack)-1]
		delete(s.compiling, canon)
	}()

	before := len(s.Diags.Diagnostics())
	p := parser.New(lexer.New(text), s.Diags, canon)
	prog := p.ParseProgram()
	for _, d := range s.Diags.Diagnostics()[before:] {
		if d.Fatal {
			return nil, fmt.Errorf("session: parse failed for %q", canon)
		}
	}

	ctx := evaluator.NewContext(s.Manager, s.Diags, canon, s)
	mod, ok := s.evaluator.Evaluate(ctx, s.Manager.CurrentScope(), prog)
	if !ok {
		return nil, fmt.Errorf("session: evaluation failed for %q", canon)
	}
	s.modules[canon] = mod
	return mod, nil
}

// CompileModulePath implements evaluator.ModuleLoader: it resolves
// path relative to fromDir (falling back to each configured search
// path in order when the relative candidate does not exist) and
// compiles the result, idempotently per canonical path.
func (s *Session) CompileModulePath(fromDir, path string) (*elements.Element, error) {
	canon := source.Canonical(fromDir, path)
	if mod, ok := s.modules[canon]; ok {
		return mod, nil
	}
	if s.Registry.IsRegistered(canon) {
		f, _ := s.Registry.Lookup(canon)
		return s.compileRegistered(canon, f.Text)
	}

	if f, err := s.Registry.RegisterFile(canon); err == nil {
		return s.compileRegistered(canon, f.Text)
	}

	for _, dir := range s.SearchPaths {
		candidate := source.Canonical(dir, path)
		if f, err := s.Registry.RegisterFile(candidate); err == nil {
			return s.compileRegistered(candidate, f.Text)
		}
	}
	return nil, fmt.Errorf("session: module %q not found relative to %q or any search path", path, fromDir)
}

// CurrentFile returns the canonical path of the file currently being
// compiled (the top of the current-source stack), or "" outside of a
// compilation.
func (s *Session) CurrentFile() string {
	if len(s.fileStack) == 0 {
		return ""
	}
	return s.fileStack[len(s.fileStack)-1]
}

