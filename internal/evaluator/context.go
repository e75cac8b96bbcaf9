// Package evaluator implements the AST Evaluator / Semantic
// Elaborator: a dispatch table from AST node kind to a handler that
// constructs or composes program elements, drives recursive module
// compilation, and populates scope tables, plus the Identifier
// Introduction and Namespace Materialization algorithm every
// declaration-shaped statement funnels through.
package evaluator

import (
	"path/filepath"

	"github.com/doublelove22/basecode/internal/diag"
	"github.com/doublelove22/basecode/internal/elements"
	"github.com/doublelove22/basecode/internal/program"
)

// ModuleLoader resolves and compiles an imported module by path,
// returning the compiled module element. The Session supplies the
// concrete implementation (it owns the source registry the loader
// reads from); evaluator only depends on this narrow interface so the
// module_expression handler can recurse into module compilation
// without importing the session package back.
type ModuleLoader interface {
	CompileModulePath(fromDir, path string) (*elements.Element, error)
}

// Context is the per-compilation state threaded through every
// handler: the scope/program manager, the accumulating diagnostic
// result, the current source file's path (for diagnostics and
// relative import resolution), and the module loader callback.
type Context struct {
	Manager *program.Manager
	Diags   *diag.Result
	File    string
	Loader  ModuleLoader
}

// NewContext constructs a Context over an already-initialized
// program.Manager (core types seeded, root scope pushed) for
// compiling the single source file at file.
func NewContext(mgr *program.Manager, diags *diag.Result, file string, loader ModuleLoader) *Context {
	return &Context{Manager: mgr, Diags: diags, File: file, Loader: loader}
}

// Dir returns the directory import paths in this context resolve
// relative to.
func (c *Context) Dir() string {
	return filepath.Dir(c.File)
}
