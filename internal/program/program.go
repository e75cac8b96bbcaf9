// Package program implements the Scope / Program Manager: the stack
// of currently open scopes and top-levels the evaluator threads
// through every handler, plus the qualified-name resolution that
// walks those stacks. The stacks are explicit state carried on a
// Manager value — never process-global — so nothing here prevents a
// caller from running two independent compilations side by side.
package program

import (
	"fmt"

	"github.com/doublelove22/basecode/internal/ast"
	"github.com/doublelove22/basecode/internal/elements"
)

// QualifierError reports that a name appearing as an intermediate
// qualifier in `a::b::c` resolved to something other than a
// namespace — diagnostic P018 at the evaluator layer.
type QualifierError struct {
	Name string
}

func (e *QualifierError) Error() string {
	return fmt.Sprintf("%q is not a namespace", e.Name)
}

// Manager owns the scope stack, the top-level stack, and the element
// store they resolve against.
type Manager struct {
	Store     *elements.Store
	Builder   *elements.Builder
	scopes    []*elements.Element
	topLevels []*elements.Element
}

// NewManager constructs a Manager over an existing element store.
func NewManager(store *elements.Store) *Manager {
	return &Manager{Store: store, Builder: elements.NewBuilder(store)}
}

// PushScope opens block as the innermost scope. Every push must be
// matched by a PopScope, including on early-return diagnostic paths —
// callers are expected to defer the matching pop immediately after a
// successful push.
func (m *Manager) PushScope(block *elements.Element) {
	m.scopes = append(m.scopes, block)
}

// PopScope closes the innermost open scope.
func (m *Manager) PopScope() {
	if len(m.scopes) == 0 {
		return
	}
	m.scopes = m.scopes[:len(m.scopes)-1]
}

// CurrentScope returns the innermost open scope, or nil if none is
// open.
func (m *Manager) CurrentScope() *elements.Element {
	if len(m.scopes) == 0 {
		return nil
	}
	return m.scopes[len(m.scopes)-1]
}

// PushTopLevel opens block as the innermost top-level (module or
// program root), used to anchor qualified lookups for declarations
// like `a::b::c := …` that start resolution at the top level rather
// than the lexically current scope.
func (m *Manager) PushTopLevel(block *elements.Element) {
	m.topLevels = append(m.topLevels, block)
}

// PopTopLevel closes the innermost open top-level.
func (m *Manager) PopTopLevel() {
	if len(m.topLevels) == 0 {
		return
	}
	m.topLevels = m.topLevels[:len(m.topLevels)-1]
}

// CurrentTopLevel returns the innermost open module/program block.
func (m *Manager) CurrentTopLevel() *elements.Element {
	if len(m.topLevels) == 0 {
		return nil
	}
	return m.topLevels[len(m.topLevels)-1]
}

// identifierNamespace reports whether ident's initializer is itself a
// namespace element, and returns it. Namespace-introducing
// declarations bind the namespace element directly as the
// identifier's initializer expression (see the namespace
// materialization algorithm), so this is how a qualifier step tells
// "this name is a namespace" from "this name is an ordinary value".
func identifierNamespace(ident *elements.Element) (*elements.Element, bool) {
	if ident == nil || ident.InitializerE == nil || ident.InitializerE.Expr == nil {
		return nil, false
	}
	expr := ident.InitializerE.Expr
	if expr.Kind != elements.Namespace {
		return nil, false
	}
	return expr, true
}

// resolveIn resolves qualifiers+name starting from scope without
// consulting any enclosing scope: each qualifier must already be
// present (as a namespace) in the current leaf, descending into its
// inner block before trying the next qualifier.
func resolveIn(scope *elements.Element, qualifiers []string, name string) (*elements.Element, error) {
	cur := scope
	for _, q := range qualifiers {
		ident, ok := cur.Identifiers[q]
		if !ok {
			return nil, nil
		}
		ns, ok := identifierNamespace(ident)
		if !ok {
			return nil, &QualifierError{Name: q}
		}
		cur = ns.Inner
	}
	ident, ok := cur.Identifiers[name]
	if !ok {
		return nil, nil
	}
	return ident, nil
}

// FindIdentifier walks from the current scope up through its
// enclosing scopes (innermost first); for a qualified name it
// resolves each namespace part in turn within each candidate starting
// scope, then looks the final name up in the resolved leaf's
// identifier table. A name found but qualified through a non-namespace
// identifier stops the search immediately with a *QualifierError
// rather than continuing to outer scopes (the qualifier existed, it
// was just the wrong kind — trying an outer scope's same-named
// identifier would silently paper over the error).
func (m *Manager) FindIdentifier(qualifiers []string, name string) (*elements.Element, error) {
	for i := len(m.scopes) - 1; i >= 0; i-- {
		ident, err := resolveIn(m.scopes[i], qualifiers, name)
		if err != nil {
			return nil, err
		}
		if ident != nil {
			return ident, nil
		}
	}
	return nil, nil
}

// FindType walks the scope stack the same way FindIdentifier does,
// but against each scope's type table. Types support the same
// qualified-namespace addressing identifiers do.
func (m *Manager) FindType(qualifiers []string, name string) (*elements.Element, error) {
	for i := len(m.scopes) - 1; i >= 0; i-- {
		cur := m.scopes[i]
		ok := true
		for _, q := range qualifiers {
			ident, found := cur.Identifiers[q]
			if !found {
				ok = false
				break
			}
			ns, isNS := identifierNamespace(ident)
			if !isNS {
				return nil, &QualifierError{Name: q}
			}
			cur = ns.Inner
		}
		if !ok {
			continue
		}
		if t, found := cur.TypesMap[name]; found {
			return t, nil
		}
	}
	return nil, nil
}

// FindTypeUp looks up a single unqualified type name, walking the
// scope stack innermost-first, without any namespace resolution.
func (m *Manager) FindTypeUp(name string) *elements.Element {
	for i := len(m.scopes) - 1; i >= 0; i-- {
		if t, ok := m.scopes[i].TypesMap[name]; ok {
			return t
		}
	}
	return nil
}

// FindIdentifierType inspects the rhs of a declaration's statement to
// determine its declared type. If rhs is an explicit type_identifier
// node, the named type is resolved via FindTypeUp (B027/P002 are the
// evaluator's to report on failure, not this function's — it returns
// ok=false either way so the caller decides). If rhs carries no type
// annotation at all, ok is false and the caller must fall back to
// inference from the initializer or an unknown-type placeholder.
func (m *Manager) FindIdentifierType(rhs *ast.Node) (typ *elements.Element, ok bool) {
	if rhs == nil || rhs.Kind != ast.TypeIdentifier {
		return nil, false
	}
	name := rhs.Text()
	if t := m.FindTypeUp(name); t != nil {
		return t, true
	}
	return nil, false
}
