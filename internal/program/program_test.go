package program

import (
	"testing"

	"github.com/doublelove22/basecode/internal/elements"
	"github.com/doublelove22/basecode/internal/token"
)

func newManager() (*Manager, *elements.Element) {
	store := elements.NewStore()
	m := NewManager(store)
	root := m.Builder.NewBlock(nil, token.Position{}, "main.lang")
	m.Builder.InitializeCoreTypes(root)
	m.PushScope(root)
	m.PushTopLevel(root)
	return m, root
}

func TestFindIdentifier_UnqualifiedWalksScopesInnermostFirst(t *testing.T) {
	m, root := newManager()
	outer := m.Builder.NewIdentifier(root, token.Position{}, "", "x", 0, elements.UsageStack)
	root.Identifiers["x"] = outer

	inner := m.Builder.NewBlock(root, token.Position{}, "")
	m.PushScope(inner)
	defer m.PopScope()

	shadowed := m.Builder.NewIdentifier(inner, token.Position{}, "", "x", 0, elements.UsageStack)
	inner.Identifiers["x"] = shadowed

	found, err := m.FindIdentifier(nil, "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != shadowed {
		t.Fatalf("expected inner shadowing identifier, got %v", found)
	}

	m.PopScope()
	found, err = m.FindIdentifier(nil, "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != outer {
		t.Fatalf("expected outer identifier after inner scope closed, got %v", found)
	}
	m.PushScope(inner) // rebalance the deferred pop
}

func TestFindIdentifier_QualifiedResolvesThroughNamespaceChain(t *testing.T) {
	m, root := newManager()

	coreNS := m.Builder.NewNamespace(root, token.Position{}, "")
	coreIdent := m.Builder.NewIdentifier(root, token.Position{}, "", "core", 0, elements.UsageStack)
	coreIdent.InitializerE = m.Builder.NewInitializer(root, token.Position{}, "", coreNS)
	root.Identifiers["core"] = coreIdent

	mathNS := m.Builder.NewNamespace(coreNS.Inner, token.Position{}, "")
	mathIdent := m.Builder.NewIdentifier(coreNS.Inner, token.Position{}, "", "math", 0, elements.UsageStack)
	mathIdent.InitializerE = m.Builder.NewInitializer(coreNS.Inner, token.Position{}, "", mathNS)
	coreNS.Inner.Identifiers["math"] = mathIdent

	pi := m.Builder.NewIdentifier(mathNS.Inner, token.Position{}, "", "pi", 0, elements.UsageStack)
	mathNS.Inner.Identifiers["pi"] = pi

	found, err := m.FindIdentifier([]string{"core", "math"}, "pi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != pi {
		t.Fatalf("expected pi identifier, got %v", found)
	}
}

func TestFindIdentifier_NonNamespaceQualifierReportsError(t *testing.T) {
	m, root := newManager()
	x := m.Builder.NewIdentifier(root, token.Position{}, "", "x", 0, elements.UsageStack)
	root.Identifiers["x"] = x

	_, err := m.FindIdentifier([]string{"x"}, "y")
	if err == nil {
		t.Fatalf("expected a qualifier error")
	}
	qerr, ok := err.(*QualifierError)
	if !ok {
		t.Fatalf("expected *QualifierError, got %T", err)
	}
	if qerr.Name != "x" {
		t.Errorf("QualifierError.Name = %q, want x", qerr.Name)
	}
}

func TestFindIdentifier_UnknownNameReturnsNilNoError(t *testing.T) {
	m, _ := newManager()
	found, err := m.FindIdentifier(nil, "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != nil {
		t.Fatalf("expected nil, got %v", found)
	}
}

func TestFindTypeUp_FindsBuiltinFromNestedScope(t *testing.T) {
	m, root := newManager()
	inner := m.Builder.NewBlock(root, token.Position{}, "")
	m.PushScope(inner)
	defer m.PopScope()

	if typ := m.FindTypeUp("u32"); typ == nil || typ.TypeName != "u32" {
		t.Fatalf("expected to find u32 from nested scope, got %v", typ)
	}
	if typ := m.FindTypeUp("does_not_exist"); typ != nil {
		t.Fatalf("expected nil for unknown type name, got %v", typ)
	}
}

func TestScopeStack_PushPopIsLIFO(t *testing.T) {
	m, root := newManager()
	a := m.Builder.NewBlock(root, token.Position{}, "")
	b := m.Builder.NewBlock(root, token.Position{}, "")

	m.PushScope(a)
	m.PushScope(b)
	if m.CurrentScope() != b {
		t.Fatalf("expected current scope b")
	}
	m.PopScope()
	if m.CurrentScope() != a {
		t.Fatalf("expected current scope a after popping b")
	}
	m.PopScope()
	if m.CurrentScope() != root {
		t.Fatalf("expected current scope root after popping a")
	}
}
