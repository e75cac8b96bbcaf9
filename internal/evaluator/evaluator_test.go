package evaluator

import (
	"testing"

	"github.com/doublelove22/basecode/internal/diag"
	"github.com/doublelove22/basecode/internal/elements"
	"github.com/doublelove22/basecode/internal/lexer"
	"github.com/doublelove22/basecode/internal/parser"
	"github.com/doublelove22/basecode/internal/program"
	"github.com/doublelove22/basecode/internal/token"
)

// compile parses src and evaluates it over a freshly seeded store and
// manager, mirroring the Session's eventual driving sequence.
func compile(t *testing.T, src string) (*elements.Element, *program.Manager, *diag.Result, bool) {
	t.Helper()
	result := diag.NewResult()
	p := parser.New(lexer.New(src), result, "test.lang")
	prog := p.ParseProgram()
	if result.HasErrors() {
		t.Fatalf("unexpected parse diagnostics: %v", result.Diagnostics())
	}

	store := elements.NewStore()
	mgr := program.NewManager(store)
	root := mgr.Builder.NewBlock(nil, token.Position{}, "test.lang")
	mgr.Builder.InitializeCoreTypes(root)
	mgr.PushScope(root)
	mgr.PushTopLevel(root)

	ctx := NewContext(mgr, result, "test.lang", nil)
	ev := New()
	out, ok := ev.Evaluate(ctx, root, prog)
	if ok && out != nil && out.ModuleBlock != nil {
		// handleModule closes the module block before returning; reopen
		// it so lookups through mgr see the module's own declarations.
		mgr.PushScope(out.ModuleBlock)
		mgr.PushTopLevel(out.ModuleBlock)
	}
	return out, mgr, result, ok
}

func TestEvaluate_NumericDeclarationInfersDefaultIntegerType(t *testing.T) {
	mod, mgr, diags, ok := compile(t, "x := 1;\n")
	if !ok {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics())
	}
	_ = mod

	ident, err := mgr.FindIdentifier(nil, "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ident == nil {
		t.Fatalf("expected x to be declared")
	}
	if !ident.InferredType {
		t.Fatalf("expected inferred type flag set")
	}
	typ, ok := mgr.Store.Get(ident.TypeID)
	if !ok {
		t.Fatalf("expected resolvable declared type")
	}
	if typ.TypeName != elements.DefaultIntegerType {
		t.Fatalf("expected inferred type %q, got %q", elements.DefaultIntegerType, typ.TypeName)
	}
	if ident.InitializerE == nil || ident.InitializerE.Expr == nil {
		t.Fatalf("expected an initializer")
	}
	if ident.InitializerE.Expr.Kind != elements.Literal || ident.InitializerE.Expr.IntVal != 1 {
		t.Fatalf("expected folded int literal 1, got %+v", ident.InitializerE.Expr)
	}
}

func TestEvaluate_ExplicitTypeForwardDeclarationSkipsInference(t *testing.T) {
	_, mgr, diags, ok := compile(t, "x: u8;\n")
	if !ok {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics())
	}
	ident, _ := mgr.FindIdentifier(nil, "x")
	if ident == nil {
		t.Fatalf("expected x to be declared")
	}
	if ident.InferredType {
		t.Fatalf("expected explicit type, not inferred")
	}
	if ident.InitializerE != nil {
		t.Fatalf("expected no initializer on a bare type-annotated forward declaration")
	}
	typ, ok := mgr.Store.Get(ident.TypeID)
	if !ok || typ.TypeName != "u8" {
		t.Fatalf("expected declared type u8, got %+v", typ)
	}
}

func TestEvaluate_ConstantArithmeticFoldsToSingleLiteral(t *testing.T) {
	_, mgr, diags, ok := compile(t, "x := 2 + 3 * 4;\n")
	if !ok {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics())
	}
	ident, _ := mgr.FindIdentifier(nil, "x")
	expr := ident.InitializerE.Expr
	if expr.Kind != elements.Literal || expr.LitKind != elements.IntLiteral {
		t.Fatalf("expected a folded int literal, got %+v", expr)
	}
	if expr.IntVal != 14 {
		t.Fatalf("expected folded value 14, got %d", expr.IntVal)
	}
}

func TestEvaluate_DivisionByZeroDoesNotFold(t *testing.T) {
	_, mgr, diags, ok := compile(t, "x := 1 / 0;\n")
	if !ok {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics())
	}
	ident, _ := mgr.FindIdentifier(nil, "x")
	expr := ident.InitializerE.Expr
	if expr.Kind != elements.BinaryOperator {
		t.Fatalf("expected the unfolded binary operator to survive, got %+v", expr)
	}
}

func TestEvaluate_QualifiedDeclarationMaterializesNamespaceChain(t *testing.T) {
	_, mgr, diags, ok := compile(t, "core::math::pi := 3;\n")
	if !ok {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics())
	}

	core, err := mgr.FindIdentifier(nil, "core")
	if err != nil || core == nil {
		t.Fatalf("expected core namespace identifier, err=%v core=%v", err, core)
	}
	if core.InitializerE == nil || core.InitializerE.Expr == nil || core.InitializerE.Expr.Kind != elements.Namespace {
		t.Fatalf("expected core to bind a namespace, got %+v", core.InitializerE)
	}

	pi, err := mgr.FindIdentifier([]string{"core", "math"}, "pi")
	if err != nil {
		t.Fatalf("unexpected qualifier error: %v", err)
	}
	if pi == nil {
		t.Fatalf("expected core::math::pi to resolve")
	}
}

func TestEvaluate_AssignmentArityMismatchReportsP027(t *testing.T) {
	_, _, diags, ok := compile(t, "x := 1;\nx, x := 1;\n")
	if ok {
		t.Fatalf("expected assignment arity mismatch to fail")
	}
	found := false
	for _, d := range diags.Diagnostics() {
		if d.Code == diag.P027 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a P027 diagnostic, got %v", diags.Diagnostics())
	}
}

func TestEvaluate_NonNamespaceQualifierReportsP018(t *testing.T) {
	_, _, diags, ok := compile(t, "x := 1;\nx::y := 2;\n")
	if ok {
		t.Fatalf("expected non-namespace qualifier to fail")
	}
	found := false
	for _, d := range diags.Diagnostics() {
		if d.Code == diag.P018 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a P018 diagnostic, got %v", diags.Diagnostics())
	}
}

func TestEvaluate_ModuleExpressionWithoutLoaderReportsC021(t *testing.T) {
	_, _, diags, ok := compile(t, "module \"other.lang\"\n")
	if ok {
		t.Fatalf("expected missing-loader module expression to fail")
	}
	found := false
	for _, d := range diags.Diagnostics() {
		if d.Code == diag.C021 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a C021 diagnostic, got %v", diags.Diagnostics())
	}
}

// stubLoader answers every module path with the same pre-compiled
// element, letting the re-import idempotence test assert on identity
// without a real Session/source-registry.
type stubLoader struct {
	calls int
	mod   *elements.Element
}

func (s *stubLoader) CompileModulePath(fromDir, path string) (*elements.Element, error) {
	s.calls++
	return s.mod, nil
}

func TestEvaluate_ReimportingSameModulePathIsIdempotentAtTheLoader(t *testing.T) {
	result := diag.NewResult()
	src := "module \"a.lang\"\nmodule \"a.lang\"\n"
	p := parser.New(lexer.New(src), result, "test.lang")
	prog := p.ParseProgram()
	if result.HasErrors() {
		t.Fatalf("unexpected parse diagnostics: %v", result.Diagnostics())
	}

	store := elements.NewStore()
	mgr := program.NewManager(store)
	root := mgr.Builder.NewBlock(nil, token.Position{}, "test.lang")
	mgr.Builder.InitializeCoreTypes(root)
	mgr.PushScope(root)
	mgr.PushTopLevel(root)

	loader := &stubLoader{mod: mgr.Builder.NewModule(root, token.Position{}, "a.lang", "a.lang")}
	ctx := NewContext(mgr, result, "test.lang", loader)
	ev := New()
	_, ok := ev.Evaluate(ctx, root, prog)
	if !ok {
		t.Fatalf("unexpected diagnostics: %v", result.Diagnostics())
	}
	if loader.calls != 2 {
		t.Fatalf("expected the loader to be asked both times (idempotence is the loader's contract), got %d calls", loader.calls)
	}
}

func TestEvaluate_ProcExpressionBuildsParamsReturnsAndInstance(t *testing.T) {
	_, mgr, diags, ok := compile(t, "add := proc(a: u32, b: u32): u32 { return a; };\n")
	if !ok {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics())
	}
	ident, _ := mgr.FindIdentifier(nil, "add")
	if ident == nil {
		t.Fatalf("expected add to be declared")
	}
	procType := ident.InitializerE.Expr
	if procType.Kind != elements.ProcedureType {
		t.Fatalf("expected a procedure type initializer, got %+v", procType)
	}
	if len(procType.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(procType.Params))
	}
	if len(procType.Returns) != 1 {
		t.Fatalf("expected 1 return, got %d", len(procType.Returns))
	}
	if len(procType.Instances) != 1 {
		t.Fatalf("expected one procedure instance from the body block")
	}
	if ident.TypeID != procType.ID {
		t.Fatalf("expected the declared type to be the procedure type itself")
	}
}

func TestEvaluate_IfElseIfElseChainBuildsNestedIfElements(t *testing.T) {
	src := `a := 1;
if a {
	b := 1;
} else if a {
	c := 1;
} else {
	d := 1;
}
`
	_, _, diags, ok := compile(t, src)
	if !ok {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics())
	}
}

func TestEvaluate_WhileReusesIfElementShape(t *testing.T) {
	_, mgr, diags, ok := compile(t, "a := 1;\nwhile a {\n\tb := 1;\n}\n")
	if !ok {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics())
	}
	_ = mgr
}

func TestEvaluate_BreakContinueBuildNamedLabelMarkers(t *testing.T) {
	_, _, diags, ok := compile(t, "while 1 {\n\tbreak;\n\tcontinue;\n}\n")
	if !ok {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics())
	}
}

func TestEvaluate_StructExpressionBuildsTypedAndInferredFields(t *testing.T) {
	src := `point := struct {
	x: u32;
	y := 1;
};
`
	_, mgr, diags, ok := compile(t, src)
	if !ok {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics())
	}
	ident, _ := mgr.FindIdentifier(nil, "point")
	t2 := ident.InitializerE.Expr
	if t2.Kind != elements.CompositeType || t2.CompositeKind != elements.StructTag {
		t.Fatalf("expected a struct composite type, got %+v", t2)
	}
	if len(t2.FieldOrder) != 2 {
		t.Fatalf("expected 2 fields, got %d: %v", len(t2.FieldOrder), t2.FieldOrder)
	}
}

func TestEvaluate_NamespaceExpressionEvaluatesBlockIntoInnerScope(t *testing.T) {
	src := `core := namespace {
	answer := 1;
};
`
	_, mgr, diags, ok := compile(t, src)
	if !ok {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics())
	}
	answer, err := mgr.FindIdentifier([]string{"core"}, "answer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer == nil {
		t.Fatalf("expected core::answer to resolve")
	}
}

func TestEvaluate_LabelAttachesToFollowingLoop(t *testing.T) {
	src := `outer: while 1 {
	break;
}
`
	mod, _, diags, ok := compile(t, src)
	if !ok {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics())
	}
	block := mod.ModuleBlock
	if len(block.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(block.Statements))
	}
	loop := block.Statements[0]
	if loop.Kind != elements.IfElement {
		t.Fatalf("expected the while loop's if_element shape, got %s", loop.Kind)
	}
	if len(loop.Labels) != 1 || loop.Labels[0].LabelName != "outer" {
		t.Fatalf("expected the label to attach to the following loop, got %+v", loop.Labels)
	}
}

func TestEvaluate_BuiltinDirectiveReseedsCoreTypes(t *testing.T) {
	_, mgr, diags, ok := compile(t, "#builtin;\n")
	if !ok {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics())
	}
	if typ := mgr.FindTypeUp("u32"); typ == nil {
		t.Fatalf("expected u32 to remain resolvable after the builtin directive re-runs")
	}
}

// Universal invariant: every element reachable from the store is
// exactly the element its own id resolves back to.
func TestEvaluate_EveryElementRoundTripsThroughItsOwnStoreID(t *testing.T) {
	_, mgr, diags, ok := compile(t, `
x := 1;
y := 2.5;
p := proc(a: u32): u32 { return a; };
s := struct { a: u32; };
core::v := 1;
`)
	if !ok {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics())
	}
	n := 0
	mgr.Store.Walk(func(e *elements.Element) {
		n++
		got, ok := mgr.Store.Get(e.ID)
		if !ok || got != e {
			t.Fatalf("element %d (%s) does not round-trip through the store", e.ID, e.Kind)
		}
	})
	if n == 0 {
		t.Fatalf("expected at least one element in the store")
	}
}

// Universal invariant: a scope's identifier table holds exactly one
// slot per name. Writing `x := 1;` a second time resolves `x` to the
// identifier already declared by the first and produces a plain
// assignment over it (handleAssignment's existing-identifier branch)
// rather than a second declaration — the identifier's own declared
// initializer is therefore unchanged by a later assignment.
func TestEvaluate_SecondAssignmentToExistingNameReusesItsSingleSlot(t *testing.T) {
	_, mgr, diags, ok := compile(t, "x := 1;\nx := 2;\n")
	if !ok {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics())
	}
	ident, _ := mgr.FindIdentifier(nil, "x")
	if ident.InitializerE.Expr.IntVal != 1 {
		t.Fatalf("expected the declaration-time initializer to stay 1, got %+v", ident.InitializerE.Expr)
	}
	root := mgr.CurrentTopLevel()
	count := 0
	for _, name := range root.Order {
		if name == "x" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected x to be declared exactly once, got %d entries in Order", count)
	}
	if len(root.Identifiers) != 1 || root.Identifiers["x"] != ident {
		t.Fatalf("expected exactly one live slot for x in Identifiers")
	}
}

func TestEvaluate_UnknownTypeAnnotationReportsP002(t *testing.T) {
	_, _, diags, ok := compile(t, "x: does_not_exist;\n")
	if ok {
		t.Fatalf("expected an unresolved type annotation to fail")
	}
	found := false
	for _, d := range diags.Diagnostics() {
		if d.Code == diag.P002 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a P002 diagnostic, got %v", diags.Diagnostics())
	}
}
