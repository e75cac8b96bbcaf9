package parser

import (
	"testing"

	"github.com/doublelove22/basecode/internal/ast"
	"github.com/doublelove22/basecode/internal/diag"
	"github.com/doublelove22/basecode/internal/lexer"
	"github.com/doublelove22/basecode/internal/token"
)

func parse(t *testing.T, src string) (*ast.Node, *Parser) {
	t.Helper()
	result := diag.NewResult()
	p := New(lexer.New(src), result, "test.lang")
	prog := p.ParseProgram()
	return prog, p
}

func TestParseProgram_NumericDeclarationAndAssignment(t *testing.T) {
	prog, p := parse(t, "x := 1;\n")
	if p.result.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", p.Errors())
	}
	if len(prog.Children) != 1 {
		t.Fatalf("expected one top-level statement, got %d", len(prog.Children))
	}
	stmt := prog.Children[0]
	if stmt.Kind != ast.Statement {
		t.Fatalf("expected statement node, got %s", stmt.Kind)
	}
	if stmt.Rhs == nil || stmt.Rhs.Kind != ast.Assignment {
		t.Fatalf("expected assignment rhs, got %v", stmt.Rhs)
	}
}

func TestParseProgram_QualifiedSymbol(t *testing.T) {
	prog, p := parse(t, "a::b::c;\n")
	if p.result.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", p.Errors())
	}
	sym := prog.Children[0].Rhs
	if sym.Kind != ast.Symbol || len(sym.Children) != 3 {
		t.Fatalf("expected a 3-part qualified symbol, got %+v", sym)
	}
}

func TestParseProgram_IfElseIfElseChain(t *testing.T) {
	src := `if a {
		b;
	} else if c {
		d;
	} else {
		e;
	}
	`
	prog, p := parse(t, src)
	if p.result.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", p.Errors())
	}
	ifNode := prog.Children[0]
	if ifNode.Kind != ast.IfExpression {
		t.Fatalf("expected if_expression, got %s", ifNode.Kind)
	}
	elseIf := ifNode.Rhs
	if elseIf == nil || elseIf.Kind != ast.ElseIfExpression {
		t.Fatalf("expected elseif_expression rhs, got %v", elseIf)
	}
	elseNode := elseIf.Rhs
	if elseNode == nil || elseNode.Kind != ast.ElseExpression {
		t.Fatalf("expected else_expression rhs, got %v", elseNode)
	}
}

func TestParseProgram_ForInAndWhile(t *testing.T) {
	prog, p := parse(t, "for item in items { use(item); }\nwhile cond { step(); }\n")
	if p.result.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", p.Errors())
	}
	if prog.Children[0].Kind != ast.ForIn {
		t.Fatalf("expected for_in, got %s", prog.Children[0].Kind)
	}
	if prog.Children[1].Kind != ast.While {
		t.Fatalf("expected while, got %s", prog.Children[1].Kind)
	}
}

func TestParseProgram_ProcExpressionWithReturns(t *testing.T) {
	prog, p := parse(t, "add := proc(a: s32, b: s32): s32 { return a + b; };\n")
	if p.result.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", p.Errors())
	}
	assign := prog.Children[0].Rhs
	proc := assign.Rhs
	if proc.Kind != ast.ProcExpression {
		t.Fatalf("expected proc_expression, got %s", proc.Kind)
	}
	if len(proc.Lhs.Children) != 2 {
		t.Fatalf("expected two parameters, got %d", len(proc.Lhs.Children))
	}
	if proc.Rhs == nil || len(proc.Rhs.Children) != 1 {
		t.Fatalf("expected one return type, got %v", proc.Rhs)
	}
	if len(proc.Children) != 1 || proc.Children[0].Kind != ast.BasicBlock {
		t.Fatalf("expected a body block child, got %+v", proc.Children)
	}
}

func TestParseProgram_StructExpression(t *testing.T) {
	prog, p := parse(t, "Point := struct { x: s32; y: s32; };\n")
	if p.result.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", p.Errors())
	}
	structNode := prog.Children[0].Rhs.Rhs
	if structNode.Kind != ast.StructExpression {
		t.Fatalf("expected struct_expression, got %s", structNode.Kind)
	}
	if len(structNode.Children) != 1 || structNode.Children[0].Kind != ast.BasicBlock {
		t.Fatalf("expected a body block child, got %+v", structNode.Children)
	}
	body := structNode.Children[0]
	if len(body.Children) != 2 {
		t.Fatalf("expected two field statements, got %d", len(body.Children))
	}
}

func TestParseProgram_ImportFrom(t *testing.T) {
	prog, p := parse(t, "import thing from other;\n")
	if p.result.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", p.Errors())
	}
	imp := prog.Children[0]
	if imp.Kind != ast.ImportExpression {
		t.Fatalf("expected import_expression, got %s", imp.Kind)
	}
	if imp.Lhs == nil || imp.Rhs == nil {
		t.Fatalf("expected both imported symbol and from clause, got lhs=%v rhs=%v", imp.Lhs, imp.Rhs)
	}
}

func TestParseProgram_CastExpression(t *testing.T) {
	prog, p := parse(t, "y := cast<s64>(x);\n")
	if p.result.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", p.Errors())
	}
	cast := prog.Children[0].Rhs.Rhs
	if cast.Kind != ast.CastExpression {
		t.Fatalf("expected cast_expression, got %s", cast.Kind)
	}
	if cast.Lhs == nil || cast.Lhs.Kind != ast.TypeIdentifier {
		t.Fatalf("expected type_identifier lhs, got %v", cast.Lhs)
	}
}

func TestParseProgram_AttributeAttachesToNextStatement(t *testing.T) {
	prog, p := parse(t, "@inline\nadd := proc() {};\n")
	if p.result.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", p.Errors())
	}
	stmt := prog.Children[0]
	assign := stmt.Rhs
	found := false
	for _, c := range assign.Children {
		if c.Kind == ast.Attribute && c.Text() == "inline" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected inline attribute attached to the assignment, got %+v", assign.Children)
	}
}

func TestParseProgram_ArrayAndSpreadTypeIdentifier(t *testing.T) {
	src := "f := proc(xs: [8]s32, rest: ...s32) {};\n"
	prog, p := parse(t, src)
	if p.result.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", p.Errors())
	}
	proc := prog.Children[0].Rhs.Rhs
	params := proc.Lhs.Children
	if len(params) != 2 {
		t.Fatalf("expected two parameters, got %d", len(params))
	}
	arrType := params[0].Rhs
	if arrType == nil || !arrType.HasFlag(ast.FlagArray) {
		t.Fatalf("expected array flag on first parameter type")
	}
	spreadType := params[1].Rhs
	if spreadType == nil || !spreadType.HasFlag(ast.FlagSpread) {
		t.Fatalf("expected spread flag on second parameter type")
	}
}

func TestParseProgram_MissingSemicolonReportsB016AndRecovers(t *testing.T) {
	prog, p := parse(t, "x := 1\ny := 2;\n")
	if !p.result.HasErrors() {
		t.Fatalf("expected a missing-terminator diagnostic")
	}
	foundCode := false
	for _, d := range p.Errors() {
		if d.Code == diag.B016 {
			foundCode = true
		}
	}
	if !foundCode {
		t.Fatalf("expected B016 among diagnostics, got %+v", p.Errors())
	}
	if len(prog.Children) != 2 {
		t.Fatalf("expected the parser to recover and parse both statements, got %d", len(prog.Children))
	}
}

func TestParseProgram_UndefinedPrefixReportsB021(t *testing.T) {
	_, p := parse(t, "; := 1;\n")
	found := false
	for _, d := range p.Errors() {
		if d.Code == diag.B021 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected B021 for a token with no prefix parselet, got %+v", p.Errors())
	}
}

func TestParseProgram_Label(t *testing.T) {
	prog, p := parse(t, "outer: while cond { break; }\n")
	if p.result.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", p.Errors())
	}
	if len(prog.Children) < 2 {
		t.Fatalf("expected a label node followed by the while, got %+v", prog.Children)
	}
	if prog.Children[0].Kind != ast.Label {
		t.Fatalf("expected a label node first, got %s", prog.Children[0].Kind)
	}
	if prog.Children[1].Kind != ast.While {
		t.Fatalf("expected the while loop next, got %s", prog.Children[1].Kind)
	}
}

func TestParseExpression_ExponentIsRightAssociative(t *testing.T) {
	result := diag.NewResult()
	p := New(lexer.New("2 ^ 3 ^ 2;"), result, "test.lang")
	prog := p.ParseProgram()
	expr := prog.Children[0].Rhs
	if expr.Kind != ast.BinaryOperator || expr.Token.Kind != token.CARET {
		t.Fatalf("expected top-level '^', got %+v", expr)
	}
	if expr.Rhs == nil || expr.Rhs.Kind != ast.BinaryOperator || expr.Rhs.Token.Kind != token.CARET {
		t.Fatalf("expected right-associative nesting on rhs, got %+v", expr.Rhs)
	}
}

func TestParseExpression_CallAndSubscript(t *testing.T) {
	prog, p := parse(t, "r := f(1, 2)[0];\n")
	if p.result.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", p.Errors())
	}
	expr := prog.Children[0].Rhs.Rhs
	if expr.Kind != ast.SubscriptExpression {
		t.Fatalf("expected subscript_expression at top, got %s", expr.Kind)
	}
	call := expr.Lhs
	if call.Kind != ast.ProcCall {
		t.Fatalf("expected proc_call target, got %s", call.Kind)
	}
	if len(call.Rhs.Children) != 2 {
		t.Fatalf("expected two call arguments, got %d", len(call.Rhs.Children))
	}
}
