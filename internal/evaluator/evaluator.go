package evaluator

import (
	"github.com/doublelove22/basecode/internal/ast"
	"github.com/doublelove22/basecode/internal/diag"
	"github.com/doublelove22/basecode/internal/elements"
)

// handlerFn builds (or composes) the element(s) for a single AST
// node, given the scope it should build into. success mirrors the
// `handler(context, &out) -> success_flag` contract: false means the
// handler already reported its own diagnostic and the caller should
// not trust out.
type handlerFn func(ev *Evaluator, ctx *Context, scope *elements.Element, node *ast.Node) (out *elements.Element, success bool)

// Evaluator owns the closed dispatch table from AST kind to handler.
// The table is built once at construction and never mutated
// afterward, matching the "avoid virtual dispatch, tables are closed
// at build time" design note.
type Evaluator struct {
	handlers map[ast.Kind]handlerFn
}

// New constructs an Evaluator with every handler registered.
func New() *Evaluator {
	ev := &Evaluator{handlers: make(map[ast.Kind]handlerFn)}
	ev.registerHandlers()
	return ev
}

func (ev *Evaluator) registerHandlers() {
	ev.handlers[ast.Program] = (*Evaluator).handleModule
	ev.handlers[ast.ModuleExpression] = (*Evaluator).handleModuleExpression
	ev.handlers[ast.Statement] = (*Evaluator).handleStatement
	ev.handlers[ast.Assignment] = (*Evaluator).handleAssignment
	ev.handlers[ast.BasicBlock] = (*Evaluator).handleBasicBlock

	ev.handlers[ast.ProcExpression] = (*Evaluator).handleProcExpression
	ev.handlers[ast.ProcCall] = (*Evaluator).handleProcCall

	ev.handlers[ast.IfExpression] = (*Evaluator).handleIfExpression
	ev.handlers[ast.ElseIfExpression] = (*Evaluator).handleIfExpression
	ev.handlers[ast.ElseExpression] = (*Evaluator).handleElseExpression

	ev.handlers[ast.StructExpression] = (*Evaluator).handleCompositeExpression
	ev.handlers[ast.UnionExpression] = (*Evaluator).handleCompositeExpression
	ev.handlers[ast.EnumExpression] = (*Evaluator).handleCompositeExpression

	ev.handlers[ast.ForIn] = (*Evaluator).handleForIn
	ev.handlers[ast.While] = (*Evaluator).handleWhile
	ev.handlers[ast.Break] = (*Evaluator).handleBreakContinue
	ev.handlers[ast.Continue] = (*Evaluator).handleBreakContinue
	ev.handlers[ast.Return] = (*Evaluator).handleReturn

	ev.handlers[ast.NamespaceExpression] = (*Evaluator).handleNamespaceExpression
	ev.handlers[ast.ImportExpression] = (*Evaluator).handleImportExpression
	ev.handlers[ast.AliasExpression] = (*Evaluator).handleAliasExpression
	ev.handlers[ast.DeferExpression] = (*Evaluator).handleKeywordWrapPassthrough
	ev.handlers[ast.WithExpression] = (*Evaluator).handleKeywordWrapPassthrough

	ev.handlers[ast.CastExpression] = (*Evaluator).handleCast
	ev.handlers[ast.TransmuteExpression] = (*Evaluator).handleTransmute

	ev.handlers[ast.UnaryOperator] = (*Evaluator).handleUnaryOperator
	ev.handlers[ast.BinaryOperator] = (*Evaluator).handleBinaryOperator
	ev.handlers[ast.SubscriptExpression] = (*Evaluator).handleSubscript
	ev.handlers[ast.Symbol] = (*Evaluator).handleSymbolReference

	ev.handlers[ast.IntLiteral] = (*Evaluator).handleIntLiteral
	ev.handlers[ast.FloatLiteral] = (*Evaluator).handleFloatLiteral
	ev.handlers[ast.BoolLiteral] = (*Evaluator).handleBoolLiteral
	ev.handlers[ast.StringLiteral] = (*Evaluator).handleStringLiteral
	ev.handlers[ast.CharLiteral] = (*Evaluator).handleCharLiteral
	ev.handlers[ast.NullLiteral] = (*Evaluator).handleNullLiteral

	ev.handlers[ast.LineComment] = (*Evaluator).handleComment
	ev.handlers[ast.BlockComment] = (*Evaluator).handleComment
	ev.handlers[ast.Attribute] = (*Evaluator).handleAttribute
	ev.handlers[ast.Directive] = (*Evaluator).handleDirective
}

// Evaluate looks up node's handler and runs it against scope. A node
// kind with no registered handler reports P071 (ast node evaluation
// failed) rather than panicking, so one missing parselet/handler pair
// degrades to a diagnostic instead of crashing the whole compilation.
func (ev *Evaluator) Evaluate(ctx *Context, scope *elements.Element, node *ast.Node) (*elements.Element, bool) {
	if node == nil {
		return nil, true
	}
	h, ok := ev.handlers[node.Kind]
	if !ok {
		ctx.Diags.Addf(diag.P071, node.Token.Pos, ctx.File, "no evaluator handler for %s node #%d", node.Kind, node.ID)
		return nil, false
	}
	out, success := h(ev, ctx, scope, node)
	if !success && !hasDiagnosticAt(ctx, node) {
		ctx.Diags.Addf(diag.P071, node.Token.Pos, ctx.File, "evaluation failed for %s node #%d", node.Kind, node.ID)
	}
	return out, success
}

// hasDiagnosticAt is a best-effort check so handlers that already
// reported a specific code (P018, P027, P002, …) don't also get a
// generic P071 stacked on top for the exact same node. It only looks
// at the most recently appended diagnostic, which covers every
// handler in this package (each reports at most one diagnostic before
// returning false).
func hasDiagnosticAt(ctx *Context, node *ast.Node) bool {
	all := ctx.Diags.Diagnostics()
	if len(all) == 0 {
		return false
	}
	last := all[len(all)-1]
	return last.Pos == node.Token.Pos
}
