package evaluator

import (
	"github.com/doublelove22/basecode/internal/ast"
	"github.com/doublelove22/basecode/internal/elements"
)

// handleIfExpression serves both if_expression and elseif_expression
// (they share a handler, per the dispatch table): the else-branch
// (node.Rhs, an elseif_expression or else_expression) recurses through
// the same Evaluate dispatch that reaches this handler again or
// handleElseExpression.
func (ev *Evaluator) handleIfExpression(ctx *Context, scope *elements.Element, node *ast.Node) (*elements.Element, bool) {
	predicate, ok := ev.Evaluate(ctx, scope, node.Lhs)
	if !ok {
		return nil, false
	}

	var trueBranch *elements.Element
	if len(node.Children) > 0 {
		trueBranch, ok = ev.Evaluate(ctx, scope, node.Children[0])
		if !ok {
			return nil, false
		}
	}

	var falseBranch *elements.Element
	if node.Rhs != nil {
		falseBranch, ok = ev.Evaluate(ctx, scope, node.Rhs)
		if !ok {
			return nil, false
		}
	}

	return ctx.Manager.Builder.NewIfElement(scope, node.Token.Pos, ctx.File, predicate, trueBranch, falseBranch), true
}

// handleElseExpression evaluates the else-branch body (if present) and
// returns its element directly — it has no element shape of its own,
// it is simply the if_element's false-branch value.
func (ev *Evaluator) handleElseExpression(ctx *Context, scope *elements.Element, node *ast.Node) (*elements.Element, bool) {
	if len(node.Children) == 0 {
		return nil, true
	}
	return ev.Evaluate(ctx, scope, node.Children[0])
}

// handleForIn builds the loop's scope, its induction identifier, and
// its body — the closed element kind set has no dedicated loop
// element, and no VM stride/iteration codegen belongs at this layer,
// so the for_in handler's product IS the scope block it builds (the
// same shape handleBasicBlock produces for any other nested block).
// The iterable is evaluated in the enclosing scope (it names something
// from outside the loop) before the induction variable is installed.
func (ev *Evaluator) handleForIn(ctx *Context, scope *elements.Element, node *ast.Node) (*elements.Element, bool) {
	iterable, ok := ev.Evaluate(ctx, scope, node.Rhs)
	if !ok {
		return nil, false
	}

	block := ctx.Manager.Builder.NewBlock(scope, node.Token.Pos, ctx.File)
	ctx.Manager.PushScope(block)
	defer ctx.Manager.PopScope()

	if node.Lhs != nil && node.Lhs.Kind == ast.Symbol {
		name, _ := elements.MakeQualifiedSymbol(node.Lhs)
		induction := ctx.Manager.Builder.NewIdentifier(block, node.Lhs.Token.Pos, ctx.File, name, 0, elements.UsageStack)
		induction.InitializerE = ctx.Manager.Builder.NewInitializer(block, node.Lhs.Token.Pos, ctx.File, iterable)
		placeholder := ctx.Manager.Builder.MakeUnknownTypeFromFindResult(block, node.Lhs.Token.Pos, ctx.File, induction.ID)
		induction.TypeID = placeholder.ID
		induction.InferredType = true
		block.Identifiers[name] = induction
		block.Order = append(block.Order, name)
	}

	if len(node.Children) > 0 && !ev.evalBlockChildren(ctx, block, node.Children[0].Children) {
		return nil, false
	}
	return block, true
}

// handleWhile adapts the closed element kind set's if_element shape
// to represent a conditional loop: predicate holds the loop condition
// and true_branch holds the body block. No dedicated loop element
// exists for while any more than for for_in; reusing if_element keeps
// "a body that runs conditionally on a predicate" in one shape instead
// of inventing a second near-identical one.
func (ev *Evaluator) handleWhile(ctx *Context, scope *elements.Element, node *ast.Node) (*elements.Element, bool) {
	predicate, ok := ev.Evaluate(ctx, scope, node.Lhs)
	if !ok {
		return nil, false
	}
	var body *elements.Element
	if len(node.Children) > 0 {
		body, ok = ev.Evaluate(ctx, scope, node.Children[0])
		if !ok {
			return nil, false
		}
	}
	return ctx.Manager.Builder.NewIfElement(scope, node.Token.Pos, ctx.File, predicate, body, nil), true
}

// handleBreakContinue builds a bare label element naming the control
// transfer ("break"/"continue"); neither keyword carries any operand
// in this grammar, so a named marker is the whole of its shape.
func (ev *Evaluator) handleBreakContinue(ctx *Context, scope *elements.Element, node *ast.Node) (*elements.Element, bool) {
	return ctx.Manager.Builder.NewLabel(scope, node.Token.Pos, ctx.File, node.Token.Kind.String()), true
}

// handleReturn evaluates each already-flattened return expression (the
// parser flattens the right-leaning pair chain into node.Children) and
// builds the ordered return_element.
func (ev *Evaluator) handleReturn(ctx *Context, scope *elements.Element, node *ast.Node) (*elements.Element, bool) {
	exprs := make([]*elements.Element, 0, len(node.Children))
	for _, c := range node.Children {
		e, ok := ev.Evaluate(ctx, scope, c)
		if !ok {
			return nil, false
		}
		exprs = append(exprs, e)
	}
	return ctx.Manager.Builder.NewReturnElement(scope, node.Token.Pos, ctx.File, exprs), true
}
