package evaluator

import (
	"strings"

	"github.com/doublelove22/basecode/internal/ast"
	"github.com/doublelove22/basecode/internal/diag"
	"github.com/doublelove22/basecode/internal/elements"
	"github.com/doublelove22/basecode/internal/program"
	"github.com/doublelove22/basecode/internal/token"
)

// --- literals ---------------------------------------------------------

// handleIntLiteral dispatches on the token's number metadata: an
// integer literal parses into a uint64 honoring its lexical radix;
// conversion failure (overflow, underflow, or an inconvertible
// lexeme) is P041.
func (ev *Evaluator) handleIntLiteral(ctx *Context, scope *elements.Element, node *ast.Node) (*elements.Element, bool) {
	v, outcome := node.Token.ParseInt()
	if outcome != token.ParseSuccess {
		ctx.Diags.Addf(diag.P041, node.Token.Pos, ctx.File, "invalid integer literal %q", node.Token.Literal)
		return nil, false
	}
	return ctx.Manager.Builder.NewIntLiteral(scope, node.Token.Pos, ctx.File, v, false), true
}

func (ev *Evaluator) handleFloatLiteral(ctx *Context, scope *elements.Element, node *ast.Node) (*elements.Element, bool) {
	v, outcome := node.Token.ParseFloat()
	if outcome != token.ParseSuccess {
		ctx.Diags.Addf(diag.P041, node.Token.Pos, ctx.File, "invalid float literal %q", node.Token.Literal)
		return nil, false
	}
	return ctx.Manager.Builder.NewFloatLiteral(scope, node.Token.Pos, ctx.File, v), true
}

func (ev *Evaluator) handleBoolLiteral(ctx *Context, scope *elements.Element, node *ast.Node) (*elements.Element, bool) {
	v, outcome := node.Token.ParseBool()
	if outcome != token.ParseSuccess {
		ctx.Diags.Addf(diag.P041, node.Token.Pos, ctx.File, "invalid bool literal %q", node.Token.Literal)
		return nil, false
	}
	return ctx.Manager.Builder.NewBoolLiteral(scope, node.Token.Pos, ctx.File, v), true
}

func (ev *Evaluator) handleStringLiteral(ctx *Context, scope *elements.Element, node *ast.Node) (*elements.Element, bool) {
	return ctx.Manager.Builder.NewStringLiteral(scope, node.Token.Pos, ctx.File, node.Token.Literal), true
}

func (ev *Evaluator) handleCharLiteral(ctx *Context, scope *elements.Element, node *ast.Node) (*elements.Element, bool) {
	runes := []rune(node.Token.Literal)
	var r rune
	if len(runes) > 0 {
		r = runes[0]
	}
	return ctx.Manager.Builder.NewCharLiteral(scope, node.Token.Pos, ctx.File, r), true
}

func (ev *Evaluator) handleNullLiteral(ctx *Context, scope *elements.Element, node *ast.Node) (*elements.Element, bool) {
	return ctx.Manager.Builder.NewNullLiteral(scope, node.Token.Pos, ctx.File), true
}

// --- symbol references ------------------------------------------------

// qualifiedText renders qualifiers+name back into `a::b::c` form for
// the identifier_reference's display/debug field.
func qualifiedText(qualifiers []string, name string) string {
	if len(qualifiers) == 0 {
		return name
	}
	return strings.Join(append(append([]string{}, qualifiers...), name), "::")
}

// handleSymbolReference resolves a bare (possibly qualified) symbol
// used in expression position into an identifier_reference. An
// unresolved name is not itself an error here — unresolved-ness only
// becomes an error when something downstream requires a concrete
// binding (matching the unknown-type non-goal-until-consumed rule);
// a non-namespace used as an intermediate qualifier is P018, which is
// always an error regardless of what consumes the reference.
func (ev *Evaluator) handleSymbolReference(ctx *Context, scope *elements.Element, node *ast.Node) (*elements.Element, bool) {
	name, qualifiers := elements.MakeQualifiedSymbol(node)
	ref := ctx.Manager.Builder.NewIdentifierReference(scope, node.Token.Pos, ctx.File, qualifiedText(qualifiers, name), 0)

	resolved, err := ctx.Manager.FindIdentifier(qualifiers, name)
	if err != nil {
		if qerr, ok := err.(*program.QualifierError); ok {
			ctx.Diags.Addf(diag.P018, node.Token.Pos, ctx.File, "%q is not a namespace", qerr.Name)
		}
		return ref, false
	}
	if resolved != nil {
		ref.ResolvedID = resolved.ID
	}
	return ref, true
}

// --- operators ----------------------------------------------------

func tokenToBinaryOp(k token.Kind) elements.OpKind {
	switch k {
	case token.PLUS:
		return elements.OpAdd
	case token.MINUS:
		return elements.OpSub
	case token.STAR:
		return elements.OpMul
	case token.SLASH:
		return elements.OpDiv
	case token.PERCENT:
		return elements.OpMod
	case token.CARET:
		return elements.OpExp
	case token.AMP:
		return elements.OpBitAnd
	case token.PIPE:
		return elements.OpBitOr
	case token.AND_AND:
		return elements.OpLogicalAnd
	case token.OR_OR:
		return elements.OpLogicalOr
	case token.EQ:
		return elements.OpEq
	case token.NEQ:
		return elements.OpNeq
	case token.LT:
		return elements.OpLt
	case token.GT:
		return elements.OpGt
	case token.LT_EQ:
		return elements.OpLtEq
	case token.GT_EQ:
		return elements.OpGtEq
	case token.SHL:
		return elements.OpShl
	case token.SHR:
		return elements.OpShr
	default:
		return elements.OpUnknown
	}
}

func tokenToUnaryOp(k token.Kind) elements.OpKind {
	switch k {
	case token.MINUS:
		return elements.OpNeg
	case token.BANG:
		return elements.OpLogicalNot
	case token.TILDE:
		return elements.OpBitNot
	case token.AMP:
		return elements.OpAddressOf
	default:
		return elements.OpUnknown
	}
}

func (ev *Evaluator) handleBinaryOperator(ctx *Context, scope *elements.Element, node *ast.Node) (*elements.Element, bool) {
	lhs, ok1 := ev.Evaluate(ctx, scope, node.Lhs)
	rhs, ok2 := ev.Evaluate(ctx, scope, node.Rhs)
	if !ok1 || !ok2 {
		return nil, false
	}
	op := tokenToBinaryOp(node.Token.Kind)
	return ctx.Manager.Builder.NewBinaryOperator(scope, node.Token.Pos, ctx.File, op, lhs, rhs), true
}

func (ev *Evaluator) handleUnaryOperator(ctx *Context, scope *elements.Element, node *ast.Node) (*elements.Element, bool) {
	operand, ok := ev.Evaluate(ctx, scope, node.Lhs)
	if !ok {
		return nil, false
	}
	op := tokenToUnaryOp(node.Token.Kind)
	return ctx.Manager.Builder.NewUnaryOperator(scope, node.Token.Pos, ctx.File, op, operand), true
}

func (ev *Evaluator) handleSubscript(ctx *Context, scope *elements.Element, node *ast.Node) (*elements.Element, bool) {
	target, ok1 := ev.Evaluate(ctx, scope, node.Lhs)
	index, ok2 := ev.Evaluate(ctx, scope, node.Rhs)
	if !ok1 || !ok2 {
		return nil, false
	}
	return ctx.Manager.Builder.NewBinaryOperator(scope, node.Token.Pos, ctx.File, elements.OpSubscript, target, index), true
}

// --- cast / transmute ---------------------------------------------------

// resolveTypeNode resolves a type_identifier AST node against scope,
// reporting P002 on failure. Array/pointer flags on the node are not
// re-wrapped here — that belongs to whatever constructs the owning
// array_type/pointer_type element around the resolved base type
// (field and parameter construction do this).
func resolveTypeNode(ctx *Context, typeNode *ast.Node) (*elements.Element, bool) {
	if typeNode == nil {
		return nil, false
	}
	typ := ctx.Manager.FindTypeUp(typeNode.Text())
	if typ == nil {
		ctx.Diags.Addf(diag.P002, typeNode.Token.Pos, ctx.File, "unknown type %q", typeNode.Text())
		return nil, false
	}
	return typ, true
}

func (ev *Evaluator) handleCast(ctx *Context, scope *elements.Element, node *ast.Node) (*elements.Element, bool) {
	typ, ok := resolveTypeNode(ctx, node.Lhs)
	if !ok {
		return nil, false
	}
	expr, ok := ev.Evaluate(ctx, scope, node.Rhs)
	if !ok {
		return nil, false
	}
	return ctx.Manager.Builder.NewCast(scope, node.Token.Pos, ctx.File, typ.ID, expr), true
}

func (ev *Evaluator) handleTransmute(ctx *Context, scope *elements.Element, node *ast.Node) (*elements.Element, bool) {
	typ, ok := resolveTypeNode(ctx, node.Lhs)
	if !ok {
		return nil, false
	}
	expr, ok := ev.Evaluate(ctx, scope, node.Rhs)
	if !ok {
		return nil, false
	}
	return ctx.Manager.Builder.NewTransmute(scope, node.Token.Pos, ctx.File, typ.ID, expr), true
}

// --- proc call -----------------------------------------------------

// handleProcCall builds a procedure call using a reference to the
// callee symbol and an argument list produced by evaluating the rhs
// argument_list's children.
func (ev *Evaluator) handleProcCall(ctx *Context, scope *elements.Element, node *ast.Node) (*elements.Element, bool) {
	callee, ok := ev.Evaluate(ctx, scope, node.Lhs)
	if !ok {
		return nil, false
	}
	var calleeID uint64
	if callee != nil && callee.Kind == elements.IdentifierReference {
		calleeID = callee.ResolvedID
	}
	args := make([]*elements.Element, 0, len(node.Rhs.Children))
	for _, a := range node.Rhs.Children {
		arg, ok := ev.Evaluate(ctx, scope, a)
		if !ok {
			return nil, false
		}
		args = append(args, arg)
	}
	return ctx.Manager.Builder.NewProcedureCall(scope, node.Token.Pos, ctx.File, calleeID, args), true
}

// --- comment / attribute / directive ----------------------------------

func (ev *Evaluator) handleComment(ctx *Context, scope *elements.Element, node *ast.Node) (*elements.Element, bool) {
	tag := elements.LineCommentTag
	if node.Kind == ast.BlockComment {
		tag = elements.BlockCommentTag
	}
	return ctx.Manager.Builder.NewComment(scope, node.Token.Pos, ctx.File, tag, node.Token.Literal), true
}

func (ev *Evaluator) handleAttribute(ctx *Context, scope *elements.Element, node *ast.Node) (*elements.Element, bool) {
	var expr *elements.Element
	if node.Lhs != nil {
		var ok bool
		expr, ok = ev.Evaluate(ctx, scope, node.Lhs)
		if !ok {
			return nil, false
		}
	}
	return ctx.Manager.Builder.NewAttribute(scope, node.Token.Pos, ctx.File, node.Token.Literal, expr), true
}

// handleDirective builds the directive, applies the attributes the
// parser attached to the directive node itself, and invokes the
// directive's own evaluate hook: "builtin" is the one directive name
// this module gives semantic meaning to, re-seeding the numeric/bool/
// string/any builtin type table into the current scope (useful for a
// nested scope that shadowed a builtin name and wants it back).
// Unrecognized directive names are a no-op, matching the "directive
// may perform semantic actions" wording — not every directive must.
func (ev *Evaluator) handleDirective(ctx *Context, scope *elements.Element, node *ast.Node) (*elements.Element, bool) {
	var expr *elements.Element
	if node.Lhs != nil {
		var ok bool
		expr, ok = ev.Evaluate(ctx, scope, node.Lhs)
		if !ok {
			return nil, false
		}
	}
	d := ctx.Manager.Builder.NewDirective(scope, node.Token.Pos, ctx.File, node.Token.Literal, expr)
	for _, c := range node.Children {
		if c.Kind != ast.Attribute {
			continue
		}
		attr, ok := ev.Evaluate(ctx, scope, c)
		if !ok {
			return nil, false
		}
		d.Attributes = append(d.Attributes, attr)
	}
	if node.Token.Literal == "builtin" {
		ctx.Manager.Builder.InitializeCoreTypes(scope)
	}
	return d, true
}
