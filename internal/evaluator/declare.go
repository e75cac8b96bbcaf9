package evaluator

import (
	"github.com/doublelove22/basecode/internal/ast"
	"github.com/doublelove22/basecode/internal/diag"
	"github.com/doublelove22/basecode/internal/elements"
	"github.com/doublelove22/basecode/internal/parser"
	"github.com/doublelove22/basecode/internal/program"
)

// handleStatement wraps a statement's root expression (node.Rhs; a
// statement's own labels are not carried on the node itself — they
// are standalone sibling label nodes the enclosing block's evaluation
// loop queues and attaches after the statement element is built). A
// `name: type` pair root declares an identifier of that type. A
// bare-symbol root goes through declareIdentifier with neither a type
// nor an initializer, which reports P019. Anything else is evaluated
// directly and installed as the statement's root.
func (ev *Evaluator) handleStatement(ctx *Context, scope *elements.Element, node *ast.Node) (*elements.Element, bool) {
	root := node.Rhs
	if root == nil {
		return ctx.Manager.Builder.NewStatement(scope, node.Token.Pos, ctx.File, nil, nil), true
	}

	switch {
	case root.Kind == ast.Pair:
		// `name ':' type` field/variable declaration: explicit type
		// annotation, no initializer.
		ident, ok := ev.declareIdentifier(ctx, scope, root.Lhs, root.Rhs, nil)
		if !ok {
			return nil, false
		}
		return ctx.Manager.Builder.NewStatement(scope, node.Token.Pos, ctx.File, nil, ident), true

	case root.Kind == ast.Symbol:
		// A bare symbol with neither annotation nor initializer: its
		// type cannot be inferred, so declareIdentifier reports P019.
		ident, ok := ev.declareIdentifier(ctx, scope, root, nil, nil)
		if !ok {
			return nil, false
		}
		return ctx.Manager.Builder.NewStatement(scope, node.Token.Pos, ctx.File, nil, ident), true
	}

	built, ok := ev.Evaluate(ctx, scope, root)
	if !ok {
		return nil, false
	}
	return ctx.Manager.Builder.NewStatement(scope, node.Token.Pos, ctx.File, nil, built), true
}

// handleAssignment requires equal target/source arity (P027
// otherwise). Per index, a target symbol that already resolves gets
// an assignment binary operator over the existing identifier;
// otherwise a new identifier is declared with inference from the
// matching source expression.
func (ev *Evaluator) handleAssignment(ctx *Context, scope *elements.Element, node *ast.Node) (*elements.Element, bool) {
	targets := flattenPairs(node.Lhs)
	sources := flattenPairs(node.Rhs)
	if len(targets) != len(sources) {
		ctx.Diags.Addf(diag.P027, node.Token.Pos, ctx.File,
			"assignment arity mismatch: %d target(s), %d source(s)", len(targets), len(sources))
		return nil, false
	}

	var last *elements.Element
	for i, target := range targets {
		source := sources[i]
		if target.Kind != ast.Symbol {
			lhs, ok1 := ev.Evaluate(ctx, scope, target)
			rhs, ok2 := ev.Evaluate(ctx, scope, source)
			if !ok1 || !ok2 {
				return nil, false
			}
			last = ctx.Manager.Builder.NewBinaryOperator(scope, node.Token.Pos, ctx.File, elements.OpAssign, lhs, rhs)
			continue
		}

		name, qualifiers := elements.MakeQualifiedSymbol(target)
		existing, err := ctx.Manager.FindIdentifier(qualifiers, name)
		if err != nil {
			if qerr, ok := err.(*program.QualifierError); ok {
				ctx.Diags.Addf(diag.P018, target.Token.Pos, ctx.File, "%q is not a namespace", qerr.Name)
			}
			return nil, false
		}
		if existing != nil {
			rhs, ok := ev.Evaluate(ctx, scope, source)
			if !ok {
				return nil, false
			}
			ref := ctx.Manager.Builder.NewIdentifierReference(scope, target.Token.Pos, ctx.File, name, existing.ID)
			last = ctx.Manager.Builder.NewBinaryOperator(scope, node.Token.Pos, ctx.File, elements.OpAssign, ref, rhs)
			continue
		}

		ident, ok := ev.declareIdentifier(ctx, scope, target, nil, source)
		if !ok {
			return nil, false
		}
		last = ident
	}
	return last, true
}

// flattenPairs flattens a right-leaning ast.Pair chain (or returns a
// single-element slice when n isn't a pair chain at all).
func flattenPairs(n *ast.Node) []*ast.Node {
	if n == nil {
		return nil
	}
	return parser.PairsToList(n)
}

// declareIdentifier runs the 9-step Identifier Introduction and
// Namespace Materialization algorithm for a (possibly qualified)
// symbol node and an optional explicit type annotation / initializer
// expression.
func (ev *Evaluator) declareIdentifier(ctx *Context, scope *elements.Element, symbolNode, typeNode, initNode *ast.Node) (*elements.Element, bool) {
	name, qualifiers := elements.MakeQualifiedSymbol(symbolNode)

	// Step 1: start at the current top-level if qualified, else the
	// caller-supplied scope.
	resolved := scope
	if len(qualifiers) > 0 {
		resolved = ctx.Manager.CurrentTopLevel()
	}

	// Step 2: descend through each leading namespace name, creating
	// one if it doesn't exist yet; P018 if an existing name isn't a
	// namespace.
	for _, q := range qualifiers {
		existing, ok := resolved.Identifiers[q]
		if !ok {
			ns := ctx.Manager.Builder.NewNamespace(resolved, symbolNode.Token.Pos, ctx.File)
			nsIdent := ctx.Manager.Builder.NewIdentifier(resolved, symbolNode.Token.Pos, ctx.File, q, 0, elements.UsageStack)
			nsIdent.InitializerE = ctx.Manager.Builder.NewInitializer(resolved, symbolNode.Token.Pos, ctx.File, ns)
			resolved.Identifiers[q] = nsIdent
			resolved.Order = append(resolved.Order, q)
			resolved = ns.Inner
			continue
		}
		if existing.InitializerE == nil || existing.InitializerE.Expr == nil || existing.InitializerE.Expr.Kind != elements.Namespace {
			ctx.Diags.Addf(diag.P018, symbolNode.Token.Pos, ctx.File, "%q is not a namespace", q)
			return nil, false
		}
		resolved = existing.InitializerE.Expr.Inner
	}

	// Step 3: evaluate the initializer in the resolved scope.
	var initElem *elements.Element
	if initNode != nil {
		var ok bool
		initElem, ok = ev.Evaluate(ctx, resolved, initNode)
		if !ok {
			return nil, false
		}
	}

	// Step 4: a bare-symbol initializer is rewritten as an
	// identifier-reference to that qualified symbol —
	// handleSymbolReference already produces exactly this shape, so
	// initElem is already an identifier_reference when initNode is a
	// Symbol.

	// Step 5: a constant initializer is wrapped in an initializer
	// element; attempt a fold and swap the folded literal in on
	// success.
	var initWrapper *elements.Element
	if initElem != nil {
		initWrapper = ctx.Manager.Builder.NewInitializer(resolved, symbolNode.Token.Pos, ctx.File, initElem)
		foldConstant(ctx.Manager.Builder, initWrapper)
	}

	// Step 6: resolve the declared type — explicit annotation first,
	// then inference from the initializer, then an unknown
	// placeholder with inferred_type = false.
	var typeID uint64
	inferred := false
	switch {
	case typeNode != nil:
		typ, ok := resolveTypeNode(ctx, typeNode)
		if !ok {
			return nil, false
		}
		typeID = typ.ID
	case initWrapper != nil:
		typeID = inferredTypeID(ctx, initWrapper.Expr)
		inferred = typeID != 0
	}

	// Step 7: no initializer, no inferred type, no annotation ⇒ P019.
	if initWrapper == nil && typeNode == nil {
		ctx.Diags.Addf(diag.P019, symbolNode.Token.Pos, ctx.File, "unable to infer type for %q", name)
		return nil, false
	}

	ident := ctx.Manager.Builder.NewIdentifier(resolved, symbolNode.Token.Pos, ctx.File, name, typeID, elements.UsageStack)
	ident.InferredType = inferred
	if initWrapper != nil {
		ident.InitializerE = initWrapper
		initWrapper.ParentID = ident.ID
	}
	if typeID == 0 {
		placeholder := ctx.Manager.Builder.MakeUnknownTypeFromFindResult(resolved, symbolNode.Token.Pos, ctx.File, ident.ID)
		ident.TypeID = placeholder.ID
	}

	// Step 8: a procedure-type initializer builds procedure instances
	// by walking the source node's basic-block children — the
	// proc_expression handler does this itself while evaluating the
	// initializer node in step 3, so there is nothing left to do here.

	// Step 9: install the identifier in the resolved scope's
	// identifier table.
	resolved.Identifiers[name] = ident
	resolved.Order = append(resolved.Order, name)

	return ident, true
}

// inferredTypeID infers a declared type from a constant initializer
// expression. Integer/float/bool/string/char literals map directly to
// their builtin type; a procedure/composite type literal IS its own
// declared type (the identifier names the type itself); anything else
// defers to the unknown placeholder (typeID 0), which the caller
// installs.
func inferredTypeID(ctx *Context, expr *elements.Element) uint64 {
	if expr == nil {
		return 0
	}
	switch expr.Kind {
	case elements.ProcedureType, elements.CompositeType, elements.ArrayType,
		elements.PointerType, elements.TupleType, elements.NumericType,
		elements.BoolType, elements.StringType, elements.AnyType:
		return expr.ID
	}
	if expr.Kind != elements.Literal {
		return 0
	}
	var name string
	switch expr.LitKind {
	case elements.IntLiteral:
		name = elements.DefaultIntegerType
	case elements.FloatLiteral:
		name = "f64"
	case elements.BoolLiteral:
		name = "bool"
	case elements.StringLiteral:
		name = "string"
	case elements.CharLiteral:
		name = "u8"
	default:
		return 0
	}
	if typ := ctx.Manager.FindTypeUp(name); typ != nil {
		return typ.ID
	}
	return 0
}
