package evaluator

import (
	"strconv"

	"github.com/doublelove22/basecode/internal/ast"
	"github.com/doublelove22/basecode/internal/elements"
)

// handleProcExpression builds a procedure type with its own parameter
// scope: ordered parameter fields from the lhs parameter_list (each
// wrapping a stack-usage identifier), an ordered returns list
// synthesized as `_0, _1, …` from the rhs parameter_list's bare type
// identifiers, and — when a body block is present — a procedure
// instance built by evaluating it.
func (ev *Evaluator) handleProcExpression(ctx *Context, scope *elements.Element, node *ast.Node) (*elements.Element, bool) {
	t := ctx.Manager.Builder.NewProcedureType(scope, node.Token.Pos, ctx.File, false)

	if node.Lhs != nil {
		for _, param := range node.Lhs.Children {
			field, ok := ev.buildParamField(ctx, t.ProcScope, param)
			if !ok {
				return nil, false
			}
			t.Params = append(t.Params, field)
		}
	}

	if node.Rhs != nil {
		for i, retType := range node.Rhs.Children {
			typ, ok := resolveTypeNode(ctx, retType)
			if !ok {
				return nil, false
			}
			name := "_" + strconv.Itoa(i)
			ident := ctx.Manager.Builder.NewIdentifier(t.ProcScope, retType.Token.Pos, ctx.File, name, typ.ID, elements.UsageStack)
			field := ctx.Manager.Builder.NewField(t.ProcScope, retType.Token.Pos, ctx.File, ident)
			t.ProcScope.Identifiers[name] = ident
			t.ProcScope.Order = append(t.ProcScope.Order, name)
			t.Returns = append(t.Returns, field)
		}
	}

	if len(node.Children) > 0 {
		bodyAst := node.Children[0]
		bodyElem, ok := ev.Evaluate(ctx, t.ProcScope, bodyAst)
		if !ok {
			return nil, false
		}
		inst := ctx.Manager.Builder.NewProcedureInstance(scope, node.Token.Pos, ctx.File, t.ID, bodyElem)
		t.Instances = append(t.Instances, inst)
	}

	return t, true
}

// buildParamField builds one parameter field: a `name: type` pair
// names and resolves the annotated type; a bare symbol (no
// annotation) installs the unknown-type placeholder, matching a
// forward-declared parameter type resolved later. Either shape is
// marked stack usage, per the proc_expression handler's contract.
func (ev *Evaluator) buildParamField(ctx *Context, procScope *elements.Element, param *ast.Node) (*elements.Element, bool) {
	var nameNode, typeNode *ast.Node
	if param.Kind == ast.Pair {
		nameNode, typeNode = param.Lhs, param.Rhs
	} else {
		nameNode = param
	}
	name, _ := elements.MakeQualifiedSymbol(nameNode)

	var typeID uint64
	if typeNode != nil {
		typ, ok := resolveTypeNode(ctx, typeNode)
		if !ok {
			return nil, false
		}
		typeID = typ.ID
	}

	ident := ctx.Manager.Builder.NewIdentifier(procScope, nameNode.Token.Pos, ctx.File, name, typeID, elements.UsageStack)
	if typeID == 0 {
		placeholder := ctx.Manager.Builder.MakeUnknownTypeFromFindResult(procScope, nameNode.Token.Pos, ctx.File, ident.ID)
		ident.TypeID = placeholder.ID
	}
	field := ctx.Manager.Builder.NewField(procScope, nameNode.Token.Pos, ctx.File, ident)
	procScope.Identifiers[name] = ident
	procScope.Order = append(procScope.Order, name)
	return field, true
}

// compositeTag maps the AST composite kind to its element-level tag.
func compositeTag(k ast.Kind) elements.CompositeTag {
	switch k {
	case ast.UnionExpression:
		return elements.UnionTag
	case ast.EnumExpression:
		return elements.EnumTag
	default:
		return elements.StructTag
	}
}

// handleCompositeExpression builds a struct/union/enum type with its
// own nested scope. Field construction walks the body: a `name: type`
// statement creates a field of the annotated type; an assignment
// creates one field named by its target, typed from the evaluated
// source or, failing inference, the scope's default type (u32 for
// enums, `unknown` for structs/unions); a bare symbol creates a field
// of the default type. A multi-target assignment (`a, b := 1, 2`) is
// not split into per-target fields: its pair-shaped source has no
// evaluator handler, so building the composite fails with P071.
func (ev *Evaluator) handleCompositeExpression(ctx *Context, scope *elements.Element, node *ast.Node) (*elements.Element, bool) {
	tag := compositeTag(node.Kind)
	t := ctx.Manager.Builder.NewCompositeType(scope, node.Token.Pos, ctx.File, tag)

	if len(node.Children) > 0 {
		body := node.Children[0]
		if !ev.buildCompositeFields(ctx, t, body.Children) {
			return nil, false
		}
	}
	return t, true
}

func (ev *Evaluator) buildCompositeFields(ctx *Context, t *elements.Element, stmts []*ast.Node) bool {
	defaultTypeName := "unknown"
	if t.CompositeKind == elements.EnumTag {
		defaultTypeName = elements.DefaultIntegerType
	}

	for _, stmt := range stmts {
		if stmt.Kind != ast.Statement || stmt.Rhs == nil {
			continue
		}
		root := stmt.Rhs

		if root.Kind == ast.Pair {
			name, _ := elements.MakeQualifiedSymbol(root.Lhs)
			typ, ok := resolveTypeNode(ctx, root.Rhs)
			if !ok {
				return false
			}
			ident := ctx.Manager.Builder.NewIdentifier(t.CompositeScope, root.Token.Pos, ctx.File, name, typ.ID, elements.UsageStack)
			field := ctx.Manager.Builder.NewField(t.CompositeScope, root.Token.Pos, ctx.File, ident)
			t.CompositeScope.Identifiers[name] = ident
			t.AddCompositeField(name, field)
			continue
		}

		if root.Kind == ast.Assignment {
			name, _ := elements.MakeQualifiedSymbol(root.Lhs)
			valueElem, ok := ev.Evaluate(ctx, t.CompositeScope, root.Rhs)
			if !ok {
				return false
			}
			typeID := inferredTypeID(ctx, valueElem)
			if typeID == 0 {
				if typ := ctx.Manager.FindTypeUp(defaultTypeName); typ != nil {
					typeID = typ.ID
				}
			}
			ident := ctx.Manager.Builder.NewIdentifier(t.CompositeScope, root.Token.Pos, ctx.File, name, typeID, elements.UsageStack)
			ident.InitializerE = ctx.Manager.Builder.NewInitializer(t.CompositeScope, root.Token.Pos, ctx.File, valueElem)
			field := ctx.Manager.Builder.NewField(t.CompositeScope, root.Token.Pos, ctx.File, ident)
			t.CompositeScope.Identifiers[name] = ident
			t.AddCompositeField(name, field)
			continue
		}

		if root.Kind == ast.Symbol {
			name, _ := elements.MakeQualifiedSymbol(root)
			var typeID uint64
			if typ := ctx.Manager.FindTypeUp(defaultTypeName); typ != nil {
				typeID = typ.ID
			}
			ident := ctx.Manager.Builder.NewIdentifier(t.CompositeScope, root.Token.Pos, ctx.File, name, typeID, elements.UsageStack)
			field := ctx.Manager.Builder.NewField(t.CompositeScope, root.Token.Pos, ctx.File, ident)
			t.CompositeScope.Identifiers[name] = ident
			t.AddCompositeField(name, field)
		}
	}
	return true
}

// handleNamespaceExpression wraps the inner expression in a namespace
// element: the namespace's own inner block is where the wrapped
// block's identifiers actually live (namespace_expression's body is
// always a basic_block evaluated in that inner scope).
func (ev *Evaluator) handleNamespaceExpression(ctx *Context, scope *elements.Element, node *ast.Node) (*elements.Element, bool) {
	ns := ctx.Manager.Builder.NewNamespace(scope, node.Token.Pos, ctx.File)
	if node.Lhs == nil {
		return ns, true
	}
	if node.Lhs.Kind == ast.BasicBlock {
		if !ev.evalBlockChildren(ctx, ns.Inner, node.Lhs.Children) {
			return nil, false
		}
		return ns, true
	}
	inner, ok := ev.Evaluate(ctx, ns.Inner, node.Lhs)
	if !ok {
		return nil, false
	}
	ns.Inner.Statements = append(ns.Inner.Statements, inner)
	return ns, true
}

// handleAliasExpression builds an alias wrapping its resolved target.
func (ev *Evaluator) handleAliasExpression(ctx *Context, scope *elements.Element, node *ast.Node) (*elements.Element, bool) {
	target, ok := ev.Evaluate(ctx, scope, node.Lhs)
	if !ok {
		return nil, false
	}
	return ctx.Manager.Builder.NewAlias(scope, node.Token.Pos, ctx.File, target), true
}

// handleKeywordWrapPassthrough evaluates the wrapped inner expression
// and returns it directly: defer/with carry no distinct element shape
// of their own in this graph (their effect is entirely about
// procedure-call scheduling/scoping downstream of elaboration), so the
// wrapped expression's own element is what gets installed.
func (ev *Evaluator) handleKeywordWrapPassthrough(ctx *Context, scope *elements.Element, node *ast.Node) (*elements.Element, bool) {
	return ev.Evaluate(ctx, scope, node.Lhs)
}
