package evaluator

import (
	"github.com/doublelove22/basecode/internal/ast"
	"github.com/doublelove22/basecode/internal/diag"
	"github.com/doublelove22/basecode/internal/elements"
)

// handleModule creates a module-block, pushes it onto the scope and
// top-level stacks, evaluates each child as a top-level expression,
// classifies the result (comment | import | attribute | statement)
// and appends it into the appropriate scope collection.
func (ev *Evaluator) handleModule(ctx *Context, scope *elements.Element, node *ast.Node) (*elements.Element, bool) {
	mod := ctx.Manager.Builder.NewModule(scope, node.Token.Pos, ctx.File, ctx.File)
	block := mod.ModuleBlock

	ctx.Manager.PushScope(block)
	ctx.Manager.PushTopLevel(block)
	ok := ev.evalBlockChildren(ctx, block, node.Children)
	ctx.Manager.PopTopLevel()
	ctx.Manager.PopScope()

	if !ok {
		return nil, false
	}
	return mod, true
}

// handleBasicBlock builds a nested scope block (a proc/if/for/while
// body), evaluates its children the same way a module does, minus the
// top-level push — a nested block never anchors qualified lookups.
func (ev *Evaluator) handleBasicBlock(ctx *Context, scope *elements.Element, node *ast.Node) (*elements.Element, bool) {
	block := ctx.Manager.Builder.NewBlock(scope, node.Token.Pos, ctx.File)
	ctx.Manager.PushScope(block)
	ok := ev.evalBlockChildren(ctx, block, node.Children)
	ctx.Manager.PopScope()
	if !ok {
		return nil, false
	}
	return block, true
}

// evalBlockChildren runs the module/block statement loop: standalone
// label nodes are queued and attached to the next statement they
// precede; comments, imports, and (the rare trailing, unconsumed)
// attributes are classified directly into the block's own
// collections; everything else is evaluated as a statement.
func (ev *Evaluator) evalBlockChildren(ctx *Context, block *elements.Element, children []*ast.Node) bool {
	var pendingLabels []*elements.Element

	for _, child := range children {
		switch child.Kind {
		case ast.LineComment, ast.BlockComment:
			c, ok := ev.Evaluate(ctx, block, child)
			if !ok {
				return false
			}
			block.Comments = append(block.Comments, c)

		case ast.ImportExpression:
			imp, ok := ev.Evaluate(ctx, block, child)
			if !ok {
				return false
			}
			block.ImportsList = append(block.ImportsList, imp)

		case ast.Attribute:
			attr, ok := ev.Evaluate(ctx, block, child)
			if !ok {
				return false
			}
			block.Attributes = append(block.Attributes, attr)

		case ast.Label:
			pendingLabels = append(pendingLabels, ctx.Manager.Builder.NewLabel(block, child.Token.Pos, ctx.File, child.Text()))

		default:
			built, ok := ev.Evaluate(ctx, block, child)
			if !ok {
				return false
			}
			if built == nil {
				continue
			}
			// A label is only legal grammar-wise right before a
			// for_in/while/basic-block (see parseStatementSequence's
			// label lookahead), none of which wrap in a Statement
			// node — so attachment is keyed on "a label was pending",
			// not on the built element's kind.
			if len(pendingLabels) > 0 {
				built.Labels = append(built.Labels, pendingLabels...)
				for _, l := range pendingLabels {
					l.ParentID = built.ID
				}
			}
			pendingLabels = nil
			block.Statements = append(block.Statements, built)
		}
	}
	return true
}

// handleModuleExpression evaluates the module path expression; if it
// folds to a constant string, the raw path (still relative, when the
// source wrote it that way) is handed to the module loader together
// with the current source file's directory, leaving resolution order
// (importing directory first, then any configured search paths) up to
// the loader. A non-constant or non-string path is reported as C021.
func (ev *Evaluator) handleModuleExpression(ctx *Context, scope *elements.Element, node *ast.Node) (*elements.Element, bool) {
	pathExpr, ok := ev.Evaluate(ctx, scope, node.Lhs)
	if !ok {
		return nil, false
	}
	if pathExpr == nil || pathExpr.Kind != elements.Literal || pathExpr.LitKind != elements.StringLiteral {
		ctx.Diags.Addf(diag.C021, node.Token.Pos, ctx.File, "module path must be a constant string")
		return nil, false
	}
	path := pathExpr.StrVal
	if ctx.Loader == nil {
		ctx.Diags.Addf(diag.C021, node.Token.Pos, ctx.File, "unable to load module %q: no module loader configured", path)
		return nil, false
	}
	mod, err := ctx.Loader.CompileModulePath(ctx.Dir(), path)
	if err != nil {
		ctx.Diags.Addf(diag.C021, node.Token.Pos, ctx.File, "unable to load module %q: %v", path, err)
		return nil, false
	}
	return mod, true
}

// handleImportExpression makes an identifier reference for the
// imported symbol; a `from` clause's name (and its own qualifiers, if
// any) is prepended as a namespace qualifier on the imported symbol
// before resolution is attempted.
func (ev *Evaluator) handleImportExpression(ctx *Context, scope *elements.Element, node *ast.Node) (*elements.Element, bool) {
	name, qualifiers := elements.MakeQualifiedSymbol(node.Lhs)

	var fromRef *elements.Element
	if node.Rhs != nil {
		fromName, fromQualifiers := elements.MakeQualifiedSymbol(node.Rhs)
		prefixed := append(append([]string{}, fromQualifiers...), fromName)
		qualifiers = append(prefixed, qualifiers...)
		fromRef = ctx.Manager.Builder.NewIdentifierReference(scope, node.Rhs.Token.Pos, ctx.File, qualifiedText(fromQualifiers, fromName), 0)
	}

	identRef := ctx.Manager.Builder.NewIdentifierReference(scope, node.Lhs.Token.Pos, ctx.File, qualifiedText(qualifiers, name), 0)
	if resolved, err := ctx.Manager.FindIdentifier(qualifiers, name); err == nil && resolved != nil {
		identRef.ResolvedID = resolved.ID
	}

	var fromRefID uint64
	if fromRef != nil {
		fromRefID = fromRef.ID
	}
	owningModID := uint64(0)
	if top := ctx.Manager.CurrentTopLevel(); top != nil {
		owningModID = top.ID
	}
	return ctx.Manager.Builder.NewImport(scope, node.Token.Pos, ctx.File, identRef.ID, fromRefID, owningModID), true
}
