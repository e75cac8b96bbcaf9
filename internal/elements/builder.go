package elements

import (
	"github.com/doublelove22/basecode/internal/ast"
	"github.com/doublelove22/basecode/internal/token"
)

// Builder is the Element Builder: stateless with respect to scope —
// every factory that produces a scope-bound element takes its
// destination scope/parent as an explicit argument rather than
// tracking a current scope itself (that is the Program Manager's
// job, in internal/program). Builder only ever touches the Store it
// was constructed with.
type Builder struct {
	store *Store
}

// NewBuilder constructs an Element Builder over store.
func NewBuilder(store *Store) *Builder {
	return &Builder{store: store}
}

// Store returns the arena this Builder allocates into, for callers
// (constant folding) that need to retire an element outside of the
// builder's own constructors.
func (b *Builder) Store() *Store { return b.store }

func parentID(parent *Element) uint64 {
	if parent == nil {
		return 0
	}
	return parent.ID
}

func (b *Builder) new(kind Kind, parent *Element, pos token.Position, file string) *Element {
	e := &Element{Kind: kind, ParentID: parentID(parent), Pos: pos, File: file}
	return b.store.alloc(e)
}

// --- module / block / namespace -------------------------------------

// NewModule builds a module element together with its owning
// top-level block, and returns the module; the block, which is the
// module's scope, is held in its ModuleBlock field.
func (b *Builder) NewModule(parent *Element, pos token.Position, file, sourcePath string) *Element {
	m := b.new(Module, parent, pos, file)
	m.SourcePath = sourcePath
	block := b.NewBlock(m, pos, file)
	m.ModuleBlock = block
	return m
}

// NewBlock builds an empty scope block owned by parent (a module,
// namespace, composite type, or procedure instance).
func (b *Builder) NewBlock(parent *Element, pos token.Position, file string) *Element {
	blk := b.new(Block, parent, pos, file)
	blk.TypesMap = make(map[string]*Element)
	blk.Identifiers = make(map[string]*Element)
	return blk
}

// NewNamespace builds a namespace element wrapping a fresh inner
// block, matching the namespace_expression handler's "wraps the
// inner expression (usually a block)" contract.
func (b *Builder) NewNamespace(parent *Element, pos token.Position, file string) *Element {
	ns := b.new(Namespace, parent, pos, file)
	ns.Inner = b.NewBlock(ns, pos, file)
	return ns
}

// --- identifiers and references --------------------------------------

// NewIdentifier builds an identifier element bound to typeID (a
// reference, not yet necessarily resolved to a concrete type if the
// caller passed the unknown-type placeholder's id).
func (b *Builder) NewIdentifier(scope *Element, pos token.Position, file, name string, typeID uint64, usage Usage) *Element {
	id := b.new(Identifier, scope, pos, file)
	id.Name = name
	id.TypeID = typeID
	id.Usage = usage
	return id
}

// NewInitializer wraps expr (owned) as an identifier's initializer.
func (b *Builder) NewInitializer(scope *Element, pos token.Position, file string, expr *Element) *Element {
	init := b.new(Initializer, scope, pos, file)
	init.Expr = expr
	if expr != nil {
		expr.ParentID = init.ID
	}
	return init
}

// NewSymbolElement builds a symbol_element from an ordered list of
// name parts, the last of which is the symbol's own name and the
// rest of which are qualifying namespace names.
func (b *Builder) NewSymbolElement(parent *Element, pos token.Position, file string, parts []string) *Element {
	sym := b.new(SymbolElement, parent, pos, file)
	if len(parts) > 0 {
		sym.Parts = parts
		sym.Qualifiers = parts[:len(parts)-1]
	}
	return sym
}

// MakeSymbolFromNode extracts the ordered name parts from a
// parser-produced ast.Symbol subtree (its children are ast.SymbolPart
// nodes) and builds a symbol_element from them.
func (b *Builder) MakeSymbolFromNode(parent *Element, node *ast.Node) *Element {
	parts := make([]string, 0, len(node.Children))
	for _, c := range node.Children {
		parts = append(parts, c.Text())
	}
	return b.NewSymbolElement(parent, node.Token.Pos, "", parts)
}

// MakeQualifiedSymbol reads the same symbol parts MakeSymbolFromNode
// does but allocates no element: it returns the last part as name and
// the preceding parts as qualifiers ("" and nil for a node without
// parts).
func MakeQualifiedSymbol(node *ast.Node) (name string, qualifiers []string) {
	parts := make([]string, 0, len(node.Children))
	for _, c := range node.Children {
		parts = append(parts, c.Text())
	}
	if len(parts) == 0 {
		return "", nil
	}
	return parts[len(parts)-1], parts[:len(parts)-1]
}

// NewIdentifierReference builds an identifier_reference for a
// (possibly qualified) symbol. resolvedID is 0 until the Program
// Manager resolves it.
func (b *Builder) NewIdentifierReference(parent *Element, pos token.Position, file, qualified string, resolvedID uint64) *Element {
	ref := b.new(IdentifierReference, parent, pos, file)
	ref.Qualified = qualified
	ref.ResolvedID = resolvedID
	return ref
}

// NewModuleReference builds a module_reference pointing at moduleID.
func (b *Builder) NewModuleReference(parent *Element, pos token.Position, file string, moduleID uint64) *Element {
	ref := b.new(ModuleReference, parent, pos, file)
	ref.ModuleID = moduleID
	return ref
}

// NewImport builds an import element owned by the importing scope.
func (b *Builder) NewImport(parent *Element, pos token.Position, file string, identRefID, fromRefID, owningModID uint64) *Element {
	imp := b.new(Import, parent, pos, file)
	imp.IdentRefID = identRefID
	imp.FromRefID = fromRefID
	imp.OwningModID = owningModID
	return imp
}

// --- types --------------------------------------------------------

// NewUnknownType builds the unknown-type placeholder: a base type
// named "unknown" with a back-reference (via awaitingID) to the
// identifier whose declared type is not yet resolvable.
func (b *Builder) NewUnknownType(parent *Element, pos token.Position, file string, awaitingID uint64) *Element {
	t := b.new(BaseType, parent, pos, file)
	t.TypeName = "unknown"
	t.AwaitingID = awaitingID
	return t
}

// MakeUnknownTypeFromFindResult is an alias kept distinct from
// NewUnknownType at the call-site level: it is invoked specifically
// when a declaration's type-find probe comes back empty, as opposed
// to a type annotation naming an identifier that genuinely doesn't
// exist yet.
func (b *Builder) MakeUnknownTypeFromFindResult(parent *Element, pos token.Position, file string, awaitingID uint64) *Element {
	return b.NewUnknownType(parent, pos, file, awaitingID)
}

func (b *Builder) NewNumericType(parent *Element, pos token.Position, file, name string, sizeBytes int, signed bool, min int64, max uint64) *Element {
	t := b.new(NumericType, parent, pos, file)
	t.TypeName = name
	t.SizeBytes = sizeBytes
	t.Align = sizeBytes
	t.Signed = signed
	t.MinValue = min
	t.MaxValue = max
	return t
}

func (b *Builder) NewBoolType(parent *Element, pos token.Position, file string) *Element {
	t := b.new(BoolType, parent, pos, file)
	t.TypeName = "bool"
	t.SizeBytes = 1
	t.Align = 1
	return t
}

func (b *Builder) NewStringType(parent *Element, pos token.Position, file string) *Element {
	t := b.new(StringType, parent, pos, file)
	t.TypeName = "string"
	return t
}

func (b *Builder) NewAnyType(parent *Element, pos token.Position, file string) *Element {
	t := b.new(AnyType, parent, pos, file)
	t.TypeName = "any"
	return t
}

func (b *Builder) NewArrayType(parent *Element, pos token.Position, file string, elemTypeID uint64, length *Element) *Element {
	t := b.new(ArrayType, parent, pos, file)
	t.ElemTypeID = elemTypeID
	t.LengthExpr = length
	if length != nil {
		length.ParentID = t.ID
	}
	return t
}

func (b *Builder) NewPointerType(parent *Element, pos token.Position, file string, pointeeTypeID uint64) *Element {
	t := b.new(PointerType, parent, pos, file)
	t.PointeeTypeID = pointeeTypeID
	return t
}

func (b *Builder) NewTupleType(parent *Element, pos token.Position, file string, fields []*Element) *Element {
	t := b.new(TupleType, parent, pos, file)
	t.TupleFields = fields
	for _, f := range fields {
		if f != nil {
			f.ParentID = t.ID
		}
	}
	return t
}

// NewCompositeType builds a struct/union/enum type with its own
// nested scope block, ready for field construction.
func (b *Builder) NewCompositeType(parent *Element, pos token.Position, file string, tag CompositeTag) *Element {
	t := b.new(CompositeType, parent, pos, file)
	t.CompositeKind = tag
	t.CompositeScope = b.NewBlock(t, pos, file)
	t.Fields = make(map[string]*Element)
	return t
}

// AddCompositeField installs field into t's Fields map and FieldOrder,
// interning by name (the field name shadows any earlier field of the
// same name, matching the Program Manager's type-interning contract).
func (t *Element) AddCompositeField(name string, field *Element) {
	if _, exists := t.Fields[name]; !exists {
		t.FieldOrder = append(t.FieldOrder, name)
	}
	t.Fields[name] = field
}

// NewProcedureType builds a procedure type with its own parameter
// scope. Parameters and returns are ordered fields; instances are
// filled in later as the body (if any) is evaluated.
func (b *Builder) NewProcedureType(parent *Element, pos token.Position, file string, foreign bool) *Element {
	t := b.new(ProcedureType, parent, pos, file)
	t.ProcScope = b.NewBlock(t, pos, file)
	t.Foreign = foreign
	return t
}

func (b *Builder) NewProcedureInstance(parent *Element, pos token.Position, file string, procTypeID uint64, body *Element) *Element {
	inst := b.new(ProcedureInstance, parent, pos, file)
	inst.ProcTypeID = procTypeID
	inst.Body = body
	if body != nil {
		body.ParentID = inst.ID
	}
	return inst
}

func (b *Builder) NewProcedureCall(parent *Element, pos token.Position, file string, calleeID uint64, args []*Element) *Element {
	call := b.new(ProcedureCall, parent, pos, file)
	call.CalleeID = calleeID
	call.Args = args
	for _, a := range args {
		if a != nil {
			a.ParentID = call.ID
		}
	}
	return call
}

// --- fields, attributes, directives -----------------------------------

func (b *Builder) NewField(parent *Element, pos token.Position, file string, ident *Element) *Element {
	f := b.new(Field, parent, pos, file)
	f.FieldIdent = ident
	if ident != nil {
		ident.ParentID = f.ID
	}
	return f
}

func (b *Builder) NewAttribute(parent *Element, pos token.Position, file, name string, expr *Element) *Element {
	a := b.new(Attribute, parent, pos, file)
	a.AttrName = name
	a.AttrExpr = expr
	if expr != nil {
		expr.ParentID = a.ID
	}
	return a
}

func (b *Builder) NewDirective(parent *Element, pos token.Position, file, name string, expr *Element) *Element {
	d := b.new(Directive, parent, pos, file)
	d.AttrName = name
	d.AttrExpr = expr
	if expr != nil {
		expr.ParentID = d.ID
	}
	return d
}

// --- statements, labels, expressions -----------------------------------

func (b *Builder) NewStatement(parent *Element, pos token.Position, file string, labels []*Element, root *Element) *Element {
	s := b.new(Statement, parent, pos, file)
	s.Labels = labels
	s.Root = root
	for _, l := range labels {
		if l != nil {
			l.ParentID = s.ID
		}
	}
	if root != nil {
		root.ParentID = s.ID
	}
	return s
}

func (b *Builder) NewLabel(parent *Element, pos token.Position, file, name string) *Element {
	l := b.new(Label, parent, pos, file)
	l.LabelName = name
	return l
}

func (b *Builder) NewExpression(parent *Element, pos token.Position, file string, wrapped *Element) *Element {
	e := b.new(Expression, parent, pos, file)
	e.Wrapped = wrapped
	if wrapped != nil {
		wrapped.ParentID = e.ID
	}
	return e
}

func (b *Builder) NewUnaryOperator(parent *Element, pos token.Position, file string, op OpKind, operand *Element) *Element {
	u := b.new(UnaryOperator, parent, pos, file)
	u.Op = op
	u.Operand = operand
	if operand != nil {
		operand.ParentID = u.ID
	}
	return u
}

func (b *Builder) NewBinaryOperator(parent *Element, pos token.Position, file string, op OpKind, lhs, rhs *Element) *Element {
	bo := b.new(BinaryOperator, parent, pos, file)
	bo.Op = op
	bo.Lhs = lhs
	bo.Rhs = rhs
	if lhs != nil {
		lhs.ParentID = bo.ID
	}
	if rhs != nil {
		rhs.ParentID = bo.ID
	}
	return bo
}

func (b *Builder) NewCast(parent *Element, pos token.Position, file string, targetTypeID uint64, expr *Element) *Element {
	c := b.new(Cast, parent, pos, file)
	c.TargetTypeID = targetTypeID
	c.CastExpr = expr
	if expr != nil {
		expr.ParentID = c.ID
	}
	return c
}

func (b *Builder) NewTransmute(parent *Element, pos token.Position, file string, targetTypeID uint64, expr *Element) *Element {
	c := b.new(Transmute, parent, pos, file)
	c.TargetTypeID = targetTypeID
	c.CastExpr = expr
	if expr != nil {
		expr.ParentID = c.ID
	}
	return c
}

func (b *Builder) NewAlias(parent *Element, pos token.Position, file string, target *Element) *Element {
	a := b.new(Alias, parent, pos, file)
	a.AliasTarget = target
	if target != nil {
		target.ParentID = a.ID
	}
	return a
}

func (b *Builder) NewComment(parent *Element, pos token.Position, file string, kind CommentTag, text string) *Element {
	c := b.new(Comment, parent, pos, file)
	c.CommentKind = kind
	c.Text = text
	return c
}

func (b *Builder) NewIfElement(parent *Element, pos token.Position, file string, predicate, trueBranch, falseBranch *Element) *Element {
	i := b.new(IfElement, parent, pos, file)
	i.Predicate = predicate
	i.TrueBranch = trueBranch
	i.FalseBranch = falseBranch
	for _, c := range []*Element{predicate, trueBranch, falseBranch} {
		if c != nil {
			c.ParentID = i.ID
		}
	}
	return i
}

func (b *Builder) NewReturnElement(parent *Element, pos token.Position, file string, exprs []*Element) *Element {
	r := b.new(ReturnElement, parent, pos, file)
	r.Exprs = exprs
	for _, e := range exprs {
		if e != nil {
			e.ParentID = r.ID
		}
	}
	return r
}

// --- literals -------------------------------------------------------

func (b *Builder) NewBoolLiteral(parent *Element, pos token.Position, file string, v bool) *Element {
	l := b.new(Literal, parent, pos, file)
	l.LitKind = BoolLiteral
	l.BoolVal = v
	return l
}

func (b *Builder) NewIntLiteral(parent *Element, pos token.Position, file string, v uint64, signed bool) *Element {
	l := b.new(Literal, parent, pos, file)
	l.LitKind = IntLiteral
	l.IntVal = v
	l.IntSigned = signed
	return l
}

func (b *Builder) NewFloatLiteral(parent *Element, pos token.Position, file string, v float64) *Element {
	l := b.new(Literal, parent, pos, file)
	l.LitKind = FloatLiteral
	l.FloatVal = v
	return l
}

func (b *Builder) NewStringLiteral(parent *Element, pos token.Position, file string, v string) *Element {
	l := b.new(Literal, parent, pos, file)
	l.LitKind = StringLiteral
	l.StrVal = v
	return l
}

func (b *Builder) NewCharLiteral(parent *Element, pos token.Position, file string, v rune) *Element {
	l := b.new(Literal, parent, pos, file)
	l.LitKind = CharLiteral
	l.CharVal = v
	return l
}

func (b *Builder) NewNullLiteral(parent *Element, pos token.Position, file string) *Element {
	l := b.new(Literal, parent, pos, file)
	l.LitKind = NullLiteral
	return l
}
