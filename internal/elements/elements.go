// Package elements defines the semantic program-element graph the
// evaluator builds: a closed, tagged-sum Element kind with a shared
// header (id, parent, source location, attributes) and kind-specific
// payload fields, plus the arena-style Store that owns every Element
// by stable id.
//
// Owning edges (module->block, block->statement, initializer->
// expression) are held as direct *Element pointers, since the parent
// genuinely owns the child's lifetime and may need to replace it in
// place (constant folding swaps an expression for a folded literal
// without changing the owning initializer's identity). Non-owning
// reference edges (a type annotation, a resolved identifier, a call
// callee, a module reference) are held as ids resolved through the
// Store, so a later replacement of the referenced element can never
// leave a stale pointer dangling.
package elements

import "github.com/doublelove22/basecode/internal/token"

// Kind is the closed set of element kinds the evaluator produces.
type Kind int

const (
	Module Kind = iota
	Block
	Namespace
	Identifier
	Initializer
	SymbolElement
	IdentifierReference
	ModuleReference
	Import

	BaseType
	NumericType
	BoolType
	StringType
	AnyType
	ArrayType
	PointerType
	TupleType
	CompositeType
	ProcedureType
	ProcedureInstance
	ProcedureCall

	Field
	Attribute
	Directive
	Statement
	Label
	Expression
	UnaryOperator
	BinaryOperator
	Cast
	Transmute
	Alias
	Comment
	IfElement
	ReturnElement
	Literal
)

var kindNames = map[Kind]string{
	Module:              "module",
	Block:               "block",
	Namespace:           "namespace",
	Identifier:          "identifier",
	Initializer:         "initializer",
	SymbolElement:       "symbol_element",
	IdentifierReference: "identifier_reference",
	ModuleReference:     "module_reference",
	Import:              "import",
	BaseType:            "type",
	NumericType:         "numeric_type",
	BoolType:            "bool_type",
	StringType:          "string_type",
	AnyType:             "any_type",
	ArrayType:           "array_type",
	PointerType:         "pointer_type",
	TupleType:           "tuple_type",
	CompositeType:       "composite_type",
	ProcedureType:       "procedure_type",
	ProcedureInstance:   "procedure_instance",
	ProcedureCall:       "procedure_call",
	Field:               "field",
	Attribute:           "attribute",
	Directive:           "directive",
	Statement:           "statement",
	Label:               "label",
	Expression:          "expression",
	UnaryOperator:       "unary_operator",
	BinaryOperator:      "binary_operator",
	Cast:                "cast",
	Transmute:           "transmute",
	Alias:               "alias",
	Comment:             "comment",
	IfElement:           "if_element",
	ReturnElement:       "return_element",
	Literal:             "literal",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// CompositeTag distinguishes the three composite_type shapes sharing
// the CompositeType kind.
type CompositeTag int

const (
	StructTag CompositeTag = iota
	UnionTag
	EnumTag
)

// OpKind is the closed set of unary/binary operator spellings, carried
// on UnaryOperator/BinaryOperator elements instead of re-deriving it
// from the originating token every time an operator is consumed.
type OpKind int

const (
	OpUnknown OpKind = iota
	OpAssign
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpExp
	OpBitAnd
	OpBitOr
	OpBitXor
	OpBitNot
	OpShl
	OpShr
	OpLogicalAnd
	OpLogicalOr
	OpLogicalNot
	OpEq
	OpNeq
	OpLt
	OpGt
	OpLtEq
	OpGtEq
	OpNeg
	OpAddressOf
	OpDeref
	OpSubscript
)

// CommentTag distinguishes a line_comment from a block_comment.
type CommentTag int

const (
	LineCommentTag CommentTag = iota
	BlockCommentTag
)

// LiteralTag is the closed set of literal payload shapes.
type LiteralTag int

const (
	BoolLiteral LiteralTag = iota
	IntLiteral
	FloatLiteral
	StringLiteral
	CharLiteral
	NullLiteral
)

// Usage classifies where an identifier's storage lives, set by the
// proc_expression handler for parameters (always stack) and left at
// its zero value (stack) for ordinary declarations until a later
// pass has reason to promote it.
type Usage int

const (
	UsageStack Usage = iota
	UsageHeap
)

// Element is the single generic record every element kind is built
// from, mirroring the AST's single generic Node record: a shared
// header plus a sparse set of kind-specific fields, most of which are
// nil/zero for any given kind.
type Element struct {
	ID       uint64
	ParentID uint64
	Kind     Kind
	Pos      token.Position
	File     string

	Attributes []*Element
	Directives []*Element

	// module
	ModuleBlock *Element
	SourcePath  string

	// block
	ChildBlocks []*Element
	Statements  []*Element
	Comments    []*Element
	ImportsList []*Element
	TypesMap    map[string]*Element
	Identifiers map[string]*Element
	Order       []string // insertion order of Identifiers, for deterministic dumps

	// namespace
	Inner *Element

	// identifier
	Name         string
	TypeID       uint64
	InitializerE *Element
	InferredType bool
	Constant     bool
	Usage        Usage

	// initializer
	Expr *Element

	// symbol_element
	Parts      []string
	Qualifiers []string

	// identifier_reference
	Qualified string
	ResolvedID uint64 // 0 means unresolved

	// module_reference
	ModuleID uint64

	// import
	IdentRefID uint64
	FromRefID  uint64
	OwningModID uint64

	// type (base) common to all type kinds
	TypeName  string
	SizeBytes int
	Align     int
	AwaitingID uint64 // unknown-type placeholder: identifier awaiting resolution

	// numeric_type
	MinValue int64
	MaxValue uint64
	Signed   bool

	// array_type
	ElemTypeID  uint64
	LengthExpr  *Element

	// pointer_type
	PointeeTypeID uint64

	// tuple_type
	TupleFields []*Element

	// composite_type
	CompositeKind  CompositeTag
	CompositeScope *Element
	Fields         map[string]*Element
	FieldOrder     []string

	// procedure_type
	ProcScope   *Element
	Params      []*Element
	Returns     []*Element
	Instances   []*Element
	Foreign     bool

	// procedure_instance
	ProcTypeID uint64
	Body       *Element

	// procedure_call
	CalleeID uint64
	Args     []*Element

	// field
	FieldIdent *Element

	// attribute / directive
	AttrName string
	AttrExpr *Element

	// statement
	Labels []*Element
	Root   *Element

	// label
	LabelName string

	// expression
	WrappedID uint64 // non-owning: the wrapped element when it is a reference, 0 otherwise
	Wrapped   *Element

	// unary_operator
	Op      OpKind
	Operand *Element

	// binary_operator (assignment is a binary_operator with Op == OpAssign)
	Lhs *Element
	Rhs *Element

	// cast / transmute
	TargetTypeID uint64
	CastExpr     *Element

	// alias
	AliasTargetID uint64
	AliasTarget   *Element

	// comment
	CommentKind CommentTag
	Text        string

	// if_element
	Predicate   *Element
	TrueBranch  *Element
	FalseBranch *Element

	// return_element
	Exprs []*Element

	// literal
	LitKind   LiteralTag
	BoolVal   bool
	IntVal    uint64
	IntSigned bool
	FloatVal  float64
	StrVal    string
	CharVal   rune
}

// HasParent reports whether e has an owning parent — false only for
// the program root, per the element graph's single invariant
// exception.
func (e *Element) HasParent() bool { return e.ParentID != 0 }
