// Package ast defines the AST node record produced by the parser and
// consumed by the evaluator, plus the Builder that owns node
// construction, id assignment, and the scope stack.
//
// Node is a single generic record type rather than one Go type per
// node kind — the closed Kind enum plus ordered Children/Lhs/Rhs
// covers every shape the grammar needs (symbol trees, pair chains,
// operator trees, block bodies): a stable id, a kind, a token, ordered
// children, optional lhs/rhs, a flag word, and a weak parent
// back-reference.
package ast

import "github.com/doublelove22/basecode/internal/token"

// Kind is the closed set of AST node kinds the grammar produces.
type Kind int

const (
	Program Kind = iota
	Statement
	ExpressionNode
	Assignment
	BasicBlock
	Symbol
	SymbolPart
	TypeIdentifier
	ArgumentList
	ParameterList
	Directive
	Attribute
	Pair
	Label
	LabelList

	IntLiteral
	FloatLiteral
	BoolLiteral
	StringLiteral
	CharLiteral
	NullLiteral

	UnaryOperator
	BinaryOperator

	ProcExpression
	ProcCall

	IfExpression
	ElseIfExpression
	ElseExpression

	ForIn
	While
	Break
	Continue
	Return

	NamespaceExpression
	StructExpression
	UnionExpression
	EnumExpression
	ModuleExpression
	ImportExpression
	AliasExpression
	DeferExpression
	WithExpression
	CastExpression
	TransmuteExpression

	SubscriptExpression
	ConstantExpression

	LineComment
	BlockComment
)

var kindNames = map[Kind]string{
	Program:             "program",
	Statement:           "statement",
	ExpressionNode:      "expression",
	Assignment:          "assignment",
	BasicBlock:          "basic_block",
	Symbol:              "symbol",
	SymbolPart:          "symbol_part",
	TypeIdentifier:      "type_identifier",
	ArgumentList:        "argument_list",
	ParameterList:       "parameter_list",
	Directive:           "directive",
	Attribute:           "attribute",
	Pair:                "pair",
	Label:               "label",
	LabelList:           "label_list",
	IntLiteral:          "int_literal",
	FloatLiteral:        "float_literal",
	BoolLiteral:         "bool_literal",
	StringLiteral:       "string_literal",
	CharLiteral:         "char_literal",
	NullLiteral:         "null_literal",
	UnaryOperator:       "unary_operator",
	BinaryOperator:      "binary_operator",
	ProcExpression:      "proc_expression",
	ProcCall:            "proc_call",
	IfExpression:        "if_expression",
	ElseIfExpression:    "elseif_expression",
	ElseExpression:      "else_expression",
	ForIn:               "for_in",
	While:               "while",
	Break:               "break",
	Continue:            "continue",
	Return:              "return",
	NamespaceExpression: "namespace_expression",
	StructExpression:    "struct_expression",
	UnionExpression:     "union_expression",
	EnumExpression:      "enum_expression",
	ModuleExpression:    "module_expression",
	ImportExpression:    "import_expression",
	AliasExpression:     "alias_expression",
	DeferExpression:     "defer_expression",
	WithExpression:      "with_expression",
	CastExpression:      "cast_expression",
	TransmuteExpression: "transmute_expression",
	SubscriptExpression: "subscript_expression",
	ConstantExpression:  "constant_expression",
	LineComment:         "line_comment",
	BlockComment:        "block_comment",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Flags is a bitmask carried alongside a node for a handful of
// orthogonal modifiers: array length markers, pointer markers, and
// spread markers on type identifiers and parameters.
type Flags uint8

const (
	FlagArray Flags = 1 << iota
	FlagPointer
	FlagSpread
)

// Node is a single AST node. Children holds the ordered child list;
// Lhs/Rhs hold the optional left/right children used by binary-shaped
// constructs (assignment, pair, binary_operator, if/else chains).
// Parent is a weak back-reference id, not a pointer, so nodes remain
// freely shareable while being built; their lifetime is bounded by the
// AST builder that owns them, not by any one parent.
type Node struct {
	ID       uint32
	Kind     Kind
	Token    token.Token
	Children []*Node
	Lhs      *Node
	Rhs      *Node
	ParentID uint32
	Flags    Flags
}

// HasFlag reports whether f is set on the node.
func (n *Node) HasFlag(f Flags) bool { return n.Flags&f != 0 }

// Text returns the node's originating token literal, the common case
// for identifier/literal nodes.
func (n *Node) Text() string { return n.Token.Literal }
