package ast

import "github.com/doublelove22/basecode/internal/token"

// Builder owns AST node construction: a monotonically increasing id
// counter, a stack of in-progress scope (basic_block) nodes, and a
// per-scope pending-attributes queue.
type Builder struct {
	nextID  uint32
	nodes   map[uint32]*Node
	scopes  []*Node
	pending [][]*Node // pending attributes, one slice per open scope
}

// NewBuilder constructs an empty Builder.
func NewBuilder() *Builder {
	return &Builder{nodes: make(map[uint32]*Node)}
}

func (b *Builder) alloc(kind Kind, tok token.Token) *Node {
	b.nextID++
	n := &Node{ID: b.nextID, Kind: kind, Token: tok}
	b.nodes[n.ID] = n
	if len(b.scopes) > 0 {
		n.ParentID = b.scopes[len(b.scopes)-1].ID
	}
	return n
}

// Make constructs a childless node of the given kind stamped with tok.
func (b *Builder) Make(kind Kind, tok token.Token) *Node {
	return b.alloc(kind, tok)
}

// MakeUnary constructs a unary-shaped node: Lhs is the operand.
func (b *Builder) MakeUnary(kind Kind, tok token.Token, operand *Node) *Node {
	n := b.alloc(kind, tok)
	n.Lhs = operand
	if operand != nil {
		operand.ParentID = n.ID
	}
	return n
}

// MakeBinary constructs a binary-shaped node: Lhs/Rhs are the two
// operands (assignment, pair, binary_operator, if/else chains).
func (b *Builder) MakeBinary(kind Kind, tok token.Token, lhs, rhs *Node) *Node {
	n := b.alloc(kind, tok)
	n.Lhs = lhs
	n.Rhs = rhs
	if lhs != nil {
		lhs.ParentID = n.ID
	}
	if rhs != nil {
		rhs.ParentID = n.ID
	}
	return n
}

// MakeList constructs a node with an ordered children slice
// (argument_list, parameter_list, label_list, program, basic_block).
func (b *Builder) MakeList(kind Kind, tok token.Token, children ...*Node) *Node {
	n := b.alloc(kind, tok)
	n.Children = children
	for _, c := range children {
		if c != nil {
			c.ParentID = n.ID
		}
	}
	return n
}

// AppendChild appends a single child to an already-built node,
// stamping its parent back-reference.
func (b *Builder) AppendChild(parent, child *Node) {
	parent.Children = append(parent.Children, child)
	if child != nil {
		child.ParentID = parent.ID
	}
}

// Get looks a node up by its stable id.
func (b *Builder) Get(id uint32) (*Node, bool) {
	n, ok := b.nodes[id]
	return n, ok
}

// PushScope opens a new basic_block scope on the builder's scope
// stack, and a matching empty pending-attributes queue.
func (b *Builder) PushScope(block *Node) {
	b.scopes = append(b.scopes, block)
	b.pending = append(b.pending, nil)
}

// PopScope closes the innermost open scope. It is the caller's
// responsibility to ensure every PushScope is matched, including on
// error return paths, so the scope stack stays LIFO-consistent.
func (b *Builder) PopScope() {
	if len(b.scopes) == 0 {
		return
	}
	b.scopes = b.scopes[:len(b.scopes)-1]
	b.pending = b.pending[:len(b.pending)-1]
}

// CurrentScope returns the innermost open basic_block, or nil if no
// scope is open.
func (b *Builder) CurrentScope() *Node {
	if len(b.scopes) == 0 {
		return nil
	}
	return b.scopes[len(b.scopes)-1]
}

// QueueAttribute records an attribute node parsed earlier in the
// current scope, pending attachment to the next statement.
func (b *Builder) QueueAttribute(attr *Node) {
	if len(b.pending) == 0 {
		return
	}
	top := len(b.pending) - 1
	b.pending[top] = append(b.pending[top], attr)
}

// DrainAttributes returns and clears the current scope's pending
// attribute queue, to be attached onto the next statement's rhs
// children.
func (b *Builder) DrainAttributes() []*Node {
	if len(b.pending) == 0 {
		return nil
	}
	top := len(b.pending) - 1
	drained := b.pending[top]
	b.pending[top] = nil
	return drained
}
