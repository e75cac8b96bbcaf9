package evaluator

import "github.com/doublelove22/basecode/internal/elements"

// foldConstant attempts to reduce wrapper.Expr to a single literal in
// place, preserving the owning initializer's identity: on success the
// old expression element is retired from the store and the folded
// literal (allocated through builder, so it gets a real store id)
// becomes wrapper.Expr. A literal already folds to itself (identity
// fold, so callers don't need to special-case "already a literal").
// Anything that doesn't reduce is left untouched — constant folding
// is an optimization, not a requirement for correctness.
func foldConstant(builder *elements.Builder, wrapper *elements.Element) {
	if wrapper == nil || wrapper.Expr == nil {
		return
	}
	folded, ok := tryFold(builder, wrapper.Expr)
	if !ok || folded == wrapper.Expr {
		return
	}
	old := wrapper.Expr
	folded.ParentID = wrapper.ID
	wrapper.Expr = folded
	builder.Store().Remove(old.ID)
}

func tryFold(builder *elements.Builder, e *elements.Element) (*elements.Element, bool) {
	switch e.Kind {
	case elements.Literal:
		return e, true
	case elements.UnaryOperator:
		return tryFoldUnary(builder, e)
	case elements.BinaryOperator:
		return tryFoldBinary(builder, e)
	default:
		return nil, false
	}
}

func tryFoldUnary(builder *elements.Builder, e *elements.Element) (*elements.Element, bool) {
	if e.Op != elements.OpNeg || e.Operand == nil {
		return nil, false
	}
	operand, ok := tryFold(builder, e.Operand)
	if !ok || operand.Kind != elements.Literal {
		return nil, false
	}
	switch operand.LitKind {
	case elements.IntLiteral:
		return builder.NewIntLiteral(nil, e.Pos, e.File, -operand.IntVal, true), true
	case elements.FloatLiteral:
		return builder.NewFloatLiteral(nil, e.Pos, e.File, -operand.FloatVal), true
	default:
		return nil, false
	}
}

func tryFoldBinary(builder *elements.Builder, e *elements.Element) (*elements.Element, bool) {
	if e.Lhs == nil || e.Rhs == nil {
		return nil, false
	}
	lhs, ok1 := tryFold(builder, e.Lhs)
	rhs, ok2 := tryFold(builder, e.Rhs)
	if !ok1 || !ok2 || lhs.Kind != elements.Literal || rhs.Kind != elements.Literal {
		return nil, false
	}
	if lhs.LitKind != rhs.LitKind {
		return nil, false
	}

	switch lhs.LitKind {
	case elements.IntLiteral:
		a, b := int64(lhs.IntVal), int64(rhs.IntVal)
		var v int64
		switch e.Op {
		case elements.OpAdd:
			v = a + b
		case elements.OpSub:
			v = a - b
		case elements.OpMul:
			v = a * b
		case elements.OpDiv:
			if b == 0 {
				return nil, false
			}
			v = a / b
		case elements.OpMod:
			if b == 0 {
				return nil, false
			}
			v = a % b
		default:
			return nil, false
		}
		return builder.NewIntLiteral(nil, e.Pos, e.File, uint64(v), lhs.IntSigned || rhs.IntSigned), true

	case elements.FloatLiteral:
		a, b := lhs.FloatVal, rhs.FloatVal
		var v float64
		switch e.Op {
		case elements.OpAdd:
			v = a + b
		case elements.OpSub:
			v = a - b
		case elements.OpMul:
			v = a * b
		case elements.OpDiv:
			if b == 0 {
				return nil, false
			}
			v = a / b
		default:
			return nil, false
		}
		return builder.NewFloatLiteral(nil, e.Pos, e.File, v), true

	default:
		return nil, false
	}
}
