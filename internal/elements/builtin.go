package elements

import (
	"math"

	"github.com/doublelove22/basecode/internal/token"
)

// DefaultIntegerType is the type every bare integer literal and every
// inferred integer declaration resolves to. The source this module is
// grounded on never narrows an integer literal to its smallest fitting
// type; this module preserves that behavior exactly rather than
// "fixing" it (see the design notes on resolved open questions).
const DefaultIntegerType = "u32"

// numericSpec is one row of the builtin numeric type table.
type numericSpec struct {
	name      string
	bits      int
	signed    bool
	min       int64
	max       uint64
}

var numericTable = []numericSpec{
	{"u8", 8, false, 0, math.MaxUint8},
	{"u16", 16, false, 0, math.MaxUint16},
	{"u32", 32, false, 0, math.MaxUint32},
	{"u64", 64, false, 0, math.MaxUint64},
	{"s8", 8, true, math.MinInt8, math.MaxInt8},
	{"s16", 16, true, math.MinInt16, math.MaxInt16},
	{"s32", 32, true, math.MinInt32, math.MaxInt32},
	{"s64", 64, true, math.MinInt64, math.MaxInt64},
}

// InitializeCoreTypes seeds root — the program's top-level scope —
// with every builtin type the Language defines: the eight fixed-width
// numeric types, the two IEEE-754 float types, bool, address (pointer-
// width, used for pointer-type sizing), any, and string. Each is
// interned into root.TypesMap by name, matching the type-interning
// invariant every other scope's lookup relies on.
func (b *Builder) InitializeCoreTypes(root *Element) {
	for _, spec := range numericTable {
		t := b.NewNumericType(root, token.Position{}, "", spec.name, spec.bits/8, spec.signed, spec.min, spec.max)
		root.TypesMap[spec.name] = t
	}

	f32 := b.NewNumericType(root, token.Position{}, "", "f32", 4, true, 0, 0)
	f32.MaxValue = uint64(math.Float32bits(math.MaxFloat32))
	root.TypesMap["f32"] = f32

	f64 := b.NewNumericType(root, token.Position{}, "", "f64", 8, true, 0, 0)
	f64.MaxValue = math.Float64bits(math.MaxFloat64)
	root.TypesMap["f64"] = f64

	boolT := b.NewBoolType(root, token.Position{}, "")
	root.TypesMap["bool"] = boolT

	address := b.NewNumericType(root, token.Position{}, "", "address", 8, false, 0, math.MaxUint64)
	root.TypesMap["address"] = address

	root.TypesMap["any"] = b.NewAnyType(root, token.Position{}, "")
	root.TypesMap["string"] = b.NewStringType(root, token.Position{}, "")
}
