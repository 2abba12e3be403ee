package x86sym

import (
	"fmt"
)

// Constructors for callers that only know a width at run time, such as
// decoders of serialized expressions. Each returns a node of the requested
// width as an Expr that can be asserted to Bool, Byte, Word, DWord or QWord.

// ValidWidth returns true if width is one of the node widths.
func ValidWidth(width uint) bool {
	switch width {
	case WidthBool, Width8, Width16, Width32, Width64:
		return true
	default:
		return false
	}
}

// ConstantOf returns a constant of the given width. Panics if value does not
// fit in width bits.
func ConstantOf(a *Arena, width uint, value uint64) Expr {
	assert(ValidWidth(width), "constant: invalid width: %d", width)
	assert(value&^bitmask(width) == 0, "constant: %#x does not fit in %d bits", value, width)
	switch width {
	case WidthBool:
		return Constant(a, fromUint64[bool](value))
	case Width8:
		return Constant(a, fromUint64[uint8](value))
	case Width16:
		return Constant(a, fromUint64[uint16](value))
	case Width32:
		return Constant(a, fromUint64[uint32](value))
	default:
		return Constant(a, value)
	}
}

// VariableOf returns the node referencing ref.
func VariableOf(a *Arena, ref VariableRef) Expr {
	switch ref.Width {
	case WidthBool:
		return NewVariable(a, BoolVar{ID: ref.ID})
	case Width8:
		return NewVariable(a, ByteVar{ID: ref.ID})
	case Width16:
		return NewVariable(a, WordVar{ID: ref.ID})
	case Width32:
		return NewVariable(a, DWordVar{ID: ref.ID})
	case Width64:
		return NewVariable(a, QWordVar{ID: ref.ID})
	default:
		panic(fmt.Sprintf("variable: invalid width: %d", ref.Width))
	}
}

// BindRef binds ref to value. Panics if the widths differ or ref is already bound.
func BindRef(b *Bindings, ref VariableRef, value Expr) {
	assert(value != nil, "bind: nil value for %s", ref)
	assert(value.Width() == ref.Width, "bind: cannot bind %d-bit value to %s", value.Width(), ref)
	_, ok := b.m[ref]
	assert(!ok, "bind: variable already bound: %s", ref)
	b.m[ref] = value
}

// ConcretizeExpr evaluates e against b and returns its value widened to 64 bits.
func ConcretizeExpr(e Expr, b *Bindings) uint64 {
	ev := newEvaluator(b)
	switch e := e.(type) {
	case Bool:
		return toUint64(evalNode(ev, e))
	case Byte:
		return toUint64(evalNode(ev, e))
	case Word:
		return toUint64(evalNode(ev, e))
	case DWord:
		return toUint64(evalNode(ev, e))
	case QWord:
		return evalNode(ev, e)
	default:
		panic(fmt.Sprintf("concretize: unsupported node: %T", e))
	}
}
