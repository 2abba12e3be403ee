// Package x86sym models the architectural state of an x86 CPU as symbolic
// expressions that can later be concretized against operand bindings.
package x86sym

import (
	"fmt"
)

// Standard widths.
const (
	WidthBool = 1
	Width8    = 8
	Width16   = 16
	Width32   = 32
	Width64   = 64
)

// Scalar is the set of concrete values a node can evaluate to.
// Every scalar width can be muxed with IfElse.
type Scalar interface {
	bool | uint8 | uint16 | uint32 | uint64
}

// Integer is the set of integer widths. Integers can be compared.
type Integer interface {
	uint8 | uint16 | uint32 | uint64
}

// widthOf returns the bit width of the scalar type T.
func widthOf[T Scalar]() uint {
	var zero T
	switch any(zero).(type) {
	case bool:
		return WidthBool
	case uint8:
		return Width8
	case uint16:
		return Width16
	case uint32:
		return Width32
	case uint64:
		return Width64
	default:
		panic("unreachable")
	}
}

// bitmask returns a mask covering the low width bits.
func bitmask(width uint) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return (1 << width) - 1
}

// assert panics if condition is false.
func assert(condition bool, format string, args ...interface{}) {
	if !condition {
		panic(fmt.Sprintf("assert: "+format, args...))
	}
}
