package x86sym

import (
	"fmt"
)

// lowWordClearMask clears the low 16 bits of a 64-bit value.
const lowWordClearMask = 0xFFFF_FFFF_FFFF_0000

// ExtractByteExpr selects one byte of a 64-bit value. Index 0 is the least
// significant byte.
type ExtractByteExpr struct {
	node
	Src   QWord
	Index uint
}

// ExtractByte returns byte index of src.
func ExtractByte(a *Arena, src QWord, index uint) Byte {
	assert(index < 8, "extract byte: index out of range: %d", index)
	k := newKey(a, kindExtractByte, Width8).u64(uint64(index)).child(src)
	if src, ok := src.(*ConstantExpr[uint64]); ok {
		return Constant(a, extractByte(src.Value, index))
	}
	return intern(k, func(n node) *ExtractByteExpr {
		return &ExtractByteExpr{node: n, Src: src, Index: index}
	})
}

func (e *ExtractByteExpr) Width() uint      { return Width8 }
func (e *ExtractByteExpr) Children() []Expr { return []Expr{e.Src} }

// String returns the string representation of the expression.
func (e *ExtractByteExpr) String() string {
	return fmt.Sprintf("(extract-byte %s %d)", e.Src, e.Index)
}

func (e *ExtractByteExpr) eval(ev *evaluator) uint8 {
	return extractByte(evalNode(ev, e.Src), e.Index)
}

func extractByte(v uint64, index uint) uint8 {
	return uint8((v >> (index * 8)) & 0xFF)
}

// TruncateWordExpr keeps the low 16 bits of a 64-bit value.
type TruncateWordExpr struct {
	node
	Src QWord
}

// TruncateToWord returns the low 16 bits of src.
func TruncateToWord(a *Arena, src QWord) Word {
	k := newKey(a, kindTruncateWord, Width16).child(src)
	if src, ok := src.(*ConstantExpr[uint64]); ok {
		return Constant(a, uint16(src.Value))
	}
	return intern(k, func(n node) *TruncateWordExpr {
		return &TruncateWordExpr{node: n, Src: src}
	})
}

func (e *TruncateWordExpr) Width() uint      { return Width16 }
func (e *TruncateWordExpr) Children() []Expr { return []Expr{e.Src} }
func (e *TruncateWordExpr) String() string   { return fmt.Sprintf("(trunc16 %s)", e.Src) }

func (e *TruncateWordExpr) eval(ev *evaluator) uint16 {
	return uint16(evalNode(ev, e.Src) & 0xFFFF)
}

// TruncateDWordExpr keeps the low 32 bits of a 64-bit value.
type TruncateDWordExpr struct {
	node
	Src QWord
}

// TruncateToDWord returns the low 32 bits of src.
func TruncateToDWord(a *Arena, src QWord) DWord {
	k := newKey(a, kindTruncateDWord, Width32).child(src)
	if src, ok := src.(*ConstantExpr[uint64]); ok {
		return Constant(a, uint32(src.Value))
	}
	return intern(k, func(n node) *TruncateDWordExpr {
		return &TruncateDWordExpr{node: n, Src: src}
	})
}

func (e *TruncateDWordExpr) Width() uint      { return Width32 }
func (e *TruncateDWordExpr) Children() []Expr { return []Expr{e.Src} }
func (e *TruncateDWordExpr) String() string   { return fmt.Sprintf("(trunc32 %s)", e.Src) }

func (e *TruncateDWordExpr) eval(ev *evaluator) uint32 {
	return uint32(evalNode(ev, e.Src) & 0xFFFF_FFFF)
}

// ZeroExtendExpr widens an integer, filling the new high bits with zero.
type ZeroExtendExpr[From, To Integer] struct {
	node
	Src Node[From]
}

// ZeroExtend promotes src to the wider width To. Panics unless To is strictly
// wider than From.
func ZeroExtend[From, To Integer](a *Arena, src Node[From]) Node[To] {
	assert(widthOf[To]() > widthOf[From](), "zext: cannot extend %d bits to %d bits", widthOf[From](), widthOf[To]())
	k := newKey(a, kindZeroExtend, widthOf[To]()).u64(uint64(widthOf[From]())).child(src)
	if src, ok := src.(*ConstantExpr[From]); ok {
		return Constant(a, To(src.Value))
	}
	return intern(k, func(n node) *ZeroExtendExpr[From, To] {
		return &ZeroExtendExpr[From, To]{node: n, Src: src}
	})
}

func (e *ZeroExtendExpr[From, To]) Width() uint      { return widthOf[To]() }
func (e *ZeroExtendExpr[From, To]) Children() []Expr { return []Expr{e.Src} }

// String returns the string representation of the expression.
func (e *ZeroExtendExpr[From, To]) String() string {
	return fmt.Sprintf("(zext %s %d)", e.Src, e.Width())
}

func (e *ZeroExtendExpr[From, To]) eval(ev *evaluator) To {
	return To(evalNode(ev, e.Src))
}

// WriteLowBitsExpr replaces the low 16 bits of a 64-bit value.
type WriteLowBitsExpr struct {
	node
	Prev QWord
	Low  Word
}

// WriteLowBits returns prev with its low 16 bits replaced by low. The upper
// 48 bits are preserved.
func WriteLowBits(a *Arena, prev QWord, low Word) QWord {
	k := newKey(a, kindWriteLowBits, Width64).child(prev).child(low)
	if prev, ok := prev.(*ConstantExpr[uint64]); ok {
		if low, ok := low.(*ConstantExpr[uint16]); ok {
			return Constant(a, writeLowBits(prev.Value, low.Value))
		}
	}
	return intern(k, func(n node) *WriteLowBitsExpr {
		return &WriteLowBitsExpr{node: n, Prev: prev, Low: low}
	})
}

func (e *WriteLowBitsExpr) Width() uint      { return Width64 }
func (e *WriteLowBitsExpr) Children() []Expr { return []Expr{e.Prev, e.Low} }

// String returns the string representation of the expression.
func (e *WriteLowBitsExpr) String() string {
	return fmt.Sprintf("(write-low16 %s %s)", e.Prev, e.Low)
}

func (e *WriteLowBitsExpr) eval(ev *evaluator) uint64 {
	return writeLowBits(evalNode(ev, e.Prev), evalNode(ev, e.Low))
}

func writeLowBits(prev uint64, low uint16) uint64 {
	return (prev & lowWordClearMask) | uint64(low)
}

// InsertByteExpr replaces one byte of a 64-bit value.
type InsertByteExpr struct {
	node
	Prev  QWord
	Index uint
	Value Byte
}

// InsertByte returns prev with byte index replaced by value. The other 56
// bits are preserved.
func InsertByte(a *Arena, prev QWord, index uint, value Byte) QWord {
	assert(index < 8, "insert byte: index out of range: %d", index)
	k := newKey(a, kindInsertByte, Width64).u64(uint64(index)).child(prev).child(value)
	if prev, ok := prev.(*ConstantExpr[uint64]); ok {
		if value, ok := value.(*ConstantExpr[uint8]); ok {
			return Constant(a, insertByte(prev.Value, index, value.Value))
		}
	}
	return intern(k, func(n node) *InsertByteExpr {
		return &InsertByteExpr{node: n, Prev: prev, Index: index, Value: value}
	})
}

func (e *InsertByteExpr) Width() uint      { return Width64 }
func (e *InsertByteExpr) Children() []Expr { return []Expr{e.Prev, e.Value} }

// String returns the string representation of the expression.
func (e *InsertByteExpr) String() string {
	return fmt.Sprintf("(insert-byte %s %d %s)", e.Prev, e.Index, e.Value)
}

func (e *InsertByteExpr) eval(ev *evaluator) uint64 {
	return insertByte(evalNode(ev, e.Prev), e.Index, evalNode(ev, e.Value))
}

func insertByte(prev uint64, index uint, v uint8) uint64 {
	shift := index * 8
	return (prev &^ (0xFF << shift)) | (uint64(v) << shift)
}

// BitExpr tests a single bit of an integer.
type BitExpr[T Integer] struct {
	node
	Src   Node[T]
	Index uint
}

// Bit returns true if bit index of src is set.
func Bit[T Integer](a *Arena, src Node[T], index uint) Bool {
	assert(index < widthOf[T](), "bit: index out of range: %d", index)
	k := newKey(a, kindBit, widthOf[T]()).u64(uint64(index)).child(src)
	if src, ok := src.(*ConstantExpr[T]); ok {
		return Constant(a, (src.Value>>index)&1 != 0)
	}
	return intern(k, func(n node) *BitExpr[T] {
		return &BitExpr[T]{node: n, Src: src, Index: index}
	})
}

func (e *BitExpr[T]) Width() uint      { return WidthBool }
func (e *BitExpr[T]) Children() []Expr { return []Expr{e.Src} }
func (e *BitExpr[T]) String() string   { return fmt.Sprintf("(bit %s %d)", e.Src, e.Index) }

func (e *BitExpr[T]) eval(ev *evaluator) bool {
	return (evalNode(ev, e.Src)>>e.Index)&1 != 0
}

// BoolToIntExpr promotes a boolean to an integer 0 or 1.
type BoolToIntExpr[T Integer] struct {
	node
	Src Bool
}

// BoolToInt returns 1 if src holds, otherwise 0.
func BoolToInt[T Integer](a *Arena, src Bool) Node[T] {
	k := newKey(a, kindBoolToInt, widthOf[T]()).child(src)
	if src, ok := src.(*ConstantExpr[bool]); ok {
		return Constant(a, boolToInt[T](src.Value))
	}
	return intern(k, func(n node) *BoolToIntExpr[T] {
		return &BoolToIntExpr[T]{node: n, Src: src}
	})
}

func (e *BoolToIntExpr[T]) Width() uint      { return widthOf[T]() }
func (e *BoolToIntExpr[T]) Children() []Expr { return []Expr{e.Src} }

// String returns the string representation of the expression.
func (e *BoolToIntExpr[T]) String() string {
	return fmt.Sprintf("(bool-to-int %s %d)", e.Src, e.Width())
}

func (e *BoolToIntExpr[T]) eval(ev *evaluator) T {
	return boolToInt[T](evalNode(ev, e.Src))
}

func boolToInt[T Integer](v bool) T {
	if v {
		return 1
	}
	return 0
}
