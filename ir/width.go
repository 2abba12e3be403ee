package ir

import (
	"errors"
	"fmt"

	"github.com/pirocks/x86sym"
)

// binaryOps maps integer operation kinds onto node operations.
var binaryOps = map[string]x86sym.BinaryOp{
	KindAdd:  x86sym.ADD,
	KindSub:  x86sym.SUB,
	KindMul:  x86sym.MUL,
	KindAnd:  x86sym.AND,
	KindOr:   x86sym.OR,
	KindXor:  x86sym.XOR,
	KindShl:  x86sym.SHL,
	KindLshr: x86sym.LSHR,
}

// compareOps maps comparison kinds onto node comparisons.
var compareOps = map[string]x86sym.CompareOp{
	KindLT: x86sym.LT,
	KindGT: x86sym.GT,
	KindEQ: x86sym.EQ,
}

// Width returns the bit width e evaluates to. Constants without a width
// cannot be resolved on their own.
func Width(e *Expr) (uint, error) {
	return resolve(e, 0)
}

// resolve returns the width of e. hint is the width its context expects, or
// zero if the context does not constrain it.
func resolve(e *Expr, hint uint) (uint, error) {
	if e == nil {
		return 0, fmt.Errorf("nil expression: %w", ErrArity)
	}

	switch e.Kind {
	case KindConst:
		w := e.Width
		if w == 0 {
			w = hint
		}
		if w == 0 {
			return 0, fmt.Errorf("constant %#x: %w", e.Value, ErrUnresolvedWidth)
		} else if !x86sym.ValidWidth(w) {
			return 0, fmt.Errorf("constant %#x: %w: %d", e.Value, ErrInvalidWidth, w)
		} else if w < 64 && e.Value>>w != 0 {
			return 0, fmt.Errorf("constant %#x: %w: %d bits", e.Value, ErrConstantOverflow, w)
		}
		return w, nil

	case KindVar:
		if e.Width == 0 {
			return 0, fmt.Errorf("var %d: %w", e.ID, ErrUnresolvedWidth)
		} else if !x86sym.ValidWidth(e.Width) {
			return 0, fmt.Errorf("var %d: %w: %d", e.ID, ErrInvalidWidth, e.Width)
		}
		return e.Width, nil

	case KindReg:
		v, ok := x86sym.ParseView(e.Name)
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownRegister, e.Name)
		}
		return v.Width(), nil

	case KindFlag:
		if _, ok := x86sym.ParseFlag(e.Name); !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownFlag, e.Name)
		}
		return x86sym.WidthBool, nil

	case KindMem:
		if e.Width == 0 {
			return 0, fmt.Errorf("mem %#x: %w", e.Addr, ErrUnresolvedWidth)
		} else if !isIntegerWidth(e.Width) {
			return 0, fmt.Errorf("mem %#x: %w: %d", e.Addr, ErrInvalidWidth, e.Width)
		}
		return e.Width, nil

	case KindAdd, KindSub, KindMul, KindShl, KindLshr:
		if err := arity(e, 2); err != nil {
			return 0, err
		}
		w, err := operandWidth(e, e.Args, hint)
		if err != nil {
			return 0, err
		} else if !isIntegerWidth(w) {
			return 0, fmt.Errorf("%s: %w: boolean operands", e.Kind, ErrWidthMismatch)
		}
		return w, nil

	case KindAnd, KindOr, KindXor:
		if err := arity(e, 2); err != nil {
			return 0, err
		}
		return operandWidth(e, e.Args, hint)

	case KindNot:
		if err := arity(e, 1); err != nil {
			return 0, err
		}
		return operandWidth(e, e.Args, hint)

	case KindLT, KindGT, KindEQ:
		if err := arity(e, 2); err != nil {
			return 0, err
		}
		w, err := operandWidth(e, e.Args, 0)
		if err != nil {
			return 0, err
		} else if !isIntegerWidth(w) {
			return 0, fmt.Errorf("%s: %w: boolean operands", e.Kind, ErrWidthMismatch)
		}
		return x86sym.WidthBool, nil

	case KindIte:
		if err := arity(e, 3); err != nil {
			return 0, err
		}
		if w, err := resolve(e.Args[0], x86sym.WidthBool); err != nil {
			return 0, err
		} else if w != x86sym.WidthBool {
			return 0, fmt.Errorf("ite condition: %w: %d bits", ErrWidthMismatch, w)
		}
		return operandWidth(e, e.Args[1:], hint)

	case KindExtract:
		if err := arity(e, 1); err != nil {
			return 0, err
		}
		src, err := resolve(e.Args[0], 0)
		if err != nil {
			return 0, err
		}
		if _, err := extractPlan(src, e.Lo, e.Hi); err != nil {
			return 0, err
		}
		return extractWidth(e.Lo, e.Hi), nil

	case KindZext:
		if err := arity(e, 1); err != nil {
			return 0, err
		}
		if !isIntegerWidth(e.Width) {
			return 0, fmt.Errorf("zext: %w: %d", ErrInvalidWidth, e.Width)
		}
		src, err := resolve(e.Args[0], 0)
		if err != nil {
			return 0, err
		} else if src > e.Width {
			return 0, fmt.Errorf("zext: %w: cannot extend %d bits to %d bits", ErrWidthMismatch, src, e.Width)
		}
		return e.Width, nil

	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, e.Kind)
	}
}

// operandWidth returns the common width of args. Operands that resolve on
// their own fix the width; untyped constants then adopt it. Falls back to
// hint when no operand resolves.
func operandWidth(e *Expr, args []*Expr, hint uint) (uint, error) {
	var w uint
	for _, arg := range args {
		aw, err := resolve(arg, 0)
		if errors.Is(err, ErrUnresolvedWidth) {
			continue
		} else if err != nil {
			return 0, err
		}
		w = aw
		break
	}
	if w == 0 {
		w = hint
	}
	if w == 0 {
		return 0, fmt.Errorf("%s: %w", e.Kind, ErrUnresolvedWidth)
	}

	for i, arg := range args {
		aw, err := resolve(arg, w)
		if err != nil {
			return 0, err
		} else if aw != w {
			return 0, fmt.Errorf("%s: %w: operand %d has %d bits, want %d", e.Kind, ErrWidthMismatch, i, aw, w)
		}
	}
	return w, nil
}

func arity(e *Expr, n int) error {
	if len(e.Args) != n {
		return fmt.Errorf("%s: %w: got %d, want %d", e.Kind, ErrArity, len(e.Args), n)
	}
	return nil
}

func isIntegerWidth(w uint) bool {
	return w != x86sym.WidthBool && x86sym.ValidWidth(w)
}

// extractStep is one width bridge used to implement an extract.
type extractStep int

const (
	extractIdentity extractStep = iota + 1
	extractBit
	extractByte
	extractWord
	extractDWord
)

// extractWidth returns the width of the bit range lo..hi. A single bit is a boolean.
func extractWidth(lo, hi uint) uint {
	if lo == hi {
		return x86sym.WidthBool
	}
	return hi - lo + 1
}

// extractPlan returns the bridge implementing bits lo..hi of a src-bit value.
// Supported ranges are a single bit, any aligned byte, the low word, the low
// double word, and the whole value.
func extractPlan(src, lo, hi uint) (extractStep, error) {
	if lo > hi || hi >= src || src == x86sym.WidthBool {
		return 0, fmt.Errorf("%w: bits %d..%d of %d-bit value", ErrUnsupportedExtract, lo, hi, src)
	}
	switch {
	case lo == hi:
		return extractBit, nil
	case lo == 0 && hi == src-1:
		return extractIdentity, nil
	case lo%8 == 0 && hi == lo+7:
		return extractByte, nil
	case lo == 0 && hi == 15:
		return extractWord, nil
	case lo == 0 && hi == 31:
		return extractDWord, nil
	default:
		return 0, fmt.Errorf("%w: bits %d..%d of %d-bit value", ErrUnsupportedExtract, lo, hi, src)
	}
}
