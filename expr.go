package x86sym

import (
	"fmt"
)

// Expr is the width-independent view of an expression node.
type Expr interface {
	fmt.Stringer

	// Arena returns the arena that owns the node.
	Arena() *Arena

	// ID returns the node's identifier, unique within its arena.
	ID() uint64

	// Width returns the bit width of the value the node evaluates to.
	Width() uint

	// Children returns the node's operands.
	Children() []Expr
}

// Node is an expression that evaluates to a scalar of type T.
// The set of implementations is closed to this package.
type Node[T Scalar] interface {
	Expr
	eval(ev *evaluator) T
}

// Node families, one per width.
type (
	Bool  = Node[bool]
	Byte  = Node[uint8]
	Word  = Node[uint16]
	DWord = Node[uint32]
	QWord = Node[uint64]
)

// ConstantExpr represents a literal value.
type ConstantExpr[T Scalar] struct {
	node
	Value T
}

// Constant returns the constant node for value.
func Constant[T Scalar](a *Arena, value T) *ConstantExpr[T] {
	k := newKey(a, kindConst, widthOf[T]()).u64(toUint64(value))
	return intern(k, func(n node) *ConstantExpr[T] {
		return &ConstantExpr[T]{node: n, Value: value}
	})
}

func (e *ConstantExpr[T]) Width() uint      { return widthOf[T]() }
func (e *ConstantExpr[T]) Children() []Expr { return nil }
func (e *ConstantExpr[T]) eval(*evaluator) T { return e.Value }

// String returns the string representation of the expression.
func (e *ConstantExpr[T]) String() string {
	return fmt.Sprintf("(const %#x %d)", toUint64(e.Value), e.Width())
}

// IsConstant returns true if n is a constant node.
func IsConstant[T Scalar](n Node[T]) bool {
	_, ok := n.(*ConstantExpr[T])
	return ok
}

// VariableExpr represents a reference to a variable resolved at concretization.
type VariableExpr[T Scalar] struct {
	node
	Var Variable[T]
}

// NewVariable returns the node referencing v.
func NewVariable[T Scalar](a *Arena, v Variable[T]) *VariableExpr[T] {
	k := newKey(a, kindVar, widthOf[T]()).u64(uint64(v.ID))
	return intern(k, func(n node) *VariableExpr[T] {
		return &VariableExpr[T]{node: n, Var: v}
	})
}

func (e *VariableExpr[T]) Width() uint      { return widthOf[T]() }
func (e *VariableExpr[T]) Children() []Expr { return nil }

// String returns the string representation of the expression.
func (e *VariableExpr[T]) String() string {
	return fmt.Sprintf("(var %s)", e.Var)
}

func (e *VariableExpr[T]) eval(ev *evaluator) T {
	return evalVariable(ev, e.Var)
}

// BinaryOp represents an integer binary operation.
type BinaryOp int

// BinaryExpr operations.
const (
	ADD BinaryOp = iota + 1
	SUB
	MUL
	AND
	OR
	XOR
	SHL
	LSHR
)

var binaryOps = [...]string{
	ADD:  "add",
	SUB:  "sub",
	MUL:  "mul",
	AND:  "and",
	OR:   "or",
	XOR:  "xor",
	SHL:  "shl",
	LSHR: "lshr",
}

// String returns the string representation of the operation.
func (op BinaryOp) String() string {
	if op >= 0 && op < BinaryOp(len(binaryOps)) && binaryOps[op] != "" {
		return binaryOps[op]
	}
	return fmt.Sprintf("BinaryOp<%d>", op)
}

// IsLogical returns true for the operations that are also defined on booleans.
func (op BinaryOp) IsLogical() bool {
	return op == AND || op == OR || op == XOR
}

// BinaryExpr represents an operation on two integers of the same width.
type BinaryExpr[T Integer] struct {
	node
	Op  BinaryOp
	LHS Node[T]
	RHS Node[T]
}

// Binary returns a node applying op to lhs & rhs. Folds constant operands.
func Binary[T Integer](a *Arena, op BinaryOp, lhs, rhs Node[T]) Node[T] {
	assert(op >= ADD && op <= LSHR, "binary: invalid op: %s", op)
	k := newKey(a, kindBinary, widthOf[T]()).u64(uint64(op)).child(lhs).child(rhs)

	if lhs, ok := lhs.(*ConstantExpr[T]); ok {
		if rhs, ok := rhs.(*ConstantExpr[T]); ok {
			return Constant(a, applyBinary(op, lhs.Value, rhs.Value))
		}
	}
	return intern(k, func(n node) *BinaryExpr[T] {
		return &BinaryExpr[T]{node: n, Op: op, LHS: lhs, RHS: rhs}
	})
}

// Add returns lhs + rhs, wrapping at the operand width.
func Add[T Integer](a *Arena, lhs, rhs Node[T]) Node[T] { return Binary(a, ADD, lhs, rhs) }

// Sub returns lhs - rhs, wrapping at the operand width.
func Sub[T Integer](a *Arena, lhs, rhs Node[T]) Node[T] { return Binary(a, SUB, lhs, rhs) }

// Mul returns the low half of lhs * rhs.
func Mul[T Integer](a *Arena, lhs, rhs Node[T]) Node[T] { return Binary(a, MUL, lhs, rhs) }

// And returns the bitwise AND of lhs & rhs.
func And[T Integer](a *Arena, lhs, rhs Node[T]) Node[T] { return Binary(a, AND, lhs, rhs) }

// Or returns the bitwise OR of lhs & rhs.
func Or[T Integer](a *Arena, lhs, rhs Node[T]) Node[T] { return Binary(a, OR, lhs, rhs) }

// Xor returns the bitwise XOR of lhs & rhs.
func Xor[T Integer](a *Arena, lhs, rhs Node[T]) Node[T] { return Binary(a, XOR, lhs, rhs) }

// Shl returns lhs shifted left by rhs bits. Counts at or above the width yield zero.
func Shl[T Integer](a *Arena, lhs, rhs Node[T]) Node[T] { return Binary(a, SHL, lhs, rhs) }

// Lshr returns lhs logically shifted right by rhs bits. Counts at or above the width yield zero.
func Lshr[T Integer](a *Arena, lhs, rhs Node[T]) Node[T] { return Binary(a, LSHR, lhs, rhs) }

func (e *BinaryExpr[T]) Width() uint      { return widthOf[T]() }
func (e *BinaryExpr[T]) Children() []Expr { return []Expr{e.LHS, e.RHS} }

// String returns the string representation of the expression.
func (e *BinaryExpr[T]) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Op, e.LHS, e.RHS)
}

func (e *BinaryExpr[T]) eval(ev *evaluator) T {
	return applyBinary(e.Op, evalNode(ev, e.LHS), evalNode(ev, e.RHS))
}

// applyBinary applies op using native unsigned arithmetic of width T.
func applyBinary[T Integer](op BinaryOp, x, y T) T {
	switch op {
	case ADD:
		return x + y
	case SUB:
		return x - y
	case MUL:
		return x * y
	case AND:
		return x & y
	case OR:
		return x | y
	case XOR:
		return x ^ y
	case SHL:
		return x << y
	case LSHR:
		return x >> y
	default:
		panic("unreachable")
	}
}

// NotExpr represents the bitwise complement of an integer.
type NotExpr[T Integer] struct {
	node
	Src Node[T]
}

// Not returns the bitwise complement of src.
func Not[T Integer](a *Arena, src Node[T]) Node[T] {
	k := newKey(a, kindNot, widthOf[T]()).child(src)
	if src, ok := src.(*ConstantExpr[T]); ok {
		return Constant(a, ^src.Value)
	}
	return intern(k, func(n node) *NotExpr[T] {
		return &NotExpr[T]{node: n, Src: src}
	})
}

func (e *NotExpr[T]) Width() uint       { return widthOf[T]() }
func (e *NotExpr[T]) Children() []Expr  { return []Expr{e.Src} }
func (e *NotExpr[T]) String() string    { return fmt.Sprintf("(not %s)", e.Src) }
func (e *NotExpr[T]) eval(ev *evaluator) T { return ^evalNode(ev, e.Src) }

// LogicExpr represents a logical operation on two booleans.
type LogicExpr struct {
	node
	Op  BinaryOp
	LHS Bool
	RHS Bool
}

// Logic returns a node applying a logical op (AND, OR, XOR) to lhs & rhs.
func Logic(a *Arena, op BinaryOp, lhs, rhs Bool) Bool {
	assert(op.IsLogical(), "logic: invalid op: %s", op)
	k := newKey(a, kindLogic, WidthBool).u64(uint64(op)).child(lhs).child(rhs)

	if lhs, ok := lhs.(*ConstantExpr[bool]); ok {
		if rhs, ok := rhs.(*ConstantExpr[bool]); ok {
			return Constant(a, applyLogic(op, lhs.Value, rhs.Value))
		}
	}
	return intern(k, func(n node) *LogicExpr {
		return &LogicExpr{node: n, Op: op, LHS: lhs, RHS: rhs}
	})
}

// BoolAnd returns the logical AND of lhs & rhs.
func BoolAnd(a *Arena, lhs, rhs Bool) Bool { return Logic(a, AND, lhs, rhs) }

// BoolOr returns the logical OR of lhs & rhs.
func BoolOr(a *Arena, lhs, rhs Bool) Bool { return Logic(a, OR, lhs, rhs) }

// BoolXor returns the logical XOR of lhs & rhs.
func BoolXor(a *Arena, lhs, rhs Bool) Bool { return Logic(a, XOR, lhs, rhs) }

func (e *LogicExpr) Width() uint      { return WidthBool }
func (e *LogicExpr) Children() []Expr { return []Expr{e.LHS, e.RHS} }

// String returns the string representation of the expression.
func (e *LogicExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Op, e.LHS, e.RHS)
}

func (e *LogicExpr) eval(ev *evaluator) bool {
	return applyLogic(e.Op, evalNode(ev, e.LHS), evalNode(ev, e.RHS))
}

func applyLogic(op BinaryOp, x, y bool) bool {
	switch op {
	case AND:
		return x && y
	case OR:
		return x || y
	case XOR:
		return x != y
	default:
		panic("unreachable")
	}
}

// BoolNotExpr represents a logical negation.
type BoolNotExpr struct {
	node
	Src Bool
}

// BoolNot returns the logical negation of src.
func BoolNot(a *Arena, src Bool) Bool {
	k := newKey(a, kindBoolNot, WidthBool).child(src)
	if src, ok := src.(*ConstantExpr[bool]); ok {
		return Constant(a, !src.Value)
	}
	return intern(k, func(n node) *BoolNotExpr {
		return &BoolNotExpr{node: n, Src: src}
	})
}

func (e *BoolNotExpr) Width() uint          { return WidthBool }
func (e *BoolNotExpr) Children() []Expr     { return []Expr{e.Src} }
func (e *BoolNotExpr) String() string       { return fmt.Sprintf("(not %s)", e.Src) }
func (e *BoolNotExpr) eval(ev *evaluator) bool { return !evalNode(ev, e.Src) }

// IfElseExpr selects between two values of the same width.
type IfElseExpr[T Scalar] struct {
	node
	Cond Bool
	Then Node[T]
	Else Node[T]
}

// IfElse returns a node evaluating to then if cond holds, otherwise els.
// Both branches are kept even when cond is constant.
func IfElse[T Scalar](a *Arena, cond Bool, then, els Node[T]) Node[T] {
	k := newKey(a, kindIfElse, widthOf[T]()).child(cond).child(then).child(els)
	return intern(k, func(n node) *IfElseExpr[T] {
		return &IfElseExpr[T]{node: n, Cond: cond, Then: then, Else: els}
	})
}

func (e *IfElseExpr[T]) Width() uint      { return widthOf[T]() }
func (e *IfElseExpr[T]) Children() []Expr { return []Expr{e.Cond, e.Then, e.Else} }

// String returns the string representation of the expression.
func (e *IfElseExpr[T]) String() string {
	return fmt.Sprintf("(ite %s %s %s)", e.Cond, e.Then, e.Else)
}

// eval evaluates the condition first and then only the selected branch.
func (e *IfElseExpr[T]) eval(ev *evaluator) T {
	if evalNode(ev, e.Cond) {
		return evalNode(ev, e.Then)
	}
	return evalNode(ev, e.Else)
}

// CompareOp represents an unsigned comparison.
type CompareOp int

// CompareExpr operations.
const (
	LT CompareOp = iota + 1
	GT
	EQ
)

var compareOps = [...]string{
	LT: "ult",
	GT: "ugt",
	EQ: "eq",
}

// String returns the string representation of the operation.
func (op CompareOp) String() string {
	if op >= 0 && op < CompareOp(len(compareOps)) && compareOps[op] != "" {
		return compareOps[op]
	}
	return fmt.Sprintf("CompareOp<%d>", op)
}

// CompareExpr represents an unsigned comparison of two integers.
type CompareExpr[T Integer] struct {
	node
	Op  CompareOp
	LHS Node[T]
	RHS Node[T]
}

// Compare returns a boolean node comparing lhs to rhs as unsigned integers.
func Compare[T Integer](a *Arena, op CompareOp, lhs, rhs Node[T]) Bool {
	assert(op >= LT && op <= EQ, "compare: invalid op: %s", op)
	k := newKey(a, kindCompare, widthOf[T]()).u64(uint64(op)).child(lhs).child(rhs)

	if lhs, ok := lhs.(*ConstantExpr[T]); ok {
		if rhs, ok := rhs.(*ConstantExpr[T]); ok {
			return Constant(a, applyCompare(op, lhs.Value, rhs.Value))
		}
	}
	return intern(k, func(n node) *CompareExpr[T] {
		return &CompareExpr[T]{node: n, Op: op, LHS: lhs, RHS: rhs}
	})
}

// Less returns lhs < rhs.
func Less[T Integer](a *Arena, lhs, rhs Node[T]) Bool { return Compare(a, LT, lhs, rhs) }

// Greater returns lhs > rhs.
func Greater[T Integer](a *Arena, lhs, rhs Node[T]) Bool { return Compare(a, GT, lhs, rhs) }

// Equal returns lhs == rhs.
func Equal[T Integer](a *Arena, lhs, rhs Node[T]) Bool { return Compare(a, EQ, lhs, rhs) }

func (e *CompareExpr[T]) Width() uint      { return WidthBool }
func (e *CompareExpr[T]) Children() []Expr { return []Expr{e.LHS, e.RHS} }

// String returns the string representation of the expression.
func (e *CompareExpr[T]) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Op, e.LHS, e.RHS)
}

func (e *CompareExpr[T]) eval(ev *evaluator) bool {
	return applyCompare(e.Op, evalNode(ev, e.LHS), evalNode(ev, e.RHS))
}

func applyCompare[T Integer](op CompareOp, x, y T) bool {
	switch op {
	case LT:
		return x < y
	case GT:
		return x > y
	case EQ:
		return x == y
	default:
		panic("unreachable")
	}
}

// toUint64 widens a scalar for keys and string forms.
func toUint64[T Scalar](v T) uint64 {
	switch v := any(v).(type) {
	case bool:
		if v {
			return 1
		}
		return 0
	case uint8:
		return uint64(v)
	case uint16:
		return uint64(v)
	case uint32:
		return uint64(v)
	case uint64:
		return v
	default:
		panic("unreachable")
	}
}

// fromUint64 truncates v to the scalar type T.
func fromUint64[T Scalar](v uint64) T {
	var zero T
	switch any(zero).(type) {
	case bool:
		return any(v != 0).(T)
	case uint8:
		return any(uint8(v)).(T)
	case uint16:
		return any(uint16(v)).(T)
	case uint32:
		return any(uint32(v)).(T)
	case uint64:
		return any(v).(T)
	default:
		panic("unreachable")
	}
}
