// Package ir implements a serialized, width-annotated expression form for
// instruction semantics. Programs are decoded from JSON, lowered onto the
// x86sym node algebra, applied to a machine state, or emitted as Go source.
package ir

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrUnresolvedWidth is returned when the width of an expression cannot be
	// determined from the expression or its context.
	ErrUnresolvedWidth = errors.New("unresolved width")

	// ErrWidthMismatch is returned when operands have incompatible widths.
	ErrWidthMismatch = errors.New("width mismatch")

	// ErrInvalidWidth is returned for a width that no node can have.
	ErrInvalidWidth = errors.New("invalid width")

	// ErrUnsupportedExtract is returned for bit ranges with no width bridge.
	ErrUnsupportedExtract = errors.New("unsupported extract")

	// ErrUnknownRegister is returned for a register name with no view.
	ErrUnknownRegister = errors.New("unknown register")

	// ErrUnknownFlag is returned for an unknown status flag name.
	ErrUnknownFlag = errors.New("unknown flag")

	// ErrUnknownKind is returned for an unknown expression or statement kind.
	ErrUnknownKind = errors.New("unknown kind")

	// ErrArity is returned when an expression has the wrong number of operands.
	ErrArity = errors.New("wrong number of operands")

	// ErrConstantOverflow is returned when a constant does not fit in its width.
	ErrConstantOverflow = errors.New("constant overflow")
)

// Expression kinds.
const (
	KindConst   = "const"
	KindVar     = "var"
	KindReg     = "reg"
	KindFlag    = "flag"
	KindMem     = "mem"
	KindAdd     = "add"
	KindSub     = "sub"
	KindMul     = "mul"
	KindAnd     = "and"
	KindOr      = "or"
	KindXor     = "xor"
	KindShl     = "shl"
	KindLshr    = "lshr"
	KindNot     = "not"
	KindLT      = "lt"
	KindGT      = "gt"
	KindEQ      = "eq"
	KindIte     = "ite"
	KindExtract = "extract"
	KindZext    = "zext"
)

// Statement kinds.
const (
	StmtSetReg  = "set_reg"
	StmtSetFlag = "set_flag"
	StmtStore   = "store"
	StmtFlags   = "flags"
	StmtUD      = "ud"
)

// Flag update operations for StmtFlags.
const (
	FlagsAdd   = "add"
	FlagsSub   = "sub"
	FlagsLogic = "logic"
)

// Expr is a serialized expression. Kind selects which fields are meaningful.
type Expr struct {
	Kind string `json:"kind"`

	// Width is the bit width of a const, var or mem expression, or the target
	// width of a zext. A const without a width takes it from its context.
	Width uint `json:"width,omitempty"`

	Value uint64  `json:"value,omitempty"` // const
	ID    uint32  `json:"id,omitempty"`    // var
	Name  string  `json:"name,omitempty"`  // reg, flag
	Addr  uint64  `json:"addr,omitempty"`  // mem
	Lo    uint    `json:"lo,omitempty"`    // extract, inclusive
	Hi    uint    `json:"hi,omitempty"`    // extract, inclusive
	Args  []*Expr `json:"args,omitempty"`
}

// String returns the expression in s-expression form.
func (e *Expr) String() string {
	switch e.Kind {
	case KindConst:
		if e.Width == 0 {
			return fmt.Sprintf("%#x", e.Value)
		}
		return fmt.Sprintf("%#x:%d", e.Value, e.Width)
	case KindVar:
		return fmt.Sprintf("var%d:%d", e.ID, e.Width)
	case KindReg, KindFlag:
		return e.Name
	case KindMem:
		return fmt.Sprintf("[%#x]:%d", e.Addr, e.Width)
	}

	s := "(" + e.Kind
	switch e.Kind {
	case KindExtract:
		s += fmt.Sprintf(" %d..%d", e.Lo, e.Hi)
	case KindZext:
		s += fmt.Sprintf(" %d", e.Width)
	}
	for _, arg := range e.Args {
		s += " " + arg.String()
	}
	return s + ")"
}

// Stmt is a serialized statement. Kind selects which fields are meaningful.
type Stmt struct {
	Kind  string `json:"kind"`
	Reg   string `json:"reg,omitempty"`   // set_reg
	Flag  string `json:"flag,omitempty"`  // set_flag
	Addr  uint64 `json:"addr,omitempty"`  // store
	Op    string `json:"op,omitempty"`    // flags
	Value *Expr  `json:"value,omitempty"` // set_reg, set_flag, store, flags logic
	LHS   *Expr  `json:"lhs,omitempty"`   // flags add, sub
	RHS   *Expr  `json:"rhs,omitempty"`   // flags add, sub
}

// Program is the semantics of one instruction: statements applied in order.
type Program struct {
	Name  string  `json:"name,omitempty"`
	Stmts []*Stmt `json:"stmts"`
}

// Decode reads a JSON program from r.
func Decode(r io.Reader) (*Program, error) {
	var prog Program
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&prog); err != nil {
		return nil, fmt.Errorf("decode program: %w", err)
	}
	return &prog, nil
}

// Encode writes prog to w as indented JSON.
func Encode(w io.Writer, prog *Program) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(prog)
}

// Const returns an untyped constant.
func Const(value uint64) *Expr { return &Expr{Kind: KindConst, Value: value} }

// ConstW returns a constant of the given width.
func ConstW(width uint, value uint64) *Expr {
	return &Expr{Kind: KindConst, Width: width, Value: value}
}

// Var returns a variable reference.
func Var(width uint, id uint32) *Expr { return &Expr{Kind: KindVar, Width: width, ID: id} }

// Reg returns a read of an architectural register view.
func Reg(name string) *Expr { return &Expr{Kind: KindReg, Name: name} }

// Flag returns a read of a status flag.
func Flag(name string) *Expr { return &Expr{Kind: KindFlag, Name: name} }

// Mem returns a little-endian memory read.
func Mem(width uint, addr uint64) *Expr { return &Expr{Kind: KindMem, Width: width, Addr: addr} }

// Op returns an operation of the given kind.
func Op(kind string, args ...*Expr) *Expr { return &Expr{Kind: kind, Args: args} }

// Extract returns the bits lo..hi of src, inclusive.
func Extract(src *Expr, lo, hi uint) *Expr {
	return &Expr{Kind: KindExtract, Lo: lo, Hi: hi, Args: []*Expr{src}}
}

// Zext returns src zero-extended to width.
func Zext(width uint, src *Expr) *Expr {
	return &Expr{Kind: KindZext, Width: width, Args: []*Expr{src}}
}
