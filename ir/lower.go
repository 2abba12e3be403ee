package ir

import (
	"fmt"

	"github.com/pirocks/x86sym"
)

// Lower builds the node for e in a, reading registers, flags and memory from
// state. The result is a Bool, Byte, Word, DWord or QWord according to the
// resolved width of e.
func Lower(a *x86sym.Arena, state *x86sym.MachineState, e *Expr) (x86sym.Expr, error) {
	w, err := Width(e)
	if err != nil {
		return nil, err
	}
	return lower(a, state, e, w)
}

// LowerWidth is like Lower but resolves untyped constants to width.
func LowerWidth(a *x86sym.Arena, state *x86sym.MachineState, e *Expr, width uint) (x86sym.Expr, error) {
	w, err := resolve(e, width)
	if err != nil {
		return nil, err
	} else if w != width {
		return nil, fmt.Errorf("%s: %w: got %d bits, want %d", e.Kind, ErrWidthMismatch, w, width)
	}
	return lower(a, state, e, w)
}

// lower builds e, whose width has already been resolved to w.
func lower(a *x86sym.Arena, state *x86sym.MachineState, e *Expr, w uint) (x86sym.Expr, error) {
	switch e.Kind {
	case KindConst:
		return x86sym.ConstantOf(a, w, e.Value), nil

	case KindVar:
		return x86sym.VariableOf(a, x86sym.VariableRef{Width: w, ID: e.ID}), nil

	case KindReg:
		v, _ := x86sym.ParseView(e.Name)
		return state.View(v), nil

	case KindFlag:
		f, _ := x86sym.ParseFlag(e.Name)
		return state.Flag(f), nil

	case KindMem:
		switch w {
		case x86sym.Width8:
			return state.Load8(e.Addr), nil
		case x86sym.Width16:
			return state.Load16(e.Addr), nil
		case x86sym.Width32:
			return state.Load32(e.Addr), nil
		default:
			return state.Load64(e.Addr), nil
		}

	case KindAdd, KindSub, KindMul, KindAnd, KindOr, KindXor, KindShl, KindLshr:
		args, err := lowerArgs(a, state, e.Args, w)
		if err != nil {
			return nil, err
		}
		return binary(a, binaryOps[e.Kind], args[0], args[1]), nil

	case KindNot:
		args, err := lowerArgs(a, state, e.Args, w)
		if err != nil {
			return nil, err
		}
		return not(a, args[0]), nil

	case KindLT, KindGT, KindEQ:
		ow, err := operandWidth(e, e.Args, 0)
		if err != nil {
			return nil, err
		}
		args, err := lowerArgs(a, state, e.Args, ow)
		if err != nil {
			return nil, err
		}
		return compare(a, compareOps[e.Kind], args[0], args[1]), nil

	case KindIte:
		cond, err := lower(a, state, e.Args[0], x86sym.WidthBool)
		if err != nil {
			return nil, err
		}
		args, err := lowerArgs(a, state, e.Args[1:], w)
		if err != nil {
			return nil, err
		}
		return ifElse(a, cond.(x86sym.Bool), args[0], args[1]), nil

	case KindExtract:
		src, err := Lower(a, state, e.Args[0])
		if err != nil {
			return nil, err
		}
		step, err := extractPlan(src.Width(), e.Lo, e.Hi)
		if err != nil {
			return nil, err
		}
		return extract(a, step, src, e.Lo), nil

	case KindZext:
		src, err := Lower(a, state, e.Args[0])
		if err != nil {
			return nil, err
		}
		return zext(a, src, w), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, e.Kind)
	}
}

func lowerArgs(a *x86sym.Arena, state *x86sym.MachineState, args []*Expr, w uint) ([]x86sym.Expr, error) {
	other := make([]x86sym.Expr, len(args))
	for i, arg := range args {
		x, err := lower(a, state, arg, w)
		if err != nil {
			return nil, err
		}
		other[i] = x
	}
	return other, nil
}

func binary(a *x86sym.Arena, op x86sym.BinaryOp, lhs, rhs x86sym.Expr) x86sym.Expr {
	switch lhs := lhs.(type) {
	case x86sym.Bool:
		return x86sym.Logic(a, op, lhs, rhs.(x86sym.Bool))
	case x86sym.Byte:
		return x86sym.Binary(a, op, lhs, rhs.(x86sym.Byte))
	case x86sym.Word:
		return x86sym.Binary(a, op, lhs, rhs.(x86sym.Word))
	case x86sym.DWord:
		return x86sym.Binary(a, op, lhs, rhs.(x86sym.DWord))
	case x86sym.QWord:
		return x86sym.Binary(a, op, lhs, rhs.(x86sym.QWord))
	default:
		panic(fmt.Sprintf("ir: unexpected node %T", lhs))
	}
}

func not(a *x86sym.Arena, src x86sym.Expr) x86sym.Expr {
	switch src := src.(type) {
	case x86sym.Bool:
		return x86sym.BoolNot(a, src)
	case x86sym.Byte:
		return x86sym.Not(a, src)
	case x86sym.Word:
		return x86sym.Not(a, src)
	case x86sym.DWord:
		return x86sym.Not(a, src)
	case x86sym.QWord:
		return x86sym.Not(a, src)
	default:
		panic(fmt.Sprintf("ir: unexpected node %T", src))
	}
}

func compare(a *x86sym.Arena, op x86sym.CompareOp, lhs, rhs x86sym.Expr) x86sym.Bool {
	switch lhs := lhs.(type) {
	case x86sym.Byte:
		return x86sym.Compare(a, op, lhs, rhs.(x86sym.Byte))
	case x86sym.Word:
		return x86sym.Compare(a, op, lhs, rhs.(x86sym.Word))
	case x86sym.DWord:
		return x86sym.Compare(a, op, lhs, rhs.(x86sym.DWord))
	case x86sym.QWord:
		return x86sym.Compare(a, op, lhs, rhs.(x86sym.QWord))
	default:
		panic(fmt.Sprintf("ir: unexpected node %T", lhs))
	}
}

func ifElse(a *x86sym.Arena, cond x86sym.Bool, then, els x86sym.Expr) x86sym.Expr {
	switch then := then.(type) {
	case x86sym.Bool:
		return x86sym.IfElse(a, cond, then, els.(x86sym.Bool))
	case x86sym.Byte:
		return x86sym.IfElse(a, cond, then, els.(x86sym.Byte))
	case x86sym.Word:
		return x86sym.IfElse(a, cond, then, els.(x86sym.Word))
	case x86sym.DWord:
		return x86sym.IfElse(a, cond, then, els.(x86sym.DWord))
	case x86sym.QWord:
		return x86sym.IfElse(a, cond, then, els.(x86sym.QWord))
	default:
		panic(fmt.Sprintf("ir: unexpected node %T", then))
	}
}

// widen zero-extends an integer node to 64 bits.
func widen(a *x86sym.Arena, src x86sym.Expr) x86sym.QWord {
	switch src := src.(type) {
	case x86sym.Byte:
		return x86sym.ZeroExtend[uint8, uint64](a, src)
	case x86sym.Word:
		return x86sym.ZeroExtend[uint16, uint64](a, src)
	case x86sym.DWord:
		return x86sym.ZeroExtend[uint32, uint64](a, src)
	case x86sym.QWord:
		return src
	default:
		panic(fmt.Sprintf("ir: unexpected node %T", src))
	}
}

func extract(a *x86sym.Arena, step extractStep, src x86sym.Expr, lo uint) x86sym.Expr {
	switch step {
	case extractIdentity:
		return src
	case extractBit:
		switch src := src.(type) {
		case x86sym.Byte:
			return x86sym.Bit(a, src, lo)
		case x86sym.Word:
			return x86sym.Bit(a, src, lo)
		case x86sym.DWord:
			return x86sym.Bit(a, src, lo)
		case x86sym.QWord:
			return x86sym.Bit(a, src, lo)
		}
	case extractByte:
		return x86sym.ExtractByte(a, widen(a, src), lo/8)
	case extractWord:
		return x86sym.TruncateToWord(a, widen(a, src))
	case extractDWord:
		return x86sym.TruncateToDWord(a, widen(a, src))
	}
	panic(fmt.Sprintf("ir: unexpected extract of %T", src))
}

func zext(a *x86sym.Arena, src x86sym.Expr, w uint) x86sym.Expr {
	if src.Width() == w {
		return src
	}
	if src, ok := src.(x86sym.Bool); ok {
		switch w {
		case x86sym.Width8:
			return x86sym.BoolToInt[uint8](a, src)
		case x86sym.Width16:
			return x86sym.BoolToInt[uint16](a, src)
		case x86sym.Width32:
			return x86sym.BoolToInt[uint32](a, src)
		default:
			return x86sym.BoolToInt[uint64](a, src)
		}
	}

	switch w {
	case x86sym.Width16:
		return x86sym.ZeroExtend[uint8, uint16](a, src.(x86sym.Byte))
	case x86sym.Width32:
		switch src := src.(type) {
		case x86sym.Byte:
			return x86sym.ZeroExtend[uint8, uint32](a, src)
		case x86sym.Word:
			return x86sym.ZeroExtend[uint16, uint32](a, src)
		}
	case x86sym.Width64:
		return widen(a, src)
	}
	panic(fmt.Sprintf("ir: cannot extend %T to %d bits", src, w))
}

// Apply lowers and applies each statement of prog to state in order. Each
// statement observes the writes of the statements before it. On error, state
// holds the effects of the statements that succeeded.
func Apply(a *x86sym.Arena, state *x86sym.MachineState, prog *Program) error {
	for i, s := range prog.Stmts {
		if err := applyStmt(a, state, s); err != nil {
			return fmt.Errorf("stmt %d (%s): %w", i, s.Kind, err)
		}
	}
	return nil
}

func applyStmt(a *x86sym.Arena, state *x86sym.MachineState, s *Stmt) error {
	switch s.Kind {
	case StmtSetReg:
		v, ok := x86sym.ParseView(s.Reg)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownRegister, s.Reg)
		}
		value, err := LowerWidth(a, state, s.Value, v.Width())
		if err != nil {
			return err
		}
		state.SetView(v, value)
		return nil

	case StmtSetFlag:
		f, ok := x86sym.ParseFlag(s.Flag)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownFlag, s.Flag)
		}
		value, err := LowerWidth(a, state, s.Value, x86sym.WidthBool)
		if err != nil {
			return err
		}
		state.SetFlag(f, value.(x86sym.Bool))
		return nil

	case StmtStore:
		value, err := Lower(a, state, s.Value)
		if err != nil {
			return err
		}
		switch value := value.(type) {
		case x86sym.Byte:
			state.Store8(s.Addr, value)
		case x86sym.Word:
			state.Store16(s.Addr, value)
		case x86sym.DWord:
			state.Store32(s.Addr, value)
		case x86sym.QWord:
			state.Store64(s.Addr, value)
		default:
			return fmt.Errorf("store: %w: boolean value", ErrWidthMismatch)
		}
		return nil

	case StmtFlags:
		return applyFlags(a, state, s)

	case StmtUD:
		state.UndefinedInstructionException()
		return nil

	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, s.Kind)
	}
}

func applyFlags(a *x86sym.Arena, state *x86sym.MachineState, s *Stmt) error {
	switch s.Op {
	case FlagsAdd, FlagsSub:
		if s.LHS == nil || s.RHS == nil {
			return fmt.Errorf("flags %s: %w", s.Op, ErrArity)
		}
		pair := Op(s.Op, s.LHS, s.RHS)
		w, err := Width(pair)
		if err != nil {
			return err
		}
		args, err := lowerArgs(a, state, pair.Args, w)
		if err != nil {
			return err
		}
		arithmeticFlags(state, s.Op, args[0], args[1])
		return nil

	case FlagsLogic:
		value, err := Lower(a, state, s.Value)
		if err != nil {
			return err
		} else if value.Width() == x86sym.WidthBool {
			return fmt.Errorf("flags logic: %w: boolean value", ErrWidthMismatch)
		}
		logicFlags(state, value)
		return nil

	default:
		return fmt.Errorf("flags: %w: op %q", ErrUnknownKind, s.Op)
	}
}

func arithmeticFlags(state *x86sym.MachineState, op string, lhs, rhs x86sym.Expr) {
	switch lhs := lhs.(type) {
	case x86sym.Byte:
		updateFlags(state, op, lhs, rhs.(x86sym.Byte))
	case x86sym.Word:
		updateFlags(state, op, lhs, rhs.(x86sym.Word))
	case x86sym.DWord:
		updateFlags(state, op, lhs, rhs.(x86sym.DWord))
	case x86sym.QWord:
		updateFlags(state, op, lhs, rhs.(x86sym.QWord))
	default:
		panic(fmt.Sprintf("ir: unexpected node %T", lhs))
	}
}

func updateFlags[T x86sym.Integer](state *x86sym.MachineState, op string, lhs, rhs x86sym.Node[T]) {
	if op == FlagsAdd {
		x86sym.AddWithFlags(state, lhs, rhs)
	} else {
		x86sym.SubWithFlags(state, lhs, rhs)
	}
}

func logicFlags(state *x86sym.MachineState, value x86sym.Expr) {
	switch value := value.(type) {
	case x86sym.Byte:
		x86sym.SetLogicFlags(state, value)
	case x86sym.Word:
		x86sym.SetLogicFlags(state, value)
	case x86sym.DWord:
		x86sym.SetLogicFlags(state, value)
	case x86sym.QWord:
		x86sym.SetLogicFlags(state, value)
	default:
		panic(fmt.Sprintf("ir: unexpected node %T", value))
	}
}
