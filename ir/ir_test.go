package ir_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pirocks/x86sym"
	"github.com/pirocks/x86sym/ir"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		prog, err := ir.Decode(strings.NewReader(`{
			"name": "add rax, 1",
			"stmts": [
				{"kind": "set_reg", "reg": "rax", "value": {"kind": "add", "args": [{"kind": "reg", "name": "rax"}, {"kind": "const", "value": 1}]}},
				{"kind": "ud"}
			]
		}`))
		require.NoError(t, err)
		require.Equal(t, "add rax, 1", prog.Name)
		require.Len(t, prog.Stmts, 2)
		require.Equal(t, ir.StmtSetReg, prog.Stmts[0].Kind)
		require.Equal(t, "(add rax 0x1)", prog.Stmts[0].Value.String())
		require.Equal(t, ir.StmtUD, prog.Stmts[1].Kind)
	})

	t.Run("ErrUnknownField", func(t *testing.T) {
		_, err := ir.Decode(strings.NewReader(`{"stmts": [{"kind": "ud", "bogus": 1}]}`))
		require.Error(t, err)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		prog := &ir.Program{Stmts: []*ir.Stmt{
			{Kind: ir.StmtStore, Addr: 0x1000, Value: ir.Zext(32, ir.Reg("al"))},
		}}
		var buf bytes.Buffer
		require.NoError(t, ir.Encode(&buf, prog))

		other, err := ir.Decode(&buf)
		require.NoError(t, err)
		require.Equal(t, prog, other)
	})
}

func TestWidth(t *testing.T) {
	for _, tt := range []struct {
		name  string
		expr  *ir.Expr
		width uint
		err   error
	}{
		{"TypedConst", ir.ConstW(16, 0xFFFF), 16, nil},
		{"UntypedConst", ir.Const(1), 0, ir.ErrUnresolvedWidth},
		{"ConstOverflow", ir.ConstW(8, 0x100), 0, ir.ErrConstantOverflow},
		{"ConstInvalidWidth", ir.ConstW(12, 1), 0, ir.ErrInvalidWidth},
		{"Var", ir.Var(32, 0), 32, nil},
		{"VarNoWidth", ir.Var(0, 0), 0, ir.ErrUnresolvedWidth},
		{"Reg", ir.Reg("r9w"), 16, nil},
		{"RegHigh", ir.Reg("AH"), 8, nil},
		{"UnknownReg", ir.Reg("r16"), 0, ir.ErrUnknownRegister},
		{"Flag", ir.Flag("zf"), 1, nil},
		{"UnknownFlag", ir.Flag("xf"), 0, ir.ErrUnknownFlag},
		{"Mem", ir.Mem(32, 0x10), 32, nil},
		{"MemBool", ir.Mem(1, 0x10), 0, ir.ErrInvalidWidth},
		{"AddInfersConst", ir.Op(ir.KindAdd, ir.Const(1), ir.Reg("eax")), 32, nil},
		{"AddUntyped", ir.Op(ir.KindAdd, ir.Const(1), ir.Const(2)), 0, ir.ErrUnresolvedWidth},
		{"AddMismatch", ir.Op(ir.KindAdd, ir.Reg("eax"), ir.Reg("rax")), 0, ir.ErrWidthMismatch},
		{"AddBool", ir.Op(ir.KindAdd, ir.Flag("cf"), ir.Flag("zf")), 0, ir.ErrWidthMismatch},
		{"AndBool", ir.Op(ir.KindAnd, ir.Flag("cf"), ir.Flag("zf")), 1, nil},
		{"Arity", ir.Op(ir.KindSub, ir.Reg("eax")), 0, ir.ErrArity},
		{"Compare", ir.Op(ir.KindLT, ir.Reg("cx"), ir.Const(3)), 1, nil},
		{"CompareBool", ir.Op(ir.KindEQ, ir.Flag("cf"), ir.Flag("zf")), 0, ir.ErrWidthMismatch},
		{"Ite", ir.Op(ir.KindIte, ir.Flag("cf"), ir.Reg("bl"), ir.Const(0)), 8, nil},
		{"IteCondition", ir.Op(ir.KindIte, ir.Reg("bl"), ir.Reg("bl"), ir.Reg("bl")), 0, ir.ErrWidthMismatch},
		{"ExtractByte", ir.Extract(ir.Reg("rax"), 8, 15), 8, nil},
		{"ExtractBit", ir.Extract(ir.Reg("dx"), 15, 15), 1, nil},
		{"ExtractWord", ir.Extract(ir.Reg("eax"), 0, 15), 16, nil},
		{"ExtractUnaligned", ir.Extract(ir.Reg("rax"), 4, 11), 0, ir.ErrUnsupportedExtract},
		{"ExtractOutOfRange", ir.Extract(ir.Reg("al"), 0, 15), 0, ir.ErrUnsupportedExtract},
		{"Zext", ir.Zext(64, ir.Reg("r8d")), 64, nil},
		{"ZextBool", ir.Zext(8, ir.Flag("cf")), 8, nil},
		{"ZextNarrower", ir.Zext(16, ir.Reg("eax")), 0, ir.ErrWidthMismatch},
		{"UnknownKind", &ir.Expr{Kind: "rol"}, 0, ir.ErrUnknownKind},
	} {
		t.Run(tt.name, func(t *testing.T) {
			w, err := ir.Width(tt.expr)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.width, w)
		})
	}
}

func TestLower(t *testing.T) {
	a := x86sym.NewArena()
	state := x86sym.NewMachineState(a, x86sym.ModeLong64)
	state.SetRAX(x86sym.QWord(x86sym.NewVariable(a, x86sym.QWordVar{ID: 0})))

	b := x86sym.NewBindings()
	x86sym.BindConstant(b, a, x86sym.QWordVar{ID: 0}, 0x1122334455667788)

	for _, tt := range []struct {
		name  string
		expr  *ir.Expr
		width uint
		value uint64
	}{
		{"Add", ir.Op(ir.KindAdd, ir.Reg("rax"), ir.Const(1)), 64, 0x1122334455667789},
		{"Sub", ir.Op(ir.KindSub, ir.Reg("al"), ir.Const(0x89)), 8, 0xFF},
		{"Not", ir.Op(ir.KindNot, ir.Reg("ax")), 16, 0x8877},
		{"Shl", ir.Op(ir.KindShl, ir.Reg("eax"), ir.Const(4)), 32, 0x56677880},
		{"Lshr", ir.Op(ir.KindLshr, ir.Reg("eax"), ir.Const(40)), 32, 0},
		{"High", ir.Reg("ah"), 8, 0x77},
		{"ExtractByte", ir.Extract(ir.Reg("rax"), 56, 63), 8, 0x11},
		{"ExtractByteNarrow", ir.Extract(ir.Reg("ax"), 8, 15), 8, 0x77},
		{"ExtractBit", ir.Extract(ir.Reg("rax"), 0, 0), 1, 0},
		{"ExtractDWord", ir.Extract(ir.Reg("rax"), 0, 31), 32, 0x55667788},
		{"Zext", ir.Zext(64, ir.Reg("ax")), 64, 0x7788},
		{"ZextBool", ir.Zext(32, ir.Op(ir.KindGT, ir.Reg("al"), ir.Const(0x80))), 32, 1},
		{"Ite", ir.Op(ir.KindIte, ir.Op(ir.KindEQ, ir.Reg("al"), ir.Const(0x88)), ir.Reg("bl"), ir.Const(7)), 8, 0},
		{"BoolXor", ir.Op(ir.KindXor, ir.Flag("cf"), ir.Const(1)), 1, 1},
		{"Var", ir.Var(16, 3), 16, 0xBEEF},
	} {
		t.Run(tt.name, func(t *testing.T) {
			e, err := ir.Lower(a, state, tt.expr)
			require.NoError(t, err)
			require.Equal(t, tt.width, e.Width())

			b := b
			if tt.name == "Var" {
				b = x86sym.NewBindings()
				x86sym.BindConstant(b, a, x86sym.WordVar{ID: 3}, 0xBEEF)
			}
			require.Equal(t, tt.value, x86sym.ConcretizeExpr(e, b))
		})
	}

	t.Run("SharesNodes", func(t *testing.T) {
		x, err := ir.Lower(a, state, ir.Op(ir.KindAdd, ir.Reg("rcx"), ir.Var(64, 1)))
		require.NoError(t, err)
		y, err := ir.Lower(a, state, ir.Op(ir.KindAdd, ir.Reg("rcx"), ir.Var(64, 1)))
		require.NoError(t, err)
		require.Same(t, x, y)
	})

	t.Run("ErrUnresolvedWidth", func(t *testing.T) {
		_, err := ir.Lower(a, state, ir.Op(ir.KindMul, ir.Const(2), ir.Const(3)))
		require.ErrorIs(t, err, ir.ErrUnresolvedWidth)
	})

	t.Run("LowerWidth", func(t *testing.T) {
		e, err := ir.LowerWidth(a, state, ir.Op(ir.KindMul, ir.Const(2), ir.Const(3)), 16)
		require.NoError(t, err)
		require.Equal(t, uint64(6), x86sym.ConcretizeExpr(e, nil))

		_, err = ir.LowerWidth(a, state, ir.Reg("eax"), 16)
		require.ErrorIs(t, err, ir.ErrWidthMismatch)
	})
}

func TestApply(t *testing.T) {
	t.Run("LowByteWrite", func(t *testing.T) {
		a := x86sym.NewArena()
		state := x86sym.NewMachineState(a, x86sym.ModeLong64)
		state.SetRAX(a.QWord(0x1122334455667788))

		require.NoError(t, ir.Apply(a, state, &ir.Program{Stmts: []*ir.Stmt{
			{Kind: ir.StmtSetReg, Reg: "al", Value: ir.Const(0x7F)},
		}}))
		require.Equal(t, uint64(0x112233445566777F), state.Concretize(nil).Reg64(x86sym.RAX))
	})

	t.Run("DWordWriteZeroExtends", func(t *testing.T) {
		a := x86sym.NewArena()
		state := x86sym.NewMachineState(a, x86sym.ModeLong64)
		state.SetRBX(a.QWord(0xFFFFFFFFFFFFFFFF))

		require.NoError(t, ir.Apply(a, state, &ir.Program{Stmts: []*ir.Stmt{
			{Kind: ir.StmtSetReg, Reg: "ebx", Value: ir.Const(1)},
		}}))
		require.Equal(t, uint64(1), state.Concretize(nil).Reg64(x86sym.RBX))
	})

	t.Run("ReadsObserveWrites", func(t *testing.T) {
		a := x86sym.NewArena()
		state := x86sym.NewMachineState(a, x86sym.ModeLong64)

		require.NoError(t, ir.Apply(a, state, &ir.Program{Stmts: []*ir.Stmt{
			{Kind: ir.StmtSetReg, Reg: "rax", Value: ir.Var(64, 0)},
			{Kind: ir.StmtStore, Addr: 0x2000, Value: ir.Op(ir.KindAdd, ir.Reg("rax"), ir.Const(1))},
			{Kind: ir.StmtSetReg, Reg: "rdx", Value: ir.Mem(64, 0x2000)},
			{Kind: ir.StmtSetReg, Reg: "cx", Value: ir.Mem(16, 0x2001)},
		}}))

		b := x86sym.NewBindings()
		x86sym.BindConstant(b, a, x86sym.QWordVar{ID: 0}, 0x0102030405060708)
		other := state.Concretize(b)
		require.Equal(t, uint64(0x0102030405060709), other.Reg64(x86sym.RDX))
		require.Equal(t, uint16(0x0607), other.Reg16(x86sym.RCX))
		require.Equal(t, uint8(0x09), other.Memory.Read(0x2000))
		require.Equal(t, uint8(0), other.Memory.Read(0x2008))
	})

	t.Run("AddFlags", func(t *testing.T) {
		a := x86sym.NewArena()
		state := x86sym.NewMachineState(a, x86sym.ModeLong64)

		require.NoError(t, ir.Apply(a, state, &ir.Program{Stmts: []*ir.Stmt{
			{Kind: ir.StmtFlags, Op: ir.FlagsAdd, LHS: ir.ConstW(8, 0xFF), RHS: ir.Const(1)},
		}}))
		require.Equal(t, x86sym.ConcreteFlags{CF: true, PF: true, AF: true, ZF: true}, state.Concretize(nil).Flags)
	})

	t.Run("SubFlags", func(t *testing.T) {
		a := x86sym.NewArena()
		state := x86sym.NewMachineState(a, x86sym.ModeLong64)

		require.NoError(t, ir.Apply(a, state, &ir.Program{Stmts: []*ir.Stmt{
			{Kind: ir.StmtFlags, Op: ir.FlagsSub, LHS: ir.Reg("al"), RHS: ir.Const(1)},
		}}))
		require.Equal(t, x86sym.ConcreteFlags{CF: true, PF: true, AF: true, SF: true}, state.Concretize(nil).Flags)
	})

	t.Run("LogicFlags", func(t *testing.T) {
		a := x86sym.NewArena()
		state := x86sym.NewMachineState(a, x86sym.ModeLong64)
		state.SetCF(a.True())
		state.SetOF(a.True())
		state.SetAF(a.True())

		require.NoError(t, ir.Apply(a, state, &ir.Program{Stmts: []*ir.Stmt{
			{Kind: ir.StmtFlags, Op: ir.FlagsLogic, Value: ir.ConstW(32, 0x80000001)},
		}}))
		require.Equal(t, x86sym.ConcreteFlags{AF: true, SF: true}, state.Concretize(nil).Flags)
	})

	t.Run("SetFlagAndUD", func(t *testing.T) {
		a := x86sym.NewArena()
		state := x86sym.NewMachineState(a, x86sym.ModeProtected)

		require.NoError(t, ir.Apply(a, state, &ir.Program{Stmts: []*ir.Stmt{
			{Kind: ir.StmtSetFlag, Flag: "CF", Value: ir.Op(ir.KindEQ, ir.Reg("eax"), ir.Const(0))},
			{Kind: ir.StmtUD},
		}}))
		other := state.Concretize(nil)
		require.True(t, other.Flags.CF)
		require.True(t, other.PendingException)
	})

	t.Run("ErrStmt", func(t *testing.T) {
		a := x86sym.NewArena()
		state := x86sym.NewMachineState(a, x86sym.ModeLong64)

		err := ir.Apply(a, state, &ir.Program{Stmts: []*ir.Stmt{
			{Kind: ir.StmtSetReg, Reg: "rax", Value: ir.Const(1)},
			{Kind: ir.StmtSetReg, Reg: "eax", Value: ir.Reg("rax")},
		}})
		require.ErrorIs(t, err, ir.ErrWidthMismatch)
		require.Contains(t, err.Error(), "stmt 1 (set_reg)")

		// Earlier statements stay applied.
		require.Equal(t, uint64(1), state.Concretize(nil).Reg64(x86sym.RAX))
	})

	t.Run("ErrUnknown", func(t *testing.T) {
		a := x86sym.NewArena()
		state := x86sym.NewMachineState(a, x86sym.ModeLong64)

		err := ir.Apply(a, state, &ir.Program{Stmts: []*ir.Stmt{{Kind: ir.StmtSetReg, Reg: "xmm0", Value: ir.Const(1)}}})
		require.ErrorIs(t, err, ir.ErrUnknownRegister)

		err = ir.Apply(a, state, &ir.Program{Stmts: []*ir.Stmt{{Kind: ir.StmtSetFlag, Flag: "df", Value: ir.Const(1)}}})
		require.ErrorIs(t, err, ir.ErrUnknownFlag)

		err = ir.Apply(a, state, &ir.Program{Stmts: []*ir.Stmt{{Kind: "jmp"}}})
		require.ErrorIs(t, err, ir.ErrUnknownKind)

		err = ir.Apply(a, state, &ir.Program{Stmts: []*ir.Stmt{{Kind: ir.StmtFlags, Op: ir.FlagsAdd, LHS: ir.Reg("al")}}})
		require.ErrorIs(t, err, ir.ErrArity)
	})
}

func TestGenerate(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		src, err := ir.Generate("semantics", "AddRAX1", &ir.Program{
			Name: "add rax, 1",
			Stmts: []*ir.Stmt{
				{Kind: ir.StmtFlags, Op: ir.FlagsAdd, LHS: ir.Reg("rax"), RHS: ir.Const(1)},
				{Kind: ir.StmtSetReg, Reg: "rax", Value: ir.Op(ir.KindAdd, ir.Reg("rax"), ir.Const(1))},
				{Kind: ir.StmtStore, Addr: 0x10, Value: ir.Zext(16, ir.Extract(ir.Reg("rax"), 8, 15))},
			},
		})
		require.NoError(t, err)

		s := string(src)
		require.True(t, strings.HasPrefix(s, "// Code generated by x86sym gen. DO NOT EDIT.\n\npackage semantics\n"))
		require.Contains(t, s, `import "github.com/pirocks/x86sym"`)
		require.Contains(t, s, "// AddRAX1 applies the semantics of add rax, 1 to s.\n")
		require.Contains(t, s, "func AddRAX1(s *x86sym.MachineState) {\n\ta := s.Arena()\n")
		require.Contains(t, s, "\tx86sym.AddWithFlags(s, s.RAX(), a.QWord(0x1))\n")
		require.Contains(t, s, "\ts.SetRAX(x86sym.Add(a, s.RAX(), a.QWord(0x1)))\n")
		require.Contains(t, s, "\ts.Store16(0x10, x86sym.ZeroExtend[uint8, uint16](a, x86sym.ExtractByte(a, s.RAX(), 1)))\n")
	})

	t.Run("NoArena", func(t *testing.T) {
		src, err := ir.Generate("semantics", "UD", &ir.Program{Stmts: []*ir.Stmt{
			{Kind: ir.StmtSetReg, Reg: "rbx", Value: ir.Reg("rcx")},
			{Kind: ir.StmtUD},
		}})
		require.NoError(t, err)
		require.NotContains(t, string(src), "s.Arena()")
		require.Contains(t, string(src), "\ts.SetRBX(s.RCX())\n\ts.UndefinedInstructionException()\n")
	})

	t.Run("Variables", func(t *testing.T) {
		src, err := ir.Generate("semantics", "F", &ir.Program{Stmts: []*ir.Stmt{
			{Kind: ir.StmtSetFlag, Flag: "zf", Value: ir.Op(ir.KindIte, ir.Var(1, 0), ir.Flag("cf"), ir.Const(0))},
		}})
		require.NoError(t, err)
		require.Contains(t, string(src), "s.SetZF(x86sym.IfElse(a, x86sym.Bool(x86sym.NewVariable(a, x86sym.BoolVar{ID: 0})), s.CF(), a.Bool(false)))")
	})

	t.Run("ErrInvalidName", func(t *testing.T) {
		_, err := ir.Generate("my-pkg", "F", &ir.Program{})
		require.Error(t, err)
		_, err = ir.Generate("p", "1F", &ir.Program{})
		require.Error(t, err)
	})

	t.Run("ErrWidth", func(t *testing.T) {
		_, err := ir.Generate("p", "F", &ir.Program{Stmts: []*ir.Stmt{
			{Kind: ir.StmtStore, Addr: 0, Value: ir.Const(1)},
		}})
		require.ErrorIs(t, err, ir.ErrUnresolvedWidth)
	})
}
