package x86sym_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pirocks/x86sym"
)

// MustConcretize concretizes s with b.
func MustConcretize(tb testing.TB, s *x86sym.MachineState, b *x86sym.Bindings) *x86sym.ConcreteMachineState {
	tb.Helper()
	return s.Concretize(b)
}

func TestNewMachineState(t *testing.T) {
	a := x86sym.NewArena()
	s := x86sym.NewMachineState(a, x86sym.ModeLong64)

	other := MustConcretize(t, s, nil)
	if diff := cmp.Diff(other, &x86sym.ConcreteMachineState{
		Mode:   x86sym.ModeLong64,
		Memory: &x86sym.ConcreteMemorySpace{Ranges: []x86sym.ConcreteMemoryRange{{Start: 0, End: 1<<64 - 1}}},
	}); diff != "" {
		t.Fatal(diff)
	} else if s.Arena() != a {
		t.Fatal("unexpected arena")
	} else if s.Mode() != x86sym.ModeLong64 {
		t.Fatalf("unexpected mode: %s", s.Mode())
	}
}

func TestMachineState_Aliasing(t *testing.T) {
	const initial = 0x1122334455667788

	for _, tt := range []struct {
		name  string
		write func(s *x86sym.MachineState, a *x86sym.Arena)
		want  uint64
	}{
		{"AL", func(s *x86sym.MachineState, a *x86sym.Arena) { s.SetAL(a.Byte(0x7F)) }, 0x112233445566777F},
		{"AH", func(s *x86sym.MachineState, a *x86sym.Arena) { s.SetAH(a.Byte(0x7F)) }, 0x1122334455667F88},
		{"AX", func(s *x86sym.MachineState, a *x86sym.Arena) { s.SetAX(a.Word(0xBEEF)) }, 0x112233445566BEEF},
		{"EAX", func(s *x86sym.MachineState, a *x86sym.Arena) { s.SetEAX(a.DWord(0xDEADBEEF)) }, 0xDEADBEEF},
		{"RAX", func(s *x86sym.MachineState, a *x86sym.Arena) { s.SetRAX(a.QWord(0xFFFFFFFFFFFFFFFF)) }, 0xFFFFFFFFFFFFFFFF},
	} {
		t.Run(tt.name, func(t *testing.T) {
			a := x86sym.NewArena()
			s := x86sym.NewMachineState(a, x86sym.ModeLong64)
			s.SetRAX(a.QWord(initial))
			tt.write(s, a)

			if v := x86sym.Concretize(s.RAX(), nil); v != tt.want {
				t.Fatalf("unexpected rax: %#x", v)
			} else if v := MustConcretize(t, s, nil).Reg64(x86sym.RAX); v != tt.want {
				t.Fatalf("unexpected concrete rax: %#x", v)
			}
		})
	}

	t.Run("R8B", func(t *testing.T) {
		a := x86sym.NewArena()
		s := x86sym.NewMachineState(a, x86sym.ModeLong64)
		s.SetR8(a.QWord(initial))
		s.SetR8B(a.Byte(0))
		if v := x86sym.Concretize(s.R8(), nil); v != 0x1122334455667700 {
			t.Fatalf("unexpected r8: %#x", v)
		}
	})

	t.Run("ErrHighByte", func(t *testing.T) {
		a := x86sym.NewArena()
		s := x86sym.NewMachineState(a, x86sym.ModeLong64)
		MustPanic(t, "rsi has no high byte alias", func() { s.SetReg8High(x86sym.RSI, a.Byte(1)) })
		MustPanic(t, "rsi has no high byte alias", func() { s.Reg8High(x86sym.RSI) })
	})

	t.Run("ErrCrossArena", func(t *testing.T) {
		a0, a1 := x86sym.NewArena(), x86sym.NewArena()
		s := x86sym.NewMachineState(a0, x86sym.ModeLong64)
		MustPanic(t, "cannot mix nodes of different arenas", func() { s.SetRAX(a1.QWord(1)) })
	})
}

func TestMachineState_Views(t *testing.T) {
	a := x86sym.NewArena()
	s := x86sym.NewMachineState(a, x86sym.ModeLong64)
	s.SetRBX(qwordVar(a, 0))
	s.SetBH(byteVar(a, 0))

	b := x86sym.NewBindings()
	x86sym.BindConstant(b, a, x86sym.QWordVar{ID: 0}, 0x1122334455667788)
	x86sym.BindConstant(b, a, x86sym.ByteVar{ID: 0}, 0xAA)

	if v := x86sym.Concretize(s.BL(), b); v != 0x88 {
		t.Fatalf("unexpected bl: %#x", v)
	} else if v := x86sym.Concretize(s.BH(), b); v != 0xAA {
		t.Fatalf("unexpected bh: %#x", v)
	} else if v := x86sym.Concretize(s.BX(), b); v != 0xAA88 {
		t.Fatalf("unexpected bx: %#x", v)
	} else if v := x86sym.Concretize(s.EBX(), b); v != 0x5566AA88 {
		t.Fatalf("unexpected ebx: %#x", v)
	} else if v := x86sym.Concretize(s.RBX(), b); v != 0x112233445566AA88 {
		t.Fatalf("unexpected rbx: %#x", v)
	}

	other := MustConcretize(t, s, b)
	if v := other.Reg8High(x86sym.RBX); v != 0xAA {
		t.Fatalf("unexpected bh: %#x", v)
	} else if v := other.Reg32(x86sym.RBX); v != 0x5566AA88 {
		t.Fatalf("unexpected ebx: %#x", v)
	} else if v := other.Reg16(x86sym.RBX); v != 0xAA88 {
		t.Fatalf("unexpected bx: %#x", v)
	} else if v := other.Reg8(x86sym.RBX); v != 0x88 {
		t.Fatalf("unexpected bl: %#x", v)
	}
}

func TestMachineState_View(t *testing.T) {
	a := x86sym.NewArena()
	s := x86sym.NewMachineState(a, x86sym.ModeLong64)

	for _, tt := range []struct {
		name  string
		value x86sym.Expr
		want  uint64
	}{
		{"rdx", a.QWord(0x1122334455667788), 0x1122334455667788},
		{"dh", a.Byte(0xAA), 0x112233445566AA88},
		{"dl", a.Byte(0xBB), 0x112233445566AABB},
		{"dx", a.Word(0xBEEF), 0x112233445566BEEF},
		{"edx", a.DWord(0xDEADBEEF), 0xDEADBEEF},
	} {
		v, ok := x86sym.ParseView(tt.name)
		if !ok {
			t.Fatalf("unknown view: %s", tt.name)
		}
		s.SetView(v, tt.value)
		if got := x86sym.ConcretizeExpr(s.View(v), nil); got != x86sym.ConcretizeExpr(tt.value, nil) {
			t.Fatalf("%s: unexpected view value: %#x", tt.name, got)
		} else if got := x86sym.Concretize(s.RDX(), nil); got != tt.want {
			t.Fatalf("%s: unexpected rdx: %#x", tt.name, got)
		} else if got := MustConcretize(t, s, nil).View(v); got != x86sym.ConcretizeExpr(tt.value, nil) {
			t.Fatalf("%s: unexpected concrete view value: %#x", tt.name, got)
		}
	}

	t.Run("ErrWidth", func(t *testing.T) {
		v, _ := x86sym.ParseView("eax")
		MustPanic(t, "cannot write 16 bits to eax", func() { s.SetView(v, a.Word(1)) })
	})
}

func TestMachineState_Flags(t *testing.T) {
	a := x86sym.NewArena()
	s := x86sym.NewMachineState(a, x86sym.ModeLong64)
	s.SetCF(boolVar(a, 0))

	b := x86sym.NewBindings()
	x86sym.BindConstant(b, a, x86sym.BoolVar{ID: 0}, true)

	if diff := cmp.Diff(MustConcretize(t, s, b).Flags, x86sym.ConcreteFlags{CF: true}); diff != "" {
		t.Fatal(diff)
	} else if diff := cmp.Diff(s.Flags().Concretize(b), x86sym.ConcreteFlags{CF: true}); diff != "" {
		t.Fatal(diff)
	}

	s.SetFlag(x86sym.OF, a.True())
	if s.Flag(x86sym.OF) != a.True() {
		t.Fatal("unexpected of")
	} else if s.OF() != a.True() {
		t.Fatal("unexpected of accessor")
	} else if !MustConcretize(t, s, b).Flags.Get(x86sym.OF) {
		t.Fatal("expected concrete of")
	}
}

func TestMachineState_Memory(t *testing.T) {
	t.Run("StoreLoad", func(t *testing.T) {
		a := x86sym.NewArena()
		s := x86sym.NewMachineState(a, x86sym.ModeProtected)
		s.Store32(0x1000, dwordVar(a, 0))
		s.Store8(0x1004, a.Byte(0xFF))

		b := x86sym.NewBindings()
		x86sym.BindConstant(b, a, x86sym.DWordVar{ID: 0}, 0xDEADBEEF)

		if v := x86sym.Concretize(s.Load32(0x1000), b); v != 0xDEADBEEF {
			t.Fatalf("unexpected dword: %#x", v)
		} else if v := x86sym.Concretize(s.Load16(0x1002), b); v != 0xDEAD {
			t.Fatalf("unexpected word: %#x", v)
		} else if v := x86sym.Concretize(s.Load64(0x1000), b); v != 0xFFDEADBEEF {
			t.Fatalf("unexpected qword: %#x", v)
		} else if v := x86sym.Concretize(s.Load8(0x1004), b); v != 0xFF {
			t.Fatalf("unexpected byte: %#x", v)
		} else if v := MustConcretize(t, s, b).Memory.Read64(0x1000); v != 0xFFDEADBEEF {
			t.Fatalf("unexpected concrete qword: %#x", v)
		}
	})

	t.Run("SetMemory", func(t *testing.T) {
		a := x86sym.NewArena()
		s := x86sym.NewMachineState(a, x86sym.ModeLong64)
		m := s.Memory().Write64(0x10, a.QWord(1))
		s.SetMemory(m)
		if s.Memory() != m {
			t.Fatal("unexpected memory")
		}
	})

	t.Run("ErrSetMemory", func(t *testing.T) {
		a := x86sym.NewArena()
		s := x86sym.NewMachineState(a, x86sym.ModeLong64)
		MustPanic(t, "memory belongs to a different arena", func() {
			s.SetMemory(x86sym.NewMemorySpace(x86sym.NewArena()))
		})
	})
}

func TestMachineState_Clone(t *testing.T) {
	a := x86sym.NewArena()
	s := x86sym.NewMachineState(a, x86sym.ModeLong64)
	s.SetRAX(a.QWord(1))

	other := s.Clone()
	other.SetRAX(a.QWord(2))
	other.SetZF(a.True())
	other.Store8(0, a.Byte(1))
	other.UndefinedInstructionException()

	if v := x86sym.Concretize(s.RAX(), nil); v != 1 {
		t.Fatalf("unexpected rax: %d", v)
	} else if s.ZF() != a.False() {
		t.Fatal("unexpected zf")
	} else if s.Memory().Len() != 1 {
		t.Fatalf("unexpected memory len: %d", s.Memory().Len())
	} else if s.PendingException() {
		t.Fatal("unexpected pending exception")
	} else if !other.PendingException() {
		t.Fatal("expected pending exception")
	} else if v := x86sym.Concretize(other.RAX(), nil); v != 2 {
		t.Fatalf("unexpected rax: %d", v)
	}
}

func TestMachineState_ConcretizeEach(t *testing.T) {
	a := x86sym.NewArena()
	s := x86sym.NewMachineState(a, x86sym.ModeLong64)
	x86sym.AddWithFlags(s, qwordVar(a, 0), a.QWord(1))
	s.SetRAX(x86sym.Add(a, qwordVar(a, 0), a.QWord(1)))
	s.Store64(0x100, s.RAX())

	bindings := make([]*x86sym.Bindings, 100)
	for i := range bindings {
		bindings[i] = x86sym.NewBindings()
		x86sym.BindConstant(bindings[i], a, x86sym.QWordVar{ID: 0}, uint64(i))
	}

	t.Run("OK", func(t *testing.T) {
		results, err := s.ConcretizeEach(context.Background(), bindings)
		if err != nil {
			t.Fatal(err)
		} else if len(results) != len(bindings) {
			t.Fatalf("unexpected result count: %d", len(results))
		}
		for i, other := range results {
			if diff := cmp.Diff(other, MustConcretize(t, s, bindings[i])); diff != "" {
				t.Fatalf("%d: %s", i, diff)
			} else if v := other.Reg64(x86sym.RAX); v != uint64(i)+1 {
				t.Fatalf("%d: unexpected rax: %d", i, v)
			} else if v := other.Memory.Read64(0x100); v != uint64(i)+1 {
				t.Fatalf("%d: unexpected memory: %d", i, v)
			}
		}
	})

	t.Run("ErrCanceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := s.ConcretizeEach(ctx, bindings); !errors.Is(err, context.Canceled) {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestMachineState_Dump(t *testing.T) {
	a := x86sym.NewArena()
	s := x86sym.NewMachineState(a, x86sym.ModeLong64)
	s.Store8(0x10, a.Byte(1))

	if out := s.Dump(); !strings.Contains(out, "== REGISTERS\n") {
		t.Fatalf("unexpected dump: %s", out)
	} else if !strings.Contains(out, "rax  (const 0x0 64)\n") {
		t.Fatalf("unexpected dump: %s", out)
	} else if !strings.Contains(out, "[0x10, 0x10] (const 0x1 8)\n") {
		t.Fatalf("unexpected dump: %s", out)
	}

	other := MustConcretize(t, s, nil)
	if out := other.Dump(); !strings.Contains(out, "PendingException: (bool) false") {
		t.Fatalf("unexpected dump: %s", out)
	} else if out := other.String(); !strings.HasPrefix(out, "mode=long64 pending=false\n") {
		t.Fatalf("unexpected string: %s", out)
	}
}
