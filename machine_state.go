package x86sym

import (
	"bytes"
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// MachineState is the symbolic architectural state of an x86 CPU: general
// registers, status flags, memory, mode and a pending exception.
//
// Each register is stored once at 64 bits. Narrower accesses are views over
// that storage and follow the x86-64 aliasing rules: 8-bit and 16-bit writes
// preserve the remaining bits, 32-bit writes zero-extend.
type MachineState struct {
	arena   *Arena
	mode    Mode
	regs    [NumRegisters]QWord
	flags   Flags
	memory  *MemorySpace
	pending bool
}

// NewMachineState returns a state with every register, flag and memory byte zero.
func NewMachineState(a *Arena, mode Mode) *MachineState {
	assert(a != nil && !a.released, "machine state: invalid arena")
	s := &MachineState{
		arena:  a,
		mode:   mode,
		memory: NewMemorySpace(a),
	}
	for i := range s.regs {
		s.regs[i] = a.QWord(0)
	}
	for f := Flag(0); int(f) < NumFlags; f++ {
		*s.flags.field(f) = a.False()
	}
	return s
}

// Arena returns the arena that owns the state's nodes.
func (s *MachineState) Arena() *Arena { return s.arena }

// Mode returns the CPU mode.
func (s *MachineState) Mode() Mode { return s.mode }

// Clone returns a copy of the state. Nodes are shared; later writes to either
// copy do not affect the other.
func (s *MachineState) Clone() *MachineState {
	other := *s
	return &other
}

// own panics if e was not built in the state's arena.
func (s *MachineState) own(e Expr) {
	assert(e != nil, "machine state: nil value")
	assert(e.Arena() == s.arena, "machine state: cannot mix nodes of different arenas: %s", e)
}

func (s *MachineState) checkReg(r Register) {
	assert(r >= 0 && int(r) < NumRegisters, "machine state: invalid register: %d", int(r))
}

// Reg64 returns the full 64-bit value of r.
func (s *MachineState) Reg64(r Register) QWord {
	s.checkReg(r)
	return s.regs[r]
}

// SetReg64 replaces the full 64-bit value of r.
func (s *MachineState) SetReg64(r Register, v QWord) {
	s.checkReg(r)
	s.own(v)
	s.regs[r] = v
}

// Reg32 returns the low 32 bits of r.
func (s *MachineState) Reg32(r Register) DWord {
	s.checkReg(r)
	return TruncateToDWord(s.arena, s.regs[r])
}

// SetReg32 writes the low 32 bits of r and clears the upper 32 bits.
func (s *MachineState) SetReg32(r Register, v DWord) {
	s.checkReg(r)
	s.own(v)
	s.regs[r] = ZeroExtend[uint32, uint64](s.arena, v)
}

// Reg16 returns the low 16 bits of r.
func (s *MachineState) Reg16(r Register) Word {
	s.checkReg(r)
	return TruncateToWord(s.arena, s.regs[r])
}

// SetReg16 writes the low 16 bits of r, preserving the upper 48 bits.
func (s *MachineState) SetReg16(r Register, v Word) {
	s.checkReg(r)
	s.own(v)
	s.regs[r] = WriteLowBits(s.arena, s.regs[r], v)
}

// Reg8 returns the low byte of r.
func (s *MachineState) Reg8(r Register) Byte {
	s.checkReg(r)
	return ExtractByte(s.arena, s.regs[r], 0)
}

// SetReg8 writes the low byte of r, preserving the upper 56 bits.
func (s *MachineState) SetReg8(r Register, v Byte) {
	s.checkReg(r)
	s.own(v)
	s.regs[r] = InsertByte(s.arena, s.regs[r], 0, v)
}

// Reg8High returns bits 8-15 of r. Only RAX, RCX, RDX and RBX have this alias.
func (s *MachineState) Reg8High(r Register) Byte {
	assert(r.HasHighByte(), "machine state: %s has no high byte alias", r)
	return ExtractByte(s.arena, s.regs[r], 1)
}

// SetReg8High writes bits 8-15 of r, preserving every other bit.
func (s *MachineState) SetReg8High(r Register, v Byte) {
	assert(r.HasHighByte(), "machine state: %s has no high byte alias", r)
	s.own(v)
	s.regs[r] = InsertByte(s.arena, s.regs[r], 1, v)
}

// View returns the value of an architectural view. The result is a Byte,
// Word, DWord or QWord depending on the view's width.
func (s *MachineState) View(v View) Expr {
	switch v.Kind {
	case ViewLow8:
		return s.Reg8(v.Reg)
	case ViewHigh8:
		return s.Reg8High(v.Reg)
	case ViewWord:
		return s.Reg16(v.Reg)
	case ViewDWord:
		return s.Reg32(v.Reg)
	case ViewQWord:
		return s.Reg64(v.Reg)
	default:
		panic(fmt.Sprintf("machine state: invalid view: %s", v))
	}
}

// SetView writes value through an architectural view, applying the view's
// aliasing rule. Panics if value's width does not match the view.
func (s *MachineState) SetView(v View, value Expr) {
	assert(value != nil, "machine state: nil value")
	assert(value.Width() == v.Width(), "machine state: cannot write %d bits to %s", value.Width(), v)
	switch v.Kind {
	case ViewLow8:
		s.SetReg8(v.Reg, value.(Byte))
	case ViewHigh8:
		s.SetReg8High(v.Reg, value.(Byte))
	case ViewWord:
		s.SetReg16(v.Reg, value.(Word))
	case ViewDWord:
		s.SetReg32(v.Reg, value.(DWord))
	case ViewQWord:
		s.SetReg64(v.Reg, value.(QWord))
	default:
		panic(fmt.Sprintf("machine state: invalid view: %s", v))
	}
}

// Flag returns the value of f.
func (s *MachineState) Flag(f Flag) Bool {
	return *s.flags.field(f)
}

// SetFlag replaces the value of f.
func (s *MachineState) SetFlag(f Flag, v Bool) {
	s.own(v)
	*s.flags.field(f) = v
}

// Flags returns the status flags.
func (s *MachineState) Flags() Flags { return s.flags }

// Memory returns the current memory space.
func (s *MachineState) Memory() *MemorySpace { return s.memory }

// SetMemory replaces the memory space.
func (s *MachineState) SetMemory(m *MemorySpace) {
	assert(m != nil, "machine state: nil memory")
	assert(m.arena == s.arena, "machine state: memory belongs to a different arena")
	s.memory = m
}

// Load8 returns the byte at addr.
func (s *MachineState) Load8(addr uint64) Byte { return s.memory.Read8(addr) }

// Load16 returns the word at addr.
func (s *MachineState) Load16(addr uint64) Word { return s.memory.Read16(addr) }

// Load32 returns the double word at addr.
func (s *MachineState) Load32(addr uint64) DWord { return s.memory.Read32(addr) }

// Load64 returns the quad word at addr.
func (s *MachineState) Load64(addr uint64) QWord { return s.memory.Read64(addr) }

// Store8 writes a byte at addr.
func (s *MachineState) Store8(addr uint64, v Byte) { s.memory = s.memory.Write8(addr, v) }

// Store16 writes a word at addr.
func (s *MachineState) Store16(addr uint64, v Word) { s.memory = s.memory.Write16(addr, v) }

// Store32 writes a double word at addr.
func (s *MachineState) Store32(addr uint64, v DWord) { s.memory = s.memory.Write32(addr, v) }

// Store64 writes a quad word at addr.
func (s *MachineState) Store64(addr uint64, v QWord) { s.memory = s.memory.Write64(addr, v) }

// UndefinedInstructionException marks the state as having raised #UD.
// Execution is not unwound; callers must check PendingException.
func (s *MachineState) UndefinedInstructionException() {
	s.pending = true
}

// PendingException returns true if the modeled instruction faulted.
func (s *MachineState) PendingException() bool { return s.pending }

// Concretize evaluates the whole state against b. Nodes shared between
// registers, flags and memory are evaluated once.
func (s *MachineState) Concretize(b *Bindings) *ConcreteMachineState {
	ev := newEvaluator(b)

	other := &ConcreteMachineState{
		Mode:             s.mode,
		Flags:            s.flags.concretize(ev),
		Memory:           s.memory.concretize(ev),
		PendingException: s.pending,
	}
	for i := range s.regs {
		other.Registers[i] = evalNode(ev, s.regs[i])
	}
	return other
}

// ConcretizeEach concretizes the state once per binding, in parallel. The
// state must not be modified until ConcretizeEach returns. Returns the
// context's error if it is canceled first.
func (s *MachineState) ConcretizeEach(ctx context.Context, bindings []*Bindings) ([]*ConcreteMachineState, error) {
	results := make([]*ConcreteMachineState, len(bindings))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, b := range bindings {
		i, b := i, b
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = s.Concretize(b)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Dump returns the symbolic contents of the state as a string.
func (s *MachineState) Dump() string {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, "MACHINE STATE")
	fmt.Fprintln(&buf, "=============")
	fmt.Fprintf(&buf, "mode=%s\n", s.mode)
	fmt.Fprintf(&buf, "pending=%v\n", s.pending)
	fmt.Fprintln(&buf, "")

	fmt.Fprintln(&buf, "== REGISTERS")
	for i := range s.regs {
		fmt.Fprintf(&buf, "%-4s %s\n", Register(i), s.regs[i])
	}
	fmt.Fprintln(&buf, "")

	fmt.Fprintln(&buf, "== FLAGS")
	for f := Flag(0); int(f) < NumFlags; f++ {
		fmt.Fprintf(&buf, "%-4s %s\n", f, s.Flag(f))
	}
	fmt.Fprintln(&buf, "")

	fmt.Fprintln(&buf, "== MEMORY")
	fmt.Fprint(&buf, s.memory.Dump())
	return buf.String()
}

// Flags holds one boolean node per status flag.
type Flags struct {
	CF Bool
	PF Bool
	AF Bool
	ZF Bool
	SF Bool
	OF Bool
}

func (f *Flags) field(flag Flag) *Bool {
	switch flag {
	case CF:
		return &f.CF
	case PF:
		return &f.PF
	case AF:
		return &f.AF
	case ZF:
		return &f.ZF
	case SF:
		return &f.SF
	case OF:
		return &f.OF
	default:
		panic(fmt.Sprintf("invalid flag: %d", int(flag)))
	}
}

// Concretize evaluates every flag against b.
func (f Flags) Concretize(b *Bindings) ConcreteFlags {
	return f.concretize(newEvaluator(b))
}

func (f Flags) concretize(ev *evaluator) ConcreteFlags {
	return ConcreteFlags{
		CF: evalNode(ev, f.CF),
		PF: evalNode(ev, f.PF),
		AF: evalNode(ev, f.AF),
		ZF: evalNode(ev, f.ZF),
		SF: evalNode(ev, f.SF),
		OF: evalNode(ev, f.OF),
	}
}
