package x86sym

import (
	"bytes"
	"fmt"

	"github.com/davecgh/go-spew/spew"
)

// ConcreteFlags holds the evaluated status flags.
type ConcreteFlags struct {
	CF bool
	PF bool
	AF bool
	ZF bool
	SF bool
	OF bool
}

// Get returns the value of f.
func (f ConcreteFlags) Get(flag Flag) bool {
	switch flag {
	case CF:
		return f.CF
	case PF:
		return f.PF
	case AF:
		return f.AF
	case ZF:
		return f.ZF
	case SF:
		return f.SF
	case OF:
		return f.OF
	default:
		panic(fmt.Sprintf("invalid flag: %d", int(flag)))
	}
}

// ConcreteMachineState is the evaluated form of a MachineState. It is produced
// by MachineState.Concretize and is not modified afterward.
type ConcreteMachineState struct {
	Mode             Mode
	Registers        [NumRegisters]uint64
	Flags            ConcreteFlags
	Memory           *ConcreteMemorySpace
	PendingException bool
}

// Reg64 returns the full value of r.
func (s *ConcreteMachineState) Reg64(r Register) uint64 { return s.Registers[r] }

// Reg32 returns the low 32 bits of r.
func (s *ConcreteMachineState) Reg32(r Register) uint32 { return uint32(s.Registers[r]) }

// Reg16 returns the low 16 bits of r.
func (s *ConcreteMachineState) Reg16(r Register) uint16 { return uint16(s.Registers[r]) }

// Reg8 returns the low byte of r.
func (s *ConcreteMachineState) Reg8(r Register) uint8 { return uint8(s.Registers[r]) }

// Reg8High returns bits 8-15 of r.
func (s *ConcreteMachineState) Reg8High(r Register) uint8 {
	assert(r.HasHighByte(), "concrete state: %s has no high byte alias", r)
	return uint8(s.Registers[r] >> 8)
}

// View returns the value of an architectural view, zero-extended to 64 bits.
func (s *ConcreteMachineState) View(v View) uint64 {
	switch v.Kind {
	case ViewLow8:
		return uint64(s.Reg8(v.Reg))
	case ViewHigh8:
		return uint64(s.Reg8High(v.Reg))
	case ViewWord:
		return uint64(s.Reg16(v.Reg))
	case ViewDWord:
		return uint64(s.Reg32(v.Reg))
	default:
		return s.Reg64(v.Reg)
	}
}

// String returns the registers and flags as a table.
func (s *ConcreteMachineState) String() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "mode=%s pending=%v\n", s.Mode, s.PendingException)
	for i, v := range s.Registers {
		fmt.Fprintf(&buf, "%-4s %#016x\n", Register(i), v)
	}
	for f := Flag(0); int(f) < NumFlags; f++ {
		fmt.Fprintf(&buf, "%-4s %v\n", f, s.Flags.Get(f))
	}
	return buf.String()
}

// dumpConfig renders concrete states deterministically.
var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	DisableMethods:          true,
	SortKeys:                true,
}

// Dump returns the full structure of the state, including memory ranges.
func (s *ConcreteMachineState) Dump() string {
	return dumpConfig.Sdump(s)
}
