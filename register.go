package x86sym

import (
	"fmt"
	"strings"

	"golang.org/x/arch/x86/x86asm"
)

// Register identifies a 64-bit general register, in x86 encoding order.
type Register int

// General registers.
const (
	RAX Register = iota
	RCX
	RDX
	RBX
	RSP
	RBP
	RSI
	RDI
	R8
	R9
	R10
	R11
	R12
	R13
	R14
	R15
	RIP

	NumRegisters = int(RIP) + 1
)

// String returns the name of the full 64-bit register.
func (r Register) String() string {
	if r >= 0 && int(r) < NumRegisters {
		return viewNames[r][ViewQWord]
	}
	return fmt.Sprintf("Register<%d>", int(r))
}

// HasHighByte returns true if the register has a legacy second-byte alias (AH, CH, DH, BH).
func (r Register) HasHighByte() bool {
	return r >= RAX && r <= RBX
}

// ViewKind selects the bits of a register an access observes.
type ViewKind int

// Register views.
const (
	ViewLow8  ViewKind = iota + 1 // bits 0-7
	ViewHigh8                     // bits 8-15
	ViewWord                      // bits 0-15
	ViewDWord                     // bits 0-31
	ViewQWord                     // bits 0-63
)

// Width returns the bit width of the view.
func (k ViewKind) Width() uint {
	switch k {
	case ViewLow8, ViewHigh8:
		return Width8
	case ViewWord:
		return Width16
	case ViewDWord:
		return Width32
	case ViewQWord:
		return Width64
	default:
		panic(fmt.Sprintf("invalid view kind: %d", int(k)))
	}
}

// WriteRule describes how writing the view affects its 64-bit register.
func (k ViewKind) WriteRule() string {
	switch k {
	case ViewLow8:
		return "preserves bits 8-63"
	case ViewHigh8:
		return "preserves bits 0-7 and 16-63"
	case ViewWord:
		return "preserves bits 16-63"
	case ViewDWord:
		return "zero-extends to 64 bits"
	case ViewQWord:
		return "replaces all 64 bits"
	default:
		panic(fmt.Sprintf("invalid view kind: %d", int(k)))
	}
}

// View is an architectural register name: a register and the bits it covers.
type View struct {
	Reg  Register
	Kind ViewKind
}

// Width returns the bit width of the view.
func (v View) Width() uint { return v.Kind.Width() }

// String returns the architectural name of the view, e.g. "eax" or "r9b".
func (v View) String() string {
	if v.Reg >= 0 && int(v.Reg) < NumRegisters && v.Kind >= ViewLow8 && v.Kind <= ViewQWord {
		if name := viewNames[v.Reg][v.Kind]; name != "" {
			return name
		}
	}
	return fmt.Sprintf("View<%s:%d>", v.Reg, int(v.Kind))
}

// viewNames holds the architectural name of every view. Empty entries have no encoding.
var viewNames = [NumRegisters][ViewQWord + 1]string{
	RAX: {ViewLow8: "al", ViewHigh8: "ah", ViewWord: "ax", ViewDWord: "eax", ViewQWord: "rax"},
	RCX: {ViewLow8: "cl", ViewHigh8: "ch", ViewWord: "cx", ViewDWord: "ecx", ViewQWord: "rcx"},
	RDX: {ViewLow8: "dl", ViewHigh8: "dh", ViewWord: "dx", ViewDWord: "edx", ViewQWord: "rdx"},
	RBX: {ViewLow8: "bl", ViewHigh8: "bh", ViewWord: "bx", ViewDWord: "ebx", ViewQWord: "rbx"},
	RSP: {ViewLow8: "spl", ViewWord: "sp", ViewDWord: "esp", ViewQWord: "rsp"},
	RBP: {ViewLow8: "bpl", ViewWord: "bp", ViewDWord: "ebp", ViewQWord: "rbp"},
	RSI: {ViewLow8: "sil", ViewWord: "si", ViewDWord: "esi", ViewQWord: "rsi"},
	RDI: {ViewLow8: "dil", ViewWord: "di", ViewDWord: "edi", ViewQWord: "rdi"},
	R8:  {ViewLow8: "r8b", ViewWord: "r8w", ViewDWord: "r8d", ViewQWord: "r8"},
	R9:  {ViewLow8: "r9b", ViewWord: "r9w", ViewDWord: "r9d", ViewQWord: "r9"},
	R10: {ViewLow8: "r10b", ViewWord: "r10w", ViewDWord: "r10d", ViewQWord: "r10"},
	R11: {ViewLow8: "r11b", ViewWord: "r11w", ViewDWord: "r11d", ViewQWord: "r11"},
	R12: {ViewLow8: "r12b", ViewWord: "r12w", ViewDWord: "r12d", ViewQWord: "r12"},
	R13: {ViewLow8: "r13b", ViewWord: "r13w", ViewDWord: "r13d", ViewQWord: "r13"},
	R14: {ViewLow8: "r14b", ViewWord: "r14w", ViewDWord: "r14d", ViewQWord: "r14"},
	R15: {ViewLow8: "r15b", ViewWord: "r15w", ViewDWord: "r15d", ViewQWord: "r15"},
	RIP: {ViewWord: "ip", ViewDWord: "eip", ViewQWord: "rip"},
}

var viewsByName = make(map[string]View)

// x86asmViews maps decoder register operands onto views.
var x86asmViews = make(map[x86asm.Reg]View)

func init() {
	for reg := range viewNames {
		for kind, name := range viewNames[reg] {
			if name != "" {
				viewsByName[name] = View{Reg: Register(reg), Kind: ViewKind(kind)}
			}
		}
	}

	// Decoder registers listed in encoding order, matching Register.
	for kind, regs := range map[ViewKind][]x86asm.Reg{
		ViewLow8: {
			x86asm.AL, x86asm.CL, x86asm.DL, x86asm.BL, x86asm.SPB, x86asm.BPB, x86asm.SIB, x86asm.DIB,
			x86asm.R8B, x86asm.R9B, x86asm.R10B, x86asm.R11B, x86asm.R12B, x86asm.R13B, x86asm.R14B, x86asm.R15B,
		},
		ViewHigh8: {x86asm.AH, x86asm.CH, x86asm.DH, x86asm.BH},
		ViewWord: {
			x86asm.AX, x86asm.CX, x86asm.DX, x86asm.BX, x86asm.SP, x86asm.BP, x86asm.SI, x86asm.DI,
			x86asm.R8W, x86asm.R9W, x86asm.R10W, x86asm.R11W, x86asm.R12W, x86asm.R13W, x86asm.R14W, x86asm.R15W,
			x86asm.IP,
		},
		ViewDWord: {
			x86asm.EAX, x86asm.ECX, x86asm.EDX, x86asm.EBX, x86asm.ESP, x86asm.EBP, x86asm.ESI, x86asm.EDI,
			x86asm.R8L, x86asm.R9L, x86asm.R10L, x86asm.R11L, x86asm.R12L, x86asm.R13L, x86asm.R14L, x86asm.R15L,
			x86asm.EIP,
		},
		ViewQWord: {
			x86asm.RAX, x86asm.RCX, x86asm.RDX, x86asm.RBX, x86asm.RSP, x86asm.RBP, x86asm.RSI, x86asm.RDI,
			x86asm.R8, x86asm.R9, x86asm.R10, x86asm.R11, x86asm.R12, x86asm.R13, x86asm.R14, x86asm.R15,
			x86asm.RIP,
		},
	} {
		for i, reg := range regs {
			x86asmViews[reg] = View{Reg: Register(i), Kind: kind}
		}
	}
}

// ParseView returns the view with the given architectural name. Matching is
// case-insensitive.
func ParseView(name string) (View, bool) {
	v, ok := viewsByName[strings.ToLower(name)]
	return v, ok
}

// ViewOf returns the view addressed by a decoded register operand. Returns
// false for registers that are not general registers (segment, control,
// vector registers and so on).
func ViewOf(reg x86asm.Reg) (View, bool) {
	v, ok := x86asmViews[reg]
	return v, ok
}

// Mode is the CPU operating mode.
type Mode int

// CPU modes.
const (
	ModeReal Mode = iota
	ModeProtected
	ModeLong64
)

var modeNames = [...]string{
	ModeReal:      "real",
	ModeProtected: "protected",
	ModeLong64:    "long64",
}

// String returns the name of the mode.
func (m Mode) String() string {
	if m >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode<%d>", int(m))
}

// Bits returns the default address size of the mode.
func (m Mode) Bits() int {
	switch m {
	case ModeReal:
		return 16
	case ModeProtected:
		return 32
	default:
		return 64
	}
}

// ParseMode returns the mode with the given name.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if strings.EqualFold(s, name) {
			return Mode(m), nil
		}
	}
	return 0, fmt.Errorf("unknown cpu mode: %q", s)
}

// Flag identifies a status flag.
type Flag int

// Status flags.
const (
	CF Flag = iota // carry
	PF             // parity
	AF             // adjust
	ZF             // zero
	SF             // sign
	OF             // overflow

	NumFlags = int(OF) + 1
)

var flagNames = [...]string{
	CF: "cf",
	PF: "pf",
	AF: "af",
	ZF: "zf",
	SF: "sf",
	OF: "of",
}

// String returns the name of the flag.
func (f Flag) String() string {
	if f >= 0 && int(f) < len(flagNames) {
		return flagNames[f]
	}
	return fmt.Sprintf("Flag<%d>", int(f))
}

// ParseFlag returns the flag with the given name. Matching is case-insensitive.
func ParseFlag(name string) (Flag, bool) {
	for f, s := range flagNames {
		if strings.EqualFold(name, s) {
			return Flag(f), true
		}
	}
	return 0, false
}
