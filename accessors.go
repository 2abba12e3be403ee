package x86sym

// Named accessors for every architectural register view and status flag.
// Each delegates to the width-generic accessor that implements its aliasing rule.

// RAX returns the full value of RAX.
func (s *MachineState) RAX() QWord { return s.Reg64(RAX) }

// SetRAX replaces the full value of RAX.
func (s *MachineState) SetRAX(v QWord) { s.SetReg64(RAX, v) }

// EAX returns the low 32 bits of RAX.
func (s *MachineState) EAX() DWord { return s.Reg32(RAX) }

// SetEAX writes the low 32 bits of RAX and clears bits 32-63.
func (s *MachineState) SetEAX(v DWord) { s.SetReg32(RAX, v) }

// AX returns the low 16 bits of RAX.
func (s *MachineState) AX() Word { return s.Reg16(RAX) }

// SetAX writes the low 16 bits of RAX, preserving bits 16-63.
func (s *MachineState) SetAX(v Word) { s.SetReg16(RAX, v) }

// AL returns the low byte of RAX.
func (s *MachineState) AL() Byte { return s.Reg8(RAX) }

// SetAL writes the low byte of RAX, preserving bits 8-63.
func (s *MachineState) SetAL(v Byte) { s.SetReg8(RAX, v) }

// AH returns bits 8-15 of RAX.
func (s *MachineState) AH() Byte { return s.Reg8High(RAX) }

// SetAH writes bits 8-15 of RAX, preserving every other bit.
func (s *MachineState) SetAH(v Byte) { s.SetReg8High(RAX, v) }

// RCX returns the full value of RCX.
func (s *MachineState) RCX() QWord { return s.Reg64(RCX) }

// SetRCX replaces the full value of RCX.
func (s *MachineState) SetRCX(v QWord) { s.SetReg64(RCX, v) }

// ECX returns the low 32 bits of RCX.
func (s *MachineState) ECX() DWord { return s.Reg32(RCX) }

// SetECX writes the low 32 bits of RCX and clears bits 32-63.
func (s *MachineState) SetECX(v DWord) { s.SetReg32(RCX, v) }

// CX returns the low 16 bits of RCX.
func (s *MachineState) CX() Word { return s.Reg16(RCX) }

// SetCX writes the low 16 bits of RCX, preserving bits 16-63.
func (s *MachineState) SetCX(v Word) { s.SetReg16(RCX, v) }

// CL returns the low byte of RCX.
func (s *MachineState) CL() Byte { return s.Reg8(RCX) }

// SetCL writes the low byte of RCX, preserving bits 8-63.
func (s *MachineState) SetCL(v Byte) { s.SetReg8(RCX, v) }

// CH returns bits 8-15 of RCX.
func (s *MachineState) CH() Byte { return s.Reg8High(RCX) }

// SetCH writes bits 8-15 of RCX, preserving every other bit.
func (s *MachineState) SetCH(v Byte) { s.SetReg8High(RCX, v) }

// RDX returns the full value of RDX.
func (s *MachineState) RDX() QWord { return s.Reg64(RDX) }

// SetRDX replaces the full value of RDX.
func (s *MachineState) SetRDX(v QWord) { s.SetReg64(RDX, v) }

// EDX returns the low 32 bits of RDX.
func (s *MachineState) EDX() DWord { return s.Reg32(RDX) }

// SetEDX writes the low 32 bits of RDX and clears bits 32-63.
func (s *MachineState) SetEDX(v DWord) { s.SetReg32(RDX, v) }

// DX returns the low 16 bits of RDX.
func (s *MachineState) DX() Word { return s.Reg16(RDX) }

// SetDX writes the low 16 bits of RDX, preserving bits 16-63.
func (s *MachineState) SetDX(v Word) { s.SetReg16(RDX, v) }

// DL returns the low byte of RDX.
func (s *MachineState) DL() Byte { return s.Reg8(RDX) }

// SetDL writes the low byte of RDX, preserving bits 8-63.
func (s *MachineState) SetDL(v Byte) { s.SetReg8(RDX, v) }

// DH returns bits 8-15 of RDX.
func (s *MachineState) DH() Byte { return s.Reg8High(RDX) }

// SetDH writes bits 8-15 of RDX, preserving every other bit.
func (s *MachineState) SetDH(v Byte) { s.SetReg8High(RDX, v) }

// RBX returns the full value of RBX.
func (s *MachineState) RBX() QWord { return s.Reg64(RBX) }

// SetRBX replaces the full value of RBX.
func (s *MachineState) SetRBX(v QWord) { s.SetReg64(RBX, v) }

// EBX returns the low 32 bits of RBX.
func (s *MachineState) EBX() DWord { return s.Reg32(RBX) }

// SetEBX writes the low 32 bits of RBX and clears bits 32-63.
func (s *MachineState) SetEBX(v DWord) { s.SetReg32(RBX, v) }

// BX returns the low 16 bits of RBX.
func (s *MachineState) BX() Word { return s.Reg16(RBX) }

// SetBX writes the low 16 bits of RBX, preserving bits 16-63.
func (s *MachineState) SetBX(v Word) { s.SetReg16(RBX, v) }

// BL returns the low byte of RBX.
func (s *MachineState) BL() Byte { return s.Reg8(RBX) }

// SetBL writes the low byte of RBX, preserving bits 8-63.
func (s *MachineState) SetBL(v Byte) { s.SetReg8(RBX, v) }

// BH returns bits 8-15 of RBX.
func (s *MachineState) BH() Byte { return s.Reg8High(RBX) }

// SetBH writes bits 8-15 of RBX, preserving every other bit.
func (s *MachineState) SetBH(v Byte) { s.SetReg8High(RBX, v) }

// RSP returns the full value of RSP.
func (s *MachineState) RSP() QWord { return s.Reg64(RSP) }

// SetRSP replaces the full value of RSP.
func (s *MachineState) SetRSP(v QWord) { s.SetReg64(RSP, v) }

// ESP returns the low 32 bits of RSP.
func (s *MachineState) ESP() DWord { return s.Reg32(RSP) }

// SetESP writes the low 32 bits of RSP and clears bits 32-63.
func (s *MachineState) SetESP(v DWord) { s.SetReg32(RSP, v) }

// SP returns the low 16 bits of RSP.
func (s *MachineState) SP() Word { return s.Reg16(RSP) }

// SetSP writes the low 16 bits of RSP, preserving bits 16-63.
func (s *MachineState) SetSP(v Word) { s.SetReg16(RSP, v) }

// SPL returns the low byte of RSP.
func (s *MachineState) SPL() Byte { return s.Reg8(RSP) }

// SetSPL writes the low byte of RSP, preserving bits 8-63.
func (s *MachineState) SetSPL(v Byte) { s.SetReg8(RSP, v) }

// RBP returns the full value of RBP.
func (s *MachineState) RBP() QWord { return s.Reg64(RBP) }

// SetRBP replaces the full value of RBP.
func (s *MachineState) SetRBP(v QWord) { s.SetReg64(RBP, v) }

// EBP returns the low 32 bits of RBP.
func (s *MachineState) EBP() DWord { return s.Reg32(RBP) }

// SetEBP writes the low 32 bits of RBP and clears bits 32-63.
func (s *MachineState) SetEBP(v DWord) { s.SetReg32(RBP, v) }

// BP returns the low 16 bits of RBP.
func (s *MachineState) BP() Word { return s.Reg16(RBP) }

// SetBP writes the low 16 bits of RBP, preserving bits 16-63.
func (s *MachineState) SetBP(v Word) { s.SetReg16(RBP, v) }

// BPL returns the low byte of RBP.
func (s *MachineState) BPL() Byte { return s.Reg8(RBP) }

// SetBPL writes the low byte of RBP, preserving bits 8-63.
func (s *MachineState) SetBPL(v Byte) { s.SetReg8(RBP, v) }

// RSI returns the full value of RSI.
func (s *MachineState) RSI() QWord { return s.Reg64(RSI) }

// SetRSI replaces the full value of RSI.
func (s *MachineState) SetRSI(v QWord) { s.SetReg64(RSI, v) }

// ESI returns the low 32 bits of RSI.
func (s *MachineState) ESI() DWord { return s.Reg32(RSI) }

// SetESI writes the low 32 bits of RSI and clears bits 32-63.
func (s *MachineState) SetESI(v DWord) { s.SetReg32(RSI, v) }

// SI returns the low 16 bits of RSI.
func (s *MachineState) SI() Word { return s.Reg16(RSI) }

// SetSI writes the low 16 bits of RSI, preserving bits 16-63.
func (s *MachineState) SetSI(v Word) { s.SetReg16(RSI, v) }

// SIL returns the low byte of RSI.
func (s *MachineState) SIL() Byte { return s.Reg8(RSI) }

// SetSIL writes the low byte of RSI, preserving bits 8-63.
func (s *MachineState) SetSIL(v Byte) { s.SetReg8(RSI, v) }

// RDI returns the full value of RDI.
func (s *MachineState) RDI() QWord { return s.Reg64(RDI) }

// SetRDI replaces the full value of RDI.
func (s *MachineState) SetRDI(v QWord) { s.SetReg64(RDI, v) }

// EDI returns the low 32 bits of RDI.
func (s *MachineState) EDI() DWord { return s.Reg32(RDI) }

// SetEDI writes the low 32 bits of RDI and clears bits 32-63.
func (s *MachineState) SetEDI(v DWord) { s.SetReg32(RDI, v) }

// DI returns the low 16 bits of RDI.
func (s *MachineState) DI() Word { return s.Reg16(RDI) }

// SetDI writes the low 16 bits of RDI, preserving bits 16-63.
func (s *MachineState) SetDI(v Word) { s.SetReg16(RDI, v) }

// DIL returns the low byte of RDI.
func (s *MachineState) DIL() Byte { return s.Reg8(RDI) }

// SetDIL writes the low byte of RDI, preserving bits 8-63.
func (s *MachineState) SetDIL(v Byte) { s.SetReg8(RDI, v) }

// R8 returns the full value of R8.
func (s *MachineState) R8() QWord { return s.Reg64(R8) }

// SetR8 replaces the full value of R8.
func (s *MachineState) SetR8(v QWord) { s.SetReg64(R8, v) }

// R8D returns the low 32 bits of R8.
func (s *MachineState) R8D() DWord { return s.Reg32(R8) }

// SetR8D writes the low 32 bits of R8 and clears bits 32-63.
func (s *MachineState) SetR8D(v DWord) { s.SetReg32(R8, v) }

// R8W returns the low 16 bits of R8.
func (s *MachineState) R8W() Word { return s.Reg16(R8) }

// SetR8W writes the low 16 bits of R8, preserving bits 16-63.
func (s *MachineState) SetR8W(v Word) { s.SetReg16(R8, v) }

// R8B returns the low byte of R8.
func (s *MachineState) R8B() Byte { return s.Reg8(R8) }

// SetR8B writes the low byte of R8, preserving bits 8-63.
func (s *MachineState) SetR8B(v Byte) { s.SetReg8(R8, v) }

// R9 returns the full value of R9.
func (s *MachineState) R9() QWord { return s.Reg64(R9) }

// SetR9 replaces the full value of R9.
func (s *MachineState) SetR9(v QWord) { s.SetReg64(R9, v) }

// R9D returns the low 32 bits of R9.
func (s *MachineState) R9D() DWord { return s.Reg32(R9) }

// SetR9D writes the low 32 bits of R9 and clears bits 32-63.
func (s *MachineState) SetR9D(v DWord) { s.SetReg32(R9, v) }

// R9W returns the low 16 bits of R9.
func (s *MachineState) R9W() Word { return s.Reg16(R9) }

// SetR9W writes the low 16 bits of R9, preserving bits 16-63.
func (s *MachineState) SetR9W(v Word) { s.SetReg16(R9, v) }

// R9B returns the low byte of R9.
func (s *MachineState) R9B() Byte { return s.Reg8(R9) }

// SetR9B writes the low byte of R9, preserving bits 8-63.
func (s *MachineState) SetR9B(v Byte) { s.SetReg8(R9, v) }

// R10 returns the full value of R10.
func (s *MachineState) R10() QWord { return s.Reg64(R10) }

// SetR10 replaces the full value of R10.
func (s *MachineState) SetR10(v QWord) { s.SetReg64(R10, v) }

// R10D returns the low 32 bits of R10.
func (s *MachineState) R10D() DWord { return s.Reg32(R10) }

// SetR10D writes the low 32 bits of R10 and clears bits 32-63.
func (s *MachineState) SetR10D(v DWord) { s.SetReg32(R10, v) }

// R10W returns the low 16 bits of R10.
func (s *MachineState) R10W() Word { return s.Reg16(R10) }

// SetR10W writes the low 16 bits of R10, preserving bits 16-63.
func (s *MachineState) SetR10W(v Word) { s.SetReg16(R10, v) }

// R10B returns the low byte of R10.
func (s *MachineState) R10B() Byte { return s.Reg8(R10) }

// SetR10B writes the low byte of R10, preserving bits 8-63.
func (s *MachineState) SetR10B(v Byte) { s.SetReg8(R10, v) }

// R11 returns the full value of R11.
func (s *MachineState) R11() QWord { return s.Reg64(R11) }

// SetR11 replaces the full value of R11.
func (s *MachineState) SetR11(v QWord) { s.SetReg64(R11, v) }

// R11D returns the low 32 bits of R11.
func (s *MachineState) R11D() DWord { return s.Reg32(R11) }

// SetR11D writes the low 32 bits of R11 and clears bits 32-63.
func (s *MachineState) SetR11D(v DWord) { s.SetReg32(R11, v) }

// R11W returns the low 16 bits of R11.
func (s *MachineState) R11W() Word { return s.Reg16(R11) }

// SetR11W writes the low 16 bits of R11, preserving bits 16-63.
func (s *MachineState) SetR11W(v Word) { s.SetReg16(R11, v) }

// R11B returns the low byte of R11.
func (s *MachineState) R11B() Byte { return s.Reg8(R11) }

// SetR11B writes the low byte of R11, preserving bits 8-63.
func (s *MachineState) SetR11B(v Byte) { s.SetReg8(R11, v) }

// R12 returns the full value of R12.
func (s *MachineState) R12() QWord { return s.Reg64(R12) }

// SetR12 replaces the full value of R12.
func (s *MachineState) SetR12(v QWord) { s.SetReg64(R12, v) }

// R12D returns the low 32 bits of R12.
func (s *MachineState) R12D() DWord { return s.Reg32(R12) }

// SetR12D writes the low 32 bits of R12 and clears bits 32-63.
func (s *MachineState) SetR12D(v DWord) { s.SetReg32(R12, v) }

// R12W returns the low 16 bits of R12.
func (s *MachineState) R12W() Word { return s.Reg16(R12) }

// SetR12W writes the low 16 bits of R12, preserving bits 16-63.
func (s *MachineState) SetR12W(v Word) { s.SetReg16(R12, v) }

// R12B returns the low byte of R12.
func (s *MachineState) R12B() Byte { return s.Reg8(R12) }

// SetR12B writes the low byte of R12, preserving bits 8-63.
func (s *MachineState) SetR12B(v Byte) { s.SetReg8(R12, v) }

// R13 returns the full value of R13.
func (s *MachineState) R13() QWord { return s.Reg64(R13) }

// SetR13 replaces the full value of R13.
func (s *MachineState) SetR13(v QWord) { s.SetReg64(R13, v) }

// R13D returns the low 32 bits of R13.
func (s *MachineState) R13D() DWord { return s.Reg32(R13) }

// SetR13D writes the low 32 bits of R13 and clears bits 32-63.
func (s *MachineState) SetR13D(v DWord) { s.SetReg32(R13, v) }

// R13W returns the low 16 bits of R13.
func (s *MachineState) R13W() Word { return s.Reg16(R13) }

// SetR13W writes the low 16 bits of R13, preserving bits 16-63.
func (s *MachineState) SetR13W(v Word) { s.SetReg16(R13, v) }

// R13B returns the low byte of R13.
func (s *MachineState) R13B() Byte { return s.Reg8(R13) }

// SetR13B writes the low byte of R13, preserving bits 8-63.
func (s *MachineState) SetR13B(v Byte) { s.SetReg8(R13, v) }

// R14 returns the full value of R14.
func (s *MachineState) R14() QWord { return s.Reg64(R14) }

// SetR14 replaces the full value of R14.
func (s *MachineState) SetR14(v QWord) { s.SetReg64(R14, v) }

// R14D returns the low 32 bits of R14.
func (s *MachineState) R14D() DWord { return s.Reg32(R14) }

// SetR14D writes the low 32 bits of R14 and clears bits 32-63.
func (s *MachineState) SetR14D(v DWord) { s.SetReg32(R14, v) }

// R14W returns the low 16 bits of R14.
func (s *MachineState) R14W() Word { return s.Reg16(R14) }

// SetR14W writes the low 16 bits of R14, preserving bits 16-63.
func (s *MachineState) SetR14W(v Word) { s.SetReg16(R14, v) }

// R14B returns the low byte of R14.
func (s *MachineState) R14B() Byte { return s.Reg8(R14) }

// SetR14B writes the low byte of R14, preserving bits 8-63.
func (s *MachineState) SetR14B(v Byte) { s.SetReg8(R14, v) }

// R15 returns the full value of R15.
func (s *MachineState) R15() QWord { return s.Reg64(R15) }

// SetR15 replaces the full value of R15.
func (s *MachineState) SetR15(v QWord) { s.SetReg64(R15, v) }

// R15D returns the low 32 bits of R15.
func (s *MachineState) R15D() DWord { return s.Reg32(R15) }

// SetR15D writes the low 32 bits of R15 and clears bits 32-63.
func (s *MachineState) SetR15D(v DWord) { s.SetReg32(R15, v) }

// R15W returns the low 16 bits of R15.
func (s *MachineState) R15W() Word { return s.Reg16(R15) }

// SetR15W writes the low 16 bits of R15, preserving bits 16-63.
func (s *MachineState) SetR15W(v Word) { s.SetReg16(R15, v) }

// R15B returns the low byte of R15.
func (s *MachineState) R15B() Byte { return s.Reg8(R15) }

// SetR15B writes the low byte of R15, preserving bits 8-63.
func (s *MachineState) SetR15B(v Byte) { s.SetReg8(R15, v) }

// RIP returns the full value of RIP.
func (s *MachineState) RIP() QWord { return s.Reg64(RIP) }

// SetRIP replaces the full value of RIP.
func (s *MachineState) SetRIP(v QWord) { s.SetReg64(RIP, v) }

// EIP returns the low 32 bits of RIP.
func (s *MachineState) EIP() DWord { return s.Reg32(RIP) }

// SetEIP writes the low 32 bits of RIP and clears bits 32-63.
func (s *MachineState) SetEIP(v DWord) { s.SetReg32(RIP, v) }

// IP returns the low 16 bits of RIP.
func (s *MachineState) IP() Word { return s.Reg16(RIP) }

// SetIP writes the low 16 bits of RIP, preserving bits 16-63.
func (s *MachineState) SetIP(v Word) { s.SetReg16(RIP, v) }

// CF returns the carry flag.
func (s *MachineState) CF() Bool { return s.Flag(CF) }

// SetCF replaces the carry flag.
func (s *MachineState) SetCF(v Bool) { s.SetFlag(CF, v) }

// PF returns the parity flag.
func (s *MachineState) PF() Bool { return s.Flag(PF) }

// SetPF replaces the parity flag.
func (s *MachineState) SetPF(v Bool) { s.SetFlag(PF, v) }

// AF returns the adjust flag.
func (s *MachineState) AF() Bool { return s.Flag(AF) }

// SetAF replaces the adjust flag.
func (s *MachineState) SetAF(v Bool) { s.SetFlag(AF, v) }

// ZF returns the zero flag.
func (s *MachineState) ZF() Bool { return s.Flag(ZF) }

// SetZF replaces the zero flag.
func (s *MachineState) SetZF(v Bool) { s.SetFlag(ZF, v) }

// SF returns the sign flag.
func (s *MachineState) SF() Bool { return s.Flag(SF) }

// SetSF replaces the sign flag.
func (s *MachineState) SetSF(v Bool) { s.SetFlag(SF, v) }

// OF returns the overflow flag.
func (s *MachineState) OF() Bool { return s.Flag(OF) }

// SetOF replaces the overflow flag.
func (s *MachineState) SetOF(v Bool) { s.SetFlag(OF, v) }
