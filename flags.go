package x86sym

// Flag builders compute status flags from the operands and result of an
// operation. They are width-generic so the same semantics serve every operand size.

func zero[T Integer](a *Arena) Node[T] { return Constant(a, T(0)) }

func msb[T Integer]() uint { return widthOf[T]() - 1 }

// ZeroFlag is set when result is zero.
func ZeroFlag[T Integer](a *Arena, result Node[T]) Bool {
	return Equal(a, result, zero[T](a))
}

// SignFlag is the most significant bit of result.
func SignFlag[T Integer](a *Arena, result Node[T]) Bool {
	return Bit(a, result, msb[T]())
}

// ParityFlag is set when the low byte of result has an even number of set bits.
func ParityFlag[T Integer](a *Arena, result Node[T]) Bool {
	odd := Bit(a, result, 0)
	for i := uint(1); i < 8; i++ {
		odd = BoolXor(a, odd, Bit(a, result, i))
	}
	return BoolNot(a, odd)
}

// AddCarry is set when result = lhs + rhs wrapped around.
func AddCarry[T Integer](a *Arena, lhs, result Node[T]) Bool {
	return Less(a, result, lhs)
}

// SubBorrow is set when lhs - rhs borrows.
func SubBorrow[T Integer](a *Arena, lhs, rhs Node[T]) Bool {
	return Less(a, lhs, rhs)
}

// AdjustFlag is the carry out of bit 3.
func AdjustFlag[T Integer](a *Arena, lhs, rhs, result Node[T]) Bool {
	return Bit(a, Xor(a, Xor(a, lhs, rhs), result), 4)
}

// AddOverflow is set when lhs + rhs overflows as a signed value.
func AddOverflow[T Integer](a *Arena, lhs, rhs, result Node[T]) Bool {
	return Bit(a, And(a, Xor(a, lhs, result), Xor(a, rhs, result)), msb[T]())
}

// SubOverflow is set when lhs - rhs overflows as a signed value.
func SubOverflow[T Integer](a *Arena, lhs, rhs, result Node[T]) Bool {
	return Bit(a, And(a, Xor(a, lhs, rhs), Xor(a, lhs, result)), msb[T]())
}

// setResultFlags sets ZF, SF and PF from result.
func setResultFlags[T Integer](s *MachineState, result Node[T]) {
	s.SetZF(ZeroFlag(s.arena, result))
	s.SetSF(SignFlag(s.arena, result))
	s.SetPF(ParityFlag(s.arena, result))
}

// SetAddFlags sets all six flags for result = lhs + rhs.
func SetAddFlags[T Integer](s *MachineState, lhs, rhs, result Node[T]) {
	a := s.arena
	s.SetCF(AddCarry(a, lhs, result))
	s.SetOF(AddOverflow(a, lhs, rhs, result))
	s.SetAF(AdjustFlag(a, lhs, rhs, result))
	setResultFlags(s, result)
}

// SetSubFlags sets all six flags for result = lhs - rhs.
func SetSubFlags[T Integer](s *MachineState, lhs, rhs, result Node[T]) {
	a := s.arena
	s.SetCF(SubBorrow(a, lhs, rhs))
	s.SetOF(SubOverflow(a, lhs, rhs, result))
	s.SetAF(AdjustFlag(a, lhs, rhs, result))
	setResultFlags(s, result)
}

// SetLogicFlags sets the flags for a bitwise operation: CF and OF are cleared,
// ZF, SF and PF follow result. AF is undefined and left unchanged.
func SetLogicFlags[T Integer](s *MachineState, result Node[T]) {
	s.SetCF(s.arena.False())
	s.SetOF(s.arena.False())
	setResultFlags(s, result)
}

// AddWithFlags returns lhs + rhs and updates the flags accordingly.
func AddWithFlags[T Integer](s *MachineState, lhs, rhs Node[T]) Node[T] {
	result := Add(s.arena, lhs, rhs)
	SetAddFlags(s, lhs, rhs, result)
	return result
}

// SubWithFlags returns lhs - rhs and updates the flags accordingly.
func SubWithFlags[T Integer](s *MachineState, lhs, rhs Node[T]) Node[T] {
	result := Sub(s.arena, lhs, rhs)
	SetSubFlags(s, lhs, rhs, result)
	return result
}
