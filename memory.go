package x86sym

import (
	"bytes"
	"fmt"
	"math"
	"sort"

	"github.com/benbjohnson/immutable"
)

// MemorySpace is a symbolic byte-addressable store. It maps disjoint,
// inclusive address ranges to a single byte node shared by every byte of the
// range. Bytes that were never written read as the constant zero.
//
// A MemorySpace is persistent: writes return a new MemorySpace and leave the
// receiver unchanged, so earlier versions stay valid for their readers.
type MemorySpace struct {
	arena  *Arena
	ranges *immutable.SortedMap // range start -> *MemoryRange
}

// MemoryRange is a run of bytes holding the same value.
type MemoryRange struct {
	Start uint64 // first address, inclusive
	End   uint64 // last address, inclusive
	Value Byte
}

// String returns the string representation of the range.
func (r *MemoryRange) String() string {
	return fmt.Sprintf("[%#x, %#x] %s", r.Start, r.End, r.Value)
}

// NewMemorySpace returns a memory space where every byte is zero.
func NewMemorySpace(a *Arena) *MemorySpace {
	assert(a != nil && !a.released, "memory: invalid arena")
	m := &MemorySpace{
		arena:  a,
		ranges: immutable.NewSortedMap(&uint64Comparer{}),
	}
	m.ranges = m.ranges.Set(uint64(0), &MemoryRange{Start: 0, End: math.MaxUint64, Value: a.zeroByte})
	return m
}

// Arena returns the arena that owns the memory's nodes.
func (m *MemorySpace) Arena() *Arena { return m.arena }

// Len returns the number of ranges.
func (m *MemorySpace) Len() int { return m.ranges.Len() }

// Ranges returns all ranges in address order.
func (m *MemorySpace) Ranges() []*MemoryRange {
	a := make([]*MemoryRange, 0, m.ranges.Len())
	itr := m.ranges.Iterator()
	for !itr.Done() {
		_, v := itr.Next()
		a = append(a, v.(*MemoryRange))
	}
	return a
}

// find returns the range containing addr.
func (m *MemorySpace) find(addr uint64) *MemoryRange {
	// Seek to the given address or the next range start.
	itr := m.ranges.Iterator()
	if itr.Seek(addr); itr.Done() {
		itr.Last()
	}

	// Move backwards until a range covers the address.
	for !itr.Done() {
		_, v := itr.Prev()
		r := v.(*MemoryRange)
		if addr >= r.Start && addr <= r.End {
			return r
		} else if addr > r.End {
			break
		}
	}
	panic(fmt.Sprintf("memory: no range covers address %#x", addr))
}

// Read8 returns the byte at addr.
func (m *MemorySpace) Read8(addr uint64) Byte {
	return m.find(addr).Value
}

// Write8 returns a copy of the memory with the byte at addr set to value.
// The covering range is split so no two ranges overlap.
func (m *MemorySpace) Write8(addr uint64, value Byte) *MemorySpace {
	assert(value != nil, "memory: nil value")
	assert(value.Arena() == m.arena, "memory: cannot mix nodes of different arenas: %s", value)

	r := m.find(addr)
	ranges := m.ranges
	if r.Start < addr {
		ranges = ranges.Set(r.Start, &MemoryRange{Start: r.Start, End: addr - 1, Value: r.Value})
	}
	ranges = ranges.Set(addr, &MemoryRange{Start: addr, End: addr, Value: value})
	if addr < r.End {
		ranges = ranges.Set(addr+1, &MemoryRange{Start: addr + 1, End: r.End, Value: r.Value})
	}
	return &MemorySpace{arena: m.arena, ranges: ranges}
}

// readN composes n little-endian bytes starting at addr into a 64-bit value.
// Addresses wrap around the top of the address space.
func (m *MemorySpace) readN(addr uint64, n uint) QWord {
	a := m.arena
	var result QWord
	for i := uint(0); i < n; i++ {
		value := ZeroExtend[uint8, uint64](a, m.Read8(addr+uint64(i)))
		if i == 0 {
			result = value
		} else {
			result = Or(a, result, Shl(a, value, a.QWord(uint64(i*8))))
		}
	}
	return result
}

// writeN stores the low n bytes of value starting at addr, little-endian.
func (m *MemorySpace) writeN(addr uint64, n uint, value QWord) *MemorySpace {
	other := m
	for i := uint(0); i < n; i++ {
		other = other.Write8(addr+uint64(i), ExtractByte(m.arena, value, i))
	}
	return other
}

// Read16 returns the little-endian word at addr.
func (m *MemorySpace) Read16(addr uint64) Word {
	return TruncateToWord(m.arena, m.readN(addr, 2))
}

// Read32 returns the little-endian double word at addr.
func (m *MemorySpace) Read32(addr uint64) DWord {
	return TruncateToDWord(m.arena, m.readN(addr, 4))
}

// Read64 returns the little-endian quad word at addr.
func (m *MemorySpace) Read64(addr uint64) QWord {
	return m.readN(addr, 8)
}

// Write16 returns a copy of the memory with the word at addr set to value.
func (m *MemorySpace) Write16(addr uint64, value Word) *MemorySpace {
	return m.writeN(addr, 2, ZeroExtend[uint16, uint64](m.arena, value))
}

// Write32 returns a copy of the memory with the double word at addr set to value.
func (m *MemorySpace) Write32(addr uint64, value DWord) *MemorySpace {
	return m.writeN(addr, 4, ZeroExtend[uint32, uint64](m.arena, value))
}

// Write64 returns a copy of the memory with the quad word at addr set to value.
func (m *MemorySpace) Write64(addr uint64, value QWord) *MemorySpace {
	return m.writeN(addr, 8, value)
}

// Concretize evaluates every range against b.
func (m *MemorySpace) Concretize(b *Bindings) *ConcreteMemorySpace {
	return m.concretize(newEvaluator(b))
}

func (m *MemorySpace) concretize(ev *evaluator) *ConcreteMemorySpace {
	assert(!m.arena.released, "memory: concretize after arena release")

	var zero Byte = m.arena.zeroByte
	other := &ConcreteMemorySpace{}
	itr := m.ranges.Iterator()
	for !itr.Done() {
		_, v := itr.Next()
		r := v.(*MemoryRange)

		// Untouched bytes are zero without visiting an expression.
		var value uint8
		if r.Value != zero {
			value = evalNode(ev, r.Value)
		}

		// Merge with the previous range if the values match.
		if n := len(other.Ranges); n > 0 && other.Ranges[n-1].Value == value && other.Ranges[n-1].End+1 == r.Start {
			other.Ranges[n-1].End = r.End
			continue
		}
		other.Ranges = append(other.Ranges, ConcreteMemoryRange{Start: r.Start, End: r.End, Value: value})
	}
	return other
}

// Dump returns the ranges of the memory as a string.
func (m *MemorySpace) Dump() string {
	var buf bytes.Buffer
	for _, r := range m.Ranges() {
		fmt.Fprintln(&buf, r.String())
	}
	return buf.String()
}

// ConcreteMemorySpace is the evaluated form of a MemorySpace. Adjacent ranges
// holding the same byte are merged.
type ConcreteMemorySpace struct {
	Ranges []ConcreteMemoryRange
}

// ConcreteMemoryRange is a run of bytes holding the same concrete value.
type ConcreteMemoryRange struct {
	Start uint64
	End   uint64
	Value uint8
}

// Read returns the byte at addr.
func (m *ConcreteMemorySpace) Read(addr uint64) uint8 {
	i := sort.Search(len(m.Ranges), func(i int) bool { return m.Ranges[i].Start > addr }) - 1
	assert(i >= 0 && addr <= m.Ranges[i].End, "memory: no range covers address %#x", addr)
	return m.Ranges[i].Value
}

// Read64 returns the little-endian quad word at addr.
func (m *ConcreteMemorySpace) Read64(addr uint64) uint64 {
	var v uint64
	for i := uint64(0); i < 8; i++ {
		v |= uint64(m.Read(addr+i)) << (i * 8)
	}
	return v
}

// uint64Comparer compares two 64-bit unsigned integers. Implements immutable.Comparer.
type uint64Comparer struct{}

// Compare returns -1 if a is less than b, returns 1 if a is greater than b, and
// returns 0 if a is equal to b. Panic if a or b is not an uint64.
func (c *uint64Comparer) Compare(a, b interface{}) int {
	if i, j := a.(uint64), b.(uint64); i < j {
		return -1
	} else if i > j {
		return 1
	}
	return 0
}
