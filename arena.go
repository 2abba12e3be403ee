package x86sym

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Arena owns every node built for one symbolic computation. Nodes are never
// freed individually; the whole arena is released at once.
//
// Nodes are hash-consed: building a node that is structurally identical to an
// existing node of the same arena returns the existing node, so common
// sub-expressions are shared.
//
// An Arena is not safe for concurrent construction. Nodes it has already built
// are immutable and may be concretized from many goroutines.
type Arena struct {
	nodes    []Expr
	index    map[uint64][]internEntry
	released bool

	zeroByte *ConstantExpr[uint8]
}

type internEntry struct {
	key  string
	expr Expr
}

// NewArena returns a new, empty arena.
func NewArena() *Arena {
	a := &Arena{index: make(map[uint64][]internEntry)}
	a.zeroByte = Constant[uint8](a, 0)
	return a
}

// Len returns the number of distinct nodes owned by the arena.
func (a *Arena) Len() int { return len(a.nodes) }

// Released returns true if the arena has been released.
func (a *Arena) Released() bool { return a.released }

// Release drops every node owned by the arena. Building on the arena or
// concretizing one of its nodes afterward panics.
func (a *Arena) Release() {
	a.released = true
	a.nodes, a.index, a.zeroByte = nil, nil, nil
}

// True returns the boolean constant true.
func (a *Arena) True() Bool { return Constant(a, true) }

// False returns the boolean constant false.
func (a *Arena) False() Bool { return Constant(a, false) }

// Bool returns a boolean constant.
func (a *Arena) Bool(v bool) Bool { return Constant(a, v) }

// Byte returns an 8-bit constant.
func (a *Arena) Byte(v uint8) Byte { return Constant(a, v) }

// Word returns a 16-bit constant.
func (a *Arena) Word(v uint16) Word { return Constant(a, v) }

// DWord returns a 32-bit constant.
func (a *Arena) DWord(v uint32) DWord { return Constant(a, v) }

// QWord returns a 64-bit constant.
func (a *Arena) QWord(v uint64) QWord { return Constant(a, v) }

// node is embedded in every expression node.
type node struct {
	arena *Arena
	id    uint64
}

// Arena returns the arena that owns the node.
func (n *node) Arena() *Arena { return n.arena }

// ID returns the node's identifier, unique within its arena.
func (n *node) ID() uint64 { return n.id }

// nodeKind tags the structural key of each node type.
type nodeKind byte

const (
	kindConst nodeKind = iota + 1
	kindVar
	kindBinary
	kindNot
	kindLogic
	kindBoolNot
	kindIfElse
	kindCompare
	kindExtractByte
	kindTruncateWord
	kindTruncateDWord
	kindZeroExtend
	kindWriteLowBits
	kindInsertByte
	kindBit
	kindBoolToInt
)

// key accumulates the structural identity of a node under construction.
type key struct {
	arena *Arena
	buf   []byte
}

func newKey(a *Arena, kind nodeKind, width uint) *key {
	assert(a != nil, "arena: nil arena")
	assert(!a.released, "arena: build on released arena")
	k := &key{arena: a, buf: make([]byte, 2, 32)}
	k.buf[0], k.buf[1] = byte(kind), byte(width)
	return k
}

// u64 appends a literal to the key.
func (k *key) u64(v uint64) *key {
	k.buf = binary.LittleEndian.AppendUint64(k.buf, v)
	return k
}

// child appends a child reference to the key. Children must belong to the
// arena the node is being built in.
func (k *key) child(e Expr) *key {
	assert(e != nil, "arena: nil child")
	assert(e.Arena() == k.arena, "arena: cannot mix nodes of different arenas: %s", e)
	return k.u64(e.ID())
}

// intern returns the node identified by k, building it on first use.
func intern[N Expr](k *key, build func(n node) N) N {
	a := k.arena
	h := xxhash.Sum64(k.buf)
	for _, ent := range a.index[h] {
		if ent.key == string(k.buf) {
			return ent.expr.(N)
		}
	}

	n := build(node{arena: a, id: uint64(len(a.nodes))})
	a.nodes = append(a.nodes, n)
	a.index[h] = append(a.index[h], internEntry{key: string(k.buf), expr: n})
	return n
}
