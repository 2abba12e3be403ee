package x86sym

import (
	"fmt"
	"sort"
)

// Variable is an opaque handle standing in for an operand value that is not
// known until concretization. Handles are compared by ID alone; keeping them
// unique is the caller's responsibility.
type Variable[T Scalar] struct {
	ID uint32
}

// Variable handles, one per width.
type (
	BoolVar  = Variable[bool]
	ByteVar  = Variable[uint8]
	WordVar  = Variable[uint16]
	DWordVar = Variable[uint32]
	QWordVar = Variable[uint64]
)

// Width returns the bit width of the variable.
func (v Variable[T]) Width() uint { return widthOf[T]() }

// Ref returns the width-independent reference to v.
func (v Variable[T]) Ref() VariableRef {
	return VariableRef{Width: widthOf[T](), ID: v.ID}
}

// String returns the string representation of the variable.
func (v Variable[T]) String() string { return v.Ref().String() }

// VariableRef identifies a variable of any width.
type VariableRef struct {
	Width uint
	ID    uint32
}

// String returns the variable name, prefixed by its width class.
func (r VariableRef) String() string {
	switch r.Width {
	case WidthBool:
		return fmt.Sprintf("c%d", r.ID)
	case Width8:
		return fmt.Sprintf("b%d", r.ID)
	case Width16:
		return fmt.Sprintf("w%d", r.ID)
	case Width32:
		return fmt.Sprintf("d%d", r.ID)
	case Width64:
		return fmt.Sprintf("q%d", r.ID)
	default:
		return fmt.Sprintf("v%d:%d", r.Width, r.ID)
	}
}

// CompareVariableRef returns an integer comparing two references by width then id.
// The result will be 0 if a==b, -1 if a < b, and +1 if a > b.
func CompareVariableRef(a, b VariableRef) int {
	if a.Width < b.Width {
		return -1
	} else if a.Width > b.Width {
		return 1
	}
	if a.ID < b.ID {
		return -1
	} else if a.ID > b.ID {
		return 1
	}
	return 0
}

// Bindings maps variables to the nodes they stand for during one
// concretization pass. A bound node may reference other variables, which are
// resolved through the same bindings.
type Bindings struct {
	m map[VariableRef]Expr
}

// NewBindings returns an empty set of bindings.
func NewBindings() *Bindings {
	return &Bindings{m: make(map[VariableRef]Expr)}
}

// Len returns the number of bound variables.
func (b *Bindings) Len() int { return len(b.m) }

// Refs returns the bound variables, sorted by width then id.
func (b *Bindings) Refs() []VariableRef {
	a := make([]VariableRef, 0, len(b.m))
	for ref := range b.m {
		a = append(a, ref)
	}
	sort.Slice(a, func(i, j int) bool { return CompareVariableRef(a[i], a[j]) == -1 })
	return a
}

// Missing returns the variables reachable from exprs, directly or through
// bound nodes, that have no binding.
func (b *Bindings) Missing(exprs ...Expr) []VariableRef {
	seen := make(map[VariableRef]struct{})
	var missing []VariableRef
	queue := Variables(exprs...)
	for len(queue) > 0 {
		ref := queue[0]
		queue = queue[1:]
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}

		if bound, ok := b.m[ref]; ok {
			queue = append(queue, Variables(bound)...)
		} else {
			missing = append(missing, ref)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return CompareVariableRef(missing[i], missing[j]) == -1 })
	return missing
}

// Bind binds v to value. Panics if v is already bound.
func Bind[T Scalar](b *Bindings, v Variable[T], value Node[T]) {
	assert(value != nil, "bind: nil value for %s", v)
	ref := v.Ref()
	_, ok := b.m[ref]
	assert(!ok, "bind: variable already bound: %s", v)
	b.m[ref] = value
}

// BindConstant binds v to a constant built in a.
func BindConstant[T Scalar](b *Bindings, a *Arena, v Variable[T], value T) {
	Bind[T](b, v, Constant(a, value))
}

// Lookup returns the node bound to v.
func Lookup[T Scalar](b *Bindings, v Variable[T]) (Node[T], bool) {
	e, ok := b.m[v.Ref()]
	if !ok {
		return nil, false
	}
	return e.(Node[T]), true
}
