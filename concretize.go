package x86sym

import (
	"fmt"
)

// Concretize evaluates n against bindings and returns its value. Panics if n
// references a variable with no binding: a partial binding is a bug in the
// caller, not a recoverable condition.
func Concretize[T Scalar](n Node[T], b *Bindings) T {
	return evalNode(newEvaluator(b), n)
}

// evaluator holds the state of one concretization pass.
type evaluator struct {
	bindings *Bindings
	cache    map[Expr]any
	active   map[VariableRef]struct{}
}

func newEvaluator(b *Bindings) *evaluator {
	if b == nil {
		b = NewBindings()
	}
	return &evaluator{
		bindings: b,
		cache:    make(map[Expr]any),
		active:   make(map[VariableRef]struct{}),
	}
}

// evalNode evaluates n once per pass; shared nodes reuse the first result.
func evalNode[T Scalar](ev *evaluator, n Node[T]) T {
	if v, ok := ev.cache[n]; ok {
		return v.(T)
	}
	if a := n.Arena(); a == nil || a.released {
		panic(fmt.Sprintf("x86sym: node #%d evaluated after its arena was released", n.ID()))
	}

	v := n.eval(ev)
	ev.cache[n] = v
	return v
}

// evalVariable resolves v through the bindings.
func evalVariable[T Scalar](ev *evaluator, v Variable[T]) T {
	bound, ok := Lookup(ev.bindings, v)
	if !ok {
		panic(fmt.Sprintf("x86sym: unbound variable: %s", v))
	}

	ref := v.Ref()
	if _, ok := ev.active[ref]; ok {
		panic(fmt.Sprintf("x86sym: cyclic binding: %s", v))
	}
	ev.active[ref] = struct{}{}
	defer delete(ev.active, ref)

	return evalNode(ev, bound)
}
