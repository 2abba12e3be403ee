package x86sym

import (
	"sort"
)

// Walk traverses the expression DAG rooted at expr in pre-order. Each distinct
// node is visited once. If fn returns false, the node's children are skipped.
func Walk(expr Expr, fn func(Expr) bool) {
	seen := make(map[Expr]struct{})
	var walk func(Expr)
	walk = func(e Expr) {
		if _, ok := seen[e]; ok {
			return
		}
		seen[e] = struct{}{}
		if !fn(e) {
			return
		}
		for _, child := range e.Children() {
			walk(child)
		}
	}
	walk(expr)
}

// Variables returns every variable referenced by exprs, sorted by width then id.
func Variables(exprs ...Expr) []VariableRef {
	m := make(map[VariableRef]struct{})
	for _, expr := range exprs {
		Walk(expr, func(e Expr) bool {
			if ref, ok := variableRef(e); ok {
				m[ref] = struct{}{}
			}
			return true
		})
	}

	a := make([]VariableRef, 0, len(m))
	for ref := range m {
		a = append(a, ref)
	}
	sort.Slice(a, func(i, j int) bool { return CompareVariableRef(a[i], a[j]) == -1 })
	return a
}

func variableRef(e Expr) (VariableRef, bool) {
	switch e := e.(type) {
	case *VariableExpr[bool]:
		return e.Var.Ref(), true
	case *VariableExpr[uint8]:
		return e.Var.Ref(), true
	case *VariableExpr[uint16]:
		return e.Var.Ref(), true
	case *VariableExpr[uint32]:
		return e.Var.Ref(), true
	case *VariableExpr[uint64]:
		return e.Var.Ref(), true
	default:
		return VariableRef{}, false
	}
}

// NodeCount returns the number of distinct nodes reachable from expr.
func NodeCount(expr Expr) int {
	var n int
	Walk(expr, func(Expr) bool { n++; return true })
	return n
}
