package main

import (
	"fmt"
	"strings"

	"github.com/pirocks/x86sym"
	"github.com/xlab/treeprint"
)

// exprTree renders the DAG rooted at e as a tree. A node reached a second
// time is printed as a reference to its id instead of being expanded again.
func exprTree(name string, e x86sym.Expr) treeprint.Tree {
	tree := treeprint.NewWithRoot(name)
	seen := make(map[x86sym.Expr]struct{})
	addExprNode(tree, e, seen)
	return tree
}

func addExprNode(tree treeprint.Tree, e x86sym.Expr, seen map[x86sym.Expr]struct{}) {
	children := e.Children()
	if len(children) == 0 {
		tree.AddNode(e.String())
		return
	}

	if _, ok := seen[e]; ok {
		tree.AddNode(fmt.Sprintf("#%d", e.ID()))
		return
	}
	seen[e] = struct{}{}

	branch := tree.AddBranch(fmt.Sprintf("#%d %s", e.ID(), exprOp(e)))
	for _, child := range children {
		addExprNode(branch, child, seen)
	}
}

// exprOp returns the operator of a non-leaf node, e.g. "add" for "(add x y)".
func exprOp(e x86sym.Expr) string {
	s := strings.TrimPrefix(e.String(), "(")
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	return fmt.Sprintf("%s:%d", s, e.Width())
}
