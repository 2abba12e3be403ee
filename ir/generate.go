package ir

import (
	"bytes"
	"fmt"
	"go/token"
	"strings"

	"github.com/pirocks/x86sym"
	"golang.org/x/tools/imports"
)

// ImportPath is the import path of the node algebra used by generated code.
const ImportPath = "github.com/pirocks/x86sym"

// Generate returns Go source for package pkg declaring a function fn that
// applies prog to a machine state using the x86sym constructors. The
// generated function has the signature:
//
//	func fn(s *x86sym.MachineState)
//
// Widths are resolved while generating, so a program that Generate accepts is
// also accepted by Apply.
func Generate(pkg, fn string, prog *Program) ([]byte, error) {
	if !token.IsIdentifier(pkg) {
		return nil, fmt.Errorf("invalid package name: %q", pkg)
	} else if !token.IsIdentifier(fn) {
		return nil, fmt.Errorf("invalid function name: %q", fn)
	}

	g := &generator{}
	for i, s := range prog.Stmts {
		if err := g.stmt(s); err != nil {
			return nil, fmt.Errorf("stmt %d (%s): %w", i, s.Kind, err)
		}
	}

	var buf bytes.Buffer
	fmt.Fprintln(&buf, "// Code generated by x86sym gen. DO NOT EDIT.")
	fmt.Fprintln(&buf, "")
	fmt.Fprintf(&buf, "package %s\n\n", pkg)
	fmt.Fprintf(&buf, "import %q\n\n", ImportPath)
	if prog.Name != "" {
		fmt.Fprintf(&buf, "// %s applies the semantics of %s to s.\n", fn, prog.Name)
	} else {
		fmt.Fprintf(&buf, "// %s applies the program to s.\n", fn)
	}
	fmt.Fprintf(&buf, "func %s(s *x86sym.MachineState) {\n", fn)
	if g.arena {
		fmt.Fprintln(&buf, "a := s.Arena()")
	}
	buf.Write(g.body.Bytes())
	fmt.Fprintln(&buf, "}")

	src, err := imports.Process(fn+".go", buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("format generated source: %w", err)
	}
	return src, nil
}

// generator accumulates the body of a generated function.
type generator struct {
	body  bytes.Buffer
	arena bool // true if the body references the arena
}

func (g *generator) stmt(s *Stmt) error {
	switch s.Kind {
	case StmtSetReg:
		v, ok := x86sym.ParseView(s.Reg)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownRegister, s.Reg)
		}
		value, err := g.exprWidth(s.Value, v.Width())
		if err != nil {
			return err
		}
		fmt.Fprintf(&g.body, "s.Set%s(%s)\n", accessor(v.String()), value)

	case StmtSetFlag:
		f, ok := x86sym.ParseFlag(s.Flag)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownFlag, s.Flag)
		}
		value, err := g.exprWidth(s.Value, x86sym.WidthBool)
		if err != nil {
			return err
		}
		fmt.Fprintf(&g.body, "s.Set%s(%s)\n", accessor(f.String()), value)

	case StmtStore:
		w, err := Width(s.Value)
		if err != nil {
			return err
		} else if w == x86sym.WidthBool {
			return fmt.Errorf("store: %w: boolean value", ErrWidthMismatch)
		}
		value, err := g.expr(s.Value, w)
		if err != nil {
			return err
		}
		fmt.Fprintf(&g.body, "s.Store%d(%#x, %s)\n", w, s.Addr, value)

	case StmtFlags:
		return g.flags(s)

	case StmtUD:
		fmt.Fprintln(&g.body, "s.UndefinedInstructionException()")

	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, s.Kind)
	}
	return nil
}

func (g *generator) flags(s *Stmt) error {
	switch s.Op {
	case FlagsAdd, FlagsSub:
		if s.LHS == nil || s.RHS == nil {
			return fmt.Errorf("flags %s: %w", s.Op, ErrArity)
		}
		pair := Op(s.Op, s.LHS, s.RHS)
		w, err := Width(pair)
		if err != nil {
			return err
		}
		args, err := g.args(pair.Args, w)
		if err != nil {
			return err
		}
		name := "AddWithFlags"
		if s.Op == FlagsSub {
			name = "SubWithFlags"
		}
		fmt.Fprintf(&g.body, "x86sym.%s(s, %s, %s)\n", name, args[0], args[1])

	case FlagsLogic:
		w, err := Width(s.Value)
		if err != nil {
			return err
		} else if w == x86sym.WidthBool {
			return fmt.Errorf("flags logic: %w: boolean value", ErrWidthMismatch)
		}
		value, err := g.expr(s.Value, w)
		if err != nil {
			return err
		}
		fmt.Fprintf(&g.body, "x86sym.SetLogicFlags(s, %s)\n", value)

	default:
		return fmt.Errorf("flags: %w: op %q", ErrUnknownKind, s.Op)
	}
	return nil
}

// exprWidth returns the code for e, resolving untyped constants to width.
func (g *generator) exprWidth(e *Expr, width uint) (string, error) {
	w, err := resolve(e, width)
	if err != nil {
		return "", err
	} else if w != width {
		return "", fmt.Errorf("%s: %w: got %d bits, want %d", e.Kind, ErrWidthMismatch, w, width)
	}
	return g.expr(e, w)
}

// expr returns the code for e, whose width has already been resolved to w.
// Every expression is typed as one of the node interfaces so generic
// constructors can infer their type arguments.
func (g *generator) expr(e *Expr, w uint) (string, error) {
	switch e.Kind {
	case KindConst:
		g.arena = true
		if w == x86sym.WidthBool {
			return fmt.Sprintf("a.Bool(%v)", e.Value != 0), nil
		}
		return fmt.Sprintf("a.%s(%#x)", nodeType(w), e.Value), nil

	case KindVar:
		g.arena = true
		return fmt.Sprintf("x86sym.%s(x86sym.NewVariable(a, x86sym.%sVar{ID: %d}))", nodeType(w), nodeType(w), e.ID), nil

	case KindReg:
		v, _ := x86sym.ParseView(e.Name)
		return fmt.Sprintf("s.%s()", accessor(v.String())), nil

	case KindFlag:
		f, _ := x86sym.ParseFlag(e.Name)
		return fmt.Sprintf("s.%s()", accessor(f.String())), nil

	case KindMem:
		return fmt.Sprintf("s.Load%d(%#x)", w, e.Addr), nil

	case KindAdd, KindSub, KindMul, KindAnd, KindOr, KindXor, KindShl, KindLshr:
		args, err := g.args(e.Args, w)
		if err != nil {
			return "", err
		}
		return g.call(binaryFuncs[e.Kind][w == x86sym.WidthBool], args...), nil

	case KindNot:
		args, err := g.args(e.Args, w)
		if err != nil {
			return "", err
		}
		name := "Not"
		if w == x86sym.WidthBool {
			name = "BoolNot"
		}
		return g.call(name, args...), nil

	case KindLT, KindGT, KindEQ:
		ow, err := operandWidth(e, e.Args, 0)
		if err != nil {
			return "", err
		}
		args, err := g.args(e.Args, ow)
		if err != nil {
			return "", err
		}
		return g.call(compareFuncs[e.Kind], args...), nil

	case KindIte:
		cond, err := g.expr(e.Args[0], x86sym.WidthBool)
		if err != nil {
			return "", err
		}
		args, err := g.args(e.Args[1:], w)
		if err != nil {
			return "", err
		}
		return g.call("IfElse", cond, args[0], args[1]), nil

	case KindExtract:
		sw, err := Width(e.Args[0])
		if err != nil {
			return "", err
		}
		src, err := g.expr(e.Args[0], sw)
		if err != nil {
			return "", err
		}
		step, err := extractPlan(sw, e.Lo, e.Hi)
		if err != nil {
			return "", err
		}
		switch step {
		case extractIdentity:
			return src, nil
		case extractBit:
			return g.call("Bit", src, fmt.Sprint(e.Lo)), nil
		case extractByte:
			return g.call("ExtractByte", g.widen(src, sw), fmt.Sprint(e.Lo/8)), nil
		case extractWord:
			return g.call("TruncateToWord", g.widen(src, sw)), nil
		default:
			return g.call("TruncateToDWord", g.widen(src, sw)), nil
		}

	case KindZext:
		sw, err := Width(e.Args[0])
		if err != nil {
			return "", err
		}
		src, err := g.expr(e.Args[0], sw)
		if err != nil {
			return "", err
		}
		switch {
		case sw == w:
			return src, nil
		case sw == x86sym.WidthBool:
			return g.call(fmt.Sprintf("BoolToInt[%s]", scalarType(w)), src), nil
		default:
			return g.call(fmt.Sprintf("ZeroExtend[%s, %s]", scalarType(sw), scalarType(w)), src), nil
		}

	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, e.Kind)
	}
}

func (g *generator) args(args []*Expr, w uint) ([]string, error) {
	other := make([]string, len(args))
	for i, arg := range args {
		code, err := g.expr(arg, w)
		if err != nil {
			return nil, err
		}
		other[i] = code
	}
	return other, nil
}

// call returns a call of a root package constructor taking the arena first.
func (g *generator) call(name string, args ...string) string {
	g.arena = true
	return fmt.Sprintf("x86sym.%s(a, %s)", name, strings.Join(args, ", "))
}

// widen returns code zero-extending a src-bit integer to 64 bits.
func (g *generator) widen(src string, w uint) string {
	if w == x86sym.Width64 {
		return src
	}
	return g.call(fmt.Sprintf("ZeroExtend[%s, uint64]", scalarType(w)), src)
}

// binaryFuncs holds the integer and boolean constructor for each operation.
var binaryFuncs = map[string]map[bool]string{
	KindAdd:  {false: "Add"},
	KindSub:  {false: "Sub"},
	KindMul:  {false: "Mul"},
	KindAnd:  {false: "And", true: "BoolAnd"},
	KindOr:   {false: "Or", true: "BoolOr"},
	KindXor:  {false: "Xor", true: "BoolXor"},
	KindShl:  {false: "Shl"},
	KindLshr: {false: "Lshr"},
}

var compareFuncs = map[string]string{
	KindLT: "Less",
	KindGT: "Greater",
	KindEQ: "Equal",
}

// accessor returns the MachineState method name for a view or flag.
func accessor(name string) string { return strings.ToUpper(name) }

// nodeType returns the node interface name for width w.
func nodeType(w uint) string {
	switch w {
	case x86sym.WidthBool:
		return "Bool"
	case x86sym.Width8:
		return "Byte"
	case x86sym.Width16:
		return "Word"
	case x86sym.Width32:
		return "DWord"
	default:
		return "QWord"
	}
}

// scalarType returns the Go type a node of width w evaluates to.
func scalarType(w uint) string {
	if w == x86sym.WidthBool {
		return "bool"
	}
	return fmt.Sprintf("uint%d", w)
}
