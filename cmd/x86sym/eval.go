package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pirocks/x86sym"
	"github.com/pirocks/x86sym/ir"
	"github.com/spf13/cobra"
)

// EvalCommand applies a program to a zeroed machine state and prints the
// concretized result.
type EvalCommand struct {
	m *Main

	program string
	mode    string
	vars    []string
	cases   string
	dump    bool
	trees   []string
}

// NewEvalCommand returns a new instance of EvalCommand.
func NewEvalCommand(m *Main) *EvalCommand {
	return &EvalCommand{m: m}
}

// Command returns the cobra command for "eval".
func (c *EvalCommand) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Apply a program and print the concretized state",
		Long: `Eval applies an IR program to a zeroed machine state and concretizes the
result. Variables are bound with --var WIDTH:ID=VALUE, e.g. --var 64:0=0x10.

With --cases, the state is concretized once per binding set. The file holds a
JSON array of objects mapping "WIDTH:ID" to a value.

With --tree, the symbolic expression of each named register view is printed
before concretization.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run(cmd)
		},
	}
	cmd.Flags().StringVarP(&c.program, "program", "p", "", "IR program file (- for stdin)")
	cmd.Flags().StringVar(&c.mode, "mode", x86sym.ModeLong64.String(), "CPU mode: real, protected or long64")
	cmd.Flags().StringArrayVar(&c.vars, "var", nil, "Variable binding WIDTH:ID=VALUE (repeatable)")
	cmd.Flags().StringVar(&c.cases, "cases", "", "JSON file of binding sets to concretize in parallel")
	cmd.Flags().BoolVar(&c.dump, "dump", false, "Print the full state including memory")
	cmd.Flags().StringArrayVar(&c.trees, "tree", nil, "Print the symbolic expression of a register view, e.g. eax (repeatable)")
	return cmd
}

// Run executes the "eval" subcommand.
func (c *EvalCommand) Run(cmd *cobra.Command) error {
	mode, err := x86sym.ParseMode(c.mode)
	if err != nil {
		return err
	}

	prog, err := c.readProgram()
	if err != nil {
		return err
	}

	a := x86sym.NewArena()
	defer a.Release()

	state := x86sym.NewMachineState(a, mode)
	if err := ir.Apply(a, state, prog); err != nil {
		return fmt.Errorf("apply %s: %w", c.program, err)
	}
	c.m.Logger.Debug("[eval] program applied", "stmts", len(prog.Stmts), "nodes", a.Len())

	for _, name := range c.trees {
		v, ok := x86sym.ParseView(name)
		if !ok {
			return fmt.Errorf("unknown register: %q", name)
		}
		fmt.Fprint(c.m.Stdout, exprTree(v.String(), state.View(v)).String())
	}

	sets := [][]string{c.vars}
	if c.cases != "" {
		if sets, err = readCases(c.cases); err != nil {
			return err
		}
	}

	bindings := make([]*x86sym.Bindings, len(sets))
	for i, set := range sets {
		if bindings[i], err = parseBindings(a, set); err != nil {
			return err
		}
		if missing := missingVariables(state, bindings[i]); len(missing) > 0 {
			return fmt.Errorf("unbound variables: %s", joinRefs(missing))
		}
	}

	results, err := state.ConcretizeEach(cmd.Context(), bindings)
	if err != nil {
		return err
	}
	c.m.Logger.Debug("[eval] concretized", "cases", len(results))

	for i, result := range results {
		if len(results) > 1 {
			fmt.Fprintf(c.m.Stdout, "== case %d\n", i)
		}
		if c.dump {
			fmt.Fprint(c.m.Stdout, result.Dump())
		} else {
			fmt.Fprint(c.m.Stdout, result.String())
		}
	}
	return nil
}

func (c *EvalCommand) readProgram() (*ir.Program, error) {
	f, err := c.m.openInput(c.program)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ir.Decode(f)
}

// readCases reads a JSON array of binding sets from path.
func readCases(path string) ([][]string, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cases []map[string]string
	if err := json.Unmarshal(buf, &cases); err != nil {
		return nil, fmt.Errorf("decode cases: %w", err)
	}

	sets := make([][]string, len(cases))
	for i, m := range cases {
		for k, v := range m {
			sets[i] = append(sets[i], k+"="+v)
		}
	}
	return sets, nil
}

// parseBindings parses WIDTH:ID=VALUE bindings into constants built in a.
func parseBindings(a *x86sym.Arena, vars []string) (*x86sym.Bindings, error) {
	b := x86sym.NewBindings()
	seen := make(map[x86sym.VariableRef]struct{})
	for _, s := range vars {
		ref, value, err := parseBinding(s)
		if err != nil {
			return nil, err
		} else if _, ok := seen[ref]; ok {
			return nil, fmt.Errorf("variable bound twice: %s", ref)
		}
		seen[ref] = struct{}{}
		x86sym.BindRef(b, ref, x86sym.ConstantOf(a, ref.Width, value))
	}
	return b, nil
}

func parseBinding(s string) (ref x86sym.VariableRef, value uint64, err error) {
	name, v, ok := strings.Cut(s, "=")
	if !ok {
		return ref, 0, fmt.Errorf("invalid binding %q: expected WIDTH:ID=VALUE", s)
	}
	w, id, ok := strings.Cut(name, ":")
	if !ok {
		return ref, 0, fmt.Errorf("invalid binding %q: expected WIDTH:ID=VALUE", s)
	}

	width, err := strconv.ParseUint(w, 10, 8)
	if err != nil || !x86sym.ValidWidth(uint(width)) {
		return ref, 0, fmt.Errorf("invalid binding %q: bad width %q", s, w)
	}
	n, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		return ref, 0, fmt.Errorf("invalid binding %q: bad id %q", s, id)
	}
	if value, err = strconv.ParseUint(v, 0, int(width)); err != nil {
		return ref, 0, fmt.Errorf("invalid binding %q: %w", s, err)
	}
	return x86sym.VariableRef{Width: uint(width), ID: uint32(n)}, value, nil
}

// missingVariables returns the variables the state references without a binding.
func missingVariables(state *x86sym.MachineState, b *x86sym.Bindings) []x86sym.VariableRef {
	var exprs []x86sym.Expr
	for r := x86sym.Register(0); int(r) < x86sym.NumRegisters; r++ {
		exprs = append(exprs, state.Reg64(r))
	}
	for f := x86sym.Flag(0); int(f) < x86sym.NumFlags; f++ {
		exprs = append(exprs, state.Flag(f))
	}
	for _, r := range state.Memory().Ranges() {
		exprs = append(exprs, r.Value)
	}
	return b.Missing(exprs...)
}

func joinRefs(refs []x86sym.VariableRef) string {
	a := make([]string, len(refs))
	for i, ref := range refs {
		a[i] = ref.String()
	}
	return strings.Join(a, ", ")
}
