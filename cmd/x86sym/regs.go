package main

import (
	"encoding/hex"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/pirocks/x86sym"
	"github.com/spf13/cobra"
	"golang.org/x/arch/x86/x86asm"
)

// RegsCommand decodes one instruction and reports how its register operands
// map onto the machine state.
type RegsCommand struct {
	m *Main

	mode int
}

// NewRegsCommand returns a new instance of RegsCommand.
func NewRegsCommand(m *Main) *RegsCommand {
	return &RegsCommand{m: m}
}

// Command returns the cobra command for "regs".
func (c *RegsCommand) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regs HEX",
		Short: "Decode an instruction and list its register views",
		Long: `Regs decodes one instruction from hex bytes and prints, for every general
register it names, the view, the backing 64-bit register, the view width, and
how a write through the view affects the backing register.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run(args[0])
		},
	}
	cmd.Flags().IntVar(&c.mode, "mode", 64, "Decoder mode in bits: 16, 32 or 64")
	return cmd
}

// Run executes the "regs" subcommand.
func (c *RegsCommand) Run(s string) error {
	if c.mode != 16 && c.mode != 32 && c.mode != 64 {
		return fmt.Errorf("invalid mode: %d", c.mode)
	}

	code, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		return fmt.Errorf("decode hex: %w", err)
	}

	inst, err := x86asm.Decode(code, c.mode)
	if err != nil {
		return fmt.Errorf("decode instruction: %w", err)
	}
	c.m.Logger.Debug("[decode] instruction", "op", inst.Op, "len", inst.Len)

	fmt.Fprintln(c.m.Stdout, x86asm.IntelSyntax(inst, 0, nil))

	w := tabwriter.NewWriter(c.m.Stdout, 0, 8, 1, ' ', 0)
	for i, arg := range inst.Args {
		if arg == nil {
			break
		}
		switch arg := arg.(type) {
		case x86asm.Reg:
			c.printReg(w, fmt.Sprintf("arg%d", i), arg)
		case x86asm.Mem:
			if arg.Base != 0 {
				c.printReg(w, fmt.Sprintf("arg%d.base", i), arg.Base)
			}
			if arg.Index != 0 {
				c.printReg(w, fmt.Sprintf("arg%d.index", i), arg.Index)
			}
		}
	}
	return w.Flush()
}

func (c *RegsCommand) printReg(w *tabwriter.Writer, label string, reg x86asm.Reg) {
	v, ok := x86sym.ViewOf(reg)
	if !ok {
		c.m.Logger.Debug("[decode] not a general register", "operand", label, "reg", reg)
		fmt.Fprintf(w, "%s\t%s\t-\t-\tnot modeled\n", label, strings.ToLower(reg.String()))
		return
	}
	fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", label, v, v.Reg, v.Width(), v.Kind.WriteRule())
}
