package main

import (
	"os"

	"github.com/pirocks/x86sym/ir"
	"github.com/spf13/cobra"
)

// GenCommand emits Go source that builds a program with the x86sym constructors.
type GenCommand struct {
	m *Main

	program string
	pkg     string
	fn      string
	output  string
}

// NewGenCommand returns a new instance of GenCommand.
func NewGenCommand(m *Main) *GenCommand {
	return &GenCommand{m: m}
}

// Command returns the cobra command for "gen".
func (c *GenCommand) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate Go source for a program",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run()
		},
	}
	cmd.Flags().StringVarP(&c.program, "program", "p", "", "IR program file (- for stdin)")
	cmd.Flags().StringVar(&c.pkg, "package", "semantics", "Package name of the generated file")
	cmd.Flags().StringVar(&c.fn, "func", "Apply", "Name of the generated function")
	cmd.Flags().StringVarP(&c.output, "output", "o", "", "Output file (default stdout)")
	return cmd
}

// Run executes the "gen" subcommand.
func (c *GenCommand) Run() error {
	f, err := c.m.openInput(c.program)
	if err != nil {
		return err
	}
	defer f.Close()

	prog, err := ir.Decode(f)
	if err != nil {
		return err
	}

	src, err := ir.Generate(c.pkg, c.fn, prog)
	if err != nil {
		return err
	}
	c.m.Logger.Debug("[gen] generated", "func", c.fn, "bytes", len(src))

	if c.output == "" {
		_, err = c.m.Stdout.Write(src)
		return err
	}
	return os.WriteFile(c.output, src, 0o666)
}
