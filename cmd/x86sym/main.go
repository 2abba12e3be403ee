package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the x86sym program and its standard streams.
type Main struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Verbose bool
	Logger  *slog.Logger
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	m := &Main{Stdin: stdin, Stdout: stdout, Stderr: stderr}

	root := m.rootCommand()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func (m *Main) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "x86sym",
		Short: "Symbolic x86 machine state tool",
		Long: `x86sym applies instruction semantics, written as typed expression programs,
to a symbolic x86 machine state and evaluates the result.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if m.Verbose {
				level = slog.LevelDebug
			}
			m.Logger = slog.New(slog.NewTextHandler(m.Stderr, &slog.HandlerOptions{Level: level}))
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().BoolVarP(&m.Verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(
		NewEvalCommand(m).Command(),
		NewGenCommand(m).Command(),
		NewRegsCommand(m).Command(),
	)
	return root
}

// openInput opens path for reading. "-" reads from stdin.
func (m *Main) openInput(path string) (io.ReadCloser, error) {
	if path == "" {
		return nil, fmt.Errorf("program path required")
	} else if path == "-" {
		return io.NopCloser(m.Stdin), nil
	}
	return os.Open(path)
}
