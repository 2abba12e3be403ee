package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// MustWriteFile writes data to a file in a temporary directory and returns its path.
func MustWriteFile(tb testing.TB, name, data string) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), name)
	require.NoError(tb, os.WriteFile(path, []byte(data), 0o666))
	return path
}

// runCommand executes the program with args and returns stdout.
func runCommand(tb testing.TB, stdin string, args ...string) (string, error) {
	tb.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), err
}

const addProgram = `{
	"name": "add rax, rbx",
	"stmts": [
		{"kind": "set_reg", "reg": "rbx", "value": {"kind": "var", "width": 64, "id": 1}},
		{"kind": "flags", "op": "add", "lhs": {"kind": "reg", "name": "rax"}, "rhs": {"kind": "reg", "name": "rbx"}},
		{"kind": "set_reg", "reg": "rax", "value": {"kind": "add", "args": [{"kind": "reg", "name": "rax"}, {"kind": "reg", "name": "rbx"}]}},
		{"kind": "store", "addr": 4096, "value": {"kind": "reg", "name": "eax"}}
	]
}`

func TestEval(t *testing.T) {
	path := MustWriteFile(t, "add.json", addProgram)

	t.Run("OK", func(t *testing.T) {
		out, err := runCommand(t, "", "eval", "--program", path, "--var", "64:1=0x10")
		require.NoError(t, err)
		require.Contains(t, out, fmt.Sprintf("%-4s %#016x\n", "rax", uint64(0x10)))
		require.Contains(t, out, fmt.Sprintf("%-4s %#016x\n", "rbx", uint64(0x10)))
		require.Contains(t, out, "cf   false\n")
		require.Contains(t, out, "zf   false\n")
	})

	t.Run("Stdin", func(t *testing.T) {
		out, err := runCommand(t, addProgram, "eval", "--program", "-", "--var", "64:1=0", "--mode", "protected")
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(out, "mode=protected pending=false\n"))
		require.Contains(t, out, "zf   true\n")
	})

	t.Run("Dump", func(t *testing.T) {
		out, err := runCommand(t, "", "eval", "--program", path, "--var", "64:1=0x01020304", "--dump")
		require.NoError(t, err)
		require.Contains(t, out, "Memory:")
		require.Contains(t, out, "Start: (uint64) 4096")
	})

	t.Run("Cases", func(t *testing.T) {
		cases := MustWriteFile(t, "cases.json", `[{"64:1": "1"}, {"64:1": "0xffffffffffffffff"}]`)
		out, err := runCommand(t, "", "eval", "--program", path, "--cases", cases)
		require.NoError(t, err)
		require.Contains(t, out, "== case 0\n")
		require.Contains(t, out, "== case 1\n")
		require.Contains(t, out, fmt.Sprintf("%-4s %#016x\n", "rbx", uint64(0xffffffffffffffff)))
	})

	t.Run("Tree", func(t *testing.T) {
		out, err := runCommand(t, "", "eval", "--program", path, "--var", "64:1=1", "--tree", "EAX")
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(out, "eax\n"))
		require.Contains(t, out, " trunc32:32\n")
		require.Contains(t, out, " add:64\n")
		require.Contains(t, out, "(var q1)\n")

		_, err = runCommand(t, "", "eval", "--program", path, "--var", "64:1=1", "--tree", "xmm0")
		require.EqualError(t, err, `unknown register: "xmm0"`)
	})

	t.Run("ErrUnbound", func(t *testing.T) {
		_, err := runCommand(t, "", "eval", "--program", path)
		require.EqualError(t, err, "unbound variables: q1")
	})

	t.Run("ErrBinding", func(t *testing.T) {
		_, err := runCommand(t, "", "eval", "--program", path, "--var", "8:1=0x100")
		require.ErrorContains(t, err, `invalid binding "8:1=0x100"`)

		_, err = runCommand(t, "", "eval", "--program", path, "--var", "12:1=1")
		require.ErrorContains(t, err, "bad width")

		_, err = runCommand(t, "", "eval", "--program", path, "--var", "64:1=1", "--var", "64:1=2")
		require.ErrorContains(t, err, "variable bound twice: q1")
	})

	t.Run("ErrMode", func(t *testing.T) {
		_, err := runCommand(t, "", "eval", "--program", path, "--mode", "v86")
		require.ErrorContains(t, err, "unknown cpu mode")
	})

	t.Run("ErrProgram", func(t *testing.T) {
		bad := MustWriteFile(t, "bad.json", `{"stmts": [{"kind": "set_reg", "reg": "eax", "value": {"kind": "reg", "name": "rax"}}]}`)
		_, err := runCommand(t, "", "eval", "--program", bad)
		require.ErrorContains(t, err, "stmt 0 (set_reg)")
	})
}

func TestGen(t *testing.T) {
	path := MustWriteFile(t, "add.json", addProgram)

	t.Run("Stdout", func(t *testing.T) {
		out, err := runCommand(t, "", "gen", "--program", path, "--package", "x86", "--func", "AddRAXRBX")
		require.NoError(t, err)
		require.Contains(t, out, "package x86\n")
		require.Contains(t, out, "func AddRAXRBX(s *x86sym.MachineState) {\n")
		require.Contains(t, out, "\tx86sym.AddWithFlags(s, s.RAX(), s.RBX())\n")
		require.Contains(t, out, "\ts.Store32(0x1000, s.EAX())\n")
	})

	t.Run("Output", func(t *testing.T) {
		output := filepath.Join(t.TempDir(), "add.go")
		out, err := runCommand(t, "", "gen", "--program", path, "-o", output)
		require.NoError(t, err)
		require.Empty(t, out)

		buf, err := os.ReadFile(output)
		require.NoError(t, err)
		require.Contains(t, string(buf), "func Apply(s *x86sym.MachineState) {\n")
	})
}

func TestRegs(t *testing.T) {
	// fields returns the whitespace-separated fields of the line starting with label.
	fields := func(t *testing.T, out, label string) []string {
		for _, line := range strings.Split(out, "\n") {
			if f := strings.Fields(line); len(f) > 0 && f[0] == label {
				return f
			}
		}
		t.Fatalf("no line for %s in:\n%s", label, out)
		return nil
	}

	t.Run("HighByte", func(t *testing.T) {
		out, err := runCommand(t, "", "regs", "88e0") // mov al, ah
		require.NoError(t, err)
		require.Equal(t, []string{"arg0", "al", "rax", "8", "preserves", "bits", "8-63"}, fields(t, out, "arg0"))
		require.Equal(t, []string{"arg1", "ah", "rax", "8", "preserves", "bits", "0-7", "and", "16-63"}, fields(t, out, "arg1"))
	})

	t.Run("DWord", func(t *testing.T) {
		out, err := runCommand(t, "", "regs", "89c8") // mov eax, ecx
		require.NoError(t, err)
		require.Equal(t, []string{"arg0", "eax", "rax", "32", "zero-extends", "to", "64", "bits"}, fields(t, out, "arg0"))
		require.Equal(t, []string{"arg1", "ecx", "rcx", "32", "zero-extends", "to", "64", "bits"}, fields(t, out, "arg1"))
	})

	t.Run("Memory", func(t *testing.T) {
		out, err := runCommand(t, "", "regs", "48 8b 04 d3") // mov rax, [rbx+rdx*8]
		require.NoError(t, err)
		require.Equal(t, []string{"arg1.base", "rbx", "rbx", "64", "replaces", "all", "64", "bits"}, fields(t, out, "arg1.base"))
		require.Equal(t, []string{"arg1.index", "rdx", "rdx", "64", "replaces", "all", "64", "bits"}, fields(t, out, "arg1.index"))
	})

	t.Run("ErrHex", func(t *testing.T) {
		_, err := runCommand(t, "", "regs", "zz")
		require.ErrorContains(t, err, "decode hex")
	})

	t.Run("ErrMode", func(t *testing.T) {
		_, err := runCommand(t, "", "regs", "--mode", "8", "90")
		require.EqualError(t, err, "invalid mode: 8")
	})
}
