package shell

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/chzyer/readline"
	"github.com/nspcc-dev/psv/pkg/config"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type executor struct {
	in  *bytes.Buffer
	out *bytes.Buffer
	cli *Shell
}

func newTestShell(t *testing.T) *executor {
	cfg := config.Default()
	cfg.Benchmark.FailureLog = filepath.Join(t.TempDir(), "error.log")
	return newTestShellWithConfig(t, cfg)
}

func newTestShellWithConfig(t *testing.T, cfg config.Config) *executor {
	e := &executor{
		in:  bytes.NewBuffer(nil),
		out: bytes.NewBuffer(nil),
	}
	var err error
	e.cli, err = NewWithConfig(false, &readline.Config{
		Prompt: "",
		Stdin:  io.NopCloser(e.in),
		Stderr: e.out,
		Stdout: e.out,
		FuncIsTerminal: func() bool {
			return false
		},
	}, cfg, zaptest.NewLogger(t))
	require.NoError(t, err, "failed to create test shell")
	return e
}

func (e *executor) runProg(t *testing.T, commands ...string) {
	e.runProgWithTimeout(t, 10*time.Second, commands...)
}

func (e *executor) runProgWithTimeout(t *testing.T, timeout time.Duration, commands ...string) {
	e.in.WriteString(strings.Join(commands, "\n") + "\nexit\n")
	done := make(chan error, 1)
	go func() {
		done <- e.cli.Run()
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(timeout):
		require.Fail(t, "command took too long time")
	}
}

func writeScript(t *testing.T, body string) string {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not supported on Windows")
	}
	p := filepath.Join(t.TempDir(), "push_swap")
	require.NoError(t, os.WriteFile(p, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return p
}

func TestNumbers(t *testing.T) {
	e := newTestShell(t)
	e.runProg(t,
		"numbers list 5 -3 10",
		"args",
		"numbers",
		"numbers preset",
		"numbers preset 0",
		"numbers ordered 4",
		"numbers reverse 3",
		"numbers range 3 -1 1",
		"numbers random 5",
	)
	out := e.out.String()
	require.Contains(t, out, "Numbers: 5 -3 10\n")
	require.Contains(t, out, "Amount: 3, disorder: 33.33%\n")
	require.Contains(t, out, "5 -3 10\n")
	require.Contains(t, out, "0: Three reversed (3 numbers)\n")
	require.Contains(t, out, "Numbers: 2 1 0\nAmount: 3, disorder: 100.00%\n")
	require.Contains(t, out, "Numbers: 0 1 2 3\nAmount: 4, disorder: 0.00%\n")
	require.Contains(t, out, "Amount: 5,")
	require.NotContains(t, out, "Error")
}

func TestManualProgram(t *testing.T) {
	e := newTestShell(t)
	e.runProg(t,
		"numbers list 3 1 2",
		"source manual ra",
		"status",
		"load",
		"wait",
		"pc",
		"step",
		"stacks",
		"check",
		"undo",
		"stacks",
		"check",
		"end",
		"rewind",
		"skip 100",
		"ops",
		"status",
	)
	out := e.out.String()
	require.Contains(t, out, "Source: User Input\n")
	require.Contains(t, out, "Loading instructions (User Input)...\n")
	require.Contains(t, out, "READY: loaded 1 instructions")
	require.Contains(t, out, "instruction pointer at 0 (ra)\n")
	require.Contains(t, out, "execution has finished (1 instructions)\n")
	require.Contains(t, out, "A: [0, 1, 2]\nB: []\n")
	require.Contains(t, out, "OK\n")
	require.Contains(t, out, "A: [2, 0, 1]\nB: []\n")
	require.Contains(t, out, "KO: ")
	require.Contains(t, out, "INDEX")
	require.Contains(t, out, "State: ready, instruction 1 of 1\n")
	require.NotContains(t, out, "Error")
}

func TestPlay(t *testing.T) {
	e := newTestShell(t)
	e.runProg(t,
		"numbers list 3 1 2",
		"source manual ra rra ra",
		"load",
		"wait",
		"play 1",
		"check",
	)
	out := e.out.String()
	require.Contains(t, out, "0: ra\n1: rra\n2: ra\n")
	require.Contains(t, out, "A: [0, 1, 2]\nB: []\n")
	require.Contains(t, out, "execution has finished (3 instructions)\n")
	require.Contains(t, out, "OK\n")
}

func TestStepBeyondEnd(t *testing.T) {
	e := newTestShell(t)
	e.runProg(t,
		"numbers list 3 1 2",
		"source manual ra rra ra",
		"load",
		"wait",
		"step",
		"step 9223372036854775807",
		"stacks",
	)
	out := e.out.String()
	require.Contains(t, out, "instruction pointer at 1 (rra)\n")
	require.Contains(t, out, "execution has finished (3 instructions)\n")
	require.NotContains(t, out, "instruction pointer at 0 (ra)\n")
	require.Contains(t, out, "A: [0, 1, 2]\nB: []\n")
}

func TestParseFailure(t *testing.T) {
	e := newTestShell(t)
	e.runProg(t,
		"numbers random 3",
		"source manual sa xx",
		"load",
		"wait",
		"stacks",
	)
	out := e.out.String()
	require.Contains(t, out, "Error: failed to parse instructions: ")
	require.Contains(t, out, "Error: no program loaded\n")
}

func TestErrors(t *testing.T) {
	e := newTestShell(t)
	e.runProg(t,
		"step",
		"kill",
		"load",
		"args",
		"foo",
		"numbers random x",
		"numbers range 5 0 1",
		"numbers preset 100",
		"numbers unknown 1",
		"source file",
		"source exec ./push_swap bogo",
		"skip",
		`source manual "sa`,
		"benchmark 5",
	)
	out := e.out.String()
	require.Contains(t, out, "Error: no program loaded\n")
	require.Contains(t, out, "Error: nothing is being loaded\n")
	require.Contains(t, out, "Error: no numbers, use 'numbers' command\n")
	require.Contains(t, out, "Error: unknown command 'foo'")
	require.Contains(t, out, "Error: can't parse argument: ")
	require.Contains(t, out, "Error: range is too small")
	require.Contains(t, out, "Error: no such preset: 100\n")
	require.Contains(t, out, "Error: can't parse argument: unknown kind 'unknown'\n")
	require.Contains(t, out, "Error: missing argument: <path>\n")
	require.Contains(t, out, "unknown strategy")
	require.Contains(t, out, "Error: missing argument: <pc>\n")
	require.Contains(t, out, "Error: failed to parse arguments: ")
	require.Contains(t, out, "Error: missing argument: <numbers> <tests>\n")
}

func TestExit(t *testing.T) {
	e := newTestShell(t)
	e.runProg(t, "exit", "numbers")
	require.Contains(t, e.out.String(), "Bye!\n")
	require.NotContains(t, e.out.String(), "Error")
}

func TestExecutable(t *testing.T) {
	p := writeScript(t, `case "$1" in --*) shift;; esac
if [ "$1" -gt "$2" ]; then echo sa; fi`)
	e := newTestShell(t)
	e.runProg(t,
		"numbers list 2 1",
		"source exec "+p+" simple",
		"visualize",
		"wait",
		"end",
		"check",
		"benchmark 2 3",
	)
	out := e.out.String()
	require.Contains(t, out, "Source: Program Output ("+p+", strategy: simple)\n")
	require.Contains(t, out, "READY: loaded 1 instructions (Program Output in ")
	require.Contains(t, out, "OK\n")
	require.Contains(t, out, "Tests: 3, passed: 3, failed: 0")
	require.Contains(t, out, "Min: ")
}

func TestKill(t *testing.T) {
	p := writeScript(t, "echo pb\nexec sleep 10")
	e := newTestShell(t)
	e.runProg(t,
		"numbers list 1 0",
		"source exec "+p,
		"load",
		"status",
		"step",
		"kill",
		"stacks",
	)
	out := e.out.String()
	require.Contains(t, out, "State: loading for ")
	require.Contains(t, out, "Error: instructions are being loaded, use 'wait' or 'kill'\n")
	require.Contains(t, out, "Program was killed, its output so far is used\n")
	require.Contains(t, out, "READY: loaded ")
	require.Contains(t, out, "A: [")
}

func TestDefaultSource(t *testing.T) {
	cfg := config.Default()
	cfg.Runner.Executable = "/usr/local/bin/push_swap"
	e := newTestShellWithConfig(t, cfg)
	e.runProg(t, "source", "source file /tmp/ops.txt")
	out := e.out.String()
	require.Contains(t, out, "Source: Program Output (/usr/local/bin/push_swap, strategy: none)\n")
	require.Contains(t, out, "Source: From File (/tmp/ops.txt)\n")
}
