/*
Package runner obtains push_swap instruction text from one of the supported
sources: text provided by user, a file or an external push_swap executable.
*/
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/nspcc-dev/psv/pkg/sequence"
)

// DefaultPollInterval is the default interval of checking the executable state
// in the cancellable mode.
const DefaultPollInterval = 10 * time.Millisecond

// waitDelay bounds the time spent draining pipes after the executable is
// killed.
const waitDelay = 100 * time.Millisecond

// Various errors.
var (
	ErrNoExecutable = errors.New("no executable selected")
	ErrNoFile       = errors.New("no file selected")
	ErrNotText      = errors.New("failed to convert program output to string: invalid UTF-8")
)

// Result is the instruction text obtained from a source.
type Result struct {
	// Text contains raw instructions.
	Text string
	// Killed is set when the executable was terminated before it finished,
	// Text then contains whatever was captured up to that moment.
	Killed bool
	// Duration is the time spent obtaining instructions.
	Duration time.Duration
}

// Source provides push_swap instructions for the given numbers.
type Source interface {
	Instructions(ctx context.Context, numbers []int64) (Result, error)
	String() string
}

// Manual is instruction text typed by user.
type Manual string

// File reads instructions from a file at the given path.
type File string

// Executable runs push_swap program and uses its output as instructions.
type Executable struct {
	// Path to the program.
	Path string
	// Strategy is an optional strategy flag passed before numbers.
	Strategy Strategy
	// PollInterval is the interval of state checks in the cancellable mode,
	// DefaultPollInterval is used if zero.
	PollInterval time.Duration
	// Stderr receives program's stderr, it's discarded if nil.
	Stderr io.Writer
}

// Instructions implements the Source interface.
func (m Manual) Instructions(context.Context, []int64) (Result, error) {
	return Result{Text: string(m)}, nil
}

func (m Manual) String() string { return "User Input" }

// Instructions implements the Source interface.
func (f File) Instructions(context.Context, []int64) (Result, error) {
	if f == "" {
		return Result{}, ErrNoFile
	}
	start := time.Now()
	b, err := os.ReadFile(string(f))
	if err != nil {
		return Result{}, fmt.Errorf("failed to read from file: %w", err)
	}
	return Result{Text: string(b), Duration: time.Since(start)}, nil
}

func (f File) String() string { return "From File" }

func (e Executable) String() string { return "Program Output" }

// Args returns command line arguments the program is invoked with.
func (e Executable) Args(numbers []int64) []string {
	args := make([]string, 0, len(numbers)+1)
	if e.Strategy != None {
		args = append(args, e.Strategy.Arg())
	}
	return append(args, sequence.Args(numbers)...)
}

func (e Executable) command(numbers []int64) (*exec.Cmd, error) {
	if e.Path == "" {
		return nil, ErrNoExecutable
	}
	cmd := exec.Command(e.Path, e.Args(numbers)...)
	cmd.Stderr = e.Stderr
	return cmd, nil
}

// Instructions implements the Source interface running the program in the
// cancellable mode. The program state is checked every PollInterval, if ctx is
// cancelled the program is killed and the output captured so far is returned
// with Killed flag set. Otherwise the complete output is returned once the
// program exits. Exit status is ignored.
func (e Executable) Instructions(ctx context.Context, numbers []int64) (Result, error) {
	cmd, err := e.command(numbers)
	if err != nil {
		return Result{}, err
	}
	var out lockedBuffer
	cmd.Stdout = &out
	cmd.WaitDelay = waitDelay

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return Result{}, fmt.Errorf("error while running program: %w", err)
	}
	done := make(chan struct{})
	go func() {
		// Wait also waits for stdout copying to complete.
		_ = cmd.Wait()
		close(done)
	}()

	interval := e.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var killed bool
loop:
	for {
		select {
		case <-done:
			break loop
		case <-ticker.C:
			if ctx.Err() == nil {
				continue
			}
			select {
			case <-done:
				break loop
			default:
			}
			killed = true
			_ = cmd.Process.Kill()
			<-done
			break loop
		}
	}
	res := Result{Killed: killed, Duration: time.Since(start)}
	res.Text, err = toText(out.Bytes())
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// RunToCompletion runs the program and waits for it to exit, there is no way
// to interrupt it. Exit status is ignored, only stdout matters.
func (e Executable) RunToCompletion(numbers []int64) (string, error) {
	cmd, err := e.command(numbers)
	if err != nil {
		return "", err
	}
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("error while running program: %w", err)
	}
	_ = cmd.Wait()
	return toText(out.Bytes())
}

// Detect returns the absolute path of push_swap executable in the current
// directory if there is one.
func Detect() (string, bool) {
	p, err := filepath.Abs("push_swap")
	if err != nil {
		return "", false
	}
	if fi, err := os.Stat(p); err != nil || fi.IsDir() {
		return "", false
	}
	return p, true
}

func toText(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", ErrNotText
	}
	return string(b), nil
}

// lockedBuffer is a bytes.Buffer safe for concurrent use.
type lockedBuffer struct {
	mtx sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return b.buf.Write(p)
}

// Bytes returns a copy of buffered data.
func (b *lockedBuffer) Bytes() []byte {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return bytes.Clone(b.buf.Bytes())
}
