/*
Package input reads answers to interactive prompts.
*/
package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// Terminal is a terminal used for input. If `nil`, stdin is used.
var Terminal *term.Terminal

// stdin buffers non-terminal standard input between prompts, it's recreated
// if os.Stdin is replaced.
var stdin struct {
	src *os.File
	r   *bufio.Reader
}

func stdinReader() *bufio.Reader {
	if stdin.r == nil || stdin.src != os.Stdin {
		stdin.src = os.Stdin
		stdin.r = bufio.NewReader(os.Stdin)
	}
	return stdin.r
}

// ReadWriter combines reader and writer.
type ReadWriter struct {
	io.Reader
	io.Writer
}

// ReadLine reads a line from the input without trailing '\n'.
func ReadLine(prompt string) (string, error) {
	trm := Terminal
	if trm == nil {
		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			return readPlainLine(stdinReader(), os.Stdout, prompt)
		}
		s, err := term.MakeRaw(fd)
		if err != nil {
			return "", err
		}
		defer func() { _ = term.Restore(fd, s) }()
		trm = term.NewTerminal(ReadWriter{
			Reader: os.Stdin,
			Writer: os.Stdout,
		}, "")
	}
	return readLine(trm, prompt)
}

func readLine(trm *term.Terminal, prompt string) (string, error) {
	_, err := trm.Write([]byte(prompt))
	if err != nil {
		return "", err
	}
	line, err := trm.ReadLine()
	return strings.TrimRight(line, "\n"), err
}

func readPlainLine(r *bufio.Reader, w io.Writer, prompt string) (string, error) {
	fmt.Fprint(w, prompt)
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadPositiveInt asks for a positive integer until it gets one or reading
// fails.
func ReadPositiveInt(prompt string) (int, error) {
	for {
		line, err := ReadLine(prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil && n > 0 {
			return n, nil
		}
		fmt.Fprintln(os.Stderr, "Please enter a positive integer")
	}
}
