package vm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/psv/pkg/vm/opcode"
)

// ErrInvalidInstruction is returned (wrapped into ParseError) for tokens that
// are not push_swap mnemonics.
var ErrInvalidInstruction = errors.New("invalid instruction")

// ParseError denotes the first token of an instruction stream that can't be
// parsed.
type ParseError struct {
	// Index is a 1-based position of the offending token.
	Index int
	// Token is the offending token itself.
	Token string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("instruction %d (%q) is not a valid push_swap instruction", e.Index, e.Token)
}

// Unwrap allows to match ParseError against ErrInvalidInstruction.
func (e *ParseError) Unwrap() error {
	return ErrInvalidInstruction
}

// Parse converts whitespace-separated mnemonics into a list of opcodes. It's
// all-or-nothing, the first unknown token aborts parsing with a *ParseError.
// Empty text is a valid empty program.
func Parse(text string) ([]opcode.Opcode, error) {
	tokens := strings.Fields(text)
	prog := make([]opcode.Opcode, 0, len(tokens))
	for i, tok := range tokens {
		op, err := opcode.FromString(tok)
		if err != nil {
			return nil, &ParseError{Index: i + 1, Token: tok}
		}
		prog = append(prog, op)
	}
	return prog, nil
}
