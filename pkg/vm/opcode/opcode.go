package opcode

import "fmt"

//go:generate stringer -type=Opcode -linecomment

// Opcode represents a single push_swap operation.
type Opcode byte

// List of supported operations, the line comment is the mnemonic used in
// instruction streams.
const (
	SA  Opcode = iota // sa
	SB                // sb
	SS                // ss
	PA                // pa
	PB                // pb
	RA                // ra
	RB                // rb
	RR                // rr
	RRA               // rra
	RRB               // rrb
	RRR               // rrr

	opcodeCount
)

// inverses holds the operation undoing the effect of every opcode.
var inverses = [opcodeCount]Opcode{
	SA:  SA,
	SB:  SB,
	SS:  SS,
	PA:  PB,
	PB:  PA,
	RA:  RRA,
	RB:  RRB,
	RR:  RRR,
	RRA: RA,
	RRB: RB,
	RRR: RR,
}

var stringToOpcode = make(map[string]Opcode, opcodeCount)

func init() {
	for op := SA; op < opcodeCount; op++ {
		stringToOpcode[op.String()] = op
	}
}

// All returns every valid opcode in declaration order.
func All() []Opcode {
	ops := make([]Opcode, 0, opcodeCount)
	for op := SA; op < opcodeCount; op++ {
		ops = append(ops, op)
	}
	return ops
}

// IsValid returns true if the opcode passed is one of the known operations.
func IsValid(op Opcode) bool {
	return op < opcodeCount
}

// Inverse returns the opcode that reverts op. Applying op and then its inverse
// to any pair of stacks restores them exactly. It panics for invalid opcodes.
func (op Opcode) Inverse() Opcode {
	if !IsValid(op) {
		panic(fmt.Sprintf("no inverse for %s", op))
	}
	return inverses[op]
}

// FromString converts a mnemonic into an Opcode.
func FromString(s string) (Opcode, error) {
	if op, ok := stringToOpcode[s]; ok {
		return op, nil
	}
	return 0, fmt.Errorf("unknown opcode: %q", s)
}
