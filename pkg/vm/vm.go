package vm

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/nspcc-dev/psv/pkg/vm/opcode"
)

// Validation errors.
var (
	// ErrNotSorted is returned by Validate when stack A is not in ascending
	// order or doesn't hold every loaded element.
	ErrNotSorted = errors.New("stack A is not sorted")
	// ErrStackBNotEmpty is returned by Validate when stack B still has elements.
	ErrStackBNotEmpty = errors.New("stack B is not empty")
)

// VM is a push_swap machine: two stacks and a program with a program counter.
// Every instruction has an inverse, so the program can be executed in both
// directions and the state at any pc is always the state obtained by applying
// the first pc instructions to the loaded stacks.
type VM struct {
	a, b         *Stack
	instructions []opcode.Opcode
	pc           int
	amount       int
}

// New returns a new empty VM.
func New() *VM {
	return &VM{
		a: NewStack("A"),
		b: NewStack("B"),
	}
}

// Load parses text and resets the VM to execute it against numbers (numbers[0]
// is the top of stack A). On parsing error the VM is left untouched.
func (v *VM) Load(numbers []uint32, text string) error {
	prog, err := Parse(text)
	if err != nil {
		return err
	}
	v.LoadProgram(numbers, prog)
	return nil
}

// LoadProgram resets the VM to execute an already parsed program against
// numbers. It panics if prog contains invalid opcodes.
func (v *VM) LoadProgram(numbers []uint32, prog []opcode.Opcode) {
	for i, op := range prog {
		if !opcode.IsValid(op) {
			panic(fmt.Sprintf("invalid opcode %s at %d", op, i))
		}
	}
	if prog == nil {
		prog = []opcode.Opcode{}
	}
	v.instructions = prog
	v.pc = 0
	v.amount = len(numbers)
	v.a.Reset(numbers)
	v.b.Clear()
}

// Clear unloads the program and empties both stacks.
func (v *VM) Clear() {
	v.instructions = nil
	v.pc = 0
	v.amount = 0
	v.a.Clear()
	v.b.Clear()
}

// Ready returns true if there is a program loaded (even if an empty one).
func (v *VM) Ready() bool {
	return v.instructions != nil
}

// PC returns the program counter, that is the index of the next instruction
// to execute.
func (v *VM) PC() int {
	return v.pc
}

// Len returns the number of instructions loaded.
func (v *VM) Len() int {
	return len(v.instructions)
}

// Amount returns the number of elements loaded into the VM.
func (v *VM) Amount() int {
	return v.amount
}

// Instructions returns the loaded program, it must not be modified.
func (v *VM) Instructions() []opcode.Opcode {
	return v.instructions
}

// NextInstr returns the next instruction to execute with its index. ok is
// false if the program has been executed completely.
func (v *VM) NextInstr() (int, opcode.Opcode, bool) {
	if v.pc >= len(v.instructions) {
		return v.pc, 0, false
	}
	return v.pc, v.instructions[v.pc], true
}

// StackA returns stack A.
func (v *VM) StackA() *Stack {
	return v.a
}

// StackB returns stack B.
func (v *VM) StackB() *Stack {
	return v.b
}

// Step executes the next instruction. It returns false if there is nothing
// left to execute.
func (v *VM) Step() bool {
	if v.pc >= len(v.instructions) {
		return false
	}
	v.execute(v.instructions[v.pc])
	v.pc++
	return true
}

// Undo reverts the last executed instruction. It returns false if pc is
// already at the start of the program.
func (v *VM) Undo() bool {
	if v.pc == 0 {
		return false
	}
	v.pc--
	v.execute(v.instructions[v.pc].Inverse())
	return true
}

// SkipTo moves the program counter to target (clamped to [0, Len()]) stepping
// or undoing as needed. It returns true if the state has changed.
func (v *VM) SkipTo(target int) bool {
	target = min(max(target, 0), len(v.instructions))
	moved := false
	for v.pc < target {
		moved = v.Step() || moved
	}
	for v.pc > target {
		moved = v.Undo() || moved
	}
	return moved
}

// Run executes the rest of the program and returns the number of instructions
// executed.
func (v *VM) Run() int {
	var n int
	for v.Step() {
		n++
	}
	return n
}

// Validate checks the final condition of a push_swap run: stack A holds every
// loaded element in ascending order and stack B is empty.
func (v *VM) Validate() error {
	if v.b.Len() != 0 {
		return fmt.Errorf("%w: %d element(s) left", ErrStackBNotEmpty, v.b.Len())
	}
	if v.a.Len() != v.amount || !v.a.IsSorted() {
		return ErrNotSorted
	}
	return nil
}

// execute applies op to the stacks. Operations lacking operands do nothing.
func (v *VM) execute(op opcode.Opcode) {
	switch op {
	case opcode.SA:
		v.a.SwapTop()
	case opcode.SB:
		v.b.SwapTop()
	case opcode.SS:
		v.a.SwapTop()
		v.b.SwapTop()
	case opcode.PA:
		push(v.b, v.a)
	case opcode.PB:
		push(v.a, v.b)
	case opcode.RA:
		rotate(v.a)
	case opcode.RB:
		rotate(v.b)
	case opcode.RR:
		rotate(v.a)
		rotate(v.b)
	case opcode.RRA:
		reverseRotate(v.a)
	case opcode.RRB:
		reverseRotate(v.b)
	case opcode.RRR:
		reverseRotate(v.a)
		reverseRotate(v.b)
	default:
		panic(fmt.Sprintf("unknown opcode %s", op))
	}
}

func push(from, to *Stack) {
	if e, ok := from.PopTop(); ok {
		to.PushTop(e)
	}
}

func rotate(s *Stack) {
	if e, ok := s.PopTop(); ok {
		s.PushBottom(e)
	}
}

func reverseRotate(s *Stack) {
	if e, ok := s.PopBottom(); ok {
		s.PushTop(e)
	}
}

// DumpStacks returns a textual representation of both stacks.
func (v *VM) DumpStacks() string {
	return fmt.Sprintf("A: %s\nB: %s", v.a, v.b)
}

// PrintOps prints the loaded program to out (os.Stdout if nil), marking the
// next instruction to execute.
func (v *VM) PrintOps(out io.Writer) {
	if out == nil {
		out = os.Stdout
	}
	w := tabwriter.NewWriter(out, 0, 0, 4, ' ', 0)
	fmt.Fprintln(w, "INDEX\tOPCODE\t")
	for i, op := range v.instructions {
		var cursor string
		if i == v.pc {
			cursor = "<<"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", i, op, cursor)
	}
	w.Flush()
}
