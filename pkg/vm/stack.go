package vm

import (
	"fmt"
	"strings"
)

// Stack is a double-ended queue of unsigned integers used as a push_swap
// stack. It's backed by a ring buffer, the front of the queue is the top of the
// stack, so every operation the instruction set needs is O(1).
type Stack struct {
	elems []uint32
	head  int
	size  int
	name  string
}

// NewStack returns a new empty stack with the given name.
func NewStack(n string) *Stack {
	return &Stack{name: n}
}

// Name returns the name of the stack.
func (s *Stack) Name() string {
	return s.name
}

// Len returns the number of elements on the stack.
func (s *Stack) Len() int {
	return s.size
}

// Clear removes all elements from the stack.
func (s *Stack) Clear() {
	s.head = 0
	s.size = 0
}

// Reset replaces stack contents with vals, vals[0] becomes the top.
func (s *Stack) Reset(vals []uint32) {
	s.elems = make([]uint32, len(vals), max(len(vals), 16))
	copy(s.elems, vals)
	s.elems = s.elems[:cap(s.elems)]
	s.head = 0
	s.size = len(vals)
}

// Peek returns the n-th element counting from the top (0 is the top). It
// panics if n is out of range.
func (s *Stack) Peek(n int) uint32 {
	if n < 0 || n >= s.size {
		panic(fmt.Sprintf("stack %s: index %d out of range", s.name, n))
	}
	return s.elems[s.index(n)]
}

// PushTop places v on top of the stack.
func (s *Stack) PushTop(v uint32) {
	s.grow()
	s.head = (s.head - 1 + len(s.elems)) % len(s.elems)
	s.elems[s.head] = v
	s.size++
}

// PushBottom places v at the bottom of the stack.
func (s *Stack) PushBottom(v uint32) {
	s.grow()
	s.elems[s.index(s.size)] = v
	s.size++
}

// PopTop removes and returns the top element, ok is false for an empty stack.
func (s *Stack) PopTop() (v uint32, ok bool) {
	if s.size == 0 {
		return 0, false
	}
	v = s.elems[s.head]
	s.head = (s.head + 1) % len(s.elems)
	s.size--
	return v, true
}

// PopBottom removes and returns the bottom element, ok is false for an empty
// stack.
func (s *Stack) PopBottom() (v uint32, ok bool) {
	if s.size == 0 {
		return 0, false
	}
	v = s.elems[s.index(s.size-1)]
	s.size--
	return v, true
}

// SwapTop exchanges two topmost elements, it does nothing if there are less
// than two of them.
func (s *Stack) SwapTop() {
	if s.size < 2 {
		return
	}
	i, j := s.head, s.index(1)
	s.elems[i], s.elems[j] = s.elems[j], s.elems[i]
}

// Values returns a copy of stack contents, top first.
func (s *Stack) Values() []uint32 {
	res := make([]uint32, s.size)
	for i := range res {
		res[i] = s.elems[s.index(i)]
	}
	return res
}

// IsSorted checks whether elements go in ascending order from top to bottom.
func (s *Stack) IsSorted() bool {
	for i := 1; i < s.size; i++ {
		if s.Peek(i-1) > s.Peek(i) {
			return false
		}
	}
	return true
}

// String implements the fmt.Stringer interface.
func (s *Stack) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < s.size; i++ {
		if i != 0 {
			b.WriteString(", ")
		}
		fmt.Fprint(&b, s.Peek(i))
	}
	b.WriteByte(']')
	return b.String()
}

func (s *Stack) index(n int) int {
	return (s.head + n) % len(s.elems)
}

// grow ensures there is room for one more element.
func (s *Stack) grow() {
	if s.size < len(s.elems) {
		return
	}
	elems := make([]uint32, max(2*len(s.elems), 16))
	for i := 0; i < s.size; i++ {
		elems[i] = s.elems[s.index(i)]
	}
	s.elems = elems
	s.head = 0
}
