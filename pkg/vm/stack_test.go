package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStack_PushPop(t *testing.T) {
	s := NewStack("test")
	require.Equal(t, "test", s.Name())
	require.Equal(t, 0, s.Len())

	for i := uint32(0); i < 40; i++ {
		s.PushTop(i)
	}
	require.Equal(t, 40, s.Len())
	for i := 0; i < 40; i++ {
		assert.Equal(t, uint32(39-i), s.Peek(i))
	}
	for i := 39; i >= 0; i-- {
		v, ok := s.PopTop()
		require.True(t, ok)
		require.Equal(t, uint32(i), v)
	}
	_, ok := s.PopTop()
	require.False(t, ok)
	_, ok = s.PopBottom()
	require.False(t, ok)
}

func TestStack_Bottom(t *testing.T) {
	s := NewStack("test")
	s.Reset([]uint32{1, 2, 3})
	s.PushBottom(4)
	s.PushTop(0)
	require.Equal(t, []uint32{0, 1, 2, 3, 4}, s.Values())

	v, ok := s.PopBottom()
	require.True(t, ok)
	require.Equal(t, uint32(4), v)
	require.Equal(t, []uint32{0, 1, 2, 3}, s.Values())
}

func TestStack_Wraparound(t *testing.T) {
	s := NewStack("test")
	s.Reset([]uint32{0, 1, 2, 3, 4})
	// Rotate a lot to move head around the ring buffer.
	for i := 0; i < 103; i++ {
		v, _ := s.PopTop()
		s.PushBottom(v)
	}
	require.Equal(t, []uint32{3, 4, 0, 1, 2}, s.Values())
	for i := 0; i < 103; i++ {
		v, _ := s.PopBottom()
		s.PushTop(v)
	}
	require.Equal(t, []uint32{0, 1, 2, 3, 4}, s.Values())
}

func TestStack_SwapTop(t *testing.T) {
	s := NewStack("test")
	s.SwapTop()
	require.Equal(t, 0, s.Len())

	s.PushTop(7)
	s.SwapTop()
	require.Equal(t, []uint32{7}, s.Values())

	s.PushTop(8)
	s.SwapTop()
	require.Equal(t, []uint32{7, 8}, s.Values())
}

func TestStack_IsSorted(t *testing.T) {
	s := NewStack("test")
	require.True(t, s.IsSorted())
	s.Reset([]uint32{0, 1, 5})
	require.True(t, s.IsSorted())
	s.Reset([]uint32{1, 0})
	require.False(t, s.IsSorted())
}

func TestStack_String(t *testing.T) {
	s := NewStack("test")
	require.Equal(t, "[]", s.String())
	s.Reset([]uint32{3, 1, 2})
	require.Equal(t, "[3, 1, 2]", s.String())
}

func TestStack_PeekOutOfRange(t *testing.T) {
	s := NewStack("test")
	s.Reset([]uint32{1})
	require.Panics(t, func() { s.Peek(1) })
	require.Panics(t, func() { s.Peek(-1) })
}

func TestStack_ResetCopies(t *testing.T) {
	vals := []uint32{1, 2, 3}
	s := NewStack("test")
	s.Reset(vals)
	s.SwapTop()
	require.Equal(t, []uint32{1, 2, 3}, vals)
}
