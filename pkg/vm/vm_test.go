package vm

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/nspcc-dev/psv/pkg/vm/opcode"
	"github.com/stretchr/testify/require"
)

type state struct {
	a, b []uint32
}

func getState(v *VM) state {
	return state{a: v.StackA().Values(), b: v.StackB().Values()}
}

func randomProgram(r *rand.Rand, n int) []opcode.Opcode {
	all := opcode.All()
	prog := make([]opcode.Opcode, n)
	for i := range prog {
		prog[i] = all[r.Intn(len(all))]
	}
	return prog
}

func perm(r *rand.Rand, n int) []uint32 {
	res := make([]uint32, n)
	for i, p := range r.Perm(n) {
		res[i] = uint32(p)
	}
	return res
}

func TestOpcodeSemantics(t *testing.T) {
	testCases := []struct {
		op   opcode.Opcode
		a, b []uint32
		ea   []uint32
		eb   []uint32
	}{
		{opcode.SA, []uint32{1, 2, 3}, nil, []uint32{2, 1, 3}, []uint32{}},
		{opcode.SA, []uint32{1}, nil, []uint32{1}, []uint32{}},
		{opcode.SB, []uint32{}, []uint32{4, 5}, []uint32{}, []uint32{5, 4}},
		{opcode.SS, []uint32{1, 2}, []uint32{4, 5}, []uint32{2, 1}, []uint32{5, 4}},
		{opcode.PA, []uint32{1}, []uint32{4, 5}, []uint32{4, 1}, []uint32{5}},
		{opcode.PA, []uint32{1}, []uint32{}, []uint32{1}, []uint32{}},
		{opcode.PB, []uint32{1, 2}, []uint32{}, []uint32{2}, []uint32{1}},
		{opcode.PB, []uint32{}, []uint32{3}, []uint32{}, []uint32{3}},
		{opcode.RA, []uint32{1, 2, 3}, nil, []uint32{2, 3, 1}, []uint32{}},
		{opcode.RB, []uint32{}, []uint32{4, 5, 6}, []uint32{}, []uint32{5, 6, 4}},
		{opcode.RR, []uint32{1, 2}, []uint32{4, 5}, []uint32{2, 1}, []uint32{5, 4}},
		{opcode.RRA, []uint32{1, 2, 3}, nil, []uint32{3, 1, 2}, []uint32{}},
		{opcode.RRB, []uint32{}, []uint32{4, 5, 6}, []uint32{}, []uint32{6, 4, 5}},
		{opcode.RRR, []uint32{1, 2, 3}, []uint32{4, 5}, []uint32{3, 1, 2}, []uint32{5, 4}},
		{opcode.RRR, []uint32{}, []uint32{}, []uint32{}, []uint32{}},
	}
	for _, tc := range testCases {
		t.Run(tc.op.String(), func(t *testing.T) {
			v := New()
			v.a.Reset(tc.a)
			v.b.Reset(tc.b)
			v.execute(tc.op)
			require.Equal(t, tc.ea, v.a.Values())
			require.Equal(t, tc.eb, v.b.Values())
		})
	}
}

func TestInverseRestoresState(t *testing.T) {
	stacks := [][]uint32{{}, {7}, {7, 8}, {1, 2, 3}, {9, 8, 7, 6, 5}}
	for _, op := range opcode.All() {
		for _, a := range stacks {
			for _, b := range stacks {
				v := New()
				v.a.Reset(a)
				v.b.Reset(b)
				before := getState(v)
				v.execute(op)
				v.execute(op.Inverse())
				require.Equal(t, before, getState(v), "%s on %v %v", op, a, b)
			}
		}
	}
}

func TestLoad(t *testing.T) {
	v := New()
	require.False(t, v.Ready())

	require.NoError(t, v.Load([]uint32{2, 0, 1}, "pb ra"))
	require.True(t, v.Ready())
	require.Equal(t, 0, v.PC())
	require.Equal(t, 2, v.Len())
	require.Equal(t, 3, v.Amount())
	require.Equal(t, []uint32{2, 0, 1}, v.StackA().Values())
	require.Equal(t, 0, v.StackB().Len())

	t.Run("failure keeps previous state", func(t *testing.T) {
		require.True(t, v.Step())
		before := getState(v)
		err := v.Load([]uint32{5, 6}, "sa bad")
		require.ErrorIs(t, err, ErrInvalidInstruction)
		require.Equal(t, before, getState(v))
		require.Equal(t, 1, v.PC())
		require.Equal(t, 2, v.Len())
		require.Equal(t, 3, v.Amount())
	})

	t.Run("reload resets", func(t *testing.T) {
		require.NoError(t, v.Load([]uint32{1, 0}, ""))
		require.Equal(t, 0, v.PC())
		require.Equal(t, 0, v.Len())
		require.True(t, v.Ready())
		require.Equal(t, []uint32{1, 0}, v.StackA().Values())
		require.Equal(t, 0, v.StackB().Len())
	})
}

func TestStepUndo(t *testing.T) {
	v := New()
	require.False(t, v.Step())
	require.False(t, v.Undo())

	require.NoError(t, v.Load([]uint32{1, 0, 2}, "sa pb pa"))
	require.False(t, v.Undo())

	ip, op, ok := v.NextInstr()
	require.True(t, ok)
	require.Equal(t, 0, ip)
	require.Equal(t, opcode.SA, op)

	require.True(t, v.Step())
	require.Equal(t, []uint32{0, 1, 2}, v.StackA().Values())
	require.True(t, v.Step())
	require.Equal(t, []uint32{1, 2}, v.StackA().Values())
	require.Equal(t, []uint32{0}, v.StackB().Values())
	require.True(t, v.Step())
	require.False(t, v.Step())
	require.Equal(t, 3, v.PC())
	_, _, ok = v.NextInstr()
	require.False(t, ok)

	require.True(t, v.Undo())
	require.Equal(t, 2, v.PC())
	require.Equal(t, []uint32{0}, v.StackB().Values())
	require.True(t, v.Undo())
	require.True(t, v.Undo())
	require.False(t, v.Undo())
	require.Equal(t, []uint32{1, 0, 2}, v.StackA().Values())
}

func TestSkipTo(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	numbers := perm(r, 12)
	prog := randomProgram(r, 200)

	fresh := func(pc int) state {
		v := New()
		v.LoadProgram(numbers, prog)
		for i := 0; i < pc; i++ {
			require.True(t, v.Step())
		}
		return getState(v)
	}

	v := New()
	v.LoadProgram(numbers, prog)
	for i := 0; i < 50; i++ {
		pc1, pc2 := r.Intn(len(prog)+1), r.Intn(len(prog)+1)
		v.SkipTo(pc1)
		require.Equal(t, pc1, v.PC())
		v.SkipTo(pc2)
		require.Equal(t, pc2, v.PC())
		require.Equal(t, fresh(pc2), getState(v), "%d -> %d", pc1, pc2)

		require.False(t, v.SkipTo(pc2), "second SkipTo must not mutate")
	}

	t.Run("clamp", func(t *testing.T) {
		v.SkipTo(len(prog) + 100)
		require.Equal(t, len(prog), v.PC())
		require.Equal(t, fresh(len(prog)), getState(v))
		require.True(t, v.SkipTo(-5))
		require.Equal(t, 0, v.PC())
		require.Equal(t, fresh(0), getState(v))
	})
}

func TestConservation(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	numbers := perm(r, 20)
	v := New()
	v.LoadProgram(numbers, randomProgram(r, 500))
	for v.Step() {
		require.Equal(t, len(numbers), v.StackA().Len()+v.StackB().Len())
	}
	all := append(v.StackA().Values(), v.StackB().Values()...)
	require.ElementsMatch(t, numbers, all)
}

func TestRunAndValidate(t *testing.T) {
	t.Run("sorted, empty program", func(t *testing.T) {
		v := New()
		require.NoError(t, v.Load([]uint32{0, 1, 2}, ""))
		require.Equal(t, 0, v.Run())
		require.Equal(t, []uint32{0, 1, 2}, v.StackA().Values())
		require.Equal(t, 0, v.StackB().Len())
		require.NoError(t, v.Validate())
	})
	t.Run("sorting program", func(t *testing.T) {
		v := New()
		require.NoError(t, v.Load([]uint32{2, 0, 1}, "ra"))
		require.Equal(t, 1, v.Run())
		require.NoError(t, v.Validate())
	})
	t.Run("unsorted", func(t *testing.T) {
		v := New()
		require.NoError(t, v.Load([]uint32{2, 1, 0}, ""))
		v.Run()
		require.ErrorIs(t, v.Validate(), ErrNotSorted)
	})
	t.Run("B not empty", func(t *testing.T) {
		v := New()
		require.NoError(t, v.Load([]uint32{0, 1, 2}, "pb"))
		require.Equal(t, 1, v.Run())
		require.ErrorIs(t, v.Validate(), ErrStackBNotEmpty)
	})
}

func TestClear(t *testing.T) {
	v := New()
	require.NoError(t, v.Load([]uint32{1, 0}, "pb sa"))
	v.Step()
	v.Clear()
	require.False(t, v.Ready())
	require.Equal(t, 0, v.PC())
	require.Equal(t, 0, v.Len())
	require.Equal(t, 0, v.StackA().Len())
	require.Equal(t, 0, v.StackB().Len())
	require.False(t, v.Step())
}

func TestLoadProgramInvalidOpcode(t *testing.T) {
	v := New()
	require.Panics(t, func() { v.LoadProgram([]uint32{0}, []opcode.Opcode{0xff}) })
}

func TestDumps(t *testing.T) {
	v := New()
	require.NoError(t, v.Load([]uint32{1, 0}, "pb sa"))
	v.Step()
	require.Equal(t, "A: [0]\nB: [1]", v.DumpStacks())

	buf := new(strings.Builder)
	v.PrintOps(buf)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[0], "INDEX"))
	require.NotContains(t, lines[1], "<<")
	require.Contains(t, lines[2], "sa")
	require.Contains(t, lines[2], "<<")
}
