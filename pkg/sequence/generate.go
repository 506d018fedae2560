package sequence

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
)

// Default bounds of the RandomRanged generator.
const (
	RangeMin = math.MinInt16
	RangeMax = math.MaxInt16
)

// Generator errors.
var (
	ErrRangeTooSmall = errors.New("range is too small for the requested amount of numbers")
	ErrNoPreset      = errors.New("no such preset")
)

// Generator produces numbers to be sorted.
type Generator interface {
	Numbers() ([]int64, error)
	String() string
}

// Ordered generates numbers from 0 to N-1 in order.
type Ordered struct {
	N int
}

// ReverseOrdered generates numbers from N-1 to 0.
type ReverseOrdered struct {
	N int
}

// Random generates shuffled numbers from 0 to N-1.
type Random struct {
	N int
}

// RandomRanged picks N distinct random numbers from [Min, Max].
type RandomRanged struct {
	Min, Max int64
	N        int
}

// Arbitrary parses whitespace-separated integers provided by user.
type Arbitrary struct {
	Text string
}

// Preset uses one of hardcoded sequences.
type Preset struct {
	Index int
}

// NamedSequence is a preset sequence with a name.
type NamedSequence struct {
	Name    string
	Numbers []int64
}

// Presets is a list of hardcoded sequences, some of them are known to break
// push_swap implementations.
var Presets = []NamedSequence{
	{"Three reversed", []int64{2, 1, 0}},
	{"Five, almost sorted", []int64{1, 0, 2, 3, 4}},
	{"Signed mix", []int64{39512, -727, 1116, -525, 0, 32457, -42, -9837, 69, 52}},
	{"Int32 bounds", []int64{math.MaxInt32, math.MinInt32, 0, -1, 1}},
	{"Sorted except last", []int64{1, 2, 3, 4, 5, 6, 7, 0}},
	{"Single", []int64{42}},
}

// Numbers implements the Generator interface.
func (g Ordered) Numbers() ([]int64, error) {
	res := make([]int64, g.N)
	for i := range res {
		res[i] = int64(i)
	}
	return res, nil
}

func (g Ordered) String() string { return "Ordered" }

// Numbers implements the Generator interface.
func (g ReverseOrdered) Numbers() ([]int64, error) {
	res := make([]int64, g.N)
	for i := range res {
		res[i] = int64(g.N - 1 - i)
	}
	return res, nil
}

func (g ReverseOrdered) String() string { return "Reverse Ordered" }

// Numbers implements the Generator interface.
func (g Random) Numbers() ([]int64, error) {
	res := make([]int64, g.N)
	for i, p := range rand.Perm(g.N) {
		res[i] = int64(p)
	}
	return res, nil
}

func (g Random) String() string { return "Random Normalized" }

// Numbers implements the Generator interface.
func (g RandomRanged) Numbers() ([]int64, error) {
	if g.N <= 0 {
		return []int64{}, nil
	}
	if g.Max < g.Min || uint64(g.Max-g.Min) < uint64(g.N-1) {
		return nil, fmt.Errorf("%w: [%d, %d] for %d", ErrRangeTooSmall, g.Min, g.Max, g.N)
	}
	var (
		width = uint64(g.Max-g.Min) + 1
		seen  = make(map[int64]struct{}, g.N)
		res   = make([]int64, 0, g.N)
	)
	for len(res) < g.N {
		r := rand.Uint64()
		// width is 0 for the full int64 range.
		if width != 0 {
			r %= width
		}
		n := g.Min + int64(r)
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		res = append(res, n)
	}
	return res, nil
}

func (g RandomRanged) String() string { return "Random from Custom Range" }

// Numbers implements the Generator interface.
func (g Arbitrary) Numbers() ([]int64, error) {
	fields := strings.Fields(g.Text)
	res := make([]int64, len(fields))
	for i, f := range fields {
		n, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("error while parsing numbers: %w", err)
		}
		res[i] = n
	}
	return res, nil
}

func (g Arbitrary) String() string { return "User Input" }

// Numbers implements the Generator interface.
func (g Preset) Numbers() ([]int64, error) {
	if g.Index < 0 || g.Index >= len(Presets) {
		return nil, fmt.Errorf("%w: %d", ErrNoPreset, g.Index)
	}
	res := make([]int64, len(Presets[g.Index].Numbers))
	copy(res, Presets[g.Index].Numbers)
	return res, nil
}

func (g Preset) String() string { return "Preset" }
