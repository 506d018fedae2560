package bench

import (
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
)

// Results holds instruction counts of successful trials by trial index. It's
// safe for concurrent use.
type Results struct {
	mtx    sync.Mutex
	counts map[int]int
}

// NewResults returns an empty results collection.
func NewResults() *Results {
	return &Results{counts: make(map[int]int)}
}

// Record saves the instruction count of a successful trial.
func (r *Results) Record(trial int, count int) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.counts[trial] = count
}

// Get returns the instruction count of a trial, ok is false if the trial
// wasn't successful (or hasn't finished yet).
func (r *Results) Get(trial int) (count int, ok bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	count, ok = r.counts[trial]
	return
}

// Len returns the number of recorded trials.
func (r *Results) Len() int {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return len(r.counts)
}

// Stats returns minimum, average and maximum instruction counts over the
// recorded trials, ok is false if there are none.
func (r *Results) Stats() (lo int, avg float64, hi int, ok bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if len(r.counts) == 0 {
		return 0, 0, 0, false
	}
	lo, hi = math.MaxInt, math.MinInt
	var sum int
	for _, c := range r.counts {
		lo = min(lo, c)
		hi = max(hi, c)
		sum += c
	}
	return lo, float64(sum) / float64(len(r.counts)), hi, true
}

// Failure is a record of an aborted trial with everything needed to reproduce
// it.
type Failure struct {
	Trial        int
	Numbers      []uint32
	Instructions string
	StackA       []uint32
	StackB       []uint32
	Reason       error
}

const failureSeparator = "===================================="

// WriteTo implements the io.WriterTo interface writing a human-readable
// multi-line failure description.
func (f *Failure) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Test %d failed.\n", f.Trial)
	fmt.Fprintf(&b, "Numbers: %s\n", formatList(f.Numbers))
	fmt.Fprintf(&b, "Instructions: %s\n", f.Instructions)
	fmt.Fprintf(&b, "Final stack state: %s %s\n", formatList(f.StackA), formatList(f.StackB))
	if f.Reason != nil {
		fmt.Fprintf(&b, "Reason: %s\n", f.Reason)
	}
	b.WriteString(failureSeparator + "\n")
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

func formatList(l []uint32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range l {
		if i != 0 {
			b.WriteString(", ")
		}
		fmt.Fprint(&b, v)
	}
	b.WriteByte(']')
	return b.String()
}

// FailureLog is an append-only log of failed trials safe for concurrent use.
// Entries are written in the order trials fail, not in the order they were
// submitted.
type FailureLog struct {
	mtx sync.Mutex
	w   io.Writer
	n   int
}

// NewFailureLog creates a log writing to w, nil w discards everything.
func NewFailureLog(w io.Writer) *FailureLog {
	if w == nil {
		w = io.Discard
	}
	return &FailureLog{w: w}
}

// Append writes a failure record to the log.
func (l *FailureLog) Append(f *Failure) error {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.n++
	_, err := f.WriteTo(l.w)
	return err
}

// Len returns the number of records appended.
func (l *FailureLog) Len() int {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return l.n
}
