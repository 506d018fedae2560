/*
Package bench implements concurrent benchmarking of push_swap executables. Every
trial runs the program on a random permutation, replays its output and checks
whether the result is sorted. Trials are distributed among a fixed number of
workers, failures are written to a shared log.
*/
package bench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/nspcc-dev/psv/pkg/runner"
	"github.com/nspcc-dev/psv/pkg/sequence"
	"github.com/nspcc-dev/psv/pkg/vm"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

const (
	// DefaultWorkers is the default number of concurrent trials.
	DefaultWorkers = 4
	// DefaultProgressInterval is the default interval of progress reports.
	DefaultProgressInterval = time.Second
)

// ErrInvalidConfig is returned from Run for unusable benchmark parameters.
var ErrInvalidConfig = errors.New("invalid benchmark configuration")

// Config contains benchmark parameters.
type Config struct {
	// Numbers is the size of every permutation.
	Numbers int
	// Tests is the number of trials.
	Tests int
	// Workers is the number of concurrently running trials.
	Workers int
	// Executable is the program being tested.
	Executable runner.Executable
	// ProgressInterval is the interval between progress reports.
	ProgressInterval time.Duration
}

// Trial is a single benchmark job.
type Trial struct {
	Index   int
	Numbers []uint32
}

// Outcome is the result of a Trial. Exactly one of Count and Failure is
// meaningful: Failure is nil for successful trials.
type Outcome struct {
	Trial   int
	Count   int
	Failure *Failure
}

// Passed checks whether the trial sorted its numbers.
func (o Outcome) Passed() bool {
	return o.Failure == nil
}

// Summary contains aggregated benchmark results. Min, Avg and Max are
// computed over passed trials only and are valid if Passed is not zero.
type Summary struct {
	Tests   int
	Passed  int
	Aborted int
	// Skipped is the number of trials that were never started because the
	// benchmark was cancelled.
	Skipped  int
	Min      int
	Avg      float64
	Max      int
	Duration time.Duration
}

// HasStats checks whether there are statistics to report.
func (s *Summary) HasStats() bool {
	return s.Passed > 0
}

// String implements the fmt.Stringer interface.
func (s *Summary) String() string {
	if !s.HasStats() {
		return "No successful tests, statistics are unavailable"
	}
	return fmt.Sprintf("Min: %d, Average: %.2f, Max: %d", s.Min, s.Avg, s.Max)
}

// Orchestrator runs benchmark trials.
type Orchestrator struct {
	cfg      Config
	log      *zap.Logger
	results  *Results
	failures *FailureLog
	queued   atomic.Int64
	aborted  atomic.Int64
	started  atomic.Int64
	progress io.Writer
	generate func(n int) []uint32
}

// New creates an Orchestrator. Failed trials are written to failureLog which
// may be nil.
func New(cfg Config, failureLog io.Writer, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.ProgressInterval <= 0 {
		cfg.ProgressInterval = DefaultProgressInterval
	}
	return &Orchestrator{
		cfg:      cfg,
		log:      log,
		results:  NewResults(),
		failures: NewFailureLog(failureLog),
		generate: randomPermutation,
	}
}

// SetProgressWriter sets the destination of periodic "Tests left" reports,
// reports are not printed by default.
func (o *Orchestrator) SetProgressWriter(w io.Writer) {
	o.progress = w
}

// Results returns instruction counts of successful trials.
func (o *Orchestrator) Results() *Results {
	return o.results
}

// Queued returns the number of trials not yet picked by workers.
func (o *Orchestrator) Queued() int {
	return int(o.queued.Load())
}

func randomPermutation(n int) []uint32 {
	nums, _ := sequence.Random{N: n}.Numbers()
	return sequence.Normalize(nums)
}

// Run performs all trials and returns the summary. Cancelling ctx stops
// dispatching trials that haven't started yet, trials already running are
// completed. An Orchestrator is not supposed to be run more than once.
func (o *Orchestrator) Run(ctx context.Context) (*Summary, error) {
	if o.cfg.Tests <= 0 {
		return nil, fmt.Errorf("%w: number of tests must be positive", ErrInvalidConfig)
	}
	if o.cfg.Numbers < 0 {
		return nil, fmt.Errorf("%w: negative amount of numbers", ErrInvalidConfig)
	}
	if o.cfg.Executable.Path == "" {
		return nil, runner.ErrNoExecutable
	}

	var (
		start = time.Now()
		jobs  = make(chan Trial)
		wg    sync.WaitGroup
	)
	o.queued.Store(int64(o.cfg.Tests))
	updateQueuedMetric(int64(o.cfg.Tests))
	o.log.Info("starting benchmark",
		zap.Int("numbers", o.cfg.Numbers),
		zap.Int("tests", o.cfg.Tests),
		zap.Int("workers", o.cfg.Workers),
		zap.String("executable", o.cfg.Executable.Path),
		zap.Stringer("strategy", o.cfg.Executable.Strategy))
	o.reportProgress()

	for range o.cfg.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.worker(jobs)
		}()
	}
	go o.dispatch(ctx, jobs)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	ticker := time.NewTicker(o.cfg.ProgressInterval)
	defer ticker.Stop()
loop:
	for {
		select {
		case <-done:
			break loop
		case <-ticker.C:
			o.reportProgress()
		}
	}

	s := &Summary{
		Tests:    o.cfg.Tests,
		Passed:   o.results.Len(),
		Aborted:  int(o.aborted.Load()),
		Skipped:  o.cfg.Tests - int(o.started.Load()),
		Duration: time.Since(start),
	}
	s.Min, s.Avg, s.Max, _ = o.results.Stats()
	o.log.Info("benchmark finished",
		zap.Int("passed", s.Passed),
		zap.Int("aborted", s.Aborted),
		zap.Int("skipped", s.Skipped),
		zap.Duration("duration", s.Duration))
	return s, nil
}

func (o *Orchestrator) dispatch(ctx context.Context, jobs chan<- Trial) {
	defer close(jobs)
	for i := range o.cfg.Tests {
		if ctx.Err() != nil {
			o.cancelled(i)
			return
		}
		t := Trial{Index: i, Numbers: o.generate(o.cfg.Numbers)}
		select {
		case jobs <- t:
		case <-ctx.Done():
			o.cancelled(i)
			return
		}
	}
}

// cancelled drops trials starting from i, they're not queued anymore.
func (o *Orchestrator) cancelled(i int) {
	o.queued.Store(0)
	updateQueuedMetric(0)
	o.log.Info("benchmark cancelled", zap.Int("not started", o.cfg.Tests-i))
}

func (o *Orchestrator) worker(jobs <-chan Trial) {
	for t := range jobs {
		o.started.Inc()
		updateQueuedMetric(o.queued.Dec())
		out := o.runTrial(t)
		if out.Passed() {
			o.results.Record(out.Trial, out.Count)
			addPassedTrialMetric(out.Count)
			continue
		}
		o.aborted.Inc()
		addFailedTrialMetric()
		o.log.Debug("trial failed", zap.Int("trial", out.Trial), zap.Error(out.Failure.Reason))
		if err := o.failures.Append(out.Failure); err != nil {
			o.log.Error("can't write failure log", zap.Error(err))
		}
	}
}

// runTrial never returns an error, every problem is reported as a failed
// Outcome.
func (o *Orchestrator) runTrial(t Trial) Outcome {
	f := &Failure{Trial: t.Index, Numbers: t.Numbers}
	text, err := o.cfg.Executable.RunToCompletion(sequence.FromPermutation(t.Numbers))
	if err != nil {
		f.Reason = err
		return Outcome{Trial: t.Index, Failure: f}
	}
	f.Instructions = text

	v := vm.New()
	if err := v.Load(t.Numbers, text); err != nil {
		f.Reason = err
		return Outcome{Trial: t.Index, Failure: f}
	}
	v.SkipTo(v.Len())
	if err := v.Validate(); err != nil {
		f.StackA = v.StackA().Values()
		f.StackB = v.StackB().Values()
		f.Reason = err
		return Outcome{Trial: t.Index, Failure: f}
	}
	return Outcome{Trial: t.Index, Count: v.PC()}
}

func (o *Orchestrator) reportProgress() {
	if o.progress == nil {
		return
	}
	fmt.Fprintf(o.progress, "Tests left: %d\n", o.queued.Load())
}
