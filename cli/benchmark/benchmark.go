/*
Package benchmark contains the benchmark and history CLI commands.
*/
package benchmark

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/nspcc-dev/psv/cli/input"
	"github.com/nspcc-dev/psv/cli/options"
	"github.com/nspcc-dev/psv/pkg/bench"
	"github.com/nspcc-dev/psv/pkg/bench/history"
	"github.com/nspcc-dev/psv/pkg/config"
	"github.com/nspcc-dev/psv/pkg/runner"
	"github.com/nspcc-dev/psv/pkg/services/metrics"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

// ErrNoExecutable is returned when no push_swap program can be found.
var ErrNoExecutable = errors.New("no push_swap executable, use --exec flag, Runner.Executable setting or put it into the current directory")

// Params are the benchmark parameters usually given on the command line.
// Zero values are taken from the configuration.
type Params struct {
	Numbers    int
	Tests      int
	Executable string
	Strategy   runner.Strategy
	Workers    int
	FailureLog string
	History    string
	// Progress enables "Tests left" reports.
	Progress bool
}

// NewCommands returns benchmark-related commands.
func NewCommands() []cli.Command {
	benchFlags := append([]cli.Flag{
		cli.IntFlag{
			Name:  "numbers, n",
			Usage: "amount of numbers in every test (asked for if not set)",
		},
		cli.IntFlag{
			Name:  "tests, t",
			Usage: "number of tests (asked for if not set)",
		},
		cli.StringFlag{
			Name:  "exec, e",
			Usage: "path to push_swap executable (Runner.Executable or ./push_swap by default)",
		},
		cli.StringFlag{
			Name:  "strategy, s",
			Usage: "strategy flag passed to push_swap: none, simple, medium, complex or adaptive",
		},
		cli.IntFlag{
			Name:  "workers, w",
			Usage: "number of tests running concurrently (Benchmark.Workers by default)",
		},
		cli.StringFlag{
			Name:  "log, l",
			Usage: "failure log file (Benchmark.FailureLog by default)",
		},
		cli.StringFlag{
			Name:  "history",
			Usage: "file to save run summary to (Benchmark.HistoryPath by default)",
		},
		cli.BoolFlag{
			Name:  "quiet, q",
			Usage: "don't print progress",
		},
	}, options.Common...)
	historyFlags := append([]cli.Flag{
		cli.StringFlag{
			Name:  "history",
			Usage: "history file (Benchmark.HistoryPath by default)",
		},
	}, options.Common...)
	return []cli.Command{
		{
			Name:      "benchmark",
			Aliases:   []string{"bench", "b"},
			Usage:     "Run push_swap on many random permutations and check its output",
			UsageText: "psv benchmark [-n numbers] [-t tests] [-e path] [-s strategy] [-w workers] [-l file] [--history file] [-q] [--config-file file] [-d]",
			Action:    benchmarkCmd,
			Flags:     benchFlags,
		},
		{
			Name:      "history",
			Usage:     "Show saved benchmark results",
			UsageText: "psv history [--history file] [--config-file file]",
			Action:    historyCmd,
			Flags:     historyFlags,
		},
	}
}

func benchmarkCmd(ctx *cli.Context) error {
	if err := cmdargsNone(ctx); err != nil {
		return err
	}
	cfg, err := options.GetConfigFromContext(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	log, _, logCloser, err := options.HandleLoggingParams(ctx.Bool("debug"), cfg.ApplicationConfiguration)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if logCloser != nil {
		defer func() { _ = logCloser() }()
	}
	defer func() { _ = log.Sync() }()

	strategy, err := runner.ParseStrategy(ctx.String("strategy"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	p := Params{
		Numbers:    ctx.Int("numbers"),
		Tests:      ctx.Int("tests"),
		Executable: ctx.String("exec"),
		Strategy:   strategy,
		Workers:    ctx.Int("workers"),
		FailureLog: ctx.String("log"),
		History:    ctx.String("history"),
		Progress:   !ctx.Bool("quiet"),
	}
	if p.Numbers <= 0 {
		p.Numbers, err = input.ReadPositiveInt("Amount of numbers: ")
		if err != nil {
			return cli.NewExitError(fmt.Errorf("failed to read amount of numbers: %w", err), 1)
		}
	}
	if p.Tests <= 0 {
		p.Tests, err = input.ReadPositiveInt("Number of tests: ")
		if err != nil {
			return cli.NewExitError(fmt.Errorf("failed to read number of tests: %w", err), 1)
		}
	}

	prometheus := metrics.NewPrometheusService(cfg.ApplicationConfiguration.Prometheus, log)
	pprof := metrics.NewPprofService(cfg.ApplicationConfiguration.Pprof, log)
	prometheus.Start()
	pprof.Start()
	defer pprof.ShutDown()
	defer prometheus.ShutDown()

	grace, cancel := newGraceContext()
	defer cancel()
	_, err = Run(grace, ctx.App.Writer, cfg, p, log)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}

func cmdargsNone(ctx *cli.Context) error {
	if ctx.NArg() != 0 {
		return cli.NewExitError(fmt.Errorf("unexpected arguments: %v", ctx.Args()), 1)
	}
	return nil
}

// newGraceContext returns a context cancelled on SIGINT or SIGTERM.
func newGraceContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// Run performs a benchmark with parameters p completed by cfg printing the
// results to w. The failure log is truncated before the run. The summary is
// saved to the history if its path is given by p or cfg.
func Run(ctx context.Context, w io.Writer, cfg config.Config, p Params, log *zap.Logger) (*bench.Summary, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if p.Executable == "" {
		p.Executable = cfg.Runner.Executable
	}
	if p.Executable == "" {
		var ok bool
		if p.Executable, ok = runner.Detect(); !ok {
			return nil, ErrNoExecutable
		}
	}
	if p.Strategy == runner.None {
		p.Strategy = cfg.Runner.Strategy
	}
	if p.Workers <= 0 {
		p.Workers = cfg.Benchmark.Workers
	}
	if p.FailureLog == "" {
		p.FailureLog = cfg.Benchmark.FailureLog
	}
	if p.History == "" {
		p.History = cfg.Benchmark.HistoryPath
	}

	f, err := os.Create(p.FailureLog)
	if err != nil {
		return nil, fmt.Errorf("failed to create failure log: %w", err)
	}
	defer f.Close()

	bcfg := bench.Config{
		Numbers: p.Numbers,
		Tests:   p.Tests,
		Workers: p.Workers,
		Executable: runner.Executable{
			Path:     p.Executable,
			Strategy: p.Strategy,
		},
		ProgressInterval: cfg.Benchmark.ProgressInterval,
	}
	o := bench.New(bcfg, f, log)
	if p.Progress {
		o.SetProgressWriter(w)
	}
	started := time.Now()
	s, err := o.Run(ctx)
	if err != nil {
		return nil, err
	}
	printSummary(w, s, p.FailureLog)

	if p.History != "" {
		if err := saveRun(p.History, history.NewRun(started, bcfg, s)); err != nil {
			log.Error("failed to save benchmark history", zap.String("path", p.History), zap.Error(err))
		}
	}
	return s, nil
}

func printSummary(w io.Writer, s *bench.Summary, failureLog string) {
	fmt.Fprintf(w, "Tests: %d, passed: %d, failed: %d", s.Tests, s.Passed, s.Aborted)
	if s.Skipped != 0 {
		fmt.Fprintf(w, ", not started: %d", s.Skipped)
	}
	fmt.Fprintf(w, " (%s)\n", s.Duration.Round(time.Millisecond))
	fmt.Fprintln(w, s)
	if s.Aborted != 0 {
		fmt.Fprintf(w, "Failed tests are written to %s\n", failureLog)
	}
}

func saveRun(path string, r history.Run) error {
	st, err := history.Open(path)
	if err != nil {
		return err
	}
	err = st.Put(r)
	if cerr := st.Close(); err == nil {
		err = cerr
	}
	return err
}

func historyCmd(ctx *cli.Context) error {
	if err := cmdargsNone(ctx); err != nil {
		return err
	}
	cfg, err := options.GetConfigFromContext(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	path := ctx.String("history")
	if path == "" {
		path = cfg.Benchmark.HistoryPath
	}
	if path == "" {
		return cli.NewExitError(errors.New("no history file, use --history flag or Benchmark.HistoryPath setting"), 1)
	}
	if _, err := os.Stat(path); err != nil {
		return cli.NewExitError(fmt.Errorf("can't open history: %w", err), 1)
	}
	st, err := history.Open(path)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer st.Close()
	runs, err := st.List()
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	printHistory(ctx.App.Writer, runs)
	return nil
}

func printHistory(w io.Writer, runs []history.Run) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = tw.Write([]byte("ID\tSTARTED\tNUMBERS\tTESTS\tPASSED\tFAILED\tMIN\tAVG\tMAX\tSTRATEGY\n"))
	for _, r := range runs {
		stats := "-\t-\t-"
		if r.Passed != 0 {
			stats = fmt.Sprintf("%d\t%.2f\t%d", r.Min, r.Avg, r.Max)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%s\t%s\n", r.ID, r.Started.Format(time.DateTime),
			r.Numbers, r.Tests, r.Passed, r.Aborted, stats, r.Strategy)
	}
	_ = tw.Flush()
}
