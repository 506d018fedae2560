/*
Package shell implements the interactive psv prompt. It lets user generate
numbers, obtain push_swap instructions for them and walk through the program
in both directions watching the stacks.
*/
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/nspcc-dev/psv/cli/benchmark"
	"github.com/nspcc-dev/psv/cli/options"
	"github.com/nspcc-dev/psv/pkg/config"
	"github.com/nspcc-dev/psv/pkg/runner"
	"github.com/nspcc-dev/psv/pkg/sequence"
	"github.com/nspcc-dev/psv/pkg/vm"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

const (
	sessionKey          = "session"
	readlineInstanceKey = "readlineKey"
	printLogoKey        = "printLogoKey"
)

var commands = []cli.Command{
	{
		Name:        "exit",
		Usage:       "Exit the prompt",
		Description: "Exit the prompt",
		Action:      handleExit,
	},
	{
		Name:      "numbers",
		Usage:     "Generate numbers to sort",
		UsageText: `numbers [<kind> [<args>...]]`,
		Description: `numbers [<kind> [<args>...]]
Without arguments current numbers are shown. Kinds:
  ordered <n>               0..n-1
  reverse <n>               n-1..0
  random <n>                shuffled 0..n-1
  range <n> [<min> <max>]   n distinct random numbers from [min, max]
                            ([-32768, 32767] by default)
  list <number>...          numbers given by user
  preset [<index>]          hardcoded sequence, list of presets is shown
                            if index is omitted
Example:
> numbers random 100`,
		Action: handleNumbers,
	},
	{
		Name:      "source",
		Usage:     "Select where instructions are taken from",
		UsageText: `source [manual <instructions>... | file <path> | exec [<path> [<strategy>]]]`,
		Description: `source [manual <instructions>... | file <path> | exec [<path> [<strategy>]]]
Without arguments current source is shown. Strategy is one of none, simple,
medium, complex or adaptive. Example:
> source exec ./push_swap medium`,
		Action: handleSource,
	},
	{
		Name:    "visualize",
		Aliases: []string{"load"},
		Usage:   "Obtain instructions for current numbers and load them",
		Description: `Starts obtaining instructions from the selected source in background,
use 'wait' to wait for the result or 'kill' to stop the program.`,
		Action: handleVisualize,
	},
	{
		Name:        "wait",
		Usage:       "Wait for instructions to be loaded",
		Description: "Wait for instructions to be loaded, Ctrl+C kills the program",
		Action:      handleWait,
	},
	{
		Name:        "kill",
		Usage:       "Stop the program and use its output so far",
		Description: "Stop the program and use its output so far",
		Action:      handleKill,
	},
	{
		Name:        "status",
		Usage:       "Show current state",
		Description: "Show current state",
		Action:      handleStatus,
	},
	{
		Name:      "step",
		Usage:     "Execute instructions",
		UsageText: `step [<n>]`,
		Description: `step [<n>]
Execute the next n (1 by default) instructions.`,
		Action: handleStep,
	},
	{
		Name:      "undo",
		Usage:     "Revert instructions",
		UsageText: `undo [<n>]`,
		Description: `undo [<n>]
Revert the last n (1 by default) executed instructions.`,
		Action: handleUndo,
	},
	{
		Name:      "skip",
		Usage:     "Move to the given instruction",
		UsageText: `skip <pc>`,
		Description: `skip <pc>
<pc> is mandatory parameter, example:
> skip 12`,
		Action: handleSkip,
	},
	{
		Name:        "rewind",
		Usage:       "Move to the program start",
		Description: "Move to the program start",
		Action:      handleRewind,
	},
	{
		Name:        "end",
		Usage:       "Move to the program end",
		Description: "Move to the program end",
		Action:      handleEnd,
	},
	{
		Name:      "play",
		Usage:     "Execute the rest of the program with a delay",
		UsageText: `play [<ms>]`,
		Description: `play [<ms>]
Execute instructions one by one waiting ms milliseconds (Playback.ExecRate by
default) between them. Ctrl+C stops playback.`,
		Action: handlePlay,
	},
	{
		Name:        "pc",
		Usage:       "Show current instruction",
		Description: "Show current instruction",
		Action:      handlePC,
	},
	{
		Name:        "stacks",
		Usage:       "Show stacks contents",
		Description: "Show stacks contents",
		Action:      handleStacks,
	},
	{
		Name:        "ops",
		Usage:       "Dump loaded instructions",
		Description: "Dump loaded instructions",
		Action:      handleOps,
	},
	{
		Name:        "args",
		Usage:       "Print current numbers as program arguments",
		Description: "Print current numbers as program arguments",
		Action:      handleArgs,
	},
	{
		Name:        "check",
		Usage:       "Check whether numbers are sorted",
		Description: "Check whether stack A is sorted and stack B is empty",
		Action:      handleCheck,
	},
	{
		Name:        "clear",
		Usage:       "Unload the program",
		Description: "Stop loading and unload the program",
		Action:      handleClear,
	},
	{
		Name:      "benchmark",
		Usage:     "Benchmark the selected executable",
		UsageText: `benchmark <numbers> <tests>`,
		Description: `benchmark <numbers> <tests>
Runs the selected push_swap executable on <tests> random permutations of
<numbers> numbers and reports statistics. Example:
> benchmark 100 50`,
		Action: handleBenchmark,
	},
}

var completer *readline.PrefixCompleter

func init() {
	var pcItems []readline.PrefixCompleterInterface
	for _, c := range commands {
		if !c.Hidden {
			pcItems = append(pcItems, readline.PcItem(c.Name))
			for _, a := range c.Aliases {
				pcItems = append(pcItems, readline.PcItem(a))
			}
		}
	}
	completer = readline.NewPrefixCompleter(pcItems...)
}

// Various errors.
var (
	ErrMissingParameter = errors.New("missing argument")
	ErrInvalidParameter = errors.New("can't parse argument")
	ErrNotReady         = errors.New("no program loaded")
	ErrNoNumbers        = errors.New("no numbers, use 'numbers' command")
	ErrBusy             = errors.New("instructions are being loaded, use 'wait' or 'kill'")
	ErrIdle             = errors.New("nothing is being loaded")
)

// Shell is an interactive prompt.
type Shell struct {
	shell *cli.App
}

// session is the state shared by command handlers.
type session struct {
	cfg     config.Config
	log     *zap.Logger
	vm      *vm.VM
	numbers []int64
	perm    []uint32
	source  runner.Source
	job     *job
	exit    bool
}

// job is a background instructions acquisition.
type job struct {
	cancel  context.CancelFunc
	done    chan struct{}
	started time.Time
	source  string
	perm    []uint32
	res     runner.Result
	err     error
}

// NewWithConfig returns new Shell instance using provided config.
func NewWithConfig(printLogotype bool, c *readline.Config, cfg config.Config, log *zap.Logger) (*Shell, error) {
	if c.AutoComplete == nil {
		// Autocomplete commands on TAB.
		c.AutoComplete = completer
	}
	if log == nil {
		log = zap.NewNop()
	}
	l, err := readline.NewEx(c)
	if err != nil {
		return nil, fmt.Errorf("failed to create readline instance: %w", err)
	}
	ctl := cli.NewApp()
	ctl.Name = "psv"

	// Note: need to set empty `ctl.HelpName` and `ctl.UsageText`, otherwise
	// `filepath.Base(os.Args[0])` will be used.
	ctl.HelpName = ""
	ctl.UsageText = ""

	ctl.Writer = l.Stdout()
	ctl.ErrWriter = l.Stderr()
	ctl.Version = config.Version
	ctl.Usage = "push_swap visualizer"

	// Override default error handler in order not to exit on error.
	ctl.ExitErrHandler = func(context *cli.Context, err error) {}
	ctl.CommandNotFound = func(c *cli.Context, cmd string) {
		writeErr(c.App.ErrWriter, fmt.Errorf("unknown command '%s', use 'help'", cmd))
	}

	ctl.Commands = commands

	s := &session{
		cfg:    cfg,
		log:    log,
		vm:     vm.New(),
		source: defaultSource(cfg),
	}
	ctl.Metadata = map[string]any{
		sessionKey:          s,
		readlineInstanceKey: l,
		printLogoKey:        printLogotype,
	}
	changePrompt(ctl)
	return &Shell{shell: ctl}, nil
}

// defaultSource is the configured executable or ./push_swap if there is one,
// manual input otherwise.
func defaultSource(cfg config.Config) runner.Source {
	path := cfg.Runner.Executable
	if path == "" {
		path, _ = runner.Detect()
	}
	if path == "" {
		return runner.Manual("")
	}
	return newExecutable(cfg, path, cfg.Runner.Strategy)
}

func newExecutable(cfg config.Config, path string, s runner.Strategy) runner.Executable {
	return runner.Executable{
		Path:         path,
		Strategy:     s,
		PollInterval: cfg.Runner.PollInterval,
	}
}

// StartShell is a CLI action starting the interactive prompt.
func StartShell(ctx *cli.Context) error {
	if ctx.NArg() != 0 {
		return cli.NewExitError(fmt.Errorf("unknown command: %s", ctx.Args().First()), 1)
	}
	cfg, err := options.GetConfigFromContext(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	// Logs would break the prompt, so they're only written to a file.
	log := zap.NewNop()
	if cfg.ApplicationConfiguration.LogPath != "" {
		var logCloser func() error
		log, _, logCloser, err = options.HandleLoggingParams(ctx.Bool("debug"), cfg.ApplicationConfiguration)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		if logCloser != nil {
			defer func() { _ = logCloser() }()
		}
		defer func() { _ = log.Sync() }()
	}
	sh, err := NewWithConfig(true, &readline.Config{}, cfg, log)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	return sh.Run()
}

func getSession(app *cli.App) *session {
	return app.Metadata[sessionKey].(*session)
}

func getReadlineInstanceFromContext(app *cli.App) *readline.Instance {
	return app.Metadata[readlineInstanceKey].(*readline.Instance)
}

func getPrintLogoFromContext(app *cli.App) bool {
	return app.Metadata[printLogoKey].(bool)
}

func checkVMIsReady(app *cli.App) bool {
	s := getSession(app)
	if s.job != nil {
		writeErr(app.ErrWriter, ErrBusy)
		return false
	}
	if !s.vm.Ready() {
		writeErr(app.ErrWriter, ErrNotReady)
		return false
	}
	return true
}

func checkIdle(app *cli.App) bool {
	if getSession(app).job != nil {
		writeErr(app.ErrWriter, ErrBusy)
		return false
	}
	return true
}

func handleExit(c *cli.Context) error {
	s := getSession(c.App)
	stopJob(c.App)
	s.exit = true
	fmt.Fprintln(c.App.Writer, "Bye!")
	return nil
}

func handleNumbers(c *cli.Context) error {
	s := getSession(c.App)
	args := c.Args()
	if len(args) == 0 {
		if s.numbers == nil {
			return ErrNoNumbers
		}
		printNumbers(c.App.Writer, s)
		return nil
	}
	if !checkIdle(c.App) {
		return nil
	}
	var (
		gen sequence.Generator
		err error
	)
	switch kind, rest := args[0], args[1:]; kind {
	case "ordered", "reverse", "random":
		var n int
		if n, err = parseCount(rest); err != nil {
			return err
		}
		switch kind {
		case "ordered":
			gen = sequence.Ordered{N: n}
		case "reverse":
			gen = sequence.ReverseOrdered{N: n}
		default:
			gen = sequence.Random{N: n}
		}
	case "range":
		var n int
		if n, err = parseCount(rest); err != nil {
			return err
		}
		g := sequence.RandomRanged{Min: sequence.RangeMin, Max: sequence.RangeMax, N: n}
		if len(rest) > 1 {
			if len(rest) != 3 {
				return fmt.Errorf("%w: <min> <max>", ErrMissingParameter)
			}
			if g.Min, err = strconv.ParseInt(rest[1], 10, 64); err != nil {
				return fmt.Errorf("%w: %s", ErrInvalidParameter, err)
			}
			if g.Max, err = strconv.ParseInt(rest[2], 10, 64); err != nil {
				return fmt.Errorf("%w: %s", ErrInvalidParameter, err)
			}
		}
		gen = g
	case "list":
		gen = sequence.Arbitrary{Text: strings.Join(rest, " ")}
	case "preset":
		if len(rest) == 0 {
			for i, p := range sequence.Presets {
				fmt.Fprintf(c.App.Writer, "%d: %s (%d numbers)\n", i, p.Name, len(p.Numbers))
			}
			return nil
		}
		i, err := strconv.Atoi(rest[0])
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidParameter, err)
		}
		gen = sequence.Preset{Index: i}
	default:
		return fmt.Errorf("%w: unknown kind '%s'", ErrInvalidParameter, kind)
	}

	nums, err := gen.Numbers()
	if err != nil {
		return err
	}
	s.numbers = nums
	s.perm = sequence.Normalize(nums)
	// The program loaded belongs to the previous numbers.
	s.vm.Clear()
	s.log.Debug("numbers generated", zap.Stringer("generator", gen), zap.Int("amount", len(nums)))
	printNumbers(c.App.Writer, s)
	return nil
}

func parseCount(args []string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: <n>", ErrMissingParameter)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidParameter, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: negative amount %d", ErrInvalidParameter, n)
	}
	return n, nil
}

func printNumbers(w io.Writer, s *session) {
	fmt.Fprintf(w, "Numbers: %s\n", sequence.Join(s.numbers))
	fmt.Fprintf(w, "Amount: %d, disorder: %.2f%%\n", len(s.numbers), sequence.Disorder(s.perm)*100)
}

func handleSource(c *cli.Context) error {
	s := getSession(c.App)
	args := c.Args()
	if len(args) == 0 {
		printSource(c.App.Writer, s.source)
		return nil
	}
	if !checkIdle(c.App) {
		return nil
	}
	switch kind, rest := args[0], args[1:]; kind {
	case "manual":
		s.source = runner.Manual(strings.Join(rest, " "))
	case "file":
		if len(rest) != 1 {
			return fmt.Errorf("%w: <path>", ErrMissingParameter)
		}
		s.source = runner.File(rest[0])
	case "exec":
		var (
			path     = s.cfg.Runner.Executable
			strategy = s.cfg.Runner.Strategy
			err      error
		)
		if len(rest) > 0 {
			path = rest[0]
		}
		if len(rest) > 1 {
			if strategy, err = runner.ParseStrategy(rest[1]); err != nil {
				return fmt.Errorf("%w: %s", ErrInvalidParameter, err)
			}
		}
		if path == "" {
			var ok bool
			if path, ok = runner.Detect(); !ok {
				return benchmark.ErrNoExecutable
			}
		}
		s.source = newExecutable(s.cfg, path, strategy)
	default:
		return fmt.Errorf("%w: unknown source '%s'", ErrInvalidParameter, kind)
	}
	printSource(c.App.Writer, s.source)
	return nil
}

func printSource(w io.Writer, src runner.Source) {
	switch src := src.(type) {
	case runner.Executable:
		fmt.Fprintf(w, "Source: %s (%s, strategy: %s)\n", src, src.Path, src.Strategy)
	case runner.File:
		fmt.Fprintf(w, "Source: %s (%s)\n", src, string(src))
	default:
		fmt.Fprintf(w, "Source: %s\n", src)
	}
}

func handleVisualize(c *cli.Context) error {
	s := getSession(c.App)
	if !checkIdle(c.App) {
		return nil
	}
	if s.perm == nil {
		return ErrNoNumbers
	}
	ctx, cancel := context.WithCancel(context.Background())
	j := &job{
		cancel:  cancel,
		done:    make(chan struct{}),
		started: time.Now(),
		source:  s.source.String(),
		perm:    s.perm,
	}
	src, numbers := s.source, s.numbers
	go func() {
		defer close(j.done)
		j.res, j.err = src.Instructions(ctx, numbers)
	}()
	s.job = j
	s.vm.Clear()
	s.log.Debug("loading instructions", zap.String("source", j.source), zap.Int("amount", len(numbers)))
	fmt.Fprintf(c.App.Writer, "Loading instructions (%s)...\n", j.source)
	return nil
}

// pollJob loads the acquisition result if it's ready.
func pollJob(app *cli.App) {
	s := getSession(app)
	if s.job == nil {
		return
	}
	select {
	case <-s.job.done:
		finishJob(app)
	default:
	}
}

// finishJob loads the result of a completed acquisition.
func finishJob(app *cli.App) {
	s := getSession(app)
	j := s.job
	s.job = nil
	j.cancel()
	if j.err != nil {
		s.log.Debug("failed to load instructions", zap.Error(j.err))
		writeErr(app.ErrWriter, j.err)
		return
	}
	if j.res.Killed {
		fmt.Fprintln(app.Writer, "Program was killed, its output so far is used")
	}
	if err := s.vm.Load(j.perm, j.res.Text); err != nil {
		writeErr(app.ErrWriter, fmt.Errorf("failed to parse instructions: %w", err))
		return
	}
	fmt.Fprintf(app.Writer, "READY: loaded %d instructions (%s in %s)\n",
		s.vm.Len(), j.source, j.res.Duration.Round(time.Millisecond))
}

// stopJob kills a running acquisition and loads its output.
func stopJob(app *cli.App) {
	s := getSession(app)
	if s.job == nil {
		return
	}
	s.job.cancel()
	<-s.job.done
	finishJob(app)
}

func handleWait(c *cli.Context) error {
	s := getSession(c.App)
	if s.job == nil {
		// Already loaded (or failed) before the command.
		return nil
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	select {
	case <-s.job.done:
		finishJob(c.App)
	case <-ctx.Done():
		stopJob(c.App)
	}
	return nil
}

func handleKill(c *cli.Context) error {
	if getSession(c.App).job == nil {
		return ErrIdle
	}
	stopJob(c.App)
	return nil
}

func handleStatus(c *cli.Context) error {
	s := getSession(c.App)
	w := c.App.Writer
	printSource(w, s.source)
	if s.numbers != nil {
		fmt.Fprintf(w, "Numbers: %d\n", len(s.numbers))
	} else {
		fmt.Fprintln(w, "Numbers: none")
	}
	switch {
	case s.job != nil:
		fmt.Fprintf(w, "State: loading for %s\n", time.Since(s.job.started).Round(time.Millisecond))
	case s.vm.Ready():
		fmt.Fprintf(w, "State: ready, instruction %d of %d\n", s.vm.PC(), s.vm.Len())
	default:
		fmt.Fprintln(w, "State: idle")
	}
	return nil
}

func parseOptionalCount(args cli.Args) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	return parseCount(args)
}

func handleStep(c *cli.Context) error {
	if !checkVMIsReady(c.App) {
		return nil
	}
	n, err := parseOptionalCount(c.Args())
	if err != nil {
		return err
	}
	v := getSession(c.App).vm
	// PC() + n may overflow.
	v.SkipTo(v.PC() + min(n, v.Len()-v.PC()))
	return handlePC(c)
}

func handleUndo(c *cli.Context) error {
	if !checkVMIsReady(c.App) {
		return nil
	}
	n, err := parseOptionalCount(c.Args())
	if err != nil {
		return err
	}
	v := getSession(c.App).vm
	v.SkipTo(v.PC() - n)
	return handlePC(c)
}

func handleSkip(c *cli.Context) error {
	if !checkVMIsReady(c.App) {
		return nil
	}
	args := c.Args()
	if len(args) != 1 {
		return fmt.Errorf("%w: <pc>", ErrMissingParameter)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidParameter, err)
	}
	getSession(c.App).vm.SkipTo(n)
	return handlePC(c)
}

func handleRewind(c *cli.Context) error {
	if !checkVMIsReady(c.App) {
		return nil
	}
	getSession(c.App).vm.SkipTo(0)
	return handlePC(c)
}

func handleEnd(c *cli.Context) error {
	if !checkVMIsReady(c.App) {
		return nil
	}
	v := getSession(c.App).vm
	v.SkipTo(v.Len())
	return handlePC(c)
}

func handlePlay(c *cli.Context) error {
	if !checkVMIsReady(c.App) {
		return nil
	}
	s := getSession(c.App)
	rate := s.cfg.Playback.ExecRate
	if args := c.Args(); len(args) > 0 {
		ms, err := strconv.Atoi(args[0])
		if err != nil || ms <= 0 {
			return fmt.Errorf("%w: delay must be a positive number of milliseconds", ErrInvalidParameter)
		}
		rate = time.Duration(ms) * time.Millisecond
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	t := time.NewTicker(rate)
	defer t.Stop()
loop:
	for {
		ip, op, ok := s.vm.NextInstr()
		if !ok {
			break
		}
		select {
		case <-ctx.Done():
			fmt.Fprintln(c.App.Writer, "Playback stopped")
			break loop
		case <-t.C:
			s.vm.Step()
			fmt.Fprintf(c.App.Writer, "%d: %s\n", ip, op)
		}
	}
	fmt.Fprintln(c.App.Writer, s.vm.DumpStacks())
	return handlePC(c)
}

func handlePC(c *cli.Context) error {
	if !checkVMIsReady(c.App) {
		return nil
	}
	v := getSession(c.App).vm
	if ip, op, ok := v.NextInstr(); ok {
		fmt.Fprintf(c.App.Writer, "instruction pointer at %d (%s)\n", ip, op)
	} else {
		fmt.Fprintf(c.App.Writer, "execution has finished (%d instructions)\n", v.Len())
	}
	return nil
}

func handleStacks(c *cli.Context) error {
	if !checkVMIsReady(c.App) {
		return nil
	}
	fmt.Fprintln(c.App.Writer, getSession(c.App).vm.DumpStacks())
	return nil
}

func handleOps(c *cli.Context) error {
	if !checkVMIsReady(c.App) {
		return nil
	}
	getSession(c.App).vm.PrintOps(c.App.Writer)
	return nil
}

func handleArgs(c *cli.Context) error {
	s := getSession(c.App)
	if s.numbers == nil {
		return ErrNoNumbers
	}
	fmt.Fprintln(c.App.Writer, sequence.Join(s.numbers))
	return nil
}

func handleCheck(c *cli.Context) error {
	if !checkVMIsReady(c.App) {
		return nil
	}
	if err := getSession(c.App).vm.Validate(); err != nil {
		fmt.Fprintf(c.App.Writer, "KO: %s\n", err)
		return nil
	}
	fmt.Fprintln(c.App.Writer, "OK")
	return nil
}

func handleClear(c *cli.Context) error {
	s := getSession(c.App)
	if s.job != nil {
		s.job.cancel()
		<-s.job.done
		s.job = nil
	}
	s.vm.Clear()
	return nil
}

func handleBenchmark(c *cli.Context) error {
	if !checkIdle(c.App) {
		return nil
	}
	s := getSession(c.App)
	args := c.Args()
	if len(args) != 2 {
		return fmt.Errorf("%w: <numbers> <tests>", ErrMissingParameter)
	}
	numbers, err := strconv.Atoi(args[0])
	if err != nil || numbers < 0 {
		return fmt.Errorf("%w: bad amount of numbers '%s'", ErrInvalidParameter, args[0])
	}
	tests, err := strconv.Atoi(args[1])
	if err != nil || tests <= 0 {
		return fmt.Errorf("%w: bad number of tests '%s'", ErrInvalidParameter, args[1])
	}
	p := benchmark.Params{
		Numbers:  numbers,
		Tests:    tests,
		Progress: true,
	}
	if e, ok := s.source.(runner.Executable); ok {
		p.Executable = e.Path
		p.Strategy = e.Strategy
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	_, err = benchmark.Run(ctx, c.App.Writer, s.cfg, p, s.log)
	return err
}

func changePrompt(app *cli.App) {
	s := getSession(app)
	l := getReadlineInstanceFromContext(app)
	switch {
	case s.job != nil:
		l.SetPrompt("\033[32mpsv (loading) >\033[0m ")
	case s.vm.Ready():
		l.SetPrompt(fmt.Sprintf("\033[32mpsv %d/%d >\033[0m ", s.vm.PC(), s.vm.Len()))
	default:
		l.SetPrompt("\033[32mpsv >\033[0m ")
	}
}

// Run waits for user input from Stdin and executes the passed command.
func (c *Shell) Run() error {
	if getPrintLogoFromContext(c.shell) {
		printLogo(c.shell.Writer)
	}
	l := getReadlineInstanceFromContext(c.shell)
	defer func() { _ = l.Close() }()
	for {
		line, err := l.Readline()
		if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
			stopJob(c.shell)
			return nil // OK, stop execution.
		}
		if err != nil {
			stopJob(c.shell)
			return fmt.Errorf("failed to read input: %w", err) // Critical error, stop execution.
		}

		pollJob(c.shell)
		args, err := shellquote.Split(line)
		if err != nil {
			writeErr(c.shell.ErrWriter, fmt.Errorf("failed to parse arguments: %w", err))
			continue // Not a critical error, continue execution.
		}
		if len(args) == 0 {
			changePrompt(c.shell)
			continue
		}

		err = c.shell.Run(append([]string{"psv"}, args...))
		if err != nil {
			writeErr(c.shell.ErrWriter, err) // Various command/flags parsing errors and execution errors.
		}
		if getSession(c.shell).exit {
			return nil
		}
		changePrompt(c.shell)
	}
}

const logo = `

 _ __  _____   __
| '_ \/ __\ \ / /
| |_) \__ \\ V /
| .__/|___/ \_/
|_|
`

func printLogo(w io.Writer) {
	fmt.Fprint(w, logo)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Type 'help' for the list of commands.")
	fmt.Fprintln(w)
}

func writeErr(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %s\n", err)
}
