package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/nspcc-dev/psv/pkg/runner"
	"gopkg.in/yaml.v3"
)

// Default configuration values.
const (
	DefaultWorkers          = 4
	DefaultFailureLog       = "error.log"
	DefaultProgressInterval = time.Second
	DefaultExecRate         = 10 * time.Millisecond
	DefaultPrometheusPort   = "2112"
	DefaultPprofPort        = "2113"
)

// Version is the version of psv, set at build time.
var Version string

// Config is the top level configuration structure.
type Config struct {
	ApplicationConfiguration ApplicationConfiguration `yaml:"ApplicationConfiguration"`
	Runner                   Runner                   `yaml:"Runner"`
	Benchmark                Benchmark                `yaml:"Benchmark"`
	Playback                 Playback                 `yaml:"Playback"`
}

// Runner configures push_swap program execution.
type Runner struct {
	// Executable is the path to push_swap program. ./push_swap is used if
	// it's empty and there is such a file.
	Executable   string          `yaml:"Executable"`
	Strategy     runner.Strategy `yaml:"Strategy"`
	PollInterval time.Duration   `yaml:"PollInterval"`
}

// Benchmark configures benchmark runs.
type Benchmark struct {
	Workers          int           `yaml:"Workers"`
	FailureLog       string        `yaml:"FailureLog"`
	ProgressInterval time.Duration `yaml:"ProgressInterval"`
	// HistoryPath is the path to the benchmark history DB, history is not
	// saved if it's empty.
	HistoryPath string `yaml:"HistoryPath"`
}

// Playback configures interactive program playback.
type Playback struct {
	// ExecRate is the delay between instructions during playback.
	ExecRate time.Duration `yaml:"ExecRate"`
}

// Default returns configuration with all defaults applied.
func Default() Config {
	return Config{
		ApplicationConfiguration: ApplicationConfiguration{
			LogLevel: "info",
			Prometheus: BasicService{
				Addresses: []string{":" + DefaultPrometheusPort},
			},
			Pprof: BasicService{
				Addresses: []string{":" + DefaultPprofPort},
			},
		},
		Runner: Runner{
			PollInterval: runner.DefaultPollInterval,
		},
		Benchmark: Benchmark{
			Workers:          DefaultWorkers,
			FailureLog:       DefaultFailureLog,
			ProgressInterval: DefaultProgressInterval,
		},
		Playback: Playback{
			ExecRate: DefaultExecRate,
		},
	}
}

// LoadFile loads config from the provided path. Values missing from the file
// keep their defaults.
func LoadFile(configPath string) (Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Config{}, fmt.Errorf("config '%s' doesn't exist", configPath)
	}

	configData, err := os.ReadFile(configPath)
	if err != nil {
		return Config{}, fmt.Errorf("unable to read config: %w", err)
	}

	config := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(configData))
	decoder.KnownFields(true)
	err = decoder.Decode(&config)
	if err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	err = config.Validate()
	if err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate checks Config for consistency.
func (c Config) Validate() error {
	if c.Benchmark.Workers <= 0 {
		return fmt.Errorf("invalid Benchmark.Workers: %d, must be positive", c.Benchmark.Workers)
	}
	if c.Benchmark.ProgressInterval <= 0 {
		return fmt.Errorf("invalid Benchmark.ProgressInterval: %s, must be positive", c.Benchmark.ProgressInterval)
	}
	if c.Runner.PollInterval <= 0 {
		return fmt.Errorf("invalid Runner.PollInterval: %s, must be positive", c.Runner.PollInterval)
	}
	if c.Playback.ExecRate < time.Millisecond || c.Playback.ExecRate > 50*time.Millisecond {
		return fmt.Errorf("invalid Playback.ExecRate: %s, must be between 1ms and 50ms", c.Playback.ExecRate)
	}
	return nil
}
