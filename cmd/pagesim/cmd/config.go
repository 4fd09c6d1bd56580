package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sarchlab/pagesim/memory"
	"github.com/sarchlab/pagesim/simulation"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const envPrefix = "PAGESIM_"

const defaultEnvFile = ".env"

type config struct {
	tlbEntries  int
	frames      int
	strict      bool
	tracePath   string
	recordPath  string
	monitor     bool
	monitorPort int
	openBrowser bool
}

func addFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.Int("tlb-entries", 16, "number of entries in the TLB")
	flags.Int("frames", 256, "number of frames in the physical memory")
	flags.Bool("strict", false,
		"fail on malformed address lines instead of reading them as 0")
	flags.String("trace", "",
		"write a trace line per page fault and per translation to this file")
	flags.String("record", "",
		"record translations into the SQLite database <record>.sqlite3, "+
			"or into ClickHouse if <record> is a clickhouse:// DSN")
	flags.Bool("monitor", false, "serve the monitoring API while running")
	flags.Int("monitor-port", 0,
		"port of the monitoring server, random if 0")
	flags.Bool("open-browser", false, "open the monitoring page in a browser")
	flags.String("env-file", defaultEnvFile,
		"file with PAGESIM_* defaults, ignored if missing")
}

// envName maps a flag name to the variable that provides its default, e.g.
// tlb-entries to PAGESIM_TLB_ENTRIES.
func envName(flag string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

// applyEnv sets every flag that was not given on the command line from its
// environment variable, if any.
func applyEnv(cmd *cobra.Command) error {
	var errs []error

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			return
		}

		value, ok := os.LookupEnv(envName(f.Name))
		if !ok {
			return
		}

		err := cmd.Flags().Set(f.Name, value)
		if err != nil {
			errs = append(errs,
				fmt.Errorf("%s: %w", envName(f.Name), err))
		}
	})

	return errors.Join(errs...)
}

// envFileFromArgs finds --env-file before flags are parsed, since the file
// has to be loaded first.
func envFileFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--" {
			break
		}

		if value, ok := strings.CutPrefix(arg, "--env-file="); ok {
			return value
		}

		if arg == "--env-file" && i+1 < len(args) {
			return args[i+1]
		}
	}

	return defaultEnvFile
}

// loadEnvFile loads variables that are not already set in the environment.
func loadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}

	return nil
}

func configFromFlags(cmd *cobra.Command) config {
	flags := cmd.Flags()
	cfg := config{}

	cfg.tlbEntries, _ = flags.GetInt("tlb-entries")
	cfg.frames, _ = flags.GetInt("frames")
	cfg.strict, _ = flags.GetBool("strict")
	cfg.tracePath, _ = flags.GetString("trace")
	cfg.recordPath, _ = flags.GetString("record")
	cfg.monitor, _ = flags.GetBool("monitor")
	cfg.monitorPort, _ = flags.GetInt("monitor-port")
	cfg.openBrowser, _ = flags.GetBool("open-browser")

	return cfg
}

func (c config) validate() error {
	if c.tlbEntries <= 0 {
		return fmt.Errorf("%w: --tlb-entries must be positive",
			ErrInvalidArguments)
	}

	if c.frames <= 0 || c.frames > 256 {
		return fmt.Errorf("%w: --frames must be in [1, 256]",
			ErrInvalidArguments)
	}

	if c.openBrowser && !c.monitor {
		return fmt.Errorf("%w: --open-browser requires --monitor",
			ErrInvalidArguments)
	}

	return nil
}

// builder turns the configuration into a simulation builder. The returned
// function closes the trace file, if any.
func (c config) builder(
	backingStore *memory.BackingStore,
) (simulation.Builder, func(), error) {
	closeTrace := func() {}

	if err := c.validate(); err != nil {
		return simulation.Builder{}, closeTrace, err
	}

	b := simulation.MakeBuilder().
		WithBackingStore(backingStore).
		WithNumTLBEntries(c.tlbEntries).
		WithNumFrames(c.frames)

	if c.strict {
		b = b.WithStrictParsing()
	}

	if c.recordPath != "" {
		b = b.WithRecording(c.recordPath)
	}

	if c.monitor {
		b = b.WithMonitoring(c.monitorPort)
	}

	if c.openBrowser {
		b = b.WithBrowser()
	}

	if c.tracePath != "" {
		f, err := os.Create(c.tracePath)
		if err != nil {
			return simulation.Builder{}, closeTrace,
				fmt.Errorf("creating trace file: %w", err)
		}

		b = b.WithTraceWriter(f)
		closeTrace = func() { f.Close() }
	}

	return b, closeTrace, nil
}
