// Package cmd provides the command-line interface of pagesim.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/sarchlab/pagesim/mem/vm"
	"github.com/sarchlab/pagesim/memory"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// Errors reported by the command.
var (
	ErrInvalidArguments        = errors.New("invalid arguments")
	ErrBackingStoreUnavailable = errors.New("backing store unavailable")
	ErrAddressListUnavailable  = errors.New("address list unavailable")
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pagesim BACKING_STORE ADDRESSES",
		Short: "Translate logical addresses through a TLB and a page table.",
		Long: `pagesim reads a 65536-byte backing store and a list of logical ` +
			`addresses, one decimal number per line. Each address is ` +
			`translated through a 16-entry TLB and a page table, loading ` +
			`pages on demand, and the signed byte it points to is printed. ` +
			`A summary of page faults and TLB hits follows.`,
		Args:          validateArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return applyEnv(cmd)
		},
		RunE: run,
	}

	addFlags(rootCmd)

	return rootCmd
}

func validateArgs(_ *cobra.Command, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: expected 2 arguments, received %d",
			ErrInvalidArguments, len(args))
	}

	return nil
}

func run(cmd *cobra.Command, args []string) error {
	cfg := configFromFlags(cmd)

	backingStore, err := memory.LoadBackingStore(args[0], vm.PageSize)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBackingStoreUnavailable, err)
	}

	if backingStore.NumPages() != vm.NumPages {
		fmt.Fprintf(cmd.ErrOrStderr(),
			"Warning: backing store %s holds %d pages, expected %d\n",
			args[0], backingStore.NumPages(), vm.NumPages)
	}

	addresses, err := os.Open(args[1])
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAddressListUnavailable, err)
	}
	defer addresses.Close()

	builder, closeTrace, err := cfg.builder(backingStore)
	if err != nil {
		return err
	}
	defer closeTrace()

	s, err := builder.Build()
	if err != nil {
		return err
	}

	runErr := s.Run(cmd.Context(), addresses, cmd.OutOrStdout())
	termErr := s.Terminate()

	if monitor := s.GetMonitor(); monitor != nil {
		_ = monitor.StopServer()
	}

	return errors.Join(runErr, termErr)
}

// Execute runs the root command and exits the process.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(execute(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func execute(
	ctx context.Context,
	args []string,
	stdout, stderr io.Writer,
) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := loadEnvFile(envFileFromArgs(args))
	if err == nil {
		err = rootCmd.ExecuteContext(ctx)
	}

	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)

		if errors.Is(err, ErrInvalidArguments) {
			fmt.Fprint(stderr, rootCmd.UsageString())
		}

		return exitCode(1)
	}

	return exitCode(0)
}

// exitCode runs the exit handlers, such as the data recorder flush, before
// the process exits with code.
var exitCode = func(code int) int {
	atexit.Exit(code)
	return code
}
