// Command portscan is a high-throughput TCP/UDP connect-scanner.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/netcrate/portscan/internal/logging"
)

// Build information, populated via ldflags: -X main.version=... (the
// same flat-package pattern cmd/netcrate-simple's packaging test uses,
// rather than a separate version package for three string fields).
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[x] %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "portscan",
		Short: "A high-throughput TCP/UDP connect-scanner",
		Long: `portscan resolves a set of targets, expands a port range or list,
and probes every (host, port) combination with a bounded number of
concurrent connections.`,
	}

	cmd.PersistentFlags().Bool("verbose", false, "Emit per-probe diagnostic logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		logging.SetVerbose(verbose)
	}

	cmd.AddCommand(newScanCommand())
	cmd.AddCommand(newConfigCommand())
	cmd.AddCommand(newOutputCommand())
	cmd.AddCommand(newVersionCommand())

	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("portscan %s (%s) built on %s with %s for %s/%s\n",
				version, commit, date, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}

func applyMode(greppable, accessible bool) {
	switch {
	case greppable:
		logging.SetMode(logging.ModeGreppable)
	case accessible:
		logging.SetMode(logging.ModeAccessible)
	default:
		logging.SetMode(logging.ModeNormal)
	}
}
