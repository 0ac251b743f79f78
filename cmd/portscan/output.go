package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/netcrate/portscan/internal/output"
)

func newOutputCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "output",
		Short: "Inspect saved run history",
	}
	cmd.AddCommand(newOutputListCommand())
	cmd.AddCommand(newOutputShowCommand())
	return cmd
}

func newOutputListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved scan runs",
		Run: func(cmd *cobra.Command, args []string) {
			runs, err := output.ListRuns()
			if err != nil {
				fmt.Fprintf(os.Stderr, "[x] %v\n", err)
				os.Exit(1)
			}
			if len(runs) == 0 {
				fmt.Println("No saved runs found.")
				return
			}
			for _, r := range runs {
				fmt.Printf("%-20s %-25s %.1fs  %d hosts\n",
					r.RunID, r.StartTime.Format("2006-01-02 15:04:05"), r.Duration, len(r.Hosts))
			}
		},
	}
}

func newOutputShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show details of a saved run",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			run, err := output.GetRunByID(args[0])
			if err != nil {
				fmt.Fprintf(os.Stderr, "[x] %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Run %s (%s, %.1fs)\n", run.RunID, run.StartTime.Format(time.RFC3339), run.Duration)
			for host, ports := range run.Hosts {
				fmt.Printf("  %s: %v\n", host, ports)
			}
		},
	}
}
