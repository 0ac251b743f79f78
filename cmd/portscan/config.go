package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/netcrate/portscan/internal/config"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and modify persistent configuration",
	}
	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetProfileCommand())
	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the active configuration file's location and rate profile",
		Run: func(cmd *cobra.Command, args []string) {
			mgr, err := config.Load()
			if err != nil {
				fmt.Fprintf(os.Stderr, "[x] %v\n", err)
				os.Exit(1)
			}
			profile := mgr.CurrentRateProfile()
			fmt.Printf("Config file: %s\n", mgr.Path())
			fmt.Printf("Active rate profile: %s (%s)\n", profile.Name, profile.Description)
			fmt.Printf("  batch_size=%d timeout=%v tries=%d\n", profile.BatchSize, profile.Timeout, profile.Tries)
		},
	}
}

func newConfigSetProfileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-profile <name>",
		Short: "Switch the active rate profile",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			mgr, err := config.Load()
			if err != nil {
				fmt.Fprintf(os.Stderr, "[x] %v\n", err)
				os.Exit(1)
			}
			if err := mgr.SetCurrentRateProfile(args[0]); err != nil {
				fmt.Fprintf(os.Stderr, "[x] %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Active rate profile set to %q\n", args[0])
		},
	}
}
