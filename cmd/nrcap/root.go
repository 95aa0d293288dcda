package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for nrcap.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nrcap",
		Short: "5G NR capacity dimensioning tool",
		Long: `nrcap estimates the radio capacity a 5G NR deployment needs.

From subscriber density, busy-hour traffic, the eMBB/URLLC/mMTC traffic mix
and per-frequency-range radio parameters it computes the aggregate traffic
demand, the per-cell throughput for FR1 and FR2, and the number of cells
and sites required.

Scenarios are read from a YAML file (see 'nrcap init') or given as flags.
Use 'nrcap serve' to expose the same calculation over HTTP.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewDimensionCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
