package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"xmlsort/internal/prof"
)

// setupProfiling starts the profilers requested by --cpu-profile and --mem-profile.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	flags := cmd.Root().PersistentFlags()
	cpuPath, err := flags.GetString("cpu-profile")
	if err != nil {
		return nil, err
	}
	memPath, err := flags.GetString("mem-profile")
	if err != nil {
		return nil, err
	}
	session, err := prof.Start(prof.Config{CPUPath: cpuPath, MemPath: memPath})
	if err != nil {
		return nil, fmt.Errorf("failed to start profiling: %w", err)
	}
	return func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
		}
	}, nil
}
