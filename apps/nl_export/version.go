package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"gitlab.gbv.de/nationallizenzen/nl-export/constants"
)

// These are set at build time with -ldflags "-X main.Version=...".
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), versionString())
			return &exitError{code: constants.ExitNoOp}
		},
	}
}

func versionString() string {
	version := fmt.Sprintf("%s %s for %s/%s\n", constants.AppName, Version, runtime.GOOS, runtime.GOARCH)
	version += fmt.Sprintf("    Commit %s. Built %s with %s.\n", GitCommit, BuildDate, runtime.Version())
	return version
}
