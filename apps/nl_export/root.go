package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gitlab.gbv.de/nationallizenzen/nl-export/constants"
	"gitlab.gbv.de/nationallizenzen/nl-export/models/common"
)

type globalOptions struct {
	configFile string
	verbosity  int
}

// exitError carries the process exit code up to execute. Errors of
// any other type are usage errors.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func usageError(err error) error {
	return &exitError{code: constants.ExitUserErr, err: err}
}

func runtimeError(err error) error {
	return &exitError{code: constants.ExitRuntimeErr, err: err}
}

func newRootCmd(opts *globalOptions) *cobra.Command {
	root := &cobra.Command{
		Use:   constants.AppName,
		Short: "Export Nationallizenzen licences and licencees",
		Long: `nl-export reads the licences of a licence model from the licence portal
and writes one row per licencee into a csv, xml or json export.

Identifiers can be the UID of a product or licence model, its URL on the
portal, or its short name. A product stands for its standard licence model.

The portal address and access token come from the config file, which
'nl-export konfig' creates.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&opts.configFile, "config", "",
		fmt.Sprintf("config file (default %s)", common.DefaultConfigPath()))
	root.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", "log more, repeat for debug output")
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError(err)
	})
	root.AddCommand(
		newKonfigCmd(opts),
		newLznCmd(opts),
		newListeCmd(opts),
		newVersionCmd(),
	)
	return root
}

// execute runs the command line in args and returns the exit code.
func execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts := &globalOptions{}
	root := newRootCmd(opts)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	helpShown := false
	help := root.HelpFunc()
	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpShown = true
		help(cmd, args)
	})

	err := root.ExecuteContext(context.Background())
	if err == nil {
		if helpShown {
			return constants.ExitNoOp
		}
		return constants.ExitOK
	}
	var exit *exitError
	if errors.As(err, &exit) {
		if exit.err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", exit.err)
		}
		if exit.code == constants.ExitUserErr {
			fmt.Fprintf(stderr, "Try: %s --help\n", constants.AppName)
		}
		return exit.code
	}
	fmt.Fprintf(stderr, "Error: %v\nTry: %s --help\n", err, constants.AppName)
	return constants.ExitUserErr
}

// requireIdentifiers is a cobra.PositionalArgs that wants at least one
// identifier.
func requireIdentifiers(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return usageError(fmt.Errorf("%s needs at least one identifier", cmd.Name()))
	}
	return nil
}

// loadConfig reads and validates the config file. Problems are
// usage errors because the user has to fix the file.
func loadConfig(opts *globalOptions) (*common.Config, error) {
	config, err := common.LoadConfig(opts.configFile)
	if errors.Is(err, common.ErrConfigMissing) {
		return nil, usageError(fmt.Errorf("%w. Run '%s konfig' to create it", err, constants.AppName))
	}
	if err != nil {
		return nil, usageError(err)
	}
	if err := config.Validate(); err != nil {
		return nil, usageError(err)
	}
	return config, nil
}
