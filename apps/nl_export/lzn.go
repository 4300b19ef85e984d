package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gitlab.gbv.de/nationallizenzen/nl-export/constants"
	"gitlab.gbv.de/nationallizenzen/nl-export/export"
	"gitlab.gbv.de/nationallizenzen/nl-export/models/common"
	"gitlab.gbv.de/nationallizenzen/nl-export/util"
	"gitlab.gbv.de/nationallizenzen/nl-export/util/logger"
)

type lznOptions struct {
	format       string
	destDir      string
	reviewStates []string
	workers      int
}

func newLznCmd(opts *globalOptions) *cobra.Command {
	lzn := &lznOptions{}
	cmd := &cobra.Command{
		Use:   "lzn [flags] ID...",
		Short: "Export the licences of one or more licence models",
		Long: `lzn writes one export per identifier into the destination directory.
The file is named after the product title, for example springer_archiv.csv.
The json format writes a directory with one file per licencee instead.

Licences that cannot be fetched are left out and logged. An identifier
that cannot be resolved is skipped, and the exit code is 1.`,
		Args: requireIdentifiers,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !util.StringListContains(constants.Formats, lzn.format) {
				return usageError(fmt.Errorf("unknown format '%s', use one of %v", lzn.format, constants.Formats))
			}
			if lzn.workers < 0 {
				return usageError(fmt.Errorf("--workers must not be negative"))
			}
			destDir, err := util.ExpandTilde(lzn.destDir)
			if err != nil {
				return usageError(err)
			}
			return withContext(cmd, opts, func(ctx context.Context, appContext *export.Context) error {
				e := appContext.NewExporter(export.Options{
					Format:       lzn.format,
					DestDir:      destDir,
					ReviewStates: lzn.reviewStates,
					Workers:      lzn.workers,
				})
				e.Out = cmd.OutOrStdout()
				e.Progress = logger.NewTextProgress(cmd.ErrOrStderr())
				summary, err := e.Run(ctx, args)
				return finish(cmd, appContext, summary, err)
			})
		},
	}
	cmd.Flags().StringVarP(&lzn.format, "format", "f", constants.FormatCSV, "output format: csv, xml or json")
	cmd.Flags().StringVarP(&lzn.destDir, "ablage", "a", ".", "destination directory")
	cmd.Flags().StringArrayVarP(&lzn.reviewStates, "status", "s", nil, "export only licences in this review state (repeatable)")
	cmd.Flags().IntVarP(&lzn.workers, "workers", "w", 0, "parallel requests (default from config)")
	return cmd
}

// withContext loads the config, builds the clients and runs fn with a
// context that is cancelled on SIGINT or SIGTERM.
func withContext(cmd *cobra.Command, opts *globalOptions, fn func(context.Context, *export.Context) error) error {
	config, err := loadConfig(opts)
	if err != nil {
		return err
	}
	level := logger.LevelForVerbosity(opts.verbosity, config.LogLevel)
	appContext, err := export.NewContext(config, level)
	if err != nil {
		return runtimeError(err)
	}
	defer appContext.Close()
	appContext.Logger.Infof("Starting with %s", appContext)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return fn(ctx, appContext)
}

// finish prints the summary and turns the outcome into an exit error.
func finish(cmd *cobra.Command, appContext *export.Context, summary *export.Summary, err error) error {
	if summary != nil {
		summary.Print(cmd.OutOrStdout())
	}
	if err != nil {
		if common.IsUnauthorized(err) {
			return runtimeError(fmt.Errorf("the portal rejected the access token, check credentials in %s", appContext.Config.ConfigFile))
		}
		return runtimeError(err)
	}
	if failed := summary.FailedIdentifiers(); failed > 0 {
		return runtimeError(fmt.Errorf("%d of %d identifier(s) failed", failed, len(summary.Models)))
	}
	return nil
}
