package main

import (
	"context"

	"github.com/spf13/cobra"
	"gitlab.gbv.de/nationallizenzen/nl-export/export"
)

func newListeCmd(opts *globalOptions) *cobra.Command {
	var reviewStates []string
	cmd := &cobra.Command{
		Use:   "liste [flags] ID...",
		Short: "Print the licencees of one or more licence models",
		Long: `liste prints the number of licences of each licence model and the
title of every licencee. Nothing is written to disk.`,
		Args: requireIdentifiers,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContext(cmd, opts, func(ctx context.Context, appContext *export.Context) error {
				e := appContext.NewExporter(export.Options{ReviewStates: reviewStates})
				summary, err := e.List(ctx, args, cmd.OutOrStdout())
				return finish(cmd, appContext, summary, err)
			})
		},
	}
	cmd.Flags().StringArrayVarP(&reviewStates, "status", "s", nil, "list only licences in this review state (repeatable)")
	return cmd
}
