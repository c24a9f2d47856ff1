package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/boundary-resolver/internal/infrastructure/arcgis"
	"github.com/boundary-resolver/internal/usecase"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [which]",
	Short: "Download layers from ArcGIS FeatureServer into their data directories",
	Long:  "Downloads every layer with a configured ARCGIS_*_LAYER_URL (or only the named ones) and reloads them to validate the result.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		which := "all"
		if len(args) == 1 {
			which = args[0]
		}

		reg, err := newRegistry()
		if err != nil {
			return err
		}
		uc := usecase.NewDatasetUseCase(reg, arcgis.NewFetcher(&cfg.ArcGIS, log), log)
		resp, err := uc.Refresh(ctx, which)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), resp)
	},
}
