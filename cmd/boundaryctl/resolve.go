package main

import (
	"github.com/spf13/cobra"

	"github.com/boundary-resolver/internal/usecase"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve a point against all layers",
	Example: "  boundaryctl resolve --lat -33.9249 --lon 18.4241",
	RunE: func(cmd *cobra.Command, _ []string) error {
		lat, _ := cmd.Flags().GetFloat64("lat")
		lon, _ := cmd.Flags().GetFloat64("lon")

		reg, err := newRegistry()
		if err != nil {
			return err
		}
		res, err := usecase.NewResolveUseCase(reg, nil, log, 0).Resolve(cmd.Context(), lat, lon)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), res)
	},
}

func init() {
	resolveCmd.Flags().Float64("lat", 0, "latitude (-90..90)")
	resolveCmd.Flags().Float64("lon", 0, "longitude (-180..180)")
	_ = resolveCmd.MarkFlagRequired("lat")
	_ = resolveCmd.MarkFlagRequired("lon")
}
