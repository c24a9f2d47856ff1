package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var layersCmd = &cobra.Command{
	Use:   "layers",
	Short: "Load all layers and print load statistics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg, err := newRegistry()
		if err != nil {
			return err
		}
		if err := reg.LoadAll(cmd.Context()); err != nil {
			return eris.Wrap(err, "load layers")
		}
		stats := reg.Stats()

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(cmd.OutOrStdout(), stats)
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "CATEGORY\tFILES\tSKIPPED\tFEATURES\tDROPPED\tREPAIRED\tDIR")
		for _, l := range stats.Layers {
			fmt.Fprintf(tw, "%s\t%d/%d\t%d\t%d\t%d\t%d\t%s\n",
				l.Category, l.FilesLoaded, l.FilesSeen, len(l.FilesSkipped),
				l.FeaturesLoaded, l.FeaturesDropped, l.FeaturesRepaired, l.Dir)
		}
		fmt.Fprintf(tw, "total\t\t\t%d\t\t\t\n", stats.TotalFeatures)
		return tw.Flush()
	},
}

func init() {
	layersCmd.Flags().Bool("json", false, "print stats as JSON")
}
