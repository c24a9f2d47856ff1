package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/boundary-resolver/internal/boundary"
	"github.com/boundary-resolver/internal/config"
	"github.com/boundary-resolver/internal/pkg/logger"
)

var (
	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "boundaryctl",
	Short: "Boundary layer maintenance tool",
	Long:  "Resolves points against local boundary layers, inspects layer stats, downloads ArcGIS datasets and triggers reloads of running servers.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		l, err := logger.New(cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return eris.Wrap(err, "init logger")
		}
		log = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
	SilenceUsage: true,
}

// newRegistry строит реестр слоёв по текущей конфигурации без загрузки
func newRegistry() (*boundary.Registry, error) {
	defs, err := cfg.LayerDefinitions()
	if err != nil {
		return nil, eris.Wrap(err, "load layer catalog")
	}
	reg, err := boundary.NewRegistry(defs, log)
	if err != nil {
		return nil, eris.Wrap(err, "create registry")
	}
	return reg, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	rootCmd.AddCommand(resolveCmd, layersCmd, fetchCmd, publishCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, eris.ToString(err, false))
		os.Exit(1)
	}
}
