package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/boundary-resolver/internal/domain"
	"github.com/boundary-resolver/internal/repository/cache"
	redisRepo "github.com/boundary-resolver/internal/repository/redis"
	"github.com/boundary-resolver/internal/usecase"
)

var publishCmd = &cobra.Command{
	Use:   "publish [which]",
	Short: "Ask running servers to reload layers via Redis Stream",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		which := "all"
		if len(args) == 1 {
			which = args[0]
		}
		if _, err := usecase.ParseWhich(which); err != nil {
			return err
		}
		fetch, _ := cmd.Flags().GetBool("fetch")

		client, err := cache.NewRedis(&cfg.Redis, log)
		if err != nil {
			return eris.Wrap(err, "connect redis")
		}
		defer client.Close()

		event := domain.BoundaryRefreshEvent{EventID: uuid.New(), Which: which, Fetch: fetch}
		stream := redisRepo.NewStreamRepository(client.Client(), log)
		if err := stream.PublishToStream(cmd.Context(), domain.StreamBoundaryRefresh, event); err != nil {
			return eris.Wrap(err, "publish refresh event")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "published %s to %s (which=%s fetch=%t)\n",
			event.EventID, domain.StreamBoundaryRefresh, which, fetch)
		return nil
	},
}

func init() {
	publishCmd.Flags().Bool("fetch", false, "download from ArcGIS before reloading")
}
