package cmd

import (
	"context"
	"fmt"
	"time"

	"listing-manager/core/config"
	"listing-manager/core/logger"
	"listing-manager/feature/listings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	snapshotSource string
	pruneOlderThan time.Duration
)

// snapshotCmd is the parent command for stored listing snapshots.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Inspect and prune stored listing snapshots",
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the latest stored snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		cfg, l, err := loadOffline()
		if err != nil {
			return err
		}
		steamID := cfg.Backpack.SteamID

		switch snapshotSource {
		case "db":
			st, err := openStore(ctx, cfg, l)
			if err != nil {
				return err
			}
			if st == nil {
				return fmt.Errorf("database is disabled")
			}
			header, err := st.Latest(ctx, steamID)
			if err != nil {
				return err
			}
			if header == nil {
				l.Info("No snapshot stored")
				return nil
			}
			rows, err := st.Load(ctx, steamID)
			if err != nil {
				return err
			}
			return printJSON(listings.Snapshot{
				SteamID:   header.SteamID,
				Cap:       header.Cap,
				Promotes:  header.Promotes,
				Listings:  rows,
				FetchedAt: header.FetchedAt,
			})
		case "archive":
			ar, err := openArchive(ctx, cfg, l)
			if err != nil {
				return err
			}
			if ar == nil {
				return fmt.Errorf("storage is disabled")
			}
			snap, err := ar.Latest(ctx, steamID)
			if err != nil {
				return err
			}
			if snap == nil {
				l.Info("No snapshot archived")
				return nil
			}
			return printJSON(snap)
		default:
			return fmt.Errorf("unknown snapshot source %q: want db or archive", snapshotSource)
		}
	},
}

var snapshotPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old snapshot headers and archived snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		cfg, l, err := loadOffline()
		if err != nil {
			return err
		}

		st, err := openStore(ctx, cfg, l)
		if err != nil {
			return err
		}
		if st != nil {
			n, err := st.PruneHeaders(ctx, time.Now().Add(-pruneOlderThan))
			if err != nil {
				return err
			}
			l.Info("Pruned snapshot headers", zap.Int64("count", n))
		}

		ar, err := openArchive(ctx, cfg, l)
		if err != nil {
			return err
		}
		if ar != nil {
			n, err := ar.Prune(ctx, cfg.Backpack.SteamID, cfg.Storage.Retention)
			if err != nil {
				return err
			}
			l.Info("Pruned archived snapshots", zap.Int("count", n))
		}
		return nil
	},
}

func init() {
	snapshotShowCmd.Flags().StringVar(&snapshotSource, "source", "db", "Where to read from: db or archive")
	snapshotPruneCmd.Flags().DurationVar(&pruneOlderThan, "older-than", 7*24*time.Hour, "Age of snapshot headers to delete")

	snapshotCmd.AddCommand(snapshotShowCmd, snapshotPruneCmd)
	RootCmd.AddCommand(snapshotCmd)
}

// loadOffline loads configuration without contacting the marketplace.
func loadOffline() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, l, nil
}
