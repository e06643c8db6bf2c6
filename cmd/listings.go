package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"listing-manager/core/backpack"
	"listing-manager/core/currency"
	"listing-manager/core/sku"
	"listing-manager/feature/listings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for listings / create / remove
	filterSKU     string
	createIntent  string
	createSKU     string
	createAsset   string
	createPrice   string
	createDetails string
	createForce   bool
	removeSKU     string
	removeAsset   string
	removeIntent  string
)

var listingsCmd = &cobra.Command{
	Use:   "listings",
	Short: "Print the current listings of the account",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(context.Background(), false)
		if err != nil {
			return err
		}
		defer s.close()

		var found []*listings.Listing
		if filterSKU != "" {
			found = s.manager.FindListings(filterSKU)
		} else {
			found = s.manager.Listings()
		}

		views := make([]listings.ListingView, 0, len(found))
		for _, l := range found {
			views = append(views, l.View())
		}
		return printJSON(views)
	},
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create or update a listing and flush it",
	Long: `Queues one create and flushes it immediately.

Examples:
  # Buy order for keys
  create --intent buy --sku "5021;6" --price "0 keys, 51.77 ref"

  # Sell an inventory item, replacing a listing made in the relist window
  create --intent sell --asset 9001 --price "1 key" --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		intent, err := parseIntent(createIntent)
		if err != nil {
			return err
		}
		price, err := currency.Parse(createPrice)
		if err != nil {
			return err
		}

		s, err := openSession(context.Background(), false)
		if err != nil {
			return err
		}
		defer s.close()

		req := listings.CreateRequest{
			Intent:     intent,
			SKU:        createSKU,
			AssetID:    createAsset,
			Currencies: price,
			Details:    createDetails,
			Force:      createForce,
		}
		if err := s.manager.EnqueueCreate(req); err != nil {
			return err
		}
		return flushAndReport(s)
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove [listing-id...]",
	Short: "Remove listings by id or by item and flush",
	Long: `Queues removes and flushes them immediately. Listings are given by id,
or by --intent with --sku (buy orders) or --asset (sell orders).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && removeSKU == "" && removeAsset == "" {
			return fmt.Errorf("nothing to remove: pass listing ids, --sku or --asset")
		}

		s, err := openSession(context.Background(), false)
		if err != nil {
			return err
		}
		defer s.close()

		for _, id := range args {
			if err := s.manager.EnqueueRemove(id); err != nil {
				return err
			}
		}

		if removeSKU != "" || removeAsset != "" {
			intent, err := parseIntent(removeIntent)
			if err != nil {
				return err
			}
			var item *sku.Item
			if removeSKU != "" {
				parsed, err := sku.Parse(removeSKU)
				if err != nil {
					return err
				}
				item = &parsed
			}
			if err := s.manager.RemoveItem(intent, item, removeAsset); err != nil {
				return err
			}
		}
		return flushAndReport(s)
	},
}

var heartbeatCmd = &cobra.Command{
	Use:   "heartbeat",
	Short: "Bump every listing of the account",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(context.Background(), false)
		if err != nil {
			return err
		}
		defer s.close()

		bumped, err := s.manager.SendHeartbeat(context.Background())
		if err != nil {
			return err
		}
		s.logger.Info("Heartbeat sent", zap.Int("bumped", bumped))
		return nil
	},
}

func init() {
	listingsCmd.Flags().StringVar(&filterSKU, "sku", "", "Only show listings for this SKU")

	createCmd.Flags().StringVar(&createIntent, "intent", "sell", "Listing side: buy or sell")
	createCmd.Flags().StringVar(&createSKU, "sku", "", "Item SKU (buy orders)")
	createCmd.Flags().StringVar(&createAsset, "asset", "", "Inventory asset id (sell orders)")
	createCmd.Flags().StringVar(&createPrice, "price", "", `Price, e.g. "1 key, 5 ref"`)
	createCmd.Flags().StringVar(&createDetails, "details", "", "Listing details text")
	createCmd.Flags().BoolVar(&createForce, "force", false, "Replace a listing created within the relist window")
	_ = createCmd.MarkFlagRequired("price")

	removeCmd.Flags().StringVar(&removeIntent, "intent", "sell", "Listing side for --sku/--asset: buy or sell")
	removeCmd.Flags().StringVar(&removeSKU, "sku", "", "Item SKU (buy orders)")
	removeCmd.Flags().StringVar(&removeAsset, "asset", "", "Inventory asset id (sell orders)")

	RootCmd.AddCommand(listingsCmd, createCmd, removeCmd, heartbeatCmd)
}

func parseIntent(s string) (backpack.Intent, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy", "0":
		return backpack.IntentBuy, nil
	case "sell", "1":
		return backpack.IntentSell, nil
	default:
		return 0, fmt.Errorf("invalid intent %q: want buy or sell", s)
	}
}

// flushAndReport flushes the queue and logs the outcome. Entries still
// queued afterwards are reported, not retried.
func flushAndReport(s *session) error {
	res, err := s.manager.Flush(context.Background())
	if err != nil {
		return fmt.Errorf("flush failed: %w", err)
	}
	s.logger.Info("Flush finished",
		zap.Int("attempts", res.Attempts),
		zap.Int("created", res.Created),
		zap.Int("removed", res.Removed),
		zap.Int("retrying", res.Retrying),
		zap.Int("failed", res.Failed),
	)

	q := s.manager.Queue()
	for _, c := range q.Creates {
		s.logger.Warn("Create still queued",
			zap.String("identity", string(c.Identity)),
			zap.Int64("waiting_on", c.WaitingOn),
		)
	}
	for _, r := range q.Removes {
		s.logger.Warn("Remove still queued", zap.String("listing_id", r.ListingID), zap.Int("failures", r.Failures))
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
