package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"listing-manager/feature/listings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for reconcile command
	pruneListings bool
	dryRunPlan    bool
	yesConfirm    bool
)

// reconcileCmd brings the live listings in line with a desired set.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile <desired.json>",
	Short: "Reconcile live listings against a desired listing file",
	Long: `Compares the listings in a JSON file against the live listings and
queues the creates, updates and (with --prune) removes needed to match.

The file holds an array of create requests:

  [{"intent": 0, "sku": "5021;6", "currencies": {"metal": 51.77}},
   {"intent": 1, "id": "9001", "currencies": {"keys": 1}}]

Examples:
  # Report only
  reconcile desired.json

  # Apply with interactive confirmation, removing anything not in the file
  reconcile desired.json --prune

  # Apply non-interactively
  reconcile desired.json --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().BoolVar(&pruneListings, "prune", false, "Remove live listings missing from the file")
	reconcileCmd.Flags().BoolVar(&dryRunPlan, "dry-run", false, "Force dry-run (no mutations even with --yes)")
	reconcileCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")

	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	desired, err := readDesired(args[0])
	if err != nil {
		return err
	}

	s, err := openSession(context.Background(), false)
	if err != nil {
		return err
	}
	defer s.close()
	l := s.logger

	opts := listings.ReconcileOptions{
		Prune:  pruneListings,
		DryRun: dryRunPlan,
	}

	// Step 1: Plan (always runs)
	l.Info("Planning reconciliation...", zap.Int("desired", len(desired)))
	plan, err := s.manager.PlanReconcile(desired, opts)
	if err != nil {
		return fmt.Errorf("failed to plan reconciliation: %w", err)
	}

	// Step 2: Print report
	printReconcileReport(l, plan)

	if len(plan.Actions) == 0 {
		l.Info("Listings already match.")
		return nil
	}
	if dryRunPlan {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}

	// Step 3: Apply (if confirmed)
	if !confirmDestructiveAction() {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}
	opts.Confirmed = true

	queued, err := s.manager.ApplyPlan(plan, opts)
	if err != nil {
		return fmt.Errorf("failed to apply plan: %w", err)
	}
	l.Info("Queued actions", zap.Int("count", queued))

	return flushAndReport(s)
}

func readDesired(path string) ([]listings.CreateRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read desired listings: %w", err)
	}
	var desired []listings.CreateRequest
	if err := json.Unmarshal(data, &desired); err != nil {
		return nil, fmt.Errorf("failed to parse desired listings: %w", err)
	}
	return desired, nil
}

// printReconcileReport prints a formatted reconciliation report using logger.
func printReconcileReport(l *zap.Logger, plan *listings.Plan) {
	s := plan.Summary

	l.Info("Reconciliation report",
		zap.Int("create", s.Create),
		zap.Int("update", s.Update),
		zap.Int("remove", s.Remove),
		zap.Int("unchanged", s.Unchanged),
	)

	// Show sample of actions (max 5 for logger)
	maxShow := min(5, len(plan.Actions))
	for _, action := range plan.Actions[:maxShow] {
		l.Info("Sample action",
			zap.String("type", string(action.Type)),
			zap.String("identity", string(action.Identity)),
			zap.String("listing_id", action.ListingID),
			zap.Strings("changes", action.Changes),
		)
	}
	if len(plan.Actions) > maxShow {
		l.Info("Additional actions not shown", zap.Int("count", len(plan.Actions)-maxShow))
	}
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm changes to live listings: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
