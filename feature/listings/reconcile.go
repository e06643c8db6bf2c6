package listings

import (
	"fmt"
	"sort"

	"listing-manager/core/sku"
	"listing-manager/feature/listings/identity"
)

// ActionType is the kind of a planned reconcile action.
type ActionType string

const (
	ActionCreate ActionType = "create"
	ActionUpdate ActionType = "update"
	ActionRemove ActionType = "remove"
)

// PlanAction is one change needed to reach the desired listing set.
type PlanAction struct {
	Type      ActionType     `json:"type"`
	Identity  identity.Key   `json:"identity"`
	ListingID string         `json:"listing_id,omitempty"`
	Request   *CreateRequest `json:"request,omitempty"`
	// Changes describes the differing fields of an update, e.g. "price: 1 key -> 2 keys".
	Changes []string `json:"changes,omitempty"`
}

// PlanSummary counts the actions of a plan.
type PlanSummary struct {
	Create    int `json:"create"`
	Update    int `json:"update"`
	Remove    int `json:"remove"`
	Unchanged int `json:"unchanged"`
}

// Plan is the diff between a desired listing set and the cache.
type Plan struct {
	Actions []PlanAction `json:"actions"`
	Summary PlanSummary  `json:"summary"`
}

// ReconcileOptions controls planning and applying.
type ReconcileOptions struct {
	// Prune plans removal of live listings absent from the desired set.
	Prune bool
	// DryRun plans without applying.
	DryRun bool
	// Confirmed must be set for ApplyPlan to enqueue anything.
	Confirmed bool
}

// PlanReconcile compares desired against the cached listings. Desired
// entries are keyed by identity; the last entry wins on duplicates.
func (m *Manager) PlanReconcile(desired []CreateRequest, opts ReconcileOptions) (*Plan, error) {
	wanted := make(map[identity.Key]CreateRequest, len(desired))
	order := make([]identity.Key, 0, len(desired))
	for i, req := range desired {
		if req.SKU != "" && req.Item == nil {
			item, err := sku.Parse(req.SKU)
			if err != nil {
				return nil, fmt.Errorf("desired[%d]: %w: %v", i, ErrInvalidItem, err)
			}
			req.Item = &item
		}
		key, err := m.resolver.Resolve(req.Intent, req.Item, req.AssetID)
		if err != nil {
			return nil, fmt.Errorf("desired[%d]: %w", i, err)
		}
		if _, seen := wanted[key]; !seen {
			order = append(order, key)
		}
		wanted[key] = req
	}

	live := make(map[identity.Key]*Listing)
	for _, l := range m.Listings() {
		if key := l.Identity(); key != "" {
			live[key] = l
		}
	}

	plan := &Plan{}
	for _, key := range order {
		req := wanted[key]
		l, ok := live[key]
		if !ok {
			r := req
			plan.Actions = append(plan.Actions, PlanAction{Type: ActionCreate, Identity: key, Request: &r})
			plan.Summary.Create++
			continue
		}

		changes := diffListing(l, req)
		if len(changes) == 0 {
			plan.Summary.Unchanged++
			continue
		}
		r := req
		r.Force = true
		plan.Actions = append(plan.Actions, PlanAction{Type: ActionUpdate, Identity: key, ListingID: l.ID, Request: &r, Changes: changes})
		plan.Summary.Update++
	}

	if opts.Prune {
		var stale []PlanAction
		for key, l := range live {
			if _, ok := wanted[key]; ok {
				continue
			}
			stale = append(stale, PlanAction{Type: ActionRemove, Identity: key, ListingID: l.ID})
		}
		sort.Slice(stale, func(i, j int) bool { return stale[i].ListingID < stale[j].ListingID })
		plan.Actions = append(plan.Actions, stale...)
		plan.Summary.Remove = len(stale)
	}

	return plan, nil
}

// ApplyPlan enqueues the actions of plan and returns how many were queued.
// Nothing happens unless opts.Confirmed is set and opts.DryRun is not.
func (m *Manager) ApplyPlan(plan *Plan, opts ReconcileOptions) (int, error) {
	if !opts.Confirmed || opts.DryRun {
		return 0, nil
	}

	executed := 0
	for _, action := range plan.Actions {
		var err error
		switch action.Type {
		case ActionCreate, ActionUpdate:
			err = m.EnqueueCreate(*action.Request)
		case ActionRemove:
			err = m.EnqueueRemove(action.ListingID)
		default:
			err = fmt.Errorf("unknown action %q", action.Type)
		}
		if err != nil {
			return executed, fmt.Errorf("failed to apply %s %s: %w", action.Type, action.Identity, err)
		}
		executed++
	}
	return executed, nil
}

func diffListing(l *Listing, req CreateRequest) []string {
	var changes []string
	if !l.Currencies.Equal(req.Currencies) {
		changes = append(changes, fmt.Sprintf("price: %s -> %s", l.Currencies, req.Currencies))
	}
	if l.Details != req.Details {
		changes = append(changes, "details")
	}
	if want := boolFlag(req.Offers) == 1; l.Offers != want {
		changes = append(changes, fmt.Sprintf("offers: %t -> %t", l.Offers, want))
	}
	if want := boolFlag(req.Buyout) == 1; l.Buyout != want {
		changes = append(changes, fmt.Sprintf("buyout: %t -> %t", l.Buyout, want))
	}
	return changes
}
