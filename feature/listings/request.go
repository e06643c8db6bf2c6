package listings

import (
	"time"

	"listing-manager/core/backpack"
	"listing-manager/core/currency"
	"listing-manager/core/sku"
	"listing-manager/feature/listings/identity"
)

// CreateRequest asks for a listing to exist with the given price and terms.
// Buy requests identify the item by SKU or Item; sell requests by AssetID.
type CreateRequest struct {
	Intent     backpack.Intent     `json:"intent"`
	SKU        string              `json:"sku,omitempty"`
	Item       *sku.Item           `json:"item,omitempty"`
	AssetID    string              `json:"id,omitempty"`
	Currencies currency.Currencies `json:"currencies"`
	Details    string              `json:"details,omitempty"`
	// Offers and Buyout default to true when nil.
	Offers *bool `json:"offers,omitempty"`
	Buyout *bool `json:"buyout,omitempty"`
	// Force replaces a live listing for the same item created within the
	// relist window.
	Force bool `json:"force,omitempty"`
	// Time is the enqueue timestamp used by the supersede rule. Zero means now.
	Time time.Time `json:"time,omitempty"`
}

func boolFlag(b *bool) int {
	if b == nil || *b {
		return 1
	}
	return 0
}

type pendingCreate struct {
	key    identity.Key
	req    CreateRequest
	remote *backpack.RemoteItem
	// name is the display name the marketplace may key results by.
	name string
	seq  uint64
	// attempt is the inventory timestamp of the cycle that last submitted
	// this request.
	attempt   int64
	attempted bool
}

func (p *pendingCreate) payload() backpack.CreateListing {
	out := backpack.CreateListing{
		Intent:     p.req.Intent,
		Currencies: p.req.Currencies,
		Details:    p.req.Details,
		Offers:     boolFlag(p.req.Offers),
		Buyout:     boolFlag(p.req.Buyout),
	}
	if p.req.Intent == backpack.IntentSell {
		out.ID = p.req.AssetID
	} else {
		out.Item = p.remote
	}
	return out
}

// resultNames lists the keys the create response may use for this request,
// most specific first.
func (p *pendingCreate) resultNames() []string {
	names := []string{string(p.key)}
	if p.req.AssetID != "" {
		names = append(names, p.req.AssetID)
	}
	if p.remote != nil && p.remote.ItemName != "" {
		names = append(names, p.remote.ItemName)
	}
	if p.name != "" {
		names = append(names, p.name)
	}
	return names
}

type pendingRemove struct {
	seq uint64
	// internal removes are scheduled by the engine itself and are eligible
	// in the run that scheduled them.
	internal bool
	failures int
}

// QueuedCreate is the public view of a pending create.
type QueuedCreate struct {
	Identity   identity.Key        `json:"identity"`
	Intent     string              `json:"intent"`
	SKU        string              `json:"sku,omitempty"`
	AssetID    string              `json:"id,omitempty"`
	Currencies currency.Currencies `json:"currencies"`
	Enqueued   time.Time           `json:"enqueued"`
	WaitingOn  int64               `json:"waiting_on,omitempty"`
	Relisting  bool                `json:"relisting,omitempty"`
	RetryAt    time.Time           `json:"retry_at,omitempty"`
	InFlight   bool                `json:"in_flight,omitempty"`
}

// QueuedRemove is the public view of a pending remove.
type QueuedRemove struct {
	ListingID string `json:"listing_id"`
	Failures  int    `json:"failures,omitempty"`
}

// QueueState is a consistent copy of the action queue.
type QueueState struct {
	Ready         bool           `json:"ready"`
	Flushing      bool           `json:"flushing"`
	InventoryTime int64          `json:"inventory_time"`
	Cap           int            `json:"cap"`
	Promotes      int            `json:"promotes_remaining"`
	PendingNew    int            `json:"pending_new"`
	Creates       []QueuedCreate `json:"creates"`
	Removes       []QueuedRemove `json:"removes"`
}
