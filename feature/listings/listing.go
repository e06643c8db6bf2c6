package listings

import (
	"time"

	"listing-manager/core/backpack"
	"listing-manager/core/currency"
	"listing-manager/core/sku"
	"listing-manager/core/utils"
	"listing-manager/feature/listings/identity"
)

// AppID of the game whose items the schema describes.
const AppID = 440

// Listing wraps one remote listing record. Derived values are computed on
// demand from the snapshot.
type Listing struct {
	ID         string
	SteamID    string
	Intent     backpack.Intent
	AppID      int
	Currencies currency.Currencies
	Offers     bool
	Buyout     bool
	Details    string
	Created    time.Time
	Bump       time.Time

	raw     backpack.Listing
	manager *Manager
}

func newListing(raw backpack.Listing, m *Manager) *Listing {
	return &Listing{
		ID:         raw.ID,
		SteamID:    raw.SteamID,
		Intent:     raw.Intent,
		AppID:      raw.AppID,
		Currencies: raw.Currencies,
		Offers:     utils.ToInt(raw.Offers) == 1,
		Buyout:     utils.ToInt(raw.Buyout) == 1,
		Details:    raw.Details,
		Created:    time.Unix(raw.Created, 0),
		Bump:       time.Unix(raw.Bump, 0),
		raw:        raw,
		manager:    m,
	}
}

// Raw returns the record as received from the marketplace.
func (l *Listing) Raw() backpack.Listing {
	return l.raw
}

// AssetID returns the inventory asset id of a sell listing.
func (l *Listing) AssetID() string {
	return l.raw.Item.AssetID()
}

// Item returns the item descriptor decoded from the listing attributes.
func (l *Listing) Item() sku.Item {
	return identity.FromListingItem(l.raw.Item)
}

// SKU returns the item SKU, or "" for items of another game.
func (l *Listing) SKU() string {
	if l.AppID != 0 && l.AppID != AppID {
		return ""
	}
	return l.Item().String()
}

// Name returns the display name of the listed item.
func (l *Listing) Name() string {
	if l.AppID != 0 && l.AppID != AppID {
		return ""
	}
	return l.manager.schema.GetName(l.Item(), true)
}

// Identity returns the deduplication key, or "" when the item is unknown.
func (l *Listing) Identity() identity.Key {
	key, err := l.manager.resolver.Listing(&l.raw)
	if err != nil {
		return ""
	}
	return key
}

// Update carries the fields of a listing update. Nil fields keep their
// current value.
type Update struct {
	// Seen is the bump time the caller last observed. Updates without it,
	// or based on a listing older than the current bump, are ignored.
	Seen       time.Time
	Currencies *currency.Currencies
	Details    *string
	Offers     *bool
	Buyout     *bool
}

// RequestUpdate enqueues a forced create replacing this listing. It reports
// whether anything was enqueued.
func (l *Listing) RequestUpdate(u Update) (bool, error) {
	if u.Seen.IsZero() || u.Seen.Before(l.Bump) {
		return false, nil
	}

	offers, buyout := l.Offers, l.Buyout
	req := CreateRequest{
		Intent:     l.Intent,
		Currencies: l.Currencies,
		Details:    l.Details,
		Offers:     &offers,
		Buyout:     &buyout,
		Force:      true,
	}
	if l.Intent == backpack.IntentSell {
		req.AssetID = l.AssetID()
	} else {
		item := l.Item()
		req.Item = &item
	}

	if u.Currencies != nil {
		req.Currencies = *u.Currencies
	}
	if u.Details != nil {
		req.Details = *u.Details
	}
	if u.Offers != nil {
		req.Offers = u.Offers
	}
	if u.Buyout != nil {
		req.Buyout = u.Buyout
	}

	if err := l.manager.EnqueueCreate(req); err != nil {
		return false, err
	}
	return true, nil
}

// RequestRemoval enqueues this listing for removal.
func (l *Listing) RequestRemoval() error {
	return l.manager.EnqueueRemove(l.ID)
}

// ListingView is the JSON form of a listing.
type ListingView struct {
	ID         string              `json:"id"`
	Intent     string              `json:"intent"`
	Identity   identity.Key        `json:"identity"`
	SKU        string              `json:"sku,omitempty"`
	AssetID    string              `json:"asset_id,omitempty"`
	Name       string              `json:"name,omitempty"`
	Currencies currency.Currencies `json:"currencies"`
	Price      string              `json:"price"`
	Details    string              `json:"details,omitempty"`
	Offers     bool                `json:"offers"`
	Buyout     bool                `json:"buyout"`
	Created    time.Time           `json:"created"`
	Bump       time.Time           `json:"bump"`
}

// View returns the JSON form of the listing.
func (l *Listing) View() ListingView {
	v := ListingView{
		ID:         l.ID,
		Intent:     l.Intent.String(),
		Identity:   l.Identity(),
		SKU:        l.SKU(),
		Name:       l.Name(),
		Currencies: l.Currencies,
		Price:      l.Currencies.String(),
		Details:    l.Details,
		Offers:     l.Offers,
		Buyout:     l.Buyout,
		Created:    l.Created,
		Bump:       l.Bump,
	}
	if l.Intent == backpack.IntentSell {
		v.AssetID = l.AssetID()
	}
	return v
}
