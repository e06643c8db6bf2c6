package backpack

import (
	"strings"
	"time"

	"listing-manager/core/currency"
	"listing-manager/core/utils"
)

// Intent is the side of a listing.
type Intent int

const (
	// IntentBuy is a buy order.
	IntentBuy Intent = 0
	// IntentSell is a sell order for a specific inventory item.
	IntentSell Intent = 1
)

// String returns the intent name.
func (i Intent) String() string {
	switch i {
	case IntentBuy:
		return "buy"
	case IntentSell:
		return "sell"
	default:
		return "unknown"
	}
}

// Valid reports whether the intent is buy or sell.
func (i Intent) Valid() bool {
	return i == IntentBuy || i == IntentSell
}

// Attribute defindexes decoded from listing items.
const (
	AttrEffect     = 134
	AttrWear       = 725
	AttrPaintkit   = 834
	AttrKillstreak = 2025
	AttrAustralium = 2027
)

// Attribute is one raw item attribute. Values arrive as numbers or strings.
type Attribute struct {
	Defindex   int `json:"defindex"`
	Value      any `json:"value"`
	FloatValue any `json:"float_value"`
}

// ListingItem is the item record attached to a listing.
type ListingItem struct {
	ID              any         `json:"id,omitempty"`
	Defindex        int         `json:"defindex"`
	Quality         int         `json:"quality"`
	FlagCannotCraft any         `json:"flag_cannot_craft,omitempty"`
	Attributes      []Attribute `json:"attributes,omitempty"`
}

// AssetID returns the inventory asset id of a sell listing item.
func (i ListingItem) AssetID() string {
	return utils.ToString(i.ID)
}

// Craftable reports whether the item can be used in crafting.
func (i ListingItem) Craftable() bool {
	return !utils.ToBool(i.FlagCannotCraft)
}

// Listing is a remote listing record as returned by the listings endpoint.
type Listing struct {
	ID         string              `json:"id"`
	SteamID    string              `json:"steamid"`
	Intent     Intent              `json:"intent"`
	AppID      int                 `json:"appid"`
	Item       ListingItem         `json:"item"`
	Currencies currency.Currencies `json:"currencies"`
	Offers     any                 `json:"offers"`
	Buyout     any                 `json:"buyout"`
	Details    string              `json:"details"`
	Created    int64               `json:"created"`
	Bump       int64               `json:"bump"`
}

// ListingsResponse is the payload of the listings endpoint.
type ListingsResponse struct {
	Cap               int       `json:"cap"`
	PromotesRemaining int       `json:"promotes_remaining"`
	Listings          []Listing `json:"listings"`
}

// RemoteItem is the item attribute bag the create endpoint expects for buy orders.
type RemoteItem struct {
	ItemName   string `json:"item_name"`
	Quality    int    `json:"quality"`
	Craftable  *int   `json:"craftable,omitempty"`
	PriceIndex *int   `json:"priceindex,omitempty"`
}

// CreateListing is one element of a create batch.
type CreateListing struct {
	Intent     Intent              `json:"intent"`
	ID         string              `json:"id,omitempty"`
	Item       *RemoteItem         `json:"item,omitempty"`
	Currencies currency.Currencies `json:"currencies"`
	Details    string              `json:"details,omitempty"`
	Offers     int                 `json:"offers"`
	Buyout     int                 `json:"buyout"`
}

// CreateResult is the per-item outcome of a create batch.
type CreateResult struct {
	Created bool
	Failed  bool
	Code    ErrorCode
	Message string
	// Retry is the time the marketplace allows relisting, when reported.
	Retry time.Time
}

// AlreadyExists reports whether the failure says the listing already exists.
func (r CreateResult) AlreadyExists() bool {
	return strings.Contains(strings.ToLower(r.Message), "already exists")
}

// DeleteError is a per-id failure of the delete endpoint.
type DeleteError struct {
	ListingID string `json:"listing_id"`
	Message   string `json:"message"`
}

// DeleteResult is the payload of the delete endpoint.
type DeleteResult struct {
	Deleted int           `json:"deleted"`
	Errors  []DeleteError `json:"errors"`
}

// InventoryStatus is the marketplace's view of the account inventory.
type InventoryStatus struct {
	// Timestamp is the unix time of the last inventory sync.
	Timestamp int64
	// Available is false when the marketplace could not load the inventory.
	Available bool
	Message   string
}
