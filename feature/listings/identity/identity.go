package identity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"listing-manager/core/backpack"
	"listing-manager/core/schema"
	"listing-manager/core/sku"
	"listing-manager/core/utils"
)

// ErrInvalidItem is returned when an item's defindex is unknown to the schema.
var ErrInvalidItem = errors.New("invalid item")

// Key is the deduplication key of a listing.
type Key string

// Intent returns the intent encoded in the key.
func (k Key) Intent() backpack.Intent {
	if strings.HasPrefix(string(k), "1;") {
		return backpack.IntentSell
	}
	return backpack.IntentBuy
}

// Resolver converts item descriptors to marketplace item attribute bags and
// identity keys.
type Resolver struct {
	schema schema.Lookup
}

// NewResolver creates a resolver backed by lookup.
func NewResolver(lookup schema.Lookup) *Resolver {
	return &Resolver{schema: lookup}
}

// ToRemoteItem builds the attribute bag the create endpoint expects for a buy
// order. The name is taken from a Unique craftable placeholder without the
// leading article; quality, craftability and effect travel as attributes.
func (r *Resolver) ToRemoteItem(item sku.Item) (*backpack.RemoteItem, error) {
	if r.schema.GetItemByDefindex(item.Defindex) == nil {
		return nil, fmt.Errorf("%w: unknown defindex %d", ErrInvalidItem, item.Defindex)
	}

	placeholder := item
	placeholder.Quality = sku.DefaultQuality
	placeholder.Craftable = true
	placeholder.Effect = 0

	remote := &backpack.RemoteItem{
		ItemName: r.schema.GetName(placeholder, false),
		Quality:  item.Quality,
	}
	if !item.Craftable {
		zero := 0
		remote.Craftable = &zero
	}
	if item.Effect != 0 {
		effect := item.Effect
		remote.PriceIndex = &effect
	}
	return remote, nil
}

// Buy returns the identity key of a buy order for item.
func (r *Resolver) Buy(item sku.Item) (Key, error) {
	remote, err := r.ToRemoteItem(item)
	if err != nil {
		return "", err
	}
	return RemoteKey(remote), nil
}

// Sell returns the identity key of a sell order for an inventory asset.
func Sell(assetID string) Key {
	return Key("1;" + assetID)
}

// RemoteKey derives the buy identity from a remote attribute bag.
func RemoteKey(remote *backpack.RemoteItem) Key {
	var b strings.Builder
	b.WriteString("0;")
	b.WriteString(remote.ItemName)
	b.WriteString(";")
	b.WriteString(strconv.Itoa(remote.Quality))
	if remote.Craftable != nil && *remote.Craftable == 0 {
		b.WriteString(";uncraftable")
	}
	if remote.PriceIndex != nil {
		b.WriteString(";u")
		b.WriteString(strconv.Itoa(*remote.PriceIndex))
	}
	return Key(b.String())
}

// Resolve computes the identity key for a request. Sell requests need an
// asset id; buy requests need an item known to the schema.
func (r *Resolver) Resolve(intent backpack.Intent, item *sku.Item, assetID string) (Key, error) {
	switch intent {
	case backpack.IntentSell:
		if assetID == "" {
			return "", fmt.Errorf("%w: sell request without asset id", ErrInvalidItem)
		}
		return Sell(assetID), nil
	case backpack.IntentBuy:
		if item == nil {
			return "", fmt.Errorf("%w: buy request without item", ErrInvalidItem)
		}
		return r.Buy(*item)
	default:
		return "", fmt.Errorf("%w: intent %d", ErrInvalidItem, intent)
	}
}

// Listing computes the identity key of a remote listing.
func (r *Resolver) Listing(l *backpack.Listing) (Key, error) {
	if l.Intent == backpack.IntentSell {
		return Sell(l.Item.AssetID()), nil
	}
	return r.Buy(FromListingItem(l.Item))
}

// FromListingItem decodes the attributes of a listing item into a descriptor.
func FromListingItem(li backpack.ListingItem) sku.Item {
	item := sku.Item{
		Defindex:  li.Defindex,
		Quality:   li.Quality,
		Craftable: li.Craftable(),
	}
	if item.Quality == 0 {
		item.Quality = sku.DefaultQuality
	}

	for _, attr := range li.Attributes {
		switch attr.Defindex {
		case backpack.AttrKillstreak:
			item.Killstreak = utils.ToInt(attr.FloatValue)
		case backpack.AttrAustralium:
			item.Australium = true
		case backpack.AttrEffect:
			item.Effect = utils.ToInt(attr.FloatValue)
		case backpack.AttrPaintkit:
			item.Paintkit = utils.ToInt(attr.Value)
		case backpack.AttrWear:
			item.Wear = Wear(attributeFloat(attr))
		}
	}
	return item
}

// Wear quantizes a wear float to the marketplace's tier scale by truncation.
func Wear(f float64) int {
	return int(f * 5)
}

func attributeFloat(attr backpack.Attribute) float64 {
	if attr.FloatValue != nil {
		return utils.ToFloat(attr.FloatValue)
	}
	return utils.ToFloat(attr.Value)
}
