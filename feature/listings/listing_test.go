package listings

import (
	"testing"
	"time"

	"listing-manager/core/backpack"
	"listing-manager/core/currency"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListing_Derived(t *testing.T) {
	remote := newFakeRemote()
	created := time.Unix(1700000000, 0)
	remote.setCurrent(
		sellListing("440_42", "42", created),
		buyKeyListing("440_k", created),
		backpack.Listing{ID: "730_1", Intent: backpack.IntentSell, AppID: 730, Item: backpack.ListingItem{ID: "1"}},
	)
	m := newTestManager(t, remote)

	sell := m.FindListing(backpack.IntentSell, nil, "42")
	require.NotNil(t, sell)
	assert.Equal(t, "42", sell.AssetID())
	assert.Equal(t, "5021;6", sell.SKU())
	assert.Equal(t, "1;42", string(sell.Identity()))
	assert.True(t, sell.Offers)
	assert.True(t, sell.Buyout)
	assert.True(t, sell.Created.Equal(created))

	buy := m.FindListing(backpack.IntentBuy, keyItem(), "")
	require.NotNil(t, buy)
	assert.Equal(t, "Mann Co. Supply Crate Key", buy.Name())
	assert.Equal(t, "440_k", buy.Raw().ID)

	var other *Listing
	for _, l := range m.Listings() {
		if l.ID == "730_1" {
			other = l
		}
	}
	require.NotNil(t, other)
	assert.Empty(t, other.SKU())
	assert.Empty(t, other.Name())
}

func TestListing_View(t *testing.T) {
	remote := newFakeRemote()
	remote.setCurrent(sellListing("440_42", "42", time.Now()))
	m := newTestManager(t, remote)

	v := m.Listings()[0].View()
	assert.Equal(t, "440_42", v.ID)
	assert.Equal(t, "sell", v.Intent)
	assert.Equal(t, "42", v.AssetID)
	assert.Equal(t, "1;42", string(v.Identity))
	assert.Equal(t, "1 key", v.Price)
	assert.Equal(t, "selling", v.Details)
}

func TestListing_RequestUpdate(t *testing.T) {
	bump := time.Now().Add(-2 * time.Hour)
	remote := newFakeRemote()
	remote.setCurrent(buyKeyListing("440_k", bump))
	m := newTestManager(t, remote)

	l := m.FindListing(backpack.IntentBuy, keyItem(), "")
	require.NotNil(t, l)

	price := currency.New(0, 53)

	ok, err := l.RequestUpdate(Update{Currencies: &price})
	require.NoError(t, err)
	assert.False(t, ok, "update without observed bump is ignored")

	ok, err = l.RequestUpdate(Update{Seen: bump.Add(-time.Minute), Currencies: &price})
	require.NoError(t, err)
	assert.False(t, ok, "update based on an older bump is ignored")
	assert.Empty(t, m.Queue().Creates)

	ok, err = l.RequestUpdate(Update{Seen: l.Bump, Currencies: &price})
	require.NoError(t, err)
	assert.True(t, ok)

	m.mu.Lock()
	pc := m.creates[l.Identity()]
	m.mu.Unlock()
	require.NotNil(t, pc)
	assert.True(t, pc.req.Force)
	assert.Equal(t, price, pc.req.Currencies)
	assert.Equal(t, "buying keys", pc.req.Details)
	assert.Equal(t, "5021;6", pc.req.Item.String())

	// The listing is older than the relist window: no remove first.
	assert.Empty(t, m.Queue().Removes)
}

func TestListing_RequestUpdateRecentSell(t *testing.T) {
	bump := time.Now().Add(-5 * time.Minute)
	remote := newFakeRemote()
	remote.setCurrent(sellListing("440_42", "42", bump))
	m := newTestManager(t, remote)

	l := m.FindListing(backpack.IntentSell, nil, "42")
	require.NotNil(t, l)

	details := "price drop"
	ok, err := l.RequestUpdate(Update{Seen: time.Now(), Details: &details})
	require.NoError(t, err)
	assert.True(t, ok)

	q := m.Queue()
	require.Len(t, q.Creates, 1)
	assert.Equal(t, "42", q.Creates[0].AssetID)
	assert.Equal(t, currency.New(1, 0), q.Creates[0].Currencies)
	require.Len(t, q.Removes, 1)
	assert.Equal(t, "440_42", q.Removes[0].ListingID)
}

func TestListing_RequestRemoval(t *testing.T) {
	remote := newFakeRemote()
	remote.setCurrent(sellListing("440_42", "42", time.Now()))
	m := newTestManager(t, remote)

	require.NoError(t, m.Listings()[0].RequestRemoval())

	q := m.Queue()
	require.Len(t, q.Removes, 1)
	assert.Equal(t, "440_42", q.Removes[0].ListingID)
}
