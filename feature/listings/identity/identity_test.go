package identity

import (
	"testing"

	"listing-manager/core/backpack"
	"listing-manager/core/schema"
	"listing-manager/core/sku"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResolver(t *testing.T) *Resolver {
	t.Helper()
	s, err := schema.NewStatic(schema.Data{
		Items: []schema.Item{
			{Defindex: 5021, ItemName: "Mann Co. Supply Crate Key"},
			{Defindex: 378, ItemName: "Team Captain", ProperName: true},
			{Defindex: 15013, ItemName: "Sniper Rifle"},
		},
		Qualities: map[string]string{"5": "Unusual", "6": "Unique", "11": "Strange"},
		Effects:   map[string]string{"13": "Burning Flames"},
		Paintkits: map[string]string{"43": "Night Owl"},
	})
	require.NoError(t, err)
	return NewResolver(s)
}

func TestBuyIdentityCollapsesDefaults(t *testing.T) {
	r := testResolver(t)

	craftable := true
	quality := 6
	explicit := sku.Descriptor{Defindex: 5021, Craftable: &craftable, Quality: &quality}.Normalize()
	omitted := sku.Descriptor{Defindex: 5021}.Normalize()

	a, err := r.Buy(explicit)
	require.NoError(t, err)
	b, err := r.Buy(omitted)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, Key("0;Mann Co. Supply Crate Key;6"), a)
}

func TestBuyIdentityIsDeterministic(t *testing.T) {
	r := testResolver(t)
	item := sku.MustParse("378;5;u13")

	first, err := r.Buy(item)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := r.Buy(item)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, Key("0;Team Captain;5;u13"), first)
}

func TestBuyIdentityDistinguishesAttributes(t *testing.T) {
	r := testResolver(t)

	keys := map[Key]string{}
	for _, s := range []string{"5021;6", "5021;6;uncraftable", "5021;11", "378;5;u13", "15013;15;pk43;w3", "15013;15;pk43;w1"} {
		k, err := r.Buy(sku.MustParse(s))
		require.NoError(t, err)
		prev, dup := keys[k]
		assert.False(t, dup, "%s collides with %s", s, prev)
		keys[k] = s
	}
}

func TestToRemoteItem(t *testing.T) {
	r := testResolver(t)

	remote, err := r.ToRemoteItem(sku.MustParse("378;5;u13;uncraftable"))
	require.NoError(t, err)
	assert.Equal(t, "Team Captain", remote.ItemName)
	assert.Equal(t, 5, remote.Quality)
	require.NotNil(t, remote.Craftable)
	assert.Equal(t, 0, *remote.Craftable)
	require.NotNil(t, remote.PriceIndex)
	assert.Equal(t, 13, *remote.PriceIndex)

	plain, err := r.ToRemoteItem(sku.MustParse("5021;6"))
	require.NoError(t, err)
	assert.Nil(t, plain.Craftable)
	assert.Nil(t, plain.PriceIndex)
}

func TestInvalidItem(t *testing.T) {
	r := testResolver(t)

	_, err := r.ToRemoteItem(sku.MustParse("99999;6"))
	assert.ErrorIs(t, err, ErrInvalidItem)

	_, err = r.Resolve(backpack.IntentBuy, nil, "")
	assert.ErrorIs(t, err, ErrInvalidItem)

	_, err = r.Resolve(backpack.IntentSell, nil, "")
	assert.ErrorIs(t, err, ErrInvalidItem)

	_, err = r.Resolve(backpack.Intent(7), nil, "1")
	assert.ErrorIs(t, err, ErrInvalidItem)
}

func TestSellIdentityUnique(t *testing.T) {
	r := testResolver(t)
	item := sku.MustParse("5021;6")

	a, err := r.Resolve(backpack.IntentSell, &item, "123456")
	require.NoError(t, err)
	b, err := r.Resolve(backpack.IntentSell, &item, "123457")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Equal(t, backpack.IntentSell, a.Intent())
}

func TestWearTruncates(t *testing.T) {
	assert.Equal(t, 1, Wear(0.2))
	assert.Equal(t, 1, Wear(0.39))
	assert.Equal(t, 2, Wear(0.4))
	assert.Equal(t, 4, Wear(0.99))
	assert.Equal(t, 5, Wear(1.0))
}

func TestFromListingItem(t *testing.T) {
	item := FromListingItem(backpack.ListingItem{
		Defindex:        15013,
		Quality:         15,
		FlagCannotCraft: true,
		Attributes: []backpack.Attribute{
			{Defindex: backpack.AttrKillstreak, FloatValue: 2.0},
			{Defindex: backpack.AttrAustralium, FloatValue: 1.0},
			{Defindex: backpack.AttrPaintkit, Value: 43.0},
			{Defindex: backpack.AttrWear, FloatValue: 0.6},
			{Defindex: backpack.AttrEffect, FloatValue: 13.0},
		},
	})

	assert.Equal(t, sku.Item{
		Defindex:   15013,
		Quality:    15,
		Craftable:  false,
		Killstreak: 2,
		Australium: true,
		Effect:     13,
		Paintkit:   43,
		Wear:       3,
	}, item)
}

func TestListingKey(t *testing.T) {
	r := testResolver(t)

	sell, err := r.Listing(&backpack.Listing{Intent: backpack.IntentSell, Item: backpack.ListingItem{ID: "555"}})
	require.NoError(t, err)
	assert.Equal(t, Key("1;555"), sell)

	buy, err := r.Listing(&backpack.Listing{Intent: backpack.IntentBuy, Item: backpack.ListingItem{Defindex: 5021, Quality: 6}})
	require.NoError(t, err)
	assert.Equal(t, Key("0;Mann Co. Supply Crate Key;6"), buy)
}
