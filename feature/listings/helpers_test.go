package listings

import (
	"context"
	"sync"
	"testing"
	"time"

	"listing-manager/core/backpack"
	"listing-manager/core/currency"
	"listing-manager/core/schema"
	"listing-manager/core/sku"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSteamID = "76561198012345678"

// fakeRemote is an in-memory marketplace. Func fields override the default
// behavior of each call.
type fakeRemote struct {
	mu sync.Mutex

	current   []backpack.Listing
	cap       int
	inventory int64

	getListings func(ctx context.Context) (*backpack.ListingsResponse, error)
	create      func(ctx context.Context, batch []backpack.CreateListing) (map[string]backpack.CreateResult, error)
	remove      func(ctx context.Context, ids []string) (*backpack.DeleteResult, error)
	refreshInv  func(ctx context.Context) (*backpack.InventoryStatus, error)

	getCalls       int
	createCalls    [][]backpack.CreateListing
	deleteCalls    [][]string
	inventoryCalls int
	heartbeats     int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{cap: 300, inventory: 100}
}

func (f *fakeRemote) GetListings(ctx context.Context) (*backpack.ListingsResponse, error) {
	f.mu.Lock()
	f.getCalls++
	fn := f.getListings
	out := &backpack.ListingsResponse{Cap: f.cap, PromotesRemaining: 5}
	out.Listings = append(out.Listings, f.current...)
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return out, nil
}

func (f *fakeRemote) CreateListings(ctx context.Context, batch []backpack.CreateListing) (map[string]backpack.CreateResult, error) {
	f.mu.Lock()
	f.createCalls = append(f.createCalls, batch)
	fn := f.create
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, batch)
	}
	out := make(map[string]backpack.CreateResult, len(batch))
	for _, l := range batch {
		out[createName(l)] = backpack.CreateResult{Created: true}
	}
	return out, nil
}

func (f *fakeRemote) DeleteListings(ctx context.Context, ids []string) (*backpack.DeleteResult, error) {
	f.mu.Lock()
	f.deleteCalls = append(f.deleteCalls, ids)
	fn := f.remove
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, ids)
	}
	f.dropCurrent(ids...)
	return &backpack.DeleteResult{Deleted: len(ids)}, nil
}

func (f *fakeRemote) Heartbeat(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.heartbeats++
	return len(f.current), nil
}

func (f *fakeRemote) RefreshInventory(ctx context.Context, steamID string) (*backpack.InventoryStatus, error) {
	f.mu.Lock()
	f.inventoryCalls++
	fn := f.refreshInv
	ts := f.inventory
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return &backpack.InventoryStatus{Timestamp: ts, Available: true}, nil
}

func (f *fakeRemote) setCurrent(listings ...backpack.Listing) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = listings
}

func (f *fakeRemote) addCurrent(l backpack.Listing) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = append(f.current, l)
}

func (f *fakeRemote) dropCurrent(ids ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	gone := make(map[string]bool, len(ids))
	for _, id := range ids {
		gone[id] = true
	}
	kept := f.current[:0]
	for _, l := range f.current {
		if !gone[l.ID] {
			kept = append(kept, l)
		}
	}
	f.current = kept
}

func (f *fakeRemote) setInventory(ts int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inventory = ts
}

func (f *fakeRemote) creates() [][]backpack.CreateListing {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]backpack.CreateListing, len(f.createCalls))
	copy(out, f.createCalls)
	return out
}

func (f *fakeRemote) deletes() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]string, len(f.deleteCalls))
	copy(out, f.deleteCalls)
	return out
}

func createName(l backpack.CreateListing) string {
	if l.Intent == backpack.IntentSell {
		return l.ID
	}
	return l.Item.ItemName
}

func testSchema(t *testing.T) *schema.Static {
	t.Helper()
	s, err := schema.NewStatic(schema.Data{
		Items: []schema.Item{
			{Defindex: 5021, ItemName: "Mann Co. Supply Crate Key"},
			{Defindex: 378, ItemName: "Team Captain", ProperName: true},
			{Defindex: 5002, ItemName: "Refined Metal"},
		},
		Qualities: map[string]string{"5": "Unusual", "6": "Unique", "11": "Strange"},
		Effects:   map[string]string{"13": "Burning Flames"},
	})
	require.NoError(t, err)
	return s
}

func testConfig() Config {
	return Config{
		BatchSize:         100,
		WaitTime:          time.Hour,
		FlushAttempts:     3,
		FlushBackoff:      time.Millisecond,
		RelistWindow:      30 * time.Minute,
		MaxRemoveFailures: 3,
	}
}

func newTestManager(t *testing.T, remote *fakeRemote, mutate ...func(*Config)) *Manager {
	t.Helper()
	cfg := testConfig()
	for _, fn := range mutate {
		fn(&cfg)
	}

	m := NewManager(cfg, testSteamID, remote, testSchema(t), zap.NewNop())
	require.NoError(t, m.Init(context.Background()))
	t.Cleanup(func() { m.Stop(context.Background()) })
	return m
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func record(m *Manager) *recorder {
	r := &recorder{}
	m.Subscribe(func(e Event) {
		r.mu.Lock()
		r.events = append(r.events, e)
		r.mu.Unlock()
	})
	return r
}

func (r *recorder) of(typ EventType) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

func keyItem() *sku.Item {
	item := sku.MustParse("5021;6")
	return &item
}

func buyKey(price float64, ts time.Time) CreateRequest {
	return CreateRequest{
		Intent:     backpack.IntentBuy,
		Item:       keyItem(),
		Currencies: currency.New(0, price),
		Time:       ts,
	}
}

func sellAsset(asset string, ts time.Time) CreateRequest {
	return CreateRequest{
		Intent:     backpack.IntentSell,
		AssetID:    asset,
		Currencies: currency.New(1, 0),
		Time:       ts,
	}
}

func sellListing(id, asset string, created time.Time) backpack.Listing {
	return backpack.Listing{
		ID:         id,
		SteamID:    testSteamID,
		Intent:     backpack.IntentSell,
		AppID:      AppID,
		Item:       backpack.ListingItem{ID: asset, Defindex: 5021, Quality: 6},
		Currencies: currency.New(1, 0),
		Offers:     1.0,
		Buyout:     1.0,
		Details:    "selling",
		Created:    created.Unix(),
		Bump:       created.Unix(),
	}
}

func buyKeyListing(id string, created time.Time) backpack.Listing {
	return backpack.Listing{
		ID:         id,
		SteamID:    testSteamID,
		Intent:     backpack.IntentBuy,
		AppID:      AppID,
		Item:       backpack.ListingItem{Defindex: 5021, Quality: 6},
		Currencies: currency.New(0, 51.77),
		Offers:     1.0,
		Buyout:     1.0,
		Details:    "buying keys",
		Created:    created.Unix(),
		Bump:       created.Unix(),
	}
}
