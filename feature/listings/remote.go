package listings

import (
	"context"
	"time"

	"listing-manager/core/backpack"
)

// Remote is the marketplace API the engine drives. backpack.Client implements it.
type Remote interface {
	GetListings(ctx context.Context) (*backpack.ListingsResponse, error)
	CreateListings(ctx context.Context, listings []backpack.CreateListing) (map[string]backpack.CreateResult, error)
	DeleteListings(ctx context.Context, ids []string) (*backpack.DeleteResult, error)
	Heartbeat(ctx context.Context) (int, error)
	RefreshInventory(ctx context.Context, steamID string) (*backpack.InventoryStatus, error)
}

// Snapshot is the listing set as of one full refresh.
type Snapshot struct {
	SteamID   string             `json:"steamid"`
	Cap       int                `json:"cap"`
	Promotes  int                `json:"promotes_remaining"`
	Listings  []backpack.Listing `json:"listings"`
	FetchedAt time.Time          `json:"fetched_at"`
}

// SnapshotSink receives every full refresh. Failures are logged, never fatal.
type SnapshotSink interface {
	SaveSnapshot(ctx context.Context, snap *Snapshot) error
}
