package store

import (
	"time"
)

// ListingRecord is one listing of the latest snapshot of an account.
type ListingRecord struct {
	ID       string  `gorm:"column:id;primaryKey;size:64"`
	SteamID  string  `gorm:"column:steamid;index;size:17"`
	Intent   int     `gorm:"column:intent"`
	AppID    int     `gorm:"column:appid"`
	AssetID  string  `gorm:"column:asset_id;size:32"`
	Defindex int     `gorm:"column:defindex"`
	Quality  int     `gorm:"column:quality"`
	Keys     float64 `gorm:"column:price_keys"`
	Metal    float64 `gorm:"column:price_metal"`
	Details  string  `gorm:"column:details;type:text"`
	// Raw is the listing as received, JSON encoded.
	Raw       string    `gorm:"column:raw;type:text"`
	Created   time.Time `gorm:"column:created"`
	Bump      time.Time `gorm:"column:bump"`
	FetchedAt time.Time `gorm:"column:fetched_at"`
}

// TableName overrides the table name.
func (ListingRecord) TableName() string {
	return "listings"
}

// SnapshotRecord is the header of one full listing refetch.
type SnapshotRecord struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	SteamID   string    `gorm:"column:steamid;index;size:17"`
	Cap       int       `gorm:"column:cap"`
	Promotes  int       `gorm:"column:promotes_remaining"`
	Count     int       `gorm:"column:listing_count"`
	FetchedAt time.Time `gorm:"column:fetched_at;index"`
}

// TableName overrides the table name.
func (SnapshotRecord) TableName() string {
	return "listing_snapshots"
}

var listingColumns = []string{
	"id", "steamid", "intent", "appid", "asset_id", "defindex", "quality",
	"price_keys", "price_metal", "details", "raw", "created", "bump", "fetched_at",
}
