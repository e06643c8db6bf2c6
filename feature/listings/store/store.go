package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"listing-manager/core/backpack"
	"listing-manager/core/database"
	"listing-manager/feature/listings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const insertBatchSize = 100

// Store persists listing snapshots. It implements listings.SnapshotSink.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

var _ listings.SnapshotSink = (*Store)(nil)

// New creates a store on an open database.
func New(db *gorm.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// Migrate creates or updates the tables and verifies the listing columns.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&ListingRecord{}, &SnapshotRecord{}); err != nil {
		return fmt.Errorf("failed to migrate listing tables: %w", err)
	}
	return s.Verify()
}

// Verify checks that the listing table carries every expected column.
func (s *Store) Verify() error {
	missing, err := database.MissingColumns(s.db, ListingRecord{}.TableName(), listingColumns)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("table %s is missing columns %v", ListingRecord{}.TableName(), missing)
	}
	return nil
}

// SaveSnapshot replaces the stored listings of the account with snap and
// records its header, in one transaction.
func (s *Store) SaveSnapshot(ctx context.Context, snap *listings.Snapshot) error {
	records := make([]ListingRecord, 0, len(snap.Listings))
	for _, l := range snap.Listings {
		rec, err := toRecord(l, snap.SteamID, snap.FetchedAt)
		if err != nil {
			return err
		}
		records = append(records, rec)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("steamid = ?", snap.SteamID).Delete(&ListingRecord{}).Error; err != nil {
			return fmt.Errorf("failed to clear listings: %w", err)
		}
		if len(records) > 0 {
			if err := tx.CreateInBatches(records, insertBatchSize).Error; err != nil {
				return fmt.Errorf("failed to insert listings: %w", err)
			}
		}
		header := SnapshotRecord{
			SteamID:   snap.SteamID,
			Cap:       snap.Cap,
			Promotes:  snap.Promotes,
			Count:     len(records),
			FetchedAt: snap.FetchedAt,
		}
		if err := tx.Create(&header).Error; err != nil {
			return fmt.Errorf("failed to insert snapshot: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug("Snapshot stored", zap.String("steamid", snap.SteamID), zap.Int("listings", len(records)))
	return nil
}

// Load returns the stored listings of an account, ordered by listing id.
func (s *Store) Load(ctx context.Context, steamID string) ([]backpack.Listing, error) {
	var records []ListingRecord
	if err := s.db.WithContext(ctx).Where("steamid = ?", steamID).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load listings: %w", err)
	}

	out := make([]backpack.Listing, 0, len(records))
	for _, rec := range records {
		var l backpack.Listing
		dec := json.NewDecoder(strings.NewReader(rec.Raw))
		dec.UseNumber()
		if err := dec.Decode(&l); err != nil {
			return nil, fmt.Errorf("failed to decode listing %s: %w", rec.ID, err)
		}
		out = append(out, l)
	}
	return out, nil
}

// Latest returns the most recent snapshot header of an account, or nil.
func (s *Store) Latest(ctx context.Context, steamID string) (*SnapshotRecord, error) {
	var rec SnapshotRecord
	err := s.db.WithContext(ctx).Where("steamid = ?", steamID).Order("fetched_at DESC, id DESC").First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read latest snapshot: %w", err)
	}
	return &rec, nil
}

// PruneHeaders deletes snapshot headers older than before.
func (s *Store) PruneHeaders(ctx context.Context, before time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("fetched_at < ?", before).Delete(&SnapshotRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func toRecord(l backpack.Listing, steamID string, fetched time.Time) (ListingRecord, error) {
	raw, err := json.Marshal(l)
	if err != nil {
		return ListingRecord{}, fmt.Errorf("failed to encode listing %s: %w", l.ID, err)
	}
	return ListingRecord{
		ID:        l.ID,
		SteamID:   steamID,
		Intent:    int(l.Intent),
		AppID:     l.AppID,
		AssetID:   l.Item.AssetID(),
		Defindex:  l.Item.Defindex,
		Quality:   l.Item.Quality,
		Keys:      l.Currencies.Keys,
		Metal:     l.Currencies.Metal,
		Details:   l.Details,
		Raw:       string(raw),
		Created:   time.Unix(l.Created, 0),
		Bump:      time.Unix(l.Bump, 0),
		FetchedAt: fetched,
	}, nil
}
