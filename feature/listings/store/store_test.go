package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"listing-manager/core/backpack"
	"listing-manager/core/currency"
	"listing-manager/core/database"
	"listing-manager/feature/listings"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const steamID = "76561198012345678"

func setupStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	s := New(db, zap.NewNop())
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func snapshot(at time.Time, ids ...string) *listings.Snapshot {
	snap := &listings.Snapshot{SteamID: steamID, Cap: 300, Promotes: 4, FetchedAt: at}
	for _, id := range ids {
		snap.Listings = append(snap.Listings, backpack.Listing{
			ID:         id,
			SteamID:    steamID,
			Intent:     backpack.IntentSell,
			AppID:      440,
			Item:       backpack.ListingItem{ID: "12345678901", Defindex: 5021, Quality: 6},
			Currencies: currency.New(1, 0.11),
			Offers:     1,
			Buyout:     0,
			Details:    "selling " + id,
			Created:    at.Add(-time.Hour).Unix(),
			Bump:       at.Unix(),
		})
	}
	return snap
}

func TestStore_SaveAndLoad(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	now := time.Now().Truncate(time.Second)

	require.NoError(t, s.SaveSnapshot(ctx, snapshot(now.Add(-time.Minute), "440_a", "440_b", "440_c")))
	require.NoError(t, s.SaveSnapshot(ctx, snapshot(now, "440_b", "440_d")))

	loaded, err := s.Load(ctx, steamID)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "440_b", loaded[0].ID)
	assert.Equal(t, "440_d", loaded[1].ID)
	assert.Equal(t, "12345678901", loaded[0].Item.AssetID())
	assert.Equal(t, currency.New(1, 0.11), loaded[0].Currencies)
	assert.Equal(t, "selling 440_b", loaded[0].Details)

	other, err := s.Load(ctx, "76561198000000000")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestStore_Latest(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	now := time.Now().Truncate(time.Second)

	latest, err := s.Latest(ctx, steamID)
	require.NoError(t, err)
	assert.Nil(t, latest)

	require.NoError(t, s.SaveSnapshot(ctx, snapshot(now.Add(-time.Hour), "440_a")))
	require.NoError(t, s.SaveSnapshot(ctx, snapshot(now, "440_a", "440_b")))

	latest, err = s.Latest(ctx, steamID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, 2, latest.Count)
	assert.Equal(t, 300, latest.Cap)
	assert.Equal(t, 4, latest.Promotes)

	pruned, err := s.PruneHeaders(ctx, now.Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)
}

func TestStore_EmptySnapshot(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSnapshot(ctx, snapshot(time.Now(), "440_a")))
	require.NoError(t, s.SaveSnapshot(ctx, snapshot(time.Now())))

	loaded, err := s.Load(ctx, steamID)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestStore_Verify(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE listings (id TEXT PRIMARY KEY, steamid TEXT)").Error)

	err = New(db, zap.NewNop()).Verify()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "price_keys")
}

func TestStore_SaveSnapshotRollsBack(t *testing.T) {
	db, mock := setupMockDB(t)
	s := New(db, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `listings`").WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	err := s.SaveSnapshot(context.Background(), snapshot(time.Now(), "440_a"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to clear listings")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_LoadQueryError(t *testing.T) {
	db, mock := setupMockDB(t)
	s := New(db, zap.NewNop())

	mock.ExpectQuery("SELECT \\* FROM `listings`").WillReturnError(errors.New("gone away"))

	_, err := s.Load(context.Background(), steamID)
	assert.ErrorContains(t, err, "failed to load listings")
	assert.NoError(t, mock.ExpectationsWereMet())
}
