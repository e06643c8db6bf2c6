package cmd

import (
	"context"
	"fmt"

	"listing-manager/core/backpack"
	"listing-manager/core/config"
	"listing-manager/core/database"
	"listing-manager/core/logger"
	"listing-manager/core/schema"
	"listing-manager/core/storage"
	"listing-manager/feature/listings"
	"listing-manager/feature/listings/archive"
	"listing-manager/feature/listings/store"

	"go.uber.org/zap"
)

// session is everything a command needs to drive the listing engine.
type session struct {
	cfg     *config.Config
	logger  *zap.Logger
	manager *listings.Manager
	store   *store.Store
	archive *archive.Archive
}

// openSession loads configuration, connects the optional snapshot sinks
// and builds an initialized manager. Background intervals only run when
// background is set; one-shot commands flush explicitly.
func openSession(ctx context.Context, background bool) (*session, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	l = l.With(zap.String("steamid", cfg.Backpack.SteamID))

	s := &session{cfg: cfg, logger: l}

	s.store, err = openStore(ctx, cfg, l)
	if err != nil {
		return nil, err
	}
	s.archive, err = openArchive(ctx, cfg, l)
	if err != nil {
		return nil, err
	}

	client, err := backpack.NewClient(&cfg.Backpack)
	if err != nil {
		return nil, fmt.Errorf("failed to create backpack client: %w", err)
	}

	lookup, err := schema.LoadFile(cfg.Schema.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}

	engineCfg := cfg.Listings
	if !background {
		engineCfg.HeartbeatInterval = 0
		engineCfg.InventoryInterval = 0
	}

	var opts []listings.Option
	if s.store != nil {
		opts = append(opts, listings.WithSnapshotSink(s.store))
	}
	if s.archive != nil {
		opts = append(opts, listings.WithSnapshotSink(s.archive))
	}

	s.manager = listings.NewManager(engineCfg, cfg.Backpack.SteamID, client, lookup, l, opts...)
	s.manager.Subscribe(logEvents(l))

	if err := s.manager.Init(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize listing manager: %w", err)
	}
	return s, nil
}

func openStore(ctx context.Context, cfg *config.Config, l *zap.Logger) (*store.Store, error) {
	if !cfg.Database.Enabled {
		return nil, nil
	}
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	st := store.New(db, l)
	if err := st.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to migrate snapshot tables: %w", err)
	}
	l.Info("Connected to snapshot database", zap.String("driver", cfg.Database.Driver))
	return st, nil
}

func openArchive(ctx context.Context, cfg *config.Config, l *zap.Logger) (*archive.Archive, error) {
	if !cfg.Storage.Enabled {
		return nil, nil
	}
	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
		return nil, err
	}
	l.Info("Archiving snapshots", zap.String("bucket", cfg.Storage.Bucket), zap.Int("retention", cfg.Storage.Retention))
	return archive.New(client, cfg.Storage.Bucket, cfg.Storage.Retention, l), nil
}

// close stops the manager within the configured shutdown timeout.
func (s *session) close() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	s.manager.Stop(ctx)
	_ = s.logger.Sync()
}

func logEvents(l *zap.Logger) listings.EventHandler {
	return func(e listings.Event) {
		switch e.Type {
		case listings.EventActionError:
			l.Warn("Listing action failed",
				zap.String("phase", string(e.Phase)),
				zap.String("identity", string(e.Identity)),
				zap.String("listing_id", e.ListingID),
				zap.String("reason", e.Reason),
			)
		case listings.EventListingCreated:
			l.Info("Listing created", zap.String("identity", string(e.Identity)))
		case listings.EventListingRemoved:
			l.Info("Listing removed", zap.String("listing_id", e.ListingID))
		case listings.EventQueueChanged:
			l.Debug("Queue changed", zap.Int("creates", e.Creates), zap.Int("removes", e.Removes))
		case listings.EventInventoryRefreshed:
			l.Debug("Inventory refreshed", zap.Int64("timestamp", e.Timestamp))
		case listings.EventHeartbeatSent:
			l.Debug("Heartbeat sent", zap.Int("bumped", e.Bumped))
		}
	}
}
