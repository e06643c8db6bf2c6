package listings

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"listing-manager/core/backpack"

	"go.uber.org/zap"
)

// Init validates the account, loads the listing cache and the inventory
// status concurrently and starts the heartbeat and inventory intervals.
// Enqueue calls fail with ErrNotReady until it returns successfully.
func (m *Manager) Init(ctx context.Context) error {
	if err := backpack.ValidateSteamID(m.steamID); err != nil {
		return err
	}

	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return ErrStopped
	}
	m.mu.Unlock()

	var (
		listingsErr  error
		inventoryErr error
		wg           sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		listingsErr = m.RefreshListings(ctx)
	}()
	go func() {
		defer wg.Done()
		_, inventoryErr = m.RefreshInventory(ctx)
	}()
	wg.Wait()

	if listingsErr != nil {
		return fmt.Errorf("failed to initialize: %w", listingsErr)
	}
	if inventoryErr != nil {
		// The cache is usable without an inventory timestamp; sell creates
		// simply wait for the next inventory cycle.
		m.logger.Warn("Initial inventory refresh failed", zap.Error(inventoryErr))
	}

	if err := m.startIntervals(); err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	m.mu.Lock()
	m.ready = true
	count := len(m.listings)
	m.mu.Unlock()

	m.logger.Info("Listing manager ready", zap.Int("listings", count))
	return nil
}

func (m *Manager) startIntervals() error {
	if m.cfg.HeartbeatInterval > 0 {
		err := m.intervals.Every("heartbeat", m.cfg.HeartbeatInterval, func() {
			if _, err := m.SendHeartbeat(m.ctx); err != nil {
				m.logger.Warn("Heartbeat failed", zap.Error(err))
			}
			if err := m.RefreshListings(m.ctx); err != nil {
				m.logger.Warn("Listing refresh failed", zap.Error(err))
			}
		})
		if err != nil {
			return err
		}
	}

	if m.cfg.InventoryInterval > 0 {
		err := m.intervals.Every("inventory", m.cfg.InventoryInterval, func() {
			if _, err := m.RefreshInventory(m.ctx); err != nil {
				m.logger.Warn("Inventory refresh failed", zap.Error(err))
			}
		})
		if err != nil {
			return err
		}
	}

	m.intervals.Start()
	return nil
}

// Stop cancels the debounce timer, the intervals and any scheduled flush,
// then waits for running work or ctx.
func (m *Manager) Stop(ctx context.Context) {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	m.debounce.Stop()
	m.relist.Stop()
	m.mu.Unlock()

	m.cancel()
	m.intervals.Stop(ctx)

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}

// SendHeartbeat bumps every listing of the account.
func (m *Manager) SendHeartbeat(ctx context.Context) (int, error) {
	bumped, err := m.remote.Heartbeat(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to send heartbeat: %w", err)
	}

	m.mu.Lock()
	m.emitLocked(Event{Type: EventHeartbeatSent, Bumped: bumped})
	m.unlock()

	m.logger.Debug("Heartbeat sent", zap.Int("bumped", bumped))
	return bumped, nil
}

// RefreshInventory asks the marketplace to reload the account inventory and
// returns the resulting sync timestamp. Refreshes inside the cooldown return
// the last known timestamp without a remote call. Concurrent calls share one
// request.
func (m *Manager) RefreshInventory(ctx context.Context) (int64, error) {
	v, err, _ := m.sf.Do("inventory", func() (any, error) {
		return m.refreshInventory(ctx)
	})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

func (m *Manager) refreshInventory(ctx context.Context) (int64, error) {
	m.mu.Lock()
	if m.cfg.InventoryCooldown > 0 && !m.inventoryAt.IsZero() && m.now().Sub(m.inventoryAt) < m.cfg.InventoryCooldown {
		ts := m.inventoryTime
		m.mu.Unlock()
		return ts, nil
	}
	m.mu.Unlock()

	status, err := m.remote.RefreshInventory(ctx, m.steamID)
	if err == nil && !status.Available {
		err = fmt.Errorf("inventory unavailable: %s", status.Message)
	}
	if err != nil {
		m.mu.Lock()
		m.emitLocked(Event{Type: EventActionError, Phase: PhaseInventory, Reason: err.Error()})
		m.unlock()
		return 0, fmt.Errorf("failed to refresh inventory: %w", err)
	}

	m.mu.Lock()
	m.inventoryAt = m.now()
	changed := status.Timestamp != m.inventoryTime
	m.inventoryTime = status.Timestamp
	m.emitLocked(Event{Type: EventInventoryRefreshed, Timestamp: status.Timestamp})
	if changed && len(m.creates) > 0 {
		m.scheduleFlushLocked()
	}
	m.unlock()

	return status.Timestamp, nil
}

// RefreshListings replaces the cache with the remote listing set and
// reconciles the queue against it. Concurrent calls share one request.
func (m *Manager) RefreshListings(ctx context.Context) error {
	_, err, _ := m.sf.Do("listings", func() (any, error) {
		return nil, m.refreshListings(ctx)
	})
	return err
}

func (m *Manager) refreshListings(ctx context.Context) error {
	resp, err := m.remote.GetListings(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch listings: %w", err)
	}

	m.mu.Lock()
	m.listings = make([]*Listing, 0, len(resp.Listings))
	present := make(map[string]bool, len(resp.Listings))
	for _, raw := range resp.Listings {
		m.listings = append(m.listings, newListing(raw, m))
		present[raw.ID] = true
	}
	m.cap = resp.Cap
	m.promotes = resp.PromotesRemaining
	m.pendingNew = 0

	changed := false
	for id := range m.removes {
		if !present[id] {
			m.dropRemoveLocked(id)
			changed = true
		}
	}
	for key := range m.conflicts {
		if m.scheduleRemovalLocked(key) {
			changed = true
		}
		delete(m.conflicts, key)
	}
	if changed {
		m.queueChangedLocked()
	}
	if !m.queueEmptyLocked() {
		m.scheduleFlushLocked()
	}

	snap := &Snapshot{
		SteamID:   m.steamID,
		Cap:       resp.Cap,
		Promotes:  resp.PromotesRemaining,
		Listings:  resp.Listings,
		FetchedAt: m.now(),
	}
	m.unlock()

	var sinkErr error
	for _, sink := range m.sinks {
		sinkErr = errors.Join(sinkErr, sink.SaveSnapshot(ctx, snap))
	}
	if sinkErr != nil {
		m.logger.Warn("Failed to persist listing snapshot", zap.Error(sinkErr))
	}

	m.logger.Debug("Listings refreshed", zap.Int("count", len(resp.Listings)), zap.Int("cap", resp.Cap))
	return nil
}
