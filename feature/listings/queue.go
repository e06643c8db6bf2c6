package listings

import (
	"fmt"

	"listing-manager/core/backpack"
	"listing-manager/core/sku"
	"listing-manager/feature/listings/identity"

	"go.uber.org/zap"
)

// EnqueueCreate queues a create request. Validation errors are returned
// synchronously; the outcome of the create is only observable via events.
//
// At most one create is pending per identity. A request replaces the pending
// one only when that one is strictly older.
func (m *Manager) EnqueueCreate(req CreateRequest) error {
	if !req.Intent.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownIntent, req.Intent)
	}
	if req.Currencies.IsZero() {
		return ErrNoPrice
	}

	if req.SKU != "" && req.Item == nil {
		item, err := sku.Parse(req.SKU)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidItem, err)
		}
		req.Item = &item
	}

	key, err := m.resolver.Resolve(req.Intent, req.Item, req.AssetID)
	if err != nil {
		return err
	}

	pc := &pendingCreate{key: key, req: req}
	if req.Intent == backpack.IntentBuy {
		// Resolve already validated the item against the schema.
		pc.remote, _ = m.resolver.ToRemoteItem(*req.Item)
		pc.name = m.schema.GetName(*req.Item, false)
	}

	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return ErrStopped
	}
	if !m.ready {
		m.mu.Unlock()
		return ErrNotReady
	}

	if pc.req.Time.IsZero() {
		pc.req.Time = m.now()
	}

	if existing, ok := m.creates[key]; ok && !existing.req.Time.Before(pc.req.Time) {
		m.mu.Unlock()
		m.logger.Debug("Discarded create older than pending one", zap.String("identity", string(key)))
		return nil
	}

	m.seq++
	pc.seq = m.seq
	m.creates[key] = pc

	if live := m.liveListingLocked(key); live != nil {
		if _, removing := m.removes[live.ID]; removing {
			// The live listing is already going away; keep the new create.
			m.replacing[live.ID] = key
		} else if req.Force && m.now().Sub(live.Created) <= m.cfg.RelistWindow {
			m.removes[live.ID] = &pendingRemove{seq: m.seq}
			m.replacing[live.ID] = key
		}
	}

	m.queueChangedLocked()
	m.scheduleFlushLocked()
	m.unlock()
	return nil
}

// EnqueueRemove queues a listing id for removal. A pending create for the
// same identity that has not been submitted yet is cancelled, unless the
// create is meant to replace this listing.
func (m *Manager) EnqueueRemove(id string) error {
	if id == "" {
		return fmt.Errorf("empty listing id")
	}

	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return ErrStopped
	}
	if !m.ready {
		m.mu.Unlock()
		return ErrNotReady
	}

	m.enqueueRemoveLocked(id)
	m.queueChangedLocked()
	m.scheduleFlushLocked()
	m.unlock()
	return nil
}

func (m *Manager) enqueueRemoveLocked(id string) {
	if _, ok := m.removes[id]; !ok {
		m.seq++
		m.removes[id] = &pendingRemove{seq: m.seq}
	}

	if _, replaced := m.replacing[id]; replaced {
		return
	}
	l := m.listingByIDLocked(id)
	if l == nil {
		return
	}
	key := l.Identity()
	if pc, ok := m.creates[key]; ok && m.inflight[key] != pc {
		m.dropCreateLocked(key)
	}
}

// RemoveItem cancels the pending create for an item and removes its live
// listing. Buy orders are matched by item, sell orders by asset id.
func (m *Manager) RemoveItem(intent backpack.Intent, item *sku.Item, assetID string) error {
	key, err := m.resolver.Resolve(intent, item, assetID)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return ErrStopped
	}
	if !m.ready {
		m.mu.Unlock()
		return ErrNotReady
	}

	changed := m.cancelLocked(key)
	if l := m.liveListingLocked(key); l != nil {
		m.enqueueRemoveLocked(l.ID)
		changed = true
	}
	if changed {
		m.queueChangedLocked()
		m.scheduleFlushLocked()
	}
	m.unlock()
	return nil
}

// cancelLocked drops the pending create of key. An in-flight create cannot
// be recalled; if its response reports the listing created, the listing is
// removed after the next refetch.
func (m *Manager) cancelLocked(key identity.Key) bool {
	if _, ok := m.creates[key]; !ok {
		return false
	}
	m.dropCreateLocked(key)
	return true
}

// scheduleFlushLocked arranges for the queue to be flushed: after the
// debounce period, immediately once a full batch is pending, or after the
// running flush when one is in progress.
func (m *Manager) scheduleFlushLocked() {
	if m.stopped || !m.ready {
		return
	}
	if m.flushing {
		m.flushAgain = true
		return
	}
	if m.queueEmptyLocked() {
		m.debounce.Stop()
		return
	}
	if len(m.creates) >= m.cfg.BatchSize {
		m.debounce.Stop()
		m.startFlushLocked()
		return
	}
	m.debounce.Reset(m.cfg.WaitTime, m.onDebounce)
}

func (m *Manager) onDebounce() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped {
		return
	}
	if m.flushing {
		m.flushAgain = true
		return
	}
	m.startFlushLocked()
}

func (m *Manager) startFlushLocked() {
	m.flushing = true
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if _, err := m.runFlush(m.ctx); err != nil {
			m.logger.Warn("Scheduled flush failed", zap.Error(err))
		}
	}()
}
