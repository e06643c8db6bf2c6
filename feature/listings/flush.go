package listings

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"listing-manager/core/backpack"
	"listing-manager/feature/listings/identity"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FlushResult summarizes one flush run.
type FlushResult struct {
	ID string `json:"id,omitempty"`
	// Deferred is set when another flush was running; the request is
	// recorded and served after it.
	Deferred bool `json:"deferred,omitempty"`
	Attempts int  `json:"attempts"`
	Removed  int  `json:"removed"`
	Created  int  `json:"created"`
	Retrying int  `json:"retrying"`
	Failed   int  `json:"failed"`
}

// flushRun is the state of one run, kept across transport retries.
type flushRun struct {
	id       string
	startSeq uint64
	logger   *zap.Logger
	result   *FlushResult
	// excluded removes failed in this run and are not resubmitted by it.
	excluded map[string]bool
	// refresh asks for a listing refetch before the next iteration.
	refresh bool
}

// Flush submits the queue: removes first, then creates in batches. Only one
// flush runs at a time; a concurrent call returns a deferred result.
func (m *Manager) Flush(ctx context.Context) (*FlushResult, error) {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return nil, ErrStopped
	}
	if !m.ready {
		m.mu.Unlock()
		return nil, ErrNotReady
	}
	if m.flushing {
		m.flushAgain = true
		m.mu.Unlock()
		return &FlushResult{Deferred: true}, nil
	}
	m.flushing = true
	m.debounce.Stop()
	m.mu.Unlock()

	return m.runFlush(ctx)
}

// runFlush expects m.flushing to be set by the caller and clears it.
func (m *Manager) runFlush(ctx context.Context) (*FlushResult, error) {
	m.mu.Lock()
	run := &flushRun{
		id:       uuid.NewString(),
		startSeq: m.seq,
		excluded: make(map[string]bool),
	}
	m.mu.Unlock()

	run.logger = m.logger.With(zap.String("flush_id", run.id))
	run.result = &FlushResult{ID: run.id}
	run.logger.Debug("Flush started")

	var err error
	for attempt := 1; attempt <= m.cfg.FlushAttempts; attempt++ {
		run.result.Attempts = attempt
		if err = m.flushOnce(ctx, run); err == nil {
			break
		}

		run.logger.Warn("Flush attempt failed", zap.Int("attempt", attempt), zap.Error(err))
		if attempt == m.cfg.FlushAttempts || !retryable(err) || ctx.Err() != nil {
			break
		}

		wait := backpack.RetryAfter(err)
		if wait <= 0 {
			wait = m.cfg.FlushBackoff << (attempt - 1)
		}
		select {
		case <-ctx.Done():
		case <-time.After(wait):
		}
		if ctx.Err() != nil {
			break
		}
	}

	m.mu.Lock()
	if err != nil {
		m.emitLocked(Event{Type: EventActionError, Phase: PhaseFlush, Reason: err.Error()})
	}
	m.flushing = false
	again := m.flushAgain
	m.flushAgain = false
	if again {
		m.scheduleFlushLocked()
	}
	m.armRelistLocked()
	m.unlock()

	if err != nil {
		return run.result, fmt.Errorf("failed to flush %s: %w", run.id, err)
	}
	run.logger.Debug("Flush finished",
		zap.Int("removed", run.result.Removed),
		zap.Int("created", run.result.Created),
		zap.Int("failed", run.result.Failed),
	)
	return run.result, nil
}

// armRelistLocked schedules a flush for when the earliest held relist
// becomes eligible.
func (m *Manager) armRelistLocked() {
	if m.stopped {
		return
	}
	var next time.Time
	for key, at := range m.relistAt {
		if _, ok := m.creates[key]; !ok {
			continue
		}
		if next.IsZero() || at.Before(next) {
			next = at
		}
	}
	if next.IsZero() {
		m.relist.Stop()
		return
	}
	m.relist.Reset(max(next.Sub(m.now()), 0), m.onDebounce)
}

// retryable reports whether another attempt could succeed. Client errors
// other than rate limiting cannot.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *backpack.APIError
	if errors.As(err, &apiErr) {
		return backpack.IsRetryable(err)
	}
	return true
}

func (m *Manager) flushOnce(ctx context.Context, run *flushRun) error {
	for {
		if err := m.deletePhase(ctx, run); err != nil {
			return err
		}
		if err := m.createPhase(ctx, run); err != nil {
			return err
		}

		m.mu.Lock()
		empty := m.queueEmptyLocked()
		refresh := run.refresh
		run.refresh = false
		m.mu.Unlock()

		if empty || refresh {
			if err := m.RefreshListings(ctx); err != nil {
				return err
			}
			if empty {
				return nil
			}
		}

		m.mu.Lock()
		more := len(m.eligibleRemovesLocked(run)) > 0 || len(m.eligibleCreatesLocked(run)) > 0
		m.mu.Unlock()
		if !more {
			return nil
		}
	}
}

func (m *Manager) eligibleRemovesLocked(run *flushRun) []string {
	ids := make([]string, 0, len(m.removes))
	for id, entry := range m.removes {
		if run.excluded[id] {
			continue
		}
		if !entry.internal && entry.seq > run.startSeq {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// eligibleCreatesLocked picks the next create batch: oldest first, ties by
// identity, skipping requests waiting on the current inventory cycle and
// new identities beyond the listing cap.
func (m *Manager) eligibleCreatesLocked(run *flushRun) []*pendingCreate {
	headroom := -1
	if m.cap > 0 {
		headroom = m.cap - len(m.listings) - m.pendingNew
	}

	now := m.now()
	var batch []*pendingCreate
	for _, pc := range m.sortedCreatesLocked() {
		if len(batch) >= m.cfg.BatchSize {
			break
		}
		if pc.seq > run.startSeq {
			continue
		}
		if w, ok := m.waits[pc.key]; ok && w == m.inventoryTime && pc.attempted && pc.attempt == m.inventoryTime {
			continue
		}
		if at, ok := m.relistAt[pc.key]; ok && now.Before(at) {
			continue
		}
		if m.liveListingLocked(pc.key) == nil {
			if headroom == 0 {
				continue
			}
			if headroom > 0 {
				headroom--
			}
		}
		batch = append(batch, pc)
	}
	return batch
}

func (m *Manager) deletePhase(ctx context.Context, run *flushRun) error {
	m.mu.Lock()
	ids := m.eligibleRemovesLocked(run)
	m.mu.Unlock()

	if len(ids) == 0 {
		return nil
	}

	res, err := m.remote.DeleteListings(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to delete listings: %w", err)
	}

	failed := make(map[string]string, len(res.Errors))
	for _, e := range res.Errors {
		failed[e.ListingID] = e.Message
	}

	m.mu.Lock()
	for _, id := range ids {
		entry, ok := m.removes[id]
		if !ok {
			continue
		}

		if msg, bad := failed[id]; bad {
			run.excluded[id] = true
			entry.failures++
			run.result.Failed++
			m.emitLocked(Event{Type: EventActionError, Phase: PhaseDelete, ListingID: id, Reason: msg})
			if entry.failures >= m.cfg.MaxRemoveFailures {
				run.logger.Warn("Giving up on listing removal", zap.String("listing_id", id), zap.String("reason", msg))
				m.dropRemoveLocked(id)
			}
			continue
		}

		m.dropRemoveLocked(id)
		m.dropListingLocked(id)
		run.result.Removed++
		m.emitLocked(Event{Type: EventListingRemoved, ListingID: id})
	}
	m.queueChangedLocked()
	m.unlock()
	return nil
}

func (m *Manager) createPhase(ctx context.Context, run *flushRun) error {
	m.mu.Lock()
	batch := m.eligibleCreatesLocked(run)
	if len(batch) == 0 {
		m.mu.Unlock()
		return nil
	}

	type marker struct {
		attempt   int64
		attempted bool
	}
	previous := make(map[*pendingCreate]marker, len(batch))
	payload := make([]backpack.CreateListing, 0, len(batch))
	dispatchTime := m.inventoryTime
	for _, pc := range batch {
		previous[pc] = marker{pc.attempt, pc.attempted}
		pc.attempt = dispatchTime
		pc.attempted = true
		m.inflight[pc.key] = pc
		payload = append(payload, pc.payload())
	}
	m.mu.Unlock()

	results, err := m.remote.CreateListings(ctx, payload)

	m.mu.Lock()
	for _, pc := range batch {
		if m.inflight[pc.key] == pc {
			delete(m.inflight, pc.key)
		}
	}
	if err != nil {
		for pc, prev := range previous {
			pc.attempt, pc.attempted = prev.attempt, prev.attempted
		}
		m.mu.Unlock()
		return fmt.Errorf("failed to create listings: %w", err)
	}

	for _, pc := range batch {
		res, found := lookupResult(results, pc)
		m.applyCreateResultLocked(run, pc, res, found, dispatchTime)
	}
	m.queueChangedLocked()
	m.unlock()
	return nil
}

func lookupResult(results map[string]backpack.CreateResult, pc *pendingCreate) (backpack.CreateResult, bool) {
	for _, name := range pc.resultNames() {
		if res, ok := results[name]; ok {
			return res, true
		}
	}
	return backpack.CreateResult{}, false
}

func (m *Manager) applyCreateResultLocked(run *flushRun, pc *pendingCreate, res backpack.CreateResult, found bool, dispatchTime int64) {
	key := pc.key
	log := run.logger.With(zap.String("identity", string(key)))

	if m.creates[key] != pc {
		// Superseded or cancelled while in flight: the newer local state wins.
		if found && res.Created {
			m.pendingNew++
			m.conflicts[key] = true
			run.refresh = true
			log.Debug("Stale create succeeded, replacing its listing")
		}
		return
	}

	switch {
	case !found:
		m.failCreateLocked(run, key, "no result for listing")

	case res.Created:
		m.dropCreateLocked(key)
		// The live listing is now the newest request's.
		delete(m.conflicts, key)
		m.pendingNew++
		run.result.Created++
		m.emitLocked(Event{Type: EventListingCreated, Identity: key})

	case res.Code == backpack.ErrorItemNotInInventory || (res.Code == backpack.ErrorUnknown && res.Message == ""):
		if w, ok := m.waits[key]; ok && w == dispatchTime {
			m.failCreateLocked(run, key, fmt.Sprintf("%s after inventory %d", backpack.ErrorItemNotInInventory, dispatchTime))
			return
		}
		m.waits[key] = dispatchTime
		run.result.Retrying++
		log.Debug("Waiting for inventory", zap.Int64("inventory", dispatchTime))

	case res.Code == backpack.ErrorRelistTimeout || res.AlreadyExists():
		if m.relists[key] {
			m.failCreateLocked(run, key, reason(res))
			return
		}
		m.relists[key] = true
		if res.Retry.After(m.now()) {
			m.relistAt[key] = res.Retry
		}
		run.result.Retrying++
		if !m.scheduleRemovalLocked(key) {
			m.conflicts[key] = true
			run.refresh = true
		}
		log.Debug("Relisting after removing the existing listing", zap.String("reason", reason(res)))

	default:
		m.failCreateLocked(run, key, reason(res))
	}
}

func (m *Manager) failCreateLocked(run *flushRun, key identity.Key, why string) {
	m.dropCreateLocked(key)
	run.result.Failed++
	m.emitLocked(Event{Type: EventActionError, Phase: PhaseCreate, Identity: key, Reason: why})
}

func reason(res backpack.CreateResult) string {
	if res.Message != "" {
		return res.Message
	}
	return res.Code.String()
}
