package listings

import (
	"context"
	"sort"
	"sync"
	"time"

	"listing-manager/core/backpack"
	"listing-manager/core/scheduler"
	"listing-manager/core/schema"
	"listing-manager/core/sku"
	"listing-manager/feature/listings/identity"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Manager owns the listing cache and the action queue of one account.
//
// All queue state is guarded by mu. Remote calls are made without holding
// it; events raised under the lock are buffered in outbox and published by
// unlock.
type Manager struct {
	cfg      Config
	steamID  string
	remote   Remote
	schema   schema.Lookup
	resolver *identity.Resolver
	logger   *zap.Logger
	sinks    []SnapshotSink
	now      func() time.Time
	bus      *bus

	mu            sync.Mutex
	ready         bool
	stopped       bool
	listings      []*Listing
	cap           int
	promotes      int
	pendingNew    int
	inventoryTime int64
	inventoryAt   time.Time

	seq       uint64
	creates   map[identity.Key]*pendingCreate
	removes   map[string]*pendingRemove
	inflight  map[identity.Key]*pendingCreate
	replacing map[string]identity.Key
	// Retry bookkeeping, keyed by identity so it survives supersession.
	waits   map[identity.Key]int64
	relists map[identity.Key]bool
	// relistAt holds relisting creates until the marketplace allows them.
	relistAt map[identity.Key]time.Time
	// conflicts are identities whose live listing must be removed as soon
	// as it shows up in the cache.
	conflicts map[identity.Key]bool

	flushing   bool
	flushAgain bool
	outbox     []Event

	debounce  scheduler.Timer
	relist    scheduler.Timer
	intervals *scheduler.Intervals
	sf        singleflight.Group
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// Option customizes a Manager.
type Option func(*Manager)

// WithSnapshotSink registers a sink for full refresh snapshots.
func WithSnapshotSink(s SnapshotSink) Option {
	return func(m *Manager) {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a manager for the account steamID.
func NewManager(cfg Config, steamID string, remote Remote, lookup schema.Lookup, logger *zap.Logger, opts ...Option) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		cfg:       cfg.withDefaults(),
		steamID:   steamID,
		remote:    remote,
		schema:    lookup,
		resolver:  identity.NewResolver(lookup),
		logger:    logger,
		now:       time.Now,
		bus:       newBus(),
		cap:       -1,
		promotes:  -1,
		creates:   make(map[identity.Key]*pendingCreate),
		removes:   make(map[string]*pendingRemove),
		inflight:  make(map[identity.Key]*pendingCreate),
		replacing: make(map[string]identity.Key),
		waits:     make(map[identity.Key]int64),
		relists:   make(map[identity.Key]bool),
		relistAt:  make(map[identity.Key]time.Time),
		conflicts: make(map[identity.Key]bool),
		intervals: scheduler.NewIntervals(logger),
		ctx:       ctx,
		cancel:    cancel,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Subscribe registers h for every event. The returned func unsubscribes.
func (m *Manager) Subscribe(h EventHandler) func() {
	return m.bus.subscribe(h)
}

// Ready reports whether Init has completed.
func (m *Manager) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ready
}

// Resolver returns the identity resolver used by the manager.
func (m *Manager) Resolver() *identity.Resolver {
	return m.resolver
}

// Listings returns the cached listings.
func (m *Manager) Listings() []*Listing {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*Listing, len(m.listings))
	copy(out, m.listings)
	return out
}

// FindListing returns the cached listing for an item (buy) or asset (sell).
func (m *Manager) FindListing(intent backpack.Intent, item *sku.Item, assetID string) *Listing {
	key, err := m.resolver.Resolve(intent, item, assetID)
	if err != nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.liveListingLocked(key)
}

// FindListings returns every cached listing of the given SKU, both intents.
func (m *Manager) FindListings(s string) []*Listing {
	item, err := sku.Parse(s)
	if err != nil {
		return nil
	}
	want := item.String()

	var out []*Listing
	for _, l := range m.Listings() {
		if l.SKU() == want {
			out = append(out, l)
		}
	}
	return out
}

// Queue returns a consistent copy of the action queue.
func (m *Manager) Queue() QueueState {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := QueueState{
		Ready:         m.ready,
		Flushing:      m.flushing,
		InventoryTime: m.inventoryTime,
		Cap:           m.cap,
		Promotes:      m.promotes,
		PendingNew:    m.pendingNew,
		Creates:       make([]QueuedCreate, 0, len(m.creates)),
		Removes:       make([]QueuedRemove, 0, len(m.removes)),
	}

	for _, pc := range m.sortedCreatesLocked() {
		qc := QueuedCreate{
			Identity:   pc.key,
			Intent:     pc.req.Intent.String(),
			AssetID:    pc.req.AssetID,
			Currencies: pc.req.Currencies,
			Enqueued:   pc.req.Time,
			Relisting:  m.relists[pc.key],
			RetryAt:    m.relistAt[pc.key],
			InFlight:   m.inflight[pc.key] == pc,
		}
		if pc.req.Item != nil {
			qc.SKU = pc.req.Item.String()
		}
		if w, ok := m.waits[pc.key]; ok {
			qc.WaitingOn = w
		}
		state.Creates = append(state.Creates, qc)
	}

	ids := make([]string, 0, len(m.removes))
	for id := range m.removes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		state.Removes = append(state.Removes, QueuedRemove{ListingID: id, Failures: m.removes[id].failures})
	}

	return state
}

// unlock releases mu and publishes the events buffered under it.
func (m *Manager) unlock() {
	events := m.outbox
	m.outbox = nil
	m.mu.Unlock()
	m.bus.publish(events)
}

func (m *Manager) emitLocked(e Event) {
	m.outbox = append(m.outbox, e)
}

func (m *Manager) queueChangedLocked() {
	m.emitLocked(Event{Type: EventQueueChanged, Creates: len(m.creates), Removes: len(m.removes)})
}

func (m *Manager) sortedCreatesLocked() []*pendingCreate {
	out := make([]*pendingCreate, 0, len(m.creates))
	for _, pc := range m.creates {
		out = append(out, pc)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].req.Time.Equal(out[j].req.Time) {
			return out[i].req.Time.Before(out[j].req.Time)
		}
		return out[i].key < out[j].key
	})
	return out
}

func (m *Manager) liveListingLocked(key identity.Key) *Listing {
	for _, l := range m.listings {
		if l.Identity() == key {
			return l
		}
	}
	return nil
}

func (m *Manager) listingByIDLocked(id string) *Listing {
	for _, l := range m.listings {
		if l.ID == id {
			return l
		}
	}
	return nil
}

func (m *Manager) dropListingLocked(id string) {
	for i, l := range m.listings {
		if l.ID == id {
			m.listings = append(m.listings[:i], m.listings[i+1:]...)
			return
		}
	}
}

// dropCreateLocked removes a pending create and every marker attached to
// its identity.
func (m *Manager) dropCreateLocked(key identity.Key) {
	delete(m.creates, key)
	delete(m.waits, key)
	delete(m.relists, key)
	delete(m.relistAt, key)
	for id, k := range m.replacing {
		if k == key {
			delete(m.replacing, id)
		}
	}
}

func (m *Manager) dropRemoveLocked(id string) {
	delete(m.removes, id)
	delete(m.replacing, id)
}

// scheduleRemovalLocked adds an engine-scheduled remove for the live
// listing of key. When a create for key is pending the remove is linked as
// its replacement. It reports false when the listing is not cached.
func (m *Manager) scheduleRemovalLocked(key identity.Key) bool {
	l := m.liveListingLocked(key)
	if l == nil {
		return false
	}

	if entry, ok := m.removes[l.ID]; ok {
		entry.internal = true
	} else {
		m.removes[l.ID] = &pendingRemove{internal: true}
	}
	if _, ok := m.creates[key]; ok {
		m.replacing[l.ID] = key
	}
	return true
}

func (m *Manager) queueEmptyLocked() bool {
	return len(m.creates) == 0 && len(m.removes) == 0
}
