// Package listings keeps an account's backpack.tf listings in line with the
// caller's intent.
//
// # Action queue
//
// Callers enqueue creates and removes. Creates are keyed by identity (see
// package identity): one pending create per identity, the newest by enqueue
// time wins. A remove cancels a pending create for the same identity that
// has not been submitted yet, unless that create replaces the listing.
//
// # Flush
//
// A debounced flush submits removes first, then creates in batches of
// Config.BatchSize. Per-item failures are interpreted individually:
//
//   - ItemNotInInventory waits for the next inventory timestamp, once.
//   - RelistTimeout or "already exists" removes the conflicting listing and
//     retries, once.
//   - Anything else is reported through an action-error event and dropped.
//
// Transport failures leave the queue untouched and are retried with
// backoff up to Config.FlushAttempts.
//
// # Sync
//
// Heartbeat and inventory refresh run on intervals. A full listing refetch
// replaces the cache after every empty flush and every heartbeat.
package listings
