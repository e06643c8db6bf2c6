// Package store keeps the latest listing snapshot of each account in SQL.
//
// Every full refetch replaces the account's rows in the listings table and
// appends a header to listing_snapshots. The store is registered on the
// manager with listings.WithSnapshotSink.
package store
