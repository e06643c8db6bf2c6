// Package backpack is a thin client for the backpack.tf classifieds API.
// It covers listing fetch, batch create, batch delete, heartbeat and the
// inventory refresh endpoint. Per-item create failures are returned as
// CreateResult values; only transport failures surface as errors.
package backpack
