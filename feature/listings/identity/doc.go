// Package identity resolves the deduplication key of a listing.
//
// Buy orders collapse by canonical item name, quality, craftability and
// effect, so two descriptors the marketplace treats as the same order share
// one key. Sell orders are keyed by inventory asset id.
package identity
