package listings

import (
	"errors"

	"listing-manager/feature/listings/identity"
)

var (
	// ErrNotReady is returned by enqueue calls before Init has completed.
	ErrNotReady = errors.New("listing manager is not ready")
	// ErrNoPrice is returned when a create request carries no currencies.
	ErrNoPrice = errors.New("listing has no price")
	// ErrUnknownIntent is returned for intents other than buy and sell.
	ErrUnknownIntent = errors.New("unknown listing intent")
	// ErrInvalidItem is returned when the item cannot be resolved.
	ErrInvalidItem = identity.ErrInvalidItem
	// ErrStopped is returned by operations after Stop.
	ErrStopped = errors.New("listing manager is stopped")
)
