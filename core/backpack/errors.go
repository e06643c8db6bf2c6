package backpack

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"regexp"
	"time"
)

// ErrorCode is the structured per-item failure reason of the create endpoint.
type ErrorCode int

const (
	ErrorUnknown                  ErrorCode = -1
	ErrorOK                       ErrorCode = 0
	ErrorItemNotInInventory       ErrorCode = 1
	ErrorInvalidItem              ErrorCode = 2
	ErrorItemNotListable          ErrorCode = 3
	ErrorItemNotTradable          ErrorCode = 4
	ErrorMarketplaceItemNotPriced ErrorCode = 5
	ErrorRelistTimeout            ErrorCode = 6
	ErrorListingCapExceeded       ErrorCode = 7
	ErrorCurrenciesNotSpecified   ErrorCode = 8
	ErrorCyclicCurrency           ErrorCode = 9
	ErrorPriceNotSpecified        ErrorCode = 10
	ErrorUnknownIntent            ErrorCode = 11
)

var errorCodeNames = map[ErrorCode]string{
	ErrorOK:                       "OK",
	ErrorItemNotInInventory:       "ItemNotInInventory",
	ErrorInvalidItem:              "InvalidItem",
	ErrorItemNotListable:          "ItemNotListable",
	ErrorItemNotTradable:          "ItemNotTradable",
	ErrorMarketplaceItemNotPriced: "MarketplaceItemNotPriced",
	ErrorRelistTimeout:            "RelistTimeout",
	ErrorListingCapExceeded:       "ListingCapExceeded",
	ErrorCurrenciesNotSpecified:   "CurrenciesNotSpecified",
	ErrorCyclicCurrency:           "CyclicCurrency",
	ErrorPriceNotSpecified:        "PriceNotSpecified",
	ErrorUnknownIntent:            "UnknownIntent",
}

// String returns the marketplace name of the code.
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", int(c))
}

var (
	// ErrMissingToken is returned when no access token is configured.
	ErrMissingToken = errors.New("no access token set")
	// ErrInvalidSteamID is returned when the account id is not a SteamID64.
	ErrInvalidSteamID = errors.New("invalid steamid64")
)

var steamID64 = regexp.MustCompile(`^7656119\d{10}$`)

// ValidateSteamID checks that id looks like an individual account SteamID64.
func ValidateSteamID(id string) error {
	if !steamID64.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidSteamID, id)
	}
	return nil
}

// APIError is a transport-level failure: a non-2xx response outside the
// per-item error channel.
type APIError struct {
	StatusCode int
	Message    string
	// RetryAfter is the server supplied wait for 429 responses.
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backpack.tf: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("backpack.tf: HTTP %d: %s", e.StatusCode, e.Message)
}

// IsRetryable reports whether err is a transport failure worth retrying:
// rate limiting, 5xx responses, network errors and timeouts.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// RetryAfter extracts the server supplied wait from err, or 0.
func RetryAfter(err error) time.Duration {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.RetryAfter
	}
	return 0
}
