package backpack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"listing-manager/core/utils"
)

// Client talks to the backpack.tf classifieds API.
type Client struct {
	cfg  *Config
	api  *resty.Client
	site *resty.Client
}

// NewClient creates a classifieds client from cfg.
// ErrMissingToken is returned when no token is configured.
func NewClient(cfg *Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, ErrMissingToken
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	retryOn5xx := func(r *resty.Response, err error) bool {
		return r != nil && r.StatusCode() >= 500
	}

	api := resty.New().
		SetBaseURL(strings.TrimRight(cfg.APIURL, "/")).
		SetTimeout(timeout).
		SetHeader("User-Agent", "listing-manager/1.0").
		SetHeader("Accept", "application/json").
		SetQueryParam("token", cfg.Token).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		AddRetryCondition(retryOn5xx)

	site := resty.New().
		SetBaseURL(strings.TrimRight(cfg.InventoryURL, "/")).
		SetTimeout(timeout).
		SetHeader("User-Agent", "listing-manager/1.0").
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		AddRetryCondition(retryOn5xx)

	return &Client{cfg: cfg, api: api, site: site}, nil
}

// GetListings fetches every listing the account currently has.
func (c *Client) GetListings(ctx context.Context) (*ListingsResponse, error) {
	resp, err := c.api.R().SetContext(ctx).Get("/classifieds/listings/v1")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}

	var out ListingsResponse
	if err := decode(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("failed to decode listings: %w", err)
	}
	return &out, nil
}

type createResponse struct {
	Listings map[string]struct {
		Created any `json:"created"`
		Error   any `json:"error"`
		Retry   any `json:"retry"`
	} `json:"listings"`
}

// CreateListings submits a create batch. The result is keyed by whatever name
// the marketplace assigned to each element (asset id or item name).
func (c *Client) CreateListings(ctx context.Context, listings []CreateListing) (map[string]CreateResult, error) {
	resp, err := c.api.R().
		SetContext(ctx).
		SetBody(map[string]any{"listings": listings}).
		Post("/classifieds/list/v1")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}

	var raw createResponse
	if err := decode(resp.Body(), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode create response: %w", err)
	}

	out := make(map[string]CreateResult, len(raw.Listings))
	for name, r := range raw.Listings {
		res := CreateResult{Code: ErrorOK}
		switch e := r.Error.(type) {
		case nil:
			res.Created = utils.ToBool(r.Created)
			if !res.Created {
				res.Failed = true
				res.Code = ErrorUnknown
			}
		case json.Number:
			res.Failed = true
			res.Code = ErrorCode(utils.ToInt(e))
			res.Message = res.Code.String()
		case string:
			res.Failed = true
			res.Code = ErrorUnknown
			if n, convErr := strconv.Atoi(e); convErr == nil {
				res.Code = ErrorCode(n)
			}
			res.Message = e
		default:
			res.Failed = true
			res.Code = ErrorUnknown
			res.Message = utils.ToString(e)
		}
		if ts := utils.ToInt(r.Retry); ts > 0 {
			res.Retry = time.Unix(int64(ts), 0)
		}
		out[name] = res
	}
	return out, nil
}

// DeleteListings removes listings by id.
func (c *Client) DeleteListings(ctx context.Context, ids []string) (*DeleteResult, error) {
	resp, err := c.api.R().
		SetContext(ctx).
		SetBody(map[string]any{"listing_ids": ids}).
		Delete("/classifieds/delete/v1")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}

	var out DeleteResult
	if err := decode(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("failed to decode delete response: %w", err)
	}
	return &out, nil
}

// Heartbeat bumps every listing and returns how many were bumped.
func (c *Client) Heartbeat(ctx context.Context) (int, error) {
	resp, err := c.api.R().
		SetContext(ctx).
		SetBody(map[string]string{"automatic": "all"}).
		Post("/aux/heartbeat/v1")
	if err := checkResponse(resp, err); err != nil {
		return 0, err
	}

	var out struct {
		Bumped any `json:"bumped"`
	}
	if err := decode(resp.Body(), &out); err != nil {
		return 0, fmt.Errorf("failed to decode heartbeat response: %w", err)
	}
	return utils.ToInt(out.Bumped), nil
}

// RefreshInventory asks the marketplace to reload the inventory of steamID.
func (c *Client) RefreshInventory(ctx context.Context, steamID string) (*InventoryStatus, error) {
	if err := ValidateSteamID(steamID); err != nil {
		return nil, err
	}

	resp, err := c.site.R().SetContext(ctx).Get("/_inventory/" + steamID)
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}

	var raw struct {
		Status struct {
			ID    any    `json:"id"`
			Text  string `json:"text"`
			Extra string `json:"extra"`
		} `json:"status"`
		Time struct {
			Timestamp any `json:"timestamp"`
		} `json:"time"`
	}
	if err := decode(resp.Body(), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode inventory status: %w", err)
	}

	status := &InventoryStatus{
		Timestamp: int64(utils.ToInt(raw.Time.Timestamp)),
		Available: utils.ToInt(raw.Status.ID) != -1,
		Message:   raw.Status.Text,
	}
	if !status.Available {
		if raw.Status.Extra != "" {
			status.Message = fmt.Sprintf("%s (%s)", raw.Status.Text, raw.Status.Extra)
		}
		return status, fmt.Errorf("inventory unavailable: %s", status.Message)
	}
	return status, nil
}

func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if !resp.IsError() {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode()}
	var body struct {
		Message string `json:"message"`
	}
	if decode(resp.Body(), &body) == nil {
		apiErr.Message = body.Message
	}
	if resp.StatusCode() == http.StatusTooManyRequests {
		if secs, convErr := strconv.Atoi(resp.Header().Get("Retry-After")); convErr == nil {
			apiErr.RetryAfter = time.Duration(secs) * time.Second
		}
	}
	return apiErr
}

func decode(body []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	return dec.Decode(out)
}
