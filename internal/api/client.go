// Package api is the typed surface of the ImageRouter HTTP API. It owns
// endpoint paths and request/response shapes; transport concerns (auth,
// retries, caching) live in httpclient.
package api

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/imagerouter/imagerouter-go/internal/httpclient"
)

const (
	pathModels   = "/v1/models"
	pathCredits  = "/v1/credits"
	pathAuthTest = "/v1/auth/test"

	pathVideoGenerations = "/v1/openai/videos/generations"
	pathImageGenerations = "/v1/openai/images/generations"
	pathImageEdits       = "/v1/openai/images/edits"
)

// Client calls ImageRouter endpoints over an authenticated transport.
type Client struct {
	hc *httpclient.Client
}

func New(hc *httpclient.Client) *Client {
	return &Client{hc: hc}
}

// ModelCatalog fetches the raw model list. The payload is handed to the
// catalog package verbatim; its schema belongs to the service.
func (c *Client) ModelCatalog(ctx context.Context) ([]byte, error) {
	resp, err := c.hc.Get(ctx, pathModels)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Credits is the account balance report.
type Credits struct {
	Remaining decimal.Decimal `json:"remaining_credits"`
	Usage     decimal.Decimal `json:"credit_usage"`
	Deposits  decimal.Decimal `json:"total_deposits"`
}

// Credits fetches the account balance.
func (c *Client) Credits(ctx context.Context) (*Credits, error) {
	var out Credits
	if err := c.hc.GetJSON(ctx, pathCredits, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TestAuth validates the configured API key against the service.
func (c *Client) TestAuth(ctx context.Context) error {
	return c.hc.PostJSON(ctx, pathAuthTest, struct{}{}, nil)
}
