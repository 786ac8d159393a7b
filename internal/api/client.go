// Package api implements the HTTP client for the external storefront
// backend: the read-only product catalog and the order-creation endpoint.
package api

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/go-faster/errors"

	"github.com/bondx/storefront/internal/domain/order"
	"github.com/bondx/storefront/internal/domain/product"
)

// Compile-time checks: the Client serves both external collaborator roles.
var (
	_ product.Lookup = (*Client)(nil)
	_ order.Placer   = (*Client)(nil)
)

// ClientConfig holds the backend connection settings.
type ClientConfig struct {
	// BaseURL is the backend root, e.g. https://shop.example.com.
	BaseURL string
	// APIKey, when set, is sent as the api_key header on every request.
	APIKey string
}

// Client talks to the backend over HTTP.
type Client struct {
	base   *url.URL
	apiKey string
	http   *http.Client
}

// NewClient validates the base URL and returns a Client. A nil httpClient
// falls back to http.DefaultClient.
func NewClient(cfg ClientConfig, httpClient *http.Client) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse base URL")
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errors.Errorf("base URL %q must be absolute", cfg.BaseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		base:   base,
		apiKey: cfg.APIKey,
		http:   httpClient,
	}, nil
}

func (c *Client) newRequest(ctx context.Context, method string, body io.Reader, parts ...string) (*http.Request, error) {
	u := c.base.JoinPath(parts...)
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("api_key", c.apiKey)
	}
	return req, nil
}
