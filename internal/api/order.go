package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"

	"github.com/bondx/storefront/internal/domain/order"
)

// errorResponse is the backend's error body shape.
type errorResponse struct {
	Message string `json:"message"`
}

// Place submits an order-creation request. Any 2xx status counts as success
// and the body is parsed into a confirmation. A 400 whose body carries a
// message becomes *order.RejectedError with that message verbatim. Every
// other status and any transport failure is an opaque error.
func (c *Client) Place(ctx context.Context, req order.Request) (*order.Confirmation, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "encode order")
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, bytes.NewReader(body), "api", "orders")
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "send order")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var conf order.Confirmation
		if err := json.NewDecoder(resp.Body).Decode(&conf); err != nil {
			return nil, errors.Wrap(err, "decode confirmation")
		}
		return &conf, nil

	case resp.StatusCode == http.StatusBadRequest:
		var er errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&er); err != nil || er.Message == "" {
			// A 400 without a readable message is just an opaque failure.
			return nil, errors.Errorf("create order: unexpected status %s", resp.Status)
		}
		return nil, &order.RejectedError{Message: er.Message}

	default:
		return nil, errors.Errorf("create order: unexpected status %s", resp.Status)
	}
}
