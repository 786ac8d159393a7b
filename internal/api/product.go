package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-faster/errors"

	"github.com/bondx/storefront/internal/domain/product"
)

// List returns every product in the catalog.
func (c *Client) List(ctx context.Context) ([]product.Product, error) {
	req, err := c.newRequest(ctx, http.MethodGet, nil, "api", "products")
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("list products: unexpected status %s", resp.Status)
	}

	var out []product.Product
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errors.Wrap(err, "decode products")
	}
	return out, nil
}

// GetByID returns a single product, or product.ErrNotFound when the backend
// reports 404.
func (c *Client) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	req, err := c.newRequest(ctx, http.MethodGet, nil, "api", "products", strconv.FormatInt(id, 10))
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "get product")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, product.ErrNotFound
	default:
		return nil, errors.Errorf("get product %d: unexpected status %s", id, resp.Status)
	}

	var p product.Product
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, errors.Wrap(err, "decode product")
	}
	return &p, nil
}
