package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bondx/storefront/internal/domain/order"
	"github.com/bondx/storefront/internal/domain/product"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(ClientConfig{BaseURL: srv.URL}, srv.Client())
	require.NoError(t, err)
	return c
}

func sampleRequest() order.Request {
	return order.Request{
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Address: "12 Analytical Way",
		Total:   1300,
		Items: []order.Item{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
	}
}

func TestNewClient_RejectsRelativeURL(t *testing.T) {
	_, err := NewClient(ClientConfig{BaseURL: "localhost:8080"}, nil)
	require.Error(t, err)
}

func TestList(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/products", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":1,"name":"Neural Visor","description":"HUD","price":129900,"imageUrl":"v.jpg","category":"wearables","features":["retinal tracking"]},
			{"id":2,"name":"Signal Jammer","price":4500,"category":"gadgets"}
		]`))
	}))

	products, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, int64(1), products[0].ID)
	assert.Equal(t, "Neural Visor", products[0].Name)
	assert.Equal(t, int64(129900), products[0].Price)
	assert.Equal(t, []string{"retinal tracking"}, products[0].Features)
	assert.Equal(t, "gadgets", products[1].Category)
}

func TestList_ServerError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := c.List(context.Background())
	require.Error(t, err)
}

func TestGetByID(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/7", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":7,"name":"Drone","price":19900}`))
	}))

	p, err := c.GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.ID)
	assert.Equal(t, "Drone", p.Name)
}

func TestGetByID_NotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message":"product not found"}`, http.StatusNotFound)
	}))

	_, err := c.GetByID(context.Background(), 99)
	require.ErrorIs(t, err, product.ErrNotFound)
}

func TestPlace_Success(t *testing.T) {
	var received order.Request
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/orders", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":42,"name":"Ada Lovelace","total":1300}`))
	}))

	conf, err := c.Place(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(42), conf.ID)
	assert.Equal(t, sampleRequest(), received, "payload goes over the wire unchanged")
}

func TestPlace_BadRequestSurfacesMessage(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"Invalid address"}`))
	}))

	_, err := c.Place(context.Background(), sampleRequest())

	var rejected *order.RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "Invalid address", rejected.Message)
}

func TestPlace_BadRequestWithoutMessageIsOpaque(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("nope"))
	}))

	_, err := c.Place(context.Background(), sampleRequest())

	require.Error(t, err)
	var rejected *order.RejectedError
	assert.False(t, errors.As(err, &rejected), "unreadable 400 body is not a structured rejection")
}

func TestPlace_UnexpectedStatus(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := c.Place(context.Background(), sampleRequest())

	require.Error(t, err)
	var rejected *order.RejectedError
	assert.False(t, errors.As(err, &rejected))
}

func TestPlace_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c, err := NewClient(ClientConfig{BaseURL: srv.URL}, srv.Client())
	require.NoError(t, err)
	srv.Close()

	_, err = c.Place(context.Background(), sampleRequest())
	require.Error(t, err)
}

func TestAPIKeyHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sk-test", r.Header.Get("api_key"))
		w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(ClientConfig{BaseURL: srv.URL, APIKey: "sk-test"}, srv.Client())
	require.NoError(t, err)

	_, err = c.List(context.Background())
	require.NoError(t, err)
}
