package product

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item available for purchase. Price is in minor
// currency units (cents).
type Product struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       int64    `json:"price"`
	ImageURL    string   `json:"imageUrl"`
	Category    string   `json:"category"`
	Features    []string `json:"features"`
}

// Lookup defines read operations against the external product catalog.
type Lookup interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
}
